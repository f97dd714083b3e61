package tui

import (
	"log"
	"os"
	"path/filepath"

	"chatgallery/internal/config"
)

// initLogger initializes the file logger under ~/.config/chatgallery if possible
func (a *App) initLogger() {
	if a.logger != nil && a.logFile != nil {
		return
	}
	logPath := ""
	if a.Config != nil && a.Config.LogFile != "" {
		logPath = a.Config.LogFile
	} else {
		logDir := config.DefaultLogDir()
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return
		}
		logPath = filepath.Join(logDir, "chatgallery.log")
	}
	if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		a.logFile = f
		a.logger = log.New(f, "[chatgallery] ", log.LstdFlags|log.Lmicroseconds)
	}
}

// closeLogger closes the log file if opened
func (a *App) closeLogger() {
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}
