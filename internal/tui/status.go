package tui

import (
	"fmt"
	"time"

	"github.com/rivo/tview"
)

// refreshStatus repaints the status bar from the current gallery stats
func (a *App) refreshStatus() {
	if status, ok := a.views["status"].(*tview.TextView); ok {
		status.SetText(a.statusBaseline())
	}
}

// statusBaseline builds the persistent status line
func (a *App) statusBaseline() string {
	if a.gallery == nil || a.conversation == nil {
		return fmt.Sprintf("ChatGallery | No conversation | Press %s to pick one | %s help | %s quit",
			a.Keys.Conversations, a.Keys.Help, a.Keys.Quit)
	}
	stats := a.gallery.Stats()
	position := "-"
	if it := a.selectedItem(); it != nil {
		if row, ok := a.rowByKey[it.Key()]; ok {
			position = fmt.Sprintf("%d/%d", row+1, stats.Items)
		}
	}
	line := fmt.Sprintf("ChatGallery | %s | %s | %d loaded · %d pending · %d pages",
		a.conversation.ID, position, stats.Loaded, stats.Pending, stats.PagesLoaded)
	if stats.ActiveResolves > 0 {
		line += fmt.Sprintf(" · %d fetching", stats.ActiveResolves)
	}
	return line + fmt.Sprintf(" | %s help | %s quit", a.Keys.Help, a.Keys.Quit)
}

// showStatusMessage displays a transient message in the status bar
func (a *App) showStatusMessage(msg string) {
	if status, ok := a.views["status"].(*tview.TextView); ok {
		status.SetText(fmt.Sprintf("ChatGallery | %s", msg))
		go func() {
			time.Sleep(3 * time.Second)
			a.Dispatch(func() {
				a.refreshStatus()
			})
		}()
	}
}

// setStatusPersistent sets the status bar text without auto-clearing
func (a *App) setStatusPersistent(msg string) {
	if status, ok := a.views["status"].(*tview.TextView); ok {
		status.SetText(fmt.Sprintf("ChatGallery | %s", msg))
	}
}

// showError shows an error message via status helpers
func (a *App) showError(msg string) {
	if a.logger != nil {
		a.logger.Printf("error: %s", msg)
	}
	a.showStatusMessage("❌ " + msg)
}

// showInfo shows an info message via status helpers
func (a *App) showInfo(msg string) {
	a.showStatusMessage("ℹ️ " + msg)
}
