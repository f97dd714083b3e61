package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// matchesKey reports whether the configured binding matches the event.
// Single characters match by rune; the names "enter" and "esc" match the
// corresponding special keys.
func matchesKey(binding string, event *tcell.EventKey) bool {
	switch strings.ToLower(binding) {
	case "":
		return false
	case "enter":
		return event.Key() == tcell.KeyEnter
	case "esc", "escape":
		return event.Key() == tcell.KeyEscape
	}
	return event.Key() == tcell.KeyRune && string(event.Rune()) == binding
}

// bindKeys installs the global input capture
func (a *App) bindKeys() {
	a.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// Pickers route their own keys
		switch a.GetFocus().(type) {
		case *tview.InputField, *tview.List:
			return event
		}

		if matchesKey(a.Keys.CloseDialog, event) {
			if a.closeTopDialog() {
				return nil
			}
			if a.helpVisible {
				a.toggleHelp()
				return nil
			}
			return event
		}
		if matchesKey(a.Keys.OpenDetail, event) {
			if !a.dialogOpen() && !a.helpVisible {
				a.openItemDetail()
				return nil
			}
			return event
		}
		if a.handleConfigurableKey(event) {
			return nil
		}
		return event
	})
}

// handleConfigurableKey dispatches single-character shortcuts from the
// key bindings config. Returns true when the event was consumed.
func (a *App) handleConfigurableKey(event *tcell.EventKey) bool {
	if event.Key() != tcell.KeyRune {
		return false
	}
	key := string(event.Rune())

	switch key {
	case a.Keys.NextItem:
		a.moveSelection(1)
		a.refreshOpenDetail()
		return true
	case a.Keys.PrevItem:
		a.moveSelection(-1)
		a.refreshOpenDetail()
		return true
	case a.Keys.LoadMore:
		if a.logger != nil {
			a.logger.Printf("shortcut '%s' -> load_more", key)
		}
		a.loadMore()
		return true
	case a.Keys.OpenFull:
		if a.logger != nil {
			a.logger.Printf("shortcut '%s' -> open_full", key)
		}
		a.openItemFull()
		return true
	case a.Keys.Conversations:
		a.openConversationPicker()
		return true
	case a.Keys.ThemePicker:
		a.openThemePicker()
		return true
	case a.Keys.Help:
		a.toggleHelp()
		return true
	case a.Keys.Quit:
		if a.logger != nil {
			a.logger.Printf("shortcut '%s' -> quit", key)
		}
		a.Stop()
		return true
	}
	return false
}

// toggleHelp shows or hides the help overlay
func (a *App) toggleHelp() {
	if a.helpVisible {
		a.Pages.HidePage("help")
		a.helpVisible = false
		a.focusItems()
		return
	}
	if tv, ok := a.views["helpText"].(*tview.TextView); ok {
		tv.SetText(a.generateHelpText())
	}
	a.Pages.ShowPage("help")
	a.helpVisible = true
}

// generateHelpText lists the active bindings
func (a *App) generateHelpText() string {
	var b strings.Builder
	b.WriteString("ChatGallery — media over your archived conversations\n\n")
	rows := []struct {
		key    string
		action string
	}{
		{a.Keys.NextItem, "Next item"},
		{a.Keys.PrevItem, "Previous item"},
		{a.Keys.LoadMore, "Load more (older pages)"},
		{a.Keys.OpenDetail, "Open item detail"},
		{a.Keys.OpenFull, "Open media in external viewer"},
		{a.Keys.CloseDialog, "Close dialog / help"},
		{a.Keys.Conversations, "Pick a conversation"},
		{a.Keys.ThemePicker, "Pick a theme"},
		{a.Keys.Help, "Toggle this help"},
		{a.Keys.Quit, "Quit"},
	}
	for _, row := range rows {
		if row.key == "" {
			continue
		}
		fmt.Fprintf(&b, "  %-7s %s\n", row.key, row.action)
	}
	b.WriteString("\nArrow keys also move the selection. Items fetch in the\n")
	b.WriteString("background; pending ones show ⏳ until their media lands.")
	return b.String()
}
