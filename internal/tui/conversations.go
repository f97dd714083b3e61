package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"chatgallery/internal/db"
)

// loadConversations fetches the conversation list off the event loop. With
// autoOpen set, the most recently active conversation is opened once it is
// known; the picker start screen is skipped for archives with content.
func (a *App) loadConversations(autoOpen bool) {
	if a.store == nil {
		return
	}
	convs, err := a.store.Conversations(a.ctx)
	if err != nil {
		if a.logger != nil {
			a.logger.Printf("listing conversations: %v", err)
		}
		a.Dispatch(func() {
			a.showError(fmt.Sprintf("Failed to list conversations: %v", err))
		})
		return
	}
	a.Dispatch(func() {
		if len(convs) == 0 {
			a.setStatusPersistent("Archive is empty; seed it and restart")
			return
		}
		if autoOpen && a.gallery == nil {
			a.openConversation(convs[0])
		}
	})
}

// openConversationPicker shows a centered picker over the archive's
// conversations, searchable by id
func (a *App) openConversationPicker() {
	if a.store == nil {
		a.showError("Archive store not available")
		return
	}
	if a.logger != nil {
		a.logger.Printf("opening conversation picker")
	}

	input := tview.NewInputField().SetLabel("🔍 Search: ").SetFieldWidth(30)
	list := tview.NewList().ShowSecondaryText(true)
	list.SetBorder(false)

	var all []db.ConversationInfo

	reload := func(filter string) {
		list.Clear()
		for _, conv := range all {
			if filter != "" && !strings.Contains(strings.ToLower(conv.ID), strings.ToLower(filter)) {
				continue
			}
			marker := "○"
			if a.conversation != nil && conv.ID == a.conversation.ID {
				marker = "✅"
			}
			conv := conv
			main := fmt.Sprintf("%s %s", marker, conv.ID)
			secondary := fmt.Sprintf("   %d messages · %d with media · last %s",
				conv.Messages, conv.MediaMessages, conv.LastActivity.Format("2006-01-02"))
			list.AddItem(main, secondary, 0, func() {
				a.closeConversationPicker()
				a.openConversation(conv)
			})
		}
	}

	// Load in background, then wire up filtering
	go func() {
		convs, err := a.store.Conversations(a.ctx)
		if err != nil {
			if a.logger != nil {
				a.logger.Printf("conversation picker: %v", err)
			}
			a.Dispatch(func() {
				a.showError(fmt.Sprintf("Failed to list conversations: %v", err))
			})
			return
		}
		a.Dispatch(func() {
			all = convs
			reload("")
			input.SetChangedFunc(func(text string) {
				reload(strings.TrimSpace(text))
			})
		})
	}()

	input.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape:
			a.closeConversationPicker()
			return nil
		case tcell.KeyDown, tcell.KeyTab, tcell.KeyEnter:
			if list.GetItemCount() > 0 {
				a.SetFocus(list)
			}
			return nil
		}
		return event
	})
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			a.closeConversationPicker()
			return nil
		}
		return event
	})

	container := tview.NewFlex().SetDirection(tview.FlexRow)
	container.SetBorder(true).
		SetTitle(" 💬 Conversations ").
		SetTitleAlign(tview.AlignCenter)
	container.SetBackgroundColor(tview.Styles.PrimitiveBackgroundColor)
	container.SetBorderColor(a.focusColor)
	container.AddItem(input, 1, 0, true)
	container.AddItem(list, 0, 1, false)

	a.Pages.AddPage("conversations", centered(container, 64, 20), true, true)
	a.SetFocus(input)
}

// closeConversationPicker removes the picker page and restores focus
func (a *App) closeConversationPicker() {
	a.Pages.RemovePage("conversations")
	a.focusItems()
}
