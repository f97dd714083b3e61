package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// openThemePicker shows a picker over the yaml themes in the themes
// directory. Enter applies the theme and persists the choice.
func (a *App) openThemePicker() {
	if a.logger != nil {
		a.logger.Printf("opening theme picker")
	}

	input := tview.NewInputField().SetLabel("🔍 Search: ").SetFieldWidth(30)
	list := tview.NewList().ShowSecondaryText(false)
	list.SetBorder(false)

	var all []string

	reload := func(filter string) {
		list.Clear()
		for _, filename := range all {
			name := strings.TrimSuffix(filename, ".yaml")
			if filter != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(filter)) {
				continue
			}
			marker := "○"
			if a.Config != nil && name == a.Config.Layout.CurrentTheme {
				marker = "✅"
			}
			filename := filename
			list.AddItem(fmt.Sprintf("%s %s", marker, name), "", 0, func() {
				a.closeThemePicker()
				a.applyThemeByName(filename)
			})
		}
	}

	go func() {
		themes, err := a.themeLoader.ListAvailableThemes()
		if err != nil {
			if a.logger != nil {
				a.logger.Printf("theme picker: %v", err)
			}
			a.Dispatch(func() {
				a.showError(fmt.Sprintf("Failed to list themes: %v", err))
			})
			return
		}
		a.Dispatch(func() {
			all = themes
			reload("")
			input.SetChangedFunc(func(text string) {
				reload(strings.TrimSpace(text))
			})
		})
	}()

	input.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape:
			a.closeThemePicker()
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
			a.closeThemePicker()
			return nil
		}
		return event
	})

	container := tview.NewFlex().SetDirection(tview.FlexRow)
	container.SetBorder(true).
		SetTitle(" 🎨 Themes ").
		SetTitleAlign(tview.AlignCenter)
	container.SetBackgroundColor(tview.Styles.PrimitiveBackgroundColor)
	container.SetBorderColor(a.focusColor)
	container.AddItem(input, 1, 0, true)
	container.AddItem(list, 0, 1, false)

	a.Pages.AddPage("themes", centered(container, 48, 16), true, true)
	a.SetFocus(input)
}

// closeThemePicker removes the picker page and restores focus
func (a *App) closeThemePicker() {
	a.Pages.RemovePage("themes")
	a.focusItems()
}

// applyThemeByName loads, validates and applies a theme file, then saves
// the choice so it survives restarts
func (a *App) applyThemeByName(filename string) {
	theme, err := a.themeLoader.LoadThemeFromFile(filename)
	if err != nil {
		a.showError(fmt.Sprintf("Failed to load theme: %v", err))
		return
	}
	if err := a.themeLoader.ValidateTheme(theme); err != nil {
		a.showError(fmt.Sprintf("Theme rejected: %v", err))
		return
	}
	if err := a.applyThemeConfig(theme); err != nil {
		a.showError(fmt.Sprintf("Failed to apply theme: %v", err))
		return
	}

	name := strings.TrimSuffix(filename, ".yaml")
	if a.Config != nil {
		a.Config.Layout.CurrentTheme = name
		go func() {
			if err := a.saveConfigAsync(); err != nil && a.logger != nil {
				a.logger.Printf("saving theme preference: %v", err)
			}
		}()
	}
	a.showInfo("Theme applied: " + name)
}
