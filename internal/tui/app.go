package tui

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"chatgallery/internal/config"
	"chatgallery/internal/db"
	"chatgallery/internal/dialog"
	"chatgallery/internal/gallery"
	"chatgallery/internal/render"
)

// App is the terminal shell around the gallery engine: the item table, the
// pickers, the dialog pages and the glue between tview's event loop and the
// engine's owner-goroutine model.
type App struct {
	*tview.Application

	// Pages hosts the main layout plus the dialog and picker overlays
	Pages *tview.Pages

	// Config and Keys drive layout and shortcuts
	Config *config.Config
	Keys   config.KeyBindings

	ctx    context.Context
	cancel context.CancelFunc

	// mu guards the cross-goroutine state below (running flag, screen size)
	mu sync.RWMutex

	// UI components stored by name for easy access
	views map[string]tview.Primitive

	// Archive access
	store    *db.MessageStore
	sessions *db.Sessions
	fetcher  gallery.Fetcher

	// Current conversation state; owned by the event loop goroutine
	conversation *db.ConversationInfo
	gallery      *gallery.Gallery
	rowByKey     map[string]int
	loading      bool
	helpVisible  bool

	viewport    *tableViewport
	renderer    *render.ItemRenderer
	themeLoader *config.ThemeLoader

	currentTheme *config.ColorsConfig
	focusColor   tcell.Color

	running bool
	width   int
	height  int

	logger  *log.Logger
	logFile *os.File
}

// NewApp creates the application shell over an opened archive. The store
// lists conversations, the sessions manager opens read sessions for them,
// and the fetcher resolves item content.
func NewApp(store *db.MessageStore, sessions *db.Sessions, fetcher gallery.Fetcher, cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	themesDir := cfg.Layout.CustomThemeDir
	if themesDir == "" {
		themesDir = config.DefaultThemesDir()
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Application: tview.NewApplication(),
		Pages:       tview.NewPages(),
		Config:      cfg,
		Keys:        cfg.Keys,
		ctx:         ctx,
		cancel:      cancel,
		views:       make(map[string]tview.Primitive),
		store:       store,
		sessions:    sessions,
		fetcher:     fetcher,
		rowByKey:    make(map[string]int),
		renderer:    render.NewItemRenderer(),
		themeLoader: config.NewThemeLoader(themesDir),
		width:       80,
		height:      24,
	}

	app.initLogger()
	if err := app.themeLoader.CreateDefaultTheme(); err != nil && app.logger != nil {
		app.logger.Printf("could not write default theme: %v", err)
	}
	app.initComponents()
	app.applyTheme()
	app.bindKeys()
	app.initViews()

	app.SetBeforeDrawFunc(func(screen tcell.Screen) bool {
		w, h := screen.Size()
		if pw, ph := app.GetScreenSize(); pw != w || ph != h {
			app.SetScreenSize(w, h)
			app.refreshItemRows()
			app.refreshStatus()
		}
		return false
	})
	// Offset-change notifications for the stabilizer are derived from draws
	app.SetAfterDrawFunc(func(screen tcell.Screen) {
		app.viewport.poll()
	})

	return app
}

// Dispatch marshals fn onto the event loop goroutine. Work arriving after
// the loop stopped is dropped; the engine requires that over blocking.
func (a *App) Dispatch(fn func()) {
	if !a.IsRunning() {
		return
	}
	a.QueueUpdateDraw(fn)
}

// IsRunning reports whether the event loop is live
func (a *App) IsRunning() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.running
}

// SetRunning updates the running flag
func (a *App) SetRunning(running bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.running = running
}

// GetScreenSize returns the last known terminal dimensions
func (a *App) GetScreenSize() (int, int) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.width, a.height
}

// SetScreenSize records the terminal dimensions
func (a *App) SetScreenSize(width, height int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.width = width
	a.height = height
}

// initComponents creates the main UI components
func (a *App) initComponents() {
	// Item list as a Table to get per-row colors
	table := tview.NewTable().SetSelectable(true, false)
	table.SetBorder(false)
	table.SetSelectionChangedFunc(func(row, column int) {
		a.refreshStatus()
	})
	a.views["items"] = table
	a.viewport = newTableViewport(table)

	container := tview.NewFlex().SetDirection(tview.FlexRow)
	container.SetBorder(a.Config.Layout.ShowBorders)
	if a.Config.Layout.ShowTitles {
		container.SetTitle(" 🖼 Gallery ").SetTitleAlign(tview.AlignCenter)
	}
	container.AddItem(table, 0, 1, true)
	a.views["itemsContainer"] = container

	status := tview.NewTextView().SetDynamicColors(false).SetWrap(false)
	a.views["status"] = status

	detailText := tview.NewTextView().SetDynamicColors(false).SetWrap(true)
	detailText.SetBorder(true).SetTitle(" Item ").SetTitleAlign(tview.AlignCenter)
	detailText.SetBorderPadding(0, 0, 1, 1)
	a.views["detailText"] = detailText

	fullText := tview.NewTextView().SetDynamicColors(false).SetWrap(true)
	fullText.SetBorder(true).SetTitle(" Media ").SetTitleAlign(tview.AlignCenter)
	fullText.SetBorderPadding(1, 1, 2, 2)
	a.views["fullText"] = fullText

	helpText := tview.NewTextView().SetDynamicColors(false).SetWrap(false)
	helpText.SetBorder(true).SetTitle(" Help ").SetTitleAlign(tview.AlignCenter)
	helpText.SetBorderPadding(1, 1, 2, 2)
	a.views["helpText"] = helpText
}

// initViews assembles the page structure
func (a *App) initViews() {
	// Background page paints the full screen; containers do not cover
	// their own border areas.
	background := tview.NewBox().SetBackgroundColor(tview.Styles.PrimitiveBackgroundColor)
	a.Pages.AddPage("background", background, true, true)

	a.Pages.AddPage("main", a.createMainLayout(), true, true)

	// Dialog pages mounted hidden; show/hide follows the dialog stack
	a.Pages.AddPage("detail", centered(a.views["detailText"], 64, 14), true, false)
	a.Pages.AddPage("full", centered(a.views["fullText"], 0, 0), true, false)
	a.Pages.AddPage("help", centered(a.views["helpText"], 56, 18), true, false)
}

// createMainLayout builds the item table over the status bar
func (a *App) createMainLayout() tview.Primitive {
	mainFlex := tview.NewFlex().SetDirection(tview.FlexRow)
	mainFlex.AddItem(a.views["itemsContainer"], 0, 1, true)
	mainFlex.AddItem(a.views["status"], 1, 0, false)
	a.views["mainFlex"] = mainFlex
	return mainFlex
}

// centered wraps p in a flex scaffold that centers it. Zero width or height
// means fullscreen with a two-cell margin.
func centered(p tview.Primitive, width, height int) tview.Primitive {
	if width <= 0 || height <= 0 {
		return tview.NewFlex().
			AddItem(nil, 2, 0, false).
			AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
				AddItem(nil, 1, 0, false).
				AddItem(p, 0, 1, true).
				AddItem(nil, 1, 0, false), 0, 1, true).
			AddItem(nil, 2, 0, false)
	}
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}

// applyTheme loads the configured theme, falling back to built-in defaults
func (a *App) applyTheme() {
	name := ""
	if a.Config != nil {
		name = a.Config.Layout.CurrentTheme
	}
	var theme *config.ColorsConfig
	if name != "" {
		if loaded, err := a.themeLoader.LoadThemeFromFile(name + ".yaml"); err == nil {
			theme = loaded
		} else if a.logger != nil {
			a.logger.Printf("theme %q not loadable, using defaults: %v", name, err)
		}
	}
	if theme == nil {
		theme = config.DefaultColors()
	}
	_ = a.applyThemeConfig(theme)
}

// applyThemeConfig applies a theme to global styles and live widgets
func (a *App) applyThemeConfig(theme *config.ColorsConfig) error {
	if theme == nil {
		return fmt.Errorf("theme configuration is nil")
	}
	a.currentTheme = theme
	a.renderer.UpdateFromConfig(theme)

	tview.Styles.PrimitiveBackgroundColor = theme.Body.BgColor.Color()
	tview.Styles.PrimaryTextColor = theme.Body.FgColor.Color()
	tview.Styles.BorderColor = theme.Frame.Border.FgColor.Color()
	tview.Styles.TitleColor = theme.Frame.Title.FgColor.Color()
	a.focusColor = theme.Frame.Border.FocusColor.Color()

	if table, ok := a.views["items"].(*tview.Table); ok {
		table.SetBackgroundColor(tview.Styles.PrimitiveBackgroundColor)
		table.SetSelectedStyle(tcell.StyleDefault.
			Foreground(theme.Item.SelectedColor.Color()).
			Background(tview.Styles.PrimitiveBackgroundColor).
			Attributes(tcell.AttrBold))
	}
	if container, ok := a.views["itemsContainer"].(*tview.Flex); ok {
		container.SetBackgroundColor(tview.Styles.PrimitiveBackgroundColor)
		container.SetBorderColor(tview.Styles.BorderColor)
		container.SetTitleColor(tview.Styles.TitleColor)
	}
	for _, name := range []string{"status", "detailText", "fullText", "helpText"} {
		if tv, ok := a.views[name].(*tview.TextView); ok {
			tv.SetBackgroundColor(tview.Styles.PrimitiveBackgroundColor)
			tv.SetTextColor(tview.Styles.PrimaryTextColor)
			tv.SetBorderColor(tview.Styles.BorderColor)
			tv.SetTitleColor(tview.Styles.TitleColor)
		}
	}

	// Reformat visible rows so item colors pick up the new palette
	a.refreshItemRows()
	return nil
}

// saveConfigAsync persists the current configuration
func (a *App) saveConfigAsync() error {
	if a.Config == nil {
		return fmt.Errorf("config is nil")
	}
	return a.Config.SaveConfig(config.DefaultConfigPath())
}

// Run starts the event loop. It returns once the user quits, after the
// gallery and its sessions have been torn down.
func (a *App) Run() error {
	a.SetRoot(a.Pages, true)
	a.SetRunning(true)

	// Open the most recent conversation once the loop is up
	go a.loadConversations(true)

	err := a.Application.Run()
	a.SetRunning(false)
	a.shutdown()
	return err
}

// shutdown tears everything down in dependency order
func (a *App) shutdown() {
	a.closeGallery()
	if a.sessions != nil {
		a.sessions.CloseAll()
	}
	a.cancel()
	if a.logger != nil {
		a.logger.Printf("shutdown complete")
	}
	a.closeLogger()
}

// closeGallery closes the current gallery, if any, and drains its resolve
// goroutines. The close hook releases the archive session.
func (a *App) closeGallery() {
	if a.gallery == nil {
		return
	}
	a.Pages.HidePage("detail")
	a.Pages.HidePage("full")
	a.gallery.Close()
	a.gallery.Wait()
	a.gallery = nil
	a.conversation = nil
}

// focusItems returns keyboard focus to the item table
func (a *App) focusItems() {
	if table, ok := a.views["items"].(*tview.Table); ok {
		a.SetFocus(table)
	}
}

// dialogOpen reports whether either dialog slot is occupied
func (a *App) dialogOpen() bool {
	if a.gallery == nil {
		return false
	}
	d := a.gallery.Dialogs()
	return d.IsOpen(dialog.SlotPrimary) || d.IsOpen(dialog.SlotSecondary)
}
