package tui

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rivo/tview"

	"chatgallery/internal/dialog"
	"chatgallery/internal/gallery"
)

// detailView occupies the primary dialog slot: a metadata card for one
// item. It owns no resources, so it is not a Closer.
type detailView struct {
	item *gallery.Item
}

// fullView occupies the secondary dialog slot: the item payload staged to a
// temp file for an external viewer. Close removes the file.
type fullView struct {
	item *gallery.Item
	path string
}

// stageFullView writes payload to a temp file named after the item
func stageFullView(it *gallery.Item, filename string, payload []byte) (*fullView, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}
	f, err := os.CreateTemp("", "chatgallery-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.Write(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	return &fullView{item: it, path: f.Name()}, nil
}

// Close removes the staged file. Later calls are no-ops.
func (v *fullView) Close() error {
	if v.path == "" {
		return nil
	}
	err := os.Remove(v.path)
	v.path = ""
	return err
}

// openItemDetail opens the primary dialog for the selected item
func (a *App) openItemDetail() {
	it := a.selectedItem()
	if it == nil {
		return
	}
	a.gallery.Dialogs().Open(dialog.SlotPrimary, &detailView{item: it})

	if text, ok := a.views["detailText"].(*tview.TextView); ok {
		text.SetText(a.renderer.FormatItemDetail(it))
		text.ScrollToBeginning()
		a.Pages.ShowPage("detail")
		a.SetFocus(text)
	}
}

// openItemFull stages the selected item's payload and hands it to the
// platform viewer. Items still pending have nothing to show yet.
func (a *App) openItemFull() {
	it := a.selectedItem()
	if it == nil {
		return
	}
	if !it.Loaded() {
		a.showStatusMessage("Media not fetched yet; try again shortly")
		return
	}
	name := it.Filename
	if name == "" {
		name = it.Key()
	}
	vm, err := stageFullView(it, name, it.Payload())
	if err != nil {
		a.showError(fmt.Sprintf("Failed to stage media: %v", err))
		return
	}
	a.gallery.Dialogs().Open(dialog.SlotSecondary, vm)

	if text, ok := a.views["fullText"].(*tview.TextView); ok {
		var b strings.Builder
		b.WriteString(a.renderer.FormatItemDetail(it))
		fmt.Fprintf(&b, "\n\nStaged at: %s\n", vm.path)
		b.WriteString("\nPress " + a.Keys.CloseDialog + " to close; the staged file is removed on close.")
		text.SetText(b.String())
		text.ScrollToBeginning()
		a.Pages.ShowPage("full")
		a.SetFocus(text)
	}

	if err := openExternal(a.ctx, vm.path); err != nil {
		if a.logger != nil {
			a.logger.Printf("external viewer for %s: %v", vm.path, err)
		}
	} else {
		a.showInfo("Opened in external viewer")
	}
}

// refreshOpenDetail re-points an open detail dialog at the current
// selection. Opening the new view-model into the slot releases the old one.
func (a *App) refreshOpenDetail() {
	if a.gallery == nil {
		return
	}
	d := a.gallery.Dialogs()
	if d.IsOpen(dialog.SlotSecondary) || !d.IsOpen(dialog.SlotPrimary) {
		return
	}
	a.openItemDetail()
}

// closeTopDialog closes the topmost open dialog, secondary before primary.
// Returns false when both slots were already empty.
func (a *App) closeTopDialog() bool {
	if a.gallery == nil {
		return false
	}
	d := a.gallery.Dialogs()
	if d.IsOpen(dialog.SlotSecondary) {
		d.Close(dialog.SlotSecondary)
		a.Pages.HidePage("full")
		a.focusItems()
		return true
	}
	if d.IsOpen(dialog.SlotPrimary) {
		d.Close(dialog.SlotPrimary)
		a.Pages.HidePage("detail")
		a.focusItems()
		return true
	}
	return false
}

// openCommand picks the platform file-open command
func openCommand(path string) (string, []string, error) {
	switch runtime.GOOS {
	case "darwin":
		return "open", []string{path}, nil
	case "linux":
		return "xdg-open", []string{path}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// openExternal starts the platform viewer for path without waiting on it
func openExternal(ctx context.Context, path string) error {
	name, args, err := openCommand(path)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	return nil
}
