package tui

import (
	"errors"
	"fmt"

	"github.com/rivo/tview"

	"chatgallery/internal/db"
	"chatgallery/internal/gallery"
	"chatgallery/internal/scroll"
)

// openConversation tears down the current gallery and builds a fresh one
// over conv. Runs on the event loop goroutine; the engine treats that loop
// as its owner.
func (a *App) openConversation(conv db.ConversationInfo) {
	a.closeGallery()

	sess, err := a.sessions.Open(a.ctx, conv.ID)
	if err != nil {
		a.showError(fmt.Sprintf("Failed to open conversation: %v", err))
		return
	}

	stabilizer := scroll.NewStabilizer(a.viewport, scroll.Options{
		SettleThreshold: a.Config.Stabilizer.SettleThreshold,
		MaxAttempts:     a.Config.Stabilizer.MaxAttempts,
		Logger:          a.logger,
	})
	g := gallery.New(sess, a.fetcher, a, stabilizer, &gallery.Config{
		PageSize:         a.Config.Gallery.PageSize,
		FetchConcurrency: a.Config.Gallery.FetchConcurrency,
	}, a.logger)
	g.SetCloseHook(func() {
		if err := sess.Close(); err != nil && a.logger != nil {
			a.logger.Printf("closing session %s: %v", sess.ID(), err)
		}
	})
	g.SetOnPageAppended(a.onPageAppended)
	g.SetOnItemResolved(a.onItemResolved)

	a.gallery = g
	a.conversation = &conv
	a.refreshItemRows()
	a.updateGalleryTitle()
	if a.logger != nil {
		a.logger.Printf("opened conversation %s (%d media messages)", conv.ID, conv.MediaMessages)
	}

	// First page loads with no anchor: the viewport is at the top
	if err := g.LoadNextPage(a.ctx, 0); err != nil {
		a.showError(fmt.Sprintf("Failed to load items: %v", err))
		return
	}
	if g.Len() == 0 {
		a.setStatusPersistent("No media in this conversation")
		return
	}
	a.refreshStatus()
}

// loadMore appends the next page, anchoring the viewport where it was
func (a *App) loadMore() {
	if a.gallery == nil {
		a.showStatusMessage("No conversation open; press " + a.Keys.Conversations + " to pick one")
		return
	}
	if a.loading {
		return
	}
	a.loading = true
	defer func() { a.loading = false }()

	before := a.gallery.Len()
	anchor := a.viewport.Offset()
	if err := a.gallery.LoadNextPage(a.ctx, anchor); err != nil {
		if errors.Is(err, gallery.ErrClosed) {
			return
		}
		a.showError(fmt.Sprintf("Failed to load more: %v", err))
		return
	}
	if a.gallery.Len() == before {
		a.showStatusMessage("No more media in this conversation")
	}
}

// onPageAppended lands a finished page in the table. Fires on the event
// loop goroutine with every item of the page already in the collection.
func (a *App) onPageAppended(added []*gallery.Item) {
	table, ok := a.views["items"].(*tview.Table)
	if !ok {
		return
	}
	firstPage := table.GetRowCount() == 0
	row := table.GetRowCount()
	for _, it := range added {
		a.setItemRow(table, row, it)
		row++
	}
	if firstPage && table.GetRowCount() > 0 {
		table.Select(0, 0)
		table.ScrollToBeginning()
	}
	a.refreshStatus()
}

// onItemResolved repaints a single row once its payload lands
func (a *App) onItemResolved(it *gallery.Item) {
	table, ok := a.views["items"].(*tview.Table)
	if !ok {
		return
	}
	if row, ok := a.rowByKey[it.Key()]; ok {
		a.setItemRow(table, row, it)
	}
	a.refreshStatus()
}

// refreshItemRows rebuilds the table from the collection, keeping the
// selection in range. Used on open, theme change and resize.
func (a *App) refreshItemRows() {
	table, ok := a.views["items"].(*tview.Table)
	if !ok {
		return
	}
	selRow, _ := table.GetSelection()
	table.Clear()
	a.rowByKey = make(map[string]int)
	if a.gallery == nil {
		return
	}
	for i, it := range a.gallery.Items() {
		a.setItemRow(table, i, it)
	}
	if n := table.GetRowCount(); n > 0 {
		if selRow >= n {
			selRow = n - 1
		}
		if selRow < 0 {
			selRow = 0
		}
		table.Select(selRow, 0)
	}
}

// setItemRow formats one item into its table row
func (a *App) setItemRow(table *tview.Table, row int, it *gallery.Item) {
	text, color := a.renderer.FormatItemList(it, a.listWidth())
	cell := tview.NewTableCell(text).SetTextColor(color).SetExpansion(1)
	table.SetCell(row, 0, cell)
	a.rowByKey[it.Key()] = row
}

// listWidth is the usable row width inside the bordered container
func (a *App) listWidth() int {
	w, _ := a.GetScreenSize()
	if w <= 0 {
		w = 80
	}
	return w - 4
}

// selectedItem returns the item under the cursor, nil when the table is
// empty or no conversation is open
func (a *App) selectedItem() *gallery.Item {
	if a.gallery == nil {
		return nil
	}
	table, ok := a.views["items"].(*tview.Table)
	if !ok {
		return nil
	}
	row, _ := table.GetSelection()
	items := a.gallery.Items()
	if row < 0 || row >= len(items) {
		return nil
	}
	return items[row]
}

// moveSelection walks the collection via the gallery's neighbor lookups so
// the edges stay explicit instead of wrapping
func (a *App) moveSelection(delta int) {
	cur := a.selectedItem()
	if cur == nil {
		return
	}
	var next *gallery.Item
	var ok bool
	if delta > 0 {
		next, ok = a.gallery.NextItem(cur)
		if !ok {
			// Hitting the end pulls the next page, anchored so the row
			// under the cursor stays put, then finishes the move
			a.loadMore()
			next, ok = a.gallery.NextItem(cur)
		}
	} else {
		next, ok = a.gallery.PrevItem(cur)
	}
	if !ok {
		if delta < 0 {
			a.showStatusMessage("Top of gallery")
		}
		return
	}
	if table, isTable := a.views["items"].(*tview.Table); isTable {
		if row, found := a.rowByKey[next.Key()]; found {
			table.Select(row, 0)
		}
	}
}

// updateGalleryTitle puts the conversation name on the container border
func (a *App) updateGalleryTitle() {
	if !a.Config.Layout.ShowTitles {
		return
	}
	container, ok := a.views["itemsContainer"].(*tview.Flex)
	if !ok {
		return
	}
	if a.conversation == nil {
		container.SetTitle(" 🖼 Gallery ")
		return
	}
	container.SetTitle(fmt.Sprintf(" 🖼 %s ", a.conversation.ID))
}
