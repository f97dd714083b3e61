// Package gallery implements the lazy-paginated attachment gallery: an
// append-only window of media items over a conversation archive, each item
// resolving its content independently and out of order while the viewer's
// scroll position is held steady.
package gallery

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"

	"chatgallery/internal/dialog"
	"chatgallery/internal/scroll"
)

// ErrClosed is returned when a closed gallery is asked to load more
var ErrClosed = errors.New("gallery is closed")

// Fetcher resolves a content URL to its raw bytes. A nil or empty result,
// with or without an error, is a soft failure: the item stays pending and
// the engine never retries.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Dispatcher marshals a closure onto the goroutine that owns the view
// collection. The shell backs it with the UI event loop; tests back it with
// a channel pump. Implementations must drop work instead of blocking once
// the owner loop has stopped.
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatchFunc adapts a plain function to Dispatcher
type DispatchFunc func(func())

// Dispatch implements Dispatcher
func (d DispatchFunc) Dispatch(fn func()) { d(fn) }

// DefaultFetchConcurrency bounds how many fetches run at once
const DefaultFetchConcurrency = 4

// Config tunes a gallery
type Config struct {
	// PageSize is the number of source messages per page
	PageSize int
	// FetchConcurrency bounds concurrent content fetches
	FetchConcurrency int
}

// DefaultConfig returns the defaults the shell ships with
func DefaultConfig() *Config {
	return &Config{
		PageSize:         DefaultPageSize,
		FetchConcurrency: DefaultFetchConcurrency,
	}
}

// Stats is a point-in-time snapshot of gallery activity for status lines
type Stats struct {
	Items          int
	Loaded         int
	Pending        int
	PagesLoaded    int
	ActiveResolves int
	SoftFailures   int64
	BytesFetched   int64
}

// Gallery owns the pager, the resolution pipeline, the scroll stabilizer
// and the dialog stack for one conversation. Apart from the resolution
// goroutines it spawns, every method and callback runs on the owner
// goroutine behind the Dispatcher; the gallery is not safe for use from
// anywhere else.
type Gallery struct {
	pager      *Pager
	stabilizer *scroll.Stabilizer
	dialogs    *dialog.Stack
	fetcher    Fetcher
	dispatcher Dispatcher
	logger     *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	sem    chan struct{}
	wg     sync.WaitGroup
	closed atomic.Bool

	closeHook      func()
	onPageAppended func(added []*Item)
	onItemResolved func(it *Item)

	loadedCount    int
	activeResolves atomic.Int32
	softFailures   atomic.Int64
	bytesFetched   atomic.Int64
}

// New creates a gallery over source. A nil source leaves the gallery in a
// degenerate state where loading is a silent no-op; a nil stabilizer skips
// anchoring; a nil dispatcher runs mutations inline, which is only suitable
// for callers that already do their own marshaling.
func New(source MessageSource, fetcher Fetcher, dispatcher Dispatcher, stabilizer *scroll.Stabilizer, cfg *Config, logger *log.Logger) *Gallery {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	concurrency := cfg.FetchConcurrency
	if concurrency <= 0 {
		concurrency = DefaultFetchConcurrency
	}
	if dispatcher == nil {
		dispatcher = DispatchFunc(func(fn func()) { fn() })
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Gallery{
		pager:      NewPager(source, cfg.PageSize),
		stabilizer: stabilizer,
		dialogs:    dialog.NewStack(logger),
		fetcher:    fetcher,
		dispatcher: dispatcher,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		sem:        make(chan struct{}, concurrency),
	}
}

// SetCloseHook registers the cleanup callback Close invokes, typically the
// release of the archive session the source came from.
func (g *Gallery) SetCloseHook(fn func()) {
	g.closeHook = fn
}

// SetOnPageAppended registers a callback fired once per non-empty page,
// after all of the page's items are in the view collection.
func (g *Gallery) SetOnPageAppended(fn func(added []*Item)) {
	g.onPageAppended = fn
}

// SetOnItemResolved registers a callback fired on the owner goroutine each
// time an item's payload lands.
func (g *Gallery) SetOnItemResolved(fn func(it *Item)) {
	g.onItemResolved = fn
}

// Items returns the append-only view collection
func (g *Gallery) Items() []*Item {
	return g.pager.Items()
}

// Len returns the number of materialized items
func (g *Gallery) Len() int {
	return g.pager.Len()
}

// Dialogs returns the gallery's dialog stack
func (g *Gallery) Dialogs() *dialog.Stack {
	return g.dialogs
}

// Closed reports whether Close has run
func (g *Gallery) Closed() bool {
	return g.closed.Load()
}

// LoadNextPage materializes the next page of the filtered source. The page
// append is atomic from the shell's point of view: the page-appended
// callback fires once, with every item of the page already in place, and
// only then is resolution scheduled and the stabilizer engaged.
//
// anchor is the viewport offset captured before the append; zero means "at
// the top, don't stabilize". An unset source and an exhausted source are
// silent no-ops; only source I/O failures and a closed gallery are errors.
func (g *Gallery) LoadNextPage(ctx context.Context, anchor float64) error {
	if g.closed.Load() {
		return ErrClosed
	}
	added, err := g.pager.loadNext(ctx)
	if err != nil {
		return err
	}
	if len(added) == 0 {
		return nil
	}
	if g.onPageAppended != nil {
		g.onPageAppended(added)
	}
	for _, it := range added {
		g.scheduleResolve(it)
	}
	if anchor > 0 && g.stabilizer != nil {
		g.stabilizer.Engage(anchor)
	}
	return nil
}

// NextItem returns the item after cur in the view collection. Past the last
// item it returns an explicit empty selection instead of wrapping.
func (g *Gallery) NextItem(cur *Item) (*Item, bool) {
	return g.neighbor(cur, +1)
}

// PrevItem returns the item before cur in the view collection. Before the
// first item it returns an explicit empty selection instead of wrapping.
func (g *Gallery) PrevItem(cur *Item) (*Item, bool) {
	return g.neighbor(cur, -1)
}

func (g *Gallery) neighbor(cur *Item, delta int) (*Item, bool) {
	if cur == nil {
		return nil, false
	}
	idx := g.pager.find(cur.Key())
	if idx < 0 {
		return nil, false
	}
	idx += delta
	items := g.pager.Items()
	if idx < 0 || idx >= len(items) {
		return nil, false
	}
	return items[idx], true
}

// Stats returns a snapshot of gallery activity
func (g *Gallery) Stats() Stats {
	items := g.pager.Len()
	return Stats{
		Items:          items,
		Loaded:         g.loadedCount,
		Pending:        items - g.loadedCount,
		PagesLoaded:    g.pager.PageIndex() + 1,
		ActiveResolves: int(g.activeResolves.Load()),
		SoftFailures:   g.softFailures.Load(),
		BytesFetched:   g.bytesFetched.Load(),
	}
}

// Close shuts the gallery down: in-flight resolutions are cancelled and any
// that still land become no-ops, the stabilizer detaches, both dialog slots
// close, item payloads are released and the close hook runs. Close is
// idempotent.
func (g *Gallery) Close() {
	if !g.closed.CompareAndSwap(false, true) {
		return
	}
	g.cancel()
	if g.stabilizer != nil {
		g.stabilizer.Detach()
	}
	g.dialogs.CloseAll()
	for _, it := range g.pager.Items() {
		it.releasePayload()
	}
	if g.closeHook != nil {
		g.closeHook()
	}
}

// Wait blocks until every resolution goroutine has exited. Call it after
// Close when a clean shutdown matters, such as tests and process exit.
func (g *Gallery) Wait() {
	g.wg.Wait()
}

// scheduleResolve starts the item's single resolution attempt: fetch off
// the owner goroutine, then dispatch the state transition back onto it.
// Failures of any kind are soft; the item simply stays pending.
func (g *Gallery) scheduleResolve(it *Item) {
	if g.fetcher == nil || it.URL == "" {
		return
	}
	if !it.beginResolve() {
		return
	}
	g.wg.Add(1)
	g.activeResolves.Add(1)
	go func() {
		defer g.wg.Done()
		defer g.activeResolves.Add(-1)

		select {
		case g.sem <- struct{}{}:
		case <-g.ctx.Done():
			return
		}
		defer func() { <-g.sem }()

		data, err := g.fetcher.Fetch(g.ctx, it.URL)
		if err != nil || len(data) == 0 {
			g.softFailures.Add(1)
			g.debugf("resolve %s: soft failure (err=%v, %d bytes)", it.Key(), err, len(data))
			return
		}
		g.bytesFetched.Add(int64(len(data)))

		if g.closed.Load() {
			return
		}
		g.dispatcher.Dispatch(func() {
			if g.closed.Load() {
				return
			}
			if !it.markLoaded(data) {
				return
			}
			g.loadedCount++
			if g.onItemResolved != nil {
				g.onItemResolved(it)
			}
		})
	}()
}

func (g *Gallery) debugf(format string, args ...interface{}) {
	if g.logger != nil {
		g.logger.Printf("gallery: "+format, args...)
	}
}
