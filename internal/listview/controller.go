package listview

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
)

// Navigator writes the query string of a view back to its URL. Push adds a
// history entry, Replace overwrites the current one.
type Navigator interface {
	Push(rawQuery string)
	Replace(rawQuery string)
}

// NavigatorFuncs adapts a pair of functions to Navigator. Nil funcs are
// ignored.
type NavigatorFuncs struct {
	PushFunc    func(rawQuery string)
	ReplaceFunc func(rawQuery string)
}

func (n NavigatorFuncs) Push(rawQuery string) {
	if n.PushFunc != nil {
		n.PushFunc(rawQuery)
	}
}

func (n NavigatorFuncs) Replace(rawQuery string) {
	if n.ReplaceFunc != nil {
		n.ReplaceFunc(rawQuery)
	}
}

// Controller drives one list view: it owns the QueryState, mirrors it into
// the URL through a Navigator and keeps a single Fetcher slot in sync with
// the latest committed state.
//
// Navigator calls and Loading transitions are delivered while the controller
// lock is held so they arrive in commit order; neither may call back into the
// controller.
type Controller[T any] struct {
	load     Loader[T]
	nav      Navigator
	fetcher  *Fetcher[T]
	debounce Debouncer
	opts     options

	mu     sync.Mutex
	state  QueryState
	query  string
	closed bool

	totalPages atomic.Int64
}

// NewController creates a controller for slot. A nil nav discards URL writes.
func NewController[T any](slot string, load Loader[T], nav Navigator, opts ...Option) *Controller[T] {
	if nav == nil {
		nav = NavigatorFuncs{}
	}
	c := &Controller[T]{
		load:    load,
		nav:     nav,
		fetcher: NewFetcher[T](slot, opts...),
		opts:    buildOptions(opts),
		state:   DefaultState(),
	}
	c.fetcher.OnChange(func(r Result[T]) {
		if r.IsSuccess() {
			c.totalPages.Store(int64(r.TotalPages))
		}
	})
	return c
}

// OnChange registers an observer for every transition of the slot.
func (c *Controller[T]) OnChange(obs Observer[T]) {
	c.fetcher.OnChange(obs)
}

// Mount replaces the state with the one decoded from rawQuery and fetches
// once. The raw query becomes the URL mirror that later writes merge into.
func (c *Controller[T]) Mount(ctx context.Context, rawQuery string) Result[T] {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return c.fetcher.Result()
	}
	c.state = Decode(rawQuery)
	c.query = strings.TrimPrefix(rawQuery, "?")
	c.totalPages.Store(0)
	pending := c.beginLocked(ctx)
	c.mu.Unlock()
	return pending.Run()
}

// Pending is a fetch that has been committed and begun but not loaded yet.
// Callers that must commit in order but load concurrently call the Begin
// methods in order and Run the returned Pending values anywhere.
type Pending[T any] struct {
	c      *Controller[T]
	ticket Ticket
	state  QueryState
	active bool
}

// Run loads the pending fetch and returns the applied result. Without a fetch
// it returns the result on display.
func (p Pending[T]) Run() Result[T] {
	if !p.active {
		return p.c.fetcher.Result()
	}
	return p.c.run(p.ticket, p.state)
}

// SetPage navigates to page n. Values below 1 are ignored and values past the
// known page count are clamped to it. The URL is written with Push.
func (c *Controller[T]) SetPage(ctx context.Context, n int) Result[T] {
	return c.BeginPage(ctx, n).Run()
}

// BeginPage commits page n like SetPage and begins its fetch without loading
// it. Asking for the current page refetches only when it failed to load.
func (c *Controller[T]) BeginPage(ctx context.Context, n int) Pending[T] {
	if n < 1 {
		return Pending[T]{c: c}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Pending[T]{c: c}
	}
	if total := int(c.totalPages.Load()); total > 0 && n > total {
		n = total
	}
	if n == c.state.Page {
		if !c.fetcher.Result().IsFailure() {
			return Pending[T]{c: c}
		}
		return c.beginLocked(ctx)
	}
	c.commitLocked(c.state.WithPage(n), c.nav.Push)
	return c.beginLocked(ctx)
}

// ToggleGenre adds id to the selection when absent and removes it when
// present, then fetches page 1. The URL is written with Replace.
func (c *Controller[T]) ToggleGenre(ctx context.Context, id int) Result[T] {
	return c.BeginToggleGenre(ctx, id).Run()
}

// BeginToggleGenre commits the toggle like ToggleGenre and begins its fetch
// without loading it.
func (c *Controller[T]) BeginToggleGenre(ctx context.Context, id int) Pending[T] {
	if id <= 0 {
		return Pending[T]{c: c}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Pending[T]{c: c}
	}
	c.totalPages.Store(0)
	c.commitLocked(c.state.WithGenreToggled(id), c.nav.Replace)
	return c.beginLocked(ctx)
}

// SetSearchText commits text immediately and writes the URL with Replace. The
// fetch itself is debounced; ctx must outlive the delay.
func (c *Controller[T]) SetSearchText(ctx context.Context, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || text == c.state.SearchText {
		return
	}
	c.totalPages.Store(0)
	c.commitLocked(c.state.WithSearchText(text), c.nav.Replace)

	collapsed := c.debounce.Schedule(func() { c.fireDebounced(ctx) }, c.opts.delay)
	if collapsed && c.opts.recorder != nil {
		c.opts.recorder.RecordDebounceCollapsed(c.fetcher.Slot())
	}
}

// State returns a copy of the committed state.
func (c *Controller[T]) State() QueryState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Query returns the URL mirror of the committed state.
func (c *Controller[T]) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Result returns the result currently on display.
func (c *Controller[T]) Result() Result[T] {
	return c.fetcher.Result()
}

// TotalPages returns the page count of the current result set, or 0 while it
// is unknown.
func (c *Controller[T]) TotalPages() int {
	return int(c.totalPages.Load())
}

// PageQuery returns the query string a link to page n would carry.
func (c *Controller[T]) PageQuery(n int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 1 {
		n = 1
	}
	return Encode(c.state.WithPage(n), c.query)
}

// ToggleGenreQuery returns the query string after toggling id.
func (c *Controller[T]) ToggleGenreQuery(id int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Encode(c.state.WithGenreToggled(id), c.query)
}

// Close cancels a pending debounced fetch and the in-flight fetch. Later
// mutators are ignored.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.debounce.Cancel()
	c.fetcher.Close()
}

func (c *Controller[T]) commitLocked(next QueryState, write func(string)) {
	c.state = next.Normalize()
	c.query = Encode(c.state, c.query)
	write(c.query)
}

// beginLocked starts a fetch for the committed state. An immediate fetch
// always wins over a pending debounced one.
func (c *Controller[T]) beginLocked(ctx context.Context) Pending[T] {
	c.debounce.Cancel()
	return Pending[T]{c: c, ticket: c.fetcher.Begin(ctx), state: c.state.clone(), active: true}
}

func (c *Controller[T]) fireDebounced(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	ticket, state := c.fetcher.Begin(ctx), c.state.clone()
	c.mu.Unlock()
	c.run(ticket, state)
}

func (c *Controller[T]) run(ticket Ticket, state QueryState) Result[T] {
	page, err := c.load(ticket.Context(), state)
	result, _ := c.fetcher.Finish(ticket, page, err)
	return result
}
