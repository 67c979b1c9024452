package listview

import (
	"context"
	"sync"
	"time"
)

// Loader fetches one page of a list for the given state.
type Loader[T any] func(ctx context.Context, state QueryState) (Page[T], error)

// Observer receives every transition applied to a slot, in order.
type Observer[T any] func(Result[T])

// Recorder receives slot level events. It is satisfied by the metrics
// collector; a nil Recorder disables recording.
type Recorder interface {
	RecordSuperseded(slot string)
	RecordDebounceCollapsed(slot string)
}

type options struct {
	limit    int
	recorder Recorder
	delay    time.Duration
}

// Option configures a Fetcher or the Controller that owns one.
type Option func(*options)

// WithLimit truncates successful results to the first n items. n <= 0 keeps
// everything.
func WithLimit(n int) Option {
	return func(o *options) { o.limit = n }
}

// WithRecorder reports superseded results and collapsed debounces.
func WithRecorder(r Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithSearchDelay overrides SearchDelay for a Controller.
func WithSearchDelay(d time.Duration) Option {
	return func(o *options) { o.delay = d }
}

func buildOptions(opts []Option) options {
	o := options{delay: SearchDelay}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Ticket identifies one logical fetch in a slot.
type Ticket struct {
	seq uint64
	ctx context.Context
}

// Context is the context the load for this ticket must run under. It is
// cancelled as soon as a newer fetch begins in the same slot.
func (t Ticket) Context() context.Context { return t.ctx }

// Seq returns the slot sequence number of the ticket.
func (t Ticket) Seq() uint64 { return t.seq }

// Fetcher holds the tri-state result of one slot and enforces supersession:
// only the most recently begun fetch may publish its outcome.
type Fetcher[T any] struct {
	slot string
	cfg  options

	mu        sync.Mutex
	seq       uint64
	cancel    context.CancelFunc
	current   Result[T]
	observers []Observer[T]

	// notifyMu keeps observer calls in the order transitions were applied.
	notifyMu sync.Mutex
}

// NewFetcher creates an idle slot.
func NewFetcher[T any](slot string, opts ...Option) *Fetcher[T] {
	return &Fetcher[T]{slot: slot, cfg: buildOptions(opts)}
}

// Slot returns the slot name.
func (f *Fetcher[T]) Slot() string { return f.slot }

// OnChange registers an observer. Observers must not begin fetches on the
// same slot synchronously.
func (f *Fetcher[T]) OnChange(obs Observer[T]) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observers = append(f.observers, obs)
}

// Result returns the latest applied result.
func (f *Fetcher[T]) Result() Result[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Begin moves the slot to Loading and returns the ticket of the new fetch.
// The context of any older in-flight fetch is cancelled.
func (f *Fetcher[T]) Begin(ctx context.Context) Ticket {
	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	f.seq++
	loadCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	ticket := Ticket{seq: f.seq, ctx: loadCtx}
	f.current = Result[T]{Status: StatusLoading, Seq: f.seq}
	f.publishLocked()
	return ticket
}

// Finish applies the outcome of the fetch identified by t. It returns false
// and leaves the slot untouched when a newer fetch has begun since.
func (f *Fetcher[T]) Finish(t Ticket, page Page[T], err error) (Result[T], bool) {
	f.mu.Lock()
	if t.seq != f.seq {
		current := f.current
		f.mu.Unlock()
		if f.cfg.recorder != nil {
			f.cfg.recorder.RecordSuperseded(f.slot)
		}
		return current, false
	}

	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}

	if err != nil {
		f.current = Result[T]{
			Status:  StatusFailure,
			Message: FailureMessage(err),
			Seq:     t.seq,
		}
	} else {
		items := page.Items
		if f.cfg.limit > 0 && len(items) > f.cfg.limit {
			items = items[:f.cfg.limit]
		}
		if items == nil {
			items = []T{}
		}
		f.current = Result[T]{
			Status:     StatusSuccess,
			Items:      items,
			TotalPages: page.TotalPages,
			Seq:        t.seq,
		}
	}
	result := f.current
	f.publishLocked()
	return result, true
}

// Fetch runs load under a new ticket and applies its outcome. The returned
// bool is false when the fetch was superseded before it resolved.
func (f *Fetcher[T]) Fetch(ctx context.Context, load func(ctx context.Context) (Page[T], error)) (Result[T], bool) {
	t := f.Begin(ctx)
	page, err := load(t.ctx)
	return f.Finish(t, page, err)
}

// Close cancels any in-flight fetch. Its outcome will still be dropped or
// applied according to the usual supersession rule.
func (f *Fetcher[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

// publishLocked must be called with f.mu held; it releases it.
func (f *Fetcher[T]) publishLocked() {
	result := f.current
	observers := append([]Observer[T](nil), f.observers...)
	f.notifyMu.Lock()
	f.mu.Unlock()
	defer f.notifyMu.Unlock()
	for _, obs := range observers {
		obs(result)
	}
}
