package listing

import (
	"context"
	"sync"
	"time"

	"cpaas-portal/internal/debounce"
	"cpaas-portal/internal/gateway"
	"cpaas-portal/internal/notify"
	"cpaas-portal/internal/observ"

	"go.uber.org/zap"
)

// Query is what a list is filtered by. Filter is the channel for contacts and
// the role for users and teams.
type Query struct {
	Search string
	Filter string
}

// Fetcher loads the collection matching q from the server.
type Fetcher[T any] func(ctx context.Context, q Query) ([]T, error)

// Page is a rendered window over the collection.
type Page[T any] struct {
	Items      []T
	Page       int
	TotalPages int
	Total      int
	Loading    bool
	Query      Query
}

type options struct {
	pageSize int
	delay    time.Duration
	clock    debounce.Clock
	notifier notify.Notifier
	logger   *zap.Logger
	fallback string
}

type Option func(*options)

func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

func WithDelay(d time.Duration) Option {
	return func(o *options) { o.delay = d }
}

func WithClock(c debounce.Clock) Option {
	return func(o *options) { o.clock = c }
}

func WithNotifier(n notify.Notifier) Option {
	return func(o *options) { o.notifier = notify.OrDiscard(n) }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = observ.OrNop(l) }
}

// WithFailureMessage sets the notice shown when a fetch fails without a server message.
func WithFailureMessage(msg string) Option {
	return func(o *options) { o.fallback = msg }
}

// Controller owns the local copy of one remote collection.
type Controller[T any] struct {
	mu       sync.Mutex
	fetch    Fetcher[T]
	items    []T
	query    Query // applied
	target   Query // newest requested
	page     int
	pageSize int
	loading  bool
	err      error
	ctx      context.Context

	gen      debounce.Sequence
	input    *debounce.Controller[Query]
	notifier notify.Notifier
	logger   *zap.Logger
	fallback string
}

func New[T any](fetch Fetcher[T], opts ...Option) *Controller[T] {
	o := options{
		pageSize: DefaultPageSize,
		delay:    debounce.DefaultDelay,
		clock:    debounce.RealClock,
		notifier: notify.Discard{},
		logger:   zap.NewNop(),
		fallback: "Failed to load data",
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Controller[T]{
		fetch:    fetch,
		page:     1,
		pageSize: o.pageSize,
		notifier: o.notifier,
		logger:   o.logger,
		fallback: o.fallback,
		ctx:      context.Background(),
	}
	c.input = debounce.New(Query{}, c.onSettled, debounce.WithDelay(o.delay), debounce.WithClock(o.clock))
	return c
}

// Mount performs the initial fetch. ctx is kept for fetches triggered later
// by settled search input.
func (c *Controller[T]) Mount(ctx context.Context) error {
	c.mu.Lock()
	c.ctx = ctx
	q := c.target
	c.mu.Unlock()
	return c.load(ctx, q, true)
}

// Refresh refetches the newest requested query, which may still be in flight,
// and keeps the page, clamped.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	q := c.target
	c.mu.Unlock()
	return c.load(ctx, q, false)
}

// AfterMutation is the callback forms and editors call once a write succeeded.
func (c *Controller[T]) AfterMutation(ctx context.Context) error {
	return c.Refresh(ctx)
}

// SetSearch feeds raw search text through the debouncer.
func (c *Controller[T]) SetSearch(text string) {
	q := c.input.Value()
	q.Search = text
	c.input.Input(q)
}

// SetFilter feeds a channel or role filter through the debouncer.
func (c *Controller[T]) SetFilter(filter string) {
	q := c.input.Value()
	q.Filter = filter
	c.input.Input(q)
}

// FlushInput fetches a pending search immediately.
func (c *Controller[T]) FlushInput() bool {
	return c.input.Flush()
}

func (c *Controller[T]) onSettled(v debounce.SettledValue[Query]) {
	c.mu.Lock()
	ctx := c.ctx
	c.mu.Unlock()
	_ = c.load(ctx, v.Value, true)
}

func (c *Controller[T]) load(ctx context.Context, q Query, resetPage bool) (err error) {
	c.mu.Lock()
	seq := c.gen.Next()
	c.target = q
	c.loading = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if c.gen.IsCurrent(seq) {
			c.loading = false
		}
		c.mu.Unlock()
	}()

	items, err := c.fetch(ctx, q)

	c.mu.Lock()
	if !c.gen.IsCurrent(seq) {
		c.mu.Unlock()
		c.logger.Debug("discarding stale list response", zap.Uint64("seq", seq), zap.String("search", q.Search))
		return nil
	}
	if err != nil {
		c.err = err
		c.mu.Unlock()
		c.input.Forget()
		c.logger.Warn("list fetch failed", zap.String("search", q.Search), zap.String("filter", q.Filter), zap.Error(err))
		c.notifier.Error(gateway.Message(err, c.fallback))
		return err
	}
	c.err = nil
	c.items = items
	c.query = q
	if resetPage {
		c.page = 1
	}
	c.page = ClampPage(c.page, TotalPages(len(c.items), c.pageSize))
	c.mu.Unlock()
	return nil
}

// Delete removes id through del and then refetches so the list matches the server.
func (c *Controller[T]) Delete(ctx context.Context, id string, del func(ctx context.Context, id string) error) error {
	if err := del(ctx, id); err != nil {
		c.logger.Warn("delete failed", zap.String("id", id), zap.Error(err))
		c.notifier.Error(gateway.Message(err, "Failed to delete"))
		return err
	}
	return c.Refresh(ctx)
}

func (c *Controller[T]) View() Page[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	start, end := Window(len(c.items), c.page, c.pageSize)
	items := make([]T, end-start)
	copy(items, c.items[start:end])
	return Page[T]{
		Items:      items,
		Page:       c.page,
		TotalPages: TotalPages(len(c.items), c.pageSize),
		Total:      len(c.items),
		Loading:    c.loading,
		Query:      c.query,
	}
}

// Items returns a copy of the whole collection.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

func (c *Controller[T]) SetPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = ClampPage(n, TotalPages(len(c.items), c.pageSize))
}

func (c *Controller[T]) NextPage() {
	c.mu.Lock()
	p := c.page + 1
	c.mu.Unlock()
	c.SetPage(p)
}

func (c *Controller[T]) PrevPage() {
	c.mu.Lock()
	p := c.page - 1
	c.mu.Unlock()
	c.SetPage(p)
}

// Query returns the query the displayed items were fetched with.
func (c *Controller[T]) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the error of the last applied fetch.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close stops the debouncer. Pending input is dropped.
func (c *Controller[T]) Close() {
	c.input.Stop()
}
