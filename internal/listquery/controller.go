package listquery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// PollNoticeMessage is the warning raised when a polling session is abandoned.
const PollNoticeMessage = "Image polling time limit reached. Stop."

// Fetcher loads one page of a list.
type Fetcher[R any] func(ctx context.Context, req Request) (R, error)

// Notice is a user-visible message raised by a controller on its own initiative.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// PollingState reports the progress of the current polling session.
type PollingState struct {
	Attempts int  `json:"attempts"`
	Active   bool `json:"active"`
}

// Config describes one list view.
type Config[R any, T any] struct {
	Namespace    string
	Filters      Filters
	InitialPage  int
	InitialLimit int

	Fetch    Fetcher[R]
	Items    func(R) []T
	PageInfo func(R) *PageInfo
	Pending  func(T) bool
	Scope    func() string

	Debounce time.Duration
	Poll     PollPolicy
	OnNotice func(Notice)
	Clock    clockwork.Clock
}

// View is a snapshot of a controller.
type View[T any] struct {
	Items      []T          `json:"items"`
	PageInfo   *PageInfo    `json:"pageInfo"`
	Loading    bool         `json:"loading"`
	IsFetching bool         `json:"isFetching"`
	IsError    bool         `json:"isError"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	SearchTerm string       `json:"searchTerm"`
	Filters    Filters      `json:"filters"`
	Polling    PollingState `json:"polling"`
}

type fetchCall struct {
	key  Key
	done chan struct{}
	err  error
}

// Controller keeps a paginated, searchable list in sync with its fetcher. It
// keeps the last good response on screen while newer keys load and re-polls
// while items report they are still being processed.
type Controller[R any, T any] struct {
	cfg      Config[R, T]
	client   *Client
	clock    clockwork.Clock
	debounce *Debouncer[string]
	logger   zerolog.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	unregister func()

	mu        sync.Mutex
	page      int
	limit     int
	search    string
	debounced string
	filters   Filters
	key       Key
	resp      R
	has       bool
	failed    bool
	fetching  *fetchCall
	changed   chan struct{}
	closed    bool

	attempts   int
	polling    bool
	pollGen    uint64
	pollCancel context.CancelFunc
	exhausted  bool
}

// New creates a controller and starts its first fetch.
func New[R any, T any](client *Client, cfg Config[R, T]) (*Controller[R, T], error) {
	if client == nil {
		return nil, errors.New("listquery: client is required")
	}
	if cfg.Namespace == "" {
		return nil, errors.New("listquery: namespace is required")
	}
	if cfg.Fetch == nil || cfg.Items == nil {
		return nil, errors.New("listquery: fetch and items projections are required")
	}
	if cfg.PageInfo == nil {
		cfg.PageInfo = func(R) *PageInfo { return nil }
	}
	if cfg.Scope == nil {
		cfg.Scope = func() string { return "" }
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	cfg.Poll = cfg.Poll.normalized()
	if cfg.InitialPage < 1 {
		cfg.InitialPage = DefaultPage
	}
	if cfg.InitialLimit < 1 {
		cfg.InitialLimit = DefaultLimit
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller[R, T]{
		cfg:     cfg,
		client:  client,
		clock:   cfg.Clock,
		logger:  log.With().Str("namespace", cfg.Namespace).Logger(),
		ctx:     ctx,
		cancel:  cancel,
		page:    cfg.InitialPage,
		limit:   cfg.InitialLimit,
		filters: cfg.Filters.Clone(),
		changed: make(chan struct{}),
	}
	c.debounce = NewDebouncer(c.clock, cfg.Debounce, c.settleSearch)
	c.unregister = client.register(cfg.Namespace, c.invalidated)

	c.mu.Lock()
	c.syncLocked(true)
	c.mu.Unlock()
	return c, nil
}

// Namespace returns the controller's cache namespace.
func (c *Controller[R, T]) Namespace() string {
	return c.cfg.Namespace
}

// SetPage moves to page p (values below 1 become 1).
func (c *Controller[R, T]) SetPage(p int) {
	if p < 1 {
		p = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.page == p {
		return
	}
	c.page = p
	c.syncLocked(false)
}

// SetLimit changes the page size (values below 1 become DefaultLimit). The page
// is left untouched.
func (c *Controller[R, T]) SetLimit(l int) {
	if l < 1 {
		l = DefaultLimit
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.limit == l {
		return
	}
	c.limit = l
	c.syncLocked(false)
}

// SetSearchTerm records raw input. The request only changes once the input has
// been quiet for the debounce period.
func (c *Controller[R, T]) SetSearchTerm(term string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.search = term
	c.notifyLocked()
	c.mu.Unlock()
	c.debounce.Set(term)
}

// SetFilters replaces the identity filters. The page is left untouched.
func (c *Controller[R, T]) SetFilters(f Filters) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.filters = f.Clone()
	c.syncLocked(false)
}

// Sync re-reads the scope accessor and refetches if the scope changed.
func (c *Controller[R, T]) Sync() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.syncLocked(false)
}

// Refetch fetches the current key again unless a fetch for it is running.
func (c *Controller[R, T]) Refetch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.fetching != nil {
		return
	}
	c.fetchLocked()
	c.notifyLocked()
}

// Snapshot returns the current view.
func (c *Controller[R, T]) Snapshot() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View[T]{
		Items:      []T{},
		Loading:    c.fetching != nil && !c.has,
		IsFetching: c.fetching != nil,
		IsError:    c.failed,
		Page:       c.page,
		Limit:      c.limit,
		SearchTerm: c.search,
		Filters:    c.filters.Clone(),
		Polling:    PollingState{Attempts: c.attempts, Active: c.polling},
	}
	if c.has {
		if items := c.cfg.Items(c.resp); items != nil {
			v.Items = items
		}
		v.PageInfo = c.cfg.PageInfo(c.resp)
	}
	return v
}

// Changed returns a channel closed at the next state change.
func (c *Controller[R, T]) Changed() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.changed
}

// Close stops every timer and goroutine owned by the controller. Responses that
// arrive afterwards are dropped.
func (c *Controller[R, T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopPollingLocked()
	c.notifyLocked()
	c.mu.Unlock()

	c.debounce.Stop()
	c.unregister()
	c.cancel()
	c.wg.Wait()
}

func (c *Controller[R, T]) settleSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || term == c.debounced {
		return
	}
	c.debounced = term
	c.page = 1
	c.syncLocked(false)
}

func (c *Controller[R, T]) invalidated() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.fetchLocked()
	c.notifyLocked()
}

func (c *Controller[R, T]) requestLocked() Request {
	return Request{
		Page:       c.page,
		SearchTerm: c.debounced,
		Limit:      c.limit,
		ScopeID:    c.cfg.Scope(),
		Filters:    c.filters.Clone(),
	}
}

// syncLocked derives the key from the current inputs and fetches when it moved.
func (c *Controller[R, T]) syncLocked(initial bool) {
	key := newKey(c.cfg.Namespace, c.requestLocked())
	if !initial && key == c.key {
		return
	}
	c.key = key
	c.stopPollingLocked()
	c.exhausted = false
	c.failed = false

	if cached, ok := c.client.Peek(key); ok {
		if r, ok := cached.(R); ok {
			c.resp = r
			c.has = true
		}
	}
	c.fetchLocked()
	c.notifyLocked()
}

func (c *Controller[R, T]) fetchLocked() *fetchCall {
	call := &fetchCall{key: c.key, done: make(chan struct{})}
	c.fetching = call
	req := c.requestLocked()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		v, err := c.client.Do(c.ctx, call.key, func(ctx context.Context) (any, error) {
			return c.cfg.Fetch(ctx, req)
		})
		c.complete(call, v, err)
	}()
	return call
}

func (c *Controller[R, T]) complete(call *fetchCall, v any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer close(call.done)

	if err == nil {
		if _, ok := v.(R); !ok {
			err = fmt.Errorf("listquery: unexpected response type %T", v)
		}
	}
	call.err = err

	if c.closed || call != c.fetching {
		return
	}
	c.fetching = nil

	if err != nil {
		c.failed = true
		c.logger.Warn().Err(err).Int("page", call.key.Page).Msg("list fetch failed")
		c.notifyLocked()
		return
	}

	c.resp = v.(R)
	c.has = true
	c.failed = false

	if c.pendingLocked() {
		if !c.polling && !c.exhausted {
			c.startPollingLocked()
		}
	} else {
		c.stopPollingLocked()
		c.exhausted = false
	}
	c.notifyLocked()
}

func (c *Controller[R, T]) pendingLocked() bool {
	if c.cfg.Pending == nil || !c.has {
		return false
	}
	for _, item := range c.cfg.Items(c.resp) {
		if c.cfg.Pending(item) {
			return true
		}
	}
	return false
}

func (c *Controller[R, T]) startPollingLocked() {
	ctx, cancel := context.WithCancel(c.ctx)
	c.pollGen++
	gen := c.pollGen
	c.polling = true
	c.pollCancel = cancel
	c.attempts = 0

	c.logger.Debug().Dur("interval", c.cfg.Poll.Interval).Int("max_attempts", c.cfg.Poll.MaxAttempts).Msg("polling for processing items")

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		err := c.cfg.Poll.Until(ctx, c.clock, c.pollOnce)
		c.finishPolling(gen, err)
	}()
}

// stopPollingLocked ends the polling session (if any) and resets the counter.
func (c *Controller[R, T]) stopPollingLocked() {
	if c.pollCancel != nil {
		c.pollCancel()
		c.pollCancel = nil
	}
	c.polling = false
	c.attempts = 0
}

func (c *Controller[R, T]) pollOnce(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if ctx.Err() != nil || c.closed {
		c.mu.Unlock()
		return false, context.Canceled
	}
	c.attempts++
	call := c.fetching
	if call == nil {
		call = c.fetchLocked()
	}
	c.notifyLocked()
	c.mu.Unlock()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-call.done:
	}
	if call.err != nil {
		return false, call.err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingLocked(), nil
}

func (c *Controller[R, T]) finishPolling(gen uint64, err error) {
	c.mu.Lock()
	if c.closed || !c.polling || gen != c.pollGen {
		c.mu.Unlock()
		return
	}
	c.polling = false
	c.pollCancel = nil
	c.attempts = 0

	exhausted := errors.Is(err, ErrPollExhausted)
	if exhausted {
		c.exhausted = true
	}
	c.notifyLocked()
	c.mu.Unlock()

	if !exhausted {
		return
	}
	c.client.metrics.exhausted(c.cfg.Namespace)
	c.logger.Warn().Int("max_attempts", c.cfg.Poll.MaxAttempts).Msg("polling stopped, items still processing")
	if c.cfg.OnNotice != nil {
		c.cfg.OnNotice(Notice{Level: "warning", Message: PollNoticeMessage})
	}
}

func (c *Controller[R, T]) notifyLocked() {
	close(c.changed)
	c.changed = make(chan struct{})
}
