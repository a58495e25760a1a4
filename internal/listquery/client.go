package listquery

import (
	"context"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultCacheTTL     = 5 * time.Minute
	DefaultFetchTimeout = 30 * time.Second
)

// ClientOptions configures a Client.
type ClientOptions struct {
	CacheTTL     time.Duration
	FetchTimeout time.Duration
	// Metrics is shared between clients; when nil one is created on Registerer.
	Metrics    *Metrics
	Registerer prometheus.Registerer
}

// Client is the request cache shared by every controller: last good response per
// key, one in-flight fetch per key, and namespace invalidation.
type Client struct {
	cache   *gocache.Cache
	group   singleflight.Group
	timeout time.Duration
	metrics *Metrics

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	gens     map[string]uint64
	inflight map[string]string // key -> namespace
	watchers map[uint64]watcher
	nextID   uint64
}

type watcher struct {
	namespace string
	refetch   func()
}

// NewClient creates a Client. Close releases its background resources.
func NewClient(opts ClientOptions) *Client {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(opts.Registerer)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		cache:    gocache.New(opts.CacheTTL, 2*opts.CacheTTL),
		timeout:  opts.FetchTimeout,
		metrics:  opts.Metrics,
		ctx:      ctx,
		cancel:   cancel,
		gens:     make(map[string]uint64),
		inflight: make(map[string]string),
		watchers: make(map[uint64]watcher),
	}
}

// Close aborts shared fetches still running.
func (c *Client) Close() {
	c.cancel()
}

// Do runs fn for key unless a fetch for the same key is already running, in which
// case the caller waits for that one. Successful results are cached. The shared
// fetch runs under the client's context; ctx only bounds how long this caller waits.
func (c *Client) Do(ctx context.Context, key Key, fn func(context.Context) (any, error)) (any, error) {
	k := key.String()

	c.mu.Lock()
	gen := c.gens[key.Namespace]
	c.mu.Unlock()

	ch := c.group.DoChan(k, func() (any, error) {
		c.mu.Lock()
		c.inflight[k] = key.Namespace
		c.mu.Unlock()
		defer func() {
			c.mu.Lock()
			delete(c.inflight, k)
			c.mu.Unlock()
		}()

		fctx, cancel := context.WithTimeout(c.ctx, c.timeout)
		defer cancel()

		v, err := fn(fctx)
		c.metrics.fetched(key.Namespace, err)
		if err != nil {
			log.Debug().Err(err).Str("key", k).Msg("list fetch failed")
			return nil, err
		}

		c.mu.Lock()
		if c.gens[key.Namespace] == gen {
			c.cache.Set(k, v, gocache.DefaultExpiration)
		}
		c.mu.Unlock()
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// Peek returns the cached response for key.
func (c *Client) Peek(key Key) (any, bool) {
	v, ok := c.cache.Get(key.String())
	if ok {
		c.metrics.hit(key.Namespace)
	}
	return v, ok
}

// Invalidate drops every cached page of namespace and asks the live controllers
// of that namespace to refetch. It returns the number of controllers notified.
func (c *Client) Invalidate(namespace string) int {
	prefix := namespacePrefix(namespace)

	c.mu.Lock()
	c.gens[namespace]++
	for k, ns := range c.inflight {
		if ns == namespace {
			c.group.Forget(k)
		}
	}
	var refetch []func()
	for _, w := range c.watchers {
		if w.namespace == namespace {
			refetch = append(refetch, w.refetch)
		}
	}
	c.mu.Unlock()

	for k := range c.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			c.cache.Delete(k)
		}
	}

	log.Debug().Str("namespace", namespace).Int("views", len(refetch)).Msg("list cache invalidated")
	for _, fn := range refetch {
		fn()
	}
	return len(refetch)
}

func (c *Client) register(namespace string, refetch func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.watchers[id] = watcher{namespace: namespace, refetch: refetch}
	return func() {
		c.mu.Lock()
		delete(c.watchers, id)
		c.mu.Unlock()
	}
}
