package views

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"adminconsole/internal/core"
	"adminconsole/internal/domain/session"
	"adminconsole/internal/listquery"
)

var (
	// ErrNotFound is returned for unknown views and for views of another session.
	ErrNotFound = errors.New("view not found")
	// ErrUnknownResource is returned when opening a resource nobody registered.
	ErrUnknownResource = errors.New("unknown resource")
	// ErrNoCorporate is returned for corporate lists while no corporate is selected.
	ErrNoCorporate = errors.New("no corporate selected")
	// ErrProjectRequired is returned for project lists opened without a project.
	ErrProjectRequired = errors.New("project_id is required")
)

const noticeBuffer = 8

// Options configures a Manager.
type Options struct {
	CacheTTL     time.Duration
	FetchTimeout time.Duration
	Debounce     time.Duration
	Poll         listquery.PollPolicy
	Clock        clockwork.Clock
	Registerer   prometheus.Registerer
}

// OpenParams are the initial inputs of a new view.
type OpenParams struct {
	Page      int               `json:"page"`
	Limit     int               `json:"limit"`
	Filters   map[string]string `json:"filters"`
	ProjectID string            `json:"project_id"`
}

// Patch changes the inputs of a view. Nil fields are left alone.
type Patch struct {
	Page    *int              `json:"page"`
	Limit   *int              `json:"limit"`
	Search  *string           `json:"search"`
	Filters map[string]string `json:"filters"`
}

// Info describes a view and carries its current snapshot.
type Info struct {
	ID        string   `json:"id"`
	Resource  Resource `json:"resource"`
	Namespace string   `json:"namespace"`
	ProjectID string   `json:"project_id,omitempty"`
	View      any      `json:"view"`
}

// Manager owns the list views of every session. Each session gets its own
// request cache so one user's pages are never served to another.
type Manager struct {
	registry *Registry
	backend  Backend
	opts     Options
	metrics  *listquery.Metrics

	mu       sync.Mutex
	sessions map[string]*sessionViews
	views    map[string]*view
}

type sessionViews struct {
	id     string
	client *listquery.Client

	mu        sync.RWMutex
	token     string
	corporate string
	views     map[string]*view
}

func (s *sessionViews) scope() (token, corporateID string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.corporate
}

type view struct {
	id        string
	sessionID string
	resource  Resource
	namespace string
	projectID string
	filterKey map[string]bool
	handle    Handle
	clock     clockwork.Clock
	done      chan struct{}

	mu       sync.Mutex
	lastSeen time.Time
	subs     map[int]chan listquery.Notice
	nextSub  int
}

// NewManager creates a view manager.
func NewManager(registry *Registry, backend Backend, opts Options) *Manager {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Manager{
		registry: registry,
		backend:  backend,
		opts:     opts,
		metrics:  listquery.NewMetrics(opts.Registerer),
		sessions: make(map[string]*sessionViews),
		views:    make(map[string]*view),
	}
}

// Open starts a view of resource for the session.
func (m *Manager) Open(s *session.Session, resource Resource, p OpenParams) (Info, error) {
	def, err := m.registry.Get(resource)
	if err != nil {
		return Info{}, err
	}
	if def.Corporate && s.SelectedCorporate == "" {
		return Info{}, ErrNoCorporate
	}
	p.ProjectID = strings.TrimSpace(p.ProjectID)
	if def.Project && p.ProjectID == "" {
		return Info{}, ErrProjectRequired
	}
	if !def.Project {
		p.ProjectID = ""
	}

	sv := m.session(s)
	v := &view{
		id:        uuid.NewString(),
		sessionID: s.ID,
		resource:  resource,
		namespace: def.Namespace,
		projectID: p.ProjectID,
		filterKey: make(map[string]bool, len(def.FilterKeys)),
		clock:     m.opts.Clock,
		done:      make(chan struct{}),
		lastSeen:  m.opts.Clock.Now(),
		subs:      make(map[int]chan listquery.Notice),
	}
	for _, k := range def.FilterKeys {
		v.filterKey[k] = true
	}

	h, err := def.Build(Env{
		Client:    sv.client,
		Backend:   m.backend,
		Token:     func() string { t, _ := sv.scope(); return t },
		Corporate: func() string { _, c := sv.scope(); return c },
		ProjectID: p.ProjectID,
		Page:      p.Page,
		Limit:     p.Limit,
		Filters:   v.filters(p.Filters),
		Debounce:  m.opts.Debounce,
		Poll:      m.opts.Poll,
		Clock:     m.opts.Clock,
		OnNotice:  v.publish,
	})
	if err != nil {
		return Info{}, fmt.Errorf("open %s: %w", resource, err)
	}
	v.handle = h

	m.mu.Lock()
	if m.sessions[s.ID] != sv {
		m.mu.Unlock()
		h.Close()
		return Info{}, ErrNotFound
	}
	m.views[v.id] = v
	sv.mu.Lock()
	sv.views[v.id] = v
	sv.mu.Unlock()
	m.mu.Unlock()

	log.Debug().
		Str("session_id", s.ID).
		Str("view_id", v.id).
		Str("resource", string(resource)).
		Msg("list view opened")
	return v.info(), nil
}

// Get returns the current snapshot of a view.
func (m *Manager) Get(sessionID, id string) (Info, error) {
	v, err := m.lookup(sessionID, id)
	if err != nil {
		return Info{}, err
	}
	return v.info(), nil
}

// Update applies a patch and returns the resulting snapshot.
func (m *Manager) Update(sessionID, id string, p Patch) (Info, error) {
	v, err := m.lookup(sessionID, id)
	if err != nil {
		return Info{}, err
	}
	if p.Filters != nil {
		v.handle.SetFilters(v.filters(p.Filters))
	}
	if p.Limit != nil {
		v.handle.SetLimit(*p.Limit)
	}
	if p.Page != nil {
		v.handle.SetPage(*p.Page)
	}
	if p.Search != nil {
		v.handle.SetSearchTerm(*p.Search)
	}
	return v.info(), nil
}

// Refetch reloads the current page of a view.
func (m *Manager) Refetch(sessionID, id string) error {
	v, err := m.lookup(sessionID, id)
	if err != nil {
		return err
	}
	v.handle.Refetch()
	return nil
}

// Close stops a view.
func (m *Manager) Close(sessionID, id string) error {
	v, err := m.lookup(sessionID, id)
	if err != nil {
		return err
	}
	m.closeView(v)
	return nil
}

// Subscribe follows a view's changes and notices until the view closes.
func (m *Manager) Subscribe(sessionID, id string) (*Subscription, error) {
	v, err := m.lookup(sessionID, id)
	if err != nil {
		return nil, err
	}
	return v.subscribe(), nil
}

// SyncSession takes over a session's token and selected corporate and lets
// each of its views refetch when its scope moved.
func (m *Manager) SyncSession(s *session.Session) {
	m.mu.Lock()
	sv, ok := m.sessions[s.ID]
	m.mu.Unlock()
	if !ok {
		return
	}

	sv.mu.Lock()
	sv.token = s.Token
	sv.corporate = s.SelectedCorporate
	list := make([]*view, 0, len(sv.views))
	for _, v := range sv.views {
		list = append(list, v)
	}
	sv.mu.Unlock()

	for _, v := range list {
		v.handle.Sync()
	}
}

// CloseSession stops every view of a session and drops its cache.
func (m *Manager) CloseSession(id string) {
	m.mu.Lock()
	sv, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return
	}

	sv.mu.Lock()
	list := make([]*view, 0, len(sv.views))
	for _, v := range sv.views {
		list = append(list, v)
	}
	sv.mu.Unlock()

	for _, v := range list {
		m.closeView(v)
	}
	sv.client.Close()
	log.Debug().Str("session_id", id).Int("views", len(list)).Msg("session views closed")
}

// Invalidate drops cached pages of namespace in every session and refetches
// the live views showing it.
func (m *Manager) Invalidate(namespace string) int {
	m.mu.Lock()
	clients := make([]*listquery.Client, 0, len(m.sessions))
	for _, sv := range m.sessions {
		clients = append(clients, sv.client)
	}
	m.mu.Unlock()

	n := 0
	for _, c := range clients {
		n += c.Invalidate(namespace)
	}
	return n
}

// Reap closes views nobody looked at since before now-idle and that have no
// subscribers. It returns how many were closed.
func (m *Manager) Reap(now time.Time, idle time.Duration) int {
	m.mu.Lock()
	var stale []*view
	for _, v := range m.views {
		if v.idleSince(now) > idle {
			stale = append(stale, v)
		}
	}
	m.mu.Unlock()

	for _, v := range stale {
		m.closeView(v)
	}
	return len(stale)
}

// Count returns the number of open views.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.views)
}

// Shutdown closes every session's views.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.CloseSession(id)
	}
}

func (m *Manager) session(s *session.Session) *sessionViews {
	m.mu.Lock()
	defer m.mu.Unlock()

	sv, ok := m.sessions[s.ID]
	if !ok {
		sv = &sessionViews{
			id: s.ID,
			client: listquery.NewClient(listquery.ClientOptions{
				CacheTTL:     m.opts.CacheTTL,
				FetchTimeout: m.opts.FetchTimeout,
				Metrics:      m.metrics,
			}),
			views: make(map[string]*view),
		}
		m.sessions[s.ID] = sv
	}
	sv.mu.Lock()
	sv.token = s.Token
	sv.corporate = s.SelectedCorporate
	sv.mu.Unlock()
	return sv
}

func (m *Manager) lookup(sessionID, id string) (*view, error) {
	m.mu.Lock()
	v, ok := m.views[id]
	m.mu.Unlock()
	if !ok || v.sessionID != sessionID {
		return nil, ErrNotFound
	}
	v.touch(m.opts.Clock.Now())
	return v, nil
}

func (m *Manager) closeView(v *view) {
	m.mu.Lock()
	_, ok := m.views[v.id]
	delete(m.views, v.id)
	sv := m.sessions[v.sessionID]
	m.mu.Unlock()
	if !ok {
		return
	}
	if sv != nil {
		sv.mu.Lock()
		delete(sv.views, v.id)
		sv.mu.Unlock()
	}

	v.handle.Close()
	close(v.done)
	log.Debug().Str("view_id", v.id).Str("resource", string(v.resource)).Msg("list view closed")
}

// filters keeps the resource's filter keys and drops "ALL" selections.
func (v *view) filters(in map[string]string) listquery.Filters {
	out := listquery.Filters{}
	for k, val := range in {
		if !v.filterKey[k] {
			continue
		}
		if strings.HasSuffix(k, "_id") {
			val = strings.TrimSpace(val)
		} else {
			val = core.NormalizeFilter(val)
		}
		if val != "" {
			out[k] = val
		}
	}
	return out
}

func (v *view) info() Info {
	return Info{
		ID:        v.id,
		Resource:  v.resource,
		Namespace: v.namespace,
		ProjectID: v.projectID,
		View:      v.handle.View(),
	}
}

func (v *view) touch(now time.Time) {
	v.mu.Lock()
	v.lastSeen = now
	v.mu.Unlock()
}

func (v *view) idleSince(now time.Time) time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.subs) > 0 {
		return 0
	}
	return now.Sub(v.lastSeen)
}

func (v *view) publish(n listquery.Notice) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, ch := range v.subs {
		select {
		case ch <- n:
		default:
			log.Warn().Str("view_id", v.id).Msg("notice dropped, subscriber is slow")
		}
	}
}

func (v *view) subscribe() *Subscription {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nextSub++
	ch := make(chan listquery.Notice, noticeBuffer)
	v.subs[v.nextSub] = ch
	return &Subscription{view: v, id: v.nextSub, notices: ch}
}

func (v *view) unsubscribe(id int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.subs, id)
	v.lastSeen = v.clock.Now()
}

// Subscription follows one view.
type Subscription struct {
	view    *view
	id      int
	notices chan listquery.Notice
	once    sync.Once
}

// Notices delivers notices raised by the view.
func (s *Subscription) Notices() <-chan listquery.Notice { return s.notices }

// Changed is closed at the view's next state change.
func (s *Subscription) Changed() <-chan struct{} { return s.view.handle.Changed() }

// Done is closed when the view closes.
func (s *Subscription) Done() <-chan struct{} { return s.view.done }

// Info returns the view's current snapshot.
func (s *Subscription) Info() Info { return s.view.info() }

// Close stops the subscription.
func (s *Subscription) Close() {
	s.once.Do(func() { s.view.unsubscribe(s.id) })
}
