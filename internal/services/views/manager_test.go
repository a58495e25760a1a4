package views

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"adminconsole/internal/domain/corporate"
	"adminconsole/internal/domain/phase"
	"adminconsole/internal/domain/project"
	"adminconsole/internal/domain/session"
	"adminconsole/internal/domain/taskgroup"
	"adminconsole/internal/domain/user"
	"adminconsole/internal/listquery"
	"adminconsole/internal/upstream"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type projectCall struct {
	token     string
	corporate string
	params    project.ListParams
}

type fakeBackend struct {
	mu       sync.Mutex
	projects []projectCall
	phases   []string
	image    string
}

func (b *fakeBackend) ListCorporates(ctx context.Context, token string, p corporate.ListParams) (upstream.Response[[]corporate.Corporate], error) {
	return upstream.Response[[]corporate.Corporate]{Data: []corporate.Corporate{{CorporateID: "c-1"}}}, nil
}

func (b *fakeBackend) ListUsers(ctx context.Context, token, corporateID string, p user.ListParams) (upstream.Response[[]user.User], error) {
	return upstream.Response[[]user.User]{Data: []user.User{}}, nil
}

func (b *fakeBackend) ListProjects(ctx context.Context, token, corporateID string, p project.ListParams) (upstream.Response[[]project.Project], error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.projects = append(b.projects, projectCall{token: token, corporate: corporateID, params: p})
	return upstream.Response[[]project.Project]{
		Data:     []project.Project{{ProjectID: "p-1", CorporateID: corporateID, ImageURL: b.image}},
		PageInfo: &listquery.PageInfo{Page: p.Page, Limit: p.Limit, Total: 1, TotalPage: 1},
	}, nil
}

func (b *fakeBackend) ListPhases(ctx context.Context, token, corporateID, projectID string, p phase.ListParams) (upstream.Response[[]phase.Phase], error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.phases = append(b.phases, corporateID+"/"+projectID)
	return upstream.Response[[]phase.Phase]{Data: []phase.Phase{{PhaseID: "ph-1", ProjectID: projectID}}}, nil
}

func (b *fakeBackend) ListTaskGroups(ctx context.Context, token, corporateID, projectID string, p taskgroup.ListParams) (upstream.Response[[]taskgroup.TaskGroup], error) {
	return upstream.Response[[]taskgroup.TaskGroup]{Data: []taskgroup.TaskGroup{}}, nil
}

func (b *fakeBackend) projectCalls() []projectCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]projectCall(nil), b.projects...)
}

func (b *fakeBackend) phaseCalls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.phases...)
}

func newManager(t *testing.T, backend *fakeBackend, poll listquery.PollPolicy) (*Manager, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	m := NewManager(DefaultRegistry(), backend, Options{
		Debounce: 500 * time.Millisecond,
		Poll:     poll,
		Clock:    clock,
	})
	t.Cleanup(m.Shutdown)
	return m, clock
}

func newSession(id, corporateID string) *session.Session {
	return &session.Session{ID: id, Token: "tok-" + id, SelectedCorporate: corporateID}
}

func waitProjectCalls(t *testing.T, b *fakeBackend, n int) []projectCall {
	t.Helper()
	require.Eventually(t, func() bool { return len(b.projectCalls()) >= n }, waitFor, tick)
	return b.projectCalls()
}

func TestOpenProjectsUsesSessionScope(t *testing.T) {
	backend := &fakeBackend{}
	m, _ := newManager(t, backend, listquery.PollPolicy{})

	info, err := m.Open(newSession("s-1", "c-1"), ResourceProjects, OpenParams{
		Limit:   20,
		Filters: map[string]string{"status": "ALL", "project_type": "software", "owner": "me"},
	})
	require.NoError(t, err)
	assert.Equal(t, NamespaceProjects, info.Namespace)

	calls := waitProjectCalls(t, backend, 1)
	assert.Equal(t, "tok-s-1", calls[0].token)
	assert.Equal(t, "c-1", calls[0].corporate)
	assert.Equal(t, project.ListParams{ProjectType: "SOFTWARE", Page: 1, Limit: 20}, calls[0].params)

	require.Eventually(t, func() bool {
		got, err := m.Get("s-1", info.ID)
		if err != nil {
			return false
		}
		v := got.View.(listquery.View[project.Project])
		return !v.IsFetching && len(v.Items) == 1
	}, waitFor, tick)

	got, err := m.Get("s-1", info.ID)
	require.NoError(t, err)
	v := got.View.(listquery.View[project.Project])
	assert.Equal(t, listquery.Filters{"project_type": "SOFTWARE"}, v.Filters)
}

func TestOpenChecksScope(t *testing.T) {
	m, _ := newManager(t, &fakeBackend{}, listquery.PollPolicy{})

	_, err := m.Open(newSession("s-1", ""), ResourceProjects, OpenParams{})
	assert.ErrorIs(t, err, ErrNoCorporate)

	_, err = m.Open(newSession("s-1", ""), ResourceCorporates, OpenParams{})
	assert.NoError(t, err)

	_, err = m.Open(newSession("s-1", "c-1"), ResourcePhases, OpenParams{})
	assert.ErrorIs(t, err, ErrProjectRequired)

	_, err = m.Open(newSession("s-1", "c-1"), Resource("invoices"), OpenParams{})
	assert.ErrorIs(t, err, ErrUnknownResource)
}

func TestViewsBelongToTheirSession(t *testing.T) {
	m, _ := newManager(t, &fakeBackend{}, listquery.PollPolicy{})

	info, err := m.Open(newSession("s-1", "c-1"), ResourceUsers, OpenParams{})
	require.NoError(t, err)

	_, err = m.Get("s-2", info.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.Close("s-2", info.ID), ErrNotFound)
	assert.ErrorIs(t, m.Refetch("s-2", info.ID), ErrNotFound)

	require.NoError(t, m.Close("s-1", info.ID))
	_, err = m.Get("s-1", info.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSyncSessionRefetchesWithNewCorporate(t *testing.T) {
	backend := &fakeBackend{}
	m, _ := newManager(t, backend, listquery.PollPolicy{})
	s := newSession("s-1", "c-1")

	_, err := m.Open(s, ResourceProjects, OpenParams{})
	require.NoError(t, err)
	_, err = m.Open(s, ResourcePhases, OpenParams{ProjectID: "p-9"})
	require.NoError(t, err)
	waitProjectCalls(t, backend, 1)
	require.Eventually(t, func() bool { return len(backend.phaseCalls()) == 1 }, waitFor, tick)

	s.SelectedCorporate = "c-2"
	m.SyncSession(s)

	calls := waitProjectCalls(t, backend, 2)
	assert.Equal(t, "c-2", calls[1].corporate)
	require.Eventually(t, func() bool { return len(backend.phaseCalls()) == 2 }, waitFor, tick)
	assert.Equal(t, []string{"c-1/p-9", "c-2/p-9"}, backend.phaseCalls())
}

func TestInvalidateReachesEverySession(t *testing.T) {
	backend := &fakeBackend{}
	m, _ := newManager(t, backend, listquery.PollPolicy{})

	_, err := m.Open(newSession("s-1", "c-1"), ResourceProjects, OpenParams{})
	require.NoError(t, err)
	_, err = m.Open(newSession("s-2", "c-1"), ResourceProjects, OpenParams{})
	require.NoError(t, err)
	_, err = m.Open(newSession("s-2", "c-1"), ResourceUsers, OpenParams{})
	require.NoError(t, err)
	waitProjectCalls(t, backend, 2)

	assert.Equal(t, 2, m.Invalidate(NamespaceProjects))
	waitProjectCalls(t, backend, 4)
}

func TestUpdateSearchIsDebounced(t *testing.T) {
	backend := &fakeBackend{}
	m, clock := newManager(t, backend, listquery.PollPolicy{})

	info, err := m.Open(newSession("s-1", "c-1"), ResourceProjects, OpenParams{Page: 3})
	require.NoError(t, err)
	waitProjectCalls(t, backend, 1)

	search := "tower"
	got, err := m.Update("s-1", info.ID, Patch{Search: &search})
	require.NoError(t, err)
	assert.Equal(t, "tower", got.View.(listquery.View[project.Project]).SearchTerm)
	require.Never(t, func() bool { return len(backend.projectCalls()) > 1 }, 30*time.Millisecond, tick)

	require.NoError(t, clock.BlockUntilContext(context.Background(), 1))
	clock.Advance(500 * time.Millisecond)

	calls := waitProjectCalls(t, backend, 2)
	assert.Equal(t, "tower", calls[1].params.Q)
	assert.Equal(t, 1, calls[1].params.Page)
}

func TestUpdatePageAndLimit(t *testing.T) {
	backend := &fakeBackend{}
	m, _ := newManager(t, backend, listquery.PollPolicy{})

	info, err := m.Open(newSession("s-1", "c-1"), ResourceProjects, OpenParams{})
	require.NoError(t, err)
	waitProjectCalls(t, backend, 1)

	page, limit := 2, 50
	_, err = m.Update("s-1", info.ID, Patch{Page: &page, Limit: &limit})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		for _, c := range backend.projectCalls() {
			if c.params.Page == 2 && c.params.Limit == 50 {
				return true
			}
		}
		return false
	}, waitFor, tick)
}

func TestReapClosesIdleViews(t *testing.T) {
	m, clock := newManager(t, &fakeBackend{}, listquery.PollPolicy{})

	idle, err := m.Open(newSession("s-1", "c-1"), ResourceUsers, OpenParams{})
	require.NoError(t, err)
	watched, err := m.Open(newSession("s-1", "c-1"), ResourceUsers, OpenParams{})
	require.NoError(t, err)
	sub, err := m.Subscribe("s-1", watched.ID)
	require.NoError(t, err)
	defer sub.Close()

	clock.Advance(31 * time.Minute)
	assert.Equal(t, 1, m.Reap(clock.Now(), DefaultIdleTTL))

	_, err = m.Get("s-1", idle.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Get("s-1", watched.ID)
	assert.NoError(t, err)
}

func TestPollNoticeReachesSubscribers(t *testing.T) {
	backend := &fakeBackend{image: "https://cdn.example/p-1/processing.png"}
	m, clock := newManager(t, backend, listquery.PollPolicy{Interval: time.Second, MaxAttempts: 1})

	info, err := m.Open(newSession("s-1", "c-1"), ResourceProjects, OpenParams{})
	require.NoError(t, err)
	sub, err := m.Subscribe("s-1", info.ID)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, clock.BlockUntilContext(context.Background(), 1))
	clock.Advance(time.Second)

	select {
	case n := <-sub.Notices():
		assert.Equal(t, listquery.PollNoticeMessage, n.Message)
		assert.Equal(t, "warning", n.Level)
	case <-time.After(waitFor):
		t.Fatal("no polling notice")
	}
}

func TestCloseSessionStopsEverything(t *testing.T) {
	defer goleak.VerifyNone(t,
		goleak.IgnoreCurrent(),
		goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"),
	)

	backend := &fakeBackend{image: "https://cdn.example/p-1/processing.png"}
	m, clock := newManager(t, backend, listquery.PollPolicy{Interval: time.Second, MaxAttempts: 5})

	info, err := m.Open(newSession("s-1", "c-1"), ResourceProjects, OpenParams{})
	require.NoError(t, err)
	sub, err := m.Subscribe("s-1", info.ID)
	require.NoError(t, err)
	require.NoError(t, clock.BlockUntilContext(context.Background(), 1))

	m.CloseSession("s-1")
	select {
	case <-sub.Done():
	case <-time.After(waitFor):
		t.Fatal("subscription not ended")
	}
	assert.Zero(t, m.Count())
	_, err = m.Get("s-1", info.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
