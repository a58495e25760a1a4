package session

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adminconsole/internal/domain/auth"
	"adminconsole/internal/domain/corporate"
	"adminconsole/internal/domain/session"
	"adminconsole/internal/domain/validation"
	redisstore "adminconsole/internal/store/redis"
	"adminconsole/internal/upstream"
	"adminconsole/internal/upstream/base"
)

type fakeBackend struct {
	mu         sync.Mutex
	token      string
	loginErr   error
	corporates []corporate.Corporate
	listCalls  []corporate.ListParams
	logins     int
}

func (b *fakeBackend) Login(ctx context.Context, creds auth.LoginCredentials) (upstream.Response[auth.LoginData], error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logins++
	if b.loginErr != nil {
		return upstream.Response[auth.LoginData]{}, b.loginErr
	}
	return upstream.Response[auth.LoginData]{Data: auth.LoginData{
		User:  auth.User{UserID: "u-1", Email: creds.Email},
		Token: b.token,
	}}, nil
}

func (b *fakeBackend) Register(ctx context.Context, creds auth.RegisterCredentials) (upstream.Response[auth.RegisterData], error) {
	return upstream.Response[auth.RegisterData]{Data: auth.RegisterData{
		Corporate: corporate.Registered{Code: creds.Corporate.Code},
	}}, nil
}

func (b *fakeBackend) ListCorporates(ctx context.Context, token string, p corporate.ListParams) (upstream.Response[[]corporate.Corporate], error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listCalls = append(b.listCalls, p)
	return upstream.Response[[]corporate.Corporate]{Data: b.corporates}, nil
}

type recordingViews struct {
	mu     sync.Mutex
	synced []string
	closed []string
}

func (v *recordingViews) SyncSession(s *session.Session) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.synced = append(v.synced, s.SelectedCorporate)
}

func (v *recordingViews) CloseSession(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = append(v.closed, id)
}

type fixture struct {
	svc     *Service
	backend *fakeBackend
	views   *recordingViews
	clock   *clockwork.FakeClock
	redis   *miniredis.Miniredis
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u-1", "exp": exp.Unix()}).SignedString([]byte("test"))
	require.NoError(t, err)
	return tok
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
	backend := &fakeBackend{
		token: signed(t, clock.Now().Add(2*time.Hour)),
		corporates: []corporate.Corporate{
			{CorporateID: "c-1", CorporateName: "Acme"},
			{CorporateID: "c-2", CorporateName: "Globex"},
		},
	}
	views := &recordingViews{}
	svc := NewService(redisstore.NewSessionRepository(client), backend, views, 24*time.Hour, clock)
	return &fixture{svc: svc, backend: backend, views: views, clock: clock, redis: mr}
}

var creds = auth.LoginCredentials{Email: " Ann@Acme.io ", Password: "password1"}

func TestLoginStoresSessionWithFirstCorporate(t *testing.T) {
	f := newFixture(t)

	sess, err := f.svc.Login(context.Background(), creds)
	require.NoError(t, err)
	assert.Equal(t, "ann@acme.io", sess.User.Email)
	assert.Equal(t, "c-1", sess.SelectedCorporate)
	require.Len(t, f.backend.listCalls, 1)
	assert.Equal(t, corporate.ListParams{Status: "ACTIVE", Page: 1, Limit: CorporateListLimit}, f.backend.listCalls[0])

	key := "adminconsole:session:" + sess.ID
	assert.True(t, f.redis.Exists(key))
	assert.Equal(t, 2*time.Hour, f.redis.TTL(key))

	got, err := f.svc.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Corporates, got.Corporates)
}

func TestLoginRejectsInvalidCredentials(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Login(context.Background(), auth.LoginCredentials{Email: "ann@acme.io", Password: "short"})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)
	assert.Zero(t, f.backend.logins)
}

func TestLoginPassesUpstreamError(t *testing.T) {
	f := newFixture(t)
	f.backend.loginErr = &base.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid credentials"}

	_, err := f.svc.Login(context.Background(), creds)
	apiErr, ok := base.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestLoginRejectsTokenWithoutExpiry(t *testing.T) {
	f := newFixture(t)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u-1"}).SignedString([]byte("test"))
	require.NoError(t, err)
	f.backend.token = tok

	_, err = f.svc.Login(context.Background(), creds)
	assert.Error(t, err)
}

func TestGetFailsOnceTokenExpires(t *testing.T) {
	f := newFixture(t)
	sess, err := f.svc.Login(context.Background(), creds)
	require.NoError(t, err)

	f.clock.Advance(3 * time.Hour)
	_, err = f.svc.Get(context.Background(), sess.ID)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.False(t, f.redis.Exists("adminconsole:session:"+sess.ID))
	assert.Equal(t, []string{sess.ID}, f.views.closed)
}

func TestGetUnknownSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = f.svc.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSelectCorporate(t *testing.T) {
	f := newFixture(t)
	sess, err := f.svc.Login(context.Background(), creds)
	require.NoError(t, err)

	_, err = f.svc.SelectCorporate(context.Background(), sess.ID, "c-9")
	assert.ErrorIs(t, err, ErrUnknownCorporate)

	got, err := f.svc.SelectCorporate(context.Background(), sess.ID, "c-2")
	require.NoError(t, err)
	assert.Equal(t, "c-2", got.SelectedCorporate)
	assert.Equal(t, []string{"c-2"}, f.views.synced)

	stored, err := f.svc.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "c-2", stored.SelectedCorporate)
}

func TestRefreshCorporatesKeepsSelectionWhileAvailable(t *testing.T) {
	f := newFixture(t)
	sess, err := f.svc.Login(context.Background(), creds)
	require.NoError(t, err)
	_, err = f.svc.SelectCorporate(context.Background(), sess.ID, "c-2")
	require.NoError(t, err)

	f.backend.corporates = []corporate.Corporate{{CorporateID: "c-2"}, {CorporateID: "c-3"}}
	got, err := f.svc.RefreshCorporates(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "c-2", got.SelectedCorporate)

	f.backend.corporates = []corporate.Corporate{{CorporateID: "c-3"}}
	got, err = f.svc.RefreshCorporates(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "c-3", got.SelectedCorporate)
}

func TestLogoutClosesViews(t *testing.T) {
	f := newFixture(t)
	sess, err := f.svc.Login(context.Background(), creds)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), sess.ID))
	assert.Equal(t, []string{sess.ID}, f.views.closed)
	_, err = f.svc.Get(context.Background(), sess.ID)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRegisterNormalizesCode(t *testing.T) {
	f := newFixture(t)
	data, err := f.svc.Register(context.Background(), auth.RegisterCredentials{
		Corporate: corporate.RegisterPayload{Code: " acme ", Name: "Acme", Email: "a@acme.io", Phone: "0812345678"},
		User:      auth.RegisterUser{Email: "ann@acme.io", Password: "password1", Name: "Ann", Phone: "0812345678"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ACME", data.Corporate.Code)
}
