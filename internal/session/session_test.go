package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"member-portal/internal/auth"

	"github.com/stretchr/testify/require"
)

func TestSession_LoginLogoutFlashes(t *testing.T) {
	s := &Session{ID: "a"}
	require.False(t, s.IsAuthenticated())

	s.Login(7)
	require.True(t, s.IsAuthenticated())

	s.AddFlash(FlashInfo, "hello")
	s.AddFlash(FlashDanger, "oops")
	flashes := s.TakeFlashes()
	require.Len(t, flashes, 2)
	require.Equal(t, Flash{Category: FlashInfo, Message: "hello"}, flashes[0])
	require.Empty(t, s.TakeFlashes())

	s.Logout()
	s.Logout()
	require.False(t, s.IsAuthenticated())
}

func TestMemoryStore_SaveGetIsolated(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	s := &Session{ID: "a", UserID: 3}
	s.AddFlash(FlashInfo, "x")
	require.NoError(t, store.Save(ctx, s))

	// later mutation of the caller's copy does not leak into the store
	s.UserID = 99
	s.Flashes[0].Message = "changed"

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	require.EqualValues(t, 3, got.UserID)
	require.Equal(t, "x", got.Flashes[0].Message)
	require.Equal(t, 1, store.Len())

	require.NoError(t, store.Delete(ctx, "a"))
	_, err = store.Get(ctx, "a")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	base := time.Now()
	now = func() time.Time { return base }
	t.Cleanup(func() { now = time.Now })

	require.NoError(t, store.Save(ctx, &Session{ID: "a"}))
	_, err := store.Get(ctx, "a")
	require.NoError(t, err)

	base = base.Add(2 * time.Minute)
	_, err = store.Get(ctx, "a")
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, 0, store.Len())

	store.PurgeExpired()
	store.mu.RLock()
	require.Empty(t, store.items)
	store.mu.RUnlock()
}

func TestMemoryStore_JanitorStop(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	store.StartJanitor(time.Millisecond)
	store.Stop()
	store.Stop()
}

func newManager() (*Manager, *MemoryStore) {
	store := NewMemoryStore(time.Hour)
	return NewManager(store, auth.NewTokenSigner("secret"), Options{TTL: time.Hour}), store
}

func TestManager_RoundTrip(t *testing.T) {
	m, _ := newManager()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	s, err := m.Load(req)
	require.NoError(t, err)
	require.NotEmpty(t, s.ID)
	s.Login(5)
	require.NoError(t, m.Save(context.Background(), s))

	w := httptest.NewRecorder()
	require.NoError(t, m.WriteCookie(w, s))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.True(t, cookies[0].HttpOnly)
	require.Equal(t, DefaultCookieName, cookies[0].Name)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])
	loaded, err := m.Load(next)
	require.NoError(t, err)
	require.Equal(t, s.ID, loaded.ID)
	require.EqualValues(t, 5, loaded.UserID)
}

func TestManager_TamperedCookieGetsFreshSession(t *testing.T) {
	m, _ := newManager()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "forged.token.value"})
	s, err := m.Load(req)
	require.NoError(t, err)
	require.False(t, s.IsAuthenticated())

	// a validly signed cookie from another secret is rejected too
	foreign, err := auth.NewTokenSigner("other").Sign("victim", time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: foreign})
	s, err = m.Load(req)
	require.NoError(t, err)
	require.NotEqual(t, "victim", s.ID)
}

func TestManager_Renew(t *testing.T) {
	m, store := newManager()
	ctx := context.Background()

	s := m.New()
	s.Login(1)
	require.NoError(t, m.Save(ctx, s))
	old := s.ID

	require.NoError(t, m.Renew(ctx, s))
	require.NotEqual(t, old, s.ID)
	require.True(t, s.Modified())

	_, err := store.Get(ctx, old)
	require.ErrorIs(t, err, ErrNotFound)

	w := httptest.NewRecorder()
	require.NoError(t, m.Commit(ctx, w, s))
	require.Len(t, w.Result().Cookies(), 1)
	_, err = store.Get(ctx, s.ID)
	require.NoError(t, err)
}

func TestSession_ModifiedTracking(t *testing.T) {
	s := &Session{ID: "a"}
	require.False(t, s.Modified())

	s.Logout()
	require.False(t, s.Modified(), "logout of an anonymous session changes nothing")
	require.Empty(t, s.TakeFlashes())
	require.False(t, s.Modified())

	s.AddFlash(FlashInfo, "x")
	require.True(t, s.Modified())
}

func TestManager_CommitSkipsEmptySessions(t *testing.T) {
	m, store := newManager()
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		s, err := m.Load(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		w := httptest.NewRecorder()
		require.NoError(t, m.Commit(ctx, w, s))
		require.Empty(t, w.Result().Cookies())
	}
	require.Zero(t, store.Len())
}

func TestManager_CommitDropsDrainedSession(t *testing.T) {
	m, store := newManager()
	ctx := context.Background()

	s := m.New()
	s.AddFlash(FlashInfo, "bye")
	w := httptest.NewRecorder()
	require.NoError(t, m.Commit(ctx, w, s))
	require.Equal(t, 1, store.Len())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(w.Result().Cookies()[0])
	loaded, err := m.Load(req)
	require.NoError(t, err)
	require.False(t, loaded.Modified())
	require.Len(t, loaded.TakeFlashes(), 1)

	w = httptest.NewRecorder()
	require.NoError(t, m.Commit(ctx, w, loaded))
	require.Zero(t, store.Len())
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Negative(t, cookies[0].MaxAge)
}

func TestManager_CommitUnchangedOnlyTouches(t *testing.T) {
	m, store := newManager()
	ctx := context.Background()

	s := m.New()
	s.Login(9)
	require.NoError(t, m.Save(ctx, s))

	// a newer request changes the stored copy
	newer := s.clone()
	newer.AddFlash(FlashInfo, "from another request")
	require.NoError(t, store.Save(ctx, newer))

	w := httptest.NewRecorder()
	require.NoError(t, m.Commit(ctx, w, s))
	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, got.Flashes, 1, "unchanged session must not overwrite the store")
	require.Len(t, w.Result().Cookies(), 1)
}

func TestMemoryStore_Touch(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	base := time.Now()
	now = func() time.Time { return base }
	t.Cleanup(func() { now = time.Now })

	require.NoError(t, store.Save(ctx, &Session{ID: "a", UserID: 1}))
	base = base.Add(50 * time.Second)
	require.NoError(t, store.Touch(ctx, "a"))
	base = base.Add(50 * time.Second)
	_, err := store.Get(ctx, "a")
	require.NoError(t, err)

	require.ErrorIs(t, store.Touch(ctx, "missing"), ErrNotFound)
}
