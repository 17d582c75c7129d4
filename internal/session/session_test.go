package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/existflow/qazzerep/internal/model"
	"github.com/existflow/qazzerep/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	user  *model.User
	err   error
	calls int
	hook  func()
}

func (f *fakeFetcher) Me(ctx context.Context) (*model.User, error) {
	f.calls++
	if f.hook != nil {
		f.hook()
	}
	if f.err != nil {
		return nil, f.err
	}
	u := *f.user
	return &u, nil
}

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestLogin_PersistsOnceAndLoadsProfile(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	f := &fakeFetcher{user: &model.User{Email: "a@b.kz", DisplayName: "Aru"}}
	s := NewStore(mem, f)

	assert.Equal(t, LoggedOut, s.Snapshot().State)

	require.NoError(t, s.Login(ctx, "tok"))
	assert.Equal(t, 1, mem.Writes())

	stored, ok, _ := mem.Get(ctx, storage.KeyToken)
	assert.True(t, ok)
	assert.Equal(t, "tok", stored)

	snap := s.Snapshot()
	assert.Equal(t, LoggedIn, snap.State)
	assert.Equal(t, "tok", snap.Token)
	require.NotNil(t, snap.User)
	assert.Equal(t, "a@b.kz", snap.Identifier())
}

func TestLogin_StateIsLoadingDuringFetch(t *testing.T) {
	var s *Store
	var during State
	f := &fakeFetcher{user: &model.User{Email: "a@b.kz"}}
	f.hook = func() { during = s.Snapshot().State }
	s = NewStore(storage.NewMemory(), f)

	require.NoError(t, s.Login(context.Background(), "tok"))
	assert.Equal(t, Loading, during)
}

func TestLogout_ClearsEverythingWithOneWrite(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	s := NewStore(mem, &fakeFetcher{user: &model.User{Email: "a@b.kz"}})
	require.NoError(t, s.Login(ctx, "tok"))

	before := mem.Writes()
	require.NoError(t, s.Logout(ctx))
	assert.Equal(t, before+1, mem.Writes())

	snap := s.Snapshot()
	assert.Equal(t, LoggedOut, snap.State)
	assert.Empty(t, snap.Token)
	assert.Nil(t, snap.User)
	_, ok, _ := mem.Get(ctx, storage.KeyToken)
	assert.False(t, ok)
}

func TestFetchProfile_FailureLogsOut(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	boom := errors.New("401 expired")
	s := NewStore(mem, &fakeFetcher{err: boom})

	err := s.Login(ctx, "expired-token")
	assert.ErrorIs(t, err, boom)

	snap := s.Snapshot()
	assert.Equal(t, LoggedOut, snap.State)
	assert.Empty(t, snap.Token)
	assert.Nil(t, snap.User)
	_, ok, _ := mem.Get(ctx, storage.KeyToken)
	assert.False(t, ok)
}

type failingDelete struct {
	*storage.Memory
	err error
}

func (f failingDelete) Delete(ctx context.Context, key string) error {
	return f.err
}

func TestFetchProfile_FailureReportsLogoutError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("401 expired")
	diskFull := errors.New("disk full")
	s := NewStore(failingDelete{Memory: storage.NewMemory(), err: diskFull}, &fakeFetcher{err: boom})

	err := s.Login(ctx, "expired-token")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, diskFull)
	assert.Contains(t, err.Error(), "failed to clear token")
	assert.Equal(t, LoggedOut, s.Snapshot().State)
}

func TestFetchProfile_NoTokenIsNoop(t *testing.T) {
	f := &fakeFetcher{user: &model.User{}}
	s := NewStore(storage.NewMemory(), f)

	require.NoError(t, s.FetchProfile(context.Background()))
	assert.Equal(t, 0, f.calls)
	assert.Equal(t, LoggedOut, s.Snapshot().State)
}

func TestFetchProfile_DropsResultAfterLogout(t *testing.T) {
	ctx := context.Background()
	var s *Store
	f := &fakeFetcher{user: &model.User{Email: "late@b.kz"}}
	s = NewStore(storage.NewMemory(), f)
	require.NoError(t, s.Login(ctx, "tok"))

	// logout lands while the refresh is in flight
	f.hook = func() { _ = s.Logout(ctx) }
	require.NoError(t, s.FetchProfile(ctx))

	snap := s.Snapshot()
	assert.Equal(t, LoggedOut, snap.State)
	assert.Nil(t, snap.User)
}

func TestInit_RestoresPersistedToken(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	require.NoError(t, mem.Set(ctx, storage.KeyToken, "saved"))

	s := NewStore(mem, &fakeFetcher{user: &model.User{Email: "a@b.kz"}})
	require.NoError(t, s.Init(ctx))

	snap := s.Snapshot()
	assert.Equal(t, LoggedIn, snap.State)
	assert.Equal(t, "saved", snap.Token)
}

func TestInit_EmptyStorage(t *testing.T) {
	f := &fakeFetcher{}
	s := NewStore(storage.NewMemory(), f)
	require.NoError(t, s.Init(context.Background()))
	assert.Equal(t, LoggedOut, s.Snapshot().State)
	assert.Equal(t, 0, f.calls)
}

func TestUpdateUserData_MergesWithoutFetch(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{user: &model.User{Email: "a@b.kz", Avatar: "/old.png"}}
	s := NewStore(storage.NewMemory(), f)
	require.NoError(t, s.Login(ctx, "tok"))

	avatar := "/new.png"
	s.UpdateUserData(model.UserPatch{Avatar: &avatar})

	snap := s.Snapshot()
	assert.Equal(t, "/new.png", snap.User.Avatar)
	assert.Equal(t, "a@b.kz", snap.User.Email)
	assert.Equal(t, 1, f.calls)
}

func TestUpdateUserData_NoUserIsNoop(t *testing.T) {
	s := NewStore(storage.NewMemory(), &fakeFetcher{})
	name := "x"
	s.UpdateUserData(model.UserPatch{DisplayName: &name})
	assert.Nil(t, s.Snapshot().User)
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := NewStore(storage.NewMemory(), &fakeFetcher{user: &model.User{Email: "a@b.kz"}})
	require.NoError(t, s.Login(context.Background(), "tok"))

	snap := s.Snapshot()
	snap.User.Email = "mutated"
	assert.Equal(t, "a@b.kz", s.Snapshot().User.Email)
}

func TestSnapshot_RoleFallsBackToClaims(t *testing.T) {
	tok := signed(t, jwt.MapClaims{"sub": "boss@qazzerep.kz", "role": "admin"})
	s := NewStore(storage.NewMemory(), &fakeFetcher{user: &model.User{Email: "boss@qazzerep.kz"}})
	require.NoError(t, s.Login(context.Background(), tok))

	snap := s.Snapshot()
	assert.Equal(t, "admin", snap.Role())
	assert.Equal(t, "boss@qazzerep.kz", snap.Claims.Subject)
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(-time.Hour).Truncate(time.Second)
	tok := signed(t, jwt.MapClaims{"sub": "a@b.kz", "exp": exp.Unix()})

	c := ParseClaims(tok)
	assert.Equal(t, "a@b.kz", c.Subject)
	assert.True(t, c.ExpiresAt.Equal(exp))
	assert.True(t, c.Expired(time.Now()))

	emailOnly := ParseClaims(signed(t, jwt.MapClaims{"email": "e@b.kz"}))
	assert.Equal(t, "e@b.kz", emailOnly.Subject)
	assert.False(t, emailOnly.Expired(time.Now()))

	assert.Equal(t, Claims{}, ParseClaims("opaque-token"))
}
