// Package session holds the process-wide login state: the bearer token
// and the resolved user profile.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/existflow/qazzerep/internal/logger"
	"github.com/existflow/qazzerep/internal/model"
	"github.com/existflow/qazzerep/internal/storage"
)

// State is the session lifecycle state
type State int

const (
	LoggedOut State = iota
	Loading
	LoggedIn
)

func (s State) String() string {
	switch s {
	case LoggedOut:
		return "logged-out"
	case Loading:
		return "loading"
	case LoggedIn:
		return "logged-in"
	default:
		return "unknown"
	}
}

// ProfileFetcher resolves the token's owner
type ProfileFetcher interface {
	Me(ctx context.Context) (*model.User, error)
}

// Snapshot is a consistent copy of the session
type Snapshot struct {
	State  State
	Token  string
	User   *model.User
	Claims Claims
}

// HasToken reports whether a token is held
func (s Snapshot) HasToken() bool {
	return s.Token != ""
}

// Identifier is the resolved user's identifier, or "" with no user
func (s Snapshot) Identifier() string {
	if s.User == nil {
		return ""
	}
	if id := s.User.Identifier(); id != "" {
		return id
	}
	return s.Claims.Subject
}

// Role is the role from the profile or, failing that, the token claims
func (s Snapshot) Role() string {
	if s.User != nil && s.User.Role != "" {
		return s.User.Role
	}
	if s.User == nil {
		return ""
	}
	return s.Claims.Role
}

// Store is the single writer of session state. Every durable change goes
// through Login or Logout, each touching storage exactly once.
type Store struct {
	mu      sync.Mutex
	storage storage.Store
	fetcher ProfileFetcher
	token   string
	user    *model.User
	state   State
	gen     uint64
}

// NewStore creates a logged-out session store
func NewStore(st storage.Store, fetcher ProfileFetcher) *Store {
	return &Store{storage: st, fetcher: fetcher}
}

// Init restores a persisted token and resolves its profile. It is called
// once at program start.
func (s *Store) Init(ctx context.Context) error {
	token, ok, err := s.storage.Get(ctx, storage.KeyToken)
	if err != nil {
		return fmt.Errorf("failed to read stored token: %w", err)
	}

	s.mu.Lock()
	if ok && token != "" {
		s.token = token
		s.state = Loading
	}
	s.mu.Unlock()

	return s.FetchProfile(ctx)
}

// Login persists token, moves to Loading and fetches the profile
func (s *Store) Login(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("empty token")
	}
	if err := s.storage.Set(ctx, storage.KeyToken, token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.user = nil
	s.state = Loading
	s.gen++
	s.mu.Unlock()

	logger.Info("Session login", logger.F("subject", ParseClaims(token).Subject))
	return s.FetchProfile(ctx)
}

// Logout forgets the token and user
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.state = LoggedOut
	s.gen++
	s.mu.Unlock()

	logger.Info("Session logout")
	if err := s.storage.Delete(ctx, storage.KeyToken); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

// FetchProfile resolves the user for the current token. Any failure logs
// the session out and is returned for display, joined with the logout
// error if clearing the stored token failed too. A result that arrives
// after the token changed is dropped.
func (s *Store) FetchProfile(ctx context.Context) error {
	s.mu.Lock()
	if s.token == "" {
		s.user = nil
		s.state = LoggedOut
		s.mu.Unlock()
		return nil
	}
	gen := s.gen
	s.state = Loading
	s.mu.Unlock()

	user, err := s.fetcher.Me(ctx)

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		logger.Debug("Dropping stale profile response", logger.F("gen", gen))
		return nil
	}
	if err == nil {
		s.user = user
		s.state = LoggedIn
		s.mu.Unlock()
		logger.Debug("Profile loaded", logger.F("user", user.Identifier()))
		return nil
	}
	s.mu.Unlock()

	logger.Warn("Profile fetch failed, logging out", logger.F("error", err))
	if lerr := s.Logout(ctx); lerr != nil {
		return errors.Join(err, lerr)
	}
	return err
}

// UpdateUserData shallow-merges patch into the in-memory user without a
// fetch. It does nothing when no user is loaded.
func (s *Store) UpdateUserData(patch model.UserPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return
	}
	merged := s.user.Merge(patch)
	s.user = &merged
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{State: s.state, Token: s.token}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	if s.token != "" {
		snap.Claims = ParseClaims(s.token)
	}
	return snap
}
