// Package theme stores the light/dark/system preference and applies it
// to the terminal renderer.
package theme

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/qazzerep/internal/logger"
	"github.com/existflow/qazzerep/internal/storage"
)

// Preference is the user's theme choice
type Preference string

const (
	Light  Preference = "light"
	Dark   Preference = "dark"
	System Preference = "system"
)

// Preferences lists the valid values in cycle order
var Preferences = []Preference{Light, Dark, System}

// ParsePreference validates s
func ParsePreference(s string) (Preference, error) {
	switch p := Preference(strings.ToLower(strings.TrimSpace(s))); p {
	case Light, Dark, System:
		return p, nil
	}
	return System, fmt.Errorf("invalid theme %q: must be light, dark, or system", s)
}

// Store is the single writer of the theme preference
type Store struct {
	mu      sync.Mutex
	storage storage.Store
	pref    Preference
	// detect reports the terminal background; swapped in tests
	detect func() bool
}

// NewStore creates a store with the default detector
func NewStore(st storage.Store) *Store {
	return &Store{storage: st, pref: System, detect: lipgloss.HasDarkBackground}
}

// WithDetector replaces background detection
func (s *Store) WithDetector(detect func() bool) *Store {
	s.detect = detect
	return s
}

// Load reads the persisted preference. Missing or invalid values fall
// back to System.
func (s *Store) Load(ctx context.Context) error {
	v, ok, err := s.storage.Get(ctx, storage.KeyTheme)
	if err != nil {
		return fmt.Errorf("failed to read theme: %w", err)
	}

	pref := System
	if ok {
		if p, perr := ParsePreference(v); perr == nil {
			pref = p
		} else {
			logger.Warn("Ignoring stored theme", logger.F("value", v))
		}
	}

	s.mu.Lock()
	s.pref = pref
	s.mu.Unlock()
	return nil
}

// Preference returns the current choice
func (s *Store) Preference() Preference {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pref
}

// Set persists p with one write and applies it
func (s *Store) Set(ctx context.Context, p Preference) error {
	if _, err := ParsePreference(string(p)); err != nil {
		return err
	}
	if err := s.storage.Set(ctx, storage.KeyTheme, string(p)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}

	s.mu.Lock()
	s.pref = p
	s.mu.Unlock()

	s.Apply()
	return nil
}

// Cycle moves to the next preference: light, dark, system
func (s *Store) Cycle(ctx context.Context) (Preference, error) {
	cur := s.Preference()
	next := Preferences[0]
	for i, p := range Preferences {
		if p == cur {
			next = Preferences[(i+1)%len(Preferences)]
			break
		}
	}
	return next, s.Set(ctx, next)
}

// IsDark resolves the preference to a concrete mode
func (s *Store) IsDark() bool {
	switch s.Preference() {
	case Dark:
		return true
	case Light:
		return false
	default:
		return s.detect()
	}
}

// Apply points lipgloss adaptive colors at the resolved mode
func (s *Store) Apply() {
	dark := s.IsDark()
	lipgloss.SetHasDarkBackground(dark)
	logger.Debug("Theme applied", logger.F("preference", s.Preference()), logger.F("dark", dark))
}
