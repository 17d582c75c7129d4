// Package history lists, summarizes, exports and clears past sessions.
package history

import (
	"context"
	"errors"
	"sort"

	"github.com/existflow/qazzerep/internal/logger"
	"github.com/existflow/qazzerep/internal/model"
)

// ErrCancelled is returned when the user declines the confirmation
var ErrCancelled = errors.New("cancelled")

// Backend is the part of the API history needs
type Backend interface {
	History(ctx context.Context) ([]model.HistorySession, error)
	ClearHistory(ctx context.Context) error
}

// Confirm asks the user a yes/no question
type Confirm func(question string) bool

// Load fetches sessions newest first. On failure the error is logged and
// an empty list returned alongside it so views can fall back.
func Load(ctx context.Context, b Backend) ([]model.HistorySession, error) {
	sessions, err := b.History(ctx)
	if err != nil {
		logger.Warn("Failed to load history", logger.F("error", err))
		return []model.HistorySession{}, err
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Timestamp.After(sessions[j].Timestamp.Time)
	})
	return sessions, nil
}

// CanClear reports whether the clear action is enabled
func CanClear(sessions []model.HistorySession) bool {
	return len(sessions) > 0
}

// Clear deletes all history after confirmation. With no sessions it does
// nothing and issues no request.
func Clear(ctx context.Context, b Backend, sessions []model.HistorySession, confirm Confirm, question string) (bool, error) {
	if !CanClear(sessions) {
		return false, nil
	}
	if confirm != nil && !confirm(question) {
		return false, ErrCancelled
	}
	if err := b.ClearHistory(ctx); err != nil {
		logger.Error("Failed to clear history", logger.F("error", err))
		return false, err
	}
	logger.Info("History cleared", logger.F("sessions", len(sessions)))
	return true, nil
}

// Comparisons flattens every comparison across sessions
func Comparisons(sessions []model.HistorySession) []model.Comparison {
	var out []model.Comparison
	for _, s := range sessions {
		out = append(out, s.Comparisons...)
	}
	return out
}
