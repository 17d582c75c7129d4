// Package admin lists and deletes stored documents across all users.
// There is no bulk delete and no paging.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/existflow/qazzerep/internal/logger"
	"github.com/existflow/qazzerep/internal/model"
)

var (
	ErrCancelled = errors.New("cancelled")
	ErrEmptyID   = errors.New("document id is required")
)

// Backend is the admin slice of the API
type Backend interface {
	AdminDocuments(ctx context.Context) ([]model.AdminDocument, error)
	DeleteDocument(ctx context.Context, id string) error
}

// Confirm asks the user a yes/no question
type Confirm func(question string) bool

// List fetches all documents. Failures are logged and an empty list is
// returned with the error.
func List(ctx context.Context, b Backend) ([]model.AdminDocument, error) {
	docs, err := b.AdminDocuments(ctx)
	if err != nil {
		logger.Warn("Failed to load admin documents", logger.F("error", err))
		return []model.AdminDocument{}, err
	}
	return docs, nil
}

// Delete removes one document after confirmation
func Delete(ctx context.Context, b Backend, id string, confirm Confirm, question string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrEmptyID
	}
	if confirm != nil && !confirm(question) {
		return ErrCancelled
	}
	if err := b.DeleteDocument(ctx, id); err != nil {
		logger.Error("Failed to delete document", logger.F("id", id), logger.F("error", err))
		return fmt.Errorf("failed to delete %s: %w", id, err)
	}
	logger.Info("Document deleted", logger.F("id", id))
	return nil
}

// DeleteAndRefresh deletes id and returns the refetched list
func DeleteAndRefresh(ctx context.Context, b Backend, id string, confirm Confirm, question string) ([]model.AdminDocument, error) {
	if err := Delete(ctx, b, id, confirm, question); err != nil {
		return nil, err
	}
	return List(ctx, b)
}
