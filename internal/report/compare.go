// Package report drives the compare, inspect, recalculate and share
// workflow on top of the API client.
package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/existflow/qazzerep/internal/api"
	"github.com/existflow/qazzerep/internal/logger"
	"github.com/existflow/qazzerep/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultProcessingFloor is how long the processing animation runs at least
const DefaultProcessingFloor = 2200 * time.Millisecond

var (
	ErrTooFewFiles = errors.New("at least two files are required")
	ErrEmptyText   = errors.New("both texts must be non-empty")
)

// Backend is the part of the API the report workflow uses
type Backend interface {
	CompareBatch(ctx context.Context, files []api.Upload) (*model.BatchResult, error)
	Recalculate(ctx context.Context, r api.RecalcRequest) (*model.Comparison, error)
}

// Comparer runs batch comparisons
type Comparer struct {
	backend Backend
	floor   time.Duration
}

// NewComparer creates a comparer. A zero floor disables the wait.
func NewComparer(backend Backend, floor time.Duration) *Comparer {
	return &Comparer{backend: backend, floor: floor}
}

// Compare uploads uploads and waits for both the response and the
// processing floor. A failed request returns without waiting out the floor.
func (c *Comparer) Compare(ctx context.Context, uploads []api.Upload) ([]model.Comparison, error) {
	if len(uploads) < 2 {
		return nil, ErrTooFewFiles
	}

	var result *model.BatchResult
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res, err := c.backend.CompareBatch(gctx, uploads)
		if err != nil {
			return err
		}
		result = res
		return nil
	})

	if c.floor > 0 {
		g.Go(func() error {
			timer := time.NewTimer(c.floor)
			defer timer.Stop()
			select {
			case <-timer.C:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}

	start := time.Now()
	if err := g.Wait(); err != nil {
		logger.Warn("Compare failed", logger.F("files", len(uploads)), logger.F("error", err))
		return nil, err
	}

	logger.Info("Compare finished",
		logger.F("files", len(uploads)),
		logger.F("pairs", len(result.Comparisons)),
		logger.F("elapsed", time.Since(start).String()))
	return result.Comparisons, nil
}

// CompareFiles opens paths and compares them
func (c *Comparer) CompareFiles(ctx context.Context, paths []string) ([]model.Comparison, error) {
	if len(paths) < 2 {
		return nil, ErrTooFewFiles
	}

	uploads := make([]api.Upload, 0, len(paths))
	var files []*os.File
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", p, err)
		}
		files = append(files, f)
		uploads = append(uploads, api.Upload{Name: filepath.Base(p), Content: f})
	}
	return c.Compare(ctx, uploads)
}

// Recalculate posts edited text and returns the replacement result. The
// backend does not echo the report id or pair, so they are carried over
// from prev.
func (c *Comparer) Recalculate(ctx context.Context, prev model.Comparison, textA, textB string) (model.Comparison, error) {
	if strings.TrimSpace(textA) == "" || strings.TrimSpace(textB) == "" {
		return prev, ErrEmptyText
	}

	res, err := c.backend.Recalculate(ctx, api.RecalcRequest{
		TextA: textA,
		TextB: textB,
		NameA: prev.DocA.Name,
		NameB: prev.DocB.Name,
	})
	if err != nil {
		return prev, err
	}

	next := *res
	if next.ReportID == "" {
		next.ReportID = prev.ReportID
	}
	if next.Pair == "" {
		next.Pair = prev.Pair
	}
	if next.DocA.Name == "" {
		next.DocA.Name = prev.DocA.Name
	}
	if next.DocB.Name == "" {
		next.DocB.Name = prev.DocB.Name
	}
	logger.Debug("Recalculated",
		logger.F("report_id", next.ReportID),
		logger.F("originality", next.Originality))
	return next, nil
}
