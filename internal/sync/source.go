// ABOUTME: Record sources for the update driver
// ABOUTME: Wraps a film-list stream or an in-memory record slice behind the Source interface

package sync

import (
	"context"
	"io"

	"github.com/hkern/mediathek/internal/filmlist"
	"github.com/hkern/mediathek/internal/models"
)

// ListSource streams records from a film-list document.
type ListSource struct {
	R io.Reader
}

// Stream implements Source.
func (s ListSource) Stream(ctx context.Context, fn func(*models.Record) error) error {
	return filmlist.Decode(ctx, s.R, fn)
}

// Records is an in-memory Source, used by tests and replays.
type Records []*models.Record

// Stream implements Source.
func (r Records) Stream(ctx context.Context, fn func(*models.Record) error) error {
	for _, rec := range r {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}
