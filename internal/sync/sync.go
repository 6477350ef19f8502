// ABOUTME: Update driver running one synchronization pass from a record source into the store
// ABOUTME: Tracks add/remove counters and persists the outcome through the status ledger

package sync

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hkern/mediathek/internal/models"
	"github.com/hkern/mediathek/internal/storage"
)

// Source streams scrape records into a callback. Returning an error from
// the callback stops the stream and propagates.
type Source interface {
	Stream(ctx context.Context, fn func(*models.Record) error) error
}

// Stats summarizes one update run.
type Stats struct {
	Records int
	Added   storage.Counts
	Removed storage.Counts
	Totals  storage.Counts
	Aborted bool
}

// Updater drives synchronization passes against one store.
type Updater struct {
	store *storage.Store
	log   logrus.FieldLogger
}

// NewUpdater creates an updater for the given store.
func NewUpdater(store *storage.Store, log logrus.FieldLogger) *Updater {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Updater{store: store, log: log}
}

// Run executes one synchronization pass: mark the status UPDATING, stream
// every record from src into the store, finish the touch/GC session and
// persist the resulting counters. Cancelling ctx aborts the pass cleanly:
// nothing is purged and the status ends up ABORTED. Status ledger
// failures are never swallowed; a stale "last update" display is worse
// than a failed run.
func (u *Updater) Run(ctx context.Context, src Source, full bool) (*Stats, error) {
	runID := uuid.New().String()[:8]
	log := u.log.WithField("update", runID)

	sess, before, err := u.store.BeginSync(full)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"full":     full,
		"channels": before.Channels,
		"shows":    before.Shows,
		"films":    before.Films,
	}).Info("update started")

	if err := u.setState(models.StateUpdating, "update "+runID+" running"); err != nil {
		sess.End(true)
		return nil, err
	}

	stats := &Stats{}
	streamErr := src.Stream(ctx, func(rec *models.Record) error {
		res, err := sess.Ingest(rec)
		if err != nil {
			return err
		}
		stats.Records++
		if res.NewChannel {
			stats.Added.Channels++
		}
		if res.NewShow {
			stats.Added.Shows++
		}
		if res.NewFilm {
			stats.Added.Films++
		}
		return nil
	})

	stats.Aborted = streamErr != nil
	removed, totals, err := sess.End(stats.Aborted)
	if err != nil {
		return nil, err
	}
	stats.Removed = removed
	stats.Totals = totals

	state := models.StateIdle
	patch := &models.StatusPatch{
		State:           &state,
		AddedChannels:   &stats.Added.Channels,
		AddedShows:      &stats.Added.Shows,
		AddedFilms:      &stats.Added.Films,
		RemovedChannels: &stats.Removed.Channels,
		RemovedShows:    &stats.Removed.Shows,
		RemovedFilms:    &stats.Removed.Films,
		TotalChannels:   &stats.Totals.Channels,
		TotalShows:      &stats.Totals.Shows,
		TotalFilms:      &stats.Totals.Films,
	}
	desc := "update " + runID + " finished"
	if stats.Aborted {
		state = models.StateAborted
		desc = "update " + runID + " aborted"
	} else {
		now := time.Now()
		patch.LastUpdate = &now
	}
	patch.Description = &desc
	if err := u.store.UpdateStatus(patch); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"records": stats.Records,
		"aborted": stats.Aborted,
		"films":   stats.Totals.Films,
	}).Info("update finished")

	if streamErr != nil && !errors.Is(streamErr, context.Canceled) {
		return stats, streamErr
	}
	return stats, nil
}

func (u *Updater) setState(state models.SyncState, desc string) error {
	return u.store.UpdateStatus(&models.StatusPatch{State: &state, Description: &desc})
}
