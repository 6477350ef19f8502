// ABOUTME: Tests for the update driver
// ABOUTME: Verifies counter persistence, abort handling and status transitions across runs

package sync

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hkern/mediathek/internal/models"
	"github.com/hkern/mediathek/internal/storage"
)

func setupTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "catalog.db"), false, storage.Options{}, nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func rec(channel, show, title, url string) *models.Record {
	return &models.Record{Channel: channel, Show: show, Title: title, VideoURL: url}
}

func TestRunPersistsCounters(t *testing.T) {
	store := setupTestStore(t)
	u := NewUpdater(store, nil)

	stats, err := u.Run(context.Background(), Records{
		rec("ARD", "Tagesschau", "Ausgabe 1", "http://x/1"),
		rec("ARD", "Tagesschau", "Ausgabe 2", "http://x/2"),
		rec("ZDF", "heute", "Ausgabe 1", "http://x/3"),
	}, true)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Records)
	assert.Equal(t, storage.Counts{Channels: 2, Shows: 2, Films: 3}, stats.Added)
	assert.Equal(t, storage.Counts{}, stats.Removed)
	assert.False(t, stats.Aborted)

	status, err := store.Status()
	require.NoError(t, err)
	assert.Equal(t, models.StateIdle, status.State)
	assert.Equal(t, 2, status.AddedChannels)
	assert.Equal(t, 2, status.AddedShows)
	assert.Equal(t, 3, status.AddedFilms)
	assert.Equal(t, 3, status.TotalFilms)
	assert.NotNil(t, status.LastUpdate)
}

func TestRunSecondPassRemovesStale(t *testing.T) {
	store := setupTestStore(t)
	u := NewUpdater(store, nil)

	_, err := u.Run(context.Background(), Records{
		rec("ARD", "Tagesschau", "Ausgabe 1", "http://x/1"),
		rec("ARD", "Tatort", "Folge 1", "http://x/2"),
	}, true)
	require.NoError(t, err)

	stats, err := u.Run(context.Background(), Records{
		rec("ARD", "Tagesschau", "Ausgabe 1", "http://x/1"),
	}, true)
	require.NoError(t, err)

	assert.Equal(t, storage.Counts{}, stats.Added)
	assert.Equal(t, 1, stats.Removed.Films)
	assert.Equal(t, 1, stats.Removed.Shows)
	assert.Equal(t, 0, stats.Removed.Channels)
	assert.Equal(t, storage.Counts{Channels: 1, Shows: 1, Films: 1}, stats.Totals)

	status, err := store.Status()
	require.NoError(t, err)
	assert.Equal(t, 1, status.RemovedFilms)
	assert.Equal(t, 1, status.TotalFilms)

	// added - removed == after - before, per entity
	assert.Equal(t, status.AddedFilms-status.RemovedFilms, 1-2)
}

func TestRunAbort(t *testing.T) {
	store := setupTestStore(t)
	u := NewUpdater(store, nil)

	_, err := u.Run(context.Background(), Records{
		rec("ARD", "Tagesschau", "Ausgabe 1", "http://x/1"),
	}, true)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := u.Run(ctx, Records{
		rec("ZDF", "heute", "Ausgabe 1", "http://x/2"),
	}, true)
	require.NoError(t, err)
	assert.True(t, stats.Aborted)
	assert.Equal(t, storage.Counts{}, stats.Removed)
	// Nothing was purged: the stale film survives the aborted pass.
	assert.Equal(t, 1, stats.Totals.Films)

	status, err := store.Status()
	require.NoError(t, err)
	assert.Equal(t, models.StateAborted, status.State)
}

func TestRunFromListSource(t *testing.T) {
	store := setupTestStore(t)
	u := NewUpdater(store, nil)

	doc := `{
		"Filmliste": ["a", "b", "c", "d", "e"],
		"X": ["ARD", "Tagesschau", "Ausgabe 1", "27.02.2024", "20:00:00", "00:15:00", "150", "", "http://x/1", "", "", "", "", "", "", "", "", "", "", ""],
		"X": ["", "", "Ausgabe 2", "27.02.2024", "12:00:00", "00:10:00", "", "", "http://x/2", "", "", "", "", "", "", "", "", "", "", ""]
	}`
	stats, err := u.Run(context.Background(), ListSource{R: strings.NewReader(doc)}, true)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Records)
	assert.Equal(t, storage.Counts{Channels: 1, Shows: 1, Films: 2}, stats.Totals)
}

func TestRunPartialLayersOntoFull(t *testing.T) {
	store := setupTestStore(t)
	u := NewUpdater(store, nil)

	_, err := u.Run(context.Background(), Records{
		rec("ARD", "Tagesschau", "Ausgabe 1", "http://x/1"),
	}, true)
	require.NoError(t, err)

	// Partial pass: previous markers stay set, nothing is purged.
	stats, err := u.Run(context.Background(), Records{
		rec("ARD", "Tagesschau", "Ausgabe 2", "http://x/2"),
	}, false)
	require.NoError(t, err)

	assert.Equal(t, storage.Counts{}, stats.Removed)
	assert.Equal(t, 2, stats.Totals.Films)
}
