// ABOUTME: Persisted sync status ledger with sentinel states and atomic patch updates
// ABOUTME: Readers always observe a fully-merged record; write failures are never swallowed

package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/hkern/mediathek/internal/models"
)

// Status returns the persisted sync status. If the store has never been
// opened the sentinel state UNINIT is returned; if the status table holds
// no row yet, the sentinel state NONE. Real query failures propagate.
func (s *Store) Status() (*models.Status, error) {
	if s == nil || s.db == nil {
		return &models.Status{Modified: time.Now(), State: models.StateUninit}, nil
	}

	row := s.db.QueryRow(`
		SELECT modified_at, status, last_update_at,
			added_channels, added_shows, added_films,
			removed_channels, removed_shows, removed_films,
			total_channels, total_shows, total_films,
			description
		FROM sync_status LIMIT 1`)

	var (
		st         models.Status
		modified   int64
		state      string
		lastUpdate sql.NullInt64
	)
	err := row.Scan(&modified, &state, &lastUpdate,
		&st.AddedChannels, &st.AddedShows, &st.AddedFilms,
		&st.RemovedChannels, &st.RemovedShows, &st.RemovedFilms,
		&st.TotalChannels, &st.TotalShows, &st.TotalFilms,
		&st.Description)
	if err == sql.ErrNoRows {
		return &models.Status{Modified: time.Now(), State: models.StateNone}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read status: %v", ErrStorage, err)
	}

	st.Modified = time.Unix(modified, 0)
	st.State = models.SyncState(state)
	if lastUpdate.Valid {
		t := time.Unix(lastUpdate.Int64, 0)
		st.LastUpdate = &t
	}
	return &st, nil
}

// UpdateStatus merges the non-nil fields of patch onto the stored status
// and writes the result, inserting the row if none exists yet. Merge and
// write happen in one transaction so a concurrent reader never observes
// a half-merged record.
func (s *Store) UpdateStatus(patch *models.StatusPatch) error {
	if s.db == nil {
		return fmt.Errorf("%w: store closed", ErrUnavailable)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: update status: %v", ErrStorage, err)
	}
	defer tx.Rollback()

	cur := models.Status{State: models.StateNone}
	var (
		modified   int64
		state      string
		lastUpdate sql.NullInt64
		exists     = true
	)
	err = tx.QueryRow(`
		SELECT modified_at, status, last_update_at,
			added_channels, added_shows, added_films,
			removed_channels, removed_shows, removed_films,
			total_channels, total_shows, total_films,
			description
		FROM sync_status LIMIT 1`).Scan(
		&modified, &state, &lastUpdate,
		&cur.AddedChannels, &cur.AddedShows, &cur.AddedFilms,
		&cur.RemovedChannels, &cur.RemovedShows, &cur.RemovedFilms,
		&cur.TotalChannels, &cur.TotalShows, &cur.TotalFilms,
		&cur.Description)
	if err == sql.ErrNoRows {
		exists = false
	} else if err != nil {
		return fmt.Errorf("%w: update status: %v", ErrStorage, err)
	} else {
		cur.State = models.SyncState(state)
		if lastUpdate.Valid {
			t := time.Unix(lastUpdate.Int64, 0)
			cur.LastUpdate = &t
		}
	}

	applyPatch(&cur, patch)
	cur.Modified = time.Now()

	var lu interface{}
	if cur.LastUpdate != nil {
		lu = cur.LastUpdate.Unix()
	}

	if exists {
		_, err = tx.Exec(`
			UPDATE sync_status
			SET modified_at = ?, status = ?, last_update_at = ?,
				added_channels = ?, added_shows = ?, added_films = ?,
				removed_channels = ?, removed_shows = ?, removed_films = ?,
				total_channels = ?, total_shows = ?, total_films = ?,
				description = ?`,
			cur.Modified.Unix(), string(cur.State), lu,
			cur.AddedChannels, cur.AddedShows, cur.AddedFilms,
			cur.RemovedChannels, cur.RemovedShows, cur.RemovedFilms,
			cur.TotalChannels, cur.TotalShows, cur.TotalFilms,
			cur.Description)
	} else {
		_, err = tx.Exec(`
			INSERT INTO sync_status (
				modified_at, status, last_update_at,
				added_channels, added_shows, added_films,
				removed_channels, removed_shows, removed_films,
				total_channels, total_shows, total_films,
				description
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			cur.Modified.Unix(), string(cur.State), lu,
			cur.AddedChannels, cur.AddedShows, cur.AddedFilms,
			cur.RemovedChannels, cur.RemovedShows, cur.RemovedFilms,
			cur.TotalChannels, cur.TotalShows, cur.TotalFilms,
			cur.Description)
	}
	if err != nil {
		return fmt.Errorf("%w: update status: %v", ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: update status: %v", ErrStorage, err)
	}
	return nil
}

func applyPatch(cur *models.Status, patch *models.StatusPatch) {
	if patch == nil {
		return
	}
	if patch.State != nil {
		cur.State = *patch.State
	}
	if patch.LastUpdate != nil {
		cur.LastUpdate = patch.LastUpdate
	}
	if patch.AddedChannels != nil {
		cur.AddedChannels = *patch.AddedChannels
	}
	if patch.AddedShows != nil {
		cur.AddedShows = *patch.AddedShows
	}
	if patch.AddedFilms != nil {
		cur.AddedFilms = *patch.AddedFilms
	}
	if patch.RemovedChannels != nil {
		cur.RemovedChannels = *patch.RemovedChannels
	}
	if patch.RemovedShows != nil {
		cur.RemovedShows = *patch.RemovedShows
	}
	if patch.RemovedFilms != nil {
		cur.RemovedFilms = *patch.RemovedFilms
	}
	if patch.TotalChannels != nil {
		cur.TotalChannels = *patch.TotalChannels
	}
	if patch.TotalShows != nil {
		cur.TotalShows = *patch.TotalShows
	}
	if patch.TotalFilms != nil {
		cur.TotalFilms = *patch.TotalFilms
	}
	if patch.Description != nil {
		cur.Description = *patch.Description
	}
}
