// ABOUTME: Sync session implementing the touch-based ingest and garbage collection protocol
// ABOUTME: Resolves channel→show→film identities, marks survivors and purges what was not re-seen

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/hkern/mediathek/internal/models"
	"github.com/hkern/mediathek/internal/parse"
)

// Counts holds per-entity row counts.
type Counts struct {
	Channels int
	Shows    int
	Films    int
}

// Sub returns c - o per entity.
func (c Counts) Sub(o Counts) Counts {
	return Counts{
		Channels: c.Channels - o.Channels,
		Shows:    c.Shows - o.Shows,
		Films:    c.Films - o.Films,
	}
}

// IngestResult reports what a single Ingest call did.
type IngestResult struct {
	FilmID     int64
	NewChannel bool
	NewShow    bool
	NewFilm    bool
}

// identityCache remembers the channel and show resolved by the previous
// Ingest call. Scrape streams arrive grouped by channel and show, so
// repeating identities short-circuit the lookups. The cache belongs to
// one session and starts empty at every BeginSync.
type identityCache struct {
	channelName string
	channelID   int64
	haveChannel bool
	showName    string
	showID      int64
	haveShow    bool
}

// SyncSession is one synchronization pass over the catalog. The protocol
// assumes exclusive write access to the store between BeginSync and End;
// readers may run concurrently and observe whole per-record units only.
type SyncSession struct {
	store *Store
	ids   identityCache
	done  bool
}

// BeginSync starts a synchronization pass. A full pass clears the touched
// marker on every row first; a partial pass layers onto the existing
// markers. The returned counts snapshot the table sizes at pass start.
func (s *Store) BeginSync(full bool) (*SyncSession, Counts, error) {
	if s.db == nil {
		return nil, Counts{}, fmt.Errorf("%w: store closed", ErrUnavailable)
	}
	if full {
		tx, err := s.db.Begin()
		if err != nil {
			return nil, Counts{}, fmt.Errorf("%w: begin sync: %v", ErrStorage, err)
		}
		for _, table := range []string{"channels", "shows", "films"} {
			if _, err := tx.Exec("UPDATE " + table + " SET touched = 0"); err != nil {
				tx.Rollback()
				return nil, Counts{}, fmt.Errorf("%w: begin sync: %v", ErrStorage, err)
			}
		}
		if err := tx.Commit(); err != nil {
			return nil, Counts{}, fmt.Errorf("%w: begin sync: %v", ErrStorage, err)
		}
	}

	counts, err := s.counts()
	if err != nil {
		return nil, Counts{}, err
	}
	return &SyncSession{store: s}, counts, nil
}

func (s *Store) counts() (Counts, error) {
	var c Counts
	for _, q := range []struct {
		table string
		dst   *int
	}{
		{"channels", &c.Channels},
		{"shows", &c.Shows},
		{"films", &c.Films},
	} {
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + q.table).Scan(q.dst); err != nil {
			return Counts{}, fmt.Errorf("%w: count %s: %v", ErrStorage, q.table, err)
		}
	}
	return c, nil
}

// Ingest reconciles one scraped record against the store: the channel,
// show and film are resolved in order, marked touched when found and
// created when absent. The call is idempotent per identity and runs as
// one transaction, so concurrent readers see the whole unit or none of
// it. A failed call affects that record only.
func (sess *SyncSession) Ingest(rec *models.Record) (IngestResult, error) {
	if sess.done {
		return IngestResult{}, fmt.Errorf("%w: ingest after session end", ErrStorage)
	}

	var res IngestResult
	now := time.Now().Unix()

	tx, err := sess.store.db.Begin()
	if err != nil {
		return res, fmt.Errorf("%w: ingest: %v", ErrStorage, err)
	}
	defer tx.Rollback()

	// The cache is committed to the session only after the transaction
	// commits; a rolled-back insert must not leave a dangling identity.
	ids := sess.ids

	if !ids.haveChannel || ids.channelName != rec.Channel {
		ids.haveShow = false
		id, created, err := resolveChannel(tx, rec.Channel, now)
		if err != nil {
			return res, err
		}
		ids.channelName = rec.Channel
		ids.channelID = id
		ids.haveChannel = true
		res.NewChannel = created
	}

	if !ids.haveShow || ids.showName != rec.Show {
		id, created, err := resolveShow(tx, ids.channelID, rec.Show, now)
		if err != nil {
			return res, err
		}
		ids.showName = rec.Show
		ids.showID = id
		ids.haveShow = true
		res.NewShow = created
	}

	filmID, created, err := resolveFilm(tx, ids.channelID, ids.showID, rec, now)
	if err != nil {
		return res, err
	}
	res.FilmID = filmID
	res.NewFilm = created

	if err := tx.Commit(); err != nil {
		return IngestResult{}, fmt.Errorf("%w: ingest: %v", ErrStorage, err)
	}
	sess.ids = ids
	return res, nil
}

func resolveChannel(tx *sql.Tx, name string, now int64) (int64, bool, error) {
	var (
		id      int64
		touched int
	)
	err := tx.QueryRow("SELECT id, touched FROM channels WHERE name = ?", name).Scan(&id, &touched)
	switch {
	case err == sql.ErrNoRows:
		r, err := tx.Exec("INSERT INTO channels ( created_at, name ) VALUES ( ?, ? )", now, name)
		if err != nil {
			return 0, false, wrapWrite("insert channel", err)
		}
		id, err = r.LastInsertId()
		if err != nil {
			return 0, false, wrapWrite("insert channel", err)
		}
		return id, true, nil
	case err != nil:
		return 0, false, wrapWrite("resolve channel", err)
	}
	if touched == 0 {
		if _, err := tx.Exec("UPDATE channels SET touched = 1 WHERE id = ?", id); err != nil {
			return 0, false, wrapWrite("touch channel", err)
		}
	}
	return id, false, nil
}

func resolveShow(tx *sql.Tx, channelID int64, name string, now int64) (int64, bool, error) {
	var (
		id      int64
		touched int
	)
	err := tx.QueryRow("SELECT id, touched FROM shows WHERE ( channel_id = ? ) AND ( name = ? )",
		channelID, name).Scan(&id, &touched)
	switch {
	case err == sql.ErrNoRows:
		r, err := tx.Exec(
			"INSERT INTO shows ( created_at, channel_id, name, search_key ) VALUES ( ?, ?, ?, ? )",
			now, channelID, name, parse.SearchKey(name))
		if err != nil {
			return 0, false, wrapWrite("insert show", err)
		}
		id, err = r.LastInsertId()
		if err != nil {
			return 0, false, wrapWrite("insert show", err)
		}
		return id, true, nil
	case err != nil:
		return 0, false, wrapWrite("resolve show", err)
	}
	if touched == 0 {
		if _, err := tx.Exec("UPDATE shows SET touched = 1 WHERE id = ?", id); err != nil {
			return 0, false, wrapWrite("touch show", err)
		}
	}
	return id, false, nil
}

func resolveFilm(tx *sql.Tx, channelID, showID int64, rec *models.Record, now int64) (int64, bool, error) {
	var (
		id      int64
		touched int
	)
	err := tx.QueryRow(
		"SELECT id, touched FROM films WHERE ( channel_id = ? ) AND ( show_id = ? ) AND ( video_url = ? )",
		channelID, showID, rec.VideoURL).Scan(&id, &touched)
	switch {
	case err == sql.ErrNoRows:
		// A found film is assumed unchanged, so only new films carry the
		// parsed fields.
		var aired interface{}
		if rec.Aired != nil {
			aired = rec.Aired.Unix()
		}
		var duration interface{}
		if d := parse.Duration(rec.Duration); d != nil {
			duration = *d
		}
		var size interface{}
		if rec.SizeMB != nil {
			size = *rec.SizeMB
		}
		r, err := tx.Exec(`
			INSERT INTO films (
				created_at, channel_id, show_id, title, search_key,
				aired_at, duration_secs, size_mb, description,
				website_url, subtitle_url, video_url, video_url_sd, video_url_hd
			) VALUES ( ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ? )`,
			now, channelID, showID, rec.Title, parse.SearchKey(rec.Title),
			aired, duration, size, rec.Description,
			rec.WebsiteURL, rec.SubtitleURL, rec.VideoURL, rec.VideoURLSD, rec.VideoURLHD)
		if err != nil {
			return 0, false, wrapWrite("insert film", err)
		}
		id, err = r.LastInsertId()
		if err != nil {
			return 0, false, wrapWrite("insert film", err)
		}
		return id, true, nil
	case err != nil:
		return 0, false, wrapWrite("resolve film", err)
	}
	if touched == 0 {
		if _, err := tx.Exec("UPDATE films SET touched = 1 WHERE id = ?", id); err != nil {
			return 0, false, wrapWrite("touch film", err)
		}
	}
	return id, false, nil
}

// End finishes the pass. Unless aborted, shows that were not touched and
// have no touched film left are deleted, then every untouched film; the
// deletes cascade. Channels are never purged by a pass. An aborted pass
// deletes nothing and reports zero removals. The store stays valid either
// way.
func (sess *SyncSession) End(aborted bool) (removed, totals Counts, err error) {
	if sess.done {
		return Counts{}, Counts{}, fmt.Errorf("%w: session already ended", ErrStorage)
	}
	sess.done = true
	sess.ids = identityCache{}

	if aborted {
		totals, err = sess.store.counts()
		return Counts{}, totals, err
	}

	before, err := sess.store.counts()
	if err != nil {
		return Counts{}, Counts{}, err
	}

	tx, err := sess.store.db.Begin()
	if err != nil {
		return Counts{}, Counts{}, fmt.Errorf("%w: end sync: %v", ErrStorage, err)
	}
	defer tx.Rollback()

	// A show with any touched film survives even when the show row itself
	// was not re-touched.
	if _, err := tx.Exec(`
		DELETE FROM shows
		WHERE ( touched = 0 )
		AND id NOT IN ( SELECT show_id FROM films WHERE touched = 1 )`); err != nil {
		return Counts{}, Counts{}, fmt.Errorf("%w: purge shows: %v", ErrStorage, err)
	}
	if _, err := tx.Exec("DELETE FROM films WHERE ( touched = 0 )"); err != nil {
		return Counts{}, Counts{}, fmt.Errorf("%w: purge films: %v", ErrStorage, err)
	}
	if err := tx.Commit(); err != nil {
		return Counts{}, Counts{}, fmt.Errorf("%w: end sync: %v", ErrStorage, err)
	}

	totals, err = sess.store.counts()
	if err != nil {
		return Counts{}, Counts{}, err
	}
	return before.Sub(totals), totals, nil
}

func wrapWrite(op string, err error) error {
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %s: %v", ErrIntegrity, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}
