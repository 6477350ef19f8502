// ABOUTME: SQLite catalog store holding channels, shows, films and the sync status ledger
// ABOUTME: Provides the browse/search query surface with contained read-path error handling

package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hkern/mediathek/internal/models"
)

// Store is the SQLite-backed catalog store.
type Store struct {
	db       *sql.DB
	path     string
	log      logrus.FieldLogger
	notifier Notifier
	opts     Options
	conds    string // filter fragment ANDed onto every condition query
}

const schema = `
	CREATE TABLE IF NOT EXISTS channels (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at INTEGER NOT NULL DEFAULT 0,
		touched INTEGER NOT NULL DEFAULT 1,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS shows (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at INTEGER NOT NULL DEFAULT 0,
		touched INTEGER NOT NULL DEFAULT 1,
		channel_id INTEGER NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		search_key TEXT NOT NULL,
		UNIQUE(channel_id, name)
	);

	CREATE INDEX IF NOT EXISTS idx_shows_search ON shows(search_key);
	CREATE INDEX IF NOT EXISTS idx_shows_channel_search ON shows(channel_id, search_key);

	CREATE TABLE IF NOT EXISTS films (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at INTEGER NOT NULL DEFAULT 0,
		touched INTEGER NOT NULL DEFAULT 1,
		channel_id INTEGER NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
		show_id INTEGER NOT NULL REFERENCES shows(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		search_key TEXT NOT NULL,
		aired_at INTEGER,
		duration_secs INTEGER,
		size_mb INTEGER,
		description TEXT NOT NULL DEFAULT '',
		website_url TEXT NOT NULL DEFAULT '',
		subtitle_url TEXT NOT NULL DEFAULT '',
		video_url TEXT NOT NULL DEFAULT '',
		video_url_sd TEXT NOT NULL DEFAULT '',
		video_url_hd TEXT NOT NULL DEFAULT ''
	);

	-- Dedup identity of a film
	CREATE UNIQUE INDEX IF NOT EXISTS idx_films_identity ON films(channel_id, show_id, video_url);
	CREATE INDEX IF NOT EXISTS idx_films_show_title ON films(show_id, title COLLATE NOCASE);

	CREATE TABLE IF NOT EXISTS sync_status (
		modified_at INTEGER NOT NULL,
		status TEXT NOT NULL,
		last_update_at INTEGER,
		added_channels INTEGER NOT NULL DEFAULT 0,
		added_shows INTEGER NOT NULL DEFAULT 0,
		added_films INTEGER NOT NULL DEFAULT 0,
		removed_channels INTEGER NOT NULL DEFAULT 0,
		removed_shows INTEGER NOT NULL DEFAULT 0,
		removed_films INTEGER NOT NULL DEFAULT 0,
		total_channels INTEGER NOT NULL DEFAULT 0,
		total_shows INTEGER NOT NULL DEFAULT 0,
		total_films INTEGER NOT NULL DEFAULT 0,
		description TEXT NOT NULL DEFAULT ''
	);
`

// filmQuery selects a fully-populated film row with joined show/channel
// display names.
const filmQuery = `
	SELECT films.id, films.title,
		COALESCE(shows.name, ''), COALESCE(channels.name, ''),
		films.description, films.duration_secs, films.size_mb,
		films.aired_at, films.website_url, films.subtitle_url,
		films.video_url, films.video_url_sd, films.video_url_hd
	FROM films
	LEFT JOIN shows ON shows.id = films.show_id
	LEFT JOIN channels ON channels.id = films.channel_id`

// Open opens or creates the catalog database at dbPath. When reset is
// true, or when no database exists yet, any prior file is removed, the
// schema is created from scratch and the sync status is set to IDLE.
func Open(dbPath string, reset bool, opts Options, log logrus.FieldLogger, notifier Notifier) (*Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("%w: create data directory: %v", ErrUnavailable, err)
	}

	fresh := reset
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fresh = true
	}
	if fresh {
		for _, suffix := range []string{"", "-wal", "-shm"} {
			if err := os.Remove(dbPath + suffix); err != nil && !os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: remove %s: %v", ErrUnavailable, dbPath+suffix, err)
			}
		}
	}

	db, err := sql.Open(driverName, dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", ErrUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: open database: %v", ErrUnavailable, err)
	}

	s := &Store{
		db:       db,
		path:     dbPath,
		log:      log,
		notifier: notifier,
		opts:     opts,
		conds:    composeConds(opts),
	}

	if fresh {
		if err := s.createSchema(); err != nil {
			db.Close()
			return nil, err
		}
	}

	return s, nil
}

// composeConds builds the global filter fragment from the settings. The
// fragment starts with " AND" so it can be appended to any WHERE clause.
func composeConds(opts Options) string {
	var b strings.Builder
	if opts.ExcludeFuture {
		b.WriteString(" AND ( ( films.aired_at IS NULL ) OR ( ( UNIX_TIMESTAMP() - films.aired_at ) > 0 ) )")
	}
	if opts.MinLength > 0 {
		fmt.Fprintf(&b, " AND ( ( films.duration_secs IS NULL ) OR ( films.duration_secs >= %d ) )", opts.MinLength)
	}
	return b.String()
}

func (s *Store) createSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("%w: create schema: %v", ErrUnavailable, err)
	}
	idle := models.StateIdle
	desc := ""
	if err := s.UpdateStatus(&models.StatusPatch{State: &idle, Description: &desc}); err != nil {
		return err
	}
	return nil
}

// Close closes the store and releases resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Compact performs database maintenance (VACUUM).
func (s *Store) Compact() error {
	if s.db == nil {
		return fmt.Errorf("%w: store closed", ErrUnavailable)
	}
	if _, err := s.db.Exec("VACUUM"); err != nil {
		return fmt.Errorf("%w: vacuum: %v", ErrStorage, err)
	}
	return nil
}

// SearchTitles delivers films whose title contains text
// (case-insensitive).
func (s *Store) SearchTitles(text string, c FilmConsumer) {
	s.searchCondition("( films.title LIKE ? )", []interface{}{like(text)}, true, true, c)
}

// SearchTitlesDescriptions delivers films whose title or description
// contains text (case-insensitive).
func (s *Store) SearchTitlesDescriptions(text string, c FilmConsumer) {
	s.searchCondition(
		"( ( films.title LIKE ? ) OR ( films.description LIKE ? ) )",
		[]interface{}{like(text), like(text)}, true, true, c)
}

// Recents delivers films aired within the given window before now.
func (s *Store) Recents(within time.Duration, c FilmConsumer) {
	secs := int64(within / time.Second)
	s.searchCondition("( ( UNIX_TIMESTAMP() - films.aired_at ) <= ? )", []interface{}{secs}, true, true, c)
}

// LiveStreams delivers the films of livestream shows.
func (s *Store) LiveStreams(c FilmConsumer) {
	s.searchCondition("( shows.search_key = 'LIVESTREAM' )", nil, false, false, c)
}

// Films delivers the films of one show. showIDs is a single id or a
// comma-joined id list as produced by grouped show listings; with
// multiple ids each film is annotated with its originating channel.
func (s *Store) Films(showIDs string, c FilmConsumer) {
	ids, err := splitIDs(showIDs)
	if err != nil || len(ids) == 0 {
		s.readFailed(fmt.Errorf("%w: bad show id list %q", ErrStorage, showIDs))
		c.Begin(false, false)
		c.End()
		return
	}
	args := make([]interface{}, len(ids))
	ph := make([]string, len(ids))
	for i, id := range ids {
		args[i] = id
		ph[i] = "?"
	}
	cond := "( films.show_id IN ( " + strings.Join(ph, ",") + " ) )"
	s.searchCondition(cond, args, false, len(ids) > 1, c)
}

// searchCondition runs the film query with the given condition, the
// global filters appended, and delivers the rows. Errors are contained:
// logged, reported to the notifier, and the consumer sees an empty
// stream.
func (s *Store) searchCondition(condition string, args []interface{}, showShows, showChannels bool, c FilmConsumer) {
	if s.db == nil {
		s.readFailed(fmt.Errorf("%w: store closed", ErrUnavailable))
		c.Begin(showShows, showChannels)
		c.End()
		return
	}
	query := filmQuery + " WHERE " + condition + s.conds
	s.log.WithField("query", query).Debug("sqlite query")

	rows, err := s.db.Query(query, args...)
	if err != nil {
		s.readFailed(fmt.Errorf("%w: %v", ErrStorage, err))
		c.Begin(showShows, showChannels)
		c.End()
		return
	}
	defer rows.Close()

	c.Begin(showShows, showChannels)
	defer c.End()
	for rows.Next() {
		f, err := scanFilm(rows)
		if err != nil {
			s.readFailed(fmt.Errorf("%w: %v", ErrStorage, err))
			return
		}
		c.Add(f)
	}
	if err := rows.Err(); err != nil {
		s.readFailed(fmt.Errorf("%w: %v", ErrStorage, err))
	}
}

func scanFilm(rows *sql.Rows) (*models.Film, error) {
	var (
		f        models.Film
		duration sql.NullInt64
		size     sql.NullInt64
		aired    sql.NullInt64
	)
	err := rows.Scan(&f.ID, &f.Title, &f.Show, &f.Channel, &f.Description,
		&duration, &size, &aired, &f.WebsiteURL, &f.SubtitleURL,
		&f.VideoURL, &f.VideoURLSD, &f.VideoURLHD)
	if err != nil {
		return nil, err
	}
	if duration.Valid {
		d := int(duration.Int64)
		f.Duration = &d
	}
	if size.Valid {
		n := int(size.Int64)
		f.SizeMB = &n
	}
	if aired.Valid {
		t := time.Unix(aired.Int64, 0)
		f.Aired = &t
	}
	return &f, nil
}

// Channels delivers all channels.
func (s *Store) Channels(c ChannelConsumer) {
	if s.db == nil {
		s.readFailed(fmt.Errorf("%w: store closed", ErrUnavailable))
		c.Begin()
		c.End()
		return
	}
	query := "SELECT id, created_at, touched, name FROM channels"
	s.log.WithField("query", query).Debug("sqlite query")

	rows, err := s.db.Query(query)
	if err != nil {
		s.readFailed(fmt.Errorf("%w: %v", ErrStorage, err))
		c.Begin()
		c.End()
		return
	}
	defer rows.Close()

	c.Begin()
	defer c.End()
	for rows.Next() {
		var (
			ch      models.Channel
			created int64
			touched int
		)
		if err := rows.Scan(&ch.ID, &created, &touched, &ch.Name); err != nil {
			s.readFailed(fmt.Errorf("%w: %v", ErrStorage, err))
			return
		}
		ch.CreatedAt = time.Unix(created, 0)
		ch.Touched = touched != 0
		c.Add(&ch)
	}
	if err := rows.Err(); err != nil {
		s.readFailed(fmt.Errorf("%w: %v", ErrStorage, err))
	}
}

// Initials delivers the first-letter distribution of show search keys,
// scoped to one channel or to AllChannels.
func (s *Store) Initials(channelID int64, c InitialConsumer) {
	if s.db == nil {
		s.readFailed(fmt.Errorf("%w: store closed", ErrUnavailable))
		c.Begin(channelID)
		c.End()
		return
	}
	query := "SELECT SUBSTR(search_key,1,1), COUNT(*) FROM shows"
	var args []interface{}
	if channelID != AllChannels {
		query += " WHERE ( channel_id = ? )"
		args = append(args, channelID)
	}
	query += " GROUP BY SUBSTR(search_key,1,1)"
	s.log.WithField("query", query).Debug("sqlite query")

	rows, err := s.db.Query(query, args...)
	if err != nil {
		s.readFailed(fmt.Errorf("%w: %v", ErrStorage, err))
		c.Begin(channelID)
		c.End()
		return
	}
	defer rows.Close()

	c.Begin(channelID)
	defer c.End()
	for rows.Next() {
		var (
			initial string
			count   int
		)
		if err := rows.Scan(&initial, &count); err != nil {
			s.readFailed(fmt.Errorf("%w: %v", ErrStorage, err))
			return
		}
		c.Add(initial, count)
	}
	if err := rows.Err(); err != nil {
		s.readFailed(fmt.Errorf("%w: %v", ErrStorage, err))
	}
}

// Shows delivers the shows of one channel, or of all channels, whose
// search key starts with initial (empty initial lists everything). When
// scoped to AllChannels with grouping enabled, same-named shows are
// merged into one listing with comma-joined ids and channel names.
func (s *Store) Shows(channelID int64, initial string, c ShowConsumer) {
	if s.db == nil {
		s.readFailed(fmt.Errorf("%w: store closed", ErrUnavailable))
		c.Begin(channelID)
		c.End()
		return
	}
	var (
		query string
		args  []interface{}
	)
	cond := ""
	if initial != "" {
		cond = " WHERE ( shows.search_key LIKE ? )"
		args = append(args, initial+"%")
	}
	switch {
	case channelID == AllChannels && s.opts.GroupShows:
		query = `SELECT GROUP_CONCAT(shows.id), GROUP_CONCAT(shows.channel_id), shows.name, GROUP_CONCAT(channels.name)
			FROM shows
			LEFT JOIN channels ON channels.id = shows.channel_id` +
			cond + " GROUP BY shows.name"
	case channelID == AllChannels:
		query = `SELECT shows.id, shows.channel_id, shows.name, channels.name
			FROM shows
			LEFT JOIN channels ON channels.id = shows.channel_id` + cond
	default:
		query = `SELECT shows.id, shows.channel_id, shows.name, channels.name
			FROM shows
			LEFT JOIN channels ON channels.id = shows.channel_id
			WHERE ( shows.channel_id = ? )`
		args = []interface{}{channelID}
		if initial != "" {
			query += " AND ( shows.search_key LIKE ? )"
			args = append(args, initial+"%")
		}
	}
	s.log.WithField("query", query).Debug("sqlite query")

	rows, err := s.db.Query(query, args...)
	if err != nil {
		s.readFailed(fmt.Errorf("%w: %v", ErrStorage, err))
		c.Begin(channelID)
		c.End()
		return
	}
	defer rows.Close()

	c.Begin(channelID)
	defer c.End()
	for rows.Next() {
		var l models.ShowListing
		if err := rows.Scan(&l.IDs, &l.ChannelIDs, &l.Name, &l.ChannelNames); err != nil {
			s.readFailed(fmt.Errorf("%w: %v", ErrStorage, err))
			return
		}
		c.Add(&l)
	}
	if err := rows.Err(); err != nil {
		s.readFailed(fmt.Errorf("%w: %v", ErrStorage, err))
	}
}

// readFailed handles a contained read-path failure.
func (s *Store) readFailed(err error) {
	s.log.WithError(err).Error("database error")
	s.notifier.StorageError(err)
}

func like(text string) string {
	return "%" + text + "%"
}

func splitIDs(list string) ([]int64, error) {
	parts := strings.Split(list, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
