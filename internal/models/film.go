// ABOUTME: Film model representing a single broadcast recording with its playback URLs
// ABOUTME: Also defines the Record type, one scraped film-list entry fed into the sync session

package models

import "time"

// Film represents a single film as delivered by a catalog query. Show and
// Channel carry the joined display names so the renderer does not need
// further lookups.
type Film struct {
	ID          int64
	Title       string
	Show        string
	Channel     string
	Description string
	Duration    *int       // Duration in seconds, nil when unknown
	SizeMB      *int       // Size in megabytes, nil when unknown
	Aired       *time.Time // Air time, nil when unknown
	WebsiteURL  string
	SubtitleURL string
	VideoURL    string
	VideoURLSD  string
	VideoURLHD  string
}

// BestVideoURL picks the playback URL: the HD variant when present and
// preferred, else the normal URL, else the SD fallback. Returns "" when
// the film carries no URL at all.
func (f *Film) BestVideoURL(preferHD bool) string {
	if preferHD && f.VideoURLHD != "" {
		return f.VideoURLHD
	}
	if f.VideoURL != "" {
		return f.VideoURL
	}
	return f.VideoURLSD
}

// Record is one scraped film-list entry as handed to the sync session.
// Duration stays in its raw "HH:MM:SS" form; parsing happens at ingest so
// a malformed value degrades to NULL instead of dropping the record.
type Record struct {
	Channel     string
	Show        string
	Title       string
	Aired       *time.Time
	Duration    string
	SizeMB      *int
	Description string
	WebsiteURL  string
	SubtitleURL string
	VideoURL    string
	VideoURLSD  string
	VideoURLHD  string
}
