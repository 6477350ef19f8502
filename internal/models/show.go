// ABOUTME: Show model representing a series/program belonging to a channel
// ABOUTME: Includes the grouped cross-channel listing row produced by the GROUP_CONCAT queries

package models

import "time"

// Show represents a series or program within a channel.
// A show is unique per (channel, name).
type Show struct {
	ID        int64
	CreatedAt time.Time
	Touched   bool
	ChannelID int64
	Name      string
	SearchKey string // Normalized uppercase name, derived, never edited directly
}

// ShowListing is one row of a show browse query. When shows are grouped
// across channels, IDs, ChannelIDs and ChannelNames hold comma-joined
// values for every channel carrying a show of that name; otherwise they
// hold a single value each.
type ShowListing struct {
	IDs          string // Show id, or comma-joined ids when grouped
	ChannelIDs   string // Owning channel id(s)
	Name         string // Display name
	ChannelNames string // Channel display name(s)
}

// Grouped reports whether the listing merges shows from several channels.
func (l *ShowListing) Grouped() bool {
	for i := 0; i < len(l.IDs); i++ {
		if l.IDs[i] == ',' {
			return true
		}
	}
	return false
}
