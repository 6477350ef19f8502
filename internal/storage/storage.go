// ABOUTME: Consumer interfaces and options for the catalog store
// ABOUTME: Defines the begin/add/end delivery contract used by the presentation layer

package storage

import (
	"github.com/hkern/mediathek/internal/models"
)

// AllChannels selects every channel in queries that can be scoped to one.
const AllChannels int64 = 0

// Options are the settings applied to the store at open time. The future
// and minimum-length filters are composed once and ANDed onto every
// condition-based film query.
type Options struct {
	// ExcludeFuture drops films whose air time is still ahead.
	ExcludeFuture bool
	// MinLength drops films shorter than this many seconds (0 disables).
	MinLength int
	// GroupShows merges same-named shows across channels when browsing
	// all channels.
	GroupShows bool
}

// Notifier receives storage failures that were contained on the read
// path. The CLI shows them as a single notice instead of failing the
// command.
type Notifier interface {
	StorageError(err error)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

// StorageError implements Notifier.
func (NopNotifier) StorageError(error) {}

// FilmConsumer receives film query results row by row. Begin's flags tell
// the renderer whether to prefix titles with the show name and whether to
// annotate each film with its originating channel.
type FilmConsumer interface {
	Begin(showShows, showChannels bool)
	Add(f *models.Film)
	End()
}

// ChannelConsumer receives channel listing rows.
type ChannelConsumer interface {
	Begin()
	Add(c *models.Channel)
	End()
}

// ShowConsumer receives show listing rows for one channel, or for all
// channels when scoped with AllChannels.
type ShowConsumer interface {
	Begin(channelID int64)
	Add(s *models.ShowListing)
	End()
}

// InitialConsumer receives the first-letter distribution of show names.
type InitialConsumer interface {
	Begin(channelID int64)
	Add(initial string, count int)
	End()
}
