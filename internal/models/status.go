// ABOUTME: Sync status model, the single persisted record of the last synchronization outcome
// ABOUTME: StatusPatch expresses partial updates applied atomically by the status ledger

package models

import "time"

// SyncState is the state of the catalog with respect to synchronization.
type SyncState string

const (
	// StateUninit means the store has never been opened.
	StateUninit SyncState = "UNINIT"
	// StateNone means the store is open but no status row exists yet.
	StateNone SyncState = "NONE"
	// StateIdle means the last update finished normally (or none ran yet).
	StateIdle SyncState = "IDLE"
	// StateUpdating means an update pass is in flight.
	StateUpdating SyncState = "UPDATING"
	// StateAborted means the last update pass was cancelled.
	StateAborted SyncState = "ABORTED"
)

// Status is the persisted sync ledger record. At most one row exists.
type Status struct {
	Modified        time.Time
	State           SyncState
	LastUpdate      *time.Time // Completion time of the last update, nil if none
	AddedChannels   int
	AddedShows      int
	AddedFilms      int
	RemovedChannels int
	RemovedShows    int
	RemovedFilms    int
	TotalChannels   int
	TotalShows      int
	TotalFilms      int
	Description     string
}

// StatusPatch is a partial status update. Nil fields are left unchanged by
// the ledger; the merge and write happen in a single transaction.
type StatusPatch struct {
	State           *SyncState
	LastUpdate      *time.Time
	AddedChannels   *int
	AddedShows      *int
	AddedFilms      *int
	RemovedChannels *int
	RemovedShows    *int
	RemovedFilms    *int
	TotalChannels   *int
	TotalShows      *int
	TotalFilms      *int
	Description     *string
}
