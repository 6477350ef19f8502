// ABOUTME: Error taxonomy for the catalog store
// ABOUTME: Sentinels wrapped into returned errors so callers can branch with errors.Is

package storage

import "errors"

var (
	// ErrUnavailable means the backing database could not be opened or
	// created. Fatal to initialization.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrStorage means an individual statement failed. Read-path
	// occurrences are contained inside the store; write-path occurrences
	// abort the current operation only.
	ErrStorage = errors.New("storage error")

	// ErrIntegrity means a unique or foreign-key constraint fired during
	// ingestion. The resolve-then-insert protocol should make this
	// impossible, so it signals a broken record stream rather than a
	// condition to swallow.
	ErrIntegrity = errors.New("integrity violation")
)
