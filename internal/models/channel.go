// ABOUTME: Channel model representing a broadcaster channel, the root of the catalog hierarchy
// ABOUTME: Channels are created lazily during ingestion and identified by their unique display name

package models

import "time"

// Channel represents a broadcaster channel (ARD, ZDF, ...).
type Channel struct {
	ID        int64     // Auto-assigned integer identifier
	CreatedAt time.Time // Row creation timestamp
	Touched   bool      // Per-sync-pass presence marker
	Name      string    // Unique display name
}
