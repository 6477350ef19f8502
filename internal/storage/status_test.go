// ABOUTME: Tests for the sync status ledger
// ABOUTME: Covers sentinel states, partial patch merging and read-between-writes visibility

package storage

import (
	"testing"

	"github.com/hkern/mediathek/internal/models"
)

func TestStatusUninitialized(t *testing.T) {
	var s *Store
	status, err := s.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.State != models.StateUninit {
		t.Errorf("state = %q, want %q", status.State, models.StateUninit)
	}

	closed, _ := newTestStore(t, Options{})
	closed.Close()
	status, err = closed.Status()
	if err != nil {
		t.Fatalf("Status on closed store failed: %v", err)
	}
	if status.State != models.StateUninit {
		t.Errorf("state = %q, want %q", status.State, models.StateUninit)
	}
}

func TestStatusNoRow(t *testing.T) {
	store, _ := newTestStore(t, Options{})
	if _, err := store.db.Exec("DELETE FROM sync_status"); err != nil {
		t.Fatalf("truncate failed: %v", err)
	}

	status, err := store.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.State != models.StateNone {
		t.Errorf("state = %q, want %q", status.State, models.StateNone)
	}
}

func TestStatusPatchMerge(t *testing.T) {
	store, _ := newTestStore(t, Options{})

	updating := models.StateUpdating
	if err := store.UpdateStatus(&models.StatusPatch{State: &updating}); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	// A read between the two patches sees the first one committed.
	status, err := store.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.State != models.StateUpdating {
		t.Errorf("state = %q, want %q", status.State, models.StateUpdating)
	}
	if status.AddedFilms != 0 {
		t.Errorf("added films = %d, want 0", status.AddedFilms)
	}

	films := 3
	if err := store.UpdateStatus(&models.StatusPatch{AddedFilms: &films}); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	status, err = store.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.State != models.StateUpdating {
		t.Errorf("state after second patch = %q, want %q still", status.State, models.StateUpdating)
	}
	if status.AddedFilms != 3 {
		t.Errorf("added films = %d, want 3", status.AddedFilms)
	}

	// Still exactly one row.
	var n int
	if err := store.db.QueryRow("SELECT COUNT(*) FROM sync_status").Scan(&n); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("status rows = %d, want 1", n)
	}
}

func TestStatusInsertWhenMissing(t *testing.T) {
	store, _ := newTestStore(t, Options{})
	if _, err := store.db.Exec("DELETE FROM sync_status"); err != nil {
		t.Fatalf("truncate failed: %v", err)
	}

	desc := "rebuilt"
	idle := models.StateIdle
	if err := store.UpdateStatus(&models.StatusPatch{State: &idle, Description: &desc}); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	status, err := store.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.State != models.StateIdle || status.Description != "rebuilt" {
		t.Errorf("status = %+v, want IDLE/rebuilt", status)
	}
}
