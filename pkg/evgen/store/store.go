// Package store persists accepted event records, keyed by run and event
// number.
package store

import (
	"errors"
	"time"
)

// Store persists serialized event records.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores the record of one event.
	// Overwrites if a record for (runID, event) already exists.
	Save(runID string, event int64, data []byte) error

	// Load retrieves a record.
	// Returns ErrNotFound if it doesn't exist.
	Load(runID string, event int64) ([]byte, error)

	// List returns metadata of all records of a run, ordered by event number.
	// Returns empty slice (not error) if the run has no records.
	List(runID string) ([]Info, error)

	// Delete removes one record.
	// Returns nil if it doesn't exist.
	Delete(runID string, event int64) error

	// DeleteRun removes all records of a run.
	DeleteRun(runID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides metadata without loading the record.
type Info struct {
	RunID     string
	Event     int64
	Timestamp time.Time
	Size      int64
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a record doesn't exist.
	ErrNotFound = errors.New("event record not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("event store closed")
)
