package backend

import (
	"context"

	"trackmate/internal/store"
)

// CleanupFunc releases backend resources during shutdown.
type CleanupFunc func() error

// BackendResult contains the store instance and optional extras wired by the
// factory. SyncQueue is nil for backends that cannot mirror to Sheets.
type BackendResult struct {
	Store     store.Store
	SyncQueue store.SyncQueue
	Cleanup   CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Memory backend seeds its budget from the application default
	DefaultMonthlyBudget int64
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
