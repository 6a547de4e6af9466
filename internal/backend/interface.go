package backend

import (
	"context"

	"fintrack/internal/storage"
)

// Result contains the backend instance and optional cleanup function
type Result struct {
	Backend storage.Backend
	Cleanup storage.CleanupFunc
}

// Factory creates snapshot backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type Type

	// JSON file specific
	DataFile string

	// SQLite specific
	SQLiteDBPath string
}

// Type represents the kind of snapshot backend
type Type string

const (
	JSONBackend   Type = "json"
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case JSONBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
