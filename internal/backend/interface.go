package backend

import (
	"context"

	"scadenze/internal/core"
)

// ReminderReader is the read side used by the HTTP views and the due-scan worker.
type ReminderReader interface {
	Get(ctx context.Context, id string) (core.Reminder, error)
	List(ctx context.Context, walletID string) ([]core.Reminder, error)
	ListActive(ctx context.Context) ([]core.Reminder, error)
}

type ReminderWriter interface {
	Create(ctx context.Context, r core.Reminder) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// NotificationLog remembers which occurrences have already been announced.
type NotificationLog interface {
	WasNotified(ctx context.Context, id string, due core.Date) (bool, error)
	MarkNotified(ctx context.Context, id string, due core.Date) error
}

// Backend represents a unified backend interface that provides all necessary operations
type Backend interface {
	ReminderReader
	ReminderWriter
	NotificationLog
	Ping(ctx context.Context) error
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
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
