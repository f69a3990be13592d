package task

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/memodrop/braindump/internal/store"
)

// TaskStatus represents the current state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task type constants
const (
	// TaskTypeShareAccept creates the accepting user's placements for every
	// card in a shared category.
	TaskTypeShareAccept = "share_accept"

	// TaskTypeShareRevoke forks a revoked category into a private copy for
	// the affected user and migrates their placements onto it.
	TaskTypeShareRevoke = "share_revoke"
)

// Task represents a unit of background work to be processed
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Payload returns the task data as a byte slice
	Payload() []byte

	// Status returns the current task status
	Status() TaskStatus

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// TaskStore defines the interface for persisting tasks
type TaskStore interface {
	// SaveTask persists a task to the database
	SaveTask(ctx context.Context, task Task) error

	// UpdateTaskStatus updates the status of a task
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error

	// GetPendingTasks retrieves all tasks with "pending" status
	GetPendingTasks(ctx context.Context) ([]Task, error)

	// GetProcessingTasks retrieves tasks with "processing" status.
	// If olderThan is non-zero, only returns tasks that have been in this
	// state longer than the specified duration.
	GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Task, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) TaskStore
}

// Rehydrator rebuilds the execution logic of a task loaded from storage.
// Tasks recovered after a restart carry only their type and payload; the
// rehydrator turns that back into something runnable.
type Rehydrator interface {
	Rehydrate(taskType string, payload []byte) (func(ctx context.Context) error, error)
}

// TaskSubmitter accepts tasks for asynchronous execution.
type TaskSubmitter interface {
	Submit(ctx context.Context, task Task) error
}

// ShareStores bundles the persistence interfaces the share tasks act on.
type ShareStores struct {
	Tx         store.TxRunner
	Categories store.CategoryStore
	Cards      store.CardStore
	Placements store.PlacementStore
	Contracts  store.ShareContractStore
}
