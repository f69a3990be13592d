package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// ShareTaskFactory builds the share workflow tasks. It is also the
// Rehydrator used to make tasks recovered from the database runnable again.
type ShareTaskFactory struct {
	stores ShareStores
	logger *slog.Logger
}

// NewShareTaskFactory creates a factory wired to the given stores.
func NewShareTaskFactory(stores ShareStores, logger *slog.Logger) *ShareTaskFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShareTaskFactory{
		stores: stores,
		logger: logger,
	}
}

// Ensure ShareTaskFactory implements Rehydrator
var _ Rehydrator = (*ShareTaskFactory)(nil)

// CreateTask builds a new task of the given type for the given contract.
func (f *ShareTaskFactory) CreateTask(taskType string, contractID uuid.UUID) (Task, error) {
	switch taskType {
	case TaskTypeShareAccept:
		return NewShareAcceptTask(contractID, f.stores, f.logger)
	case TaskTypeShareRevoke:
		return NewShareRevokeTask(contractID, f.stores, f.logger)
	default:
		return nil, fmt.Errorf("unknown task type: %q", taskType)
	}
}

// Rehydrate implements Rehydrator. It parses the stored payload and returns
// the execution logic for the task type.
func (f *ShareTaskFactory) Rehydrate(
	taskType string,
	payload []byte,
) (func(ctx context.Context) error, error) {
	var p sharePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	t, err := f.CreateTask(taskType, p.ContractID)
	if err != nil {
		return nil, err
	}

	return t.Execute, nil
}
