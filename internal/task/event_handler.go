package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/memodrop/braindump/internal/events"
)

// ShareTaskEventHandler implements the events.EventHandler interface.
// It turns share task request events into concrete tasks and submits them
// to the task runner.
type ShareTaskEventHandler struct {
	factory   *ShareTaskFactory
	submitter TaskSubmitter
	logger    *slog.Logger
}

// NewShareTaskEventHandler creates a handler that builds tasks with the
// given factory and submits them to the given submitter.
func NewShareTaskEventHandler(
	factory *ShareTaskFactory,
	submitter TaskSubmitter,
	logger *slog.Logger,
) *ShareTaskEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShareTaskEventHandler{
		factory:   factory,
		submitter: submitter,
		logger:    logger.With(slog.String("component", "share_task_event_handler")),
	}
}

// Ensure ShareTaskEventHandler implements events.EventHandler
var _ events.EventHandler = (*ShareTaskEventHandler)(nil)

// HandleEvent processes share task request events. Events of other types
// are ignored.
func (h *ShareTaskEventHandler) HandleEvent(
	ctx context.Context,
	event *events.TaskRequestEvent,
) error {
	switch event.Type {
	case TaskTypeShareAccept, TaskTypeShareRevoke:
	default:
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	var payload sharePayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal payload", "error", err, "event_id", event.ID)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	t, err := h.factory.CreateTask(event.Type, payload.ContractID)
	if err != nil {
		h.logger.Error("failed to create task",
			"error", err,
			"event_type", event.Type,
			"event_id", event.ID)
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.submitter.Submit(ctx, t); err != nil {
		h.logger.Error("failed to submit task",
			"error", err,
			"task_id", t.ID(),
			"event_id", event.ID)
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Info("task created and submitted",
		"task_id", t.ID(),
		"task_type", t.Type(),
		"contract_id", payload.ContractID,
		"event_id", event.ID)
	return nil
}
