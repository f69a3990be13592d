package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/memodrop/braindump/internal/domain"
	"github.com/memodrop/braindump/internal/store"
)

// Common task construction errors
var (
	ErrNilStores       = errors.New("stores cannot be nil")
	ErrNilLogger       = errors.New("logger cannot be nil")
	ErrEmptyContractID = errors.New("contract ID cannot be empty")
)

// sharePayload is the serialized data stored with both share tasks.
type sharePayload struct {
	ContractID uuid.UUID `json:"contract_id"`
}

// ShareAcceptTask creates the accepting user's placements for every card in
// the shared category. Each new placement starts in area 1; cards the user
// already has a placement for are skipped, so re-running the task after a
// crash picks up where it left off.
type ShareAcceptTask struct {
	id         uuid.UUID
	contractID uuid.UUID
	stores     ShareStores
	logger     *slog.Logger
	status     TaskStatus
}

// NewShareAcceptTask creates a task that fans placements out for the given
// contract.
func NewShareAcceptTask(
	contractID uuid.UUID,
	stores ShareStores,
	logger *slog.Logger,
) (*ShareAcceptTask, error) {
	if stores.Contracts == nil || stores.Cards == nil || stores.Placements == nil {
		return nil, ErrNilStores
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if contractID == uuid.Nil {
		return nil, ErrEmptyContractID
	}

	return &ShareAcceptTask{
		id:         uuid.New(),
		contractID: contractID,
		stores:     stores,
		logger: logger.With(
			slog.String("task_type", TaskTypeShareAccept),
			slog.String("contract_id", contractID.String()),
		),
		status: TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *ShareAcceptTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *ShareAcceptTask) Type() string {
	return TaskTypeShareAccept
}

// Payload returns the task data as a byte slice
func (t *ShareAcceptTask) Payload() []byte {
	data, err := json.Marshal(sharePayload{ContractID: t.contractID})
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}
	return data
}

// Status returns the current task status
func (t *ShareAcceptTask) Status() TaskStatus {
	return t.status
}

// Execute creates one placement per card for the contract's user.
func (t *ShareAcceptTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	t.logger.Info("starting share accept fan-out")

	if err := ctx.Err(); err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	contract, err := t.stores.Contracts.GetByID(ctx, t.contractID)
	if err != nil {
		if store.IsNotFoundError(err) {
			// Contract was deleted before the task ran. Nothing to do.
			t.status = TaskStatusCompleted
			t.logger.Info("contract no longer exists, skipping fan-out")
			return nil
		}
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to load contract: %w", err)
	}

	if !contract.Accepted() {
		t.status = TaskStatusCompleted
		t.logger.Warn("contract is not accepted, skipping fan-out",
			slog.String("state", string(contract.State)))
		return nil
	}

	cards, err := t.stores.Cards.ListForCategory(ctx, contract.CategoryID)
	if err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to list cards: %w", err)
	}

	created := 0
	for _, card := range cards {
		placement, err := domain.NewCardPlacement(card.ID, contract.UserID)
		if err != nil {
			t.status = TaskStatusFailed
			return fmt.Errorf("failed to build placement for card %s: %w", card.ID, err)
		}

		err = t.stores.Placements.Create(ctx, placement)
		if err != nil {
			if errors.Is(err, store.ErrDuplicatePlacement) {
				// Already created by an earlier run.
				continue
			}
			t.status = TaskStatusFailed
			return fmt.Errorf("failed to create placement for card %s: %w", card.ID, err)
		}
		created++
	}

	t.status = TaskStatusCompleted
	t.logger.Info("share accept fan-out completed",
		slog.Int("cards", len(cards)),
		slog.Int("placements_created", created))
	return nil
}
