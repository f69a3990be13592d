package task

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/memodrop/braindump/internal/domain"
	"github.com/memodrop/braindump/internal/store"
)

// migrationNamespace seeds the deterministic IDs used by the revoke
// migration. Re-running the task after a crash derives the same category and
// card IDs, so rows created by an earlier run are found instead of
// duplicated.
var migrationNamespace = uuid.MustParse("9f2c6d1e-41b7-4a83-b5d0-8c7e3a2f914b")

func migratedCategoryID(contractID uuid.UUID) uuid.UUID {
	return uuid.NewSHA1(migrationNamespace, []byte("category:"+contractID.String()))
}

func migratedCardID(contractID, cardID uuid.UUID) uuid.UUID {
	return uuid.NewSHA1(migrationNamespace, []byte("card:"+contractID.String()+":"+cardID.String()))
}

// ShareRevokeTask migrates a user off a revoked share. It forks the shared
// category into a private copy owned by the user, copies every card into the
// fork, moves the user's placements onto the copies so review progress is
// preserved, and finally deletes the contract. Each card migrates in its own
// transaction; the task is safe to re-run from any point.
type ShareRevokeTask struct {
	id         uuid.UUID
	contractID uuid.UUID
	stores     ShareStores
	logger     *slog.Logger
	status     TaskStatus
}

// NewShareRevokeTask creates a task that migrates the given revoked
// contract's user onto a private fork of the category.
func NewShareRevokeTask(
	contractID uuid.UUID,
	stores ShareStores,
	logger *slog.Logger,
) (*ShareRevokeTask, error) {
	if stores.Tx == nil || stores.Categories == nil || stores.Cards == nil ||
		stores.Placements == nil || stores.Contracts == nil {
		return nil, ErrNilStores
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if contractID == uuid.Nil {
		return nil, ErrEmptyContractID
	}

	return &ShareRevokeTask{
		id:         uuid.New(),
		contractID: contractID,
		stores:     stores,
		logger: logger.With(
			slog.String("task_type", TaskTypeShareRevoke),
			slog.String("contract_id", contractID.String()),
		),
		status: TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *ShareRevokeTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *ShareRevokeTask) Type() string {
	return TaskTypeShareRevoke
}

// Payload returns the task data as a byte slice
func (t *ShareRevokeTask) Payload() []byte {
	data, err := json.Marshal(sharePayload{ContractID: t.contractID})
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}
	return data
}

// Status returns the current task status
func (t *ShareRevokeTask) Status() TaskStatus {
	return t.status
}

// Execute runs the fork-and-migrate flow. The contract is deleted last, so
// an interrupted run leaves it in place and a recovered task re-enters here.
func (t *ShareRevokeTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	t.logger.Info("starting share revoke migration")

	if err := ctx.Err(); err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	contract, err := t.stores.Contracts.GetByID(ctx, t.contractID)
	if err != nil {
		if store.IsNotFoundError(err) {
			// Contract already deleted, so the migration finished earlier.
			t.status = TaskStatusCompleted
			t.logger.Info("contract no longer exists, migration already completed")
			return nil
		}
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to load contract: %w", err)
	}

	if contract.State != domain.ContractStateRevoked {
		t.status = TaskStatusCompleted
		t.logger.Warn("contract is not revoked, skipping migration",
			slog.String("state", string(contract.State)))
		return nil
	}

	source, err := t.stores.Categories.GetByID(ctx, contract.CategoryID)
	if err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to load source category: %w", err)
	}

	fork, err := t.ensureFork(ctx, source, contract)
	if err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to create fork category: %w", err)
	}

	cards, err := t.stores.Cards.ListForCategory(ctx, source.ID)
	if err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to list cards: %w", err)
	}

	for _, card := range cards {
		if err := t.migrateCard(ctx, contract, card, fork.ID); err != nil {
			t.status = TaskStatusFailed
			return fmt.Errorf("failed to migrate card %s: %w", card.ID, err)
		}
	}

	if err := t.stores.Contracts.Delete(ctx, contract.ID); err != nil && !store.IsNotFoundError(err) {
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to delete contract: %w", err)
	}

	t.status = TaskStatusCompleted
	t.logger.Info("share revoke migration completed",
		slog.String("fork_category_id", fork.ID.String()),
		slog.Int("cards", len(cards)))
	return nil
}

// ensureFork finds or creates the private category copy for the contract's
// user.
func (t *ShareRevokeTask) ensureFork(
	ctx context.Context,
	source *domain.Category,
	contract *domain.ShareContract,
) (*domain.Category, error) {
	forkID := migratedCategoryID(contract.ID)

	fork, err := t.stores.Categories.GetByID(ctx, forkID)
	if err == nil {
		return fork, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, err
	}

	fork = source.DuplicateFor(forkID, contract.UserID)
	if err := t.stores.Categories.Create(ctx, fork); err != nil {
		if store.IsDuplicateError(err) {
			// Created concurrently; load the existing row.
			return t.stores.Categories.GetByID(ctx, forkID)
		}
		return nil, err
	}

	t.logger.Info("created fork category",
		slog.String("fork_category_id", forkID.String()),
		slog.String("owner_id", contract.UserID.String()))
	return fork, nil
}

// migrateCard copies one card into the fork and moves the user's placement
// onto the copy inside a single transaction. Progress (area, postpone
// marker, interaction history) rides along with the placement row.
func (t *ShareRevokeTask) migrateCard(
	ctx context.Context,
	contract *domain.ShareContract,
	card *domain.Card,
	forkID uuid.UUID,
) error {
	newCardID := migratedCardID(contract.ID, card.ID)

	return t.stores.Tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cards := t.stores.Cards.WithTx(tx)
		placements := t.stores.Placements.WithTx(tx)

		cardCopy := card.DuplicateInto(newCardID, forkID)
		if err := cards.Create(ctx, cardCopy); err != nil && !store.IsDuplicateError(err) {
			return err
		}

		placement, err := placements.GetForCardAndUser(ctx, card.ID, contract.UserID)
		if err != nil {
			if store.IsNotFoundError(err) {
				// Either already moved by an earlier run or the user never
				// had a placement. Create a fresh one on the copy if needed.
				_, err := placements.GetForCardAndUser(ctx, newCardID, contract.UserID)
				if err == nil {
					return nil
				}
				if !store.IsNotFoundError(err) {
					return err
				}
				fresh, err := domain.NewCardPlacement(newCardID, contract.UserID)
				if err != nil {
					return err
				}
				return placements.Create(ctx, fresh)
			}
			return err
		}

		if err := placements.MoveToCard(ctx, placement.ID, newCardID); err != nil &&
			!store.IsDuplicateError(err) {
			return err
		}
		return nil
	})
}
