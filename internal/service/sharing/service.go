// Package sharing implements the category share workflow: owners request
// shares and revoke them, target users accept or decline, and the placement
// fan-out and revoke migration run as background tasks.
package sharing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/memodrop/braindump/internal/domain"
	"github.com/memodrop/braindump/internal/events"
	"github.com/memodrop/braindump/internal/store"
	"github.com/memodrop/braindump/internal/task"
)

// Common error types for the sharing service
var (
	// ErrSelfShare indicates an attempt to share a category with its own
	// owner.
	ErrSelfShare = errors.New("cannot share a category with its owner")

	// ErrCategoryNotFound indicates the category does not exist or the
	// user does not own it.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrContractNotFound indicates the contract does not exist or is not
	// visible to the requesting user.
	ErrContractNotFound = errors.New("share contract not found")
)

// Service manages share contracts.
type Service interface {
	// Request creates a share contract offering the category to the named
	// user.
	//
	// The response deliberately does not reveal whether the target user
	// exists or was already offered the share: both cases return nil
	// exactly like a successful request. Only sharing with yourself is
	// reported, since the requester knows their own name anyway.
	Request(ctx context.Context, categoryID, ownerID uuid.UUID, username string) error

	// Accept accepts a pending contract addressed to the user and starts
	// the placement fan-out in the background.
	Accept(ctx context.Context, contractID, userID uuid.UUID) error

	// Decline declines a pending contract addressed to the user. Declined
	// contracts are deleted, leaving no trace.
	Decline(ctx context.Context, contractID, userID uuid.UUID) error

	// Revoke revokes an accepted contract on a category the user owns and
	// starts the fork-and-migrate job in the background. The affected
	// user keeps their review progress on a private copy of the category.
	Revoke(ctx context.Context, contractID, ownerID uuid.UUID) error

	// ListPending returns the contracts awaiting the user's decision.
	ListPending(ctx context.Context, userID uuid.UUID) ([]*domain.ShareContract, error)

	// ListForCategory returns all contracts on a category the user owns.
	ListForCategory(ctx context.Context, categoryID, ownerID uuid.UUID) ([]*domain.ShareContract, error)
}

// serviceImpl implements the Service interface
type serviceImpl struct {
	users      store.UserStore
	categories store.CategoryStore
	contracts  store.ShareContractStore
	emitter    events.EventEmitter
	logger     *slog.Logger
}

// Ensure serviceImpl implements Service
var _ Service = (*serviceImpl)(nil)

// NewService creates a sharing service.
func NewService(
	users store.UserStore,
	categories store.CategoryStore,
	contracts store.ShareContractStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (Service, error) {
	if users == nil || categories == nil || contracts == nil {
		return nil, fmt.Errorf("sharing service stores cannot be nil")
	}
	if emitter == nil {
		return nil, fmt.Errorf("event emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &serviceImpl{
		users:      users,
		categories: categories,
		contracts:  contracts,
		emitter:    emitter,
		logger:     logger.With("component", "sharing_service"),
	}, nil
}

// Request creates a share contract offering the category to the named user.
func (s *serviceImpl) Request(
	ctx context.Context,
	categoryID, ownerID uuid.UUID,
	username string,
) error {
	category, err := s.categories.GetForOwner(ctx, categoryID, ownerID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to retrieve category: %w", err)
	}

	target, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if store.IsNotFoundError(err) {
			// Pretend success so share requests cannot be used to probe
			// which usernames exist.
			s.logger.Info("share request for unknown username",
				"category_id", categoryID)
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if target.ID == category.OwnerID {
		return ErrSelfShare
	}

	contract, err := domain.NewShareContract(categoryID, target.ID)
	if err != nil {
		return fmt.Errorf("failed to build contract: %w", err)
	}

	if err := s.contracts.Create(ctx, contract); err != nil {
		if errors.Is(err, store.ErrDuplicateContract) {
			// A contract for this pair already exists in some state.
			// Report success for the same reason as above.
			s.logger.Info("share request for already-shared pair",
				"category_id", categoryID,
				"user_id", target.ID)
			return nil
		}
		return fmt.Errorf("failed to save contract: %w", err)
	}

	s.logger.Info("share requested",
		"contract_id", contract.ID,
		"category_id", categoryID,
		"user_id", target.ID)
	return nil
}

// Accept accepts a pending contract and starts the placement fan-out.
func (s *serviceImpl) Accept(ctx context.Context, contractID, userID uuid.UUID) error {
	contract, err := s.contracts.GetForUser(ctx, contractID, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return ErrContractNotFound
		}
		return fmt.Errorf("failed to retrieve contract: %w", err)
	}

	if err := contract.Accept(); err != nil {
		return err
	}

	if err := s.contracts.Update(ctx, contract); err != nil {
		return fmt.Errorf("failed to save contract: %w", err)
	}

	if err := s.emitTaskEvent(ctx, task.TaskTypeShareAccept, contract.ID); err != nil {
		return err
	}

	s.logger.Info("share accepted",
		"contract_id", contractID,
		"category_id", contract.CategoryID,
		"user_id", userID)
	return nil
}

// Decline declines a pending contract and deletes it.
func (s *serviceImpl) Decline(ctx context.Context, contractID, userID uuid.UUID) error {
	contract, err := s.contracts.GetForUser(ctx, contractID, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return ErrContractNotFound
		}
		return fmt.Errorf("failed to retrieve contract: %w", err)
	}

	if err := contract.Decline(); err != nil {
		return err
	}

	if err := s.contracts.Delete(ctx, contractID); err != nil {
		return fmt.Errorf("failed to delete contract: %w", err)
	}

	s.logger.Info("share declined",
		"contract_id", contractID,
		"category_id", contract.CategoryID,
		"user_id", userID)
	return nil
}

// Revoke revokes an accepted contract and starts the migration job.
func (s *serviceImpl) Revoke(ctx context.Context, contractID, ownerID uuid.UUID) error {
	contract, err := s.contracts.GetForOwner(ctx, contractID, ownerID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return ErrContractNotFound
		}
		return fmt.Errorf("failed to retrieve contract: %w", err)
	}

	if err := contract.Revoke(); err != nil {
		return err
	}

	if err := s.contracts.Update(ctx, contract); err != nil {
		return fmt.Errorf("failed to save contract: %w", err)
	}

	if err := s.emitTaskEvent(ctx, task.TaskTypeShareRevoke, contract.ID); err != nil {
		return err
	}

	s.logger.Info("share revoked",
		"contract_id", contractID,
		"category_id", contract.CategoryID,
		"user_id", contract.UserID)
	return nil
}

// ListPending returns the contracts awaiting the user's decision.
func (s *serviceImpl) ListPending(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.ShareContract, error) {
	contracts, err := s.contracts.ListPendingForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending contracts: %w", err)
	}
	return contracts, nil
}

// ListForCategory returns all contracts on a category the user owns.
func (s *serviceImpl) ListForCategory(
	ctx context.Context,
	categoryID, ownerID uuid.UUID,
) ([]*domain.ShareContract, error) {
	if _, err := s.categories.GetForOwner(ctx, categoryID, ownerID); err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to retrieve category: %w", err)
	}

	contracts, err := s.contracts.ListForCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	return contracts, nil
}

// emitTaskEvent publishes a task request for the given contract.
func (s *serviceImpl) emitTaskEvent(
	ctx context.Context,
	taskType string,
	contractID uuid.UUID,
) error {
	payload := struct {
		ContractID uuid.UUID `json:"contract_id"`
	}{
		ContractID: contractID,
	}

	event, err := events.NewTaskRequestEvent(taskType, payload)
	if err != nil {
		return fmt.Errorf("failed to create task event: %w", err)
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to emit task event: %w", err)
	}

	return nil
}
