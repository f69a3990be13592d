package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/memodrop/braindump/internal/domain"
)

// ShareContractStore defines the interface for share contract persistence.
type ShareContractStore interface {
	// Create saves a new contract.
	// Returns ErrDuplicateContract if a contract for the (category, user)
	// pair already exists.
	Create(ctx context.Context, contract *domain.ShareContract) error

	// GetByID retrieves a contract without user scoping (background jobs).
	// Returns ErrContractNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ShareContract, error)

	// GetForUser retrieves a contract addressed to the given target user.
	// Returns ErrContractNotFound otherwise.
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.ShareContract, error)

	// GetForOwner retrieves a contract whose category is owned by the given
	// user. Returns ErrContractNotFound otherwise.
	GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.ShareContract, error)

	// ListForCategory returns all contracts on a category.
	ListForCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.ShareContract, error)

	// ListPendingForUser returns the user's contracts still awaiting a
	// decision.
	ListPendingForUser(ctx context.Context, userID uuid.UUID) ([]*domain.ShareContract, error)

	// AcceptedUserIDs returns the IDs of all users with an accepted
	// contract on the category.
	AcceptedUserIDs(ctx context.Context, categoryID uuid.UUID) ([]uuid.UUID, error)

	// Update saves changes to an existing contract.
	// Returns ErrContractNotFound if the contract does not exist.
	Update(ctx context.Context, contract *domain.ShareContract) error

	// Delete removes a contract.
	// Returns ErrContractNotFound if the contract does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a ShareContractStore bound to the given transaction.
	WithTx(tx *sql.Tx) ShareContractStore
}
