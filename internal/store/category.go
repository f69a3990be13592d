package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/memodrop/braindump/internal/domain"
)

// CategoryStore defines the interface for category persistence.
//
// Reads come in three scopes: unscoped GetByID for background jobs that act
// on behalf of the system, GetForOwner for operations only the owner may
// perform, and GetVisible for operations available to the owner and to
// users with an accepted share contract.
type CategoryStore interface {
	// Create saves a new category.
	// Returns ErrDuplicate if a category with the same ID already exists.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category without user scoping.
	// Returns ErrCategoryNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// GetForOwner retrieves a category owned by the given user.
	// Returns ErrCategoryNotFound if it does not exist or the user is not
	// the owner.
	GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Category, error)

	// GetVisible retrieves a category the given user owns or has an
	// accepted share contract on.
	// Returns ErrCategoryNotFound otherwise.
	GetVisible(ctx context.Context, id, userID uuid.UUID) (*domain.Category, error)

	// ListVisible returns all categories visible to the user (owned plus
	// accepted shares), most recently interacted with first.
	ListVisible(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error)

	// Update saves changes to an existing category.
	// Returns ErrCategoryNotFound if the category does not exist.
	Update(ctx context.Context, category *domain.Category) error

	// Touch updates the category's last-interaction timestamp.
	// Returns ErrCategoryNotFound if the category does not exist.
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error

	// Delete removes a category. Cards, placements, and share contracts of
	// the category are removed with it (ON DELETE CASCADE).
	// Returns ErrCategoryNotFound if the category does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a CategoryStore bound to the given transaction.
	WithTx(tx *sql.Tx) CategoryStore
}
