package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/memodrop/braindump/internal/domain"
)

// CardStore defines the interface for card persistence.
type CardStore interface {
	// Create saves a new card.
	// Returns ErrDuplicate if a card with the same ID already exists and
	// ErrInvalidEntity if the referenced category does not exist.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListForCategory returns all cards in a category.
	ListForCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Card, error)

	// Update saves changes to an existing card.
	// Returns ErrCardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Card) error

	// Delete removes a card. Placements of the card are removed with it
	// (ON DELETE CASCADE).
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a CardStore bound to the given transaction.
	WithTx(tx *sql.Tx) CardStore
}
