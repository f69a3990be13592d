package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/memodrop/braindump/internal/domain"
)

// PlacementStore defines the interface for card placement persistence.
//
// Placements are the only entity a shared (non-owner) user mutates, so every
// user-facing read is scoped to the requesting user.
type PlacementStore interface {
	// Create saves a new placement.
	// Returns ErrDuplicatePlacement if a placement for the (card, user)
	// pair already exists and ErrInvalidEntity if the card or user does
	// not exist.
	Create(ctx context.Context, placement *domain.CardPlacement) error

	// GetForUser retrieves a placement by ID, scoped to its user.
	// Returns ErrPlacementNotFound if it does not exist or belongs to a
	// different user.
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.CardPlacement, error)

	// GetForCardAndUser retrieves the placement for a (card, user) pair.
	// Returns ErrPlacementNotFound if none exists.
	GetForCardAndUser(ctx context.Context, cardID, userID uuid.UUID) (*domain.CardPlacement, error)

	// ListForCategoryAndUser returns the user's placements for all cards in
	// a category, ordered by area.
	ListForCategoryAndUser(ctx context.Context, categoryID, userID uuid.UUID) ([]*domain.CardPlacement, error)

	// EligibleAreaBounds returns the lowest and highest area that holds at
	// least one of the user's placements in the category with
	// minArea <= area <= maxArea and postpone_until <= at.
	// Returns ErrPlacementNotFound when no placement is eligible.
	EligibleAreaBounds(
		ctx context.Context,
		categoryID, userID uuid.UUID,
		minArea, maxArea int,
		at time.Time,
	) (lo, hi int, err error)

	// RandomEligibleByArea returns one of the user's eligible placements
	// with exactly the given area in the category, chosen uniformly at
	// random. Returns ErrPlacementNotFound when the area holds none.
	RandomEligibleByArea(
		ctx context.Context,
		categoryID, userID uuid.UUID,
		area int,
		at time.Time,
	) (*domain.CardPlacement, error)

	// Update saves changes to an existing placement.
	// Returns ErrPlacementNotFound if the placement does not exist.
	Update(ctx context.Context, placement *domain.CardPlacement) error

	// MoveToCard re-attaches a placement to a different card, preserving
	// its area, postpone marker, and interaction history.
	// Returns ErrPlacementNotFound if the placement does not exist and
	// ErrDuplicatePlacement if the user already has a placement on the
	// target card.
	MoveToCard(ctx context.Context, id, newCardID uuid.UUID) error

	// Delete removes a placement.
	// Returns ErrPlacementNotFound if the placement does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a PlacementStore bound to the given transaction.
	WithTx(tx *sql.Tx) PlacementStore
}
