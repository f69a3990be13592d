// Package braindump implements the review session engine: weighted card
// selection over the Leitner areas and the placement actions a user takes
// while reviewing (answer, postpone, expedite, reset, move).
package braindump

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/memodrop/braindump/internal/domain"
)

// Config holds the tunables of the review engine.
type Config struct {
	// MaxPostpone is the longest a card may be postponed in a single
	// action.
	MaxPostpone time.Duration
}

// Common error types for the review engine
var (
	// ErrNoEligibleCards indicates that no card in the requested range is
	// available for review. This is an expected outcome of a drained
	// session, not a failure.
	ErrNoEligibleCards = errors.New("no eligible cards for review")

	// ErrInvalidRange indicates the requested area range is malformed.
	ErrInvalidRange = errors.New("invalid area range")

	// ErrPostponeTooLong indicates the requested postpone duration exceeds
	// the configured ceiling.
	ErrPostponeTooLong = errors.New("postpone duration exceeds the maximum")

	// ErrCategoryNotFound indicates the category does not exist or is not
	// visible to the requesting user.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrPlacementNotFound indicates the placement does not exist or does
	// not belong to the requesting user.
	ErrPlacementNotFound = errors.New("card placement not found")
)

// Selection is the result of drawing a card for review.
type Selection struct {
	Card      *domain.Card          `json:"card"`
	Placement *domain.CardPlacement `json:"placement"`
}

// Service drives review sessions.
type Service interface {
	// SelectCard draws the next card to review from a category. The area
	// is sampled with exponentially decaying weights over the eligible
	// range clamped to [minArea, maxArea], so cards in low areas come up
	// far more often than well-known ones.
	//
	// Returns ErrInvalidRange if the range is malformed,
	// ErrCategoryNotFound if the category is not visible to the user, and
	// ErrNoEligibleCards when nothing in the range is available.
	SelectCard(
		ctx context.Context,
		userID, categoryID uuid.UUID,
		minArea, maxArea int,
	) (*Selection, error)

	// RecordAnswer applies a review outcome to a placement. A correct
	// answer moves the card forward one area; an incorrect answer resets
	// it in strict mode or moves it back one area in defensive mode.
	RecordAnswer(
		ctx context.Context,
		userID, placementID uuid.UUID,
		correct bool,
	) (*domain.CardPlacement, error)

	// PostponeCard hides a placement from selection for the given
	// duration. Returns ErrPostponeTooLong if d exceeds the ceiling; the
	// interaction is still recorded in that case.
	PostponeCard(
		ctx context.Context,
		userID, placementID uuid.UUID,
		d time.Duration,
	) (*domain.CardPlacement, error)

	// ExpediteCard clears a placement's postpone marker.
	ExpediteCard(ctx context.Context, userID, placementID uuid.UUID) (*domain.CardPlacement, error)

	// ResetCard sends a placement back to area 1.
	ResetCard(ctx context.Context, userID, placementID uuid.UUID) (*domain.CardPlacement, error)

	// SetCardArea moves a placement to an arbitrary area.
	// Returns domain.ErrInvalidArea if the area is out of range; the
	// placement is left unchanged in that case.
	SetCardArea(
		ctx context.Context,
		userID, placementID uuid.UUID,
		area int,
	) (*domain.CardPlacement, error)
}
