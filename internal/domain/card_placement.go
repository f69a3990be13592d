package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Area bounds of the six-area Leitner box model.
const (
	AreaFloor   = 1
	AreaCeiling = 6
)

// CardPlacement validation errors
var (
	// ErrPlacementIDEmpty is returned when a placement ID is empty or nil.
	ErrPlacementIDEmpty = errors.New("card placement ID cannot be empty")

	// ErrPlacementCardEmpty is returned when a placement's card ID is empty or nil.
	ErrPlacementCardEmpty = errors.New("card placement card ID cannot be empty")

	// ErrPlacementUserEmpty is returned when a placement's user ID is empty or nil.
	ErrPlacementUserEmpty = errors.New("card placement user ID cannot be empty")

	// ErrInvalidArea is returned when an area falls outside [AreaFloor, AreaCeiling].
	ErrInvalidArea = errors.New("area must be between 1 and 6")
)

// CardPlacement tracks one user's review progress for one card: the Leitner
// area the card sits in, an optional postpone marker, and the time of the
// last interaction. There is at most one placement per (card, user) pair.
type CardPlacement struct {
	ID                uuid.UUID `json:"id"`
	CardID            uuid.UUID `json:"card_id"`
	UserID            uuid.UUID `json:"user_id"`
	Area              int       `json:"area"`
	PostponeUntil     time.Time `json:"postpone_until"`
	LastInteractionAt time.Time `json:"last_interaction_at"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewCardPlacement creates a placement for the given card and user.
// New placements start in area 1 and are not postponed.
func NewCardPlacement(cardID, userID uuid.UUID) (*CardPlacement, error) {
	now := time.Now().UTC()
	placement := &CardPlacement{
		ID:                uuid.New(),
		CardID:            cardID,
		UserID:            userID,
		Area:              AreaFloor,
		PostponeUntil:     now,
		LastInteractionAt: now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := placement.Validate(); err != nil {
		return nil, err
	}

	return placement, nil
}

// Validate checks if the CardPlacement has valid data.
func (p *CardPlacement) Validate() error {
	if p.ID == uuid.Nil {
		return ErrPlacementIDEmpty
	}

	if p.CardID == uuid.Nil {
		return ErrPlacementCardEmpty
	}

	if p.UserID == uuid.Nil {
		return ErrPlacementUserEmpty
	}

	if p.Area < AreaFloor || p.Area > AreaCeiling {
		return ErrInvalidArea
	}

	return nil
}

// MoveForward increases the area by one. No-op at the ceiling.
func (p *CardPlacement) MoveForward() {
	if p.Area < AreaCeiling {
		p.Area++
	}
}

// MoveBackward decreases the area by one. No-op at the floor.
func (p *CardPlacement) MoveBackward() {
	if p.Area > AreaFloor {
		p.Area--
	}
}

// Reset sends the placement back to area 1.
func (p *CardPlacement) Reset() {
	p.Area = AreaFloor
}

// SetArea moves the placement to an arbitrary area.
// Returns ErrInvalidArea and leaves the placement unchanged if the area is
// outside the valid range.
func (p *CardPlacement) SetArea(area int) error {
	if area < AreaFloor || area > AreaCeiling {
		return ErrInvalidArea
	}
	p.Area = area
	return nil
}

// ApplyAnswer records the outcome of a review. A correct answer always moves
// the placement forward; an incorrect answer resets it in strict mode and
// moves it back one area in defensive mode. The mode is read from the owning
// category at the moment of the answer.
func (p *CardPlacement) ApplyAnswer(mode ReviewMode, correct bool) {
	if correct {
		p.MoveForward()
		return
	}

	switch mode {
	case ReviewModeStrict:
		p.Reset()
	case ReviewModeDefensive:
		p.MoveBackward()
	}
}

// Postpone hides the placement from selection until now + d.
func (p *CardPlacement) Postpone(d time.Duration) {
	p.PostponeUntil = time.Now().UTC().Add(d)
}

// Expedite clears the postpone marker so the placement is selectable again.
func (p *CardPlacement) Expedite() {
	p.PostponeUntil = time.Now().UTC()
}

// Postponed reports whether the placement is hidden from selection at the
// given time.
func (p *CardPlacement) Postponed(at time.Time) bool {
	return p.PostponeUntil.After(at)
}

// Touch records an interaction with the placement at the given time.
func (p *CardPlacement) Touch(at time.Time) {
	p.LastInteractionAt = at
	p.UpdatedAt = at
}
