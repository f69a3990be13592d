package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewMode governs how an incorrect answer moves a card placement.
type ReviewMode string

// Possible review modes.
const (
	// ReviewModeStrict sends a card back to area 1 on an incorrect answer.
	ReviewModeStrict ReviewMode = "strict"

	// ReviewModeDefensive moves a card back a single area on an incorrect answer.
	ReviewModeDefensive ReviewMode = "defensive"
)

// Category-specific validation errors
var (
	// ErrCategoryIDEmpty is returned when a category ID is empty or nil.
	ErrCategoryIDEmpty = errors.New("category ID cannot be empty")

	// ErrCategoryOwnerEmpty is returned when a category's owner ID is empty or nil.
	ErrCategoryOwnerEmpty = errors.New("category owner ID cannot be empty")

	// ErrCategoryNameEmpty is returned when a category's name is empty.
	ErrCategoryNameEmpty = errors.New("category name cannot be empty")

	// ErrCategoryNameTooLong is returned when a category's name exceeds the maximum length.
	ErrCategoryNameTooLong = errors.New("category name cannot exceed 128 characters")

	// ErrInvalidReviewMode is returned when a category's review mode is unknown.
	ErrInvalidReviewMode = errors.New("invalid review mode")
)

// MaxCategoryNameLength is the upper bound on category name length.
const MaxCategoryNameLength = 128

// Category groups cards for one owner. Its review mode decides the
// incorrect-answer transition for every placement of its cards, and its
// last-interaction timestamp orders category lists by recency.
type Category struct {
	ID                uuid.UUID  `json:"id"`
	OwnerID           uuid.UUID  `json:"owner_id"`
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	Mode              ReviewMode `json:"mode"`
	LastInteractionAt time.Time  `json:"last_interaction_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NewCategory creates a new Category owned by the given user.
// Returns an error if validation fails.
func NewCategory(ownerID uuid.UUID, name, description string, mode ReviewMode) (*Category, error) {
	now := time.Now().UTC()
	category := &Category{
		ID:                uuid.New(),
		OwnerID:           ownerID,
		Name:              name,
		Description:       description,
		Mode:              mode,
		LastInteractionAt: now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	return category, nil
}

// Validate checks if the Category has valid data.
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCategoryIDEmpty
	}

	if c.OwnerID == uuid.Nil {
		return ErrCategoryOwnerEmpty
	}

	if c.Name == "" {
		return ErrCategoryNameEmpty
	}

	if len(c.Name) > MaxCategoryNameLength {
		return ErrCategoryNameTooLong
	}

	switch c.Mode {
	case ReviewModeStrict, ReviewModeDefensive:
	default:
		return ErrInvalidReviewMode
	}

	return nil
}

// Touch records an interaction with the category at the given time.
func (c *Category) Touch(at time.Time) {
	c.LastInteractionAt = at
	c.UpdatedAt = at
}

// DuplicateFor returns a copy of the category owned by the given user.
// The copy gets the provided ID so callers can derive it deterministically.
func (c *Category) DuplicateFor(id, ownerID uuid.UUID) *Category {
	now := time.Now().UTC()
	return &Category{
		ID:                id,
		OwnerID:           ownerID,
		Name:              c.Name,
		Description:       c.Description,
		Mode:              c.Mode,
		LastInteractionAt: now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
