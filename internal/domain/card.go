package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardCategoryEmpty is returned when a card's category ID is empty or nil.
	ErrCardCategoryEmpty = errors.New("card category ID cannot be empty")

	// ErrCardQuestionEmpty is returned when a card's question is empty.
	ErrCardQuestionEmpty = errors.New("card question cannot be empty")

	// ErrCardAnswerEmpty is returned when a card's answer is empty.
	ErrCardAnswerEmpty = errors.New("card answer cannot be empty")
)

// Card is a single flashcard. Cards have immutable identity and belong to
// exactly one category; per-user review progress lives in CardPlacement.
type Card struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"category_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Hint       string    `json:"hint,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewCard creates a new Card in the given category.
// Returns an error if validation fails.
func NewCard(categoryID uuid.UUID, question, answer, hint string) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:         uuid.New(),
		CategoryID: categoryID,
		Question:   question,
		Answer:     answer,
		Hint:       hint,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.CategoryID == uuid.Nil {
		return ErrCardCategoryEmpty
	}

	if c.Question == "" {
		return ErrCardQuestionEmpty
	}

	if c.Answer == "" {
		return ErrCardAnswerEmpty
	}

	return nil
}

// UpdateContent replaces the card's question, answer and hint.
// Returns an error if the new content is invalid; the card is left
// unchanged in that case.
func (c *Card) UpdateContent(question, answer, hint string) error {
	origQuestion, origAnswer, origHint := c.Question, c.Answer, c.Hint
	c.Question, c.Answer, c.Hint = question, answer, hint

	if err := c.Validate(); err != nil {
		c.Question, c.Answer, c.Hint = origQuestion, origAnswer, origHint
		return err
	}

	c.UpdatedAt = time.Now().UTC()
	return nil
}

// DuplicateInto returns a copy of the card attached to another category.
// The copy gets the provided ID so callers can derive it deterministically.
func (c *Card) DuplicateInto(id, categoryID uuid.UUID) *Card {
	now := time.Now().UTC()
	return &Card{
		ID:         id,
		CategoryID: categoryID,
		Question:   c.Question,
		Answer:     c.Answer,
		Hint:       c.Hint,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
