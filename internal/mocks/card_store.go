package mocks

import (
	"context"
	"database/sql"
	"sort"

	"github.com/google/uuid"
	"github.com/memodrop/braindump/internal/domain"
	"github.com/memodrop/braindump/internal/store"
)

// MockCardStore implements store.CardStore for testing
type MockCardStore struct {
	// Function fields for customizable behavior
	CreateFn          func(ctx context.Context, card *domain.Card) error
	GetByIDFn         func(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	ListForCategoryFn func(ctx context.Context, categoryID uuid.UUID) ([]*domain.Card, error)
	UpdateFn          func(ctx context.Context, card *domain.Card) error
	DeleteFn          func(ctx context.Context, id uuid.UUID) error

	// Data for default implementation, keyed by card ID
	Cards map[uuid.UUID]*domain.Card
}

// Ensure MockCardStore implements store.CardStore
var _ store.CardStore = (*MockCardStore)(nil)

// NewMockCardStore creates a new mock store with initialized defaults
func NewMockCardStore() *MockCardStore {
	return &MockCardStore{
		Cards: make(map[uuid.UUID]*domain.Card),
	}
}

// Create implements the CardStore interface
func (m *MockCardStore) Create(ctx context.Context, card *domain.Card) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, card)
	}

	if _, exists := m.Cards[card.ID]; exists {
		return store.ErrDuplicate
	}
	m.Cards[card.ID] = card
	return nil
}

// GetByID implements the CardStore interface
func (m *MockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	card, exists := m.Cards[id]
	if !exists {
		return nil, store.ErrCardNotFound
	}
	return card, nil
}

// ListForCategory implements the CardStore interface
func (m *MockCardStore) ListForCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Card, error) {
	if m.ListForCategoryFn != nil {
		return m.ListForCategoryFn(ctx, categoryID)
	}

	cards := make([]*domain.Card, 0)
	for _, card := range m.Cards {
		if card.CategoryID == categoryID {
			cards = append(cards, card)
		}
	}
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].CreatedAt.Before(cards[j].CreatedAt)
	})
	return cards, nil
}

// Update implements the CardStore interface
func (m *MockCardStore) Update(ctx context.Context, card *domain.Card) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, card)
	}

	if _, exists := m.Cards[card.ID]; !exists {
		return store.ErrCardNotFound
	}
	m.Cards[card.ID] = card
	return nil
}

// Delete implements the CardStore interface
func (m *MockCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	if _, exists := m.Cards[id]; !exists {
		return store.ErrCardNotFound
	}
	delete(m.Cards, id)
	return nil
}

// WithTx implements the CardStore interface
func (m *MockCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return m
}
