package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/memodrop/braindump/internal/domain"
	"github.com/memodrop/braindump/internal/store"
)

// MockPlacementStore implements store.PlacementStore for testing. Eligibility
// queries resolve card-to-category membership through the linked
// MockCardStore, which must be set for EligibleAreaBounds and
// RandomEligibleByArea to work.
type MockPlacementStore struct {
	// Function fields for customizable behavior
	CreateFn               func(ctx context.Context, placement *domain.CardPlacement) error
	GetForUserFn           func(ctx context.Context, id, userID uuid.UUID) (*domain.CardPlacement, error)
	GetForCardAndUserFn    func(ctx context.Context, cardID, userID uuid.UUID) (*domain.CardPlacement, error)
	RandomEligibleByAreaFn func(ctx context.Context, categoryID, userID uuid.UUID, area int, at time.Time) (*domain.CardPlacement, error)
	UpdateFn               func(ctx context.Context, placement *domain.CardPlacement) error
	MoveToCardFn           func(ctx context.Context, id, newCardID uuid.UUID) error
	DeleteFn               func(ctx context.Context, id uuid.UUID) error

	// Data for default implementation, keyed by placement ID
	Placements map[uuid.UUID]*domain.CardPlacement

	// Cards resolves which category a placement's card belongs to.
	Cards *MockCardStore
}

// Ensure MockPlacementStore implements store.PlacementStore
var _ store.PlacementStore = (*MockPlacementStore)(nil)

// NewMockPlacementStore creates a new mock store with initialized defaults
func NewMockPlacementStore() *MockPlacementStore {
	return &MockPlacementStore{
		Placements: make(map[uuid.UUID]*domain.CardPlacement),
	}
}

// Create implements the PlacementStore interface
func (m *MockPlacementStore) Create(ctx context.Context, placement *domain.CardPlacement) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, placement)
	}

	for _, existing := range m.Placements {
		if existing.CardID == placement.CardID && existing.UserID == placement.UserID {
			return store.ErrDuplicatePlacement
		}
	}
	m.Placements[placement.ID] = placement
	return nil
}

// GetForUser implements the PlacementStore interface
func (m *MockPlacementStore) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.CardPlacement, error) {
	if m.GetForUserFn != nil {
		return m.GetForUserFn(ctx, id, userID)
	}

	placement, exists := m.Placements[id]
	if !exists || placement.UserID != userID {
		return nil, store.ErrPlacementNotFound
	}
	return placement, nil
}

// GetForCardAndUser implements the PlacementStore interface
func (m *MockPlacementStore) GetForCardAndUser(ctx context.Context, cardID, userID uuid.UUID) (*domain.CardPlacement, error) {
	if m.GetForCardAndUserFn != nil {
		return m.GetForCardAndUserFn(ctx, cardID, userID)
	}

	for _, placement := range m.Placements {
		if placement.CardID == cardID && placement.UserID == userID {
			return placement, nil
		}
	}
	return nil, store.ErrPlacementNotFound
}

// ListForCategoryAndUser implements the PlacementStore interface
func (m *MockPlacementStore) ListForCategoryAndUser(ctx context.Context, categoryID, userID uuid.UUID) ([]*domain.CardPlacement, error) {
	placements := make([]*domain.CardPlacement, 0)
	for _, placement := range m.Placements {
		if placement.UserID == userID && m.inCategory(placement, categoryID) {
			placements = append(placements, placement)
		}
	}
	return placements, nil
}

// EligibleAreaBounds implements the PlacementStore interface
func (m *MockPlacementStore) EligibleAreaBounds(
	ctx context.Context,
	categoryID, userID uuid.UUID,
	minArea, maxArea int,
	at time.Time,
) (int, int, error) {
	lo, hi := 0, 0
	for _, placement := range m.Placements {
		if !m.eligible(placement, categoryID, userID, at) {
			continue
		}
		if placement.Area < minArea || placement.Area > maxArea {
			continue
		}
		if lo == 0 || placement.Area < lo {
			lo = placement.Area
		}
		if placement.Area > hi {
			hi = placement.Area
		}
	}
	if lo == 0 {
		return 0, 0, store.ErrPlacementNotFound
	}
	return lo, hi, nil
}

// RandomEligibleByArea implements the PlacementStore interface. Map iteration
// order stands in for uniform random choice within the area.
func (m *MockPlacementStore) RandomEligibleByArea(
	ctx context.Context,
	categoryID, userID uuid.UUID,
	area int,
	at time.Time,
) (*domain.CardPlacement, error) {
	if m.RandomEligibleByAreaFn != nil {
		return m.RandomEligibleByAreaFn(ctx, categoryID, userID, area, at)
	}

	for _, placement := range m.Placements {
		if m.eligible(placement, categoryID, userID, at) && placement.Area == area {
			return placement, nil
		}
	}
	return nil, store.ErrPlacementNotFound
}

// Update implements the PlacementStore interface
func (m *MockPlacementStore) Update(ctx context.Context, placement *domain.CardPlacement) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, placement)
	}

	if _, exists := m.Placements[placement.ID]; !exists {
		return store.ErrPlacementNotFound
	}
	m.Placements[placement.ID] = placement
	return nil
}

// MoveToCard implements the PlacementStore interface
func (m *MockPlacementStore) MoveToCard(ctx context.Context, id, newCardID uuid.UUID) error {
	if m.MoveToCardFn != nil {
		return m.MoveToCardFn(ctx, id, newCardID)
	}

	placement, exists := m.Placements[id]
	if !exists {
		return store.ErrPlacementNotFound
	}
	for _, existing := range m.Placements {
		if existing.ID != id && existing.CardID == newCardID && existing.UserID == placement.UserID {
			return store.ErrDuplicatePlacement
		}
	}
	placement.CardID = newCardID
	return nil
}

// Delete implements the PlacementStore interface
func (m *MockPlacementStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	if _, exists := m.Placements[id]; !exists {
		return store.ErrPlacementNotFound
	}
	delete(m.Placements, id)
	return nil
}

// WithTx implements the PlacementStore interface
func (m *MockPlacementStore) WithTx(tx *sql.Tx) store.PlacementStore {
	return m
}

func (m *MockPlacementStore) inCategory(placement *domain.CardPlacement, categoryID uuid.UUID) bool {
	if m.Cards == nil {
		return false
	}
	card, exists := m.Cards.Cards[placement.CardID]
	return exists && card.CategoryID == categoryID
}

func (m *MockPlacementStore) eligible(placement *domain.CardPlacement, categoryID, userID uuid.UUID, at time.Time) bool {
	return placement.UserID == userID &&
		m.inCategory(placement, categoryID) &&
		!placement.Postponed(at)
}
