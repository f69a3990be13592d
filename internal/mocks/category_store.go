package mocks

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/memodrop/braindump/internal/domain"
	"github.com/memodrop/braindump/internal/store"
)

// MockCategoryStore implements store.CategoryStore for testing. Visibility
// through share contracts is resolved against the linked MockShareContractStore
// when one is set.
type MockCategoryStore struct {
	// Function fields for customizable behavior
	CreateFn      func(ctx context.Context, category *domain.Category) error
	GetByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	GetForOwnerFn func(ctx context.Context, id, ownerID uuid.UUID) (*domain.Category, error)
	GetVisibleFn  func(ctx context.Context, id, userID uuid.UUID) (*domain.Category, error)
	ListVisibleFn func(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error)
	UpdateFn      func(ctx context.Context, category *domain.Category) error
	TouchFn       func(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteFn      func(ctx context.Context, id uuid.UUID) error

	// Data for default implementation, keyed by category ID
	Categories map[uuid.UUID]*domain.Category

	// Contracts resolves share-based visibility for GetVisible and
	// ListVisible. Nil means only ownership grants visibility.
	Contracts *MockShareContractStore
}

// Ensure MockCategoryStore implements store.CategoryStore
var _ store.CategoryStore = (*MockCategoryStore)(nil)

// NewMockCategoryStore creates a new mock store with initialized defaults
func NewMockCategoryStore() *MockCategoryStore {
	return &MockCategoryStore{
		Categories: make(map[uuid.UUID]*domain.Category),
	}
}

// Create implements the CategoryStore interface
func (m *MockCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, category)
	}

	if _, exists := m.Categories[category.ID]; exists {
		return store.ErrDuplicate
	}
	m.Categories[category.ID] = category
	return nil
}

// GetByID implements the CategoryStore interface
func (m *MockCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	category, exists := m.Categories[id]
	if !exists {
		return nil, store.ErrCategoryNotFound
	}
	return category, nil
}

// GetForOwner implements the CategoryStore interface
func (m *MockCategoryStore) GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Category, error) {
	if m.GetForOwnerFn != nil {
		return m.GetForOwnerFn(ctx, id, ownerID)
	}

	category, exists := m.Categories[id]
	if !exists || category.OwnerID != ownerID {
		return nil, store.ErrCategoryNotFound
	}
	return category, nil
}

// GetVisible implements the CategoryStore interface
func (m *MockCategoryStore) GetVisible(ctx context.Context, id, userID uuid.UUID) (*domain.Category, error) {
	if m.GetVisibleFn != nil {
		return m.GetVisibleFn(ctx, id, userID)
	}

	category, exists := m.Categories[id]
	if !exists {
		return nil, store.ErrCategoryNotFound
	}
	if category.OwnerID == userID || m.hasAcceptedShare(id, userID) {
		return category, nil
	}
	return nil, store.ErrCategoryNotFound
}

// ListVisible implements the CategoryStore interface
func (m *MockCategoryStore) ListVisible(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error) {
	if m.ListVisibleFn != nil {
		return m.ListVisibleFn(ctx, userID)
	}

	categories := make([]*domain.Category, 0)
	for id, category := range m.Categories {
		if category.OwnerID == userID || m.hasAcceptedShare(id, userID) {
			categories = append(categories, category)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].LastInteractionAt.After(categories[j].LastInteractionAt)
	})
	return categories, nil
}

// Update implements the CategoryStore interface
func (m *MockCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, category)
	}

	if _, exists := m.Categories[category.ID]; !exists {
		return store.ErrCategoryNotFound
	}
	m.Categories[category.ID] = category
	return nil
}

// Touch implements the CategoryStore interface
func (m *MockCategoryStore) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	if m.TouchFn != nil {
		return m.TouchFn(ctx, id, at)
	}

	category, exists := m.Categories[id]
	if !exists {
		return store.ErrCategoryNotFound
	}
	category.Touch(at)
	return nil
}

// Delete implements the CategoryStore interface
func (m *MockCategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	if _, exists := m.Categories[id]; !exists {
		return store.ErrCategoryNotFound
	}
	delete(m.Categories, id)
	return nil
}

// WithTx implements the CategoryStore interface
func (m *MockCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return m
}

func (m *MockCategoryStore) hasAcceptedShare(categoryID, userID uuid.UUID) bool {
	if m.Contracts == nil {
		return false
	}
	for _, contract := range m.Contracts.Contracts {
		if contract.CategoryID == categoryID && contract.UserID == userID && contract.Accepted() {
			return true
		}
	}
	return false
}
