package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/memodrop/braindump/internal/domain"
	"github.com/memodrop/braindump/internal/store"
)

// MockShareContractStore implements store.ShareContractStore for testing.
// GetForOwner resolves category ownership through the linked
// MockCategoryStore, which must be set for that method to work.
type MockShareContractStore struct {
	// Function fields for customizable behavior
	CreateFn      func(ctx context.Context, contract *domain.ShareContract) error
	GetByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.ShareContract, error)
	GetForUserFn  func(ctx context.Context, id, userID uuid.UUID) (*domain.ShareContract, error)
	GetForOwnerFn func(ctx context.Context, id, ownerID uuid.UUID) (*domain.ShareContract, error)
	UpdateFn      func(ctx context.Context, contract *domain.ShareContract) error
	DeleteFn      func(ctx context.Context, id uuid.UUID) error

	// Data for default implementation, keyed by contract ID
	Contracts map[uuid.UUID]*domain.ShareContract

	// Categories resolves category ownership for GetForOwner.
	Categories *MockCategoryStore
}

// Ensure MockShareContractStore implements store.ShareContractStore
var _ store.ShareContractStore = (*MockShareContractStore)(nil)

// NewMockShareContractStore creates a new mock store with initialized defaults
func NewMockShareContractStore() *MockShareContractStore {
	return &MockShareContractStore{
		Contracts: make(map[uuid.UUID]*domain.ShareContract),
	}
}

// Create implements the ShareContractStore interface
func (m *MockShareContractStore) Create(ctx context.Context, contract *domain.ShareContract) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, contract)
	}

	for _, existing := range m.Contracts {
		if existing.CategoryID == contract.CategoryID && existing.UserID == contract.UserID {
			return store.ErrDuplicateContract
		}
	}
	m.Contracts[contract.ID] = contract
	return nil
}

// GetByID implements the ShareContractStore interface
func (m *MockShareContractStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ShareContract, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	contract, exists := m.Contracts[id]
	if !exists {
		return nil, store.ErrContractNotFound
	}
	return contract, nil
}

// GetForUser implements the ShareContractStore interface
func (m *MockShareContractStore) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.ShareContract, error) {
	if m.GetForUserFn != nil {
		return m.GetForUserFn(ctx, id, userID)
	}

	contract, exists := m.Contracts[id]
	if !exists || contract.UserID != userID {
		return nil, store.ErrContractNotFound
	}
	return contract, nil
}

// GetForOwner implements the ShareContractStore interface
func (m *MockShareContractStore) GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.ShareContract, error) {
	if m.GetForOwnerFn != nil {
		return m.GetForOwnerFn(ctx, id, ownerID)
	}

	contract, exists := m.Contracts[id]
	if !exists || m.Categories == nil {
		return nil, store.ErrContractNotFound
	}
	category, exists := m.Categories.Categories[contract.CategoryID]
	if !exists || category.OwnerID != ownerID {
		return nil, store.ErrContractNotFound
	}
	return contract, nil
}

// ListForCategory implements the ShareContractStore interface
func (m *MockShareContractStore) ListForCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.ShareContract, error) {
	contracts := make([]*domain.ShareContract, 0)
	for _, contract := range m.Contracts {
		if contract.CategoryID == categoryID {
			contracts = append(contracts, contract)
		}
	}
	return contracts, nil
}

// ListPendingForUser implements the ShareContractStore interface
func (m *MockShareContractStore) ListPendingForUser(ctx context.Context, userID uuid.UUID) ([]*domain.ShareContract, error) {
	contracts := make([]*domain.ShareContract, 0)
	for _, contract := range m.Contracts {
		if contract.UserID == userID && contract.State == domain.ContractStateRequested {
			contracts = append(contracts, contract)
		}
	}
	return contracts, nil
}

// AcceptedUserIDs implements the ShareContractStore interface
func (m *MockShareContractStore) AcceptedUserIDs(ctx context.Context, categoryID uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0)
	for _, contract := range m.Contracts {
		if contract.CategoryID == categoryID && contract.Accepted() {
			ids = append(ids, contract.UserID)
		}
	}
	return ids, nil
}

// Update implements the ShareContractStore interface
func (m *MockShareContractStore) Update(ctx context.Context, contract *domain.ShareContract) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, contract)
	}

	if _, exists := m.Contracts[contract.ID]; !exists {
		return store.ErrContractNotFound
	}
	m.Contracts[contract.ID] = contract
	return nil
}

// Delete implements the ShareContractStore interface
func (m *MockShareContractStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	if _, exists := m.Contracts[id]; !exists {
		return store.ErrContractNotFound
	}
	delete(m.Contracts, id)
	return nil
}

// WithTx implements the ShareContractStore interface
func (m *MockShareContractStore) WithTx(tx *sql.Tx) store.ShareContractStore {
	return m
}
