package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/memodrop/braindump/internal/domain"
	"github.com/memodrop/braindump/internal/store"
)

// CategoryService provides category management operations. Reads are scoped
// to what the requesting user can see; writes require ownership.
type CategoryService interface {
	// CreateCategory creates a new category owned by the given user.
	CreateCategory(
		ctx context.Context,
		ownerID uuid.UUID,
		name, description string,
		mode domain.ReviewMode,
	) (*domain.Category, error)

	// GetCategory retrieves a category visible to the user (owned or
	// accepted share). Returns ErrCategoryNotFound otherwise.
	GetCategory(ctx context.Context, id, userID uuid.UUID) (*domain.Category, error)

	// ListCategories returns the categories visible to the user, most
	// recently interacted with first.
	ListCategories(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error)

	// UpdateCategory updates a category's name, description, and mode.
	// Only the owner may update. Returns ErrCategoryNotFound otherwise.
	UpdateCategory(
		ctx context.Context,
		id, ownerID uuid.UUID,
		name, description string,
		mode domain.ReviewMode,
	) (*domain.Category, error)

	// DeleteCategory deletes a category with all its cards, placements, and
	// share contracts. Only the owner may delete.
	// Returns ErrCategoryNotFound otherwise.
	DeleteCategory(ctx context.Context, id, ownerID uuid.UUID) error
}

// categoryServiceImpl implements the CategoryService interface
type categoryServiceImpl struct {
	categories store.CategoryStore
	logger     *slog.Logger
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(
	categories store.CategoryStore,
	logger *slog.Logger,
) (CategoryService, error) {
	if categories == nil {
		return nil, NewServiceError("create_service", "categories store cannot be nil", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &categoryServiceImpl{
		categories: categories,
		logger:     logger.With("component", "category_service"),
	}, nil
}

// CreateCategory creates a new category owned by the given user.
func (s *categoryServiceImpl) CreateCategory(
	ctx context.Context,
	ownerID uuid.UUID,
	name, description string,
	mode domain.ReviewMode,
) (*domain.Category, error) {
	category, err := domain.NewCategory(ownerID, name, description, mode)
	if err != nil {
		return nil, NewServiceError("create_category", "invalid category data", err)
	}

	if err := s.categories.Create(ctx, category); err != nil {
		s.logger.Error("failed to create category", "error", err, "owner_id", ownerID)
		return nil, NewServiceError("create_category", "failed to save category", err)
	}

	s.logger.Info("category created", "category_id", category.ID, "owner_id", ownerID)
	return category, nil
}

// GetCategory retrieves a category visible to the user.
func (s *categoryServiceImpl) GetCategory(
	ctx context.Context,
	id, userID uuid.UUID,
) (*domain.Category, error) {
	category, err := s.categories.GetVisible(ctx, id, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, NewServiceError("get_category", "failed to retrieve category", err)
	}
	return category, nil
}

// ListCategories returns the categories visible to the user.
func (s *categoryServiceImpl) ListCategories(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Category, error) {
	categories, err := s.categories.ListVisible(ctx, userID)
	if err != nil {
		return nil, NewServiceError("list_categories", "failed to list categories", err)
	}
	return categories, nil
}

// UpdateCategory updates a category's name, description, and mode.
func (s *categoryServiceImpl) UpdateCategory(
	ctx context.Context,
	id, ownerID uuid.UUID,
	name, description string,
	mode domain.ReviewMode,
) (*domain.Category, error) {
	category, err := s.categories.GetForOwner(ctx, id, ownerID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, NewServiceError("update_category", "failed to retrieve category", err)
	}

	category.Name = name
	category.Description = description
	category.Mode = mode
	if err := category.Validate(); err != nil {
		return nil, NewServiceError("update_category", "invalid category data", err)
	}

	if err := s.categories.Update(ctx, category); err != nil {
		s.logger.Error("failed to update category", "error", err, "category_id", id)
		return nil, NewServiceError("update_category", "failed to save category", err)
	}

	s.logger.Info("category updated", "category_id", id)
	return category, nil
}

// DeleteCategory deletes a category owned by the given user.
func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, id, ownerID uuid.UUID) error {
	if _, err := s.categories.GetForOwner(ctx, id, ownerID); err != nil {
		if store.IsNotFoundError(err) {
			return ErrCategoryNotFound
		}
		return NewServiceError("delete_category", "failed to retrieve category", err)
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete category", "error", err, "category_id", id)
		return NewServiceError("delete_category", "failed to delete category", err)
	}

	s.logger.Info("category deleted", "category_id", id, "owner_id", ownerID)
	return nil
}
