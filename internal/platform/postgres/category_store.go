package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/memodrop/braindump/internal/domain"
	"github.com/memodrop/braindump/internal/platform/logger"
	"github.com/memodrop/braindump/internal/store"
)

// PostgresCategoryStore implements the store.CategoryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCategoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCategoryStore creates a new PostgreSQL implementation of the
// CategoryStore interface. If logger is nil, the default logger is used.
func NewPostgresCategoryStore(db store.DBTX, logger *slog.Logger) *PostgresCategoryStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCategoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "category_store")),
	}
}

// Ensure PostgresCategoryStore implements store.CategoryStore interface
var _ store.CategoryStore = (*PostgresCategoryStore)(nil)

// WithTx implements store.CategoryStore.WithTx
func (s *PostgresCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return &PostgresCategoryStore{
		db:     tx,
		logger: s.logger,
	}
}

const categoryColumns = `id, owner_id, name, description, mode, last_interaction_at, created_at, updated_at`

func scanCategory(row *sql.Row) (*domain.Category, error) {
	var category domain.Category
	var mode string

	err := row.Scan(
		&category.ID,
		&category.OwnerID,
		&category.Name,
		&category.Description,
		&mode,
		&category.LastInteractionAt,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	category.Mode = domain.ReviewMode(mode)
	return &category, nil
}

// Create implements store.CategoryStore.Create
// Returns validation errors from the domain Category if data is invalid.
// Returns store.ErrInvalidEntity if the owner does not exist.
func (s *PostgresCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := category.Validate(); err != nil {
		log.Warn("category validation failed during create",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return err
	}

	query := `
		INSERT INTO categories (id, owner_id, name, description, mode, last_interaction_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		category.ID,
		category.OwnerID,
		category.Name,
		category.Description,
		category.Mode,
		category.LastInteractionAt,
		category.CreatedAt,
		category.UpdatedAt,
	)

	if err != nil {
		mapped := MapError(err)
		log.Error("failed to create category",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()),
			slog.String("owner_id", category.OwnerID.String()))
		return mapped
	}

	log.Info("category created successfully",
		slog.String("category_id", category.ID.String()),
		slog.String("owner_id", category.OwnerID.String()),
		slog.String("mode", string(category.Mode)))
	return nil
}

// GetByID implements store.CategoryStore.GetByID
// Returns store.ErrCategoryNotFound if the category does not exist.
func (s *PostgresCategoryStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE id = $1
	`

	category, err := scanCategory(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("category not found", slog.String("category_id", id.String()))
			return nil, store.ErrCategoryNotFound
		}
		log.Error("failed to get category by ID",
			slog.String("error", err.Error()),
			slog.String("category_id", id.String()))
		return nil, err
	}

	return category, nil
}

// GetForOwner implements store.CategoryStore.GetForOwner
// Returns store.ErrCategoryNotFound if the category does not exist or the
// given user is not the owner.
func (s *PostgresCategoryStore) GetForOwner(
	ctx context.Context,
	id, ownerID uuid.UUID,
) (*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE id = $1 AND owner_id = $2
	`

	category, err := scanCategory(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("category not found for owner",
				slog.String("category_id", id.String()),
				slog.String("owner_id", ownerID.String()))
			return nil, store.ErrCategoryNotFound
		}
		log.Error("failed to get category for owner",
			slog.String("error", err.Error()),
			slog.String("category_id", id.String()))
		return nil, err
	}

	return category, nil
}

// GetVisible implements store.CategoryStore.GetVisible
// A category is visible to its owner and to every user holding an accepted
// share contract on it.
// Returns store.ErrCategoryNotFound otherwise.
func (s *PostgresCategoryStore) GetVisible(
	ctx context.Context,
	id, userID uuid.UUID,
) (*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + categoryColumns + `
		FROM categories c
		WHERE c.id = $1
		  AND (c.owner_id = $2 OR EXISTS (
		      SELECT 1 FROM share_contracts sc
		      WHERE sc.category_id = c.id AND sc.user_id = $2 AND sc.state = 'accepted'
		  ))
	`

	category, err := scanCategory(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("category not visible to user",
				slog.String("category_id", id.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrCategoryNotFound
		}
		log.Error("failed to get visible category",
			slog.String("error", err.Error()),
			slog.String("category_id", id.String()))
		return nil, err
	}

	return category, nil
}

// ListVisible implements store.CategoryStore.ListVisible
// Returns the categories the user owns or has an accepted share contract on,
// most recently interacted with first.
func (s *PostgresCategoryStore) ListVisible(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + categoryColumns + `
		FROM categories c
		WHERE c.owner_id = $1 OR EXISTS (
		    SELECT 1 FROM share_contracts sc
		    WHERE sc.category_id = c.id AND sc.user_id = $1 AND sc.state = 'accepted'
		)
		ORDER BY c.last_interaction_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list visible categories",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	categories := []*domain.Category{}
	for rows.Next() {
		var category domain.Category
		var mode string

		err := rows.Scan(
			&category.ID,
			&category.OwnerID,
			&category.Name,
			&category.Description,
			&mode,
			&category.LastInteractionAt,
			&category.CreatedAt,
			&category.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan category row", slog.String("error", err.Error()))
			return nil, err
		}

		category.Mode = domain.ReviewMode(mode)
		categories = append(categories, &category)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return categories, nil
}

// Update implements store.CategoryStore.Update
// Returns store.ErrCategoryNotFound if the category does not exist.
func (s *PostgresCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := category.Validate(); err != nil {
		log.Warn("category validation failed during update",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return err
	}

	query := `
		UPDATE categories
		SET name = $1, description = $2, mode = $3, last_interaction_at = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		category.Name,
		category.Description,
		category.Mode,
		category.LastInteractionAt,
		category.UpdatedAt,
		category.ID,
	)

	if err != nil {
		log.Error("failed to update category",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return err
	}

	if err := CheckRowsAffected(result, store.ErrCategoryNotFound); err != nil {
		log.Debug("category not found for update",
			slog.String("category_id", category.ID.String()))
		return err
	}

	log.Info("category updated successfully",
		slog.String("category_id", category.ID.String()))
	return nil
}

// Touch implements store.CategoryStore.Touch
// Returns store.ErrCategoryNotFound if the category does not exist.
func (s *PostgresCategoryStore) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE categories
		SET last_interaction_at = $1, updated_at = $1
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, at, id)
	if err != nil {
		log.Error("failed to touch category",
			slog.String("error", err.Error()),
			slog.String("category_id", id.String()))
		return err
	}

	return CheckRowsAffected(result, store.ErrCategoryNotFound)
}

// Delete implements store.CategoryStore.Delete
// Cards, placements, and share contracts of the category are removed by
// ON DELETE CASCADE.
// Returns store.ErrCategoryNotFound if the category does not exist.
func (s *PostgresCategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM categories WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete category",
			slog.String("error", err.Error()),
			slog.String("category_id", id.String()))
		return err
	}

	if err := CheckRowsAffected(result, store.ErrCategoryNotFound); err != nil {
		log.Debug("category not found for delete",
			slog.String("category_id", id.String()))
		return err
	}

	log.Info("category deleted successfully", slog.String("category_id", id.String()))
	return nil
}
