package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/memodrop/braindump/internal/domain"
	"github.com/memodrop/braindump/internal/platform/logger"
	"github.com/memodrop/braindump/internal/store"
)

// PostgresPlacementStore implements the store.PlacementStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPlacementStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPlacementStore creates a new PostgreSQL implementation of the
// PlacementStore interface. If logger is nil, the default logger is used.
func NewPostgresPlacementStore(db store.DBTX, logger *slog.Logger) *PostgresPlacementStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPlacementStore{
		db:     db,
		logger: logger.With(slog.String("component", "placement_store")),
	}
}

// Ensure PostgresPlacementStore implements store.PlacementStore interface
var _ store.PlacementStore = (*PostgresPlacementStore)(nil)

// WithTx implements store.PlacementStore.WithTx
func (s *PostgresPlacementStore) WithTx(tx *sql.Tx) store.PlacementStore {
	return &PostgresPlacementStore{
		db:     tx,
		logger: s.logger,
	}
}

const placementColumns = `id, card_id, user_id, area, postpone_until, last_interaction_at, created_at, updated_at`

func scanPlacement(row *sql.Row) (*domain.CardPlacement, error) {
	var placement domain.CardPlacement
	err := row.Scan(
		&placement.ID,
		&placement.CardID,
		&placement.UserID,
		&placement.Area,
		&placement.PostponeUntil,
		&placement.LastInteractionAt,
		&placement.CreatedAt,
		&placement.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &placement, nil
}

// Create implements store.PlacementStore.Create
// Returns validation errors from the domain CardPlacement if data is
// invalid. Returns store.ErrDuplicatePlacement if the (card, user) pair
// already has a placement and store.ErrInvalidEntity if the card or user
// does not exist.
func (s *PostgresPlacementStore) Create(
	ctx context.Context,
	placement *domain.CardPlacement,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := placement.Validate(); err != nil {
		log.Warn("placement validation failed during create",
			slog.String("error", err.Error()),
			slog.String("placement_id", placement.ID.String()))
		return err
	}

	query := `
		INSERT INTO card_placements (id, card_id, user_id, area, postpone_until, last_interaction_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		placement.ID,
		placement.CardID,
		placement.UserID,
		placement.Area,
		placement.PostponeUntil,
		placement.LastInteractionAt,
		placement.CreatedAt,
		placement.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("placement already exists",
				slog.String("card_id", placement.CardID.String()),
				slog.String("user_id", placement.UserID.String()))
			return fmt.Errorf("%w: card %s, user %s",
				store.ErrDuplicatePlacement, placement.CardID, placement.UserID)
		}
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during placement creation",
				slog.String("error", err.Error()),
				slog.String("card_id", placement.CardID.String()),
				slog.String("user_id", placement.UserID.String()))
			return fmt.Errorf("%w: card or user not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create placement",
			slog.String("error", err.Error()),
			slog.String("placement_id", placement.ID.String()))
		return err
	}

	log.Info("placement created successfully",
		slog.String("placement_id", placement.ID.String()),
		slog.String("card_id", placement.CardID.String()),
		slog.String("user_id", placement.UserID.String()))
	return nil
}

// GetForUser implements store.PlacementStore.GetForUser
// Returns store.ErrPlacementNotFound if the placement does not exist or
// belongs to a different user.
func (s *PostgresPlacementStore) GetForUser(
	ctx context.Context,
	id, userID uuid.UUID,
) (*domain.CardPlacement, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + placementColumns + `
		FROM card_placements
		WHERE id = $1 AND user_id = $2
	`

	placement, err := scanPlacement(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("placement not found for user",
				slog.String("placement_id", id.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrPlacementNotFound
		}
		log.Error("failed to get placement for user",
			slog.String("error", err.Error()),
			slog.String("placement_id", id.String()))
		return nil, err
	}

	return placement, nil
}

// GetForCardAndUser implements store.PlacementStore.GetForCardAndUser
// Returns store.ErrPlacementNotFound if no placement exists for the pair.
func (s *PostgresPlacementStore) GetForCardAndUser(
	ctx context.Context,
	cardID, userID uuid.UUID,
) (*domain.CardPlacement, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + placementColumns + `
		FROM card_placements
		WHERE card_id = $1 AND user_id = $2
	`

	placement, err := scanPlacement(s.db.QueryRowContext(ctx, query, cardID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("placement not found for card and user",
				slog.String("card_id", cardID.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrPlacementNotFound
		}
		log.Error("failed to get placement for card and user",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, err
	}

	return placement, nil
}

// ListForCategoryAndUser implements store.PlacementStore.ListForCategoryAndUser
func (s *PostgresPlacementStore) ListForCategoryAndUser(
	ctx context.Context,
	categoryID, userID uuid.UUID,
) ([]*domain.CardPlacement, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT p.id, p.card_id, p.user_id, p.area, p.postpone_until, p.last_interaction_at, p.created_at, p.updated_at
		FROM card_placements p
		JOIN cards c ON c.id = p.card_id
		WHERE c.category_id = $1 AND p.user_id = $2
		ORDER BY p.area, p.created_at
	`

	rows, err := s.db.QueryContext(ctx, query, categoryID, userID)
	if err != nil {
		log.Error("failed to list placements",
			slog.String("error", err.Error()),
			slog.String("category_id", categoryID.String()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	placements := []*domain.CardPlacement{}
	for rows.Next() {
		var placement domain.CardPlacement
		err := rows.Scan(
			&placement.ID,
			&placement.CardID,
			&placement.UserID,
			&placement.Area,
			&placement.PostponeUntil,
			&placement.LastInteractionAt,
			&placement.CreatedAt,
			&placement.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan placement row", slog.String("error", err.Error()))
			return nil, err
		}
		placements = append(placements, &placement)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return placements, nil
}

// EligibleAreaBounds implements store.PlacementStore.EligibleAreaBounds
// A placement is eligible when its area lies within [minArea, maxArea] and
// it is not postponed past the given time.
// Returns store.ErrPlacementNotFound when no placement is eligible.
func (s *PostgresPlacementStore) EligibleAreaBounds(
	ctx context.Context,
	categoryID, userID uuid.UUID,
	minArea, maxArea int,
	at time.Time,
) (int, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT MIN(p.area), MAX(p.area)
		FROM card_placements p
		JOIN cards c ON c.id = p.card_id
		WHERE c.category_id = $1
		  AND p.user_id = $2
		  AND p.area BETWEEN $3 AND $4
		  AND p.postpone_until <= $5
	`

	var lo, hi sql.NullInt64
	err := s.db.QueryRowContext(ctx, query, categoryID, userID, minArea, maxArea, at).
		Scan(&lo, &hi)
	if err != nil {
		log.Error("failed to query eligible area bounds",
			slog.String("error", err.Error()),
			slog.String("category_id", categoryID.String()),
			slog.String("user_id", userID.String()))
		return 0, 0, err
	}

	// MIN/MAX over an empty set come back NULL rather than ErrNoRows.
	if !lo.Valid || !hi.Valid {
		log.Debug("no eligible placements in range",
			slog.String("category_id", categoryID.String()),
			slog.String("user_id", userID.String()),
			slog.Int("min_area", minArea),
			slog.Int("max_area", maxArea))
		return 0, 0, store.ErrPlacementNotFound
	}

	return int(lo.Int64), int(hi.Int64), nil
}

// RandomEligibleByArea implements store.PlacementStore.RandomEligibleByArea
// Returns store.ErrPlacementNotFound when the area holds no eligible
// placement.
func (s *PostgresPlacementStore) RandomEligibleByArea(
	ctx context.Context,
	categoryID, userID uuid.UUID,
	area int,
	at time.Time,
) (*domain.CardPlacement, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT p.id, p.card_id, p.user_id, p.area, p.postpone_until, p.last_interaction_at, p.created_at, p.updated_at
		FROM card_placements p
		JOIN cards c ON c.id = p.card_id
		WHERE c.category_id = $1
		  AND p.user_id = $2
		  AND p.area = $3
		  AND p.postpone_until <= $4
		ORDER BY random()
		LIMIT 1
	`

	var placement domain.CardPlacement
	err := s.db.QueryRowContext(ctx, query, categoryID, userID, area, at).Scan(
		&placement.ID,
		&placement.CardID,
		&placement.UserID,
		&placement.Area,
		&placement.PostponeUntil,
		&placement.LastInteractionAt,
		&placement.CreatedAt,
		&placement.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no eligible placement in area",
				slog.String("category_id", categoryID.String()),
				slog.String("user_id", userID.String()),
				slog.Int("area", area))
			return nil, store.ErrPlacementNotFound
		}
		log.Error("failed to pick random placement",
			slog.String("error", err.Error()),
			slog.String("category_id", categoryID.String()),
			slog.Int("area", area))
		return nil, err
	}

	return &placement, nil
}

// Update implements store.PlacementStore.Update
// Returns store.ErrPlacementNotFound if the placement does not exist.
func (s *PostgresPlacementStore) Update(
	ctx context.Context,
	placement *domain.CardPlacement,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := placement.Validate(); err != nil {
		log.Warn("placement validation failed during update",
			slog.String("error", err.Error()),
			slog.String("placement_id", placement.ID.String()))
		return err
	}

	query := `
		UPDATE card_placements
		SET area = $1, postpone_until = $2, last_interaction_at = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		placement.Area,
		placement.PostponeUntil,
		placement.LastInteractionAt,
		placement.UpdatedAt,
		placement.ID,
	)

	if err != nil {
		log.Error("failed to update placement",
			slog.String("error", err.Error()),
			slog.String("placement_id", placement.ID.String()))
		return err
	}

	if err := CheckRowsAffected(result, store.ErrPlacementNotFound); err != nil {
		log.Debug("placement not found for update",
			slog.String("placement_id", placement.ID.String()))
		return err
	}

	log.Debug("placement updated successfully",
		slog.String("placement_id", placement.ID.String()),
		slog.Int("area", placement.Area))
	return nil
}

// MoveToCard implements store.PlacementStore.MoveToCard
// The placement keeps its area, postpone marker, and interaction history;
// only the card reference changes.
// Returns store.ErrPlacementNotFound if the placement does not exist and
// store.ErrDuplicatePlacement if the user already has a placement on the
// target card.
func (s *PostgresPlacementStore) MoveToCard(ctx context.Context, id, newCardID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE card_placements
		SET card_id = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, newCardID, time.Now().UTC(), id)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("placement already exists on target card",
				slog.String("placement_id", id.String()),
				slog.String("card_id", newCardID.String()))
			return fmt.Errorf("%w: card %s", store.ErrDuplicatePlacement, newCardID)
		}
		log.Error("failed to move placement",
			slog.String("error", err.Error()),
			slog.String("placement_id", id.String()),
			slog.String("card_id", newCardID.String()))
		return err
	}

	if err := CheckRowsAffected(result, store.ErrPlacementNotFound); err != nil {
		log.Debug("placement not found for move",
			slog.String("placement_id", id.String()))
		return err
	}

	log.Info("placement moved to new card",
		slog.String("placement_id", id.String()),
		slog.String("card_id", newCardID.String()))
	return nil
}

// Delete implements store.PlacementStore.Delete
// Returns store.ErrPlacementNotFound if the placement does not exist.
func (s *PostgresPlacementStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM card_placements WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete placement",
			slog.String("error", err.Error()),
			slog.String("placement_id", id.String()))
		return err
	}

	return CheckRowsAffected(result, store.ErrPlacementNotFound)
}
