package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/memodrop/braindump/internal/domain"
	"github.com/memodrop/braindump/internal/platform/logger"
	"github.com/memodrop/braindump/internal/store"
)

// PostgresShareContractStore implements the store.ShareContractStore
// interface using a PostgreSQL database as the storage backend.
type PostgresShareContractStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresShareContractStore creates a new PostgreSQL implementation of
// the ShareContractStore interface. If logger is nil, the default logger is
// used.
func NewPostgresShareContractStore(
	db store.DBTX,
	logger *slog.Logger,
) *PostgresShareContractStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresShareContractStore{
		db:     db,
		logger: logger.With(slog.String("component", "share_contract_store")),
	}
}

// Ensure PostgresShareContractStore implements store.ShareContractStore
var _ store.ShareContractStore = (*PostgresShareContractStore)(nil)

// WithTx implements store.ShareContractStore.WithTx
func (s *PostgresShareContractStore) WithTx(tx *sql.Tx) store.ShareContractStore {
	return &PostgresShareContractStore{
		db:     tx,
		logger: s.logger,
	}
}

const contractColumns = `id, category_id, user_id, state, created_at, updated_at`

func scanContract(row *sql.Row) (*domain.ShareContract, error) {
	var contract domain.ShareContract
	var state string

	err := row.Scan(
		&contract.ID,
		&contract.CategoryID,
		&contract.UserID,
		&state,
		&contract.CreatedAt,
		&contract.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	contract.State = domain.ContractState(state)
	return &contract, nil
}

// Create implements store.ShareContractStore.Create
// Returns validation errors from the domain ShareContract if data is
// invalid. Returns store.ErrDuplicateContract if a contract for the
// (category, user) pair already exists and store.ErrInvalidEntity if the
// category or user does not exist.
func (s *PostgresShareContractStore) Create(
	ctx context.Context,
	contract *domain.ShareContract,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := contract.Validate(); err != nil {
		log.Warn("contract validation failed during create",
			slog.String("error", err.Error()),
			slog.String("contract_id", contract.ID.String()))
		return err
	}

	query := `
		INSERT INTO share_contracts (id, category_id, user_id, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		contract.ID,
		contract.CategoryID,
		contract.UserID,
		contract.State,
		contract.CreatedAt,
		contract.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("contract already exists",
				slog.String("category_id", contract.CategoryID.String()),
				slog.String("user_id", contract.UserID.String()))
			return fmt.Errorf("%w: category %s, user %s",
				store.ErrDuplicateContract, contract.CategoryID, contract.UserID)
		}
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during contract creation",
				slog.String("error", err.Error()),
				slog.String("category_id", contract.CategoryID.String()),
				slog.String("user_id", contract.UserID.String()))
			return fmt.Errorf("%w: category or user not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create contract",
			slog.String("error", err.Error()),
			slog.String("contract_id", contract.ID.String()))
		return err
	}

	log.Info("share contract created",
		slog.String("contract_id", contract.ID.String()),
		slog.String("category_id", contract.CategoryID.String()),
		slog.String("user_id", contract.UserID.String()))
	return nil
}

// GetByID implements store.ShareContractStore.GetByID
// Returns store.ErrContractNotFound if the contract does not exist.
func (s *PostgresShareContractStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.ShareContract, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + contractColumns + `
		FROM share_contracts
		WHERE id = $1
	`

	contract, err := scanContract(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("contract not found", slog.String("contract_id", id.String()))
			return nil, store.ErrContractNotFound
		}
		log.Error("failed to get contract by ID",
			slog.String("error", err.Error()),
			slog.String("contract_id", id.String()))
		return nil, err
	}

	return contract, nil
}

// GetForUser implements store.ShareContractStore.GetForUser
// Returns store.ErrContractNotFound if the contract does not exist or is
// not addressed to the given user.
func (s *PostgresShareContractStore) GetForUser(
	ctx context.Context,
	id, userID uuid.UUID,
) (*domain.ShareContract, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + contractColumns + `
		FROM share_contracts
		WHERE id = $1 AND user_id = $2
	`

	contract, err := scanContract(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("contract not found for user",
				slog.String("contract_id", id.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrContractNotFound
		}
		log.Error("failed to get contract for user",
			slog.String("error", err.Error()),
			slog.String("contract_id", id.String()))
		return nil, err
	}

	return contract, nil
}

// GetForOwner implements store.ShareContractStore.GetForOwner
// Returns store.ErrContractNotFound if the contract does not exist or its
// category is not owned by the given user.
func (s *PostgresShareContractStore) GetForOwner(
	ctx context.Context,
	id, ownerID uuid.UUID,
) (*domain.ShareContract, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT sc.id, sc.category_id, sc.user_id, sc.state, sc.created_at, sc.updated_at
		FROM share_contracts sc
		JOIN categories c ON c.id = sc.category_id
		WHERE sc.id = $1 AND c.owner_id = $2
	`

	contract, err := scanContract(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("contract not found for owner",
				slog.String("contract_id", id.String()),
				slog.String("owner_id", ownerID.String()))
			return nil, store.ErrContractNotFound
		}
		log.Error("failed to get contract for owner",
			slog.String("error", err.Error()),
			slog.String("contract_id", id.String()))
		return nil, err
	}

	return contract, nil
}

// ListForCategory implements store.ShareContractStore.ListForCategory
func (s *PostgresShareContractStore) ListForCategory(
	ctx context.Context,
	categoryID uuid.UUID,
) ([]*domain.ShareContract, error) {
	query := `
		SELECT ` + contractColumns + `
		FROM share_contracts
		WHERE category_id = $1
		ORDER BY created_at
	`
	return s.queryContracts(ctx, query, categoryID)
}

// ListPendingForUser implements store.ShareContractStore.ListPendingForUser
func (s *PostgresShareContractStore) ListPendingForUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.ShareContract, error) {
	query := `
		SELECT ` + contractColumns + `
		FROM share_contracts
		WHERE user_id = $1 AND state = 'requested'
		ORDER BY created_at
	`
	return s.queryContracts(ctx, query, userID)
}

func (s *PostgresShareContractStore) queryContracts(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.ShareContract, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query contracts", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	contracts := []*domain.ShareContract{}
	for rows.Next() {
		var contract domain.ShareContract
		var state string

		err := rows.Scan(
			&contract.ID,
			&contract.CategoryID,
			&contract.UserID,
			&state,
			&contract.CreatedAt,
			&contract.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan contract row", slog.String("error", err.Error()))
			return nil, err
		}

		contract.State = domain.ContractState(state)
		contracts = append(contracts, &contract)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return contracts, nil
}

// AcceptedUserIDs implements store.ShareContractStore.AcceptedUserIDs
func (s *PostgresShareContractStore) AcceptedUserIDs(
	ctx context.Context,
	categoryID uuid.UUID,
) ([]uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id
		FROM share_contracts
		WHERE category_id = $1 AND state = 'accepted'
	`

	rows, err := s.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		log.Error("failed to query accepted user IDs",
			slog.String("error", err.Error()),
			slog.String("category_id", categoryID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	userIDs := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			log.Error("failed to scan user ID", slog.String("error", err.Error()))
			return nil, err
		}
		userIDs = append(userIDs, id)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return userIDs, nil
}

// Update implements store.ShareContractStore.Update
// Returns store.ErrContractNotFound if the contract does not exist.
func (s *PostgresShareContractStore) Update(
	ctx context.Context,
	contract *domain.ShareContract,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := contract.Validate(); err != nil {
		log.Warn("contract validation failed during update",
			slog.String("error", err.Error()),
			slog.String("contract_id", contract.ID.String()))
		return err
	}

	query := `
		UPDATE share_contracts
		SET state = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, contract.State, contract.UpdatedAt, contract.ID)
	if err != nil {
		log.Error("failed to update contract",
			slog.String("error", err.Error()),
			slog.String("contract_id", contract.ID.String()))
		return err
	}

	if err := CheckRowsAffected(result, store.ErrContractNotFound); err != nil {
		log.Debug("contract not found for update",
			slog.String("contract_id", contract.ID.String()))
		return err
	}

	log.Info("share contract updated",
		slog.String("contract_id", contract.ID.String()),
		slog.String("state", string(contract.State)))
	return nil
}

// Delete implements store.ShareContractStore.Delete
// Returns store.ErrContractNotFound if the contract does not exist.
func (s *PostgresShareContractStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM share_contracts WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete contract",
			slog.String("error", err.Error()),
			slog.String("contract_id", id.String()))
		return err
	}

	if err := CheckRowsAffected(result, store.ErrContractNotFound); err != nil {
		log.Debug("contract not found for delete",
			slog.String("contract_id", id.String()))
		return err
	}

	log.Info("share contract deleted", slog.String("contract_id", id.String()))
	return nil
}
