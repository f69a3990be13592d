package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/memodrop/braindump/internal/domain"
	"github.com/memodrop/braindump/internal/store"
)

// CardService provides card management operations. Only category owners may
// create, update, or delete cards; users with accepted shares read them.
type CardService interface {
	// CreateCard creates a card in the category and fans placements out to
	// the owner and to every user with an accepted share contract, all in
	// one transaction. Returns ErrCategoryNotFound if the category does not
	// exist or the user is not its owner.
	CreateCard(
		ctx context.Context,
		categoryID, ownerID uuid.UUID,
		question, answer, hint string,
	) (*domain.Card, error)

	// GetCard retrieves a card whose category is visible to the user.
	// Returns ErrCardNotFound otherwise.
	GetCard(ctx context.Context, cardID, userID uuid.UUID) (*domain.Card, error)

	// ListCards returns the cards of a category visible to the user.
	// Returns ErrCategoryNotFound if the category is not visible.
	ListCards(ctx context.Context, categoryID, userID uuid.UUID) ([]*domain.Card, error)

	// UpdateCard replaces a card's question, answer, and hint. Only the
	// category owner may update. Returns ErrCardNotFound otherwise.
	UpdateCard(
		ctx context.Context,
		cardID, ownerID uuid.UUID,
		question, answer, hint string,
	) (*domain.Card, error)

	// DeleteCard deletes a card and all placements of it. Only the category
	// owner may delete. Returns ErrCardNotFound otherwise.
	DeleteCard(ctx context.Context, cardID, ownerID uuid.UUID) error
}

// cardServiceImpl implements the CardService interface
type cardServiceImpl struct {
	tx         store.TxRunner
	cards      store.CardStore
	categories store.CategoryStore
	placements store.PlacementStore
	contracts  store.ShareContractStore
	logger     *slog.Logger
}

// NewCardService creates a new CardService.
func NewCardService(
	tx store.TxRunner,
	cards store.CardStore,
	categories store.CategoryStore,
	placements store.PlacementStore,
	contracts store.ShareContractStore,
	logger *slog.Logger,
) (CardService, error) {
	if tx == nil {
		return nil, NewServiceError("create_service", "tx runner cannot be nil", nil)
	}
	if cards == nil || categories == nil || placements == nil || contracts == nil {
		return nil, NewServiceError("create_service", "stores cannot be nil", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cardServiceImpl{
		tx:         tx,
		cards:      cards,
		categories: categories,
		placements: placements,
		contracts:  contracts,
		logger:     logger.With("component", "card_service"),
	}, nil
}

// CreateCard creates a card and fans placements out to every user with
// access to the category.
func (s *cardServiceImpl) CreateCard(
	ctx context.Context,
	categoryID, ownerID uuid.UUID,
	question, answer, hint string,
) (*domain.Card, error) {
	category, err := s.categories.GetForOwner(ctx, categoryID, ownerID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, NewServiceError("create_card", "failed to retrieve category", err)
	}

	card, err := domain.NewCard(categoryID, question, answer, hint)
	if err != nil {
		return nil, NewServiceError("create_card", "invalid card data", err)
	}

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txCards := s.cards.WithTx(tx)
		txPlacements := s.placements.WithTx(tx)
		txContracts := s.contracts.WithTx(tx)
		txCategories := s.categories.WithTx(tx)

		if err := txCards.Create(ctx, card); err != nil {
			return NewServiceError("create_card", "failed to save card", err)
		}

		sharedWith, err := txContracts.AcceptedUserIDs(ctx, categoryID)
		if err != nil {
			return NewServiceError("create_card", "failed to list shared users", err)
		}

		for _, userID := range append([]uuid.UUID{ownerID}, sharedWith...) {
			placement, err := domain.NewCardPlacement(card.ID, userID)
			if err != nil {
				return NewServiceError("create_card", "failed to build placement", err)
			}
			if err := txPlacements.Create(ctx, placement); err != nil &&
				!errors.Is(err, store.ErrDuplicatePlacement) {
				return NewServiceError("create_card", "failed to save placement", err)
			}
		}

		if err := txCategories.Touch(ctx, categoryID, time.Now().UTC()); err != nil {
			return NewServiceError("create_card", "failed to touch category", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("card created",
		"card_id", card.ID,
		"category_id", categoryID,
		"mode", string(category.Mode))
	return card, nil
}

// GetCard retrieves a card whose category is visible to the user.
func (s *cardServiceImpl) GetCard(
	ctx context.Context,
	cardID, userID uuid.UUID,
) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrCardNotFound
		}
		return nil, NewServiceError("get_card", "failed to retrieve card", err)
	}

	if _, err := s.categories.GetVisible(ctx, card.CategoryID, userID); err != nil {
		if store.IsNotFoundError(err) {
			// The card exists but the user cannot see its category; respond
			// as if the card itself did not exist.
			return nil, ErrCardNotFound
		}
		return nil, NewServiceError("get_card", "failed to check category visibility", err)
	}

	return card, nil
}

// ListCards returns the cards of a category visible to the user.
func (s *cardServiceImpl) ListCards(
	ctx context.Context,
	categoryID, userID uuid.UUID,
) ([]*domain.Card, error) {
	if _, err := s.categories.GetVisible(ctx, categoryID, userID); err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, NewServiceError("list_cards", "failed to check category visibility", err)
	}

	cards, err := s.cards.ListForCategory(ctx, categoryID)
	if err != nil {
		return nil, NewServiceError("list_cards", "failed to list cards", err)
	}
	return cards, nil
}

// UpdateCard replaces a card's content. Only the category owner may update.
func (s *cardServiceImpl) UpdateCard(
	ctx context.Context,
	cardID, ownerID uuid.UUID,
	question, answer, hint string,
) (*domain.Card, error) {
	card, err := s.getOwnedCard(ctx, cardID, ownerID, "update_card")
	if err != nil {
		return nil, err
	}

	if err := card.UpdateContent(question, answer, hint); err != nil {
		return nil, NewServiceError("update_card", "invalid card data", err)
	}

	if err := s.cards.Update(ctx, card); err != nil {
		s.logger.Error("failed to update card", "error", err, "card_id", cardID)
		return nil, NewServiceError("update_card", "failed to save card", err)
	}

	s.logger.Info("card updated", "card_id", cardID)
	return card, nil
}

// DeleteCard deletes a card. Only the category owner may delete.
func (s *cardServiceImpl) DeleteCard(ctx context.Context, cardID, ownerID uuid.UUID) error {
	if _, err := s.getOwnedCard(ctx, cardID, ownerID, "delete_card"); err != nil {
		return err
	}

	if err := s.cards.Delete(ctx, cardID); err != nil {
		s.logger.Error("failed to delete card", "error", err, "card_id", cardID)
		return NewServiceError("delete_card", "failed to delete card", err)
	}

	s.logger.Info("card deleted", "card_id", cardID, "owner_id", ownerID)
	return nil
}

// getOwnedCard loads a card and verifies the user owns its category.
func (s *cardServiceImpl) getOwnedCard(
	ctx context.Context,
	cardID, ownerID uuid.UUID,
	operation string,
) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrCardNotFound
		}
		return nil, NewServiceError(operation, "failed to retrieve card", err)
	}

	if _, err := s.categories.GetForOwner(ctx, card.CategoryID, ownerID); err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrCardNotFound
		}
		return nil, NewServiceError(operation, "failed to check category ownership", err)
	}

	return card, nil
}
