package braindump

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/memodrop/braindump/internal/domain"
	"github.com/memodrop/braindump/internal/domain/leitner"
	"github.com/memodrop/braindump/internal/store"
)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	cfg        Config
	tx         store.TxRunner
	cards      store.CardStore
	categories store.CategoryStore
	placements store.PlacementStore

	rngMu sync.Mutex
	rng   *rand.Rand

	logger *slog.Logger
}

// Ensure serviceImpl implements Service
var _ Service = (*serviceImpl)(nil)

// NewService creates a review session service. The random source drives
// area sampling; tests inject a seeded one.
func NewService(
	cfg Config,
	tx store.TxRunner,
	cards store.CardStore,
	categories store.CategoryStore,
	placements store.PlacementStore,
	rng *rand.Rand,
	logger *slog.Logger,
) (Service, error) {
	if tx == nil || cards == nil || categories == nil || placements == nil {
		return nil, fmt.Errorf("braindump service dependencies cannot be nil")
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxPostpone <= 0 {
		cfg.MaxPostpone = 365 * 24 * time.Hour
	}

	return &serviceImpl{
		cfg:        cfg,
		tx:         tx,
		cards:      cards,
		categories: categories,
		placements: placements,
		rng:        rng,
		logger:     logger.With("component", "braindump_service"),
	}, nil
}

// SelectCard draws the next card to review from a category.
func (s *serviceImpl) SelectCard(
	ctx context.Context,
	userID, categoryID uuid.UUID,
	minArea, maxArea int,
) (*Selection, error) {
	if err := leitner.ValidateRange(minArea, maxArea); err != nil {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, minArea, maxArea)
	}

	if _, err := s.categories.GetVisible(ctx, categoryID, userID); err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to check category visibility: %w", err)
	}

	now := time.Now().UTC()

	// Clamp the requested range to the areas that actually hold eligible
	// cards. Weighting over empty edge areas would skew every draw toward
	// a retry.
	lo, hi, err := s.placements.EligibleAreaBounds(ctx, categoryID, userID, minArea, maxArea, now)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrNoEligibleCards
		}
		return nil, fmt.Errorf("failed to determine eligible areas: %w", err)
	}

	for attempt := 0; attempt < leitner.SelectRetries; attempt++ {
		area, err := s.pickArea(lo, hi)
		if err != nil {
			return nil, fmt.Errorf("failed to pick area: %w", err)
		}

		placement, err := s.placements.RandomEligibleByArea(ctx, categoryID, userID, area, now)
		if err != nil {
			if store.IsNotFoundError(err) {
				// The drawn area happens to hold nothing eligible between
				// the bounds query and now; draw again.
				continue
			}
			return nil, fmt.Errorf("failed to pick placement: %w", err)
		}

		card, err := s.cards.GetByID(ctx, placement.CardID)
		if err != nil {
			return nil, fmt.Errorf("failed to load selected card: %w", err)
		}

		if err := s.categories.Touch(ctx, categoryID, now); err != nil {
			s.logger.Warn("failed to touch category after selection",
				"error", err, "category_id", categoryID)
		}

		s.logger.Debug("card selected",
			"card_id", card.ID,
			"category_id", categoryID,
			"area", area,
			"attempt", attempt+1)
		return &Selection{Card: card, Placement: placement}, nil
	}

	return nil, ErrNoEligibleCards
}

func (s *serviceImpl) pickArea(lo, hi int) (int, error) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return leitner.PickArea(s.rng, lo, hi)
}

// RecordAnswer applies a review outcome to a placement.
func (s *serviceImpl) RecordAnswer(
	ctx context.Context,
	userID, placementID uuid.UUID,
	correct bool,
) (*domain.CardPlacement, error) {
	var placement *domain.CardPlacement

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txPlacements := s.placements.WithTx(tx)
		txCards := s.cards.WithTx(tx)
		txCategories := s.categories.WithTx(tx)

		var err error
		placement, err = txPlacements.GetForUser(ctx, placementID, userID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrPlacementNotFound
			}
			return fmt.Errorf("failed to load placement: %w", err)
		}

		card, err := txCards.GetByID(ctx, placement.CardID)
		if err != nil {
			return fmt.Errorf("failed to load card: %w", err)
		}

		category, err := txCategories.GetByID(ctx, card.CategoryID)
		if err != nil {
			return fmt.Errorf("failed to load category: %w", err)
		}

		now := time.Now().UTC()
		placement.ApplyAnswer(category.Mode, correct)
		placement.Touch(now)

		if err := txPlacements.Update(ctx, placement); err != nil {
			return fmt.Errorf("failed to save placement: %w", err)
		}
		if err := txCategories.Touch(ctx, category.ID, now); err != nil {
			return fmt.Errorf("failed to touch category: %w", err)
		}

		s.logger.Info("answer recorded",
			"placement_id", placementID,
			"correct", correct,
			"mode", string(category.Mode),
			"area", placement.Area)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return placement, nil
}

// PostponeCard hides a placement from selection for the given duration.
// A duration over the ceiling is rejected, but the interaction still counts:
// the placement and category are touched either way.
func (s *serviceImpl) PostponeCard(
	ctx context.Context,
	userID, placementID uuid.UUID,
	d time.Duration,
) (*domain.CardPlacement, error) {
	tooLong := d > s.cfg.MaxPostpone

	placement, err := s.mutatePlacement(ctx, userID, placementID,
		func(p *domain.CardPlacement) error {
			if tooLong {
				return nil
			}
			p.Postpone(d)
			return nil
		})
	if err != nil {
		return nil, err
	}

	if tooLong {
		s.logger.Info("postpone rejected: duration over ceiling",
			"placement_id", placementID,
			"requested", d.String(),
			"max", s.cfg.MaxPostpone.String())
		return placement, fmt.Errorf("%w: %s > %s", ErrPostponeTooLong, d, s.cfg.MaxPostpone)
	}

	s.logger.Info("card postponed", "placement_id", placementID, "duration", d.String())
	return placement, nil
}

// ExpediteCard clears a placement's postpone marker.
func (s *serviceImpl) ExpediteCard(
	ctx context.Context,
	userID, placementID uuid.UUID,
) (*domain.CardPlacement, error) {
	placement, err := s.mutatePlacement(ctx, userID, placementID,
		func(p *domain.CardPlacement) error {
			p.Expedite()
			return nil
		})
	if err != nil {
		return nil, err
	}

	s.logger.Info("card expedited", "placement_id", placementID)
	return placement, nil
}

// ResetCard sends a placement back to area 1.
func (s *serviceImpl) ResetCard(
	ctx context.Context,
	userID, placementID uuid.UUID,
) (*domain.CardPlacement, error) {
	placement, err := s.mutatePlacement(ctx, userID, placementID,
		func(p *domain.CardPlacement) error {
			p.Reset()
			return nil
		})
	if err != nil {
		return nil, err
	}

	s.logger.Info("card reset", "placement_id", placementID)
	return placement, nil
}

// SetCardArea moves a placement to an arbitrary area.
func (s *serviceImpl) SetCardArea(
	ctx context.Context,
	userID, placementID uuid.UUID,
	area int,
) (*domain.CardPlacement, error) {
	placement, err := s.mutatePlacement(ctx, userID, placementID,
		func(p *domain.CardPlacement) error {
			return p.SetArea(area)
		})
	if err != nil {
		return nil, err
	}

	s.logger.Info("card area set", "placement_id", placementID, "area", area)
	return placement, nil
}

// mutatePlacement loads the user's placement, applies fn to it, touches the
// placement and its category, and saves everything in one transaction.
func (s *serviceImpl) mutatePlacement(
	ctx context.Context,
	userID, placementID uuid.UUID,
	fn func(*domain.CardPlacement) error,
) (*domain.CardPlacement, error) {
	var placement *domain.CardPlacement

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txPlacements := s.placements.WithTx(tx)
		txCards := s.cards.WithTx(tx)
		txCategories := s.categories.WithTx(tx)

		var err error
		placement, err = txPlacements.GetForUser(ctx, placementID, userID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrPlacementNotFound
			}
			return fmt.Errorf("failed to load placement: %w", err)
		}

		if err := fn(placement); err != nil {
			return err
		}

		card, err := txCards.GetByID(ctx, placement.CardID)
		if err != nil {
			return fmt.Errorf("failed to load card: %w", err)
		}

		now := time.Now().UTC()
		placement.Touch(now)

		if err := txPlacements.Update(ctx, placement); err != nil {
			return fmt.Errorf("failed to save placement: %w", err)
		}
		if err := txCategories.Touch(ctx, card.CategoryID, now); err != nil {
			return fmt.Errorf("failed to touch category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return placement, nil
}
