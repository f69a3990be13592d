package braindump_test

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memodrop/braindump/internal/domain"
	"github.com/memodrop/braindump/internal/mocks"
	"github.com/memodrop/braindump/internal/service/braindump"
)

// fixture wires a service against the in-memory stores with one category.
type fixture struct {
	svc        braindump.Service
	userID     uuid.UUID
	categoryID uuid.UUID
	cards      *mocks.MockCardStore
	placements *mocks.MockPlacementStore
	categories *mocks.MockCategoryStore
}

func newFixture(t *testing.T, mode domain.ReviewMode, cfg braindump.Config) *fixture {
	t.Helper()

	userID := uuid.New()
	cards := mocks.NewMockCardStore()
	categories := mocks.NewMockCategoryStore()
	placements := mocks.NewMockPlacementStore()
	placements.Cards = cards

	category, err := domain.NewCategory(userID, "Capitals", "", mode)
	require.NoError(t, err)
	require.NoError(t, categories.Create(context.Background(), category))

	rng := rand.New(rand.NewPCG(42, 0))
	svc, err := braindump.NewService(
		cfg, mocks.NewMockTxRunner(), cards, categories, placements, rng, nil)
	require.NoError(t, err)

	return &fixture{
		svc:        svc,
		userID:     userID,
		categoryID: category.ID,
		cards:      cards,
		placements: placements,
		categories: categories,
	}
}

// addPlacement creates a card in the fixture category with a placement for
// the fixture user in the given area.
func (f *fixture) addPlacement(t *testing.T, area int) *domain.CardPlacement {
	t.Helper()

	card, err := domain.NewCard(f.categoryID, "question", "answer", "")
	require.NoError(t, err)
	require.NoError(t, f.cards.Create(context.Background(), card))

	placement, err := domain.NewCardPlacement(card.ID, f.userID)
	require.NoError(t, err)
	require.NoError(t, placement.SetArea(area))
	// Make sure the placement is already eligible.
	placement.PostponeUntil = time.Now().UTC().Add(-time.Minute)
	require.NoError(t, f.placements.Create(context.Background(), placement))
	return placement
}

func TestSelectCardInvalidRange(t *testing.T) {
	t.Parallel()
	f := newFixture(t, domain.ReviewModeStrict, braindump.Config{})

	_, err := f.svc.SelectCard(context.Background(), f.userID, f.categoryID, 4, 2)
	assert.ErrorIs(t, err, braindump.ErrInvalidRange)

	_, err = f.svc.SelectCard(context.Background(), f.userID, f.categoryID, 0, 6)
	assert.ErrorIs(t, err, braindump.ErrInvalidRange)

	_, err = f.svc.SelectCard(context.Background(), f.userID, f.categoryID, 1, 7)
	assert.ErrorIs(t, err, braindump.ErrInvalidRange)
}

func TestSelectCardCategoryNotVisible(t *testing.T) {
	t.Parallel()
	f := newFixture(t, domain.ReviewModeStrict, braindump.Config{})

	_, err := f.svc.SelectCard(context.Background(), uuid.New(), f.categoryID, 1, 6)
	assert.ErrorIs(t, err, braindump.ErrCategoryNotFound)

	_, err = f.svc.SelectCard(context.Background(), f.userID, uuid.New(), 1, 6)
	assert.ErrorIs(t, err, braindump.ErrCategoryNotFound)
}

func TestSelectCardEmptyCategory(t *testing.T) {
	t.Parallel()
	f := newFixture(t, domain.ReviewModeStrict, braindump.Config{})

	_, err := f.svc.SelectCard(context.Background(), f.userID, f.categoryID, 1, 6)
	assert.ErrorIs(t, err, braindump.ErrNoEligibleCards)
}

func TestSelectCardAllPostponed(t *testing.T) {
	t.Parallel()
	f := newFixture(t, domain.ReviewModeStrict, braindump.Config{})

	placement := f.addPlacement(t, 2)
	placement.Postpone(time.Hour)

	_, err := f.svc.SelectCard(context.Background(), f.userID, f.categoryID, 1, 6)
	assert.ErrorIs(t, err, braindump.ErrNoEligibleCards)
}

func TestSelectCardRangeExcludesOnlyCard(t *testing.T) {
	t.Parallel()
	f := newFixture(t, domain.ReviewModeStrict, braindump.Config{})

	f.addPlacement(t, 5)

	_, err := f.svc.SelectCard(context.Background(), f.userID, f.categoryID, 1, 3)
	assert.ErrorIs(t, err, braindump.ErrNoEligibleCards)
}

func TestSelectCardSingleCard(t *testing.T) {
	t.Parallel()
	f := newFixture(t, domain.ReviewModeStrict, braindump.Config{})

	placement := f.addPlacement(t, 3)

	selection, err := f.svc.SelectCard(context.Background(), f.userID, f.categoryID, 1, 6)
	require.NoError(t, err)
	assert.Equal(t, placement.ID, selection.Placement.ID)
	assert.Equal(t, placement.CardID, selection.Card.ID)
}

// TestSelectCardDistribution seeds areas 2, 2 and 5, then draws many times.
// The weighted selection clamps to the occupied range [2, 5], where area 2
// carries weight 1 and area 5 weight 1/8, so draws from area 2 should
// outnumber draws from area 5 roughly eight to one. Empty areas 1, 3, 4 and 6
// must never be drawn.
func TestSelectCardDistribution(t *testing.T) {
	t.Parallel()
	f := newFixture(t, domain.ReviewModeStrict, braindump.Config{})

	f.addPlacement(t, 2)
	f.addPlacement(t, 2)
	f.addPlacement(t, 5)

	const draws = 10000
	counts := make(map[int]int)
	for i := 0; i < draws; i++ {
		selection, err := f.svc.SelectCard(context.Background(), f.userID, f.categoryID, 1, 6)
		if err != nil {
			// Drawing an empty middle area ten times in a row is possible,
			// just rare. Skip and carry on.
			require.ErrorIs(t, err, braindump.ErrNoEligibleCards)
			continue
		}
		counts[selection.Placement.Area]++
	}

	assert.Zero(t, counts[1], "area 1 is empty and must never be drawn")
	assert.Zero(t, counts[3], "area 3 is empty and must never be drawn")
	assert.Zero(t, counts[4], "area 4 is empty and must never be drawn")
	assert.Zero(t, counts[6], "area 6 is outside the clamped range")

	require.Greater(t, counts[5], 0)
	ratio := float64(counts[2]) / float64(counts[5])
	assert.InDelta(t, 8.0, ratio, 8.0*0.2,
		"area 2 to area 5 draw ratio should be near 8:1, got %.2f (%d:%d)",
		ratio, counts[2], counts[5])
}

func TestSelectCardTouchesCategory(t *testing.T) {
	t.Parallel()
	f := newFixture(t, domain.ReviewModeStrict, braindump.Config{})

	f.addPlacement(t, 1)
	before := f.categories.Categories[f.categoryID].LastInteractionAt

	time.Sleep(time.Millisecond)
	_, err := f.svc.SelectCard(context.Background(), f.userID, f.categoryID, 1, 6)
	require.NoError(t, err)

	assert.True(t, f.categories.Categories[f.categoryID].LastInteractionAt.After(before))
}

func TestRecordAnswerStrictMode(t *testing.T) {
	t.Parallel()
	f := newFixture(t, domain.ReviewModeStrict, braindump.Config{})

	placement := f.addPlacement(t, 3)

	// An incorrect answer sends the card all the way back.
	updated, err := f.svc.RecordAnswer(context.Background(), f.userID, placement.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Area)

	// Three correct answers climb back to area 4.
	for i := 0; i < 3; i++ {
		updated, err = f.svc.RecordAnswer(context.Background(), f.userID, placement.ID, true)
		require.NoError(t, err)
	}
	assert.Equal(t, 4, updated.Area)
}

func TestRecordAnswerDefensiveMode(t *testing.T) {
	t.Parallel()
	f := newFixture(t, domain.ReviewModeDefensive, braindump.Config{})

	placement := f.addPlacement(t, 3)

	updated, err := f.svc.RecordAnswer(context.Background(), f.userID, placement.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Area)
}

func TestRecordAnswerCeiling(t *testing.T) {
	t.Parallel()
	f := newFixture(t, domain.ReviewModeStrict, braindump.Config{})

	placement := f.addPlacement(t, 6)

	updated, err := f.svc.RecordAnswer(context.Background(), f.userID, placement.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Area, "correct answer at the top area stays put")
}

func TestRecordAnswerWrongUser(t *testing.T) {
	t.Parallel()
	f := newFixture(t, domain.ReviewModeStrict, braindump.Config{})

	placement := f.addPlacement(t, 3)

	_, err := f.svc.RecordAnswer(context.Background(), uuid.New(), placement.ID, true)
	assert.ErrorIs(t, err, braindump.ErrPlacementNotFound)
}

func TestPostponeCard(t *testing.T) {
	t.Parallel()
	f := newFixture(t, domain.ReviewModeStrict, braindump.Config{MaxPostpone: 24 * time.Hour})

	placement := f.addPlacement(t, 2)

	updated, err := f.svc.PostponeCard(context.Background(), f.userID, placement.ID, time.Hour)
	require.NoError(t, err)
	assert.True(t, updated.Postponed(time.Now().UTC()))

	// Postponed cards drop out of selection.
	_, err = f.svc.SelectCard(context.Background(), f.userID, f.categoryID, 1, 6)
	assert.ErrorIs(t, err, braindump.ErrNoEligibleCards)
}

func TestPostponeCardTooLong(t *testing.T) {
	t.Parallel()
	f := newFixture(t, domain.ReviewModeStrict, braindump.Config{MaxPostpone: 24 * time.Hour})

	placement := f.addPlacement(t, 2)
	before := placement.LastInteractionAt

	time.Sleep(time.Millisecond)
	updated, err := f.svc.PostponeCard(context.Background(), f.userID, placement.ID, 48*time.Hour)
	assert.ErrorIs(t, err, braindump.ErrPostponeTooLong)

	// The postpone itself is rejected but the interaction still counts.
	require.NotNil(t, updated)
	assert.False(t, updated.Postponed(time.Now().UTC()))
	assert.True(t, updated.LastInteractionAt.After(before))
}

func TestExpediteCard(t *testing.T) {
	t.Parallel()
	f := newFixture(t, domain.ReviewModeStrict, braindump.Config{MaxPostpone: 24 * time.Hour})

	placement := f.addPlacement(t, 2)

	_, err := f.svc.PostponeCard(context.Background(), f.userID, placement.ID, time.Hour)
	require.NoError(t, err)

	updated, err := f.svc.ExpediteCard(context.Background(), f.userID, placement.ID)
	require.NoError(t, err)
	assert.False(t, updated.Postponed(time.Now().UTC().Add(time.Second)))

	// The card is selectable again.
	selection, err := f.svc.SelectCard(context.Background(), f.userID, f.categoryID, 1, 6)
	require.NoError(t, err)
	assert.Equal(t, placement.ID, selection.Placement.ID)
}

func TestResetCard(t *testing.T) {
	t.Parallel()
	f := newFixture(t, domain.ReviewModeStrict, braindump.Config{})

	placement := f.addPlacement(t, 5)

	updated, err := f.svc.ResetCard(context.Background(), f.userID, placement.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Area)
}

func TestSetCardArea(t *testing.T) {
	t.Parallel()
	f := newFixture(t, domain.ReviewModeStrict, braindump.Config{})

	placement := f.addPlacement(t, 1)

	updated, err := f.svc.SetCardArea(context.Background(), f.userID, placement.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Area)

	_, err = f.svc.SetCardArea(context.Background(), f.userID, placement.ID, 7)
	assert.ErrorIs(t, err, domain.ErrInvalidArea)
	assert.Equal(t, 4, f.placements.Placements[placement.ID].Area,
		"invalid area leaves the placement unchanged")
}
