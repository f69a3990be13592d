package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCardPlacement(t *testing.T) {
	t.Parallel()

	cardID := uuid.New()
	userID := uuid.New()

	placement, err := NewCardPlacement(cardID, userID)
	require.NoError(t, err)

	assert.Equal(t, cardID, placement.CardID)
	assert.Equal(t, userID, placement.UserID)
	assert.Equal(t, AreaFloor, placement.Area)
	assert.False(t, placement.Postponed(time.Now().UTC()))
}

func TestNewCardPlacementValidation(t *testing.T) {
	t.Parallel()

	_, err := NewCardPlacement(uuid.Nil, uuid.New())
	assert.ErrorIs(t, err, ErrPlacementCardEmpty)

	_, err = NewCardPlacement(uuid.New(), uuid.Nil)
	assert.ErrorIs(t, err, ErrPlacementUserEmpty)
}

func TestMoveForwardStopsAtCeiling(t *testing.T) {
	t.Parallel()

	placement, err := NewCardPlacement(uuid.New(), uuid.New())
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		placement.MoveForward()
		assert.LessOrEqual(t, placement.Area, AreaCeiling)
	}
	assert.Equal(t, AreaCeiling, placement.Area)

	// Another push at the ceiling is a no-op, not an error.
	placement.MoveForward()
	assert.Equal(t, AreaCeiling, placement.Area)
}

func TestMoveBackwardStopsAtFloor(t *testing.T) {
	t.Parallel()

	placement, err := NewCardPlacement(uuid.New(), uuid.New())
	require.NoError(t, err)

	placement.MoveBackward()
	assert.Equal(t, AreaFloor, placement.Area)

	require.NoError(t, placement.SetArea(3))
	placement.MoveBackward()
	assert.Equal(t, 2, placement.Area)
}

func TestReset(t *testing.T) {
	t.Parallel()

	placement, err := NewCardPlacement(uuid.New(), uuid.New())
	require.NoError(t, err)

	require.NoError(t, placement.SetArea(5))
	placement.Reset()
	assert.Equal(t, AreaFloor, placement.Area)

	// Reset is idempotent.
	placement.Reset()
	assert.Equal(t, AreaFloor, placement.Area)
}

func TestSetAreaRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	placement, err := NewCardPlacement(uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, placement.SetArea(4))

	testCases := []struct {
		name string
		area int
	}{
		{name: "below floor", area: 0},
		{name: "negative", area: -3},
		{name: "above ceiling", area: 7},
		{name: "way above ceiling", area: 1337},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := placement.SetArea(tc.area)
			assert.ErrorIs(t, err, ErrInvalidArea)
			assert.Equal(t, 4, placement.Area, "area must be unchanged after a rejected SetArea")
		})
	}
}

func TestApplyAnswer(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		mode     ReviewMode
		start    int
		correct  bool
		expected int
	}{
		{name: "correct moves forward in strict mode", mode: ReviewModeStrict, start: 3, correct: true, expected: 4},
		{name: "correct moves forward in defensive mode", mode: ReviewModeDefensive, start: 3, correct: true, expected: 4},
		{name: "correct at ceiling stays at ceiling", mode: ReviewModeStrict, start: 6, correct: true, expected: 6},
		{name: "incorrect resets in strict mode", mode: ReviewModeStrict, start: 5, correct: false, expected: 1},
		{name: "incorrect moves back in defensive mode", mode: ReviewModeDefensive, start: 5, correct: false, expected: 4},
		{name: "incorrect at floor stays at floor in defensive mode", mode: ReviewModeDefensive, start: 1, correct: false, expected: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			placement, err := NewCardPlacement(uuid.New(), uuid.New())
			require.NoError(t, err)
			require.NoError(t, placement.SetArea(tc.start))

			placement.ApplyAnswer(tc.mode, tc.correct)
			assert.Equal(t, tc.expected, placement.Area)
		})
	}
}

func TestCorrectAnswerSequence(t *testing.T) {
	t.Parallel()

	placement, err := NewCardPlacement(uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, placement.SetArea(3))

	// A wrong answer on a strict category sends the card to area 1.
	placement.ApplyAnswer(ReviewModeStrict, false)
	assert.Equal(t, 1, placement.Area)

	// Three correct answers climb 1 -> 2 -> 3 -> 4.
	for _, want := range []int{2, 3, 4} {
		placement.ApplyAnswer(ReviewModeStrict, true)
		assert.Equal(t, want, placement.Area)
	}
}

func TestPostponeAndExpedite(t *testing.T) {
	t.Parallel()

	placement, err := NewCardPlacement(uuid.New(), uuid.New())
	require.NoError(t, err)

	placement.Postpone(15 * time.Minute)
	now := time.Now().UTC()
	assert.True(t, placement.Postponed(now))
	assert.WithinDuration(t, now.Add(15*time.Minute), placement.PostponeUntil, 2*time.Second)

	placement.Expedite()
	assert.False(t, placement.Postponed(time.Now().UTC().Add(time.Second)))
}

func TestTouch(t *testing.T) {
	t.Parallel()

	placement, err := NewCardPlacement(uuid.New(), uuid.New())
	require.NoError(t, err)

	at := time.Now().UTC().Add(time.Hour)
	placement.Touch(at)
	assert.Equal(t, at, placement.LastInteractionAt)
}
