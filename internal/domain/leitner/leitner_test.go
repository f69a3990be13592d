package leitner

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRange(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		lo, hi  int
		wantErr bool
	}{
		{name: "full range", lo: 1, hi: 6},
		{name: "single area", lo: 3, hi: 3},
		{name: "partial range", lo: 2, hi: 5},
		{name: "lo below floor", lo: 0, hi: 6, wantErr: true},
		{name: "hi above ceiling", lo: 1, hi: 7, wantErr: true},
		{name: "inverted", lo: 4, hi: 2, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRange(tc.lo, tc.hi)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAreaRange)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAreaWeights(t *testing.T) {
	t.Parallel()

	weights, err := AreaWeights(1, 6)
	require.NoError(t, err)
	require.Len(t, weights, 6)

	// Weights sum to 1 and halve area by area.
	var sum float64
	for _, w := range weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	for i := 1; i < len(weights); i++ {
		assert.InDelta(t, weights[i-1]/2, weights[i], 1e-9)
	}
}

func TestAreaWeightsSingleArea(t *testing.T) {
	t.Parallel()

	weights, err := AreaWeights(4, 4)
	require.NoError(t, err)
	require.Len(t, weights, 1)
	assert.InDelta(t, 1.0, weights[0], 1e-9)
}

func TestAreaWeightsInvalidRange(t *testing.T) {
	t.Parallel()

	_, err := AreaWeights(5, 2)
	assert.ErrorIs(t, err, ErrInvalidAreaRange)
}

func TestPickAreaStaysInRange(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 1000; i++ {
		area, err := PickArea(rng, 2, 5)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, area, 2)
		assert.LessOrEqual(t, area, 5)
	}
}

func TestPickAreaDistribution(t *testing.T) {
	t.Parallel()

	const draws = 10000
	rng := rand.New(rand.NewPCG(42, 1337))

	counts := make(map[int]int)
	for i := 0; i < draws; i++ {
		area, err := PickArea(rng, 1, 6)
		require.NoError(t, err)
		counts[area]++
	}

	weights, err := AreaWeights(1, 6)
	require.NoError(t, err)

	// Empirical share per area within 20% relative tolerance of 1/2^k.
	for k, want := range weights {
		got := float64(counts[k+1]) / draws
		relErr := math.Abs(got-want) / want
		assert.LessOrEqualf(t, relErr, 0.2,
			"area %d: empirical share %.4f deviates more than 20%% from expected %.4f", k+1, got, want)
	}
}

func TestPickAreaFavorsLowerAreas(t *testing.T) {
	t.Parallel()

	const draws = 20000
	rng := rand.New(rand.NewPCG(7, 9))

	counts := make(map[int]int)
	for i := 0; i < draws; i++ {
		area, err := PickArea(rng, 2, 5)
		require.NoError(t, err)
		counts[area]++
	}

	// Areas three steps apart differ by a factor of eight.
	ratio := float64(counts[2]) / float64(counts[5])
	assert.InDelta(t, 8.0, ratio, 2.0)
}
