// Package leitner implements the area-selection policy for practice
// sessions. Cards sit in areas 1..6; a session draws an area with
// probability proportional to 1/2^k (k counted from the low end of the
// eligible range), so less-mastered cards come up more often.
package leitner

import (
	"errors"
	"math/rand/v2"

	"github.com/memodrop/braindump/internal/domain"
)

// ErrInvalidAreaRange is returned when a range does not satisfy
// 1 <= lo <= hi <= 6.
var ErrInvalidAreaRange = errors.New("invalid area range")

// SelectRetries is how many draws a selector should attempt before
// concluding that the chosen areas are transiently empty. Area selection and
// per-area existence can disagree under concurrent modification, so a miss
// is retried rather than treated as an error.
const SelectRetries = 10

// ValidateRange checks that [lo, hi] is a well-formed area window.
func ValidateRange(lo, hi int) error {
	if lo < domain.AreaFloor || hi > domain.AreaCeiling || lo > hi {
		return ErrInvalidAreaRange
	}
	return nil
}

// AreaWeights returns the normalized selection probabilities for the
// inclusive area range [lo, hi]. The weight of area lo+k is proportional to
// 1/2^k: the lowest area is twice as likely as the next, four times as
// likely as the one after, and so on.
func AreaWeights(lo, hi int) ([]float64, error) {
	if err := ValidateRange(lo, hi); err != nil {
		return nil, err
	}

	weights := make([]float64, hi-lo+1)
	var sum float64
	w := 1.0
	for i := range weights {
		weights[i] = w
		sum += w
		w /= 2
	}

	for i := range weights {
		weights[i] /= sum
	}

	return weights, nil
}

// PickArea draws one area from [lo, hi] according to AreaWeights.
func PickArea(rng *rand.Rand, lo, hi int) (int, error) {
	weights, err := AreaWeights(lo, hi)
	if err != nil {
		return 0, err
	}

	draw := rng.Float64()
	var cumulative float64
	for i, w := range weights {
		cumulative += w
		if draw < cumulative {
			return lo + i, nil
		}
	}

	// Floating point rounding can leave cumulative slightly below 1.
	return hi, nil
}
