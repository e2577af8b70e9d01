// Package split contains the pure allocation algorithms for a session's
// total amount. Amounts are integer minor units of the currency; every
// algorithm guarantees the returned amounts sum exactly to the total.
package split

import (
	"math"
	"math/rand"

	domainerrors "github.com/charry07/lavaca-app/internal/domain/errors"
)

var randIntN = rand.Intn

// Equal divides total into n even shares. The integer remainder, if
// any, lands in full on one uniformly chosen share so the rounding
// loser is not always the same seat. n <= 0 yields an empty result;
// callers must reject empty sessions before splitting.
func Equal(total int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []int64{total}
	}

	base := total / int64(n)
	remainder := total - base*int64(n)

	amounts := make([]int64, n)
	for i := range amounts {
		amounts[i] = base
	}
	if remainder > 0 {
		amounts[randIntN(n)] += remainder
	}
	return amounts
}

// Percentage divides total by per-participant percentages, which must
// sum to 100 within 0.01. All but the last share are rounded
// independently; the last share absorbs the difference so the sum
// reconciles exactly to the total.
func Percentage(total int64, percentages []float64) ([]int64, error) {
	var sum float64
	for _, p := range percentages {
		sum += p
	}
	if math.Abs(sum-100) > 0.01 {
		return nil, domainerrors.BadRequest("percentages must sum to 100")
	}

	amounts := make([]int64, len(percentages))
	var assigned int64
	for i, p := range percentages {
		if i == len(percentages)-1 {
			amounts[i] = total - assigned
			break
		}
		amounts[i] = int64(math.Round(float64(total) * p / 100))
		assigned += amounts[i]
	}
	return amounts, nil
}

// Roulette picks the single payer among n participants, uniformly.
// Returns the winning index.
func Roulette(n int) (int, error) {
	if n <= 0 {
		return 0, domainerrors.BadRequest("at least 1 participant is required")
	}
	return randIntN(n), nil
}
