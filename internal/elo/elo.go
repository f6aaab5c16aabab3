// ELO rating calculation.

package elo

import (
	"errors"
	"math"
)

const (
	// K is the rating volatility constant used for every delta.
	K = 32
	// maxDiff bounds the rating difference fed into the expected-
	// score formula.
	maxDiff = 400
)

// ErrInvalidScore is returned when actual is not one of 0, 0.5 or 1.
var ErrInvalidScore = errors.New("elo: actual score must be 0, 0.5 or 1")

// Expected returns the probability player is expected to score
// against opponent, per the standard logistic ELO formula.
func Expected(player, opponent int) float64 {
	diff := float64(opponent - player)
	if diff > maxDiff {
		diff = maxDiff
	} else if diff < -maxDiff {
		diff = -maxDiff
	}
	return 1 / (1 + math.Pow(10, diff/400))
}

// Change computes the integer rating delta for player, given
// opponent's current rating and player's actual score (0, 0.5 or 1).
func Change(player, opponent int, actual float64) (int, error) {
	if actual != 0 && actual != 0.5 && actual != 1 {
		return 0, ErrInvalidScore
	}
	expected := Expected(player, opponent)
	return int(math.Round(K * (actual - expected))), nil
}
