// Package dice provides the randomness abstraction used by every roll in an
// encounter: resistance checks, AI flee and cower chances, unstable ability
// checks and equipment damage ranges.
package dice

import "fmt"

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "1d4+1"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"1d4+1 → [3] +1 = 4"
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Source is the randomness provider for dice rolls.
//
// Implementations used by a single encounter need not be safe for concurrent
// use; an encounter is driven from one goroutine.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Percent rolls a percentile die and returns a value in [1, 100].
func Percent(src Source) int {
	return src.Intn(100) + 1
}

// Chance reports whether a percentile roll lands at or under pct.
// pct <= 0 never succeeds and pct >= 100 always succeeds, but the die is
// still rolled so that roll sequences stay aligned for deterministic sources.
func Chance(src Source, pct int) bool {
	return Percent(src) <= pct
}
