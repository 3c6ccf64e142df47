// Package combat implements the turn-based encounter engine: one Session per
// encounter, driven by an external caller that alternates player actions with
// EnemyTurn and EndTurn until the session ends.
package combat

import (
	"errors"
	"fmt"
)

// Outcome is the terminal result of an encounter. The zero value means the
// encounter has not ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	TotalVictory
	IntimidationVictory
	Retreat
	Defeat
)

// String returns the outcome label used by the story layer.
func (o Outcome) String() string {
	switch o {
	case TotalVictory:
		return "total_victory"
	case IntimidationVictory:
		return "intimidation_victory"
	case Retreat:
		return "retreat"
	case Defeat:
		return "defeat"
	default:
		return "none"
	}
}

var (
	// ErrInactive is returned for actions attempted outside the Active state.
	ErrInactive = errors.New("encounter is not active")
	// ErrRetreatBlocked is returned when the retreat roll fails. The encounter
	// continues; the caller decides on any free enemy attack.
	ErrRetreatBlocked = errors.New("retreat blocked")
	// ErrUnknownMethod is returned for an unrecognised execution method.
	ErrUnknownMethod = errors.New("unknown execution method")
	// ErrNoOpponents is returned when an encounter is started empty.
	ErrNoOpponents = errors.New("encounter needs at least one opponent")
)

// InvalidTargetError reports a missing or already removed target.
type InvalidTargetError struct {
	ID string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid target %q", e.ID)
}

// IllegalExecutionError reports an execute attempt on a target that is not helpless.
type IllegalExecutionError struct {
	ID string
}

func (e *IllegalExecutionError) Error() string {
	return fmt.Sprintf("target %q cannot be executed", e.ID)
}
