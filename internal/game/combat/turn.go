package combat

import (
	"github.com/cory-johannsen/darklord/internal/game/actor"
	"go.uber.org/zap"
)

// TurnReport summarises the bookkeeping done by EndTurn.
type TurnReport struct {
	Turn        int
	Regenerated int
	Outcome     Outcome
}

// EndTurn regenerates the actor, ticks cooldowns, clears defend flags,
// advances the turn counter and evaluates victory.
//
// Postcondition: Turn() has grown by one; the session has ended when
// Outcome is not OutcomeNone.
func (s *Session) EndTurn() (TurnReport, error) {
	if !s.Active() {
		return TurnReport{}, ErrInactive
	}
	regen := s.actor.RegenerateForcePoints(actor.RegenFrom(s.equipment))
	s.abilities.UpdateCooldowns()
	s.defending = false
	for _, o := range s.opponents {
		o.Defending = false
	}
	s.turn++

	report := TurnReport{Turn: s.turn, Regenerated: regen}
	if outcome := s.evaluateVictory(); outcome != OutcomeNone {
		switch outcome {
		case TotalVictory:
			s.logf("=== VICTORY ===")
		case IntimidationVictory:
			s.logf("=== VICTORY BY INTIMIDATION ===")
		}
		s.end(outcome)
		report.Outcome = outcome
	}
	s.logger.Debug("turn ended",
		zap.Int("turn", s.turn),
		zap.Int("regen", regen),
		zap.Stringer("outcome", report.Outcome),
	)
	return report, nil
}

// evaluateVictory returns TotalVictory when no opponent remains in the
// fight, IntimidationVictory when every remaining one is feared with zero
// morale, and OutcomeNone otherwise.
func (s *Session) evaluateVictory() Outcome {
	alive := s.alive()
	if len(alive) == 0 {
		return TotalVictory
	}
	for _, o := range alive {
		if !o.Feared || o.Morale > 0 {
			return OutcomeNone
		}
	}
	return IntimidationVictory
}
