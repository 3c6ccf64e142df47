package combat

import (
	"github.com/cory-johannsen/darklord/internal/game/opponent"
	"go.uber.org/zap"
)

// EnemyActionKind names what one opponent did on its turn.
type EnemyActionKind string

const (
	EnemyStunned EnemyActionKind = "stunned"
	EnemyFled    EnemyActionKind = "fled"
	EnemyCowered EnemyActionKind = "cowered"
	EnemyDefend  EnemyActionKind = "defend"
	EnemyAttack  EnemyActionKind = "attack"
	EnemyForce   EnemyActionKind = "force"
)

// EnemyAction records one opponent's resolved action.
type EnemyAction struct {
	OpponentID      string
	Kind            EnemyActionKind
	Damage          int
	EquipmentDamage int
}

// EnemyTurnReport lists every opponent action in resolution order.
type EnemyTurnReport struct {
	Actions []EnemyAction
	// Defeated is set when the actor fell during this turn.
	Defeated bool
}

// EnemyTurn lets every live opponent act once. Resolution stops as soon as
// the actor is defeated, which ends the encounter.
func (s *Session) EnemyTurn() (EnemyTurnReport, error) {
	if !s.Active() {
		return EnemyTurnReport{}, ErrInactive
	}
	var report EnemyTurnReport
	for _, o := range s.alive() {
		act := s.enemyAct(o)
		report.Actions = append(report.Actions, act)
		s.syncHelpless(o)
		if !s.actor.IsAlive() {
			s.logf("=== DEFEATED ===")
			report.Defeated = true
			s.end(Defeat)
			break
		}
	}
	return report, nil
}

func (s *Session) enemyAct(o *opponent.Opponent) EnemyAction {
	if o.Stunned {
		o.Stunned = false
		s.logf("%s is stunned and cannot act.", o.Name)
		return EnemyAction{OpponentID: o.ID, Kind: EnemyStunned}
	}
	if o.Morale < s.rules.FleeMorale && !o.ForceSensitive && s.roller.Chance("flee", s.rules.FleeChance) {
		o.Flee()
		s.logf("%s flees in terror!", o.Name)
		s.logger.Debug("opponent fled", zap.String("opponent", o.ID))
		return EnemyAction{OpponentID: o.ID, Kind: EnemyFled}
	}
	if o.Feared && s.roller.Chance("cower", s.rules.CowerChance) {
		s.logf("%s cowers in fear.", o.Name)
		return EnemyAction{OpponentID: o.ID, Kind: EnemyCowered}
	}

	switch o.Behavior {
	case opponent.Defensive:
		if o.HPPercent() < s.rules.DefensiveDefendPercent {
			return s.enemyDefend(o)
		}
	case opponent.Tactical:
		if o.HPPercent() < s.rules.TacticalDefendPercent {
			return s.enemyDefend(o)
		}
		if o.ForceSensitive && o.ForcePoints >= s.rules.EnemyForceCost {
			return s.enemyForce(o)
		}
	}
	return s.enemyAttack(o)
}

func (s *Session) enemyDefend(o *opponent.Opponent) EnemyAction {
	o.Defending = true
	s.logf("%s takes a defensive stance.", o.Name)
	return EnemyAction{OpponentID: o.ID, Kind: EnemyDefend}
}

func (s *Session) enemyAttack(o *opponent.Opponent) EnemyAction {
	dmg := o.AttackDamage
	if s.defending {
		dmg /= 2
	}
	act := EnemyAction{OpponentID: o.ID, Kind: EnemyAttack, Damage: dmg}
	s.damageTaken += dmg
	alive := s.actor.TakeDamage(dmg)
	s.logf("%s attacks! (-%d HP) [%d/%d]", o.Name, dmg, s.actor.Health, s.actor.MaxHealth)
	if alive && s.roller.Chance("enemy equipment damage", s.rules.EnemyEquipmentChance) {
		act.EquipmentDamage = s.roller.Roll(s.equipmentRoll, "enemy equipment damage").Total()
		s.equipment.Damage(act.EquipmentDamage)
		s.logf("   [WARNING] Suit damaged: -%d%% integrity", act.EquipmentDamage)
	}
	return act
}

func (s *Session) enemyForce(o *opponent.Opponent) EnemyAction {
	o.ForcePoints -= s.rules.EnemyForceCost
	dmg := s.roller.Roll(s.forceRoll, "enemy force attack").Total()
	s.damageTaken += dmg
	s.actor.TakeDamage(dmg)
	s.logf("%s uses the Force! (-%d HP) [%d/%d]", o.Name, dmg, s.actor.Health, s.actor.MaxHealth)
	return EnemyAction{OpponentID: o.ID, Kind: EnemyForce, Damage: dmg}
}
