package boss

import (
	"github.com/cory-johannsen/darklord/internal/game/combat"
	"github.com/cory-johannsen/darklord/internal/game/opponent"
	"go.uber.org/zap"
)

// ChooseAction picks a special action among those off cooldown whose phase
// and HP gates allow them. An adaptive boss facing an actor who has used the
// Force more than the blade prefers force-draining actions. Returns nil when
// nothing is eligible.
func (e *Encounter) ChooseAction() *opponent.SpecialAction {
	if e.boss == nil {
		return nil
	}
	hp := e.boss.HPPercent()
	var eligible []*opponent.SpecialAction
	for _, a := range e.boss.Actions {
		if a.CurrentCooldown > 0 {
			continue
		}
		if a.RequiresPhase != opponent.PhaseNone && a.RequiresPhase != e.boss.Phase {
			continue
		}
		if a.RequiresHPBelow > 0 && hp >= a.RequiresHPBelow {
			continue
		}
		eligible = append(eligible, a)
	}
	if len(eligible) == 0 {
		return nil
	}
	if e.boss.Adaptive && e.boss.ForceUses > e.boss.PhysicalUses {
		var drains []*opponent.SpecialAction
		for _, a := range eligible {
			if a.ForceDrain > 0 {
				drains = append(drains, a)
			}
		}
		if len(drains) > 0 {
			return drains[e.roller.Pick("boss drain action", len(drains))]
		}
	}
	return eligible[e.roller.Pick("boss action", len(eligible))]
}

// BossAction reports what the boss did on its turn.
type BossAction struct {
	// ActionID is empty for a basic attack or a skipped turn.
	ActionID        string
	Name            string
	Skipped         bool
	Damage          int
	Stunned         bool
	ForceDrained    int
	EquipmentDamage int
	// Defeated is set when the actor fell to this action.
	Defeated bool
}

// BossTurn resolves the boss's action: a special action when one is
// eligible, otherwise a basic attack. A stunned boss loses its turn.
// Callers running a scripted-loss duel check CheckScriptedLoss first.
func (e *Encounter) BossTurn() (BossAction, error) {
	if !e.Active() {
		return BossAction{}, combat.ErrInactive
	}
	b := e.boss
	if !b.IsAlive() {
		return BossAction{Skipped: true}, nil
	}
	if b.Stunned {
		b.Stunned = false
		e.logf("%s is stunned and cannot act.", b.Name)
		return BossAction{Skipped: true}, nil
	}

	var act BossAction
	if a := e.ChooseAction(); a != nil {
		act = e.special(a)
	} else {
		act = BossAction{Name: "attack", Damage: e.incoming(b.AttackDamage)}
		e.actor.TakeDamage(act.Damage)
		e.logf("%s attacks! (-%d HP) [%d/%d]", b.Name, act.Damage, e.actor.Health, e.actor.MaxHealth)
	}

	if !e.actor.IsAlive() {
		act.Defeated = true
		e.logf("=== DEFEATED ===")
		e.end(combat.Defeat)
	}
	return act, nil
}

func (e *Encounter) special(a *opponent.SpecialAction) BossAction {
	act := BossAction{ActionID: a.ID, Name: a.Name}
	if a.Animation != "" {
		e.logf("%s", a.Animation)
	}
	e.logf("%s uses %s!", e.boss.Name, a.Name)

	if a.Damage > 0 {
		act.Damage = e.incoming(a.Damage)
		e.actor.TakeDamage(act.Damage)
		e.logf("   Dealt %d damage. [%d/%d]", act.Damage, e.actor.Health, e.actor.MaxHealth)
	}
	if a.StunChance > 0 && e.roller.Chance("boss stun", a.StunChance) {
		act.Stunned = true
		e.logf("   You are stunned!")
	}
	if a.ForceDrain > 0 {
		act.ForceDrained = e.actor.DrainForcePoints(a.ForceDrain)
		e.logf("   Drained %d Force Points", act.ForceDrained)
	}
	if a.EquipmentDamage > 0 {
		act.EquipmentDamage = a.EquipmentDamage
		e.equipment.Damage(a.EquipmentDamage)
		e.logf("   Suit damaged: -%d%%", a.EquipmentDamage)
	}
	a.CurrentCooldown = a.Cooldown
	e.logger.Debug("boss special action",
		zap.String("boss", e.boss.TemplateID),
		zap.String("action", a.ID),
		zap.Int("damage", act.Damage),
	)
	return act
}

func (e *Encounter) incoming(dmg int) int {
	if e.defending {
		return dmg / 2
	}
	return dmg
}
