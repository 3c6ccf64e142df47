package boss

import (
	"github.com/cory-johannsen/darklord/internal/game/combat"
	"github.com/cory-johannsen/darklord/internal/game/opponent"
	"go.uber.org/zap"
)

// Strike is the outcome of damage the actor dealt to the boss.
type Strike struct {
	Damage   int
	Resisted bool
	Killed   bool
	// NewPhase is set when the hit pushed the boss into a later phase.
	NewPhase opponent.Phase
	// Healed is the health the actor regained from a boss kill.
	Healed  int
	LevelUp bool
}

// Attack strikes the boss with the basic attack.
func (e *Encounter) Attack() (Strike, error) {
	if !e.Active() {
		return Strike{}, combat.ErrInactive
	}
	if !e.boss.IsAlive() {
		return Strike{}, &combat.InvalidTargetError{ID: e.boss.ID}
	}
	e.boss.PhysicalUses++
	dmg := combat.AttackDamage(e.rules, e.actor.Stats.Strength, e.equipment.AttackPenalty(), e.boss.LightsaberResistance)
	st := e.strike(dmg, false)
	e.logf("Attacks %s for %d damage. (%d/%d HP)", e.boss.Name, st.Damage, e.boss.CurrentHP, e.boss.MaxHP)
	return st, nil
}

// AbilityStrike is the outcome of UseAbility.
type AbilityStrike struct {
	Strike
	AbilityID       string
	Name            string
	Cost            int
	EquipmentDamage int
	Unstable        bool
	Stable          bool
	Exhausted       bool
}

// UseAbility activates id against the boss. Damaging abilities roll the
// boss's force resistance.
//
// Postcondition: on error no state is mutated.
func (e *Encounter) UseAbility(id string) (AbilityStrike, error) {
	if !e.Active() {
		return AbilityStrike{}, combat.ErrInactive
	}
	if err := e.abilities.CanUse(id, e.actor.ForcePoints); err != nil {
		return AbilityStrike{}, err
	}
	def, _ := e.abilities.Get(id)
	if def.Damaging() && !e.boss.IsAlive() {
		return AbilityStrike{}, &combat.InvalidTargetError{ID: e.boss.ID}
	}
	if err := e.actor.SpendForcePoints(def.Cost); err != nil {
		return AbilityStrike{}, err
	}
	eff, err := e.abilities.Use(id, e.actor.Psyche.Darkness, e.actor.Psyche.Rage, e.roller)
	if err != nil {
		e.actor.RestoreForcePoints(def.Cost)
		return AbilityStrike{}, err
	}

	res := AbilityStrike{
		AbilityID:       eff.AbilityID,
		Name:            eff.Name,
		Cost:            eff.Cost,
		EquipmentDamage: eff.EquipmentDamage,
		Unstable:        eff.Unstable,
		Stable:          eff.Stable,
	}
	e.logf("Uses %s", eff.Name)
	if eff.Unstable && !eff.Stable {
		e.logf("   [UNSTABLE] %s partially fails!", eff.Name)
	}
	if eff.EquipmentDamage > 0 {
		e.equipment.Damage(eff.EquipmentDamage)
		e.logf("   [WARNING] Suit damaged: -%d%% integrity", eff.EquipmentDamage)
	}
	if eff.Damage > 0 {
		e.boss.ForceUses++
		res.Strike = e.strike(eff.Damage, true)
		e.logf("   %s takes %d damage. (%d/%d HP)", e.boss.Name, res.Damage, e.boss.CurrentHP, e.boss.MaxHP)
	}
	if e.abilities.CheckLegendaryExhaustion(e.actor) {
		res.Exhausted = true
		e.logf("   Force exhaustion! Regeneration reduced for %d turns.", e.actor.ExhaustionTurns)
	}
	return res, nil
}

// strike applies damage to the boss, rolling force resistance when force is
// set, and handles phase changes and the kill reward.
func (e *Encounter) strike(damage int, force bool) Strike {
	var st Strike
	if force {
		damage, st.Resisted = combat.ResistanceCheck(e.roller, e.boss.ForceResistance, damage)
		if st.Resisted {
			e.logf("   %s resists! (Half damage)", e.boss.Name)
		}
	}
	before := e.boss.Phase
	st.Damage, st.Killed = e.boss.TakeDamage(damage)
	if e.boss.Phase != before {
		st.NewPhase = e.boss.Phase
		e.logf("%s enters %s!", e.boss.Name, e.boss.Phase)
		e.logger.Info("boss phase change",
			zap.String("boss", e.boss.TemplateID),
			zap.Stringer("from", before),
			zap.Stringer("to", e.boss.Phase),
		)
	}
	if st.Killed {
		st.Healed, st.LevelUp = e.onBossKill()
	}
	return st
}

// onBossKill restores health by the boss's max HP, then tops the actor up
// to full, and awards the boss's experience.
func (e *Encounter) onBossKill() (healed int, levelUp bool) {
	before := e.actor.Health
	if gained := e.actor.Heal(e.boss.MaxHP); gained > 0 {
		e.logf("   +%d HP restored from %s's death!", gained, e.boss.Name)
	}
	e.actor.HealToFull()
	levelUp = e.actor.AddExperience(e.boss.Experience)
	e.actor.AddCredits(e.boss.Credits)
	healed = e.actor.Health - before
	e.logf("   %s is defeated! Wounds fully heal. (%d/%d HP)", e.boss.Name, e.actor.Health, e.actor.MaxHealth)
	if levelUp {
		e.logf("   LEVEL UP! Now level %d", e.actor.Level)
	}
	e.logger.Info("boss killed",
		zap.String("boss", e.boss.TemplateID),
		zap.Int("healed", healed),
		zap.Int("xp", e.boss.Experience),
	)
	return healed, levelUp
}

// Defend halves incoming damage until the end of the turn.
func (e *Encounter) Defend() error {
	if !e.Active() {
		return combat.ErrInactive
	}
	e.defending = true
	e.logf("Assumes a defensive stance. (incoming damage halved this turn)")
	return nil
}

// Meditate restores a fixed amount of force points.
func (e *Encounter) Meditate() (combat.MeditateResult, error) {
	if !e.Active() {
		return combat.MeditateResult{}, combat.ErrInactive
	}
	restored := e.actor.RestoreForcePoints(e.rules.MeditateRestore)
	e.logf("Meditates. (+%d FP, vulnerable to attacks)", restored)
	return combat.MeditateResult{Restored: restored, Vulnerable: true}, nil
}
