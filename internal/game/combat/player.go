package combat

import (
	"github.com/cory-johannsen/darklord/internal/game/opponent"
	"go.uber.org/zap"
)

// AttackResult is the outcome of a basic lightsaber attack.
type AttackResult struct {
	TargetID   string
	TargetName string
	Damage     int
	Killed     bool
	Helpless   bool
	Reward     *KillReward
}

// Attack strikes targetID with the basic attack.
//
// Postcondition: on error no state is mutated.
func (s *Session) Attack(targetID string) (AttackResult, error) {
	if !s.Active() {
		return AttackResult{}, ErrInactive
	}
	target := s.find(targetID)
	if target == nil || !target.IsAlive() {
		return AttackResult{}, &InvalidTargetError{ID: targetID}
	}

	dmg := AttackDamage(s.rules, s.actor.Stats.Strength, s.equipment.AttackPenalty(), target.LightsaberResistance)
	dealt, killed := target.TakeDamage(dmg)
	s.damageDealt += dealt

	res := AttackResult{TargetID: target.ID, TargetName: target.Name, Damage: dealt, Killed: killed}
	if killed {
		s.logf("Strikes down %s! (+%d damage)", target.Name, dealt)
		reward := s.onKill(target)
		res.Reward = &reward
	} else {
		s.logf("Attacks %s for %d damage. (%d/%d HP)", target.Name, dealt, target.CurrentHP, target.MaxHP)
	}
	s.syncHelpless(target)
	res.Helpless = target.IsHelpless()
	s.logger.Debug("attack resolved",
		zap.String("target", target.ID),
		zap.Int("damage", dealt),
		zap.Bool("killed", killed),
	)
	return res, nil
}

// Hit records one target struck by an ability.
type Hit struct {
	TargetID   string
	TargetName string
	Damage     int
	Resisted   bool
	Killed     bool
}

// AbilityResult is the outcome of UseAbility.
type AbilityResult struct {
	AbilityID       string
	Name            string
	Cost            int
	Damage          int
	AreaEffect      bool
	Duration        int
	Hits            []Hit
	Kills           []string
	Rewards         []KillReward
	EquipmentDamage int
	Unstable        bool
	Stable          bool
	Exhausted       bool
}

// UseAbility activates abilityID. Single-target damaging abilities, including
// those whose damage comes only from scaling, need a live targetID; area abilities strike every live opponent, each rolling its
// own resistance check.
//
// Postcondition: on error no state is mutated.
func (s *Session) UseAbility(abilityID, targetID string) (AbilityResult, error) {
	if !s.Active() {
		return AbilityResult{}, ErrInactive
	}
	if err := s.abilities.CanUse(abilityID, s.actor.ForcePoints); err != nil {
		return AbilityResult{}, err
	}
	def, _ := s.abilities.Get(abilityID)

	var target *opponent.Opponent
	if def.Damaging() && !def.AreaEffect {
		target = s.find(targetID)
		if target == nil || !target.IsAlive() {
			return AbilityResult{}, &InvalidTargetError{ID: targetID}
		}
	}

	if err := s.actor.SpendForcePoints(def.Cost); err != nil {
		return AbilityResult{}, err
	}
	eff, err := s.abilities.Use(abilityID, s.actor.Psyche.Darkness, s.actor.Psyche.Rage, s.roller)
	if err != nil {
		s.actor.RestoreForcePoints(def.Cost)
		return AbilityResult{}, err
	}

	res := AbilityResult{
		AbilityID:       eff.AbilityID,
		Name:            eff.Name,
		Cost:            eff.Cost,
		Damage:          eff.Damage,
		AreaEffect:      eff.AreaEffect,
		Duration:        eff.Duration,
		EquipmentDamage: eff.EquipmentDamage,
		Unstable:        eff.Unstable,
		Stable:          eff.Stable,
	}
	s.logf("Uses %s", eff.Name)
	if eff.Unstable && !eff.Stable {
		s.logf("   [UNSTABLE] %s partially fails!", eff.Name)
	}
	if eff.EquipmentDamage > 0 {
		s.equipment.Damage(eff.EquipmentDamage)
		s.logf("   [WARNING] Suit damaged: -%d%% integrity", eff.EquipmentDamage)
	}

	if eff.Damage > 0 {
		targets := []*opponent.Opponent{target}
		if eff.AreaEffect {
			targets = s.alive()
		}
		for _, o := range targets {
			if o == nil {
				continue
			}
			hit, reward := s.applyForceDamage(o, eff.Damage)
			res.Hits = append(res.Hits, hit)
			if hit.Killed {
				res.Kills = append(res.Kills, o.ID)
				res.Rewards = append(res.Rewards, *reward)
			}
		}
	}

	if s.abilities.CheckLegendaryExhaustion(s.actor) {
		res.Exhausted = true
		s.logf("   Force exhaustion! Regeneration reduced for %d turns.", s.actor.ExhaustionTurns)
		s.logger.Info("legendary exhaustion applied", zap.Int("turns", s.actor.ExhaustionTurns))
	}
	return res, nil
}

func (s *Session) applyForceDamage(o *opponent.Opponent, damage int) (Hit, *KillReward) {
	dmg, resisted := ResistanceCheck(s.roller, o.ForceResistance, damage)
	if resisted {
		s.logf("   %s resists! (Half damage)", o.Name)
	}
	dealt, killed := o.TakeDamage(dmg)
	s.damageDealt += dealt
	hit := Hit{TargetID: o.ID, TargetName: o.Name, Damage: dealt, Resisted: resisted, Killed: killed}
	var reward *KillReward
	if killed {
		s.logf("   %s falls!", o.Name)
		r := s.onKill(o)
		reward = &r
	}
	s.syncHelpless(o)
	return hit, reward
}

// Defend halves incoming damage until the end of the turn.
func (s *Session) Defend() error {
	if !s.Active() {
		return ErrInactive
	}
	s.defending = true
	s.logf("Assumes a defensive stance. (incoming damage halved this turn)")
	return nil
}

// MeditateResult reports force points restored. Vulnerable is informational.
type MeditateResult struct {
	Restored   int
	Vulnerable bool
}

// Meditate restores a fixed amount of force points.
func (s *Session) Meditate() (MeditateResult, error) {
	if !s.Active() {
		return MeditateResult{}, ErrInactive
	}
	restored := s.actor.RestoreForcePoints(s.rules.MeditateRestore)
	s.logf("Meditates. (+%d FP, vulnerable to attacks)", restored)
	return MeditateResult{Restored: restored, Vulnerable: true}, nil
}

// RetreatResult reports the retreat roll target and whether it succeeded.
type RetreatResult struct {
	Chance  int
	Escaped bool
}

// Retreat attempts to leave the encounter. A failed roll returns
// ErrRetreatBlocked and leaves the encounter running.
func (s *Session) Retreat() (RetreatResult, error) {
	if !s.Active() {
		return RetreatResult{}, ErrInactive
	}
	if !s.retreatAllowed {
		return RetreatResult{}, ErrRetreatBlocked
	}
	chance := s.rules.RetreatChance
	if s.equipment.Integrity() < s.rules.RetreatIntegrityThreshold {
		chance += s.rules.RetreatDamagedBonus
	}
	if !s.roller.Chance("retreat", chance) {
		s.logf("Retreat failed! Enemies block escape.")
		return RetreatResult{Chance: chance}, ErrRetreatBlocked
	}
	s.logf("Retreats from combat.")
	s.end(Retreat)
	return RetreatResult{Chance: chance, Escaped: true}, nil
}

// Method is an execution style.
type Method string

const (
	MethodQuick  Method = "quick"
	MethodChoke  Method = "choke"
	MethodBrutal Method = "brutal"
	MethodSpare  Method = "spare"
)

type methodEffect struct {
	darkness   int
	control    int
	moraleLoss func(Rules) int
	kills      bool
	fears      bool
}

var methods = map[Method]methodEffect{
	MethodQuick:  {kills: true},
	MethodChoke:  {darkness: 5, kills: true, moraleLoss: func(r Rules) int { return r.ChokeMoraleLoss }},
	MethodBrutal: {darkness: 10, control: -5, kills: true, fears: true, moraleLoss: func(r Rules) int { return r.BrutalMoraleLoss }},
	MethodSpare:  {darkness: -3, control: 5},
}

// ExecuteResult is the outcome of Execute.
type ExecuteResult struct {
	TargetID      string
	TargetName    string
	Method        Method
	Killed        bool
	DarknessDelta int
	ControlDelta  int
	// Alignment is set when the darkness change crossed a band.
	Alignment string
	Feared    []string
	Reward    *KillReward
}

// Execute finishes a helpless opponent. Spare removes the target without a
// kill and grants no reward.
//
// Postcondition: on error no state is mutated.
func (s *Session) Execute(targetID string, method Method) (ExecuteResult, error) {
	if !s.Active() {
		return ExecuteResult{}, ErrInactive
	}
	eff, ok := methods[method]
	if !ok {
		return ExecuteResult{}, ErrUnknownMethod
	}
	target := s.find(targetID)
	if target == nil {
		return ExecuteResult{}, &InvalidTargetError{ID: targetID}
	}
	if !target.IsHelpless() {
		return ExecuteResult{}, &IllegalExecutionError{ID: targetID}
	}

	res := ExecuteResult{
		TargetID:      target.ID,
		TargetName:    target.Name,
		Method:        method,
		Killed:        eff.kills,
		DarknessDelta: eff.darkness,
		ControlDelta:  eff.control,
	}
	if eff.kills {
		target.Kill()
	} else {
		target.Spare()
	}
	s.logExecution(target, method)

	if eff.moraleLoss != nil {
		loss := eff.moraleLoss(s.rules)
		for _, o := range s.alive() {
			o.LowerMorale(loss)
			if eff.fears && o.Morale < s.rules.FearMorale {
				o.Feared = true
				res.Feared = append(res.Feared, o.ID)
			}
		}
	}

	if label, changed := s.actor.ModifyDarkness(eff.darkness); changed {
		res.Alignment = label
		s.logf("   Your path shifts... %s", label)
	}
	s.actor.ModifyControl(eff.control)

	if eff.kills {
		reward := s.onKill(target)
		res.Reward = &reward
	}
	s.syncHelpless(target)
	return res, nil
}

func (s *Session) logExecution(target *opponent.Opponent, method Method) {
	switch method {
	case MethodQuick:
		s.logf("Quickly dispatches %s.", target.Name)
	case MethodChoke:
		s.logf("Slowly chokes the life from %s.", target.Name)
	case MethodBrutal:
		s.logf("Brutally cuts down %s.", target.Name)
	case MethodSpare:
		s.logf("Spares %s.", target.Name)
	}
}
