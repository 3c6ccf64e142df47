package main

import (
	"errors"
	"slices"

	"go.uber.org/zap"

	"github.com/cory-johannsen/darklord/internal/game/ability"
	"github.com/cory-johannsen/darklord/internal/game/actor"
	"github.com/cory-johannsen/darklord/internal/game/boss"
	"github.com/cory-johannsen/darklord/internal/game/combat"
)

// lowForcePercent is the force point level under which the pilot meditates.
const lowForcePercent = 30

// pilot plays the actor's side of an encounter: execute the helpless, meditate
// when drained, otherwise use the strongest affordable ability or attack.
type pilot struct {
	actor    *actor.Actor
	catalog  *ability.Catalog
	maxTurns int
	logger   *zap.Logger
}

// strongest returns the learned damaging ability with the highest base damage
// that catalog allows with fp force points, or "" when none qualifies.
func strongest(catalog *ability.Catalog, fp int) string {
	best, bestDamage := "", 0
	for _, a := range catalog.Learned() {
		if !a.Damaging() || catalog.CanUse(a.ID, fp) != nil {
			continue
		}
		if a.BaseDamage > bestDamage {
			best, bestDamage = a.ID, a.BaseDamage
		}
	}
	return best
}

func (p *pilot) runRegular(s *combat.Session) error {
	for s.Active() && s.Turn() <= p.maxTurns {
		if err := p.regularAction(s); err != nil {
			return err
		}
		if !s.Active() {
			break
		}
		if _, err := s.EnemyTurn(); err != nil {
			return err
		}
		if !s.Active() {
			break
		}
		if _, err := s.EndTurn(); err != nil {
			return err
		}
	}
	if s.Active() {
		p.logger.Info("turn cap reached", zap.Int("turn", s.Turn()))
	}
	return nil
}

func (p *pilot) regularAction(s *combat.Session) error {
	actions := s.AvailableActions()
	if helpless := s.Helpless(); len(helpless) > 0 {
		_, err := s.Execute(helpless[0], combat.MethodChoke)
		return err
	}
	if slices.Contains(actions, combat.ActionMeditate) && p.actor.FPPercent() < lowForcePercent {
		_, err := s.Meditate()
		return err
	}
	target := firstAlive(s)
	if target == "" {
		return s.Defend()
	}
	if id := strongest(p.catalog, p.actor.ForcePoints); id != "" {
		_, err := s.UseAbility(id, target)
		if err == nil || !ability.IsUseError(err) {
			return err
		}
		p.logger.Debug("ability rejected, attacking", zap.String("ability", id), zap.Error(err))
	}
	_, err := s.Attack(target)
	return err
}

func (p *pilot) runBoss(e *boss.Encounter) error {
	for e.Active() && e.Turn() <= p.maxTurns {
		for {
			fired, ok := e.CheckTriggers()
			if !ok {
				break
			}
			if len(fired.ChoiceOptions) > 0 {
				p.logger.Info("choice offered",
					zap.String("trigger", fired.ID),
					zap.String("picked", fired.ChoiceOptions[0].ID),
				)
			}
		}
		if e.CheckScriptedLoss() {
			break
		}
		if err := p.bossAction(e); err != nil {
			return err
		}
		if !e.Active() || e.CheckScriptedLoss() {
			break
		}
		if _, err := e.BossTurn(); err != nil {
			return err
		}
		if !e.Active() {
			break
		}
		if _, err := e.EndTurn(); err != nil {
			return err
		}
	}
	return nil
}

func (p *pilot) bossAction(e *boss.Encounter) error {
	if id := strongest(p.catalog, p.actor.ForcePoints); id != "" {
		_, err := e.UseAbility(id)
		var invalid *combat.InvalidTargetError
		if err == nil || !(ability.IsUseError(err) || errors.As(err, &invalid)) {
			return err
		}
	}
	if p.actor.FPPercent() < lowForcePercent {
		_, err := e.Meditate()
		return err
	}
	_, err := e.Attack()
	return err
}

func firstAlive(s *combat.Session) string {
	for _, o := range s.Opponents() {
		if o.IsAlive() {
			return o.ID
		}
	}
	return ""
}
