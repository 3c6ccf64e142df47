package boss

import (
	"github.com/cory-johannsen/darklord/internal/game/actor"
	"github.com/cory-johannsen/darklord/internal/game/combat"
	"github.com/cory-johannsen/darklord/internal/game/opponent"
	"go.uber.org/zap"
)

// FiredTrigger is a trigger surfaced to the caller.
type FiredTrigger struct {
	ID            string
	Kind          opponent.TriggerKind
	Dialogue      string
	Cutscene      string
	ChoicePrompt  string
	ChoiceOptions []opponent.ChoiceOption
	// HookLines holds narrative produced by the trigger's Lua hook.
	HookLines []string
}

// CheckTriggers fires at most one pending trigger whose condition holds.
// Each trigger fires at most once per encounter.
func (e *Encounter) CheckTriggers() (*FiredTrigger, bool) {
	if e.boss == nil || !e.Active() {
		return nil, false
	}
	hp := e.boss.HPPercent()
	for _, t := range e.boss.Triggers {
		if t.Fired || !t.Matches(hp, e.turn, e.boss.Phase) {
			continue
		}
		t.Fired = true
		fired := &FiredTrigger{
			ID:            t.ID,
			Kind:          t.Kind,
			Dialogue:      t.Dialogue,
			Cutscene:      t.Cutscene,
			ChoicePrompt:  t.ChoicePrompt,
			ChoiceOptions: t.ChoiceOptions,
		}
		if t.Dialogue != "" {
			e.logf("%s: %q", e.boss.Name, t.Dialogue)
		}
		if t.Hook != "" && e.hooks != nil {
			lines, err := e.hooks.CallHook(e.boss.TemplateID, t.Hook, e.hookState())
			if err != nil {
				e.logger.Warn("boss trigger hook failed", zap.String("hook", t.Hook), zap.Error(err))
			}
			fired.HookLines = lines
			e.log = append(e.log, lines...)
		}
		e.logger.Info("boss trigger fired",
			zap.String("boss", e.boss.TemplateID),
			zap.String("trigger", t.ID),
			zap.String("kind", string(t.Kind)),
		)
		return fired, true
	}
	return nil, false
}

// CheckScriptedLoss ends the duel in defeat once the scripted-loss turn is
// reached or the actor's health drops under the configured percentage. A zero
// turn or percentage leaves that condition unset. It
// fires at most once and only when the duel was started with scripted loss.
func (e *Encounter) CheckScriptedLoss() bool {
	if !e.scriptedLoss || e.scriptedLossTriggered || !e.Active() {
		return false
	}
	sl := e.boss.ScriptedLoss
	byTurn := sl.Turn > 0 && e.turn >= sl.Turn
	byHealth := sl.HealthPercent > 0 && e.actor.Health*100 < e.actor.MaxHealth*sl.HealthPercent
	if !byTurn && !byHealth {
		return false
	}
	e.scriptedLossTriggered = true
	e.logf("=== SCRIPTED DEFEAT ===")
	e.end(combat.Defeat)
	return true
}

// TurnReport summarises EndTurn.
type TurnReport struct {
	Turn        int
	Regenerated int
	Outcome     combat.Outcome
}

// EndTurn regenerates the actor, ticks ability and boss cooldowns, clears
// the defend flag and advances the turn. A dead boss ends the duel in victory.
func (e *Encounter) EndTurn() (TurnReport, error) {
	if !e.Active() {
		return TurnReport{}, combat.ErrInactive
	}
	regen := e.actor.RegenerateForcePoints(actor.RegenFrom(e.equipment))
	e.abilities.UpdateCooldowns()
	e.boss.TickCooldowns()
	e.defending = false
	e.turn++
	if e.boss.IsAlive() {
		e.boss.TurnsSurvived++
	}

	report := TurnReport{Turn: e.turn, Regenerated: regen}
	if !e.boss.IsAlive() {
		e.logf("=== VICTORY ===")
		e.end(combat.TotalVictory)
		report.Outcome = combat.TotalVictory
	}
	return report, nil
}
