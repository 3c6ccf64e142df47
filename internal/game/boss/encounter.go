// Package boss runs scripted boss duels on top of the combat primitives:
// monotonic phases, one-shot triggers with optional Lua hooks, a special
// action AI and designer-controlled scripted losses.
package boss

import (
	"fmt"
	"slices"

	"github.com/cory-johannsen/darklord/internal/game/ability"
	"github.com/cory-johannsen/darklord/internal/game/actor"
	"github.com/cory-johannsen/darklord/internal/game/combat"
	"github.com/cory-johannsen/darklord/internal/game/dice"
	"github.com/cory-johannsen/darklord/internal/game/opponent"
	"github.com/cory-johannsen/darklord/internal/scripting"
	"go.uber.org/zap"
)

// HookRunner invokes the Lua hook named by a trigger.
type HookRunner interface {
	CallHook(bossID, hook string, state scripting.HookState) ([]string, error)
}

// Deps are the collaborators an Encounter mutates. Hooks may be nil.
type Deps struct {
	Actor     *actor.Actor
	Equipment actor.Equipment
	Abilities *ability.Catalog
	Source    dice.Source
	Logger    *zap.Logger
	Hooks     HookRunner
}

// Encounter is one boss duel. It is not safe for concurrent use.
type Encounter struct {
	actor     *actor.Actor
	equipment actor.Equipment
	abilities *ability.Catalog
	roller    *dice.Roller
	logger    *zap.Logger
	hooks     HookRunner
	rules     combat.Rules
	lifecycle *combat.Lifecycle

	boss      *opponent.Boss
	turn      int
	outcome   combat.Outcome
	defending bool

	scriptedLoss          bool
	scriptedLossTriggered bool

	log []string
}

// NewEncounter validates rules and wires the collaborators.
func NewEncounter(deps Deps, rules combat.Rules) (*Encounter, error) {
	if deps.Actor == nil || deps.Equipment == nil || deps.Abilities == nil || deps.Source == nil {
		return nil, fmt.Errorf("boss encounter: actor, equipment, abilities and source are required")
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Encounter{
		actor:     deps.Actor,
		equipment: deps.Equipment,
		abilities: deps.Abilities,
		roller:    dice.NewLoggedRoller(deps.Source, logger),
		logger:    logger,
		hooks:     deps.Hooks,
		rules:     rules,
		lifecycle: combat.NewLifecycle("boss", logger),
	}, nil
}

// Start begins the duel. With scriptedLoss set the encounter ends in defeat
// once the boss's ScriptedLoss conditions hold, regardless of boss HP.
//
// Postcondition: on success Turn() == 1 and the encounter is Active.
func (e *Encounter) Start(b *opponent.Boss, scriptedLoss bool) error {
	if b == nil {
		return combat.ErrNoOpponents
	}
	if err := e.lifecycle.Start(); err != nil {
		return fmt.Errorf("starting boss encounter: %w", err)
	}
	e.boss = b
	e.turn = 1
	e.scriptedLoss = scriptedLoss
	if scriptedLoss && b.ScriptedLoss == nil {
		sl := opponent.DefaultScriptedLoss
		b.ScriptedLoss = &sl
	}
	e.abilities.ResetEncounter()
	e.logf("=== BOSS FIGHT: %s ===", b.Name)
	e.logf("Title: %s", b.Title)
	e.logf("HP: %d/%d", b.CurrentHP, b.MaxHP)
	e.logger.Info("boss fight started",
		zap.String("boss", b.TemplateID),
		zap.Stringer("phase", b.Phase),
		zap.Bool("scripted_loss", scriptedLoss),
	)
	return nil
}

// State returns the lifecycle state name.
func (e *Encounter) State() string { return e.lifecycle.State() }

// Active reports whether the duel accepts actions.
func (e *Encounter) Active() bool { return e.lifecycle.Active() }

// Turn returns the current turn number.
func (e *Encounter) Turn() int { return e.turn }

// Boss returns the boss being fought.
func (e *Encounter) Boss() *opponent.Boss { return e.boss }

// Victory returns the terminal outcome, or OutcomeNone while running.
func (e *Encounter) Victory() combat.Outcome { return e.outcome }

// ScriptedLossTriggered reports whether the duel ended through a scripted loss.
func (e *Encounter) ScriptedLossTriggered() bool { return e.scriptedLossTriggered }

// Defending reports whether the actor is braced for this turn.
func (e *Encounter) Defending() bool { return e.defending }

// Log returns the ordered narrative lines produced so far.
func (e *Encounter) Log() []string { return slices.Clone(e.log) }

// ShouldPause reports whether the boss sits in the story-pause window just
// under threshold percent HP.
func (e *Encounter) ShouldPause(threshold int) bool {
	return e.boss != nil && e.boss.ShouldPause(threshold)
}

// Summary is the post-duel report.
type Summary struct {
	Outcome       combat.Outcome
	ScriptedLoss  bool
	Turns         int
	BossHPPercent int
	Phase         opponent.Phase
	DamageDealt   int
	ForceUses     int
	PhysicalUses  int
	Health        int
	ForcePoints   int
}

// Summary returns the duel totals.
func (e *Encounter) Summary() Summary {
	s := Summary{
		Outcome:      e.outcome,
		ScriptedLoss: e.scriptedLossTriggered,
		Turns:        e.turn,
		Health:       e.actor.Health,
		ForcePoints:  e.actor.ForcePoints,
	}
	if b := e.boss; b != nil {
		s.BossHPPercent = b.HPPercent()
		s.Phase = b.Phase
		s.DamageDealt = b.DamageTaken
		s.ForceUses = b.ForceUses
		s.PhysicalUses = b.PhysicalUses
	}
	return s
}

func (e *Encounter) logf(format string, args ...any) {
	e.log = append(e.log, fmt.Sprintf(format, args...))
}

func (e *Encounter) end(outcome combat.Outcome) {
	e.outcome = outcome
	if err := e.lifecycle.End(); err != nil {
		e.logger.Warn("ending boss encounter", zap.Error(err))
	}
	e.logger.Info("boss fight ended",
		zap.Stringer("outcome", outcome),
		zap.Int("turn", e.turn),
		zap.Bool("scripted_loss", e.scriptedLossTriggered),
	)
}

func (e *Encounter) hookState() scripting.HookState {
	return scripting.HookState{
		BossID:           e.boss.TemplateID,
		BossName:         e.boss.Name,
		BossHPPercent:    e.boss.HPPercent(),
		Phase:            e.boss.Phase.String(),
		Turn:             e.turn,
		ActorHealth:      e.actor.Health,
		ActorMaxHealth:   e.actor.MaxHealth,
		ActorForcePoints: e.actor.ForcePoints,
		Darkness:         e.actor.Psyche.Darkness,
		Control:          e.actor.Psyche.Control,
		Rage:             e.actor.Psyche.Rage,
	}
}
