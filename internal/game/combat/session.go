package combat

import (
	"fmt"
	"slices"

	"github.com/cory-johannsen/darklord/internal/game/ability"
	"github.com/cory-johannsen/darklord/internal/game/actor"
	"github.com/cory-johannsen/darklord/internal/game/dice"
	"github.com/cory-johannsen/darklord/internal/game/opponent"
	"go.uber.org/zap"
)

// Deps are the collaborators a Session mutates. The session owns none of
// them; the caller keeps them across encounters.
type Deps struct {
	Actor     *actor.Actor
	Equipment actor.Equipment
	Abilities *ability.Catalog
	Source    dice.Source
	Logger    *zap.Logger
}

// Session is one regular encounter. It is exclusively owned by its driver and
// is not safe for concurrent use.
type Session struct {
	actor     *actor.Actor
	equipment actor.Equipment
	abilities *ability.Catalog
	roller    *dice.Roller
	logger    *zap.Logger
	rules     Rules
	lifecycle *Lifecycle

	forceRoll     dice.Expression
	equipmentRoll dice.Expression

	turn           int
	opponents      []*opponent.Opponent
	helpless       []string
	outcome        Outcome
	defending      bool
	retreatAllowed bool

	kills       int
	damageDealt int
	damageTaken int

	log []string
}

// NewSession validates rules and wires the collaborators.
//
// Precondition: every field of deps is non-nil.
func NewSession(deps Deps, rules Rules) (*Session, error) {
	if deps.Actor == nil || deps.Equipment == nil || deps.Abilities == nil || deps.Source == nil {
		return nil, fmt.Errorf("combat session: actor, equipment, abilities and source are required")
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		actor:          deps.Actor,
		equipment:      deps.Equipment,
		abilities:      deps.Abilities,
		roller:         dice.NewLoggedRoller(deps.Source, logger),
		logger:         logger,
		rules:          rules,
		lifecycle:      NewLifecycle("combat", logger),
		forceRoll:      dice.MustParse(rules.EnemyForceDamage),
		equipmentRoll:  dice.MustParse(rules.EnemyEquipmentDamage),
		retreatAllowed: true,
	}, nil
}

// Start begins the encounter against opponents.
//
// Postcondition: on success Turn() == 1 and the session is Active.
func (s *Session) Start(opponents []*opponent.Opponent) error {
	if len(opponents) == 0 {
		return ErrNoOpponents
	}
	if err := s.lifecycle.Start(); err != nil {
		return fmt.Errorf("starting encounter: %w", err)
	}
	s.opponents = slices.Clone(opponents)
	s.turn = 1
	s.abilities.ResetEncounter()
	s.logf("=== COMBAT START ===")
	s.logf("Opponents: %d", len(opponents))
	for _, o := range s.opponents {
		s.syncHelpless(o)
	}
	s.logger.Info("combat started", zap.Int("opponents", len(opponents)))
	return nil
}

// DisallowRetreat removes retreat from the available actions.
func (s *Session) DisallowRetreat() { s.retreatAllowed = false }

// State returns the lifecycle state name.
func (s *Session) State() string { return s.lifecycle.State() }

// Active reports whether the encounter accepts actions.
func (s *Session) Active() bool { return s.lifecycle.Active() }

// Turn returns the current turn number.
func (s *Session) Turn() int { return s.turn }

// Victory returns the terminal outcome, or OutcomeNone while running.
func (s *Session) Victory() Outcome { return s.outcome }

// Opponents returns every opponent in the encounter, including removed ones.
func (s *Session) Opponents() []*opponent.Opponent { return slices.Clone(s.opponents) }

// Helpless returns ids of opponents currently eligible for execution.
func (s *Session) Helpless() []string { return slices.Clone(s.helpless) }

// Log returns the ordered narrative lines produced so far.
func (s *Session) Log() []string { return slices.Clone(s.log) }

// Defending reports whether the actor is braced for this turn.
func (s *Session) Defending() bool { return s.defending }

// Action names an action offered to the player.
type Action string

const (
	ActionAttack   Action = "attack"
	ActionAbility  Action = "ability"
	ActionDefend   Action = "defend"
	ActionMeditate Action = "meditate"
	ActionRetreat  Action = "retreat"
	ActionExecute  Action = "execute"
)

// AvailableActions lists the actions the player may take this turn.
func (s *Session) AvailableActions() []Action {
	if !s.Active() {
		return nil
	}
	actions := []Action{ActionAttack, ActionAbility, ActionDefend}
	if s.actor.ForcePoints*100 < s.actor.MaxForcePoints*s.rules.MeditateBelowPercent {
		actions = append(actions, ActionMeditate)
	}
	if s.retreatAllowed {
		actions = append(actions, ActionRetreat)
	}
	if len(s.helpless) > 0 {
		actions = append(actions, ActionExecute)
	}
	return actions
}

// Summary is the post-encounter report.
type Summary struct {
	Outcome     Outcome
	Turns       int
	Kills       int
	DamageDealt int
	DamageTaken int
	ForcePoints int
	Integrity   int
	Health      int
}

// Summary returns the encounter totals.
func (s *Session) Summary() Summary {
	return Summary{
		Outcome:     s.outcome,
		Turns:       s.turn,
		Kills:       s.kills,
		DamageDealt: s.damageDealt,
		DamageTaken: s.damageTaken,
		ForcePoints: s.actor.ForcePoints,
		Integrity:   s.equipment.Integrity(),
		Health:      s.actor.Health,
	}
}

func (s *Session) logf(format string, args ...any) {
	s.log = append(s.log, fmt.Sprintf(format, args...))
}

func (s *Session) find(id string) *opponent.Opponent {
	for _, o := range s.opponents {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (s *Session) alive() []*opponent.Opponent {
	var out []*opponent.Opponent
	for _, o := range s.opponents {
		if o.IsAlive() {
			out = append(out, o)
		}
	}
	return out
}

// syncHelpless keeps the helpless list equal to the set of helpless opponents
// for o.
func (s *Session) syncHelpless(o *opponent.Opponent) {
	idx := slices.Index(s.helpless, o.ID)
	switch {
	case o.IsHelpless() && idx < 0:
		s.helpless = append(s.helpless, o.ID)
		s.logf("   %s is helpless! Can be executed.", o.Name)
	case !o.IsHelpless() && idx >= 0:
		s.helpless = slices.Delete(s.helpless, idx, idx+1)
	}
}

func (s *Session) end(outcome Outcome) {
	s.outcome = outcome
	if err := s.lifecycle.End(); err != nil {
		s.logger.Warn("ending encounter", zap.Error(err))
	}
	s.logger.Info("combat ended",
		zap.Stringer("outcome", outcome),
		zap.Int("turn", s.turn),
		zap.Int("kills", s.kills),
	)
}

// KillReward is what the actor gained from one opponent's death.
type KillReward struct {
	OpponentID  string
	ForcePoints int
	Experience  int
	Credits     int
	LevelUp     bool
}

// onKill applies the reward hook shared by every cause of death.
func (s *Session) onKill(o *opponent.Opponent) KillReward {
	s.kills++
	bonus := s.abilities.KillBonus(o.ForceSensitive)
	r := KillReward{
		OpponentID:  o.ID,
		ForcePoints: s.actor.RestoreForcePoints(bonus),
		Experience:  o.Experience,
		Credits:     o.Credits,
	}
	s.actor.AddCredits(o.Credits)
	r.LevelUp = s.actor.AddExperience(o.Experience)
	if r.ForcePoints > 0 {
		s.logf("   (+%d FP from kill)", r.ForcePoints)
	}
	if r.LevelUp {
		s.logf("   LEVEL UP! Now level %d", s.actor.Level)
		s.logger.Info("actor leveled up", zap.Int("level", s.actor.Level))
	}
	s.logger.Info("opponent killed",
		zap.String("opponent", o.ID),
		zap.Int("fp_bonus", r.ForcePoints),
		zap.Int("xp", r.Experience),
		zap.Int("credits", r.Credits),
	)
	return r
}
