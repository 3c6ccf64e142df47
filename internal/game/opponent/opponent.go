// Package opponent models the combatants an actor fights: regular opponents
// spawned from bestiary templates, and bosses that extend them with phases,
// special actions and scripted triggers.
package opponent

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Behavior is the closed set of AI behavior variants.
type Behavior int

const (
	Aggressive Behavior = iota
	Defensive
	Tactical
	Calculated
)

var behaviorNames = map[Behavior]string{
	Aggressive: "aggressive",
	Defensive:  "defensive",
	Tactical:   "tactical",
	Calculated: "calculated",
}

func (b Behavior) String() string {
	if s, ok := behaviorNames[b]; ok {
		return s
	}
	return fmt.Sprintf("behavior(%d)", int(b))
}

// ParseBehavior converts a YAML name into a Behavior.
func ParseBehavior(s string) (Behavior, error) {
	for b, name := range behaviorNames {
		if name == s {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown behavior %q", s)
}

// UnmarshalYAML decodes a behavior from its lowercase name.
func (b *Behavior) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseBehavior(value.Value)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

const (
	// DefaultMorale is the morale every opponent starts with.
	DefaultMorale = 100

	moraleLossOnWound = 20
)

// Opponent is one live enemy in an encounter.
//
// Invariant: 0 <= CurrentHP <= MaxHP; once IsAlive returns false it never
// returns true again.
type Opponent struct {
	ID         string
	TemplateID string
	Name       string

	MaxHP        int
	CurrentHP    int
	AttackDamage int
	Defense      int
	Behavior     Behavior
	Morale       int

	ForceSensitive       bool
	ForcePoints          int
	ForceResistance      int
	LightsaberResistance int

	Credits    int
	Experience int

	Stunned   bool
	Feared    bool
	Defending bool

	fled   bool
	spared bool
}

// Combatant is a damageable participant shared by regular opponents and bosses.
type Combatant interface {
	// Base returns the underlying opponent record.
	Base() *Opponent
	TakeDamage(amount int) (dealt int, killed bool)
	IsAlive() bool
	HPPercent() int
}

// Base returns o itself.
func (o *Opponent) Base() *Opponent { return o }

// IsAlive reports whether o still participates in the encounter.
func (o *Opponent) IsAlive() bool {
	return o.CurrentHP > 0 && !o.fled && !o.spared
}

// Dead reports whether o was reduced to zero hit points.
func (o *Opponent) Dead() bool { return o.CurrentHP <= 0 }

// Fled reports whether o left the encounter by fleeing.
func (o *Opponent) Fled() bool { return o.fled }

// Spared reports whether o was released without a kill.
func (o *Opponent) Spared() bool { return o.spared }

// HPPercent returns current HP as a floored percentage of MaxHP.
func (o *Opponent) HPPercent() int {
	if o.MaxHP <= 0 {
		return 0
	}
	return o.CurrentHP * 100 / o.MaxHP
}

// IsHelpless reports 0 < CurrentHP <= 25% of MaxHP for a participating opponent.
func (o *Opponent) IsHelpless() bool {
	return o.IsAlive() && o.CurrentHP*4 <= o.MaxHP
}

// TakeDamage applies amount reduced by Defense, never less than 1.
// Morale drops when the hit leaves o under 30% of MaxHP.
//
// Precondition: o.IsAlive().
// Postcondition: dealt >= 1 and CurrentHP >= 0.
func (o *Opponent) TakeDamage(amount int) (dealt int, killed bool) {
	dealt = max(1, amount-o.Defense)
	o.CurrentHP = max(0, o.CurrentHP-dealt)
	if o.CurrentHP*10 < o.MaxHP*3 {
		o.LowerMorale(moraleLossOnWound)
	}
	return dealt, o.CurrentHP == 0
}

// Heal restores up to n HP to a participating opponent and returns the amount applied.
func (o *Opponent) Heal(n int) int {
	if !o.IsAlive() || n <= 0 {
		return 0
	}
	before := o.CurrentHP
	o.CurrentHP = min(o.MaxHP, o.CurrentHP+n)
	return o.CurrentHP - before
}

// LowerMorale reduces morale by n, flooring at zero.
func (o *Opponent) LowerMorale(n int) {
	o.Morale = max(0, o.Morale-n)
}

// Kill reduces o to zero HP.
func (o *Opponent) Kill() { o.CurrentHP = 0 }

// Flee removes o from the encounter without a kill.
func (o *Opponent) Flee() { o.fled = true }

// Spare removes o from the encounter without a kill.
func (o *Opponent) Spare() { o.spared = true }
