// Package actor models the player character: health, the regenerating force
// point pool and the psychological state that scales ability damage.
package actor

import "fmt"

// Defaults for a freshly created actor.
const (
	DefaultMaxHealth   = 150
	DefaultMaxFP       = 100
	DefaultRegenRate   = 10
	DefaultStrength    = 9
	DefaultDarkness    = 50
	DefaultControl     = 40
	DefaultSuppression = 30
	DefaultRage        = 60

	// RageSaveThreshold is the rage level above which a lethal hit leaves the actor at 1 HP.
	RageSaveThreshold = 80
	// RageRegenThreshold is the rage level at or above which regen gains RageRegenBonus.
	RageRegenThreshold = 80
	RageRegenBonus     = 5

	levelUpFPBonus     = 10
	levelUpHealthBonus = 15
)

// Stats holds physical attributes that feed the basic attack formula.
type Stats struct {
	Strength int
}

// Psyche is the psychological state vector. Every field is in [0, 100].
type Psyche struct {
	Darkness    int
	Control     int
	Suppression int
	Rage        int
}

// InsufficientForceError reports a force point spend that exceeds the pool.
type InsufficientForceError struct {
	Needed int
	Have   int
}

func (e *InsufficientForceError) Error() string {
	return fmt.Sprintf("insufficient force points: need %d, have %d", e.Needed, e.Have)
}

// RegenContext carries external state that modifies force point regeneration.
type RegenContext struct {
	BreathingImpaired bool
}

// Actor is the player character.
//
// Invariant: 0 <= Health <= MaxHealth and 0 <= ForcePoints <= MaxForcePoints
// after every exported mutation.
type Actor struct {
	Name       string
	Level      int
	Experience int
	Credits    int
	Stats      Stats

	Health         int
	MaxHealth      int
	ForcePoints    int
	MaxForcePoints int
	RegenRate      int
	// ExhaustionTurns halves regeneration while positive.
	ExhaustionTurns int

	Psyche Psyche
}

// New returns an actor with the default starting statistics.
//
// Postcondition: Health == MaxHealth and ForcePoints == MaxForcePoints.
func New(name string) *Actor {
	return &Actor{
		Name:           name,
		Level:          1,
		Stats:          Stats{Strength: DefaultStrength},
		Health:         DefaultMaxHealth,
		MaxHealth:      DefaultMaxHealth,
		ForcePoints:    DefaultMaxFP,
		MaxForcePoints: DefaultMaxFP,
		RegenRate:      DefaultRegenRate,
		Psyche: Psyche{
			Darkness:    DefaultDarkness,
			Control:     DefaultControl,
			Suppression: DefaultSuppression,
			Rage:        DefaultRage,
		},
	}
}

// IsAlive reports whether the actor has health remaining.
func (a *Actor) IsAlive() bool { return a.Health > 0 }

// HealthPercent returns current health as a floored percentage of MaxHealth.
func (a *Actor) HealthPercent() int {
	if a.MaxHealth <= 0 {
		return 0
	}
	return a.Health * 100 / a.MaxHealth
}

// FPPercent returns current force points as a floored percentage of MaxForcePoints.
func (a *Actor) FPPercent() int {
	if a.MaxForcePoints <= 0 {
		return 0
	}
	return a.ForcePoints * 100 / a.MaxForcePoints
}

// SpendForcePoints deducts n force points.
//
// Precondition: n >= 0.
// Postcondition: on error ForcePoints is unchanged.
func (a *Actor) SpendForcePoints(n int) error {
	if n < 0 {
		return fmt.Errorf("spend force points: amount must be >= 0, got %d", n)
	}
	if a.ForcePoints < n {
		return &InsufficientForceError{Needed: n, Have: a.ForcePoints}
	}
	a.ForcePoints -= n
	return nil
}

// RestoreForcePoints adds up to n force points and returns the amount applied.
func (a *Actor) RestoreForcePoints(n int) int {
	before := a.ForcePoints
	a.ForcePoints = clamp(a.ForcePoints+n, 0, a.MaxForcePoints)
	return a.ForcePoints - before
}

// DrainForcePoints removes up to n force points and returns the amount removed.
func (a *Actor) DrainForcePoints(n int) int {
	if n <= 0 {
		return 0
	}
	drained := min(n, a.ForcePoints)
	a.ForcePoints -= drained
	return drained
}

// RegenerateForcePoints applies one turn of regeneration and returns the
// actual delta after clamping.
//
// The base rate is halved while exhausted (consuming one exhaustion turn),
// halved again when breathing is impaired, then raised by RageRegenBonus when
// rage is high.
func (a *Actor) RegenerateForcePoints(ctx RegenContext) int {
	rate := a.RegenRate
	if a.ExhaustionTurns > 0 {
		rate /= 2
		a.ExhaustionTurns--
	}
	if ctx.BreathingImpaired {
		rate /= 2
	}
	if a.Psyche.Rage >= RageRegenThreshold {
		rate += RageRegenBonus
	}
	return a.RestoreForcePoints(rate)
}

// Exhaust sets the exhaustion counter to turns, replacing any remaining count.
func (a *Actor) Exhaust(turns int) {
	a.ExhaustionTurns = max(0, turns)
}

// TakeDamage subtracts amount from health and reports whether the actor is
// still alive. A lethal hit while rage exceeds RageSaveThreshold leaves the
// actor at exactly 1 health.
func (a *Actor) TakeDamage(amount int) bool {
	if amount < 0 {
		amount = 0
	}
	a.Health -= amount
	if a.Health <= 0 {
		if a.Psyche.Rage > RageSaveThreshold {
			a.Health = 1
			return true
		}
		a.Health = 0
		return false
	}
	return true
}

// Heal restores up to n health and returns the amount applied.
func (a *Actor) Heal(n int) int {
	before := a.Health
	a.Health = clamp(a.Health+n, 0, a.MaxHealth)
	return a.Health - before
}

// HealToFull restores health to MaxHealth.
func (a *Actor) HealToFull() { a.Health = a.MaxHealth }

// ModifyDarkness shifts darkness by delta. When the shift moves the actor
// into a different alignment band the new label is returned with changed set.
func (a *Actor) ModifyDarkness(delta int) (label string, changed bool) {
	old := a.Alignment()
	a.Psyche.Darkness = clamp(a.Psyche.Darkness+delta, 0, 100)
	now := a.Alignment()
	return now, now != old
}

func (a *Actor) ModifyControl(delta int) {
	a.Psyche.Control = clamp(a.Psyche.Control+delta, 0, 100)
}

func (a *Actor) ModifySuppression(delta int) {
	a.Psyche.Suppression = clamp(a.Psyche.Suppression+delta, 0, 100)
}

func (a *Actor) ModifyRage(delta int) {
	a.Psyche.Rage = clamp(a.Psyche.Rage+delta, 0, 100)
}

// Alignment returns the label for the actor's current darkness band.
func (a *Actor) Alignment() string {
	switch d := a.Psyche.Darkness; {
	case d >= 80:
		return "Fully Consumed by Darkness"
	case d >= 60:
		return "Deep in the Dark Side"
	case d >= 40:
		return "Embracing Darkness"
	case d >= 20:
		return "Conflicted"
	default:
		return "Clinging to Light"
	}
}

// AddExperience awards xp and reports whether a level was gained.
// A level costs Level*100 experience; the remainder carries over.
func (a *Actor) AddExperience(xp int) bool {
	if xp <= 0 {
		return false
	}
	a.Experience += xp
	required := a.Level * 100
	if a.Experience < required {
		return false
	}
	a.Level++
	a.Experience -= required
	a.MaxForcePoints += levelUpFPBonus
	a.ForcePoints = a.MaxForcePoints
	a.MaxHealth += levelUpHealthBonus
	a.Health = a.MaxHealth
	return true
}

// AddCredits adds n credits. Negative n is ignored.
func (a *Actor) AddCredits(n int) {
	if n > 0 {
		a.Credits += n
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
