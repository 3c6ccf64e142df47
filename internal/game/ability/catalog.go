package ability

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/darklord/internal/game/actor"
	"github.com/cory-johannsen/darklord/internal/game/condition"
	"github.com/cory-johannsen/darklord/internal/game/dice"
)

const (
	masteryPerUse = 2
	maxMastery    = 100

	unstableBaseChance = 60
	unstableDivisor    = 3

	// LegendaryExhaustionUses is the number of legendary uses in one
	// encounter that triggers exhaustion.
	LegendaryExhaustionUses = 3
	// LegendaryExhaustionTurns is the regen-halving penalty applied.
	LegendaryExhaustionTurns = 3

	killBonusFP               = 5
	forceSensitiveKillBonusFP = 10
)

var equipmentDamageRoll = dice.MustParse("1d16+9")

type runtime struct {
	learned  bool
	cooldown int
	mastery  int
	uses     int
}

// Catalog owns ability definitions and their runtime state.
//
// A Catalog is not safe for concurrent use.
type Catalog struct {
	defs  map[string]*Ability
	order []string
	state map[string]*runtime

	// active holds sustained effects keyed by ability id.
	active *condition.ActiveSet

	legendaryUses       int
	forceSensitiveKills int
	unstableAttempts    int
	unstableSuccesses   int
	fpSpent             int
}

// NewCatalog validates defs and returns a catalog in which abilities marked
// Learned start learned.
//
// Postcondition: ids are unique and every prerequisite names a known ability.
func NewCatalog(defs []*Ability) (*Catalog, error) {
	c := &Catalog{
		defs:   make(map[string]*Ability, len(defs)),
		state:  make(map[string]*runtime, len(defs)),
		active: condition.NewActiveSet(),
	}
	var errs []string
	for _, a := range defs {
		if err := a.Validate(); err != nil {
			errs = append(errs, err.Error())
			continue
		}
		if _, dup := c.defs[a.ID]; dup {
			errs = append(errs, fmt.Sprintf("ability %q: duplicate id", a.ID))
			continue
		}
		c.defs[a.ID] = a
		c.order = append(c.order, a.ID)
		c.state[a.ID] = &runtime{learned: a.Learned}
	}
	for _, id := range c.order {
		for _, req := range c.defs[id].Requires {
			if _, ok := c.defs[req]; !ok {
				errs = append(errs, fmt.Sprintf("ability %q: unknown prerequisite %q", id, req))
			}
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid ability catalog: %s", strings.Join(errs, "; "))
	}
	return c, nil
}

// Get returns the definition for id.
func (c *Catalog) Get(id string) (*Ability, bool) {
	a, ok := c.defs[id]
	return a, ok
}

// All returns every definition in load order.
func (c *Catalog) All() []*Ability {
	out := make([]*Ability, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.defs[id])
	}
	return out
}

// Learned returns learned definitions in load order.
func (c *Catalog) Learned() []*Ability {
	var out []*Ability
	for _, id := range c.order {
		if c.state[id].learned {
			out = append(out, c.defs[id])
		}
	}
	return out
}

// IsLearned reports whether id is learned.
func (c *Catalog) IsLearned(id string) bool {
	st, ok := c.state[id]
	return ok && st.learned
}

// Cooldown returns the remaining cooldown for id.
func (c *Catalog) Cooldown(id string) int {
	if st, ok := c.state[id]; ok {
		return st.cooldown
	}
	return 0
}

// Mastery returns the mastery level of id in [0, 100].
func (c *Catalog) Mastery(id string) int {
	if st, ok := c.state[id]; ok {
		return st.mastery
	}
	return 0
}

// Uses returns how many times id has been used.
func (c *Catalog) Uses(id string) int {
	if st, ok := c.state[id]; ok {
		return st.uses
	}
	return 0
}

// LegendaryUses returns legendary uses in the current encounter.
func (c *Catalog) LegendaryUses() int { return c.legendaryUses }

// ActiveEffects returns sustained effects and their remaining turns.
func (c *Catalog) ActiveEffects() map[string]int { return c.active.Snapshot() }

// LearnContext carries the learner's qualifications.
type LearnContext struct {
	Level        int
	Darkness     int
	Control      int
	Experience   int
	HasGauntlets bool
}

// CanLearn reports nil when id may be learned under ctx.
func (c *Catalog) CanLearn(id string, ctx LearnContext) error {
	a, ok := c.defs[id]
	if !ok {
		return &UnknownAbilityError{ID: id}
	}
	switch {
	case c.state[id].learned:
		return &LearnError{ID: id, Reason: "already learned"}
	case ctx.Level < a.RequiresLevel:
		return &LearnError{ID: id, Reason: fmt.Sprintf("requires level %d", a.RequiresLevel)}
	case ctx.Darkness < a.RequiresDarkness:
		return &LearnError{ID: id, Reason: fmt.Sprintf("requires %d darkness (currently %d)", a.RequiresDarkness, ctx.Darkness)}
	case ctx.Control < a.RequiresControl:
		return &LearnError{ID: id, Reason: fmt.Sprintf("requires %d control (currently %d)", a.RequiresControl, ctx.Control)}
	case ctx.Experience < a.ExperienceCost:
		return &LearnError{ID: id, Reason: fmt.Sprintf("requires %d experience (have %d)", a.ExperienceCost, ctx.Experience)}
	}
	for _, req := range a.Requires {
		if !c.state[req].learned {
			return &LearnError{ID: id, Reason: "requires " + c.defs[req].Name}
		}
	}
	if a.RequiresGauntlets && !ctx.HasGauntlets {
		return &LearnError{ID: id, Reason: "requires kyber gauntlets"}
	}
	return nil
}

// Learn marks id learned without checking qualifications.
func (c *Catalog) Learn(id string) error {
	st, ok := c.state[id]
	if !ok {
		return &UnknownAbilityError{ID: id}
	}
	st.learned = true
	return nil
}

// Unlearn clears the learned flag for id.
func (c *Catalog) Unlearn(id string) error {
	st, ok := c.state[id]
	if !ok {
		return &UnknownAbilityError{ID: id}
	}
	st.learned = false
	return nil
}

// Learnable returns every ability that CanLearn accepts under ctx.
func (c *Catalog) Learnable(ctx LearnContext) []*Ability {
	var out []*Ability
	for _, id := range c.order {
		if c.CanLearn(id, ctx) == nil {
			out = append(out, c.defs[id])
		}
	}
	return out
}

// CanUse checks, in order, that id is learned, off cooldown and affordable
// with fp force points.
func (c *Catalog) CanUse(id string, fp int) error {
	st, ok := c.state[id]
	if !ok || !st.learned {
		return &NotLearnedError{ID: id}
	}
	if st.cooldown > 0 {
		return &OnCooldownError{ID: id, Remaining: st.cooldown}
	}
	if cost := c.defs[id].Cost; fp < cost {
		return &InsufficientResourceError{ID: id, Needed: cost, Have: fp}
	}
	return nil
}

// Effect is the outcome of one ability use for the caller to apply.
type Effect struct {
	AbilityID  string
	Name       string
	Cost       int
	Damage     int
	AreaEffect bool
	Duration   int
	// EquipmentDamage is integrity the user's gear should lose.
	EquipmentDamage int
	// Unstable is set for abilities that roll a success check; Stable then
	// reports whether the check passed.
	Unstable bool
	Stable   bool
}

// Use resolves id and mutates its runtime state. It does not spend force
// points; the caller does that after CanUse.
//
// Postcondition: on success the cooldown equals the ability's Cooldown and
// mastery has grown by 2 up to 100.
func (c *Catalog) Use(id string, darkness, rage int, roller *dice.Roller) (Effect, error) {
	st, ok := c.state[id]
	if !ok || !st.learned {
		return Effect{}, &NotLearnedError{ID: id}
	}
	if st.cooldown > 0 {
		return Effect{}, &OnCooldownError{ID: id, Remaining: st.cooldown}
	}
	a := c.defs[id]

	if a.Legendary() {
		c.legendaryUses++
	}

	damage := a.BaseDamage
	if a.ScalesWithDarkness {
		damage += (darkness / 10) * 5
	}
	if a.ScalesWithRage {
		damage += (rage / 10) * 3
	}

	st.cooldown = a.Cooldown
	st.uses++
	st.mastery = min(maxMastery, st.mastery+masteryPerUse)
	c.fpSpent += a.Cost

	eff := Effect{
		AbilityID:  a.ID,
		Name:       a.Name,
		Cost:       a.Cost,
		AreaEffect: a.AreaEffect,
		Duration:   a.Duration,
		Stable:     true,
	}

	if a.EquipmentRisk > 0 && roller.Chance("equipment risk", a.EquipmentRisk) {
		eff.EquipmentDamage = roller.Roll(equipmentDamageRoll, "equipment damage").Total()
	}
	if a.Unstable {
		c.unstableAttempts++
		eff.Unstable = true
		if roller.Chance("unstable "+a.ID, unstableBaseChance+st.mastery/2) {
			c.unstableSuccesses++
		} else {
			eff.Stable = false
			damage /= unstableDivisor
		}
	}

	if a.Duration > 1 {
		if err := c.active.Apply(id, a.Duration); err != nil {
			return Effect{}, fmt.Errorf("sustaining %s: %w", id, err)
		}
	}
	eff.Damage = damage
	return eff, nil
}

// UpdateCooldowns decrements every non-zero cooldown and ticks sustained
// effects, removing those that expire.
func (c *Catalog) UpdateCooldowns() {
	for _, st := range c.state {
		if st.cooldown > 0 {
			st.cooldown--
		}
	}
	c.active.Tick()
}

// ResetEncounter zeroes the per-encounter counters.
func (c *Catalog) ResetEncounter() {
	c.legendaryUses = 0
	c.forceSensitiveKills = 0
}

// CheckLegendaryExhaustion exhausts a when legendary uses this encounter
// reached LegendaryExhaustionUses. The counter resets as soon as the penalty
// is applied.
func (c *Catalog) CheckLegendaryExhaustion(a *actor.Actor) bool {
	if c.legendaryUses < LegendaryExhaustionUses {
		return false
	}
	a.Exhaust(LegendaryExhaustionTurns)
	c.legendaryUses = 0
	return true
}

// KillBonus returns the force point bonus for a kill.
func (c *Catalog) KillBonus(forceSensitive bool) int {
	if forceSensitive {
		c.forceSensitiveKills++
		return forceSensitiveKillBonusFP
	}
	return killBonusFP
}

// Summary describes catalog usage for status displays.
type Summary struct {
	Total               int
	Learned             int
	ForcePointsSpent    int
	MostUsed            string
	ForceSensitiveKills int
	// UnstableSuccessRate is a percentage, or -1 with no attempts.
	UnstableSuccessRate float64
	ActiveEffects       []string
}

// Summary returns a snapshot of usage statistics.
func (c *Catalog) Summary() Summary {
	s := Summary{
		Total:               len(c.defs),
		ForcePointsSpent:    c.fpSpent,
		ForceSensitiveKills: c.forceSensitiveKills,
		UnstableSuccessRate: -1,
	}
	best := 0
	for _, id := range c.order {
		st := c.state[id]
		if st.learned {
			s.Learned++
		}
		if st.uses > best {
			best = st.uses
			s.MostUsed = id
		}
	}
	if c.unstableAttempts > 0 {
		s.UnstableSuccessRate = float64(c.unstableSuccesses) * 100 / float64(c.unstableAttempts)
	}
	if c.active.Len() > 0 {
		s.ActiveEffects = c.active.IDs()
	}
	return s
}

// IsUseError reports whether err is one of the CanUse rejections.
func IsUseError(err error) bool {
	var nl *NotLearnedError
	var cd *OnCooldownError
	var ir *InsufficientResourceError
	return errors.As(err, &nl) || errors.As(err, &cd) || errors.As(err, &ir)
}
