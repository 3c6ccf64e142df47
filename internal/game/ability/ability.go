// Package ability provides the learnable ability catalog: static definitions
// loaded from YAML plus the per-ability runtime state (cooldowns, mastery,
// usage) that an encounter mutates.
package ability

import "fmt"

// Tier ranks an ability. Legendary abilities count toward exhaustion.
type Tier string

const (
	TierBasic     Tier = "basic"
	TierAdvanced  Tier = "advanced"
	TierMaster    Tier = "master"
	TierLegendary Tier = "legendary"
)

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierBasic, TierAdvanced, TierMaster, TierLegendary:
		return true
	}
	return false
}

// Category groups abilities for presentation.
type Category string

const (
	CategoryTelekinesis Category = "telekinesis"
	CategorySense       Category = "sense"
	CategoryControl     Category = "control"
	CategoryDarkSide    Category = "dark_side"
	CategoryCombat      Category = "combat"
	CategoryUtility     Category = "utility"
)

// Ability is a static ability definition.
type Ability struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Category    Category `yaml:"category"`
	Tier        Tier     `yaml:"tier"`

	Cost       int  `yaml:"cost"`
	Cooldown   int  `yaml:"cooldown"`
	BaseDamage int  `yaml:"base_damage"`
	Duration   int  `yaml:"duration"` // sustained turns; 0 in YAML means 1
	AreaEffect bool `yaml:"area_effect"`

	ScalesWithDarkness bool `yaml:"scales_with_darkness"`
	ScalesWithRage     bool `yaml:"scales_with_rage"`

	RequiresDarkness  int      `yaml:"requires_darkness"`
	RequiresControl   int      `yaml:"requires_control"`
	RequiresLevel     int      `yaml:"requires_level"`
	Requires          []string `yaml:"requires"`
	RequiresGauntlets bool     `yaml:"requires_gauntlets"`

	// EquipmentRisk is the percent chance per use of damaging the user's gear.
	EquipmentRisk int `yaml:"equipment_risk"`
	// Unstable abilities roll a mastery-gated success check on every use.
	Unstable bool `yaml:"unstable"`

	ExperienceCost int  `yaml:"experience_cost"`
	Learned        bool `yaml:"learned"`
}

// Legendary reports whether the ability is top tier.
func (a *Ability) Legendary() bool { return a.Tier == TierLegendary }

// Damaging reports whether the ability can deal damage on use, either from
// base damage or from darkness or rage scaling.
func (a *Ability) Damaging() bool {
	return a.BaseDamage > 0 || a.ScalesWithDarkness || a.ScalesWithRage
}

// Validate checks field-level invariants and fills defaults.
//
// Precondition: a must not be nil.
// Postcondition: on success Duration >= 1 and RequiresLevel >= 1.
func (a *Ability) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("ability: id must not be empty")
	}
	if a.Name == "" {
		return fmt.Errorf("ability %q: name must not be empty", a.ID)
	}
	if !a.Tier.Valid() {
		return fmt.Errorf("ability %q: unknown tier %q", a.ID, a.Tier)
	}
	if a.Cost < 0 {
		return fmt.Errorf("ability %q: cost must be >= 0", a.ID)
	}
	if a.Cooldown < 0 {
		return fmt.Errorf("ability %q: cooldown must be >= 0", a.ID)
	}
	if a.BaseDamage < 0 {
		return fmt.Errorf("ability %q: base_damage must be >= 0", a.ID)
	}
	if a.EquipmentRisk < 0 || a.EquipmentRisk > 100 {
		return fmt.Errorf("ability %q: equipment_risk must be in [0,100]", a.ID)
	}
	if a.Duration < 0 {
		return fmt.Errorf("ability %q: duration must be >= 0", a.ID)
	}
	if a.Duration == 0 {
		a.Duration = 1
	}
	if a.RequiresLevel == 0 {
		a.RequiresLevel = 1
	}
	return nil
}
