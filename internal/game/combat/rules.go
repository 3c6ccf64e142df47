package combat

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/darklord/internal/game/dice"
)

// Rules carries every tunable combat constant.
type Rules struct {
	BaseAttack         int
	StrengthMultiplier int
	MinAttackDamage    int

	MeditateRestore int
	// MeditateBelowPercent offers meditation only while FP% is under it.
	MeditateBelowPercent int

	RetreatChance             int
	RetreatDamagedBonus       int
	RetreatIntegrityThreshold int

	FleeMorale  int
	FleeChance  int
	CowerChance int

	DefensiveDefendPercent int
	TacticalDefendPercent  int

	EnemyForceCost       int
	EnemyForceDamage     string
	EnemyEquipmentChance int
	EnemyEquipmentDamage string

	ChokeMoraleLoss  int
	BrutalMoraleLoss int
	FearMorale       int
}

// DefaultRules returns the standard constants.
func DefaultRules() Rules {
	return Rules{
		BaseAttack:                40,
		StrengthMultiplier:        2,
		MinAttackDamage:           5,
		MeditateRestore:           30,
		MeditateBelowPercent:      50,
		RetreatChance:             60,
		RetreatDamagedBonus:       20,
		RetreatIntegrityThreshold: 50,
		FleeMorale:                20,
		FleeChance:                50,
		CowerChance:               30,
		DefensiveDefendPercent:    40,
		TacticalDefendPercent:     30,
		EnemyForceCost:            20,
		EnemyForceDamage:          "1d11+14",
		EnemyEquipmentChance:      15,
		EnemyEquipmentDamage:      "1d4+1",
		ChokeMoraleLoss:           30,
		BrutalMoraleLoss:          50,
		FearMorale:                20,
	}
}

// Validate collects every violation into one error.
func (r Rules) Validate() error {
	var errs []string
	percent := map[string]int{
		"retreat_chance":           r.RetreatChance,
		"flee_chance":              r.FleeChance,
		"cower_chance":             r.CowerChance,
		"enemy_equipment_chance":   r.EnemyEquipmentChance,
		"meditate_below_percent":   r.MeditateBelowPercent,
		"defensive_defend_percent": r.DefensiveDefendPercent,
		"tactical_defend_percent":  r.TacticalDefendPercent,
	}
	for name, v := range percent {
		if v < 0 || v > 100 {
			errs = append(errs, fmt.Sprintf("%s must be in [0,100], got %d", name, v))
		}
	}
	if r.MinAttackDamage < 0 {
		errs = append(errs, "min_attack_damage must be >= 0")
	}
	if r.MeditateRestore < 0 {
		errs = append(errs, "meditate_restore must be >= 0")
	}
	if r.EnemyForceCost < 0 {
		errs = append(errs, "enemy_force_cost must be >= 0")
	}
	if _, err := dice.Parse(r.EnemyForceDamage); err != nil {
		errs = append(errs, fmt.Sprintf("enemy_force_damage: %v", err))
	}
	if _, err := dice.Parse(r.EnemyEquipmentDamage); err != nil {
		errs = append(errs, fmt.Sprintf("enemy_equipment_damage: %v", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid combat rules: %s", strings.Join(errs, "; "))
	}
	return nil
}

// AttackDamage is the basic attack formula:
// BaseAttack + StrengthMultiplier*strength - penalty - resistance, never below MinAttackDamage.
func AttackDamage(r Rules, strength, penalty, resistance int) int {
	dmg := r.BaseAttack + r.StrengthMultiplier*strength - penalty - resistance
	return max(r.MinAttackDamage, dmg)
}

// ResistanceCheck rolls d100 against resistance. On success the damage is
// halved (integer division). A resistance of zero never rolls.
func ResistanceCheck(roller *dice.Roller, resistance, damage int) (int, bool) {
	if resistance <= 0 {
		return damage, false
	}
	if roller.Chance("force resistance", resistance) {
		return damage / 2, true
	}
	return damage, false
}
