// Package config provides Viper-based configuration loading for the
// encounter engine and its drivers.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/darklord/internal/game/combat"
	"github.com/cory-johannsen/darklord/internal/game/opponent"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is the log sink: "stderr", "stdout" or a file path.
	Output string `mapstructure:"output"`
}

// RulesConfig mirrors combat.Rules so every constant can be tuned from YAML
// or DARKLORD_RULES_* environment variables.
type RulesConfig struct {
	BaseAttack                int    `mapstructure:"base_attack"`
	StrengthMultiplier        int    `mapstructure:"strength_multiplier"`
	MinAttackDamage           int    `mapstructure:"min_attack_damage"`
	MeditateRestore           int    `mapstructure:"meditate_restore"`
	MeditateBelowPercent      int    `mapstructure:"meditate_below_percent"`
	RetreatChance             int    `mapstructure:"retreat_chance"`
	RetreatDamagedBonus       int    `mapstructure:"retreat_damaged_bonus"`
	RetreatIntegrityThreshold int    `mapstructure:"retreat_integrity_threshold"`
	FleeMorale                int    `mapstructure:"flee_morale"`
	FleeChance                int    `mapstructure:"flee_chance"`
	CowerChance               int    `mapstructure:"cower_chance"`
	DefensiveDefendPercent    int    `mapstructure:"defensive_defend_percent"`
	TacticalDefendPercent     int    `mapstructure:"tactical_defend_percent"`
	EnemyForceCost            int    `mapstructure:"enemy_force_cost"`
	EnemyForceDamage          string `mapstructure:"enemy_force_damage"`
	EnemyEquipmentChance      int    `mapstructure:"enemy_equipment_chance"`
	EnemyEquipmentDamage      string `mapstructure:"enemy_equipment_damage"`
	ChokeMoraleLoss           int    `mapstructure:"choke_morale_loss"`
	BrutalMoraleLoss          int    `mapstructure:"brutal_morale_loss"`
	FearMorale                int    `mapstructure:"fear_morale"`
}

// Rules converts the configuration into engine rules.
func (r RulesConfig) Rules() combat.Rules {
	return combat.Rules{
		BaseAttack:                r.BaseAttack,
		StrengthMultiplier:        r.StrengthMultiplier,
		MinAttackDamage:           r.MinAttackDamage,
		MeditateRestore:           r.MeditateRestore,
		MeditateBelowPercent:      r.MeditateBelowPercent,
		RetreatChance:             r.RetreatChance,
		RetreatDamagedBonus:       r.RetreatDamagedBonus,
		RetreatIntegrityThreshold: r.RetreatIntegrityThreshold,
		FleeMorale:                r.FleeMorale,
		FleeChance:                r.FleeChance,
		CowerChance:               r.CowerChance,
		DefensiveDefendPercent:    r.DefensiveDefendPercent,
		TacticalDefendPercent:     r.TacticalDefendPercent,
		EnemyForceCost:            r.EnemyForceCost,
		EnemyForceDamage:          r.EnemyForceDamage,
		EnemyEquipmentChance:      r.EnemyEquipmentChance,
		EnemyEquipmentDamage:      r.EnemyEquipmentDamage,
		ChokeMoraleLoss:           r.ChokeMoraleLoss,
		BrutalMoraleLoss:          r.BrutalMoraleLoss,
		FearMorale:                r.FearMorale,
	}
}

// ContentConfig names optional override directories. An empty directory
// means the embedded defaults are used.
type ContentConfig struct {
	AbilitiesDir string `mapstructure:"abilities_dir"`
	BestiaryDir  string `mapstructure:"bestiary_dir"`
	BossesDir    string `mapstructure:"bosses_dir"`
	ScriptsDir   string `mapstructure:"scripts_dir"`
	// ScriptInstructionLimit caps Lua opcodes per hook call; 0 uses the default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// DiceConfig selects the randomness source.
type DiceConfig struct {
	// Seed makes every roll reproducible; 0 selects the crypto source.
	Seed int64 `mapstructure:"seed"`
}

// SkirmishConfig holds defaults for the skirmish driver.
type SkirmishConfig struct {
	Difficulty string `mapstructure:"difficulty"`
	MaxTurns   int    `mapstructure:"max_turns"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Rules    RulesConfig    `mapstructure:"rules"`
	Content  ContentConfig  `mapstructure:"content"`
	Dice     DiceConfig     `mapstructure:"dice"`
	Skirmish SkirmishConfig `mapstructure:"skirmish"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := c.Rules.Rules().Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSkirmish(c.Skirmish); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.Output == "" {
		return fmt.Errorf("logging.output must not be empty")
	}
	return nil
}

func validateContent(c ContentConfig) error {
	if c.ScriptInstructionLimit < 0 {
		return fmt.Errorf("content.script_instruction_limit must be >= 0, got %d", c.ScriptInstructionLimit)
	}
	return nil
}

func validateSkirmish(s SkirmishConfig) error {
	var errs []string
	if _, err := opponent.ParseDifficulty(s.Difficulty); err != nil {
		errs = append(errs, fmt.Sprintf("skirmish.difficulty: %v", err))
	}
	if s.MaxTurns < 1 {
		errs = append(errs, fmt.Sprintf("skirmish.max_turns must be >= 1, got %d", s.MaxTurns))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path loads defaults and
// environment overrides only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with DARKLORD_ prefix
	v.SetEnvPrefix("DARKLORD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	r := combat.DefaultRules()
	v.SetDefault("rules.base_attack", r.BaseAttack)
	v.SetDefault("rules.strength_multiplier", r.StrengthMultiplier)
	v.SetDefault("rules.min_attack_damage", r.MinAttackDamage)
	v.SetDefault("rules.meditate_restore", r.MeditateRestore)
	v.SetDefault("rules.meditate_below_percent", r.MeditateBelowPercent)
	v.SetDefault("rules.retreat_chance", r.RetreatChance)
	v.SetDefault("rules.retreat_damaged_bonus", r.RetreatDamagedBonus)
	v.SetDefault("rules.retreat_integrity_threshold", r.RetreatIntegrityThreshold)
	v.SetDefault("rules.flee_morale", r.FleeMorale)
	v.SetDefault("rules.flee_chance", r.FleeChance)
	v.SetDefault("rules.cower_chance", r.CowerChance)
	v.SetDefault("rules.defensive_defend_percent", r.DefensiveDefendPercent)
	v.SetDefault("rules.tactical_defend_percent", r.TacticalDefendPercent)
	v.SetDefault("rules.enemy_force_cost", r.EnemyForceCost)
	v.SetDefault("rules.enemy_force_damage", r.EnemyForceDamage)
	v.SetDefault("rules.enemy_equipment_chance", r.EnemyEquipmentChance)
	v.SetDefault("rules.enemy_equipment_damage", r.EnemyEquipmentDamage)
	v.SetDefault("rules.choke_morale_loss", r.ChokeMoraleLoss)
	v.SetDefault("rules.brutal_morale_loss", r.BrutalMoraleLoss)
	v.SetDefault("rules.fear_morale", r.FearMorale)

	v.SetDefault("content.abilities_dir", "")
	v.SetDefault("content.bestiary_dir", "")
	v.SetDefault("content.bosses_dir", "")
	v.SetDefault("content.scripts_dir", "")
	v.SetDefault("content.script_instruction_limit", 0)

	v.SetDefault("dice.seed", 0)

	v.SetDefault("skirmish.difficulty", "normal")
	v.SetDefault("skirmish.max_turns", 50)
}
