// Command skirmish runs one encounter against the embedded (or configured)
// content with an auto-pilot player and prints the narrative log.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/darklord/internal/config"
	"github.com/cory-johannsen/darklord/internal/game/ability"
	"github.com/cory-johannsen/darklord/internal/game/actor"
	"github.com/cory-johannsen/darklord/internal/game/boss"
	"github.com/cory-johannsen/darklord/internal/game/combat"
	"github.com/cory-johannsen/darklord/internal/game/dice"
	"github.com/cory-johannsen/darklord/internal/game/opponent"
	"github.com/cory-johannsen/darklord/internal/observability"
	"github.com/cory-johannsen/darklord/internal/scripting"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file (defaults plus DARKLORD_* env when empty)")
	enemies := flag.String("enemies", "stormtrooper:3", "comma-separated template:count list for a regular encounter")
	bossID := flag.String("boss", "", "boss id; runs a boss duel instead of a regular encounter")
	scripted := flag.Bool("scripted-loss", false, "enable the boss's scripted loss")
	difficulty := flag.String("difficulty", "", "easy, normal or hard (overrides config)")
	seed := flag.Int64("seed", 0, "dice seed (overrides config; 0 keeps the configured source)")
	maxTurns := flag.Int("max-turns", 0, "turn cap (overrides config when > 0)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *difficulty != "" {
		cfg.Skirmish.Difficulty = *difficulty
	}
	if *seed != 0 {
		cfg.Dice.Seed = *seed
	}
	if *maxTurns > 0 {
		cfg.Skirmish.MaxTurns = *maxTurns
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting skirmish",
		zap.String("difficulty", cfg.Skirmish.Difficulty),
		zap.Int64("seed", cfg.Dice.Seed),
		zap.Int("max_turns", cfg.Skirmish.MaxTurns),
	)

	src := newSource(cfg.Dice.Seed)

	catalog, err := loadCatalog(cfg.Content)
	if err != nil {
		logger.Fatal("loading abilities", zap.Error(err))
	}
	logger.Info("loaded abilities",
		zap.Int("count", len(catalog.All())),
		zap.Int("learned", len(catalog.Learned())),
	)

	hero := actor.New("Darth Vader")
	suit := actor.NewSuit()
	p := &pilot{actor: hero, catalog: catalog, maxTurns: cfg.Skirmish.MaxTurns, logger: logger}

	var lines []string
	var summary string
	if *bossID != "" {
		lines, summary, err = runBoss(cfg, *bossID, *scripted, boss.Deps{
			Actor:     hero,
			Equipment: suit,
			Abilities: catalog,
			Source:    src,
			Logger:    logger,
		}, p)
	} else {
		lines, summary, err = runRegular(cfg, *enemies, combat.Deps{
			Actor:     hero,
			Equipment: suit,
			Abilities: catalog,
			Source:    src,
			Logger:    logger,
		}, p)
	}
	if err != nil {
		logger.Fatal("running encounter", zap.Error(err))
	}

	for _, line := range lines {
		fmt.Fprintln(os.Stdout, line)
	}
	fmt.Fprintln(os.Stdout, summary)
	logger.Info("skirmish finished", zap.Duration("elapsed", time.Since(start)))
}

func newSource(seed int64) dice.Source {
	if seed == 0 {
		return dice.NewCryptoSource()
	}
	return dice.NewSeededSource(seed)
}

func loadCatalog(c config.ContentConfig) (*ability.Catalog, error) {
	if c.AbilitiesDir == "" {
		return ability.DefaultCatalog(), nil
	}
	return ability.LoadCatalog(c.AbilitiesDir)
}

func loadBestiary(c config.ContentConfig) (*opponent.Bestiary, error) {
	if c.BestiaryDir == "" {
		return opponent.DefaultBestiary(), nil
	}
	return opponent.LoadBestiary(c.BestiaryDir)
}

func loadRoster(c config.ContentConfig) (*opponent.BossRoster, error) {
	if c.BossesDir == "" {
		return opponent.DefaultBossRoster(), nil
	}
	return opponent.LoadBossRoster(c.BossesDir)
}

func loadScripts(c config.ContentConfig, roller *dice.Roller, logger *zap.Logger) (*scripting.Manager, error) {
	mgr := scripting.NewManager(roller, logger)
	var err error
	if c.ScriptsDir == "" {
		err = mgr.LoadDefaults(c.ScriptInstructionLimit)
	} else {
		err = mgr.LoadDir(c.ScriptsDir, c.ScriptInstructionLimit)
	}
	if err != nil {
		mgr.Close()
		return nil, err
	}
	return mgr, nil
}

// parseEnemies reads "stormtrooper:3,officer" into template ids and counts.
// A missing count means one.
func parseEnemies(list string) ([]enemyGroup, error) {
	var groups []enemyGroup
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, countStr, found := strings.Cut(part, ":")
		count := 1
		if found {
			n, err := strconv.Atoi(countStr)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("enemy group %q: count must be a positive integer", part)
			}
			count = n
		}
		groups = append(groups, enemyGroup{id: id, count: count})
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("no enemies in %q", list)
	}
	return groups, nil
}

type enemyGroup struct {
	id    string
	count int
}

func runRegular(cfg config.Config, enemies string, deps combat.Deps, p *pilot) ([]string, string, error) {
	groups, err := parseEnemies(enemies)
	if err != nil {
		return nil, "", err
	}
	diff, err := opponent.ParseDifficulty(cfg.Skirmish.Difficulty)
	if err != nil {
		return nil, "", err
	}
	bestiary, err := loadBestiary(cfg.Content)
	if err != nil {
		return nil, "", fmt.Errorf("loading bestiary: %w", err)
	}
	var opponents []*opponent.Opponent
	for _, g := range groups {
		spawned, err := bestiary.Spawn(g.id, g.count, diff)
		if err != nil {
			return nil, "", err
		}
		opponents = append(opponents, spawned...)
	}

	s, err := combat.NewSession(deps, cfg.Rules.Rules())
	if err != nil {
		return nil, "", err
	}
	if err := s.Start(opponents); err != nil {
		return nil, "", err
	}
	if err := p.runRegular(s); err != nil {
		return nil, "", err
	}
	sum := s.Summary()
	return s.Log(), fmt.Sprintf(
		"outcome=%s turns=%d kills=%d dealt=%d taken=%d hp=%d fp=%d integrity=%d",
		sum.Outcome, sum.Turns, sum.Kills, sum.DamageDealt, sum.DamageTaken,
		sum.Health, sum.ForcePoints, sum.Integrity,
	), nil
}

func runBoss(cfg config.Config, id string, scripted bool, deps boss.Deps, p *pilot) ([]string, string, error) {
	roster, err := loadRoster(cfg.Content)
	if err != nil {
		return nil, "", fmt.Errorf("loading bosses: %w", err)
	}
	b, err := roster.Spawn(id)
	if err != nil {
		return nil, "", err
	}
	scripts, err := loadScripts(cfg.Content, dice.NewLoggedRoller(deps.Source, deps.Logger), deps.Logger)
	if err != nil {
		return nil, "", fmt.Errorf("loading scripts: %w", err)
	}
	defer scripts.Close()
	deps.Hooks = scripts

	e, err := boss.NewEncounter(deps, cfg.Rules.Rules())
	if err != nil {
		return nil, "", err
	}
	if err := e.Start(b, scripted); err != nil {
		return nil, "", err
	}
	if err := p.runBoss(e); err != nil {
		return nil, "", err
	}
	sum := e.Summary()
	return e.Log(), fmt.Sprintf(
		"outcome=%s scripted_loss=%t turns=%d boss_hp=%d%% phase=%s dealt=%d force_uses=%d physical_uses=%d hp=%d fp=%d",
		sum.Outcome, sum.ScriptedLoss, sum.Turns, sum.BossHPPercent, sum.Phase,
		sum.DamageDealt, sum.ForceUses, sum.PhysicalUses, sum.Health, sum.ForcePoints,
	), nil
}
