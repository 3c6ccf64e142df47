package combat_test

import (
	"errors"
	"testing"

	"github.com/cory-johannsen/darklord/internal/game/ability"
	"github.com/cory-johannsen/darklord/internal/game/actor"
	"github.com/cory-johannsen/darklord/internal/game/combat"
	"github.com/cory-johannsen/darklord/internal/game/dice"
	"github.com/cory-johannsen/darklord/internal/game/opponent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"
)

// fixedSrc returns values from a fixed slice, cycling when exhausted.
type fixedSrc struct {
	vals []int
	pos  int
}

func (f *fixedSrc) Intn(n int) int {
	v := f.vals[f.pos%len(f.vals)]
	f.pos++
	return v % n
}

// always passes every percentile check.
func always() *fixedSrc { return &fixedSrc{vals: []int{0}} }

// never fails every percentile check.
func never() *fixedSrc { return &fixedSrc{vals: []int{99}} }

func testCatalog(t *testing.T) *ability.Catalog {
	t.Helper()
	c, err := ability.NewCatalog([]*ability.Ability{
		{ID: "choke", Name: "Force Choke", Tier: ability.TierBasic, Cost: 20, BaseDamage: 30, Learned: true},
		{ID: "wave", Name: "Force Wave", Tier: ability.TierAdvanced, Cost: 10, BaseDamage: 20, AreaEffect: true, Learned: true},
		{ID: "nova", Name: "Dark Nova", Tier: ability.TierLegendary, Cost: 1, Learned: true},
		{ID: "rift", Name: "Rift", Tier: ability.TierMaster, Cost: 10, BaseDamage: 10},
		{ID: "rage", Name: "Force Rage", Tier: ability.TierAdvanced, Cost: 20, Duration: 4, ScalesWithRage: true, Learned: true},
	})
	require.NoError(t, err)
	return c
}

type fixture struct {
	actor   *actor.Actor
	suit    *actor.Suit
	catalog *ability.Catalog
	session *combat.Session
}

func newFixture(t *testing.T, src dice.Source, opponents ...*opponent.Opponent) *fixture {
	t.Helper()
	f := &fixture{actor: actor.New("Vader"), suit: actor.NewSuit(), catalog: testCatalog(t)}
	s, err := combat.NewSession(combat.Deps{
		Actor:     f.actor,
		Equipment: f.suit,
		Abilities: f.catalog,
		Source:    src,
		Logger:    zap.NewNop(),
	}, combat.DefaultRules())
	require.NoError(t, err)
	require.NoError(t, s.Start(opponents))
	f.session = s
	return f
}

func trooper(id string, hp int) *opponent.Opponent {
	return &opponent.Opponent{
		ID:           id,
		Name:         "Trooper " + id,
		MaxHP:        hp,
		CurrentHP:    hp,
		AttackDamage: 20,
		Behavior:     opponent.Aggressive,
		Morale:       opponent.DefaultMorale,
		Credits:      7,
		Experience:   10,
	}
}

func TestNewSession_Validation(t *testing.T) {
	_, err := combat.NewSession(combat.Deps{}, combat.DefaultRules())
	assert.Error(t, err)

	rules := combat.DefaultRules()
	rules.RetreatChance = 150
	rules.EnemyForceDamage = "lots"
	_, err = combat.NewSession(combat.Deps{
		Actor: actor.New("a"), Equipment: actor.NewSuit(), Abilities: testCatalog(t), Source: always(),
	}, rules)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retreat_chance")
	assert.Contains(t, err.Error(), "enemy_force_damage")
}

func TestStart(t *testing.T) {
	f := newFixture(t, never(), trooper("a", 50))
	assert.Equal(t, combat.StateActive, f.session.State())
	assert.Equal(t, 1, f.session.Turn())
	assert.Equal(t, combat.OutcomeNone, f.session.Victory())
	assert.Equal(t, "=== COMBAT START ===", f.session.Log()[0])

	assert.Error(t, f.session.Start([]*opponent.Opponent{trooper("b", 10)}), "cannot restart")
}

func TestStart_Empty(t *testing.T) {
	s, err := combat.NewSession(combat.Deps{
		Actor: actor.New("a"), Equipment: actor.NewSuit(), Abilities: testCatalog(t), Source: always(),
	}, combat.DefaultRules())
	require.NoError(t, err)
	assert.ErrorIs(t, s.Start(nil), combat.ErrNoOpponents)
	assert.Equal(t, combat.StateNotStarted, s.State())
	_, err = s.Attack("x")
	assert.ErrorIs(t, err, combat.ErrInactive)
}

func TestAttack_KillGrantsRewards(t *testing.T) {
	f := newFixture(t, never(), trooper("a", 50))
	f.actor.ForcePoints = 50

	res, err := f.session.Attack("a")
	require.NoError(t, err)
	assert.Equal(t, 58, res.Damage)
	assert.True(t, res.Killed)
	require.NotNil(t, res.Reward)
	assert.Equal(t, 5, res.Reward.ForcePoints)
	assert.Equal(t, 55, f.actor.ForcePoints)
	assert.Equal(t, 7, f.actor.Credits)
	assert.Equal(t, 10, f.actor.Experience)

	turn, err := f.session.EndTurn()
	require.NoError(t, err)
	assert.Equal(t, combat.TotalVictory, turn.Outcome)
	assert.Equal(t, 2, turn.Turn)
	assert.Equal(t, 65, f.actor.ForcePoints)
	assert.Equal(t, combat.StateEnded, f.session.State())

	sum := f.session.Summary()
	assert.Equal(t, 1, sum.Kills)
	assert.Equal(t, 58, sum.DamageDealt)
	assert.Equal(t, "total_victory", sum.Outcome.String())
}

func TestAttack_MarksHelpless(t *testing.T) {
	target := trooper("a", 100)
	target.CurrentHP = 80
	f := newFixture(t, never(), target)

	res, err := f.session.Attack("a")
	require.NoError(t, err)
	assert.False(t, res.Killed)
	assert.True(t, res.Helpless)
	assert.Equal(t, []string{"a"}, f.session.Helpless())
	assert.Contains(t, f.session.AvailableActions(), combat.ActionExecute)
}

func TestAttack_AppliesPenaltyAndResistance(t *testing.T) {
	target := trooper("a", 500)
	target.LightsaberResistance = 10
	f := newFixture(t, never(), target)
	f.suit.Damage(100) // pain 40 -> 90, penalty 1

	res, err := f.session.Attack("a")
	require.NoError(t, err)
	assert.Equal(t, 40+18-1-10, res.Damage)
}

func TestAttack_InvalidTarget(t *testing.T) {
	f := newFixture(t, never(), trooper("a", 50))
	_, err := f.session.Attack("nobody")
	var target *combat.InvalidTargetError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "nobody", target.ID)
}

func TestUseAbility_InsufficientForceIsRejected(t *testing.T) {
	f := newFixture(t, never(), trooper("a", 100))
	f.actor.ForcePoints = 5

	_, err := f.session.UseAbility("choke", "a")
	var short *ability.InsufficientResourceError
	require.True(t, errors.As(err, &short))
	assert.Equal(t, 20, short.Needed)
	assert.Equal(t, 5, short.Have)
	assert.Equal(t, 5, f.actor.ForcePoints)
	assert.Equal(t, 0, f.catalog.Cooldown("choke"))
	assert.Equal(t, 100, f.session.Opponents()[0].CurrentHP)
}

func TestUseAbility_NotLearned(t *testing.T) {
	f := newFixture(t, never(), trooper("a", 100))
	_, err := f.session.UseAbility("rift", "a")
	var nl *ability.NotLearnedError
	assert.True(t, errors.As(err, &nl))
	assert.Equal(t, 100, f.actor.ForcePoints)
}

func TestUseAbility_InvalidTargetSpendsNothing(t *testing.T) {
	f := newFixture(t, never(), trooper("a", 100))
	_, err := f.session.UseAbility("choke", "ghost")
	var target *combat.InvalidTargetError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, 100, f.actor.ForcePoints)
	assert.Equal(t, 0, f.catalog.Uses("choke"))
}

func TestUseAbility_ResistanceHalvesDamage(t *testing.T) {
	target := trooper("a", 100)
	target.ForceResistance = 50
	f := newFixture(t, always(), target)

	res, err := f.session.UseAbility("choke", "a")
	require.NoError(t, err)
	require.Len(t, res.Hits, 1)
	assert.True(t, res.Hits[0].Resisted)
	assert.Equal(t, 15, res.Hits[0].Damage)
	assert.Equal(t, 85, target.CurrentHP)
	assert.Equal(t, 80, f.actor.ForcePoints)
}

func TestUseAbility_ScalingOnlyDamageReachesTarget(t *testing.T) {
	target := trooper("a", 100)
	f := newFixture(t, never(), target)

	// rage 60: (60/10)*3
	res, err := f.session.UseAbility("rage", "a")
	require.NoError(t, err)
	assert.Equal(t, 18, res.Damage)
	require.Len(t, res.Hits, 1)
	assert.Equal(t, 18, res.Hits[0].Damage)
	assert.Equal(t, 82, target.CurrentHP)
	assert.Equal(t, 80, f.actor.ForcePoints)
}

func TestUseAbility_ScalingOnlyNeedsTarget(t *testing.T) {
	f := newFixture(t, never(), trooper("a", 100))
	_, err := f.session.UseAbility("rage", "ghost")
	var target *combat.InvalidTargetError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, 100, f.actor.ForcePoints)
}

func TestUseAbility_AreaHitsEveryLiveOpponent(t *testing.T) {
	a, b, c := trooper("a", 15), trooper("b", 100), trooper("c", 100)
	c.Flee()
	f := newFixture(t, never(), a, b, c)

	res, err := f.session.UseAbility("wave", "")
	require.NoError(t, err)
	require.Len(t, res.Hits, 2)
	assert.Equal(t, []string{"a"}, res.Kills)
	require.Len(t, res.Rewards, 1)
	assert.Equal(t, 80, b.CurrentHP)
	assert.Equal(t, 100, c.CurrentHP)
}

func TestUseAbility_LegendaryExhaustion(t *testing.T) {
	f := newFixture(t, never(), trooper("a", 100))
	for i := 0; i < 2; i++ {
		res, err := f.session.UseAbility("nova", "")
		require.NoError(t, err)
		assert.False(t, res.Exhausted)
	}
	res, err := f.session.UseAbility("nova", "")
	require.NoError(t, err)
	assert.True(t, res.Exhausted)
	assert.Equal(t, ability.LegendaryExhaustionTurns, f.actor.ExhaustionTurns)
	assert.Equal(t, 0, f.catalog.LegendaryUses())
}

func TestDefend_HalvesEnemyAttackForOneTurn(t *testing.T) {
	f := newFixture(t, never(), trooper("a", 100))
	require.NoError(t, f.session.Defend())
	assert.True(t, f.session.Defending())

	rep, err := f.session.EnemyTurn()
	require.NoError(t, err)
	require.Len(t, rep.Actions, 1)
	assert.Equal(t, combat.EnemyAttack, rep.Actions[0].Kind)
	assert.Equal(t, 140, f.actor.Health)

	_, err = f.session.EndTurn()
	require.NoError(t, err)
	assert.False(t, f.session.Defending())

	_, err = f.session.EnemyTurn()
	require.NoError(t, err)
	assert.Equal(t, 120, f.actor.Health)
	assert.Equal(t, 30, f.session.Summary().DamageTaken)
}

func TestEnemyTurn_EquipmentDamage(t *testing.T) {
	f := newFixture(t, &fixedSrc{vals: []int{0, 2}}, trooper("a", 100))
	rep, err := f.session.EnemyTurn()
	require.NoError(t, err)
	assert.Equal(t, 4, rep.Actions[0].EquipmentDamage)
	assert.Equal(t, 96, f.suit.Integrity())
}

func TestEnemyTurn_DefeatEndsImmediately(t *testing.T) {
	f := newFixture(t, never(), trooper("a", 100), trooper("b", 100))
	f.actor.Health = 10
	f.actor.Psyche.Rage = 0

	rep, err := f.session.EnemyTurn()
	require.NoError(t, err)
	assert.True(t, rep.Defeated)
	assert.Len(t, rep.Actions, 1)
	assert.Equal(t, combat.Defeat, f.session.Victory())
	assert.Equal(t, "=== DEFEATED ===", f.session.Log()[len(f.session.Log())-1])

	_, err = f.session.Attack("a")
	assert.ErrorIs(t, err, combat.ErrInactive)
	_, err = f.session.EndTurn()
	assert.ErrorIs(t, err, combat.ErrInactive)
	assert.Nil(t, f.session.AvailableActions())
}

func TestEnemyTurn_RageSave(t *testing.T) {
	f := newFixture(t, never(), trooper("a", 100))
	f.actor.Health = 10
	f.actor.Psyche.Rage = 90

	rep, err := f.session.EnemyTurn()
	require.NoError(t, err)
	assert.False(t, rep.Defeated)
	assert.Equal(t, 1, f.actor.Health)
	assert.True(t, f.session.Active())
}

func TestEnemyTurn_LowMoraleFlees(t *testing.T) {
	o := trooper("a", 100)
	o.Morale = 10
	f := newFixture(t, always(), o)

	rep, err := f.session.EnemyTurn()
	require.NoError(t, err)
	assert.Equal(t, combat.EnemyFled, rep.Actions[0].Kind)
	assert.True(t, o.Fled())
	assert.Equal(t, 150, f.actor.Health)

	turn, err := f.session.EndTurn()
	require.NoError(t, err)
	assert.Equal(t, combat.TotalVictory, turn.Outcome)
	assert.Equal(t, 0, f.session.Summary().Kills)
}

func TestEnemyTurn_ForceSensitiveNeverFlees(t *testing.T) {
	o := trooper("a", 100)
	o.Morale = 0
	o.ForceSensitive = true
	f := newFixture(t, always(), o)

	rep, err := f.session.EnemyTurn()
	require.NoError(t, err)
	assert.Equal(t, combat.EnemyAttack, rep.Actions[0].Kind)
}

func TestEnemyTurn_FearedCowers(t *testing.T) {
	o := trooper("a", 100)
	o.Feared = true
	f := newFixture(t, always(), o)

	rep, err := f.session.EnemyTurn()
	require.NoError(t, err)
	assert.Equal(t, combat.EnemyCowered, rep.Actions[0].Kind)
}

func TestEnemyTurn_StunConsumed(t *testing.T) {
	o := trooper("a", 100)
	o.Stunned = true
	f := newFixture(t, never(), o)

	rep, err := f.session.EnemyTurn()
	require.NoError(t, err)
	assert.Equal(t, combat.EnemyStunned, rep.Actions[0].Kind)
	assert.False(t, o.Stunned)
	assert.Equal(t, 150, f.actor.Health)
}

func TestEnemyTurn_Behaviors(t *testing.T) {
	cases := []struct {
		name     string
		behavior opponent.Behavior
		hp       int
		fs       bool
		want     combat.EnemyActionKind
	}{
		{"aggressive wounded", opponent.Aggressive, 10, false, combat.EnemyAttack},
		{"defensive wounded", opponent.Defensive, 39, false, combat.EnemyDefend},
		{"defensive healthy", opponent.Defensive, 40, false, combat.EnemyAttack},
		{"tactical wounded", opponent.Tactical, 29, true, combat.EnemyDefend},
		{"tactical resourced", opponent.Tactical, 100, true, combat.EnemyForce},
		{"tactical mundane", opponent.Tactical, 100, false, combat.EnemyAttack},
		{"calculated wounded", opponent.Calculated, 10, false, combat.EnemyAttack},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := trooper("a", 100)
			o.CurrentHP = tc.hp
			o.Behavior = tc.behavior
			o.ForceSensitive = tc.fs
			o.ForcePoints = 30
			f := newFixture(t, never(), o)

			rep, err := f.session.EnemyTurn()
			require.NoError(t, err)
			assert.Equal(t, tc.want, rep.Actions[0].Kind)
		})
	}
}

func TestEnemyTurn_TacticalForceAttack(t *testing.T) {
	o := trooper("a", 100)
	o.Behavior = opponent.Tactical
	o.ForceSensitive = true
	o.ForcePoints = 30
	f := newFixture(t, always(), o)
	require.NoError(t, f.session.Defend())

	rep, err := f.session.EnemyTurn()
	require.NoError(t, err)
	assert.Equal(t, 15, rep.Actions[0].Damage)
	assert.Equal(t, 135, f.actor.Health)
	assert.Equal(t, 10, o.ForcePoints)
}

func TestEndTurn_ClearsOpponentDefend(t *testing.T) {
	o := trooper("a", 100)
	o.CurrentHP = 30
	o.Behavior = opponent.Defensive
	f := newFixture(t, never(), o)

	_, err := f.session.EnemyTurn()
	require.NoError(t, err)
	assert.True(t, o.Defending)
	_, err = f.session.EndTurn()
	require.NoError(t, err)
	assert.False(t, o.Defending)
}

func TestEndTurn_IntimidationVictory(t *testing.T) {
	o := trooper("a", 100)
	o.Feared = true
	o.Morale = 0
	f := newFixture(t, never(), o)

	rep, err := f.session.EndTurn()
	require.NoError(t, err)
	assert.Equal(t, combat.IntimidationVictory, rep.Outcome)
}

func TestExecute_Brutal(t *testing.T) {
	target, other := trooper("a", 100), trooper("b", 100)
	target.CurrentHP = 10
	other.Morale = 60
	f := newFixture(t, never(), target, other)

	res, err := f.session.Execute("a", combat.MethodBrutal)
	require.NoError(t, err)
	assert.True(t, res.Killed)
	assert.True(t, target.Dead())
	assert.Equal(t, 60, f.actor.Psyche.Darkness)
	assert.Equal(t, 35, f.actor.Psyche.Control)
	assert.Equal(t, "Deep in the Dark Side", res.Alignment)
	assert.Equal(t, 10, other.Morale)
	assert.True(t, other.Feared)
	assert.Equal(t, []string{"b"}, res.Feared)
	require.NotNil(t, res.Reward)
	assert.Empty(t, f.session.Helpless())
}

func TestExecute_Choke(t *testing.T) {
	target, other := trooper("a", 100), trooper("b", 100)
	target.CurrentHP = 10
	f := newFixture(t, never(), target, other)

	_, err := f.session.Execute("a", combat.MethodChoke)
	require.NoError(t, err)
	assert.Equal(t, 55, f.actor.Psyche.Darkness)
	assert.Equal(t, 70, other.Morale)
	assert.False(t, other.Feared)
}

func TestExecute_SpareGrantsNoKill(t *testing.T) {
	target := trooper("a", 100)
	target.CurrentHP = 10
	f := newFixture(t, never(), target)

	res, err := f.session.Execute("a", combat.MethodSpare)
	require.NoError(t, err)
	assert.False(t, res.Killed)
	assert.Nil(t, res.Reward)
	assert.True(t, target.Spared())
	assert.Equal(t, 47, f.actor.Psyche.Darkness)
	assert.Equal(t, 45, f.actor.Psyche.Control)
	assert.Equal(t, 0, f.actor.Credits)
	assert.Equal(t, 0, f.session.Summary().Kills)
}

func TestExecute_Rejections(t *testing.T) {
	target := trooper("a", 100)
	f := newFixture(t, never(), target)

	_, err := f.session.Execute("a", combat.Method("gentle"))
	assert.ErrorIs(t, err, combat.ErrUnknownMethod)

	_, err = f.session.Execute("zz", combat.MethodQuick)
	var invalid *combat.InvalidTargetError
	assert.True(t, errors.As(err, &invalid))

	_, err = f.session.Execute("a", combat.MethodQuick)
	var illegal *combat.IllegalExecutionError
	require.True(t, errors.As(err, &illegal))
	assert.Equal(t, 100, target.CurrentHP)
	assert.Equal(t, 50, f.actor.Psyche.Darkness)
}

func TestMeditate(t *testing.T) {
	f := newFixture(t, never(), trooper("a", 100))
	assert.NotContains(t, f.session.AvailableActions(), combat.ActionMeditate)

	f.actor.ForcePoints = 40
	assert.Contains(t, f.session.AvailableActions(), combat.ActionMeditate)
	res, err := f.session.Meditate()
	require.NoError(t, err)
	assert.Equal(t, 30, res.Restored)
	assert.True(t, res.Vulnerable)
	assert.Equal(t, 70, f.actor.ForcePoints)
}

func TestRetreat(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFixture(t, always(), trooper("a", 100))
		res, err := f.session.Retreat()
		require.NoError(t, err)
		assert.True(t, res.Escaped)
		assert.Equal(t, combat.Retreat, f.session.Victory())
	})
	t.Run("blocked", func(t *testing.T) {
		f := newFixture(t, never(), trooper("a", 100))
		res, err := f.session.Retreat()
		assert.ErrorIs(t, err, combat.ErrRetreatBlocked)
		assert.Equal(t, 60, res.Chance)
		assert.True(t, f.session.Active())
	})
	t.Run("damaged suit improves odds", func(t *testing.T) {
		f := newFixture(t, &fixedSrc{vals: []int{79}}, trooper("a", 100))
		f.suit.Damage(60)
		res, err := f.session.Retreat()
		require.NoError(t, err)
		assert.Equal(t, 80, res.Chance)
	})
	t.Run("disallowed", func(t *testing.T) {
		f := newFixture(t, always(), trooper("a", 100))
		f.session.DisallowRetreat()
		assert.NotContains(t, f.session.AvailableActions(), combat.ActionRetreat)
		_, err := f.session.Retreat()
		assert.ErrorIs(t, err, combat.ErrRetreatBlocked)
	})
}

func TestResistanceCheck_ZeroResistanceNeverRolls(t *testing.T) {
	roller := dice.NewLoggedRoller(&fixedSrc{}, zap.NewNop())
	assert.NotPanics(t, func() {
		dmg, resisted := combat.ResistanceCheck(roller, 0, 31)
		assert.Equal(t, 31, dmg)
		assert.False(t, resisted)
	})
}

// TestResistanceCheck_Property verifies resisted damage is exactly half and
// unresisted damage is unchanged.
func TestResistanceCheck_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		resistance := rapid.IntRange(1, 100).Draw(rt, "resistance")
		damage := rapid.IntRange(0, 500).Draw(rt, "damage")
		roll := rapid.IntRange(0, 99).Draw(rt, "roll")
		roller := dice.NewLoggedRoller(&fixedSrc{vals: []int{roll}}, zap.NewNop())

		got, resisted := combat.ResistanceCheck(roller, resistance, damage)
		assert.Equal(rt, roll+1 <= resistance, resisted)
		if resisted {
			assert.Equal(rt, damage/2, got)
		} else {
			assert.Equal(rt, damage, got)
		}
	})
}

// TestAttackDamage_Floor_Property verifies the basic attack never drops below
// the minimum.
func TestAttackDamage_Floor_Property(t *testing.T) {
	rules := combat.DefaultRules()
	rapid.Check(t, func(rt *rapid.T) {
		str := rapid.IntRange(0, 100).Draw(rt, "strength")
		pen := rapid.IntRange(0, 100).Draw(rt, "penalty")
		res := rapid.IntRange(0, 200).Draw(rt, "resistance")
		assert.GreaterOrEqual(rt, combat.AttackDamage(rules, str, pen, res), rules.MinAttackDamage)
	})
}

func TestLifecycle_LogsTransitions(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := combat.NewLifecycle("test", zap.New(core))

	assert.Error(t, l.End())
	require.NoError(t, l.Start())
	assert.True(t, l.Active())
	require.NoError(t, l.End())
	assert.Equal(t, combat.StateEnded, l.State())
	assert.Error(t, l.Start())

	entries := logs.FilterMessage("encounter state change").All()
	require.Len(t, entries, 2)
	assert.Equal(t, combat.StateActive, entries[0].ContextMap()["to"])
	assert.Equal(t, combat.StateEnded, entries[1].ContextMap()["to"])
}

func TestSession_LogsKills(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s, err := combat.NewSession(combat.Deps{
		Actor: actor.New("a"), Equipment: actor.NewSuit(), Abilities: testCatalog(t),
		Source: never(), Logger: zap.New(core),
	}, combat.DefaultRules())
	require.NoError(t, err)
	require.NoError(t, s.Start([]*opponent.Opponent{trooper("a", 10)}))
	_, err = s.Attack("a")
	require.NoError(t, err)

	kills := logs.FilterMessage("opponent killed").All()
	require.Len(t, kills, 1)
	assert.Equal(t, "a", kills[0].ContextMap()["opponent"])
}
