package opponent_test

import (
	"testing"

	"github.com/cory-johannsen/darklord/internal/game/opponent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newBoss(maxHP int, thresholds map[opponent.Phase]int) *opponent.Boss {
	return &opponent.Boss{
		Opponent:        &opponent.Opponent{ID: "b", Name: "Boss", MaxHP: maxHP, CurrentHP: maxHP, Morale: 100},
		Phase:           opponent.Phase1,
		PhaseThresholds: thresholds,
	}
}

func TestBoss_PhaseTransition(t *testing.T) {
	b := newBoss(100, map[opponent.Phase]int{opponent.Phase2: 60})
	b.CurrentHP = 61

	_, killed := b.TakeDamage(2)
	require.False(t, killed)
	assert.Equal(t, 59, b.CurrentHP)
	assert.Equal(t, opponent.Phase2, b.Phase)

	b.TakeDamage(19)
	assert.Equal(t, 40, b.CurrentHP)
	assert.Equal(t, opponent.Phase2, b.Phase)
}

func TestBoss_JumpsToHighestCrossedPhase(t *testing.T) {
	b := newBoss(100, map[opponent.Phase]int{opponent.Phase2: 60, opponent.Final: 20})
	b.TakeDamage(85)
	assert.Equal(t, opponent.Final, b.Phase)
}

func TestBoss_NoTransitionOnDeath(t *testing.T) {
	b := newBoss(100, map[opponent.Phase]int{opponent.Phase2: 60})
	_, killed := b.TakeDamage(500)
	assert.True(t, killed)
	assert.Equal(t, opponent.Phase1, b.Phase)
}

// TestBoss_PhaseMonotonic_Property verifies the phase ordinal never decreases.
func TestBoss_PhaseMonotonic_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		b := newBoss(rapid.IntRange(50, 300).Draw(rt, "max"), map[opponent.Phase]int{
			opponent.Phase2: rapid.IntRange(1, 99).Draw(rt, "p2"),
			opponent.Phase3: rapid.IntRange(1, 99).Draw(rt, "p3"),
			opponent.Final:  rapid.IntRange(1, 99).Draw(rt, "final"),
		})
		for _, n := range rapid.SliceOfN(rapid.IntRange(0, 60), 1, 30).Draw(rt, "hits") {
			before := b.Phase
			if !b.IsAlive() {
				break
			}
			if n%7 == 0 {
				b.Heal(n)
			} else {
				b.TakeDamage(n)
			}
			if b.Phase < before {
				rt.Fatalf("phase regressed from %s to %s", before, b.Phase)
			}
		}
	})
}

func TestBoss_ShouldPause(t *testing.T) {
	b := newBoss(100, nil)
	b.CurrentHP = 60
	assert.True(t, b.ShouldPause(60))
	b.CurrentHP = 56
	assert.True(t, b.ShouldPause(60))
	b.CurrentHP = 55
	assert.False(t, b.ShouldPause(60))
	b.CurrentHP = 61
	assert.False(t, b.ShouldPause(60))
}

func TestTrigger_Matches(t *testing.T) {
	hp, turn := 50, 8
	tr := opponent.Trigger{HPThreshold: &hp}
	assert.True(t, tr.Matches(50, 1, opponent.Phase1))
	assert.False(t, tr.Matches(51, 1, opponent.Phase1))

	tt := opponent.Trigger{Turn: &turn}
	assert.True(t, tt.Matches(100, 8, opponent.Phase1))
	assert.False(t, tt.Matches(100, 9, opponent.Phase1))

	tp := opponent.Trigger{Phase: opponent.Phase2}
	assert.True(t, tp.Matches(100, 1, opponent.Phase2))
	assert.False(t, tp.Matches(100, 1, opponent.Phase1))
}

func TestDefaultBossRoster(t *testing.T) {
	r := opponent.DefaultBossRoster()
	assert.Equal(t, []string{
		"grand_inquisitor", "infila_final_phase1", "infila_final_phase2_easy",
		"infila_final_phase2_hard", "infila_first",
	}, r.IDs())

	first, err := r.Spawn("infila_first")
	require.NoError(t, err)
	assert.Equal(t, 120, first.MaxHP)
	assert.Equal(t, 15, first.Defense)
	assert.Equal(t, 60, first.ForceResistance)
	assert.Equal(t, 60, first.PhaseThresholds[opponent.Phase2])
	require.NotNil(t, first.ScriptedLoss)
	assert.Equal(t, opponent.ScriptedLoss{Turn: 8, HealthPercent: 30}, *first.ScriptedLoss)
	assert.Len(t, first.Actions, 4)
	assert.Equal(t, "on_leg_breaks", first.Triggers[2].Hook)
	assert.Equal(t, opponent.Defensive, first.Behavior)

	hard, err := r.Spawn("infila_final_phase2_hard")
	require.NoError(t, err)
	assert.Equal(t, 90, hard.CurrentHP)
	assert.Equal(t, opponent.Phase2, hard.Phase)

	gi, err := r.Spawn("grand_inquisitor")
	require.NoError(t, err)
	assert.Equal(t, opponent.Phase2, gi.Actions[2].RequiresPhase)
	assert.Equal(t, opponent.Phase2, gi.Triggers[1].Phase)
}

func TestBossTemplate_SpawnIsolatesState(t *testing.T) {
	r := opponent.DefaultBossRoster()
	a, err := r.Spawn("infila_first")
	require.NoError(t, err)
	a.Actions[0].CurrentCooldown = 3
	a.Triggers[0].Fired = true

	b, err := r.Spawn("infila_first")
	require.NoError(t, err)
	assert.Equal(t, 0, b.Actions[0].CurrentCooldown)
	assert.False(t, b.Triggers[0].Fired)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestBoss_TickCooldowns(t *testing.T) {
	b := newBoss(100, nil)
	b.Actions = []*opponent.SpecialAction{{ID: "x", CurrentCooldown: 1}, {ID: "y"}}
	b.TickCooldowns()
	assert.Equal(t, 0, b.Actions[0].CurrentCooldown)
	assert.Equal(t, 0, b.Actions[1].CurrentCooldown)
}

func TestLoadBossRosterFromBytes_Rejects(t *testing.T) {
	cases := map[string]string{
		"bad phase":      "- {id: a, name: A, max_hp: 5, phase_thresholds: {phase9: 10}}\n",
		"no condition":   "- {id: a, name: A, max_hp: 5, triggers: [{id: t, kind: dialogue}]}\n",
		"bad kind":       "- {id: a, name: A, max_hp: 5, triggers: [{id: t, kind: song, turn: 1}]}\n",
		"dup action":     "- {id: a, name: A, max_hp: 5, actions: [{id: x}, {id: x}]}\n",
		"stun range":     "- {id: a, name: A, max_hp: 5, actions: [{id: x, stun_chance: 150}]}\n",
		"start hp":       "- {id: a, name: A, max_hp: 5, start_hp_percent: 120}\n",
		"unknown field":  "- {id: a, name: A, max_hp: 5, shield: 3}\n",
		"required phase": "- {id: a, name: A, max_hp: 5, actions: [{id: x, requires_phase: sixth}]}\n",
		"loss unset":     "- {id: a, name: A, max_hp: 5, scripted_loss: {}}\n",
		"loss percent":   "- {id: a, name: A, max_hp: 5, scripted_loss: {health_percent: 130}}\n",
		"loss turn":      "- {id: a, name: A, max_hp: 5, scripted_loss: {turn: -1, health_percent: 30}}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := opponent.LoadBossRosterFromBytes([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadBossRosterFromBytes_PartialScriptedLoss(t *testing.T) {
	r, err := opponent.LoadBossRosterFromBytes([]byte("- {id: a, name: A, max_hp: 5, scripted_loss: {health_percent: 30}}\n"))
	require.NoError(t, err)
	b, err := r.Spawn("a")
	require.NoError(t, err)
	require.NotNil(t, b.ScriptedLoss)
	assert.Equal(t, opponent.ScriptedLoss{HealthPercent: 30}, *b.ScriptedLoss)
}

var (
	_ opponent.Combatant = (*opponent.Opponent)(nil)
	_ opponent.Combatant = (*opponent.Boss)(nil)
)
