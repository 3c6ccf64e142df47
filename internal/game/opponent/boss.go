package opponent

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed content/bosses.yaml
var defaultBosses []byte

// Phase is an ordered boss-fight stage. PhaseNone marks "unset" in action
// and trigger requirements.
type Phase int

const (
	PhaseNone Phase = iota
	Phase1
	Phase2
	Phase3
	Final
)

var phaseNames = map[Phase]string{
	Phase1: "phase1",
	Phase2: "phase2",
	Phase3: "phase3",
	Final:  "final",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "none"
}

// ParsePhase converts a YAML name into a Phase. The empty string is PhaseNone.
func ParsePhase(s string) (Phase, error) {
	if s == "" {
		return PhaseNone, nil
	}
	for p, name := range phaseNames {
		if name == s {
			return p, nil
		}
	}
	return PhaseNone, fmt.Errorf("unknown phase %q", s)
}

// UnmarshalYAML decodes a phase from its name.
func (p *Phase) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParsePhase(value.Value)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// SpecialAction is a scripted boss move.
type SpecialAction struct {
	ID              string `yaml:"id"`
	Name            string `yaml:"name"`
	Description     string `yaml:"description"`
	Damage          int    `yaml:"damage"`
	StunChance      int    `yaml:"stun_chance"`
	ForceDrain      int    `yaml:"force_drain"`
	EquipmentDamage int    `yaml:"equipment_damage"`
	RequiresPhase   Phase  `yaml:"requires_phase"`
	// RequiresHPBelow gates the action to boss HP% strictly below it; 0 is unset.
	RequiresHPBelow int    `yaml:"requires_hp_below"`
	Cooldown        int    `yaml:"cooldown"`
	Animation       string `yaml:"animation"`

	CurrentCooldown int `yaml:"-"`
}

// TriggerKind classifies what a trigger surfaces to the caller.
type TriggerKind string

const (
	TriggerDialogue        TriggerKind = "dialogue"
	TriggerCutscene        TriggerKind = "cutscene"
	TriggerPhaseTransition TriggerKind = "phase_transition"
)

// ChoiceOption is one answer to a mid-fight choice prompt.
type ChoiceOption struct {
	ID   string `yaml:"id"`
	Text string `yaml:"text"`
}

// Trigger is a one-shot scripted event. Any one of its set conditions fires it.
type Trigger struct {
	ID          string      `yaml:"id"`
	Kind        TriggerKind `yaml:"kind"`
	HPThreshold *int        `yaml:"hp_threshold"`
	Turn        *int        `yaml:"turn"`
	Phase       Phase       `yaml:"phase"`

	Dialogue      string         `yaml:"dialogue"`
	Cutscene      string         `yaml:"cutscene"`
	ChoicePrompt  string         `yaml:"choice_prompt"`
	ChoiceOptions []ChoiceOption `yaml:"choice_options"`
	// Hook names a Lua function invoked when the trigger fires.
	Hook string `yaml:"hook"`

	Fired bool `yaml:"-"`
}

// Matches reports whether the trigger's conditions hold for the given state.
func (t *Trigger) Matches(hpPercent, turn int, phase Phase) bool {
	if t.HPThreshold != nil && hpPercent <= *t.HPThreshold {
		return true
	}
	if t.Turn != nil && turn == *t.Turn {
		return true
	}
	return t.Phase != PhaseNone && phase == t.Phase
}

// ScriptedLoss configures a forced narrative defeat.
type ScriptedLoss struct {
	Turn          int `yaml:"turn"`
	HealthPercent int `yaml:"health_percent"`
}

// DefaultScriptedLoss is used when a boss enables scripted loss without settings.
var DefaultScriptedLoss = ScriptedLoss{Turn: 8, HealthPercent: 30}

// Boss is an Opponent extended with phases, special actions and triggers.
type Boss struct {
	*Opponent

	Title           string
	Phase           Phase
	PhaseThresholds map[Phase]int
	Actions         []*SpecialAction
	Triggers        []*Trigger
	Aggressive      bool
	Adaptive        bool
	ScriptedLoss    *ScriptedLoss

	ForceUses     int
	PhysicalUses  int
	DamageTaken   int
	TurnsSurvived int
}

// TakeDamage applies damage and, while the boss survives, advances the phase
// to the highest threshold crossed whose ordinal exceeds the current phase.
//
// Postcondition: Phase never decreases.
func (b *Boss) TakeDamage(amount int) (dealt int, killed bool) {
	dealt, killed = b.Opponent.TakeDamage(amount)
	b.DamageTaken += dealt
	if killed {
		return dealt, true
	}
	hp := b.HPPercent()
	next := b.Phase
	for phase, threshold := range b.PhaseThresholds {
		if hp <= threshold && phase > next {
			next = phase
		}
	}
	b.Phase = next
	return dealt, false
}

// ShouldPause reports whether HP% lies in (threshold-5, threshold], the window
// in which a fight pauses for a story choice.
func (b *Boss) ShouldPause(threshold int) bool {
	hp := b.HPPercent()
	return hp <= threshold && hp > threshold-5
}

// TickCooldowns decrements every non-zero special action cooldown.
func (b *Boss) TickCooldowns() {
	for _, a := range b.Actions {
		if a.CurrentCooldown > 0 {
			a.CurrentCooldown--
		}
	}
}

// BossTemplate defines a boss loaded from YAML.
type BossTemplate struct {
	ID                   string          `yaml:"id"`
	Name                 string          `yaml:"name"`
	Title                string          `yaml:"title"`
	MaxHP                int             `yaml:"max_hp"`
	StartHPPercent       int             `yaml:"start_hp_percent"`
	BaseDamage           int             `yaml:"base_damage"`
	Defense              int             `yaml:"defense"`
	StartPhase           Phase           `yaml:"start_phase"`
	PhaseThresholds      map[string]int  `yaml:"phase_thresholds"`
	ForceResistance      int             `yaml:"force_resistance"`
	LightsaberResistance int             `yaml:"lightsaber_resistance"`
	Aggressive           bool            `yaml:"aggressive"`
	Adaptive             bool            `yaml:"adaptive"`
	Experience           int             `yaml:"experience"`
	ScriptedLoss         *ScriptedLoss   `yaml:"scripted_loss"`
	Actions              []SpecialAction `yaml:"actions"`
	Triggers             []Trigger       `yaml:"triggers"`

	thresholds map[Phase]int
}

// Validate checks template invariants and resolves phase names.
//
// Postcondition: StartPhase is at least Phase1 and StartHPPercent in [1,100].
func (t *BossTemplate) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("boss template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("boss template %q: name must not be empty", t.ID)
	}
	if t.MaxHP < 1 {
		return fmt.Errorf("boss template %q: max_hp must be >= 1", t.ID)
	}
	if t.StartHPPercent < 0 || t.StartHPPercent > 100 {
		return fmt.Errorf("boss template %q: start_hp_percent must be in [0,100]", t.ID)
	}
	if t.StartHPPercent == 0 {
		t.StartHPPercent = 100
	}
	if t.StartPhase == PhaseNone {
		t.StartPhase = Phase1
	}
	if err := checkPercent(t.ID, "force_resistance", t.ForceResistance); err != nil {
		return err
	}
	if err := checkPercent(t.ID, "lightsaber_resistance", t.LightsaberResistance); err != nil {
		return err
	}
	t.thresholds = make(map[Phase]int, len(t.PhaseThresholds))
	for name, pct := range t.PhaseThresholds {
		p, err := ParsePhase(name)
		if err != nil || p == PhaseNone {
			return fmt.Errorf("boss template %q: unknown phase %q", t.ID, name)
		}
		if pct < 0 || pct > 100 {
			return fmt.Errorf("boss template %q: phase %s threshold must be in [0,100]", t.ID, name)
		}
		t.thresholds[p] = pct
	}
	seen := make(map[string]bool, len(t.Actions))
	for _, a := range t.Actions {
		if a.ID == "" || seen[a.ID] {
			return fmt.Errorf("boss template %q: action ids must be unique and non-empty", t.ID)
		}
		seen[a.ID] = true
		if a.Damage < 0 || a.Cooldown < 0 || a.ForceDrain < 0 || a.EquipmentDamage < 0 {
			return fmt.Errorf("boss template %q: action %q has a negative value", t.ID, a.ID)
		}
		if a.StunChance < 0 || a.StunChance > 100 {
			return fmt.Errorf("boss template %q: action %q stun_chance must be in [0,100]", t.ID, a.ID)
		}
	}
	if sl := t.ScriptedLoss; sl != nil {
		if sl.Turn < 0 {
			return fmt.Errorf("boss template %q: scripted_loss turn must be >= 0", t.ID)
		}
		if err := checkPercent(t.ID, "scripted_loss health_percent", sl.HealthPercent); err != nil {
			return err
		}
		if sl.Turn == 0 && sl.HealthPercent == 0 {
			return fmt.Errorf("boss template %q: scripted_loss needs a turn or health_percent", t.ID)
		}
	}
	for _, tr := range t.Triggers {
		switch tr.Kind {
		case TriggerDialogue, TriggerCutscene, TriggerPhaseTransition:
		default:
			return fmt.Errorf("boss template %q: trigger %q has unknown kind %q", t.ID, tr.ID, tr.Kind)
		}
		if tr.HPThreshold == nil && tr.Turn == nil && tr.Phase == PhaseNone {
			return fmt.Errorf("boss template %q: trigger %q has no condition", t.ID, tr.ID)
		}
	}
	return nil
}

// Spawn builds a fresh boss. Actions and triggers are copied so that runtime
// state never leaks between encounters.
func (t *BossTemplate) Spawn() *Boss {
	hp := max(1, t.MaxHP*t.StartHPPercent/100)
	b := &Boss{
		Opponent: &Opponent{
			ID:                   t.ID + "-" + uuid.NewString(),
			TemplateID:           t.ID,
			Name:                 t.Name,
			MaxHP:                t.MaxHP,
			CurrentHP:            hp,
			AttackDamage:         t.BaseDamage,
			Defense:              t.Defense,
			Behavior:             Tactical,
			Morale:               DefaultMorale,
			ForceSensitive:       true,
			ForceResistance:      t.ForceResistance,
			LightsaberResistance: t.LightsaberResistance,
			Experience:           t.Experience,
		},
		Title:           t.Title,
		Phase:           t.StartPhase,
		PhaseThresholds: make(map[Phase]int, len(t.thresholds)),
		Aggressive:      t.Aggressive,
		Adaptive:        t.Adaptive,
	}
	if !t.Aggressive {
		b.Behavior = Defensive
	}
	for p, pct := range t.thresholds {
		b.PhaseThresholds[p] = pct
	}
	for _, a := range t.Actions {
		action := a
		b.Actions = append(b.Actions, &action)
	}
	for _, tr := range t.Triggers {
		trigger := tr
		trigger.ChoiceOptions = append([]ChoiceOption(nil), tr.ChoiceOptions...)
		b.Triggers = append(b.Triggers, &trigger)
	}
	if t.ScriptedLoss != nil {
		sl := *t.ScriptedLoss
		b.ScriptedLoss = &sl
	}
	return b
}

// BossRoster is a registry of boss templates keyed by id.
type BossRoster struct {
	templates map[string]*BossTemplate
}

// NewBossRoster validates templates and indexes them by id.
func NewBossRoster(templates []*BossTemplate) (*BossRoster, error) {
	r := &BossRoster{templates: make(map[string]*BossTemplate, len(templates))}
	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.templates[t.ID]; dup {
			return nil, fmt.Errorf("boss template %q: duplicate id", t.ID)
		}
		r.templates[t.ID] = t
	}
	return r, nil
}

// DefaultBossRoster returns the embedded boss roster.
func DefaultBossRoster() *BossRoster {
	r, err := LoadBossRosterFromBytes(defaultBosses)
	if err != nil {
		panic("opponent: embedded boss roster invalid: " + err.Error())
	}
	return r
}

// LoadBossRosterFromBytes parses a YAML list of boss templates.
func LoadBossRosterFromBytes(data []byte) (*BossRoster, error) {
	var templates []*BossTemplate
	if err := decodeStrict(data, &templates); err != nil {
		return nil, fmt.Errorf("parsing boss YAML: %w", err)
	}
	return NewBossRoster(templates)
}

// LoadBossRoster reads every *.yaml file in dir.
func LoadBossRoster(dir string) (*BossRoster, error) {
	var all []*BossTemplate
	err := eachYAML(dir, func(path string, data []byte) error {
		var templates []*BossTemplate
		if err := decodeStrict(data, &templates); err != nil {
			return fmt.Errorf("loading %q: %w", path, err)
		}
		all = append(all, templates...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewBossRoster(all)
}

// Get returns the template for id.
func (r *BossRoster) Get(id string) (*BossTemplate, bool) {
	t, ok := r.templates[id]
	return t, ok
}

// IDs returns every boss id in sorted order.
func (r *BossRoster) IDs() []string {
	ids := make([]string, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Spawn builds a fresh boss from template id.
func (r *BossRoster) Spawn(id string) (*Boss, error) {
	t, ok := r.templates[id]
	if !ok {
		return nil, fmt.Errorf("unknown boss template %q", id)
	}
	return t.Spawn(), nil
}
