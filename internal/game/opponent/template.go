package opponent

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed content/bestiary.yaml
var defaultBestiary []byte

// Difficulty scales spawned opponents.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

// ParseDifficulty accepts "easy", "normal", "hard" or "" (normal).
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(s)); d {
	case "":
		return Normal, nil
	case Easy, Normal, Hard:
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// scale applies the difficulty multiplier (75/100/125 percent) to v.
func (d Difficulty) scale(v int) int {
	switch d {
	case Easy:
		return max(1, v*75/100)
	case Hard:
		return v * 125 / 100
	}
	return v
}

// Template defines a reusable opponent archetype loaded from YAML.
type Template struct {
	ID                   string   `yaml:"id"`
	Name                 string   `yaml:"name"`
	MaxHP                int      `yaml:"max_hp"`
	AttackDamage         int      `yaml:"attack_damage"`
	Defense              int      `yaml:"defense"`
	Behavior             Behavior `yaml:"behavior"`
	Morale               int      `yaml:"morale"`
	ForceSensitive       bool     `yaml:"force_sensitive"`
	ForcePoints          int      `yaml:"force_points"`
	ForceResistance      int      `yaml:"force_resistance"`
	LightsaberResistance int      `yaml:"lightsaber_resistance"`
	Credits              int      `yaml:"credits"`
	Experience           int      `yaml:"experience"`
}

// Validate checks template invariants and fills the default morale.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, MaxHP >= 1,
// AttackDamage and Defense are >= 0 and both resistances are in [0,100].
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("opponent template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("opponent template %q: name must not be empty", t.ID)
	}
	if t.MaxHP < 1 {
		return fmt.Errorf("opponent template %q: max_hp must be >= 1", t.ID)
	}
	if t.AttackDamage < 0 || t.Defense < 0 {
		return fmt.Errorf("opponent template %q: attack_damage and defense must be >= 0", t.ID)
	}
	if err := checkPercent(t.ID, "force_resistance", t.ForceResistance); err != nil {
		return err
	}
	if err := checkPercent(t.ID, "lightsaber_resistance", t.LightsaberResistance); err != nil {
		return err
	}
	if t.Morale < 0 || t.Morale > 100 {
		return fmt.Errorf("opponent template %q: morale must be in [0,100]", t.ID)
	}
	if t.Morale == 0 {
		t.Morale = DefaultMorale
	}
	return nil
}

func checkPercent(id, field string, v int) error {
	if v < 0 || v > 100 {
		return fmt.Errorf("opponent template %q: %s must be in [0,100]", id, field)
	}
	return nil
}

// Spawn creates one live opponent from t scaled by difficulty.
func (t *Template) Spawn(d Difficulty) *Opponent {
	hp := d.scale(t.MaxHP)
	return &Opponent{
		ID:                   t.ID + "-" + uuid.NewString(),
		TemplateID:           t.ID,
		Name:                 t.Name,
		MaxHP:                hp,
		CurrentHP:            hp,
		AttackDamage:         d.scale(t.AttackDamage),
		Defense:              t.Defense,
		Behavior:             t.Behavior,
		Morale:               t.Morale,
		ForceSensitive:       t.ForceSensitive,
		ForcePoints:          t.ForcePoints,
		ForceResistance:      t.ForceResistance,
		LightsaberResistance: t.LightsaberResistance,
		Credits:              t.Credits,
		Experience:           t.Experience,
	}
}

// Bestiary is a registry of opponent templates keyed by id.
type Bestiary struct {
	templates map[string]*Template
}

// NewBestiary validates templates and indexes them by id.
func NewBestiary(templates []*Template) (*Bestiary, error) {
	b := &Bestiary{templates: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := b.templates[t.ID]; dup {
			return nil, fmt.Errorf("opponent template %q: duplicate id", t.ID)
		}
		b.templates[t.ID] = t
	}
	return b, nil
}

// DefaultBestiary returns the embedded bestiary.
func DefaultBestiary() *Bestiary {
	b, err := LoadBestiaryFromBytes(defaultBestiary)
	if err != nil {
		panic("opponent: embedded bestiary invalid: " + err.Error())
	}
	return b
}

// LoadBestiaryFromBytes parses a YAML list of templates.
func LoadBestiaryFromBytes(data []byte) (*Bestiary, error) {
	var templates []*Template
	if err := decodeStrict(data, &templates); err != nil {
		return nil, fmt.Errorf("parsing bestiary YAML: %w", err)
	}
	return NewBestiary(templates)
}

// LoadBestiary reads every *.yaml file in dir.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns the combined bestiary or the first error encountered.
func LoadBestiary(dir string) (*Bestiary, error) {
	var all []*Template
	err := eachYAML(dir, func(path string, data []byte) error {
		var templates []*Template
		if err := decodeStrict(data, &templates); err != nil {
			return fmt.Errorf("loading %q: %w", path, err)
		}
		all = append(all, templates...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewBestiary(all)
}

// Get returns the template for id.
func (b *Bestiary) Get(id string) (*Template, bool) {
	t, ok := b.templates[id]
	return t, ok
}

// IDs returns every template id in sorted order.
func (b *Bestiary) IDs() []string {
	ids := make([]string, 0, len(b.templates))
	for id := range b.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Spawn creates count opponents of template id. When count > 1 the display
// names are numbered.
func (b *Bestiary) Spawn(id string, count int, d Difficulty) ([]*Opponent, error) {
	t, ok := b.templates[id]
	if !ok {
		return nil, fmt.Errorf("unknown opponent template %q", id)
	}
	if count < 1 {
		return nil, fmt.Errorf("spawn %q: count must be >= 1", id)
	}
	out := make([]*Opponent, 0, count)
	for i := 1; i <= count; i++ {
		o := t.Spawn(d)
		if count > 1 {
			o.Name = fmt.Sprintf("%s %d", t.Name, i)
		}
		out = append(out, o)
	}
	return out, nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func eachYAML(dir string, fn func(path string, data []byte) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading dir %q: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, err)
		}
		if err := fn(path, data); err != nil {
			return err
		}
	}
	return nil
}
