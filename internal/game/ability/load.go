package ability

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

	"gopkg.in/yaml.v3"
)

//go:embed content/abilities.yaml
var defaultAbilities []byte

// DefaultCatalog returns a catalog built from the embedded ability set.
//
// Postcondition: the returned catalog validates; it panics otherwise since the
// embedded content is compiled in.
func DefaultCatalog() *Catalog {
	c, err := LoadCatalogFromBytes(defaultAbilities)
	if err != nil {
		panic("ability: embedded catalog invalid: " + err.Error())
	}
	return c
}

// ParseAbilities decodes a YAML list of ability definitions. Unknown fields
// are rejected.
func ParseAbilities(data []byte) ([]*Ability, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var defs []*Ability
	if err := dec.Decode(&defs); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing ability YAML: %w", err)
	}
	return defs, nil
}

// LoadCatalogFromBytes parses and validates a catalog from one YAML document.
func LoadCatalogFromBytes(data []byte) (*Catalog, error) {
	defs, err := ParseAbilities(data)
	if err != nil {
		return nil, err
	}
	return NewCatalog(defs)
}

// LoadCatalog reads every *.yaml file in dir and builds one catalog from the
// combined definitions. Files are read in name order.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns a validated catalog or the first error encountered.
func LoadCatalog(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading ability dir %q: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var defs []*Ability
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		parsed, err := ParseAbilities(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		defs = append(defs, parsed...)
	}
	return NewCatalog(defs)
}
