package rules

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/formgrid/internal/core"
)

//go:embed defaults/forms.yaml
var defaultFormsYAML []byte

// YAMLFile is the on-disk structure of a ruleset file.
type YAMLFile struct {
	Forms []YAMLForm `yaml:"forms"`
}

// YAMLForm is a single form definition.
type YAMLForm struct {
	Name    string       `yaml:"name"`
	Offsets []core.Coord `yaml:"offsets"`
	Terrain []string     `yaml:"terrain"`
}

// Parse builds a registry from YAML data.
func Parse(data []byte) (*Registry, error) {
	var f YAMLFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: yaml unmarshal: %v", ErrInvalidRuleset, err)
	}

	rulesets := make([]Ruleset, 0, len(f.Forms))
	for _, yf := range f.Forms {
		var legal core.TerrainSet
		for _, name := range yf.Terrain {
			t, ok := core.ParseTerrain(name)
			if !ok {
				return nil, fmt.Errorf("%w: form %q: unknown terrain %q", ErrInvalidRuleset, yf.Name, name)
			}
			legal = legal.With(t)
		}
		rulesets = append(rulesets, Ruleset{
			Name:    yf.Name,
			Offsets: yf.Offsets,
			Legal:   legal,
		})
	}

	return NewRegistry(rulesets...)
}

// LoadFile reads and parses a ruleset file.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rulesets %s: %w", path, err)
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing rulesets %s: %w", path, err)
	}
	return reg, nil
}

// Default returns the registry described by the embedded defaults.
func Default() *Registry {
	reg, err := Parse(defaultFormsYAML)
	if err != nil {
		panic(fmt.Sprintf("rules: embedded defaults are invalid: %v", err))
	}
	return reg
}

// Load returns the registry at path, or the embedded defaults when path is
// empty.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
