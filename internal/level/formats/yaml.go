// Package formats provides pluggable level file format parsers.
package formats

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/formgrid/internal/core"
)

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID           string               `yaml:"id"`
	Name         string               `yaml:"name"`
	Size         YAMLSize             `yaml:"size"`
	Layout       []string             `yaml:"layout"`
	Collectibles []core.Coord         `yaml:"collectibles,omitempty"`
	Moves        map[string]Allotment `yaml:"moves,omitempty"`
	Start        *core.Coord          `yaml:"start,omitempty"`
	End          *core.Coord          `yaml:"end,omitempty"`
	Metadata     map[string]string    `yaml:"metadata,omitempty"`
}

// YAMLSize represents grid dimensions.
type YAMLSize struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Allotment is a per-form move count. It accepts an integer or the word
// "unlimited".
type Allotment int

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Allotment) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: move allotment must be a scalar", node.Line)
	}
	v := strings.ToLower(strings.TrimSpace(node.Value))
	if v == "unlimited" || v == "inf" {
		*a = Allotment(core.Unlimited)
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("line %d: move allotment %q is not a number", node.Line, node.Value)
	}
	*a = Allotment(n)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (a Allotment) MarshalYAML() (any, error) {
	if int(a) == core.Unlimited {
		return "unlimited", nil
	}
	return int(a), nil
}

// Level represents a parsed level ready for validation.
type Level struct {
	ID           string
	Name         string
	Width        int
	Height       int
	Layout       []string
	Collectibles []core.Coord
	Moves        map[string]int
	Start        *core.Coord
	End          *core.Coord
	Metadata     map[string]string
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	level := Level{
		ID:           yl.ID,
		Name:         yl.Name,
		Width:        yl.Size.W,
		Height:       yl.Size.H,
		Layout:       yl.Layout,
		Collectibles: yl.Collectibles,
		Moves:        make(map[string]int, len(yl.Moves)),
		Start:        yl.Start,
		End:          yl.End,
		Metadata:     yl.Metadata,
	}
	for name, n := range yl.Moves {
		level.Moves[name] = int(n)
	}

	return level, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
