// Package rules provides the movement ruleset registry: a static table that
// maps each form to its candidate move offsets and the terrain it may land
// on. A Registry is built once (usually from YAML) and is read-only
// afterwards, so it can be shared by any number of concurrent solves.
package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vovakirdan/formgrid/internal/core"
)

var (
	// ErrUnknownForm is returned when a form has no ruleset entry.
	ErrUnknownForm = errors.New("rules: unknown form")

	// ErrInvalidRuleset is returned when a ruleset definition is malformed.
	ErrInvalidRuleset = errors.New("rules: invalid ruleset")
)

// Ruleset describes how one form moves.
type Ruleset struct {
	Name    string
	Offsets []core.Coord    // candidate moves, tried in order
	Legal   core.TerrainSet // terrain the form may land on
}

// CanEnter reports whether the form may land on the given terrain.
func (r Ruleset) CanEnter(t core.TerrainKind) bool {
	return r.Legal.Has(t)
}

// Registry maps forms to rulesets. The Default form always has ordinal 0.
type Registry struct {
	rulesets    []Ruleset
	byName      map[string]core.Form
	fingerprint string
}

// NewRegistry builds a registry from the given rulesets. A ruleset named
// "default" becomes core.FormDefault; if none is given an empty one is
// inserted. Remaining forms keep their relative order.
func NewRegistry(rulesets ...Ruleset) (*Registry, error) {
	def := Ruleset{Name: core.DefaultFormName}
	others := make([]Ruleset, 0, len(rulesets))
	seen := make(map[string]bool, len(rulesets))

	for _, rs := range rulesets {
		name := strings.ToLower(strings.TrimSpace(rs.Name))
		if name == "" {
			return nil, fmt.Errorf("%w: form name is required", ErrInvalidRuleset)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate form %q", ErrInvalidRuleset, name)
		}
		seen[name] = true

		for _, off := range rs.Offsets {
			if off.IsZero() {
				return nil, fmt.Errorf("%w: form %q has a zero offset", ErrInvalidRuleset, name)
			}
		}

		rs.Name = name
		rs.Offsets = append([]core.Coord(nil), rs.Offsets...)
		if name == core.DefaultFormName {
			def = rs
			continue
		}
		others = append(others, rs)
	}

	if len(others)+1 > core.MaxForms {
		return nil, fmt.Errorf("%w: %d forms exceed the limit of %d",
			ErrInvalidRuleset, len(others)+1, core.MaxForms)
	}

	r := &Registry{
		rulesets: make([]Ruleset, 0, len(others)+1),
		byName:   make(map[string]core.Form, len(others)+1),
	}
	r.rulesets = append(r.rulesets, def)
	r.rulesets = append(r.rulesets, others...)
	for i, rs := range r.rulesets {
		r.byName[rs.Name] = core.Form(i)
	}
	r.fingerprint = r.computeFingerprint()
	return r, nil
}

// Fingerprint is a content hash over every ruleset in ordinal order.
// Answers computed under one registry are only reusable under a registry
// with the same fingerprint.
func (r *Registry) Fingerprint() string {
	return r.fingerprint
}

func (r *Registry) computeFingerprint() string {
	h := sha256.New()
	for i, rs := range r.rulesets {
		fmt.Fprintf(h, "%d:%s|", i, rs.Name)
		for _, off := range rs.Offsets {
			fmt.Fprintf(h, "%d,%d;", off.X, off.Y)
		}
		fmt.Fprintf(h, "|%s\n", rs.Legal)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// RulesetFor returns the ruleset of a form.
func (r *Registry) RulesetFor(f core.Form) (Ruleset, error) {
	if int(f) >= len(r.rulesets) {
		return Ruleset{}, fmt.Errorf("%w: ordinal %d", ErrUnknownForm, f)
	}
	return r.rulesets[f], nil
}

// Lookup resolves a form name. Matching is case-insensitive.
func (r *Registry) Lookup(name string) (core.Form, bool) {
	f, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// Name returns the configuration name of a form, or "form#N" for an
// ordinal the registry does not know.
func (r *Registry) Name(f core.Form) string {
	if int(f) < len(r.rulesets) {
		return r.rulesets[f].Name
	}
	return fmt.Sprintf("form#%d", f)
}

// Len returns the number of forms, Default included.
func (r *Registry) Len() int {
	return len(r.rulesets)
}

// Forms returns all forms in ordinal order.
func (r *Registry) Forms() []core.Form {
	out := make([]core.Form, len(r.rulesets))
	for i := range r.rulesets {
		out[i] = core.Form(i)
	}
	return out
}

// Names returns all form names sorted alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
