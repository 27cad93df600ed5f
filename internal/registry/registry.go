// Package registry provides an in-memory index of loaded levels.
// Hosts register levels once at startup (or on reload) and look them up by
// ID without touching the filesystem again.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/formgrid/internal/level"
)

// LevelInfo contains summary metadata about a registered level.
type LevelInfo struct {
	ID           string
	Name         string
	Width        int
	Height       int
	Collectibles int
	Forms        []string // forms with a starting allotment, sorted
	Path         string
}

// Levels is a concurrency-safe level index keyed by ID.
type Levels struct {
	mu     sync.RWMutex
	levels map[string]*level.Level
}

// New creates an index holding the given levels.
// Returns an error if two levels share an ID.
func New(levels ...*level.Level) (*Levels, error) {
	r := &Levels{levels: make(map[string]*level.Level, len(levels))}
	for _, lvl := range levels {
		if err := r.Register(lvl); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a level to the index.
func (r *Levels) Register(lvl *level.Level) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if lvl == nil {
		return fmt.Errorf("registry: nil level")
	}
	if _, exists := r.levels[lvl.ID]; exists {
		return fmt.Errorf("registry: level %q already registered", lvl.ID)
	}
	r.levels[lvl.ID] = lvl
	return nil
}

// Replace swaps the whole index for the given levels, as after a reload.
func (r *Levels) Replace(levels []*level.Level) error {
	fresh, err := New(levels...)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels = fresh.levels
	return nil
}

// List returns information about all registered levels, sorted by ID.
func (r *Levels) List() []LevelInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]LevelInfo, 0, len(r.levels))
	for _, lvl := range r.levels {
		result = append(result, infoOf(lvl))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// All returns the registered levels sorted by ID.
func (r *Levels) All() []*level.Level {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*level.Level, 0, len(r.levels))
	for _, lvl := range r.levels {
		out = append(out, lvl)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// Get returns the level with the given ID.
func (r *Levels) Get(id string) (*level.Level, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lvl, ok := r.levels[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown level %q", id)
	}
	return lvl, nil
}

// Exists checks if a level with the given ID is registered.
func (r *Levels) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.levels[id]
	return ok
}

// Len returns the number of registered levels.
func (r *Levels) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.levels)
}

func infoOf(lvl *level.Level) LevelInfo {
	moves := lvl.Moves()
	forms := make([]string, 0, len(moves))
	for name := range moves {
		forms = append(forms, name)
	}
	sort.Strings(forms)

	return LevelInfo{
		ID:           lvl.ID,
		Name:         lvl.Name,
		Width:        lvl.Width(),
		Height:       lvl.Height(),
		Collectibles: lvl.CollectibleCount(),
		Forms:        forms,
		Path:         lvl.FilePath,
	}
}
