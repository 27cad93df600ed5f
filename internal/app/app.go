// Package app wires configuration, rulesets, levels, the solver and the
// solution cache into the single object the CLI and the terminal UI share.
package app

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/formgrid/internal/config"
	"github.com/vovakirdan/formgrid/internal/level"
	"github.com/vovakirdan/formgrid/internal/registry"
	"github.com/vovakirdan/formgrid/internal/rules"
	"github.com/vovakirdan/formgrid/internal/solver"
	"github.com/vovakirdan/formgrid/internal/storage"
)

// ErrUnsolvable is returned by operations that need a solution when the
// level has none.
var ErrUnsolvable = errors.New("app: level has no solution")

// App holds the long-lived collaborators of a formgrid process.
type App struct {
	cfg    config.Config
	logger *log.Logger
	rules  *rules.Registry
	solver *solver.Solver
	levels *registry.Levels
	loader *level.Loader
	store  *storage.Store // nil when the cache is disabled or unavailable

	mu      sync.RWMutex     // serializes Reload; guards skipped
	skipped map[string]error // level files rejected by the last Reload
}

// NewLogger builds the process logger the way every formgrid entry point
// does. An unknown level name falls back to info.
func NewLogger(levelName, prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if lvl, err := log.ParseLevel(levelName); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.Warn("unknown log level, using info", "level", levelName)
	}
	return logger
}

// New loads rulesets and levels and opens the cache described by cfg.
// A cache that cannot be opened is logged and skipped.
func New(cfg config.Config, logger *log.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	reg, err := rules.Load(cfg.Levels.Forms)
	if err != nil {
		return nil, err
	}

	s, err := solver.New(reg,
		solver.WithMaxDepth(cfg.Search.MaxDepth),
		solver.WithTarget(cfg.Search.Target),
		solver.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:    cfg,
		logger: logger,
		rules:  reg,
		solver: s,
		loader: level.NewLoader(cfg.Levels.Dir),
	}

	if a.levels, err = registry.New(); err != nil {
		return nil, err
	}
	if err := a.Reload(); err != nil {
		return nil, err
	}

	if cfg.Storage.Enabled {
		store, err := storage.Open(cfg.Storage.Path)
		if err != nil {
			logger.Warn("could not open solution cache", "path", cfg.Storage.Path, "error", err)
		} else {
			a.store = store
		}
	}

	return a, nil
}

// Reload rescans the levels directory. Invalid files are logged and
// skipped; a missing directory yields an empty index.
func (a *App) Reload() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := os.Stat(a.cfg.Levels.Dir); errors.Is(err, os.ErrNotExist) {
		a.logger.Warn("levels directory does not exist", "dir", a.cfg.Levels.Dir)
		a.skipped = nil
		return a.levels.Replace(nil)
	}

	levels, skipped, err := a.loader.LoadAllWithErrors()
	if err != nil {
		return err
	}
	for path, err := range skipped {
		a.logger.Warn("skipping level", "path", path, "error", err)
	}
	a.skipped = skipped
	if err := a.levels.Replace(levels); err != nil {
		return err
	}

	a.logger.Debug("levels loaded", "dir", a.cfg.Levels.Dir, "count", len(levels))
	return nil
}

// Close releases the cache.
func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// Config returns the effective configuration.
func (a *App) Config() config.Config { return a.cfg }

// Logger returns the process logger.
func (a *App) Logger() *log.Logger { return a.logger }

// Rules returns the ruleset registry.
func (a *App) Rules() *rules.Registry { return a.rules }

// Solver returns the configured solver.
func (a *App) Solver() *solver.Solver { return a.solver }

// Levels returns the level index.
func (a *App) Levels() *registry.Levels { return a.levels }

// Skipped returns a copy of the level files the last Reload rejected,
// keyed by path.
func (a *App) Skipped() map[string]error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return maps.Clone(a.skipped)
}

// Store returns the cache, or nil when it is disabled.
func (a *App) Store() *storage.Store { return a.store }

// Level resolves a level ID or a level file path.
func (a *App) Level(ref string) (*level.Level, error) {
	if lvl, err := a.levels.Get(ref); err == nil {
		return lvl, nil
	}
	lvl, err := a.loader.Resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("resolving level %q: %w", ref, err)
	}
	return lvl, nil
}
