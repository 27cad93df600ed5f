package level

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vovakirdan/formgrid/internal/level/formats"
)

// Loader handles loading levels from a directory.
type Loader struct {
	Root string
}

// NewLoader creates a new level loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans and loads all level files.
// Returns levels sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]*Level, error) {
	levels, _, err := l.scan()
	return levels, err
}

// LoadAllWithErrors is LoadAll that also reports the files it skipped.
func (l *Loader) LoadAllWithErrors() ([]*Level, map[string]error, error) {
	return l.scan()
}

func (l *Loader) scan() ([]*Level, map[string]error, error) {
	var levels []*Level
	skipped := make(map[string]error)

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !isSupportedExtension(ext) {
			return nil
		}

		level, err := l.LoadFile(path)
		if err != nil {
			skipped[path] = err
			return nil
		}

		levels = append(levels, level)
		return nil
	})

	if err != nil {
		return nil, nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})

	return levels, skipped, nil
}

// LoadFile loads a single level file. A file without an id takes its
// base name as ID.
func (l *Loader) LoadFile(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	parsed, err := parseByExtension(data, ext)
	if err != nil {
		return nil, fmt.Errorf("parsing file %s: %w", path, err)
	}

	id := parsed.ID
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	lvl, err := New(Spec{
		ID:           id,
		Name:         parsed.Name,
		Width:        parsed.Width,
		Height:       parsed.Height,
		Layout:       parsed.Layout,
		Collectibles: parsed.Collectibles,
		Moves:        parsed.Moves,
		Start:        parsed.Start,
		End:          parsed.End,
		Metadata:     parsed.Metadata,
		FilePath:     path,
	})
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return lvl, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (*Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}

	return nil, fmt.Errorf("level not found: %s", id)
}

// Resolve accepts either an existing file path or a level ID.
func (l *Loader) Resolve(ref string) (*Level, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return l.LoadFile(ref)
	}
	return l.LoadByID(ref)
}

// ListIDs returns all level IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return formats.Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
