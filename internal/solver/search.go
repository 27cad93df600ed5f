package solver

import (
	"fmt"
	"time"

	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"

	"github.com/vovakirdan/formgrid/internal/core"
	"github.com/vovakirdan/formgrid/internal/level"
	"github.com/vovakirdan/formgrid/internal/rules"
)

// Stats describes the work one search did.
type Stats struct {
	Explored     int           // states dequeued
	Enqueued     int           // states ever put on the frontier
	MaxFrontier  int           // largest frontier size seen
	DepthLimited int           // states not expanded because of MaxDepth
	Elapsed      time.Duration // wall time of the search
}

// walker encapsulates the mutable state of one breadth-first search. It is
// local to a single Solve call, so concurrent solves share nothing.
type walker struct {
	level    *level.Level
	forms    []rules.Ruleset // indexed by form ordinal
	target   int
	maxDepth int

	queue    *queue.Queue[State]
	frontier int
	visited  mapset.Set[Key]
	parents  map[Key]State
	stats    Stats
}

// initialBudget converts the level's per-name allotment into a Budget.
// A form the registry does not know is a configuration error.
func initialBudget(lvl *level.Level, reg *rules.Registry) (Budget, error) {
	var b Budget
	for name, n := range lvl.Moves() {
		f, ok := reg.Lookup(name)
		if !ok {
			return b, fmt.Errorf("%w: level %q references %q", rules.ErrUnknownForm, lvl.ID, name)
		}
		if f == core.FormDefault {
			continue
		}
		if n > maxAllotment {
			return b, fmt.Errorf("%w: form %q allotment %d exceeds %d", ErrConfig, name, n, maxAllotment)
		}
		b[f] = int16(n)
	}
	return b, nil
}

func newWalker(lvl *level.Level, reg *rules.Registry, opts Options) *walker {
	forms := make([]rules.Ruleset, reg.Len())
	for _, f := range reg.Forms() {
		// Forms() only yields known ordinals.
		forms[f], _ = reg.RulesetFor(f)
	}
	return &walker{
		level:    lvl,
		forms:    forms,
		target:   opts.Target,
		maxDepth: opts.MaxDepth,
		queue:    queue.New[State](),
		visited:  mapset.New[Key](),
		parents:  make(map[Key]State),
	}
}

// run explores from initial until a goal state is dequeued or the frontier
// is exhausted.
func (w *walker) run(initial State) (State, bool) {
	start := time.Now()
	defer func() { w.stats.Elapsed = time.Since(start) }()

	w.visited.Put(Encode(initial))
	w.enqueue(initial)

	for !w.queue.Empty() {
		cur := w.dequeue()

		if w.isGoal(cur) {
			return cur, true
		}
		if cur.Depth >= w.maxDepth {
			w.stats.DepthLimited++
			continue
		}
		w.expand(cur)
	}
	return State{}, false
}

func (w *walker) enqueue(s State) {
	w.queue.Enqueue(s)
	w.frontier++
	w.stats.Enqueued++
	if w.frontier > w.stats.MaxFrontier {
		w.stats.MaxFrontier = w.frontier
	}
}

func (w *walker) dequeue() State {
	s := w.queue.Dequeue()
	w.frontier--
	w.stats.Explored++
	return s
}

// isGoal: on the end cell with exactly target collectibles.
func (w *walker) isGoal(s State) bool {
	return s.Pos == w.level.End() && int(s.n) == w.target
}

// expand generates every successor of cur and enqueues the unseen ones.
func (w *walker) expand(cur State) {
	for i, rs := range w.forms {
		f := core.Form(i)
		if f == core.FormDefault && cur.Depth != 0 {
			continue
		}
		if f != core.FormDefault && !cur.Moves.CanUse(f) {
			continue
		}

		for _, off := range rs.Offsets {
			cand := cur.Pos.Add(off)
			if !w.level.InBounds(cand) {
				continue
			}
			cell := w.level.Cell(cand)
			if !rs.CanEnter(cell.Terrain) {
				continue
			}
			// Stepping on fire ends the attempt, whatever the ruleset says.
			if cell.Terrain == core.TerrainFire {
				continue
			}

			collect := cell.HasCollectible() && !cur.HasCollected(cand)
			if collect && int(cur.n) >= w.target {
				continue
			}

			next := cur.move(cand, f, collect)
			key := Encode(next)
			if w.visited.Has(key) {
				continue
			}
			w.visited.Put(key)
			w.parents[key] = cur
			w.enqueue(next)
		}
	}
}
