package solver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"

	"tileforge/internal/catalog"
	"tileforge/internal/grid"
)

// Spawner receives every committed cell so an external collaborator can
// instantiate the tile's visual asset. Spawn failures are logged and never
// unwind grid or usage state that is already committed.
type Spawner interface {
	Spawn(c grid.Coord, tileID string) error
}

// SpawnerFunc adapts a plain function to the Spawner interface.
type SpawnerFunc func(c grid.Coord, tileID string) error

func (f SpawnerFunc) Spawn(c grid.Coord, tileID string) error {
	return f(c, tileID)
}

// Placement describes one committed cell.
type Placement struct {
	Coord    grid.Coord
	TileID   string
	Forced   bool // assigned by boundary policy
	Fallback bool // empty candidate domain, fallback tile used
}

// Diagnostic records a cell whose candidate domain came up empty.
type Diagnostic struct {
	Coord grid.Coord
	Cause string
}

// Options configures a solver for one grid.
type Options struct {
	Start          grid.Coord
	Boundary       BoundaryPolicy
	FallbackTileID string
	// UsageCaps overrides the catalog's per-tile max_uses. An explicit zero
	// entry lifts a catalog cap, making the tile unlimited.
	UsageCaps map[string]int
}

// Solver walks the grid outward from a start cell, collapsing one cell per
// step. It is single-threaded; pacing is the caller's concern, one Step at a
// time.
type Solver struct {
	grid     *grid.Grid
	cat      *catalog.Catalog
	rng      *rand.Rand
	boundary BoundaryPolicy
	usage    *UsageTracker
	fallback string
	spawner  Spawner
	start    grid.Coord

	frontier    []grid.Coord
	head        int
	diagnostics []Diagnostic
}

// New validates the configuration and builds a solver. Validation failures
// are fatal for the run and occur before any state mutation.
func New(g *grid.Grid, cat *catalog.Catalog, rng *rand.Rand, spawner Spawner, opts Options) (*Solver, error) {
	if g == nil {
		return nil, errors.New("solver: nil grid")
	}
	if cat == nil || cat.Len() == 0 {
		return nil, errors.New("solver: empty tile catalog")
	}
	if rng == nil {
		return nil, errors.New("solver: nil random source")
	}
	if !g.Contains(opts.Start) {
		return nil, fmt.Errorf("solver: start %s outside grid bounds", opts.Start)
	}
	if opts.FallbackTileID == "" {
		return nil, errors.New("solver: fallback tile id must be configured")
	}
	if _, ok := cat.Lookup(opts.FallbackTileID); !ok {
		return nil, fmt.Errorf("solver: fallback tile %q not in catalog", opts.FallbackTileID)
	}
	if opts.Boundary.TileID != "" {
		if _, ok := cat.Lookup(opts.Boundary.TileID); !ok {
			return nil, fmt.Errorf("solver: boundary tile %q not in catalog", opts.Boundary.TileID)
		}
	}

	caps := make(map[string]int)
	cat.ForEach(func(t *catalog.Tile) bool {
		if t.MaxUses > 0 {
			caps[t.ID] = t.MaxUses
		}
		return true
	})
	for id, limit := range opts.UsageCaps {
		if _, ok := cat.Lookup(id); !ok {
			continue
		}
		if limit > 0 {
			caps[id] = limit
		} else {
			delete(caps, id)
		}
	}

	s := &Solver{
		grid:     g,
		cat:      cat,
		rng:      rng,
		boundary: opts.Boundary,
		usage:    NewUsageTracker(caps),
		fallback: opts.FallbackTileID,
		spawner:  spawner,
		start:    opts.Start,
	}
	s.seed()
	return s, nil
}

func (s *Solver) seed() {
	s.frontier = s.frontier[:0]
	s.head = 0
	if s.grid.MarkQueued(s.start) {
		s.frontier = append(s.frontier, s.start)
	}
}

// Step collapses the next pending cell and reports the placement. The second
// return is false once the frontier is empty. A coordinate enqueued by
// several neighbors is processed at most once; stale entries dequeue as
// no-ops.
func (s *Solver) Step() (Placement, bool) {
	for s.head < len(s.frontier) {
		c := s.frontier[s.head]
		s.head++

		if state, _ := s.grid.State(c); state == grid.Assigned {
			continue
		}

		placement := s.resolve(c)
		s.grid.Assign(c, placement.TileID)
		s.usage.Record(placement.TileID)

		if s.spawner != nil {
			if err := s.spawner.Spawn(c, placement.TileID); err != nil {
				log.Printf("solver %s: spawn %s: %v", c, placement.TileID, err)
			}
		}

		for _, dir := range grid.Directions() {
			n, ok := s.grid.Neighbor(c, dir)
			if !ok {
				continue
			}
			if s.grid.MarkQueued(n) {
				s.frontier = append(s.frontier, n)
			}
		}
		return placement, true
	}
	return Placement{}, false
}

func (s *Solver) resolve(c grid.Coord) Placement {
	if s.boundary.Enabled() && s.boundary.Contains(c, s.grid.Dimensions()) {
		return Placement{Coord: c, TileID: s.boundary.TileID, Forced: true}
	}

	domain := candidateDomain(s.grid, s.cat, s.usage, c)
	if len(domain) == 0 {
		s.diagnostics = append(s.diagnostics, Diagnostic{
			Coord: c,
			Cause: "no compatible tile with quota remaining",
		})
		log.Printf("solver %s: empty candidate domain, using fallback %s", c, s.fallback)
		return Placement{Coord: c, TileID: s.fallback, Fallback: true}
	}

	tile := pickWeighted(s.rng, domain)
	return Placement{Coord: c, TileID: tile.ID}
}

// Run drives Step until the frontier empties or the context is cancelled.
// Cancellation is cooperative, checked between collapse steps.
func (s *Solver) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if _, ok := s.Step(); !ok {
			return nil
		}
	}
}

// Clear resets the grid, the frontier, the usage counters and the collected
// diagnostics, then reseeds the frontier. No partial generation state
// survives into the next run.
func (s *Solver) Clear() {
	s.grid.Reset()
	s.usage.Reset()
	s.diagnostics = nil
	s.seed()
}

// Diagnostics returns the coordinates where the fallback tile was used.
func (s *Solver) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(s.diagnostics))
	copy(out, s.diagnostics)
	return out
}

// Usage exposes the run's placement counters.
func (s *Solver) Usage() *UsageTracker {
	return s.usage
}

// Pending reports how many frontier entries remain to be dequeued.
func (s *Solver) Pending() int {
	return len(s.frontier) - s.head
}
