package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"tileforge/internal/grid"
	"tileforge/internal/solver"
)

// Result is the YAML document describing one finished generation run.
type Result struct {
	Width      int          `yaml:"width"`
	Height     int          `yaml:"height"`
	Depth      int          `yaml:"depth"`
	Seed       int64        `yaml:"seed"`
	Unassigned int          `yaml:"unassigned"`
	Placements []Placement  `yaml:"placements"`
	Fallbacks  []Fallback   `yaml:"fallbacks,omitempty"`
	Usage      []UsageEntry `yaml:"usage"`
}

type Placement struct {
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	Z    int    `yaml:"z"`
	Tile string `yaml:"tile"`
}

type Fallback struct {
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
	Z     int    `yaml:"z"`
	Cause string `yaml:"cause"`
}

type UsageEntry struct {
	Tile  string `yaml:"tile"`
	Count int    `yaml:"count"`
	Cap   int    `yaml:"cap,omitempty"` // omitted when unlimited
}

// Collect assembles the result document from a finished run.
func Collect(g *grid.Grid, s *solver.Solver, seed int64) *Result {
	dim := g.Dimensions()
	result := &Result{
		Width:      dim.Width,
		Height:     dim.Height,
		Depth:      dim.Depth,
		Seed:       seed,
		Unassigned: g.UnassignedCount(),
	}

	g.ForEachAssigned(func(c grid.Coord, tileID string) bool {
		result.Placements = append(result.Placements, Placement{
			X: c.X, Y: c.Y, Z: c.Z, Tile: tileID,
		})
		return true
	})

	for _, diag := range s.Diagnostics() {
		result.Fallbacks = append(result.Fallbacks, Fallback{
			X: diag.Coord.X, Y: diag.Coord.Y, Z: diag.Coord.Z, Cause: diag.Cause,
		})
	}

	usage := s.Usage()
	for id, count := range usage.Counts() {
		entry := UsageEntry{Tile: id, Count: count}
		if limit, capped := usage.Cap(id); capped {
			entry.Cap = limit
		}
		result.Usage = append(result.Usage, entry)
	}
	sort.Slice(result.Usage, func(i, j int) bool {
		return result.Usage[i].Tile < result.Usage[j].Tile
	})

	return result
}

// WriteFile marshals the result to YAML and writes it to path, creating
// parent directories as needed.
func WriteFile(path string, result *Result) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write result file: %w", err)
	}
	return nil
}
