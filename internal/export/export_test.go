package export

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"tileforge/internal/catalog"
	"tileforge/internal/grid"
	"tileforge/internal/solver"
)

const testCatalog = `
tiles:
  - id: a
    weight: 1
    ground: true
    aerial: true
    max_uses: 0
    connections:
      "+x": [a]
      "-x": [a]
      "+y": [a]
      "-y": [a]
      "+z": [a]
      "-z": [a]
`

func runSolver(t *testing.T) (*grid.Grid, *solver.Solver) {
	t.Helper()
	cat, err := catalog.Parse([]byte(testCatalog))
	if err != nil {
		t.Fatalf("parse catalog: %v", err)
	}
	g, err := grid.New(grid.Dimensions{Width: 2, Height: 1, Depth: 2})
	if err != nil {
		t.Fatalf("create grid: %v", err)
	}
	s, err := solver.New(g, cat, rand.New(rand.NewSource(1)), nil, solver.Options{
		Start:          g.Center(),
		FallbackTileID: "a",
	})
	if err != nil {
		t.Fatalf("create solver: %v", err)
	}
	for {
		if _, ok := s.Step(); !ok {
			break
		}
	}
	return g, s
}

func TestCollect(t *testing.T) {
	g, s := runSolver(t)
	result := Collect(g, s, 1)

	if result.Width != 2 || result.Height != 1 || result.Depth != 2 {
		t.Fatalf("dimensions wrong: %+v", result)
	}
	if result.Seed != 1 {
		t.Fatalf("seed wrong: %d", result.Seed)
	}
	if result.Unassigned != 0 {
		t.Fatalf("expected full coverage, %d unassigned", result.Unassigned)
	}
	if len(result.Placements) != 4 {
		t.Fatalf("expected 4 placements, got %d", len(result.Placements))
	}
	for _, p := range result.Placements {
		if p.Tile != "a" {
			t.Fatalf("unexpected tile %q at (%d,%d,%d)", p.Tile, p.X, p.Y, p.Z)
		}
	}
	if len(result.Usage) != 1 || result.Usage[0].Tile != "a" || result.Usage[0].Count != 4 {
		t.Fatalf("usage wrong: %+v", result.Usage)
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	g, s := runSolver(t)
	result := Collect(g, s, 77)

	path := filepath.Join(t.TempDir(), "out", "result.yaml")
	if err := WriteFile(path, result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var decoded Result
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode written result: %v", err)
	}
	if decoded.Seed != 77 || len(decoded.Placements) != len(result.Placements) {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}
