package grid

import "fmt"

// CellState tracks a cell's progress through one generation run. A cell only
// ever moves forward: Unassigned -> Queued -> Assigned.
type CellState uint8

const (
	Unassigned CellState = iota
	Queued
	Assigned
)

func (s CellState) String() string {
	switch s {
	case Unassigned:
		return "unassigned"
	case Queued:
		return "queued"
	case Assigned:
		return "assigned"
	default:
		return fmt.Sprintf("cellstate(%d)", uint8(s))
	}
}

// Coord addresses a single cell. Y is the vertical axis.
type Coord struct {
	X int
	Y int
	Z int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// Direction enumerates the six axis-aligned faces of a cell.
type Direction uint8

const (
	DirPosX Direction = iota
	DirNegX
	DirPosY
	DirNegY
	DirPosZ
	DirNegZ
	DirectionCount = 6
)

var directionNames = [DirectionCount]string{"+x", "-x", "+y", "-y", "+z", "-z"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// Directions lists all six directions in a fixed order so that visitation
// stays deterministic for a given seed.
func Directions() [DirectionCount]Direction {
	return [DirectionCount]Direction{DirPosX, DirNegX, DirPosY, DirNegY, DirPosZ, DirNegZ}
}

var offsets = [DirectionCount]Coord{
	{X: 1}, {X: -1},
	{Y: 1}, {Y: -1},
	{Z: 1}, {Z: -1},
}

// Offset returns the unit coordinate delta for the direction.
func (d Direction) Offset() Coord {
	return offsets[d]
}

// Opposite returns the face looking back at the caller. Propagation consults
// a neighbor's acceptance set for the opposite of the direction it was
// reached through.
func (d Direction) Opposite() Direction {
	return d ^ 1
}

// Dimensions describes the fixed extent of a grid for one run.
type Dimensions struct {
	Width  int
	Height int
	Depth  int
}

func (d Dimensions) Count() int {
	return d.Width * d.Height * d.Depth
}

// Grid is a dense block of cell states and tile assignments. It is not safe
// for concurrent use; the scheduler owns it for the duration of a run.
type Grid struct {
	dim    Dimensions
	states []CellState
	tiles  []string
}

func New(dim Dimensions) (*Grid, error) {
	if dim.Width <= 0 || dim.Height <= 0 || dim.Depth <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%dx%d", dim.Width, dim.Height, dim.Depth)
	}
	return &Grid{
		dim:    dim,
		states: make([]CellState, dim.Count()),
		tiles:  make([]string, dim.Count()),
	}, nil
}

func (g *Grid) Dimensions() Dimensions {
	return g.dim
}

// Contains reports whether the coordinate lies inside the grid.
func (g *Grid) Contains(c Coord) bool {
	return c.X >= 0 && c.X < g.dim.Width &&
		c.Y >= 0 && c.Y < g.dim.Height &&
		c.Z >= 0 && c.Z < g.dim.Depth
}

func (g *Grid) index(c Coord) int {
	return (c.Y*g.dim.Depth+c.Z)*g.dim.Width + c.X
}

// State returns the cell state, or Unassigned with ok=false outside the grid.
func (g *Grid) State(c Coord) (CellState, bool) {
	if !g.Contains(c) {
		return Unassigned, false
	}
	return g.states[g.index(c)], true
}

// TileAt returns the committed tile id for an Assigned cell.
func (g *Grid) TileAt(c Coord) (string, bool) {
	if !g.Contains(c) {
		return "", false
	}
	idx := g.index(c)
	if g.states[idx] != Assigned {
		return "", false
	}
	return g.tiles[idx], true
}

// MarkQueued advances an Unassigned cell to Queued. It reports whether the
// transition happened; queued and assigned cells are left alone.
func (g *Grid) MarkQueued(c Coord) bool {
	if !g.Contains(c) {
		return false
	}
	idx := g.index(c)
	if g.states[idx] != Unassigned {
		return false
	}
	g.states[idx] = Queued
	return true
}

// Assign commits a tile to the cell and makes the state terminal.
func (g *Grid) Assign(c Coord, tileID string) bool {
	if !g.Contains(c) {
		return false
	}
	idx := g.index(c)
	if g.states[idx] == Assigned {
		return false
	}
	g.states[idx] = Assigned
	g.tiles[idx] = tileID
	return true
}

// Neighbor returns the adjacent coordinate in the given direction. Outside
// the grid it reports ok=false rather than clamping.
func (g *Grid) Neighbor(c Coord, d Direction) (Coord, bool) {
	off := d.Offset()
	n := Coord{X: c.X + off.X, Y: c.Y + off.Y, Z: c.Z + off.Z}
	if !g.Contains(n) {
		return Coord{}, false
	}
	return n, true
}

// Center returns the ground-level center cell, the default generation seed.
func (g *Grid) Center() Coord {
	return Coord{X: g.dim.Width / 2, Y: 0, Z: g.dim.Depth / 2}
}

// UnassignedCount reports how many cells never got a tile, which callers
// check after a run instead of assuming full coverage.
func (g *Grid) UnassignedCount() int {
	count := 0
	for _, s := range g.states {
		if s != Assigned {
			count++
		}
	}
	return count
}

// Reset returns every cell to Unassigned and clears assignments.
func (g *Grid) Reset() {
	for i := range g.states {
		g.states[i] = Unassigned
		g.tiles[i] = ""
	}
}

// ForEachAssigned walks all assigned cells in index order, invoking fn until
// it returns false.
func (g *Grid) ForEachAssigned(fn func(c Coord, tileID string) bool) {
	for y := 0; y < g.dim.Height; y++ {
		for z := 0; z < g.dim.Depth; z++ {
			for x := 0; x < g.dim.Width; x++ {
				c := Coord{X: x, Y: y, Z: z}
				idx := g.index(c)
				if g.states[idx] != Assigned {
					continue
				}
				if !fn(c, g.tiles[idx]) {
					return
				}
			}
		}
	}
}
