package solver

import "tileforge/internal/grid"

// BoundaryPolicy classifies cells as forced-boundary or free. Enabled faces
// claim a band of Thickness cells measured inward; a cell inside any enabled
// band gets the designated tile without propagation or selection.
type BoundaryPolicy struct {
	EnableX      bool
	EnableZ      bool
	EnableBottom bool
	EnableTop    bool
	Thickness    int
	TileID       string
}

// Contains reports whether the coordinate lies within the forced region.
func (p BoundaryPolicy) Contains(c grid.Coord, dim grid.Dimensions) bool {
	t := p.Thickness
	if t <= 0 {
		return false
	}
	if p.EnableX && (c.X < t || c.X >= dim.Width-t) {
		return true
	}
	if p.EnableZ && (c.Z < t || c.Z >= dim.Depth-t) {
		return true
	}
	if p.EnableBottom && c.Y < t {
		return true
	}
	if p.EnableTop && c.Y >= dim.Height-t {
		return true
	}
	return false
}

// Enabled reports whether any face is configured to force tiles.
func (p BoundaryPolicy) Enabled() bool {
	return p.TileID != "" && (p.EnableX || p.EnableZ || p.EnableBottom || p.EnableTop)
}
