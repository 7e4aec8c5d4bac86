package solver

import (
	"tileforge/internal/catalog"
	"tileforge/internal/grid"
)

// candidateDomain computes the tiles still valid for a free cell. The initial
// domain is every catalog tile whose level flag matches the cell height
// (ground at y=0, aerial above) and that has quota remaining. Each assigned
// neighbor then narrows the domain to the tiles that neighbor accepts across
// the face looking back at the cell.
//
// This is one-shot local consistency: already-assigned neighbors are never
// revisited, so the result depends on visitation order. An empty domain is a
// valid outcome, reported to the caller rather than treated as an error.
func candidateDomain(g *grid.Grid, cat *catalog.Catalog, usage *UsageTracker, c grid.Coord) []*catalog.Tile {
	domain := make([]*catalog.Tile, 0, cat.Len())
	cat.ForEach(func(t *catalog.Tile) bool {
		if c.Y == 0 && !t.Ground {
			return true
		}
		if c.Y > 0 && !t.Aerial {
			return true
		}
		if !usage.Eligible(t.ID) {
			return true
		}
		domain = append(domain, t)
		return true
	})

	for _, dir := range grid.Directions() {
		if len(domain) == 0 {
			break
		}
		n, ok := g.Neighbor(c, dir)
		if !ok {
			continue
		}
		neighborID, assigned := g.TileAt(n)
		if !assigned {
			continue
		}
		neighbor, ok := cat.Lookup(neighborID)
		if !ok {
			continue
		}
		facing := dir.Opposite()
		kept := domain[:0]
		for _, t := range domain {
			if neighbor.Accepts(facing, t.ID) {
				kept = append(kept, t)
			}
		}
		domain = kept
	}
	return domain
}
