package catalog

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"tileforge/internal/grid"
)

// Tile is one placeable unit. Connections hold, per face, the set of tile
// ids this tile accepts as a neighbor across that face. Acceptance is
// directed and deliberately not required to be symmetric; the catalog
// preserves whatever was authored.
type Tile struct {
	ID          string
	Name        string
	Asset       string
	Weight      float64
	Ground      bool
	Aerial      bool
	MaxUses     int // 0 means unlimited
	connections [grid.DirectionCount]map[string]struct{}
}

// Accepts reports whether the tile allows neighborID across the given face.
func (t *Tile) Accepts(d grid.Direction, neighborID string) bool {
	set := t.connections[d]
	if set == nil {
		return false
	}
	_, ok := set[neighborID]
	return ok
}

// Connections returns the acceptance set for one face. Callers must not
// mutate the returned map.
func (t *Tile) Connections(d grid.Direction) map[string]struct{} {
	return t.connections[d]
}

// Catalog is the immutable tile registry for a generation run.
type Catalog struct {
	tiles []Tile
	byID  map[string]int
}

// Lookup returns the tile definition for id.
func (c *Catalog) Lookup(id string) (*Tile, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.tiles[idx], true
}

// Len reports the number of tiles.
func (c *Catalog) Len() int {
	return len(c.tiles)
}

// ForEach walks tiles in authored order.
func (c *Catalog) ForEach(fn func(t *Tile) bool) {
	for i := range c.tiles {
		if !fn(&c.tiles[i]) {
			return
		}
	}
}

// IDs returns all tile ids in authored order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.tiles))
	for i := range c.tiles {
		ids[i] = c.tiles[i].ID
	}
	return ids
}

type tileSpec struct {
	ID          string              `yaml:"id"`
	Name        string              `yaml:"name"`
	Asset       string              `yaml:"asset"`
	Weight      float64             `yaml:"weight"`
	Ground      bool                `yaml:"ground"`
	Aerial      bool                `yaml:"aerial"`
	MaxUses     int                 `yaml:"max_uses"`
	Connections map[string][]string `yaml:"connections"`
}

type fileSpec struct {
	Tiles []tileSpec `yaml:"tiles"`
}

var directionKeys = map[string]grid.Direction{
	"+x": grid.DirPosX,
	"-x": grid.DirNegX,
	"+y": grid.DirPosY,
	"-y": grid.DirNegY,
	"+z": grid.DirPosZ,
	"-z": grid.DirNegZ,
}

// LoadFile reads a YAML tile catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var spec fileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return build(spec.Tiles)
}

func build(specs []tileSpec) (*Catalog, error) {
	if len(specs) == 0 {
		return nil, errors.New("catalog has no tiles")
	}

	cat := &Catalog{
		tiles: make([]Tile, 0, len(specs)),
		byID:  make(map[string]int, len(specs)),
	}

	for _, spec := range specs {
		if spec.ID == "" {
			return nil, errors.New("catalog tile with empty id")
		}
		if _, dup := cat.byID[spec.ID]; dup {
			return nil, fmt.Errorf("duplicate tile id %q", spec.ID)
		}
		if spec.Weight <= 0 {
			return nil, fmt.Errorf("tile %q: weight must be positive, got %v", spec.ID, spec.Weight)
		}
		if spec.MaxUses < 0 {
			return nil, fmt.Errorf("tile %q: max_uses cannot be negative", spec.ID)
		}
		if !spec.Ground && !spec.Aerial {
			return nil, fmt.Errorf("tile %q: not placeable at any level", spec.ID)
		}
		cat.byID[spec.ID] = len(cat.tiles)
		cat.tiles = append(cat.tiles, Tile{
			ID:      spec.ID,
			Name:    spec.Name,
			Asset:   spec.Asset,
			Weight:  spec.Weight,
			Ground:  spec.Ground,
			Aerial:  spec.Aerial,
			MaxUses: spec.MaxUses,
		})
	}

	for _, spec := range specs {
		idx := cat.byID[spec.ID]
		for key, ids := range spec.Connections {
			dir, ok := directionKeys[key]
			if !ok {
				return nil, fmt.Errorf("tile %q: unknown direction %q", spec.ID, key)
			}
			set := make(map[string]struct{}, len(ids))
			for _, id := range ids {
				if _, known := cat.byID[id]; !known {
					return nil, fmt.Errorf("tile %q: connection %s references unknown tile %q", spec.ID, key, id)
				}
				set[id] = struct{}{}
			}
			cat.tiles[idx].connections[dir] = set
		}
	}

	cat.reportAsymmetry()
	return cat, nil
}

// reportAsymmetry logs authored one-way acceptances. They are kept as
// authored; whether they are intent or a typo is a catalog question, not
// something the engine should rewrite.
func (c *Catalog) reportAsymmetry() {
	for i := range c.tiles {
		tile := &c.tiles[i]
		for _, dir := range grid.Directions() {
			ids := make([]string, 0, len(tile.connections[dir]))
			for id := range tile.connections[dir] {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				other, _ := c.Lookup(id)
				if !other.Accepts(dir.Opposite(), tile.ID) {
					log.Printf("catalog: %s accepts %s on %s but %s does not accept %s on %s",
						tile.ID, id, dir, id, tile.ID, dir.Opposite())
				}
			}
		}
	}
}
