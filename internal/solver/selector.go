package solver

import (
	"math/rand"

	"tileforge/internal/catalog"
)

// pickWeighted draws one tile from a non-empty domain by roulette selection:
// a uniform draw in [0, total weight) walked through the candidates in
// order. A draw landing past the accumulated sum (floating point slack)
// resolves to the last candidate.
func pickWeighted(rng *rand.Rand, domain []*catalog.Tile) *catalog.Tile {
	if len(domain) == 0 {
		return nil
	}
	total := 0.0
	for _, t := range domain {
		total += t.Weight
	}
	draw := rng.Float64() * total
	for _, t := range domain {
		draw -= t.Weight
		if draw < 0 {
			return t
		}
	}
	return domain[len(domain)-1]
}
