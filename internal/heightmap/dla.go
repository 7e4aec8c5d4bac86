package heightmap

import (
	"fmt"
	"math/rand"
)

// DLA builds a heightfield by diffusion-limited aggregation: particles walk
// randomly from the map edge until they touch the growing cluster seeded at
// the center, then deposit height where they stick. The raw deposit is
// smoothed with a box blur so it reads as terrain rather than a dendrite.
func DLA(size, particles int, seed int64) ([][]float64, error) {
	if size < 3 {
		return nil, fmt.Errorf("dla size must be at least 3, got %d", size)
	}
	if particles <= 0 {
		return nil, fmt.Errorf("dla particle count must be positive, got %d", particles)
	}

	rng := rand.New(rand.NewSource(seed))
	stuck := make([][]bool, size)
	field := make([][]float64, size)
	for i := range stuck {
		stuck[i] = make([]bool, size)
		field[i] = make([]float64, size)
	}

	center := size / 2
	stuck[center][center] = true
	field[center][center] = 1

	// Walkers that wander too long restart from a fresh edge cell, keeping
	// the loop bounded on sparse clusters.
	maxSteps := size * size * 4

	for p := 0; p < particles; p++ {
		x, y := edgeCell(rng, size)
		for step := 0; step < maxSteps; step++ {
			if touchesCluster(stuck, x, y, size) {
				stuck[y][x] = true
				field[y][x] += 1
				break
			}
			switch rng.Intn(4) {
			case 0:
				x++
			case 1:
				x--
			case 2:
				y++
			case 3:
				y--
			}
			if x < 0 || x >= size || y < 0 || y >= size {
				x, y = edgeCell(rng, size)
			}
		}
	}

	blurred := boxBlur(field, 2)
	normalize(blurred)
	return blurred, nil
}

func edgeCell(rng *rand.Rand, size int) (int, int) {
	switch rng.Intn(4) {
	case 0:
		return rng.Intn(size), 0
	case 1:
		return rng.Intn(size), size - 1
	case 2:
		return 0, rng.Intn(size)
	default:
		return size - 1, rng.Intn(size)
	}
}

func touchesCluster(stuck [][]bool, x, y, size int) bool {
	if stuck[y][x] {
		return true
	}
	if x > 0 && stuck[y][x-1] {
		return true
	}
	if x < size-1 && stuck[y][x+1] {
		return true
	}
	if y > 0 && stuck[y-1][x] {
		return true
	}
	if y < size-1 && stuck[y+1][x] {
		return true
	}
	return false
}

func boxBlur(field [][]float64, radius int) [][]float64 {
	size := len(field)
	out := make([][]float64, size)
	for y := range out {
		out[y] = make([]float64, size)
		for x := range out[y] {
			sum := 0.0
			count := 0
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					ny, nx := y+dy, x+dx
					if ny < 0 || ny >= size || nx < 0 || nx >= size {
						continue
					}
					sum += field[ny][nx]
					count++
				}
			}
			out[y][x] = sum / float64(count)
		}
	}
	return out
}
