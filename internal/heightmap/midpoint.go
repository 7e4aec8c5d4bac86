// Package heightmap holds two standalone terrain field generators that ship
// alongside the tile solver: a midpoint displacement fractal and a
// diffusion-limited aggregation deposit. Both are seeded and produce values
// normalized to [0, 1].
package heightmap

import (
	"fmt"
	"math/rand"
)

// Midpoint generates a (2^n+1) square heightfield by diamond-square
// recursion. size must be a power of two plus one (5, 9, 17, ...);
// roughness scales the random displacement and halves at each subdivision.
func Midpoint(size int, roughness float64, seed int64) ([][]float64, error) {
	if size < 3 || !isPowerOfTwoPlusOne(size) {
		return nil, fmt.Errorf("midpoint size must be a power of two plus one, got %d", size)
	}
	if roughness <= 0 {
		return nil, fmt.Errorf("midpoint roughness must be positive, got %v", roughness)
	}

	rng := rand.New(rand.NewSource(seed))
	field := make([][]float64, size)
	for i := range field {
		field[i] = make([]float64, size)
	}

	last := size - 1
	field[0][0] = rng.Float64()
	field[0][last] = rng.Float64()
	field[last][0] = rng.Float64()
	field[last][last] = rng.Float64()

	spread := roughness
	for step := last; step > 1; step /= 2 {
		half := step / 2

		// Diamond pass: centers from the four surrounding corners.
		for y := half; y < size; y += step {
			for x := half; x < size; x += step {
				avg := (field[y-half][x-half] + field[y-half][x+half] +
					field[y+half][x-half] + field[y+half][x+half]) / 4
				field[y][x] = avg + (rng.Float64()*2-1)*spread
			}
		}

		// Square pass: edge midpoints from their in-bounds neighbors.
		for y := 0; y < size; y += half {
			start := half
			if (y/half)%2 == 1 {
				start = 0
			}
			for x := start; x < size; x += step {
				sum := 0.0
				count := 0
				if y-half >= 0 {
					sum += field[y-half][x]
					count++
				}
				if y+half < size {
					sum += field[y+half][x]
					count++
				}
				if x-half >= 0 {
					sum += field[y][x-half]
					count++
				}
				if x+half < size {
					sum += field[y][x+half]
					count++
				}
				field[y][x] = sum/float64(count) + (rng.Float64()*2-1)*spread
			}
		}

		spread /= 2
	}

	normalize(field)
	return field, nil
}

func isPowerOfTwoPlusOne(size int) bool {
	n := size - 1
	return n > 0 && n&(n-1) == 0
}

func normalize(field [][]float64) {
	min, max := field[0][0], field[0][0]
	for _, row := range field {
		for _, v := range row {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	span := max - min
	if span == 0 {
		for y := range field {
			for x := range field[y] {
				field[y][x] = 0
			}
		}
		return
	}
	for y := range field {
		for x := range field[y] {
			field[y][x] = (field[y][x] - min) / span
		}
	}
}
