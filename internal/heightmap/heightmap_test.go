package heightmap

import "testing"

func TestMidpointRejectsBadSizes(t *testing.T) {
	for _, size := range []int{0, 2, 4, 6, 10} {
		if _, err := Midpoint(size, 1, 1); err == nil {
			t.Fatalf("expected error for size %d", size)
		}
	}
	if _, err := Midpoint(9, 0, 1); err == nil {
		t.Fatal("expected error for zero roughness")
	}
}

func TestMidpointDeterministicAndNormalized(t *testing.T) {
	first, err := Midpoint(17, 0.8, 4242)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Midpoint(17, 0.8, 4242)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != 17 {
		t.Fatalf("expected 17 rows, got %d", len(first))
	}
	sawLow, sawHigh := false, false
	for y := range first {
		if len(first[y]) != 17 {
			t.Fatalf("row %d has %d columns", y, len(first[y]))
		}
		for x := range first[y] {
			v := first[y][x]
			if v < 0 || v > 1 {
				t.Fatalf("value %v at (%d,%d) outside [0,1]", v, x, y)
			}
			if v != second[y][x] {
				t.Fatalf("seed 4242 diverged at (%d,%d)", x, y)
			}
			if v < 0.05 {
				sawLow = true
			}
			if v > 0.95 {
				sawHigh = true
			}
		}
	}
	if !sawLow || !sawHigh {
		t.Fatal("normalization should stretch the field across [0,1]")
	}
}

func TestDLADeterministicAndNormalized(t *testing.T) {
	first, err := DLA(33, 200, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := DLA(33, 200, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	peak := 0.0
	for y := range first {
		for x := range first[y] {
			v := first[y][x]
			if v < 0 || v > 1 {
				t.Fatalf("value %v at (%d,%d) outside [0,1]", v, x, y)
			}
			if v != second[y][x] {
				t.Fatalf("seed 7 diverged at (%d,%d)", x, y)
			}
			if v > peak {
				peak = v
			}
		}
	}
	if peak != 1 {
		t.Fatalf("normalized field should peak at 1, got %v", peak)
	}

	// Deposits accrete around the center seed, so mass near the middle
	// should dominate mass near the rim.
	var near, far float64
	for y := range first {
		for x := range first[y] {
			dx, dy := x-16, y-16
			switch {
			case dx*dx+dy*dy <= 8*8:
				near += first[y][x]
			case dx*dx+dy*dy >= 13*13:
				far += first[y][x]
			}
		}
	}
	if near <= far {
		t.Fatalf("expected central buildup, near mass %v vs rim mass %v", near, far)
	}
}

func TestDLARejectsBadInputs(t *testing.T) {
	if _, err := DLA(2, 10, 1); err == nil {
		t.Fatal("expected error for tiny size")
	}
	if _, err := DLA(9, 0, 1); err == nil {
		t.Fatal("expected error for zero particles")
	}
}
