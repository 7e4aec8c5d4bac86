package solver

// UsageTracker counts tile placements and enforces per-tile quotas. A cap of
// zero (or a missing entry) means unlimited.
type UsageTracker struct {
	caps   map[string]int
	counts map[string]int
}

func NewUsageTracker(caps map[string]int) *UsageTracker {
	tracked := make(map[string]int, len(caps))
	for id, cap := range caps {
		if cap > 0 {
			tracked[id] = cap
		}
	}
	return &UsageTracker{
		caps:   tracked,
		counts: make(map[string]int),
	}
}

// Eligible reports whether the tile may still be placed. Exhausted tiles are
// excluded from candidate domains before intersection; running out is not an
// error.
func (u *UsageTracker) Eligible(tileID string) bool {
	cap, capped := u.caps[tileID]
	if !capped {
		return true
	}
	return u.counts[tileID] < cap
}

// Record counts one committed placement, boundary-forced or selected.
func (u *UsageTracker) Record(tileID string) {
	u.counts[tileID]++
}

// Count returns the number of placements so far for the tile.
func (u *UsageTracker) Count(tileID string) int {
	return u.counts[tileID]
}

// Cap returns the configured quota, with capped=false meaning unlimited.
func (u *UsageTracker) Cap(tileID string) (int, bool) {
	cap, capped := u.caps[tileID]
	return cap, capped
}

// Counts returns a copy of all non-zero placement counters.
func (u *UsageTracker) Counts() map[string]int {
	out := make(map[string]int, len(u.counts))
	for id, n := range u.counts {
		out[id] = n
	}
	return out
}

// Reset zeroes every counter while keeping configured caps.
func (u *UsageTracker) Reset() {
	u.counts = make(map[string]int)
}
