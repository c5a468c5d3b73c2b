package core

import (
	"math/rand"
)

// StratifiedOffset returns a position in [0, 1) inside cell i of an n-cell
// subdivision, jittered uniformly within the cell. With a nil random the
// cell center is returned.
func StratifiedOffset(i, n int, random *rand.Rand) float64 {
	jitter := 0.5
	if random != nil {
		jitter = random.Float64()
	}
	return (float64(i) + jitter) / float64(n)
}

// NewRowRandom returns the random generator used for one image row.
// Seeding by row keeps results independent of which worker renders the row.
func NewRowRandom(seed int64, row int) *rand.Rand {
	return rand.New(rand.NewSource(seed + int64(row)))
}
