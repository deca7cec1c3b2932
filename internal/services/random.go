package services

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Rand is the subset of *rand.Rand the generators draw from.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewRand returns a source seeded with seed, or with the wall clock when
// seed is zero. The returned source is safe for concurrent use.
func NewRand(seed uint64) Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// Clock returns the current time. Tests pin it to a fixed day.
type Clock func() time.Time
