package wires

import (
	"math/rand/v2"
	"sync"
)

// Rand is the random source used for appearance draws, shuffles, seeds and
// serial numbers. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// LockedRand serialises access to a Rand so one source can be shared by
// every board in the process.
type LockedRand struct {
	mu sync.Mutex
	r  Rand
}

// NewLockedRand wraps r for concurrent use.
func NewLockedRand(r Rand) *LockedRand {
	return &LockedRand{r: r}
}

// NewSeededRand returns a concurrency-safe source seeded with seed.
// A zero seed produces a source seeded from the runtime.
func NewSeededRand(seed uint64) *LockedRand {
	if seed == 0 {
		return NewLockedRand(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	}
	return NewLockedRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// IntN returns a uniform int in [0, n).
func (l *LockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// Float64 returns a uniform float in [0, 1).
func (l *LockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// Shuffle permutes n elements using swap.
func (l *LockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}

// pickAndTake removes and returns a uniformly chosen element of *s.
func pickAndTake[T any](r Rand, s *[]T) T {
	list := *s
	i := r.IntN(len(list))
	v := list[i]
	*s = append(list[:i], list[i+1:]...)
	return v
}

// removeValue deletes the first occurrence of v from *s, if present.
func removeValue[T comparable](s *[]T, v T) {
	list := *s
	for i := range list {
		if list[i] == v {
			*s = append(list[:i], list[i+1:]...)
			return
		}
	}
}
