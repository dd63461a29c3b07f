// Package random is the single source of randomness for draws: a uniform
// pick over a candidate list and a uniform shuffle.
//
// Production pickers are seeded from crypto/rand; tests pass a fixed seed
// to get reproducible sequences.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
)

// ErrEmpty is returned when picking from an empty list.
var ErrEmpty = errors.New("empty candidate list")

// Picker is safe for concurrent use.
type Picker struct {
	seed uint64

	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a picker with a fixed seed.
func New(seed uint64) *Picker {
	return &Picker{
		seed: seed,
		rnd:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// NewFromEntropy returns a picker seeded from crypto/rand.
func NewFromEntropy() (*Picker, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return New(seed), nil
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// Seed returns the seed the picker was created with.
func (p *Picker) Seed() uint64 {
	return p.seed
}

// IntN returns a uniform integer in [0, n). It panics if n <= 0.
func (p *Picker) IntN(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rnd.IntN(n)
}

// Shuffle permutes n elements uniformly (Fisher-Yates) through swap.
func (p *Picker) Shuffle(n int, swap func(i, j int)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rnd.Shuffle(n, swap)
}

// Pick returns one element of items, each with probability 1/len(items).
func Pick[T any](p *Picker, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, ErrEmpty
	}
	return items[p.IntN(len(items))], nil
}

// Shuffle returns a uniformly permuted copy of items.
func Shuffle[T any](p *Picker, items []T) []T {
	r := make([]T, len(items))
	copy(r, items)
	p.Shuffle(len(r), func(i, j int) {
		r[i], r[j] = r[j], r[i]
	})
	return r
}
