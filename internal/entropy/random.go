// Package entropy provides the random source behind every stochastic draw
// in the simulation: fractional demand, colonization, ship itineraries.
// Sources are seeded explicitly so a run can be replayed.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	mrand "math/rand"
	"sync"
)

// Source is the randomness a simulation component draws from.
type Source interface {
	Float64() float64 // [0, 1)
	Intn(n int) int   // [0, n); n must be > 0
	Read(p []byte) (int, error)
}

// Rand is a seeded Source. It is safe for concurrent use.
type Rand struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// New creates a source from seed. Seed 0 draws a seed from crypto/rand.
func New(seed int64) *Rand {
	if seed == 0 {
		seed = CryptoSeed()
		slog.Debug("entropy seeded from crypto/rand", "seed", seed)
	}
	return &Rand{rng: mrand.New(mrand.NewSource(seed))}
}

// Float64 returns a random float64 in [0, 1).
func (r *Rand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// Intn returns a random int in [0, n).
func (r *Rand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

// Int63 returns a non-negative random int64.
func (r *Rand) Int63() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Int63()
}

// Read fills p with random bytes.
func (r *Rand) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range p {
		p[i] = byte(r.rng.Intn(256))
	}
	return len(p), nil
}

// Child derives an independent source, e.g. one per settlement, so
// parallel updates stay reproducible.
func (r *Rand) Child() *Rand {
	seed := r.Int63()
	if seed == 0 {
		seed = 1
	}
	return New(seed)
}

// CryptoSeed returns a non-zero seed from crypto/rand.
func CryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen but keep a usable seed.
		return 1
	}
	seed := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed
}

// Round splits x into its integer part plus one extra unit with
// probability equal to the fractional part, so the expectation is x.
func Round(src Source, x float64) int {
	if x <= 0 {
		return 0
	}
	whole := int(x)
	frac := x - float64(whole)
	if frac > 0 && src.Float64() < frac {
		whole++
	}
	return whole
}

// Fixed is a Source that replays a fixed sequence of floats. Intn maps the
// next float onto [0, n). Used in tests to pin stochastic branches.
type Fixed struct {
	Values []float64
	i      int
}

// Float64 returns the next value, cycling.
func (f *Fixed) Float64() float64 {
	if len(f.Values) == 0 {
		return 0
	}
	v := f.Values[f.i%len(f.Values)]
	f.i++
	return v
}

// Intn returns int(next * n).
func (f *Fixed) Intn(n int) int {
	v := int(f.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// Read fills p deterministically.
func (f *Fixed) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(f.Intn(256))
	}
	return len(p), nil
}
