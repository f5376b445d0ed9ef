package testutil

import (
	"math/rand"
	"strconv"
	"sync"

	"github.com/hupe1980/graphgo/property"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Pairs returns n random (a, b) index pairs with a, b in [0, size).
// Locks only once per call.
func (r *RNG) Pairs(n, size int) [][2]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([][2]int, n)
	for i := range out {
		out[i] = [2]int{r.rand.Intn(size), r.rand.Intn(size)}
	}
	return out
}

// Bytes returns n random bytes.
func (r *RNG) Bytes(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := make([]byte, n)
	_, _ = r.rand.Read(b)
	return b
}

// String returns a random lowercase ASCII string of length n.
func (r *RNG) String(n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + r.rand.Intn(26))
	}
	return string(b)
}

// Properties returns a property map with n entries of mixed kinds.
// Keys are "p0" through "p<n-1>".
func (r *RNG) Properties(n int) property.Map {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := make(property.Map, n)
	for i := range n {
		key := "p" + strconv.Itoa(i)
		switch r.rand.Intn(5) {
		case 0:
			m[key] = property.Int(r.rand.Int63() - r.rand.Int63())
		case 1:
			m[key] = property.Float(r.rand.NormFloat64())
		case 2:
			m[key] = property.Bool(r.rand.Intn(2) == 1)
		case 3:
			m[key] = property.String(strconv.FormatUint(r.rand.Uint64(), 36))
		default:
			items := make([]property.Value, r.rand.Intn(4))
			for j := range items {
				items[j] = property.Int(int64(r.rand.Intn(1000)))
			}
			m[key] = property.MustList(items...)
		}
	}
	return m
}
