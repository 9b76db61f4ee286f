// Package bridge computes quotients, square roots and reciprocal square roots
// of fixed-width mantissas by delegating to an arbitrary-precision backend.
//
// A mantissa is a normalized little-endian word slice x of n words, read as
// the fraction 0.x in [0.5, 1). The backend never sees an exponent: callers
// do their own exponent arithmetic and add the small correction returned
// here. Every result is truncated toward zero and normalized.
//
// Operands are handed to math/big as views: big.Int values whose backing
// array is the caller's buffer (see view). Views are read-only and never
// outlive a single call. This is the only package in the module that lets
// math/big see a mantissa buffer directly.
package bridge

import (
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/agbru/nfloat/internal/limb"
)

// Word is a single mantissa limb.
type Word = limb.Word

// Backend computes truncated significand-level results. All slices have the
// same length n; inputs are normalized; z may alias any input.
type Backend interface {
	// Name returns the registry name of the backend.
	Name() string

	// Quo sets 0.z to the truncated quotient 0.x / 0.y scaled into [0.5, 1)
	// and returns e in {0, 1} such that 0.x / 0.y ≈ 0.z * 2^e.
	Quo(z, x, y []Word) int64

	// Sqrt sets 0.z to the truncated square root of 0.x when odd is false,
	// or of 0.x / 2 when odd is true. The result needs no exponent
	// correction.
	Sqrt(z, x []Word, odd bool)

	// Rsqrt sets 0.z to the truncated value of 1/sqrt(4 * 0.x) when odd is
	// false, or 1/sqrt(2 * 0.x) when odd is true. x must not be a power of
	// two when odd is true.
	Rsqrt(z, x []Word, odd bool)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Backend{}
	preferred  string
)

func init() {
	Register(BigFloat{}, false)
}

// Register adds a backend to the registry. When prefer is true, the backend
// becomes the default returned by Default.
func Register(b Backend, prefer bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[b.Name()] = b
	if prefer || preferred == "" {
		preferred = b.Name()
	}
}

// Default returns the preferred registered backend.
func Default() Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[preferred]
}

// Lookup returns the backend registered under name.
func Lookup(name string) (Backend, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	b, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown division backend %q (available: %v)", name, namesLocked())
	}
	return b, nil
}

// Names returns the sorted names of all registered backends.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ─────────────────────────────────────────────────────────────────────────────
// Views
// ─────────────────────────────────────────────────────────────────────────────

// view points v at the mantissa words of x without copying. The caller must
// not modify v, and must drop it (release) before x is written.
func view(v *big.Int, x []Word) *big.Int {
	if !limb.IsNormalized(x) {
		panic("bridge: operand mantissa is not normalized")
	}
	return v.SetBits(x)
}

// release detaches v from any caller buffer it views.
func release(v *big.Int) {
	v.SetBits(nil)
}

// store writes the magnitude of r into z, zero-extending. r must fit in
// len(z) words and, as a truncated normalized result, must fill them.
func store(z []Word, r *big.Int) {
	bits := r.Bits()
	if len(bits) != len(z) || !limb.IsNormalized(bits) {
		panic(fmt.Sprintf("bridge: result has %d bits, want %d", r.BitLen(), len(z)*limb.W))
	}
	if &bits[0] != &z[0] {
		copy(z, bits)
	}
}
