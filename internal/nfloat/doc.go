// Package nfloat implements fixed-precision binary floating-point arithmetic
// on multi-limb mantissas.
//
// A Context fixes the number of limbs n (machine words) of every value it
// operates on, together with a small policy for special values. A Float is
// plain data: a sign, a binary exponent and a fixed-capacity mantissa buffer
// of which the first n words are significant. A finite non-zero value is
//
//	0.d[n-1] d[n-2] ... d[0] × 2^exp
//
// with the top bit of d[n-1] always set. Zero, infinities and NaN use
// sentinel exponents below MinExp.
//
// Operations are methods on the Context, in the style of
//
//	st := ctx.Add(z, x, y)
//
// and return a Status. Status flags from several steps may be OR-ed together
// and checked once; a result is only meaningful when the combined status is
// Success. Every operation accepts aliased arguments (z == x, z == y).
//
// Results are truncated toward zero, except where documented: high-part-only
// multiplication and effective subtraction may differ from the exact result
// by a few units in the last place, and the dot-product accumulator rounds
// once at the end.
//
// Contexts are immutable and safe for concurrent use. Hot paths never
// allocate: every temporary is a fixed-size array on the stack.
package nfloat
