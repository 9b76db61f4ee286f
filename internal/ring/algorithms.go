package ring

import "github.com/agbru/nfloat/internal/nfloat"

// Horner sets z to coeffs[0] + coeffs[1]·x + ... + coeffs[k]·x^k. An empty
// coefficient list evaluates to zero.
func Horner[T any](t *Table[T], z *T, coeffs []T, x *T) nfloat.Status {
	var acc, xv T
	t.Init(&acc)
	t.Set(&xv, x) // x may alias z or a coefficient
	var st nfloat.Status
	for i := len(coeffs) - 1; i >= 0; i-- {
		st |= t.Mul(&acc, &acc, &xv)
		st |= t.Add(&acc, &acc, &coeffs[i])
	}
	t.Set(z, &acc)
	return st
}

// Sum sets z to the sum of xs, rounded once.
func Sum[T any](t *Table[T], z *T, xs []T) nfloat.Status {
	ones := make([]T, len(xs))
	for i := range ones {
		t.SetInt64(&ones[i], 1)
	}
	return t.Dot(z, nil, false, xs, ones)
}
