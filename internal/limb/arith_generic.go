//go:build !nfloat_linkname

// This file provides the portable vector carry chains. Builds with the
// nfloat_linkname tag use math/big's internal routines instead (see
// arith_decl.go).

package limb

import "math/bits"

const backendName = "generic"

func addVV(z, x, y []Word) Word {
	var c uint
	for i := range z {
		var s uint
		s, c = bits.Add(uint(x[i]), uint(y[i]), c)
		z[i] = Word(s)
	}
	return Word(c)
}

func subVV(z, x, y []Word) Word {
	var b uint
	for i := range z {
		var d uint
		d, b = bits.Sub(uint(x[i]), uint(y[i]), b)
		z[i] = Word(d)
	}
	return Word(b)
}

func addMulVVW(z, x []Word, y Word) Word {
	var c uint
	for i := range z {
		hi, lo := bits.Mul(uint(x[i]), uint(y))
		var cc uint
		lo, cc = bits.Add(lo, uint(z[i]), 0)
		hi += cc
		lo, cc = bits.Add(lo, c, 0)
		hi += cc
		z[i] = Word(lo)
		c = hi
	}
	return Word(c)
}
