//go:build nfloat_linkname

// WARNING: This file uses //go:linkname to reach unexported vector routines
// in math/big, which carry assembly implementations on most platforms. The
// technique is fragile:
//
//  1. These functions are not part of Go's public API and may change or be
//     removed in future Go versions without notice.
//  2. The signatures must match exactly; any mismatch can cause memory
//     corruption.
//
// The fast path is opt-in (go build -tags nfloat_linkname). If it fails to
// compile after a Go upgrade, build without the tag.

package limb

import (
	_ "unsafe" // Required for go:linkname
)

const backendName = "math/big"

// addVV computes z = x + y element-wise and returns the carry.
//
//go:linkname addVV math/big.addVV
//go:noescape
func addVV(z, x, y []Word) (c Word)

// subVV computes z = x - y element-wise and returns the borrow.
//
//go:linkname subVV math/big.subVV
//go:noescape
func subVV(z, x, y []Word) (c Word)

// addMulVVW computes z += x*y element-wise and returns the carry.
//
//go:linkname addMulVVW math/big.addMulVVW
//go:noescape
func addMulVVW(z, x []Word, y Word) (c Word)
