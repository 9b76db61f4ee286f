package bridge

import (
	"math/big"
	"sync"

	"github.com/agbru/nfloat/internal/limb"
)

// BigFloat is the default backend. Quotients use big.Float at exactly the
// mantissa precision with big.ToZero; roots use big.Int.Sqrt, which returns
// the floor of the exact root.
type BigFloat struct{}

// Name returns "big".
func (BigFloat) Name() string { return "big" }

// ─────────────────────────────────────────────────────────────────────────────
// Scratch Pool
// ─────────────────────────────────────────────────────────────────────────────

// scratch holds the math/big temporaries of one bridge call. Keeping them
// together lets their internal buffers be reused across calls.
type scratch struct {
	vx, vy big.Int // views; never own memory
	r, a   big.Int
	fx, fy big.Float
	fq, fm big.Float
}

var scratchPool = sync.Pool{New: func() any { return new(scratch) }}

// acquireScratch gets a scratch set from the pool. It must be returned with
// releaseScratch, preferably with defer.
func acquireScratch() *scratch {
	return scratchPool.Get().(*scratch)
}

// releaseScratch detaches any views and returns s to the pool.
func releaseScratch(s *scratch) {
	release(&s.vx)
	release(&s.vy)
	scratchPool.Put(s)
}

// ─────────────────────────────────────────────────────────────────────────────
// Operations
// ─────────────────────────────────────────────────────────────────────────────

// Quo implements Backend.
func (BigFloat) Quo(z, x, y []Word) int64 {
	prec := uint(len(z) * limb.W)
	s := acquireScratch()
	defer releaseScratch(s)

	// SetInt copies the words, so the views can go before z is written.
	s.fx.SetPrec(prec).SetMode(big.ToZero).SetInt(view(&s.vx, x))
	s.fy.SetPrec(prec).SetMode(big.ToZero).SetInt(view(&s.vy, y))
	release(&s.vx)
	release(&s.vy)

	s.fq.SetPrec(prec).SetMode(big.ToZero).Quo(&s.fx, &s.fy)
	e := s.fq.MantExp(&s.fm)
	s.fm.SetMantExp(&s.fm, int(prec))
	s.fm.Int(&s.r)
	store(z, &s.r)
	return int64(e)
}

// Sqrt implements Backend.
func (BigFloat) Sqrt(z, x []Word, odd bool) {
	shift := uint(len(z) * limb.W)
	if odd {
		shift--
	}
	s := acquireScratch()
	defer releaseScratch(s)

	s.r.Lsh(view(&s.vx, x), shift)
	release(&s.vx)
	s.r.Sqrt(&s.r)
	store(z, &s.r)
}

// Rsqrt implements Backend.
func (BigFloat) Rsqrt(z, x []Word, odd bool) {
	shift := uint(3*len(z)*limb.W - 2)
	if odd {
		shift++
	}
	s := acquireScratch()
	defer releaseScratch(s)

	s.a.SetInt64(1)
	s.a.Lsh(&s.a, shift)
	s.a.Quo(&s.a, view(&s.vx, x))
	release(&s.vx)
	s.a.Sqrt(&s.a)
	store(z, &s.a)
}
