package nfloat

import (
	"errors"
	"fmt"
	"math"

	"github.com/agbru/nfloat/internal/bridge"
	"github.com/agbru/nfloat/internal/limb"
)

// Word is a single mantissa limb.
type Word = limb.Word

const (
	// W is the number of bits per limb.
	W = limb.W

	// MaxLimbs is the largest limb count a Context accepts.
	MaxLimbs = limb.MaxLimbs

	// MaxPrec is the largest precision in bits a Context accepts.
	MaxPrec = MaxLimbs * W

	// MaxExp and MinExp bound the binary exponent of finite values.
	MaxExp = math.MaxInt64 / 4
	MinExp = -MaxExp

	// DefaultKaratsubaLimbs is the default limb count from which complex
	// multiplication and complex dot products switch to three-product forms.
	DefaultKaratsubaLimbs = 12
)

// Flags select which special values operations may produce.
type Flags uint8

const (
	// AllowUnderflow lets results below MinExp flush to zero.
	AllowUnderflow Flags = 1 << iota
	// AllowInf lets overflow and division by zero produce infinities.
	AllowInf
	// AllowNaN lets undefined operations produce NaN.
	AllowNaN

	// IEEE allows every special value.
	IEEE = AllowUnderflow | AllowInf | AllowNaN
)

func (f Flags) String() string {
	if f == 0 {
		return "strict"
	}
	s := ""
	for _, e := range []struct {
		f    Flags
		name string
	}{{AllowUnderflow, "underflow"}, {AllowInf, "inf"}, {AllowNaN, "nan"}} {
		if f&e.f != 0 {
			if s != "" {
				s += "|"
			}
			s += e.name
		}
	}
	return s
}

// PrecisionError is returned by NewContext for a precision outside
// [1, MaxPrec].
type PrecisionError struct {
	Prec int
}

func (e *PrecisionError) Error() string {
	return fmt.Sprintf("nfloat: precision %d bits outside [1, %d]", e.Prec, MaxPrec)
}

// ErrInvalidOption is returned by NewContext for an option value that cannot
// be used.
var ErrInvalidOption = errors.New("nfloat: invalid context option")

// Context fixes the limb count and special-value policy shared by the
// operands of every operation. It is immutable after NewContext and may be
// used concurrently.
type Context struct {
	n                int
	flags            Flags
	complexKaratsuba int
	dotKaratsuba     int
	backend          bridge.Backend

	// guard has one more limb and the same policy. It is nil for guard
	// contexts themselves.
	guard *Context
}

// Option configures a Context.
type Option func(*Context) error

// WithFlags sets the special-value policy.
func WithFlags(f Flags) Option {
	return func(c *Context) error {
		c.flags = f
		return nil
	}
}

// WithComplexKaratsubaLimbs sets the limb count from which complex
// multiplication and squaring use three real products instead of four.
func WithComplexKaratsubaLimbs(n int) Option {
	return func(c *Context) error {
		if n < 1 {
			return fmt.Errorf("%w: complex Karatsuba threshold %d", ErrInvalidOption, n)
		}
		c.complexKaratsuba = n
		return nil
	}
}

// WithDotKaratsubaLimbs sets the limb count from which complex dot products
// form imaginary parts with three real products.
func WithDotKaratsubaLimbs(n int) Option {
	return func(c *Context) error {
		if n < 1 {
			return fmt.Errorf("%w: dot Karatsuba threshold %d", ErrInvalidOption, n)
		}
		c.dotKaratsuba = n
		return nil
	}
}

// WithBackend selects the division and square root backend.
func WithBackend(b bridge.Backend) Option {
	return func(c *Context) error {
		if b == nil {
			return fmt.Errorf("%w: nil backend", ErrInvalidOption)
		}
		c.backend = b
		return nil
	}
}

// NewContext returns a context for at least prec bits of precision, rounded
// up to whole limbs. With no options the context is strict: operations that
// would produce an infinity, a NaN or an underflow report Domain or Unable
// instead.
func NewContext(prec int, opts ...Option) (*Context, error) {
	if prec <= 0 || prec > MaxPrec {
		return nil, &PrecisionError{Prec: prec}
	}
	c := &Context{
		n:                (prec + W - 1) / W,
		complexKaratsuba: DefaultKaratsubaLimbs,
		dotKaratsuba:     DefaultKaratsubaLimbs,
		backend:          bridge.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	g := *c
	g.n++
	c.guard = &g
	return c, nil
}

// MustContext is like NewContext but panics on error. It is intended for
// package-level variables and tests.
func MustContext(prec int, opts ...Option) *Context {
	c, err := NewContext(prec, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Limbs returns the number of limbs per value.
func (c *Context) Limbs() int { return c.n }

// Prec returns the precision in bits.
func (c *Context) Prec() int { return c.n * W }

// Flags returns the special-value policy.
func (c *Context) Flags() Flags { return c.flags }

// ComplexKaratsubaLimbs returns the complex multiplication threshold.
func (c *Context) ComplexKaratsubaLimbs() int { return c.complexKaratsuba }

// DotKaratsubaLimbs returns the complex dot product threshold.
func (c *Context) DotKaratsubaLimbs() int { return c.dotKaratsuba }

// Backend returns the division and square root backend.
func (c *Context) Backend() bridge.Backend { return c.backend }

// Describe summarizes the precision, special-value policy and backend.
func (c *Context) Describe() string {
	return fmt.Sprintf("nfloat(%d bits, %s, %s)", c.Prec(), c.flags, c.backend.Name())
}

// ─────────────────────────────────────────────────────────────────────────────
// Range and special-value policy
// ─────────────────────────────────────────────────────────────────────────────

// finite stores sign and exponent into z, whose mantissa is already in
// place, after checking the exponent range.
func (c *Context) finite(z *Float, neg bool, exp int64) Status {
	if exp > MaxExp {
		return c.overflow(z, neg)
	}
	if exp < MinExp {
		return c.underflow(z)
	}
	z.neg = neg
	z.exp = exp
	return Success
}

func (c *Context) overflow(z *Float, neg bool) Status {
	z.setInf(neg)
	if c.flags&AllowInf != 0 {
		return Success
	}
	return Unable
}

func (c *Context) underflow(z *Float) Status {
	z.setZero()
	if c.flags&AllowUnderflow != 0 {
		return Success
	}
	return Unable
}

// inf stores a signed infinity for a finite operation that has none, such as
// division by zero; st is reported when infinities are not allowed.
func (c *Context) inf(z *Float, neg bool, st Status) Status {
	z.setInf(neg)
	if c.flags&AllowInf != 0 {
		return Success
	}
	return st
}

// nan stores NaN; st is reported when NaNs are not allowed.
func (c *Context) nan(z *Float, st Status) Status {
	z.setNaN()
	if c.flags&AllowNaN != 0 {
		return Success
	}
	return st
}
