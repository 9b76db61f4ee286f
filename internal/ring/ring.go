// Package ring presents nfloat contexts as tables of named operations, so
// that one generic algorithm can run over real and complex values of any
// precision.
//
// Tables for the common precisions are registered under type names such as
// "nfloat128" and "nfloat_complex256" and built once on first lookup.
// Tables for other contexts are made with Real and Complex.
package ring

import (
	"github.com/agbru/nfloat/internal/nfloat"
)

// Method names, in the order Methods reports them.
const (
	MethodInit   = "init"
	MethodSet    = "set"
	MethodNeg    = "neg"
	MethodAdd    = "add"
	MethodSub    = "sub"
	MethodMul    = "mul"
	MethodDiv    = "div"
	MethodInv    = "inv"
	MethodSqrt   = "sqrt"
	MethodRsqrt  = "rsqrt"
	MethodCmp    = "cmp"
	MethodEqual  = "equal"
	MethodDot    = "dot"
	MethodDotRev = "dot_rev"
)

// Table is the method table of one element type under one context.
// Operations a type does not support are nil.
type Table[T any] struct {
	// Name is the registered type name, or a generated one for tables
	// made directly.
	Name string
	// Ctx is the context every operation runs under.
	Ctx *nfloat.Context

	Init     func(z *T)
	Set      func(z, x *T)
	Neg      func(z, x *T)
	SetInt64 func(z *T, v int64) nfloat.Status
	Add      func(z, x, y *T) nfloat.Status
	Sub      func(z, x, y *T) nfloat.Status
	Mul      func(z, x, y *T) nfloat.Status
	Div      func(z, x, y *T) nfloat.Status
	Inv      func(z, x *T) nfloat.Status
	Sqrt     func(z, x *T) nfloat.Status
	Rsqrt    func(z, x *T) nfloat.Status
	Cmp      func(x, y *T) (int, nfloat.Status)
	Equal    func(x, y *T) (bool, nfloat.Status)
	Dot      func(z, initial *T, subtract bool, x, y []T) nfloat.Status
	DotRev   func(z, initial *T, subtract bool, x, y []T) nfloat.Status
	String   func(x *T) string
}

// Methods returns the names of the operations t supports.
func (t *Table[T]) Methods() []string {
	all := []struct {
		name    string
		present bool
	}{
		{MethodInit, t.Init != nil},
		{MethodSet, t.Set != nil},
		{MethodNeg, t.Neg != nil},
		{MethodAdd, t.Add != nil},
		{MethodSub, t.Sub != nil},
		{MethodMul, t.Mul != nil},
		{MethodDiv, t.Div != nil},
		{MethodInv, t.Inv != nil},
		{MethodSqrt, t.Sqrt != nil},
		{MethodRsqrt, t.Rsqrt != nil},
		{MethodCmp, t.Cmp != nil},
		{MethodEqual, t.Equal != nil},
		{MethodDot, t.Dot != nil},
		{MethodDotRev, t.DotRev != nil},
	}
	names := make([]string, 0, len(all))
	for _, m := range all {
		if m.present {
			names = append(names, m.name)
		}
	}
	return names
}

// Has reports whether t supports the named operation.
func (t *Table[T]) Has(method string) bool {
	for _, m := range t.Methods() {
		if m == method {
			return true
		}
	}
	return false
}

// New returns a new element set to zero.
func (t *Table[T]) New() *T {
	z := new(T)
	t.Init(z)
	return z
}

// Real returns the method table of nfloat.Float under c.
func Real(c *nfloat.Context) *Table[nfloat.Float] {
	return &Table[nfloat.Float]{
		Name:     realName(c.Prec()),
		Ctx:      c,
		Init:     func(z *nfloat.Float) { c.Zero(z) },
		Set:      c.Set,
		Neg:      c.Neg,
		SetInt64: c.SetInt64,
		Add:      c.Add,
		Sub:      c.Sub,
		Mul:      c.Mul,
		Div:      c.Div,
		Inv:      c.Inv,
		Sqrt:     c.Sqrt,
		Rsqrt:    c.Rsqrt,
		Cmp:      c.Cmp,
		Equal:    c.Equal,
		Dot:      c.Dot,
		DotRev:   c.DotRev,
		String:   c.String,
	}
}

// Complex returns the method table of nfloat.Complex under c. Complex
// values are unordered and have no square root here.
func Complex(c *nfloat.Context) *Table[nfloat.Complex] {
	return &Table[nfloat.Complex]{
		Name: complexName(c.Prec()),
		Ctx:  c,
		Init: func(z *nfloat.Complex) { c.ComplexZero(z) },
		Set:  c.ComplexSet,
		Neg:  c.ComplexNeg,
		SetInt64: func(z *nfloat.Complex, v int64) nfloat.Status {
			c.Zero(&z.Im)
			return c.SetInt64(&z.Re, v)
		},
		Add:    c.ComplexAdd,
		Sub:    c.ComplexSub,
		Mul:    c.ComplexMul,
		Div:    c.ComplexDiv,
		Inv:    c.ComplexInv,
		Equal:  c.ComplexEqual,
		Dot:    c.ComplexDot,
		DotRev: c.ComplexDotRev,
		String: c.ComplexString,
	}
}
