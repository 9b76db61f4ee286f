package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agbru/nfloat/internal/batch"
	apperrors "github.com/agbru/nfloat/internal/errors"
	"github.com/agbru/nfloat/internal/logging"
	"github.com/agbru/nfloat/internal/nfloat"
	"github.com/agbru/nfloat/internal/ring"
)

// Recorder receives one observation per evaluated operation.
type Recorder interface {
	ObserveOperation(op string, d time.Duration, st nfloat.Status)
}

// Result is the outcome of one operation. Exactly one of Real, Complex and
// Vector is set.
type Result struct {
	Op      string
	Real    *nfloat.Float
	Complex *nfloat.Complex
	Vector  []nfloat.Float
	// Algorithm names the complex multiplication strategy, if any.
	Algorithm string
	Status    nfloat.Status
	Duration  time.Duration
}

func (r *Result) measure(f func() nfloat.Status) {
	start := time.Now()
	r.Status = f()
	r.Duration = time.Since(start)
}

type runFunc func(ctx context.Context, e *Evaluator, args []string) (Result, error)

type operation struct {
	usage string
	run   runFunc
}

func (o operation) arity() int { return len(strings.Fields(o.usage)) }

var operations = map[string]operation{
	"add":    {"<x> <y>", realBinary((*nfloat.Context).Add)},
	"sub":    {"<x> <y>", realBinary((*nfloat.Context).Sub)},
	"mul":    {"<x> <y>", realBinary((*nfloat.Context).Mul)},
	"div":    {"<x> <y>", realBinary((*nfloat.Context).Div)},
	"sqrt":   {"<x>", realUnary((*nfloat.Context).Sqrt)},
	"rsqrt":  {"<x>", realUnary((*nfloat.Context).Rsqrt)},
	"inv":    {"<x>", realUnary((*nfloat.Context).Inv)},
	"dot":    {"<x1,x2,...> <y1,y2,...>", runDot},
	"cmul":   {"<a+bi> <c+di>", complexBinary((*nfloat.Context).ComplexMul)},
	"cdiv":   {"<a+bi> <c+di>", complexBinary((*nfloat.Context).ComplexDiv)},
	"matvec": {"<a11,a12;a21,a22> <x1,x2>", runMatVec},
}

// Operations returns the operation names in sorted order.
func Operations() []string {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Usage returns the operand synopsis of op.
func Usage(op string) string { return operations[op].usage }

// Evaluator runs named operations under one context.
type Evaluator struct {
	Ctx *nfloat.Context
	// Workers bounds matvec concurrency; zero selects GOMAXPROCS.
	Workers  int
	Recorder Recorder
	Logger   logging.Logger
}

func (e *Evaluator) logger() logging.Logger {
	if e.Logger == nil {
		return logging.Nop{}
	}
	return e.Logger
}

// Eval parses operands and runs op. A non-success status is reported in the
// result, not as an error; errors are reserved for malformed input and
// cancellation.
func (e *Evaluator) Eval(ctx context.Context, op string, operands []string) (Result, error) {
	spec, ok := operations[op]
	if !ok {
		return Result{}, apperrors.ValidationError{Field: "op", Message: fmt.Sprintf("unknown operation %q", op)}
	}
	if n := spec.arity(); len(operands) != n {
		return Result{}, apperrors.ValidationError{
			Field:   "operands",
			Message: fmt.Sprintf("%s takes %d operands (%s), got %d", op, n, spec.usage, len(operands)),
		}
	}
	r, err := spec.run(ctx, e, operands)
	r.Op = op
	if err != nil {
		return r, err
	}
	if e.Recorder != nil {
		e.Recorder.ObserveOperation(op, r.Duration, r.Status)
	}
	e.logger().Debug("evaluated",
		logging.String("op", op),
		logging.Int("prec", e.Ctx.Prec()),
		logging.String("status", r.Status.String()),
		logging.Duration("elapsed", r.Duration))
	return r, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Operation kinds
// ─────────────────────────────────────────────────────────────────────────────

func realBinary(f func(c *nfloat.Context, z, x, y *nfloat.Float) nfloat.Status) runFunc {
	return func(_ context.Context, e *Evaluator, args []string) (Result, error) {
		x, err := ParseReal(e.Ctx, args[0], "x")
		if err != nil {
			return Result{}, err
		}
		y, err := ParseReal(e.Ctx, args[1], "y")
		if err != nil {
			return Result{}, err
		}
		r := Result{Real: e.Ctx.New()}
		r.measure(func() nfloat.Status { return f(e.Ctx, r.Real, x, y) })
		return r, nil
	}
}

func realUnary(f func(c *nfloat.Context, z, x *nfloat.Float) nfloat.Status) runFunc {
	return func(_ context.Context, e *Evaluator, args []string) (Result, error) {
		x, err := ParseReal(e.Ctx, args[0], "x")
		if err != nil {
			return Result{}, err
		}
		r := Result{Real: e.Ctx.New()}
		r.measure(func() nfloat.Status { return f(e.Ctx, r.Real, x) })
		return r, nil
	}
}

func complexBinary(f func(c *nfloat.Context, z, x, y *nfloat.Complex) nfloat.Status) runFunc {
	return func(_ context.Context, e *Evaluator, args []string) (Result, error) {
		x, err := ParseComplex(e.Ctx, args[0], "x")
		if err != nil {
			return Result{}, err
		}
		y, err := ParseComplex(e.Ctx, args[1], "y")
		if err != nil {
			return Result{}, err
		}
		r := Result{
			Complex:   new(nfloat.Complex),
			Algorithm: e.Ctx.ComplexMulAlgorithm(x, y).String(),
		}
		r.measure(func() nfloat.Status { return f(e.Ctx, r.Complex, x, y) })
		return r, nil
	}
}

func runDot(_ context.Context, e *Evaluator, args []string) (Result, error) {
	x, err := ParseVector(e.Ctx, args[0], "x")
	if err != nil {
		return Result{}, err
	}
	y, err := ParseVector(e.Ctx, args[1], "y")
	if err != nil {
		return Result{}, err
	}
	if len(x) != len(y) {
		return Result{}, apperrors.ValidationError{
			Field:   "y",
			Message: fmt.Sprintf("has %d entries, x has %d", len(y), len(x)),
		}
	}
	r := Result{Real: e.Ctx.New()}
	r.measure(func() nfloat.Status { return e.Ctx.Dot(r.Real, nil, false, x, y) })
	return r, nil
}

func runMatVec(ctx context.Context, e *Evaluator, args []string) (Result, error) {
	a, err := ParseMatrix(e.Ctx, args[0], "a")
	if err != nil {
		return Result{}, err
	}
	x, err := ParseVector(e.Ctx, args[1], "x")
	if err != nil {
		return Result{}, err
	}
	r := Result{Vector: make([]nfloat.Float, len(a))}
	start := time.Now()
	r.Status, err = batch.MatVec(ctx, ring.Real(e.Ctx), r.Vector, a, x,
		batch.WithWorkers(e.Workers),
		batch.WithLogger(e.logger()),
		batch.WithRecorder(e.Recorder))
	r.Duration = time.Since(start)
	return r, err
}

// ─────────────────────────────────────────────────────────────────────────────
// Operand parsing
// ─────────────────────────────────────────────────────────────────────────────

func setReal(c *nfloat.Context, z *nfloat.Float, s, field string) error {
	st, err := c.SetString(z, strings.TrimSpace(s))
	if err != nil {
		return apperrors.ValidationError{Field: field, Message: err.Error()}
	}
	if st != nfloat.Success {
		return apperrors.ValidationError{Field: field, Message: fmt.Sprintf("%q is not representable (%s)", s, st)}
	}
	return nil
}

// ParseReal parses s in any syntax big.ParseFloat accepts with base 0.
func ParseReal(c *nfloat.Context, s, field string) (*nfloat.Float, error) {
	z := c.New()
	if err := setReal(c, z, s, field); err != nil {
		return nil, err
	}
	return z, nil
}

// splitComplex splits "a+bi", "a-bi", "bi" or "a" into real and imaginary
// literals.
func splitComplex(s string) (re, im string) {
	s = strings.TrimSpace(s)
	body, ok := strings.CutSuffix(s, "i")
	if !ok {
		return s, "0"
	}
	re, im = "0", body
	for k := len(body) - 1; k > 0; k-- {
		if body[k] != '+' && body[k] != '-' {
			continue
		}
		if strings.ContainsRune("eEpP", rune(body[k-1])) {
			continue
		}
		re, im = body[:k], body[k:]
		break
	}
	switch im {
	case "", "+":
		im = "1"
	case "-":
		im = "-1"
	}
	return re, im
}

// ParseComplex parses "a+bi", "a-bi", "bi" or a plain real.
func ParseComplex(c *nfloat.Context, s, field string) (*nfloat.Complex, error) {
	re, im := splitComplex(s)
	z := new(nfloat.Complex)
	if err := setReal(c, &z.Re, re, field+".re"); err != nil {
		return nil, err
	}
	if err := setReal(c, &z.Im, im, field+".im"); err != nil {
		return nil, err
	}
	return z, nil
}

// ParseVector parses comma-separated reals. The empty string is the empty
// vector.
func ParseVector(c *nfloat.Context, s, field string) ([]nfloat.Float, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	v := make([]nfloat.Float, len(parts))
	for i, p := range parts {
		if err := setReal(c, &v[i], p, fmt.Sprintf("%s[%d]", field, i)); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// ParseMatrix parses rows separated by semicolons, each a comma-separated
// vector.
func ParseMatrix(c *nfloat.Context, s, field string) ([][]nfloat.Float, error) {
	rows := strings.Split(s, ";")
	m := make([][]nfloat.Float, len(rows))
	for i, row := range rows {
		v, err := ParseVector(c, row, fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		m[i] = v
	}
	return m, nil
}
