// Package calibration measures where Karatsuba-style complex products start
// to beat the four-product forms on the running machine, and caches the
// result in a JSON profile.
package calibration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/nfloat/internal/errors"
	"github.com/agbru/nfloat/internal/logging"
	"github.com/agbru/nfloat/internal/nfloat"
	"github.com/agbru/nfloat/internal/sysmon"
)

const tracerName = "github.com/agbru/nfloat/internal/calibration"

// Kinds of crossover.
const (
	KindComplexMul = "complex_mul"
	KindComplexDot = "complex_dot"
)

// Never is the threshold stored when Karatsuba never won: one more limb
// than any context has.
const Never = nfloat.MaxLimbs + 1

// ErrSystemBusy is returned when the CPU is too loaded for timings to be
// trusted and Force is not set.
var ErrSystemBusy = errors.New("calibration: system is busy")

// dotLength is the vector length timed for complex dot products.
const dotLength = 16

// CrossoverRecorder receives calibrated thresholds.
type CrossoverRecorder interface {
	SetCrossover(kind string, limbs int)
}

// Options configures Run.
type Options struct {
	Out         io.Writer
	Logger      logging.Logger
	Tracer      trace.Tracer
	Recorder    CrossoverRecorder
	ProfilePath string // empty for the default path
	Quick       bool   // fewer sizes and repetitions
	Force       bool   // time even on a busy machine
	// Sample reports the system load before timing; nil uses sysmon.Sample.
	Sample func(ctx context.Context) (sysmon.Stats, error)
	// Progress is called after each measured size with the number done and
	// the total.
	Progress func(done, total int)
}

// Measurement is the timing of one kind at one limb count.
type Measurement struct {
	Kind      string
	Limbs     int
	Standard  time.Duration
	Karatsuba time.Duration
	Err       error
}

// KaratsubaWins reports whether the Karatsuba form was strictly faster.
func (m Measurement) KaratsubaWins() bool {
	return m.Err == nil && m.Karatsuba < m.Standard
}

// GenerateLimbCounts returns the limb counts to time.
func GenerateLimbCounts(quick bool) []int {
	sizes := []int{2, 4, 6, 8, 10, 12, 16, 20, 24, 32, 48, 64}
	if quick {
		sizes = []int{4, 8, 12, 16, 24, 32}
	}
	out := sizes[:0]
	for _, n := range sizes {
		if n <= nfloat.MaxLimbs {
			out = append(out, n)
		}
	}
	return out
}

// Crossover returns the smallest measured limb count from which Karatsuba
// wins at every larger measured size too, or Never. Measurements must be of
// one kind in increasing limb order.
func Crossover(ms []Measurement) int {
	best := Never
	for i := len(ms) - 1; i >= 0; i-- {
		if !ms[i].KaratsubaWins() {
			break
		}
		best = ms[i].Limbs
	}
	return best
}

// Run times both kinds at every size, prints a summary, saves the profile
// and returns it.
//
// Parameters:
//   - ctx: Cancels the run between measurements. Nothing is saved then.
//   - opts: Output, logging, tracing and progress hooks. Zero values get
//     defaults.
//
// Returns:
//   - *CalibrationProfile: The saved profile.
//   - error: ErrSystemBusy when the machine is loaded and opts.Force is
//     unset, the context error, or a save failure.
func Run(ctx context.Context, opts Options) (*CalibrationProfile, error) {
	if opts.Logger == nil {
		opts.Logger = logging.Nop{}
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}
	path := opts.ProfilePath
	if path == "" {
		path = GetDefaultProfilePath()
	}

	ctx, span := opts.Tracer.Start(ctx, "calibration.Run", trace.WithAttributes(attribute.Bool("calibration.quick", opts.Quick)))
	defer span.End()
	fail := func(err error) (*CalibrationProfile, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	if opts.Sample == nil {
		opts.Sample = func(ctx context.Context) (sysmon.Stats, error) {
			return sysmon.Sample(ctx, 200*time.Millisecond)
		}
	}
	if load, err := opts.Sample(ctx); err != nil {
		opts.Logger.Debug("load sample unavailable", logging.Err(err))
	} else if load.Busy() {
		if !opts.Force {
			return fail(fmt.Errorf("%w (cpu %.1f%%, retry when idle or force it)", ErrSystemBusy, load.CPUPercent))
		}
		opts.Logger.Info("system is busy, timings may be noisy", logging.Float64("cpu_percent", load.CPUPercent))
	}

	start := time.Now()
	sizes := GenerateLimbCounts(opts.Quick)
	reps := 2000
	if opts.Quick {
		reps = 300
	}

	var mul, dot []Measurement
	total := 2 * len(sizes)
	for _, n := range sizes {
		for _, kind := range []string{KindComplexMul, KindComplexDot} {
			if err := ctx.Err(); err != nil {
				return fail(apperrors.WrapError(err, "calibration"))
			}
			m := measure(ctx, opts.Tracer, kind, n, reps)
			if m.Err != nil {
				opts.Logger.Error("measurement failed", m.Err, logging.String("kind", kind), logging.Int("limbs", n))
			}
			if kind == KindComplexMul {
				mul = append(mul, m)
			} else {
				dot = append(dot, m)
			}
			if opts.Progress != nil {
				opts.Progress(len(mul)+len(dot), total)
			}
		}
	}

	p := NewProfile()
	p.ComplexKaratsubaLimbs = Crossover(mul)
	p.DotKaratsubaLimbs = Crossover(dot)
	p.CalibrationTime = time.Since(start).Round(time.Millisecond).String()
	span.SetAttributes(
		attribute.Int("calibration.complex_mul_limbs", p.ComplexKaratsubaLimbs),
		attribute.Int("calibration.complex_dot_limbs", p.DotKaratsubaLimbs),
	)
	if opts.Recorder != nil {
		opts.Recorder.SetCrossover(KindComplexMul, p.ComplexKaratsubaLimbs)
		opts.Recorder.SetCrossover(KindComplexDot, p.DotKaratsubaLimbs)
	}

	printCalibrationResults(opts.Out, "Complex multiplication", mul, p.ComplexKaratsubaLimbs)
	printCalibrationResults(opts.Out, "Complex dot product", dot, p.DotKaratsubaLimbs)

	if err := p.SaveProfile(path); err != nil {
		return fail(err)
	}
	opts.Logger.Info("calibration saved",
		logging.String("path", path),
		logging.Int("complex_mul_limbs", p.ComplexKaratsubaLimbs),
		logging.Int("complex_dot_limbs", p.DotKaratsubaLimbs))
	return p, nil
}

// measure times kind at n limbs with the Karatsuba threshold forced on and
// off, keeping the best of three batches of reps operations each.
func measure(ctx context.Context, tracer trace.Tracer, kind string, n, reps int) Measurement {
	_, span := tracer.Start(ctx, "calibration.measure", trace.WithAttributes(
		attribute.String("calibration.kind", kind),
		attribute.Int("calibration.limbs", n),
	))
	defer span.End()

	m := Measurement{Kind: kind, Limbs: n}
	prec := n * nfloat.W
	var on, off *nfloat.Context
	var err error
	if kind == KindComplexMul {
		on, err = nfloat.NewContext(prec, nfloat.WithComplexKaratsubaLimbs(1))
		if err == nil {
			off, err = nfloat.NewContext(prec, nfloat.WithComplexKaratsubaLimbs(Never))
		}
	} else {
		on, err = nfloat.NewContext(prec, nfloat.WithDotKaratsubaLimbs(1))
		if err == nil {
			off, err = nfloat.NewContext(prec, nfloat.WithDotKaratsubaLimbs(Never))
		}
	}
	if err != nil {
		m.Err = err
		span.RecordError(err)
		return m
	}

	r := rand.New(rand.NewPCG(uint64(n), 0x6e666c6f6174))
	xs := randomComplexes(on, r, dotLength)
	ys := randomComplexes(on, r, dotLength)
	run := func(c *nfloat.Context) time.Duration {
		var z nfloat.Complex
		best := time.Duration(1<<63 - 1)
		for range 3 {
			start := time.Now()
			for range reps {
				if kind == KindComplexMul {
					c.ComplexMul(&z, &xs[0], &ys[0])
				} else {
					c.ComplexDot(&z, nil, false, xs, ys)
				}
			}
			best = min(best, time.Since(start))
		}
		return best / time.Duration(reps)
	}
	m.Standard = run(off)
	m.Karatsuba = run(on)
	span.SetAttributes(
		attribute.Int64("calibration.standard_ns", m.Standard.Nanoseconds()),
		attribute.Int64("calibration.karatsuba_ns", m.Karatsuba.Nanoseconds()),
	)
	return m
}

// randomComplexes returns values with full-width random significands in
// [0.5, 1) and both components non-zero.
func randomComplexes(c *nfloat.Context, r *rand.Rand, k int) []nfloat.Complex {
	prec := c.Prec()
	words := make([]big.Word, c.Limbs())
	component := func(z *nfloat.Float) {
		for i := range words {
			words[i] = big.Word(r.Uint64())
		}
		v := new(big.Int).SetBits(words)
		v.SetBit(v, prec-1, 1)
		c.SetInt(z, v)
		c.Mul2Exp(z, z, -int64(prec))
		if r.IntN(2) == 0 {
			c.Neg(z, z)
		}
	}
	out := make([]nfloat.Complex, k)
	for i := range out {
		component(&out[i].Re)
		component(&out[i].Im)
	}
	return out
}

// Summary returns a one-line description of the thresholds in p.
func Summary(p *CalibrationProfile) string {
	describe := func(n int) string {
		if n >= Never {
			return "never"
		}
		return fmt.Sprintf("%d limbs (%d bits)", n, n*nfloat.W)
	}
	return fmt.Sprintf("complex Karatsuba from %s, dot Karatsuba from %s",
		describe(p.ComplexKaratsubaLimbs), describe(p.DotKaratsubaLimbs))
}
