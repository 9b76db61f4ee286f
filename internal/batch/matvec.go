// Package batch runs independent nfloat computations on a bounded pool of
// goroutines.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/nfloat/internal/errors"
	"github.com/agbru/nfloat/internal/logging"
	"github.com/agbru/nfloat/internal/nfloat"
	"github.com/agbru/nfloat/internal/parallel"
	"github.com/agbru/nfloat/internal/ring"
)

const tracerName = "github.com/agbru/nfloat/internal/batch"

// Recorder receives one observation per evaluated row.
type Recorder interface {
	ObserveOperation(op string, d time.Duration, st nfloat.Status)
}

// RowError reports a row whose dot product did not succeed.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Row, e.Err) }
func (e RowError) Unwrap() error { return e.Err }

type options struct {
	workers  int
	strict   bool
	logger   logging.Logger
	tracer   trace.Tracer
	recorder Recorder
}

// Option configures MatVec.
type Option func(*options)

// WithWorkers bounds the number of rows evaluated at once. Values below one
// select GOMAXPROCS.
func WithWorkers(n int) Option { return func(o *options) { o.workers = n } }

// WithStrict makes the first failing row abort the evaluation with a
// RowError.
func WithStrict(strict bool) Option { return func(o *options) { o.strict = strict } }

func WithLogger(l logging.Logger) Option { return func(o *options) { o.logger = l } }

func WithTracer(t trace.Tracer) Option { return func(o *options) { o.tracer = t } }

func WithRecorder(r Recorder) Option { return func(o *options) { o.recorder = r } }

// MatVec sets y[i] to the dot product of row a[i] with x, each row rounded
// once, evaluating rows concurrently. y may alias x. The returned status is
// the union of the row statuses. Without WithStrict a failing row only
// contributes its status; with it, the first failure is returned as a
// RowError and the remaining rows are abandoned. Cancelling ctx stops
// scheduling further rows; y is left unchanged unless every row ran.
func MatVec[T any](ctx context.Context, t *ring.Table[T], y []T, a [][]T, x []T, opts ...Option) (st nfloat.Status, err error) {
	o := options{logger: logging.Nop{}, tracer: otel.Tracer(tracerName)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}

	ctx, span := o.tracer.Start(ctx, "batch.MatVec", trace.WithAttributes(
		attribute.String("nfloat.type", t.Name),
		attribute.Int("matvec.rows", len(a)),
		attribute.Int("matvec.cols", len(x)),
		attribute.Int("matvec.workers", o.workers),
	))
	defer func() {
		span.SetAttributes(attribute.String("nfloat.status", st.String()))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := validate(y, a, x); err != nil {
		return nfloat.Success, err
	}

	out := make([]T, len(a))
	statuses := make([]nfloat.Status, len(a))
	var failures parallel.ErrorCollector

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	start := time.Now()
	for i := range a {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rowStart := time.Now()
			rs := t.Dot(&out[i], nil, false, a[i], x)
			statuses[i] = rs
			if o.recorder != nil {
				o.recorder.ObserveOperation("matvec_row", time.Since(rowStart), rs)
			}
			if rs == nfloat.Success {
				return nil
			}
			rowErr := RowError{Row: i, Err: apperrors.NewCalculationError("dot", rs)}
			o.logger.Debug("matvec row failed", logging.Int("row", i), logging.String("status", rs.String()))
			failures.SetError(rowErr)
			if o.strict {
				return rowErr
			}
			return nil
		})
	}
	werr := g.Wait()

	for _, rs := range statuses {
		st |= rs
	}
	if werr == nil {
		werr = ctx.Err()
	}
	if werr != nil {
		if apperrors.IsContextError(werr) {
			return st, apperrors.WrapError(werr, "matvec")
		}
		return st, werr
	}

	for i := range out {
		t.Set(&y[i], &out[i])
	}
	fields := []logging.Field{
		logging.Int("rows", len(a)),
		logging.Duration("elapsed", time.Since(start)),
		logging.String("status", st.String()),
	}
	if ferr := failures.Err(); ferr != nil {
		fields = append(fields, logging.Err(ferr))
	}
	o.logger.Debug("matvec done", fields...)
	return st, nil
}

func validate[T any](y []T, a [][]T, x []T) error {
	if len(y) != len(a) {
		return apperrors.ValidationError{
			Field:   "y",
			Message: fmt.Sprintf("has %d entries for %d rows", len(y), len(a)),
		}
	}
	for i, row := range a {
		if len(row) != len(x) {
			return apperrors.ValidationError{
				Field:   fmt.Sprintf("a[%d]", i),
				Message: fmt.Sprintf("row has %d entries, x has %d", len(row), len(x)),
			}
		}
	}
	return nil
}
