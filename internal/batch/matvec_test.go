package batch

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace/noop"

	apperrors "github.com/agbru/nfloat/internal/errors"
	"github.com/agbru/nfloat/internal/logging"
	"github.com/agbru/nfloat/internal/nfloat"
	"github.com/agbru/nfloat/internal/ring"
)

func ints(t *ring.Table[nfloat.Float], vs ...int64) []nfloat.Float {
	out := make([]nfloat.Float, len(vs))
	for i, v := range vs {
		t.SetInt64(&out[i], v)
	}
	return out
}

func requireInts(tb testing.TB, t *ring.Table[nfloat.Float], got []nfloat.Float, want ...int64) {
	tb.Helper()
	for i := range want {
		if v, _ := t.Ctx.Int64(&got[i]); v != want[i] {
			tb.Errorf("y[%d] = %s, want %d", i, t.String(&got[i]), want[i])
		}
	}
}

type countingRecorder struct {
	mu    sync.Mutex
	calls map[nfloat.Status]int
}

func (r *countingRecorder) ObserveOperation(op string, _ time.Duration, st nfloat.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = make(map[nfloat.Status]int)
	}
	r.calls[st]++
}

// ─────────────────────────────────────────────────────────────────────────────
// Results
// ─────────────────────────────────────────────────────────────────────────────

func TestMatVecReal(t *testing.T) {
	t.Parallel()
	tab := ring.Real(nfloat.MustContext(128))
	a := [][]nfloat.Float{
		ints(tab, 1, 2, 3),
		ints(tab, -4, 5, -6),
		ints(tab, 0, 0, 0),
		ints(tab, 7, 8, 9),
	}
	x := ints(tab, 1, -1, 2)
	for _, workers := range []int{0, 1, 3, 16} {
		y := make([]nfloat.Float, len(a))
		st, err := MatVec(context.Background(), tab, y, a, x, WithWorkers(workers))
		if err != nil || st != nfloat.Success {
			t.Fatalf("workers=%d: %v, %v", workers, st, err)
		}
		requireInts(t, tab, y, 5, -21, 0, 17)
	}
}

func TestMatVecRowsRoundOnce(t *testing.T) {
	t.Parallel()
	tab := ring.Real(nfloat.MustContext(64))
	c := tab.Ctx
	big := c.New()
	c.Mul2Exp(big, c.NewInt64(1), 90)
	row := []nfloat.Float{*big, *c.NewInt64(1), *big}
	x := ints(tab, 1, 1, -1)
	y := make([]nfloat.Float, 1)
	if _, err := MatVec(context.Background(), tab, y, [][]nfloat.Float{row}, x); err != nil {
		t.Fatal(err)
	}
	if !c.IsOne(&y[0]) {
		t.Errorf("2^90 + 1 - 2^90 = %s, want 1", c.String(&y[0]))
	}
}

func TestMatVecComplex(t *testing.T) {
	t.Parallel()
	tab := ring.Complex(nfloat.MustContext(192))
	c := tab.Ctx
	mk := func(vs ...complex128) []nfloat.Complex {
		out := make([]nfloat.Complex, len(vs))
		for i, v := range vs {
			c.SetComplex128(&out[i], v)
		}
		return out
	}
	a := [][]nfloat.Complex{mk(1+1i, 2), mk(0, 1i)}
	x := mk(1i, 3-1i)
	y := make([]nfloat.Complex, 2)
	if _, err := MatVec(context.Background(), tab, y, a, x, WithWorkers(2)); err != nil {
		t.Fatal(err)
	}
	// (1+i)i + 2(3-i) = 5-i ; i(3-i) = 1+3i
	if got := c.Complex128(&y[0]); got != 5-1i {
		t.Errorf("y[0] = %v", got)
	}
	if got := c.Complex128(&y[1]); got != 1+3i {
		t.Errorf("y[1] = %v", got)
	}
}

func TestMatVecAliasing(t *testing.T) {
	t.Parallel()
	tab := ring.Real(nfloat.MustContext(128))
	a := [][]nfloat.Float{ints(tab, 0, 1), ints(tab, 1, 0)}
	x := ints(tab, 3, 4)
	if _, err := MatVec(context.Background(), tab, x, a, x); err != nil {
		t.Fatal(err)
	}
	requireInts(t, tab, x, 4, 3)
}

// ─────────────────────────────────────────────────────────────────────────────
// Failures
// ─────────────────────────────────────────────────────────────────────────────

func TestMatVecValidation(t *testing.T) {
	t.Parallel()
	tab := ring.Real(nfloat.MustContext(64))
	tests := []struct {
		name  string
		y     []nfloat.Float
		a     [][]nfloat.Float
		x     []nfloat.Float
		field string
	}{
		{"ShortY", make([]nfloat.Float, 1), [][]nfloat.Float{ints(tab, 1), ints(tab, 2)}, ints(tab, 1), "y"},
		{"RaggedRow", make([]nfloat.Float, 2), [][]nfloat.Float{ints(tab, 1, 2), ints(tab, 2)}, ints(tab, 1, 1), "a[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := MatVec(context.Background(), tab, tt.y, tt.a, tt.x)
			var v apperrors.ValidationError
			if !errors.As(err, &v) || v.Field != tt.field {
				t.Errorf("error = %v, want ValidationError for %q", err, tt.field)
			}
		})
	}
}

func overflowingRows(tab *ring.Table[nfloat.Float]) ([][]nfloat.Float, []nfloat.Float) {
	c := tab.Ctx
	huge := c.New()
	c.Mul2Exp(huge, c.NewInt64(1), nfloat.MaxExp-1)
	// Only the middle row overflows.
	a := [][]nfloat.Float{ints(tab, 0, 0), {*huge, *huge}, ints(tab, 0, 0)}
	x := []nfloat.Float{*huge, *huge}
	return a, x
}

func TestMatVecLenientCollectsStatus(t *testing.T) {
	t.Parallel()
	tab := ring.Real(nfloat.MustContext(128))
	a, x := overflowingRows(tab)
	rec := &countingRecorder{}
	var logs bytes.Buffer
	y := make([]nfloat.Float, len(a))
	st, err := MatVec(context.Background(), tab, y, a, x,
		WithRecorder(rec),
		WithLogger(logging.NewStdLoggerAdapter(log.New(&logs, "", 0))))
	if err != nil {
		t.Fatal(err)
	}
	if st != nfloat.Unable {
		t.Errorf("status = %v, want unable", st)
	}
	if !y[0].IsZero() || !y[2].IsZero() {
		t.Error("successful rows not written")
	}
	if rec.calls[nfloat.Success] != 2 || rec.calls[nfloat.Unable] != 1 {
		t.Errorf("recorder saw %v", rec.calls)
	}
	if !strings.Contains(logs.String(), "row=1") {
		t.Errorf("failing row not logged: %s", logs.String())
	}
}

func TestMatVecStrictReturnsRowError(t *testing.T) {
	t.Parallel()
	tab := ring.Real(nfloat.MustContext(128))
	a, x := overflowingRows(tab)
	y := make([]nfloat.Float, len(a))
	_, err := MatVec(context.Background(), tab, y, a, x, WithStrict(true), WithWorkers(1))
	var rowErr RowError
	if !errors.As(err, &rowErr) || rowErr.Row != 1 {
		t.Fatalf("error = %v, want RowError for row 1", err)
	}
	if !errors.Is(err, nfloat.ErrUnable) {
		t.Errorf("error %v does not match ErrUnable", err)
	}
	if got := apperrors.ExitCode(err); got != apperrors.ExitErrorUnable {
		t.Errorf("exit code %d", got)
	}
}

func TestMatVecCancelled(t *testing.T) {
	t.Parallel()
	tab := ring.Real(nfloat.MustContext(64))
	a := [][]nfloat.Float{ints(tab, 1), ints(tab, 2)}
	y := ints(tab, 9, 9)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := MatVec(ctx, tab, y, a, ints(tab, 1), WithTracer(noop.NewTracerProvider().Tracer("test")))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	requireInts(t, tab, y, 9, 9)
}

func TestRowError(t *testing.T) {
	t.Parallel()
	err := RowError{Row: 4, Err: apperrors.NewCalculationError("dot", nfloat.Domain)}
	if got, want := err.Error(), "row 4: dot: nfloat: domain error"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
