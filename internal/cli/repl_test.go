package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/agbru/nfloat/internal/config"
	"github.com/agbru/nfloat/internal/nfloat"
)

func newTestREPL(t *testing.T) (*REPL, *bytes.Buffer) {
	t.Helper()
	cfg := config.AppConfig{Prec: 128, Format: "g"}
	r := NewREPL(cfg, nfloat.MustContext(128), nil)
	var out bytes.Buffer
	r.SetOutput(&out)
	return r, &out
}

func stackInts(t *testing.T, r *REPL) []int64 {
	t.Helper()
	vs := make([]int64, len(r.Stack()))
	for i := range r.Stack() {
		v, st := r.Context().Int64(&r.Stack()[i])
		if !st.Ok() {
			t.Fatalf("stack[%d] = %s is not an integer", i, r.Context().String(&r.Stack()[i]))
		}
		vs[i] = v
	}
	return vs
}

func TestREPLCommands(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		lines []string
		stack []int64
		out   string
	}{
		{"Push", []string{"1 2 3"}, []int64{1, 2, 3}, "3"},
		{"Add", []string{"1 2 +"}, []int64{3}, "3"},
		{"AcrossLines", []string{"10", "4", "-"}, []int64{6}, "6"},
		{"Mul", []string{"6 7 *"}, []int64{42}, "42"},
		{"Div", []string{"1 4 / 8 *"}, []int64{2}, "2"},
		{"Dup", []string{"3 dup *"}, []int64{9}, "9"},
		{"Swap", []string{"1 2 swap -"}, []int64{1}, "1"},
		{"Drop", []string{"1 2 drop"}, []int64{1}, "1"},
		{"Clear", []string{"1 2 clear"}, []int64{}, ""},
		{"Neg", []string{"5 neg abs neg"}, []int64{-5}, "-5"},
		{"Sqr", []string{"12 sqr"}, []int64{144}, "144"},
		{"Sqrt", []string{"81 sqrt"}, []int64{9}, "9"},
		{"Inv", []string{"0.25 inv"}, []int64{4}, "4"},
		{"DivisionByZero", []string{"1 0 /"}, []int64{1, 0}, "/: nfloat: domain error"},
		{"Underflow", []string{"1 +"}, []int64{1}, "+: needs 2 operands, stack has 1"},
		{"Unknown", []string{"1 foo 2"}, []int64{1}, "unknown command or number: foo"},
		{"Sum", []string{"1 2 3 4 sum"}, []int64{10}, "10"},
		{"SumEmpty", []string{"sum"}, []int64{0}, "0"},
		{"Poly", []string{"1 0 -2 3 poly"}, []int64{7}, "7"},
		{"PolyConstant", []string{"5 9 poly"}, []int64{5}, "5"},
		{"PolyUnderflow", []string{"3 poly"}, []int64{3}, "poly: needs 2 operands, stack has 1"},
		{"Show", []string{"7 8 show"}, []int64{7, 8}, "1: 7"},
		{"ShowEmpty", []string{"show"}, []int64{}, "(empty)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, out := newTestREPL(t)
			for _, line := range tt.lines {
				if !r.processCommand(line) {
					t.Fatalf("%q ended the session", line)
				}
			}
			got := stackInts(t, r)
			if len(got) != len(tt.stack) {
				t.Fatalf("stack = %v, want %v", got, tt.stack)
			}
			for i := range got {
				if got[i] != tt.stack[i] {
					t.Fatalf("stack = %v, want %v", got, tt.stack)
				}
			}
			if !strings.Contains(out.String(), tt.out) {
				t.Errorf("output lacks %q:\n%s", tt.out, out.String())
			}
		})
	}
}

func TestREPLPrec(t *testing.T) {
	t.Parallel()
	r, out := newTestREPL(t)
	r.processCommand("2 sqrt")
	r.processCommand("prec 256")
	if r.Context().Prec() != 256 {
		t.Fatalf("Prec() = %d", r.Context().Prec())
	}
	// The carried value keeps its 128-bit digits; squaring it is not exact.
	r.processCommand("dup *")
	if v := r.Context().Float64(&r.Stack()[0]); v < 1.999999 || v > 2.000001 {
		t.Errorf("sqrt(2)² = %v", v)
	}
	r.processCommand("prec")
	if !strings.Contains(out.String(), "256 bits (4 limbs)") {
		t.Errorf("output lacks precision report:\n%s", out.String())
	}
	r.processCommand("prec 0")
	r.processCommand("prec many")
	if r.Context().Prec() != 256 {
		t.Errorf("invalid precision changed the context to %d", r.Context().Prec())
	}
	if !strings.Contains(out.String(), "Invalid precision: many") {
		t.Errorf("output lacks parse error:\n%s", out.String())
	}
}

func TestREPLHelpAndStatus(t *testing.T) {
	t.Parallel()
	r, out := newTestREPL(t)
	r.processCommand("help")
	r.processCommand("status")
	for _, want := range []string{"rsqrt", "reciprocal square root", "prec [bits]", "Precision", "128 bits", "Backend"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output lacks %q", want)
		}
	}
}

func TestREPLTypes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		line    string
		want    []string
		notWant string
	}{
		{"List", "types", []string{"nfloat128", "nfloat_complex256"}, ""},
		{"Real", "types nfloat256", []string{"nfloat256:", "sqrt", "dot_rev"}, ""},
		{"Complex", "types nfloat_complex64", []string{"nfloat_complex64:", "mul", "inv"}, "sqrt"},
		{"Unknown", "types nfloat7", []string{"unknown type"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, out := newTestREPL(t)
			r.processCommand(tt.line)
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output lacks %q:\n%s", want, out.String())
				}
			}
			if tt.notWant != "" && strings.Contains(out.String(), tt.notWant) {
				t.Errorf("output has %q:\n%s", tt.notWant, out.String())
			}
			if len(r.Stack()) != 0 {
				t.Errorf("types changed the stack: %d entries", len(r.Stack()))
			}
		})
	}
}

func TestREPLRecordsOperations(t *testing.T) {
	t.Parallel()
	rec := &observations{}
	r := NewREPL(config.AppConfig{Prec: 64, Format: "g"}, nfloat.MustContext(64), rec)
	r.SetOutput(&bytes.Buffer{})
	r.processCommand("1 0 / 3 4 +")
	r.processCommand("0 inv")
	if rec.ops["repl_/"] != nfloat.Domain || rec.ops["repl_inv"] != nfloat.Domain {
		t.Errorf("recorded %v", rec.ops)
	}
	if _, ok := rec.ops["repl_+"]; ok {
		t.Errorf("operator after a failure ran: %v", rec.ops)
	}
}

func TestREPLStart(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
	}{
		{"Quit", "1 2 +\nquit\n3 4 +\n"},
		{"EOF", "1 2 +\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, out := newTestREPL(t)
			r.SetInput(strings.NewReader(tt.input))
			r.Start()
			s := out.String()
			for _, want := range []string{"reverse Polish calculator", "nfcalc>", "Goodbye!"} {
				if !strings.Contains(s, want) {
					t.Errorf("output lacks %q:\n%s", want, s)
				}
			}
			if got := stackInts(t, r); len(got) != 1 || got[0] != 3 {
				t.Errorf("stack = %v, want [3]", got)
			}
		})
	}
}
