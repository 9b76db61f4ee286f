package logging

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func requireContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q: %s", want, out)
		}
	}
}

func TestFieldHelpers(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"String", String("type", "nfloat128"), "type", "nfloat128"},
		{"Int", Int("limbs", 4), "limbs", 4},
		{"Uint64", Uint64("ops", 1<<63), "ops", uint64(1 << 63)},
		{"Float64", Float64("ratio", 0.75), "ratio", 0.75},
		{"Bool", Bool("ieee", true), "ieee", true},
		{"Duration", Duration("elapsed", time.Second), "elapsed", time.Second},
		{"Err", Err(boom), "error", boom},
		{"ErrNil", Err(nil), "error", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.field.Key != tt.key || tt.field.Value != tt.value {
				t.Errorf("got %+v, want {%s %v}", tt.field, tt.key, tt.value)
			}
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Zerolog adapter
// ─────────────────────────────────────────────────────────────────────────────

func TestZerologAdapter(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		log   func(Logger)
		wants []string
	}{
		{
			name:  "Info",
			log:   func(l Logger) { l.Info("calibrated", Int("crossover", 9), String("kind", "complex_mul")) },
			wants: []string{`"level":"info"`, "calibrated", `"crossover":9`, "complex_mul", `"component":"test"`},
		},
		{
			name:  "Error",
			log:   func(l Logger) { l.Error("row failed", errors.New("nfloat: domain error"), Int("row", 3)) },
			wants: []string{`"level":"error"`, "row failed", "domain error", `"row":3`},
		},
		{
			name:  "ErrorNil",
			log:   func(l Logger) { l.Error("no cause", nil) },
			wants: []string{`"level":"error"`, "no cause"},
		},
		{
			name:  "Printf",
			log:   func(l Logger) { l.Printf("%d limbs at %s", 2, "128 bits") },
			wants: []string{"2 limbs at 128 bits"},
		},
		{
			name:  "Println",
			log:   func(l Logger) { l.Println("precision", 256) },
			wants: []string{"precision 256"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			tt.log(NewLogger(&buf, "test"))
			requireContains(t, buf.String(), tt.wants...)
		})
	}
}

func TestZerologFieldTypes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		field Field
		want  string
	}{
		{Field{"s", "x"}, `"s":"x"`},
		{Field{"i64", int64(-1 << 62)}, `"i64":-4611686018427387904`},
		{Field{"u64", uint64(1<<64 - 1)}, `"u64":18446744073709551615`},
		{Field{"f", 2.5}, `"f":2.5`},
		{Field{"b", false}, `"b":false`},
		{Field{"e", errors.New("oops")}, `"e":"oops"`},
		{Field{"d", 1500 * time.Millisecond}, `"d":1500`},
		{Field{"any", struct{ Limbs int }{3}}, `"Limbs":3`},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		NewLogger(&buf, "test").Info("field", tt.field)
		requireContains(t, buf.String(), tt.want)
	}
}

func TestZerologLevels(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := NewZerologAdapter(zerolog.New(&buf).Level(zerolog.InfoLevel))
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug entry written at info level: %s", buf.String())
	}
	l = NewZerologAdapter(zerolog.New(&buf).Level(zerolog.DebugLevel))
	l.Debug("shown", String("k", "v"))
	requireContains(t, buf.String(), `"level":"debug"`, "shown")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		quiet, verbose bool
		want           zerolog.Level
	}{
		{false, false, zerolog.InfoLevel},
		{true, false, zerolog.ErrorLevel},
		{false, true, zerolog.DebugLevel},
		{true, true, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.quiet, tt.verbose); got != tt.want {
			t.Errorf("ParseLevel(%v, %v) = %v, want %v", tt.quiet, tt.verbose, got, tt.want)
		}
	}
}

func TestConsoleLogger(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := NewConsoleLogger(&buf, "calibration", zerolog.InfoLevel)
	l.Info("measuring", Int("limbs", 8))
	l.Debug("skipped")
	out := buf.String()
	requireContains(t, out, "measuring", "limbs=8", "component=calibration")
	if strings.Contains(out, "skipped") {
		t.Errorf("debug entry written at info level: %s", out)
	}
}

func TestNewDefaultLogger(t *testing.T) {
	t.Parallel()
	if NewDefaultLogger() == nil {
		t.Fatal("NewDefaultLogger returned nil")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Standard library adapter
// ─────────────────────────────────────────────────────────────────────────────

func TestStdLoggerAdapter(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		log   func(Logger)
		wants []string
	}{
		{"Info", func(l Logger) { l.Info("start", String("op", "dot")) }, []string{"[INFO] start", "op=dot"}},
		{"Error", func(l Logger) { l.Error("failed", errors.New("boom"), Int("row", 1)) }, []string{"[ERROR] failed", "error=boom", "row=1"}},
		{"Debug", func(l Logger) { l.Debug("trace", Int("limbs", 2)) }, []string{"[DEBUG] trace", "limbs=2"}},
		{"Printf", func(l Logger) { l.Printf("value is %d", 123) }, []string{"value is 123"}},
		{"Println", func(l Logger) { l.Println("a", "b", "c") }, []string{"a b c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			tt.log(NewStdLoggerAdapter(log.New(&buf, "", 0)))
			requireContains(t, buf.String(), tt.wants...)
		})
	}
}

func TestLoggerImplementations(t *testing.T) {
	t.Parallel()
	var _ Logger = (*ZerologAdapter)(nil)
	var _ Logger = (*StdLoggerAdapter)(nil)
	var _ Logger = Nop{}
	Nop{}.Error("ignored", errors.New("x"))
}
