package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agbru/nfloat/internal/config"
	apperrors "github.com/agbru/nfloat/internal/errors"
	"github.com/agbru/nfloat/internal/limb"
)

// newApp builds an application whose calibration profile lives in a
// temporary directory.
func newApp(t *testing.T, args ...string) (*Application, *bytes.Buffer) {
	t.Helper()
	profile := filepath.Join(t.TempDir(), "profile.json")
	var errBuf bytes.Buffer
	full := append([]string{"nfcalc", "-no-color", "-calibration-profile", profile}, args...)
	a, err := New(full, &errBuf)
	if err != nil {
		t.Fatalf("New(%v): %v\n%s", args, err, errBuf.String())
	}
	return a, &errBuf
}

func TestNew(t *testing.T) {
	t.Parallel()
	a, _ := newApp(t, "-prec", "256", "add", "1", "2")
	if a.Config.Op != "add" || len(a.Config.Operands) != 2 {
		t.Errorf("op = %q %v", a.Config.Op, a.Config.Operands)
	}
	if a.Config.ComplexKaratsuba <= 0 || a.Config.DotKaratsuba <= 0 || a.Config.Workers <= 0 {
		t.Errorf("thresholds not resolved: %+v", a.Config)
	}
	if a.Metrics == nil || a.Logger == nil || a.In == nil {
		t.Error("application is missing a dependency")
	}
}

func TestNewUsesCalibrationProfile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.json")
	profile := `{"profile_version":1}`
	if err := os.WriteFile(path, []byte(profile), 0o644); err != nil {
		t.Fatal(err)
	}
	// An invalid profile falls back to the estimate.
	a, err := New([]string{"nfcalc", "-calibration-profile", path, "add", "1", "2"}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if a.Config.ComplexKaratsuba != config.EstimateComplexKaratsubaLimbs(limb.GetCPUFeatures()) {
		t.Errorf("ComplexKaratsuba = %d", a.Config.ComplexKaratsuba)
	}
}

func TestNewErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []string
		help bool
	}{
		{"Help", []string{"-h"}, true},
		{"UnknownOp", []string{"pow", "2", "3"}, false},
		{"NoOp", []string{}, false},
		{"BadPrec", []string{"-prec", "0", "add", "1", "2"}, false},
		{"UnknownFlag", []string{"-fast", "add"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var errBuf bytes.Buffer
			_, err := New(append([]string{"nfcalc"}, tt.args...), &errBuf)
			if err == nil {
				t.Fatal("New succeeded")
			}
			if IsHelpError(err) != tt.help {
				t.Errorf("IsHelpError(%v) = %v", err, !tt.help)
			}
			if tt.help && !strings.Contains(errBuf.String(), "Usage: nfcalc") {
				t.Errorf("help output = %q", errBuf.String())
			}
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Run
// ─────────────────────────────────────────────────────────────────────────────

func TestRun(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		args  []string
		code  int
		wants []string
	}{
		{"Add", []string{"add", "1.5", "2.25"}, apperrors.ExitSuccess, []string{"add = 3.75", "status: success"}},
		{"Quiet", []string{"-q", "sqrt", "16"}, apperrors.ExitSuccess, []string{"4\n"}},
		{"Digits", []string{"-q", "-digits", "4", "div", "2", "3"}, apperrors.ExitSuccess, []string{"0.6667"}},
		{"Complex", []string{"-q", "cmul", "1+2i", "3-4i"}, apperrors.ExitSuccess, []string{"11+2i"}},
		{"Dot", []string{"-q", "dot", "1,2,3", "4,5,6"}, apperrors.ExitSuccess, []string{"32"}},
		{"MatVec", []string{"-q", "-workers", "2", "matvec", "1,2;3,4", "1,1"}, apperrors.ExitSuccess, []string{"3\n7\n"}},
		{"Verbose", []string{"-v", "-complex-karatsuba", "5", "mul", "2", "3"}, apperrors.ExitSuccess, []string{"mul = 6", "Complex Karatsuba", "5 limbs", "memory:"}},
		{"Domain", []string{"div", "1", "0"}, apperrors.ExitErrorDomain, []string{"status: domain"}},
		{"IEEE", []string{"-q", "-ieee", "div", "1", "0"}, apperrors.ExitSuccess, []string{"Inf"}},
		{"BadOperand", []string{"add", "1", "x"}, apperrors.ExitErrorConfig, nil},
		{"Metrics", []string{"-q", "-metrics", "add", "1", "2"}, apperrors.ExitSuccess, []string{`nfcalc_operations_total{op="add",status="success"} 1`}},
		{"MetricsServer", []string{"-q", "-metrics-addr", "127.0.0.1:0", "add", "1", "2"}, apperrors.ExitSuccess, []string{"3\n"}},
		{"MetricsAddrInvalid", []string{"-metrics-addr", "256.0.0.1:bad", "add", "1", "2"}, apperrors.ExitErrorConfig, nil},
		{"Completion", []string{"-completion", "zsh"}, apperrors.ExitSuccess, []string{"#compdef nfcalc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a, errBuf := newApp(t, tt.args...)
			var out bytes.Buffer
			if code := a.Run(context.Background(), &out); code != tt.code {
				t.Fatalf("exit code = %d, want %d\nstdout: %s\nstderr: %s", code, tt.code, out.String(), errBuf.String())
			}
			for _, want := range tt.wants {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output lacks %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestRunReportsErrors(t *testing.T) {
	t.Parallel()
	a, errBuf := newApp(t, "add", "1", "one")
	if code := a.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitErrorConfig {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(errBuf.String(), `Error: validation error for "y"`) {
		t.Errorf("stderr = %q", errBuf.String())
	}
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a, _ := newApp(t, "matvec", "1,2;3,4", "1,1")
	if code := a.Run(ctx, &bytes.Buffer{}); code != apperrors.ExitErrorCanceled {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorCanceled)
	}
}

func TestRunCalibrationCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a, errBuf := newApp(t, "-q", "-calibrate")
	if code := a.Run(ctx, &bytes.Buffer{}); code != apperrors.ExitErrorCanceled {
		t.Errorf("exit code = %d\n%s", code, errBuf.String())
	}
	if _, err := os.Stat(a.Config.CalibrationProfile); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("cancelled calibration wrote a profile: %v", err)
	}
}

func TestRunCalibrationTUICancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a, errBuf := newApp(t, "-calibrate", "-tui")
	a.In = strings.NewReader("")
	if code := a.Run(ctx, &bytes.Buffer{}); code != apperrors.ExitErrorCanceled {
		t.Errorf("exit code = %d\n%s", code, errBuf.String())
	}
	if _, err := os.Stat(a.Config.CalibrationProfile); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("cancelled calibration wrote a profile: %v", err)
	}
}

func TestRunREPL(t *testing.T) {
	t.Parallel()
	a, _ := newApp(t, "-repl", "-prec", "64")
	a.In = strings.NewReader("2 3 * 7 +\nquit\n")
	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"64 bits", "13", "Goodbye!"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output lacks %q:\n%s", want, out.String())
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Version
// ─────────────────────────────────────────────────────────────────────────────

func TestHasVersionFlag(t *testing.T) {
	t.Parallel()
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"--version"}, true},
		{[]string{"-version"}, true},
		{[]string{"-q", "-V"}, true},
		{[]string{"add", "1", "2"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %v", tt.args, got)
		}
	}
}

func TestPrintVersion(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	PrintVersion(&buf)
	for _, want := range []string{"nfcalc " + Version, "limb kernels", "CPU:"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("version output lacks %q: %s", want, buf.String())
		}
	}
}
