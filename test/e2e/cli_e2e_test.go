package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestCLI_E2E builds nfcalc and checks its output and exit codes.
func TestCLI_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	tmpDir := t.TempDir()
	binName := "nfcalc"
	if runtime.GOOS == "windows" {
		binName = "nfcalc.exe"
	}
	binPath := filepath.Join(tmpDir, binName)

	// go test runs in the package directory; build from the module root.
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/nfcalc")
	cmd.Dir = "../.."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to build nfcalc: %v", err)
	}

	profile := filepath.Join(tmpDir, "profile.json")
	tests := []struct {
		name     string
		args     []string
		wantOut  string // case-insensitive substring
		wantCode int
	}{
		{"Add", []string{"add", "1.5", "2.25"}, "3.75", 0},
		{"Help", []string{"--help"}, "usage", 0},
		{"Version", []string{"--version"}, "nfcalc", 0},
		{"Quiet", []string{"-q", "mul", "6", "7"}, "42", 0},
		{"HighPrecision", []string{"-q", "-prec", "512", "-digits", "40", "sqrt", "2"}, "1.41421356237309504880168872420969807857\n", 0},
		{"Complex", []string{"-q", "cmul", "1+2i", "3-4i"}, "11+2i", 0},
		{"MatVec", []string{"-q", "matvec", "1,2;3,4", "5,6"}, "39", 0},
		{"DivisionByZero", []string{"div", "1", "0"}, "domain", 3},
		{"IEEEDivisionByZero", []string{"-ieee", "-q", "div", "1", "0"}, "inf", 0},
		{"BadOperand", []string{"add", "1", "one"}, "validation error", 4},
		{"UnknownOp", []string{"pow", "2", "8"}, "unknown operation", 4},
		{"Completion", []string{"--completion", "bash"}, "_nfcalc_completions", 0},
		{"Metrics", []string{"-q", "--metrics", "inv", "4"}, "nfcalc_operations_total", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"-calibration-profile", profile}, tt.args...)
			cmd := exec.Command(binPath, args...)
			cmd.Env = append(os.Environ(), "NO_COLOR=1")
			output, err := cmd.CombinedOutput()
			outStr := string(output)

			code := 0
			if err != nil {
				var exitErr *exec.ExitError
				if !errors.As(err, &exitErr) {
					t.Fatalf("running nfcalc: %v", err)
				}
				code = exitErr.ExitCode()
			}
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d\nOutput: %s", code, tt.wantCode, outStr)
			}
			if !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
				t.Errorf("Output missing expected string.\nExpected: %q\nGot:\n%s", tt.wantOut, outStr)
			}
		})
	}
}
