// Package config parses nfcalc command-line flags and NFCALC_ environment
// variables into an AppConfig, and turns it into nfloat context options.
//
// Tuning thresholds resolve in this order, highest first:
//  1. command-line flags (-complex-karatsuba, -dot-karatsuba)
//  2. environment variables (NFCALC_COMPLEX_KARATSUBA, ...)
//  3. the cached calibration profile
//  4. the hardware estimate in thresholds.go
//  5. nfloat.DefaultKaratsubaLimbs
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/agbru/nfloat/internal/bridge"
	apperrors "github.com/agbru/nfloat/internal/errors"
	"github.com/agbru/nfloat/internal/nfloat"
)

// EnvPrefix prefixes every environment variable the application reads.
const EnvPrefix = "NFCALC_"

// Defaults.
const (
	DefaultPrec    = 128
	DefaultDigits  = 0 // shortest representation that round-trips
	DefaultFormat  = "g"
	DefaultTimeout = time.Minute
)

// Shells accepted by -completion.
var completionShells = []string{"bash", "zsh", "fish", "powershell"}

// AppConfig is the complete application configuration.
type AppConfig struct {
	Prec   int
	IEEE   bool
	Digits int
	Format string

	// Zero leaves the choice to the profile, the estimate or the default.
	ComplexKaratsuba int
	DotKaratsuba     int
	Backend          string
	Workers          int

	Timeout            time.Duration
	REPL               bool
	Calibrate          bool
	CalibrateForce     bool
	TUI                bool
	CalibrationProfile string
	Metrics            bool
	MetricsAddr        string
	Quiet              bool
	Verbose            bool
	NoColor            bool
	Completion         string

	// Op and Operands are the positional arguments.
	Op       string
	Operands []string
}

// ParseConfig parses args (without the program name). Usage and flag errors
// are written to errorWriter. ops lists the operations the caller can run;
// flag.ErrHelp is returned unchanged for -h and -help.
func ParseConfig(programName string, args []string, errorWriter io.Writer, ops []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{}
	fs.IntVar(&config.Prec, "prec", DefaultPrec, "Precision in bits, rounded up to whole 64-bit limbs.")
	fs.BoolVar(&config.IEEE, "ieee", false, "Allow infinities, NaNs and flush-to-zero instead of reporting failures.")
	fs.IntVar(&config.Digits, "digits", DefaultDigits, "Significant digits to print (0 for the shortest exact form).")
	fs.StringVar(&config.Format, "format", DefaultFormat, "Number format: g, e or f.")
	fs.IntVar(&config.ComplexKaratsuba, "complex-karatsuba", 0, "Limb count from which complex products use three real multiplications.")
	fs.IntVar(&config.DotKaratsuba, "dot-karatsuba", 0, "Limb count from which complex dot products use three real multiplications.")
	fs.StringVar(&config.Backend, "backend", "", fmt.Sprintf("Division and square root backend (%s).", strings.Join(bridge.Names(), ", ")))
	fs.IntVar(&config.Workers, "workers", 0, "Worker goroutines for matvec (0 for one per CPU).")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum run time.")
	fs.BoolVar(&config.REPL, "repl", false, "Start the interactive RPN calculator.")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Measure the complex Karatsuba crossover and save a profile.")
	fs.BoolVar(&config.CalibrateForce, "calibrate-force", false, "Calibrate even when the machine is busy.")
	fs.BoolVar(&config.TUI, "tui", false, "Show calibration progress in an interactive terminal view.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Calibration profile path (default ~/.nfcalc_calibration.json).")
	fs.BoolVar(&config.Metrics, "metrics", false, "Print operation metrics in Prometheus text format after the run.")
	fs.StringVar(&config.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090) while the run lasts.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print only results.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for -quiet.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Print context details and debug logs.")
	fs.BoolVar(&config.Verbose, "v", false, "Shorthand for -verbose.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&config.Completion, "completion", "", "Print a completion script for bash, zsh, fish or powershell.")

	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [flags] <op> [operands...]\n\n", programName)
		fmt.Fprintf(errorWriter, "Operations: %s\n\nFlags:\n", strings.Join(ops, ", "))
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	applyEnvOverrides(&config, fs)

	if rest := fs.Args(); len(rest) > 0 {
		config.Op = strings.ToLower(rest[0])
		config.Operands = rest[1:]
	}

	if err := config.Validate(ops); err != nil {
		fmt.Fprintln(errorWriter, "Error:", err)
		return AppConfig{}, err
	}
	return config, nil
}

// Validate checks field ranges and that an operation is named when the mode
// needs one.
func (c AppConfig) Validate(ops []string) error {
	if c.Prec <= 0 || c.Prec > nfloat.MaxPrec {
		return apperrors.NewConfigError("precision %d outside [1, %d]", c.Prec, nfloat.MaxPrec)
	}
	if c.Digits < 0 {
		return apperrors.NewConfigError("digits must be non-negative, got %d", c.Digits)
	}
	if !slices.Contains([]string{"g", "e", "f"}, c.Format) {
		return apperrors.NewConfigError("unknown format %q (want g, e or f)", c.Format)
	}
	if c.ComplexKaratsuba < 0 || c.DotKaratsuba < 0 {
		return apperrors.NewConfigError("Karatsuba thresholds must be non-negative")
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("workers must be non-negative, got %d", c.Workers)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout)
	}
	if c.Backend != "" && !slices.Contains(bridge.Names(), c.Backend) {
		return apperrors.NewConfigError("unknown backend %q (available: %s)", c.Backend, strings.Join(bridge.Names(), ", "))
	}
	if c.Completion != "" {
		if !slices.Contains(completionShells, c.Completion) {
			return apperrors.NewConfigError("unsupported shell %q for completion", c.Completion)
		}
		return nil
	}
	if c.REPL || c.Calibrate {
		return nil
	}
	if c.Op == "" {
		return apperrors.NewConfigError("no operation given (available: %s)", strings.Join(ops, ", "))
	}
	if !slices.Contains(ops, c.Op) {
		return apperrors.NewConfigError("unknown operation %q (available: %s)", c.Op, strings.Join(ops, ", "))
	}
	return nil
}

// ToContextOptions converts the arithmetic settings into context options.
func (c AppConfig) ToContextOptions() ([]nfloat.Option, error) {
	var opts []nfloat.Option
	if c.IEEE {
		opts = append(opts, nfloat.WithFlags(nfloat.IEEE))
	}
	if c.ComplexKaratsuba > 0 {
		opts = append(opts, nfloat.WithComplexKaratsubaLimbs(c.ComplexKaratsuba))
	}
	if c.DotKaratsuba > 0 {
		opts = append(opts, nfloat.WithDotKaratsubaLimbs(c.DotKaratsuba))
	}
	if c.Backend != "" {
		b, err := bridge.Lookup(c.Backend)
		if err != nil {
			return nil, apperrors.ConfigError{Message: err.Error()}
		}
		opts = append(opts, nfloat.WithBackend(b))
	}
	return opts, nil
}

// NewContext builds the context described by c at precision prec.
func (c AppConfig) NewContext(prec int) (*nfloat.Context, error) {
	opts, err := c.ToContextOptions()
	if err != nil {
		return nil, err
	}
	ctx, err := nfloat.NewContext(prec, opts...)
	if err != nil {
		return nil, apperrors.ConfigError{Message: err.Error()}
	}
	return ctx, nil
}

// FormatByte returns Format as the verb byte big.Float.Text expects.
func (c AppConfig) FormatByte() byte {
	if c.Format == "" {
		return 'g'
	}
	return c.Format[0]
}

// TextDigits returns Digits in the form big.Float.Text expects, where -1
// selects the shortest exact representation.
func (c AppConfig) TextDigits() int {
	if c.Digits == 0 {
		return -1
	}
	return c.Digits
}
