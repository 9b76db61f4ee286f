// Package app wires configuration, calibration, metrics and the CLI modes
// of nfcalc together.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/agbru/nfloat/internal/calibration"
	"github.com/agbru/nfloat/internal/cli"
	"github.com/agbru/nfloat/internal/config"
	apperrors "github.com/agbru/nfloat/internal/errors"
	"github.com/agbru/nfloat/internal/limb"
	"github.com/agbru/nfloat/internal/logging"
	"github.com/agbru/nfloat/internal/metrics"
	"github.com/agbru/nfloat/internal/tui"
	"github.com/agbru/nfloat/internal/ui"
)

// metricsShutdownTimeout bounds the wait for in-flight scrapes at exit.
const metricsShutdownTimeout = 2 * time.Second

// Version is set at build time with -ldflags "-X ...app.Version=v1.2.3".
var Version = "dev"

// Application is one nfcalc invocation.
type Application struct {
	Config    config.AppConfig
	In        io.Reader // REPL input
	ErrWriter io.Writer
	Metrics   *metrics.Metrics
	Logger    logging.Logger
}

// New parses args (program name first) and resolves the tuning thresholds
// from the calibration profile or the hardware estimate.
func New(args []string, errWriter io.Writer) (*Application, error) {
	programName := "nfcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, cli.Operations())
	if err != nil {
		return nil, err
	}

	if !cfg.Calibrate {
		if withProfile, loaded := calibration.LoadCachedCalibration(cfg, cfg.CalibrationProfile); loaded {
			cfg = withProfile
		}
	}
	cfg = config.ApplyAdaptiveThresholds(cfg)

	return &Application{
		Config:    cfg,
		In:        os.Stdin,
		ErrWriter: errWriter,
		Metrics:   metrics.New(),
		Logger:    logging.NewConsoleLogger(errWriter, "nfcalc", logging.ParseLevel(cfg.Quiet, cfg.Verbose)),
	}, nil
}

// Run executes the configured mode and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	ui.InitTheme(a.Config.NoColor)

	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if a.Config.MetricsAddr != "" {
		stop, err := a.serveMetrics()
		if err != nil {
			cli.PresentError(a.ErrWriter, err)
			return apperrors.ExitCode(err)
		}
		defer stop()
	}

	var code int
	switch {
	case a.Config.Calibrate:
		code = a.runCalibration(ctx, out)
	case a.Config.REPL:
		code = a.runREPL(out)
	default:
		code = a.runCalculate(ctx, out)
	}

	if a.Config.Metrics {
		if err := a.Metrics.WriteText(out); err != nil {
			a.Logger.Error("writing metrics failed", err)
		}
	}
	return code
}

// serveMetrics exposes the registry on -metrics-addr for the rest of the
// run and returns the function that stops it.
func (a *Application) serveMetrics() (func(), error) {
	srv, err := a.Metrics.Serve(a.Config.MetricsAddr)
	if err != nil {
		return nil, apperrors.NewConfigError("metrics address: %v", err)
	}
	a.Logger.Info("serving metrics", logging.String("addr", "http://"+srv.Addr()+"/metrics"))
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			a.Logger.Error("stopping metrics server failed", err)
		}
	}, nil
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, cli.Operations()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runCalibration measures the Karatsuba crossovers behind a spinner, or the
// progress view with -tui, and saves the profile.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	opts := calibration.Options{
		Out:         out,
		Logger:      a.Logger,
		Recorder:    a.Metrics,
		ProfilePath: a.Config.CalibrationProfile,
		Force:       a.Config.CalibrateForce,
	}
	var (
		p   *calibration.CalibrationProfile
		err error
	)
	switch {
	case a.Config.Quiet:
		p, err = calibration.Run(ctx, opts)
	case a.Config.TUI:
		// The detailed table would interleave with the view.
		opts.Out = io.Discard
		p, err = tui.RunCalibration(ctx, opts, a.In, a.ErrWriter)
	default:
		spin := cli.NewSpinner(a.ErrWriter)
		opts.Progress = cli.CalibrationProgress(spin)
		spin.Start()
		p, err = calibration.Run(ctx, opts)
		spin.Stop()
	}
	if err != nil {
		cli.PresentError(a.ErrWriter, err)
		return apperrors.ExitCode(err)
	}
	fmt.Fprintln(out, calibration.Summary(p))
	return apperrors.ExitSuccess
}

// runREPL starts the interactive calculator on stdin.
func (a *Application) runREPL(out io.Writer) int {
	c, err := a.Config.NewContext(a.Config.Prec)
	if err != nil {
		cli.PresentError(a.ErrWriter, err)
		return apperrors.ExitCode(err)
	}
	repl := cli.NewREPL(a.Config, c, a.Metrics)
	repl.SetInput(a.In)
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// HasVersionFlag reports whether args ask for the version.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-version", "--version", "-V":
			return true
		}
	}
	return false
}

// PrintVersion writes the version banner.
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "nfcalc %s\n", Version)
	fmt.Fprintf(out, "  %s %s/%s, limb kernels: %s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH, limb.Backend())
	fmt.Fprintf(out, "  CPU: %s\n", limb.GetCPUFeatures())
}
