package app

import (
	"context"
	"errors"
	"io"

	"github.com/agbru/nfloat/internal/cli"
	apperrors "github.com/agbru/nfloat/internal/errors"
	"github.com/agbru/nfloat/internal/logging"
	"github.com/agbru/nfloat/internal/metrics"
)

// runCalculate evaluates the single operation named on the command line.
// A non-success status still prints the result and maps to its exit code.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	c, err := a.Config.NewContext(a.Config.Prec)
	if err != nil {
		cli.PresentError(a.ErrWriter, err)
		return apperrors.ExitCode(err)
	}
	a.Logger.Debug("context ready",
		logging.String("context", c.Describe()),
		logging.Int("complex_karatsuba", c.ComplexKaratsubaLimbs()),
		logging.Int("dot_karatsuba", c.DotKaratsubaLimbs()),
		logging.Int("workers", a.Config.Workers))

	eval := &cli.Evaluator{
		Ctx:      c,
		Workers:  a.Config.Workers,
		Recorder: a.Metrics,
		Logger:   a.Logger,
	}
	presenter := cli.NewPresenter(out, a.Config)

	before := metrics.ReadMemory()
	r, err := eval.Eval(ctx, a.Config.Op, a.Config.Operands)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = apperrors.TimeoutError{Operation: a.Config.Op, Limit: a.Config.Timeout}
		}
		cli.PresentError(a.ErrWriter, err)
		return apperrors.ExitCode(err)
	}
	presenter.Present(c, r)
	if a.Config.Verbose {
		presenter.PresentMemory(metrics.ReadMemory().Since(before))
	}

	if calcErr := apperrors.NewCalculationError(a.Config.Op, r.Status); calcErr != nil {
		a.Logger.Error("operation did not succeed", calcErr, logging.String("op", a.Config.Op))
		return apperrors.ExitCode(calcErr)
	}
	return apperrors.ExitSuccess
}
