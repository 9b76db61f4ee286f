package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agbru/nfloat/internal/nfloat"
)

// Process exit codes.
const (
	ExitSuccess       = 0
	ExitErrorGeneric  = 1
	ExitErrorTimeout  = 2
	ExitErrorDomain   = 3 // an operation was mathematically undefined
	ExitErrorConfig   = 4
	ExitErrorUnable   = 5 // a result could not be represented
	ExitErrorCanceled = 130
)

// ConfigError reports invalid flags, environment values or arguments.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError returns a ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A ConfigError, which ExitCode maps to ExitErrorConfig.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// CalculationError reports an operation that finished with a non-success
// status.
type CalculationError struct {
	// Op names the operation, e.g. "div".
	Op     string
	Status nfloat.Status
}

// NewCalculationError returns nil for nfloat.Success and a CalculationError
// otherwise.
//
// Parameters:
//   - op: The operation name reported in the message, e.g. "div".
//   - st: The status the operation finished with.
//
// Returns:
//   - error: nil on success; otherwise a CalculationError that unwraps to
//     nfloat.ErrDomain or nfloat.ErrUnable.
func NewCalculationError(op string, st nfloat.Status) error {
	if st == nfloat.Success {
		return nil
	}
	return CalculationError{Op: op, Status: st}
}

func (e CalculationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Status.Err())
}

// Unwrap returns the status error, which matches nfloat.ErrDomain or
// nfloat.ErrUnable under errors.Is.
func (e CalculationError) Unwrap() error { return e.Status.Err() }

// TimeoutError reports an operation that exceeded its time limit.
type TimeoutError struct {
	Operation string
	Limit     time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError reports malformed input to an operation.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// WrapError wraps err with a formatted prefix. It returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err is a cancellation or deadline error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeForStatus maps a kernel status to an exit code.
func ExitCodeForStatus(st nfloat.Status) int {
	switch {
	case st == nfloat.Success:
		return ExitSuccess
	case st&nfloat.Domain != 0:
		return ExitErrorDomain
	default:
		return ExitErrorUnable
	}
}

// ExitCode maps err to an exit code. Configuration and validation errors
// map to ExitErrorConfig, kernel failures to the code of their status,
// deadlines to ExitErrorTimeout and cancellation to ExitErrorCanceled.
//
// Parameters:
//   - err: The error to classify; it may be wrapped.
//
// Returns:
//   - int: The process exit code, ExitSuccess for nil.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var (
		cfg  ConfigError
		val  ValidationError
		calc CalculationError
		to   TimeoutError
	)
	switch {
	case errors.As(err, &cfg), errors.As(err, &val):
		return ExitErrorConfig
	case errors.As(err, &calc):
		return ExitCodeForStatus(calc.Status)
	case errors.As(err, &to), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	default:
		return ExitErrorGeneric
	}
}
