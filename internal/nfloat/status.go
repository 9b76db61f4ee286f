package nfloat

import (
	"errors"
	"strings"
)

// Status reports the outcome of an operation. Flags from several steps may
// be combined with | and checked once.
type Status uint8

const (
	// Success means the result is valid.
	Success Status = 0

	// Domain means the operation is mathematically undefined for its exact
	// inputs, such as division by zero or the square root of a negative
	// number. More precision does not help.
	Domain Status = 1 << 0

	// Unable means the result cannot be expressed under the context's
	// policy: an overflow without infinities, an underflow without flush to
	// zero, a NaN without NaNs, or a comparison involving NaN.
	Unable Status = 1 << 1
)

var (
	// ErrDomain is returned by Status.Err for Domain.
	ErrDomain = errors.New("nfloat: domain error")

	// ErrUnable is returned by Status.Err for Unable.
	ErrUnable = errors.New("nfloat: result not representable")
)

// Ok reports whether s is Success.
func (s Status) Ok() bool { return s == Success }

// Err converts s into an error, or nil for Success. When both flags are set
// the error matches both sentinels with errors.Is.
func (s Status) Err() error {
	switch s {
	case Success:
		return nil
	case Domain:
		return ErrDomain
	case Unable:
		return ErrUnable
	default:
		return errors.Join(ErrDomain, ErrUnable)
	}
}

func (s Status) String() string {
	if s == Success {
		return "success"
	}
	var parts []string
	if s&Domain != 0 {
		parts = append(parts, "domain")
	}
	if s&Unable != 0 {
		parts = append(parts, "unable")
	}
	return strings.Join(parts, "|")
}
