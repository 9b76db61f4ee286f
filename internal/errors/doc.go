// Package apperrors defines the typed errors of the nfcalc application and
// the process exit codes they map to.
//
// Kernel results carry an nfloat.Status; CalculationError turns a failing
// status into an error that unwraps to nfloat.ErrDomain or nfloat.ErrUnable,
// so callers can use errors.Is on either the status sentinel or the wrapper.
package apperrors
