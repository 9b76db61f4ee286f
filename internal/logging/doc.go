// Package logging gives the nfcalc application one small logging interface
// with a zerolog backend and a standard library backend. The arithmetic
// kernel never logs; calibration, batch evaluation and the CLI do.
package logging
