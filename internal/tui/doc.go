// Package tui renders long nfcalc runs as a bubbletea program. Calibration
// progress is forwarded from the worker goroutine to the program as
// messages and drawn with a bubbles progress bar.
package tui
