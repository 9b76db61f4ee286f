// Package ui holds the color themes of nfcalc: ANSI codes for plain line
// output and lipgloss styles for tables. NO_COLOR and -no-color select a
// theme that emits no escape codes at all.
package ui
