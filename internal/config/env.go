package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment overrides
// ─────────────────────────────────────────────────────────────────────────────

// envOverride maps one variable, without EnvPrefix, to the flags that take
// precedence over it and to the setter applied when none of them was given.
// Values that do not parse are ignored.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

func parseIntInto(dst *int, v string) {
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}

var envOverrides = []envOverride{
	{"PREC", []string{"prec"}, func(c *AppConfig, v string) { parseIntInto(&c.Prec, v) }},
	{"DIGITS", []string{"digits"}, func(c *AppConfig, v string) { parseIntInto(&c.Digits, v) }},
	{"COMPLEX_KARATSUBA", []string{"complex-karatsuba"}, func(c *AppConfig, v string) { parseIntInto(&c.ComplexKaratsuba, v) }},
	{"DOT_KARATSUBA", []string{"dot-karatsuba"}, func(c *AppConfig, v string) { parseIntInto(&c.DotKaratsuba, v) }},
	{"WORKERS", []string{"workers"}, func(c *AppConfig, v string) { parseIntInto(&c.Workers, v) }},

	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}},

	{"FORMAT", []string{"format"}, func(c *AppConfig, v string) { c.Format = strings.ToLower(v) }},
	{"BACKEND", []string{"backend"}, func(c *AppConfig, v string) { c.Backend = v }},
	{"CALIBRATION_PROFILE", []string{"calibration-profile"}, func(c *AppConfig, v string) { c.CalibrationProfile = v }},
	{"METRICS_ADDR", []string{"metrics-addr"}, func(c *AppConfig, v string) { c.MetricsAddr = v }},

	{"IEEE", []string{"ieee"}, func(c *AppConfig, v string) { c.IEEE = parseBoolEnv(v, c.IEEE) }},
	{"CALIBRATE_FORCE", []string{"calibrate-force"}, func(c *AppConfig, v string) { c.CalibrateForce = parseBoolEnv(v, c.CalibrateForce) }},
	{"TUI", []string{"tui"}, func(c *AppConfig, v string) { c.TUI = parseBoolEnv(v, c.TUI) }},
	{"METRICS", []string{"metrics"}, func(c *AppConfig, v string) { c.Metrics = parseBoolEnv(v, c.Metrics) }},
	{"QUIET", []string{"quiet", "q"}, func(c *AppConfig, v string) { c.Quiet = parseBoolEnv(v, c.Quiet) }},
	{"VERBOSE", []string{"verbose", "v"}, func(c *AppConfig, v string) { c.Verbose = parseBoolEnv(v, c.Verbose) }},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig, v string) { c.NoColor = parseBoolEnv(v, c.NoColor) }},
}

// parseBoolEnv accepts true/1/yes and false/0/no in any case.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				found = true
			}
		}
	})
	return found
}

// applyEnvOverrides applies every NFCALC_ variable whose flags were not set
// on the command line.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val, ok := os.LookupEnv(EnvPrefix + o.envKey); ok && val != "" {
			o.apply(config, val)
		}
	}
}
