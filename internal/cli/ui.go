//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
)

// FormatExecutionDuration formats d with microsecond resolution below a
// millisecond, millisecond resolution below a second, and d.String()
// otherwise.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

const (
	// ProgressRefreshRate is the spinner frame interval.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width in characters of the progress bar.
	ProgressBarWidth = 30
)

// Spinner abstracts a terminal spinner so progress reporting can be tested
// without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }
func (rs *realSpinner) Stop()  { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// NewSpinner returns a spinner drawing to out.
func NewSpinner(out io.Writer) Spinner {
	return newSpinner(spinner.WithWriter(out))
}

// CalibrationProgress returns a progress callback that renders done/total
// as a bar in the spinner suffix.
//
// Parameters:
//   - s: The spinner whose suffix is updated. It must already be created;
//     the callback never starts or stops it.
//
// Returns:
//   - func(done, total int): A callback for calibration.Options.Progress.
func CalibrationProgress(s Spinner) func(done, total int) {
	return func(done, total int) {
		var frac float64
		if total > 0 {
			frac = float64(done) / float64(total)
		}
		s.UpdateSuffix(fmt.Sprintf(" Calibrating %s %d/%d", progressBar(frac, ProgressBarWidth), done, total))
	}
}

// progressBar draws progress, clamped to [0, 1], as a bar of length
// characters.
func progressBar(progress float64, length int) string {
	progress = min(max(progress, 0), 1)
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length * len("█"))
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}
