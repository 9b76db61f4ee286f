package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/nfloat/internal/calibration"
	"github.com/agbru/nfloat/internal/ui"
)

// maxBarWidth caps the bar on wide terminals.
const maxBarWidth = 60

// ProgressMsg reports that Done of Total limb counts have been timed.
type ProgressMsg struct {
	Done, Total int
}

// FinishedMsg carries the outcome of the calibration run.
type FinishedMsg struct {
	Profile *calibration.CalibrationProfile
	Err     error
}

// calibrateFunc runs a calibration, reporting progress through the callback.
type calibrateFunc func(ctx context.Context, progress func(done, total int)) (*calibration.CalibrationProfile, error)

// CalibrationModel is the bubbletea model of a calibration run.
type CalibrationModel struct {
	bar    progress.Model
	keymap KeyMap

	ctx    context.Context
	cancel context.CancelFunc
	ref    *programRef
	work   calibrateFunc

	done, total int
	canceled    bool
	finished    bool
	profile     *calibration.CalibrationProfile
	err         error
}

// NewCalibrationModel creates a model that runs work when the program
// starts. Cancelling parentCtx or pressing a quit key cancels the work; the
// program then waits for it to return.
func NewCalibrationModel(parentCtx context.Context, work calibrateFunc) CalibrationModel {
	ctx, cancel := context.WithCancel(parentCtx)
	return CalibrationModel{
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		keymap: DefaultKeyMap(),
		ctx:    ctx,
		cancel: cancel,
		ref:    &programRef{},
		work:   work,
	}
}

// Init starts the calibration.
func (m CalibrationModel) Init() tea.Cmd {
	ref, ctx, work := m.ref, m.ctx, m.work
	return func() tea.Msg {
		p, err := work(ctx, ref.progressSender())
		return FinishedMsg{Profile: p, Err: err}
	}
}

// Update handles key presses, resizes and messages from the worker.
func (m CalibrationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.Quit) && !m.canceled {
			m.canceled = true
			m.cancel()
		}
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-30, 10), maxBarWidth)
	case ProgressMsg:
		m.done, m.total = msg.Done, msg.Total
	case FinishedMsg:
		m.finished = true
		m.profile, m.err = msg.Profile, msg.Err
		m.cancel()
		return m, tea.Quit
	}
	return m, nil
}

// Fraction returns the share of limb counts timed so far, in [0, 1].
func (m CalibrationModel) Fraction() float64 {
	if m.total <= 0 {
		return 0
	}
	return min(float64(m.done)/float64(m.total), 1)
}

// View draws the bar and a help line. The finished view is empty; the caller
// prints the summary.
func (m CalibrationModel) View() string {
	if m.finished {
		return ""
	}
	s := ui.CurrentStyles()
	var b strings.Builder
	status := "Calibrating"
	if m.canceled {
		status = "Cancelling"
	}
	fmt.Fprintf(&b, "%s %s %d/%d\n", s.Label.Render(status), m.bar.ViewAs(m.Fraction()), m.done, m.total)
	h := m.keymap.Quit.Help()
	fmt.Fprintf(&b, "%s\n", s.Label.Render(h.Key+": "+h.Desc))
	return b.String()
}

// Result returns the profile and error of a finished run.
func (m CalibrationModel) Result() (*calibration.CalibrationProfile, error) {
	return m.profile, m.err
}

// RunCalibration runs calibration.Run inside a bubbletea program reading
// keys from in and drawing on out. opts.Progress is replaced by the
// program's progress bar.
func RunCalibration(ctx context.Context, opts calibration.Options, in io.Reader, out io.Writer) (*calibration.CalibrationProfile, error) {
	work := func(ctx context.Context, progress func(done, total int)) (*calibration.CalibrationProfile, error) {
		opts.Progress = progress
		return calibration.Run(ctx, opts)
	}
	return runModel(NewCalibrationModel(ctx, work), tea.WithInput(in), tea.WithOutput(out))
}

func runModel(model CalibrationModel, options ...tea.ProgramOption) (*calibration.CalibrationProfile, error) {
	defer model.cancel()

	p := tea.NewProgram(model, options...)
	// The reference must be set before Run so the worker can Send.
	model.ref.SetProgram(p)

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("calibration view: %w", err)
	}
	m, ok := final.(CalibrationModel)
	if !ok {
		return nil, fmt.Errorf("calibration view: unexpected model %T", final)
	}
	return m.Result()
}
