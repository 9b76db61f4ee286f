package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// programRef is a shared reference to the tea.Program. bubbletea copies the
// model on every Update, so the worker goroutine needs a pointer that
// survives the copies to send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the program. Messages sent before SetProgram are
// dropped.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// progressSender adapts the ref to the calibration Progress callback.
func (r *programRef) progressSender() func(done, total int) {
	return func(done, total int) {
		r.Send(ProgressMsg{Done: done, Total: total})
	}
}
