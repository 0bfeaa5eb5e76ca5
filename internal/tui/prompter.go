package tui

import (
	"context"
	"errors"
	"sync"

	"github.com/GRBadas/Planilha-Django/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

// errNotAttached is returned when a confirmation is requested before the program runs.
var errNotAttached = errors.New("confirmation dialog is not attached to a running program")

// sender is the part of *tea.Program the confirmer needs.
type sender interface {
	Send(msg tea.Msg)
}

// Confirmer implements service.Confirmer with the dashboard's y/n dialog. Confirm is
// called from a command goroutine; it posts the question to the program and blocks until
// the dialog is answered or ctx is done.
type Confirmer struct {
	program sender
	mu      sync.Mutex
}

// Ensure we implement the interface.
var _ service.Confirmer = (*Confirmer)(nil)

// NewConfirmer creates a confirmer; Attach must be called before it is used.
func NewConfirmer() *Confirmer {
	return &Confirmer{}
}

// Attach connects the confirmer to the running program.
func (c *Confirmer) Attach(program sender) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.program = program
}

// Confirm implements service.Confirmer.
func (c *Confirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	c.mu.Lock()
	program := c.program
	c.mu.Unlock()
	if program == nil {
		return false, errNotAttached
	}

	reply := make(chan bool, 1)
	program.Send(confirmRequestMsg{prompt: prompt, reply: reply})

	select {
	case ok := <-reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
