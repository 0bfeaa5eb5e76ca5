package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/GRBadas/Planilha-Django/internal/common"
)

// InterruptHandler cancels a long-running command on SIGINT or SIGTERM and tells
// the user what was kept.
type InterruptHandler struct {
	out         io.Writer
	operation   string
	hint        string
	once        sync.Once
	interrupted atomic.Bool
}

// NewInterruptHandler creates a handler that reports operation as interrupted. hint is
// printed below the warning when set.
func NewInterruptHandler(out io.Writer, operation, hint string) *InterruptHandler {
	if out == nil {
		out = os.Stdout
	}
	return &InterruptHandler{out: out, operation: operation, hint: hint}
}

// HandleInterrupts returns a context cancelled by the first interrupt signal. Its
// context.Cause then wraps common.ErrCancelled.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancelCause(ctx)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case sig := <-signals:
			h.interrupt()
			cancel(fmt.Errorf("%w: received %s", common.ErrCancelled, sig))
		case <-ctx.Done():
		}
	}()

	return ctx
}

func (h *InterruptHandler) interrupt() {
	h.once.Do(func() {
		h.interrupted.Store(true)
		h.report()
	})
}

func (h *InterruptHandler) report() {
	msg := "\n\n" + FormatWarning(h.operation+" interrupted!")
	if h.hint != "" {
		msg += "\n" + FormatInfo(h.hint)
	}
	if _, err := fmt.Fprintln(h.out, msg); err != nil {
		common.LogWarn(err, "failed to write interrupt message", nil)
	}
}

// WasInterrupted reports whether a signal cancelled the context.
func (h *InterruptHandler) WasInterrupted() bool {
	return h.interrupted.Load()
}
