package tui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
)

// Recorder writes every rendered frame to a file and logs the message that produced
// it, for replaying layout bugs. A nil or disabled recorder does nothing.
type Recorder struct {
	log    *slog.Logger
	file   *os.File
	dir    string
	frames int
}

// NewRecorder creates a recorder under a fresh temp directory. It is disabled when
// enabled is false or the directory cannot be created.
func NewRecorder(enabled bool) *Recorder {
	if !enabled {
		return &Recorder{}
	}

	dir, err := os.MkdirTemp("", "planilha-tui-")
	if err != nil {
		return &Recorder{}
	}
	file, err := os.Create(filepath.Join(dir, "messages.jsonl")) // #nosec G304 -- path under our temp dir
	if err != nil {
		return &Recorder{}
	}

	r := &Recorder{
		log:  slog.New(slog.NewJSONHandler(file, nil)),
		file: file,
		dir:  dir,
	}
	r.log.Info("recording started", "dir", dir)
	return r
}

// Dir returns the directory frames are written to, or "" when disabled.
func (r *Recorder) Dir() string {
	return r.dir
}

// RecordState logs msg with the dashboard state it produced and saves the frame.
func (r *Recorder) RecordState(m Model, msg tea.Msg) {
	if r == nil || r.log == nil {
		return
	}

	r.frames++
	frame := filepath.Join(r.dir, fmt.Sprintf("frame-%04d.txt", r.frames))
	r.log.Info("frame",
		"n", r.frames,
		"type", fmt.Sprintf("%T", msg),
		"screen", m.screen.String(),
		"gen", m.gen,
		"dialog", m.confirm != nil,
		"notice", m.notice,
		"failure", m.failure,
		"retry", m.retry != nil)

	if err := os.WriteFile(frame, []byte(m.View()), 0o600); err != nil {
		r.log.Error("saving frame failed", "frame", frame, "error", err)
	}
}

// Close ends the recording.
func (r *Recorder) Close() {
	if r == nil || r.file == nil {
		return
	}
	r.log.Info("recording complete", "frames", r.frames)
	_ = r.file.Close()
	r.file = nil
	r.log = nil
}
