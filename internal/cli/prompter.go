package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/GRBadas/Planilha-Django/internal/service"
)

// ErrInputTerminated is returned when input ends before a valid answer was read.
var ErrInputTerminated = errors.New("input terminated")

// Prompter asks line-based questions on a terminal. It implements service.Confirmer.
type Prompter struct {
	reader *lineReader
	writer io.Writer
}

var _ service.Confirmer = (*Prompter)(nil)

// NewPrompter creates a prompter. Nil reader or writer default to stdin and stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: newLineReader(reader),
		writer: writer,
	}
}

// Confirm asks a yes/no question. Anything but y or yes declines.
func (p *Prompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt+" [y/N]")); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}

	answer, err := p.readLine(ctx)
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes", "s", "sim":
		return true, nil
	default:
		return false, nil
	}
}

// Ask prompts for a free-form value. An empty answer returns def.
func (p *Prompter) Ask(ctx context.Context, label, def string) (string, error) {
	prompt := label
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", label, def)
	}
	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	answer, err := p.readLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Choose prompts until the answer is one of choices, compared case-insensitively.
func (p *Prompter) Choose(ctx context.Context, label string, choices []string) (string, error) {
	for {
		prompt := fmt.Sprintf("%s (%s)", label, strings.Join(choices, "/"))
		if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}

		answer, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}

		choice := strings.ToLower(answer)
		for _, valid := range choices {
			if choice == strings.ToLower(valid) {
				return valid, nil
			}
		}

		if _, err := fmt.Fprintln(p.writer, FormatError("Invalid choice. Please try again.")); err != nil {
			slog.Warn("Failed to write error message", "error", err)
		}
	}
}

func (p *Prompter) readLine(ctx context.Context) (string, error) {
	line, err := p.reader.next(ctx)
	if errors.Is(err, io.EOF) {
		return "", ErrInputTerminated
	}
	return line, err
}
