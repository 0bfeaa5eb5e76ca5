package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/GRBadas/Planilha-Django/internal/common"
)

// ErrInputCancelled is returned when a prompt is abandoned because its context ended.
var ErrInputCancelled = fmt.Errorf("input %w", common.ErrCancelled)

type scannedLine struct {
	text string
	err  error
}

// lineReader scans its source on a single goroutine. A line that arrives after
// the read waiting for it was cancelled stays queued for the next read.
type lineReader struct {
	scanner *bufio.Scanner
	start   sync.Once
	lines   chan scannedLine
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{
		scanner: bufio.NewScanner(r),
		lines:   make(chan scannedLine),
	}
}

func (r *lineReader) scan() {
	defer close(r.lines)
	for r.scanner.Scan() {
		r.lines <- scannedLine{text: strings.TrimSpace(r.scanner.Text())}
	}
	if err := r.scanner.Err(); err != nil {
		r.lines <- scannedLine{err: err}
	}
}

// next returns the next trimmed line, io.EOF once the source is exhausted, or
// ErrInputCancelled when ctx ends first.
func (r *lineReader) next(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}
	r.start.Do(func() { go r.scan() })

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case line, ok := <-r.lines:
		if !ok {
			return "", io.EOF
		}
		return line.text, line.err
	}
}
