package sheets

import (
	"context"
	"sync"
)

// RecordingWriter keeps every report it is given instead of calling Google. Err,
// when set, is returned from each Write after the report is recorded.
type RecordingWriter struct {
	Err     error
	mu      sync.Mutex
	reports []Report
}

var _ ReportWriter = (*RecordingWriter)(nil)

// Write records report.
func (w *RecordingWriter) Write(_ context.Context, report Report) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reports = append(w.reports, report)
	return w.Err
}

// Reports returns the recorded reports in write order.
func (w *RecordingWriter) Reports() []Report {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Report(nil), w.reports...)
}
