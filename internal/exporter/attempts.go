package exporter

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dnclcli/internal/config"
)

var attemptLogHeaders = []string{"timestamp", "run_id", "phone", "status", "error"}

// AttemptLog appends one line per verification attempt to a shared CSV file
// so runs can be audited after the fact. Every run gets its own ID.
type AttemptLog struct {
	runID  string
	path   string
	writer *CSVWriter
}

// NewAttemptLog creates an attempt log writing to the standard location.
func NewAttemptLog(paths *config.Paths) *AttemptLog {
	return &AttemptLog{
		runID:  uuid.New().String(),
		path:   paths.AttemptLogCSV,
		writer: NewCSVWriter(),
	}
}

// RunID returns the unique ID for this run, also used as the log trace ID.
func (l *AttemptLog) RunID() string {
	return l.runID
}

// Record appends one attempt. Log failures are reported but never abort the
// run; the attempt log is an audit aid, not a dependency.
func (l *AttemptLog) Record(phone, status, errMsg string) {
	record := []string{
		time.Now().Format(time.RFC3339),
		l.runID,
		phone,
		status,
		errMsg,
	}

	if !config.FileExists(l.path) {
		if err := l.writer.WriteCSV(l.path, WriteOptions{Headers: attemptLogHeaders, Records: [][]string{record}}); err != nil {
			slog.Warn("Failed to write attempt log", slog.String("error", err.Error()))
		}
		return
	}

	if err := l.writer.AppendToCSV(l.path, [][]string{record}); err != nil {
		slog.Warn("Failed to append attempt log", slog.String("error", err.Error()))
	}
}
