package output

import (
	"encoding/json"
	"io"

	"github.com/avoronkov/dagtail/internal/domain"
)

// SchemaVersion is bumped when the NDJSON output shape changes.
const SchemaVersion = 1

// NDJSONWriter writes tool output as NDJSON, one object per line. Agents
// and scripts consume this; the text writer is for humans.
type NDJSONWriter struct {
	encoder *json.Encoder
}

// NewNDJSONWriter creates a new NDJSON writer.
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false) // keep log text unescaped
	return &NDJSONWriter{encoder: enc}
}

// LogOutput is one rendered task log entry.
type LogOutput struct {
	Type          string `json:"type"` // Always "log"
	SchemaVersion int    `json:"schemaVersion"`
	Timestamp     string `json:"timestamp"`
	TaskID        string `json:"task_id"`
	Logger        string `json:"logger,omitempty"`
	Level         string `json:"level"`
	Message       string `json:"message"`
}

// InfoOutput is an informational message.
type InfoOutput struct {
	Type          string `json:"type"` // Always "info"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
	DAGID         string `json:"dag_id,omitempty"`
	RunID         string `json:"run_id,omitempty"`
}

// WarningOutput is a non-fatal diagnostic, e.g. a failed log fetch.
type WarningOutput struct {
	Type          string `json:"type"` // Always "warning"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
	TaskID        string `json:"task_id,omitempty"`
}

// ErrorOutput is a structured failure.
type ErrorOutput struct {
	Type          string `json:"type"` // Always "error"
	SchemaVersion int    `json:"schemaVersion"`
	Code          string `json:"code"`
	Message       string `json:"message"`
	Hint          string `json:"hint,omitempty"`
}

// CompletionOutput reports the terminal state of a monitored run.
type CompletionOutput struct {
	Type          string `json:"type"` // Always "completion"
	SchemaVersion int    `json:"schemaVersion"`
	DAGID         string `json:"dag_id,omitempty"`
	RunID         string `json:"run_id,omitempty"`
	State         string `json:"state"`
}

// TaskOutput is one task instance in a listing.
type TaskOutput struct {
	Type          string `json:"type"` // Always "task"
	SchemaVersion int    `json:"schemaVersion"`
	TaskID        string `json:"task_id"`
	State         string `json:"state"`
}

// WriteLog outputs a rendered log entry.
func (w *NDJSONWriter) WriteLog(taskID string, entry *domain.LogEntry) error {
	return w.encoder.Encode(&LogOutput{
		Type:          "log",
		SchemaVersion: SchemaVersion,
		Timestamp:     entry.Timestamp,
		TaskID:        taskID,
		Logger:        entry.Logger,
		Level:         entry.Level,
		Message:       entry.Message(),
	})
}

// WriteInfo outputs an informational message.
func (w *NDJSONWriter) WriteInfo(message, dagID, runID string) error {
	return w.encoder.Encode(&InfoOutput{
		Type:          "info",
		SchemaVersion: SchemaVersion,
		Message:       message,
		DAGID:         dagID,
		RunID:         runID,
	})
}

// WriteWarning outputs a non-fatal diagnostic.
func (w *NDJSONWriter) WriteWarning(message, taskID string) error {
	return w.encoder.Encode(&WarningOutput{
		Type:          "warning",
		SchemaVersion: SchemaVersion,
		Message:       message,
		TaskID:        taskID,
	})
}

// WriteError outputs a structured error.
func (w *NDJSONWriter) WriteError(code, message string, hint ...string) error {
	e := &ErrorOutput{
		Type:          "error",
		SchemaVersion: SchemaVersion,
		Code:          code,
		Message:       message,
	}
	if len(hint) > 0 {
		e.Hint = hint[0]
	}
	return w.encoder.Encode(e)
}

// WriteCompletion outputs the terminal state of a run.
func (w *NDJSONWriter) WriteCompletion(dagID, runID string, state domain.RunState) error {
	return w.encoder.Encode(&CompletionOutput{
		Type:          "completion",
		SchemaVersion: SchemaVersion,
		DAGID:         dagID,
		RunID:         runID,
		State:         string(state),
	})
}

// WriteTask outputs one task instance.
func (w *NDJSONWriter) WriteTask(task domain.TaskInstance) error {
	return w.encoder.Encode(&TaskOutput{
		Type:          "task",
		SchemaVersion: SchemaVersion,
		TaskID:        task.TaskID,
		State:         string(task.State),
	})
}

// WriteRaw outputs raw JSON data.
func (w *NDJSONWriter) WriteRaw(v interface{}) error {
	return w.encoder.Encode(v)
}
