package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// LogEntry is one structured log record from a task's log stream.
// Timestamps are strings straight from the API; they order lexically in
// chronological order, which is all the cutoff bookkeeping needs.
type LogEntry struct {
	Timestamp   string          `json:"timestamp"`
	Logger      string          `json:"logger"`
	Level       string          `json:"level"`
	Event       string          `json:"event"`
	ErrorDetail json.RawMessage `json:"error_detail,omitempty"`
}

// Message renders the display message for the entry. Error-level entries
// may carry structured error_detail; when a nested exception value resolves
// at error_detail[0].exc_value it is appended as "event: exc_value". Any
// missing or mistyped field along that path degrades to the plain event.
func (e *LogEntry) Message() string {
	if !strings.EqualFold(e.Level, "error") || len(e.ErrorDetail) == 0 {
		return e.Event
	}
	exc := gjson.GetBytes(e.ErrorDetail, "0.exc_value")
	if !exc.Exists() || exc.String() == "" {
		return e.Event
	}
	return e.Event + ": " + exc.String()
}

// Render formats the entry as a console line for the given task.
func (e *LogEntry) Render(taskID string) string {
	return fmt.Sprintf("%s - %s: [%s] %s", e.Timestamp, taskID, strings.ToUpper(e.Level), e.Message())
}
