package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/avoronkov/dagtail/internal/domain"
)

// Emitter is the sink for everything the trigger/monitor path prints:
// rendered log lines, diagnostics, and the final completion message.
type Emitter interface {
	Log(taskID string, entry *domain.LogEntry) error
	Info(message, dagID, runID string) error
	Warning(message, taskID string) error
	Completion(dagID, runID string, state domain.RunState) error
	Task(task domain.TaskInstance) error
}

// TextEmitter renders human-readable console output. Log lines follow the
// fixed "timestamp - task: [LEVEL] message" shape; styling only wraps the
// pieces and is disabled entirely on non-TTY output.
type TextEmitter struct {
	out    io.Writer
	errOut io.Writer
	styled bool
	quiet  bool
}

// NewTextEmitter creates a text emitter. When styled is false all lipgloss
// styling is skipped and output is plain text.
func NewTextEmitter(out, errOut io.Writer, styled, quiet bool) *TextEmitter {
	return &TextEmitter{out: out, errOut: errOut, styled: styled, quiet: quiet}
}

func (t *TextEmitter) Log(taskID string, entry *domain.LogEntry) error {
	if !t.styled {
		_, err := fmt.Fprintln(t.out, entry.Render(taskID))
		return err
	}
	level := strings.ToUpper(entry.Level)
	_, err := fmt.Fprintf(t.out, "%s - %s: %s %s\n",
		Styles.Timestamp.Render(entry.Timestamp),
		Styles.Task.Render(taskID),
		LevelStyle(entry.Level).Render("["+level+"]"),
		entry.Message(),
	)
	return err
}

func (t *TextEmitter) Info(message, dagID, runID string) error {
	if t.quiet {
		return nil
	}
	_, err := fmt.Fprintln(t.out, message)
	return err
}

func (t *TextEmitter) Warning(message, taskID string) error {
	if t.styled {
		message = Styles.Warning.Render(message)
	}
	_, err := fmt.Fprintln(t.errOut, message)
	return err
}

func (t *TextEmitter) Completion(dagID, runID string, state domain.RunState) error {
	s := string(state)
	if t.styled {
		s = StateStyle(s).Render(s)
	}
	_, err := fmt.Fprintf(t.out, "DAG finished with state: %s\n", s)
	return err
}

func (t *TextEmitter) Task(task domain.TaskInstance) error {
	_, err := fmt.Fprintf(t.out, "%s\t%s\n", task.TaskID, task.State)
	return err
}

// NDJSONEmitter emits every event as one NDJSON object on stdout.
type NDJSONEmitter struct {
	w     *NDJSONWriter
	quiet bool
}

// NewNDJSONEmitter creates an NDJSON emitter.
func NewNDJSONEmitter(w io.Writer, quiet bool) *NDJSONEmitter {
	return &NDJSONEmitter{w: NewNDJSONWriter(w), quiet: quiet}
}

func (n *NDJSONEmitter) Log(taskID string, entry *domain.LogEntry) error {
	return n.w.WriteLog(taskID, entry)
}

func (n *NDJSONEmitter) Info(message, dagID, runID string) error {
	if n.quiet {
		return nil
	}
	return n.w.WriteInfo(message, dagID, runID)
}

func (n *NDJSONEmitter) Warning(message, taskID string) error {
	return n.w.WriteWarning(message, taskID)
}

func (n *NDJSONEmitter) Completion(dagID, runID string, state domain.RunState) error {
	return n.w.WriteCompletion(dagID, runID, state)
}

func (n *NDJSONEmitter) Task(task domain.TaskInstance) error {
	return n.w.WriteTask(task)
}
