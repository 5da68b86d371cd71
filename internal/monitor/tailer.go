package monitor

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/avoronkov/dagtail/internal/domain"
	"github.com/avoronkov/dagtail/internal/output"
)

// Tailer incrementally prints the logs of a single task. It is stateless
// across calls: the caller hands in the last-printed-entry timestamp
// (cutoff) and stores the returned one. An empty cutoff means nothing has
// been printed for the task yet.
type Tailer struct {
	api     API
	emit    output.Emitter
	log     *zap.Logger
	dagID   string
	runID   string
	sources map[string]struct{}
}

// NewTailer creates a tailer for one run. sources is the allowed logger
// name set; empty means no source filter.
func NewTailer(api API, emit output.Emitter, log *zap.Logger, dagID, runID string, sources []string) *Tailer {
	set := make(map[string]struct{}, len(sources))
	for _, s := range sources {
		set[s] = struct{}{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Tailer{api: api, emit: emit, log: log, dagID: dagID, runID: runID, sources: set}
}

// Tail fetches the task's full log content, prints the entries that pass
// the source/cutoff filter in the order received, and returns the
// timestamp of the last printed entry. If nothing new was printed the
// prior cutoff comes back unchanged.
//
// A failed fetch is not fatal: it prints a diagnostic naming the task and
// returns the prior cutoff, so the poll loop simply tries again next tick.
func (t *Tailer) Tail(ctx context.Context, taskID, cutoff string) string {
	entries, err := t.api.TaskLogs(ctx, t.dagID, t.runID, taskID)
	if err != nil {
		t.log.Warn("log fetch failed", zap.String("task_id", taskID), zap.Error(err))
		t.emit.Warning(fmt.Sprintf("failed to fetch logs for task %s: %v", taskID, err), taskID)
		return cutoff
	}

	newCutoff := cutoff
	for i := range entries {
		entry := &entries[i]
		if !t.keep(entry, cutoff) {
			continue
		}
		t.emit.Log(taskID, entry)
		newCutoff = entry.Timestamp
	}
	return newCutoff
}

// keep applies the filter inherited from the reference implementation,
// quirk included: with no source filter configured every entry is kept and
// the cutoff check is bypassed entirely. Otherwise the entry's logger must
// be allowed and its timestamp must be strictly past the cutoff.
func (t *Tailer) keep(entry *domain.LogEntry, cutoff string) bool {
	if len(t.sources) == 0 {
		return true
	}
	if _, ok := t.sources[entry.Logger]; !ok {
		return false
	}
	return cutoff == "" || entry.Timestamp > cutoff
}
