package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/avoronkov/dagtail/internal/domain"
	"github.com/avoronkov/dagtail/internal/output"
)

// API is the subset of the Airflow client the monitor needs.
type API interface {
	GetDAGRun(ctx context.Context, dagID, runID string) (*domain.DAGRun, error)
	ListTaskInstances(ctx context.Context, dagID, runID string) ([]domain.TaskInstance, error)
	TaskLogs(ctx context.Context, dagID, runID, taskID string) ([]domain.LogEntry, error)
}

// State is the monitor's lifecycle state. The loop starts in Polling and
// ends in exactly one of Terminal or Aborted.
type State int

const (
	StatePolling State = iota
	StateTerminal
	StateAborted
)

func (s State) String() string {
	switch s {
	case StatePolling:
		return "polling"
	case StateTerminal:
		return "terminal"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Monitor polls a DAG run until it reaches a terminal state, streaming new
// task log lines on every tick. All poll state (per-task cutoffs and the
// fully-logged task set) lives here and only for the duration of one run.
type Monitor struct {
	api      API
	emit     output.Emitter
	clk      clock.Clock
	log      *zap.Logger
	dagID    string
	runID    string
	interval time.Duration
	tailer   *Tailer

	logged  map[string]struct{}
	cutoffs map[string]string
}

// New creates a monitor for one run. clk defaults to the real clock; log
// defaults to a nop logger.
func New(api API, emit output.Emitter, clk clock.Clock, log *zap.Logger, dagID, runID string, interval time.Duration, sources []string) *Monitor {
	if clk == nil {
		clk = clock.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Monitor{
		api:      api,
		emit:     emit,
		clk:      clk,
		log:      log,
		dagID:    dagID,
		runID:    runID,
		interval: interval,
		tailer:   NewTailer(api, emit, log, dagID, runID, sources),
		logged:   map[string]struct{}{},
		cutoffs:  map[string]string{},
	}
}

// Run polls until the run reaches a terminal state or a status/task-list
// fetch fails. Status and task-list failures abort monitoring on first
// occurrence; log fetch failures inside the tailer do not. Returns the
// run's terminal state (empty on abort) and the final monitor state.
func (m *Monitor) Run(ctx context.Context) (domain.RunState, State) {
	for tick := 1; ; tick++ {
		run, err := m.api.GetDAGRun(ctx, m.dagID, m.runID)
		if err != nil {
			return m.abort(err)
		}

		tasks, err := m.api.ListTaskInstances(ctx, m.dagID, m.runID)
		if err != nil {
			return m.abort(err)
		}

		m.log.Debug("tick",
			zap.Int("n", tick),
			zap.String("run_state", string(run.State)),
			zap.Int("tasks", len(tasks)),
		)

		for _, task := range tasks {
			if _, done := m.logged[task.TaskID]; done {
				continue
			}
			if task.State.Loggable() {
				m.cutoffs[task.TaskID] = m.tailer.Tail(ctx, task.TaskID, m.cutoffs[task.TaskID])
			}
			if task.State.Terminal() {
				// The tail call above already captured the final burst.
				m.logged[task.TaskID] = struct{}{}
				m.log.Debug("task fully logged",
					zap.String("task_id", task.TaskID),
					zap.String("state", string(task.State)),
				)
			}
		}

		if run.State.Terminal() {
			m.emit.Completion(m.dagID, m.runID, run.State)
			return run.State, StateTerminal
		}

		timer := m.clk.Timer(m.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return m.abort(ctx.Err())
		case <-timer.C:
		}
	}
}

func (m *Monitor) abort(err error) (domain.RunState, State) {
	m.log.Warn("monitoring aborted", zap.Error(err))
	m.emit.Warning(fmt.Sprintf("monitoring error: %v", err), "")
	return "", StateAborted
}
