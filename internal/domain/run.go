package domain

// RunState is the Airflow state vocabulary for DAG runs and task instances.
// The set is open-ended on the server side; only the states below are
// special-cased by this tool.
type RunState string

const (
	StateRunning RunState = "running"
	StateSuccess RunState = "success"
	StateFailed  RunState = "failed"
)

// Terminal reports whether no further transitions occur from this state.
func (s RunState) Terminal() bool {
	return s == StateSuccess || s == StateFailed
}

// Loggable reports whether a task instance in this state has logs worth
// fetching: running tasks stream, terminal tasks get one final fetch.
func (s RunState) Loggable() bool {
	return s == StateRunning || s.Terminal()
}

// DAGRun is one execution instance of a DAG.
type DAGRun struct {
	DAGRunID string   `json:"dag_run_id"`
	State    RunState `json:"state"`
}

// TaskInstance is one step's execution within a DAG run. TaskID is unique
// within the run.
type TaskInstance struct {
	TaskID string   `json:"task_id"`
	State  RunState `json:"state"`
}
