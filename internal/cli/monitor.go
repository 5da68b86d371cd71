package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/avoronkov/dagtail/internal/monitor"
)

// MonitorCmd streams task logs of an existing DAG run until it finishes
type MonitorCmd struct {
	DAG        string        `short:"d" help:"DAG ID"`
	RunID      string        `short:"r" required:"" help:"DAG run ID to monitor"`
	Interval   time.Duration `short:"i" help:"Status poll interval (default 5s)"`
	LogSources string        `help:"Comma-separated logger names to print (default root,task; empty disables the filter)"`
}

// Run executes the monitor command
func (c *MonitorCmd) Run(globals *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dag, cliErr := resolveDAG(globals, c.DAG)
	if cliErr != nil {
		return outputErrorCommon(globals, cliErr.Code, cliErr.Message, cliErr.Hint)
	}
	interval, cliErr := resolveInterval(globals, c.Interval)
	if cliErr != nil {
		return outputErrorCommon(globals, cliErr.Code, cliErr.Message, cliErr.Hint)
	}
	sources := resolveLogSources(globals, c.LogSources, globals.FlagProvided("log-sources"))

	client, cliErr := connect(ctx, globals)
	if cliErr != nil {
		return outputErrorCommon(globals, cliErr.Code, cliErr.Message, cliErr.Hint)
	}

	emit := newEmitter(globals)
	m := monitor.New(client, emit, clock.New(), globals.Logger, dag, c.RunID, interval, sources)
	state, final := m.Run(ctx)
	globals.Logger.Sugar().Debugw("monitor finished", "state", final.String(), "run_state", string(state))
	return nil
}
