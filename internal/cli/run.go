package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/avoronkov/dagtail/internal/monitor"
)

// RunCmd triggers a DAG run and streams its task logs until it finishes
type RunCmd struct {
	DAG        string        `short:"d" help:"DAG ID to trigger"`
	Interval   time.Duration `short:"i" help:"Status poll interval (default 5s)"`
	LogSources string        `help:"Comma-separated logger names to print (default root,task; empty disables the filter)"`
	Conf       []string      `short:"c" help:"Run conf as KEY=VALUE (repeatable), passed through to the trigger payload"`
}

// Run executes the run command
func (c *RunCmd) Run(globals *Globals) error {
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

	conf, cliErr := parseConf(c.Conf)
	if cliErr != nil {
		return outputErrorCommon(globals, cliErr.Code, cliErr.Message, cliErr.Hint)
	}

	client, cliErr := connect(ctx, globals)
	if cliErr != nil {
		return outputErrorCommon(globals, cliErr.Code, cliErr.Message, cliErr.Hint)
	}

	runID, err := client.TriggerDAGRun(ctx, dag, conf)
	if err != nil {
		return outputErrorCommon(globals, "TRIGGER_FAILED", err.Error())
	}

	emit := newEmitter(globals)
	emit.Info("DAG Run ID: "+runID, dag, runID)

	// Monitoring failures are reported by the monitor itself and do not
	// fail the process; only auth/trigger/flag errors exit non-zero.
	m := monitor.New(client, emit, clock.New(), globals.Logger, dag, runID, interval, sources)
	state, final := m.Run(ctx)
	globals.Logger.Sugar().Debugw("monitor finished", "state", final.String(), "run_state", string(state))
	return nil
}
