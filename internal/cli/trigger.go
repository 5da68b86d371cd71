package cli

import (
	"context"
	"os/signal"
	"syscall"
)

// TriggerCmd triggers a DAG run without monitoring it
type TriggerCmd struct {
	DAG  string   `short:"d" help:"DAG ID to trigger"`
	Conf []string `short:"c" help:"Run conf as KEY=VALUE (repeatable), passed through to the trigger payload"`
}

// Run executes the trigger command
func (c *TriggerCmd) Run(globals *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dag, cliErr := resolveDAG(globals, c.DAG)
	if cliErr != nil {
		return outputErrorCommon(globals, cliErr.Code, cliErr.Message, cliErr.Hint)
	}
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
	return nil
}
