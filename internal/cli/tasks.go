package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/olekukonko/tablewriter"

	"github.com/avoronkov/dagtail/internal/domain"
	"github.com/avoronkov/dagtail/internal/output"
)

// TasksCmd lists the task instances of a DAG run
type TasksCmd struct {
	DAG   string `short:"d" help:"DAG ID"`
	RunID string `short:"r" required:"" help:"DAG run ID"`
}

// Run executes the tasks command
func (c *TasksCmd) Run(globals *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dag, cliErr := resolveDAG(globals, c.DAG)
	if cliErr != nil {
		return outputErrorCommon(globals, cliErr.Code, cliErr.Message, cliErr.Hint)
	}

	client, cliErr := connect(ctx, globals)
	if cliErr != nil {
		return outputErrorCommon(globals, cliErr.Code, cliErr.Message, cliErr.Hint)
	}

	tasks, err := client.ListTaskInstances(ctx, dag, c.RunID)
	if err != nil {
		return outputErrorCommon(globals, "LIST_FAILED", err.Error())
	}

	if globals.Format == "ndjson" {
		w := output.NewNDJSONWriter(globals.Stdout)
		for _, task := range tasks {
			if err := w.WriteTask(task); err != nil {
				return err
			}
		}
		return nil
	}
	return c.outputTable(globals, tasks)
}

func (c *TasksCmd) outputTable(globals *Globals, tasks []domain.TaskInstance) error {
	table := tablewriter.NewWriter(globals.Stdout)
	table.Header("TASK ID", "STATE")
	for _, task := range tasks {
		if err := table.Append([]string{task.TaskID, string(task.State)}); err != nil {
			return err
		}
	}
	return table.Render()
}
