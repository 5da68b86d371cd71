package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/avoronkov/dagtail/internal/cli"
	"github.com/avoronkov/dagtail/internal/config"
)

const quickStart = `dagtail - trigger an Airflow DAG and stream its task logs

START HERE (this is the command you want):
  dagtail run --url http://localhost:8080 --user admin --password admin --dag my_dag

Flags:
  --dag          DAG ID to trigger
  --interval     Status poll interval (default 5s)
  --log-sources  Logger names to print, comma-separated (default root,task)

Other useful commands:
  dagtail trigger --dag my_dag             Trigger without monitoring
  dagtail monitor --dag my_dag -r RUN_ID   Attach to an existing run
  dagtail tasks --dag my_dag -r RUN_ID     List task instances of a run
`

func main() {
	// Show quick start if no args provided
	if len(os.Args) == 1 {
		fmt.Print(quickStart)
		return
	}

	// Load configuration from files/environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI

	ctx := kong.Parse(&c,
		kong.Name("dagtail"),
		kong.Description("Trigger an Airflow DAG run and stream its task logs until it finishes"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
	)

	globals := cli.NewGlobalsWithConfig(&c, cfg)
	// Record which flags were explicitly provided so commands can
	// distinguish CLI overrides from config defaults.
	flagsSet := map[string]bool{}
	for _, p := range ctx.Path {
		if p.Flag != nil {
			flagsSet[p.Flag.Name] = true
		}
	}
	globals.FlagsSet = flagsSet

	err = ctx.Run(globals)
	if err != nil {
		os.Exit(1)
	}
}
