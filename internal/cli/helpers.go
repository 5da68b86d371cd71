package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/avoronkov/dagtail/internal/airflow"
	"github.com/avoronkov/dagtail/internal/output"
)

// connect validates the connection flags and performs the one-time token
// exchange. Every command that talks to Airflow goes through here.
func connect(ctx context.Context, globals *Globals) (*airflow.Client, *CLIError) {
	if globals.URL == "" {
		return nil, &CLIError{Code: "INVALID_FLAGS", Message: "Airflow base URL is required", Hint: "pass --url or set DAGTAIL_URL"}
	}
	if globals.User == "" || globals.Password == "" {
		return nil, &CLIError{Code: "INVALID_FLAGS", Message: "Airflow credentials are required", Hint: "pass --user/--password or set DAGTAIL_USERNAME/DAGTAIL_PASSWORD"}
	}

	client := airflow.NewClient(globals.URL)
	if err := client.Authenticate(ctx, globals.User, globals.Password); err != nil {
		return nil, &CLIError{Code: "AUTH_FAILED", Message: err.Error(), Hint: "check --user and --password"}
	}
	return client, nil
}

// parseConf parses repeated KEY=VALUE flags into the trigger conf mapping.
func parseConf(pairs []string) (map[string]any, *CLIError) {
	if len(pairs) == 0 {
		return nil, nil
	}
	conf := make(map[string]any, len(pairs))
	for _, kv := range pairs {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, &CLIError{Code: "INVALID_CONF", Message: fmt.Sprintf("invalid conf format %q, expected KEY=VALUE", kv)}
		}
		conf[parts[0]] = parts[1]
	}
	return conf, nil
}

// newEmitter picks the output sink for log lines and diagnostics. Text
// styling is enabled only when stdout is a terminal.
func newEmitter(globals *Globals) output.Emitter {
	if globals.Format == "ndjson" {
		return output.NewNDJSONEmitter(globals.Stdout, globals.Quiet)
	}
	styled := false
	if f, ok := globals.Stdout.(*os.File); ok {
		styled = isatty.IsTerminal(f.Fd())
	}
	return output.NewTextEmitter(globals.Stdout, globals.Stderr, styled, globals.Quiet)
}

// resolveDAG falls back to the configured default DAG id.
func resolveDAG(globals *Globals, flag string) (string, *CLIError) {
	dag := flag
	if dag == "" && globals.Config != nil {
		dag = globals.Config.Defaults.DAG
	}
	if dag == "" {
		return "", &CLIError{Code: "INVALID_FLAGS", Message: "DAG ID is required", Hint: "pass --dag or set defaults.dag in .dagtail.yaml"}
	}
	return dag, nil
}

// resolveInterval falls back to the configured poll interval, then 5s.
func resolveInterval(globals *Globals, flag time.Duration) (time.Duration, *CLIError) {
	if flag > 0 {
		return flag, nil
	}
	if globals.Config != nil && globals.Config.Defaults.Interval != "" {
		d, err := time.ParseDuration(globals.Config.Defaults.Interval)
		if err != nil {
			return 0, &CLIError{Code: "INVALID_FLAGS", Message: fmt.Sprintf("invalid interval %q: %v", globals.Config.Defaults.Interval, err)}
		}
		return d, nil
	}
	return 5 * time.Second, nil
}

// resolveLogSources parses the comma-separated allow-list, falling back to
// the configured default. An explicit empty value ("") disables the source
// filter entirely.
func resolveLogSources(globals *Globals, flag string, flagSet bool) []string {
	if flagSet {
		return splitSources(flag)
	}
	if globals.Config != nil {
		return globals.Config.Defaults.LogSources
	}
	return []string{"root", "task"}
}

func splitSources(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
