package cli

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/avoronkov/dagtail/internal/config"
)

// CLI is the root command structure for dagtail
type CLI struct {
	// Global flags
	URL      string `help:"Airflow base URL (e.g. http://localhost:8080)"`
	User     string `help:"Airflow username"`
	Password string `help:"Airflow password (or DAGTAIL_PASSWORD env)"`
	Format   string `short:"f" default:"text" enum:"text,ndjson" help:"Output format"`
	Quiet    bool   `short:"q" help:"Suppress non-log output (only emit log entries and diagnostics)"`
	Verbose  bool   `short:"v" help:"Show debug output (ticks, state transitions, HTTP failures)"`

	// Commands
	Run     RunCmd     `cmd:"" default:"withargs" help:"Trigger a DAG run and stream its task logs until it finishes"`
	Trigger TriggerCmd `cmd:"" help:"Trigger a DAG run and print its run id"`
	Monitor MonitorCmd `cmd:"" help:"Stream task logs of an existing DAG run until it finishes"`
	Tasks   TasksCmd   `cmd:"" help:"List task instances of a DAG run"`
	Config  ConfigCmd  `cmd:"" help:"Show or manage configuration"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// Globals holds shared state for all commands
type Globals struct {
	URL      string
	User     string
	Password string
	Format   string
	Quiet    bool
	Verbose  bool
	Stdout   io.Writer
	Stderr   io.Writer
	Config   *config.Config
	Logger   *zap.Logger

	// FlagsSet records which flags were explicitly provided so commands
	// can distinguish CLI overrides from config defaults.
	FlagsSet map[string]bool
}

// FlagProvided reports whether the named flag was given on the command line.
func (g *Globals) FlagProvided(name string) bool {
	return g.FlagsSet[name]
}

// NewGlobals creates a new Globals instance from CLI flags
func NewGlobals(cli *CLI) *Globals {
	return NewGlobalsWithConfig(cli, config.Default())
}

// NewGlobalsWithConfig creates a new Globals instance with config fallbacks
func NewGlobalsWithConfig(cli *CLI, cfg *config.Config) *Globals {
	g := &Globals{
		URL:      cli.URL,
		User:     cli.User,
		Password: cli.Password,
		Format:   cli.Format,
		Quiet:    cli.Quiet,
		Verbose:  cli.Verbose,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Config:   cfg,
	}

	// Apply config values where CLI flags weren't set
	if cfg != nil {
		if g.URL == "" {
			g.URL = cfg.URL
		}
		if g.User == "" {
			g.User = cfg.Username
		}
		if g.Password == "" {
			g.Password = cfg.Password
		}
		if !cli.Quiet && cfg.Quiet {
			g.Quiet = true
		}
		if !cli.Verbose && cfg.Verbose {
			g.Verbose = true
		}
	}

	g.Logger = newLogger(g.Verbose)
	return g
}

// newLogger builds the diagnostic logger. Without --verbose all internal
// logging is a nop; user-facing output never goes through zap.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// Debug prints a debug message if verbose mode is enabled
func (g *Globals) Debug(format string, args ...interface{}) {
	if g.Verbose {
		fmt.Fprintf(g.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// VersionCmd shows version information
type VersionCmd struct{}

// Run executes the version command
func (v *VersionCmd) Run(globals *Globals) error {
	if globals.Format == "ndjson" {
		io.WriteString(globals.Stdout, `{"type":"version","version":"`+Version+`","commit":"`+Commit+`"}`+"\n")
	} else {
		io.WriteString(globals.Stdout, "dagtail version "+Version+" ("+Commit+")\n")
	}
	return nil
}

// Version information (set at build time)
var (
	Version = "dev"
	Commit  = "none"
)
