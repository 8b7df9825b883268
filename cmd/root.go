// Package cmd implements the CLI command structure for taskflow.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskflow-go/internal/config"
	"github.com/nibzard/taskflow-go/internal/logging"
	"github.com/nibzard/taskflow-go/internal/storage"
	"github.com/nibzard/taskflow-go/internal/todo"
	"github.com/nibzard/taskflow-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// shortIDLen is how many id characters listings show.
const shortIDLen = 8

// cli carries what every subcommand needs.
type cli struct {
	cws    *config.ConfigWithSources
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
	logger *log.Logger
}

// Run executes the taskflow CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("taskflow", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	c := &cli{
		cws:    cws,
		cfg:    cws.Config,
		stdout: stdout,
		stderr: stderr,
		logger: logging.New(stderr, cws.Config.LoggingOptions()),
	}
	for _, w := range cws.Warnings {
		c.logger.Warn(w)
	}

	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return c.versionCommand()
	}

	// Determine the subcommand
	// If no args or first arg is a flag, open the terminal UI
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	// Execute the subcommand
	switch subcommand {
	case "tui":
		return c.tuiCommand(ctx, remainingArgs)
	case "add":
		return c.addCommand(remainingArgs)
	case "edit":
		return c.editCommand(remainingArgs)
	case "toggle", "done":
		return c.toggleCommand(remainingArgs)
	case "rm", "delete":
		return c.rmCommand(remainingArgs)
	case "ls", "list":
		return c.lsCommand(remainingArgs)
	case "export":
		return c.exportCommand(remainingArgs)
	case "doctor":
		return c.doctorCommand(remainingArgs)
	case "config":
		return c.configCommand(remainingArgs)
	case "log":
		return c.logCommand(ctx, remainingArgs)
	case "version":
		return c.versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openStore opens the configured backend and hydrates a Store from it.
// The caller closes the returned KV.
func (c *cli) openStore(logger *log.Logger) (*todo.Store, storage.KV, error) {
	kv, err := c.cfg.OpenStorage()
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s storage: %w", c.cfg.Store, err)
	}
	store := todo.Open(kv, todo.WithLogger(logger))
	return store, kv, nil
}

// tuiCommand launches the interactive task list.
func (c *cli) tuiCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("taskflow tui", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	// The alternate screen owns the terminal, so log to a file instead.
	fileLog, err := logging.OpenFile(c.cfg.LogPath(), c.cfg.LoggingOptions())
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer fileLog.Close()

	store, kv, err := c.openStore(fileLog.Logger)
	if err != nil {
		return err
	}
	defer kv.Close()

	fileLog.Info("Starting TUI", "store", c.cfg.Store, "path", c.cfg.StorePath)
	return ui.RunTUI(ctx, store,
		ui.WithSettings(kv),
		ui.WithDarkMode(c.cfg.DarkMode),
		ui.WithLogger(fileLog.Logger),
	)
}

// versionCommand prints the version.
func (c *cli) versionCommand() error {
	fmt.Fprintf(c.stdout, "taskflow %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprint(w, `taskflow - a to-do list for the terminal

Usage:
  taskflow [global flags] [command] [args]

Commands:
  tui                         Open the interactive task list (default)
  add <text...>               Add a task
  edit <id> <text...>         Replace a task's title
  toggle <id>                 Mark a task done or not done (alias: done)
  rm <id>                     Delete a task (alias: delete)
  ls [--filter F] [-v]        List tasks (filters: all, active, completed)
  export [--format F] [--out PATH] [--filter F]
                              Export tasks as json, markdown, csv or pdf
  doctor [-v]                 Check configuration and stored data
  config [--example]          Show the effective configuration and its sources
  log [-n N] [-f]             Show the terminal UI log
  version                     Show version
  help                        Show this help

Ids may be shortened to any unique prefix.

Global flags:
`)
	fs.SetOutput(w)
	fs.PrintDefaults()
}
