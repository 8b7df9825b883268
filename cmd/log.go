package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/nibzard/taskflow-go/internal/logging"
)

// logCommand prints or follows the terminal UI log.
func (c *cli) logCommand(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("taskflow log", flag.ContinueOnError)
	flags.SetOutput(c.stderr)
	follow := flags.Bool("f", false, "Follow the log (like tail -f)")
	flags.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := flags.Int("n", 20, "Number of lines to show (0 = all)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	path := c.cfg.LogPath()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(c.stdout, "No log file yet (%s).\n", path)
			return nil
		}
		return fmt.Errorf("checking log file: %w", err)
	}

	if *follow {
		fmt.Fprintf(c.stderr, "Following %s (Ctrl+C to stop)\n", path)
	}
	return logging.TailLog(ctx, c.stdout, path, *n, *follow)
}
