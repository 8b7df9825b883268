package cmd

import (
	"flag"
	"fmt"

	"github.com/nibzard/taskflow-go/internal/config"
)

// configCommand prints the effective configuration and where each value
// came from.
func (c *cli) configCommand(args []string) error {
	fs := flag.NewFlagSet("taskflow config", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *example {
		fmt.Fprint(c.stdout, config.ExampleConfig())
		return nil
	}

	fmt.Fprintln(c.stdout, "Config files:")
	if len(c.cws.Files) == 0 {
		fmt.Fprintln(c.stdout, "  (none)")
	}
	for _, path := range c.cws.Files {
		fmt.Fprintf(c.stdout, "  %s\n", path)
	}
	fmt.Fprintln(c.stdout)

	fmt.Fprintln(c.stdout, "Effective configuration:")
	for _, field := range config.Fields() {
		value, err := c.cfg.Value(field)
		if err != nil {
			return err
		}
		if value == "" {
			value = `""`
		}
		fmt.Fprintf(c.stdout, "  %-15s = %-40s (%s)\n", field, value, c.cws.Sources[field])
	}
	for _, w := range c.cws.Warnings {
		fmt.Fprintf(c.stdout, "\n⚠️  %s\n", w)
	}
	return nil
}
