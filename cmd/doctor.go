package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/nibzard/taskflow-go/internal/todo"
	"github.com/nibzard/taskflow-go/internal/ui"
)

// doctorCommand checks config, the data directory and the stored tasks.
func (c *cli) doctorCommand(args []string) error {
	flags := flag.NewFlagSet("taskflow doctor", flag.ContinueOnError)
	flags.SetOutput(c.stderr)
	verbose := flags.Bool("v", false, "Verbose output")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", flags.Args())
	}

	w := c.stdout
	fmt.Fprintln(w, "TaskFlow Doctor")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	allOK := true

	// Check config
	fmt.Fprintln(w, "Config:")
	if len(c.cws.Files) == 0 {
		fmt.Fprintln(w, "  ✅ No config file (using defaults)")
	}
	for _, path := range c.cws.Files {
		fmt.Fprintf(w, "  ✅ %s\n", path)
	}
	for _, warning := range c.cws.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warning)
	}
	fmt.Fprintln(w)

	// Check data directory
	fmt.Fprintf(w, "Data directory: %s\n", c.cfg.DataDir)
	if info, err := os.Stat(c.cfg.DataDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(w, "  ⚠️  Not found (created on first write)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	// Check storage
	fmt.Fprintf(w, "Storage: %s", c.cfg.Store)
	if c.cfg.StorePath != "" {
		fmt.Fprintf(w, " (%s)", c.cfg.StorePath)
	}
	fmt.Fprintln(w)
	if !c.checkStorage(*verbose) {
		allOK = false
	}
	fmt.Fprintln(w)

	// Check schema override
	if c.cfg.SchemaFile != "" {
		fmt.Fprintf(w, "Schema file: %s\n", c.cfg.SchemaFile)
		if _, err := os.Stat(c.cfg.SchemaFile); err != nil {
			fmt.Fprintf(w, "  ⚠️  %v (bundled schema used)\n", err)
		} else {
			fmt.Fprintln(w, "  ✅ OK")
		}
		fmt.Fprintln(w)
	}

	// Check log file
	fmt.Fprintf(w, "Log file: %s\n", c.cfg.LogPath())
	if _, err := os.Stat(c.cfg.LogPath()); err != nil {
		fmt.Fprintln(w, "  ⚠️  Not found (created when the terminal UI runs)")
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	// Overall status
	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. TaskFlow will start with the tasks it can read.")
	return fmt.Errorf("doctor checks failed")
}

// checkStorage opens the backend and validates the stored payload.
func (c *cli) checkStorage(verbose bool) bool {
	w := c.stdout
	kv, err := c.cfg.OpenStorage()
	if err != nil {
		fmt.Fprintf(w, "  ❌ Open error: %v\n", err)
		return false
	}
	defer kv.Close()

	ok := true
	raw, found, err := kv.Get(todo.StorageKey)
	switch {
	case err != nil:
		fmt.Fprintf(w, "  ❌ Read error: %v\n", err)
		return false
	case !found:
		fmt.Fprintln(w, "  ⚠️  No tasks stored yet")
	default:
		result := todo.Validate(raw, todo.ValidationOptions{SchemaPath: c.cfg.SchemaFile})
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  ⚠️  %s\n", warning)
		}
		if result.Valid {
			fmt.Fprintln(w, "  ✅ Valid")
		} else {
			fmt.Fprintln(w, "  ❌ Validation failed:")
			for _, e := range result.Errors {
				fmt.Fprintf(w, "     - %v\n", e)
			}
			ok = false
		}
		tasks, _ := todo.Decode(raw)
		fmt.Fprintf(w, "  Tasks: %d loadable\n", len(tasks))
		if verbose {
			for _, t := range tasks {
				printTask(w, t, true)
			}
		}
	}

	if value, found, err := kv.Get(ui.DarkModeKey); err == nil && found {
		if _, perr := strconv.ParseBool(value); perr != nil {
			fmt.Fprintf(w, "  ⚠️  %s = %q is not a boolean (default theme used)\n", ui.DarkModeKey, value)
		} else if verbose {
			fmt.Fprintf(w, "  ✅ %s = %s\n", ui.DarkModeKey, value)
		}
	}
	return ok
}
