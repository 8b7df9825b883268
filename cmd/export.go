package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nibzard/taskflow-go/internal/export"
	"github.com/nibzard/taskflow-go/internal/todo"
	"github.com/nibzard/taskflow-go/internal/utils"
)

// exportCommand writes the filtered list to stdout or a file.
func (c *cli) exportCommand(args []string) error {
	fs := flag.NewFlagSet("taskflow export", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	formatName := fs.String("format", "", "Export format (json, markdown, csv, pdf); defaults to the --out extension or json")
	out := fs.String("out", "", "Output file (default stdout)")
	filterName := fs.String("filter", string(todo.FilterAll), "Filter (all, active, completed)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	name := *formatName
	if name == "" {
		name = formatFromPath(*out)
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		return err
	}
	filter, ok := todo.ParseFilter(*filterName)
	if !ok {
		c.logger.Warn("Unknown filter, exporting all tasks", "filter", *filterName)
	}

	store, kv, err := c.openStore(c.logger)
	if err != nil {
		return err
	}
	defer kv.Close()
	view := store.SetFilter(filter)

	if *out == "" {
		return export.Write(c.stdout, format, view)
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", *out, err)
	}
	if err := export.Write(f, format, view); err != nil {
		_ = f.Close()
		return fmt.Errorf("exporting %s: %w", format, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", *out, err)
	}

	n := len(view.VisibleTasks)
	fmt.Fprintf(c.stdout, "Exported %d %s to %s\n", n, utils.Plural(n, "task", "tasks"), *out)
	return nil
}

// formatFromPath guesses a format name from a file extension.
func formatFromPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, f := range export.Formats() {
		if strings.TrimPrefix(f.Extension(), ".") == ext {
			return string(f)
		}
	}
	return ""
}
