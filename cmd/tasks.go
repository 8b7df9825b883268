package cmd

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/nibzard/taskflow-go/internal/todo"
	"github.com/nibzard/taskflow-go/internal/utils"
)

// addCommand appends a task built from the joined arguments.
func (c *cli) addCommand(args []string) error {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(c.stderr, "Nothing to add.")
		return nil
	}

	store, kv, err := c.openStore(c.logger)
	if err != nil {
		return err
	}
	defer kv.Close()

	view := store.Add(text)
	if err := store.Err(); err != nil {
		return err
	}
	printView(c.stdout, view, false)
	return nil
}

// editCommand replaces the title of one task.
func (c *cli) editCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: taskflow edit <id> <text...>")
	}
	text := strings.Join(args[1:], " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(c.stderr, "Nothing to update.")
		return nil
	}

	store, kv, err := c.openStore(c.logger)
	if err != nil {
		return err
	}
	defer kv.Close()

	id, ok := c.resolveID(store, args[0])
	if !ok {
		return nil
	}
	store.BeginEdit(id)
	view := store.Add(text)
	if err := store.Err(); err != nil {
		return err
	}
	printView(c.stdout, view, false)
	return nil
}

// toggleCommand flips the completion flag of one task.
func (c *cli) toggleCommand(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: taskflow toggle <id>")
	}
	store, kv, err := c.openStore(c.logger)
	if err != nil {
		return err
	}
	defer kv.Close()

	id, ok := c.resolveID(store, args[0])
	if !ok {
		return nil
	}
	view := store.ToggleComplete(id)
	if err := store.Err(); err != nil {
		return err
	}
	printView(c.stdout, view, false)
	return nil
}

// rmCommand deletes one task.
func (c *cli) rmCommand(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: taskflow rm <id>")
	}
	store, kv, err := c.openStore(c.logger)
	if err != nil {
		return err
	}
	defer kv.Close()

	id, ok := c.resolveID(store, args[0])
	if !ok {
		return nil
	}
	view := store.Delete(id)
	if err := store.Err(); err != nil {
		return err
	}
	printView(c.stdout, view, false)
	return nil
}

// lsCommand prints the filtered list and the remaining count.
func (c *cli) lsCommand(args []string) error {
	fs := flag.NewFlagSet("taskflow ls", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	filterName := fs.String("filter", string(todo.FilterAll), "Filter (all, active, completed)")
	verbose := fs.Bool("v", false, "Show full ids")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	filter, ok := todo.ParseFilter(*filterName)
	if !ok {
		c.logger.Warn("Unknown filter, showing all tasks", "filter", *filterName)
	}

	store, kv, err := c.openStore(c.logger)
	if err != nil {
		return err
	}
	defer kv.Close()

	printView(c.stdout, store.SetFilter(filter), *verbose)
	return nil
}

// resolveID maps a full id or unique prefix to a task id. Unknown and
// ambiguous references print a notice and report false.
func (c *cli) resolveID(store *todo.Store, ref string) (string, bool) {
	matches := store.Match(ref)
	switch len(matches) {
	case 1:
		return matches[0].ID, true
	case 0:
		fmt.Fprintf(c.stderr, "No task matches %q.\n", ref)
	default:
		fmt.Fprintf(c.stderr, "Id %q is ambiguous (%d tasks match).\n", ref, len(matches))
	}
	return "", false
}

// printView prints the visible tasks followed by the remaining count.
func printView(w io.Writer, view todo.View, verbose bool) {
	if view.Filter != todo.FilterAll {
		fmt.Fprintf(w, "%s tasks\n", view.Filter.Label())
	}
	if len(view.VisibleTasks) == 0 {
		fmt.Fprintln(w, "No tasks here yet")
	}
	for _, t := range view.VisibleTasks {
		printTask(w, t, verbose)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, view.RemainingLabel())
}

func printTask(w io.Writer, t todo.Task, verbose bool) {
	id := t.ID
	if !verbose {
		id = utils.ShortID(id, shortIDLen)
	}
	check := " "
	if t.Completed {
		check = "x"
	}
	fmt.Fprintf(w, "  %-*s [%s] %s\n", shortIDLen, id, check, t.Title)
}
