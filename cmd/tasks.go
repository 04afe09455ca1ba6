package cmd

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/nibzard/todolist/internal/app"
	"github.com/nibzard/todolist/internal/config"
	"github.com/nibzard/todolist/internal/todo"
)

// openApp loads the data file for a one-shot command. Unlike the interface,
// a load failure is returned so the command never overwrites a file it could
// not read. Notices are printed to stdout.
func openApp(cfg *config.Config) (*app.App, error) {
	logger, err := newLogger(cfg, stderr)
	if err != nil {
		return nil, err
	}
	a, err := newApp(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := a.Load(); err != nil {
		return nil, fmt.Errorf("loading %s: %w", cfg.DataFile, err)
	}
	a.OnNotice(func(n app.Notice) {
		fmt.Fprintln(stdout, n.Text)
	})
	return a, nil
}

// resolveCollection finds a collection by 1-based index or by title. A
// number out of index range is looked up as a title.
func resolveCollection(a *app.App, ref string) (*todo.Collection, error) {
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(a.Collections()) {
		return a.CollectionAt(n - 1)
	}
	for _, c := range a.Collections() {
		if c.Title == ref {
			return c, nil
		}
	}
	for _, c := range a.Collections() {
		if strings.EqualFold(c.Title, ref) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("collection %q: %w", ref, app.ErrNotFound)
}

// resolveTask finds a task of c by 1-based index.
func resolveTask(c *todo.Collection, ref string) (*todo.Task, error) {
	n, err := strconv.Atoi(ref)
	if err != nil {
		return nil, fmt.Errorf("task index %q is not a number", ref)
	}
	if n < 1 || n > c.Tasks.Len() {
		return nil, fmt.Errorf("task #%d in %q: %w", n, c.Title, app.ErrNotFound)
	}
	return c.Tasks.At(n - 1), nil
}

// selectCollection resolves ref and makes it the current collection.
func selectCollection(a *app.App, ref string) (*todo.Collection, error) {
	c, err := resolveCollection(a, ref)
	if err != nil {
		return nil, err
	}
	if err := a.SelectCollection(c.ID()); err != nil {
		return nil, err
	}
	return c, nil
}

func parseArgs(name string, args []string, minArgs int, usage string) (*flag.FlagSet, error) {
	fs := flag.NewFlagSet("todolist "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < minArgs {
		return nil, fmt.Errorf("usage: todolist %s %s", name, usage)
	}
	return fs, nil
}

// lsCommand lists collections and their tasks. Task numbers are positions
// in the collection, so they stay valid as addresses under a filter.
func lsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todolist ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	filter := fs.String("filter", cfg.DefaultFilter, "Show only all, unresolved or done tasks")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}
	mode, err := app.ParseFilterMode(*filter)
	if err != nil {
		return err
	}

	a, err := openApp(cfg)
	if err != nil {
		return err
	}

	collections := a.Collections()
	indexes := make([]int, len(collections))
	for i := range collections {
		indexes[i] = i
	}
	if fs.NArg() == 1 {
		c, err := resolveCollection(a, fs.Arg(0))
		if err != nil {
			return err
		}
		for i, other := range collections {
			if other == c {
				indexes = []int{i}
				break
			}
		}
	}

	if len(collections) == 0 {
		fmt.Fprintln(stdout, "No collections yet. Create one with 'todolist add-collection <title>'.")
		return nil
	}
	if banner := mode.Banner(); banner != "" {
		fmt.Fprintln(stdout, banner)
		fmt.Fprintln(stdout)
	}
	for _, i := range indexes {
		printCollection(i, collections[i], mode)
	}
	return nil
}

// printCollection prints one collection with the tasks passing mode.
func printCollection(i int, c *todo.Collection, mode app.FilterMode) {
	open, done := c.Counts()
	fmt.Fprintf(stdout, "%d. %s (%d open, %d done)\n", i+1, c.Title, open, done)
	shown := 0
	for j, t := range c.Tasks.All() {
		if !mode.Match(t) {
			continue
		}
		mark := " "
		if t.Checked {
			mark = "x"
		}
		fmt.Fprintf(stdout, "   %d. [%s] %s\n", j+1, mark, t.Name)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(stdout, "   (no tasks)")
	}
}

// addCollectionCommand creates a collection.
func addCollectionCommand(cfg *config.Config, args []string) error {
	fs, err := parseArgs("add-collection", args, 1, "<title>")
	if err != nil {
		return err
	}
	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	c, err := a.AddCollection(strings.Join(fs.Args(), " "))
	if err != nil {
		return err
	}
	if err := a.Save(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Collection Added: %s\n", c.Title)
	return nil
}

// rmCollectionCommand deletes a collection and its tasks.
func rmCollectionCommand(cfg *config.Config, args []string) error {
	fs, err := parseArgs("rm-collection", args, 1, "<collection>")
	if err != nil {
		return err
	}
	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	c, err := resolveCollection(a, strings.Join(fs.Args(), " "))
	if err != nil {
		return err
	}
	if err := a.RemoveCollection(c.ID()); err != nil {
		return err
	}
	if err := a.Save(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Collection Deleted: %s\n", c.Title)
	return nil
}

// renameCollectionCommand changes a collection's title.
func renameCollectionCommand(cfg *config.Config, args []string) error {
	fs, err := parseArgs("rename-collection", args, 2, "<collection> <title>")
	if err != nil {
		return err
	}
	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	c, err := resolveCollection(a, fs.Arg(0))
	if err != nil {
		return err
	}
	old := c.Title
	if err := a.RenameCollection(c.ID(), strings.Join(fs.Args()[1:], " ")); err != nil {
		return err
	}
	if err := a.Save(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Collection Renamed: %s -> %s\n", old, c.Title)
	return nil
}

// addTaskCommand appends a task to a collection.
func addTaskCommand(cfg *config.Config, args []string) error {
	fs, err := parseArgs("add", args, 2, "<collection> <name>")
	if err != nil {
		return err
	}
	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	if _, err := selectCollection(a, fs.Arg(0)); err != nil {
		return err
	}
	t, err := a.AddTask(strings.Join(fs.Args()[1:], " "))
	if err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("task name is empty")
	}
	return a.Save()
}

// checkCommand sets a task's checked flag.
func checkCommand(cfg *config.Config, args []string, checked bool) error {
	name := "uncheck"
	if checked {
		name = "check"
	}
	fs, err := parseArgs(name, args, 2, "<collection> <task>")
	if err != nil {
		return err
	}
	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	c, err := resolveCollection(a, fs.Arg(0))
	if err != nil {
		return err
	}
	t, err := resolveTask(c, fs.Arg(1))
	if err != nil {
		return err
	}
	if err := a.SetTaskChecked(t.ID(), checked); err != nil {
		return err
	}
	if err := a.Save(); err != nil {
		return err
	}
	mark := " "
	if checked {
		mark = "x"
	}
	fmt.Fprintf(stdout, "[%s] %s\n", mark, t.Name)
	return nil
}

// renameTaskCommand changes a task's name.
func renameTaskCommand(cfg *config.Config, args []string) error {
	fs, err := parseArgs("rename", args, 3, "<collection> <task> <name>")
	if err != nil {
		return err
	}
	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	c, err := resolveCollection(a, fs.Arg(0))
	if err != nil {
		return err
	}
	t, err := resolveTask(c, fs.Arg(1))
	if err != nil {
		return err
	}
	old := t.Name
	if err := a.RenameTask(t.ID(), strings.Join(fs.Args()[2:], " ")); err != nil {
		return err
	}
	if err := a.Save(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Task Renamed: %s -> %s\n", old, t.Name)
	return nil
}

// rmTaskCommand deletes a task.
func rmTaskCommand(cfg *config.Config, args []string) error {
	fs, err := parseArgs("rm", args, 2, "<collection> <task>")
	if err != nil {
		return err
	}
	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	c, err := selectCollection(a, fs.Arg(0))
	if err != nil {
		return err
	}
	t, err := resolveTask(c, fs.Arg(1))
	if err != nil {
		return err
	}
	if err := a.RemoveTask(t.ID()); err != nil {
		return err
	}
	return a.Save()
}

// cleanCommand removes the done tasks of a collection.
func cleanCommand(cfg *config.Config, args []string) error {
	fs, err := parseArgs("clean", args, 1, "<collection>")
	if err != nil {
		return err
	}
	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	if _, err := selectCollection(a, strings.Join(fs.Args(), " ")); err != nil {
		return err
	}
	if _, err := a.RemoveDoneTasks(); err != nil {
		return err
	}
	return a.Save()
}
