// Package cmd implements the CLI command structure for todolist.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todolist/internal/app"
	"github.com/nibzard/todolist/internal/config"
	"github.com/nibzard/todolist/internal/datadir"
	"github.com/nibzard/todolist/internal/logging"
	"github.com/nibzard/todolist/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the todolist CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet(datadir.AppName, flag.ContinueOnError)
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
	cfg := cws.Config
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand
	// If no args or first arg is a flag, use "tui" as default
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		if !strings.HasPrefix(remainingArgs[0], "-") {
			subcommand = remainingArgs[0]
			remainingArgs = remainingArgs[1:]
		}
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "ls":
		return lsCommand(cfg, remainingArgs)
	case "add-collection":
		return addCollectionCommand(cfg, remainingArgs)
	case "rm-collection":
		return rmCollectionCommand(cfg, remainingArgs)
	case "rename-collection":
		return renameCollectionCommand(cfg, remainingArgs)
	case "add":
		return addTaskCommand(cfg, remainingArgs)
	case "check":
		return checkCommand(cfg, remainingArgs, true)
	case "uncheck":
		return checkCommand(cfg, remainingArgs, false)
	case "rename":
		return renameTaskCommand(cfg, remainingArgs)
	case "rm":
		return rmTaskCommand(cfg, remainingArgs)
	case "clean":
		return cleanCommand(cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, remainingArgs)
	case "init":
		return initCommand(cfg, remainingArgs)
	case "tail":
		return tailCommand(ctx, cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "about":
		return aboutCommand(cfg)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// newLogger builds the configured logger writing to w.
func newLogger(cfg *config.Config, w io.Writer) (*log.Logger, error) {
	opts, err := cfg.LoggingOptions()
	if err != nil {
		return nil, err
	}
	return logging.New(w, opts), nil
}

// newApp builds the application context for cfg.
func newApp(cfg *config.Config, logger *log.Logger) (*app.App, error) {
	mode, err := app.ParseFilterMode(cfg.DefaultFilter)
	if err != nil {
		return nil, err
	}
	return app.New(cfg.DataFile,
		app.WithLogger(logger),
		app.WithFilterMode(mode),
		app.WithNoticeScale(cfg.ToastScale),
		app.WithVersion(Version),
	), nil
}

// tuiCommand launches the interactive interface.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todolist tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	noSave := fs.Bool("no-save", false, "Do not save when the interface exits")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY; use a subcommand such as 'ls' instead")
	}

	// The alternate screen hides stderr, so the session logs to a file.
	session, err := logging.NewSessionLog(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("opening session log: %w", err)
	}
	defer session.Close()

	logger, err := newLogger(cfg, session.Writer())
	if err != nil {
		return err
	}
	if removed, err := logging.Prune(cfg.LogDir, cfg.LogKeep); err != nil {
		logger.Warn("failed to prune session logs", "dir", cfg.LogDir, "err", err)
	} else if removed > 0 {
		logger.Debug("pruned session logs", "removed", removed)
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("session started", "data", cfg.DataFile, "version", Version)

	saveOnExit := !*noSave
	if err := a.Load(); err != nil {
		// Keep the unreadable file for the user to repair.
		logger.Warn("save on exit disabled after load failure")
		saveOnExit = false
	}

	err = ui.RunTUI(ctx, a, ui.WithSaveOnExit(saveOnExit))
	logger.Info("session ended", "err", err)
	return err
}

// aboutCommand prints the about information.
func aboutCommand(cfg *config.Config) error {
	a, err := newApp(cfg, nil)
	if err != nil {
		return err
	}
	info := a.About()
	fmt.Fprintf(stdout, "%s %s\n", info.Name, info.Version)
	fmt.Fprintf(stdout, "Developers: %s\n", strings.Join(info.Developers, ", "))
	return nil
}

// configCommand prints the effective configuration and where each value came
// from.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("todolist config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := cws.Config
	keys := config.Fields()
	if fs.NArg() > 0 {
		keys = fs.Args()
	}

	var errs []error
	for _, key := range keys {
		value, err := cfg.Value(key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if fs.NArg() == 1 {
			fmt.Fprintln(stdout, value)
			continue
		}
		fmt.Fprintf(stdout, "%-15s = %-40q (%s)\n", key, value, cws.Sources[key])
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stdout)
		fmt.Fprintf(stdout, "Data directory: %s\n", cfg.Root)
		if file := cws.GetConfigFile(); file != "" {
			fmt.Fprintf(stdout, "Config file:    %s\n", file)
		} else {
			fmt.Fprintf(stdout, "Config file:    none (create %s with 'todolist init')\n", config.UserConfigPath())
		}
	}
	return errors.Join(errs...)
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "todolist version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todolist - Organize tasks into collections")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todolist [options] [command] [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                              Launch terminal UI (default command)")
	fmt.Fprintln(w, "  ls [collection]                  List collections and their tasks")
	fmt.Fprintln(w, "  add-collection <title>           Create a collection")
	fmt.Fprintln(w, "  rm-collection <collection>       Delete a collection")
	fmt.Fprintln(w, "  rename-collection <collection> <title>")
	fmt.Fprintln(w, "                                   Rename a collection")
	fmt.Fprintln(w, "  add <collection> <name>          Add a task")
	fmt.Fprintln(w, "  check <collection> <task>        Mark a task done")
	fmt.Fprintln(w, "  uncheck <collection> <task>      Mark a task not done")
	fmt.Fprintln(w, "  rename <collection> <task> <name>")
	fmt.Fprintln(w, "                                   Rename a task")
	fmt.Fprintln(w, "  rm <collection> <task>           Delete a task")
	fmt.Fprintln(w, "  clean <collection>               Remove all done tasks")
	fmt.Fprintln(w, "  doctor                           Check config, data file and schema")
	fmt.Fprintln(w, "  init                             Create the data file, schema and config")
	fmt.Fprintln(w, "  tail                             Show the latest session log")
	fmt.Fprintln(w, "  config [key...]                  Show the effective configuration")
	fmt.Fprintln(w, "  about                            Show application information")
	fmt.Fprintln(w, "  version                          Show version information")
	fmt.Fprintln(w, "  help                             Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Collections are addressed by 1-based index or title, tasks by 1-based index.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -filter string")
	fmt.Fprintln(w, "        Show only all, unresolved or done tasks")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options (use with 'tail' command):")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
	fmt.Fprintln(w, "  -list")
	fmt.Fprintln(w, "        List session logs instead of tailing")
}
