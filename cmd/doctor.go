package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/todolist/internal/config"
	"github.com/nibzard/todolist/internal/datadir"
	"github.com/nibzard/todolist/internal/logging"
	"github.com/nibzard/todolist/internal/todo"
)

// doctorCommand checks config, the data file and the schema.
func doctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todolist doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	fmt.Fprintln(stdout, "To-Do List Doctor")
	fmt.Fprintln(stdout, "=================")
	fmt.Fprintln(stdout)

	allOK := true

	fmt.Fprintln(stdout, "Config:")
	if _, err := cfg.LoggingOptions(); err != nil {
		fmt.Fprintf(stdout, "  ❌ Logging: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintf(stdout, "  ✅ Logging: %s (%s)\n", cfg.LogLevel, cfg.LogFormat)
	}
	fmt.Fprintf(stdout, "  ✅ Default filter: %s\n", cfg.DefaultFilter)
	fmt.Fprintln(stdout)

	// Check data file
	fmt.Fprintf(stdout, "Data file: %s\n", cfg.DataFile)
	info, err := os.Stat(cfg.DataFile)
	switch {
	case os.IsNotExist(err):
		fmt.Fprintln(stdout, "  ⚠️  Not found (will be created on first use)")
	case err != nil:
		fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
		allOK = false
	case info.IsDir():
		fmt.Fprintln(stdout, "  ❌ Error: path is a directory")
		allOK = false
	default:
		fmt.Fprintln(stdout, "  ✅ OK")
		if !checkDataFile(cfg, *verbose) {
			allOK = false
		}
	}
	fmt.Fprintln(stdout)

	// Check schema file
	if cfg.SchemaFile == "" {
		fmt.Fprintln(stdout, "Schema file: (bundled)")
		fmt.Fprintln(stdout, "  ✅ OK")
	} else {
		fmt.Fprintf(stdout, "Schema file: %s\n", cfg.SchemaFile)
		if !checkPath(cfg.SchemaFile, false, "falling back to the bundled schema") {
			allOK = false
		}
	}
	fmt.Fprintln(stdout)

	// Check log directory
	fmt.Fprintf(stdout, "Log directory: %s\n", cfg.LogDir)
	if !checkPath(cfg.LogDir, true, "will be created on first interactive session") {
		allOK = false
	}
	fmt.Fprintln(stdout)

	if allOK {
		fmt.Fprintln(stdout, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(stdout, "⚠️  Some checks failed. To-Do List may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

// checkDataFile validates the data file and reports what it found.
func checkDataFile(cfg *config.Config, verbose bool) bool {
	data, err := os.ReadFile(cfg.DataFile)
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ Read error: %v\n", err)
		return false
	}

	result := todo.Validate(data, todo.ValidationOptions{SchemaPath: cfg.SchemaFile})
	for _, w := range result.Warnings {
		fmt.Fprintf(stdout, "  ⚠️  %s\n", w)
	}
	if !result.Valid {
		fmt.Fprintln(stdout, "  ❌ Validation failed:")
		for _, e := range result.Errors {
			fmt.Fprintf(stdout, "     - %v\n", e)
		}
		return false
	}
	fmt.Fprintln(stdout, "  ✅ Valid")

	if verbose {
		a, err := openApp(cfg)
		if err != nil {
			fmt.Fprintf(stdout, "  ❌ Load error: %v\n", err)
			return false
		}
		for i, c := range a.Collections() {
			open, done := c.Counts()
			fmt.Fprintf(stdout, "    %d. %s (%d open, %d done)\n", i+1, c.Title, open, done)
		}
	}
	return true
}

// checkPath reports whether path exists with the expected kind. A missing
// path is a warning with the given note.
func checkPath(path string, wantDir bool, missing string) bool {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(stdout, "  ⚠️  Not found (%s)\n", missing)
			return true
		}
		fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
		return false
	}
	if info.IsDir() != wantDir {
		if wantDir {
			fmt.Fprintln(stdout, "  ❌ Error: path is not a directory")
		} else {
			fmt.Fprintln(stdout, "  ❌ Error: path is a directory")
		}
		return false
	}
	fmt.Fprintln(stdout, "  ✅ OK")
	return true
}

// initCommand creates the data file, the schema and a user config file,
// leaving existing files alone.
func initCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todolist init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	force := fs.Bool("force", false, "Overwrite the bundled schema copy and the config file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	if err := a.Save(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Data file:   %s\n", cfg.DataFile)

	// A configured schema file belongs to the user and is never written.
	if cfg.SchemaFile != "" {
		fmt.Fprintf(stdout, "%-12s %s (configured, kept)\n", "Schema:", cfg.SchemaFile)
	} else {
		schemaPath := datadir.SchemaPath(cfg.Root)
		wrote, err := writeIfMissing(schemaPath, todo.BundledSchema(), *force)
		if err != nil {
			return fmt.Errorf("writing schema: %w", err)
		}
		printInitResult("Schema:", schemaPath, wrote)
	}

	configPath := config.UserConfigPath()
	wrote, err := writeIfMissing(configPath, []byte(config.ExampleConfig()), *force)
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	printInitResult("Config:", configPath, wrote)
	return nil
}

func printInitResult(label, path string, wrote bool) {
	if wrote {
		fmt.Fprintf(stdout, "%-12s %s\n", label, path)
		return
	}
	fmt.Fprintf(stdout, "%-12s %s (exists, kept)\n", label, path)
}

// writeIfMissing writes data to path unless the file exists and force is
// false. It reports whether it wrote.
func writeIfMissing(path string, data []byte, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		} else if !os.IsNotExist(err) {
			return false, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, err
	}
	return true, nil
}

// tailCommand shows the latest session log.
func tailCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todolist tail", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	list := fs.Bool("list", false, "List session logs instead of tailing")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *list {
		sessions, err := logging.FindSessions(cfg.LogDir)
		if err != nil {
			return fmt.Errorf("listing sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Fprintln(stdout, "No log files found.")
			return nil
		}
		for _, s := range sessions {
			fmt.Fprintf(stdout, "%s  %s  %8d  %s\n", s.ID, s.ModTime.Format("2006-01-02 15:04:05"), s.Size, s.Path)
		}
		return nil
	}

	logPath, err := logging.FindLatestLog(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(stdout, "No log files found.")
		return nil
	}

	fmt.Fprintf(stdout, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(stdout, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(stdout)

	return logging.TailLog(ctx, stdout, logPath, *n, *follow)
}
