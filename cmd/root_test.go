// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/todolist/internal/app"
	"github.com/nibzard/todolist/internal/config"
	"github.com/nibzard/todolist/internal/todo"
	"github.com/nibzard/todolist/internal/ui"
)

// setupCLI isolates config and data locations in temp directories and
// captures output. It returns the data directory.
func setupCLI(t *testing.T) (root string, out, errOut *bytes.Buffer) {
	t.Helper()
	home := t.TempDir()
	root = filepath.Join(t.TempDir(), "data")
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	t.Setenv("TODOLIST_HOME", root)
	for _, key := range []string{
		"TODOLIST_DATA", "TODOLIST_SCHEMA", "TODOLIST_LOG_DIR", "TODOLIST_LOG_KEEP",
		"TODOLIST_LOG_LEVEL", "TODOLIST_LOG_FORMAT", "TODOLIST_LOG_TIMESTAMPS",
		"TODOLIST_LOG_CALLER", "TODOLIST_FILTER", "TODOLIST_TOAST_SCALE",
	} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())

	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	oldOut, oldErr := stdout, stderr
	stdout, stderr = out, errOut
	t.Cleanup(func() {
		stdout, stderr = oldOut, oldErr
	})
	return root, out, errOut
}

// run executes the CLI and returns what it printed to stdout.
func run(t *testing.T, out *bytes.Buffer, args ...string) (string, error) {
	t.Helper()
	out.Reset()
	err := Run(context.Background(), args)
	return out.String(), err
}

func mustRun(t *testing.T, out *bytes.Buffer, args ...string) string {
	t.Helper()
	got, err := run(t, out, args...)
	if err != nil {
		t.Fatalf("Run(%q) error = %v", args, err)
	}
	return got
}

func TestRun(t *testing.T) {
	_, out, _ := setupCLI(t)

	for _, args := range [][]string{{"--help"}, {"-h"}, {"help"}} {
		got, err := run(t, out, args...)
		if err != nil {
			t.Errorf("Run(%q) error = %v", args, err)
		}
		if !strings.Contains(got, "Usage:") {
			t.Errorf("Run(%q) output missing usage: %q", args, got)
		}
	}

	for _, args := range [][]string{{"--version"}, {"-v"}, {"version"}} {
		got, err := run(t, out, args...)
		if err != nil {
			t.Errorf("Run(%q) error = %v", args, err)
		}
		if got != "todolist version dev\n" {
			t.Errorf("Run(%q) = %q", args, got)
		}
	}

	_, err := run(t, out, "unknown-command")
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("expected unknown command error, got %v", err)
	}
}

func TestRunInvalidConfig(t *testing.T) {
	_, out, _ := setupCLI(t)
	t.Setenv("TODOLIST_FILTER", "someday")

	_, err := run(t, out, "ls")
	if err == nil || !strings.Contains(err.Error(), "loading config") {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestTaskCommands(t *testing.T) {
	root, out, _ := setupCLI(t)
	dataPath := filepath.Join(root, "collections.json")

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"add-collection", "Home"}, "Collection Added: Home\n"},
		{[]string{"add", "Home", "Buy", "milk"}, "Task Added: Buy milk\n"},
		{[]string{"add", "1", "Walk dog"}, "Task Added: Walk dog\n"},
		{[]string{"check", "home", "2"}, "[x] Walk dog\n"},
		{[]string{"ls"}, "1. Home (1 open, 1 done)\n   1. [ ] Buy milk\n   2. [x] Walk dog\n"},
		{[]string{"ls", "-filter", "done"}, "Filter: Displaying done tasks\n\n1. Home (1 open, 1 done)\n   2. [x] Walk dog\n"},
		{[]string{"ls", "-filter", "unresolved", "Home"}, "Filter: Displaying unresolved tasks\n\n1. Home (1 open, 1 done)\n   1. [ ] Buy milk\n"},
		{[]string{"uncheck", "Home", "2"}, "[ ] Walk dog\n"},
		{[]string{"check", "Home", "2"}, "[x] Walk dog\n"},
		{[]string{"rename", "Home", "1", "Buy", "oat", "milk"}, "Task Renamed: Buy milk -> Buy oat milk\n"},
		{[]string{"clean", "Home"}, "Removed all done tasks\n"},
		{[]string{"rename-collection", "Home", "House"}, "Collection Renamed: Home -> House\n"},
		{[]string{"ls", "House"}, "1. House (1 open, 0 done)\n   1. [ ] Buy oat milk\n"},
		{[]string{"rm", "House", "1"}, "Task Deleted: Buy oat milk\n"},
		{[]string{"ls"}, "1. House (0 open, 0 done)\n   (no tasks)\n"},
		{[]string{"rm-collection", "1"}, "Collection Deleted: House\n"},
		{[]string{"ls"}, "No collections yet. Create one with 'todolist add-collection <title>'.\n"},
	}
	for _, step := range steps {
		got := mustRun(t, out, step.args...)
		if got != step.want {
			t.Fatalf("Run(%q):\ngot  %q\nwant %q", step.args, got, step.want)
		}
	}

	data, err := os.ReadFile(dataPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "[]\n" {
		t.Errorf("data file = %q, want empty array", data)
	}
}

func TestTaskCommandsPersist(t *testing.T) {
	root, out, _ := setupCLI(t)
	mustRun(t, out, "add-collection", "Work")
	mustRun(t, out, "add", "Work", "Ship release")
	mustRun(t, out, "check", "Work", "1")

	data, err := os.ReadFile(filepath.Join(root, "collections.json"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	want := `[
  {
    "title": "Work",
    "tasks": [
      {
        "checked": true,
        "name": "Ship release"
      }
    ]
  }
]
`
	if string(data) != want {
		t.Errorf("data file:\ngot  %q\nwant %q", data, want)
	}
}

func TestTaskCommandErrors(t *testing.T) {
	_, out, _ := setupCLI(t)
	mustRun(t, out, "add-collection", "Home")

	tests := []struct {
		name    string
		args    []string
		wantErr string
		is      error
	}{
		{"missing args", []string{"add", "Home"}, "usage: todolist add", nil},
		{"unknown collection", []string{"add", "Garden", "Weed"}, "", app.ErrNotFound},
		{"collection index out of range", []string{"check", "2", "1"}, "", app.ErrNotFound},
		{"task index not a number", []string{"check", "Home", "first"}, "not a number", nil},
		{"task index out of range", []string{"rm", "Home", "1"}, "", app.ErrNotFound},
		{"empty collection title", []string{"add-collection", "  "}, "", app.ErrEmptyTitle},
		{"empty task name", []string{"add", "Home", " "}, "task name is empty", nil},
		{"bad filter", []string{"ls", "-filter", "later"}, "unknown filter mode", nil},
		{"too many ls args", []string{"ls", "Home", "extra"}, "unexpected arguments", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, out, tt.args...)
			if err == nil {
				t.Fatalf("Run(%q) expected error", tt.args)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error = %v, want %v", err, tt.is)
			}
			if tt.wantErr != "" && !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestCommandsKeepUnreadableFile(t *testing.T) {
	root, out, errOut := setupCLI(t)
	dataPath := filepath.Join(root, "collections.json")
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatal(err)
	}
	content := []byte(`[{"title": "Home"}]`)
	if err := os.WriteFile(dataPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	for _, args := range [][]string{{"ls"}, {"add-collection", "Work"}} {
		if _, err := run(t, out, args...); err == nil {
			t.Errorf("Run(%q) expected load error", args)
		}
	}

	data, err := os.ReadFile(dataPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, content) {
		t.Errorf("data file was rewritten: %q", data)
	}
	if !strings.Contains(errOut.String(), "failed to load collections") {
		t.Errorf("expected load error to be logged, got %q", errOut.String())
	}
}

func TestDoctorCommand(t *testing.T) {
	t.Run("missing data file", func(t *testing.T) {
		_, out, _ := setupCLI(t)
		got := mustRun(t, out, "doctor")
		if !strings.Contains(got, "Not found (will be created on first use)") {
			t.Errorf("output = %q", got)
		}
		if !strings.Contains(got, "All checks passed") {
			t.Errorf("output = %q", got)
		}
	})

	t.Run("valid data file", func(t *testing.T) {
		_, out, _ := setupCLI(t)
		mustRun(t, out, "add-collection", "Home")
		mustRun(t, out, "add", "Home", "Buy milk")
		got := mustRun(t, out, "doctor", "-v")
		for _, want := range []string{"✅ Valid", "1. Home (1 open, 0 done)", "Schema file: (bundled)"} {
			if !strings.Contains(got, want) {
				t.Errorf("output missing %q:\n%s", want, got)
			}
		}
	})

	t.Run("invalid data file", func(t *testing.T) {
		root, out, _ := setupCLI(t)
		if err := os.MkdirAll(root, 0755); err != nil {
			t.Fatal(err)
		}
		data := `[{"title": "Home", "tasks": [{"checked": "no", "name": "Buy milk"}]}]`
		if err := os.WriteFile(filepath.Join(root, "collections.json"), []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
		got, err := run(t, out, "doctor")
		if err == nil || err.Error() != "doctor checks failed" {
			t.Fatalf("error = %v, want doctor checks failed", err)
		}
		if !strings.Contains(got, "Validation failed") || !strings.Contains(got, "[0].tasks[0].checked") {
			t.Errorf("output = %q", got)
		}
	})

	t.Run("missing external schema falls back", func(t *testing.T) {
		_, out, _ := setupCLI(t)
		mustRun(t, out, "add-collection", "Home")
		got := mustRun(t, out, "-schema", "missing.schema.json", "doctor")
		if !strings.Contains(got, "using bundled schema") {
			t.Errorf("output = %q", got)
		}
	})
}

func TestInitCommand(t *testing.T) {
	root, out, _ := setupCLI(t)
	home := os.Getenv("HOME")

	got := mustRun(t, out, "init")
	if strings.Contains(got, "exists") {
		t.Errorf("first init reported existing files: %q", got)
	}

	data, err := os.ReadFile(filepath.Join(root, "collections.json"))
	if err != nil {
		t.Fatalf("data file: %v", err)
	}
	if string(data) != "[]\n" {
		t.Errorf("data file = %q", data)
	}

	schema, err := os.ReadFile(filepath.Join(root, "collections.schema.json"))
	if err != nil {
		t.Fatalf("schema file: %v", err)
	}
	if !bytes.Equal(schema, todo.BundledSchema()) {
		t.Error("schema file differs from the bundled schema")
	}

	configPath := filepath.Join(home, ".todolist", "todolist.toml")
	cfgData, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("config file: %v", err)
	}
	if string(cfgData) != config.ExampleConfig() {
		t.Error("config file differs from the example config")
	}

	// Existing files are kept, and the data survives.
	mustRun(t, out, "add-collection", "Home")
	got = mustRun(t, out, "init")
	if strings.Count(got, "(exists, kept)") != 2 {
		t.Errorf("second init output = %q", got)
	}
	if got := mustRun(t, out, "ls"); !strings.Contains(got, "1. Home") {
		t.Errorf("collections lost after init: %q", got)
	}
}

func TestInitKeepsConfiguredSchema(t *testing.T) {
	root, out, _ := setupCLI(t)

	schemaPath := filepath.Join(t.TempDir(), "my.schema.json")
	custom := []byte(`{"type":"array"}` + "\n")
	if err := os.WriteFile(schemaPath, custom, 0644); err != nil {
		t.Fatal(err)
	}

	got := mustRun(t, out, "-schema", schemaPath, "init", "--force")
	if !strings.Contains(got, schemaPath+" (configured, kept)") {
		t.Errorf("init output = %q", got)
	}
	data, err := os.ReadFile(schemaPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, custom) {
		t.Errorf("configured schema rewritten: %q", data)
	}
	if _, err := os.Stat(filepath.Join(root, "collections.schema.json")); !os.IsNotExist(err) {
		t.Errorf("bundled schema copy written next to a configured one: %v", err)
	}
}

func TestTailCommand(t *testing.T) {
	root, out, _ := setupCLI(t)

	got := mustRun(t, out, "tail")
	if got != "No log files found.\n" {
		t.Errorf("tail without logs = %q", got)
	}

	logDir := filepath.Join(root, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		t.Fatal(err)
	}
	logPath := filepath.Join(logDir, "20260101-120000-42.log")
	if err := os.WriteFile(logPath, []byte("one\ntwo\nthree\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got = mustRun(t, out, "tail", "-n", "2")
	if want := "Tailing: " + logPath + "\n\ntwo\nthree\n"; got != want {
		t.Errorf("tail -n 2:\ngot  %q\nwant %q", got, want)
	}

	got = mustRun(t, out, "tail", "-list")
	if !strings.HasPrefix(got, "20260101-120000-42  ") || !strings.Contains(got, logPath) {
		t.Errorf("tail -list = %q", got)
	}
}

func TestConfigCommand(t *testing.T) {
	root, out, _ := setupCLI(t)
	t.Setenv("TODOLIST_FILTER", "done")

	got := mustRun(t, out, "config", "data_file")
	if got != filepath.Join(root, "collections.json")+"\n" {
		t.Errorf("config data_file = %q", got)
	}

	got = mustRun(t, out, "-toast-scale", "2", "config")
	for _, want := range []string{
		`"done"`, "(environment)",
		`"2"`, "(flag)",
		"(default)",
		"Data directory: " + root,
		"Config file:    none",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("config output missing %q:\n%s", want, got)
		}
	}

	if _, err := run(t, out, "config", "colour"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestAboutCommand(t *testing.T) {
	_, out, _ := setupCLI(t)
	got := mustRun(t, out, "about")
	if got != "To-Do List dev\nDevelopers: :)\n" {
		t.Errorf("about = %q", got)
	}
}

func TestTUIRequiresTTY(t *testing.T) {
	if ui.IsTTY(os.Stdout) {
		t.Skip("stdout is a terminal")
	}
	_, out, _ := setupCLI(t)
	_, err := run(t, out)
	if err == nil || !strings.Contains(err.Error(), "TTY") {
		t.Errorf("expected TTY error, got %v", err)
	}
}

func TestResolveCollection(t *testing.T) {
	a := app.New(filepath.Join(t.TempDir(), "c.json"))
	home, _ := a.AddCollection("Home")
	work, _ := a.AddCollection("Work")
	numbered, _ := a.AddCollection("2024")
	agent, _ := a.AddCollection("007")

	tests := []struct {
		ref  string
		want *todo.Collection
	}{
		{"1", home},
		{"2", work},
		{"Work", work},
		{"work", work},
		{"3", numbered},
		{"2024", numbered},
		{"007", agent},
	}
	for _, tt := range tests {
		got, err := resolveCollection(a, tt.ref)
		if err != nil {
			t.Errorf("resolveCollection(%q) error = %v", tt.ref, err)
			continue
		}
		if got != tt.want {
			t.Errorf("resolveCollection(%q) = %q, want %q", tt.ref, got.Title, tt.want.Title)
		}
	}

	for _, ref := range []string{"0", "5", "-1", "Garden"} {
		if _, err := resolveCollection(a, ref); !errors.Is(err, app.ErrNotFound) {
			t.Errorf("resolveCollection(%q) error = %v, want ErrNotFound", ref, err)
		}
	}
}
