package ui

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/todolist/internal/app"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) (*tuiModel, *app.App) {
	t.Helper()
	a := app.New(filepath.Join(t.TempDir(), "collections.json"))
	return newTUIModel(a), a
}

func press(m *tuiModel, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

func typeText(m *tuiModel, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestNewCollectionWizard(t *testing.T) {
	m, a := newTestModel(t)

	press(m, "n")
	if m.inputMode != inputCollection {
		t.Fatalf("inputMode: got %v, want collection wizard", m.inputMode)
	}

	// Empty and blank titles are refused.
	press(m, "enter")
	typeText(m, "   ")
	press(m, "enter")
	if len(a.Collections()) != 0 || m.inputMode != inputCollection {
		t.Fatalf("blank title accepted: %d collections, mode %v", len(a.Collections()), m.inputMode)
	}
	if !m.inputEmpty || !strings.Contains(m.View(), "Title must not be empty") {
		t.Error("blank title not flagged in the view")
	}

	typeText(m, "Home")
	if m.inputEmpty {
		t.Error("non-blank title still flagged")
	}
	press(m, "enter")

	if m.inputMode != inputNone {
		t.Error("wizard still open after submit")
	}
	c := a.SelectedCollection()
	if c == nil || c.Title != "Home" {
		t.Fatalf("selected collection: got %v", c)
	}
	if m.focus != paneTasks {
		t.Error("focus did not move to tasks")
	}
}

func TestWizardCancel(t *testing.T) {
	m, a := newTestModel(t)
	press(m, "n")
	typeText(m, "Work")
	press(m, "esc")
	if m.inputMode != inputNone || len(a.Collections()) != 0 {
		t.Errorf("esc did not cancel: mode %v, %d collections", m.inputMode, len(a.Collections()))
	}
}

func TestAddTasksAndToast(t *testing.T) {
	m, a := newTestModel(t)

	cmd := press(m, "a")
	if m.inputMode != inputNone {
		t.Fatal("task entry opened without a selection")
	}
	if cmd == nil || !m.toastErr {
		t.Error("expected an error toast with a clear command")
	}

	a.AddCollection("Home")
	press(m, "a")
	if m.inputMode != inputTask {
		t.Fatalf("inputMode: got %v, want task entry", m.inputMode)
	}
	typeText(m, "Buy milk")
	cmd = press(m, "enter")
	typeText(m, "Walk dog")
	press(m, "enter")

	// Blank entries are ignored.
	typeText(m, "  ")
	press(m, "enter")

	if m.inputMode != inputTask {
		t.Error("task entry closed after submit")
	}
	tasks := a.VisibleTasks()
	if len(tasks) != 2 || tasks[0].Name != "Buy milk" || tasks[1].Name != "Walk dog" {
		t.Fatalf("tasks: got %v", tasks)
	}
	if m.toast != "Task Added: Walk dog" {
		t.Errorf("toast: got %q", m.toast)
	}
	if cmd == nil {
		t.Error("no toast timeout command returned")
	}

	// The timeout of an older toast does not clear a newer one.
	m.Update(clearToastMsg{seq: m.toastSeq - 1})
	if m.toast == "" {
		t.Error("stale clear message removed the current toast")
	}
	m.Update(clearToastMsg{seq: m.toastSeq})
	if m.toast != "" {
		t.Errorf("toast not cleared: %q", m.toast)
	}
}

func TestToggleDeleteAndClean(t *testing.T) {
	m, a := newTestModel(t)
	home, _ := a.AddCollection("Home")
	for _, name := range []string{"a", "b", "c"} {
		a.AddTask(name)
	}
	m.focus = paneTasks

	press(m, "down", "x")
	if !home.Tasks.At(1).Checked {
		t.Fatal("task b not toggled")
	}
	if !strings.Contains(m.View(), "[x]") {
		t.Error("checked task not rendered as [x]")
	}

	press(m, "c")
	if home.Tasks.Len() != 2 || m.toast != "Removed all done tasks" {
		t.Fatalf("clean: %d tasks, toast %q", home.Tasks.Len(), m.toast)
	}

	press(m, "up", "d")
	if home.Tasks.Len() != 1 || home.Tasks.At(0).Name != "c" {
		t.Fatalf("delete: remaining %v", home.Tasks.Values())
	}
	if m.toast != "Task Deleted: a" {
		t.Errorf("toast: got %q", m.toast)
	}
}

func TestFilterKeys(t *testing.T) {
	m, a := newTestModel(t)
	a.AddCollection("Home")
	a.AddTask("open")
	done, _ := a.AddTask("done")
	a.SetTaskChecked(done.ID(), true)

	tests := []struct {
		key    string
		want   app.FilterMode
		banner string
	}{
		{"f", app.FilterUnresolved, "Displaying unresolved tasks"},
		{"f", app.FilterDone, "Displaying done tasks"},
		{"0", app.FilterAll, ""},
		{"3", app.FilterDone, "Displaying done tasks"},
		{"2", app.FilterUnresolved, "Displaying unresolved tasks"},
		{"1", app.FilterAll, ""},
	}
	for _, tt := range tests {
		press(m, tt.key)
		if a.FilterMode() != tt.want {
			t.Fatalf("after %q: mode %v, want %v", tt.key, a.FilterMode(), tt.want)
		}
		view := m.View()
		if tt.banner != "" && !strings.Contains(view, tt.banner) {
			t.Errorf("after %q: banner %q missing", tt.key, tt.banner)
		}
		if tt.banner == "" && strings.Contains(view, "Filter: Displaying") {
			t.Errorf("after %q: banner shown for all", tt.key)
		}
	}
}

func TestCollectionNavigation(t *testing.T) {
	m, a := newTestModel(t)
	home, _ := a.AddCollection("Home")
	a.AddCollection("Work")
	a.ClearSelection()
	m.focus = paneCollections

	press(m, "up", "up", "enter")
	if a.SelectedCollection() != home {
		t.Fatalf("selected: got %v, want Home", a.SelectedCollection())
	}
	if m.focus != paneTasks {
		t.Error("enter did not focus tasks")
	}

	press(m, "tab", "down", "d")
	if len(a.Collections()) != 1 || a.Collections()[0] != home {
		t.Fatalf("collections after delete: %v", a.Collections())
	}
	if m.collCursor != 0 {
		t.Errorf("cursor not clamped: %d", m.collCursor)
	}
}

func TestRenameTask(t *testing.T) {
	m, a := newTestModel(t)
	a.AddCollection("Home")
	task, _ := a.AddTask("Buy milk")
	m.focus = paneTasks

	press(m, "r")
	if m.inputMode != inputRename || m.input.Value() != "Buy milk" {
		t.Fatalf("rename entry: mode %v value %q", m.inputMode, m.input.Value())
	}
	typeText(m, " now")
	press(m, "enter")
	if task.Name != "Buy milk now" {
		t.Errorf("name: got %q", task.Name)
	}
}

func TestOverlays(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, "?")
	if m.overlay != overlayHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("help overlay not shown")
	}
	// Keys other than close keys are ignored while an overlay is up.
	press(m, "n")
	if m.inputMode != inputNone {
		t.Error("key leaked through the help overlay")
	}
	press(m, "esc")

	press(m, "A")
	view := m.View()
	if m.overlay != overlayAbout || !strings.Contains(view, "To-Do List") || !strings.Contains(view, app.DefaultVersion) {
		t.Fatalf("about overlay not shown: %q", view)
	}
	press(m, "esc")
	if m.overlay != overlayNone {
		t.Error("overlay not closed")
	}
}

func TestSaveKey(t *testing.T) {
	m, a := newTestModel(t)
	a.AddCollection("Home")
	press(m, "ctrl+s")
	if m.toast != "Saved" {
		t.Fatalf("toast: got %q", m.toast)
	}

	b := app.New(a.Path())
	if err := b.Load(); err != nil {
		t.Fatal(err)
	}
	if len(b.Collections()) != 1 {
		t.Errorf("saved collections: got %d, want 1", len(b.Collections()))
	}
}

func TestQuit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		m, _ := newTestModel(t)
		cmd := press(m, k)
		if cmd == nil {
			t.Fatalf("%s: no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: command did not quit", k)
		}
	}
}

func TestQuitKeyTypedInEntry(t *testing.T) {
	m, a := newTestModel(t)
	a.AddCollection("Home")
	press(m, "a")
	typeText(m, "q")
	if m.input.Value() != "q" {
		t.Errorf("entry value: got %q, want q", m.input.Value())
	}
}

func TestWindowSize(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.width != 120 || m.height != 40 {
		t.Errorf("size: got %dx%d", m.width, m.height)
	}
}

func TestEmptyView(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()
	if !strings.Contains(view, "No collections yet") || !strings.Contains(view, "No collection selected") {
		t.Errorf("empty state missing: %q", view)
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("buffer reported as TTY")
	}
}
