// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/nibzard/todolist/internal/app"
	"github.com/nibzard/todolist/internal/todo"
)

// Option configures the TUI behavior.
type Option func(*tuiConfig)

type tuiConfig struct {
	saveOnExit bool
}

// WithSaveOnExit controls whether the data file is written when the
// interface exits. It is on by default.
func WithSaveOnExit(enabled bool) Option {
	return func(c *tuiConfig) {
		c.saveOnExit = enabled
	}
}

// RunTUI runs the interactive interface on a until the user quits or ctx is
// done, then saves.
func RunTUI(ctx context.Context, a *app.App, opts ...Option) error {
	c := &tuiConfig{saveOnExit: true}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(a)
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		model.width, model.height = w, h
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := program.Run()
	if errors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil {
		runErr = nil
	}

	if c.saveOnExit {
		if err := a.Save(); err != nil {
			return errors.Join(runErr, fmt.Errorf("save on exit: %w", err))
		}
	}
	return runErr
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

type pane int

const (
	paneCollections pane = iota
	paneTasks
)

type inputMode int

const (
	inputNone inputMode = iota
	inputTask
	inputCollection
	inputRename
)

type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlayAbout
)

type clearToastMsg struct {
	seq int
}

type tuiModel struct {
	app    *app.App
	logger *log.Logger

	focus      pane
	collCursor int
	taskCursor int

	input      textinput.Model
	inputMode  inputMode
	inputEmpty bool

	overlay overlay

	toast      string
	toastErr   bool
	toastSeq   int
	pendingCmd tea.Cmd

	width  int
	height int
}

func newTUIModel(a *app.App) *tuiModel {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 40

	m := &tuiModel{
		app:    a,
		logger: a.Logger(),
		input:  ti,
		width:  80,
		height: 24,
	}

	a.OnNotice(func(n app.Notice) {
		m.showToast(n.Text, n.Timeout, false)
	})
	a.OnSelectionChange(func(c *todo.Collection) {
		m.taskCursor = 0
		if c == nil {
			m.focus = paneCollections
			m.clampCursors()
			return
		}
		for i, other := range a.Collections() {
			if other == c {
				m.collCursor = i
			}
		}
	})
	a.OnFilterChange(func(app.FilterMode) {
		m.clampCursors()
	})
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(10, m.width/2)
		return m, nil
	case clearToastMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
			m.toastErr = false
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		switch {
		case m.inputMode != inputNone:
			cmd = m.updateInput(msg)
		case m.overlay != overlayNone:
			m.updateOverlay(msg)
		default:
			cmd = m.updateBrowse(msg)
		}
		return m, tea.Batch(cmd, m.takePending())
	}
	return m, nil
}

func (m *tuiModel) updateOverlay(msg tea.KeyMsg) {
	switch msg.String() {
	case "esc", "q", "?", "A", "enter":
		m.overlay = overlayNone
	}
}

func (m *tuiModel) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "?":
		m.overlay = overlayHelp
	case "A":
		m.overlay = overlayAbout
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "tab":
		m.toggleFocus()
	case "left", "h":
		m.focus = paneCollections
	case "right", "l":
		if m.app.SelectedCollection() != nil {
			m.focus = paneTasks
		}
	case "enter":
		if m.focus == paneCollections {
			m.selectUnderCursor()
		}
	case "n":
		return m.openInput(inputCollection, "New collection title", "")
	case "a":
		if m.app.SelectedCollection() == nil {
			m.showToast("Select a collection first", 2*time.Second, true)
			return nil
		}
		m.focus = paneTasks
		return m.openInput(inputTask, "New task", "")
	case "r":
		return m.startRename()
	case " ", "x":
		m.toggleUnderCursor()
	case "d", "delete":
		m.deleteUnderCursor()
	case "c":
		if _, err := m.app.RemoveDoneTasks(); err != nil {
			m.showError(err)
		}
		m.clampCursors()
	case "f":
		m.app.SetFilterMode(m.app.FilterMode().Next())
	case "1":
		m.app.SetFilterMode(app.FilterAll)
	case "2":
		m.app.SetFilterMode(app.FilterUnresolved)
	case "3":
		m.app.SetFilterMode(app.FilterDone)
	case "0":
		if m.app.FilterMode() != app.FilterAll {
			m.app.SetFilterMode(app.FilterAll)
		}
	case "ctrl+s":
		if err := m.app.Save(); err != nil {
			m.showError(err)
		} else {
			m.showToast("Saved", time.Second, false)
		}
	}
	return nil
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.closeInput()
		return nil
	case "enter":
		m.submitInput()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.inputEmpty = strings.TrimSpace(m.input.Value()) == ""
	return cmd
}

func (m *tuiModel) openInput(mode inputMode, placeholder, value string) tea.Cmd {
	m.inputMode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.inputEmpty = strings.TrimSpace(value) == ""
	return m.input.Focus()
}

func (m *tuiModel) closeInput() {
	m.inputMode = inputNone
	m.input.Blur()
	m.input.SetValue("")
}

func (m *tuiModel) submitInput() {
	value := m.input.Value()
	switch m.inputMode {
	case inputCollection:
		if strings.TrimSpace(value) == "" {
			m.inputEmpty = true
			return
		}
		if _, err := m.app.AddCollection(value); err != nil {
			m.showError(err)
			return
		}
		m.focus = paneTasks
		m.closeInput()
	case inputTask:
		// The entry stays open for the next task.
		if _, err := m.app.AddTask(value); err != nil {
			m.showError(err)
			m.closeInput()
			return
		}
		m.input.SetValue("")
		m.inputEmpty = true
		m.clampCursors()
	case inputRename:
		if strings.TrimSpace(value) == "" {
			m.inputEmpty = true
			return
		}
		var err error
		if m.focus == paneTasks {
			if t := m.taskUnderCursor(); t != nil {
				err = m.app.RenameTask(t.ID(), value)
			}
		} else if c := m.collectionUnderCursor(); c != nil {
			err = m.app.RenameCollection(c.ID(), value)
		}
		if err != nil {
			m.showError(err)
		}
		m.closeInput()
	}
}

func (m *tuiModel) startRename() tea.Cmd {
	if m.focus == paneTasks {
		if t := m.taskUnderCursor(); t != nil {
			return m.openInput(inputRename, "Task name", t.Name)
		}
		return nil
	}
	if c := m.collectionUnderCursor(); c != nil {
		return m.openInput(inputRename, "Collection title", c.Title)
	}
	return nil
}

func (m *tuiModel) toggleFocus() {
	if m.focus == paneTasks {
		m.focus = paneCollections
		return
	}
	if m.app.SelectedCollection() != nil {
		m.focus = paneTasks
	}
}

func (m *tuiModel) moveCursor(delta int) {
	if m.focus == paneTasks {
		m.taskCursor += delta
	} else {
		m.collCursor += delta
	}
	m.clampCursors()
}

func (m *tuiModel) clampCursors() {
	m.collCursor = clamp(m.collCursor, len(m.app.Collections()))
	m.taskCursor = clamp(m.taskCursor, len(m.app.VisibleTasks()))
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (m *tuiModel) collectionUnderCursor() *todo.Collection {
	c, err := m.app.CollectionAt(m.collCursor)
	if err != nil {
		return nil
	}
	return c
}

func (m *tuiModel) taskUnderCursor() *todo.Task {
	tasks := m.app.VisibleTasks()
	if m.taskCursor < 0 || m.taskCursor >= len(tasks) {
		return nil
	}
	return tasks[m.taskCursor]
}

func (m *tuiModel) selectUnderCursor() {
	c := m.collectionUnderCursor()
	if c == nil {
		return
	}
	if err := m.app.SelectCollection(c.ID()); err != nil {
		m.showError(err)
		return
	}
	m.focus = paneTasks
}

func (m *tuiModel) toggleUnderCursor() {
	if m.focus != paneTasks {
		return
	}
	t := m.taskUnderCursor()
	if t == nil {
		return
	}
	if _, err := m.app.ToggleTask(t.ID()); err != nil {
		m.showError(err)
	}
	m.clampCursors()
}

func (m *tuiModel) deleteUnderCursor() {
	if m.focus == paneTasks {
		if t := m.taskUnderCursor(); t != nil {
			if err := m.app.RemoveTask(t.ID()); err != nil {
				m.showError(err)
			}
		}
		m.clampCursors()
		return
	}
	c := m.collectionUnderCursor()
	if c == nil {
		return
	}
	if err := m.app.RemoveCollection(c.ID()); err != nil {
		m.showError(err)
		return
	}
	m.showToast("Collection Deleted: "+c.Title, 2*time.Second, false)
	m.clampCursors()
}

func (m *tuiModel) showError(err error) {
	m.logger.Warn("action failed", "err", err)
	m.showToast(err.Error(), 3*time.Second, true)
}

// showToast displays text and schedules its removal after timeout. A newer
// toast cancels the removal of an older one.
func (m *tuiModel) showToast(text string, timeout time.Duration, isErr bool) {
	m.toast = text
	m.toastErr = isErr
	m.toastSeq++
	seq := m.toastSeq
	m.pendingCmd = tea.Tick(timeout, func(time.Time) tea.Msg {
		return clearToastMsg{seq: seq}
	})
}

func (m *tuiModel) takePending() tea.Cmd {
	cmd := m.pendingCmd
	m.pendingCmd = nil
	return cmd
}
