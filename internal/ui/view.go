package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/todolist/internal/app"
)

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	switch m.overlay {
	case overlayHelp:
		b.WriteString(overlayStyle.Render(helpText()))
		b.WriteString("\n")
		writeFooter(&b, "esc to close")
		return b.String()
	case overlayAbout:
		b.WriteString(overlayStyle.Render(aboutText(m.app.About())))
		b.WriteString("\n")
		writeFooter(&b, "esc to close")
		return b.String()
	}

	leftWidth := max(20, m.width/3)
	rightWidth := max(30, m.width-leftWidth-4)
	left := m.renderCollections(leftWidth)
	right := m.renderTasks(rightWidth)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")

	if m.inputMode != inputNone {
		b.WriteString(m.renderInput())
		b.WriteString("\n")
	}
	if m.toast != "" {
		if m.toastErr {
			b.WriteString(errorStyle.Render(m.toast))
		} else {
			b.WriteString(toastStyle.Render(m.toast))
		}
		b.WriteString("\n")
	}

	if m.inputMode != inputNone {
		writeFooter(&b, "enter to submit | esc to cancel")
	} else {
		writeFooter(&b, "? for help | q to quit")
	}
	return b.String()
}

func writeTitle(b *strings.Builder) {
	b.WriteString(titleStyle.Render(app.Name))
	b.WriteString("\n\n")
}

func (m *tuiModel) paneFrame(p pane, width int) lipgloss.Style {
	style := paneStyle
	if m.focus == p && m.inputMode == inputNone {
		style = focusedPaneStyle
	}
	return style.Width(width)
}

func (m *tuiModel) renderCollections(width int) string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Collections"))
	b.WriteString("\n")

	collections := m.app.Collections()
	if len(collections) == 0 {
		b.WriteString(mutedStyle.Render("No collections yet.\nPress n to create one."))
		return m.paneFrame(paneCollections, width).Render(b.String())
	}

	selected := m.app.SelectedCollection()
	for i, c := range collections {
		open, done := c.Counts()
		line := fmt.Sprintf("%s (%d/%d)", c.Title, done, open+done)
		if c == selected {
			line = selectedStyle.Render(line)
		}
		if i == m.collCursor && m.focus == paneCollections {
			b.WriteString(cursorStyle.Render("> ") + line)
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return m.paneFrame(paneCollections, width).Render(strings.TrimRight(b.String(), "\n"))
}

func (m *tuiModel) renderTasks(width int) string {
	var b strings.Builder
	c := m.app.SelectedCollection()
	if c == nil {
		b.WriteString(paneTitleStyle.Render("Tasks"))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("No collection selected.\nPress enter on a collection, or n to create one."))
		return m.paneFrame(paneTasks, width).Render(b.String())
	}

	b.WriteString(paneTitleStyle.Render(c.Title))
	b.WriteString("\n")
	if banner := m.app.Banner(); banner != "" {
		b.WriteString(bannerStyle.Render(banner))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Press 0 to show all tasks"))
		b.WriteString("\n\n")
	}

	tasks := m.app.VisibleTasks()
	if len(tasks) == 0 {
		b.WriteString(mutedStyle.Render("No tasks. Press a to add one."))
		return m.paneFrame(paneTasks, width).Render(b.String())
	}
	for i, t := range tasks {
		box := "[ ]"
		name := t.Name
		if t.Checked {
			box = "[x]"
			name = checkedStyle.Render(name)
		}
		prefix := "  "
		if i == m.taskCursor && m.focus == paneTasks {
			prefix = cursorStyle.Render("> ")
		}
		b.WriteString(prefix + box + " " + name + "\n")
	}
	return m.paneFrame(paneTasks, width).Render(strings.TrimRight(b.String(), "\n"))
}

func (m *tuiModel) renderInput() string {
	var label string
	switch m.inputMode {
	case inputTask:
		label = "Add task"
	case inputCollection:
		label = "New collection"
	case inputRename:
		label = "Rename"
	}
	content := label + "\n" + m.input.View()
	if m.inputEmpty && m.inputMode != inputTask {
		content += "\n" + errorStyle.Render("Title must not be empty")
		return invalidInputStyle.Render(content)
	}
	return inputStyle.Render(content)
}

func helpText() string {
	var b strings.Builder
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  up/k, down/j   Move cursor\n")
	b.WriteString("  tab, left/h    Switch pane\n")
	b.WriteString("  enter          Select collection\n")
	b.WriteString("  n              New collection\n")
	b.WriteString("  a              Add task\n")
	b.WriteString("  r              Rename task or collection\n")
	b.WriteString("  space, x       Toggle task\n")
	b.WriteString("  d              Delete task or collection\n")
	b.WriteString("  c              Remove done tasks\n")
	b.WriteString("  f              Cycle filter\n")
	b.WriteString("  1 / 2 / 3      Show all / unresolved / done\n")
	b.WriteString("  0              Clear filter\n")
	b.WriteString("  ctrl+s         Save\n")
	b.WriteString("  A              About\n")
	b.WriteString("  ?              Toggle this help screen\n")
	b.WriteString("  q, ctrl+c      Quit (saves)")
	return b.String()
}

func aboutText(info app.Info) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(info.Name))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Version:    %s\n", info.Version))
	b.WriteString(fmt.Sprintf("Developers: %s", strings.Join(info.Developers, ", ")))
	return b.String()
}

func writeFooter(b *strings.Builder, hint string) {
	b.WriteString(mutedStyle.Render(hint))
	b.WriteString("\n")
}
