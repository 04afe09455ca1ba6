package app

import (
	"fmt"
	"strings"

	"github.com/nibzard/todolist/internal/todo"
)

// FilterMode selects which tasks of a collection are visible.
type FilterMode int

const (
	FilterAll FilterMode = iota
	FilterUnresolved
	FilterDone
)

var filterNames = [...]string{
	FilterAll:        "all",
	FilterUnresolved: "unresolved",
	FilterDone:       "done",
}

// String returns the mode's name as accepted by ParseFilterMode.
func (m FilterMode) String() string {
	if m < 0 || int(m) >= len(filterNames) {
		return fmt.Sprintf("FilterMode(%d)", int(m))
	}
	return filterNames[m]
}

// ParseFilterMode parses "all", "unresolved" or "done".
func ParseFilterMode(s string) (FilterMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range filterNames {
		if n == name {
			return FilterMode(i), nil
		}
	}
	return FilterAll, fmt.Errorf("unknown filter mode %q (want all, unresolved or done)", s)
}

// Next returns the mode after m, wrapping around.
func (m FilterMode) Next() FilterMode {
	return FilterMode((int(m) + 1) % len(filterNames))
}

// Match reports whether a task is visible under m.
func (m FilterMode) Match(t *todo.Task) bool {
	switch m {
	case FilterUnresolved:
		return !t.Checked
	case FilterDone:
		return t.Checked
	default:
		return true
	}
}

// Banner returns the banner text for m, or "" when every task is shown.
func (m FilterMode) Banner() string {
	switch m {
	case FilterUnresolved:
		return "Filter: Displaying unresolved tasks"
	case FilterDone:
		return "Filter: Displaying done tasks"
	default:
		return ""
	}
}
