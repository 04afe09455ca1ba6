// Package app is the application context of the to-do list: it owns the
// collections, the current selection and the filter mode, and exposes the
// named actions the user interface and command line invoke.
package app

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todolist/internal/ids"
	"github.com/nibzard/todolist/internal/todo"
	"github.com/nibzard/todolist/internal/watch"
)

// Name is the application name shown in the about dialog.
const Name = "To-Do List"

// DefaultVersion is reported by About when no version is configured.
const DefaultVersion = "0.1.0"

var (
	ErrNotFound    = errors.New("not found")
	ErrEmptyTitle  = errors.New("title is empty")
	ErrNoSelection = errors.New("no collection selected")
	ErrInvalidText = errors.New("text is not valid UTF-8")
)

// cleanText trims s. Text that is not valid UTF-8 is refused because the data
// file could not store it unchanged.
func cleanText(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", ErrInvalidText
	}
	return strings.TrimSpace(s), nil
}

// Selection refers to the selected collection by ID. It does not own the
// collection; resolve it with App.Collection.
type Selection struct {
	ID    ids.ID
	Valid bool
}

// Notice is a transient message for the user.
type Notice struct {
	Text    string
	Timeout time.Duration
}

// Info describes the application for the about dialog.
type Info struct {
	Name       string
	Version    string
	Developers []string
}

// App holds the application state.
type App struct {
	path    string
	version string
	logger  *log.Logger

	collectionIDs *ids.Allocator
	taskIDs       *ids.Allocator

	collections *todo.List[*todo.Collection]
	selection   *watch.Watcher[Selection]
	filter      *watch.Watcher[FilterMode]
	notices     *watch.Watcher[Notice]

	// noticeScale multiplies notice timeouts.
	noticeScale float64
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithSeed sets the first collection and task IDs.
func WithSeed(collection, task ids.ID) Option {
	return func(a *App) {
		a.collectionIDs = ids.NewAllocator(collection)
		a.taskIDs = ids.NewAllocator(task)
	}
}

// WithFilterMode sets the initial filter mode.
func WithFilterMode(mode FilterMode) Option {
	return func(a *App) {
		a.filter = watch.New(mode)
	}
}

// WithNoticeScale scales every notice timeout by factor.
func WithNoticeScale(factor float64) Option {
	return func(a *App) {
		if factor > 0 {
			a.noticeScale = factor
		}
	}
}

// WithVersion sets the version reported by About.
func WithVersion(version string) Option {
	return func(a *App) {
		if version != "" {
			a.version = version
		}
	}
}

// New returns an App persisting to the data file at path. Nothing is read
// until Load is called.
func New(path string, opts ...Option) *App {
	a := &App{
		path:          path,
		version:       DefaultVersion,
		logger:        log.New(io.Discard),
		collectionIDs: ids.NewAllocator(0),
		taskIDs:       ids.NewAllocator(0),
		collections:   todo.NewList[*todo.Collection](),
		selection:     watch.New(Selection{}),
		filter:        watch.New(FilterAll),
		notices:       watch.New(Notice{}),
		noticeScale:   1,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Path returns the data file path.
func (a *App) Path() string {
	return a.path
}

// Logger returns the application logger.
func (a *App) Logger() *log.Logger {
	return a.logger
}

// Collections returns the collections in display order.
func (a *App) Collections() []*todo.Collection {
	return a.collections.Values()
}

// Collection returns the collection with the given ID.
func (a *App) Collection(id ids.ID) (*todo.Collection, error) {
	i := a.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("collection %d: %w", id, ErrNotFound)
	}
	return a.collections.At(i), nil
}

// CollectionAt returns the collection at display index i (zero based).
func (a *App) CollectionAt(i int) (*todo.Collection, error) {
	if i < 0 || i >= a.collections.Len() {
		return nil, fmt.Errorf("collection #%d: %w", i+1, ErrNotFound)
	}
	return a.collections.At(i), nil
}

func (a *App) indexOf(id ids.ID) int {
	return a.collections.Index(func(c *todo.Collection) bool { return c.ID() == id })
}

// Selection returns the current selection.
func (a *App) Selection() Selection {
	return a.selection.Get()
}

// SelectedCollection returns the selected collection, or nil.
func (a *App) SelectedCollection() *todo.Collection {
	return a.resolve(a.selection.Get())
}

func (a *App) resolve(sel Selection) *todo.Collection {
	if !sel.Valid {
		return nil
	}
	c, err := a.Collection(sel.ID)
	if err != nil {
		return nil
	}
	return c
}

// VisibleTasks returns the tasks of the selected collection that pass the
// filter mode.
func (a *App) VisibleTasks() []*todo.Task {
	c := a.SelectedCollection()
	if c == nil {
		return nil
	}
	mode := a.filter.Get()
	var tasks []*todo.Task
	for _, t := range c.Tasks.All() {
		if mode.Match(t) {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// OnSelectionChange registers fn to run after every selection write with the
// selected collection, or nil when nothing is selected.
func (a *App) OnSelectionChange(fn func(*todo.Collection)) {
	a.selection.Notify(func(sel Selection) {
		fn(a.resolve(sel))
	})
}

// OnFilterChange registers fn to run after every filter mode write.
func (a *App) OnFilterChange(fn func(FilterMode)) {
	a.filter.Notify(fn)
}

// OnNotice registers fn to receive notices.
func (a *App) OnNotice(fn func(Notice)) {
	a.notices.Notify(fn)
}

func (a *App) notify(text string, timeout time.Duration) {
	a.notices.Set(Notice{
		Text:    text,
		Timeout: time.Duration(float64(timeout) * a.noticeScale),
	})
}

// AddCollection appends a collection titled title and selects it.
func (a *App) AddCollection(title string) (*todo.Collection, error) {
	title, err := cleanText(title)
	if err != nil {
		return nil, err
	}
	if title == "" {
		return nil, ErrEmptyTitle
	}
	c := todo.NewCollection(a.collectionIDs, title)
	a.collections.Append(c)
	a.logger.Debug("collection added", "id", c.ID(), "title", title)
	a.selection.Set(Selection{ID: c.ID(), Valid: true})
	return c, nil
}

// RemoveCollection removes the collection and its tasks. A selection
// pointing at it is cleared.
func (a *App) RemoveCollection(id ids.ID) error {
	i := a.indexOf(id)
	if i < 0 {
		return fmt.Errorf("collection %d: %w", id, ErrNotFound)
	}
	c := a.collections.RemoveAt(i)
	a.logger.Debug("collection removed", "id", id, "title", c.Title)
	if sel := a.selection.Get(); sel.Valid && sel.ID == id {
		a.ClearSelection()
	}
	return nil
}

// RenameCollection changes a collection's title.
func (a *App) RenameCollection(id ids.ID, title string) error {
	title, err := cleanText(title)
	if err != nil {
		return err
	}
	if title == "" {
		return ErrEmptyTitle
	}
	c, err := a.Collection(id)
	if err != nil {
		return err
	}
	c.Title = title
	return nil
}

// SelectCollection makes the collection with the given ID current.
func (a *App) SelectCollection(id ids.ID) error {
	if a.indexOf(id) < 0 {
		return fmt.Errorf("collection %d: %w", id, ErrNotFound)
	}
	a.selection.Set(Selection{ID: id, Valid: true})
	return nil
}

// ClearSelection deselects any collection.
func (a *App) ClearSelection() {
	a.selection.Set(Selection{})
}

// AddTask appends an unchecked task to the selected collection. Names are
// trimmed; an empty name is ignored and returns nil.
func (a *App) AddTask(name string) (*todo.Task, error) {
	c := a.SelectedCollection()
	if c == nil {
		return nil, ErrNoSelection
	}
	name, err := cleanText(name)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}
	t := todo.NewTask(a.taskIDs, name)
	c.Tasks.Append(t)
	a.logger.Debug("task added", "collection", c.Title, "id", t.ID(), "name", name)
	a.notify("Task Added: "+name, 2*time.Second)
	return t, nil
}

// RemoveTask removes a task from the selected collection.
func (a *App) RemoveTask(id ids.ID) error {
	c := a.SelectedCollection()
	if c == nil {
		return ErrNoSelection
	}
	i := c.Tasks.Index(func(t *todo.Task) bool { return t.ID() == id })
	if i < 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	t := c.Tasks.RemoveAt(i)
	a.logger.Debug("task removed", "collection", c.Title, "id", id, "name", t.Name)
	a.notify("Task Deleted: "+t.Name, 2*time.Second)
	return nil
}

// RemoveDoneTasks drops every checked task of the selected collection and
// returns how many were removed.
func (a *App) RemoveDoneTasks() (int, error) {
	c := a.SelectedCollection()
	if c == nil {
		return 0, ErrNoSelection
	}
	removed := c.Tasks.Retain(func(t *todo.Task) bool { return !t.Checked })
	a.logger.Debug("done tasks removed", "collection", c.Title, "count", len(removed))
	a.notify("Removed all done tasks", time.Second)
	return len(removed), nil
}

// Task returns the task with the given ID from any collection.
func (a *App) Task(id ids.ID) (*todo.Task, error) {
	for _, c := range a.collections.All() {
		if t := c.Task(id); t != nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
}

// SetTaskChecked sets a task's checked flag.
func (a *App) SetTaskChecked(id ids.ID, checked bool) error {
	t, err := a.Task(id)
	if err != nil {
		return err
	}
	t.Checked = checked
	return nil
}

// ToggleTask flips a task's checked flag and returns the new value.
func (a *App) ToggleTask(id ids.ID) (bool, error) {
	t, err := a.Task(id)
	if err != nil {
		return false, err
	}
	t.Checked = !t.Checked
	return t.Checked, nil
}

// RenameTask changes a task's name.
func (a *App) RenameTask(id ids.ID, name string) error {
	name, err := cleanText(name)
	if err != nil {
		return err
	}
	if name == "" {
		return ErrEmptyTitle
	}
	t, err := a.Task(id)
	if err != nil {
		return err
	}
	t.Name = name
	return nil
}

// FilterMode returns the current filter mode.
func (a *App) FilterMode() FilterMode {
	return a.filter.Get()
}

// SetFilterMode changes the filter mode.
func (a *App) SetFilterMode(mode FilterMode) {
	a.filter.Set(mode)
}

// Banner returns the banner text for the current filter mode, or "".
func (a *App) Banner() string {
	return a.filter.Get().Banner()
}

// Load replaces the state with the content of the data file and clears the
// selection. On failure the state is left empty and the error is logged.
func (a *App) Load() error {
	dec := todo.NewDecoder(a.collectionIDs, a.taskIDs)
	collections, err := todo.LoadFile(a.path, dec)
	if err != nil {
		a.logger.Error("failed to load collections", "path", a.path, "err", err)
		a.collections = todo.NewList[*todo.Collection]()
		a.ClearSelection()
		return err
	}
	a.collections = collections
	a.logger.Debug("collections loaded", "path", a.path, "count", collections.Len(),
		"next_collection_id", a.collectionIDs.Peek(), "next_task_id", a.taskIDs.Peek())
	a.ClearSelection()
	return nil
}

// Save writes the state to the data file. On failure the previous file is
// left in place and the error is logged.
func (a *App) Save() error {
	if err := todo.SaveFile(a.path, a.collections); err != nil {
		a.logger.Error("failed to save collections", "path", a.path, "err", err)
		return err
	}
	a.logger.Debug("collections saved", "path", a.path, "count", a.collections.Len())
	return nil
}

// About describes the application.
func (a *App) About() Info {
	return Info{
		Name:       Name,
		Version:    a.version,
		Developers: []string{":)"},
	}
}
