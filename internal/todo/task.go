package todo

import (
	"encoding/json"
	"errors"

	"github.com/nibzard/todolist/internal/ids"
)

// Task is a single to-do item.
type Task struct {
	id      ids.ID
	Name    string
	Checked bool
}

// NewTask returns an unchecked task with an ID from alloc.
func NewTask(alloc *ids.Allocator, name string) *Task {
	return &Task{id: alloc.Next(), Name: name}
}

// ID returns the task's process-lifetime identifier.
func (t *Task) ID() ids.ID {
	return t.id
}

// taskRecord is the wire form of a Task.
type taskRecord struct {
	Checked bool   `json:"checked"`
	Name    string `json:"name"`
}

func encodeTask(t *Task) (json.RawMessage, error) {
	if t == nil {
		return nil, errors.New("encode task: nil task")
	}
	return json.Marshal(taskRecord{Checked: t.Checked, Name: t.Name})
}

// EncodeTasks renders tasks as a JSON array.
func EncodeTasks(tasks *List[*Task]) ([]byte, error) {
	return encodeArray(tasks, encodeTask)
}
