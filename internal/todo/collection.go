package todo

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nibzard/todolist/internal/ids"
)

// Collection is a named, ordered group of tasks. It owns its tasks.
type Collection struct {
	id    ids.ID
	Title string
	Tasks *List[*Task]
}

// NewCollection returns an empty collection with an ID from alloc.
func NewCollection(alloc *ids.Allocator, title string) *Collection {
	return &Collection{
		id:    alloc.Next(),
		Title: title,
		Tasks: NewList[*Task](),
	}
}

// ID returns the collection's process-lifetime identifier.
func (c *Collection) ID() ids.ID {
	return c.id
}

// Task returns the task with the given ID, or nil.
func (c *Collection) Task(id ids.ID) *Task {
	if i := c.Tasks.Index(func(t *Task) bool { return t.ID() == id }); i >= 0 {
		return c.Tasks.At(i)
	}
	return nil
}

// Counts returns the number of unchecked and checked tasks.
func (c *Collection) Counts() (open, done int) {
	for _, t := range c.Tasks.All() {
		if t.Checked {
			done++
		} else {
			open++
		}
	}
	return open, done
}

// collectionRecord is the wire form of a Collection.
type collectionRecord struct {
	Title string            `json:"title"`
	Tasks []json.RawMessage `json:"tasks"`
}

func encodeCollection(c *Collection) (json.RawMessage, error) {
	if c == nil {
		return nil, errors.New("encode collection: nil collection")
	}
	tasks, err := EncodeList(c.Tasks, encodeTask)
	if err != nil {
		return nil, fmt.Errorf("encode collection %q: %w", c.Title, err)
	}
	return json.Marshal(collectionRecord{Title: c.Title, Tasks: tasks})
}

// EncodeCollections renders collections, with their tasks, as a JSON array.
func EncodeCollections(collections *List[*Collection]) ([]byte, error) {
	return encodeArray(collections, encodeCollection)
}

// Decoder builds collections and tasks from their wire form, assigning fresh
// IDs from its allocators.
type Decoder struct {
	collections *ids.Allocator
	tasks       *ids.Allocator
}

// NewDecoder returns a decoder drawing collection and task IDs from the given
// allocators.
func NewDecoder(collections, tasks *ids.Allocator) *Decoder {
	return &Decoder{collections: collections, tasks: tasks}
}

// DecodeCollections decodes a JSON array of collection records.
func (d *Decoder) DecodeCollections(data []byte) (*List[*Collection], error) {
	return DecodeList(data, "", d.decodeCollection)
}

// DecodeTasks decodes a JSON array of task records.
func (d *Decoder) DecodeTasks(data []byte) (*List[*Task], error) {
	return DecodeList(data, "", d.decodeTask)
}

func (d *Decoder) decodeCollection(raw json.RawMessage, path string) (*Collection, error) {
	var title string
	var tasksRaw json.RawMessage
	err := decodeObject(raw, path, []fieldSpec{
		{name: "title", kind: kindString, target: &title},
		{name: "tasks", kind: kindArray, target: &tasksRaw},
	})
	if err != nil {
		return nil, err
	}

	tasks, err := DecodeList(tasksRaw, path+".tasks", d.decodeTask)
	if err != nil {
		return nil, err
	}

	c := NewCollection(d.collections, title)
	c.Tasks = tasks
	return c, nil
}

func (d *Decoder) decodeTask(raw json.RawMessage, path string) (*Task, error) {
	var rec taskRecord
	err := decodeObject(raw, path, []fieldSpec{
		{name: "checked", kind: kindBoolean, target: &rec.Checked},
		{name: "name", aliases: []string{"task_name"}, kind: kindString, target: &rec.Name},
	})
	if err != nil {
		return nil, err
	}

	t := NewTask(d.tasks, rec.Name)
	t.Checked = rec.Checked
	return t, nil
}
