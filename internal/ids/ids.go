// Package ids allocates process-lifetime identifiers for collections and tasks.
package ids

// ID identifies an entity for the lifetime of the process. IDs are never
// persisted; a reload assigns fresh ones.
type ID uint64

// Allocator hands out monotonically increasing IDs starting at its seed.
// It is not safe for concurrent use.
type Allocator struct {
	next ID
}

// NewAllocator returns an allocator whose first ID is seed.
func NewAllocator(seed ID) *Allocator {
	return &Allocator{next: seed}
}

// Next returns a fresh ID.
func (a *Allocator) Next() ID {
	id := a.next
	a.next++
	return id
}

// Peek returns the ID the next call to Next will return.
func (a *Allocator) Peek() ID {
	return a.next
}
