package todo

import "iter"

// List is an ordered sequence of records.
type List[T any] struct {
	items []T
}

// NewList returns a list holding items in order.
func NewList[T any](items ...T) *List[T] {
	l := &List[T]{}
	l.items = append(l.items, items...)
	return l
}

// Append adds v to the end of the list.
func (l *List[T]) Append(v T) {
	l.items = append(l.items, v)
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// At returns the element at index i. It panics if i is out of range.
func (l *List[T]) At(i int) T {
	return l.items[i]
}

// All iterates over index/element pairs in order.
func (l *List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if l == nil {
			return
		}
		for i, v := range l.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Values returns a copy of the elements in order.
func (l *List[T]) Values() []T {
	if l == nil {
		return nil
	}
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Index returns the index of the first element matching match, or -1.
func (l *List[T]) Index(match func(T) bool) int {
	if l == nil {
		return -1
	}
	for i, v := range l.items {
		if match(v) {
			return i
		}
	}
	return -1
}

// RemoveAt removes and returns the element at index i. It panics if i is out
// of range.
func (l *List[T]) RemoveAt(i int) T {
	v := l.items[i]
	last := len(l.items) - 1
	copy(l.items[i:], l.items[i+1:])
	var zero T
	l.items[last] = zero
	l.items = l.items[:last]
	return v
}

// Retain keeps the elements for which keep returns true, preserving order,
// and returns the removed ones.
func (l *List[T]) Retain(keep func(T) bool) []T {
	var removed []T
	kept := l.items[:0]
	for _, v := range l.items {
		if keep(v) {
			kept = append(kept, v)
			continue
		}
		removed = append(removed, v)
	}
	var zero T
	for i := len(kept); i < len(l.items); i++ {
		l.items[i] = zero
	}
	l.items = kept
	return removed
}
