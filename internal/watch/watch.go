package watch

// Watcher holds a value and the callbacks to run after each write scope.
type Watcher[T any] struct {
	value     T
	callbacks []func(T)
	open      bool
	notifying bool
}

// New returns a Watcher holding value with no callbacks.
func New[T any](value T) *Watcher[T] {
	return &Watcher[T]{value: value}
}

// Notify registers fn to run after every write scope. Callbacks live as long
// as the Watcher; there is no way to remove one.
func (w *Watcher[T]) Notify(fn func(T)) {
	w.callbacks = append(w.callbacks, fn)
}

// Get returns the current value.
func (w *Watcher[T]) Get() T {
	return w.value
}

// Write opens a write scope. The caller must call Release on the returned
// Guard exactly when the scope ends; deferring it is the common form.
func (w *Watcher[T]) Write() *Guard[T] {
	if w.notifying {
		panic("watch: write scope opened from a notification callback")
	}
	if w.open {
		panic("watch: write scope already open")
	}
	w.open = true
	return &Guard[T]{w: w}
}

// Update runs fn inside a write scope.
func (w *Watcher[T]) Update(fn func(*T)) {
	g := w.Write()
	defer g.Release()
	fn(g.Value())
}

// Set replaces the value inside a write scope.
func (w *Watcher[T]) Set(value T) {
	g := w.Write()
	defer g.Release()
	g.Set(value)
}

// Guard is exclusive access to a Watcher's value for one write scope.
type Guard[T any] struct {
	w        *Watcher[T]
	released bool
}

// Value returns a pointer to the guarded value. It must not be retained past
// Release.
func (g *Guard[T]) Value() *T {
	return &g.w.value
}

// Set replaces the guarded value.
func (g *Guard[T]) Set(value T) {
	g.w.value = value
}

// Release closes the write scope and notifies every callback in registration
// order. Calling Release again is a no-op.
func (g *Guard[T]) Release() {
	if g.released {
		return
	}
	g.released = true

	w := g.w
	w.open = false
	w.notifying = true
	defer func() { w.notifying = false }()

	for _, fn := range w.callbacks {
		fn(w.value)
	}
}
