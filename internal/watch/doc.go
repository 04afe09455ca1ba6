// Package watch provides an observable value that notifies registered
// callbacks after every write.
//
// A Watcher holds a single value. Writers open a scope with Write, mutate the
// value through the returned Guard, and close the scope with Release. Closing
// the scope runs every registered callback once, in registration order, with
// the current value. Notification is unconditional: a scope that leaves the
// value untouched still notifies.
//
// The usual pattern mirrors a mutex:
//
//	g := w.Write()
//	defer g.Release()
//	*g.Value() = next
//
// Update and Set wrap that pattern so the scope is closed on every exit path,
// including a panic inside the mutation.
//
// # Reentrancy
//
// Only one write scope may be open at a time, and callbacks must not open a
// write scope on the Watcher that is notifying them. Both situations panic.
// A Watcher is not safe for concurrent use.
package watch
