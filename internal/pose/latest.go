package pose

import "sync/atomic"

// Latest is a single-slot cell holding the most recent value, usually a *Frame
// or a frame paired with its camera image. Store replaces the previous value;
// readers never see a queue of stale frames.
type Latest[T any] struct {
	value atomic.Pointer[T]
	seq   atomic.Uint64
}

// Store publishes v as the current value and returns its sequence number.
func (l *Latest[T]) Store(v *T) uint64 {
	l.value.Store(v)
	return l.seq.Add(1)
}

// Load returns the current value and its sequence number. The value is nil until
// the first Store.
func (l *Latest[T]) Load() (*T, uint64) {
	// seq is read first so a concurrent Store can only make the value newer than seq.
	seq := l.seq.Load()
	return l.value.Load(), seq
}

// Clear drops the held value.
func (l *Latest[T]) Clear() {
	l.value.Store(nil)
	l.seq.Add(1)
}
