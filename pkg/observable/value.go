// Package observable provides a small reactive cell that notifies subscribers
// on every write. It has no knowledge of any UI framework.
package observable

// Readable is the read side of a Value: current value plus change notification.
type Readable[T any] interface {
	Get() T
	Subscribe(fn func(T)) (unsubscribe func())
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Value holds a single T and notifies subscribers whenever it is set.
// Set always notifies, even when the new value equals the old one.
// A Value is not safe for concurrent use.
type Value[T any] struct {
	current T
	subs    []subscriber[T]
	nextID  int
}

// NewValue creates a Value holding initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{current: initial}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	return v.current
}

// Set replaces the current value and notifies subscribers in subscription order.
func (v *Value[T]) Set(next T) {
	v.current = next
	// Copy so that subscribers may unsubscribe while being notified.
	subs := make([]subscriber[T], len(v.subs))
	copy(subs, v.subs)
	for _, s := range subs {
		s.fn(next)
	}
}

// Subscribe registers fn and returns a function that removes it.
// fn is not called with the current value.
func (v *Value[T]) Subscribe(fn func(T)) func() {
	id := v.nextID
	v.nextID++
	v.subs = append(v.subs, subscriber[T]{id: id, fn: fn})

	return func() {
		for i, s := range v.subs {
			if s.id == id {
				v.subs = append(v.subs[:i:i], v.subs[i+1:]...)
				return
			}
		}
	}
}

// Len returns the number of active subscribers.
func (v *Value[T]) Len() int {
	return len(v.subs)
}

type readOnly[T any] struct {
	v Readable[T]
}

// ReadOnly wraps r so that holders of the result cannot reach its Set method.
func ReadOnly[T any](r Readable[T]) Readable[T] {
	return readOnly[T]{v: r}
}

func (r readOnly[T]) Get() T {
	return r.v.Get()
}

func (r readOnly[T]) Subscribe(fn func(T)) func() {
	return r.v.Subscribe(fn)
}
