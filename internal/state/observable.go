// Package state holds process-wide values that notify subscribers on change.
package state

import "sync"

// Observable is a value with synchronous, in-order change notification.
//
// Writes are serialized: a Set or a changing Update delivers its value to every
// subscriber before the next write starts. Subscribers must not write to the
// Observable that is notifying them.
type Observable[T any] struct {
	writeMu sync.Mutex

	mu     sync.RWMutex
	value  T
	subs   []subscriber[T]
	nextID int
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{value: initial}
}

func (o *Observable[T]) Get() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value
}

func (o *Observable[T]) Set(v T) {
	o.writeMu.Lock()
	defer o.writeMu.Unlock()

	o.notify(o.store(v), v)
}

// Update applies fn to the current value. When fn reports no change nothing is
// stored and no subscriber is called.
func (o *Observable[T]) Update(fn func(current T) (next T, changed bool)) bool {
	o.writeMu.Lock()
	defer o.writeMu.Unlock()

	next, changed := fn(o.Get())
	if !changed {
		return false
	}
	o.notify(o.store(next), next)
	return true
}

// Subscribe registers fn for every future change and returns a function that
// removes it.
func (o *Observable[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.nextID
	o.nextID++
	o.subs = append(o.subs, subscriber[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { o.remove(id) })
	}
}

func (o *Observable[T]) store(v T) []subscriber[T] {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.value = v
	subs := make([]subscriber[T], len(o.subs))
	copy(subs, o.subs)
	return subs
}

func (o *Observable[T]) notify(subs []subscriber[T], v T) {
	for _, s := range subs {
		s.fn(v)
	}
}

func (o *Observable[T]) remove(id int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i, s := range o.subs {
		if s.id == id {
			o.subs = append(o.subs[:i:i], o.subs[i+1:]...)
			return
		}
	}
}
