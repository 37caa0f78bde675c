// Package binding provides observable values for view-models.
package binding

import (
	"sort"
	"sync"
)

// Listener receives the previous and new value of a property.
type Listener[T any] func(prev, next T)

// Property holds a value and notifies subscribers when it changes. It is
// safe for concurrent use. Listeners run synchronously on the goroutine that
// called Set, outside the property's lock, in subscription order.
type Property[T comparable] struct {
	mu        sync.RWMutex
	value     T
	nextID    uint64
	listeners map[uint64]Listener[T]
}

// NewProperty creates a property holding initial.
func NewProperty[T comparable](initial T) *Property[T] {
	return &Property[T]{value: initial}
}

// Get returns the current value.
func (p *Property[T]) Get() T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

// Set stores v. Listeners are notified only when the value changes. It
// reports whether a change happened.
func (p *Property[T]) Set(v T) bool {
	p.mu.Lock()
	if p.value == v {
		p.mu.Unlock()
		return false
	}
	old := p.value
	p.value = v
	listeners := p.snapshotLocked()
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(old, v)
	}
	return true
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (p *Property[T]) Subscribe(fn Listener[T]) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	p.mu.Lock()
	if p.listeners == nil {
		p.listeners = make(map[uint64]Listener[T])
	}
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.listeners, id)
			p.mu.Unlock()
		})
	}
}

func (p *Property[T]) snapshotLocked() []Listener[T] {
	if len(p.listeners) == 0 {
		return nil
	}
	ids := make([]uint64, 0, len(p.listeners))
	for id := range p.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]Listener[T], 0, len(ids))
	for _, id := range ids {
		out = append(out, p.listeners[id])
	}
	return out
}
