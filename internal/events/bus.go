// Package events provides typed publish/subscribe buses used to coordinate
// players and overlays living on the same page.
package events

import (
	"sort"
	"sync"
)

type PlaybackChanged struct {
	Page    string
	Player  string
	Playing bool
}

type OverlayChanged struct {
	Page    string
	Overlay string
	Open    bool
}

type Bus[T any] struct {
	mutex    sync.RWMutex
	nextId   int
	handlers map[int]func(T)
}

func NewBus[T any]() *Bus[T] {
	return &Bus[T]{handlers: make(map[int]func(T))}
}

// Subscribe registers handler and returns the function that removes it.
// Calling the returned function more than once is harmless.
func (b *Bus[T]) Subscribe(handler func(T)) func() {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	id := b.nextId
	b.nextId++
	b.handlers[id] = handler

	return func() {
		b.mutex.Lock()
		defer b.mutex.Unlock()
		delete(b.handlers, id)
	}
}

// Publish delivers event to every subscriber in subscription order. Handlers
// run outside the bus lock, so they may publish or (un)subscribe themselves.
func (b *Bus[T]) Publish(event T) {
	b.mutex.RLock()
	ids := make([]int, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	handlers := make([]func(T), 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, b.handlers[id])
	}
	b.mutex.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

func (b *Bus[T]) Len() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return len(b.handlers)
}
