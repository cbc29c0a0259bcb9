// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"sync"
)

// Broker fans write notifications out to in-process subscribers.
// A slow subscriber misses intermediate events but always sees the latest
// one, since every event only tells it to re-read.
type Broker struct {
	mu     sync.Mutex
	subs   map[string]map[chan Event]struct{}
	closed bool
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[chan Event]struct{})}
}

// Subscribe registers for writes to path or to documents directly in it.
func (b *Broker) Subscribe(ctx context.Context, path string) (<-chan Event, func()) {
	ch := make(chan Event, 1)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	if b.subs[path] == nil {
		b.subs[path] = make(map[chan Event]struct{})
	}
	b.subs[path][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if set, ok := b.subs[path]; ok {
				if _, ok := set[ch]; ok {
					delete(set, ch)
					close(ch)
				}
				if len(set) == 0 {
					delete(b.subs, path)
				}
			}
		})
	}

	stop := context.AfterFunc(ctx, cancel)
	return ch, func() {
		stop()
		cancel()
	}
}

// Publish notifies subscribers of path and of its parent collection.
func (b *Broker) Publish(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ev := Event{Path: path}
	b.notify(path, ev)
	if parent := ParentOf(path); parent != "" {
		b.notify(parent, ev)
	}
}

func (b *Broker) notify(key string, ev Event) {
	for ch := range b.subs[key] {
		select {
		case ch <- ev:
		default:
			// a pending event already tells the subscriber to re-read
		}
	}
}

// Close ends every subscription.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for key, set := range b.subs {
		for ch := range set {
			close(ch)
		}
		delete(b.subs, key)
	}
}
