/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package gesture routes window-level pointer events to whichever component
// currently owns a drag gesture. A Capture subscribes only between Begin and
// End, so nothing listens while the pointer is idle.
package gesture

import (
	"sync"

	"roomviz/internal/geom"
)

// Kind is the type of a window-level pointer event.
type Kind int

const (
	Move Kind = iota
	Up
	Leave
)

func (k Kind) String() string {
	switch k {
	case Move:
		return "move"
	case Up:
		return "up"
	case Leave:
		return "leave"
	}
	return "unknown"
}

// Event is a pointer event in the receiver's own coordinate space.
type Event struct {
	Kind Kind
	Pos  geom.Pt
}

// Handler receives events while subscribed.
type Handler func(Event)

// Bus fans window-level events out to the current subscribers.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[int]Handler
}

// NewBus returns an empty bus.
func NewBus() *Bus { return &Bus{subs: map[int]Handler{}} }

// Subscribe registers h and returns a function that removes it. The returned
// function is idempotent.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = h
	b.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Len reports the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Dispatch delivers e to every subscriber. Handlers may unsubscribe during delivery.
func (b *Bus) Dispatch(e Event) {
	b.mu.Lock()
	hs := make([]Handler, 0, len(b.subs))
	for i := 0; i < b.next; i++ {
		if h, ok := b.subs[i]; ok {
			hs = append(hs, h)
		}
	}
	b.mu.Unlock()
	for _, h := range hs {
		h(e)
	}
}

// Capture ties one subscription to the lifetime of one gesture.
// A nil bus is allowed; Begin and End then only track the active flag.
type Capture struct {
	bus   *Bus
	unsub func()
	on    bool
}

// NewCapture binds a capture to bus.
func NewCapture(bus *Bus) *Capture { return &Capture{bus: bus} }

// Begin subscribes h. A capture already active keeps its existing handler.
func (c *Capture) Begin(h Handler) bool {
	if c.on {
		return false
	}
	c.on = true
	if c.bus != nil {
		c.unsub = c.bus.Subscribe(h)
	}
	return true
}

// End drops the subscription. Safe to call when inactive.
func (c *Capture) End() {
	if !c.on {
		return
	}
	c.on = false
	if c.unsub != nil {
		c.unsub()
		c.unsub = nil
	}
}

// Active reports whether a gesture currently owns the capture.
func (c *Capture) Active() bool { return c.on }
