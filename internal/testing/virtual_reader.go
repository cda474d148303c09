// go-fichaje
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-fichaje.
//
// go-fichaje is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-fichaje is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-fichaje; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package testing

import (
	"sync"
	"time"

	"github.com/ZaparooProject/go-fichaje"
)

// VirtualCard is a card that enters the reader field at a given offset
// from Epoch
type VirtualCard struct {
	UID []byte
	// Arrive is when the card enters the field, relative to Epoch
	Arrive time.Duration
	// ReadFails makes ReadSerial fail for this presentation
	ReadFails bool
}

// VirtualReader is a fichaje.CardReader fed from a queue of virtual cards
type VirtualReader struct {
	clock      *VirtualClock
	current    *VirtualCard
	queue      []VirtualCard
	detections []time.Time
	polls      int
	halts      int
	mu         sync.Mutex
}

// NewVirtualReader creates a reader that presents cards in order
func NewVirtualReader(clock *VirtualClock, cards ...VirtualCard) *VirtualReader {
	return &VirtualReader{clock: clock, queue: cards}
}

// Present queues another card
func (r *VirtualReader) Present(card VirtualCard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queue = append(r.queue, card)
}

// CardPresent reports whether the next queued card has arrived
func (r *VirtualReader) CardPresent() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.polls++
	if r.current != nil {
		return false
	}
	if len(r.queue) == 0 {
		return false
	}
	next := r.queue[0]
	if r.clock != nil && r.clock.Now().Before(Epoch.Add(next.Arrive)) {
		return false
	}
	r.queue = r.queue[1:]
	r.current = &next
	if r.clock != nil {
		r.detections = append(r.detections, r.clock.Now())
	}
	return true
}

// ReadSerial reports whether the current card's UID can be read
func (r *VirtualReader) ReadSerial() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return false
	}
	if r.current.ReadFails {
		r.current = nil
		return false
	}
	return true
}

// UIDBytes returns a copy of the current card's UID
func (r *VirtualReader) UIDBytes() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return nil
	}
	return append([]byte(nil), r.current.UID...)
}

// Halt ends the current card session
func (r *VirtualReader) Halt() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.halts++
	r.current = nil
	return nil
}

// Detections returns the virtual instants at which cards were detected
func (r *VirtualReader) Detections() []time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Time(nil), r.detections...)
}

// Halts returns how many times Halt was called
func (r *VirtualReader) Halts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.halts
}

// Polls returns how many times CardPresent was called
func (r *VirtualReader) Polls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.polls
}

// Pending returns the number of cards not yet detected
func (r *VirtualReader) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}

var _ fichaje.CardReader = (*VirtualReader)(nil)
