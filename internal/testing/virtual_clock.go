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

// Package testing provides virtual peripherals and a virtual clock so the
// terminal's timing and choreography can be tested without hardware or
// real delays.
package testing

import (
	"context"
	"sync"
	"time"

	"github.com/ZaparooProject/go-fichaje"
)

// Epoch is the instant every VirtualClock starts at
var Epoch = time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC)

// VirtualClock is a fichaje.Clock whose Sleep advances time instantly
type VirtualClock struct {
	now    time.Time
	sleeps []time.Duration
	mu     sync.Mutex
}

// NewVirtualClock creates a clock positioned at Epoch
func NewVirtualClock() *VirtualClock {
	return &VirtualClock{now: Epoch}
}

// Now returns the virtual time
func (c *VirtualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleep advances the virtual time by d
func (c *VirtualClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d > 0 {
		c.now = c.now.Add(d)
	}
	c.sleeps = append(c.sleeps, d)
}

// Advance moves time forward without recording a sleep
func (c *VirtualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Elapsed returns the virtual time passed since Epoch
func (c *VirtualClock) Elapsed() time.Duration {
	return c.Now().Sub(Epoch)
}

// Sleeps returns every duration passed to Sleep
func (c *VirtualClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

var _ fichaje.Clock = (*VirtualClock)(nil)

// VirtualWallClock is a fichaje.WallClock that follows a VirtualClock once synced
type VirtualWallClock struct {
	Clock   *VirtualClock
	SyncErr error
	Syncs   int
	synced  bool
	mu      sync.Mutex
}

// NewVirtualWallClock creates a wall clock that is already synced when synced is true
func NewVirtualWallClock(clock *VirtualClock, synced bool) *VirtualWallClock {
	return &VirtualWallClock{Clock: clock, synced: synced}
}

// Now returns the virtual time and whether a sync has happened
func (w *VirtualWallClock) Now() (time.Time, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.synced {
		return time.Time{}, false
	}
	return w.Clock.Now(), true
}

// Sync marks the clock as synced unless SyncErr is set
func (w *VirtualWallClock) Sync(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Syncs++
	if w.SyncErr != nil {
		return w.SyncErr
	}
	w.synced = true
	return nil
}

var _ fichaje.WallClock = (*VirtualWallClock)(nil)
