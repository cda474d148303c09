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

package polling

import (
	"errors"
	"time"

	"github.com/ZaparooProject/go-fichaje"
)

// PipelineState is where the pipeline is in a card event
type PipelineState int

const (
	// StateIdle waits for a card and runs idle maintenance
	StateIdle PipelineState = iota
	// StateBusy is processing a card; nothing else runs
	StateBusy
)

// String returns the state name
func (s PipelineState) String() string {
	if s == StateBusy {
		return "busy"
	}
	return "idle"
}

// ErrNoCardInPoll is returned by Poll when no card was read
var ErrNoCardInPoll = errors.New("no card detected in polling cycle")

// Transaction is one processed card event
type Transaction struct {
	Started  time.Time
	Finished time.Time
	ID       string
	Card     fichaje.CardID
	Outcome  fichaje.Outcome
}

// Duration is how long the event held the terminal busy
func (t Transaction) Duration() time.Duration {
	return t.Finished.Sub(t.Started)
}

// State is the pipeline's mutable state. The busy flag is set and cleared
// only by the pipeline; the timestamps drive the idle cadence.
type State struct {
	LastRefresh time.Time
	LastBlink   time.Time
	LastTone    time.Time
	LastResync  time.Time
	Current     *Transaction
	Phase       PipelineState
	// ForceRedraw makes the next idle pass redraw regardless of LastRefresh
	ForceRedraw bool
}

// Busy reports whether a card event is in flight
func (s *State) Busy() bool {
	return s.Phase == StateBusy
}

// TransitionToBusy starts a card event
func (s *State) TransitionToBusy(txn *Transaction) {
	s.Phase = StateBusy
	s.Current = txn
}

// TransitionToIdle ends the current card event and schedules a redraw
func (s *State) TransitionToIdle() {
	s.Phase = StateIdle
	s.Current = nil
	s.ForceRedraw = true
}

// Reset positions every idle timer at now
func (s *State) Reset(now time.Time) {
	s.LastRefresh = now
	s.LastBlink = now
	s.LastTone = now
	s.LastResync = now
	s.ForceRedraw = true
}
