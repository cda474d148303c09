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
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ZaparooProject/go-fichaje"
)

// RecordingDisplay is a fichaje.Display that records operations instead of
// drawing pixels
type RecordingDisplay struct {
	FlushErr error
	ops      []string
	texts    []string
	flushes  int
	textSize int
	mu       sync.Mutex
}

// NewRecordingDisplay creates an empty recording display
func NewRecordingDisplay() *RecordingDisplay {
	return &RecordingDisplay{textSize: 1}
}

func (d *RecordingDisplay) record(op string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = append(d.ops, op)
}

func (d *RecordingDisplay) Clear()            { d.record("clear") }
func (d *RecordingDisplay) SetCursor(x, y int) { d.record(fmt.Sprintf("cursor %d,%d", x, y)) }

func (d *RecordingDisplay) SetTextSize(size int) {
	d.mu.Lock()
	d.textSize = size
	d.mu.Unlock()
	d.record(fmt.Sprintf("size %d", size))
}

func (d *RecordingDisplay) Print(s string) {
	d.mu.Lock()
	d.texts = append(d.texts, s)
	d.mu.Unlock()
	d.record("text " + s)
}

func (d *RecordingDisplay) DrawLine(x0, y0, x1, y1 int, _ fichaje.Color) {
	d.record(fmt.Sprintf("line %d,%d %d,%d", x0, y0, x1, y1))
}

func (d *RecordingDisplay) DrawRect(x, y, w, h int, _ fichaje.Color) {
	d.record(fmt.Sprintf("rect %d,%d %dx%d", x, y, w, h))
}

func (d *RecordingDisplay) FillRect(x, y, w, h int, c fichaje.Color) {
	d.record(fmt.Sprintf("fillrect %d,%d %dx%d %v", x, y, w, h, c))
}

func (d *RecordingDisplay) DrawCircle(x, y, r int, _ fichaje.Color) {
	d.record(fmt.Sprintf("circle %d,%d r%d", x, y, r))
}

func (d *RecordingDisplay) FillCircle(x, y, r int, _ fichaje.Color) {
	d.record(fmt.Sprintf("fillcircle %d,%d r%d", x, y, r))
}

func (d *RecordingDisplay) FillTriangle(x0, y0, x1, y1, x2, y2 int, _ fichaje.Color) {
	d.record(fmt.Sprintf("filltriangle %d,%d %d,%d %d,%d", x0, y0, x1, y1, x2, y2))
}

// TextBounds uses a 6x8 cell per character scaled by the text size
func (d *RecordingDisplay) TextBounds(s string) (w, h int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(s) * 6 * d.textSize, 8 * d.textSize
}

func (d *RecordingDisplay) Flush() error {
	d.mu.Lock()
	d.flushes++
	err := d.FlushErr
	d.mu.Unlock()
	d.record("flush")
	return err
}

func (*RecordingDisplay) Width() int  { return 128 }
func (*RecordingDisplay) Height() int { return 64 }

// Ops returns every recorded operation
func (d *RecordingDisplay) Ops() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.ops...)
}

// Texts returns every printed string
func (d *RecordingDisplay) Texts() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.texts...)
}

// Printed reports whether s was printed
func (d *RecordingDisplay) Printed(s string) bool {
	for _, t := range d.Texts() {
		if strings.TrimSpace(t) == s {
			return true
		}
	}
	return false
}

// Flushes returns the number of Flush calls
func (d *RecordingDisplay) Flushes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.flushes
}

// Reset forgets everything recorded so far
func (d *RecordingDisplay) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = nil
	d.texts = nil
	d.flushes = 0
}

var _ fichaje.Display = (*RecordingDisplay)(nil)

// SignalKind identifies a recorded signal event
type SignalKind int

const (
	SignalLED SignalKind = iota
	SignalTone
	SignalNoTone
)

// SignalEvent is one LED or buzzer change at a virtual instant
type SignalEvent struct {
	At       time.Time
	Kind     SignalKind
	LED      fichaje.LED
	On       bool
	Hz       int
	Duration time.Duration
}

// RecordingSignals is a fichaje.Signals that timestamps every change with a
// VirtualClock
type RecordingSignals struct {
	clock  *VirtualClock
	events []SignalEvent
	leds   map[fichaje.LED]bool
	mu     sync.Mutex
}

// NewRecordingSignals creates a recorder stamping events with clock
func NewRecordingSignals(clock *VirtualClock) *RecordingSignals {
	return &RecordingSignals{clock: clock, leds: make(map[fichaje.LED]bool)}
}

func (s *RecordingSignals) now() time.Time {
	if s.clock == nil {
		return time.Time{}
	}
	return s.clock.Now()
}

func (s *RecordingSignals) SetLED(led fichaje.LED, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leds[led] = on
	s.events = append(s.events, SignalEvent{At: s.now(), Kind: SignalLED, LED: led, On: on})
}

func (s *RecordingSignals) Tone(hz int, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, SignalEvent{At: s.now(), Kind: SignalTone, Hz: hz, Duration: d})
}

func (s *RecordingSignals) NoTone() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, SignalEvent{At: s.now(), Kind: SignalNoTone})
}

// Events returns every recorded event
func (s *RecordingSignals) Events() []SignalEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SignalEvent(nil), s.events...)
}

// Tones returns the frequencies of every tone in order
func (s *RecordingSignals) Tones() []int {
	var hz []int
	for _, e := range s.Events() {
		if e.Kind == SignalTone {
			hz = append(hz, e.Hz)
		}
	}
	return hz
}

// LEDOnCount returns how many times led was switched on
func (s *RecordingSignals) LEDOnCount(led fichaje.LED) int {
	n := 0
	for _, e := range s.Events() {
		if e.Kind == SignalLED && e.LED == led && e.On {
			n++
		}
	}
	return n
}

// LEDState returns whether led is currently lit
func (s *RecordingSignals) LEDState(led fichaje.LED) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leds[led]
}

// Reset forgets every recorded event
func (s *RecordingSignals) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

var _ fichaje.Signals = (*RecordingSignals)(nil)
