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

package feedback

import (
	"time"

	"github.com/ZaparooProject/go-fichaje"
)

// note is one buzzer tone followed by a pause before the next one starts
type note struct {
	hz   int
	span time.Duration
	wait time.Duration
}

// Melodies
var (
	// C6 E6 G6 rising triad
	acceptMelody = []note{
		{hz: 1047, span: 150 * time.Millisecond, wait: 180 * time.Millisecond},
		{hz: 1319, span: 150 * time.Millisecond, wait: 180 * time.Millisecond},
		{hz: 1568, span: 150 * time.Millisecond, wait: 180 * time.Millisecond},
	}
	denyMelody = []note{
		{hz: 800, span: 250 * time.Millisecond, wait: 300 * time.Millisecond},
		{hz: 400, span: 400 * time.Millisecond, wait: 450 * time.Millisecond},
	}
	errorMelody = []note{
		{hz: 300, span: 200 * time.Millisecond, wait: 250 * time.Millisecond},
		{hz: 300, span: 200 * time.Millisecond, wait: 250 * time.Millisecond},
		{hz: 300, span: 200 * time.Millisecond, wait: 250 * time.Millisecond},
	}
	chimeMelody = []note{
		{hz: 1000, span: 100 * time.Millisecond, wait: 120 * time.Millisecond},
		{hz: 1500, span: 100 * time.Millisecond, wait: 120 * time.Millisecond},
		{hz: 2000, span: 200 * time.Millisecond, wait: 220 * time.Millisecond},
	}
)

const chimeDuration = 460 * time.Millisecond

// play sounds each note in turn and silences the buzzer at the end
func (p *Presenter) play(melody []note) {
	for _, n := range melody {
		p.signals.Tone(n.hz, n.span)
		p.clock.Sleep(n.wait)
	}
	p.signals.NoTone()
}

// AcceptTone plays the rising triad that accompanies a granted clock-in
func (p *Presenter) AcceptTone() {
	p.play(acceptMelody)
}

// DenyTone plays two falling tones
func (p *Presenter) DenyTone() {
	p.play(denyMelody)
}

// ErrorTone plays three low pulses
func (p *Presenter) ErrorTone() {
	p.play(errorMelody)
}

// LivenessTone plays a short, barely audible tick
func (p *Presenter) LivenessTone() {
	p.play([]note{{hz: LivenessToneHz, span: LivenessToneSpan, wait: LivenessToneWait}})
}

// LivenessBlink flashes the green LED briefly
func (p *Presenter) LivenessBlink() {
	p.signals.SetLED(fichaje.LEDGreen, true)
	p.clock.Sleep(LivenessBlinkSpan)
	p.signals.SetLED(fichaje.LEDGreen, false)
}
