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

// Package feedback renders the terminal's states on the display, the two
// status LEDs and the buzzer.
//
// Every routine blocks for its whole animation; durations are listed in
// timing.go. Nothing is cancelled mid-animation.
package feedback

import (
	"github.com/rs/zerolog"

	"github.com/ZaparooProject/go-fichaje"
)

// Screen text
const (
	textReady      = "Acercar tarjeta"
	textReading    = "LEYENDO"
	textProcessing = "PROCESANDO"
	textGranted    = "PERMITIDO"
	textDenied     = "DENEGADO"
	textRegError   = "ERROR FICHAJE"
	textRetry      = "Intente de nuevo"
	textConnecting = "CONECTANDO"
	textConnected  = "CONECTADO"
	textNoLink     = "SIN CONEXION"
	textRestarting = "Reiniciando..."
)

// Presenter drives display, LEDs and buzzer
type Presenter struct {
	display fichaje.Display
	signals fichaje.Signals
	clock   fichaje.Clock
	wall    fichaje.WallClock
	log     zerolog.Logger
	started int64
}

// Option configures a Presenter
type Option func(*Presenter)

// WithLogger sets the logger used for display errors
func WithLogger(log zerolog.Logger) Option {
	return func(p *Presenter) {
		p.log = log
	}
}

// New creates a presenter. clock paces the animations, wall provides the
// time shown on the idle screen.
func New(display fichaje.Display, signals fichaje.Signals, clock fichaje.Clock, wall fichaje.WallClock,
	opts ...Option,
) *Presenter {
	p := &Presenter{
		display: display,
		signals: signals,
		clock:   clock,
		wall:    wall,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.started = clock.Now().UnixNano()
	return p
}

// flush presents the framebuffer; a failed flush is logged and otherwise ignored
func (p *Presenter) flush() {
	if err := p.display.Flush(); err != nil {
		p.log.Warn().Err(err).Msg("display flush failed")
	}
}

func (p *Presenter) leds(green, red bool) {
	p.signals.SetLED(fichaje.LEDGreen, green)
	p.signals.SetLED(fichaje.LEDRed, red)
}

// blinkOn reports whether the idle dot is lit, toggling every BlinkPeriod
func (p *Presenter) blinkOn() bool {
	elapsed := p.clock.Now().UnixNano() - p.started
	return (elapsed/int64(BlinkPeriod))%2 == 0
}

// Idle draws the clock screen, or a generic ready screen until the wall
// clock is synchronized. connected selects the network icon.
func (p *Presenter) Idle(connected bool) {
	d := p.display
	now, synced := p.wall.Now()
	d.Clear()

	if !synced {
		printAt(d, 2, 10, 15, "SISTEMA")
		printAt(d, 2, 20, 35, "FICHAJE")
		printAt(d, 1, 20, 52, textReady)
		p.flush()
		return
	}

	d.DrawLine(0, 8, 127, 8, white)
	drawRFIDIcon(d, 2, 0)
	drawWiFiIcon(d, 108, 0, connected)

	d.SetTextSize(3)
	printCentered(d, now.Format("15:04"), 18)

	d.SetTextSize(1)
	printCentered(d, now.Format("02/01/2006"), 45)

	if p.blinkOn() {
		d.FillCircle(64, 58, 2, white)
	}

	printAt(d, 1, 15, 55, textReady)
	p.flush()
}

// Reading flashes both LEDs and animates a three step progress indicator
func (p *Presenter) Reading() {
	d := p.display
	d.Clear()

	for i := 0; i < readingFlash; i++ {
		p.leds(true, true)
		p.clock.Sleep(ReadingFlash)
		p.leds(false, false)
		p.clock.Sleep(ReadingFlash)
	}

	drawRFIDIcon(d, 54, 10)
	printAt(d, 2, 25, 30, textReading)

	for step := 0; step < readingSteps; step++ {
		if step%2 == 0 {
			p.signals.SetLED(fichaje.LEDGreen, true)
		} else {
			p.signals.SetLED(fichaje.LEDRed, true)
		}
		drawProgressTicks(d, step)
		p.flush()
		p.clock.Sleep(ReadingStep)
		p.leds(false, false)
	}
}

// Acknowledge chirps and flashes both LEDs twice to confirm the card was read
func (p *Presenter) Acknowledge() {
	for i := 0; i < ackFlashes; i++ {
		p.leds(true, true)
		p.signals.Tone(AckToneHz, AckToneSpan)
		p.clock.Sleep(AckPhase)
		p.leds(false, false)
		p.clock.Sleep(AckPhase)
	}
}

// Processing animates four dots with alternating LEDs and rising tones
func (p *Presenter) Processing() {
	d := p.display
	d.Clear()
	printAt(d, 2, 5, 15, textProcessing)

	for i := 0; i < processingSteps; i++ {
		p.leds(i%2 == 0, i%2 != 0)

		d.FillRect(30, 40, 70, 10, fichaje.Black)
		dots := make([]byte, i+1)
		for j := range dots {
			dots[j] = '.'
		}
		printAt(d, 2, 40, 40, string(dots))
		p.flush()

		p.signals.Tone(ProcessingToneHz+i*ProcessingToneRise, ProcessingToneSpan)
		p.clock.Sleep(ProcessingStep)
	}

	p.leds(false, false)
}

// Granted shows a check mark inside a frame and pulses the green LED
func (p *Presenter) Granted() {
	d := p.display
	d.Clear()
	drawCheck(d, 44, 5)
	printAt(d, 2, 15, 35, textGranted)
	drawFrame(d)
	p.flush()

	for i := 0; i < grantedPulses; i++ {
		p.signals.SetLED(fichaje.LEDGreen, true)
		p.clock.Sleep(GrantedPulseOn)
		p.signals.SetLED(fichaje.LEDGreen, false)
		p.clock.Sleep(GrantedPulseOff)
	}

	p.signals.SetLED(fichaje.LEDGreen, true)
	p.clock.Sleep(GrantedSolid)
	p.signals.SetLED(fichaje.LEDGreen, false)
}

// Denied shows an X and flashes the frame in step with the red LED
func (p *Presenter) Denied() {
	d := p.display
	d.Clear()
	drawCross(d, 44, 5)
	printAt(d, 2, 20, 35, textDenied)

	for i := 0; i < deniedCycles; i++ {
		p.signals.SetLED(fichaje.LEDRed, true)
		drawFrame(d)
		p.flush()
		p.clock.Sleep(DeniedPhase)

		p.signals.SetLED(fichaje.LEDRed, false)
		d.FillRect(5, 5, 118, 54, fichaje.Black)
		printAt(d, 2, 20, 35, textDenied)
		drawCross(d, 44, 5)
		p.flush()
		p.clock.Sleep(DeniedPhase)
	}

	p.signals.SetLED(fichaje.LEDRed, true)
	drawFrame(d)
	p.flush()
	p.clock.Sleep(DeniedSolid)
	p.signals.SetLED(fichaje.LEDRed, false)
}

// RegistrationError shows a warning triangle and alternates the LEDs
func (p *Presenter) RegistrationError() {
	d := p.display
	d.Clear()
	drawWarning(d)
	printAt(d, 1, 20, 42, textRegError)
	printAt(d, 1, 15, 54, textRetry)
	p.flush()

	for i := 0; i < errorCycles; i++ {
		p.leds(false, true)
		p.clock.Sleep(ErrorPhase)
		p.leds(true, false)
		p.clock.Sleep(ErrorPhase)
	}

	p.leds(false, true)
	p.clock.Sleep(ErrorSolid)
	p.signals.SetLED(fichaje.LEDRed, false)
}

// Connecting animates a sliding Wi-Fi icon over a progress bar with a
// rising tone sweep. It runs for a fixed number of steps regardless of
// the actual join progress.
func (p *Presenter) Connecting() {
	d := p.display
	d.Clear()

	for i := 0; i < connectingSteps; i++ {
		d.FillRect(0, 0, d.Width(), d.Height(), fichaje.Black)
		p.leds(i%2 == 0, i%2 != 0)

		offset := (i % 3) * 15
		drawWiFiIcon(d, 54+offset-15, 5, false)
		printAt(d, 2, 10, 30, textConnecting)
		drawProgressBar(d, i*ConnectingProgress)
		p.flush()

		p.signals.Tone(ConnectingToneHz+i*ConnectingToneRise, ConnectingToneSpan)
		p.clock.Sleep(ConnectingStep)
	}

	p.leds(false, false)
}

// Connected shows a check mark and the terminal's address, pulses the
// green LED and plays the success chime
func (p *Presenter) Connected(addr string) {
	d := p.display
	d.Clear()
	drawCheck(d, 44, 5)
	printAt(d, 2, 25, 32, textConnected)
	d.SetTextSize(1)
	printCentered(d, addr, 52)
	p.flush()

	for i := 0; i < connectedPulses; i++ {
		p.signals.SetLED(fichaje.LEDGreen, true)
		p.clock.Sleep(ConnectedPulse)
		p.signals.SetLED(fichaje.LEDGreen, false)
		p.clock.Sleep(ConnectedPulse)
	}

	p.play(chimeMelody)

	p.signals.SetLED(fichaje.LEDGreen, true)
	p.clock.Sleep(ConnectedSolid)
	p.signals.SetLED(fichaje.LEDGreen, false)
}

// ConnectionFailed shows an X and blinks the red LED over a falling tone
func (p *Presenter) ConnectionFailed() {
	d := p.display
	d.Clear()
	drawCross(d, 44, 5)
	printAt(d, 2, 5, 32, textNoLink)
	printAt(d, 1, 20, 52, textRestarting)
	p.flush()

	for i := 0; i < failedCycles; i++ {
		p.signals.SetLED(fichaje.LEDRed, true)
		p.signals.Tone(FailedToneHz-i*FailedToneFall, FailedToneSpan)
		p.clock.Sleep(FailedPhase)
		p.signals.SetLED(fichaje.LEDRed, false)
		p.clock.Sleep(FailedPhase)
	}
}
