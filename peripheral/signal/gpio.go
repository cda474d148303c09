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

// Package signal drives the two status LEDs and the passive buzzer through
// GPIO.
package signal

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/ZaparooProject/go-fichaje"
)

// Config names the pins as registered with gpioreg
type Config struct {
	GreenPin  string
	RedPin    string
	BuzzerPin string
}

// GPIO implements fichaje.Signals. Tone starts a square wave and arms a
// timer that silences it; a newer tone or NoTone supersedes the timer.
type GPIO struct {
	leds   map[fichaje.LED]gpio.PinOut
	buzzer gpio.PinOut
	stop   *time.Timer
	gen    uint64
	log    zerolog.Logger
	mu     sync.Mutex
}

// Open initializes the periph host and looks up the pins. LEDs start off.
func Open(cfg Config, log zerolog.Logger) (*GPIO, error) {
	if _, err := host.Init(); err != nil {
		return nil, fichaje.NewPeripheralError("signals init", fmt.Errorf("failed to initialize periph host: %w", err))
	}

	lookup := func(name string) (gpio.PinOut, error) {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fichaje.NewPeripheralError("signals init", fmt.Errorf("pin %q not found", name))
		}
		return p, nil
	}

	green, err := lookup(cfg.GreenPin)
	if err != nil {
		return nil, err
	}
	red, err := lookup(cfg.RedPin)
	if err != nil {
		return nil, err
	}
	buzzer, err := lookup(cfg.BuzzerPin)
	if err != nil {
		return nil, err
	}

	return newGPIO(green, red, buzzer, log), nil
}

func newGPIO(green, red, buzzer gpio.PinOut, log zerolog.Logger) *GPIO {
	g := &GPIO{
		leds:   map[fichaje.LED]gpio.PinOut{fichaje.LEDGreen: green, fichaje.LEDRed: red},
		buzzer: buzzer,
		log:    log,
	}
	g.SetLED(fichaje.LEDGreen, false)
	g.SetLED(fichaje.LEDRed, false)
	g.NoTone()
	return g
}

func (g *GPIO) SetLED(led fichaje.LED, on bool) {
	pin, ok := g.leds[led]
	if !ok {
		return
	}
	if err := pin.Out(gpio.Level(on)); err != nil {
		g.log.Debug().Err(err).Stringer("led", led).Msg("failed to set LED")
	}
}

// Tone plays hz for d without blocking
func (g *GPIO) Tone(hz int, d time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stop != nil {
		g.stop.Stop()
	}
	g.gen++
	gen := g.gen
	if err := g.buzzer.PWM(gpio.DutyHalf, physic.Frequency(hz)*physic.Hertz); err != nil {
		g.log.Debug().Err(err).Int("hz", hz).Msg("failed to start tone")
		return
	}
	g.stop = time.AfterFunc(d, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.gen == gen {
			g.silence()
		}
	})
}

func (g *GPIO) NoTone() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gen++
	g.silence()
}

func (g *GPIO) silence() {
	if err := g.buzzer.Out(gpio.Low); err != nil {
		g.log.Debug().Err(err).Msg("failed to silence buzzer")
	}
}

// Close silences the buzzer and turns both LEDs off
func (g *GPIO) Close() error {
	g.mu.Lock()
	if g.stop != nil {
		g.stop.Stop()
	}
	g.silence()
	g.mu.Unlock()
	g.SetLED(fichaje.LEDGreen, false)
	g.SetLED(fichaje.LEDRed, false)
	return nil
}

var _ fichaje.Signals = (*GPIO)(nil)
