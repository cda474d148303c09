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

package display

import (
	"fmt"
	"image"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"

	"github.com/ZaparooProject/go-fichaje"
)

const (
	// DefaultAddress is the usual 7-bit address of 0.96" SSD1306 modules
	DefaultAddress = 0x3C

	// Max clock frequency (400 kHz).
	maxClockFreq = 400 * physic.KiloHertz
)

// OLED is a Canvas backed by an SSD1306 panel
type OLED struct {
	*Canvas
	dev     *ssd1306.Dev
	bus     i2c.BusCloser
	busName string
}

// Open initializes the periph host, opens the I2C bus and the panel at
// addr. An empty busName selects the first bus available.
func Open(busName string, addr uint16) (*OLED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fichaje.NewPeripheralError("display init", fmt.Errorf("failed to initialize periph host: %w", err))
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fichaje.NewPeripheralError("display init",
			fmt.Errorf("failed to open I2C bus %s: %w", busName, err))
	}

	_ = bus.SetSpeed(maxClockFreq) // Ignore error, continue with default speed

	opts := ssd1306.DefaultOpts
	opts.W, opts.H = Width, Height
	if addr != 0 {
		opts.Addr = addr
	}

	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		_ = bus.Close()
		return nil, fichaje.NewPeripheralError("display init", fmt.Errorf("SSD1306 at %#x: %w", opts.Addr, err))
	}

	return &OLED{
		Canvas:  NewCanvas(Width, Height),
		dev:     dev,
		bus:     bus,
		busName: busName,
	}, nil
}

// Flush pushes the framebuffer to the panel
func (o *OLED) Flush() error {
	if err := o.dev.Draw(o.dev.Bounds(), o.Image(), image.Point{}); err != nil {
		return fichaje.NewPeripheralError("display flush", err)
	}
	return nil
}

// Close blanks the panel and releases the bus
func (o *OLED) Close() error {
	_ = o.dev.Halt()
	if err := o.bus.Close(); err != nil {
		return fmt.Errorf("failed to close I2C bus %s: %w", o.busName, err)
	}
	return nil
}

var _ fichaje.Display = (*OLED)(nil)
