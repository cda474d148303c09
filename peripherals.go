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

package fichaje

import "time"

// CardReader is the proximity-card reader driver.
//
// CardPresent reports whether a new card entered the field. ReadSerial
// selects it and reports whether its UID could be read; UIDBytes returns
// that UID. Halt ends the session so the same card is not re-detected
// until it leaves and re-enters the field.
type CardReader interface {
	CardPresent() bool
	ReadSerial() bool
	UIDBytes() []byte
	Halt() error
}

// Color of a monochrome display pixel
type Color bool

const (
	Black Color = false
	White Color = true
)

// Display is a monochrome framebuffer with drawing primitives. Nothing
// reaches the panel until Flush is called.
type Display interface {
	Clear()
	SetTextSize(size int)
	SetCursor(x, y int)
	// Print draws s at the cursor in the current text size and advances the cursor.
	Print(s string)
	DrawLine(x0, y0, x1, y1 int, c Color)
	DrawRect(x, y, w, h int, c Color)
	FillRect(x, y, w, h int, c Color)
	DrawCircle(x, y, r int, c Color)
	FillCircle(x, y, r int, c Color)
	FillTriangle(x0, y0, x1, y1, x2, y2 int, c Color)
	// TextBounds returns the size of s rendered in the current text size.
	TextBounds(s string) (w, h int)
	Flush() error
	Width() int
	Height() int
}

// LED identifies one of the two status LEDs
type LED int

const (
	LEDGreen LED = iota
	LEDRed
)

// String returns the LED color name
func (l LED) String() string {
	if l == LEDGreen {
		return "green"
	}
	return "red"
}

// Signals drives the status LEDs and the buzzer.
//
// Tone starts a square wave of hz hertz that stops by itself after d;
// it does not block. NoTone silences the buzzer immediately.
type Signals interface {
	SetLED(led LED, on bool)
	Tone(hz int, d time.Duration)
	NoTone()
}
