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

import "github.com/ZaparooProject/go-fichaje"

const white = fichaje.White

// drawWiFiIcon draws concentric rings when connected, or two rings struck
// through when not
func drawWiFiIcon(d fichaje.Display, x, y int, connected bool) {
	cx, cy := x+10, y+7
	if connected {
		d.FillCircle(cx, cy, 1, white)
		d.DrawCircle(cx, cy, 3, white)
		d.DrawCircle(cx, cy, 5, white)
		d.DrawCircle(cx, cy, 7, white)
		d.FillRect(cx, cy, 1, 1, fichaje.Black)
		return
	}
	d.DrawCircle(cx, cy, 3, white)
	d.DrawCircle(cx, cy, 5, white)
	d.DrawLine(x+4, y+1, x+16, y+13, white)
}

// drawRFIDIcon draws a small card with a chip and antenna
func drawRFIDIcon(d fichaje.Display, x, y int) {
	d.DrawRect(x, y, 20, 7, white)
	d.FillRect(x+2, y+2, 3, 3, white)
	d.DrawLine(x+8, y+2, x+10, y+2, white)
	d.DrawLine(x+8, y+4, x+12, y+4, white)
	d.DrawCircle(x+15, y+3, 2, white)
}

// drawCheck draws a three pixel wide check mark 38x26
func drawCheck(d fichaje.Display, x, y int) {
	for i := 0; i < 3; i++ {
		d.DrawLine(x+i, y+15, x+10+i, y+25, white)
	}
	for i := 0; i < 3; i++ {
		d.DrawLine(x+10+i, y+25, x+35+i, y, white)
	}
}

// drawCross draws a three pixel wide X 38x26
func drawCross(d fichaje.Display, x, y int) {
	for i := 0; i < 3; i++ {
		d.DrawLine(x+i, y, x+35+i, y+25, white)
	}
	for i := 0; i < 3; i++ {
		d.DrawLine(x+35+i, y, x+i, y+25, white)
	}
}

// drawWarning draws a hollow triangle with an exclamation mark
func drawWarning(d fichaje.Display) {
	d.FillTriangle(64, 10, 50, 35, 78, 35, white)
	d.FillTriangle(64, 15, 55, 32, 73, 32, fichaje.Black)
	d.FillCircle(64, 26, 2, white)
	d.FillRect(62, 18, 4, 6, white)
}

// drawFrame draws the double border used by the outcome screens
func drawFrame(d fichaje.Display) {
	d.DrawRect(5, 5, 118, 54, white)
	d.DrawRect(6, 6, 116, 52, white)
}

// drawProgressTicks draws the reading progress ticks for step
func drawProgressTicks(d fichaje.Display, step int) {
	for i := 0; i < 8; i++ {
		if i <= step*3 {
			d.FillRect(44+i*5, 50, 3, 8, white)
		}
	}
}

// drawProgressBar draws an outlined bar filled to percent
func drawProgressBar(d fichaje.Display, percent int) {
	d.DrawRect(14, 50, 100, 8, white)
	if percent > 0 {
		d.FillRect(16, 52, percent, 4, white)
	}
}

// printCentered prints s horizontally centered at row y
func printCentered(d fichaje.Display, s string, y int) {
	w, _ := d.TextBounds(s)
	x := (d.Width() - w) / 2
	if x < 0 {
		x = 0
	}
	d.SetCursor(x, y)
	d.Print(s)
}

// printAt prints s at x, y in the given text size
func printAt(d fichaje.Display, size, x, y int, s string) {
	d.SetTextSize(size)
	d.SetCursor(x, y)
	d.Print(s)
}
