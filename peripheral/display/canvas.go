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

// Package display draws the terminal's screens into a 1-bit framebuffer
// and pushes it to an SSD1306 OLED over I2C.
package display

import (
	"image"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/ZaparooProject/go-fichaje"
)

// Panel geometry
const (
	Width  = 128
	Height = 64
)

// Canvas is an in-memory monochrome framebuffer with the drawing primitives
// the feedback screens use. Text is rendered with the 7x13 fixed font and
// scaled by the text size. Coordinates outside the panel are clipped.
type Canvas struct {
	img    *image1bit.VerticalLSB
	face   *basicfont.Face
	cx, cy int
	size   int
}

// NewCanvas creates a blank canvas of w by h pixels
func NewCanvas(w, h int) *Canvas {
	return &Canvas{
		img:  image1bit.NewVerticalLSB(image.Rect(0, 0, w, h)),
		face: basicfont.Face7x13,
		size: 1,
	}
}

// Image returns the framebuffer
func (c *Canvas) Image() image.Image {
	return c.img
}

// Pixel reports whether the pixel at x, y is lit
func (c *Canvas) Pixel(x, y int) bool {
	if !c.inside(x, y) {
		return false
	}
	return bool(c.img.BitAt(x, y))
}

// Lit returns the number of lit pixels
func (c *Canvas) Lit() int {
	n := 0
	b := c.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c.img.BitAt(x, y) {
				n++
			}
		}
	}
	return n
}

func (c *Canvas) Width() int  { return c.img.Bounds().Dx() }
func (c *Canvas) Height() int { return c.img.Bounds().Dy() }

func (c *Canvas) inside(x, y int) bool {
	return image.Pt(x, y).In(c.img.Bounds())
}

func (c *Canvas) set(x, y int, col fichaje.Color) {
	if c.inside(x, y) {
		c.img.SetBit(x, y, image1bit.Bit(col))
	}
}

// Clear blanks the framebuffer and homes the cursor
func (c *Canvas) Clear() {
	for i := range c.img.Pix {
		c.img.Pix[i] = 0
	}
	c.cx, c.cy = 0, 0
}

func (c *Canvas) SetTextSize(size int) {
	if size < 1 {
		size = 1
	}
	c.size = size
}

func (c *Canvas) SetCursor(x, y int) {
	c.cx, c.cy = x, y
}

// Print renders s at the cursor and advances it. A newline returns to the
// left edge one line down.
func (c *Canvas) Print(s string) {
	lineHeight := c.face.Height * c.size
	for _, r := range s {
		if r == '\n' {
			c.cx = 0
			c.cy += lineHeight
			continue
		}
		c.cx += c.glyph(r)
	}
}

// glyph draws r at the cursor and returns the scaled advance
func (c *Canvas) glyph(r rune) int {
	dr, mask, mp, adv, ok := c.face.Glyph(fixed.P(0, c.face.Ascent), r)
	step := adv.Round() * c.size
	if !ok {
		return c.face.Advance * c.size
	}
	for y := dr.Min.Y; y < dr.Max.Y; y++ {
		for x := dr.Min.X; x < dr.Max.X; x++ {
			_, _, _, a := mask.At(mp.X+x-dr.Min.X, mp.Y+y-dr.Min.Y).RGBA()
			if a == 0 {
				continue
			}
			if c.size == 1 {
				c.set(c.cx+x, c.cy+y, fichaje.White)
				continue
			}
			c.FillRect(c.cx+x*c.size, c.cy+y*c.size, c.size, c.size, fichaje.White)
		}
	}
	return step
}

// TextBounds returns the width and height s would occupy at the current size
func (c *Canvas) TextBounds(s string) (w, h int) {
	n := 0
	for range s {
		n++
	}
	return n * c.face.Advance * c.size, c.face.Height * c.size
}

// DrawLine uses Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col fichaje.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (c *Canvas) hline(x0, x1, y int, col fichaje.Color) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	for x := x0; x <= x1; x++ {
		c.set(x, y, col)
	}
}

func (c *Canvas) DrawRect(x, y, w, h int, col fichaje.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	c.hline(x, x+w-1, y, col)
	c.hline(x, x+w-1, y+h-1, col)
	for yy := y; yy < y+h; yy++ {
		c.set(x, yy, col)
		c.set(x+w-1, yy, col)
	}
}

func (c *Canvas) FillRect(x, y, w, h int, col fichaje.Color) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			c.set(xx, yy, col)
		}
	}
}

// DrawCircle uses the midpoint circle algorithm
func (c *Canvas) DrawCircle(x0, y0, r int, col fichaje.Color) {
	x, y := r, 0
	e := 1 - r
	for x >= y {
		c.set(x0+x, y0+y, col)
		c.set(x0+y, y0+x, col)
		c.set(x0-y, y0+x, col)
		c.set(x0-x, y0+y, col)
		c.set(x0-x, y0-y, col)
		c.set(x0-y, y0-x, col)
		c.set(x0+y, y0-x, col)
		c.set(x0+x, y0-y, col)
		y++
		if e < 0 {
			e += 2*y + 1
		} else {
			x--
			e += 2*(y-x) + 1
		}
	}
}

func (c *Canvas) FillCircle(x0, y0, r int, col fichaje.Color) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r+r {
				c.set(x0+dx, y0+dy, col)
			}
		}
	}
}

// FillTriangle fills scanlines between the triangle's edges
func (c *Canvas) FillTriangle(x0, y0, x1, y1, x2, y2 int, col fichaje.Color) {
	// sort by y
	if y0 > y1 {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}
	if y1 > y2 {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}
	if y0 > y1 {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}

	if y0 == y2 {
		lo, hi := min(x0, x1, x2), max(x0, x1, x2)
		c.hline(lo, hi, y0, col)
		return
	}

	for y := y0; y <= y2; y++ {
		xa := edgeX(x0, y0, x2, y2, y)
		xb := edgeX(x1, y1, x2, y2, y)
		if y < y1 || y1 == y2 {
			xb = edgeX(x0, y0, x1, y1, y)
		}
		c.hline(xa, xb, y, col)
	}
}

// edgeX interpolates the x coordinate of edge (x0,y0)-(x1,y1) at row y
func edgeX(x0, y0, x1, y1, y int) int {
	if y1 == y0 {
		return x0
	}
	return x0 + (x1-x0)*(y-y0)/(y1-y0)
}

// Flush is a no-op for a bare canvas
func (*Canvas) Flush() error {
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var _ fichaje.Display = (*Canvas)(nil)
