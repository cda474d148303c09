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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ZaparooProject/go-fichaje"
)

func TestCanvas_Primitives(t *testing.T) {
	t.Parallel()

	t.Run("HorizontalLine", func(t *testing.T) {
		t.Parallel()
		c := NewCanvas(Width, Height)
		c.DrawLine(0, 8, 127, 8, fichaje.White)
		assert.Equal(t, 128, c.Lit())
		assert.True(t, c.Pixel(0, 8))
		assert.True(t, c.Pixel(127, 8))
		assert.False(t, c.Pixel(0, 7))
	})

	t.Run("DiagonalLineEndpoints", func(t *testing.T) {
		t.Parallel()
		c := NewCanvas(Width, Height)
		c.DrawLine(112, 1, 124, 13, fichaje.White)
		assert.True(t, c.Pixel(112, 1))
		assert.True(t, c.Pixel(124, 13))
		assert.Equal(t, 13, c.Lit())
	})

	t.Run("RectOutline", func(t *testing.T) {
		t.Parallel()
		c := NewCanvas(Width, Height)
		c.DrawRect(5, 5, 118, 54, fichaje.White)
		assert.True(t, c.Pixel(5, 5))
		assert.True(t, c.Pixel(122, 58))
		assert.False(t, c.Pixel(6, 6))
		assert.Equal(t, 2*118+2*52, c.Lit())
	})

	t.Run("FillRectAndErase", func(t *testing.T) {
		t.Parallel()
		c := NewCanvas(Width, Height)
		c.FillRect(10, 10, 4, 3, fichaje.White)
		assert.Equal(t, 12, c.Lit())
		c.FillRect(10, 10, 2, 3, fichaje.Black)
		assert.Equal(t, 6, c.Lit())
	})

	t.Run("Circle", func(t *testing.T) {
		t.Parallel()
		c := NewCanvas(Width, Height)
		c.DrawCircle(64, 32, 7, fichaje.White)
		assert.True(t, c.Pixel(71, 32))
		assert.True(t, c.Pixel(57, 32))
		assert.True(t, c.Pixel(64, 25))
		assert.True(t, c.Pixel(64, 39))
		assert.False(t, c.Pixel(64, 32))
	})

	t.Run("FilledCircle", func(t *testing.T) {
		t.Parallel()
		c := NewCanvas(Width, Height)
		c.FillCircle(64, 58, 2, fichaje.White)
		assert.True(t, c.Pixel(64, 58))
		assert.True(t, c.Pixel(66, 58))
		assert.False(t, c.Pixel(66, 60))
	})

	t.Run("Triangle", func(t *testing.T) {
		t.Parallel()
		c := NewCanvas(Width, Height)
		c.FillTriangle(64, 10, 50, 35, 78, 35, fichaje.White)
		assert.True(t, c.Pixel(64, 10))
		assert.True(t, c.Pixel(64, 30))
		assert.True(t, c.Pixel(50, 35))
		assert.True(t, c.Pixel(78, 35))
		assert.False(t, c.Pixel(50, 12))
		assert.False(t, c.Pixel(64, 36))
	})

	t.Run("ClipsOutsidePanel", func(t *testing.T) {
		t.Parallel()
		c := NewCanvas(Width, Height)
		assert.NotPanics(t, func() {
			c.FillRect(-10, -10, 300, 300, fichaje.White)
			c.DrawCircle(0, 0, 100, fichaje.White)
		})
		assert.Equal(t, Width*Height, c.Lit())
	})
}

func TestCanvas_Text(t *testing.T) {
	t.Parallel()

	t.Run("BoundsScaleWithSize", func(t *testing.T) {
		t.Parallel()
		c := NewCanvas(Width, Height)
		w, h := c.TextBounds("08:00")
		assert.Equal(t, 35, w)
		assert.Equal(t, 13, h)

		c.SetTextSize(3)
		w, h = c.TextBounds("08:00")
		assert.Equal(t, 105, w)
		assert.Equal(t, 39, h)
	})

	t.Run("PrintAdvancesCursor", func(t *testing.T) {
		t.Parallel()
		c := NewCanvas(Width, Height)
		c.SetCursor(0, 0)
		c.Print("A")
		lit := c.Lit()
		assert.Positive(t, lit)

		c.Print(" ")
		assert.Equal(t, lit, c.Lit())
	})

	t.Run("LargerSizeLightsMorePixels", func(t *testing.T) {
		t.Parallel()
		small := NewCanvas(Width, Height)
		small.Print("OK")

		big := NewCanvas(Width, Height)
		big.SetTextSize(2)
		big.Print("OK")

		assert.Equal(t, small.Lit()*4, big.Lit())
	})

	t.Run("ClearResets", func(t *testing.T) {
		t.Parallel()
		c := NewCanvas(Width, Height)
		c.SetCursor(10, 10)
		c.Print("PERMITIDO")
		c.Clear()
		assert.Zero(t, c.Lit())
	})
}
