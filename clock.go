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

import (
	"context"
	"time"
)

// Clock is the monotonic time source used for presentation delays and idle
// cadence. Sleep blocks for the full duration; there is no cancellation.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// WallClock provides synchronized calendar time for the idle screen.
// Now reports false until a synchronization has succeeded.
type WallClock interface {
	Now() (time.Time, bool)
	Sync(ctx context.Context) error
}

// RealClock implements Clock using the runtime's monotonic clock
type RealClock struct{}

// Now returns the current time including its monotonic reading
func (RealClock) Now() time.Time {
	return time.Now()
}

// Sleep pauses the calling goroutine for d
func (RealClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

var _ Clock = RealClock{}
