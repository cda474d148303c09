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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZaparooProject/go-fichaje"
	vt "github.com/ZaparooProject/go-fichaje/internal/testing"
)

type fixture struct {
	clock     *vt.VirtualClock
	display   *vt.RecordingDisplay
	signals   *vt.RecordingSignals
	wall      *vt.VirtualWallClock
	presenter *Presenter
}

func newFixture(t *testing.T, synced bool) *fixture {
	t.Helper()
	clock := vt.NewVirtualClock()
	f := &fixture{
		clock:   clock,
		display: vt.NewRecordingDisplay(),
		signals: vt.NewRecordingSignals(clock),
		wall:    vt.NewVirtualWallClock(clock, synced),
	}
	f.presenter = New(f.display, f.signals, f.clock, f.wall)
	return f
}

// timed runs fn and returns the virtual time it took
func (f *fixture) timed(fn func()) time.Duration {
	start := f.clock.Now()
	fn()
	return f.clock.Now().Sub(start)
}

func assertWithinTolerance(t *testing.T, nominal, got time.Duration) {
	t.Helper()
	low := time.Duration(float64(nominal) * 0.8)
	high := time.Duration(float64(nominal) * 1.2)
	assert.GreaterOrEqual(t, got, low, "duration %s below %s", got, nominal)
	assert.LessOrEqual(t, got, high, "duration %s above %s", got, nominal)
}

func TestPresenter_Durations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		run     func(p *Presenter)
		name    string
		nominal time.Duration
		want    time.Duration
	}{
		{name: "Reading", run: (*Presenter).Reading, nominal: 770 * time.Millisecond, want: ReadingDuration},
		{name: "Acknowledge", run: (*Presenter).Acknowledge, nominal: 480 * time.Millisecond, want: AcknowledgeDuration},
		{name: "Processing", run: (*Presenter).Processing, nominal: 1400 * time.Millisecond, want: ProcessingDuration},
		{name: "Granted", run: (*Presenter).Granted, nominal: 1700 * time.Millisecond, want: GrantedDuration},
		{name: "Denied", run: (*Presenter).Denied, nominal: 1680 * time.Millisecond, want: DeniedDuration},
		{
			name: "RegistrationError", run: (*Presenter).RegistrationError,
			nominal: 1900 * time.Millisecond, want: RegistrationErrorDuration,
		},
		{name: "Connecting", run: (*Presenter).Connecting, nominal: 2 * time.Second, want: ConnectingDuration},
		{
			name: "Connected", run: func(p *Presenter) { p.Connected("192.168.1.50") },
			nominal: 2660 * time.Millisecond, want: ConnectedDuration,
		},
		{
			name: "ConnectionFailed", run: (*Presenter).ConnectionFailed,
			nominal: 2400 * time.Millisecond, want: ConnectionFailedDuration,
		},
		{name: "AcceptTone", run: (*Presenter).AcceptTone, nominal: 540 * time.Millisecond, want: 540 * time.Millisecond},
		{name: "DenyTone", run: (*Presenter).DenyTone, nominal: 750 * time.Millisecond, want: 750 * time.Millisecond},
		{name: "ErrorTone", run: (*Presenter).ErrorTone, nominal: 750 * time.Millisecond, want: 750 * time.Millisecond},
		{name: "LivenessTone", run: (*Presenter).LivenessTone, nominal: 50 * time.Millisecond, want: LivenessToneWait},
		{name: "LivenessBlink", run: (*Presenter).LivenessBlink, nominal: 50 * time.Millisecond, want: LivenessBlinkSpan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, true)
			got := f.timed(func() { tt.run(f.presenter) })
			assert.Equal(t, tt.want, got)
			assertWithinTolerance(t, tt.nominal, got)
		})
	}
}

func TestPresenter_LEDsEndOff(t *testing.T) {
	t.Parallel()
	routines := map[string]func(p *Presenter){
		"Reading":           (*Presenter).Reading,
		"Acknowledge":       (*Presenter).Acknowledge,
		"Processing":        (*Presenter).Processing,
		"Granted":           (*Presenter).Granted,
		"Denied":            (*Presenter).Denied,
		"RegistrationError": (*Presenter).RegistrationError,
		"Connecting":        (*Presenter).Connecting,
		"Connected":         func(p *Presenter) { p.Connected("10.0.0.2") },
		"ConnectionFailed":  (*Presenter).ConnectionFailed,
	}

	for name, run := range routines {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, true)
			run(f.presenter)
			assert.False(t, f.signals.LEDState(fichaje.LEDGreen), "green left on")
			assert.False(t, f.signals.LEDState(fichaje.LEDRed), "red left on")
		})
	}
}

func TestPresenter_Granted(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	f.presenter.Granted()

	assert.True(t, f.display.Printed(textGranted))
	assert.Contains(t, f.display.Ops(), "rect 5,5 118x54")
	assert.Contains(t, f.display.Ops(), "rect 6,6 116x52")
	// Three pulses and the solid hold
	assert.Equal(t, 4, f.signals.LEDOnCount(fichaje.LEDGreen))
	assert.Equal(t, 0, f.signals.LEDOnCount(fichaje.LEDRed))
}

func TestPresenter_Denied(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	f.presenter.Denied()

	assert.True(t, f.display.Printed(textDenied))
	assert.Equal(t, 4, f.signals.LEDOnCount(fichaje.LEDRed))
	assert.Equal(t, 0, f.signals.LEDOnCount(fichaje.LEDGreen))
	// Framed and cleared phases each flush, plus the solid phase
	assert.Equal(t, 7, f.display.Flushes())
}

func TestPresenter_RegistrationError(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	f.presenter.RegistrationError()

	assert.True(t, f.display.Printed(textRegError))
	assert.True(t, f.display.Printed(textRetry))
	assert.Contains(t, f.display.Ops(), "filltriangle 64,10 50,35 78,35")
	assert.Equal(t, 6, f.signals.LEDOnCount(fichaje.LEDRed))
	assert.Equal(t, 5, f.signals.LEDOnCount(fichaje.LEDGreen))
}

func TestPresenter_ToneSweeps(t *testing.T) {
	t.Parallel()

	t.Run("Processing", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, true)
		f.presenter.Processing()
		assert.Equal(t, []int{1500, 1600, 1700, 1800}, f.signals.Tones())
		assert.True(t, f.display.Printed("...."))
	})

	t.Run("Connecting", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, true)
		f.presenter.Connecting()
		tones := f.signals.Tones()
		require.Len(t, tones, 10)
		assert.Equal(t, 2000, tones[0])
		assert.Equal(t, 2450, tones[9])
		assert.Equal(t, 10, f.display.Flushes())
		assert.Contains(t, f.display.Ops(), "fillrect 16,52 108x4 true")
	})

	t.Run("ConnectionFailed", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, true)
		f.presenter.ConnectionFailed()
		assert.Equal(t, []int{400, 370, 340, 310, 280, 250}, f.signals.Tones())
		assert.Equal(t, 6, f.signals.LEDOnCount(fichaje.LEDRed))
		assert.True(t, f.display.Printed(textNoLink))
	})

	t.Run("Acknowledge", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, true)
		f.presenter.Acknowledge()
		assert.Equal(t, []int{AckToneHz, AckToneHz}, f.signals.Tones())
	})
}

func TestPresenter_Connected(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	f.presenter.Connected("192.168.1.50")

	assert.True(t, f.display.Printed(textConnected))
	assert.True(t, f.display.Printed("192.168.1.50"))
	assert.Equal(t, []int{1000, 1500, 2000}, f.signals.Tones())
	assert.Equal(t, 5, f.signals.LEDOnCount(fichaje.LEDGreen))
}

func TestPresenter_Melodies(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	f.presenter.AcceptTone()
	assert.Equal(t, []int{1047, 1319, 1568}, f.signals.Tones())

	f.signals.Reset()
	f.presenter.DenyTone()
	assert.Equal(t, []int{800, 400}, f.signals.Tones())

	f.signals.Reset()
	f.presenter.ErrorTone()
	assert.Equal(t, []int{300, 300, 300}, f.signals.Tones())

	events := f.signals.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, vt.SignalNoTone, events[len(events)-1].Kind)
}

func TestPresenter_Idle(t *testing.T) {
	t.Parallel()

	t.Run("UnsyncedShowsReadyScreen", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, false)
		f.presenter.Idle(true)
		assert.True(t, f.display.Printed("SISTEMA"))
		assert.True(t, f.display.Printed("FICHAJE"))
		assert.True(t, f.display.Printed(textReady))
		assert.Equal(t, 1, f.display.Flushes())
	})

	t.Run("SyncedShowsTimeAndDate", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, true)
		f.presenter.Idle(true)
		assert.True(t, f.display.Printed("08:00"))
		assert.True(t, f.display.Printed("03/03/2025"))
		assert.True(t, f.display.Printed(textReady))
	})

	t.Run("ConnectedIconHasRings", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, true)
		f.presenter.Idle(true)
		assert.Contains(t, f.display.Ops(), "circle 118,7 r7")
		assert.NotContains(t, f.display.Ops(), "line 112,1 124,13")
	})

	t.Run("DisconnectedIconIsCrossed", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, true)
		f.presenter.Idle(false)
		assert.Contains(t, f.display.Ops(), "line 112,1 124,13")
		assert.NotContains(t, f.display.Ops(), "circle 118,7 r7")
	})

	t.Run("DotBlinksEveryHalfSecond", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, true)
		dot := "fillcircle 64,58 r2"

		f.presenter.Idle(true)
		assert.Contains(t, f.display.Ops(), dot)

		f.display.Reset()
		f.clock.Advance(BlinkPeriod)
		f.presenter.Idle(true)
		assert.NotContains(t, f.display.Ops(), dot)

		f.display.Reset()
		f.clock.Advance(BlinkPeriod)
		f.presenter.Idle(true)
		assert.Contains(t, f.display.Ops(), dot)
	})
}

func TestPresenter_FlushErrorIsNotFatal(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)
	f.display.FlushErr = errors.New("i2c nack")

	assert.NotPanics(t, func() {
		f.presenter.Granted()
	})
	assert.Equal(t, GrantedDuration, f.clock.Elapsed())
}
