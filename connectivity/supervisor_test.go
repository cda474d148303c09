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

package connectivity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZaparooProject/go-fichaje"
	"github.com/ZaparooProject/go-fichaje/feedback"
	vt "github.com/ZaparooProject/go-fichaje/internal/testing"
)

// fakeJoiner comes up after upAfter link checks; upAfter < 0 never does
type fakeJoiner struct {
	joinErr  error
	ssid     string
	password string
	checks   int
	upAfter  int
	joins    int
	mu       sync.Mutex
}

func (j *fakeJoiner) Join(ssid, password string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.joins++
	j.ssid, j.password = ssid, password
	return j.joinErr
}

func (j *fakeJoiner) Connected() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.checks++
	return j.upAfter >= 0 && j.checks >= j.upAfter
}

func (j *fakeJoiner) LocalIP() string {
	return "192.168.1.50"
}

func (j *fakeJoiner) Checks() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.checks
}

type fakeFeedback struct {
	calls []string
	addr  string
}

func (f *fakeFeedback) Connecting()       { f.calls = append(f.calls, "connecting") }
func (f *fakeFeedback) ConnectionFailed() { f.calls = append(f.calls, "failed") }

func (f *fakeFeedback) Connected(addr string) {
	f.calls = append(f.calls, "connected")
	f.addr = addr
}

func TestSupervisor_Connects(t *testing.T) {
	t.Parallel()
	clock := vt.NewVirtualClock()
	joiner := &fakeJoiner{upAfter: 5}
	fb := &fakeFeedback{}
	s := New(joiner, fb, clock, Config{SSID: "Oficina", Password: "secreto"})

	assert.Equal(t, fichaje.StateDisconnected, s.State())
	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, fichaje.StateConnected, s.State())
	assert.Equal(t, []string{"connecting", "connected"}, fb.calls)
	assert.Equal(t, "192.168.1.50", fb.addr)
	assert.Equal(t, "Oficina", joiner.ssid)
	assert.Equal(t, "secreto", joiner.password)
	assert.Equal(t, 5, joiner.Checks())
	assert.Equal(t, 4*DefaultInterval, clock.Elapsed())
	assert.True(t, s.Online())
}

func TestSupervisor_AlreadyUp(t *testing.T) {
	t.Parallel()
	clock := vt.NewVirtualClock()
	s := New(&fakeJoiner{upAfter: 0}, &fakeFeedback{}, clock, Config{})

	require.NoError(t, s.Run(context.Background()))
	assert.Zero(t, clock.Elapsed())
}

func TestSupervisor_Exhaustion(t *testing.T) {
	t.Parallel()
	clock := vt.NewVirtualClock()
	joiner := &fakeJoiner{upAfter: -1}
	fb := &fakeFeedback{}
	s := New(joiner, fb, clock, Config{SSID: "Oficina"})

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, fichaje.ErrConnectivityExhausted)
	assert.False(t, fichaje.IsFatal(err))

	assert.Equal(t, fichaje.StateFailed, s.State())
	assert.False(t, s.Online())
	assert.Equal(t, []string{"connecting", "failed"}, fb.calls)
	assert.Equal(t, DefaultAttempts+1, joiner.Checks())

	sleeps := clock.Sleeps()
	require.Len(t, sleeps, DefaultAttempts)
	for _, d := range sleeps {
		assert.Equal(t, DefaultInterval, d)
	}
	assert.Equal(t, 15*time.Second, clock.Elapsed())
}

func TestSupervisor_JoinErrorKeepsPolling(t *testing.T) {
	t.Parallel()
	joiner := &fakeJoiner{upAfter: 3, joinErr: errors.New("nmcli: exit status 10")}
	s := New(joiner, &fakeFeedback{}, vt.NewVirtualClock(), Config{})

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, fichaje.StateConnected, s.State())
}

func TestSupervisor_Cancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fb := &fakeFeedback{}
	s := New(&fakeJoiner{upAfter: -1}, fb, vt.NewVirtualClock(), Config{})

	err := s.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, fichaje.StateFailed, s.State())
	assert.Equal(t, []string{"connecting", "failed"}, fb.calls)
}

func TestSupervisor_WithPresenter(t *testing.T) {
	t.Parallel()
	clock := vt.NewVirtualClock()
	display := vt.NewRecordingDisplay()
	signals := vt.NewRecordingSignals(clock)
	p := feedback.New(display, signals, clock, vt.NewVirtualWallClock(clock, false))

	s := New(&fakeJoiner{upAfter: -1}, p, clock, Config{})
	require.Error(t, s.Run(context.Background()))

	assert.True(t, display.Printed("CONECTANDO"))
	assert.True(t, display.Printed("SIN CONEXION"))
	assert.False(t, display.Printed("CONECTADO"))
	want := feedback.ConnectingDuration + 15*time.Second + feedback.ConnectionFailedDuration
	assert.Equal(t, want, clock.Elapsed())
}
