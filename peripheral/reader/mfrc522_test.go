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

package reader

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZaparooProject/go-fichaje"
)

// fakeChip behaves like the periph driver: Halt closes the stop channel,
// after which every read fails and a second Halt panics.
type fakeChip struct {
	stop    chan struct{}
	card    []byte
	reads   int
	answers bool
	mu      sync.Mutex
}

func newFakeChip() *fakeChip {
	return &fakeChip{stop: make(chan struct{}), answers: true}
}

func (c *fakeChip) ReadUID(time.Duration) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads++
	select {
	case <-c.stop:
		return nil, errors.New("mfrc522 lowlevel: halt")
	default:
	}
	if c.card == nil || !c.answers {
		return nil, errors.New("timeout")
	}
	return append([]byte(nil), c.card...), nil
}

func (c *fakeChip) Halt() error {
	close(c.stop)
	return nil
}

func (c *fakeChip) place(uid []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.card = uid
	c.answers = true
}

func (c *fakeChip) remove() {
	c.place(nil)
}

type fakePort struct {
	closes int
}

func (p *fakePort) Close() error {
	p.closes++
	return nil
}

type readerFixture struct {
	chip    *fakeChip
	port    *fakePort
	reader  *MFRC522
	hltaErr error
	hltas   int
}

func newReaderFixture() *readerFixture {
	f := &readerFixture{chip: newFakeChip(), port: &fakePort{}}
	f.reader = newMFRC522(f.chip, func() error {
		f.hltas++
		if f.hltaErr == nil {
			// The halted card stops answering REQA
			f.chip.mu.Lock()
			f.chip.answers = false
			f.chip.mu.Unlock()
		}
		return f.hltaErr
	}, f.port, 0)
	return f
}

func TestMFRC522_ReadsCard(t *testing.T) {
	t.Parallel()
	f := newReaderFixture()

	assert.False(t, f.reader.CardPresent())
	assert.False(t, f.reader.ReadSerial())

	f.chip.place([]byte{0x0A, 0x3F})
	require.True(t, f.reader.CardPresent())
	require.True(t, f.reader.ReadSerial())
	assert.Equal(t, []byte{0x0A, 0x3F}, f.reader.UIDBytes())
	assert.Equal(t, DefaultPollTimeout, f.reader.timeout)
}

func TestMFRC522_RepeatedHalt(t *testing.T) {
	t.Parallel()
	f := newReaderFixture()
	f.chip.place([]byte{0x01, 0x02, 0x03, 0x04})
	require.True(t, f.reader.CardPresent())

	assert.NotPanics(t, func() {
		require.NoError(t, f.reader.Halt())
		require.NoError(t, f.reader.Halt())
		require.NoError(t, f.reader.Halt())
	})
	assert.Equal(t, 3, f.hltas)
	assert.False(t, f.reader.ReadSerial())
	assert.Empty(t, f.reader.UIDBytes())
}

func TestMFRC522_DetectsAgainAfterHalt(t *testing.T) {
	t.Parallel()
	f := newReaderFixture()

	first := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	f.chip.place(first)
	require.True(t, f.reader.CardPresent())
	require.NoError(t, f.reader.Halt())

	// Halted card still in the field
	assert.False(t, f.reader.CardPresent())

	f.chip.remove()
	assert.False(t, f.reader.CardPresent())

	second := []byte{0x04, 0x52, 0x8C, 0x1A}
	f.chip.place(second)
	require.True(t, f.reader.CardPresent(), "reader keeps working after a halt")
	assert.Equal(t, second, f.reader.UIDBytes())
	require.NoError(t, f.reader.Halt())

	f.chip.remove()
	assert.False(t, f.reader.CardPresent())
	f.chip.place(first)
	assert.True(t, f.reader.CardPresent(), "same card tapped again is a new transaction")
}

func TestMFRC522_HaltedCardThatStillAnswersIsSuppressed(t *testing.T) {
	t.Parallel()
	f := newReaderFixture()

	uid := []byte{0x11, 0x22, 0x33, 0x44}
	f.chip.place(uid)
	require.True(t, f.reader.CardPresent())
	require.NoError(t, f.reader.Halt())

	// The card missed the HLTA and keeps answering
	f.chip.place(uid)
	for i := 0; i < 5; i++ {
		assert.False(t, f.reader.CardPresent())
	}

	other := []byte{0x55, 0x66, 0x77, 0x88}
	f.chip.place(other)
	assert.True(t, f.reader.CardPresent(), "a different card is read straight away")
}

func TestMFRC522_HaltError(t *testing.T) {
	t.Parallel()
	f := newReaderFixture()
	f.hltaErr = errors.New("crc timeout")

	f.chip.place([]byte{0x01})
	require.True(t, f.reader.CardPresent())

	err := f.reader.Halt()
	require.ErrorIs(t, err, fichaje.ErrPeripheral)
	assert.False(t, f.reader.ReadSerial(), "UID is dropped even when HLTA fails")
}

func TestMFRC522_CloseAfterHalt(t *testing.T) {
	t.Parallel()
	f := newReaderFixture()
	f.chip.place([]byte{0x0A, 0x3F})
	require.True(t, f.reader.CardPresent())
	require.NoError(t, f.reader.Halt())

	assert.NotPanics(t, func() {
		require.NoError(t, f.reader.Close())
		require.NoError(t, f.reader.Close())
	})
	assert.Equal(t, 1, f.port.closes)

	reads := f.chip.reads
	assert.False(t, f.reader.CardPresent())
	assert.Equal(t, reads, f.chip.reads, "closed reader does not touch the chip")
	require.ErrorIs(t, f.reader.Halt(), ErrClosed)
}

func TestOpen_RequiresPins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "no IRQ pin", cfg: Config{ResetPin: "GPIO25"}},
		{name: "no reset pin", cfg: Config{IRQPin: "GPIO24"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, err := Open(tt.cfg)
			require.ErrorIs(t, err, fichaje.ErrPeripheral)
			assert.Nil(t, r)
			assert.True(t, fichaje.IsFatal(err))
		})
	}
}
