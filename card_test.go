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
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want CardID
		uid  []byte
	}{
		{name: "single zero byte", uid: []byte{0x00}, want: "00"},
		{name: "two bytes with leading zero", uid: []byte{0x0A, 0x3F}, want: "0A3F"},
		{name: "four byte uid", uid: []byte{0xDE, 0xAD, 0xBE, 0xEF}, want: "DEADBEEF"},
		{name: "leading zeros kept", uid: []byte{0x04, 0x0A, 0x00, 0x01}, want: "040A0001"},
		{name: "seven byte uid", uid: []byte{0x04, 0x52, 0x8C, 0x1A, 0x33, 0x61, 0x80}, want: "04528C1A336180"},
		{
			name: "ten byte uid",
			uid:  []byte{0x00, 0x01, 0x0F, 0x10, 0x7F, 0x80, 0xA5, 0xC3, 0xF0, 0xFF},
			want: "00010F107F80A5C3F0FF",
		},
		{name: "empty", uid: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := FormatUID(tt.uid)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got.String(), 2*len(tt.uid))
		})
	}
}

func TestFormatUID_AllLengths(t *testing.T) {
	t.Parallel()

	hexUpper := regexp.MustCompile(`^[0-9A-F]+$`)
	rng := rand.New(rand.NewSource(42))

	for n := 1; n <= 10; n++ {
		for i := 0; i < 50; i++ {
			uid := make([]byte, n)
			_, _ = rng.Read(uid)
			if i == 0 {
				uid[0] = 0x00
			}

			got := FormatUID(uid).String()
			require.Len(t, got, 2*n, "uid % X", uid)
			require.Regexp(t, hexUpper, got)
			for j, b := range uid {
				require.Equal(t, "0123456789ABCDEF"[b>>4], got[2*j], "uid % X", uid)
				require.Equal(t, "0123456789ABCDEF"[b&0x0F], got[2*j+1], "uid % X", uid)
			}
		}
	}
}

func TestOutcome_Tag(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "VALIDO", OutcomeValid.Tag())
	assert.Equal(t, "INVALIDO", OutcomeInvalid.Tag())
	assert.Equal(t, "ERROR", OutcomeRegistrationError.Tag())
	assert.Equal(t, "INVALIDO", Outcome(9).Tag())

	assert.Equal(t, "registration_error", OutcomeRegistrationError.String())
	assert.Equal(t, "invalid", OutcomeInvalid.String())
	assert.Equal(t, "valid", OutcomeValid.String())
	assert.Equal(t, "unknown", Outcome(9).String())
}

func TestConnectionState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "disconnected", StateDisconnected.String())
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "connected", StateConnected.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "green", LEDGreen.String())
	assert.Equal(t, "red", LEDRed.String())
}
