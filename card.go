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
	"encoding/hex"
	"strings"
)

// CardID is the identifier of a proximity card: its UID bytes rendered as
// uppercase hexadecimal, two digits per byte, without separators.
type CardID string

// FormatUID renders a UID as a CardID. Leading zeros are preserved, so the
// result is always exactly twice as long as uid.
func FormatUID(uid []byte) CardID {
	return CardID(strings.ToUpper(hex.EncodeToString(uid)))
}

// String returns the hex form of the identifier
func (c CardID) String() string {
	return string(c)
}
