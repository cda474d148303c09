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

// Package peripheral checks that the device nodes the terminal needs are
// usable before any driver touches them.
package peripheral

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/ZaparooProject/go-fichaje"
)

// access is swapped in tests
var access = unix.Access

// Preflight verifies read and write access to every device node in paths.
// All failures are reported together.
func Preflight(paths ...string) error {
	var errs []error
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := access(p, unix.R_OK|unix.W_OK); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p, err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fichaje.NewPeripheralError("preflight", errors.Join(errs...))
}
