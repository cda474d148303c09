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

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ZaparooProject/go-fichaje"
)

// Output handles consistent formatting of messages
type Output struct {
	w       io.Writer
	verbose bool
}

// NewOutput creates a new output handler writing to stdout
func NewOutput(verbose bool) *Output {
	return &Output{w: os.Stdout, verbose: verbose}
}

// Step announces a feedback sequence about to play
func (o *Output) Step(name string, d time.Duration) {
	_, _ = fmt.Fprintf(o.w, "PLAY: %-20s %s\n", name, d)
}

// CardRead prints a card id picked up by the reader
func (o *Output) CardRead(id fichaje.CardID) {
	_, _ = fmt.Fprintf(o.w, "\nCARD: %s\n", id)
}

// Outcome prints a verification result
func (o *Output) Outcome(id fichaje.CardID, outcome fichaje.Outcome) {
	_, _ = fmt.Fprintf(o.w, "RESULT: %s -> %s\n", id, outcome.Tag())
}

// Error prints an error message
func (o *Output) Error(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, "ERROR: "+format+"\n", args...)
}

// Warning prints a warning message
func (o *Output) Warning(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, "WARNING: "+format+"\n", args...)
}

// Info prints an info message
func (o *Output) Info(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, "INFO: "+format+"\n", args...)
}

// OK prints a success message
func (o *Output) OK(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, "OK: "+format+"\n", args...)
}

// Verbose prints only if verbose mode is enabled
func (o *Output) Verbose(format string, args ...any) {
	if o.verbose {
		_, _ = fmt.Fprintf(o.w, format+"\n", args...)
	}
}
