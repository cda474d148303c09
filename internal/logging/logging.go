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

// Package logging builds the terminal's zerolog logger. Lines go to stderr
// and, when a serial port is configured, to that port as well so the
// terminal can be diagnosed with a USB serial cable.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.bug.st/serial"
)

// DefaultSerialBaud is the diagnostic console speed
const DefaultSerialBaud = 115200

// Options selects the level and sinks
type Options struct {
	// Output replaces stderr
	Output     io.Writer
	Level      string
	SerialPort string
	SerialBaud int
	Debug      bool
	// Console writes human readable lines instead of JSON
	Console bool
}

// openSerial is swapped in tests
var openSerial = func(name string, baud int) (io.WriteCloser, error) {
	port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, err
	}
	return port, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a logger. The returned closer releases the serial port, if
// one was opened.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	} else if opts.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(opts.Level)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("invalid log level: %w", err)
		}
	}

	var out io.Writer = os.Stderr
	if opts.Output != nil {
		out = opts.Output
	}
	if opts.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}

	var closer io.Closer = nopCloser{}
	if opts.SerialPort != "" {
		baud := opts.SerialBaud
		if baud <= 0 {
			baud = DefaultSerialBaud
		}
		port, err := openSerial(opts.SerialPort, baud)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to open serial log port %s: %w", opts.SerialPort, err)
		}
		serialOut := zerolog.ConsoleWriter{Out: port, NoColor: true, TimeFormat: time.TimeOnly}
		out = zerolog.MultiLevelWriter(out, serialOut)
		closer = port
	}

	log := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Logger()
	return log, closer, nil
}

// Component returns a child logger tagged with the component name
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// Close releases every closer, ignoring nil ones
func Close(closers ...io.Closer) error {
	var errs []error
	for _, c := range closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
