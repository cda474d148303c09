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
	"time"
)

// Mode is what the bench tool does
type Mode int

const (
	// ModeFeedback plays every feedback sequence on the hardware
	ModeFeedback Mode = iota
	// ModePing sends the backend test message
	ModePing
	// ModeVerify checks one card id with the backend
	ModeVerify
	// ModeRead waits for a card and prints its id
	ModeRead
)

var modeNames = map[string]Mode{
	"feedback": ModeFeedback,
	"ping":     ModePing,
	"verify":   ModeVerify,
	"read":     ModeRead,
}

// ParseMode resolves a mode name
func ParseMode(name string) (Mode, error) {
	m, ok := modeNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown mode %q (want feedback, ping, verify or read)", name)
	}
	return m, nil
}

// Config holds the tool's settings
type Config struct {
	ConfigPath    string
	ServerURL     string
	CardID        string
	Mode          Mode
	DetectTimeout time.Duration
	PollInterval  time.Duration
	Verbose       bool
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Mode:          ModeFeedback,
		DetectTimeout: 30 * time.Second,
		PollInterval:  50 * time.Millisecond,
	}
}
