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

// Package connectivity brings the terminal online once at start-up.
//
// The supervisor shows the connecting animation, asks the network adapter
// to join, then polls the link a fixed number of times. It never reconnects
// on its own: after exhaustion the terminal keeps running offline and every
// verification fails closed.
package connectivity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ZaparooProject/go-fichaje"
	"github.com/ZaparooProject/go-fichaje/internal/retry"
)

const (
	// DefaultAttempts is the number of link checks after the first one
	DefaultAttempts = 30
	// DefaultInterval separates link checks
	DefaultInterval = 500 * time.Millisecond
)

// Joiner is the network adapter
type Joiner interface {
	Join(ssid, password string) error
	Connected() bool
	LocalIP() string
}

// Feedback shows connection progress
type Feedback interface {
	Connecting()
	Connected(addr string)
	ConnectionFailed()
}

// Config holds the credentials and the polling schedule
type Config struct {
	SSID     string
	Password string
	Attempts int
	Interval time.Duration
}

// Supervisor owns the connection state
type Supervisor struct {
	joiner   Joiner
	feedback Feedback
	clock    fichaje.Clock
	log      zerolog.Logger
	cfg      Config
	state    fichaje.ConnectionState
	mu       sync.RWMutex
}

// Option configures a Supervisor
type Option func(*Supervisor)

// WithLogger sets the supervisor's logger
func WithLogger(log zerolog.Logger) Option {
	return func(s *Supervisor) {
		s.log = log
	}
}

// New creates a supervisor in the Disconnected state
func New(joiner Joiner, feedback Feedback, clock fichaje.Clock, cfg Config, opts ...Option) *Supervisor {
	if cfg.Attempts <= 0 {
		cfg.Attempts = DefaultAttempts
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	s := &Supervisor{
		joiner:   joiner,
		feedback: feedback,
		clock:    clock,
		cfg:      cfg,
		state:    fichaje.StateDisconnected,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current connection state
func (s *Supervisor) State() fichaje.ConnectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Online reports whether the supervisor connected and the link is still up
func (s *Supervisor) Online() bool {
	return s.State() == fichaje.StateConnected && s.joiner.Connected()
}

// LocalIP returns the terminal's current address
func (s *Supervisor) LocalIP() string {
	return s.joiner.LocalIP()
}

func (s *Supervisor) setState(state fichaje.ConnectionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// Run performs the one-shot connection sequence. It returns a connectivity
// error after exhaustion; the caller is expected to log it and carry on.
// Cancelling ctx stops polling early and leaves the state Failed.
func (s *Supervisor) Run(ctx context.Context) error {
	s.setState(fichaje.StateConnecting)
	s.log.Info().Str("ssid", s.cfg.SSID).Msg("connecting")
	s.feedback.Connecting()

	if err := s.joiner.Join(s.cfg.SSID, s.cfg.Password); err != nil {
		// The adapter may still associate on its own; keep polling.
		s.log.Warn().Err(err).Msg("join request failed")
	}

	err := retry.Until(retry.Config{
		Sleep:       s.clock.Sleep,
		MaxRetries:  s.cfg.Attempts,
		RetryDelay:  s.cfg.Interval,
		Description: "waiting for link",
		OnRetry: func(attempt int) error {
			s.log.Trace().Int("attempt", attempt).Msg("link not up yet")
			return ctx.Err()
		},
	}, s.joiner.Connected)
	if err != nil {
		s.setState(fichaje.StateFailed)
		s.log.Error().Err(err).Msg("connection failed")
		s.feedback.ConnectionFailed()
		if !errors.Is(err, retry.ErrExhausted) {
			return err
		}
		return fichaje.NewConnectivityError("connect", err)
	}

	addr := s.joiner.LocalIP()
	s.setState(fichaje.StateConnected)
	s.log.Info().Str("ip", addr).Msg("connected")
	s.feedback.Connected(addr)
	return nil
}
