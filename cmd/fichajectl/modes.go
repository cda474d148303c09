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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/go-fichaje"
	"github.com/ZaparooProject/go-fichaje/feedback"
	"github.com/ZaparooProject/go-fichaje/remote"
)

// Verifier is the part of the backend client the tool uses
type Verifier interface {
	VerifyCard(ctx context.Context, id fichaje.CardID) (bool, error)
	TestConnection(ctx context.Context) bool
	BaseURL() string
}

// Modes handles the different operating modes
type Modes struct {
	config    *Config
	output    *Output
	clock     fichaje.Clock
	client    func() (Verifier, error)
	presenter func() (*feedback.Presenter, func(), error)
	reader    func() (fichaje.CardReader, func(), error)
}

// NewModes creates a new modes handler. The factories are only called by
// the modes that need them.
func NewModes(
	config *Config, output *Output, clock fichaje.Clock,
	client func() (Verifier, error),
	presenter func() (*feedback.Presenter, func(), error),
	reader func() (fichaje.CardReader, func(), error),
) *Modes {
	return &Modes{
		config:    config,
		output:    output,
		clock:     clock,
		client:    client,
		presenter: presenter,
		reader:    reader,
	}
}

// Run dispatches to the configured mode
func (m *Modes) Run(ctx context.Context) error {
	switch m.config.Mode {
	case ModeFeedback:
		return m.RunFeedback(ctx)
	case ModePing:
		return m.RunPing(ctx)
	case ModeVerify:
		return m.RunVerify(ctx)
	case ModeRead:
		return m.RunRead(ctx)
	default:
		return fmt.Errorf("unsupported mode %d", m.config.Mode)
	}
}

type sequence struct {
	play     func()
	name     string
	duration time.Duration
}

// RunFeedback plays every sequence once, stopping early on cancellation
func (m *Modes) RunFeedback(ctx context.Context) error {
	p, closeFn, err := m.presenter()
	if err != nil {
		return fmt.Errorf("failed to open feedback hardware: %w", err)
	}
	defer closeFn()

	sequences := []sequence{
		{name: "idle", play: func() { p.Idle(true) }},
		{name: "reading", play: p.Reading, duration: feedback.ReadingDuration},
		{name: "acknowledge", play: p.Acknowledge, duration: feedback.AcknowledgeDuration},
		{name: "processing", play: p.Processing, duration: feedback.ProcessingDuration},
		{name: "granted", play: p.Granted, duration: feedback.GrantedDuration},
		{name: "accept tone", play: p.AcceptTone},
		{name: "denied", play: p.Denied, duration: feedback.DeniedDuration},
		{name: "deny tone", play: p.DenyTone},
		{name: "registration error", play: p.RegistrationError, duration: feedback.RegistrationErrorDuration},
		{name: "error tone", play: p.ErrorTone},
		{name: "connecting", play: p.Connecting, duration: feedback.ConnectingDuration},
		{name: "connected", play: func() { p.Connected("192.168.1.50") }, duration: feedback.ConnectedDuration},
		{name: "connection failed", play: p.ConnectionFailed, duration: feedback.ConnectionFailedDuration},
		{name: "liveness blink", play: p.LivenessBlink, duration: feedback.LivenessBlinkSpan},
		{name: "liveness tone", play: p.LivenessTone, duration: feedback.LivenessToneWait},
	}

	_, _ = fmt.Fprintln(m.output.w, "Feedback Test - every sequence in turn")
	_, _ = fmt.Fprintln(m.output.w, "======================================")
	for _, s := range sequences {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.output.Step(s.name, s.duration)
		start := m.clock.Now()
		s.play()
		m.output.Verbose("   took %s", m.clock.Now().Sub(start))
		m.clock.Sleep(time.Second)
	}
	m.output.OK("played %d sequences", len(sequences))
	return nil
}

// RunPing sends the backend test message
func (m *Modes) RunPing(ctx context.Context) error {
	c, err := m.client()
	if err != nil {
		return err
	}
	m.output.Info("sending test message to %s", c.BaseURL())
	if !c.TestConnection(ctx) {
		return errors.New("backend did not accept the test message")
	}
	m.output.OK("backend reachable")
	return nil
}

// RunVerify checks one card id
func (m *Modes) RunVerify(ctx context.Context) error {
	if m.config.CardID == "" {
		return errors.New("verify mode needs a card id")
	}
	c, err := m.client()
	if err != nil {
		return err
	}
	id := fichaje.CardID(m.config.CardID)
	return m.verify(ctx, c, id)
}

func (m *Modes) verify(ctx context.Context, c Verifier, id fichaje.CardID) error {
	valid, err := c.VerifyCard(ctx, id)
	if err != nil {
		m.output.Outcome(id, fichaje.OutcomeInvalid)
		return fmt.Errorf("verification failed: %w", err)
	}
	outcome := fichaje.OutcomeInvalid
	if valid {
		outcome = fichaje.OutcomeValid
	}
	m.output.Outcome(id, outcome)
	return nil
}

// RunRead waits for a card, prints its id and verifies it when a backend
// is configured
func (m *Modes) RunRead(ctx context.Context) error {
	r, closeFn, err := m.reader()
	if err != nil {
		return fmt.Errorf("failed to open reader: %w", err)
	}
	defer closeFn()

	m.output.Info("waiting for a card (timeout: %s)", m.config.DetectTimeout)
	deadline := m.clock.Now().Add(m.config.DetectTimeout)
	for m.clock.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.CardPresent() && r.ReadSerial() {
			id := fichaje.FormatUID(r.UIDBytes())
			_ = r.Halt()
			m.output.CardRead(id)
			if m.config.ServerURL == "" {
				return nil
			}
			c, err := m.client()
			if err != nil {
				return err
			}
			return m.verify(ctx, c, id)
		}
		m.clock.Sleep(m.config.PollInterval)
	}
	return fmt.Errorf("no card detected within %s", m.config.DetectTimeout)
}

var _ Verifier = (*remote.Client)(nil)
