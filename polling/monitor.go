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

package polling

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ZaparooProject/go-fichaje"
)

// DefaultPollInterval separates pipeline cycles
const DefaultPollInterval = 50 * time.Millisecond

// MonitorConfig holds the loop's settings
type MonitorConfig struct {
	PollInterval time.Duration
}

// DefaultMonitorConfig returns the standard loop settings
func DefaultMonitorConfig() *MonitorConfig {
	return &MonitorConfig{PollInterval: DefaultPollInterval}
}

// Monitor is the terminal's control loop
type Monitor struct {
	pipeline *Pipeline
	config   *MonitorConfig
	clock    fichaje.Clock
	log      zerolog.Logger
	// OnTransaction runs after every completed card event
	OnTransaction func(txn *Transaction)
	processed     int
}

// NewMonitor creates a loop around pipeline
func NewMonitor(pipeline *Pipeline, config *MonitorConfig, log zerolog.Logger) *Monitor {
	if config == nil {
		config = DefaultMonitorConfig()
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	return &Monitor{
		pipeline: pipeline,
		config:   config,
		clock:    pipeline.clock,
		log:      log,
	}
}

// Start runs the loop until ctx is cancelled. A card event in progress is
// always finished before the loop notices cancellation.
func (m *Monitor) Start(ctx context.Context) error {
	return m.continuousPolling(ctx)
}

// Processed returns the number of completed card events
func (m *Monitor) Processed() int {
	return m.processed
}

// Pipeline returns the monitored pipeline
func (m *Monitor) Pipeline() *Pipeline {
	return m.pipeline
}

func (m *Monitor) continuousPolling(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		txn, err := m.pipeline.Poll(ctx)
		switch {
		case errors.Is(err, ErrNoCardInPoll):
		case err != nil:
			m.log.Error().Err(err).Msg("poll failed")
		case txn != nil:
			m.processed++
			if m.OnTransaction != nil {
				m.OnTransaction(txn)
			}
		}

		m.clock.Sleep(m.config.PollInterval)
	}
}
