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

// Package clock provides the wall clock shown on the idle screen. It is
// synchronized over NTP and rendered in a fixed UTC offset; until the first
// successful sync it reports itself as unsynced.
package clock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/beevik/ntp"
	"github.com/rs/zerolog"

	"github.com/ZaparooProject/go-fichaje"
)

const (
	// DefaultServer is used when no NTP server is configured
	DefaultServer = "pool.ntp.org"
	// DefaultUTCOffset is UTC-6
	DefaultUTCOffset = -6 * time.Hour

	defaultQueryTimeout = 5 * time.Second
)

type queryFunc func(host string, opt ntp.QueryOptions) (*ntp.Response, error)

// NTP is a fichaje.WallClock backed by an NTP server
type NTP struct {
	lastSync time.Time
	query    queryFunc
	now      func() time.Time
	zone     *time.Location
	log      zerolog.Logger
	server   string
	timeout  time.Duration
	offset   time.Duration
	mu       sync.RWMutex
	synced   bool
}

// Option configures an NTP clock
type Option func(*NTP)

// WithLogger sets the logger for sync results
func WithLogger(log zerolog.Logger) Option {
	return func(c *NTP) {
		c.log = log
	}
}

// WithTimeout bounds a single query
func WithTimeout(d time.Duration) Option {
	return func(c *NTP) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New creates an unsynced clock for server that displays time at utcOffset
func New(server string, utcOffset time.Duration, opts ...Option) *NTP {
	if server == "" {
		server = DefaultServer
	}
	c := &NTP{
		server:  server,
		zone:    time.FixedZone(zoneName(utcOffset), int(utcOffset/time.Second)),
		timeout: defaultQueryTimeout,
		query:   ntp.QueryWithOptions,
		now:     time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func zoneName(offset time.Duration) string {
	h := int(offset / time.Hour)
	if h >= 0 {
		return fmt.Sprintf("UTC+%d", h)
	}
	return fmt.Sprintf("UTC%d", h)
}

// Now returns the corrected local time, or false before the first sync
func (c *NTP) Now() (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.synced {
		return time.Time{}, false
	}
	return c.now().Add(c.offset).In(c.zone), true
}

// LastSync returns when the clock was last synchronized
func (c *NTP) LastSync() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSync
}

// Sync queries the server once. The query timeout is shortened to the
// context deadline when that comes first. A failed sync keeps the previous
// offset.
func (c *NTP) Sync(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	resp, err := c.query(c.server, ntp.QueryOptions{Timeout: timeout})
	if err != nil {
		c.log.Debug().Err(err).Str("server", c.server).Msg("NTP query failed")
		return fichaje.NewTransportError("ntp sync", fmt.Errorf("query %s: %w", c.server, err))
	}
	if err := resp.Validate(); err != nil {
		return fichaje.NewMalformedResponseError("ntp sync", fmt.Errorf("response from %s: %w", c.server, err))
	}

	c.mu.Lock()
	c.offset = resp.ClockOffset
	c.synced = true
	c.lastSync = c.now()
	c.mu.Unlock()

	c.log.Info().Str("server", c.server).Dur("offset", resp.ClockOffset).Msg("clock synchronized")
	return nil
}

var _ fichaje.WallClock = (*NTP)(nil)
