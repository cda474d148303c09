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

// Package discovery locates the attendance backend on the local network
// through mDNS when no server host is configured.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/rs/zerolog"
)

const (
	// DefaultService is the DNS-SD service type the backend advertises
	DefaultService = "_fichaje._tcp"
	// DefaultDomain is the mDNS domain
	DefaultDomain = "local."
	// DefaultTimeout bounds a lookup
	DefaultTimeout = 5 * time.Second
)

// ErrNotFound is returned when no backend answered before the timeout
var ErrNotFound = errors.New("no backend found")

// Browser abstracts the mDNS resolver
type Browser interface {
	Browse(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error
}

// Backend is a discovered service instance
type Backend struct {
	Instance string
	Host     string
	Port     int
}

// BaseURL returns http://host:port
func (b Backend) BaseURL() string {
	return "http://" + net.JoinHostPort(b.Host, strconv.Itoa(b.Port))
}

// Lookup returns the first backend that advertises service within timeout
func Lookup(ctx context.Context, browser Browser, service string, timeout time.Duration, log zerolog.Logger) (Backend, error) {
	if service == "" {
		service = DefaultService
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if browser == nil {
		r, err := zeroconf.NewResolver(nil)
		if err != nil {
			return Backend{}, fmt.Errorf("failed to create mDNS resolver: %w", err)
		}
		browser = r
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry, 4)
	if err := browser.Browse(ctx, service, DefaultDomain, entries); err != nil {
		return Backend{}, fmt.Errorf("failed to browse %s: %w", service, err)
	}

	for {
		select {
		case <-ctx.Done():
			return Backend{}, fmt.Errorf("%w: %s", ErrNotFound, service)
		case e, ok := <-entries:
			if !ok {
				return Backend{}, fmt.Errorf("%w: %s", ErrNotFound, service)
			}
			if e == nil || len(e.AddrIPv4) == 0 || e.Port == 0 {
				continue
			}
			b := Backend{Instance: e.Instance, Host: e.AddrIPv4[0].String(), Port: e.Port}
			log.Info().Str("instance", b.Instance).Str("url", b.BaseURL()).Msg("backend discovered")
			return b, nil
		}
	}
}
