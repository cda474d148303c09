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

// Package network joins the configured Wi-Fi network through NetworkManager
// and reports the terminal's IPv4 address.
package network

import (
	"context"
	"fmt"
	"net"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ZaparooProject/go-fichaje"
)

const (
	// UnknownIP is reported when the interface has no IPv4 address
	UnknownIP = "0.0.0.0"

	joinTimeout = 15 * time.Second
)

type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Wifi drives nmcli for one interface. Join starts the association without
// waiting for it; callers poll Connected.
type Wifi struct {
	run   runFunc
	addrs func(iface string) ([]net.Addr, error)
	log   zerolog.Logger
	iface string
}

// Option configures Wifi
type Option func(*Wifi)

// WithLogger sets the logger used for nmcli output
func WithLogger(log zerolog.Logger) Option {
	return func(w *Wifi) {
		w.log = log
	}
}

// New creates an adapter for iface, for example "wlan0"
func New(iface string, opts ...Option) *Wifi {
	w := &Wifi{
		iface: iface,
		run:   execRun,
		addrs: interfaceAddrs,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func interfaceAddrs(iface string) ([]net.Addr, error) {
	ifi, err := net.InterfaceByName(iface)
	if err != nil {
		return nil, fmt.Errorf("interface %s: %w", iface, err)
	}
	if ifi.Flags&net.FlagUp == 0 {
		return nil, nil
	}
	addrs, err := ifi.Addrs()
	if err != nil {
		return nil, fmt.Errorf("addresses of %s: %w", iface, err)
	}
	return addrs, nil
}

// Join asks NetworkManager to connect to ssid. An empty ssid leaves the
// current association alone, for wired or pre-provisioned setups.
func (w *Wifi) Join(ssid, password string) error {
	if ssid == "" {
		return nil
	}

	args := []string{"--wait", "0", "device", "wifi", "connect", ssid}
	if password != "" {
		args = append(args, "password", password)
	}
	if w.iface != "" {
		args = append(args, "ifname", w.iface)
	}

	ctx, cancel := context.WithTimeout(context.Background(), joinTimeout)
	defer cancel()

	out, err := w.run(ctx, "nmcli", args...)
	if err != nil {
		msg := strings.TrimSpace(string(out))
		w.log.Debug().Err(err).Str("ssid", ssid).Str("output", msg).Msg("nmcli connect failed")
		if msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return fichaje.NewConnectivityError("wifi join", err)
	}
	return nil
}

// Connected reports whether the interface holds an IPv4 address
func (w *Wifi) Connected() bool {
	return w.ipv4() != nil
}

// LocalIP returns the interface's IPv4 address, or UnknownIP
func (w *Wifi) LocalIP() string {
	if ip := w.ipv4(); ip != nil {
		return ip.String()
	}
	return UnknownIP
}

func (w *Wifi) ipv4() net.IP {
	addrs, err := w.addrs(w.iface)
	if err != nil {
		w.log.Trace().Err(err).Msg("no addresses")
		return nil
	}
	for _, a := range addrs {
		var ip net.IP
		switch v := a.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		}
		if ip4 := ip.To4(); ip4 != nil && !ip4.IsLoopback() && !ip4.IsUnspecified() {
			return ip4
		}
	}
	return nil
}
