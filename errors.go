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

package fichaje

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes a terminal can run into
var (
	// ErrTransport covers connect timeouts, refused connections and non-200 replies.
	ErrTransport = errors.New("remote transport failure")
	// ErrMalformedResponse is returned when a reply body does not have the expected shape.
	ErrMalformedResponse = errors.New("malformed remote response")
	// ErrPeripheral is returned when a hardware adapter cannot be initialized.
	ErrPeripheral = errors.New("peripheral fault")
	// ErrConnectivityExhausted is returned when the network join retries run out.
	ErrConnectivityExhausted = errors.New("network join retries exhausted")
)

// ErrorKind classifies an *Error
type ErrorKind int

const (
	KindTransport ErrorKind = iota
	KindMalformedResponse
	KindPeripheral
	KindConnectivity
)

// String returns the kind name
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindMalformedResponse:
		return "malformed_response"
	case KindPeripheral:
		return "peripheral"
	case KindConnectivity:
		return "connectivity"
	default:
		return "unknown"
	}
}

// Fatal reports whether errors of this kind must stop the terminal from starting.
// Only peripheral faults are fatal: without a display there is no way to give feedback.
func (k ErrorKind) Fatal() bool {
	return k == KindPeripheral
}

// Error is a classified failure with the operation that produced it
type Error struct {
	Err  error
	Op   string
	Kind ErrorKind
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.sentinel())
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.sentinel(), e.Err)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error for the kind, so errors.Is(err, ErrTransport)
// works without the cause having to wrap it.
func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindTransport:
		return ErrTransport
	case KindMalformedResponse:
		return ErrMalformedResponse
	case KindPeripheral:
		return ErrPeripheral
	case KindConnectivity:
		return ErrConnectivityExhausted
	default:
		return ErrTransport
	}
}

// NewTransportError wraps a network failure
func NewTransportError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindTransport, Err: err}
}

// NewMalformedResponseError wraps a body decoding failure
func NewMalformedResponseError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindMalformedResponse, Err: err}
}

// NewPeripheralError wraps a hardware initialization failure
func NewPeripheralError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindPeripheral, Err: err}
}

// NewConnectivityError reports that the network could not be joined
func NewConnectivityError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindConnectivity, Err: err}
}

// KindOf returns the kind of err and whether err is an *Error at all
func KindOf(err error) (ErrorKind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return KindTransport, false
}

// IsFatal reports whether err must abort start-up
func IsFatal(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind.Fatal()
}
