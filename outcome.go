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

// Outcome is the classification of a card transaction
type Outcome int

const (
	// OutcomeInvalid means the service did not accept the card, or could not be asked.
	OutcomeInvalid Outcome = iota
	// OutcomeValid means the card was accepted and the clock-in was registered.
	OutcomeValid
	// OutcomeRegistrationError means the card was accepted but registering the event failed.
	OutcomeRegistrationError
)

// String returns a human-readable outcome name
func (o Outcome) String() string {
	switch o {
	case OutcomeValid:
		return "valid"
	case OutcomeRegistrationError:
		return "registration_error"
	case OutcomeInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Tag returns the value sent in the "tipo" field of event notifications.
// Anything that is not a success or a registration error is reported as
// INVALIDO.
func (o Outcome) Tag() string {
	switch o {
	case OutcomeValid:
		return "VALIDO"
	case OutcomeRegistrationError:
		return "ERROR"
	default:
		return "INVALIDO"
	}
}

// ConnectionState is the network state owned by the connectivity supervisor
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateFailed
)

// String returns a human-readable state name
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
