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

/*
Package fichaje provides the building blocks of an access-control terminal
that clocks employees in and out with proximity cards.

A terminal reads the UID of a card presented to its reader, asks a remote
attendance service whether the card is known, records the clock-in event,
and gives the operator immediate feedback on a 128x64 OLED screen, two LEDs
and a buzzer.

This package holds the types shared by every layer: the card identifier,
the transaction outcome, the connectivity state, the peripheral interfaces
implemented by the hardware adapters, and the error taxonomy.

Packages:

  - polling: the card event pipeline and the single control loop
  - feedback: the screens, LED patterns and tones shown to the operator
  - remote: the HTTP client for the attendance service
  - connectivity: the start-up network supervisor
  - peripheral/...: MFRC522 reader, SSD1306 display and GPIO adapters
  - clock: NTP-backed wall clock
  - network: Wi-Fi join and local address lookup
  - discovery: mDNS lookup of the attendance service

Basic Usage:

	rdr, err := reader.Open("SPI0.0", "GPIO25", "GPIO24")
	if err != nil {
	    log.Fatal(err)
	}

	pipeline := polling.NewPipeline(rdr, client, presenter, state,
	    polling.WithLogger(logger))
	monitor := polling.NewMonitor(pipeline, nil)

	// Blocks until ctx is cancelled
	_ = monitor.Start(ctx)

Error Handling:

Remote failures never reach the pipeline as errors: every call to the
attendance service degrades to false, and a terminal that cannot reach
the service denies access. Hardware faults are reported as *Error values
that can be inspected:

	if errors.Is(err, fichaje.ErrPeripheral) {
	    // the display could not be initialized
	}

Thread Safety:

The pipeline is designed to be driven from a single goroutine. Peripheral
adapters are not thread-safe.
*/
package fichaje
