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

// Package reader adapts an MFRC522 module on SPI to fichaje.CardReader.
package reader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/mfrc522"
	"periph.io/x/devices/v3/mfrc522/commands"
	"periph.io/x/host/v3"

	"github.com/ZaparooProject/go-fichaje"
)

const (
	// DefaultPollTimeout bounds a single presence check
	DefaultPollTimeout = 50 * time.Millisecond

	maxClockFreq = 1 * physic.MegaHertz
)

// ErrClosed is returned by Halt after Close
var ErrClosed = errors.New("reader closed")

// Config selects the SPI port and control pins
type Config struct {
	// SPIPort as registered with spireg, empty for the first one
	SPIPort string
	// ResetPin and IRQPin as registered with gpioreg. Both are required:
	// the driver waits on the IRQ line for every read.
	ResetPin string
	IRQPin   string
	// PollTimeout bounds a single presence check
	PollTimeout time.Duration
}

// chip is the part of the periph driver the reader uses. Halt powers the
// chip down and may only be called once.
type chip interface {
	ReadUID(timeout time.Duration) ([]byte, error)
	Halt() error
}

// MFRC522 is a card reader. A successful presence check caches the UID so
// ReadSerial and UIDBytes never talk to the chip again for the same card.
//
// Halt sends the card a PICC HLTA and leaves the chip running. A halted card
// that somehow answers again is not reported until a poll finds the field
// empty, so one tap is one transaction.
type MFRC522 struct {
	chip     chip
	haltCard func() error
	port     io.Closer
	uid      []byte
	halted   []byte
	timeout  time.Duration
	mu       sync.Mutex
	closed   bool
}

// Open initializes the periph host and the reader on the given port
func Open(cfg Config) (*MFRC522, error) {
	if cfg.ResetPin == "" || cfg.IRQPin == "" {
		return nil, fichaje.NewPeripheralError("reader init", errors.New("reset and IRQ pins are required"))
	}

	if _, err := host.Init(); err != nil {
		return nil, fichaje.NewPeripheralError("reader init", fmt.Errorf("failed to initialize periph host: %w", err))
	}

	port, err := spireg.Open(cfg.SPIPort)
	if err != nil {
		return nil, fichaje.NewPeripheralError("reader init",
			fmt.Errorf("failed to open SPI port %q: %w", cfg.SPIPort, err))
	}

	rst := gpioreg.ByName(cfg.ResetPin)
	if rst == nil {
		_ = port.Close()
		return nil, fichaje.NewPeripheralError("reader init", fmt.Errorf("reset pin %q not found", cfg.ResetPin))
	}
	irq := gpioreg.ByName(cfg.IRQPin)
	if irq == nil {
		_ = port.Close()
		return nil, fichaje.NewPeripheralError("reader init", fmt.Errorf("IRQ pin %q not found", cfg.IRQPin))
	}

	_ = port.LimitSpeed(maxClockFreq)

	dev, err := mfrc522.NewSPI(port, rst, irq)
	if err != nil {
		_ = port.Close()
		return nil, fichaje.NewPeripheralError("reader init", fmt.Errorf("MFRC522: %w", err))
	}

	return newMFRC522(dev, func() error { return haltCard(dev.LowLevel) }, port, cfg.PollTimeout), nil
}

func newMFRC522(c chip, hlta func() error, port io.Closer, timeout time.Duration) *MFRC522 {
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}
	return &MFRC522{chip: c, haltCard: hlta, port: port, timeout: timeout}
}

// haltCard sends HLTA to the selected card
func haltCard(ll *commands.LowLevel) error {
	frame := []byte{commands.PICC_HALT, 0}
	crc, err := ll.CRC(frame)
	if err != nil {
		return err
	}
	// A card acknowledges HLTA by staying silent, so the transceive timing
	// out is the expected result.
	_, _, _ = ll.CardWrite(commands.PCD_TRANSCEIVE, append(frame, crc...))
	return nil
}

// CardPresent asks the chip for a card UID within the poll timeout
func (r *MFRC522) CardPresent() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}
	uid, err := r.chip.ReadUID(r.timeout)
	if err != nil || len(uid) == 0 {
		r.uid = nil
		r.halted = nil
		return false
	}
	if r.halted != nil && bytes.Equal(uid, r.halted) {
		r.uid = nil
		return false
	}
	r.halted = nil
	r.uid = uid
	return true
}

// ReadSerial reports whether the last presence check captured a UID
func (r *MFRC522) ReadSerial() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.uid) > 0
}

func (r *MFRC522) UIDBytes() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]byte(nil), r.uid...)
}

// Halt puts the current card to sleep and forgets its UID. The chip keeps
// polling.
func (r *MFRC522) Halt() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if r.uid != nil {
		r.halted = r.uid
	}
	r.uid = nil
	if err := r.haltCard(); err != nil {
		return fichaje.NewPeripheralError("reader halt", err)
	}
	return nil
}

// Close powers the chip down and releases the SPI port. Later calls do
// nothing.
func (r *MFRC522) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	r.uid = nil
	return errors.Join(r.chip.Halt(), r.port.Close())
}

var _ fichaje.CardReader = (*MFRC522)(nil)
