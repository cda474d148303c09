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

// Command fichajectl is a bench tool for the clock-in terminal: it plays
// the feedback sequences, checks the backend and reads single cards.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ZaparooProject/go-fichaje"
	"github.com/ZaparooProject/go-fichaje/clock"
	"github.com/ZaparooProject/go-fichaje/discovery"
	"github.com/ZaparooProject/go-fichaje/feedback"
	"github.com/ZaparooProject/go-fichaje/internal/config"
	"github.com/ZaparooProject/go-fichaje/network"
	"github.com/ZaparooProject/go-fichaje/peripheral/display"
	"github.com/ZaparooProject/go-fichaje/peripheral/reader"
	psignal "github.com/ZaparooProject/go-fichaje/peripheral/signal"
	"github.com/ZaparooProject/go-fichaje/remote"
)

func main() {
	if run() != 0 {
		os.Exit(1)
	}
}

func parseArgs(args []string) (*Config, error) {
	fs := flag.NewFlagSet("fichajectl", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to the terminal configuration file")
	server := fs.String("server", "", "Backend base URL, overrides the configuration")
	detectTimeout := fs.Duration("detect-timeout", 30*time.Second, "Card detection timeout for read mode")
	verbose := fs.Bool("verbose", false, "Enable verbose output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	config := DefaultConfig()
	config.ConfigPath = *configPath
	config.ServerURL = *server
	config.DetectTimeout = *detectTimeout
	config.Verbose = *verbose

	rest := fs.Args()
	if len(rest) == 0 {
		return config, nil
	}
	mode, err := ParseMode(rest[0])
	if err != nil {
		return nil, err
	}
	config.Mode = mode
	if mode == ModeVerify {
		if len(rest) < 2 {
			return nil, errors.New("usage: fichajectl verify <card-id>")
		}
		config.CardID = rest[1]
	}
	return config, nil
}

func run() int {
	config, err := parseArgs(os.Args[1:])
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		_, _ = fmt.Print("\nShutting down gracefully...\n")
		cancel()
	}()

	output := NewOutput(config.Verbose)

	terminal, err := config.load()
	if err != nil {
		output.Error("%v", err)
		return 1
	}
	if config.ServerURL == "" && terminal.Server.Host != "" {
		config.ServerURL = terminal.Server.BaseURL()
	}
	config.PollInterval = terminal.Hardware.PollInterval

	log := zerolog.Nop()
	if config.Verbose {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
			With().Timestamp().Logger()
	}

	modes := NewModes(config, output, fichaje.RealClock{},
		func() (Verifier, error) { return openClient(ctx, config, terminal, log) },
		func() (*feedback.Presenter, func(), error) { return openPresenter(terminal, log) },
		func() (fichaje.CardReader, func(), error) { return openReader(terminal) },
	)

	if err := modes.Run(ctx); err != nil {
		output.Error("%v", err)
		return 1
	}
	return 0
}

func (c *Config) load() (*config.Config, error) {
	cfg, err := config.LoadWithValidation(c.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func openClient(ctx context.Context, c *Config, cfg *config.Config, log zerolog.Logger) (Verifier, error) {
	baseURL := c.ServerURL
	if baseURL == "" {
		if !cfg.Discovery.Enabled {
			return nil, errors.New("no backend configured and discovery is disabled")
		}
		backend, err := discovery.Lookup(ctx, nil, cfg.Discovery.Service, cfg.Discovery.Timeout, log)
		if err != nil {
			return nil, fmt.Errorf("no backend configured and discovery failed: %w", err)
		}
		baseURL = backend.BaseURL()
	}
	return remote.New(remote.Config{
		BaseURL:         baseURL,
		UserAgent:       cfg.Server.UserAgent,
		VerifyTimeout:   cfg.Server.VerifyTimeout,
		RegisterTimeout: cfg.Server.RegisterTimeout,
		NotifyTimeout:   cfg.Server.NotifyTimeout,
		CaptureTimeout:  cfg.Server.CaptureTimeout,
		TestTimeout:     cfg.Server.TestTimeout,
	}, network.New(cfg.WiFi.Interface), remote.WithLogger(log)), nil
}

func openPresenter(cfg *config.Config, log zerolog.Logger) (*feedback.Presenter, func(), error) {
	oled, err := display.Open(cfg.Hardware.I2CBus, cfg.Hardware.DisplayAddress)
	if err != nil {
		return nil, nil, err
	}
	sig, err := psignal.Open(psignal.Config{
		GreenPin:  cfg.Hardware.GreenPin,
		RedPin:    cfg.Hardware.RedPin,
		BuzzerPin: cfg.Hardware.BuzzerPin,
	}, log)
	if err != nil {
		_ = oled.Close()
		return nil, nil, err
	}
	wall := clock.New(cfg.Time.NTPServer, cfg.Time.Offset(), clock.WithLogger(log))
	p := feedback.New(oled, sig, fichaje.RealClock{}, wall, feedback.WithLogger(log))
	return p, func() {
		_ = sig.Close()
		_ = oled.Close()
	}, nil
}

func openReader(cfg *config.Config) (fichaje.CardReader, func(), error) {
	rdr, err := reader.Open(reader.Config{
		SPIPort:     cfg.Hardware.SPIPort,
		ResetPin:    cfg.Hardware.ResetPin,
		IRQPin:      cfg.Hardware.IRQPin,
		PollTimeout: cfg.Hardware.PollTimeout,
	})
	if err != nil {
		return nil, nil, err
	}
	return rdr, func() { _ = rdr.Close() }, nil
}
