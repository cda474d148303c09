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

// Command fichaje runs the clock-in terminal: it reads cards, checks them
// with the attendance backend and shows the result on the OLED, LEDs and
// buzzer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ZaparooProject/go-fichaje"
	"github.com/ZaparooProject/go-fichaje/clock"
	"github.com/ZaparooProject/go-fichaje/connectivity"
	"github.com/ZaparooProject/go-fichaje/discovery"
	"github.com/ZaparooProject/go-fichaje/feedback"
	"github.com/ZaparooProject/go-fichaje/internal/config"
	"github.com/ZaparooProject/go-fichaje/internal/logging"
	"github.com/ZaparooProject/go-fichaje/network"
	"github.com/ZaparooProject/go-fichaje/peripheral"
	"github.com/ZaparooProject/go-fichaje/peripheral/display"
	"github.com/ZaparooProject/go-fichaje/peripheral/reader"
	psignal "github.com/ZaparooProject/go-fichaje/peripheral/signal"
	"github.com/ZaparooProject/go-fichaje/polling"
	"github.com/ZaparooProject/go-fichaje/remote"
)

type flags struct {
	configPath *string
	debug      *bool
}

func parseFlags() *flags {
	f := &flags{
		configPath: flag.String("config", "",
			"Path to the YAML configuration file. Leave empty to search ./config and /etc/fichaje."),
		debug: flag.Bool("debug", false, "Enable debug logging"),
	}
	flag.Parse()
	return f
}

// hardware holds the opened peripherals
type hardware struct {
	display *display.OLED
	signals *psignal.GPIO
	reader  *reader.MFRC522
}

func (h *hardware) Close() error {
	var errs []error
	if h.reader != nil {
		errs = append(errs, h.reader.Close())
	}
	if h.signals != nil {
		errs = append(errs, h.signals.Close())
	}
	if h.display != nil {
		errs = append(errs, h.display.Close())
	}
	return errors.Join(errs...)
}

// openHardware opens the display first: without it the terminal cannot
// tell anyone anything, so its failure aborts start-up
func openHardware(cfg *config.Config, log zerolog.Logger) (*hardware, error) {
	hw := &hardware{}

	if err := peripheral.Preflight(cfg.Hardware.DevicePaths...); err != nil {
		log.Warn().Err(err).Msg("device preflight failed")
	}

	oled, err := display.Open(cfg.Hardware.I2CBus, cfg.Hardware.DisplayAddress)
	if err != nil {
		return nil, err
	}
	hw.display = oled
	log.Info().Msg("display initialized")

	sig, err := psignal.Open(psignal.Config{
		GreenPin:  cfg.Hardware.GreenPin,
		RedPin:    cfg.Hardware.RedPin,
		BuzzerPin: cfg.Hardware.BuzzerPin,
	}, logging.Component(log, "signals"))
	if err != nil {
		_ = hw.Close()
		return nil, err
	}
	hw.signals = sig

	rdr, err := reader.Open(reader.Config{
		SPIPort:     cfg.Hardware.SPIPort,
		ResetPin:    cfg.Hardware.ResetPin,
		IRQPin:      cfg.Hardware.IRQPin,
		PollTimeout: cfg.Hardware.PollTimeout,
	})
	if err != nil {
		_ = hw.Close()
		return nil, err
	}
	hw.reader = rdr
	log.Info().Msg("card reader initialized")

	return hw, nil
}

// resolveBaseURL returns the configured backend, or looks one up over mDNS
func resolveBaseURL(ctx context.Context, cfg *config.Config, log zerolog.Logger) (string, error) {
	if cfg.Server.Host != "" {
		return cfg.Server.BaseURL(), nil
	}
	if !cfg.Discovery.Enabled {
		return "", errors.New("no backend host configured and discovery is disabled")
	}
	backend, err := discovery.Lookup(ctx, nil, cfg.Discovery.Service, cfg.Discovery.Timeout, log)
	if err != nil {
		return "", fmt.Errorf("backend discovery failed: %w", err)
	}
	return backend.BaseURL(), nil
}

func newClient(ctx context.Context, cfg *config.Config, addr remote.AddressSource, log zerolog.Logger,
) *remote.Client {
	baseURL, err := resolveBaseURL(ctx, cfg, log)
	if err != nil {
		// Every request will fail and every card will be denied
		log.Error().Err(err).Msg("no backend available")
	}
	return remote.New(remote.Config{
		BaseURL:         baseURL,
		UserAgent:       cfg.Server.UserAgent,
		VerifyTimeout:   cfg.Server.VerifyTimeout,
		RegisterTimeout: cfg.Server.RegisterTimeout,
		NotifyTimeout:   cfg.Server.NotifyTimeout,
		CaptureTimeout:  cfg.Server.CaptureTimeout,
		TestTimeout:     cfg.Server.TestTimeout,
	}, addr, remote.WithLogger(logging.Component(log, "remote")))
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	hw, err := openHardware(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = hw.Close() }()

	monotonic := fichaje.RealClock{}
	wall := clock.New(cfg.Time.NTPServer, cfg.Time.Offset(), clock.WithLogger(logging.Component(log, "clock")))
	presenter := feedback.New(hw.display, hw.signals, monotonic, wall,
		feedback.WithLogger(logging.Component(log, "feedback")))

	wifi := network.New(cfg.WiFi.Interface, network.WithLogger(logging.Component(log, "network")))
	supervisor := connectivity.New(wifi, presenter, monotonic, connectivity.Config{
		SSID:     cfg.WiFi.SSID,
		Password: cfg.WiFi.Password,
		Attempts: cfg.WiFi.Attempts,
		Interval: cfg.WiFi.Interval,
	}, connectivity.WithLogger(logging.Component(log, "connectivity")))

	if err := supervisor.Run(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		log.Error().Err(err).Msg("continuing offline")
	}

	if err := wall.Sync(ctx); err != nil {
		log.Warn().Err(err).Msg("initial clock sync failed, will retry")
	}
	monotonic.Sleep(cfg.Time.Settle)

	client := newClient(ctx, cfg, supervisor, log)
	log.Info().Str("backend", client.BaseURL()).Msg("testing backend connection")
	if client.TestConnection(ctx) {
		log.Info().Msg("backend test succeeded")
	} else {
		log.Warn().Msg("backend test failed")
	}

	pipelineConfig := polling.DefaultConfig()
	pipelineConfig.ResyncInterval = cfg.Time.ResyncInterval
	pipeline := polling.NewPipeline(hw.reader, client, presenter, monotonic,
		polling.WithConfig(pipelineConfig),
		polling.WithLogger(logging.Component(log, "pipeline")),
		polling.WithWallClock(wall),
		polling.WithLink(supervisor),
	)

	monitor := polling.NewMonitor(pipeline, &polling.MonitorConfig{
		PollInterval: cfg.Hardware.PollInterval,
	}, logging.Component(log, "monitor"))

	log.Info().Msg("waiting for cards")
	if err := monitor.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("control loop stopped: %w", err)
	}
	log.Info().Int("processed", monitor.Processed()).Msg("shutting down")
	return nil
}

func main() {
	f := parseFlags()

	cfg, err := config.LoadWithValidation(*f.configPath)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(2)
	}

	log, closer, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		Debug:      *f.debug,
		Console:    cfg.Log.Console,
		SerialPort: cfg.Log.SerialPort,
		SerialBaud: cfg.Log.SerialBaud,
	})
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	log.Info().Msg("starting fichaje terminal")
	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Error().Err(err).Bool("fatal", fichaje.IsFatal(err)).Msg("terminal stopped")
		_ = logging.Close(closer)
		os.Exit(1)
	}
	_ = logging.Close(closer)
}
