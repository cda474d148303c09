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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fichaje.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

//nolint:paralleltest // environment variables are process wide
func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "server:\n  host: 192.168.1.20\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://192.168.1.20:5181", cfg.Server.BaseURL())
	assert.Equal(t, "ESP32-RFID-Reader", cfg.Server.UserAgent)
	assert.Equal(t, 10*time.Second, cfg.Server.VerifyTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.NotifyTimeout)
	assert.Equal(t, 8*time.Second, cfg.Server.CaptureTimeout)
	assert.Equal(t, 30, cfg.WiFi.Attempts)
	assert.Equal(t, 500*time.Millisecond, cfg.WiFi.Interval)
	assert.Equal(t, -6*time.Hour, cfg.Time.Offset())
	assert.Equal(t, time.Minute, cfg.Time.ResyncInterval)
	assert.Equal(t, uint16(0x3C), cfg.Hardware.DisplayAddress)
	assert.Equal(t, 115200, cfg.Log.SerialBaud)
	assert.True(t, cfg.Log.Console)
	assert.NoError(t, cfg.Validate())
}

//nolint:paralleltest // environment variables are process wide
func TestLoad_FileAndEnvironment(t *testing.T) {
	path := writeConfig(t, `
server:
  host: backend.local
  port: 8080
  verify_timeout: 3s
wifi:
  ssid: Oficina
  password: secreto
time:
  utc_offset: 3600
log:
  level: debug
`)
	t.Setenv("FICHAJE_SERVER_PORT", "9090")
	t.Setenv("FICHAJE_WIFI_SSID", "Planta")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "backend.local", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.VerifyTimeout)
	assert.Equal(t, "Planta", cfg.WiFi.SSID)
	assert.Equal(t, "secreto", cfg.WiFi.Password)
	assert.Equal(t, time.Hour, cfg.Time.Offset())
	assert.Equal(t, "debug", cfg.Log.Level)
}

//nolint:paralleltest // environment variables are process wide
func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

//nolint:paralleltest // environment variables are process wide
func TestLoadWithValidation(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 0\nlog:\n  level: loud\n")

	_, err := LoadWithValidation(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FICHAJE_SERVER_HOST required")
	assert.Contains(t, err.Error(), "server.port 0 out of range")
	assert.Contains(t, err.Error(), "log.level")
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		return Config{
			Server:   ServerConfig{Host: "10.0.0.5", Port: 5181},
			Time:     TimeConfig{UTCOffset: -21600},
			Hardware: HardwareConfig{
				ResetPin: "GPIO25", IRQPin: "GPIO24",
				GreenPin: "GPIO17", RedPin: "GPIO27", BuzzerPin: "GPIO18",
			},
			Log:      LogConfig{Level: "info"},
		}
	}

	tests := []struct {
		mutate  func(c *Config)
		name    string
		wantErr string
	}{
		{name: "Valid", mutate: func(*Config) {}},
		{
			name:   "DiscoveryReplacesHost",
			mutate: func(c *Config) {
				c.Server.Host = ""
				c.Discovery.Enabled = true
			},
		},
		{
			name:    "MissingHost",
			mutate:  func(c *Config) { c.Server.Host = "" },
			wantErr: "FICHAJE_SERVER_HOST required",
		},
		{
			name:    "OffsetOutOfRange",
			mutate:  func(c *Config) { c.Time.UTCOffset = 20 * 3600 },
			wantErr: "time.utc_offset",
		},
		{
			name:    "MissingPin",
			mutate:  func(c *Config) { c.Hardware.BuzzerPin = "" },
			wantErr: "hardware.buzzer_pin required",
		},
		{
			name:    "MissingIRQPin",
			mutate:  func(c *Config) { c.Hardware.IRQPin = "" },
			wantErr: "hardware.irq_pin required",
		},
		{
			name:    "NegativeAttempts",
			mutate:  func(c *Config) { c.WiFi.Attempts = -1 },
			wantErr: "wifi.attempts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
