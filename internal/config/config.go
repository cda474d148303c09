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

// Package config loads the terminal's settings from defaults, an optional
// YAML file and FICHAJE_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, so server.host is
// read from FICHAJE_SERVER_HOST
const EnvPrefix = "FICHAJE"

// Config holds all configuration for the terminal
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	WiFi      WiFiConfig      `mapstructure:"wifi"`
	Time      TimeConfig      `mapstructure:"time"`
	Hardware  HardwareConfig  `mapstructure:"hardware"`
	Log       LogConfig       `mapstructure:"log"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
}

// ServerConfig locates the attendance backend
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	UserAgent       string        `mapstructure:"user_agent"`
	Port            int           `mapstructure:"port"`
	VerifyTimeout   time.Duration `mapstructure:"verify_timeout"`
	RegisterTimeout time.Duration `mapstructure:"register_timeout"`
	NotifyTimeout   time.Duration `mapstructure:"notify_timeout"`
	CaptureTimeout  time.Duration `mapstructure:"capture_timeout"`
	TestTimeout     time.Duration `mapstructure:"test_timeout"`
}

// BaseURL returns http://host:port
func (c *ServerConfig) BaseURL() string {
	return "http://" + net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// WiFiConfig holds the network credentials and the join schedule
type WiFiConfig struct {
	SSID      string        `mapstructure:"ssid"`
	Password  string        `mapstructure:"password"`
	Interface string        `mapstructure:"interface"`
	Attempts  int           `mapstructure:"attempts"`
	Interval  time.Duration `mapstructure:"interval"`
}

// TimeConfig configures the wall clock
type TimeConfig struct {
	NTPServer string `mapstructure:"ntp_server"`
	// UTCOffset in seconds, negative west of Greenwich
	UTCOffset      int           `mapstructure:"utc_offset"`
	ResyncInterval time.Duration `mapstructure:"resync_interval"`
	// Settle is the pause after the first sync request at start-up
	Settle time.Duration `mapstructure:"settle"`
}

// Offset returns UTCOffset as a duration
func (c *TimeConfig) Offset() time.Duration {
	return time.Duration(c.UTCOffset) * time.Second
}

// HardwareConfig names the buses and pins as periph registers them
type HardwareConfig struct {
	SPIPort        string        `mapstructure:"spi_port"`
	ResetPin       string        `mapstructure:"reset_pin"`
	IRQPin         string        `mapstructure:"irq_pin"`
	I2CBus         string        `mapstructure:"i2c_bus"`
	GreenPin       string        `mapstructure:"green_pin"`
	RedPin         string        `mapstructure:"red_pin"`
	BuzzerPin      string        `mapstructure:"buzzer_pin"`
	DevicePaths    []string      `mapstructure:"device_paths"`
	DisplayAddress uint16        `mapstructure:"display_address"`
	PollTimeout    time.Duration `mapstructure:"poll_timeout"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
}

// LogConfig selects the log level and sinks
type LogConfig struct {
	Level      string `mapstructure:"level"`
	SerialPort string `mapstructure:"serial_port"`
	SerialBaud int    `mapstructure:"serial_baud"`
	Console    bool   `mapstructure:"console"`
}

// DiscoveryConfig enables locating the backend through mDNS when
// server.host is empty
type DiscoveryConfig struct {
	Service string        `mapstructure:"service"`
	Timeout time.Duration `mapstructure:"timeout"`
	Enabled bool          `mapstructure:"enabled"`
}

// Load reads the configuration. An empty path searches ./config and
// /etc/fichaje for fichaje.yaml; a missing file is not an error there,
// but an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("fichaje")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/fichaje")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// LoadWithValidation loads and validates the configuration
func LoadWithValidation(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings the terminal cannot run without. Every
// problem is reported.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Host == "" && !c.Discovery.Enabled {
		errs = append(errs, errors.New(EnvPrefix+"_SERVER_HOST required unless discovery is enabled"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.WiFi.Attempts < 0 {
		errs = append(errs, fmt.Errorf("wifi.attempts %d is negative", c.WiFi.Attempts))
	}
	if c.Time.UTCOffset < -12*3600 || c.Time.UTCOffset > 14*3600 {
		errs = append(errs, fmt.Errorf("time.utc_offset %d out of range", c.Time.UTCOffset))
	}
	for name, pin := range map[string]string{
		"hardware.reset_pin":  c.Hardware.ResetPin,
		"hardware.irq_pin":    c.Hardware.IRQPin,
		"hardware.green_pin":  c.Hardware.GreenPin,
		"hardware.red_pin":    c.Hardware.RedPin,
		"hardware.buzzer_pin": c.Hardware.BuzzerPin,
	} {
		if pin == "" {
			errs = append(errs, errors.New(name+" required"))
		}
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 5181)
	v.SetDefault("server.user_agent", "ESP32-RFID-Reader")
	v.SetDefault("server.verify_timeout", 10*time.Second)
	v.SetDefault("server.register_timeout", 10*time.Second)
	v.SetDefault("server.notify_timeout", 15*time.Second)
	v.SetDefault("server.capture_timeout", 8*time.Second)
	v.SetDefault("server.test_timeout", 10*time.Second)

	// Wi-Fi defaults
	v.SetDefault("wifi.ssid", "")
	v.SetDefault("wifi.password", "")
	v.SetDefault("wifi.interface", "wlan0")
	v.SetDefault("wifi.attempts", 30)
	v.SetDefault("wifi.interval", 500*time.Millisecond)

	// Time defaults
	v.SetDefault("time.ntp_server", "pool.ntp.org")
	v.SetDefault("time.utc_offset", -21600)
	v.SetDefault("time.resync_interval", time.Minute)
	v.SetDefault("time.settle", 2*time.Second)

	// Hardware defaults, Raspberry Pi header names
	v.SetDefault("hardware.spi_port", "")
	v.SetDefault("hardware.reset_pin", "GPIO25")
	v.SetDefault("hardware.irq_pin", "GPIO24")
	v.SetDefault("hardware.i2c_bus", "")
	v.SetDefault("hardware.display_address", 0x3C)
	v.SetDefault("hardware.green_pin", "GPIO17")
	v.SetDefault("hardware.red_pin", "GPIO27")
	v.SetDefault("hardware.buzzer_pin", "GPIO18")
	v.SetDefault("hardware.device_paths", []string{"/dev/spidev0.0", "/dev/i2c-1", "/dev/gpiochip0"})
	v.SetDefault("hardware.poll_timeout", 50*time.Millisecond)
	v.SetDefault("hardware.poll_interval", 50*time.Millisecond)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
	v.SetDefault("log.serial_port", "")
	v.SetDefault("log.serial_baud", 115200)

	// Discovery defaults
	v.SetDefault("discovery.enabled", false)
	v.SetDefault("discovery.service", "_fichaje._tcp")
	v.SetDefault("discovery.timeout", 5*time.Second)
}
