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

// Package remote talks to the attendance backend over HTTP.
//
// Every operation collapses failures to a boolean: transport errors,
// non-200 statuses and undecodable bodies are logged and reported as false.
// Verification therefore fails closed.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ZaparooProject/go-fichaje"
)

// Endpoint paths
const (
	pathVerify   = "/api/rfid/verificar/"
	pathRegister = "/api/fichajes/rfid"
	pathNotify   = "/api/telegramnotifications/fichaje-invalido"
	pathCapture  = "/api/Rfid/capture/unknown"
	pathTest     = "/api/telegramnotifications/test"
)

// Defaults
const (
	DefaultUserAgent       = "ESP32-RFID-Reader"
	DefaultVerifyTimeout   = 10 * time.Second
	DefaultRegisterTimeout = 10 * time.Second
	DefaultNotifyTimeout   = 15 * time.Second
	DefaultCaptureTimeout  = 8 * time.Second
	DefaultTestTimeout     = 10 * time.Second

	// TestMessage is sent by TestConnection
	TestMessage = "Test desde terminal físico"

	maxBodySize = 64 << 10
)

// UnknownIP is reported as the terminal's address when it has none
const UnknownIP = "0.0.0.0"

// AddressSource reports the terminal's current IPv4 address
type AddressSource interface {
	LocalIP() string
}

// Config holds the backend location and per-operation timeouts. Zero
// timeouts take the defaults.
type Config struct {
	BaseURL         string
	UserAgent       string
	VerifyTimeout   time.Duration
	RegisterTimeout time.Duration
	NotifyTimeout   time.Duration
	CaptureTimeout  time.Duration
	TestTimeout     time.Duration
}

func (c *Config) setDefaults() {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	setDuration(&c.VerifyTimeout, DefaultVerifyTimeout)
	setDuration(&c.RegisterTimeout, DefaultRegisterTimeout)
	setDuration(&c.NotifyTimeout, DefaultNotifyTimeout)
	setDuration(&c.CaptureTimeout, DefaultCaptureTimeout)
	setDuration(&c.TestTimeout, DefaultTestTimeout)
}

func setDuration(d *time.Duration, def time.Duration) {
	if *d <= 0 {
		*d = def
	}
}

// Notification is the body of an outcome notification
type Notification struct {
	CardID   string `json:"codigoRFID"`
	IP       string `json:"ip"`
	Tag      string `json:"tipo"`
	Employee string `json:"nombreEmpleado,omitempty"`
}

type registration struct {
	CardID string `json:"codigoRFID"`
	IP     string `json:"ip"`
}

type capture struct {
	CardID string `json:"codigoRfid"`
}

type testMessage struct {
	Message string `json:"mensaje"`
	IP      string `json:"ip"`
}

type verifyResponse struct {
	Valid *bool `json:"valida"`
}

// Client is the backend client
type Client struct {
	http *http.Client
	addr AddressSource
	log  zerolog.Logger
	cfg  Config
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the client's logger
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a client for cfg.BaseURL. addr may be nil, in which case the
// terminal reports UnknownIP.
func New(cfg Config, addr AddressSource, opts ...Option) *Client {
	cfg.setDefaults()
	c := &Client{
		cfg:  cfg,
		addr: addr,
		http: &http.Client{},
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

func (c *Client) localIP() string {
	if c.addr == nil {
		return UnknownIP
	}
	if ip := c.addr.LocalIP(); ip != "" {
		return ip
	}
	return UnknownIP
}

// Verify asks whether id belongs to an authorized employee
func (c *Client) Verify(ctx context.Context, id fichaje.CardID) bool {
	valid, err := c.VerifyCard(ctx, id)
	if err != nil {
		c.logger(ctx).Warn().Err(err).Stringer("card", id).Msg("verification failed, denying")
		return false
	}
	return valid
}

// VerifyCard is Verify with the failure cause
func (c *Client) VerifyCard(ctx context.Context, id fichaje.CardID) (bool, error) {
	const op = "verify"
	status, body, err := c.do(ctx, op, http.MethodGet, pathVerify+url.PathEscape(id.String()), nil,
		c.cfg.VerifyTimeout)
	if err != nil {
		return false, err
	}
	if status != http.StatusOK {
		return false, fichaje.NewTransportError(op, fmt.Errorf("unexpected status %d", status))
	}
	return parseVerify(body)
}

// parseVerify accepts the compact forms directly and otherwise requires a
// JSON object with a boolean "valida"
func parseVerify(body []byte) (bool, error) {
	const op = "verify"
	switch {
	case bytes.Contains(body, []byte(`"valida":true`)):
		return true, nil
	case bytes.Contains(body, []byte(`"valida":false`)):
		return false, nil
	}

	var resp verifyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, fichaje.NewMalformedResponseError(op, err)
	}
	if resp.Valid == nil {
		return false, fichaje.NewMalformedResponseError(op, errors.New(`missing "valida"`))
	}
	return *resp.Valid, nil
}

// Register records a clock-in for id
func (c *Client) Register(ctx context.Context, id fichaje.CardID) bool {
	body := registration{CardID: id.String(), IP: c.localIP()}
	return c.post(ctx, "register", pathRegister, body, c.cfg.RegisterTimeout)
}

// Notify reports an outcome. name is omitted from the body when empty.
func (c *Client) Notify(ctx context.Context, id fichaje.CardID, outcome fichaje.Outcome, name string) bool {
	body := Notification{CardID: id.String(), IP: c.localIP(), Tag: outcome.Tag(), Employee: name}
	return c.post(ctx, "notify", pathNotify, body, c.cfg.NotifyTimeout)
}

// CaptureUnknown hands an unrecognized card to the backend for enrollment
func (c *Client) CaptureUnknown(ctx context.Context, id fichaje.CardID) {
	_ = c.post(ctx, "capture", pathCapture, capture{CardID: id.String()}, c.cfg.CaptureTimeout)
}

// TestConnection sends the start-up diagnostic message
func (c *Client) TestConnection(ctx context.Context) bool {
	body := testMessage{Message: TestMessage, IP: c.localIP()}
	return c.post(ctx, "test connection", pathTest, body, c.cfg.TestTimeout)
}

func (c *Client) post(ctx context.Context, op, path string, body any, timeout time.Duration) bool {
	status, _, err := c.do(ctx, op, http.MethodPost, path, body, timeout)
	log := c.logger(ctx)
	if err != nil {
		log.Warn().Err(err).Str("op", op).Msg("request failed")
		return false
	}
	if status != http.StatusOK {
		log.Warn().Str("op", op).Int("status", status).Msg("unexpected status")
		return false
	}
	log.Debug().Str("op", op).Msg("request succeeded")
	return true
}

// do performs one request bounded by timeout and returns the status and
// body. Only transport and encoding problems are errors.
func (c *Client) do(ctx context.Context, op, method, path string, body any, timeout time.Duration,
) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("%s: failed to encode body: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return 0, nil, fichaje.NewTransportError(op, err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if txn := TransactionID(ctx); txn != "" {
		req.Header.Set("X-Request-ID", txn)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fichaje.NewTransportError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, nil, fichaje.NewTransportError(op, fmt.Errorf("failed to read body: %w", err))
	}
	return resp.StatusCode, data, nil
}

func (c *Client) logger(ctx context.Context) *zerolog.Logger {
	log := c.log
	if txn := TransactionID(ctx); txn != "" {
		log = log.With().Str("txn", txn).Logger()
	}
	return &log
}
