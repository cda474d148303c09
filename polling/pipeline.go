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

// Package polling turns card detections into clock-in events.
//
// A Pipeline handles one poll: idle maintenance while nothing is in flight,
// or the full verify and register choreography for a detected card. A
// Monitor calls it in a loop. Everything runs on the caller's goroutine and
// blocks, so at most one card is processed at a time.
package polling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ZaparooProject/go-fichaje"
	"github.com/ZaparooProject/go-fichaje/remote"
)

// Remote is the backend
type Remote interface {
	Verify(ctx context.Context, id fichaje.CardID) bool
	Register(ctx context.Context, id fichaje.CardID) bool
	Notify(ctx context.Context, id fichaje.CardID, outcome fichaje.Outcome, name string) bool
	CaptureUnknown(ctx context.Context, id fichaje.CardID)
}

// Feedback presents the pipeline's states
type Feedback interface {
	Idle(connected bool)
	Reading()
	Acknowledge()
	Processing()
	Granted()
	Denied()
	RegistrationError()
	AcceptTone()
	DenyTone()
	ErrorTone()
	LivenessTone()
	LivenessBlink()
}

// Link reports whether the terminal is online
type Link interface {
	Online() bool
}

// Config holds the pipeline's timings
type Config struct {
	// VerifiedName is sent with the notification for a granted card
	VerifiedName string

	// Idle cadence. An action runs once more than its interval has passed.
	RedrawInterval time.Duration
	BlinkInterval  time.Duration
	ToneInterval   time.Duration
	// ResyncInterval spaces wall clock sync attempts while unsynced
	ResyncInterval time.Duration

	// Outcome screens stay up this long after their animation
	ValidHold   time.Duration
	InvalidHold time.Duration
	ErrorHold   time.Duration
	// Cooldown separates a finished event from the next poll
	Cooldown time.Duration
}

// DefaultConfig returns the terminal's standard timings
func DefaultConfig() *Config {
	return &Config{
		VerifiedName:   "Empleado Verificado",
		RedrawInterval: 5 * time.Second,
		BlinkInterval:  10 * time.Second,
		ToneInterval:   30 * time.Second,
		ResyncInterval: time.Minute,
		ValidHold:      1200 * time.Millisecond,
		InvalidHold:    1200 * time.Millisecond,
		ErrorHold:      1500 * time.Millisecond,
		Cooldown:       500 * time.Millisecond,
	}
}

// Pipeline processes card events
type Pipeline struct {
	reader   fichaje.CardReader
	remote   Remote
	feedback Feedback
	clock    fichaje.Clock
	wall     fichaje.WallClock
	link     Link
	config   *Config
	newID    func() string
	log      zerolog.Logger
	state    State
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithConfig replaces the default timings
func WithConfig(config *Config) Option {
	return func(p *Pipeline) {
		if config != nil {
			p.config = config
		}
	}
}

// WithLogger sets the pipeline's logger
func WithLogger(log zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.log = log
	}
}

// WithWallClock enables periodic resync while the clock is unsynced
func WithWallClock(wall fichaje.WallClock) Option {
	return func(p *Pipeline) {
		p.wall = wall
	}
}

// WithLink selects the connectivity icon source. Without one the idle
// screen shows the terminal as offline.
func WithLink(link Link) Option {
	return func(p *Pipeline) {
		p.link = link
	}
}

// WithIDGenerator replaces the transaction id source
func WithIDGenerator(gen func() string) Option {
	return func(p *Pipeline) {
		p.newID = gen
	}
}

// NewPipeline creates an idle pipeline. The first idle pass redraws.
func NewPipeline(reader fichaje.CardReader, rem Remote, fb Feedback, clock fichaje.Clock, opts ...Option,
) *Pipeline {
	p := &Pipeline{
		reader:   reader,
		remote:   rem,
		feedback: fb,
		clock:    clock,
		config:   DefaultConfig(),
		newID:    uuid.NewString,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.state.Reset(clock.Now())
	return p
}

// State returns a copy of the pipeline state
func (p *Pipeline) State() State {
	return p.state
}

// Poll runs one pipeline cycle. It returns ErrNoCardInPoll when no card was
// read, otherwise the completed transaction.
func (p *Pipeline) Poll(ctx context.Context) (*Transaction, error) {
	if !p.state.Busy() {
		p.idle(ctx)
	}

	if !p.reader.CardPresent() {
		return nil, ErrNoCardInPoll
	}
	if !p.reader.ReadSerial() {
		p.log.Debug().Msg("card present but serial read failed")
		return nil, ErrNoCardInPoll
	}
	uid := p.reader.UIDBytes()
	if len(uid) == 0 {
		return nil, ErrNoCardInPoll
	}

	txn := &Transaction{
		ID:      p.newID(),
		Card:    fichaje.FormatUID(uid),
		Started: p.clock.Now(),
	}
	p.process(ctx, txn)
	return txn, nil
}

// process runs the full choreography for one card
func (p *Pipeline) process(ctx context.Context, txn *Transaction) {
	log := p.log.With().Str("txn", txn.ID).Stringer("card", txn.Card).Logger()
	ctx = remote.ContextWithTransactionID(ctx, txn.ID)

	p.state.TransitionToBusy(txn)
	log.Info().Msg("card detected")

	p.feedback.Reading()
	p.feedback.Acknowledge()

	if p.remote.Verify(ctx, txn.Card) {
		log.Info().Msg("card valid, registering")
		p.feedback.Processing()
		if p.remote.Register(ctx, txn.Card) {
			p.valid(ctx, txn)
		} else {
			p.registrationError(ctx, txn)
		}
	} else {
		p.invalid(ctx, txn)
	}

	if err := p.reader.Halt(); err != nil {
		log.Warn().Err(err).Msg("failed to halt card")
	}

	txn.Finished = p.clock.Now()
	p.state.TransitionToIdle()
	log.Info().
		Stringer("outcome", txn.Outcome).
		Dur("elapsed", txn.Duration()).
		Msg("card event finished")

	p.clock.Sleep(p.config.Cooldown)
	p.redraw()
}

func (p *Pipeline) valid(ctx context.Context, txn *Transaction) {
	txn.Outcome = fichaje.OutcomeValid
	p.notify(ctx, txn, p.config.VerifiedName)
	p.feedback.Granted()
	p.feedback.AcceptTone()
	p.clock.Sleep(p.config.ValidHold)
}

func (p *Pipeline) registrationError(ctx context.Context, txn *Transaction) {
	txn.Outcome = fichaje.OutcomeRegistrationError
	p.log.Warn().Str("txn", txn.ID).Stringer("card", txn.Card).Msg("registration failed")
	p.notify(ctx, txn, "")
	p.feedback.RegistrationError()
	p.feedback.ErrorTone()
	p.clock.Sleep(p.config.ErrorHold)
}

func (p *Pipeline) invalid(ctx context.Context, txn *Transaction) {
	txn.Outcome = fichaje.OutcomeInvalid
	p.log.Info().Str("txn", txn.ID).Stringer("card", txn.Card).Msg("card not valid or not registered")
	p.notify(ctx, txn, "")
	p.feedback.Denied()
	p.feedback.DenyTone()
	p.remote.CaptureUnknown(ctx, txn.Card)
	p.clock.Sleep(p.config.InvalidHold)
}

// notify is best-effort; its result never changes the outcome
func (p *Pipeline) notify(ctx context.Context, txn *Transaction, name string) {
	if !p.remote.Notify(ctx, txn.Card, txn.Outcome, name) {
		p.log.Debug().Str("txn", txn.ID).Msg("notification not delivered")
	}
}

func (p *Pipeline) online() bool {
	return p.link != nil && p.link.Online()
}

func (p *Pipeline) redraw() {
	p.feedback.Idle(p.online())
	p.state.LastRefresh = p.clock.Now()
	p.state.ForceRedraw = false
}

// idle redraws the clock screen and emits liveness signals on their
// cadence, and retries the wall clock sync while it is unsynced
func (p *Pipeline) idle(ctx context.Context) {
	now := p.clock.Now()

	if p.state.ForceRedraw || now.Sub(p.state.LastRefresh) > p.config.RedrawInterval {
		p.redraw()
	}
	if now.Sub(p.state.LastBlink) > p.config.BlinkInterval {
		p.feedback.LivenessBlink()
		p.state.LastBlink = now
	}
	if now.Sub(p.state.LastTone) > p.config.ToneInterval {
		p.feedback.LivenessTone()
		p.state.LastTone = now
	}

	p.resync(ctx, now)
}

func (p *Pipeline) resync(ctx context.Context, now time.Time) {
	if p.wall == nil {
		return
	}
	if _, synced := p.wall.Now(); synced {
		return
	}
	if now.Sub(p.state.LastResync) < p.config.ResyncInterval {
		return
	}
	p.state.LastResync = now
	if err := p.wall.Sync(ctx); err != nil {
		p.log.Debug().Err(err).Msg("clock resync failed")
		return
	}
	p.state.ForceRedraw = true
}
