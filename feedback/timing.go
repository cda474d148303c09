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

package feedback

import "time"

// Presentation timings. These are minimum durations for the operator to
// perceive each state and are part of the terminal's behavior.
const (
	ReadingFlash = 80 * time.Millisecond
	ReadingStep  = 150 * time.Millisecond

	AckPhase     = 120 * time.Millisecond
	AckToneHz    = 2500
	AckToneSpan  = 100 * time.Millisecond
	ackFlashes   = 2
	readingFlash = 2
	readingSteps = 3

	ProcessingStep     = 350 * time.Millisecond
	ProcessingToneHz   = 1500
	ProcessingToneRise = 100
	ProcessingToneSpan = 80 * time.Millisecond
	processingSteps    = 4

	GrantedPulseOn  = 200 * time.Millisecond
	GrantedPulseOff = 100 * time.Millisecond
	GrantedSolid    = 800 * time.Millisecond
	grantedPulses   = 3

	DeniedPhase  = 180 * time.Millisecond
	DeniedSolid  = 600 * time.Millisecond
	deniedCycles = 3

	ErrorPhase  = 120 * time.Millisecond
	ErrorSolid  = 700 * time.Millisecond
	errorCycles = 5

	ConnectingStep     = 200 * time.Millisecond
	ConnectingToneHz   = 2000
	ConnectingToneRise = 50
	ConnectingToneSpan = 50 * time.Millisecond
	ConnectingProgress = 12
	connectingSteps    = 10

	ConnectedPulse  = 150 * time.Millisecond
	ConnectedSolid  = 1 * time.Second
	connectedPulses = 4

	FailedPhase    = 200 * time.Millisecond
	FailedToneHz   = 400
	FailedToneFall = 30
	FailedToneSpan = 150 * time.Millisecond
	failedCycles   = 6

	// BlinkPeriod is how long the idle screen's center dot stays in one state
	BlinkPeriod = 500 * time.Millisecond

	LivenessBlinkSpan = 50 * time.Millisecond
	LivenessToneHz    = 3000
	LivenessToneSpan  = 30 * time.Millisecond
	LivenessToneWait  = 50 * time.Millisecond
)

// Total durations of each blocking routine, derived from the timings above
const (
	ReadingDuration           = readingFlash*2*ReadingFlash + readingSteps*ReadingStep
	AcknowledgeDuration       = ackFlashes * 2 * AckPhase
	ProcessingDuration        = processingSteps * ProcessingStep
	GrantedDuration           = grantedPulses*(GrantedPulseOn+GrantedPulseOff) + GrantedSolid
	DeniedDuration            = deniedCycles*2*DeniedPhase + DeniedSolid
	RegistrationErrorDuration = errorCycles*2*ErrorPhase + ErrorSolid
	ConnectingDuration        = connectingSteps * ConnectingStep
	ConnectedDuration         = connectedPulses*2*ConnectedPulse + chimeDuration + ConnectedSolid
	ConnectionFailedDuration  = failedCycles * 2 * FailedPhase
)
