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

// Package retry provides the fixed-count, fixed-interval retry helper used
// wherever the terminal waits on an unreliable peer. There is no backoff.
package retry

import (
	"errors"
	"fmt"
	"time"
)

// ErrExhausted is returned when every attempt asked to be retried
var ErrExhausted = errors.New("retries exhausted")

// Operation represents a function that can be retried
// Returns: data, shouldRetry, error
// - data: the result if successful
// - shouldRetry: true if the operation should be retried
// - error: any permanent error that should stop retries
type Operation[T any] func() (T, bool, error)

// Config configures retry behavior
type Config struct {
	// Sleep waits between attempts; defaults to time.Sleep
	Sleep         func(time.Duration)
	OnRetry       func(attempt int) error
	OnRetryFailed func() error
	Description   string
	MaxRetries    int
	RetryDelay    time.Duration
}

// WithRetry executes an operation with retry logic. The operation runs at
// most MaxRetries+1 times with RetryDelay between consecutive attempts.
func WithRetry[T any](config Config, operation Operation[T]) (T, error) {
	var zero T

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		result, shouldRetry, err := operation()
		if err != nil {
			return zero, err
		}

		if !shouldRetry {
			return result, nil
		}

		// If we should retry but we're at max attempts, break
		if attempt >= config.MaxRetries {
			break
		}

		if err := executeRetryCallback(config, attempt+1); err != nil {
			return zero, err
		}

		if config.RetryDelay > 0 {
			sleep(config)(config.RetryDelay)
		}
	}

	return handleRetriesExhausted[T](config)
}

func sleep(config Config) func(time.Duration) {
	if config.Sleep != nil {
		return config.Sleep
	}
	return time.Sleep
}

// executeRetryCallback executes the retry callback if provided
func executeRetryCallback(config Config, attempt int) error {
	if config.OnRetry != nil {
		return config.OnRetry(attempt)
	}
	return nil
}

// handleRetriesExhausted handles the case when all retries are exhausted
func handleRetriesExhausted[T any](config Config) (T, error) {
	var zero T

	if config.OnRetryFailed != nil {
		if failErr := config.OnRetryFailed(); failErr != nil {
			return zero, failErr
		}
	}

	if config.Description == "" {
		return zero, ErrExhausted
	}
	return zero, fmt.Errorf("%s: %w after %d retries", config.Description, ErrExhausted, config.MaxRetries)
}

// Until polls check until it reports true, using the same attempt and delay
// rules as WithRetry. It is the shape used for "wait for link up" loops.
func Until(config Config, check func() bool) error {
	_, err := WithRetry(config, func() (struct{}, bool, error) {
		return struct{}{}, !check(), nil
	})
	return err
}
