// go-integrationhub
// Copyright (c) 2025 The TokenPOS Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-integrationhub.
//
// go-integrationhub is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-integrationhub is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-integrationhub; if not, write to the Free Software
// Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package integrationhub

import (
	"context"
	"math/rand"
	"time"
)

// RetryConfig controls retry behavior for transport operations
type RetryConfig struct {
	// MaxAttempts is the total number of attempts including the first.
	// Values below 1 mean a single attempt with no retry.
	MaxAttempts int
	// InitialBackoff is the delay before the first retry
	InitialBackoff time.Duration
	// MaxBackoff caps the exponential backoff growth
	MaxBackoff time.Duration
	// BackoffMultiplier scales the backoff after each failed attempt
	BackoffMultiplier float64
	// Jitter adds up to Jitter*backoff of random delay to desynchronize
	// concurrent retriers. Negative values are treated as zero.
	Jitter float64
}

// DefaultRetryConfig returns the retry configuration used when none is set
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        2 * time.Second,
		BackoffMultiplier: 2.0,
		Jitter:            0.1,
	}
}

// nextBackoff computes the delay before the following attempt
func (c *RetryConfig) nextBackoff(current time.Duration) time.Duration {
	multiplier := c.BackoffMultiplier
	if multiplier <= 0 {
		multiplier = 1
	}
	next := time.Duration(float64(current) * multiplier)
	if c.MaxBackoff > 0 && next > c.MaxBackoff {
		next = c.MaxBackoff
	}
	return next
}

// withJitter applies the configured jitter fraction to a backoff delay
func (c *RetryConfig) withJitter(backoff time.Duration) time.Duration {
	if c.Jitter <= 0 || backoff <= 0 {
		return backoff
	}
	extra := time.Duration(rand.Float64() * c.Jitter * float64(backoff))
	return backoff + extra
}

// RetryWithConfig runs fn until it succeeds, returns a non-retryable error,
// the attempt budget is exhausted, or ctx is cancelled.
func RetryWithConfig(ctx context.Context, config *RetryConfig, fn func() error) error {
	if config == nil {
		config = DefaultRetryConfig()
	}

	attempts := config.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	backoff := config.InitialBackoff
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == attempts-1 {
			break
		}

		delay := config.withJitter(backoff)
		if delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		backoff = config.nextBackoff(backoff)
	}

	return lastErr
}
