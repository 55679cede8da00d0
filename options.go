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
	"time"
)

// Option is a functional option for configuring a Connection
type Option func(*Connection) error

// WithRetryConfig sets the retry configuration for the connection
func WithRetryConfig(config *RetryConfig) Option {
	return func(c *Connection) error {
		c.SetRetryConfig(config)
		return nil
	}
}

// WithTimeout sets the default timeout for device operations
func WithTimeout(timeout time.Duration) Option {
	return func(c *Connection) error {
		return c.SetTimeout(timeout)
	}
}

// WithMaxRetries sets the maximum number of attempts for device operations
func WithMaxRetries(maxAttempts int) Option {
	return func(c *Connection) error {
		if c.config.RetryConfig == nil {
			c.config.RetryConfig = DefaultRetryConfig()
		}
		c.config.RetryConfig.MaxAttempts = maxAttempts
		if tr, ok := c.transport.(*TransportWithRetry); ok {
			tr.SetRetryConfig(c.config.RetryConfig)
		}
		return nil
	}
}

// WithRetryBackoff sets the initial backoff duration for retries
func WithRetryBackoff(initialBackoff time.Duration) Option {
	return func(c *Connection) error {
		if c.config.RetryConfig == nil {
			c.config.RetryConfig = DefaultRetryConfig()
		}
		c.config.RetryConfig.InitialBackoff = initialBackoff
		if tr, ok := c.transport.(*TransportWithRetry); ok {
			tr.SetRetryConfig(c.config.RetryConfig)
		}
		return nil
	}
}

// WithSerialInCallback registers the pass-through serial data callback at
// construction time, before any event can be delivered.
func WithSerialInCallback(cb SerialInCallback) Option {
	return func(c *Connection) error {
		c.SetSerialInCallback(cb)
		return nil
	}
}

// WithDeviceStateCallback registers the device state callback at
// construction time, before any event can be delivered.
func WithDeviceStateCallback(cb DeviceStateCallback) Option {
	return func(c *Connection) error {
		c.SetDeviceStateCallback(cb)
		return nil
	}
}
