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
	"fmt"
	"time"
)

// Transport defines the interface for communication with fiscal devices.
// This can be implemented by serial or TCP/IP backends.
type Transport interface {
	// Exchange sends a command frame to the device and waits for the
	// solicited response payload
	Exchange(cmd byte, data []byte) ([]byte, error)

	// Close closes the transport connection
	Close() error

	// SetTimeout sets the response timeout for the transport
	SetTimeout(timeout time.Duration) error

	// IsConnected returns true if the transport is connected
	IsConnected() bool

	// Type returns the transport type
	Type() TransportType
}

// TransportType represents the type of transport
type TransportType string

const (
	// TransportUART represents RS-232/USB-CDC serial transport.
	TransportUART TransportType = "uart"
	// TransportTCPIP represents Ethernet transport for network-attached units.
	TransportTCPIP TransportType = "tcpip"
	// TransportMock represents a mock transport for testing
	TransportMock TransportType = "mock"
)

// TransportCapability represents specific capabilities or behaviors of a transport
type TransportCapability string

const (
	// CapabilityEvents indicates the transport delivers unsolicited device
	// frames through an Events channel
	CapabilityEvents TransportCapability = "events"

	// CapabilityReopen indicates the transport can re-establish its link
	// in place, keeping the same path
	CapabilityReopen TransportCapability = "reopen"
)

// TransportCapabilityChecker defines an interface for querying transport
// capabilities without reflection.
type TransportCapabilityChecker interface {
	// HasCapability returns true if the transport has the specified capability
	HasCapability(capability TransportCapability) bool
}

// Event is an unsolicited frame pushed by the device: pass-through serial
// data or a state transition.
type Event struct {
	Data []byte
	Cmd  byte
}

// EventSource is implemented by transports that surface unsolicited device
// frames. The channel is closed when the transport closes.
type EventSource interface {
	Events() <-chan Event
}

// Reopener is implemented by transports that can re-establish a dropped
// link on the same path.
type Reopener interface {
	Reopen() error
}

// TransportWithRetry wraps a Transport with retry capabilities
type TransportWithRetry struct {
	transport Transport
	config    *RetryConfig
}

// NewTransportWithRetry creates a new transport wrapper with retry logic
func NewTransportWithRetry(transport Transport, config *RetryConfig) *TransportWithRetry {
	if config == nil {
		config = DefaultRetryConfig()
	}
	return &TransportWithRetry{
		transport: transport,
		config:    config,
	}
}

// Exchange sends a command with retry logic
func (t *TransportWithRetry) Exchange(cmd byte, data []byte) ([]byte, error) {
	var result []byte
	err := RetryWithConfig(context.Background(), t.config, func() error {
		var err error
		result, err = t.transport.Exchange(cmd, data)
		if err != nil {
			return &TransportError{
				Op:        "Exchange",
				Err:       err,
				Type:      GetErrorType(err),
				Retryable: IsRetryable(err),
			}
		}
		return nil
	})
	return result, err
}

// Close closes the transport connection
func (t *TransportWithRetry) Close() error {
	if err := t.transport.Close(); err != nil {
		return fmt.Errorf("failed to close underlying transport: %w", err)
	}
	return nil
}

// SetTimeout sets the response timeout for the transport
func (t *TransportWithRetry) SetTimeout(timeout time.Duration) error {
	if err := t.transport.SetTimeout(timeout); err != nil {
		return fmt.Errorf("failed to set timeout on underlying transport: %w", err)
	}
	return nil
}

// IsConnected returns true if the transport is connected
func (t *TransportWithRetry) IsConnected() bool {
	return t.transport.IsConnected()
}

// Type returns the transport type
func (t *TransportWithRetry) Type() TransportType {
	return t.transport.Type()
}

// HasCapability forwards capability checking to the underlying transport
func (t *TransportWithRetry) HasCapability(capability TransportCapability) bool {
	if capChecker, ok := t.transport.(TransportCapabilityChecker); ok {
		return capChecker.HasCapability(capability)
	}
	return false
}

// Events forwards the event channel of the underlying transport, or nil if
// it has none.
func (t *TransportWithRetry) Events() <-chan Event {
	if src, ok := t.transport.(EventSource); ok {
		return src.Events()
	}
	return nil
}

// Reopen forwards to the underlying transport when supported
func (t *TransportWithRetry) Reopen() error {
	if r, ok := t.transport.(Reopener); ok {
		return r.Reopen()
	}
	return ErrNotConnected
}

// SetRetryConfig updates the retry configuration
func (t *TransportWithRetry) SetRetryConfig(config *RetryConfig) {
	t.config = config
}
