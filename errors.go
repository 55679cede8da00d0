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
	"errors"
	"fmt"
)

// Transport-level errors. These are retryable: a subsequent attempt on the
// same port may succeed.
var (
	ErrTransportTimeout    = errors.New("transport timeout")
	ErrTransportRead       = errors.New("transport read failed")
	ErrTransportWrite      = errors.New("transport write failed")
	ErrCommunicationFailed = errors.New("communication with device failed")
	ErrNoACK               = errors.New("no ACK received from device")
	ErrFrameCorrupted      = errors.New("corrupted frame received")
	ErrChecksumMismatch    = errors.New("frame checksum mismatch")
)

// Permanent errors. Retrying without operator intervention will not help.
var (
	ErrDeviceNotFound    = errors.New("no fiscal device found")
	ErrNotConnected      = errors.New("connection is not established")
	ErrConnectionClosed  = errors.New("connection has been closed")
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrDataTooLarge      = errors.New("data exceeds maximum frame size")
	ErrUnsupportedDevice = errors.New("operation not supported by the active device")
	ErrInvalidPayload    = errors.New("invalid payload")
)

// ErrorType classifies errors for retry decisions
type ErrorType int

const (
	// ErrorTypePermanent indicates an error that won't be resolved by retrying
	ErrorTypePermanent ErrorType = iota
	// ErrorTypeTransient indicates an error that may be resolved by retrying
	ErrorTypeTransient
	// ErrorTypeTimeout indicates a timeout error
	ErrorTypeTimeout
	// ErrorTypeFatal indicates the connection is unusable and must be reopened
	ErrorTypeFatal
)

// String returns a human-readable name for the error type
func (t ErrorType) String() string {
	switch t {
	case ErrorTypePermanent:
		return "permanent"
	case ErrorTypeTransient:
		return "transient"
	case ErrorTypeTimeout:
		return "timeout"
	case ErrorTypeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// TransportError wraps an error that occurred during a transport operation,
// preserving the operation name and port for diagnostics.
type TransportError struct {
	Err       error
	Op        string
	Port      string
	Type      ErrorType
	Retryable bool
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s on %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a TransportError with retryability derived from
// the error type.
func NewTransportError(op, port string, err error, errType ErrorType) *TransportError {
	return &TransportError{
		Err:       err,
		Op:        op,
		Port:      port,
		Type:      errType,
		Retryable: errType == ErrorTypeTransient || errType == ErrorTypeTimeout,
	}
}

// NewTimeoutError creates a TransportError for a timed-out operation
func NewTimeoutError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrTransportTimeout, ErrorTypeTimeout)
}

// StatusError carries a non-success status code returned by the fiscal
// device for a basket or payment submission. The full code table belongs to
// the device firmware; the library carries the code opaquely.
type StatusError struct {
	Op   string
	Code int
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s rejected by device with status %d", e.Op, e.Code)
}

// IsRetryable reports whether the error is worth retrying on the same
// connection. TransportError instances carry an explicit flag; sentinel
// errors are classified by identity.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}

	switch {
	case errors.Is(err, ErrTransportTimeout),
		errors.Is(err, ErrTransportRead),
		errors.Is(err, ErrTransportWrite),
		errors.Is(err, ErrCommunicationFailed),
		errors.Is(err, ErrNoACK),
		errors.Is(err, ErrFrameCorrupted),
		errors.Is(err, ErrChecksumMismatch):
		return true
	default:
		return false
	}
}

// GetErrorType returns the classification for an error
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ErrorTypePermanent
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Type
	}

	switch {
	case errors.Is(err, ErrTransportTimeout):
		return ErrorTypeTimeout
	case errors.Is(err, ErrTransportRead),
		errors.Is(err, ErrTransportWrite),
		errors.Is(err, ErrCommunicationFailed),
		errors.Is(err, ErrNoACK),
		errors.Is(err, ErrFrameCorrupted),
		errors.Is(err, ErrChecksumMismatch):
		return ErrorTypeTransient
	case errors.Is(err, ErrConnectionClosed):
		return ErrorTypeFatal
	default:
		return ErrorTypePermanent
	}
}
