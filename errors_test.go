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
	"strings"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	t.Parallel()
	tests := getIsRetryableTestCases()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := IsRetryable(tt.err)
			if got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func getIsRetryableTestCases() []struct {
	err  error
	name string
	want bool
} {
	return []struct {
		err  error
		name string
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "transport timeout retryable",
			err:  ErrTransportTimeout,
			want: true,
		},
		{
			name: "transport read retryable",
			err:  ErrTransportRead,
			want: true,
		},
		{
			name: "transport write retryable",
			err:  ErrTransportWrite,
			want: true,
		},
		{
			name: "communication failed retryable",
			err:  ErrCommunicationFailed,
			want: true,
		},
		{
			name: "no ACK retryable",
			err:  ErrNoACK,
			want: true,
		},
		{
			name: "frame corrupted retryable",
			err:  ErrFrameCorrupted,
			want: true,
		},
		{
			name: "checksum mismatch retryable",
			err:  ErrChecksumMismatch,
			want: true,
		},
		{
			name: "device not found not retryable",
			err:  ErrDeviceNotFound,
			want: false,
		},
		{
			name: "not connected not retryable",
			err:  ErrNotConnected,
			want: false,
		},
		{
			name: "unsupported device not retryable",
			err:  ErrUnsupportedDevice,
			want: false,
		},
		{
			name: "data too large not retryable",
			err:  ErrDataTooLarge,
			want: false,
		},
		{
			name: "invalid parameter not retryable",
			err:  ErrInvalidParameter,
			want: false,
		},
		{
			name: "wrapped retryable error",
			err:  fmt.Errorf("handshake failed: %w", ErrNoACK),
			want: true,
		},
		{
			name: "error with matching text only",
			err:  errors.New("outer: " + ErrTransportTimeout.Error()),
			want: false,
		},
	}
}

func TestIsRetryable_TransportError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		transport *TransportError
		name      string
		want      bool
	}{
		{
			name: "transport error retryable=true",
			transport: &TransportError{
				Err:       errors.New("test error"),
				Op:        "read",
				Port:      "/dev/ttyUSB0",
				Type:      ErrorTypeTransient,
				Retryable: true,
			},
			want: true,
		},
		{
			name: "transport error retryable=false",
			transport: &TransportError{
				Err:       errors.New("test error"),
				Op:        "write",
				Port:      "/dev/ttyUSB0",
				Type:      ErrorTypeTransient,
				Retryable: false,
			},
			want: false,
		},
		{
			name: "transport error with retryable underlying error but retryable=false",
			transport: &TransportError{
				Err:       ErrTransportTimeout,
				Op:        "read",
				Port:      "/dev/ttyUSB0",
				Type:      ErrorTypeTimeout,
				Retryable: false,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := IsRetryable(tt.transport)
			if got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetErrorType(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		name string
		want ErrorType
	}{
		{
			name: "nil error",
			err:  nil,
			want: ErrorTypePermanent,
		},
		{
			name: "transport timeout",
			err:  ErrTransportTimeout,
			want: ErrorTypeTimeout,
		},
		{
			name: "transport read",
			err:  ErrTransportRead,
			want: ErrorTypeTransient,
		},
		{
			name: "no ACK",
			err:  ErrNoACK,
			want: ErrorTypeTransient,
		},
		{
			name: "connection closed is fatal",
			err:  ErrConnectionClosed,
			want: ErrorTypeFatal,
		},
		{
			name: "device not found is permanent",
			err:  ErrDeviceNotFound,
			want: ErrorTypePermanent,
		},
		{
			name: "transport error carries its own type",
			err:  NewTransportError("open", "COM3", errors.New("busy"), ErrorTypeFatal),
			want: ErrorTypeFatal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := GetErrorType(tt.err); got != tt.want {
				t.Errorf("GetErrorType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransportErrorFormat(t *testing.T) {
	t.Parallel()

	withPort := NewTransportError("exchange", "/dev/ttyUSB0", ErrTransportWrite, ErrorTypeTransient)
	if !strings.Contains(withPort.Error(), "/dev/ttyUSB0") {
		t.Errorf("Error() = %q, want port in message", withPort.Error())
	}
	if !errors.Is(withPort, ErrTransportWrite) {
		t.Error("errors.Is() failed to unwrap TransportError")
	}

	withoutPort := NewTransportError("exchange", "", ErrTransportWrite, ErrorTypeTransient)
	if strings.Contains(withoutPort.Error(), "on ") {
		t.Errorf("Error() = %q, want no port clause", withoutPort.Error())
	}
}

func TestStatusError(t *testing.T) {
	t.Parallel()

	err := &StatusError{Op: "sendBasket", Code: 103}
	if !strings.Contains(err.Error(), "103") {
		t.Errorf("Error() = %q, want status code in message", err.Error())
	}

	var statusErr *StatusError
	wrapped := fmt.Errorf("submit: %w", err)
	if !errors.As(wrapped, &statusErr) {
		t.Fatal("errors.As() failed to extract StatusError")
	}
	if statusErr.Code != 103 {
		t.Errorf("Code = %d, want 103", statusErr.Code)
	}
}

func TestErrorTypeString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		typ  ErrorType
		want string
	}{
		{name: "permanent", typ: ErrorTypePermanent, want: "permanent"},
		{name: "transient", typ: ErrorTypeTransient, want: "transient"},
		{name: "timeout", typ: ErrorTypeTimeout, want: "timeout"},
		{name: "fatal", typ: ErrorTypeFatal, want: "fatal"},
		{name: "unknown", typ: ErrorType(99), want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
