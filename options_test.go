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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenpos/go-integrationhub/internal/frame"
	"github.com/tokenpos/go-integrationhub/internal/hubtest"
)

func TestWithTimeout(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	conn, err := New("TokenLinuxTest", mock, WithTimeout(250*time.Millisecond))
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	assert.Equal(t, 250*time.Millisecond, conn.config.Timeout)
}

func TestWithRetryConfig(t *testing.T) {
	t.Parallel()

	custom := &RetryConfig{MaxAttempts: 7, InitialBackoff: time.Millisecond}
	conn, err := New("TokenLinuxTest", NewMockTransport(), WithRetryConfig(custom))
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	assert.Equal(t, 7, conn.config.RetryConfig.MaxAttempts)
}

func TestWithMaxRetriesUpdatesWrapper(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	tr := NewTransportWithRetry(mock, nil)

	conn, err := New("TokenLinuxTest", tr, WithMaxRetries(5), WithRetryBackoff(time.Millisecond))
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	assert.Equal(t, 5, conn.config.RetryConfig.MaxAttempts)
	assert.Equal(t, time.Millisecond, conn.config.RetryConfig.InitialBackoff)
	assert.Same(t, conn.config.RetryConfig, tr.config)
}

func TestCallbackOptionsRegisterBeforeOpen(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	mock.SetResponse(frame.CmdHandshake, hubtest.Build300TRHandshake())

	received := make(chan string, 1)
	conn, err := New("TokenLinuxTest", mock,
		WithSerialInCallback(func(_ int, data string) { received <- data }),
		WithDeviceStateCallback(func(bool, string) {}))
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	require.NoError(t, conn.Open())
	mock.PushEvent(frame.EvtSerialIn, hubtest.BuildSerialInEvent(1, "early"))

	select {
	case data := <-received:
		assert.Equal(t, "early", data)
	case <-time.After(time.Second):
		t.Fatal("callback registered via option never fired")
	}
}
