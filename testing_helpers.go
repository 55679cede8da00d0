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
	"sync"
	"time"
)

// MockTransport is an in-memory Transport for tests. Responses and errors
// are registered per command byte; unsolicited events are pushed through
// PushEvent.
type MockTransport struct {
	responses map[byte][]byte
	errors    map[byte]error
	calls     map[byte]int
	events    chan Event
	mu        sync.Mutex
	timeout   time.Duration
	closed    bool
}

// NewMockTransport creates a MockTransport with an open event channel
func NewMockTransport() *MockTransport {
	return &MockTransport{
		responses: make(map[byte][]byte),
		errors:    make(map[byte]error),
		calls:     make(map[byte]int),
		events:    make(chan Event, 16),
		timeout:   time.Second,
	}
}

// SetResponse registers the response payload for a command byte
func (m *MockTransport) SetResponse(cmd byte, payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[cmd] = append([]byte(nil), payload...)
	delete(m.errors, cmd)
}

// SetError registers an error for a command byte
func (m *MockTransport) SetError(cmd byte, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[cmd] = err
}

// Calls returns how many times a command byte has been exchanged
func (m *MockTransport) Calls(cmd byte) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[cmd]
}

// PushEvent delivers an unsolicited event to the connection under test
func (m *MockTransport) PushEvent(cmd byte, data []byte) {
	m.events <- Event{Cmd: cmd, Data: append([]byte(nil), data...)}
}

// Exchange implements Transport
func (m *MockTransport) Exchange(cmd byte, _ []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrConnectionClosed
	}
	m.calls[cmd]++

	if err, ok := m.errors[cmd]; ok {
		return nil, err
	}
	if resp, ok := m.responses[cmd]; ok {
		return append([]byte(nil), resp...), nil
	}
	return nil, NewTimeoutError("Exchange", "mock")
}

// Close implements Transport
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.events)
	}
	return nil
}

// SetTimeout implements Transport
func (m *MockTransport) SetTimeout(timeout time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = timeout
	return nil
}

// IsConnected implements Transport
func (m *MockTransport) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed
}

// Type implements Transport
func (m *MockTransport) Type() TransportType {
	return TransportMock
}

// Events implements EventSource
func (m *MockTransport) Events() <-chan Event {
	return m.events
}

// HasCapability implements TransportCapabilityChecker
func (*MockTransport) HasCapability(capability TransportCapability) bool {
	return capability == CapabilityEvents
}

// Reopen implements Reopener; the mock link never actually drops
func (m *MockTransport) Reopen() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrConnectionClosed
	}
	return nil
}

// BlockingMockTransport is a mock transport that can block operations on
// demand. This is used for testing context cancellation.
type BlockingMockTransport struct {
	blockChan    chan struct{}
	ResponseFunc func(cmd byte, data []byte) ([]byte, error)
	Response     []byte
	timeout      time.Duration
	mu           sync.Mutex
	closed       bool
}

// NewBlockingMockTransport creates a new blocking mock transport
func NewBlockingMockTransport() *BlockingMockTransport {
	return &BlockingMockTransport{
		blockChan: make(chan struct{}),
		timeout:   5 * time.Second,
	}
}

// Exchange blocks until Unblock() is called, the timeout expires, or the
// transport is closed.
func (m *BlockingMockTransport) Exchange(cmd byte, data []byte) ([]byte, error) {
	m.mu.Lock()
	blockChan := m.blockChan
	closed := m.closed
	responseFunc := m.ResponseFunc
	response := m.Response
	timeout := m.timeout
	m.mu.Unlock()

	if closed {
		return nil, ErrTransportRead
	}

	select {
	case <-blockChan:
	case <-time.After(timeout):
		return nil, NewTimeoutError("Exchange", "mock")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrTransportRead
	}

	if responseFunc != nil {
		return responseFunc(cmd, data)
	}
	if response != nil {
		return append([]byte(nil), response...), nil
	}

	// Handshake-shaped default so OpenContext succeeds once unblocked
	return append([]byte{0x00, 0x01, 0x00}, []byte("TEST0001")...), nil
}

// Unblock allows one blocked Exchange to proceed
func (m *BlockingMockTransport) Unblock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		close(m.blockChan)
		m.blockChan = make(chan struct{})
	}
}

// Close unblocks all operations and marks the transport as closed
func (m *BlockingMockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.blockChan)
	}
	return nil
}

// SetTimeout implements Transport
func (m *BlockingMockTransport) SetTimeout(timeout time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = timeout
	return nil
}

// IsConnected implements Transport
func (m *BlockingMockTransport) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed
}

// Type implements Transport
func (*BlockingMockTransport) Type() TransportType {
	return TransportMock
}
