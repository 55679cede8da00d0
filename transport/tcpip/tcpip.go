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

// Package tcpip implements the network transport for Ethernet-attached
// 300TR units. The frame format is identical to the serial transport; the
// link is a single long-lived TCP connection.
package tcpip

import (
	"fmt"
	"net"
	"sync"
	"time"

	hub "github.com/tokenpos/go-integrationhub"
	"github.com/tokenpos/go-integrationhub/internal/frame"
)

// DefaultPort is the TCP port the device firmware listens on
const DefaultPort = 4567

// defaultTimeout bounds how long Exchange waits for the solicited response
const defaultTimeout = 3 * time.Second

// Transport implements the TCP transport. Like the serial transport, a
// background reader goroutine owns the receive side of the socket.
type Transport struct {
	addr string

	mu      sync.Mutex
	conn    net.Conn
	respCh  chan *frame.Frame
	closed  bool
	reading bool
	timeout time.Duration

	writeLock sync.Mutex
	events    chan hub.Event
	eventOnce sync.Once
}

// New dials the device at addr ("host:port"; the default port is appended
// when missing).
func New(addr string) (hub.Transport, error) {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, fmt.Sprint(DefaultPort))
	}

	t := &Transport{
		addr:    addr,
		respCh:  make(chan *frame.Frame, 1),
		events:  make(chan hub.Event, 16),
		timeout: defaultTimeout,
	}

	if err := t.dial(); err != nil {
		return nil, err
	}
	return t, nil
}

// dial establishes the socket and starts the reader
func (t *Transport) dial() error {
	conn, err := net.DialTimeout("tcp", t.addr, t.timeout)
	if err != nil {
		return hub.NewTransportError("dial", t.addr, err, hub.ErrorTypePermanent)
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetKeepAlive(true)
	}

	t.mu.Lock()
	t.conn = conn
	t.reading = true
	t.mu.Unlock()

	go t.readLoop(conn)
	return nil
}

// Exchange sends a command frame and waits for the solicited response
func (t *Transport) Exchange(cmd byte, data []byte) ([]byte, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil, hub.ErrConnectionClosed
	}
	conn := t.conn
	timeout := t.timeout
	t.mu.Unlock()

	if conn == nil {
		return nil, hub.ErrNotConnected
	}

	buf, err := frame.Build(cmd, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", hub.ErrDataTooLarge, err)
	}

	t.writeLock.Lock()
	defer t.writeLock.Unlock()

	select {
	case <-t.respCh:
	default:
	}

	if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return nil, hub.NewTransportError("write", t.addr, err, hub.ErrorTypeTransient)
	}
	if _, err := conn.Write(buf); err != nil {
		return nil, hub.NewTransportError("write", t.addr, hub.ErrTransportWrite, hub.ErrorTypeTransient)
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case resp := <-t.respCh:
			if !resp.IsResponseTo(cmd) {
				continue
			}
			return resp.Data, nil
		case <-deadline.C:
			return nil, hub.NewTimeoutError("exchange", t.addr)
		}
	}
}

// readLoop owns the receive side of the socket until it is closed or fails
func (t *Transport) readLoop(conn net.Conn) {
	var pending []byte
	buf := make([]byte, 512)

	for {
		n, err := conn.Read(buf)
		if err != nil {
			t.handleReadFailure()
			return
		}

		pending = append(pending, buf[:n]...)
		pending = t.consumeFrames(pending)
	}
}

// consumeFrames parses every complete frame in pending and returns the
// remaining partial bytes.
func (t *Transport) consumeFrames(pending []byte) []byte {
	for {
		start := -1
		for i, b := range pending {
			if b == frame.STX {
				start = i
				break
			}
		}
		if start < 0 {
			return nil
		}
		pending = pending[start:]

		if len(pending) < frame.HeaderLength {
			return pending
		}
		dataLen := int(pending[2])<<8 | int(pending[3])
		total := frame.HeaderLength + dataLen + 2
		if dataLen > frame.MaxPayloadLength {
			pending = pending[1:]
			continue
		}
		if len(pending) < total {
			return pending
		}

		f, err := frame.Parse(pending[:total])
		pending = pending[total:]
		if err != nil {
			continue
		}
		t.dispatch(f)
	}
}

// dispatch routes a parsed frame to the waiting exchange or the event
// channel. The closed-check and the event send stay under one lock: Close
// closes the event channel under the same lock, so a frame racing a Close
// can never send on the closed channel.
func (t *Transport) dispatch(f *frame.Frame) {
	if f.IsEvent() {
		t.mu.Lock()
		if !t.closed {
			select {
			case t.events <- hub.Event{Cmd: f.Cmd, Data: append([]byte(nil), f.Data...)}:
			default:
			}
		}
		t.mu.Unlock()
		return
	}

	select {
	case t.respCh <- f:
	default:
	}
}

// handleReadFailure reports a dropped link as a device-state event
func (t *Transport) handleReadFailure() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.reading = false
	select {
	case t.events <- hub.Event{Cmd: frame.EvtDeviceState, Data: []byte{0x00}}:
	default:
	}
	t.mu.Unlock()
}

// Close closes the socket and the event channel. The channel close happens
// under t.mu, paired with the locked sends in dispatch and
// handleReadFailure.
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	conn := t.conn
	t.conn = nil
	t.eventOnce.Do(func() { close(t.events) })
	t.mu.Unlock()

	var closeErr error
	if conn != nil {
		closeErr = conn.Close()
	}

	if closeErr != nil {
		return hub.NewTransportError("close", t.addr, closeErr, hub.ErrorTypePermanent)
	}
	return nil
}

// Reopen re-dials a dropped link, keeping the event channel alive
func (t *Transport) Reopen() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return hub.ErrConnectionClosed
	}
	old := t.conn
	t.conn = nil
	t.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return t.dial()
}

// SetTimeout sets the response timeout for Exchange
func (t *Transport) SetTimeout(timeout time.Duration) error {
	if timeout <= 0 {
		return hub.ErrInvalidParameter
	}
	t.mu.Lock()
	t.timeout = timeout
	t.mu.Unlock()
	return nil
}

// IsConnected returns true while the socket is open and readable
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed && t.conn != nil && t.reading
}

// Type returns the transport type
func (*Transport) Type() hub.TransportType {
	return hub.TransportTCPIP
}

// Events returns the unsolicited frame channel
func (t *Transport) Events() <-chan hub.Event {
	return t.events
}

// HasCapability implements TransportCapabilityChecker
func (*Transport) HasCapability(capability hub.TransportCapability) bool {
	return capability == hub.CapabilityEvents || capability == hub.CapabilityReopen
}
