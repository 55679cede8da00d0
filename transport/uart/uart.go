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

// Package uart implements the serial transport for fiscal devices attached
// over RS-232 or USB-CDC.
package uart

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.bug.st/serial"

	hub "github.com/tokenpos/go-integrationhub"
	"github.com/tokenpos/go-integrationhub/detection"
	"github.com/tokenpos/go-integrationhub/internal/frame"
	itransport "github.com/tokenpos/go-integrationhub/internal/transport"
)

// DefaultBaudRate is the line speed both device models ship with
const DefaultBaudRate = 115200

// defaultTimeout bounds how long Exchange waits for the solicited response
const defaultTimeout = 3 * time.Second

// reopenTimeout bounds how long Reopen polls for the port to re-enumerate
// after a USB replug
const reopenTimeout = 2 * time.Second

// Transport implements the serial transport. A background reader goroutine
// owns the port's receive side: solicited responses are handed to the
// waiting Exchange call, unsolicited frames go to the Events channel.
type Transport struct {
	path string
	mode *serial.Mode

	mu        sync.Mutex
	port      serial.Port
	respCh    chan *frame.Frame
	closed    bool
	reading   bool
	timeout   time.Duration
	writeLock sync.Mutex

	events    chan hub.Event
	eventOnce sync.Once
}

// New opens the serial port at path with the default device settings
func New(path string) (hub.Transport, error) {
	return NewWithMode(path, &serial.Mode{
		BaudRate: DefaultBaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
}

// NewFromDevice opens the serial port described by a detection result
func NewFromDevice(device detection.DeviceInfo) (hub.Transport, error) {
	return New(device.Path)
}

// NewWithMode opens the serial port at path with explicit port settings
func NewWithMode(path string, mode *serial.Mode) (hub.Transport, error) {
	t := &Transport{
		path:    path,
		mode:    mode,
		respCh:  make(chan *frame.Frame, 1),
		events:  make(chan hub.Event, 16),
		timeout: defaultTimeout,
	}

	if err := t.open(); err != nil {
		return nil, err
	}
	return t, nil
}

// open opens the port and starts the reader. Callers must not hold t.mu.
// The open is retried briefly: after a USB replug the port node exists
// before the driver will accept an open.
func (t *Transport) open() error {
	var lastErr error
	port, err := itransport.WithRetry(itransport.RetryConfig{
		OnRetry: func() error {
			debugTrace("port %s: open busy, retrying", t.path)
			return nil
		},
		OnRetryFailed: func() error {
			debugTrace("port %s: open retries exhausted", t.path)
			return nil
		},
		Description: "open " + t.path,
		MaxRetries:  2,
		RetryDelay:  200 * time.Millisecond,
	}, func() (serial.Port, bool, error) {
		p, openErr := serial.Open(t.path, t.mode)
		if openErr != nil {
			lastErr = openErr
			return nil, true, nil
		}
		return p, false, nil
	})
	if err != nil {
		if lastErr != nil {
			err = lastErr
		}
		return hub.NewTransportError("open", t.path, err, hub.ErrorTypePermanent)
	}

	// The reader goroutine blocks in Read; a short poll keeps port closure
	// responsive without busy-waiting.
	if err := port.SetReadTimeout(100 * time.Millisecond); err != nil {
		_ = port.Close()
		return hub.NewTransportError("open", t.path, err, hub.ErrorTypePermanent)
	}

	t.mu.Lock()
	t.port = port
	t.reading = true
	t.mu.Unlock()

	go t.readLoop(port)
	return nil
}

// Exchange sends a command frame and waits for the solicited response
func (t *Transport) Exchange(cmd byte, data []byte) ([]byte, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil, hub.ErrConnectionClosed
	}
	port := t.port
	timeout := t.timeout
	t.mu.Unlock()

	if port == nil {
		return nil, hub.ErrNotConnected
	}

	// The handshake registers the company name, which may carry Turkish
	// characters the firmware expects in its own character set.
	if cmd == frame.CmdHandshake {
		data = encodeLatin5(data)
	}

	buf, err := frame.Build(cmd, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", hub.ErrDataTooLarge, err)
	}

	t.writeLock.Lock()
	defer t.writeLock.Unlock()

	// Drain a stale response left by a timed-out predecessor
	select {
	case <-t.respCh:
	default:
	}

	if _, err := port.Write(buf); err != nil {
		return nil, hub.NewTransportError("write", t.path, hub.ErrTransportWrite, hub.ErrorTypeTransient)
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case resp := <-t.respCh:
			if !resp.IsResponseTo(cmd) {
				// Response to an earlier command that already timed out
				continue
			}
			return resp.Data, nil
		case <-deadline.C:
			return nil, hub.NewTimeoutError("exchange", t.path)
		}
	}
}

// readLoop owns the receive side of the port until it is closed or fails
func (t *Transport) readLoop(port serial.Port) {
	var pending []byte
	buf := make([]byte, 512)

	for {
		n, err := port.Read(buf)
		if err != nil {
			t.handleReadFailure(err)
			return
		}
		if n == 0 {
			// Poll timeout; check for shutdown
			t.mu.Lock()
			stop := t.closed || t.port != port
			t.mu.Unlock()
			if stop {
				return
			}
			continue
		}

		pending = append(pending, buf[:n]...)
		pending = t.consumeFrames(pending)
	}
}

// consumeFrames parses every complete frame in pending and returns the
// remaining partial bytes.
func (t *Transport) consumeFrames(pending []byte) []byte {
	for {
		// Resynchronize on STX, drop control bytes (ACK/NAK) in between
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
			// Corrupt length field; skip the bogus STX
			pending = pending[1:]
			continue
		}
		if len(pending) < total {
			return pending
		}

		f, err := frame.Parse(pending[:total])
		pending = pending[total:]
		if err != nil {
			// Bad checksum; the retry layer re-sends the command
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
			case t.events <- hub.Event{Cmd: f.Cmd, Data: decodeEventData(f.Cmd, f.Data)}:
			default:
				// Event consumer is not keeping up; drop rather than stall the port
			}
		}
		t.mu.Unlock()
		return
	}

	select {
	case t.respCh <- f:
	default:
		// Nobody is waiting; response to a timed-out command
	}
}

// handleReadFailure reports a dropped link as a device-state event.
// An empty device id in the event makes the consumer fall back to the id
// from the last handshake.
func (t *Transport) handleReadFailure(err error) {
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

	if errors.Is(err, io.EOF) {
		debugTrace("port %s: EOF, link lost", t.path)
	} else {
		debugTrace("port %s: read failed: %v", t.path, err)
	}
}

// Close closes the port and the event channel. The channel close happens
// under t.mu, paired with the locked sends in dispatch and
// handleReadFailure.
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	port := t.port
	t.port = nil
	t.eventOnce.Do(func() { close(t.events) })
	t.mu.Unlock()

	var closeErr error
	if port != nil {
		closeErr = port.Close()
	}

	if closeErr != nil {
		return hub.NewTransportError("close", t.path, closeErr, hub.ErrorTypePermanent)
	}
	return nil
}

// Reopen re-establishes a dropped link on the same path, keeping the event
// channel so the consumer's loop survives the reconnect. After a USB replug
// the port node can take a while to re-enumerate, so the open is polled
// until the driver accepts it again.
func (t *Transport) Reopen() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return hub.ErrConnectionClosed
	}
	old := t.port
	t.port = nil
	t.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}

	var lastErr error
	_, err := itransport.TimeoutRetry(reopenTimeout, func() (struct{}, bool, error) {
		if openErr := t.open(); openErr != nil {
			lastErr = openErr
			return struct{}{}, true, nil
		}
		return struct{}{}, false, nil
	})
	if err != nil && lastErr != nil {
		// The underlying open failure says more than the poll timeout
		return lastErr
	}
	return err
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

// IsConnected returns true while the port is open and readable
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed && t.port != nil && t.reading
}

// Type returns the transport type
func (*Transport) Type() hub.TransportType {
	return hub.TransportUART
}

// Events returns the unsolicited frame channel
func (t *Transport) Events() <-chan hub.Event {
	return t.events
}

// HasCapability implements TransportCapabilityChecker
func (*Transport) HasCapability(capability hub.TransportCapability) bool {
	return capability == hub.CapabilityEvents || capability == hub.CapabilityReopen
}
