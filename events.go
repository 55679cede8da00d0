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
	"strings"

	"github.com/tokenpos/go-integrationhub/internal/frame"
)

// SerialInCallback receives pass-through serial data pushed by the device,
// such as EFT-POS or customer display traffic. tag identifies the data
// source on the device side.
type SerialInCallback func(tag int, data string)

// DeviceStateCallback receives device attach/detach transitions. connected
// is the new state, deviceID the fiscal serial of the device concerned.
type DeviceStateCallback func(connected bool, deviceID string)

// SetSerialInCallback registers the serial data callback. Passing nil
// removes the current callback. Safe to call at any time.
func (c *Connection) SetSerialInCallback(cb SerialInCallback) {
	c.cbMu.Lock()
	c.serialCb = cb
	c.cbMu.Unlock()
}

// SetDeviceStateCallback registers the device state callback. Passing nil
// removes the current callback. Safe to call at any time.
func (c *Connection) SetDeviceStateCallback(cb DeviceStateCallback) {
	c.cbMu.Lock()
	c.stateCb = cb
	c.cbMu.Unlock()
}

// eventLoop consumes unsolicited frames from the transport and dispatches
// callbacks. It runs on its own goroutine and ends when the transport
// closes its event channel.
func (c *Connection) eventLoop(events <-chan Event) {
	defer c.wg.Done()

	for ev := range events {
		switch ev.Cmd {
		case frame.EvtSerialIn:
			c.dispatchSerialIn(ev.Data)
		case frame.EvtDeviceState:
			c.dispatchDeviceState(ev.Data)
		default:
			debugf("ignoring unknown event frame %#02x", ev.Cmd)
		}
	}
	debugln("event channel closed, event loop exiting")
}

// dispatchSerialIn decodes a serial pass-through event: source tag byte
// followed by the data already transcoded to UTF-8 by the transport.
func (c *Connection) dispatchSerialIn(data []byte) {
	if len(data) < 1 {
		debugln("dropping empty serial-in event")
		return
	}

	tag := int(data[0])
	text := string(data[1:])

	c.cbMu.RLock()
	cb := c.serialCb
	c.cbMu.RUnlock()

	if cb != nil {
		cb(tag, text)
	}
}

// dispatchDeviceState decodes a state transition event: state byte followed
// by the device id. The connection's own view of the session follows the
// device's report, so a detach makes command methods fail fast with
// ErrNotConnected until Reconnect succeeds.
func (c *Connection) dispatchDeviceState(data []byte) {
	if len(data) < 1 {
		debugln("dropping empty device-state event")
		return
	}

	connected := data[0] != 0
	deviceID := strings.TrimSpace(string(data[1:]))

	c.mu.Lock()
	if deviceID == "" && c.info != nil {
		deviceID = c.info.FiscalID
	}
	c.connected = connected && !c.closed
	c.mu.Unlock()

	c.cbMu.RLock()
	cb := c.stateCb
	c.cbMu.RUnlock()

	if cb != nil {
		cb(connected, deviceID)
	}
}
