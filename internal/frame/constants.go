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

// Package frame provides frame manipulation and protocol constants for
// communication with Beko fiscal devices.
package frame

// Frame markers and control bytes
const (
	STX = 0x02 // Start of frame
	ETX = 0x03 // End of frame payload
	ACK = 0x06 // Frame accepted
	NAK = 0x15 // Frame rejected, sender should retransmit
)

// Command bytes sent host-to-device. Each solicited response echoes the
// command byte with the response bit set.
const (
	CmdHandshake  = 0x48 // Identify the attached device, register company name
	CmdBasket     = 0x42 // Submit a sale basket
	CmdPayment    = 0x50 // Submit a standalone payment
	CmdFiscalInfo = 0x49 // Query fiscal identity and daily counters
)

// ResponseBit is set on the command byte of every solicited response.
const ResponseBit = 0x80

// Event command bytes for unsolicited device-to-host frames.
const (
	EvtSerialIn    = 0xD1 // Pass-through serial data; first payload byte is the source tag
	EvtDeviceState = 0xD2 // Device attach/detach; payload is state byte + device id
)

// Frame size limits
const (
	// MaxPayloadLength is the largest data payload a single frame carries.
	// Basket JSON above this limit is rejected before hitting the wire.
	MaxPayloadLength = 4096
	// MinFrameLength is STX + cmd + 2 length bytes + ETX + LRC
	MinFrameLength = 6
	// HeaderLength is STX + cmd + 2 length bytes
	HeaderLength = 4
)

// IsEvent reports whether a command byte marks an unsolicited event frame
func IsEvent(cmd byte) bool {
	return cmd == EvtSerialIn || cmd == EvtDeviceState
}
