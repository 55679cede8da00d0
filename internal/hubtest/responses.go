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

// Package hubtest provides canned device responses for tests.
package hubtest

import (
	"encoding/json"
	"fmt"
)

// Handshake model bytes as the firmware reports them
const (
	ModelByteX30TR = 0x00
	ModelByte300TR = 0x01
)

// Test fiscal serials
const (
	TestFiscalIDX30TR = "X3000012345"
	TestFiscalID300TR = "TR300054321"
)

// BuildHandshakeResponse creates a handshake response payload
func BuildHandshakeResponse(model byte, fwMajor, fwMinor byte, fiscalID string) []byte {
	return append([]byte{model, fwMajor, fwMinor}, []byte(fiscalID)...)
}

// BuildX30TRHandshake creates the handshake response of a typical X30TR
func BuildX30TRHandshake() []byte {
	return BuildHandshakeResponse(ModelByteX30TR, 2, 14, TestFiscalIDX30TR)
}

// Build300TRHandshake creates the handshake response of a typical 300TR
func Build300TRHandshake() []byte {
	return BuildHandshakeResponse(ModelByte300TR, 1, 8, TestFiscalID300TR)
}

// BuildStatusResponse creates a two-byte big-endian status payload
func BuildStatusResponse(code uint16) []byte {
	return []byte{byte(code >> 8), byte(code)}
}

// BuildFiscalInfoResponse creates a fiscal info JSON payload
func BuildFiscalInfoResponse(fiscalID, model string) []byte {
	doc := map[string]any{
		"fiscalID":     fiscalID,
		"model":        model,
		"firmware":     "2.14",
		"zReportCount": 42,
		"receiptCount": 7,
		"dailyTotal":   125050,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		panic(fmt.Sprintf("hubtest: %v", err))
	}
	return data
}

// BuildSerialInEvent creates a serial pass-through event payload
func BuildSerialInEvent(tag byte, text string) []byte {
	return append([]byte{tag}, []byte(text)...)
}

// BuildDeviceStateEvent creates a device state event payload
func BuildDeviceStateEvent(connected bool, deviceID string) []byte {
	state := byte(0x00)
	if connected {
		state = 0x01
	}
	return append([]byte{state}, []byte(deviceID)...)
}
