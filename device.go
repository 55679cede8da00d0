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
	"fmt"
	"strings"
)

// DeviceModel identifies a supported fiscal device model
type DeviceModel int

// Device indexes match the values reported by the firmware handshake:
// 0 for X30TR, 1 for 300TR. ModelUnknown is reported as -1 when no device
// has completed a handshake.
const (
	ModelUnknown DeviceModel = iota - 1
	ModelX30TR
	Model300TR
)

// String returns the marketing name of the model
func (m DeviceModel) String() string {
	switch m {
	case ModelX30TR:
		return "X30TR"
	case Model300TR:
		return "300TR"
	default:
		return "unknown"
	}
}

// Index returns the numeric device index exposed to integrators
func (m DeviceModel) Index() int {
	switch m {
	case ModelX30TR, Model300TR:
		return int(m)
	default:
		return -1
	}
}

// SupportsStandalonePayment reports whether the model accepts a payment
// submitted outside a basket. Only the 300TR does; the X30TR settles
// payments as part of the basket document.
func (m DeviceModel) SupportsStandalonePayment() bool {
	return m == Model300TR
}

// modelFromHandshake maps the handshake model byte to a DeviceModel
func modelFromHandshake(b byte) DeviceModel {
	switch b {
	case 0x00:
		return ModelX30TR
	case 0x01:
		return Model300TR
	default:
		return ModelUnknown
	}
}

// DeviceInfo describes the fiscal device attached to a connection
type DeviceInfo struct {
	// FiscalID is the device's fiscal registration serial
	FiscalID string
	// Firmware is the reported firmware version
	Firmware string
	// Model is the detected device model
	Model DeviceModel
}

// String returns a short human-readable device description
func (d *DeviceInfo) String() string {
	return fmt.Sprintf("%s fw %s serial %s", d.Model, d.Firmware, d.FiscalID)
}

// parseHandshakeResponse decodes the handshake response payload:
// model byte, firmware major, firmware minor, then the fiscal serial as
// ASCII for the remainder of the frame.
func parseHandshakeResponse(data []byte) (*DeviceInfo, error) {
	if len(data) < 3 {
		return nil, fmt.Errorf("%w: handshake response %d bytes", ErrFrameCorrupted, len(data))
	}

	model := modelFromHandshake(data[0])
	if model == ModelUnknown {
		return nil, fmt.Errorf("%w: model byte %#02x", ErrDeviceNotFound, data[0])
	}

	info := &DeviceInfo{
		Model:    model,
		Firmware: fmt.Sprintf("%d.%d", data[1], data[2]),
		FiscalID: strings.TrimSpace(string(data[3:])),
	}
	return info, nil
}
