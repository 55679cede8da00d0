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

package uart

import (
	"golang.org/x/text/encoding/charmap"

	"github.com/tokenpos/go-integrationhub/internal/frame"
)

// The firmware emits pass-through serial text and device identifiers in
// ISO 8859-9 (Latin-5, Turkish). JSON documents are exchanged as UTF-8
// and pass through untouched.

// decodeEventData transcodes the text portion of an event payload to
// UTF-8, preserving the leading tag or state byte.
func decodeEventData(cmd byte, data []byte) []byte {
	if len(data) < 2 {
		return append([]byte(nil), data...)
	}

	switch cmd {
	case frame.EvtSerialIn, frame.EvtDeviceState:
		text := decodeLatin5(data[1:])
		out := make([]byte, 0, 1+len(text))
		out = append(out, data[0])
		return append(out, text...)
	default:
		return append([]byte(nil), data...)
	}
}

// decodeLatin5 converts device text to UTF-8. Decoding cannot fail: unknown
// bytes map to the replacement rune.
func decodeLatin5(b []byte) []byte {
	decoded, err := charmap.ISO8859_9.NewDecoder().Bytes(b)
	if err != nil {
		return append([]byte(nil), b...)
	}
	return decoded
}

// encodeLatin5 converts UTF-8 text to device encoding, used when writing to
// the device's pass-through serial side. The encoder fails on characters
// outside the set; the raw UTF-8 bytes go out unchanged in that case.
func encodeLatin5(b []byte) []byte {
	encoded, err := charmap.ISO8859_9.NewEncoder().Bytes(b)
	if err != nil {
		return append([]byte(nil), b...)
	}
	return encoded
}
