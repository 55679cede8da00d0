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
	"bytes"
	"testing"

	"github.com/tokenpos/go-integrationhub/internal/frame"
)

func TestLatin5RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
	}{
		{name: "plain ASCII", text: "NAKIT"},
		{name: "Turkish product name", text: "İLAÇ"},
		{name: "lowercase Turkish", text: "şğüöçı"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			encoded := encodeLatin5([]byte(tt.text))
			decoded := decodeLatin5(encoded)
			if string(decoded) != tt.text {
				t.Errorf("round trip = %q, want %q", decoded, tt.text)
			}
		})
	}
}

func TestEncodeLatin5WireBytes(t *testing.T) {
	t.Parallel()

	// The ISO 8859-9 positions the firmware depends on
	tests := []struct {
		name string
		text string
		want []byte
	}{
		{name: "capital dotted I", text: "İ", want: []byte{0xDD}},
		{name: "lowercase dotless i", text: "ı", want: []byte{0xFD}},
		{name: "g breve", text: "ğ", want: []byte{0xF0}},
		{name: "s cedilla", text: "ş", want: []byte{0xFE}},
		{name: "c cedilla", text: "Ç", want: []byte{0xC7}},
		{name: "product name", text: "İLAÇ", want: []byte{0xDD, 'L', 'A', 0xC7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := encodeLatin5([]byte(tt.text)); !bytes.Equal(got, tt.want) {
				t.Errorf("encodeLatin5(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestEncodeLatin5UnmappableFallsBack(t *testing.T) {
	t.Parallel()

	// Characters outside Latin-5 leave the payload untouched
	raw := []byte("№42")
	if got := encodeLatin5(raw); !bytes.Equal(got, raw) {
		t.Errorf("encodeLatin5(%q) = %#v, want raw bytes", raw, got)
	}
}

func TestDecodeEventDataPreservesTagByte(t *testing.T) {
	t.Parallel()

	payload := append([]byte{0x03}, encodeLatin5([]byte("İLAÇ"))...)
	decoded := decodeEventData(frame.EvtSerialIn, payload)

	if len(decoded) < 1 || decoded[0] != 0x03 {
		t.Fatalf("decoded = %v, want leading tag byte preserved", decoded)
	}
	if string(decoded[1:]) != "İLAÇ" {
		t.Errorf("decoded text = %q, want İLAÇ", decoded[1:])
	}
}

func TestDecodeEventDataNonEventCommand(t *testing.T) {
	t.Parallel()

	raw := []byte{0x00, 0xD0}
	decoded := decodeEventData(frame.CmdBasket|frame.ResponseBit, raw)
	if !bytes.Equal(decoded, raw) {
		t.Errorf("decoded = %v, want untouched payload", decoded)
	}
}

func TestDecodeEventDataShortPayload(t *testing.T) {
	t.Parallel()

	decoded := decodeEventData(frame.EvtDeviceState, []byte{0x01})
	if !bytes.Equal(decoded, []byte{0x01}) {
		t.Errorf("decoded = %v, want payload unchanged", decoded)
	}
}
