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

package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Frame is a decoded protocol frame. The wire layout is:
//
//	STX | CMD | LEN (2 bytes, big endian) | DATA | ETX | LRC
//
// where LRC is the XOR of every byte from CMD through ETX inclusive.
type Frame struct {
	Data []byte
	Cmd  byte
}

// Errors returned by the frame codec
var (
	ErrTooLarge    = errors.New("frame: payload exceeds maximum length")
	ErrShortFrame  = errors.New("frame: buffer shorter than minimum frame")
	ErrBadStart    = errors.New("frame: missing STX")
	ErrBadEnd      = errors.New("frame: missing ETX")
	ErrBadChecksum = errors.New("frame: LRC mismatch")
	ErrLengthField = errors.New("frame: length field does not match buffer")
)

// CalculateLRC computes the longitudinal redundancy check over data
func CalculateLRC(data []byte) byte {
	var lrc byte
	for _, b := range data {
		lrc ^= b
	}
	return lrc
}

// Build encodes cmd and data into a complete wire frame
func Build(cmd byte, data []byte) ([]byte, error) {
	if len(data) > MaxPayloadLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}

	buf := make([]byte, 0, HeaderLength+len(data)+2)
	buf = append(buf, STX, cmd)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(data)))
	buf = append(buf, data...)
	buf = append(buf, ETX)
	buf = append(buf, CalculateLRC(buf[1:]))
	return buf, nil
}

// Parse decodes a complete wire frame. The buffer must contain exactly one
// frame; trailing bytes are an error.
func Parse(buf []byte) (*Frame, error) {
	if len(buf) < MinFrameLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortFrame, len(buf))
	}
	if buf[0] != STX {
		return nil, ErrBadStart
	}

	dataLen := int(binary.BigEndian.Uint16(buf[2:4]))
	if len(buf) != HeaderLength+dataLen+2 {
		return nil, fmt.Errorf("%w: length field %d, buffer %d", ErrLengthField, dataLen, len(buf))
	}
	if buf[len(buf)-2] != ETX {
		return nil, ErrBadEnd
	}
	if CalculateLRC(buf[1:len(buf)-1]) != buf[len(buf)-1] {
		return nil, ErrBadChecksum
	}

	f := &Frame{Cmd: buf[1]}
	if dataLen > 0 {
		f.Data = append([]byte(nil), buf[HeaderLength:HeaderLength+dataLen]...)
	}
	return f, nil
}

// IsResponseTo reports whether the frame is the solicited response for cmd
func (f *Frame) IsResponseTo(cmd byte) bool {
	return f.Cmd == cmd|ResponseBit
}

// IsEvent reports whether the frame is an unsolicited event
func (f *Frame) IsEvent() bool {
	return IsEvent(f.Cmd)
}
