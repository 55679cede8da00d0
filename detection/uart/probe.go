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
	"context"
	"time"

	"go.bug.st/serial"

	"github.com/tokenpos/go-integrationhub/internal/frame"
)

// probeHandshake opens the port briefly and checks whether something on
// the other end answers a handshake frame with a valid frame start. The
// probe sends no fiscal document and leaves no state on the device.
func probeHandshake(ctx context.Context, path string, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	mode := &serial.Mode{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return false
	}
	defer port.Close()

	if err := port.SetReadTimeout(timeout); err != nil {
		return false
	}

	probe, err := frame.Build(frame.CmdHandshake, []byte("probe"))
	if err != nil {
		return false
	}
	if _, err := port.Write(probe); err != nil {
		return false
	}

	if err := ctx.Err(); err != nil {
		return false
	}

	buf := make([]byte, 1)
	n, err := port.Read(buf)
	if err != nil || n == 0 {
		return false
	}
	return buf[0] == frame.STX || buf[0] == frame.ACK
}
