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
	"os"
)

// debugEnabled is read once at startup. Set INTEGRATIONHUB_DEBUG=1 to get
// protocol-level tracing on stderr.
var debugEnabled = os.Getenv("INTEGRATIONHUB_DEBUG") != ""

// SetDebugEnabled toggles protocol-level tracing at runtime
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

func debugf(format string, args ...any) {
	if debugEnabled {
		fmt.Fprintf(os.Stderr, "integrationhub: "+format+"\n", args...)
	}
}

func debugln(args ...any) {
	if debugEnabled {
		fmt.Fprintln(os.Stderr, append([]any{"integrationhub:"}, args...)...)
	}
}
