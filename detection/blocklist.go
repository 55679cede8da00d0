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

package detection

import (
	"strings"
)

// DefaultBlocklist returns a list of known problematic USB devices that
// should not be probed during detection.
// Format: VID:PID in hexadecimal (case-insensitive).
func DefaultBlocklist() []string {
	return []string{
		// EFT-POS pinpads enumerate as CDC serial next to the fiscal
		// printer on some installs; probing them trips their tamper log.
		"0B00:0054",
	}
}

// IsBlocked checks if a USB device is in the blocklist.
func IsBlocked(vidpid string, blocklist []string) bool {
	vidpid = strings.ToUpper(strings.TrimSpace(vidpid))

	for _, blocked := range blocklist {
		if vidpid == strings.ToUpper(strings.TrimSpace(blocked)) {
			return true
		}
	}
	return false
}

// knownBridges maps USB serial bridge VID:PIDs used by Beko fiscal units
// to a detection confidence score.
var knownBridges = map[string]int{
	"0403:6001": 80, // FTDI FT232R, X30TR desktop units
	"10C4:EA60": 80, // CP210x, 300TR field revisions
	"067B:2303": 60, // PL2303 found in some service cables
}

// BridgeConfidence returns the confidence score for a VID:PID, or zero for
// unknown hardware.
func BridgeConfidence(vidpid string) int {
	return knownBridges[strings.ToUpper(strings.TrimSpace(vidpid))]
}
