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

// Package uart detects fiscal devices attached through serial ports.
// Importing the package registers the detector.
package uart

import (
	"context"
	"fmt"
	"strings"

	"go.bug.st/serial/enumerator"

	"github.com/tokenpos/go-integrationhub/detection"
)

// detector implements the Detector interface for serial ports
type detector struct{}

// New creates a new UART detector
func New() detection.Detector {
	return &detector{}
}

// init registers the detector on package import
func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type
func (*detector) Transport() string {
	return "uart"
}

// Detect searches serial ports for fiscal devices. In Safe mode only USB
// metadata is inspected; ports with unknown bridges are still reported at
// zero confidence so explicit paths keep working.
func (*detector) Detect(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	ports, err := listPorts()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}

	devices := make([]detection.DeviceInfo, 0, len(ports))
	for _, port := range ports {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if port.VIDPID != "" && detection.IsBlocked(port.VIDPID, opts.Blocklist) {
			continue
		}

		info := detection.DeviceInfo{
			Path:         port.Path,
			Transport:    "uart",
			Name:         port.Name,
			VIDPID:       port.VIDPID,
			Manufacturer: port.Manufacturer,
			SerialNumber: port.SerialNumber,
			Confidence:   detection.BridgeConfidence(port.VIDPID),
		}

		if opts.Mode == detection.Full && info.Confidence > 0 {
			if probeHandshake(ctx, port.Path, opts.ProbeTimeout) {
				info.Confidence += 15
			}
		}

		devices = append(devices, info)
	}

	return devices, nil
}

// serialPort is the platform-neutral port description used internally
type serialPort struct {
	Path         string
	Name         string
	VIDPID       string
	Manufacturer string
	SerialNumber string
}

// listPorts enumerates serial ports with USB metadata where available
func listPorts() ([]serialPort, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		// The enumerator needs USB metadata support; fall back to the
		// platform listing when it is unavailable.
		return getSerialPortsFallback()
	}

	ports := make([]serialPort, 0, len(details))
	for _, d := range details {
		port := serialPort{
			Path: d.Name,
			Name: d.Product,
		}
		if port.Name == "" {
			port.Name = d.Name
		}
		if d.IsUSB {
			port.VIDPID = strings.ToUpper(d.VID + ":" + d.PID)
			port.SerialNumber = d.SerialNumber
		}
		ports = append(ports, port)
	}
	return ports, nil
}
