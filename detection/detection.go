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

// Package detection locates attached fiscal devices. Transport-specific
// detectors register themselves on import; DetectAll runs every registered
// detector and merges the results.
package detection

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// Errors returned by detectors
var (
	ErrUnsupportedPlatform = errors.New("detection not supported on this platform")
	ErrNoDevicesFound      = errors.New("no fiscal devices found")
)

// Mode controls how aggressively detection probes candidate ports
type Mode int

const (
	// Safe only inspects port metadata (VID/PID, driver names) and never
	// writes to a port. Suitable while another process may own the device.
	Safe Mode = iota
	// Full additionally sends a handshake probe to candidate ports
	Full
)

// DeviceInfo describes a detected candidate device
type DeviceInfo struct {
	// Path is the port path to open, e.g. /dev/ttyUSB0 or COM3
	Path string
	// Transport is the detector that produced this entry, e.g. "uart"
	Transport string
	// Name is a human-readable port description
	Name string
	// VIDPID is the USB vendor:product pair in hex, when known
	VIDPID string
	// Manufacturer as reported by the port enumeration, when known
	Manufacturer string
	// SerialNumber as reported by the USB descriptor, when known
	SerialNumber string
	// Confidence ranks how certain the detector is that this is a fiscal
	// device: higher sorts first in DetectAll results.
	Confidence int
}

// Options configures a detection run
type Options struct {
	// Blocklist lists VID:PID pairs that must not be probed
	Blocklist []string
	// ProbeTimeout bounds the handshake probe per port in Full mode
	ProbeTimeout time.Duration
	// Mode selects Safe or Full detection
	Mode Mode
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() Options {
	return Options{
		Mode:         Safe,
		ProbeTimeout: 2 * time.Second,
		Blocklist:    DefaultBlocklist(),
	}
}

// Detector finds candidate devices for one transport type
type Detector interface {
	// Transport returns the transport name, e.g. "uart"
	Transport() string
	// Detect searches for candidate devices
	Detect(ctx context.Context, opts *Options) ([]DeviceInfo, error)
}

var (
	detectorsMu sync.RWMutex
	detectors   []Detector
)

// RegisterDetector adds a detector to the registry. Called from the init
// functions of transport-specific detection packages.
func RegisterDetector(d Detector) {
	detectorsMu.Lock()
	defer detectorsMu.Unlock()
	detectors = append(detectors, d)
}

// DetectAll runs every registered detector and returns the merged candidate
// list, best candidates first. Detectors reporting ErrUnsupportedPlatform
// are skipped silently; other detector errors are only surfaced when no
// detector produced a result.
func DetectAll(opts *Options) ([]DeviceInfo, error) {
	return DetectAllContext(context.Background(), opts)
}

// DetectAllContext runs every registered detector under ctx
func DetectAllContext(ctx context.Context, opts *Options) ([]DeviceInfo, error) {
	if opts == nil {
		defaults := DefaultOptions()
		opts = &defaults
	}

	detectorsMu.RLock()
	active := make([]Detector, len(detectors))
	copy(active, detectors)
	detectorsMu.RUnlock()

	var (
		devices []DeviceInfo
		errs    []error
	)

	for _, d := range active {
		found, err := d.Detect(ctx, opts)
		if err != nil {
			if !errors.Is(err, ErrUnsupportedPlatform) {
				errs = append(errs, err)
			}
			continue
		}
		devices = append(devices, found...)
	}

	if len(devices) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	sort.SliceStable(devices, func(i, j int) bool {
		return devices[i].Confidence > devices[j].Confidence
	})
	return devices, nil
}
