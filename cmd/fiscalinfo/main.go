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

// fiscalinfo is a one-shot query tool: it connects to a fiscal device,
// prints the device identity and fiscal info document, and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	hub "github.com/tokenpos/go-integrationhub"
	"github.com/tokenpos/go-integrationhub/transport/uart"

	// Import detectors to register them
	_ "github.com/tokenpos/go-integrationhub/detection/uart"
)

func main() {
	devicePath := flag.String("device", "",
		"Serial device path (e.g., /dev/ttyUSB0 or COM3). Leave empty for auto-detection.")
	company := flag.String("company", "fiscalinfo", "Company name registered with the device")
	timeout := flag.Duration("timeout", 10*time.Second, "Connection timeout")
	debug := flag.Bool("debug", false, "Enable debug output")
	flag.Parse()

	if *debug {
		hub.SetDebugEnabled(true)
	}

	if err := run(*company, *devicePath, *timeout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(company, path string, timeout time.Duration) error {
	var (
		conn *hub.Connection
		err  error
	)

	if path == "" {
		conn, err = hub.Connect(company, "",
			hub.WithAutoDetection(),
			hub.WithTransportFromDeviceFactory(uart.NewFromDevice),
			hub.WithConnectTimeout(timeout))
	} else {
		conn, err = hub.Connect(company, path,
			hub.WithTransportFactory(uart.New),
			hub.WithConnectTimeout(timeout))
	}
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	info, err := conn.FiscalInfo(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Device:        %s (index %d)\n", conn.ActiveDevice(), conn.ActiveDeviceIndex())
	fmt.Printf("Fiscal ID:     %s\n", info.FiscalID)
	fmt.Printf("Model:         %s\n", info.Model)
	fmt.Printf("Firmware:      %s\n", info.Firmware)
	fmt.Printf("Z reports:     %d\n", info.ZReportCount)
	fmt.Printf("Receipts:      %d\n", info.ReceiptCount)
	fmt.Printf("Daily total:   %d\n", info.DailyTotal)
	return nil
}
