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

// hubtest is an interactive console tester for fiscal devices. It connects
// to an attached device, registers both event callbacks, and executes the
// menu actions the integrator test plan describes: query the active device
// index, send an example basket, send an example payment (300TR only), and
// query fiscal info.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	hub "github.com/tokenpos/go-integrationhub"
	"github.com/tokenpos/go-integrationhub/transport/tcpip"
	"github.com/tokenpos/go-integrationhub/transport/uart"

	// Import detection packages to register detectors
	_ "github.com/tokenpos/go-integrationhub/detection/uart"
)

func main() {
	if run() != 0 {
		os.Exit(1)
	}
}

func run() int {
	portFlag := flag.String("port", "", "Serial port path (auto-detect when empty)")
	tcpFlag := flag.String("tcp", "", "TCP address of an Ethernet-attached unit (host[:port])")
	companyFlag := flag.String("company", "TokenLinuxTest", "Company name registered with the device")
	connectTimeoutFlag := flag.Duration("connect-timeout", 10*time.Second, "Device connection timeout")
	opTimeoutFlag := flag.Duration("op-timeout", 30*time.Second, "Per-operation timeout")
	verboseFlag := flag.Bool("verbose", false, "Enable verbose output")

	flag.Parse()

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Print("\nShutting down gracefully...\n")
		cancel()
	}()

	output := NewOutput(*verboseFlag)

	conn, err := connect(*companyFlag, *portFlag, *tcpFlag, *connectTimeoutFlag, output)
	if err != nil {
		output.Error("%v", err)
		return 1
	}
	defer conn.Close()

	registerCallbacks(conn, output)

	if info := conn.ActiveDevice(); info != nil {
		output.Info("Connected to %s", info)
	}

	if err := menuLoop(ctx, conn, output, *opTimeoutFlag); err != nil {
		output.Error("%v", err)
		return 1
	}
	return 0
}

// connect opens the session over the requested transport
func connect(company, port, tcp string, timeout time.Duration, output *Output) (*hub.Connection, error) {
	switch {
	case tcp != "":
		output.Verbose("Dialing %s", tcp)
		return hub.Connect(company, tcp,
			hub.WithTransportFactory(tcpip.New),
			hub.WithConnectTimeout(timeout))
	case port != "":
		output.Verbose("Opening %s", port)
		return hub.Connect(company, port,
			hub.WithTransportFactory(uart.New),
			hub.WithConnectTimeout(timeout))
	default:
		output.Verbose("Auto-detecting fiscal device")
		return hub.Connect(company, "",
			hub.WithAutoDetection(),
			hub.WithTransportFromDeviceFactory(uart.NewFromDevice),
			hub.WithConnectTimeout(timeout))
	}
}

// registerCallbacks wires both device callbacks to console output
func registerCallbacks(conn *hub.Connection, output *Output) {
	conn.SetSerialInCallback(func(tag int, data string) {
		output.Info("Serial In [tag %d]:\n%s", tag, data)
	})
	conn.SetDeviceStateCallback(func(connected bool, deviceID string) {
		if connected {
			output.Info("Device %s connected", deviceID)
		} else {
			output.Info("Device %s disconnected", deviceID)
		}
	})
}

// menuLoop reads menu selections from stdin until EOF or cancellation
func menuLoop(ctx context.Context, conn *hub.Connection, output *Output, opTimeout time.Duration) error {
	scanner := bufio.NewScanner(os.Stdin)

	lines := make(chan string)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
	}()

	for {
		fmt.Println("Press [0-3] to execute the actions below")
		fmt.Println("0: Get Active Device")
		fmt.Println("1: Send Example Basket")
		fmt.Println("2: Send Example Payment")
		fmt.Println("3: Get Fiscal Info")

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return nil
		case line, ok = <-lines:
			if !ok {
				return scanner.Err()
			}
		}

		opCtx, cancel := context.WithTimeout(ctx, opTimeout)
		runAction(opCtx, conn, output, line)
		cancel()
	}
}

// runAction executes one menu selection
func runAction(ctx context.Context, conn *hub.Connection, output *Output, line string) {
	activeDevice := conn.ActiveDeviceIndex()

	switch line {
	case "0":
		output.Info("Active Device Index %d", activeDevice)
	case "1":
		sendExampleBasket(ctx, conn, output, activeDevice)
	case "2":
		sendExamplePayment(ctx, conn, output)
	case "3":
		getFiscalInfo(ctx, conn, output)
	default:
		output.Verbose("Ignoring input %q", line)
	}
}

func sendExampleBasket(ctx context.Context, conn *hub.Connection, output *Output, activeDevice int) {
	basket := exampleBasket(activeDevice)
	if basket == nil {
		output.Error("No example basket for device index %d", activeDevice)
		return
	}

	result, err := conn.SendBasket(ctx, basket)
	if err != nil {
		output.Error("sendBasket: %v", err)
	}
	output.Info("basketResult: %d", result)
}

func sendExamplePayment(ctx context.Context, conn *hub.Connection, output *Output) {
	result, err := conn.SendPayment(ctx, examplePayment())
	if err != nil {
		output.Error("sendPayment: %v", err)
		return
	}
	output.Info("paymentResult: %d", result)
}

func getFiscalInfo(ctx context.Context, conn *hub.Connection, output *Output) {
	raw, err := conn.FiscalInfoJSON(ctx)
	if err != nil {
		output.Error("getFiscalInfo: %v", err)
		return
	}
	output.Info("Fiscal Info:\n%s", raw)
}
