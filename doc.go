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

/*
Package integrationhub provides a pure Go library for integrating desktop
and point-of-sale applications with Beko fiscal devices (X30TR and 300TR).

A Connection owns a session with a single fiscal device over a pluggable
transport layer, submits sale baskets and payments as JSON documents,
queries fiscal information, and delivers the device's asynchronous events
(pass-through serial data and attach/detach transitions) to registered
callbacks.

Basic Usage:

	import (
	    "github.com/tokenpos/go-integrationhub"
	    "github.com/tokenpos/go-integrationhub/transport/uart"
	)

	conn, err := integrationhub.Connect("MyCompany", "/dev/ttyUSB0",
	    integrationhub.WithTransportFactory(uart.New))
	if err != nil {
	    log.Fatal(err)
	}
	defer conn.Close()

	conn.SetDeviceStateCallback(func(connected bool, deviceID string) {
	    log.Printf("device %s connected=%v", deviceID, connected)
	})

	basket := integrationhub.NewBasket(0).
	    AddItem(integrationhub.BasketItem{
	        Name:       "COFFEE",
	        Price:      1500, // 15.00 in minor units
	        Quantity:   1000, // 1 unit
	        SectionNo:  1,
	        TaxPercent: 1000, // 10.00%
	    }).
	    AddPayment(integrationhub.Payment{
	        Amount:      1500,
	        Description: "Cash",
	        Type:        integrationhub.PaymentTypeCash,
	    })

	status, err := conn.SendBasket(context.Background(), basket)
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println("device status:", status)

Transport Selection:

The library supports two transport layers:

  - UART: RS-232 or USB-CDC attached devices, the common case
  - TCP/IP: Ethernet-attached 300TR units

Device Models:

The active device is identified during the handshake. Its index matches
the firmware convention: 0 for X30TR, 1 for 300TR, -1 when disconnected.
Standalone payments (SendPayment) require a 300TR; the X30TR settles
payments inside the basket document.

Error Handling:

All operations return meaningful errors that can be inspected with
errors.Is and errors.As. Transport failures carry retryability metadata
used by the built-in retry layer; firmware rejections surface as
StatusError with the raw device status code.
*/
package integrationhub
