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

package main

import (
	hub "github.com/tokenpos/go-integrationhub"
)

// The example payloads mirror the integrator test plan: a single
// pharmacy-style line item with a tax-free amount, settled in cash. The
// X30TR variant uses the prescription document type and carries its
// payment inline; the 300TR variant is a plain receipt settled through a
// separate payment.

func exampleBasket(activeDevice int) *hub.Basket {
	switch activeDevice {
	case hub.ModelX30TR.Index():
		return &hub.Basket{
			BasketID:     "a123ca24-ca2c-401c-8134-f0de2ec25c25",
			DocumentType: 9008,
			CustomerInfo: &hub.CustomerInfo{TaxID: "11111111111"},
			Items: []hub.BasketItem{
				{
					Name:       "İLAÇ",
					Price:      1000,
					Quantity:   1000,
					SectionNo:  2,
					TaxPercent: 2000,
					Type:       hub.ItemTypeSale,
				},
			},
			TaxFreeAmount: 5000,
			PaymentItems: []hub.Payment{
				{
					Amount:      6000,
					Description: "Cash",
					Type:        hub.PaymentTypeCash,
				},
			},
		}
	case hub.Model300TR.Index():
		return &hub.Basket{
			BasketID:     "a123ca24-ca2c-401c-8134-f0de2ec25c25",
			DocumentType: 0,
			CustomerInfo: &hub.CustomerInfo{TaxID: "11111111111"},
			Items: []hub.BasketItem{
				{
					Name:       "İLAÇ",
					Price:      1000,
					Quantity:   1000,
					SectionNo:  1,
					TaxPercent: 1000,
					Type:       hub.ItemTypeSale,
				},
			},
			TaxFreeAmount: 5000,
		}
	default:
		return nil
	}
}

func examplePayment() *hub.Payment {
	return &hub.Payment{
		Amount:      6000,
		Description: "Nakit",
		Type:        hub.PaymentTypeCash,
	}
}
