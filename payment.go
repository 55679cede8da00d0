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

import "fmt"

// PaymentType identifies the settlement method of a payment
type PaymentType int

// Payment types accepted by the firmware
const (
	PaymentTypeCash PaymentType = iota + 1
	PaymentTypeCard
	PaymentTypeCheck
	PaymentTypeCredit
)

// Payment is a settlement instruction, either standalone (300TR) or as a
// paymentItems entry inside a basket. Amount is a minor-unit integer.
type Payment struct {
	Amount      int64       `json:"amount"`
	Description string      `json:"description"`
	Type        PaymentType `json:"type"`
}

// Validate checks the payment before it is sent to the device
func (p *Payment) Validate() error {
	if p.Amount <= 0 {
		return fmt.Errorf("%w: payment amount must be positive", ErrInvalidPayload)
	}
	if p.Type < PaymentTypeCash || p.Type > PaymentTypeCredit {
		return fmt.Errorf("%w: unknown payment type %d", ErrInvalidPayload, p.Type)
	}
	return nil
}
