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

	"github.com/google/uuid"
)

// All monetary amounts, quantities and tax percentages are minor-unit
// integers as expected by the device firmware: a price of 1000 is 10.00,
// a taxPercent of 2000 is 20.00%, a quantity of 1000 is 1 unit.

// ItemType classifies a basket line
type ItemType int

// Basket line types accepted by the firmware
const (
	ItemTypeSale ItemType = iota
	ItemTypeVoid
)

// BasketItem is a single line of a sale basket
type BasketItem struct {
	Name       string   `json:"name"`
	Price      int64    `json:"price"`
	Quantity   int64    `json:"quantity"`
	SectionNo  int      `json:"sectionNo"`
	TaxPercent int      `json:"taxPercent"`
	Type       ItemType `json:"type"`
}

// CustomerInfo identifies the customer on the fiscal document
type CustomerInfo struct {
	// TaxID is the customer's tax number: 10 digits for companies,
	// 11 for citizens.
	TaxID string `json:"taxID"`
}

// Basket is a complete sale document submitted to the fiscal device.
// The JSON encoding is the wire format the firmware consumes.
type Basket struct {
	BasketID      string        `json:"basketID"`
	DocumentType  int           `json:"documentType"`
	CustomerInfo  *CustomerInfo `json:"customerInfo,omitempty"`
	Items         []BasketItem  `json:"items"`
	TaxFreeAmount int64         `json:"taxFreeAmount,omitempty"`
	PaymentItems  []Payment     `json:"paymentItems,omitempty"`
}

// NewBasket returns a basket with a generated identifier and the given
// document type.
func NewBasket(documentType int) *Basket {
	return &Basket{
		BasketID:     uuid.NewString(),
		DocumentType: documentType,
	}
}

// AddItem appends a sale line to the basket
func (b *Basket) AddItem(item BasketItem) *Basket {
	b.Items = append(b.Items, item)
	return b
}

// AddPayment appends a settlement line to the basket
func (b *Basket) AddPayment(p Payment) *Basket {
	b.PaymentItems = append(b.PaymentItems, p)
	return b
}

// Validate checks the basket before it is sent to the device. The firmware
// performs its own validation; this catches the cases that would only come
// back as an opaque status code.
func (b *Basket) Validate() error {
	if b.BasketID == "" {
		return fmt.Errorf("%w: empty basket ID", ErrInvalidPayload)
	}
	if _, err := uuid.Parse(b.BasketID); err != nil {
		return fmt.Errorf("%w: basket ID %q is not a UUID", ErrInvalidPayload, b.BasketID)
	}
	if len(b.Items) == 0 {
		return fmt.Errorf("%w: basket has no items", ErrInvalidPayload)
	}
	for i, item := range b.Items {
		if item.Name == "" {
			return fmt.Errorf("%w: item %d has no name", ErrInvalidPayload, i)
		}
		if item.Price < 0 {
			return fmt.Errorf("%w: item %d has negative price", ErrInvalidPayload, i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %d has non-positive quantity", ErrInvalidPayload, i)
		}
	}
	if b.CustomerInfo != nil {
		if err := b.CustomerInfo.validate(); err != nil {
			return err
		}
	}
	for i, p := range b.PaymentItems {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("payment item %d: %w", i, err)
		}
	}
	return nil
}

func (c *CustomerInfo) validate() error {
	if n := len(c.TaxID); n != 10 && n != 11 {
		return fmt.Errorf("%w: tax ID must be 10 or 11 digits, got %d", ErrInvalidPayload, n)
	}
	for _, r := range c.TaxID {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: tax ID contains non-digit", ErrInvalidPayload)
		}
	}
	return nil
}
