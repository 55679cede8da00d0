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
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/tokenpos/go-integrationhub/internal/frame"
)

// StatusAccepted is the device status code for an accepted document
const StatusAccepted = 0

// SendBasket validates and submits a sale basket to the fiscal device. The
// returned int is the raw device status code; a non-zero code is also
// surfaced as a StatusError.
func (c *Connection) SendBasket(ctx context.Context, basket *Basket) (int, error) {
	if basket == nil {
		return -1, fmt.Errorf("%w: nil basket", ErrInvalidParameter)
	}
	if err := basket.Validate(); err != nil {
		return -1, err
	}

	data, err := json.Marshal(basket)
	if err != nil {
		return -1, fmt.Errorf("failed to encode basket: %w", err)
	}
	return c.submit(ctx, frame.CmdBasket, data, "sendBasket")
}

// SendBasketJSON submits a caller-built JSON basket document unchanged,
// matching the original pass-through behavior. The payload must still be
// well-formed JSON.
func (c *Connection) SendBasketJSON(ctx context.Context, jsonData []byte) (int, error) {
	if !json.Valid(jsonData) {
		return -1, fmt.Errorf("%w: basket payload is not valid JSON", ErrInvalidPayload)
	}
	return c.submit(ctx, frame.CmdBasket, jsonData, "sendBasket")
}

// SendPayment submits a standalone payment. Only the 300TR supports this;
// on other models ErrUnsupportedDevice is returned without touching the
// device.
func (c *Connection) SendPayment(ctx context.Context, payment *Payment) (int, error) {
	if payment == nil {
		return -1, fmt.Errorf("%w: nil payment", ErrInvalidParameter)
	}
	if err := payment.Validate(); err != nil {
		return -1, err
	}

	data, err := json.Marshal(payment)
	if err != nil {
		return -1, fmt.Errorf("failed to encode payment: %w", err)
	}
	return c.sendPaymentJSON(ctx, data)
}

// SendPaymentJSON submits a caller-built JSON payment document unchanged
func (c *Connection) SendPaymentJSON(ctx context.Context, jsonData []byte) (int, error) {
	if !json.Valid(jsonData) {
		return -1, fmt.Errorf("%w: payment payload is not valid JSON", ErrInvalidPayload)
	}
	return c.sendPaymentJSON(ctx, jsonData)
}

func (c *Connection) sendPaymentJSON(ctx context.Context, jsonData []byte) (int, error) {
	c.mu.Lock()
	model := ModelUnknown
	if c.connected && c.info != nil {
		model = c.info.Model
	}
	c.mu.Unlock()

	if model == ModelUnknown {
		return -1, ErrNotConnected
	}
	if !model.SupportsStandalonePayment() {
		return -1, fmt.Errorf("%w: standalone payment requires 300TR, active device is %s",
			ErrUnsupportedDevice, model)
	}

	return c.submit(ctx, frame.CmdPayment, jsonData, "sendPayment")
}

// submit sends a JSON document frame and decodes the two-byte status response
func (c *Connection) submit(ctx context.Context, cmd byte, data []byte, op string) (int, error) {
	if len(data) > frame.MaxPayloadLength {
		return -1, fmt.Errorf("%w: %d bytes", ErrDataTooLarge, len(data))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return -1, ErrConnectionClosed
	}
	if !c.connected {
		return -1, ErrNotConnected
	}

	resp, err := c.exchangeContext(ctx, cmd, data)
	if err != nil {
		return -1, fmt.Errorf("%s: %w", op, err)
	}
	if len(resp) < 2 {
		return -1, fmt.Errorf("%s: %w: status response %d bytes", op, ErrFrameCorrupted, len(resp))
	}

	code := int(binary.BigEndian.Uint16(resp[:2]))
	debugf("%s: device status %d", op, code)
	if code != StatusAccepted {
		return code, &StatusError{Op: op, Code: code}
	}
	return code, nil
}

// FiscalInfoData is the device's fiscal identity and daily counters as
// reported by the firmware.
type FiscalInfoData struct {
	FiscalID     string `json:"fiscalID"`
	Model        string `json:"model"`
	Firmware     string `json:"firmware"`
	ZReportCount int    `json:"zReportCount"`
	ReceiptCount int    `json:"receiptCount"`
	DailyTotal   int64  `json:"dailyTotal"`
}

// FiscalInfo queries the device's fiscal identity and daily counters
func (c *Connection) FiscalInfo(ctx context.Context) (*FiscalInfoData, error) {
	raw, err := c.FiscalInfoJSON(ctx)
	if err != nil {
		return nil, err
	}

	var info FiscalInfoData
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("failed to decode fiscal info: %w", err)
	}
	return &info, nil
}

// FiscalInfoJSON returns the raw fiscal info document exactly as the
// device reported it, matching the original getFiscalInfo string result.
func (c *Connection) FiscalInfoJSON(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrConnectionClosed
	}
	if !c.connected {
		return nil, ErrNotConnected
	}

	resp, err := c.exchangeContext(ctx, frame.CmdFiscalInfo, nil)
	if err != nil {
		return nil, fmt.Errorf("getFiscalInfo: %w", err)
	}
	if !json.Valid(resp) {
		return nil, fmt.Errorf("getFiscalInfo: %w: response is not valid JSON", ErrFrameCorrupted)
	}
	return resp, nil
}
