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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payment Payment
		wantErr bool
	}{
		{
			name:    "valid cash payment",
			payment: Payment{Amount: 6000, Description: "Nakit", Type: PaymentTypeCash},
			wantErr: false,
		},
		{
			name:    "valid card payment without description",
			payment: Payment{Amount: 100, Type: PaymentTypeCard},
			wantErr: false,
		},
		{
			name:    "zero amount",
			payment: Payment{Amount: 0, Type: PaymentTypeCash},
			wantErr: true,
		},
		{
			name:    "negative amount",
			payment: Payment{Amount: -500, Type: PaymentTypeCash},
			wantErr: true,
		},
		{
			name:    "type zero",
			payment: Payment{Amount: 100, Type: 0},
			wantErr: true,
		},
		{
			name:    "type out of range",
			payment: Payment{Amount: 100, Type: PaymentTypeCredit + 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.payment.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidPayload)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestPaymentWireFormat(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(&Payment{Amount: 6000, Description: "Nakit", Type: PaymentTypeCash})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":6000,"description":"Nakit","type":1}`, string(data))
}
