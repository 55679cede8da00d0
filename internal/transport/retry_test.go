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

package transport

import (
	"errors"
	"testing"
	"time"

	hub "github.com/tokenpos/go-integrationhub"
)

func TestWithRetrySucceedsImmediately(t *testing.T) {
	t.Parallel()

	calls := 0
	result, err := WithRetry(RetryConfig{MaxRetries: 3}, func() (string, bool, error) {
		calls++
		return "ok", false, nil
	})
	if err != nil {
		t.Fatalf("WithRetry() error = %v", err)
	}
	if result != "ok" || calls != 1 {
		t.Errorf("result = %q calls = %d, want ok/1", result, calls)
	}
}

func TestWithRetryEventuallySucceeds(t *testing.T) {
	t.Parallel()

	calls := 0
	result, err := WithRetry(RetryConfig{MaxRetries: 3}, func() (int, bool, error) {
		calls++
		if calls < 3 {
			return 0, true, nil
		}
		return 42, false, nil
	})
	if err != nil {
		t.Fatalf("WithRetry() error = %v", err)
	}
	if result != 42 || calls != 3 {
		t.Errorf("result = %d calls = %d, want 42/3", result, calls)
	}
}

func TestWithRetryStopsOnError(t *testing.T) {
	t.Parallel()

	permanent := errors.New("port gone")
	calls := 0
	_, err := WithRetry(RetryConfig{MaxRetries: 5}, func() (int, bool, error) {
		calls++
		return 0, false, permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("WithRetry() error = %v, want permanent error", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestWithRetryExhausted(t *testing.T) {
	t.Parallel()

	retried := 0
	failed := false
	_, err := WithRetry(RetryConfig{
		MaxRetries: 2,
		OnRetry: func() error {
			retried++
			return nil
		},
		OnRetryFailed: func() error {
			failed = true
			return nil
		},
	}, func() (int, bool, error) {
		return 0, true, nil
	})
	if !errors.Is(err, hub.ErrCommunicationFailed) {
		t.Fatalf("WithRetry() error = %v, want ErrCommunicationFailed", err)
	}
	if retried != 2 {
		t.Errorf("OnRetry calls = %d, want 2", retried)
	}
	if !failed {
		t.Error("OnRetryFailed was not called")
	}
}

func TestWithRetryOnRetryFailedError(t *testing.T) {
	t.Parallel()

	cleanupErr := errors.New("cleanup failed")
	_, err := WithRetry(RetryConfig{
		MaxRetries:    1,
		OnRetryFailed: func() error { return cleanupErr },
	}, func() (int, bool, error) {
		return 0, true, nil
	})
	if !errors.Is(err, cleanupErr) {
		t.Fatalf("WithRetry() error = %v, want cleanup error", err)
	}
}

func TestTimeoutRetry(t *testing.T) {
	t.Parallel()

	calls := 0
	result, err := TimeoutRetry(time.Second, func() (string, bool, error) {
		calls++
		if calls < 3 {
			return "", true, nil
		}
		return "ready", false, nil
	})
	if err != nil {
		t.Fatalf("TimeoutRetry() error = %v", err)
	}
	if result != "ready" {
		t.Errorf("result = %q, want ready", result)
	}
}

func TestTimeoutRetryExpires(t *testing.T) {
	t.Parallel()

	_, err := TimeoutRetry(10*time.Millisecond, func() (int, bool, error) {
		return 0, true, nil
	})
	if !errors.Is(err, hub.ErrTransportTimeout) {
		t.Fatalf("TimeoutRetry() error = %v, want timeout", err)
	}
}
