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

package uart

import (
	"bytes"
	"errors"
	"testing"
	"time"

	hub "github.com/tokenpos/go-integrationhub"
	"github.com/tokenpos/go-integrationhub/internal/frame"
)

// newTestTransport builds a Transport without opening a port. Only the
// receive-side plumbing is exercised.
func newTestTransport() *Transport {
	return &Transport{
		path:    "/dev/null",
		respCh:  make(chan *frame.Frame, 1),
		events:  make(chan hub.Event, 16),
		timeout: time.Second,
	}
}

func mustBuild(t *testing.T, cmd byte, data []byte) []byte {
	t.Helper()
	buf, err := frame.Build(cmd, data)
	if err != nil {
		t.Fatalf("frame.Build() error = %v", err)
	}
	return buf
}

func TestConsumeFramesCompleteResponse(t *testing.T) {
	t.Parallel()

	tr := newTestTransport()
	raw := mustBuild(t, frame.CmdBasket|frame.ResponseBit, []byte{0x00, 0x00})

	rest := tr.consumeFrames(raw)
	if len(rest) != 0 {
		t.Errorf("consumeFrames() left %d bytes, want 0", len(rest))
	}

	select {
	case f := <-tr.respCh:
		if !f.IsResponseTo(frame.CmdBasket) {
			t.Errorf("parsed frame cmd = %#02x, want basket response", f.Cmd)
		}
		if !bytes.Equal(f.Data, []byte{0x00, 0x00}) {
			t.Errorf("parsed frame data = %v", f.Data)
		}
	default:
		t.Fatal("no frame dispatched to respCh")
	}
}

func TestConsumeFramesPartialFrame(t *testing.T) {
	t.Parallel()

	tr := newTestTransport()
	raw := mustBuild(t, frame.CmdFiscalInfo|frame.ResponseBit, []byte(`{"fiscalID":"X"}`))

	// Deliver in two chunks, as a serial port would
	rest := tr.consumeFrames(raw[:5])
	if len(rest) != 5 {
		t.Fatalf("consumeFrames() kept %d bytes, want 5", len(rest))
	}
	rest = tr.consumeFrames(append(rest, raw[5:]...))
	if len(rest) != 0 {
		t.Errorf("consumeFrames() left %d bytes after completion", len(rest))
	}

	select {
	case <-tr.respCh:
	default:
		t.Fatal("frame not dispatched after second chunk")
	}
}

func TestConsumeFramesResyncOnGarbage(t *testing.T) {
	t.Parallel()

	tr := newTestTransport()
	raw := mustBuild(t, frame.CmdPayment|frame.ResponseBit, []byte{0x00, 0x67})

	// Leading ACK and line noise before the frame
	input := append([]byte{frame.ACK, 0xFF, 0x10}, raw...)
	rest := tr.consumeFrames(input)
	if len(rest) != 0 {
		t.Errorf("consumeFrames() left %d bytes, want 0", len(rest))
	}

	select {
	case f := <-tr.respCh:
		if !bytes.Equal(f.Data, []byte{0x00, 0x67}) {
			t.Errorf("parsed frame data = %v", f.Data)
		}
	default:
		t.Fatal("frame after garbage not dispatched")
	}
}

func TestConsumeFramesBadChecksumSkipsFrame(t *testing.T) {
	t.Parallel()

	tr := newTestTransport()
	bad := mustBuild(t, frame.CmdBasket|frame.ResponseBit, []byte{0x00, 0x01})
	bad[len(bad)-1] ^= 0xFF
	good := mustBuild(t, frame.CmdBasket|frame.ResponseBit, []byte{0x00, 0x00})

	rest := tr.consumeFrames(append(bad, good...))
	if len(rest) != 0 {
		t.Errorf("consumeFrames() left %d bytes, want 0", len(rest))
	}

	select {
	case f := <-tr.respCh:
		if !bytes.Equal(f.Data, []byte{0x00, 0x00}) {
			t.Errorf("dispatched frame data = %v, want the good frame", f.Data)
		}
	default:
		t.Fatal("good frame following a corrupt one was not dispatched")
	}
}

func TestConsumeFramesBogusLengthField(t *testing.T) {
	t.Parallel()

	tr := newTestTransport()
	good := mustBuild(t, frame.CmdBasket|frame.ResponseBit, []byte{0x00, 0x00})

	// An STX with an impossible length must not swallow the stream
	input := append([]byte{frame.STX, 0x42, 0xFF, 0xFF}, good...)
	rest := tr.consumeFrames(input)
	if len(rest) != 0 {
		t.Errorf("consumeFrames() left %d bytes, want 0", len(rest))
	}

	select {
	case <-tr.respCh:
	default:
		t.Fatal("frame after bogus length was not dispatched")
	}
}

func TestDispatchRoutesEvents(t *testing.T) {
	t.Parallel()

	tr := newTestTransport()
	tr.dispatch(&frame.Frame{Cmd: frame.EvtSerialIn, Data: []byte{0x01, 'o', 'k'}})

	select {
	case ev := <-tr.events:
		if ev.Cmd != frame.EvtSerialIn {
			t.Errorf("event cmd = %#02x, want EvtSerialIn", ev.Cmd)
		}
	default:
		t.Fatal("event frame not routed to event channel")
	}

	select {
	case <-tr.respCh:
		t.Fatal("event frame must not reach respCh")
	default:
	}
}

func TestDispatchDropsUnclaimedResponse(t *testing.T) {
	t.Parallel()

	tr := newTestTransport()
	// Fill respCh so the second response has nowhere to go
	tr.dispatch(&frame.Frame{Cmd: frame.CmdBasket | frame.ResponseBit, Data: []byte{0x00, 0x01}})
	tr.dispatch(&frame.Frame{Cmd: frame.CmdBasket | frame.ResponseBit, Data: []byte{0x00, 0x02}})

	f := <-tr.respCh
	if !bytes.Equal(f.Data, []byte{0x00, 0x01}) {
		t.Errorf("respCh carried %v, want the first response", f.Data)
	}
	select {
	case <-tr.respCh:
		t.Fatal("second response should have been dropped")
	default:
	}
}

func TestHandleReadFailureEmitsDetachEvent(t *testing.T) {
	t.Parallel()

	tr := newTestTransport()
	tr.reading = true
	tr.handleReadFailure(hub.ErrTransportRead)

	select {
	case ev := <-tr.events:
		if ev.Cmd != frame.EvtDeviceState {
			t.Errorf("event cmd = %#02x, want EvtDeviceState", ev.Cmd)
		}
		if len(ev.Data) != 1 || ev.Data[0] != 0x00 {
			t.Errorf("event data = %v, want detached state", ev.Data)
		}
	default:
		t.Fatal("read failure did not emit a device-state event")
	}

	if tr.IsConnected() {
		t.Error("transport must report disconnected after a read failure")
	}
}

func TestSetTimeoutValidation(t *testing.T) {
	t.Parallel()

	tr := newTestTransport()
	if err := tr.SetTimeout(0); err == nil {
		t.Error("SetTimeout(0) must fail")
	}
	if err := tr.SetTimeout(time.Second); err != nil {
		t.Errorf("SetTimeout(1s) error = %v", err)
	}
}

func TestCapabilities(t *testing.T) {
	t.Parallel()

	tr := newTestTransport()
	if tr.Type() != hub.TransportUART {
		t.Errorf("Type() = %v, want uart", tr.Type())
	}
	if !tr.HasCapability(hub.CapabilityEvents) {
		t.Error("uart transport must report event capability")
	}
	if !tr.HasCapability(hub.CapabilityReopen) {
		t.Error("uart transport must report reopen capability")
	}
	if tr.HasCapability("bogus") {
		t.Error("unknown capability must be false")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	tr := newTestTransport()
	if err := tr.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	// Event channel must be closed exactly once
	if _, ok := <-tr.events; ok {
		t.Error("event channel still open after Close")
	}
}

func TestDispatchDuringCloseDoesNotPanic(t *testing.T) {
	t.Parallel()

	for i := 0; i < 200; i++ {
		tr := newTestTransport()
		done := make(chan struct{})
		go func() {
			defer close(done)
			for j := 0; j < 50; j++ {
				tr.dispatch(&frame.Frame{Cmd: frame.EvtSerialIn, Data: []byte{0x01}})
			}
		}()
		if err := tr.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		<-done
	}
}

func TestReopenMissingPortReturnsOpenError(t *testing.T) {
	t.Parallel()

	tr := newTestTransport()
	tr.path = "/dev/ttyHUB-does-not-exist"

	err := tr.Reopen()
	if err == nil {
		t.Fatal("Reopen() on a missing port must fail")
	}

	// The poll must surface the open failure, not a bare timeout
	var terr *hub.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("Reopen() error = %v, want *hub.TransportError", err)
	}
	if terr.Op != "open" {
		t.Errorf("Op = %q, want %q", terr.Op, "open")
	}
}

func TestReadFailureDuringCloseDoesNotPanic(t *testing.T) {
	t.Parallel()

	for i := 0; i < 200; i++ {
		tr := newTestTransport()
		done := make(chan struct{})
		go func() {
			defer close(done)
			tr.handleReadFailure(nil)
		}()
		if err := tr.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		<-done
	}
}
