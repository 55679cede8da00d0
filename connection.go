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
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tokenpos/go-integrationhub/detection"
	"github.com/tokenpos/go-integrationhub/internal/frame"
)

// ConnConfig contains configuration options for a Connection
type ConnConfig struct {
	// RetryConfig configures retry behavior for transport operations
	RetryConfig *RetryConfig
	// Timeout is the default timeout for operations
	Timeout time.Duration
}

// DefaultConnConfig returns default connection configuration
func DefaultConnConfig() *ConnConfig {
	return &ConnConfig{
		RetryConfig: DefaultRetryConfig(),
		Timeout:     3 * time.Second,
	}
}

// Connection is a live session with a fiscal device.
//
// Thread Safety: command methods serialize on an internal mutex, so a
// Connection may be shared between goroutines. Callbacks run on the
// connection's event goroutine; they may query the connection but must not
// submit baskets or payments from within the callback.
type Connection struct {
	transport Transport
	config    *ConnConfig
	company   string

	mu        sync.Mutex
	info      *DeviceInfo
	connected bool
	closed    bool

	cbMu     sync.RWMutex
	serialCb SerialInCallback
	stateCb  DeviceStateCallback

	events <-chan Event
	wg     sync.WaitGroup
}

// New creates a new Connection over the given transport. The company name
// identifies the integrating application to the device and is registered
// during Open.
func New(companyName string, transport Transport, opts ...Option) (*Connection, error) {
	if companyName == "" {
		return nil, fmt.Errorf("%w: empty company name", ErrInvalidParameter)
	}

	conn := &Connection{
		transport: transport,
		config:    DefaultConnConfig(),
		company:   companyName,
	}

	for _, opt := range opts {
		if err := opt(conn); err != nil {
			return nil, err
		}
	}

	return conn, nil
}

// Open performs the device handshake and starts event delivery
func (c *Connection) Open() error {
	return c.OpenContext(context.Background())
}

// OpenContext performs the device handshake and starts event delivery
func (c *Connection) OpenContext(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}
	if c.connected {
		return nil
	}

	if err := c.handshakeLocked(ctx); err != nil {
		return err
	}

	// One event goroutine per connection lifetime. The transport keeps the
	// same channel across link reopens, so a Reconnect does not restart it.
	if c.events == nil {
		if src, ok := c.transport.(EventSource); ok {
			if ch := src.Events(); ch != nil {
				c.events = ch
				c.wg.Add(1)
				go c.eventLoop(ch)
			}
		}
	}

	return nil
}

// handshakeLocked identifies the attached device and registers the company
// name. Callers must hold c.mu.
func (c *Connection) handshakeLocked(ctx context.Context) error {
	resp, err := c.exchangeContext(ctx, frame.CmdHandshake, []byte(c.company))
	if err != nil {
		return fmt.Errorf("handshake failed: %w", err)
	}

	info, err := parseHandshakeResponse(resp)
	if err != nil {
		return err
	}

	c.info = info
	c.connected = true
	debugf("handshake complete: %s", info)
	return nil
}

// Reconnect attempts to re-establish a lost session. The transport link is
// reopened on the same path and the handshake is repeated.
func (c *Connection) Reconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	if r, ok := c.transport.(Reopener); ok {
		if err := r.Reopen(); err != nil {
			return fmt.Errorf("failed to reopen transport: %w", err)
		}
	}

	c.connected = false
	return c.handshakeLocked(ctx)
}

// ActiveDeviceIndex returns the index of the active fiscal device: 0 for
// X30TR, 1 for 300TR, -1 when no device has completed a handshake.
func (c *Connection) ActiveDeviceIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected || c.info == nil {
		return -1
	}
	return c.info.Model.Index()
}

// ActiveDevice returns the descriptor of the attached device, or nil when
// disconnected.
func (c *Connection) ActiveDevice() *DeviceInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected || c.info == nil {
		return nil
	}
	info := *c.info
	return &info
}

// IsConnected reports whether the session is established
func (c *Connection) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected && !c.closed
}

// Transport returns the underlying transport
func (c *Connection) Transport() Transport {
	return c.transport
}

// SetTimeout sets the default timeout for operations
func (c *Connection) SetTimeout(timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.config.Timeout = timeout
	if err := c.transport.SetTimeout(timeout); err != nil {
		return fmt.Errorf("failed to set timeout on transport: %w", err)
	}
	return nil
}

// SetRetryConfig updates the retry configuration
func (c *Connection) SetRetryConfig(config *RetryConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.config.RetryConfig = config
	if tr, ok := c.transport.(*TransportWithRetry); ok {
		tr.SetRetryConfig(config)
	}
}

// Close releases the session and the underlying transport. Close is
// idempotent; the first call wins.
func (c *Connection) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.connected = false
	c.mu.Unlock()

	var closeErr error
	if c.transport != nil {
		if err := c.transport.Close(); err != nil {
			closeErr = fmt.Errorf("failed to close transport: %w", err)
		}
	}

	// The transport closes its event channel on Close, which ends the
	// event goroutine.
	c.wg.Wait()
	return closeErr
}

// exchangeContext runs a transport exchange under ctx. The transport call
// itself is synchronous; cancellation abandons the wait, not the I/O.
func (c *Connection) exchangeContext(ctx context.Context, cmd byte, data []byte) ([]byte, error) {
	type result struct {
		resp []byte
		err  error
	}

	resCh := make(chan result, 1)
	go func() {
		resp, err := c.transport.Exchange(cmd, data)
		resCh <- result{resp: resp, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resCh:
		return res.resp, res.err
	}
}

// TransportFactory is a function type for creating transports from a path
type TransportFactory func(path string) (Transport, error)

// TransportFromDeviceFactory is a function type for creating transports
// from detected devices
type TransportFromDeviceFactory func(device detection.DeviceInfo) (Transport, error)

// ConnectOption represents a functional option for Connect
type ConnectOption func(*connectConfig) error

// connectConfig holds configuration options for establishing a session
type connectConfig struct {
	transportFactory       TransportFactory
	transportDeviceFactory TransportFromDeviceFactory
	connOptions            []Option
	timeout                time.Duration
	autoDetect             bool
}

// WithAutoDetection enables automatic device detection instead of using a
// specific port path
func WithAutoDetection() ConnectOption {
	return func(c *connectConfig) error {
		c.autoDetect = true
		return nil
	}
}

// WithConnOptions adds connection-level options
func WithConnOptions(opts ...Option) ConnectOption {
	return func(c *connectConfig) error {
		c.connOptions = append(c.connOptions, opts...)
		return nil
	}
}

// WithConnectTimeout sets the session establishment timeout
func WithConnectTimeout(timeout time.Duration) ConnectOption {
	return func(c *connectConfig) error {
		c.timeout = timeout
		return nil
	}
}

// WithTransportFactory sets the transport factory function
func WithTransportFactory(factory TransportFactory) ConnectOption {
	return func(c *connectConfig) error {
		c.transportFactory = factory
		return nil
	}
}

// WithTransportFromDeviceFactory sets the transport from device factory function
func WithTransportFromDeviceFactory(factory TransportFromDeviceFactory) ConnectOption {
	return func(c *connectConfig) error {
		c.transportDeviceFactory = factory
		return nil
	}
}

func applyConnectOptions(opts []ConnectOption) (*connectConfig, error) {
	config := &connectConfig{
		autoDetect:             false,
		connOptions:            nil,
		timeout:                30 * time.Second,
		transportFactory:       nil,
		transportDeviceFactory: nil,
	}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, fmt.Errorf("failed to apply connect option: %w", err)
		}
	}

	return config, nil
}

// Connect creates a transport, opens a session and returns a ready
// Connection. This is the high-level entry point matching the original
// createCommunication call.
//
// Example usage:
//
//	// Connect to a specific port
//	conn, err := integrationhub.Connect("MyCompany", "/dev/ttyUSB0",
//	    integrationhub.WithTransportFactory(uart.New))
//
//	// Auto-detect the device
//	conn, err := integrationhub.Connect("MyCompany", "",
//	    integrationhub.WithAutoDetection(),
//	    integrationhub.WithTransportFromDeviceFactory(uart.NewFromDevice))
func Connect(companyName, path string, opts ...ConnectOption) (*Connection, error) {
	config, err := applyConnectOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to apply connect options: %w", err)
	}

	transport, err := createTransport(path, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	conn, err := setupConnection(companyName, transport, config)
	if err != nil {
		_ = transport.Close()
		return nil, err
	}

	return conn, nil
}

func createTransport(path string, config *connectConfig) (Transport, error) {
	if config.autoDetect || path == "" {
		return createAutoDetectedTransport(config.transportDeviceFactory)
	}
	return createManualTransport(path, config.transportFactory)
}

func setupConnection(companyName string, transport Transport, config *connectConfig) (*Connection, error) {
	conn, err := New(companyName, transport, config.connOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}

	if config.timeout > 0 {
		if err := conn.SetTimeout(config.timeout); err != nil {
			return nil, fmt.Errorf("failed to set timeout: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.timeout)
	defer cancel()
	if err := conn.OpenContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}

	return conn, nil
}

// createManualTransport handles creation of transport for a specific path
func createManualTransport(path string, factory TransportFactory) (Transport, error) {
	if factory == nil {
		return nil, errors.New("transport factory not provided")
	}

	transport, err := factory(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport for path %s: %w", path, err)
	}

	return transport, nil
}

// createAutoDetectedTransport handles auto-detection of devices
func createAutoDetectedTransport(factory TransportFromDeviceFactory) (Transport, error) {
	opts := detection.DefaultOptions()
	opts.Mode = detection.Safe

	devices, err := detection.DetectAll(&opts)
	if err != nil {
		return nil, fmt.Errorf("failed to detect devices: %w", err)
	}

	if len(devices) == 0 {
		return nil, ErrDeviceNotFound
	}

	// Use the first detected device
	device := devices[0]
	if factory == nil {
		return nil, errors.New("transport device factory not provided")
	}
	return factory(device)
}
