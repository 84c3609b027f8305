// Package backend manages the gRPC link to the Cue generation service
// and the dynamic invocation machinery built on top of it.
package backend

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
)

// ConnectionState represents the current state of the backend link.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateError
)

// String returns a human-readable representation of the connection state.
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Options configures the backend connection.
type Options struct {
	Address string
	UseTLS  bool
}

// ConnectionManager owns the lifecycle of the client connection to the
// Cue backend. It is safe for concurrent use; panels observe state
// changes through the registered callback.
type ConnectionManager struct {
	conn    *grpc.ClientConn
	state   ConnectionState
	address string
	logger  *slog.Logger
	mu      sync.RWMutex

	onStateChange func(state ConnectionState, message string)
}

// NewConnectionManager creates a disconnected manager.
func NewConnectionManager(logger *slog.Logger) *ConnectionManager {
	return &ConnectionManager{
		state:  StateDisconnected,
		logger: logger,
	}
}

// Connect establishes the client connection. An existing connection is
// closed in the background once the replacement is up.
func (m *ConnectionManager) Connect(ctx context.Context, opts Options) error {
	m.updateState(StateConnecting, "Connecting to "+opts.Address)

	// Keepalive tuned for a desktop client that sits idle between
	// generation requests.
	kaParams := keepalive.ClientParameters{
		Time:                10 * time.Second,
		Timeout:             3 * time.Second,
		PermitWithoutStream: true,
	}

	dialOpts := []grpc.DialOption{
		grpc.WithKeepaliveParams(kaParams),
	}

	if opts.UseTLS {
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(credentials.NewTLS(nil)))
	} else {
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
		m.logger.Warn("using insecure plaintext connection")
	}

	conn, err := grpc.NewClient(opts.Address, dialOpts...)
	if err != nil {
		m.logger.Error("failed to create backend client",
			slog.String("address", opts.Address),
			slog.Any("error", err),
		)
		m.updateState(StateError, "Failed to connect: "+err.Error())
		return err
	}

	m.mu.Lock()
	if m.conn != nil {
		oldConn := m.conn
		go func() {
			if err := oldConn.Close(); err != nil {
				m.logger.Warn("failed to close old connection", slog.Any("error", err))
			}
		}()
	}
	m.conn = conn
	m.address = opts.Address
	m.mu.Unlock()

	// The client dials lazily; kick it and wait until the link is ready
	// so the reported state reflects an actual connection. The conn stays
	// installed on failure, letting later RPCs retry with backoff.
	conn.Connect()
	for {
		s := conn.GetState()
		if s == connectivity.Ready {
			break
		}
		if s == connectivity.TransientFailure || s == connectivity.Shutdown {
			m.updateState(StateError, "Cannot reach "+opts.Address)
			return fmt.Errorf("backend %s unreachable", opts.Address)
		}
		if !conn.WaitForStateChange(ctx, s) {
			m.updateState(StateError, "Connection attempt cancelled")
			return ctx.Err()
		}
	}

	m.logger.Info("backend connection established",
		slog.String("address", opts.Address),
		slog.Bool("tls", opts.UseTLS),
	)
	m.updateState(StateConnected, "Connected to "+opts.Address)

	return nil
}

// Disconnect closes the connection.
func (m *ConnectionManager) Disconnect() error {
	m.mu.Lock()
	conn := m.conn
	addr := m.address
	m.conn = nil
	m.address = ""
	m.mu.Unlock()

	if conn == nil {
		m.updateState(StateDisconnected, "Already disconnected")
		return nil
	}

	if err := conn.Close(); err != nil {
		m.logger.Error("failed to close connection",
			slog.String("address", addr),
			slog.Any("error", err),
		)
		m.updateState(StateError, "Failed to disconnect: "+err.Error())
		return err
	}

	m.logger.Info("backend connection closed", slog.String("address", addr))
	m.updateState(StateDisconnected, "Disconnected")

	return nil
}

// Conn returns the current client connection, or nil when disconnected.
func (m *ConnectionManager) Conn() *grpc.ClientConn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conn
}

// State returns the current connection state.
func (m *ConnectionManager) State() ConnectionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Address returns the connected address, empty when disconnected.
func (m *ConnectionManager) Address() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.address
}

// SetStateCallback registers the observer invoked on state changes.
func (m *ConnectionManager) SetStateCallback(fn func(state ConnectionState, message string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onStateChange = fn
}

func (m *ConnectionManager) updateState(state ConnectionState, message string) {
	m.mu.Lock()
	m.state = state
	callback := m.onStateChange
	m.mu.Unlock()

	m.logger.Debug("connection state changed",
		slog.String("state", state.String()),
		slog.String("message", message),
	)

	if callback != nil {
		callback(state, message)
	}
}
