package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abzali/cue/internal/logging"
)

func TestConnectionManager_ConnectWithoutBackendReportsError(t *testing.T) {
	m := NewConnectionManager(logging.NewNopLogger())

	var states []ConnectionState
	m.SetStateCallback(func(s ConnectionState, _ string) { states = append(states, s) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Connect(ctx, Options{Address: "localhost:50051"})
	require.Error(t, err, "the readiness wait must not report success without a reachable backend")

	require.NotEmpty(t, states)
	assert.Equal(t, StateConnecting, states[0])
	assert.Equal(t, StateError, states[len(states)-1])
	assert.NotNil(t, m.Conn(), "the conn stays installed so later calls can retry")
}

func TestConnectionManager_DisconnectClearsConn(t *testing.T) {
	m := NewConnectionManager(logging.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = m.Connect(ctx, Options{Address: "localhost:50051"})
	require.NotNil(t, m.Conn())

	require.NoError(t, m.Disconnect())
	assert.Nil(t, m.Conn())
	assert.Equal(t, StateDisconnected, m.State())

	require.NoError(t, m.Disconnect(), "a second disconnect is a no-op")
}
