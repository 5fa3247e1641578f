package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sozercan/dealer-assistant/internal/config"
)

func TestRunStopsOnContextAndRunsHooks(t *testing.T) {
	s := New(config.ServerConfig{Host: "127.0.0.1", Port: "0", ShutdownTimeout: time.Second}, &stubResponder{})

	var order []string
	s.OnShutdown(func() { order = append(order, "janitor") })
	s.OnShutdown(func() { order = append(order, "flush") })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.Equal(t, []string{"janitor", "flush"}, order)
}

func TestRunReportsListenFailureAndRunsHooks(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	s := New(config.ServerConfig{Host: "127.0.0.1", Port: port}, &stubResponder{})
	stopped := false
	s.OnShutdown(func() { stopped = true })

	err = s.Run(context.Background())
	assert.Error(t, err, "port already in use")
	assert.True(t, stopped)
}
