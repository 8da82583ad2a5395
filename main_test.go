package main

import (
	"errors"
	"net"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"auction-house/internal/server"

	"github.com/stretchr/testify/require"
)

func TestWaitForShutdown_ServerFailure(t *testing.T) {
	// occupy a port so the server cannot listen on it
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()
	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	srv := &server.Server{}
	serverErr := make(chan error, 1)
	go func() { serverErr <- srv.Run(port, http.NotFoundHandler()) }()

	done := make(chan error, 1)
	go func() { done <- waitForShutdown(srv, serverErr, make(chan os.Signal)) }()

	select {
	case err := <-done:
		require.ErrorContains(t, err, "error starting server")
	case <-time.After(5 * time.Second):
		t.Fatal("waitForShutdown did not return after the server failed")
	}
}

func TestWaitForShutdown_Signal(t *testing.T) {
	srv := &server.Server{}
	serverErr := make(chan error)
	quit := make(chan os.Signal, 1)
	quit <- syscall.SIGTERM

	require.NoError(t, waitForShutdown(srv, serverErr, quit))
}

func TestWaitForShutdown_CleanStop(t *testing.T) {
	serverErr := make(chan error, 1)
	serverErr <- nil
	require.NoError(t, waitForShutdown(&server.Server{}, serverErr, make(chan os.Signal)))

	serverErr <- errors.New("boom")
	require.Error(t, waitForShutdown(&server.Server{}, serverErr, make(chan os.Signal)))
}
