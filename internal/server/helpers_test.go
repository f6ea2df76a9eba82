package server

import (
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adthand/adthand/internal/protocol"
)

// shortSocketPath returns a socket path short enough for sun_path.
func shortSocketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("/tmp", "adt")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "s.sock")
}

// startServer listens and serves s until the test ends.
func startServer(t *testing.T, s *Server) {
	t.Helper()
	if err := s.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("Serve did not return")
		}
		_ = s.Shutdown()
	})
}

// roundTrip sends one raw frame and returns everything the server wrote.
func roundTrip(t *testing.T, path string, frame []byte) []byte {
	t.Helper()
	b, err := exchange(path, frame)
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	return b
}

func exchange(path string, frame []byte) ([]byte, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	if _, err := conn.Write(frame); err != nil {
		return nil, err
	}
	_ = conn.(*net.UnixConn).CloseWrite()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return io.ReadAll(conn)
}

func request(r protocol.Request) []byte {
	f, err := protocol.EncodeRequest(r)
	if err != nil {
		panic(err)
	}
	return f[:]
}
