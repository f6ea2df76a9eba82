package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"runtime/debug"
	"time"

	"github.com/adthand/adthand/internal/protocol"
	"github.com/google/uuid"
)

// handleConnection serves exactly one request on conn and closes it. Any
// failure only affects this connection.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	id := uuid.NewString()[:8]
	defer conn.Close()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("PANIC [conn %s]: %v\n%s", id, r, debug.Stack())
		}
	}()

	if err := s.serveRequest(ctx, conn); err != nil {
		s.log.Warning("[conn %s] %v", id, err)
	}
}

// requestTimeout bounds how long a client may take to send its frame.
const requestTimeout = 5 * time.Second

func (s *Server) serveRequest(ctx context.Context, conn net.Conn) error {
	_ = conn.SetReadDeadline(time.Now().Add(requestTimeout))
	var buf [protocol.RequestSize]byte
	if _, err := io.ReadFull(conn, buf[:]); err != nil {
		return fmt.Errorf("error reading request: %w", err)
	}
	req, err := protocol.DecodeRequest(buf[:])
	if err != nil {
		return fmt.Errorf("error parsing request: %w", err)
	}
	h, ok := s.handler[req]
	if !ok {
		return fmt.Errorf("no handler for %s", req)
	}
	answer, err := h(ctx)
	if err != nil {
		return fmt.Errorf("error handling %s: %w", req, err)
	}
	if answer == nil {
		return nil
	}
	b, err := protocol.EncodeAnswer(answer)
	if err != nil {
		return fmt.Errorf("error encoding %s answer: %w", req, err)
	}
	if _, err := conn.Write(b); err != nil {
		return fmt.Errorf("error writing %s answer: %w", req, err)
	}
	return nil
}
