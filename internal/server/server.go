// Package server exposes the control channel: a Unix domain socket at a
// fixed path on which each connection carries one request and one answer.
package server

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/adthand/adthand/internal/protocol"
	"github.com/adthand/adthand/pkg/logger"
	"github.com/spf13/afero"
)

// Server owns the control socket and dispatches requests to handlers.
type Server struct {
	log      logger.Logger
	fs       afero.Fs
	path     string
	handler  map[protocol.Request]HandlerFunc
	listener net.Listener
	mu       sync.Mutex
}

// NewServer creates a server for the socket at path. fs is used for the
// socket file's lifecycle (stale removal, permissions, cleanup); nil
// means the OS filesystem.
func NewServer(l logger.Logger, fs afero.Fs, path string) *Server {
	if l == nil {
		l = logger.NewNopLogger()
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Server{
		log:     l,
		fs:      fs,
		path:    path,
		handler: make(map[protocol.Request]HandlerFunc),
	}
}

// RegisterHandler associates a handler with a request command.
func (s *Server) RegisterHandler(req protocol.Request, handler HandlerFunc) {
	s.handler[req] = handler
}

// Path returns the control socket path.
func (s *Server) Path() string {
	return s.path
}

// Serve accepts connections until ctx is canceled or Shutdown is called,
// handling each one in its own goroutine. Handler goroutines are not
// waited for. Listen must have succeeded first.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	l := s.listener
	s.mu.Unlock()
	if l == nil {
		return errors.New("server is not listening")
	}

	stop := context.AfterFunc(ctx, func() {
		s.closeListener()
	})
	defer stop()

	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Error("Error accepting: %v", err)
			continue
		}
		go s.handleConnection(ctx, conn)
	}
}

// Shutdown closes the listener and removes the socket file. A removal
// failure is logged and never returned.
func (s *Server) Shutdown() error {
	s.closeListener()
	if err := removeSocket(s.fs, s.path); err != nil {
		s.log.Error("Failed to remove socket at %s: %v", s.path, err)
		return nil
	}
	s.log.Info("Removed socket at %s", s.path)
	return nil
}

func (s *Server) closeListener() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.log.Warning("Error closing listener: %v", err)
		}
		s.listener = nil
	}
}
