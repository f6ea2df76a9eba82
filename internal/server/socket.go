package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// ErrDaemonRunning is returned by Listen when another process is
// accepting on the socket path.
var ErrDaemonRunning = errors.New("another daemon is already listening")

const probeTimeout = 200 * time.Millisecond

// Listen binds the control socket. If the path is already taken by a
// dead socket file (left by an unclean exit) the file is removed and the
// bind retried once. Any other failure is returned.
func (s *Server) Listen() error {
	l, err := listenUnix(s.path)
	if err != nil && errors.Is(err, unix.EADDRINUSE) {
		if socketAlive(s.path) {
			return fmt.Errorf("%w on %s", ErrDaemonRunning, s.path)
		}
		s.log.Warning("Removing stale socket at %s", s.path)
		if rerr := s.fs.Remove(s.path); rerr != nil && !os.IsNotExist(rerr) {
			return fmt.Errorf("remove stale socket %s: %w", s.path, rerr)
		}
		l, err = listenUnix(s.path)
	}
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.path, err)
	}
	if err := s.fs.Chmod(s.path, 0o600); err != nil {
		s.log.Warning("Could not restrict socket permissions: %v", err)
	}

	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()
	s.log.Info("Listening on %s", s.path)
	return nil
}

// listenUnix binds path and leaves the file in place on Close; removal
// is done explicitly by Shutdown.
func listenUnix(path string) (*net.UnixListener, error) {
	l, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		return nil, err
	}
	l.SetUnlinkOnClose(false)
	return l, nil
}

func socketAlive(path string) bool {
	conn, err := net.DialTimeout("unix", path, probeTimeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
