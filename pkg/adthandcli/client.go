// Package adthandcli is the client side of the adthand control socket.
// Every call opens a new connection, sends one request and reads the
// daemon's answer until it closes the connection.
package adthandcli

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/adthand/adthand/common"
	"github.com/adthand/adthand/internal/protocol"
)

var (
	ErrNoAnswer         = errors.New("daemon closed the connection without answering")
	ErrUnexpectedAnswer = errors.New("unexpected answer")
)

const defaultTimeout = 5 * time.Second

type Client struct {
	path    string
	timeout time.Duration
	dial    func(path string, timeout time.Duration) (net.Conn, error)
}

// NewClient returns a client for the daemon listening on path. An empty
// path uses common.SocketPath.
func NewClient(path string) *Client {
	if path == "" {
		path = common.SocketPath
	}
	return &Client{
		path:    path,
		timeout: defaultTimeout,
		dial: func(path string, timeout time.Duration) (net.Conn, error) {
			return net.DialTimeout("unix", path, timeout)
		},
	}
}

func (c *Client) Path() string {
	return c.path
}

// exchange writes req and returns everything the daemon sent back.
func (c *Client) exchange(req protocol.Request) ([]byte, error) {
	conn, err := c.dial(c.path, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("error connecting to daemon: %s", err.Error())
	}
	defer conn.Close()
	if c.timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(c.timeout))
	}

	frame, err := protocol.EncodeRequest(req)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", req, err)
	}
	if _, err := conn.Write(frame[:]); err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %s", req, err.Error())
	}
	if uc, ok := conn.(*net.UnixConn); ok {
		_ = uc.CloseWrite()
	}
	buf, err := io.ReadAll(io.LimitReader(conn, protocol.MaxAnswerSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %s", req, err.Error())
	}
	if len(buf) > protocol.MaxAnswerSize {
		return nil, fmt.Errorf("failed to read %s: answer exceeds %d bytes", req, protocol.MaxAnswerSize)
	}
	return buf, nil
}

// invoke sends req and decodes an answer of the given kind.
func (c *Client) invoke(req protocol.Request, kind protocol.AnswerKind) (*protocol.Answer, error) {
	buf, err := c.exchange(req)
	if err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("%s: %w", req, ErrNoAnswer)
	}
	a, err := protocol.DecodeAnswer(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", req, err)
	}
	if a.Kind != kind {
		return nil, fmt.Errorf("%w to %s: %s", ErrUnexpectedAnswer, req, a.Kind)
	}
	return a, nil
}
