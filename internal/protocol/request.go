// Package protocol defines the control channel wire format.
//
// Frames are CBOR arrays. A request is [version, command], a fixed
// RequestSize bytes. An answer is [version, kind, name, time, relative,
// entries] where entries is a list of [name, time] pairs. The daemon
// writes exactly one answer and closes the connection, so answers carry
// no outer length prefix; clients read until end of stream.
package protocol

import (
	"errors"
	"fmt"
)

// Version is the wire format revision carried by every frame.
const Version byte = 1

// RequestSize is the size in bytes of every request frame.
const RequestSize = 3

var (
	// ErrShortFrame is returned when a frame ends before its payload.
	ErrShortFrame = errors.New("short frame")
	// ErrVersion is returned for frames of another protocol revision.
	ErrVersion = errors.New("unsupported protocol version")
	// ErrUnknownRequest is returned for an unknown request command.
	ErrUnknownRequest = errors.New("unknown request")
	// ErrUnknownAnswer is returned for an unknown answer kind.
	ErrUnknownAnswer = errors.New("unknown answer")
	// ErrTrailingData is returned when a frame has bytes past its payload.
	ErrTrailingData = errors.New("trailing data after frame")
	// ErrMalformed is returned for bytes that are not a valid frame.
	ErrMalformed = errors.New("malformed frame")
	// ErrLimit is returned when an answer exceeds a size limit.
	ErrLimit = errors.New("answer exceeds limit")
)

// Request is the closed set of commands a client can send.
type Request byte

const (
	RequestPing Request = iota + 1
	RequestKill
	RequestNext
	RequestWaybar
	RequestAll
)

func (r Request) String() string {
	switch r {
	case RequestPing:
		return "ping"
	case RequestKill:
		return "kill"
	case RequestNext:
		return "next"
	case RequestWaybar:
		return "waybar"
	case RequestAll:
		return "all"
	default:
		return fmt.Sprintf("request(%d)", byte(r))
	}
}

// Valid reports whether r is one of the known commands.
func (r Request) Valid() bool {
	return r >= RequestPing && r <= RequestAll
}
