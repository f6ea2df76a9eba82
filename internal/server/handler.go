package server

import (
	"context"

	"github.com/adthand/adthand/internal/protocol"
)

// HandlerFunc answers one request. A nil answer closes the connection
// without writing anything.
type HandlerFunc func(ctx context.Context) (*protocol.Answer, error)
