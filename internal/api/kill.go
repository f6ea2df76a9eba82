package api

import (
	"context"

	"github.com/adthand/adthand/internal/protocol"
)

// killHandler requests daemon shutdown. Repeated kills while a shutdown
// is already pending are dropped. No answer is written.
func (s *Api) killHandler(context.Context) (*protocol.Answer, error) {
	select {
	case s.shutdown <- struct{}{}:
		s.log.Info("Shutdown requested by client")
	default:
	}
	return nil, nil
}
