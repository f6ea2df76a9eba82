package api

import (
	"context"

	"github.com/adthand/adthand/internal/protocol"
)

func (s *Api) pingHandler(context.Context) (*protocol.Answer, error) {
	s.log.Info("Pinged")
	return protocol.PingAnswer(), nil
}
