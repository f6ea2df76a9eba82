package api

import (
	"context"

	"github.com/adthand/adthand/internal/protocol"
)

func (s *Api) nextHandler(context.Context) (*protocol.Answer, error) {
	name, clock, relative := s.describe(s.state.NextEvent())
	return protocol.NextAnswer(name, clock, relative), nil
}
