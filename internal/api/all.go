package api

import (
	"context"

	"github.com/adthand/adthand/internal/protocol"
)

func (s *Api) allHandler(context.Context) (*protocol.Answer, error) {
	return protocol.AllAnswer(toEntries(s.state.FullDayView())), nil
}
