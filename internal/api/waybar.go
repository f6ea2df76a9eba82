package api

import (
	"context"

	"github.com/adthand/adthand/internal/protocol"
)

// waybarHandler combines the next event and the full day, read under a
// single lock so both halves describe the same schedule.
func (s *Api) waybarHandler(context.Context) (*protocol.Answer, error) {
	snap := s.state.Snapshot()
	name, clock, relative := s.describe(snap.Next, snap.HasNext)
	return protocol.WaybarAnswer(name, clock, relative, toEntries(snap.Day)), nil
}
