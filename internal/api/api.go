// Package api implements the control channel's request handlers on top
// of the shared prayer schedule.
package api

import (
	"time"

	"github.com/adthand/adthand/internal/prayer"
	"github.com/adthand/adthand/internal/protocol"
	"github.com/adthand/adthand/internal/server"
	"github.com/adthand/adthand/pkg/logger"
)

type Api struct {
	log      logger.Logger
	state    *prayer.State
	shutdown chan<- struct{}
	now      func() time.Time
}

// NewApi creates the handlers. shutdown should have a buffer of one; a
// Kill request sends on it without blocking. now defaults to time.Now.
func NewApi(l logger.Logger, state *prayer.State, shutdown chan<- struct{}, now func() time.Time) *Api {
	if now == nil {
		now = time.Now
	}
	return &Api{
		log:      l,
		state:    state,
		shutdown: shutdown,
		now:      now,
	}
}

func (s *Api) RegisterHandlers(server *server.Server) {
	server.RegisterHandler(protocol.RequestPing, s.pingHandler)
	server.RegisterHandler(protocol.RequestKill, s.killHandler)
	server.RegisterHandler(protocol.RequestNext, s.nextHandler)
	server.RegisterHandler(protocol.RequestAll, s.allHandler)
	server.RegisterHandler(protocol.RequestWaybar, s.waybarHandler)
}

func toEntries(view []prayer.Entry) []protocol.Entry {
	entries := make([]protocol.Entry, len(view))
	for i, e := range view {
		entries[i] = protocol.Entry{Name: e.Name, Time: e.Time}
	}
	return entries
}

// describe renders the name, clock time and relative time of next.
func (s *Api) describe(next prayer.Event, ok bool) (name, clock, relative string) {
	if !ok {
		return "", "", protocol.Pending
	}
	return next.Name, prayer.FormatClock(next.Time), prayer.RelativeTime(next.Time, s.now())
}
