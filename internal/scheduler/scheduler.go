package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/adthand/adthand/internal/prayer"
	"github.com/adthand/adthand/pkg/logger"
)

const maxSleepCap = 60 * time.Second

// Advancer pops the next event and returns how long until it is due.
// *prayer.State implements it.
type Advancer interface {
	Advance(ctx context.Context) (prayer.Event, time.Duration, error)
}

type Options struct {
	Logger logger.Logger
	// RetryDelay is the pause after a failed Advance. Defaults to 10s.
	RetryDelay time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// Scheduler fires onTrigger for every event of the schedule, in order,
// until its context is cancelled.
type Scheduler struct {
	state      Advancer
	onTrigger  func(prayer.Event)
	log        logger.Logger
	retryDelay time.Duration
	sleepCap   time.Duration
	now        func() time.Time
}

func New(state Advancer, onTrigger func(prayer.Event), opts Options) *Scheduler {
	s := &Scheduler{
		state:      state,
		onTrigger:  onTrigger,
		log:        opts.Logger,
		retryDelay: opts.RetryDelay,
		sleepCap:   maxSleepCap,
		now:        opts.Now,
	}
	if s.log == nil {
		s.log = logger.NewNopLogger()
	}
	if s.retryDelay <= 0 {
		s.retryDelay = 10 * time.Second
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Run is the timer loop. It returns nil once ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		ev, d, err := s.state.Advance(ctx)
		switch {
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, prayer.ErrRescheduled):
			s.log.Info("Schedule refreshed for the next day")
			continue
		case err != nil:
			s.log.Error("Failed to compute next event: %s", err.Error())
			if !s.sleep(ctx, s.retryDelay) {
				return nil
			}
			continue
		}
		// Round(0) drops the monotonic reading so the deadline follows
		// the wall clock across suspend.
		if !s.sleepUntil(ctx, s.now().Add(d).Round(0)) {
			return nil
		}
		s.onTrigger(ev)
	}
}

// sleepUntil waits for deadline in steps of at most sleepCap and
// reports false if ctx ended first.
func (s *Scheduler) sleepUntil(ctx context.Context, deadline time.Time) bool {
	for {
		remaining := deadline.Sub(s.now().Round(0))
		if remaining <= 0 {
			return true
		}
		if remaining > s.sleepCap {
			remaining = s.sleepCap
		}
		if !s.sleep(ctx, remaining) {
			return false
		}
	}
}

func (s *Scheduler) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
