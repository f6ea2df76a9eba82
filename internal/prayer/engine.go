package prayer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adthand/adthand/pkg/logger"
)

// ErrRescheduled is returned by ComputeNextDuration after the exhausted
// schedule was replaced by the next day's. Call again to get the
// duration until the new day's first event.
var ErrRescheduled = errors.New("schedule refreshed for the next day")

// Options configures an Engine.
type Options struct {
	City    string
	Country string
	// Events restricts the scheduled timings by name. Empty keeps all.
	Events []string
	Retry  RetryPolicy
	Logger logger.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Engine owns the current DaySchedule. It is not safe for concurrent
// use; wrap it in a State.
type Engine struct {
	fetcher Fetcher
	city    string
	country string
	events  []string
	retry   RetryPolicy
	log     logger.Logger
	now     func() time.Time

	day *DaySchedule
}

// NewEngine fetches today's timings, retrying per opts.Retry, and
// returns an engine ready for ComputeNextDuration. With an unbounded
// policy it only fails when ctx is done.
func NewEngine(ctx context.Context, f Fetcher, opts Options) (*Engine, error) {
	e := &Engine{
		fetcher: f,
		city:    opts.City,
		country: opts.Country,
		events:  opts.Events,
		retry:   opts.Retry,
		log:     opts.Logger,
		now:     opts.Now,
	}
	if e.retry == nil {
		e.retry = FixedDelay{Delay: 10 * time.Second}
	}
	if e.log == nil {
		e.log = logger.NewNopLogger()
	}
	if e.now == nil {
		e.now = time.Now
	}
	day, err := e.build(ctx, midnight(e.now()))
	if err != nil {
		return nil, err
	}
	e.day = day
	return e, nil
}

func (e *Engine) build(ctx context.Context, date time.Time) (*DaySchedule, error) {
	var day *DaySchedule
	what := fmt.Sprintf("fetch timings for %s, %s on %s", e.city, e.country, date.Format("02-01-2006"))
	err := Retry(ctx, e.retry, e.log, what, func(ctx context.Context) error {
		timings, err := e.fetcher.Timings(ctx, Query{City: e.city, Country: e.country, Date: date})
		if err != nil {
			return err
		}
		d, err := NewDaySchedule(e.city, e.country, date, timings, e.events, e.now())
		if err != nil {
			return err
		}
		day = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info("Loaded %d events for %s (%d upcoming)", len(day.all), date.Format("02-01-2006"), day.Remaining())
	return day, nil
}

// ComputeNextDuration pops the next event and returns how long until it
// fires, clamped at zero. If the queue was already empty it refreshes to
// the following calendar day and returns ErrRescheduled instead.
func (e *Engine) ComputeNextDuration(ctx context.Context) (time.Duration, error) {
	now := e.now()
	if ev, ok := e.day.Pop(); ok {
		d := ev.Time.Sub(now)
		if d < 0 {
			d = 0
		}
		e.log.Info("Next event %s at %s (%s)", ev.Name, FormatClock(ev.Time), d.Round(time.Second))
		return d, nil
	}

	date := e.day.Date.AddDate(0, 0, 1)
	if today := midnight(now); date.Before(today) {
		date = today
	}
	e.log.Info("Schedule for %s exhausted, refreshing for %s", e.day.Date.Format("02-01-2006"), date.Format("02-01-2006"))
	day, err := e.build(ctx, date)
	if err != nil {
		return 0, err
	}
	e.day = day
	return 0, ErrRescheduled
}

// Next returns the most recently popped event, if any.
func (e *Engine) Next() (Event, bool) {
	return e.day.Next()
}

// FullDayView renders the whole current day, past events included.
func (e *Engine) FullDayView() []Entry {
	return e.day.FullDayView()
}

// Day returns the current schedule. Callers must not mutate it.
func (e *Engine) Day() *DaySchedule {
	return e.day
}
