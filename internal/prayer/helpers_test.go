package prayer

import (
	"context"
	"errors"
	"sync"
	"time"
)

// fakeClock is a settable time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{t: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

// fakeFetcher serves timings per "02-01-2006" date key and records queries.
type fakeFetcher struct {
	mu       sync.Mutex
	days     map[string]map[string]string
	failures map[string]int
	queries  []Query
}

var errUnavailable = errors.New("timing source unavailable")

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		days:     make(map[string]map[string]string),
		failures: make(map[string]int),
	}
}

func (f *fakeFetcher) set(date string, timings map[string]string) {
	f.mu.Lock()
	f.days[date] = timings
	f.mu.Unlock()
}

// failNext makes the next n fetches for date fail.
func (f *fakeFetcher) failNext(date string, n int) {
	f.mu.Lock()
	f.failures[date] = n
	f.mu.Unlock()
}

func (f *fakeFetcher) Timings(_ context.Context, q Query) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	key := q.Date.Format("02-01-2006")
	if f.failures[key] > 0 {
		f.failures[key]--
		return nil, errUnavailable
	}
	t, ok := f.days[key]
	if !ok {
		return nil, errUnavailable
	}
	return t, nil
}

func (f *fakeFetcher) calls() []Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Query(nil), f.queries...)
}

func at(day, hour, min int) time.Time {
	return time.Date(2024, time.March, day, hour, min, 0, 0, time.UTC)
}

var torontoTimings = map[string]string{
	"Fajr":    "05:30",
	"Sunrise": "07:02",
	"Dhuhr":   "13:15",
	"Asr":     "16:40 (EDT)",
	"Sunset":  "19:10",
	"Maghrib": "19:10",
	"Isha":    "20:30",
}

var defaultEvents = []string{"Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha"}
