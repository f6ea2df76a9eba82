package prayer

import (
	"context"
	"time"
)

// Event is a named point in time within one calendar day.
type Event struct {
	Name string
	Time time.Time
}

// Entry is an Event rendered for clients: name and 12-hour clock time.
type Entry struct {
	Name string
	Time string
}

// Entry renders e with FormatClock.
func (e Event) Entry() Entry {
	return Entry{Name: e.Name, Time: FormatClock(e.Time)}
}

// Query identifies the timings to fetch.
type Query struct {
	City    string
	Country string
	Date    time.Time
}

// Fetcher returns the raw "HH:MM" timings for one day, keyed by event name.
// Any error is treated as transient and retried by the engine.
type Fetcher interface {
	Timings(ctx context.Context, q Query) (map[string]string, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, q Query) (map[string]string, error)

func (f FetcherFunc) Timings(ctx context.Context, q Query) (map[string]string, error) {
	return f(ctx, q)
}
