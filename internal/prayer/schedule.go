package prayer

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrNoEvents is returned when a fetched day contains no usable events.
var ErrNoEvents = errors.New("no events in timings")

// DaySchedule is one calendar day of events.
//
// all holds every event of the day in ascending order, past ones
// included. queue holds the events that were still in the future when
// the schedule was built, ascending by (time, name); Pop consumes it
// from the front. next is the most recently popped event.
type DaySchedule struct {
	City    string
	Country string
	Date    time.Time
	Built   time.Time

	all   []Event
	queue []Event
	next  *Event
}

// NewDaySchedule builds the schedule for date from raw "HH:MM" timings.
// Only names listed in keep are used; an empty keep uses every timing.
// Events at or before now are left out of the queue.
func NewDaySchedule(city, country string, date time.Time, timings map[string]string, keep []string, now time.Time) (*DaySchedule, error) {
	date = midnight(date)
	var wanted map[string]bool
	if len(keep) > 0 {
		wanted = make(map[string]bool, len(keep))
		for _, name := range keep {
			wanted[name] = true
		}
	}

	all := make([]Event, 0, len(timings))
	for name, raw := range timings {
		if wanted != nil && !wanted[name] {
			continue
		}
		h, m, err := parseClock(raw)
		if err != nil {
			return nil, fmt.Errorf("timing %s: %w", name, err)
		}
		all = append(all, Event{
			Name: name,
			Time: time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, date.Location()),
		})
	}
	if len(all) == 0 {
		return nil, ErrNoEvents
	}
	sort.Slice(all, func(i, j int) bool { return eventLess(all[i], all[j]) })

	queue := make([]Event, 0, len(all))
	for _, e := range all {
		if e.Time.After(now) {
			queue = append(queue, e)
		}
	}
	return &DaySchedule{
		City:    city,
		Country: country,
		Date:    date,
		Built:   now,
		all:     all,
		queue:   queue,
	}, nil
}

func eventLess(a, b Event) bool {
	if a.Time.Equal(b.Time) {
		return a.Name < b.Name
	}
	return a.Time.Before(b.Time)
}

// Pop moves the front of the queue into next. On an empty queue next is
// cleared and ok is false.
func (d *DaySchedule) Pop() (e Event, ok bool) {
	if len(d.queue) == 0 {
		d.next = nil
		return Event{}, false
	}
	e = d.queue[0]
	d.queue = d.queue[1:]
	d.next = &e
	return e, true
}

// Next returns the most recently popped event.
func (d *DaySchedule) Next() (Event, bool) {
	if d.next == nil {
		return Event{}, false
	}
	return *d.next, true
}

// Remaining is the number of events left in the queue.
func (d *DaySchedule) Remaining() int {
	return len(d.queue)
}

// Queue returns a copy of the remaining events.
func (d *DaySchedule) Queue() []Event {
	return append([]Event(nil), d.queue...)
}

// All returns a copy of every event of the day.
func (d *DaySchedule) All() []Event {
	return append([]Event(nil), d.all...)
}

// FullDayView renders every event of the day for clients.
func (d *DaySchedule) FullDayView() []Entry {
	view := make([]Entry, len(d.all))
	for i, e := range d.all {
		view[i] = e.Entry()
	}
	return view
}

// parseClock reads "HH:MM", ignoring any trailing annotation such as
// "05:12 (EST)".
func parseClock(raw string) (hour, minute int, err error) {
	s := strings.TrimSpace(raw)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	hs, ms, found := strings.Cut(s, ":")
	if !found {
		return 0, 0, fmt.Errorf("malformed time %q", raw)
	}
	hour, err = strconv.Atoi(hs)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("malformed hour in %q", raw)
	}
	minute, err = strconv.Atoi(ms)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("malformed minute in %q", raw)
	}
	return hour, minute, nil
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
