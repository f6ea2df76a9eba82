// Package prayer maintains the daily schedule of named time-of-day events
// (prayer times) fetched from a remote timing source.
//
// An Engine owns one DaySchedule: the full ordered list of the day's
// events and the queue of events still in the future. The timer
// goroutine repeatedly calls Engine.ComputeNextDuration, which pops the
// next event and reports how long to sleep until it. When the queue is
// exhausted the engine fetches the following calendar day, replaces its
// schedule wholesale and returns ErrRescheduled so that the caller asks
// again; a refresh never produces a duration for the wrong day.
//
// State wraps an Engine in a single sync.RWMutex. The timer goroutine is
// the only writer; connection handlers only take read snapshots.
package prayer
