// Package scheduler runs the timer goroutine of the daemon. It pops the
// next event from the shared schedule, sleeps until it is due with a
// 60-second max-sleep-cap to handle NTP steps, DST transitions and
// system suspend, and then fires the registered trigger.
//
// The scheduler is the only writer of the shared schedule state.
package scheduler
