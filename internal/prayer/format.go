package prayer

import (
	"fmt"
	"time"
)

// ClockLayout renders a time as "05:30 am".
const ClockLayout = "03:04 pm"

// FormatClock renders the time-of-day of t in 12-hour form with a
// lowercase am/pm marker.
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// RelativeTime describes how far future lies after now, e.g.
// "in 1 hours and 2 mins". Anything under one second away, including
// the past, is "now".
func RelativeTime(future, now time.Time) string {
	return FormatRelative(future.Sub(now))
}

// FormatRelative renders a duration the way RelativeTime does.
func FormatRelative(d time.Duration) string {
	if d < time.Second {
		return "now"
	}
	hours := int64(d / time.Hour)
	mins := int64(d/time.Minute) % 60
	if mins < 0 {
		mins = -mins
	}
	switch {
	case hours == 0:
		return fmt.Sprintf("in %d mins", mins)
	case mins == 0:
		return fmt.Sprintf("in %d hours", hours)
	default:
		return fmt.Sprintf("in %d hours and %d mins", hours, mins)
	}
}
