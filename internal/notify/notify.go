// Package notify delivers desktop notifications when a prayer time
// arrives.
package notify

import (
	"context"
	"fmt"
	"time"
)

type Notification struct {
	Summary string
	Body    string
	Timeout time.Duration
}

// ForEvent returns the notification announcing name.
func ForEvent(name, summary string, timeout time.Duration) Notification {
	return Notification{
		Summary: summary,
		Body:    fmt.Sprintf("It is %s time", name),
		Timeout: timeout,
	}
}

// Sink shows a notification to the user.
type Sink interface {
	Notify(ctx context.Context, n Notification) error
}

type SinkFunc func(ctx context.Context, n Notification) error

func (f SinkFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}
