package notify

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/adthand/adthand/pkg/logger"
)

const defaultDeliveryTimeout = 10 * time.Second

// Queue hands notifications to a Sink from a single worker so a slow
// notification server never delays the caller. At most size
// notifications wait; later ones are dropped.
type Queue struct {
	sink    Sink
	log     logger.Logger
	ch      chan Notification
	timeout time.Duration
}

func NewQueue(sink Sink, l logger.Logger, size int) *Queue {
	if size <= 0 {
		size = 1
	}
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Queue{
		sink:    sink,
		log:     l,
		ch:      make(chan Notification, size),
		timeout: defaultDeliveryTimeout,
	}
}

// Enqueue schedules n for delivery without blocking. It reports false
// when the queue is full.
func (q *Queue) Enqueue(n Notification) bool {
	select {
	case q.ch <- n:
		return true
	default:
		q.log.Warning("Notification queue full, dropping %q", n.Body)
		return false
	}
}

// Run delivers queued notifications until ctx is done. Delivery
// failures are logged and never stop the worker.
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-q.ch:
			if err := q.deliver(ctx, n); err != nil {
				q.log.Error("Failed to send notification %q: %s", n.Body, err.Error())
			}
		}
	}
}

func (q *Queue) deliver(ctx context.Context, n Notification) (err error) {
	defer func() {
		if r := recover(); r != nil {
			q.log.Error("PANIC [notify]: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("notification sink panicked: %v", r)
		}
	}()
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()
	return q.sink.Notify(ctx, n)
}
