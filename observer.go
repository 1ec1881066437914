package serialworker

import (
	"context"
	"time"
)

// Observer receives worker events.
//
// Task callbacks run on the worker goroutine between tasks, so a slow
// observer delays the queue. State and depth callbacks run on whichever
// goroutine caused the change. The worker lock is never held during a callback.
type Observer interface {
	OnTaskStart(ctx context.Context, info TaskInfo)
	OnTaskDone(ctx context.Context, info TaskInfo, d time.Duration)
	OnTaskFault(ctx context.Context, info TaskInfo, err error)
	OnStateChange(ctx context.Context, worker string, from, to State)
	OnQueueDepth(ctx context.Context, worker string, depth int)
}

// NoopObserver ignores every event. Embed it to implement a subset of Observer.
type NoopObserver struct{}

var _ Observer = NoopObserver{}

func (NoopObserver) OnTaskStart(context.Context, TaskInfo)               {}
func (NoopObserver) OnTaskDone(context.Context, TaskInfo, time.Duration) {}
func (NoopObserver) OnTaskFault(context.Context, TaskInfo, error)        {}
func (NoopObserver) OnStateChange(context.Context, string, State, State) {}
func (NoopObserver) OnQueueDepth(context.Context, string, int)           {}

type compositeObserver struct {
	observers []Observer
}

// NewCompositeObserver fans events out to every non-nil observer in order.
func NewCompositeObserver(observers ...Observer) Observer {
	filtered := make([]Observer, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			filtered = append(filtered, o)
		}
	}

	switch len(filtered) {
	case 0:
		return NoopObserver{}
	case 1:
		return filtered[0]
	default:
		return &compositeObserver{observers: filtered}
	}
}

func (c *compositeObserver) OnTaskStart(ctx context.Context, info TaskInfo) {
	for _, o := range c.observers {
		o.OnTaskStart(ctx, info)
	}
}

func (c *compositeObserver) OnTaskDone(ctx context.Context, info TaskInfo, d time.Duration) {
	for _, o := range c.observers {
		o.OnTaskDone(ctx, info, d)
	}
}

func (c *compositeObserver) OnTaskFault(ctx context.Context, info TaskInfo, err error) {
	for _, o := range c.observers {
		o.OnTaskFault(ctx, info, err)
	}
}

func (c *compositeObserver) OnStateChange(ctx context.Context, worker string, from, to State) {
	for _, o := range c.observers {
		o.OnStateChange(ctx, worker, from, to)
	}
}

func (c *compositeObserver) OnQueueDepth(ctx context.Context, worker string, depth int) {
	for _, o := range c.observers {
		o.OnQueueDepth(ctx, worker, depth)
	}
}
