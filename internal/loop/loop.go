package loop

import (
	"context"
	"time"
)

// Loop is the single logical thread of the client: every callback posted
// here runs to completion before the next one starts, so mutation
// operations never interleave and need no locking. Timers and network
// completions re-enter the loop through Post.
type Loop struct {
	tasks chan func()
}

func New() *Loop {
	return &Loop{tasks: make(chan func(), 256)}
}

// Post queues fn to run on the loop.
func (l *Loop) Post(fn func()) {
	l.tasks <- fn
}

// After schedules fn on the loop once d has elapsed. The callback may
// observe state mutated after scheduling, so it must re-check whatever
// condition made it relevant.
func (l *Loop) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { l.Post(fn) })
}

// Run executes queued callbacks until ctx is done.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// Drain runs callbacks already queued and returns when the queue is empty.
func (l *Loop) Drain() {
	for {
		select {
		case fn := <-l.tasks:
			fn()
		default:
			return
		}
	}
}
