package frame

import (
	"context"
	"time"
)

// DefaultInterval is the frame interval of a Loop created with a
// non-positive interval (about 60 frames per second).
const DefaultInterval = 16 * time.Millisecond

// Loop is a cooperative frame loop for live playback.
//
// Run blocks and executes frames on the calling goroutine; Schedule and
// Cancel are meant to be called from that goroutine (inside callbacks or
// posted work) or before Run starts. Post may be called from anywhere.
type Loop struct {
	q        queue
	interval time.Duration
	clock    Clock
	wake     chan struct{}
}

// NewLoop creates a loop that runs frames every interval.
func NewLoop(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		interval: interval,
		clock:    SystemClock{},
		wake:     make(chan struct{}, 1),
	}
}

// SetClock replaces the clock that stamps frames. Call before Run.
func (l *Loop) SetClock(c Clock) {
	if c == nil {
		c = SystemClock{}
	}
	l.clock = c
}

// Interval returns the frame interval.
func (l *Loop) Interval() time.Duration { return l.interval }

// Schedule requests cb on the next frame.
func (l *Loop) Schedule(cb Callback) Handle { return l.q.schedule(cb) }

// Cancel drops a pending callback.
func (l *Loop) Cancel(h Handle) { l.q.cancel(h) }

// Pending returns the number of callbacks waiting for a frame.
func (l *Loop) Pending() int { return l.q.len() }

// Post queues fn to run on the loop goroutine and wakes the loop so that
// posted work is not held back by an idle ticker.
func (l *Loop) Post(fn func()) {
	l.q.post(fn)
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run executes frames until ctx is done. It returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
			l.q.drainPosts()
		case <-ticker.C:
			l.q.runFrame(l.clock.Now())
		}
	}
}
