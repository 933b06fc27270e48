package frame

import "time"

// Manual is a Scheduler that only runs frames when stepped.
// It is deterministic and suited to tests and offline frame export.
type Manual struct {
	q queue
}

// NewManual creates an idle manual scheduler.
func NewManual() *Manual {
	return &Manual{}
}

// Schedule requests cb on the next Step.
func (m *Manual) Schedule(cb Callback) Handle { return m.q.schedule(cb) }

// Cancel drops a pending callback.
func (m *Manual) Cancel(h Handle) { m.q.cancel(h) }

// Post queues fn to run at the start of the next Step.
func (m *Manual) Post(fn func()) { m.q.post(fn) }

// Pending returns the number of callbacks waiting for a frame.
func (m *Manual) Pending() int { return m.q.len() }

// Step runs one frame stamped now and returns the number of callbacks run.
func (m *Manual) Step(now time.Time) int {
	return m.q.runFrame(now)
}

// Flush runs posted work without running a frame.
func (m *Manual) Flush() {
	m.q.drainPosts()
}
