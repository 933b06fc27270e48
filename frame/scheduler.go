package frame

import (
	"sync"
	"time"
)

// Handle identifies a scheduled callback. The zero Handle is never issued.
type Handle uint64

// Callback runs once on the frame it was scheduled for.
type Callback func(now time.Time)

// Scheduler schedules one-shot frame callbacks.
type Scheduler interface {
	// Schedule requests cb on the next frame.
	Schedule(cb Callback) Handle

	// Cancel drops a pending callback. Unknown or already-run handles
	// are ignored.
	Cancel(h Handle)
}

// Poster runs fn on the scheduler's goroutine before the next frame.
// Post is safe to call from any goroutine.
type Poster interface {
	Post(fn func())
}

type pendingCallback struct {
	handle Handle
	cb     Callback
}

// queue is the ordered set of pending callbacks shared by Loop and Manual.
type queue struct {
	mu      sync.Mutex
	next    Handle
	pending []pendingCallback
	running []pendingCallback // callbacks of the frame in progress
	posts   []func()
}

func (q *queue) schedule(cb Callback) Handle {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.next++
	q.pending = append(q.pending, pendingCallback{handle: q.next, cb: cb})
	return q.next
}

func (q *queue) cancel(h Handle) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, p := range q.pending {
		if p.handle == h {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
	for i := range q.running {
		if q.running[i].handle == h {
			q.running[i].cb = nil
			return
		}
	}
}

func (q *queue) post(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.posts = append(q.posts, fn)
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// runFrame drains posted work, then runs the callbacks that were pending
// when the frame began. Callbacks scheduled during the frame wait for the
// next one; callbacks cancelled during the frame are skipped. Returns the
// number of callbacks run.
func (q *queue) runFrame(now time.Time) int {
	q.drainPosts()

	q.mu.Lock()
	q.running = q.pending
	q.pending = nil
	q.mu.Unlock()

	ran := 0
	for i := 0; ; i++ {
		q.mu.Lock()
		if i >= len(q.running) {
			q.running = nil
			q.mu.Unlock()
			return ran
		}
		cb := q.running[i].cb
		q.mu.Unlock()

		if cb == nil {
			continue
		}
		cb(now)
		ran++
	}
}

// drainPosts runs posted work in order. Work posted while draining runs
// on the next drain.
func (q *queue) drainPosts() {
	q.mu.Lock()
	posts := q.posts
	q.posts = nil
	q.mu.Unlock()
	for _, fn := range posts {
		fn()
	}
}
