package barrage

import (
	"time"

	"github.com/gogpu/barrage/frame"
)

// State is the playback state of an Engine.
type State uint8

const (
	// Idle means playback has never started.
	Idle State = iota

	// Playing means a frame is scheduled.
	Playing

	// Paused means playback has a position but no frame is scheduled.
	Paused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// frameLoop keeps at most one frame scheduled at a time.
type frameLoop struct {
	sched   frame.Scheduler
	frame   func(now time.Time)
	handle  frame.Handle
	running bool
}

// start schedules the next frame. It returns false if the loop already runs.
func (l *frameLoop) start() bool {
	if l.running {
		return false
	}
	l.running = true
	l.handle = l.sched.Schedule(l.tick)
	return true
}

// stop cancels the pending frame. It returns false if the loop was stopped.
func (l *frameLoop) stop() bool {
	if !l.running {
		return false
	}
	l.running = false
	if l.handle != 0 {
		l.sched.Cancel(l.handle)
		l.handle = 0
	}
	return true
}

func (l *frameLoop) tick(now time.Time) {
	l.handle = 0
	l.frame(now)
	// The frame may have stopped and restarted the loop.
	if l.running && l.handle == 0 {
		l.handle = l.sched.Schedule(l.tick)
	}
}

// State returns the playback state.
func (e *Engine) State() State {
	switch {
	case e.loop.running:
		return Playing
	case e.started:
		return Paused
	default:
		return Idle
	}
}

// Play starts or resumes playback. Playing again is a no-op.
//
// Resuming continues from the progress recorded by Pause or Seek.
func (e *Engine) Play() {
	if e.closed || e.loop.running {
		return
	}
	now := e.clock.Now()
	switch {
	case e.paused:
		e.startTime = now.Add(-e.pausedAt)
		e.paused = false
	case !e.started:
		e.startTime = now
		e.started = true
	}
	e.loop.start()
	slogger().Debug("barrage: play", "progress", e.progressAt(now))
}

// Pause stops playback and records the progress. It is a no-op unless
// playing.
func (e *Engine) Pause() {
	if !e.loop.stop() {
		return
	}
	e.pausedAt = e.clock.Now().Sub(e.startTime)
	e.paused = true
	slogger().Debug("barrage: pause", "progress", e.wrap(e.pausedAt))
}

// Seek moves playback to progress. When not playing it renders one frame at
// the new position, and the next Play resumes from there.
func (e *Engine) Seek(progress time.Duration) {
	if e.closed {
		return
	}
	e.startTime = e.clock.Now().Add(-progress)
	e.started = true
	if e.loop.running {
		return
	}
	e.pausedAt = progress
	e.paused = true
	e.render()
}

// Replay restarts playback from zero, whatever the current state.
func (e *Engine) Replay() {
	if e.closed {
		return
	}
	e.loop.stop()
	e.startTime = e.clock.Now()
	e.started = true
	e.paused = false
	e.pausedAt = 0
	e.loop.start()
}

// Progress returns the elapsed playback time, wrapped to Config.Duration
// when it is positive.
func (e *Engine) Progress() time.Duration {
	return e.progressAt(e.clock.Now())
}

func (e *Engine) progressAt(now time.Time) time.Duration {
	switch {
	case e.loop.running:
		return e.wrap(now.Sub(e.startTime))
	case e.paused:
		return e.wrap(e.pausedAt)
	default:
		return 0
	}
}

// wrap maps raw elapsed time into [0, Duration) when looping.
func (e *Engine) wrap(p time.Duration) time.Duration {
	return wrapProgress(p, e.cfg.Duration)
}

func wrapProgress(p, d time.Duration) time.Duration {
	if d <= 0 {
		return p
	}
	p %= d
	if p < 0 {
		p += d
	}
	return p
}
