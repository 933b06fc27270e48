package barrage

import "errors"

var (
	// ErrNilSurface is returned by New when no surface is given.
	ErrNilSurface = errors.New("barrage: nil surface")

	// ErrInvalidMask is returned when a mask source has an unusable shape.
	ErrInvalidMask = errors.New("barrage: invalid mask")

	// ErrInvalidColor is returned by ParseColor for unrecognized colors.
	ErrInvalidColor = errors.New("barrage: invalid color")

	// ErrNotRunnable is returned by Engine.Run when the scheduler has no
	// run loop of its own.
	ErrNotRunnable = errors.New("barrage: scheduler is not runnable")

	// ErrClosed is returned when operating on a closed engine.
	ErrClosed = errors.New("barrage: engine closed")
)
