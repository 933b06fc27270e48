// Package barrage animates timestamped text items that scroll horizontally
// across a drawing surface, the "barrage" or bullet-comment style of video
// captions.
//
// # Overview
//
// Each item enters at a time offset and travels at its own randomized speed.
// The Engine lays items out once when they are committed, then renders a
// frame for the current playback progress on every scheduled tick:
//
//	s := surface.NewImageSurface(640, 360)
//	e, err := barrage.New(s,
//	    barrage.WithItems([]barrage.RawItem{
//	        {Time: 0, Text: "first!"},
//	        {Time: 1200, Text: "hello"},
//	    }),
//	    barrage.WithOverlapOptimization(true),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	e.Play()
//
// # Layout
//
// An item with entry time t starts at left = Speed*t/1000 + viewport width
// and moves left by Speed px/s multiplied by its SpeedRatio. Rows are
// 2*FontSize apart and chosen at random; the overlap resolver reassigns rows
// of colliding items once per SetData.
//
// # Playback
//
// The engine is Idle until Play, Playing while a frame is scheduled, and
// Paused afterwards. Seek works in every state. With Config.Duration > 0
// progress wraps and the captions loop.
//
// # Masking
//
// A Mask restricts captions to the opaque pixels of a raw RGBA buffer or a
// decoded image, for example to keep captions off a speaker's face.
//
// # Threading
//
// An Engine is not safe for concurrent use. All calls must happen on the
// goroutine that drives its frame.Scheduler.
//
// # Logging
//
// The package is silent by default. SetLogger enables log/slog output for
// the engine and its surface backends.
package barrage
