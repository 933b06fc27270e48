// Package frame provides the clock and frame-scheduling capabilities the
// caption engine is driven by.
//
// Scheduling mirrors a browser's requestAnimationFrame: a callback is
// scheduled once, runs on the next frame with the frame timestamp, and must
// reschedule itself to keep animating. Everything runs on one goroutine;
// work finished elsewhere (a decoded mask image) re-enters through Post.
//
// Loop drives callbacks from a ticker for live playback. Manual steps
// frames explicitly, for tests and offline frame export.
package frame
