package barrage

import (
	"errors"
	"fmt"
	"image"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/gogpu/barrage/frame"
	"github.com/gogpu/barrage/surface"
)

// epoch is the start instant of test clocks.
var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// charWidth is the advance of one rune on a recordingSurface.
const charWidth = 10

type fillCall struct {
	text  string
	x, y  float64
	style surface.TextStyle
}

// recordingSurface logs every call made on it.
type recordingSurface struct {
	w, h int

	ops        []string
	fills      []fillCall
	fonts      []surface.Font
	opacity    []float64
	composites []surface.CompositeOp

	offscreens   []*recordingSurface
	offscreenErr error
	closed       bool
}

func newRecorder(w, h int) *recordingSurface {
	return &recordingSurface{w: w, h: h}
}

func (r *recordingSurface) Width() int  { return r.w }
func (r *recordingSurface) Height() int { return r.h }
func (r *recordingSurface) Clear()      { r.ops = append(r.ops, "clear") }

func (r *recordingSurface) MeasureText(s string, font surface.Font) float64 {
	r.fonts = append(r.fonts, font)
	return float64(utf8.RuneCountInString(s) * charWidth)
}

func (r *recordingSurface) FillText(s string, x, y float64, style surface.TextStyle) {
	r.ops = append(r.ops, "fill:"+s)
	r.fills = append(r.fills, fillCall{text: s, x: x, y: y, style: style})
}

func (r *recordingSurface) PutPixels(image.Image) { r.ops = append(r.ops, "put") }
func (r *recordingSurface) DrawImage(image.Image) { r.ops = append(r.ops, "draw") }

func (r *recordingSurface) Composite(_ surface.Surface, op surface.CompositeOp) {
	r.ops = append(r.ops, "composite:"+op.String())
	r.composites = append(r.composites, op)
}

func (r *recordingSurface) ApplyOpacity(a float64) {
	r.ops = append(r.ops, fmt.Sprintf("opacity:%g", a))
	r.opacity = append(r.opacity, a)
}

func (r *recordingSurface) NewOffscreen() (surface.Surface, error) {
	if r.offscreenErr != nil {
		return nil, r.offscreenErr
	}
	o := newRecorder(r.w, r.h)
	r.offscreens = append(r.offscreens, o)
	return o, nil
}

func (r *recordingSurface) Snapshot() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, r.w, r.h))
}

func (r *recordingSurface) Close() error {
	if r.closed {
		return errors.New("closed twice")
	}
	r.closed = true
	return nil
}

// count returns how many recorded ops equal op.
func (r *recordingSurface) count(op string) int {
	n := 0
	for _, o := range r.ops {
		if o == op {
			n++
		}
	}
	return n
}

func (r *recordingSurface) reset() {
	r.ops = nil
	r.fills = nil
	r.opacity = nil
	r.composites = nil
}

// scriptedRand replays values in order and cycles when exhausted.
type scriptedRand struct {
	values []float64
	n      int
}

func (s *scriptedRand) Float64() float64 {
	v := s.values[s.n%len(s.values)]
	s.n++
	return v
}

// harness bundles an engine with deterministic time.
type harness struct {
	e     *Engine
	s     *recordingSurface
	clock *frame.ManualClock
	sched *frame.Manual
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		s:     newRecorder(200, 240),
		clock: frame.NewManualClock(epoch),
		sched: frame.NewManual(),
	}
	base := []Option{
		WithClock(h.clock),
		WithScheduler(h.sched),
		WithRand(&scriptedRand{values: []float64{0}}),
	}
	e, err := New(h.s, append(base, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	h.e = e
	return h
}

// step advances the clock by d and runs one frame.
func (h *harness) step(d time.Duration) int {
	return h.sched.Step(h.clock.Advance(d))
}

func ptr[T any](v T) *T { return &v }
