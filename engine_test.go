package barrage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/barrage/frame"
	"github.com/gogpu/barrage/surface"
)

func TestNewNilSurface(t *testing.T) {
	e, err := New(nil)
	if !errors.Is(err, ErrNilSurface) {
		t.Errorf("New(nil) error = %v, want ErrNilSurface", err)
	}
	if e != nil {
		t.Error("New(nil) returned an engine")
	}
}

func TestNewRendersInitialFrame(t *testing.T) {
	h := newHarness(t, WithItems([]RawItem{{Time: -1000, Text: "a"}}))
	if n := h.s.count("clear"); n != 1 {
		t.Errorf("initial frames = %d, want 1", n)
	}
	if len(h.s.fills) != 1 {
		t.Errorf("initial fills = %d, want 1", len(h.s.fills))
	}
	if h.e.State() != Idle {
		t.Errorf("State() = %v, want Idle", h.e.State())
	}
	if n := h.sched.Pending(); n != 0 {
		t.Errorf("Pending() = %d, want 0", n)
	}
	if got := h.e.Viewport(); got != (Viewport{Width: 200, Height: 240}) {
		t.Errorf("Viewport() = %v, want 200x240", got)
	}
}

func TestOpen(t *testing.T) {
	e, err := Open("image", surface.Options{Width: 64, Height: 48},
		WithScheduler(frame.NewManual()))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, ok := e.Surface().(*surface.ImageSurface); !ok {
		t.Errorf("Surface() = %T, want *surface.ImageSurface", e.Surface())
	}
	if err := e.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if e.Surface().Snapshot() != nil {
		t.Error("owned surface not closed")
	}
}

func TestOpenErrors(t *testing.T) {
	_, err := Open("nope", surface.Options{Width: 10, Height: 10})
	var nf *surface.BackendNotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("Open(nope) error = %v, want BackendNotFoundError", err)
	}

	_, err = Open("image", surface.Options{})
	if !errors.Is(err, surface.ErrInvalidSize) {
		t.Errorf("Open(image, 0x0) error = %v, want ErrInvalidSize", err)
	}
}

func TestSetDataScenario(t *testing.T) {
	h := newHarness(t)
	h.e.SetData([]RawItem{{Time: 0, Text: "a"}, {Time: 1000, Text: "b"}})

	items := h.e.Items()
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[1].Left != items[0].Left+100 {
		t.Errorf("b.Left = %v, want a.Left+100 = %v", items[1].Left, items[0].Left+100)
	}
}

func TestSetDataReplaces(t *testing.T) {
	h := newHarness(t, WithItems([]RawItem{{Text: "a"}, {Text: "b"}}))
	h.e.SetData([]RawItem{{Text: "c"}})
	items := h.e.Items()
	if len(items) != 1 || items[0].Text != "c" {
		t.Errorf("items = %+v, want only c", items)
	}

	h.e.SetData(nil)
	if n := len(h.e.Items()); n != 0 {
		t.Errorf("items after SetData(nil) = %d, want 0", n)
	}
}

func TestSetDataResolvesOverlap(t *testing.T) {
	// Both items draw row 0 and ratio 1.5; the resolver then draws row 4.
	rng := &scriptedRand{values: []float64{0, 0.5, 0, 0.5, 0.9}}
	h := newHarness(t, WithRand(rng), WithOverlapOptimization(true))
	rng.n = 0

	h.e.SetData([]RawItem{{Time: 0, Text: "same"}, {Time: 0, Text: "same"}})
	items := h.e.Items()
	if items[0].Top == items[1].Top {
		t.Fatalf("tops = %v, %v, want the resolver to separate them", items[0].Top, items[1].Top)
	}
	if items[1].Top != RowTop(4, 24) {
		t.Errorf("b.Top = %v, want %v", items[1].Top, RowTop(4, 24))
	}
	if rng.n != 5 {
		t.Errorf("random draws = %d, want 5", rng.n)
	}
}

func TestSetDataWithoutOverlapOptimization(t *testing.T) {
	h := newHarness(t)
	h.e.SetData([]RawItem{{Time: 0, Text: "same"}, {Time: 0, Text: "same"}})
	items := h.e.Items()
	if items[0].Top != items[1].Top {
		t.Errorf("tops = %v, %v, want untouched collision", items[0].Top, items[1].Top)
	}
}

func TestAddSkipsResolver(t *testing.T) {
	h := newHarness(t, WithOverlapOptimization(true), WithItems([]RawItem{{Time: 0, Text: "same"}}))
	h.e.Add(RawItem{Time: 0, Text: "same"})

	items := h.e.Items()
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].Top != items[1].Top {
		t.Errorf("tops = %v, %v, want Add to leave the collision", items[0].Top, items[1].Top)
	}
}

func TestItemsIsCopy(t *testing.T) {
	h := newHarness(t, WithItems([]RawItem{{Text: "a"}}))
	items := h.e.Items()
	items[0].Top = -1
	if h.e.Items()[0].Top == -1 {
		t.Error("Items() exposed internal state")
	}
}

func TestSetConfig(t *testing.T) {
	h := newHarness(t, WithItems([]RawItem{{Time: 1000, Text: "a"}}))
	before := h.e.Items()[0].Left

	h.e.SetConfig(ConfigPatch{Speed: ptr(300.0)})
	if got := h.e.Config().Speed; got != 300 {
		t.Errorf("Speed = %v, want 300", got)
	}
	if got := h.e.Items()[0].Left; got != before {
		t.Errorf("Left = %v, want unchanged %v", got, before)
	}

	h.e.Add(RawItem{Time: 1000, Text: "b"})
	if got := h.e.Items()[1].Left; got != 500 {
		t.Errorf("new item Left = %v, want 500", got)
	}
}

func TestSetConfigValues(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	h := newHarness(t)
	h.e.SetConfigValues(map[string]any{"opacity": 0.25, "bogus": 1})

	want := DefaultConfig()
	want.Opacity = 0.25
	if got := h.e.Config(); got != want {
		t.Errorf("Config() = %+v, want %+v", got, want)
	}
	if !strings.Contains(buf.String(), "bogus") {
		t.Errorf("log = %q, want the ignored key", buf.String())
	}
}

func TestWithConfigValues(t *testing.T) {
	h := newHarness(t,
		WithConfig(ConfigPatch{Speed: ptr(50.0), FontSize: ptr(10.0)}),
		WithConfigValues(map[string]any{"speed": 70}),
	)
	if got := h.e.Config(); got.Speed != 70 || got.FontSize != 10 {
		t.Errorf("Speed, FontSize = %v, %v, want 70, 10", got.Speed, got.FontSize)
	}
}

func TestSetMaskSourceAsync(t *testing.T) {
	want := image.NewGray(image.Rect(0, 0, 8, 8))
	release := make(chan struct{})
	loader := ImageLoaderFunc(func(_ context.Context, src string) (image.Image, error) {
		<-release
		if src != "mask.png" {
			return nil, errors.New("unexpected source")
		}
		return want, nil
	})
	h := newHarness(t, WithImageLoader(loader))

	h.e.SetMaskSource(context.Background(), "mask.png")
	if h.e.Mask().IsSet() {
		t.Fatal("mask set before the load finished")
	}
	close(release)

	waitFor(t, h.sched, func() bool { return h.e.Mask().IsSet() })
	if m := h.e.Mask(); m.Kind() != MaskImage || m.Image() != want {
		t.Errorf("Mask() = %v %v, want loaded image", m.Kind(), m.Image())
	}
}

func TestSetMaskSourceFailureKeepsMask(t *testing.T) {
	prev, _ := MaskFromImage(image.NewGray(image.Rect(0, 0, 2, 2)))
	done := make(chan struct{})
	loader := ImageLoaderFunc(func(context.Context, string) (image.Image, error) {
		defer close(done)
		return nil, errors.New("boom")
	})
	h := newHarness(t, WithMask(prev), WithImageLoader(loader))

	h.e.SetMaskSource(context.Background(), "x")
	<-done
	flushFor(h.sched, 50*time.Millisecond)

	if h.e.Mask() != prev {
		t.Errorf("Mask() changed after failed load")
	}
}

func TestSetMaskSupersedesLoad(t *testing.T) {
	release := make(chan struct{})
	loaded := make(chan struct{})
	loader := ImageLoaderFunc(func(context.Context, string) (image.Image, error) {
		<-release
		defer close(loaded)
		return image.NewGray(image.Rect(0, 0, 2, 2)), nil
	})
	h := newHarness(t, WithImageLoader(loader))

	h.e.SetMaskSource(context.Background(), "x")
	h.e.SetMask(Mask{})
	close(release)
	<-loaded
	flushFor(h.sched, 50*time.Millisecond)
	if h.e.Mask().IsSet() {
		t.Error("stale load replaced a newer SetMask")
	}
}

func TestSetMaskSourceEmpty(t *testing.T) {
	called := false
	h := newHarness(t, WithImageLoader(ImageLoaderFunc(func(context.Context, string) (image.Image, error) {
		called = true
		return nil, nil
	})))
	h.e.SetMaskSource(context.Background(), "")
	if called || h.e.Mask().IsSet() {
		t.Error("empty source should be ignored")
	}
}

// syncScheduler schedules frames but cannot post work.
type syncScheduler struct{ m *frame.Manual }

func (s syncScheduler) Schedule(cb frame.Callback) frame.Handle { return s.m.Schedule(cb) }
func (s syncScheduler) Cancel(h frame.Handle)                   { s.m.Cancel(h) }

func TestSetMaskSourceSync(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	e, err := New(newRecorder(10, 10),
		WithScheduler(syncScheduler{m: frame.NewManual()}),
		WithImageLoader(ImageLoaderFunc(func(context.Context, string) (image.Image, error) {
			return img, nil
		})))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	e.SetMaskSource(context.Background(), "x")
	if e.Mask().Image() != img {
		t.Error("synchronous load did not set the mask")
	}
	if err := e.Run(context.Background()); !errors.Is(err, ErrNotRunnable) {
		t.Errorf("Run() error = %v, want ErrNotRunnable", err)
	}
}

func TestRunDefaultLoop(t *testing.T) {
	e, err := New(newRecorder(10, 10), WithItems([]RawItem{{Text: "a"}}))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := e.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want DeadlineExceeded", err)
	}
}

func TestClose(t *testing.T) {
	m, _ := MaskFromImage(image.NewGray(image.Rect(0, 0, 2, 2)))
	h := newHarness(t, WithMask(m))
	h.e.Play()

	if err := h.e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := h.e.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if n := h.sched.Pending(); n != 0 {
		t.Errorf("Pending() after Close = %d, want 0", n)
	}
	if !h.s.offscreens[0].closed {
		t.Error("offscreen not closed")
	}
	if h.s.closed {
		t.Error("caller's surface closed")
	}

	h.s.reset()
	h.e.Play()
	h.e.Seek(time.Second)
	h.e.RenderFrame()
	if len(h.s.ops) != 0 || h.sched.Pending() != 0 {
		t.Errorf("closed engine still active: ops %v, pending %d", h.s.ops, h.sched.Pending())
	}
	if err := h.e.Run(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Run() error = %v, want ErrClosed", err)
	}
}

// waitFor flushes posted work until cond holds or a second passes.
func waitFor(t *testing.T, m *frame.Manual, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		m.Flush()
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met")
}

// flushFor keeps flushing posted work for d.
func flushFor(m *frame.Manual, d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		m.Flush()
		time.Sleep(time.Millisecond)
	}
}
