package barrage

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"slices"
	"time"

	"github.com/gogpu/barrage/frame"
	"github.com/gogpu/barrage/internal/cache"
	"github.com/gogpu/barrage/surface"
)

// colorCacheSize bounds the parsed color cache.
const colorCacheSize = 256

// Engine lays out, schedules and renders captions on a surface.
//
// Engine is not safe for concurrent use; see the package documentation.
type Engine struct {
	surface     surface.Surface
	ownsSurface bool
	view        Viewport

	cfg     Config
	items   []Item
	overlap bool
	rng     Rand
	colors  *cache.Cache[string, color.Color]

	mask    Mask
	maskGen uint64
	loader  ImageLoader

	offscreen       surface.Surface
	offscreenFailed bool

	before Hook
	after  Hook

	sched  frame.Scheduler
	poster frame.Poster
	clock  frame.Clock
	loop   frameLoop

	startTime time.Time
	started   bool
	pausedAt  time.Duration
	paused    bool

	closed bool
}

// New creates an engine rendering to s, commits the initial items and
// renders the first frame. Playback starts with Play.
func New(s surface.Surface, opts ...Option) (*Engine, error) {
	if s == nil {
		return nil, ErrNilSurface
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.scheduler == nil {
		o.scheduler = frame.NewLoop(frame.DefaultInterval)
	}
	if o.rng == nil {
		o.rng = newRand()
	}

	cfg := DefaultConfig().Apply(o.patch)
	if o.values != nil {
		p, ignored := PatchFromValues(o.values)
		cfg = cfg.Apply(p)
		logIgnoredKeys(ignored)
	}

	e := &Engine{
		surface: s,
		view:    Viewport{Width: float64(s.Width()), Height: float64(s.Height())},
		cfg:     cfg,
		overlap: o.overlap,
		rng:     o.rng,
		colors:  cache.New[string, color.Color](colorCacheSize),
		loader:  o.loader,
		before:  o.before,
		after:   o.after,
		sched:   o.scheduler,
		clock:   o.clock,
	}
	e.poster, _ = o.scheduler.(frame.Poster)
	e.loop = frameLoop{
		sched: o.scheduler,
		frame: func(time.Time) { e.render() },
	}

	if o.mask.IsSet() {
		e.SetMask(o.mask)
	}
	if o.maskSource != "" {
		e.SetMaskSource(context.Background(), o.maskSource)
	}

	e.SetData(o.items)
	e.render()

	slogger().Debug("barrage: engine created",
		"width", e.view.Width, "height", e.view.Height,
		"items", len(e.items), "overlap", e.overlap)
	return e, nil
}

// Open creates a surface through the surface registry and an engine that
// owns it. An empty backend selects the best available one.
func Open(backend string, so surface.Options, opts ...Option) (*Engine, error) {
	var (
		s   surface.Surface
		err error
	)
	if backend == "" {
		s, err = surface.NewSurface(so)
	} else {
		s, err = surface.NewSurfaceByName(backend, so)
	}
	if err != nil {
		return nil, fmt.Errorf("barrage: acquire surface: %w", err)
	}

	e, err := New(s, opts...)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	e.ownsSurface = true
	return e, nil
}

func logIgnoredKeys(keys []string) {
	for _, k := range keys {
		slogger().Debug("barrage: config key ignored", "key", k)
	}
}

// SetConfig merges p into the configuration. Items already laid out keep
// their positions.
func (e *Engine) SetConfig(p ConfigPatch) {
	e.cfg = e.cfg.Apply(p)
	e.colors.Clear()
}

// SetConfigValues merges recognized keys of values into the configuration
// and ignores the rest. See PatchFromValues for the accepted forms.
func (e *Engine) SetConfigValues(values map[string]any) {
	p, ignored := PatchFromValues(values)
	logIgnoredKeys(ignored)
	e.SetConfig(p)
}

// Config returns the current configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// SetData replaces all items with the layout of raw. When overlap
// optimization is enabled the resolver runs once over the new set.
func (e *Engine) SetData(raw []RawItem) {
	now := e.clock.Now()
	items := make([]Item, len(raw))
	for i, r := range raw {
		items[i] = Layout(r, e.surface, e.cfg, e.view, e.rng, now)
	}

	moved := 0
	if e.overlap {
		moved = Resolve(items, e.cfg.FontSize, e.pickRow)
	}
	e.items = items
	slogger().Debug("barrage: data committed", "items", len(items), "reassigned", moved)
}

// Add lays out raw and appends it. The overlap resolver does not run.
func (e *Engine) Add(raw RawItem) {
	e.items = append(e.items, Layout(raw, e.surface, e.cfg, e.view, e.rng, e.clock.Now()))
}

// Items returns a copy of the committed items.
func (e *Engine) Items() []Item {
	return slices.Clone(e.items)
}

func (e *Engine) pickRow() float64 {
	return randomRowTop(e.rng, e.view.Height, e.cfg.FontSize)
}

// SetMask replaces the mask. The zero Mask disables masking. A pending
// SetMaskSource load is superseded.
func (e *Engine) SetMask(m Mask) {
	e.maskGen++
	e.mask = m
}

// Mask returns the current mask.
func (e *Engine) Mask() Mask {
	return e.mask
}

// SetMaskSource loads an image mask from src with the engine's ImageLoader.
//
// When the scheduler implements frame.Poster the load runs on its own
// goroutine and the mask is applied on the scheduler's goroutine; otherwise
// it loads synchronously. On failure the mask is left unchanged. A later
// SetMask or SetMaskSource supersedes the load.
func (e *Engine) SetMaskSource(ctx context.Context, src string) {
	if e.closed {
		return
	}
	if src == "" {
		slogger().Warn("barrage: empty mask source ignored")
		return
	}

	e.maskGen++
	gen := e.maskGen
	loader := e.loader

	if e.poster == nil {
		img, err := loader.LoadImage(ctx, src)
		e.applyLoadedMask(gen, src, img, err)
		return
	}

	poster := e.poster
	go func() {
		img, err := loader.LoadImage(ctx, src)
		poster.Post(func() { e.applyLoadedMask(gen, src, img, err) })
	}()
}

func (e *Engine) applyLoadedMask(gen uint64, src string, img image.Image, err error) {
	if e.closed || gen != e.maskGen {
		slogger().Debug("barrage: stale mask load dropped", "src", src)
		return
	}
	if err != nil {
		slogger().Warn("barrage: mask load failed", "src", src, "err", err)
		return
	}
	m, err := MaskFromImage(img)
	if err != nil {
		slogger().Warn("barrage: mask unusable", "src", src, "err", err)
		return
	}
	e.mask = m
	slogger().Info("barrage: mask loaded", "src", src, "bounds", img.Bounds())
}

// Surface returns the primary surface.
func (e *Engine) Surface() surface.Surface {
	return e.surface
}

// Viewport returns the size items are laid out in.
func (e *Engine) Viewport() Viewport {
	return e.view
}

// Run drives the engine's scheduler until ctx is done, when the scheduler
// has a run loop (the default frame.Loop does).
func (e *Engine) Run(ctx context.Context) error {
	if e.closed {
		return ErrClosed
	}
	r, ok := e.sched.(interface {
		Run(ctx context.Context) error
	})
	if !ok {
		return ErrNotRunnable
	}
	return r.Run(ctx)
}

// Close stops playback and releases the offscreen surface, and the primary
// surface when the engine created it. Close is idempotent.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.loop.stop()
	e.closed = true
	e.maskGen++

	var errs []error
	if e.offscreen != nil {
		errs = append(errs, e.offscreen.Close())
		e.offscreen = nil
	}
	if e.ownsSurface {
		errs = append(errs, e.surface.Close())
	}
	return errors.Join(errs...)
}
