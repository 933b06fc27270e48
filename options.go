package barrage

import (
	"math/rand/v2"

	"github.com/gogpu/barrage/frame"
	"github.com/gogpu/barrage/surface"
)

// Hook runs around the draw pass with the primary surface.
type Hook func(s surface.Surface)

// Option configures an Engine during creation.
//
// Example:
//
//	e, err := barrage.New(s,
//	    barrage.WithConfig(barrage.ConfigPatch{Speed: &speed}),
//	    barrage.WithItems(items),
//	    barrage.WithOverlapOptimization(true),
//	)
type Option func(*options)

// options holds optional configuration for Engine creation.
type options struct {
	items      []RawItem
	patch      ConfigPatch
	values     map[string]any
	overlap    bool
	mask       Mask
	maskSource string
	before     Hook
	after      Hook
	scheduler  frame.Scheduler
	clock      frame.Clock
	rng        Rand
	loader     ImageLoader
}

// defaultOptions returns the default engine options.
func defaultOptions() options {
	return options{
		clock:  frame.SystemClock{},
		loader: DefaultLoader{},
	}
}

// WithItems sets the initial items, committed as by SetData.
func WithItems(items []RawItem) Option {
	return func(o *options) {
		o.items = items
	}
}

// WithConfig overrides parts of DefaultConfig.
func WithConfig(p ConfigPatch) Option {
	return func(o *options) {
		o.patch = p
	}
}

// WithConfigValues overrides DefaultConfig from a key/value map, after any
// WithConfig patch. Unknown keys are ignored.
func WithConfigValues(values map[string]any) Option {
	return func(o *options) {
		o.values = values
	}
}

// WithOverlapOptimization enables the overlap resolver on SetData.
func WithOverlapOptimization(enabled bool) Option {
	return func(o *options) {
		o.overlap = enabled
	}
}

// WithMask sets the initial mask.
func WithMask(m Mask) Option {
	return func(o *options) {
		o.mask = m
	}
}

// WithMaskSource loads the initial mask asynchronously, as SetMaskSource.
func WithMaskSource(src string) Option {
	return func(o *options) {
		o.maskSource = src
	}
}

// WithBeforeRender sets a hook that runs after the visible items are
// selected and before they are drawn.
func WithBeforeRender(h Hook) Option {
	return func(o *options) {
		o.before = h
	}
}

// WithAfterRender sets a hook that runs after the frame is complete.
func WithAfterRender(h Hook) Option {
	return func(o *options) {
		o.after = h
	}
}

// WithScheduler sets the frame scheduler. The default is a frame.Loop at
// frame.DefaultInterval, driven by Engine.Run.
//
// When the scheduler also implements frame.Poster, asynchronous mask loads
// are handed back through it.
func WithScheduler(s frame.Scheduler) Option {
	return func(o *options) {
		o.scheduler = s
	}
}

// WithClock sets the clock playback time is read from.
func WithClock(c frame.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithRand sets the random source for rows and speed ratios.
//
// Example:
//
//	barrage.WithRand(rand.New(rand.NewPCG(1, 2)))
func WithRand(r Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}

// WithImageLoader sets the loader used by SetMaskSource.
func WithImageLoader(l ImageLoader) Option {
	return func(o *options) {
		if l != nil {
			o.loader = l
		}
	}
}

// newRand returns a randomly seeded source.
func newRand() Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
