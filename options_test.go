package barrage

import (
	"context"
	"image"
	"testing"

	"github.com/gogpu/barrage/frame"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if _, ok := o.clock.(frame.SystemClock); !ok {
		t.Errorf("clock = %T, want frame.SystemClock", o.clock)
	}
	if _, ok := o.loader.(DefaultLoader); !ok {
		t.Errorf("loader = %T, want DefaultLoader", o.loader)
	}
	if o.scheduler != nil || o.rng != nil || o.overlap {
		t.Error("scheduler, rng and overlap should be unset")
	}
}

func TestOptionsApply(t *testing.T) {
	clock := frame.NewManualClock(epoch)
	sched := frame.NewManual()
	rng := &scriptedRand{values: []float64{0.5}}
	loader := ImageLoaderFunc(func(context.Context, string) (image.Image, error) { return nil, nil })
	mask, _ := MaskFromImage(image.NewGray(image.Rect(0, 0, 1, 1)))
	items := []RawItem{{Text: "a"}}

	o := defaultOptions()
	for _, opt := range []Option{
		WithItems(items),
		WithConfig(ConfigPatch{Speed: ptr(5.0)}),
		WithConfigValues(map[string]any{"opacity": 0.5}),
		WithOverlapOptimization(true),
		WithMask(mask),
		WithMaskSource("mask.png"),
		WithScheduler(sched),
		WithClock(clock),
		WithRand(rng),
		WithImageLoader(loader),
	} {
		opt(&o)
	}

	if len(o.items) != 1 || *o.patch.Speed != 5 || o.values["opacity"] != 0.5 {
		t.Errorf("items/config not applied: %+v", o)
	}
	if !o.overlap || o.mask != mask || o.maskSource != "mask.png" {
		t.Error("overlap/mask options not applied")
	}
	if o.scheduler != sched || o.clock != clock || o.rng != rng {
		t.Error("scheduler/clock/rng options not applied")
	}
	if o.loader == nil {
		t.Error("loader not applied")
	}
}

func TestNilOptionsKeepDefaults(t *testing.T) {
	o := defaultOptions()
	WithClock(nil)(&o)
	WithImageLoader(nil)(&o)
	if o.clock == nil || o.loader == nil {
		t.Error("nil clock or loader replaced the default")
	}
}

func TestNewRandRange(t *testing.T) {
	r := newRand()
	for range 100 {
		if v := r.Float64(); v < 0 || v >= 1 {
			t.Fatalf("Float64() = %v, want [0, 1)", v)
		}
	}
}
