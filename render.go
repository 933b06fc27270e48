package barrage

import (
	"image/color"
	"slices"
	"time"

	"github.com/gogpu/barrage/surface"
)

// shadowColor is the fixed text shadow color.
var shadowColor = color.Black

// TranslateX returns the base horizontal translation at progress.
func TranslateX(speed float64, progress time.Duration) float64 {
	return speed * float64(progress) / float64(time.Second)
}

// Visible reports whether any part of it intersects a viewport of the given
// width after translating by translateX. The right edge is open.
func Visible(it Item, translateX, viewportWidth float64) bool {
	x := it.X(translateX)
	return x+it.Width >= 0 && x < viewportWidth
}

// RenderFrame renders the current progress immediately, whatever the
// playback state.
func (e *Engine) RenderFrame() {
	e.render()
}

func (e *Engine) render() {
	if e.closed {
		return
	}
	s := e.surface
	tx := TranslateX(e.cfg.Speed, e.Progress())

	s.Clear()
	visible := e.visibleItems(tx)
	slices.SortStableFunc(visible, func(a, b Item) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	if e.before != nil {
		e.before(s)
	}

	target := s
	if e.mask.IsSet() {
		if off := e.offscreenSurface(); off != nil {
			e.drawMask(s)
			off.Clear()
			target = off
		}
	}

	for _, d := range visible {
		target.FillText(d.Text, d.X(tx), d.Top, e.textStyle(d))
	}

	if target != s {
		// Text survives only where the mask painted opaque pixels.
		s.Composite(target, surface.CompositeSourceIn)
	}
	s.ApplyOpacity(e.cfg.Opacity)

	if e.after != nil {
		e.after(s)
	}
}

func (e *Engine) visibleItems(tx float64) []Item {
	var out []Item
	for _, d := range e.items {
		if Visible(d, tx, e.view.Width) {
			out = append(out, d)
		}
	}
	return out
}

func (e *Engine) textStyle(d Item) surface.TextStyle {
	return surface.TextStyle{
		Font:  d.Font(),
		Color: e.itemColor(d.Color),
		Shadow: surface.Shadow{
			Color: shadowColor,
			Blur:  e.cfg.TextShadowBlur * d.FontSize,
		},
	}
}

// itemColor resolves a color string, falling back to Config.DefaultColor
// and then white.
func (e *Engine) itemColor(s string) color.Color {
	return e.colors.GetOrCreate(s, func() color.Color {
		if c, err := ParseColor(s); err == nil {
			return c
		}
		c, err := ParseColor(e.cfg.DefaultColor)
		if err != nil {
			c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		}
		slogger().Debug("barrage: color fallback", "color", s, "using", c)
		return c
	})
}

func (e *Engine) drawMask(s surface.Surface) {
	switch e.mask.Kind() {
	case MaskData:
		s.PutPixels(e.mask.Image())
	case MaskImage:
		s.DrawImage(e.mask.Image())
	}
}

// offscreenSurface returns the compositing surface, creating it on first
// use. It returns nil if the backend cannot create one.
func (e *Engine) offscreenSurface() surface.Surface {
	if e.offscreen != nil || e.offscreenFailed {
		return e.offscreen
	}
	off, err := e.surface.NewOffscreen()
	if err != nil {
		e.offscreenFailed = true
		slogger().Warn("barrage: no offscreen surface, mask disabled", "err", err)
		return nil
	}
	e.offscreen = off
	return off
}
