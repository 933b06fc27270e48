package text

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/barrage/internal/cache"
)

// Metrics holds the vertical metrics of a face in pixels.
type Metrics struct {
	Ascent  float64
	Descent float64
	Height  float64 // recommended line height
}

// Face is a FontSource at a specific pixel size.
//
// A Face is not safe for concurrent use: the underlying x/image face keeps
// per-glyph scratch state. Faces from a Library are shared, so callers on
// different goroutines need their own Library.
type Face struct {
	source  *FontSource
	size    float64
	face    font.Face
	ascent  fixed.Int26_6
	metrics Metrics

	widths *cache.Cache[string, float64]
}

// NewFace creates a face for src at size pixels (72 DPI, so 1pt = 1px).
func NewFace(src *FontSource, size float64) (*Face, error) {
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, size)
	}

	ot, err := opentype.NewFace(src.raster, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("text: failed to create face: %w", err)
	}

	m := ot.Metrics()
	return &Face{
		source: src,
		size:   size,
		face:   ot,
		ascent: m.Ascent,
		metrics: Metrics{
			Ascent:  fixedToFloat(m.Ascent),
			Descent: fixedToFloat(m.Descent),
			Height:  fixedToFloat(m.Height),
		},
		widths: cache.New[string, float64](1024),
	}, nil
}

// Size returns the face size in pixels.
func (f *Face) Size() float64 { return f.size }

// Source returns the font source of the face.
func (f *Face) Source() *FontSource { return f.source }

// Metrics returns the vertical metrics of the face.
func (f *Face) Metrics() Metrics { return f.metrics }

// Coverage is rasterized glyph coverage for a string.
// Origin is the position of Mask's top-left corner relative to the
// top-left corner of the text box (top baseline), so it is negative when
// the mask carries a margin.
type Coverage struct {
	Mask   *image.Alpha
	Origin image.Point
}

// glyphMargin is extra room around the text box for glyph overhang.
const glyphMargin = 2

// Rasterize renders s into an alpha mask with pad extra pixels on every
// side. The text box top is at Origin.Y = -(pad+glyphMargin).
func (f *Face) Rasterize(s string, pad int) Coverage {
	if pad < 0 {
		pad = 0
	}
	margin := pad + glyphMargin

	adv := font.MeasureString(f.face, s)
	w := adv.Ceil() + 2*margin
	h := int(math.Ceil(f.metrics.Ascent+f.metrics.Descent)) + 2*margin

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: f.face,
		Dot:  fixed.Point26_6{X: fixed.I(margin), Y: fixed.I(margin) + f.ascent},
	}
	d.DrawString(s)

	return Coverage{Mask: mask, Origin: image.Pt(-margin, -margin)}
}

// Close releases the underlying face.
func (f *Face) Close() error {
	return f.face.Close()
}

// fixedToFloat converts fixed.Int26_6 to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}

// floatToFixed converts a float64 size to fixed.Int26_6.
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

type faceKey struct {
	source *FontSource
	size   float64
}

// faceCache shares faces per (source, size).
type faceCache struct {
	faces *cache.Cache[faceKey, *Face]
}

func newFaceCache() *faceCache {
	return &faceCache{faces: cache.New[faceKey, *Face](256)}
}

func (c *faceCache) get(src *FontSource, size float64) (*Face, error) {
	key := faceKey{source: src, size: size}
	if f, ok := c.faces.Get(key); ok {
		return f, nil
	}
	f, err := NewFace(src, size)
	if err != nil {
		return nil, err
	}
	c.faces.Set(key, f)
	return f, nil
}
