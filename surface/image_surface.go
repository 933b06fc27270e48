// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/barrage/internal/blend"
	"github.com/gogpu/barrage/internal/filter"
	"github.com/gogpu/barrage/text"
)

// ImageSurface is a CPU-based surface that renders to an *image.RGBA.
//
// Text is rasterized with golang.org/x/image/font/opentype, shadows are a
// Gaussian blur of the glyph coverage, and compositing works directly on
// the premultiplied pixel buffer.
//
// Example:
//
//	s := surface.NewImageSurface(640, 360)
//	defer s.Close()
//
//	s.FillText("hello", 10, 10, surface.TextStyle{
//	    Font:  surface.Font{Size: 24, Family: "sans-serif"},
//	    Color: color.White,
//	})
//	img := s.Snapshot()
type ImageSurface struct {
	width  int
	height int
	img    *image.RGBA
	lib    *text.Library

	// closed tracks if Close has been called
	closed bool
}

// NewImageSurface creates a new CPU-based surface with the given dimensions.
// Non-positive dimensions are clamped to 1.
func NewImageSurface(width, height int) *ImageSurface {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	return &ImageSurface{
		width:  width,
		height: height,
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		lib:    text.DefaultLibrary(),
	}
}

// SetLibrary sets the font library used to resolve families.
// Nil restores text.DefaultLibrary().
func (s *ImageSurface) SetLibrary(lib *text.Library) {
	if lib == nil {
		lib = text.DefaultLibrary()
	}
	s.lib = lib
}

// Width returns the surface width.
func (s *ImageSurface) Width() int {
	return s.width
}

// Height returns the surface height.
func (s *ImageSurface) Height() int {
	return s.height
}

// Clear resets every pixel to transparent.
func (s *ImageSurface) Clear() {
	if s.closed {
		return
	}
	clear(s.img.Pix)
}

// MeasureText returns the shaped advance width of str.
func (s *ImageSurface) MeasureText(str string, font Font) float64 {
	face, err := s.lib.Face(font.Family, font.Size)
	if err != nil {
		slogger().Debug("surface: measure without face", "font", font.String(), "err", err)
		return 0
	}
	return text.Measure(str, face)
}

// FillText draws str with its top-left corner at (x, y).
// The shadow, when visible, is painted first and underneath the glyphs.
func (s *ImageSurface) FillText(str string, x, y float64, style TextStyle) {
	if s.closed || str == "" || math.IsNaN(x) || math.IsNaN(y) {
		return
	}

	face, err := s.lib.Face(style.Font.Family, style.Font.Size)
	if err != nil {
		slogger().Debug("surface: fill without face", "font", style.Font.String(), "err", err)
		return
	}

	var sigma float64
	pad := 0
	if style.Shadow.visible() {
		sigma = filter.ShadowSigma(style.Shadow.Blur)
		pad = filter.Padding(sigma)
	}

	cov := face.Rasterize(str, pad)
	at := image.Pt(int(math.Round(x)), int(math.Round(y))).Add(cov.Origin)
	r := cov.Mask.Bounds().Add(at)
	if !r.Overlaps(s.img.Bounds()) {
		return
	}

	if pad > 0 {
		shadow := filter.BlurAlpha(cov.Mask, sigma)
		xdraw.DrawMask(s.img, r, image.NewUniform(style.Shadow.Color), image.Point{}, shadow, image.Point{}, xdraw.Over)
	}

	fill := style.Color
	if fill == nil {
		fill = color.Black
	}
	xdraw.DrawMask(s.img, r, image.NewUniform(fill), image.Point{}, cov.Mask, image.Point{}, xdraw.Over)
}

// PutPixels copies img unscaled to the origin, replacing what is there.
func (s *ImageSurface) PutPixels(img image.Image) {
	if s.closed || img == nil {
		return
	}
	b := img.Bounds()
	xdraw.Draw(s.img, b.Sub(b.Min), img, b.Min, xdraw.Src)
}

// DrawImage draws img scaled to the full surface.
func (s *ImageSurface) DrawImage(img image.Image) {
	if s.closed || img == nil || img.Bounds().Empty() {
		return
	}
	xdraw.ApproxBiLinear.Scale(s.img, s.img.Bounds(), img, img.Bounds(), xdraw.Over, nil)
}

// Composite combines src onto s. src must be an *ImageSurface of the
// same dimensions.
func (s *ImageSurface) Composite(src Surface, op CompositeOp) {
	if s.closed {
		return
	}
	o, ok := src.(*ImageSurface)
	if !ok || o.closed || o.width != s.width || o.height != s.height {
		slogger().Warn("surface: composite source rejected", "op", op.String())
		return
	}
	blend.Span(s.img.Pix, o.img.Pix, blendMode(op))
}

// ApplyOpacity multiplies every pixel by alpha.
func (s *ImageSurface) ApplyOpacity(alpha float64) {
	if s.closed || math.IsNaN(alpha) || alpha >= 1 {
		return
	}
	if alpha <= 0 {
		clear(s.img.Pix)
		return
	}
	blend.Scale(s.img.Pix, uint8(alpha*255+0.5))
}

// NewOffscreen creates a blank ImageSurface with the same size and fonts.
func (s *ImageSurface) NewOffscreen() (Surface, error) {
	if s.closed {
		return nil, ErrSurfaceClosed
	}
	o := NewImageSurface(s.width, s.height)
	o.lib = s.lib
	return o, nil
}

// Snapshot returns a copy of the current surface contents.
func (s *ImageSurface) Snapshot() *image.RGBA {
	if s.closed {
		return nil
	}

	result := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	copy(result.Pix, s.img.Pix)
	return result
}

// Image returns the underlying image.RGBA.
// This is a direct reference, not a copy.
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}

// Close releases resources associated with the surface.
func (s *ImageSurface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.img = nil
	return nil
}

// blendMode maps a CompositeOp to its Porter-Duff implementation.
func blendMode(op CompositeOp) blend.Mode {
	switch op {
	case CompositeSourceIn:
		return blend.SourceIn
	case CompositeDestinationIn:
		return blend.DestinationIn
	default:
		return blend.SourceOver
	}
}
