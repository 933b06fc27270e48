// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"
	"strconv"

	"github.com/gogpu/barrage/text"
)

// Surface is the rendering target for caption frames.
//
// Coordinates are in surface pixels with the origin at the top-left.
// Text positions name the top-left corner of the text box: the baseline is
// fixed at the text's top edge, as with a canvas "top" textBaseline.
type Surface interface {
	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int

	// Clear resets every pixel to transparent.
	Clear()

	// MeasureText returns the advance width of s in the given font.
	// Identical inputs must give identical results.
	MeasureText(s string, font Font) float64

	// FillText draws s with its top-left corner at (x, y).
	FillText(s string, x, y float64, style TextStyle)

	// PutPixels replaces the pixels under img, unscaled, at the origin.
	PutPixels(img image.Image)

	// DrawImage draws img scaled to cover the whole surface.
	DrawImage(img image.Image)

	// Composite combines src onto this surface with the given operator.
	// src must come from the same backend (see NewOffscreen); otherwise
	// the call is ignored.
	Composite(src Surface, op CompositeOp)

	// ApplyOpacity multiplies the alpha of every pixel by alpha in [0, 1].
	ApplyOpacity(alpha float64)

	// NewOffscreen creates a blank surface of the same size and backend.
	NewOffscreen() (Surface, error)

	// Snapshot returns a copy of the current contents.
	Snapshot() *image.RGBA

	// Close releases all resources. Close is idempotent.
	Close() error
}

// Font selects a face by pixel size and CSS-like family list.
type Font struct {
	Size   float64
	Family string
}

// String returns the canvas font shorthand, e.g. "24px sans-serif".
func (f Font) String() string {
	return strconv.FormatFloat(f.Size, 'f', -1, 64) + "px " + f.Family
}

// Shadow is a soft text shadow without offset.
// A zero Blur or a transparent Color disables the shadow.
type Shadow struct {
	Color color.Color
	Blur  float64
}

// visible reports whether the shadow would paint anything.
func (s Shadow) visible() bool {
	if s.Color == nil || s.Blur <= 0 {
		return false
	}
	_, _, _, a := s.Color.RGBA()
	return a > 0
}

// TextStyle holds the paint state for FillText.
type TextStyle struct {
	Font   Font
	Color  color.Color
	Shadow Shadow
}

// CompositeOp selects the Porter-Duff operator used by Composite.
type CompositeOp uint8

const (
	// CompositeSourceOver draws the source over the destination.
	CompositeSourceOver CompositeOp = iota

	// CompositeSourceIn keeps the source only where the destination is
	// opaque. This is the mask operator: the mask is the destination and the
	// caption layer is the source.
	CompositeSourceIn

	// CompositeDestinationIn keeps the destination only where the source is
	// opaque.
	CompositeDestinationIn
)

// String returns the canvas globalCompositeOperation name.
func (op CompositeOp) String() string {
	switch op {
	case CompositeSourceOver:
		return "source-over"
	case CompositeSourceIn:
		return "source-in"
	case CompositeDestinationIn:
		return "destination-in"
	default:
		return "unknown"
	}
}

// Options configures surface creation through the registry.
type Options struct {
	// Width is the surface width in pixels.
	Width int

	// Height is the surface height in pixels.
	Height int

	// Library resolves font families. Nil means text.DefaultLibrary().
	Library *text.Library

	// Custom holds backend-specific options.
	Custom map[string]any
}
