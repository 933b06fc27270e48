// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package term

import (
	"image"
	"image/color"
	"math"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/gogpu/barrage/internal/blend"
	"github.com/gogpu/barrage/surface"
)

// continuation marks the second cell of a wide rune.
const continuation rune = -1

// Surface renders into a grid of terminal cells.
type Surface struct {
	width  int
	height int

	// pix holds one premultiplied RGBA pixel per cell, row-major.
	pix   []uint8
	runes []rune

	screen     tcell.Screen
	ownsScreen bool
	background colorful.Color
	closed     bool
}

// New creates a surface covering screen. The screen must be initialized.
func New(screen tcell.Screen) *Surface {
	w, h := screen.Size()
	s := NewSize(w, h)
	s.screen = screen
	return s
}

// NewSize creates a surface with no screen attached. Show is a no-op.
// Non-positive dimensions are clamped to 1.
func NewSize(width, height int) *Surface {
	width = max(width, 1)
	height = max(height, 1)
	return &Surface{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*4),
		runes:  make([]rune, width*height),
	}
}

// SetBackground sets the color transparent text is blended towards on Show.
func (s *Surface) SetBackground(c color.Color) {
	if cf, ok := colorful.MakeColor(c); ok {
		s.background = cf
	}
}

// Screen returns the attached screen, or nil.
func (s *Surface) Screen() tcell.Screen { return s.screen }

// Width returns the width in cells.
func (s *Surface) Width() int { return s.width }

// Height returns the height in cells.
func (s *Surface) Height() int { return s.height }

// Clear empties every cell.
func (s *Surface) Clear() {
	if s.closed {
		return
	}
	clear(s.pix)
	clear(s.runes)
}

// MeasureText returns the cell width of str. The font is ignored.
func (s *Surface) MeasureText(str string, _ surface.Font) float64 {
	return float64(runewidth.StringWidth(str))
}

// FillText writes str into the cells starting at (x, y). Cells under the
// text take the fill color.
func (s *Surface) FillText(str string, x, y float64, style surface.TextStyle) {
	if s.closed || math.IsNaN(x) || math.IsNaN(y) {
		return
	}
	row := int(math.Floor(y))
	if row < 0 || row >= s.height {
		return
	}
	fill := style.Color
	if fill == nil {
		fill = color.Black
	}
	c := color.RGBAModel.Convert(fill).(color.RGBA)
	if c.A == 0 {
		return
	}

	col := int(math.Round(x))
	for _, r := range str {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col >= 0 && col+w <= s.width {
			s.put(col, row, r, c)
			if w == 2 {
				s.put(col+1, row, continuation, c)
			}
		}
		col += w
		if col >= s.width {
			break
		}
	}
}

func (s *Surface) put(x, y int, r rune, c color.RGBA) {
	i := y*s.width + x
	if r != continuation {
		// Drop the halves of a wide rune this cell used to belong to.
		if s.runes[i] == continuation && x > 0 {
			s.runes[i-1] = 0
		}
		if x+1 < s.width && s.runes[i+1] == continuation {
			s.runes[i+1] = 0
		}
	}
	s.runes[i] = r
	blend.Span(s.pix[i*4:i*4+4], []uint8{c.R, c.G, c.B, c.A}, blend.SourceOver)
}

// PutPixels copies img unscaled to the top-left cells, replacing their
// color. Runes are kept.
func (s *Surface) PutPixels(img image.Image) {
	if s.closed || img == nil {
		return
	}
	b := img.Bounds()
	for y := 0; y < min(b.Dy(), s.height); y++ {
		for x := 0; x < min(b.Dx(), s.width); x++ {
			c := color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			i := (y*s.width + x) * 4
			s.pix[i], s.pix[i+1], s.pix[i+2], s.pix[i+3] = c.R, c.G, c.B, c.A
		}
	}
}

// DrawImage draws img scaled to the whole grid, sampling the source pixel
// under each cell center.
func (s *Surface) DrawImage(img image.Image) {
	if s.closed || img == nil || img.Bounds().Empty() {
		return
	}
	b := img.Bounds()
	sx := float64(b.Dx()) / float64(s.width)
	sy := float64(b.Dy()) / float64(s.height)
	for y := range s.height {
		srcY := b.Min.Y + int((float64(y)+0.5)*sy)
		for x := range s.width {
			srcX := b.Min.X + int((float64(x)+0.5)*sx)
			c := color.RGBAModel.Convert(img.At(srcX, srcY)).(color.RGBA)
			i := (y*s.width + x) * 4
			blend.Span(s.pix[i:i+4], []uint8{c.R, c.G, c.B, c.A}, blend.SourceOver)
		}
	}
}

// Composite combines src onto s. src must be a *Surface of the same size.
func (s *Surface) Composite(src surface.Surface, op surface.CompositeOp) {
	if s.closed {
		return
	}
	o, ok := src.(*Surface)
	if !ok || o.closed || o.width != s.width || o.height != s.height {
		surface.Logger().Warn("term: composite source rejected", "op", op.String())
		return
	}

	switch op {
	case surface.CompositeSourceIn:
		blend.Span(s.pix, o.pix, blend.SourceIn)
		copy(s.runes, o.runes)
	case surface.CompositeDestinationIn:
		blend.Span(s.pix, o.pix, blend.DestinationIn)
	default:
		for i, r := range o.runes {
			if o.pix[i*4+3] > 0 {
				s.runes[i] = r
			}
		}
		blend.Span(s.pix, o.pix, blend.SourceOver)
	}
}

// ApplyOpacity multiplies every cell color by alpha.
func (s *Surface) ApplyOpacity(alpha float64) {
	if s.closed || math.IsNaN(alpha) || alpha >= 1 {
		return
	}
	if alpha <= 0 {
		clear(s.pix)
		return
	}
	blend.Scale(s.pix, uint8(alpha*255+0.5))
}

// NewOffscreen creates a blank screenless surface of the same size.
func (s *Surface) NewOffscreen() (surface.Surface, error) {
	if s.closed {
		return nil, surface.ErrSurfaceClosed
	}
	return NewSize(s.width, s.height), nil
}

// Snapshot returns the cell colors as an image, one pixel per cell.
func (s *Surface) Snapshot() *image.RGBA {
	if s.closed {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	copy(img.Pix, s.pix)
	return img
}

// Cell returns the rune and premultiplied color at (x, y). The second half
// of a wide rune reports rune 0.
func (s *Surface) Cell(x, y int) (rune, color.RGBA) {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return 0, color.RGBA{}
	}
	i := y*s.width + x
	r := s.runes[i]
	if r == continuation {
		r = 0
	}
	p := s.pix[i*4 : i*4+4]
	return r, color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Show writes the cells to the screen. Text is blended towards the
// background by its alpha; runeless painted cells become background color.
func (s *Surface) Show() {
	if s.closed || s.screen == nil {
		return
	}
	for y := range s.height {
		for x := range s.width {
			i := y*s.width + x
			r := s.runes[i]
			if r == continuation {
				continue
			}
			p := s.pix[i*4 : i*4+4]
			a := p[3]
			switch {
			case a == 0:
				s.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
			case r == 0:
				s.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault.Background(s.blended(p)))
			default:
				s.screen.SetContent(x, y, r, nil, tcell.StyleDefault.Foreground(s.blended(p)))
			}
		}
	}
	s.screen.Show()
}

// blended unpremultiplies p and mixes it over the background by its alpha.
func (s *Surface) blended(p []uint8) tcell.Color {
	a := float64(p[3]) / 255
	fg := colorful.Color{
		R: float64(p[0]) / 255 / a,
		G: float64(p[1]) / 255 / a,
		B: float64(p[2]) / 255 / a,
	}.Clamped()
	r, g, b := s.background.BlendRgb(fg, a).Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// Close releases the surface, finalizing the screen if the surface
// created it. Close is idempotent.
func (s *Surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.ownsScreen && s.screen != nil {
		s.screen.Fini()
	}
	return nil
}

// ScreenOption is the surface.Options.Custom key for injecting a screen.
// The injected screen must be initialized and stays owned by the caller.
const ScreenOption = "term.screen"

func init() {
	surface.Register("term", 0, newFromOptions, available)
}

func newFromOptions(opts surface.Options) (surface.Surface, error) {
	if sc, ok := opts.Custom[ScreenOption].(tcell.Screen); ok && sc != nil {
		return New(sc), nil
	}

	sc, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := sc.Init(); err != nil {
		return nil, err
	}
	s := New(sc)
	s.ownsScreen = true
	return s, nil
}

// available reports whether stdout is a terminal.
func available() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
