package barrage

import (
	"math"
	"time"

	"github.com/gogpu/barrage/surface"
)

// RawItem is a caption before layout. Nil style fields take the Config
// default.
type RawItem struct {
	// Time is the entry offset in milliseconds. Negative values start the
	// item already on screen.
	Time int64 `json:"time"`

	Text       string   `json:"text"`
	FontSize   *float64 `json:"fontSize,omitempty"`
	FontFamily *string  `json:"fontFamily,omitempty"`
	Color      *string  `json:"color,omitempty"`
}

// Item is a positioned caption.
//
// At progress p (ms) the item is drawn at
//
//	x = Left - Speed*p/1000*SpeedRatio,  y = Top
//
// Items are never mutated after layout except for Top, which the overlap
// resolver may reassign.
type Item struct {
	Time       int64
	Text       string
	FontSize   float64
	FontFamily string
	Color      string

	// CreatedAt orders drawing: later items draw on top.
	CreatedAt time.Time

	Left, Top     float64
	Width, Height float64

	// SpeedRatio multiplies the scroll speed, in [1, 2).
	SpeedRatio float64
}

// Font returns the surface font the item is drawn with.
func (it Item) Font() surface.Font {
	return surface.Font{Size: it.FontSize, Family: it.FontFamily}
}

// X returns the horizontal position for a translation of translateX pixels.
func (it Item) X(translateX float64) float64 {
	return it.Left - translateX*it.SpeedRatio
}

// Viewport is the size of the visible area in pixels.
type Viewport struct {
	Width, Height float64
}

// Measurer measures text advance widths. Every surface.Surface is one.
type Measurer interface {
	MeasureText(s string, font surface.Font) float64
}

// Rand is the source of layout randomness. *math/rand/v2.Rand satisfies it.
type Rand interface {
	// Float64 returns a pseudo-random number in [0, 1).
	Float64() float64
}

// RowPicker returns a freshly drawn row top.
type RowPicker func() float64

// RowCount returns the number of rows of height 2*fontSize that fit in
// height. A non-positive font size gives no rows.
func RowCount(height, fontSize float64) int {
	if !(fontSize > 0) || !(height > 0) {
		return 0
	}
	n := math.Floor(height / (2 * fontSize))
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// RowTop returns the top of row index k.
func RowTop(k int, fontSize float64) float64 {
	return 0.5*fontSize + float64(k)*2*fontSize
}

// randomRowTop draws a row in [0, RowCount) and returns its top. With no
// rows the only slot is row 0.
func randomRowTop(rng Rand, height, fontSize float64) float64 {
	k := int(rng.Float64() * float64(RowCount(height, fontSize)))
	return RowTop(k, fontSize)
}

// Layout positions raw in view. Random draws happen in a fixed order: the
// row first, then the speed ratio. Layout never fails: odd input such as a
// negative time or empty text passes through.
func Layout(raw RawItem, m Measurer, cfg Config, view Viewport, rng Rand, now time.Time) Item {
	it := Item{
		Time:       raw.Time,
		Text:       raw.Text,
		FontSize:   cfg.FontSize,
		FontFamily: cfg.FontFamily,
		Color:      cfg.DefaultColor,
		CreatedAt:  now,
		Height:     cfg.FontSize,
	}
	if raw.FontSize != nil {
		it.FontSize = *raw.FontSize
	}
	if raw.FontFamily != nil {
		it.FontFamily = *raw.FontFamily
	}
	if raw.Color != nil {
		it.Color = *raw.Color
	}

	it.Left = cfg.Speed*float64(raw.Time)/1000 + view.Width
	it.Top = randomRowTop(rng, view.Height, cfg.FontSize)
	it.SpeedRatio = 1 + rng.Float64()
	it.Width = m.MeasureText(it.Text, it.Font())
	return it
}
