package text

import (
	"sync"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/text/unicode/bidi"
)

// shaperPool pools HarfbuzzShaper instances. A shaper keeps an internal
// buffer and is not safe for concurrent use, but reusing one across
// sequential calls avoids reallocating it.
var shaperPool = sync.Pool{
	New: func() any { return &shaping.HarfbuzzShaper{} },
}

// Measure returns the advance width of s in pixels, the same quantity a
// canvas measureText reports as width. Results are cached per face.
func Measure(s string, face *Face) float64 {
	if s == "" || face == nil {
		return 0
	}
	return face.widths.GetOrCreate(s, func() float64 {
		return shapeAdvance(s, face)
	})
}

// shapeAdvance shapes s as a single run and returns its total advance.
func shapeAdvance(s string, face *Face) float64 {
	runes := []rune(s)

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: baseDirection(s),
		Face:      gtfont.NewFace(face.source.shape),
		Size:      floatToFixed(face.size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := shaperPool.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	shaperPool.Put(hb)

	adv := fixedToFloat(out.Advance)
	if adv < 0 {
		adv = -adv
	}
	return adv
}

// baseDirection reports RTL when the first directional run of s is
// right-to-left (Arabic or Hebrew captions), LTR otherwise.
func baseDirection(s string) di.Direction {
	if s == "" {
		return di.DirectionLTR
	}
	var p bidi.Paragraph
	if _, err := p.SetString(s, bidi.DefaultDirection(bidi.Neutral)); err != nil {
		return di.DirectionLTR
	}
	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		return di.DirectionLTR
	}
	if r := ordering.Run(0); r.Direction() == bidi.RightToLeft {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}

// detectScript returns the script of the first non-space rune.
// Mixed-script captions are shaped as one run; widths stay close enough
// for layout.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
