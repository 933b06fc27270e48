package barrage

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Config holds the playback and style parameters of an Engine.
type Config struct {
	// Duration is the loop length. Zero or negative means no loop: progress
	// grows without bound and items scroll past once.
	Duration time.Duration

	// Speed is the base scroll speed in pixels per second.
	Speed float64

	// FontSize is the default font size in pixels. It also fixes the row
	// height (2*FontSize) for every item.
	FontSize float64

	// FontFamily is the default CSS-like font family list.
	FontFamily string

	// TextShadowBlur is the shadow blur as a ratio of the font size, in [0, 1].
	TextShadowBlur float64

	// Opacity is the global alpha applied to every frame, in [0, 1].
	Opacity float64

	// DefaultColor is the default text color (see ParseColor).
	DefaultColor string
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Duration:       0,
		Speed:          100,
		FontSize:       24,
		FontFamily:     "sans-serif",
		TextShadowBlur: 0.1,
		Opacity:        1,
		DefaultColor:   "#ffffff",
	}
}

// ConfigPatch is a partial Config. Nil fields keep their current value.
type ConfigPatch struct {
	Duration       *time.Duration
	Speed          *float64
	FontSize       *float64
	FontFamily     *string
	TextShadowBlur *float64
	Opacity        *float64
	DefaultColor   *string
}

// Apply returns c with the non-nil fields of p applied. Ratios are
// clamped to [0, 1]; a NaN ratio leaves the field unchanged.
func (c Config) Apply(p ConfigPatch) Config {
	if p.Duration != nil {
		c.Duration = *p.Duration
	}
	if p.Speed != nil {
		c.Speed = *p.Speed
	}
	if p.FontSize != nil {
		c.FontSize = *p.FontSize
	}
	if p.FontFamily != nil {
		c.FontFamily = *p.FontFamily
	}
	if p.TextShadowBlur != nil {
		c.TextShadowBlur = clampRatio(*p.TextShadowBlur, c.TextShadowBlur)
	}
	if p.Opacity != nil {
		c.Opacity = clampRatio(*p.Opacity, c.Opacity)
	}
	if p.DefaultColor != nil {
		c.DefaultColor = *p.DefaultColor
	}
	return c
}

// clampRatio limits v to [0, 1]. NaN keeps old.
func clampRatio(v, old float64) float64 {
	if math.IsNaN(v) {
		return old
	}
	return min(max(v, 0), 1)
}

// Config keys recognized by PatchFromValues.
const (
	KeyDuration       = "duration"
	KeySpeed          = "speed"
	KeyFontSize       = "fontSize"
	KeyFontFamily     = "fontFamily"
	KeyTextShadowBlur = "textShadowBlur"
	KeyOpacity        = "opacity"
	KeyDefaultColor   = "defaultColor"
)

// PatchFromValues converts a key/value map, such as a decoded JSON object,
// into a ConfigPatch. Durations are milliseconds (any number), a
// time.Duration, or a string accepted by time.ParseDuration. Unknown keys
// and values of the wrong type are returned in ignored and never applied.
func PatchFromValues(values map[string]any) (p ConfigPatch, ignored []string) {
	for key, v := range values {
		ok := false
		switch key {
		case KeyDuration:
			var d time.Duration
			if d, ok = toDuration(v); ok {
				p.Duration = &d
			}
		case KeySpeed:
			p.Speed, ok = toFloatPtr(v)
		case KeyFontSize:
			p.FontSize, ok = toFloatPtr(v)
		case KeyTextShadowBlur:
			p.TextShadowBlur, ok = toFloatPtr(v)
		case KeyOpacity:
			p.Opacity, ok = toFloatPtr(v)
		case KeyFontFamily:
			var s string
			if s, ok = v.(string); ok {
				p.FontFamily = &s
			}
		case KeyDefaultColor:
			var s string
			if s, ok = v.(string); ok {
				p.DefaultColor = &s
			}
		}
		if !ok {
			ignored = append(ignored, key)
		}
	}
	return p, ignored
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

func toFloatPtr(v any) (*float64, bool) {
	f, ok := toFloat(v)
	if !ok {
		return nil, false
	}
	return &f, true
}

func toDuration(v any) (time.Duration, bool) {
	switch d := v.(type) {
	case time.Duration:
		return d, true
	case string:
		if pd, err := time.ParseDuration(d); err == nil {
			return pd, true
		}
	}
	ms, ok := toFloat(v)
	if !ok || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return 0, false
	}
	return time.Duration(ms * float64(time.Millisecond)), true
}
