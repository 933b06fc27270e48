package text

import (
	"bytes"
	"fmt"
	"os"

	gtfont "github.com/go-text/typesetting/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// FontSource is a parsed font file.
// One FontSource backs faces at any number of sizes.
//
// The font is parsed twice: once by x/image for rasterization and once by
// go-text for shaping. Both parsed forms are read-only and safe to share.
type FontSource struct {
	name   string
	raster *opentype.Font
	shape  *gtfont.Font
}

// NewFontSource parses TTF or OTF data. The data is copied.
func NewFontSource(data []byte) (*FontSource, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	raster, err := opentype.Parse(buf)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}

	face, err := gtfont.ParseTTF(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("text: failed to load font for shaping: %w", err)
	}

	s := &FontSource{
		raster: raster,
		shape:  face.Font,
	}
	if name, err := raster.Name(nil, sfnt.NameIDFamily); err == nil {
		s.name = name
	}
	return s, nil
}

// NewFontSourceFromFile loads a FontSource from a font file path.
func NewFontSourceFromFile(path string) (*FontSource, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("text: failed to read font file: %w", err)
	}
	return NewFontSource(data)
}

// Name returns the family name recorded in the font, if any.
func (s *FontSource) Name() string {
	return s.name
}
