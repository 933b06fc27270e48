package text

import "errors"

// Sentinel errors for the text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrInvalidSize is returned for non-positive or non-finite face sizes.
	ErrInvalidSize = errors.New("text: invalid face size")

	// ErrNoFonts is returned when a library has no font to fall back to.
	ErrNoFonts = errors.New("text: library has no fonts")
)
