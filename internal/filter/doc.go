// Package filter provides the pixel filters used for caption shadows.
//
// The only filter in use is a separable Gaussian blur over an alpha plane:
// glyph coverage is rasterized once, blurred, and then colorized by the
// surface as a shadow layer underneath the text.
package filter
