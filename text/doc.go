// Package text measures and rasterizes caption text.
//
// The pipeline is split the same way a browser canvas splits it:
//
//   - FontSource: a parsed font file, shared and heavyweight.
//   - Library: resolves CSS-like family lists ("Noto Sans, sans-serif") to sources.
//   - Face: a source at a pixel size, with metrics and a glyph rasterizer.
//   - Measure: advance widths with HarfBuzz-level shaping.
//
// Measuring uses github.com/go-text/typesetting so that kerning and
// ligatures are accounted for; drawing uses golang.org/x/image/font/opentype.
//
//	lib := text.DefaultLibrary()
//	face, err := lib.Face("sans-serif", 24)
//	if err != nil {
//	    return err
//	}
//	w := text.Measure("hello", face)
//	coverage := face.Rasterize("hello", 0)
package text
