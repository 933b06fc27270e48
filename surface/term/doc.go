// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package term provides a terminal surface backed by tcell.
//
// Each terminal cell is one surface pixel: it carries a premultiplied RGBA
// color, like an image pixel, plus the rune drawn there. Text is measured in
// cells with go-runewidth, so wide runes take two pixels. Shadows are not
// drawn.
//
// Importing the package registers the "term" backend:
//
//	import _ "github.com/gogpu/barrage/surface/term"
//
//	s, err := surface.NewSurfaceByName("term", surface.Options{})
//
// Frames reach the terminal only on Show.
package term
