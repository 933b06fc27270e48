// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides the drawing-surface abstraction the caption
// engine renders into.
//
// A Surface exposes exactly the capabilities a scrolling caption frame
// needs: clearing, text measurement, filling text with a soft shadow,
// drawing a mask (raw pixels or a scaled bitmap), compositing another
// surface of the same backend, and a global opacity pass.
//
// # Surface Types
//
//   - ImageSurface: CPU rendering to *image.RGBA with Go fonts (this package)
//   - term.Surface: terminal cells through tcell (package surface/term)
//
// # Registry
//
// Backends register factories by name so that hosts can pick one at
// runtime:
//
//	s, err := surface.NewSurfaceByName("image", surface.Options{Width: 640, Height: 360})
//	if err != nil {
//	    return err // acquisition failure is fatal for the engine
//	}
//	defer s.Close()
//
// Surfaces are NOT thread-safe. Each surface should be used from a single
// goroutine.
package surface
