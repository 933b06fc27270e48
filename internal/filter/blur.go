package filter

import (
	"image"
	"math"
)

// ShadowSigma converts a canvas-style shadow blur length to the Gaussian
// standard deviation used by BlurAlpha (sigma = blur / 2).
func ShadowSigma(blur float64) float64 {
	if blur <= 0 || math.IsNaN(blur) {
		return 0
	}
	return blur / 2
}

// Padding returns the number of pixels a blur with the given sigma spreads
// coverage beyond the source bounds.
func Padding(sigma float64) int {
	if sigma <= 0 {
		return 0
	}
	return int(math.Ceil(sigma * 3))
}

// BlurAlpha returns a Gaussian-blurred copy of src.
// Pixels outside src count as transparent, so coverage fades toward the
// edges instead of smearing. The result has the same bounds as src; callers
// that need the full spread should pad src by Padding(sigma) first.
func BlurAlpha(src *image.Alpha, sigma float64) *image.Alpha {
	b := src.Bounds()
	dst := image.NewAlpha(b)
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return dst
	}
	if sigma <= 0 {
		copy(dst.Pix, src.Pix)
		return dst
	}

	kernel := CachedGaussianKernel(sigma)
	half := len(kernel) / 2
	temp := make([]float32, w*h)

	// Horizontal pass
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		for x := 0; x < w; x++ {
			var sum float32
			for k, weight := range kernel {
				kx := x + k - half
				if kx < 0 || kx >= w {
					continue
				}
				sum += float32(row[kx]) * weight
			}
			temp[y*w+x] = sum
		}
	}

	// Vertical pass
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float32
			for k, weight := range kernel {
				ky := y + k - half
				if ky < 0 || ky >= h {
					continue
				}
				sum += temp[ky*w+x] * weight
			}
			dst.Pix[y*dst.Stride+x] = clampUint8(sum)
		}
	}
	return dst
}

// clampUint8 rounds and clamps a float to the 0-255 range.
func clampUint8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
