// Package blend implements the Porter-Duff operators used when compositing
// caption layers.
//
// All operations work on premultiplied alpha values in the range 0-255,
// which is the layout of image.RGBA pixels.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

// Mode represents a Porter-Duff compositing operation.
type Mode uint8

const (
	SourceOver      Mode = iota // Result: S + D*(1-Sa) [default]
	SourceIn                    // Result: S*Da
	DestinationIn               // Result: D*Sa
	DestinationOut              // Result: D*(1-Sa)
	DestinationOver             // Result: S*(1-Da) + D
)

// String returns the canvas-style name of the mode.
func (m Mode) String() string {
	switch m {
	case SourceOver:
		return "source-over"
	case SourceIn:
		return "source-in"
	case DestinationIn:
		return "destination-in"
	case DestinationOut:
		return "destination-out"
	case DestinationOver:
		return "destination-over"
	default:
		return "unknown"
	}
}

// Func is the signature for blend operations.
// All values are premultiplied alpha, 0-255.
type Func func(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte)

// GetFunc returns the blend function for the given mode.
// Returns source-over for unknown modes.
func GetFunc(mode Mode) Func {
	switch mode {
	case SourceIn:
		return sourceIn
	case DestinationIn:
		return destinationIn
	case DestinationOut:
		return destinationOut
	case DestinationOver:
		return destinationOver
	default:
		return sourceOver
	}
}

// Span composites src onto dst pixel by pixel. Both slices hold RGBA
// quadruplets; the shorter one bounds the work.
func Span(dst, src []uint8, mode Mode) {
	fn := GetFunc(mode)
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i+3 < n; i += 4 {
		dst[i], dst[i+1], dst[i+2], dst[i+3] = fn(
			src[i], src[i+1], src[i+2], src[i+3],
			dst[i], dst[i+1], dst[i+2], dst[i+3],
		)
	}
}

// Scale multiplies every channel of a premultiplied span by alpha (0-255).
func Scale(dst []uint8, alpha byte) {
	if alpha == 255 {
		return
	}
	for i := range dst {
		dst[i] = mulDiv255(dst[i], alpha)
	}
}

// sourceOver composites source over destination.
// Formula: S + D * (1 - Sa)
func sourceOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return addDiv255(sr, mulDiv255(dr, invSa)),
		addDiv255(sg, mulDiv255(dg, invSa)),
		addDiv255(sb, mulDiv255(db, invSa)),
		addDiv255(sa, mulDiv255(da, invSa))
}

// sourceIn shows source where destination is opaque.
// Formula: S * Da
func sourceIn(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return mulDiv255(sr, da), mulDiv255(sg, da), mulDiv255(sb, da), mulDiv255(sa, da)
}

// destinationIn shows destination where source is opaque.
// Formula: D * Sa
func destinationIn(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return mulDiv255(dr, sa), mulDiv255(dg, sa), mulDiv255(db, sa), mulDiv255(da, sa)
}

// destinationOut shows destination where source is transparent.
// Formula: D * (1 - Sa)
func destinationOut(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return mulDiv255(dr, invSa), mulDiv255(dg, invSa), mulDiv255(db, invSa), mulDiv255(da, invSa)
}

// destinationOver composites destination over source.
// Formula: S * (1 - Da) + D
func destinationOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invDa := 255 - da
	return addDiv255(mulDiv255(sr, invDa), dr),
		addDiv255(mulDiv255(sg, invDa), dg),
		addDiv255(mulDiv255(sb, invDa), db),
		addDiv255(mulDiv255(sa, invDa), da)
}

// mulDiv255 multiplies two byte values and divides by 255 with proper rounding.
// Formula: (a * b + 127) / 255
func mulDiv255(a, b byte) byte {
	return byte((uint16(a)*uint16(b) + 127) / 255)
}

// addDiv255 adds two byte values with clamping to 255.
func addDiv255(a, b byte) byte {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}
