package barrage

import (
	"fmt"
	"image"
)

// MaskKind tags the source of a Mask.
type MaskKind uint8

const (
	// MaskUnset disables masking.
	MaskUnset MaskKind = iota

	// MaskData is a raw pixel buffer drawn unscaled at the origin.
	MaskData

	// MaskImage is a decoded bitmap scaled to the viewport.
	MaskImage
)

// String returns the kind name.
func (k MaskKind) String() string {
	switch k {
	case MaskUnset:
		return "unset"
	case MaskData:
		return "data"
	case MaskImage:
		return "image"
	default:
		return fmt.Sprintf("MaskKind(%d)", k)
	}
}

// Mask restricts captions to the opaque pixels of an image.
// The zero Mask is unset.
type Mask struct {
	kind MaskKind
	img  image.Image
}

// MaskFromPixels creates a data mask from a non-premultiplied RGBA buffer of
// width*height*4 bytes, as produced by canvas getImageData. The buffer is
// copied.
func MaskFromPixels(width, height int, pix []byte) (Mask, error) {
	if width <= 0 || height <= 0 {
		return Mask{}, fmt.Errorf("%w: size %dx%d", ErrInvalidMask, width, height)
	}
	if len(pix) != width*height*4 {
		return Mask{}, fmt.Errorf("%w: %d bytes for %dx%d pixels", ErrInvalidMask, len(pix), width, height)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, pix)
	return Mask{kind: MaskData, img: img}, nil
}

// MaskFromData creates a data mask that draws img unscaled at the origin.
func MaskFromData(img image.Image) (Mask, error) {
	if err := checkMaskImage(img); err != nil {
		return Mask{}, err
	}
	return Mask{kind: MaskData, img: img}, nil
}

// MaskFromImage creates an image mask that is scaled to the viewport.
func MaskFromImage(img image.Image) (Mask, error) {
	if err := checkMaskImage(img); err != nil {
		return Mask{}, err
	}
	return Mask{kind: MaskImage, img: img}, nil
}

func checkMaskImage(img image.Image) error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidMask)
	}
	if img.Bounds().Empty() {
		return fmt.Errorf("%w: empty image", ErrInvalidMask)
	}
	return nil
}

// Kind returns the mask kind.
func (m Mask) Kind() MaskKind {
	if m.img == nil {
		return MaskUnset
	}
	return m.kind
}

// Image returns the mask pixels, or nil when unset.
func (m Mask) Image() image.Image {
	return m.img
}

// IsSet reports whether the mask clips rendering.
func (m Mask) IsSet() bool {
	return m.Kind() != MaskUnset
}
