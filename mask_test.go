package barrage

import (
	"errors"
	"image"
	"testing"
)

func TestMaskKindString(t *testing.T) {
	tests := []struct {
		k    MaskKind
		want string
	}{
		{MaskUnset, "unset"},
		{MaskData, "data"},
		{MaskImage, "image"},
		{MaskKind(7), "MaskKind(7)"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("MaskKind(%d).String() = %q, want %q", tt.k, got, tt.want)
		}
	}
}

func TestZeroMaskUnset(t *testing.T) {
	var m Mask
	if m.IsSet() || m.Kind() != MaskUnset || m.Image() != nil {
		t.Errorf("zero Mask = %v/%v, want unset", m.Kind(), m.Image())
	}
}

func TestMaskFromPixels(t *testing.T) {
	pix := []byte{
		1, 2, 3, 4, 5, 6, 7, 8,
		9, 10, 11, 12, 13, 14, 15, 16,
	}
	m, err := MaskFromPixels(2, 2, pix)
	if err != nil {
		t.Fatalf("MaskFromPixels() error = %v", err)
	}
	if m.Kind() != MaskData {
		t.Errorf("Kind() = %v, want data", m.Kind())
	}
	img, ok := m.Image().(*image.NRGBA)
	if !ok {
		t.Fatalf("Image() = %T, want *image.NRGBA", m.Image())
	}
	pix[0] = 99
	if img.Pix[0] != 1 || img.Pix[15] != 16 {
		t.Errorf("pixels not copied: %v", img.Pix)
	}
}

func TestMaskFromPixelsInvalid(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		pix  []byte
	}{
		{"short buffer", 2, 2, make([]byte, 15)},
		{"long buffer", 2, 2, make([]byte, 17)},
		{"zero width", 0, 2, nil},
		{"negative height", 2, -1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := MaskFromPixels(tt.w, tt.h, tt.pix)
			if !errors.Is(err, ErrInvalidMask) {
				t.Errorf("error = %v, want ErrInvalidMask", err)
			}
			if m.IsSet() {
				t.Error("invalid mask is set")
			}
		})
	}
}

func TestMaskFromImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 3))
	m, err := MaskFromImage(img)
	if err != nil || m.Kind() != MaskImage || m.Image() != img {
		t.Errorf("MaskFromImage() = %v, %v", m.Kind(), err)
	}
	d, err := MaskFromData(img)
	if err != nil || d.Kind() != MaskData {
		t.Errorf("MaskFromData() = %v, %v", d.Kind(), err)
	}

	if _, err := MaskFromImage(nil); !errors.Is(err, ErrInvalidMask) {
		t.Errorf("MaskFromImage(nil) error = %v, want ErrInvalidMask", err)
	}
	if _, err := MaskFromData(image.NewGray(image.Rectangle{})); !errors.Is(err, ErrInvalidMask) {
		t.Errorf("MaskFromData(empty) error = %v, want ErrInvalidMask", err)
	}
}
