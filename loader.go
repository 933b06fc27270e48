package barrage

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	// Decoders for mask files.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ImageLoader loads and decodes a mask image.
type ImageLoader interface {
	LoadImage(ctx context.Context, src string) (image.Image, error)
}

// ImageLoaderFunc adapts a function to ImageLoader.
type ImageLoaderFunc func(ctx context.Context, src string) (image.Image, error)

// LoadImage calls f(ctx, src).
func (f ImageLoaderFunc) LoadImage(ctx context.Context, src string) (image.Image, error) {
	return f(ctx, src)
}

// DefaultLoader loads PNG, JPEG, GIF, BMP and WebP images from local paths,
// file:// URLs and http(s):// URLs.
type DefaultLoader struct {
	// Client fetches http(s) sources. Nil means http.DefaultClient.
	Client *http.Client
}

// LoadImage opens src and decodes it.
func (l DefaultLoader) LoadImage(ctx context.Context, src string) (image.Image, error) {
	if src == "" {
		return nil, fmt.Errorf("%w: empty source", ErrInvalidMask)
	}

	u, err := url.Parse(src)
	if err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l.fetch(ctx, src)
		case "file":
			return decodeFile(u.Path)
		}
	}
	return decodeFile(src)
}

func (l DefaultLoader) fetch(ctx context.Context, src string) (image.Image, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("barrage: mask request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("barrage: fetch mask: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("barrage: fetch mask: %s", resp.Status)
	}
	return decode(resp.Body)
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("barrage: open mask: %w", err)
	}
	defer f.Close()
	return decode(f)
}

func decode(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("barrage: decode mask: %w", err)
	}
	slogger().Debug("barrage: mask decoded", "format", format, "bounds", img.Bounds())
	return img, nil
}
