// Package images decodes uploaded images to validate them and derive
// their dimensions and BlurHash placeholder.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	_ "golang.org/x/image/webp" // register WebP decoder
)

// ErrUnsupportedFormat is returned for bytes that are not a JPEG, PNG, GIF or WebP image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// maxPixels rejects decompression bombs before a full decode.
const maxPixels = 50_000_000

// AllowedContentTypes maps accepted upload MIME types to decoder format names.
var AllowedContentTypes = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Info describes a decoded image.
type Info struct {
	Format   string `json:"format"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	BlurHash string `json:"blurHash"`
}

// Inspect decodes data and returns its format, size and BlurHash.
func Inspect(data []byte) (*Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxPixels {
		return nil, fmt.Errorf("image dimensions %dx%d out of range", cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}

	hash, err := BlurHash(img)
	if err != nil {
		return nil, err
	}

	return &Info{Format: format, Width: cfg.Width, Height: cfg.Height, BlurHash: hash}, nil
}

// MatchesContentType reports whether a decoded format agrees with the declared MIME type.
func MatchesContentType(contentType, format string) bool {
	want, ok := AllowedContentTypes[contentType]
	return ok && want == format
}
