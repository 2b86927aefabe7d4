package images

import (
	"fmt"
	"image"

	"github.com/bbrks/go-blurhash"
	"golang.org/x/image/draw"
)

// blurHashSize bounds the thumbnail the hash is computed from. The hash is a
// low-resolution placeholder, so 64px gives the same result as the full image.
const blurHashSize = 64

// Components used for every hash: 4 across, 3 down (~28 characters).
const (
	blurHashX = 4
	blurHashY = 3
)

// BlurHash encodes a decoded image as a BlurHash placeholder string.
func BlurHash(img image.Image) (string, error) {
	hash, err := blurhash.Encode(blurHashX, blurHashY, thumbnail(img))
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}
	return hash, nil
}

// thumbnail scales img to fit within blurHashSize, keeping its aspect ratio.
func thumbnail(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= blurHashSize && h <= blurHashSize {
		return img
	}

	dw, dh := blurHashSize, blurHashSize
	if w > h {
		dh = max(1, h*blurHashSize/w)
	} else {
		dw = max(1, w*blurHashSize/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
