// Package imaging re-encodes uploaded raster images into the JPEG variants
// the site serves.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	"github.com/nfnt/resize"
	"github.com/rpupo63/portfolio-backend/errs"
)

// Variant bounds the output size. A zero bound is unconstrained.
type Variant struct {
	Name      string
	MaxWidth  uint
	MaxHeight uint
}

var (
	// Thumbnail fits inside 300x300 and is used for cover images.
	Thumbnail = Variant{Name: "thumbnail", MaxWidth: 300, MaxHeight: 300}
	// Carousel fits inside an 800px width.
	Carousel = Variant{Name: "carousel", MaxWidth: 800}
)

const (
	Quality = 80

	// maxPixels guards against decompression bombs.
	maxPixels = 50_000_000
)

// Normalize decodes data, shrinks it to fit v without upscaling, and
// re-encodes it as JPEG at Quality. Bytes that are not an image yield
// ErrDecode; image formats without a registered decoder yield
// ErrUnsupportedFormat.
func Normalize(data []byte, v Variant) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", errs.ErrDecode)
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return nil, fmt.Errorf("%w: content is %s", errs.ErrDecode, mime)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, classifyDecodeError(mime, err)
	}
	if cfg.Width*cfg.Height > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d image", errs.ErrPayloadTooLarge, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, classifyDecodeError(mime, err)
	}

	resized := fit(img, v)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flatten(resized), &jpeg.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("encode %s: %w", v.Name, err)
	}
	return buf.Bytes(), nil
}

func classifyDecodeError(mime string, err error) error {
	if errors.Is(err, image.ErrFormat) {
		return fmt.Errorf("%w: %s", errs.ErrUnsupportedFormat, mime)
	}
	return fmt.Errorf("%w: %w", errs.ErrDecode, err)
}

// fit scales img down to the variant bounds keeping its aspect ratio.
func fit(img image.Image, v Variant) image.Image {
	bounds := img.Bounds()
	width, height := uint(bounds.Dx()), uint(bounds.Dy())

	switch {
	case v.MaxWidth > 0 && v.MaxHeight > 0:
		return resize.Thumbnail(v.MaxWidth, v.MaxHeight, img, resize.Lanczos3)
	case v.MaxWidth > 0 && width > v.MaxWidth:
		return resize.Resize(v.MaxWidth, 0, img, resize.Lanczos3)
	case v.MaxHeight > 0 && height > v.MaxHeight:
		return resize.Resize(0, v.MaxHeight, img, resize.Lanczos3)
	}
	return img
}

// flatten composites transparent pixels onto white since JPEG has no alpha.
func flatten(img image.Image) image.Image {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(out, bounds, img, bounds.Min, draw.Over)
	return out
}
