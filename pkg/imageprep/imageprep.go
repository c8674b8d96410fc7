// Package imageprep normalizes uploaded screenshots before they are sent to
// an extraction model: format check, decode, downscale, re-encode.
package imageprep

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"

	_ "image/jpeg"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// Sentinel errors for image preparation.
var (
	ErrUnsupportedFormat = errors.New("image must be png, jpeg, or webp")
	ErrUndecodable       = errors.New("unable to decode image")
	ErrTooLarge          = errors.New("image dimensions too large")
)

const (
	// DefaultMaxDimension bounds the longer side of a prepared image.
	DefaultMaxDimension = 1600

	// MaxPixels bounds the decoded size of an upload, checked from the
	// image header before any pixel data is allocated.
	MaxPixels = 40_000_000
)

// Prepare validates raw image bytes and returns bytes safe to send upstream
// together with their MIME type. PNG and JPEG inputs that already fit within
// maxDim are returned unchanged. WebP inputs and oversized images are
// re-encoded as PNG, scaled so the longer side equals maxDim.
func Prepare(raw []byte, maxDim int) ([]byte, string, error) {
	if maxDim <= 0 {
		maxDim = DefaultMaxDimension
	}

	mime := http.DetectContentType(raw)
	switch mime {
	case "image/png", "image/jpeg", "image/webp":
	default:
		return nil, "", ErrUnsupportedFormat
	}

	cfg, err := decodeConfig(raw, mime)
	if err != nil {
		return nil, "", err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", ErrUndecodable
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, "", fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	img, err := decode(raw, mime)
	if err != nil {
		return nil, "", err
	}

	b := img.Bounds()

	oversized := b.Dx() > maxDim || b.Dy() > maxDim
	if !oversized && mime != "image/webp" {
		return raw, mime, nil
	}
	if oversized {
		img = scale(img, maxDim)
	}

	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, "", err
	}
	return out.Bytes(), "image/png", nil
}

func decodeConfig(raw []byte, mime string) (image.Config, error) {
	var (
		cfg image.Config
		err error
	)
	if mime == "image/webp" {
		cfg, err = webp.DecodeConfig(bytes.NewReader(raw))
	} else {
		cfg, _, err = image.DecodeConfig(bytes.NewReader(raw))
	}
	if err != nil {
		return image.Config{}, ErrUndecodable
	}
	return cfg, nil
}

func decode(raw []byte, mime string) (image.Image, error) {
	if mime == "image/webp" {
		img, err := webp.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, ErrUndecodable
		}
		return img, nil
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrUndecodable
	}
	return img, nil
}

// scale shrinks img so its longer side is maxDim, preserving aspect ratio.
func scale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w >= h {
		h = max(1, h*maxDim/w)
		w = maxDim
	} else {
		w = max(1, w*maxDim/h)
		h = maxDim
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
