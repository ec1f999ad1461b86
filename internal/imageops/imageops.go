// Package imageops decodes uploaded images and applies the lossless geometric
// edits the editor offers. Transformed images are always re-encoded as PNG.
package imageops

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif" // register decoder
	_ "image/jpeg"
	"image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var allowedMIMEs = map[string]bool{
	mimePNG:  true,
	mimeJPEG: true,
	mimeGIF:  true,
}

// validates raw bytes and reads their dimensions
func Decode(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	if len(data) > MaxImageBytes {
		return nil, ErrImageTooLarge
	}

	mimeType := mimetype.Detect(data).String()
	if !allowedMIMEs[mimeType] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, mimeType)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	if int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}

	return &Image{
		Data:     data,
		MimeType: mimeType,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

// decodes a base64 payload as sent by the generator
func DecodeBase64(payload string) (*Image, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	return Decode(data)
}

// parses "data:<mime>;base64,<payload>"
func ParseDataURL(raw string) (*Image, error) {
	header, payload, ok := strings.Cut(raw, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, ErrInvalidDataURL
	}

	return DecodeBase64(payload)
}

func (img *Image) Base64() string {
	return base64.StdEncoding.EncodeToString(img.Data)
}

func (img *Image) DataURL() string {
	return "data:" + img.MimeType + ";base64," + img.Base64()
}

// applies a transform by kind
func Apply(img *Image, kind Transform) (*Image, error) {
	switch kind {
	case Rotate90:
		return Rotate(img)
	case FlipHorizontal:
		return Flip(img)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTransform, kind)
	}
}

// rotates 90 degrees clockwise; width and height swap
func Rotate(img *Image) (*Image, error) {
	src, err := toNRGBA(img)
	if err != nil {
		return nil, err
	}

	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, h, w))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.SetNRGBA(h-1-y, x, src.NRGBAAt(x, y))
		}
	}

	return encode(dst)
}

// mirrors left to right; dimensions are unchanged
func Flip(img *Image) (*Image, error) {
	src, err := toNRGBA(img)
	if err != nil {
		return nil, err
	}

	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.SetNRGBA(w-1-x, y, src.NRGBAAt(x, y))
		}
	}

	return encode(dst)
}

// re-encodes any supported image as PNG (the generator inline type)
func ToPNG(img *Image) (*Image, error) {
	if img.MimeType == mimePNG {
		return img, nil
	}

	src, err := toNRGBA(img)
	if err != nil {
		return nil, err
	}

	return encode(src)
}

func toNRGBA(img *Image) (*image.NRGBA, error) {
	if img == nil || len(img.Data) == 0 {
		return nil, ErrEmptyImage
	}

	decoded, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	// normalize to a zero-origin NRGBA so pixel copies are exact
	b := decoded.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), decoded, b.Min, draw.Src)

	return out, nil
}

func encode(m *image.NRGBA) (*Image, error) {
	var buf bytes.Buffer

	if err := png.Encode(&buf, m); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}

	return &Image{
		Data:     buf.Bytes(),
		MimeType: mimePNG,
		Width:    m.Bounds().Dx(),
		Height:   m.Bounds().Dy(),
	}, nil
}
