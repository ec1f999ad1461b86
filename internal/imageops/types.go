package imageops

import "errors"

// an image held by the editor; Data is always an encoded image file
type Image struct {
	Data     []byte `json:"-"`
	MimeType string `json:"mime_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

type Transform string

const (
	Rotate90       Transform = "rotate90"
	FlipHorizontal Transform = "flip_horizontal"
)

const (
	// upload limit per image
	MaxImageBytes = 20 << 20

	// decoded size limit; each transform holds two NRGBA copies
	MaxImagePixels = 50_000_000

	mimePNG  = "image/png"
	mimeJPEG = "image/jpeg"
	mimeGIF  = "image/gif"
)

var (
	ErrEmptyImage       = errors.New("image is empty")
	ErrImageTooLarge    = errors.New("image exceeds 20MB limit")
	ErrTooManyPixels    = errors.New("image exceeds 50 megapixel limit")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrInvalidDataURL   = errors.New("invalid data url")
	ErrUnknownTransform = errors.New("unknown transform")
)
