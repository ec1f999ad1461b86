package imageops

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 3x2 image where every pixel is distinct
func fixture(t *testing.T) *Image {
	t.Helper()

	m := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			m.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 80), G: uint8(y * 120), B: 7, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, m))

	img, err := Decode(buf.Bytes())
	require.NoError(t, err)

	return img
}

func pixel(t *testing.T, img *Image, x, y int) color.NRGBA {
	t.Helper()

	m, err := toNRGBA(img)
	require.NoError(t, err)

	return m.NRGBAAt(x, y)
}

func TestDecode_PNG(t *testing.T) {
	img := fixture(t)

	assert.Equal(t, "image/png", img.MimeType)
	assert.Equal(t, 3, img.Width)
	assert.Equal(t, 2, img.Height)
}

func TestDecode_Rejects(t *testing.T) {
	_, err := Decode(nil)
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = Decode([]byte("plain text is not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

// png signature plus an IHDR chunk and no pixel data
func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // rgba

	chunk := append([]byte("IHDR"), ihdr...)

	out := []byte("\x89PNG\r\n\x1a\n")
	out = binary.BigEndian.AppendUint32(out, uint32(len(ihdr)))
	out = append(out, chunk...)

	return binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(chunk))
}

func TestDecode_RejectsOversizedDimensions(t *testing.T) {
	data := pngHeader(60000, 60000)
	require.Len(t, data, 33)

	_, err := Decode(data)
	assert.ErrorIs(t, err, ErrTooManyPixels)

	_, err = Decode(pngHeader(4000, 3000))
	assert.NoError(t, err)
}

func TestRotate_SwapsDimensionsClockwise(t *testing.T) {
	src := fixture(t)

	out, err := Rotate(src)
	require.NoError(t, err)

	assert.Equal(t, 2, out.Width)
	assert.Equal(t, 3, out.Height)

	// top-left of the source lands in the top-right corner
	assert.Equal(t, pixel(t, src, 0, 0), pixel(t, out, 1, 0))
	// bottom-left of the source lands in the top-left corner
	assert.Equal(t, pixel(t, src, 0, 1), pixel(t, out, 0, 0))
}

func TestRotate_FourTimesIsIdentity(t *testing.T) {
	src := fixture(t)
	out := src

	for i := 0; i < 4; i++ {
		var err error
		out, err = Rotate(out)
		require.NoError(t, err)
	}

	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			assert.Equal(t, pixel(t, src, x, y), pixel(t, out, x, y))
		}
	}
}

func TestFlip_MirrorsAndTwiceIsIdentity(t *testing.T) {
	src := fixture(t)

	once, err := Flip(src)
	require.NoError(t, err)
	assert.Equal(t, src.Width, once.Width)
	assert.Equal(t, pixel(t, src, 0, 0), pixel(t, once, 2, 0))

	twice, err := Flip(once)
	require.NoError(t, err)
	assert.Equal(t, pixel(t, src, 1, 1), pixel(t, twice, 1, 1))
}

func TestApply_UnknownTransform(t *testing.T) {
	_, err := Apply(fixture(t), Transform("skew"))
	assert.ErrorIs(t, err, ErrUnknownTransform)
}

func TestDataURL_RoundTrip(t *testing.T) {
	src := fixture(t)

	parsed, err := ParseDataURL(src.DataURL())
	require.NoError(t, err)
	assert.Equal(t, src.Data, parsed.Data)

	_, err = ParseDataURL("not-a-data-url")
	assert.ErrorIs(t, err, ErrInvalidDataURL)
}
