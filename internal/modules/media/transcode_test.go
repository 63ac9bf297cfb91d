package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestTranscodeReencodesAsJPEG(t *testing.T) {
	data := pngBytes(t, 32, 32)

	out, contentType := transcode(data, "image/png", 0)

	assert.Equal(t, "image/jpeg", contentType)
	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 32, decoded.Bounds().Dx())
}

func TestTranscodeBoundsDimensionsToSizeHint(t *testing.T) {
	data := pngBytes(t, 120, 60)

	out, contentType := transcode(data, "image/png", 40)

	assert.Equal(t, "image/jpeg", contentType)
	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.LessOrEqual(t, decoded.Bounds().Dx(), 40)
	assert.LessOrEqual(t, decoded.Bounds().Dy(), 40)
}

func TestTranscodeDoesNotUpscale(t *testing.T) {
	data := pngBytes(t, 20, 10)

	out, _ := transcode(data, "image/png", 400)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 20, decoded.Bounds().Dx())
}

func TestTranscodeNonImagePassthrough(t *testing.T) {
	data := []byte("%PDF-1.4 not an image")

	out, contentType := transcode(data, "application/pdf", 0)

	assert.Equal(t, data, out)
	assert.Equal(t, "application/pdf", contentType)
}

func TestTranscodeUndecodableImageFallsBack(t *testing.T) {
	data := []byte("claims to be an image but is not")

	out, contentType := transcode(data, "image/jpeg", 0)

	assert.Equal(t, data, out)
	assert.Equal(t, "image/jpeg", contentType)
}
