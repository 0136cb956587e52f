package imaging

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

func testImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func decodeDims(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy()
}

func TestNormalizePNGPassesThroughUnchanged(t *testing.T) {
	data := encodePNG(t, testImage(40, 30))

	result := Normalize(data, "image/png")

	assert.Equal(t, data, result.Data)
	assert.Equal(t, "image/png", result.ContentType)
	assert.False(t, result.Reencoded)
}

func TestNormalizeJPEGReencodesToPNG(t *testing.T) {
	data := encodeJPEG(t, testImage(40, 30))

	result := Normalize(data, "image/jpeg")

	assert.True(t, result.Reencoded)
	assert.Equal(t, "image/png", result.ContentType)
	width, height := decodeDims(t, result.Data)
	assert.Equal(t, 40, width)
	assert.Equal(t, 30, height)
}

func TestNormalizePreservesExactDimensions(t *testing.T) {
	for _, dims := range [][2]int{{1, 1}, {640, 480}, {317, 211}} {
		data := encodeJPEG(t, testImage(dims[0], dims[1]))

		result := Normalize(data, "image/jpeg")

		width, height := decodeDims(t, result.Data)
		assert.Equal(t, dims[0], width)
		assert.Equal(t, dims[1], height)
	}
}

func TestNormalizeUndecodableBytesDegradeToOriginal(t *testing.T) {
	data := []byte("definitely not an image")

	result := Normalize(data, "application/octet-stream")

	assert.Equal(t, data, result.Data)
	assert.Equal(t, "application/octet-stream", result.ContentType)
	assert.False(t, result.Reencoded)
}

func TestNormalizeCorrectsMislabeledPNGContentType(t *testing.T) {
	data := encodePNG(t, testImage(10, 10))

	result := Normalize(data, "application/octet-stream")

	assert.Equal(t, "image/png", result.ContentType)
	assert.Equal(t, data, result.Data)
}

func TestUseNormalizedSizeFloor(t *testing.T) {
	original := make([]byte, 1000)

	assert.True(t, UseNormalized(original, make([]byte, 1000)))
	assert.True(t, UseNormalized(original, make([]byte, 800)))
	assert.True(t, UseNormalized(original, make([]byte, 1500)))
	assert.False(t, UseNormalized(original, make([]byte, 799)))
	assert.False(t, UseNormalized(original, nil))
}

func TestImageRefTags(t *testing.T) {
	var zero ImageRef
	assert.True(t, zero.IsZero())
	assert.False(t, zero.IsRemote())
	assert.False(t, zero.IsLocal())

	remote := RemoteImage("https://cdn.test/logo.png")
	assert.True(t, remote.IsRemote())
	assert.Equal(t, "https://cdn.test/logo.png", remote.URL)

	local := LocalImage([]byte{1, 2, 3}, "logo.png", "image/png")
	assert.True(t, local.IsLocal())
	assert.Equal(t, "logo.png", local.Filename)
}
