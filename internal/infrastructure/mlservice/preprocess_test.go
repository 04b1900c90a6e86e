package mlservice

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DRSN-tech/indexer-backend/pkg/e"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPreprocessImage_TensorShape(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 64, A: 255})
		}
	}

	tensor, err := PreprocessImage(encodePNG(t, img))
	require.NoError(t, err)
	assert.Len(t, tensor, channels*cropSize*cropSize)

	for _, v := range tensor {
		assert.GreaterOrEqual(t, v, float32(-1.0))
		assert.LessOrEqual(t, v, float32(1.0))
	}
}

func TestPreprocessImage_Deterministic(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 300, 500))
	for y := 0; y < 500; y++ {
		for x := 0; x < 300; x++ {
			img.Set(x, y, color.RGBA{R: uint8((x * y) % 256), G: 128, B: uint8(y % 256), A: 255})
		}
	}
	data := encodePNG(t, img)

	first, err := PreprocessImage(data)
	require.NoError(t, err)
	second, err := PreprocessImage(data)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPreprocessImage_UniformColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 256, 256))
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 0, B: 255, A: 255})
		}
	}

	tensor, err := PreprocessImage(encodePNG(t, img))
	require.NoError(t, err)

	plane := cropSize * cropSize
	assert.InDelta(t, 1.0, float64(tensor[0]), 0.01)        // R
	assert.InDelta(t, -1.0, float64(tensor[plane]), 0.01)   // G
	assert.InDelta(t, 1.0, float64(tensor[2*plane]), 0.01)  // B
}

func TestPreprocessImage_SmallImageUpscaled(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 40))

	tensor, err := PreprocessImage(encodePNG(t, img))
	require.NoError(t, err)
	assert.Len(t, tensor, channels*cropSize*cropSize)
}

func TestPreprocessImage_InvalidData(t *testing.T) {
	_, err := PreprocessImage([]byte("definitely not an image"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, e.ErrDecodeImage))
}

func TestPreprocessImage_EmptyData(t *testing.T) {
	_, err := PreprocessImage(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, e.ErrDecodeImage))
}
