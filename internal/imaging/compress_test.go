package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testImage renders a gradient so JPEG has something realistic to compress.
func testImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: uint8((x + y) % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCompress_DownscalesAndFitsBudget(t *testing.T) {
	src := testImage(t, 1600, 1200)

	out, err := Compress(src, LogoOptions)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "data:image/jpeg;base64,"))

	raw, err := DecodeDataURI(out)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(raw), LogoOptions.MaxBytes)

	img, err := jpeg.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.LessOrEqual(t, img.Bounds().Dx(), LogoOptions.MaxWidth)
	assert.LessOrEqual(t, img.Bounds().Dy(), LogoOptions.MaxHeight)
}

func TestCompress_NeverUpscales(t *testing.T) {
	src := testImage(t, 120, 80)

	out, err := Compress(src, PosterOptions)
	require.NoError(t, err)

	raw, err := DecodeDataURI(out)
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())
}

func TestCompress_PreservesAspectRatio(t *testing.T) {
	src := testImage(t, 800, 200)

	out, err := Compress(src, Options{MaxWidth: 400, MaxHeight: 400, Quality: 0.8, MaxBytes: 0})
	require.NoError(t, err)

	raw, err := DecodeDataURI(out)
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

// flatImage renders a single solid color: worst case for JPEG overhead,
// best case for lossless compression.
func flatImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 90, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// noiseImage renders per-pixel noise: lossless encoding cannot shrink it,
// so JPEG always wins.
func noiseImage(t *testing.T, w, h int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256)), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCompress_FallsBackToPNGForFlatArtwork(t *testing.T) {
	src := flatImage(t, 640, 640)

	out, err := Compress(src, Options{MaxWidth: 640, MaxHeight: 640, Quality: 0.70, MaxBytes: 2048, MaxAttempts: 6})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "data:image/png;base64,"))

	raw, err := DecodeDataURI(out)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(raw), 2048)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 640, img.Bounds().Dy())
}

func TestCompress_KeepsJPEGWhenLosslessIsLarger(t *testing.T) {
	src := noiseImage(t, 200, 200)

	// Impossible budget: every encoding overshoots, so the smallest JPEG is
	// returned and the PNG attempt is discarded.
	out, err := Compress(src, Options{MaxWidth: 200, MaxHeight: 200, Quality: 0.70, MaxBytes: 10, MaxAttempts: 6})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "data:image/jpeg;base64,"))
}

func TestCompress_NoFallbackWithinBudget(t *testing.T) {
	src := flatImage(t, 100, 100)

	out, err := Compress(src, LogoOptions)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "data:image/jpeg;base64,"))
}

func TestCompressDataURI_RoundTrip(t *testing.T) {
	uri := EncodeDataURI("image/png", testImage(t, 500, 500))

	out, err := CompressDataURI(uri, LogoOptions)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "data:image/jpeg;base64,"))
}

func TestCompress_RejectsGarbage(t *testing.T) {
	_, err := Compress([]byte("not an image"), LogoOptions)
	assert.Error(t, err)
}

func TestDecodeDataURI(t *testing.T) {
	t.Run("not a data uri", func(t *testing.T) {
		_, err := DecodeDataURI("https://example.com/a.png")
		assert.Error(t, err)
	})
	t.Run("missing comma", func(t *testing.T) {
		_, err := DecodeDataURI("data:image/png;base64")
		assert.Error(t, err)
	})
	t.Run("non base64 encoding", func(t *testing.T) {
		_, err := DecodeDataURI("data:text/plain,hello")
		assert.Error(t, err)
	})
	t.Run("round trip", func(t *testing.T) {
		uri := EncodeDataURI("application/octet-stream", []byte{1, 2, 3})
		raw, err := DecodeDataURI(uri)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, raw)
	})
}
