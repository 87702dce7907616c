package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"golang.org/x/image/draw"

	// Decoder for animated uploads the admin panel accepts.
	_ "image/gif"
)

// Options bound the output of Compress.
type Options struct {
	MaxWidth    int
	MaxHeight   int
	Quality     float64 // initial JPEG quality factor, 0..1
	MaxBytes    int     // byte budget for the encoded payload
	MaxAttempts int     // quality-reduction attempts before giving up
}

// LogoOptions is the preset for brand logos.
var LogoOptions = Options{MaxWidth: 400, MaxHeight: 400, Quality: 0.70, MaxBytes: 60 * 1024, MaxAttempts: 6}

// PosterOptions is the preset for carousel posters.
var PosterOptions = Options{MaxWidth: 900, MaxHeight: 900, Quality: 0.75, MaxBytes: 120 * 1024, MaxAttempts: 6}

const minQuality = 0.1

// CompressDataURI decodes a data URI and compresses the image it carries.
// Callers treat any error as non-fatal and keep the original payload.
func CompressDataURI(src string, opts Options) (string, error) {
	data, err := DecodeDataURI(src)
	if err != nil {
		return "", err
	}
	return Compress(data, opts)
}

// Compress downscales the image to the configured bounds (never upscales)
// and re-encodes it as a JPEG data URI within the byte budget, stepping the
// quality factor down until it fits. When the budget is still exceeded after
// the last quality step, one PNG re-encode is tried and kept only if it beats
// the smallest JPEG; flat-color artwork often compresses far better lossless.
// If neither encoding fits the budget the smallest one reached is returned.
func Compress(data []byte, opts Options) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	img = downscale(img, opts.MaxWidth, opts.MaxHeight)

	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = 6
	}

	q := opts.Quality
	if q <= 0 || q > 1 {
		q = 0.75
	}

	var best []byte
	for i := 0; i < attempts; i++ {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: int(q*100 + 0.5)}); err != nil {
			return "", fmt.Errorf("encode jpeg: %w", err)
		}
		if best == nil || buf.Len() < len(best) {
			best = append([]byte(nil), buf.Bytes()...)
		}
		if opts.MaxBytes <= 0 || buf.Len() <= opts.MaxBytes {
			break
		}
		// first step is coarse, later steps finer
		if i == 0 {
			q -= 0.1
		} else {
			q -= 0.05
		}
		if q < minQuality {
			q = minQuality
		}
	}

	if opts.MaxBytes > 0 && len(best) > opts.MaxBytes {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err == nil && buf.Len() < len(best) {
			return EncodeDataURI("image/png", buf.Bytes()), nil
		}
	}

	return EncodeDataURI("image/jpeg", best), nil
}

// downscale applies a uniform ratio of min(maxW/w, maxH/h, 1).
func downscale(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 || maxW <= 0 || maxH <= 0 {
		return img
	}

	ratio := minf(float64(maxW)/float64(w), float64(maxH)/float64(h))
	if ratio >= 1 {
		return img
	}

	dw := int(float64(w)*ratio + 0.5)
	dh := int(float64(h)*ratio + 0.5)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// DecodeDataURI returns the raw bytes of a base64 data URI.
func DecodeDataURI(uri string) ([]byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URI")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("unsupported data URI encoding")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URI payload: %w", err)
	}
	return data, nil
}

// EncodeDataURI wraps raw bytes in a base64 data URI.
func EncodeDataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
