package imagepkg

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrInvalidImage means the payload could not be read as a raster image.
var ErrInvalidImage = errors.New("couldn't read the image")

const pngDataPrefix = "data:image/png;base64,"

// Decode reads an encoded image, applying EXIF orientation.
func Decode(b []byte) (image.Image, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	img, err := imaging.Decode(bytes.NewReader(b), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if err := Validate(img); err != nil {
		return nil, err
	}
	return img, nil
}

// Validate rejects nil and zero-sized images.
func Validate(img image.Image) error {
	if img == nil {
		return fmt.Errorf("%w: no image", ErrInvalidImage)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidImage, b.Dx(), b.Dy())
	}
	return nil
}

// EncodePNG encodes img as PNG. Output is deterministic for identical pixels.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURL encodes img as a self-contained PNG data URL.
func DataURL(img image.Image) (string, error) {
	b, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return pngDataPrefix + base64.StdEncoding.EncodeToString(b), nil
}

// DecodeDataURL extracts the payload of a base64 image data URL.
func DecodeDataURL(s string) ([]byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, fmt.Errorf("%w: not a data URL", ErrInvalidImage)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data URL", ErrInvalidImage)
	}
	mime, enc, _ := strings.Cut(meta, ";")
	if !strings.HasPrefix(mime, "image/") || enc != "base64" {
		return nil, fmt.Errorf("%w: unsupported data URL type %q", ErrInvalidImage, meta)
	}
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return b, nil
}

// Load resolves an image reference: a data URL or an http(s) URL.
// The raw encoded bytes are returned alongside the decoded image.
func Load(ctx context.Context, ref string) (image.Image, []byte, error) {
	var (
		b   []byte
		err error
	)
	switch {
	case strings.HasPrefix(ref, "data:"):
		b, err = DecodeDataURL(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		b, err = DownloadBytes(ctx, ref)
	default:
		return nil, nil, fmt.Errorf("%w: unrecognized reference", ErrInvalidImage)
	}
	if err != nil {
		return nil, nil, err
	}
	img, err := Decode(b)
	if err != nil {
		return nil, nil, err
	}
	return img, b, nil
}

// Normalize returns img with its bounds starting at the origin.
func Normalize(img image.Image) image.Image {
	if img.Bounds().Min == (image.Point{}) {
		return img
	}
	return imaging.Clone(img)
}
