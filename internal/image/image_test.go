package imagepkg

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	return imaging.New(w, h, c)
}

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{A: 255}
	navy  = color.NRGBA{R: 20, G: 24, B: 60, A: 255}
)

func TestBackground(t *testing.T) {
	img := solid(20, 10, white)
	for x := 0; x < 5; x++ {
		img.SetNRGBA(x, 0, black)
	}
	assert.GreaterOrEqual(t, Background(img), 250.0)
	assert.Equal(t, 0.0, Background(solid(4, 4, black)))
}

func TestBinarizeLightBackground(t *testing.T) {
	img := solid(20, 10, white)
	img.SetNRGBA(3, 3, color.NRGBA{R: 40, G: 40, B: 40, A: 255})

	out := Binarize(img)
	assert.Equal(t, black, out.NRGBAAt(3, 3))
	assert.Equal(t, white, out.NRGBAAt(0, 0))
}

func TestBinarizeDarkBackgroundInverts(t *testing.T) {
	img := solid(20, 10, navy)
	img.SetNRGBA(5, 5, white)

	out := Binarize(img)
	assert.Equal(t, black, out.NRGBAAt(5, 5), "light text becomes dark")
	assert.Equal(t, white, out.NRGBAAt(0, 0), "dark background becomes white")
}

func TestDataURLRoundTrip(t *testing.T) {
	img := solid(6, 4, navy)
	url, err := DataURL(img)
	require.NoError(t, err)
	assert.Contains(t, url, "data:image/png;base64,")

	b, err := DecodeDataURL(url)
	require.NoError(t, err)
	got, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 4), got.Bounds())

	again, err := DataURL(img)
	require.NoError(t, err)
	assert.Equal(t, url, again)
}

func TestDecodeDataURLRejects(t *testing.T) {
	for _, s := range []string{
		"image/png;base64,AAAA",
		"data:text/plain;base64,AAAA",
		"data:image/png,AAAA",
		"data:image/png;base64",
		"data:image/png;base64,***",
	} {
		_, err := DecodeDataURL(s)
		assert.ErrorIs(t, err, ErrInvalidImage, s)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(nil)
	assert.ErrorIs(t, err, ErrInvalidImage)
	_, err = Decode([]byte("not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)
	assert.ErrorIs(t, Validate(image.NewNRGBA(image.Rect(0, 0, 0, 5))), ErrInvalidImage)
}

func TestLoad(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(8, 8, white)))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	ctx := context.Background()
	img, raw, err := Load(ctx, srv.URL+"/deck.png")
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, buf.Bytes(), raw)

	_, _, err = Load(ctx, srv.URL+"/missing")
	assert.Error(t, err)

	_, _, err = Load(ctx, "ftp://example.com/deck.png")
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestComposePreview(t *testing.T) {
	card := solid(10, 14, navy)
	main := make([]image.Image, 12)
	for i := range main {
		main[i] = card
	}
	extra := []image.Image{card, solid(20, 28, white)}

	out := ComposePreview([][]image.Image{main, extra, nil})
	b := out.Bounds()
	assert.Equal(t, 2*previewMargin+10*10+9*previewGap, b.Dx())
	// three card rows, one gap inside main, one zone gap
	assert.Equal(t, 2*previewMargin+3*14+previewGap+previewZoneGap, b.Dy())

	empty := ComposePreview(nil)
	assert.Equal(t, 1, empty.Bounds().Dx())
}

func TestGenerateQRPNG(t *testing.T) {
	b, err := GenerateQRPNG("https://example.com/replay/abc", 10)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, minQRSize, img.Bounds().Dx())

	_, err = GenerateQRPNG("", 256)
	assert.Error(t, err)
}
