package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"regexp"
	"testing"

	"github.com/heritage-atlas/heritage-api/internal/gallery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFixture(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 3), B: uint8(x ^ y), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCompress_ImageReencodedAsJPEG(t *testing.T) {
	c := NewCompressor(20)
	src := pngFixture(t, 64, 48)

	out, err := c.Compress("Taj Mahal (east).PNG", "image/png", src)
	require.NoError(t, err)
	assert.Equal(t, gallery.KindImage, out.Kind)
	assert.Equal(t, "image/jpeg", out.ContentType)
	assert.Regexp(t, regexp.MustCompile(`^taj-mahal--east-\d+\.jpg$`), out.Filename)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 48, cfg.Height)
}

func TestCompress_VideoPassesThrough(t *testing.T) {
	c := NewCompressor(20)
	src := []byte("\x00\x00\x00\x18ftypmp42 not really a video")

	out, err := c.Compress("walkthrough.mov", "video/quicktime", src)
	require.NoError(t, err)
	assert.Equal(t, gallery.KindVideo, out.Kind)
	assert.Equal(t, src, out.Data)
	assert.Regexp(t, regexp.MustCompile(`^walkthrough-\d+\.mp4$`), out.Filename)
}

func TestCompress_SniffsMissingType(t *testing.T) {
	c := NewCompressor(20)
	out, err := c.Compress("gate.png", "", pngFixture(t, 8, 8))
	require.NoError(t, err)
	assert.Equal(t, gallery.KindImage, out.Kind)
}

func TestCompress_FailureIsGeneric(t *testing.T) {
	c := NewCompressor(20)
	out, err := c.Compress("broken.jpg", "image/jpeg", []byte("definitely not an image"))
	require.ErrorIs(t, err, ErrCompressionFailed)
	assert.Nil(t, out)

	_, err = c.Compress("empty.jpg", "image/jpeg", nil)
	require.ErrorIs(t, err, ErrCompressionFailed)
}

func TestCompress_UniqueSuffix(t *testing.T) {
	c := NewCompressor(20)
	n := int64(0)
	c.suffix = func() int64 { n++; return n }
	src := pngFixture(t, 4, 4)

	a, err := c.Compress("fort.png", "image/png", src)
	require.NoError(t, err)
	b, err := c.Compress("fort.png", "image/png", src)
	require.NoError(t, err)
	assert.Equal(t, "fort-1.jpg", a.Filename)
	assert.Equal(t, "fort-2.jpg", b.Filename)
}

func TestStem(t *testing.T) {
	assert.Equal(t, "media", stem(""))
	assert.Equal(t, "media", stem("...."))
	assert.Equal(t, "photo", stem(`C:\Users\me\photo.jpeg`))
	assert.Equal(t, "red-fort", stem("../Red Fort.webp"))
}
