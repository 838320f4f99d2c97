// Package media turns raw uploads into the bytes that are written to object storage.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/heritage-atlas/heritage-api/internal/gallery"
)

// ErrCompressionFailed wraps every decode or encode failure.
var ErrCompressionFailed = errors.New("compression failed")

const (
	DefaultQuality = 20

	videoExt         = ".mp4"
	videoContentType = "video/mp4"
	imageExt         = ".jpg"
	imageContentType = "image/jpeg"

	suffixSpace = 1_000_000_000
)

// Compressed is the storable form of an upload.
type Compressed struct {
	Filename    string
	ContentType string
	Kind        gallery.MediaKind
	Data        []byte
}

// Compressor re-encodes images at a fixed low quality and passes video through.
type Compressor struct {
	quality int
	suffix  func() int64
}

func NewCompressor(quality int) *Compressor {
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}
	return &Compressor{quality: quality, suffix: func() int64 { return rand.Int63n(suffixSpace) }}
}

// Compress produces the filename and payload for name. declaredType is the
// client-supplied media type; it is sniffed from data when missing.
func (c *Compressor) Compress(name, declaredType string, data []byte) (*Compressed, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrCompressionFailed)
	}
	mediaType := normalizeType(declaredType)
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = mimetype.Detect(data).String()
	}

	if strings.HasPrefix(mediaType, "video/") {
		return &Compressed{
			Filename:    c.filename(name, videoExt),
			ContentType: videoContentType,
			Kind:        gallery.KindVideo,
			Data:        data,
		}, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrCompressionFailed, mediaType, err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(c.quality)); err != nil {
		return nil, fmt.Errorf("%w: encode jpeg: %v", ErrCompressionFailed, err)
	}
	return &Compressed{
		Filename:    c.filename(name, imageExt),
		ContentType: imageContentType,
		Kind:        gallery.KindImage,
		Data:        buf.Bytes(),
	}, nil
}

func normalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

func (c *Compressor) filename(original, ext string) string {
	return fmt.Sprintf("%s-%d%s", stem(original), c.suffix(), ext)
}

// stem reduces the original name to a key-safe base.
func stem(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" || out == "." {
		return "media"
	}
	return out
}
