// Package imageprep checks product images before upload and shrinks the ones
// larger than the configured bound.
package imageprep

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"net/http"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"admin-console/internal/util"
	"admin-console/pkg/apierror"
)

const (
	DefaultMaxDimension = 2048
	jpegQuality         = 90
)

// webFormats are uploaded as-is when small enough.
var webFormats = map[string]bool{"jpeg": true, "png": true, "gif": true, "webp": true}

type Image struct {
	Name        string
	ContentType string
	Data        []byte
	Width       int
	Height      int
	Resized     bool
}

type Preparer struct {
	maxDimension int
	maxBytes     int64
}

// New returns a Preparer. maxBytes of zero disables the size check.
func New(maxDimension int, maxBytes int64) *Preparer {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	return &Preparer{maxDimension: maxDimension, maxBytes: maxBytes}
}

// Prepare validates one upload and returns it ready to send. The name is
// cleaned before use.
func (p *Preparer) Prepare(name string, data []byte) (Image, error) {
	name = util.CleanFilename(name)
	if len(data) == 0 {
		return Image{}, apierror.New("UNSUPPORTED_TYPE", "empty file", name, http.StatusUnsupportedMediaType)
	}
	if p.maxBytes > 0 && int64(len(data)) > p.maxBytes {
		return Image{}, apierror.New("FILE_TOO_LARGE", "image exceeds upload limit",
			fmt.Sprintf("%s is %d bytes, limit is %d", name, len(data), p.maxBytes), http.StatusRequestEntityTooLarge)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		sniffed := http.DetectContentType(data)
		return Image{}, apierror.New("UNSUPPORTED_TYPE", "file is not a supported image", fmt.Sprintf("%s (%s)", name, sniffed), http.StatusUnsupportedMediaType)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Image{}, apierror.New("UNSUPPORTED_TYPE", "invalid image dimensions", name, http.StatusUnsupportedMediaType)
	}

	fits := cfg.Width <= p.maxDimension && cfg.Height <= p.maxDimension
	if fits && webFormats[format] {
		return Image{
			Name:        name,
			ContentType: http.DetectContentType(data),
			Data:        data,
			Width:       cfg.Width,
			Height:      cfg.Height,
		}, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, apierror.New("UNSUPPORTED_TYPE", "cannot decode image", err.Error(), http.StatusUnsupportedMediaType)
	}

	return p.scaleToJPEG(name, src)
}

func (p *Preparer) scaleToJPEG(name string, src image.Image) (Image, error) {
	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	maxDim := max(width, height)
	scale := float64(p.maxDimension) / float64(maxDim)
	if scale > 1 {
		scale = 1
	}

	targetWidth := max(int(math.Round(float64(width)*scale)), 1)
	targetHeight := max(int(math.Round(float64(height)*scale)), 1)

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Image{}, fmt.Errorf("encode %s: %w", name, err)
	}

	return Image{
		Name:        jpegName(name),
		ContentType: "image/jpeg",
		Data:        buf.Bytes(),
		Width:       targetWidth,
		Height:      targetHeight,
		Resized:     targetWidth != width || targetHeight != height,
	}, nil
}

func jpegName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".jpg" || ext == ".jpeg" {
		return name
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == "" {
		base = "image"
	}
	return base + ".jpg"
}
