package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

var (
	ErrNotAnImage    = errors.New("not an image or corrupted")
	ErrImageTooLarge = errors.New("image is too large")
)

var contentTypes = map[string]string{
	"gif":  "image/gif",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

// DefaultMaxPixels bounds width*height before any pixel buffer is allocated.
const DefaultMaxPixels = 40_000_000

type ImageProcessor struct {
	MaxSize       int64 // bytes
	MaxPixels     int64 // width * height
	ThumbnailSize int   // px, longest side
}

func NewImageProcessor(maxSize int64, thumbnailSize int) *ImageProcessor {
	if maxSize <= 0 {
		maxSize = 5 * 1024 * 1024
	}
	if thumbnailSize <= 0 {
		thumbnailSize = 300
	}
	return &ImageProcessor{MaxSize: maxSize, MaxPixels: DefaultMaxPixels, ThumbnailSize: thumbnailSize}
}

// checkDimensions reads only the header so that a small file claiming huge
// dimensions is rejected before the decoder allocates its pixel buffer.
func (p *ImageProcessor) checkDimensions(data []byte) (string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return "", fmt.Errorf("%w: empty dimensions", ErrNotAnImage)
	}

	limit := p.MaxPixels
	if limit <= 0 {
		limit = DefaultMaxPixels
	}
	if int64(cfg.Width)*int64(cfg.Height) > limit {
		return "", fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, cfg.Width, cfg.Height, limit)
	}
	return format, nil
}

// CheckSize rejects payloads over MaxSize. Callers that know the upload size
// up front use it to skip reading the body.
func (p *ImageProcessor) CheckSize(size int64) error {
	if size > p.MaxSize {
		return fmt.Errorf("%w: exceeds %d bytes", ErrImageTooLarge, p.MaxSize)
	}
	return nil
}

// ValidateImage checks the header, then fully decodes data and returns its
// format and content type. Truncated or corrupted payloads fail even when the
// header looks valid.
func (p *ImageProcessor) ValidateImage(data []byte) (format, contentType string, err error) {
	if len(data) == 0 {
		return "", "", ErrNotAnImage
	}
	if err = p.CheckSize(int64(len(data))); err != nil {
		return "", "", err
	}

	if format, err = p.checkDimensions(data); err != nil {
		return "", "", err
	}
	if _, ok := contentTypes[format]; !ok {
		return "", "", fmt.Errorf("%w: format %s not allowed", ErrNotAnImage, format)
	}

	if _, _, err = image.Decode(bytes.NewReader(data)); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}

	contentType, ok := contentTypes[format]
	if !ok {
		return "", "", fmt.Errorf("%w: format %s not allowed", ErrNotAnImage, format)
	}
	return format, contentType, nil
}

// Extension maps a decoded format to a file extension for object keys.
func Extension(format string) string {
	if format == "jpeg" {
		return ".jpg"
	}
	return "." + format
}

// Thumbnail fits the image into a ThumbnailSize square and encodes it as JPEG.
func (p *ImageProcessor) Thumbnail(data []byte) ([]byte, error) {
	if _, err := p.checkDimensions(data); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	resized := imaging.Fit(img, p.ThumbnailSize, p.ThumbnailSize, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, resized, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("cannot encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
