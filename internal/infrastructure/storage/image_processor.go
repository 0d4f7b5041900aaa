package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// Rendition names produced for every uploaded photo.
const (
	RenditionOptimized = "optimized"
	RenditionThumb     = "thumb"
)

type ImageProcessor struct {
	MaxSize int64 // bytes
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{MaxSize: 4_500_000} // matches the upload body limit
}

// ValidateImage rejects oversized files and anything that is not JPEG/PNG.
func (p *ImageProcessor) ValidateImage(data []byte) error {
	if int64(len(data)) > p.MaxSize {
		return fmt.Errorf("image exceeds %.1fMB", float64(p.MaxSize)/(1024*1024))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("not an image: %w", err)
	}
	switch format {
	case "jpeg", "png":
		return nil
	default:
		return fmt.Errorf("image format %s not allowed (only jpeg/png)", format)
	}
}

// ProcessImage returns the renditions stored for each submission:
// optimized (1600px, album/detail view) and thumb (400px, wall tiles).
func (p *ImageProcessor) ProcessImage(data []byte) (map[string][]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	sizes := map[string]int{
		RenditionOptimized: 1600,
		RenditionThumb:     400,
	}

	renditions := map[string][]byte{}
	for name, size := range sizes {
		resized := imaging.Fit(img, size, size, imaging.Lanczos)
		b := new(bytes.Buffer)
		if err := jpeg.Encode(b, resized, &jpeg.Options{Quality: 90}); err != nil {
			return nil, fmt.Errorf("cannot encode %s: %w", name, err)
		}
		renditions[name] = b.Bytes()
	}
	return renditions, nil
}
