package service

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"bilingual-reader/internal/domain"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var errImageTooSmall = errors.New("image below minimum size")

// rawImage is an encoded image found in a document, before decoding.
type rawImage struct {
	data     []byte
	caption  string
	position float64
	page     *int
}

// ImageProcessor decodes embedded images and prepares them for rendering.
type ImageProcessor struct {
	logger domain.Logger
	opts   domain.ImageOptions
}

// NewImageProcessor creates an image processor with the given size limits.
func NewImageProcessor(logger domain.Logger, opts domain.ImageOptions) *ImageProcessor {
	return &ImageProcessor{
		logger: logger,
		opts:   opts,
	}
}

// Decode turns raw images into image blocks, in order. Images that fail to
// decode or are smaller than the minimum size are skipped with a warning.
// Index is assigned to the surviving images only.
func (p *ImageProcessor) Decode(raws []rawImage) []domain.ImageBlock {
	blocks := make([]domain.ImageBlock, 0, len(raws))
	for i, raw := range raws {
		img, err := p.decode(raw.data)
		if err != nil {
			p.logger.Warn("Skipping image", "image", i, "page", pageValue(raw.page), "error", err)
			continue
		}
		blocks = append(blocks, domain.ImageBlock{
			Image:    img,
			Caption:  raw.caption,
			Position: raw.position,
			Page:     raw.page,
			Index:    len(blocks),
		})
	}
	return blocks
}

func (p *ImageProcessor) decode(data []byte) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() < p.opts.MinSize || b.Dy() < p.opts.MinSize {
		return nil, fmt.Errorf("%w: %s %dx%d", errImageTooSmall, format, b.Dx(), b.Dy())
	}
	return p.Optimize(img), nil
}

// Optimize scales img down to fit the configured maximum width and height,
// keeping its aspect ratio, and flattens any transparency onto white.
func (p *ImageProcessor) Optimize(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	scale := 1.0
	if p.opts.MaxWidth > 0 && w > p.opts.MaxWidth {
		scale = min(scale, float64(p.opts.MaxWidth)/float64(w))
	}
	if p.opts.MaxHeight > 0 && h > p.opts.MaxHeight {
		scale = min(scale, float64(p.opts.MaxHeight)/float64(h))
	}

	nw := max(1, int(float64(w)*scale))
	nh := max(1, int(float64(h)*scale))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)
	if scale < 1 {
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	} else {
		xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Over)
	}
	return dst
}

func pageValue(page *int) int {
	if page == nil {
		return 0
	}
	return *page
}
