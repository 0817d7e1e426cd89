package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"bilingual-reader/internal/domain"

	"golang.org/x/text/unicode/norm"
)

// DocumentExtractor implements domain.Extractor for plain text, Markdown, ePub and PDF files.
type DocumentExtractor struct {
	logger domain.Logger
	pdf    *PDFProcessor
	images *ImageProcessor
}

// NewDocumentExtractor creates an extractor that filters and resizes images with opts.
func NewDocumentExtractor(logger domain.Logger, opts domain.ImageOptions) *DocumentExtractor {
	return &DocumentExtractor{
		logger: logger,
		pdf:    NewPDFProcessor(logger),
		images: NewImageProcessor(logger, opts),
	}
}

// ExtractText returns the text of the named file.
func (e *DocumentExtractor) ExtractText(ctx context.Context, name string, data []byte) (string, error) {
	text, _, err := e.extract(ctx, name, data, false)
	return text, err
}

// ExtractWithImages returns the text of the named file and its images in
// extraction order. Plain text files never carry images.
func (e *DocumentExtractor) ExtractWithImages(ctx context.Context, name string, data []byte) (string, []domain.ImageBlock, error) {
	text, raws, err := e.extract(ctx, name, data, true)
	if err != nil {
		return "", nil, err
	}
	images := e.images.Decode(raws)
	e.logger.Debug("Extracted images", "file", name, "found", len(raws), "kept", len(images))
	return text, images, nil
}

func (e *DocumentExtractor) extract(ctx context.Context, name string, data []byte, withImages bool) (string, []rawImage, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	format, err := DocumentFormat(name)
	if err != nil {
		return "", nil, err
	}

	var (
		text string
		raws []rawImage
	)
	switch format {
	case "txt", "md":
		text = extractPlainText(data)
	case "epub":
		text, raws, err = extractEPUB(ctx, data, withImages)
	case "pdf":
		text, raws, err = e.pdf.Extract(ctx, data, withImages)
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to extract %s: %w", name, err)
	}

	return norm.NFC.String(text), raws, nil
}

// DocumentFormat returns the lower-case extension of name without its dot.
// Names with an unknown extension yield domain.ErrUnsupportedFormat.
func DocumentFormat(name string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(strings.TrimSpace(name)), "."))
	switch ext {
	case "txt", "md", "epub", "pdf":
		return ext, nil
	}
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", domain.ErrUnsupportedFormat, name)
	}
	return "", fmt.Errorf("%w: .%s", domain.ErrUnsupportedFormat, ext)
}
