package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	"bilingual-reader/internal/domain"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/net/html"
)

const defaultPageTimeout = 90 * time.Second

// PDFProcessor handles PDF text and image extraction
type PDFProcessor struct {
	logger      domain.Logger
	pageTimeout time.Duration
}

// NewPDFProcessor creates a new PDF processor
func NewPDFProcessor(logger domain.Logger) *PDFProcessor {
	return &PDFProcessor{
		logger:      logger,
		pageTimeout: defaultPageTimeout,
	}
}

// Extract returns the text of every page joined by newlines. With withImages
// set it also collects the images embedded in each page, positioned at the
// centre of their page.
func (p *PDFProcessor) Extract(ctx context.Context, data []byte, withImages bool) (string, []rawImage, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", nil, fmt.Errorf("%w: failed to open PDF: %v", domain.ErrInvalidFile, err)
	}
	// Close frees the C context, so it must wait for any page worker still running.
	var workers sync.WaitGroup
	defer func() {
		workers.Wait()
		doc.Close()
	}()

	numPages := doc.NumPage()
	pages := make([]string, 0, numPages)
	var images []rawImage

	for pageNum := 0; pageNum < numPages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}
		p.logger.Debug("PDF processing page", "page", pageNum+1, "total", numPages)

		text, err := p.pageText(ctx, &workers, doc, pageNum)
		if err != nil {
			p.logger.Warn("Failed to extract text from page", "page_num", pageNum+1, "total", numPages, "error", err)
		} else if text = sanitizeText(text); strings.TrimSpace(text) != "" {
			pages = append(pages, text)
		}

		if !withImages {
			continue
		}
		markup, err := doc.HTML(pageNum, false)
		if err != nil {
			p.logger.Warn("Failed to render page images", "page_num", pageNum+1, "error", err)
			continue
		}
		page := pageNum + 1
		position := (float64(pageNum) + 0.5) / float64(numPages)
		for _, img := range imagesFromHTML(markup) {
			images = append(images, rawImage{
				data:     img.data,
				caption:  img.caption,
				position: position,
				page:     &page,
			})
		}
	}

	return strings.Join(pages, "\n"), images, nil
}

// pageText extracts one page, giving up after the page timeout. An abandoned
// worker keeps running until go-fitz returns and is tracked by workers.
func (p *PDFProcessor) pageText(ctx context.Context, workers *sync.WaitGroup, doc *fitz.Document, pageNum int) (string, error) {
	type pageResult struct {
		text string
		err  error
	}

	resultCh := make(chan pageResult, 1)
	workers.Add(1)
	go func() {
		defer workers.Done()
		t, e := doc.Text(pageNum)
		resultCh <- pageResult{text: t, err: e}
	}()

	timer := time.NewTimer(p.pageTimeout)
	defer timer.Stop()

	select {
	case res := <-resultCh:
		return res.text, res.err
	case <-timer.C:
		return "", fmt.Errorf("timeout after %v", p.pageTimeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

type embeddedImage struct {
	data    []byte
	caption string
}

// imagesFromHTML collects the data-URI images of a page rendered as HTML, in document order.
func imagesFromHTML(markup string) []embeddedImage {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil
	}

	var out []embeddedImage
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "img") {
			if data, ok := decodeDataURI(attr(n, "src")); ok {
				out = append(out, embeddedImage{data: data, caption: strings.TrimSpace(attr(n, "alt"))})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

// decodeDataURI decodes a base64 "data:" URI. Other URIs are rejected.
func decodeDataURI(uri string) ([]byte, bool) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, false
	}
	header, payload, ok := strings.Cut(uri[len("data:"):], ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, false
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, false
	}
	return data, true
}

// sanitizeText drops NUL and other control characters, keeping tabs and line breaks.
func sanitizeText(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return r
		case r < 0x20 || r == 0x7F:
			return -1
		}
		return r
	}, text)
}
