package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"bilingual-reader/internal/domain"
)

var testImageOptions = domain.ImageOptions{MaxWidth: 800, MaxHeight: 1200, MinSize: 50}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// buildEPUB writes a minimal two-chapter ePub. The spine lists chapter 2 first
// to check that reading order follows the spine, not the archive.
func buildEPUB(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func sampleEPUB(t *testing.T) []byte {
	return buildEPUB(t, map[string][]byte{
		"mimetype": []byte("application/epub+zip"),
		"META-INF/container.xml": []byte(`<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles><rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/></rootfiles>
</container>`),
		"OEBPS/content.opf": []byte(`<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>Sample</dc:title></metadata>
  <manifest>
    <item id="c1" href="text/ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="c2" href="text/ch2.xhtml" media-type="application/xhtml+xml"/>
    <item id="img" href="images/cover.png" media-type="image/png"/>
  </manifest>
  <spine><itemref idref="c1"/><itemref idref="c2"/></spine>
</package>`),
		"OEBPS/text/ch1.xhtml": []byte(`<html><head><title>ignored</title></head><body>
<h1>Chapter 1</h1>
<p>Caf` + "e\u0301" + ` opens.</p>
<img src="../images/tiny.png" alt="tiny"/>
</body></html>`),
		"OEBPS/text/ch2.xhtml": []byte(`<html><body>
<h1>Chapter 2</h1>
<figure><img src="../images/cover.png" alt="alt text"/><figcaption>The  harbour</figcaption></figure>
<p>Second chapter.</p>
<img src="../images/missing.png"/>
</body></html>`),
		"OEBPS/images/cover.png": encodePNG(t, 1600, 400),
		"OEBPS/images/tiny.png":  encodePNG(t, 10, 10),
	})
}

func TestDocumentExtractor_EPUB(t *testing.T) {
	logger := NewMockLogger()
	extractor := NewDocumentExtractor(logger, testImageOptions)

	text, images, err := extractor.ExtractWithImages(context.Background(), "Sample.EPUB", sampleEPUB(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ch1 := strings.Index(text, "Chapter 1")
	ch2 := strings.Index(text, "Chapter 2")
	if ch1 < 0 || ch2 < 0 || ch1 > ch2 {
		t.Fatalf("expected chapters in spine order, got %q", text)
	}
	if strings.Contains(text, "ignored") {
		t.Fatalf("expected head title to be skipped, got %q", text)
	}
	if !strings.Contains(text, "Caf\u00e9 opens.") {
		t.Fatalf("expected NFC-normalized text, got %q", text)
	}

	if len(images) != 1 {
		t.Fatalf("expected 1 image after filtering, got %d", len(images))
	}
	img := images[0]
	if img.Caption != "The harbour" {
		t.Fatalf("expected figcaption to win over alt text, got %q", img.Caption)
	}
	if img.Position != 0.75 {
		t.Fatalf("expected position 0.75, got %v", img.Position)
	}
	if img.Page != nil {
		t.Fatalf("expected no page for ePub images, got %d", *img.Page)
	}
	if img.Index != 0 {
		t.Fatalf("expected index 0, got %d", img.Index)
	}
	if b := img.Image.Bounds(); b.Dx() != 800 || b.Dy() != 200 {
		t.Fatalf("expected image resized to 800x200, got %dx%d", b.Dx(), b.Dy())
	}
	if logger.count("WARN") != 1 {
		t.Fatalf("expected one warning for the tiny image, got %v", logger.messages)
	}

	textOnly, err := extractor.ExtractText(context.Background(), "Sample.epub", sampleEPUB(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if textOnly != text {
		t.Fatalf("expected text-only extraction to match, got %q", textOnly)
	}
}

func TestDocumentExtractor_PlainText(t *testing.T) {
	extractor := NewDocumentExtractor(NewMockLogger(), testImageOptions)
	data := []byte("\ufeffChapter 1\r\n\r\nHello.\xff")

	for _, name := range []string{"book.txt", "notes.md"} {
		text, images, err := extractor.ExtractWithImages(context.Background(), name, data)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if text != "Chapter 1\n\nHello." {
			t.Fatalf("%s: unexpected text %q", name, text)
		}
		if images == nil || len(images) != 0 {
			t.Fatalf("%s: expected empty image list, got %#v", name, images)
		}
	}
}

func TestDocumentExtractor_Errors(t *testing.T) {
	extractor := NewDocumentExtractor(NewMockLogger(), testImageOptions)

	if _, err := extractor.ExtractText(context.Background(), "book.mobi", []byte("x")); !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := extractor.ExtractText(context.Background(), "README", []byte("x")); !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat for a name without extension, got %v", err)
	}
	if _, err := extractor.ExtractText(context.Background(), "broken.epub", []byte("not a zip")); !errors.Is(err, domain.ErrInvalidFile) {
		t.Fatalf("expected ErrInvalidFile, got %v", err)
	}

	noContainer := buildEPUB(t, map[string][]byte{"mimetype": []byte("application/epub+zip")})
	if _, err := extractor.ExtractText(context.Background(), "empty.epub", noContainer); !errors.Is(err, domain.ErrInvalidFile) {
		t.Fatalf("expected ErrInvalidFile for missing container, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := extractor.ExtractText(ctx, "book.txt", []byte("x")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDocumentFormat(t *testing.T) {
	tests := map[string]string{
		"a.txt":         "txt",
		"A.TXT":         "txt",
		"dir/book.epub": "epub",
		"scan.Pdf":      "pdf",
		"notes.md":      "md",
	}
	for name, want := range tests {
		got, err := DocumentFormat(name)
		if err != nil || got != want {
			t.Fatalf("%s: expected %q, got %q (%v)", name, want, got, err)
		}
	}
}

func TestResolveHref(t *testing.T) {
	tests := []struct {
		dir, href, want string
	}{
		{"OEBPS/text", "../images/a.png", "OEBPS/images/a.png"},
		{"OEBPS", "text/ch%201.xhtml#part", "OEBPS/text/ch 1.xhtml"},
		{".", "ch1.xhtml", "ch1.xhtml"},
		{"OEBPS", "/images/a.png", "images/a.png"},
	}
	for _, tt := range tests {
		if got := resolveHref(tt.dir, tt.href); got != tt.want {
			t.Fatalf("resolveHref(%q, %q): expected %q, got %q", tt.dir, tt.href, tt.want, got)
		}
	}
}
