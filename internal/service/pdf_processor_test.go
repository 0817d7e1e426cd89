package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func readFixturePDF(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "two_pages.pdf"))
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	return data
}

func TestPDFProcessor_Extract(t *testing.T) {
	p := NewPDFProcessor(NewMockLogger())

	text, images, err := p.Extract(context.Background(), readFixturePDF(t), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := strings.Index(text, "First page text.")
	second := strings.Index(text, "Second page text.")
	if first < 0 || second < 0 || second < first {
		t.Fatalf("expected both pages in order, got %q", text)
	}
	if !strings.Contains(text[first:second], "\n") {
		t.Fatalf("expected pages to be separated by a newline, got %q", text)
	}

	if len(images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(images))
	}
	img := images[0]
	if img.page == nil || *img.page != 1 {
		t.Fatalf("expected image on page 1, got %v", img.page)
	}
	if img.position != 0.25 {
		t.Fatalf("expected position 0.25, got %v", img.position)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.data))
	if err != nil {
		t.Fatalf("expected decodable image data: %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 64 {
		t.Fatalf("expected 64x64 image, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestPDFProcessor_ExtractTextOnly(t *testing.T) {
	p := NewPDFProcessor(NewMockLogger())

	text, images, err := p.Extract(context.Background(), readFixturePDF(t), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "Second page text.") {
		t.Fatalf("unexpected text: %q", text)
	}
	if len(images) != 0 {
		t.Fatalf("expected no images, got %d", len(images))
	}
}

func TestPDFProcessor_InvalidFile(t *testing.T) {
	p := NewPDFProcessor(NewMockLogger())
	if _, _, err := p.Extract(context.Background(), []byte("not a pdf"), false); err == nil {
		t.Fatalf("expected error for invalid PDF")
	}
}

// cancelingLogger cancels the extraction context when the first page starts.
type cancelingLogger struct {
	*MockLogger
	cancel context.CancelFunc
}

func (l *cancelingLogger) Debug(msg string, args ...interface{}) {
	l.MockLogger.Debug(msg, args...)
	if msg == "PDF processing page" {
		l.cancel()
	}
}

func TestPDFProcessor_CancelledMidDocument(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := NewPDFProcessor(&cancelingLogger{MockLogger: NewMockLogger(), cancel: cancel})

	_, _, err := p.Extract(ctx, readFixturePDF(t), true)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPDFProcessor_PageTimeoutWaitsForWorker(t *testing.T) {
	logger := NewMockLogger()
	p := NewPDFProcessor(logger)
	p.pageTimeout = time.Nanosecond

	// Pages that time out are skipped; the document is closed only after their workers return.
	if _, _, err := p.Extract(context.Background(), readFixturePDF(t), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Running again on the same processor must still work.
	p.pageTimeout = defaultPageTimeout
	text, _, err := p.Extract(context.Background(), readFixturePDF(t), false)
	if err != nil || !strings.Contains(text, "First page text.") {
		t.Fatalf("expected full extraction, got %q, %v", text, err)
	}
}

func TestImagesFromHTML(t *testing.T) {
	png := fakePNGBytes()
	markup := `<html><body><div>
<p>Some text</p>
<img alt="map" src="data:image/png;base64,` + base64.StdEncoding.EncodeToString(png) + `"/>
<img src="http://example.com/remote.png"/>
<img src="data:image/png,notbase64"/>
</div></body></html>`

	images := imagesFromHTML(markup)
	if len(images) != 1 {
		t.Fatalf("expected 1 embedded image, got %d", len(images))
	}
	if images[0].caption != "map" {
		t.Fatalf("expected alt text caption, got %q", images[0].caption)
	}
	if string(images[0].data) != string(png) {
		t.Fatalf("expected decoded image bytes")
	}
}

func TestDecodeDataURI(t *testing.T) {
	tests := []struct {
		uri  string
		want string
		ok   bool
	}{
		{uri: "data:image/jpeg;base64,aGVsbG8=", want: "hello", ok: true},
		{uri: "data:image/jpeg;base64,!!!", ok: false},
		{uri: "data:text/plain,hello", ok: false},
		{uri: "images/a.png", ok: false},
	}
	for _, tt := range tests {
		got, ok := decodeDataURI(tt.uri)
		if ok != tt.ok || string(got) != tt.want {
			t.Fatalf("decodeDataURI(%q): expected %q/%v, got %q/%v", tt.uri, tt.want, tt.ok, got, ok)
		}
	}
}

func TestSanitizeText(t *testing.T) {
	got := sanitizeText("a\x00b\tc\nd\x07e\x7f")
	if got != "ab\tc\nde" {
		t.Fatalf("unexpected sanitized text: %q", got)
	}
}

func fakePNGBytes() []byte {
	return []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 1, 2, 3}
}
