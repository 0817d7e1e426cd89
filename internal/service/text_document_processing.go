package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"bilingual-reader/internal/domain"

	"golang.org/x/net/html"
)

// extractPlainText decodes a UTF-8 text file, dropping invalid bytes and a leading BOM.
func extractPlainText(data []byte) string {
	text := string(bytes.ToValidUTF8(data, []byte{}))
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// --- EPUB extraction ---

// extractEPUB returns the text of the spine documents in reading order. With
// withImages set it also returns every <img> that resolves to a file in the
// archive, positioned at the centre of its spine document.
func extractEPUB(ctx context.Context, epubBytes []byte, withImages bool) (string, []rawImage, error) {
	zr, err := zip.NewReader(bytes.NewReader(epubBytes), int64(len(epubBytes)))
	if err != nil {
		return "", nil, fmt.Errorf("%w: failed to open epub: %v", domain.ErrInvalidFile, err)
	}

	containerBytes, err := readZipFile(zr, "META-INF/container.xml")
	if err != nil {
		return "", nil, fmt.Errorf("%w: missing container.xml: %v", domain.ErrInvalidFile, err)
	}

	opfPath, err := findOPFPath(containerBytes)
	if err != nil || strings.TrimSpace(opfPath) == "" {
		return "", nil, fmt.Errorf("%w: missing package path", domain.ErrInvalidFile)
	}

	opfBytes, err := readZipFile(zr, opfPath)
	if err != nil {
		return "", nil, fmt.Errorf("%w: missing package file: %v", domain.ErrInvalidFile, err)
	}

	spine := parseSpine(opfBytes)
	opfDir := path.Dir(opfPath)

	chapters := make([]string, 0, len(spine))
	var images []rawImage
	for i, href := range spine {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}

		full := resolveHref(opfDir, href)
		b, err := readZipFile(zr, full)
		if err != nil {
			// Best-effort: skip missing items.
			continue
		}
		doc, err := html.Parse(bytes.NewReader(b))
		if err != nil {
			continue
		}

		if t := normalizeText(htmlToText(doc)); t != "" {
			chapters = append(chapters, t)
		}

		if !withImages {
			continue
		}
		position := (float64(i) + 0.5) / float64(len(spine))
		for _, ref := range findImageRefs(doc) {
			data, err := readImageFile(zr, path.Dir(full), ref.src)
			if err != nil {
				continue
			}
			images = append(images, rawImage{data: data, caption: ref.caption, position: position})
		}
	}

	return strings.Join(chapters, "\n\n"), images, nil
}

// resolveHref resolves a manifest or <img> reference against the directory of the referring file.
func resolveHref(dir, href string) string {
	href = strings.TrimSpace(href)
	if i := strings.IndexAny(href, "#?"); i >= 0 {
		href = href[:i]
	}
	if unescaped, err := url.PathUnescape(href); err == nil && unescaped != "" {
		href = unescaped
	}
	if strings.HasPrefix(href, "/") {
		return strings.TrimPrefix(path.Clean(href), "/")
	}
	if dir == "." {
		dir = ""
	}
	return path.Clean(path.Join(dir, href))
}

// readImageFile loads an image referenced from a document in dir. References
// that do not resolve exactly fall back to the first archive entry with the same suffix.
func readImageFile(zr *zip.Reader, dir, src string) ([]byte, error) {
	if strings.HasPrefix(src, "data:") {
		if data, ok := decodeDataURI(src); ok {
			return data, nil
		}
		return nil, fmt.Errorf("invalid data uri")
	}

	full := resolveHref(dir, src)
	if data, err := readZipFile(zr, full); err == nil {
		return data, nil
	}

	suffix := "/" + path.Base(full)
	for _, f := range zr.File {
		if strings.HasSuffix("/"+f.Name, suffix) {
			return readZipEntry(f)
		}
	}
	return nil, fmt.Errorf("file not found: %s", full)
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	// Try exact match first.
	for _, f := range zr.File {
		if f.Name == name {
			return readZipEntry(f)
		}
	}
	// Then case-insensitive match.
	for _, f := range zr.File {
		if strings.EqualFold(f.Name, name) {
			return readZipEntry(f)
		}
	}
	return nil, fmt.Errorf("file not found: %s", name)
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func findOPFPath(containerXML []byte) (string, error) {
	// <container ...><rootfiles><rootfile full-path="OEBPS/content.opf" .../></rootfiles></container>
	type rootfile struct {
		FullPath string `xml:"full-path,attr"`
	}
	type rootfiles struct {
		Rootfiles []rootfile `xml:"rootfile"`
	}
	type container struct {
		Rootfiles rootfiles `xml:"rootfiles"`
	}

	var c container
	if err := xml.Unmarshal(containerXML, &c); err != nil {
		return "", err
	}
	for _, rf := range c.Rootfiles.Rootfiles {
		if strings.TrimSpace(rf.FullPath) != "" {
			return strings.TrimSpace(rf.FullPath), nil
		}
	}
	return "", fmt.Errorf("rootfile not found")
}

// parseSpine returns the manifest hrefs of the spine items in reading order.
func parseSpine(opf []byte) []string {
	manifest := map[string]string{}
	spineIDs := make([]string, 0, 64)

	dec := xml.NewDecoder(bytes.NewReader(opf))
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch strings.ToLower(se.Name.Local) {
		case "item":
			id, href := xmlAttr(se, "id"), xmlAttr(se, "href")
			if id != "" && href != "" {
				manifest[id] = href
			}
		case "itemref":
			if idref := xmlAttr(se, "idref"); idref != "" {
				spineIDs = append(spineIDs, idref)
			}
		}
	}

	hrefs := make([]string, 0, len(spineIDs))
	for _, id := range spineIDs {
		if href, ok := manifest[id]; ok {
			hrefs = append(hrefs, href)
		}
	}
	return hrefs
}

func xmlAttr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value
		}
	}
	return ""
}

var (
	blockTags = map[string]bool{
		"p": true, "div": true, "section": true, "article": true,
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
		"li": true, "ul": true, "ol": true, "blockquote": true,
		"figure": true, "figcaption": true, "tr": true,
	}
	skipTags = map[string]bool{
		"script": true, "style": true, "head": true, "title": true, "nav": true,
	}
)

func htmlToText(doc *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			tag := strings.ToLower(n.Data)
			if skipTags[tag] {
				return
			}
			if tag == "br" {
				sb.WriteString("\n")
			}
			if blockTags[tag] {
				sb.WriteString("\n\n")
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				s := sb.String()
				if s != "" && !strings.HasSuffix(s, "\n") && !strings.HasSuffix(s, " ") {
					sb.WriteString(" ")
				}
				sb.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[strings.ToLower(n.Data)] {
			sb.WriteString("\n\n")
		}
	}
	walk(doc)

	return sb.String()
}

type imageRef struct {
	src     string
	caption string
}

// findImageRefs lists <img> elements in document order. The caption is the
// enclosing figure's figcaption when present, otherwise the alt text.
func findImageRefs(doc *html.Node) []imageRef {
	var refs []imageRef
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "img") {
			if src := strings.TrimSpace(attr(n, "src")); src != "" {
				caption := strings.TrimSpace(attr(n, "alt"))
				if fc := figcaptionOf(n); fc != "" {
					caption = fc
				}
				refs = append(refs, imageRef{src: src, caption: caption})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return refs
}

func figcaptionOf(n *html.Node) string {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type != html.ElementNode || !strings.EqualFold(p.Data, "figure") {
			continue
		}
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && strings.EqualFold(c.Data, "figcaption") {
				return strings.Join(strings.Fields(textContent(c)), " ")
			}
		}
		return ""
	}
	return ""
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
		sb.WriteString(" ")
	}
	return sb.String()
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	// Replace non-breaking spaces.
	s = strings.ReplaceAll(s, "\u00a0", " ")

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := 0
	for _, line := range lines {
		t := strings.TrimSpace(line)
		if t == "" {
			blank++
			if blank <= 2 {
				out = append(out, "")
			}
			continue
		}
		blank = 0
		out = append(out, t)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
