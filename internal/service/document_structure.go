package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"bilingual-reader/internal/domain"
)

// chapterPatterns mark the first line of main text. Order matters: the first
// line matching any pattern wins, and lines are tested against the table top to bottom.
var chapterPatterns = compilePatterns(
	// English
	`^chapter\s+\d+`,
	`^chapter\s+[ivxlcdm]+`,
	`^chapter\s+one`,
	`^ch\.\s*\d+`,
	`^part\s+\d+`,
	`^part\s+[ivxlcdm]+`,
	`^book\s+\d+`,
	`^book\s+[ivxlcdm]+`,
	`^\d+\.\s+[A-Z]`,
	`^section\s+\d+`,
	`^prologue`,
	`^epilogue`,
	`^introduction$`,
	`^preface$`,

	// Chinese
	`^第[一二三四五六七八九十百千0-9]+章`,
	`^第[一二三四五六七八九十百千0-9]+节`,
	`^第[一二三四五六七八九十百千0-9]+部分`,
	`^第[一二三四五六七八九十百千0-9]+卷`,
	`^第[一二三四五六七八九十百千0-9]+回`,
	`^卷[一二三四五六七八九十百千0-9]+`,
	`^篇[一二三四五六七八九十百千0-9]+`,
	`^序章`,
	`^终章`,
	`^引言`,
	`^前言`,
	`^楔子`,

	// Numbered headings followed by Chinese text: "1. 引言", "1、背景", "一、"
	`^[0-9]+\s*[\.、]\s*[\x{4e00}-\x{9fff}]`,
	`^[一二三四五六七八九十]+[\.、]`,
)

// backMatterPatterns mark the first line of back matter.
var backMatterPatterns = compilePatterns(
	`^appendix`,
	`^bibliography`,
	`^references`,
	`^index$`,
	`^glossary`,
	`^notes$`,
	`^acknowledgements`,
	`^afterword`,
	`^about the author`,
	`^附录`,
	`^参考文献`,
	`^索引`,
	`^词汇表`,
	`^注释`,
	`^后记`,
	`^致谢`,
)

func compilePatterns(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		patterns = append(patterns, regexp.MustCompile(`(?i)`+expr))
	}
	return patterns
}

// FindMainStart returns the character offset where the main text begins.
// A non-empty customMarker is searched first as a case-insensitive literal;
// otherwise the first heading line matching the chapter table is used. The
// result is 0 when nothing matches.
func FindMainStart(text, customMarker string) int {
	if customMarker != "" {
		if offset, ok := indexFold(text, customMarker); ok {
			return offset
		}
	}

	if offset, _, ok := firstMatchingLine(text, chapterPatterns); ok {
		return offset
	}
	return 0
}

// FindMainEnd returns the character offset where back matter begins, searching
// only from start onwards. ok is false when the document has no back matter.
func FindMainEnd(text string, start int) (offset int, ok bool) {
	start = clamp(start, 0, utf8.RuneCountInString(text))
	rel, _, ok := firstMatchingLine(text[byteOffset(text, start):], backMatterPatterns)
	if !ok {
		return 0, false
	}
	return start + rel, true
}

// FindChapters lists every heading line that matches the chapter table, in document order.
func FindChapters(text string) []domain.Chapter {
	chapters := make([]domain.Chapter, 0)
	offset := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && matchesAny(trimmed, chapterPatterns) {
			chapters = append(chapters, domain.Chapter{Offset: offset, Title: trimmed})
		}
		offset += utf8.RuneCountInString(line) + 1
	}
	return chapters
}

// ResolveBoundaries returns the start and end offsets of the main text.
// Explicit positions win over markers, markers win over heading detection.
// Both offsets are clamped into the text and end never precedes start.
func ResolveBoundaries(text string, opts domain.SplitOptions) (start, end int) {
	length := utf8.RuneCountInString(text)

	if opts.StartPosition != nil {
		start = *opts.StartPosition
	} else {
		start = FindMainStart(text, opts.StartMarker)
	}
	start = clamp(start, 0, length)

	switch {
	case opts.EndPosition != nil:
		end = *opts.EndPosition
	case opts.EndMarker != "":
		end = length
		if rel, ok := indexFold(text[byteOffset(text, start):], opts.EndMarker); ok {
			end = start + rel
		}
	default:
		end = length
		if detected, ok := FindMainEnd(text, start); ok {
			end = detected
		}
	}
	end = clamp(end, start, length)

	return start, end
}

// SplitDocument cuts text into front matter, main text and back matter.
// Each part is trimmed of surrounding whitespace only.
func SplitDocument(text string, opts domain.SplitOptions) domain.DocumentSection {
	start, end := ResolveBoundaries(text, opts)
	startByte := byteOffset(text, start)
	endByte := byteOffset(text, end)

	section := domain.DocumentSection{
		FrontMatter: strings.TrimSpace(text[:startByte]),
		MainText:    strings.TrimSpace(text[startByte:endByte]),
	}
	if endByte < len(text) {
		section.BackMatter = strings.TrimSpace(text[endByte:])
	}
	return section
}

// firstMatchingLine scans non-blank trimmed lines and returns the character
// offset of the first one matching a pattern.
func firstMatchingLine(text string, patterns []*regexp.Regexp) (offset int, line string, ok bool) {
	for _, raw := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed != "" && matchesAny(trimmed, patterns) {
			return offset, trimmed, true
		}
		offset += utf8.RuneCountInString(raw) + 1
	}
	return 0, "", false
}

func matchesAny(line string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

// indexFold finds the first case-insensitive occurrence of substr and returns its character offset.
func indexFold(text, substr string) (int, bool) {
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(substr))
	if err != nil {
		return 0, false
	}
	loc := re.FindStringIndex(text)
	if loc == nil {
		return 0, false
	}
	return utf8.RuneCountInString(text[:loc[0]]), true
}

// byteOffset converts a character offset into a byte offset within s.
func byteOffset(s string, chars int) int {
	if chars <= 0 {
		return 0
	}
	n := 0
	for i := range s {
		if n == chars {
			return i
		}
		n++
	}
	return len(s)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
