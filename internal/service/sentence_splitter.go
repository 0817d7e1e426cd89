package service

import (
	"fmt"
	"strings"
	"unicode"

	"bilingual-reader/internal/domain"

	"golang.org/x/text/language"
)

// PunctuationSplitter is a rule-based sentence splitter. A sentence ends at
// terminal punctuation plus any trailing closing quotes or brackets. Full-width
// terminators always end a sentence; ASCII ones only before whitespace, CJK text
// or the end of the paragraph, so "3.14" and "v1.2" stay intact. Paragraph
// breaks always end a sentence. Honorifics such as "Mr." and "Dr." do not.
type PunctuationSplitter struct{}

// NewPunctuationSplitter creates the default sentence splitter.
func NewPunctuationSplitter() *PunctuationSplitter {
	return &PunctuationSplitter{}
}

// SplitSentences implements domain.SentenceSplitter.
func (s *PunctuationSplitter) SplitSentences(text, languageCode string) ([]string, error) {
	if _, err := language.Parse(languageCode); err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedLanguage, languageCode)
	}

	sentences := make([]string, 0)
	for _, para := range SplitParagraphs(text) {
		sentences = append(sentences, splitParagraphSentences(para)...)
	}
	return sentences, nil
}

func splitParagraphSentences(para string) []string {
	runes := []rune(para)
	var out []string
	start := 0

	emit := func(end int) {
		if s := strings.TrimSpace(string(runes[start:end])); s != "" {
			out = append(out, s)
		}
		start = end
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if !isTerminator(r) {
			continue
		}

		end := i + 1
		for end < len(runes) && (isTerminator(runes[end]) || isCloser(runes[end])) {
			end++
		}

		if r == '.' && end == i+1 && end < len(runes) && isAbbreviation(runes[start:i]) {
			continue
		}
		if isFullWidthTerminator(r) || end == len(runes) || unicode.IsSpace(runes[end]) || isCJK(runes[end]) {
			emit(end)
		}
		i = end - 1
	}
	emit(len(runes))

	return out
}

// abbreviations never end a sentence when followed by more text.
var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	"st": true, "sr": true, "jr": true, "vs": true, "e.g": true, "i.e": true,
}

// isAbbreviation reports whether the word ending the run is a known abbreviation.
func isAbbreviation(run []rune) bool {
	j := len(run)
	for j > 0 && !unicode.IsSpace(run[j-1]) {
		j--
	}
	word := strings.TrimLeft(string(run[j:]), "(\"'“‘「『")
	return abbreviations[strings.ToLower(word)]
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '…', '。', '！', '？', '．':
		return true
	}
	return false
}

func isFullWidthTerminator(r rune) bool {
	switch r {
	case '。', '！', '？', '．':
		return true
	}
	return false
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', '”', '’', '」', '』', ')', '）', ']', '】', '》':
		return true
	}
	return false
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r) || unicode.Is(unicode.Hangul, r)
}
