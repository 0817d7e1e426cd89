package service

import (
	"errors"
	"strings"
	"testing"

	"bilingual-reader/internal/domain"
)

// stubSplitter splits on a fixed separator and records the languages it was asked for.
type stubSplitter struct {
	sep       string
	languages []string
	err       error
}

func (s *stubSplitter) SplitSentences(text, languageCode string) ([]string, error) {
	s.languages = append(s.languages, languageCode)
	if s.err != nil {
		return nil, s.err
	}
	if text == "" {
		return nil, nil
	}
	var out []string
	for _, part := range strings.SplitAfter(text, s.sep) {
		if strings.TrimSpace(part) != "" {
			out = append(out, part)
		}
	}
	return out, nil
}

func TestSplitParagraphs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "simple", text: "First paragraph.\n\nSecond paragraph.\n\nThird paragraph.", want: []string{"First paragraph.", "Second paragraph.", "Third paragraph."}},
		{name: "lines joined", text: "  line one \nline two\n\n\n\nnext", want: []string{"line one line two", "next"}},
		{name: "whitespace only separators", text: "a\n   \t\nb", want: []string{"a", "b"}},
		{name: "empty", text: "", want: []string{}},
		{name: "blank", text: "\n\n  \n", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitParagraphs(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d paragraphs, got %d: %q", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("paragraph %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestSplitParagraphs_Idempotent(t *testing.T) {
	texts := []string{
		"First paragraph.\n\nSecond paragraph.",
		"a\nb\n\n\nc\n \nd e\n",
		"第一段。\n第一段续。\n\n第二段。",
		"",
	}
	for _, text := range texts {
		first := SplitParagraphs(text)
		second := SplitParagraphs(strings.Join(first, "\n\n"))
		if len(first) != len(second) {
			t.Fatalf("expected %d paragraphs after rejoin, got %d for %q", len(first), len(second), text)
		}
	}
}

func TestAlignTexts_ParagraphMode(t *testing.T) {
	aligner := NewSegmentAligner(nil, "en", "zh")

	pairs, err := aligner.AlignTexts("First paragraph.\n\nSecond paragraph.\n\nThird paragraph.", "第一段。\n\n第二段。\n\n第三段。", domain.AlignmentModeParagraph)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(pairs))
	}
	if pairs[1].Source != "Second paragraph." || pairs[1].Target != "第二段。" {
		t.Fatalf("unexpected second pair: %+v", pairs[1])
	}
}

func TestAlignTexts_SentenceModeDrift(t *testing.T) {
	splitter := &stubSplitter{sep: "."}
	zh := &stubSplitter{sep: "。"}
	aligner := NewSegmentAligner(multiSplitter{"en": splitter, "zh": zh}, "en", "zh")

	pairs, err := aligner.AlignTexts("First sentence. Second sentence. Third sentence.", "第一句。", domain.AlignmentModeSentence)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d: %+v", len(pairs), pairs)
	}
	if pairs[0].Source != "First sentence." || pairs[0].Target != "第一句。" {
		t.Fatalf("unexpected first pair: %+v", pairs[0])
	}
	for _, i := range []int{1, 2} {
		if pairs[i].Target != "" {
			t.Fatalf("expected pair %d to have an empty second side, got %+v", i, pairs[i])
		}
	}
}

func TestAlignTexts_SentenceModeUsesLanguages(t *testing.T) {
	splitter := &stubSplitter{sep: "."}
	aligner := NewSegmentAligner(splitter, "fr", "de")

	if _, err := aligner.AlignTexts("Un. Deux.", "Eins. Zwei.", domain.AlignmentModeSentence); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(splitter.languages) != 2 || splitter.languages[0] != "fr" || splitter.languages[1] != "de" {
		t.Fatalf("unexpected languages: %v", splitter.languages)
	}

	other := aligner.WithLanguages("en", "ja")
	if _, err := other.AlignTexts("a.", "b.", domain.AlignmentModeSentence); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := splitter.languages[2:]; got[0] != "en" || got[1] != "ja" {
		t.Fatalf("unexpected languages: %v", got)
	}
}

func TestAlignTexts_SentenceModeWithoutSplitter(t *testing.T) {
	aligner := NewSegmentAligner(nil, "en", "zh")
	if aligner.SentenceModeAvailable() {
		t.Fatalf("expected sentence mode to be unavailable")
	}

	_, err := aligner.AlignTexts("One. Two.", "一。二。", domain.AlignmentModeSentence)
	if !errors.Is(err, domain.ErrSentenceSplitterUnavailable) {
		t.Fatalf("expected ErrSentenceSplitterUnavailable, got %v", err)
	}

	if _, err := aligner.AlignTexts("One.", "一。", domain.AlignmentModeParagraph); err != nil {
		t.Fatalf("expected paragraph mode to work without a splitter, got %v", err)
	}
}

func TestAlignTexts_SplitterError(t *testing.T) {
	boom := errors.New("boom")
	aligner := NewSegmentAligner(&stubSplitter{err: boom}, "en", "zh")
	if _, err := aligner.AlignTexts("a", "b", domain.AlignmentModeSentence); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped splitter error, got %v", err)
	}
}

func TestAlignTexts_InvalidMode(t *testing.T) {
	aligner := NewSegmentAligner(nil, "en", "zh")
	if _, err := aligner.AlignTexts("a", "b", "word"); !errors.Is(err, domain.ErrInvalidAlignmentMode) {
		t.Fatalf("expected ErrInvalidAlignmentMode, got %v", err)
	}
}

func TestAlignTexts_Empty(t *testing.T) {
	aligner := NewSegmentAligner(&stubSplitter{sep: "."}, "en", "zh")
	for _, mode := range []domain.AlignmentMode{domain.AlignmentModeSentence, domain.AlignmentModeParagraph} {
		pairs, err := aligner.AlignTexts("", "", mode)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", mode, err)
		}
		if len(pairs) != 0 {
			t.Fatalf("%s: expected no pairs, got %+v", mode, pairs)
		}
	}
}

func TestPairSegments_Totality(t *testing.T) {
	cases := [][2][]string{
		{{"a", "b", "c"}, {"x"}},
		{{}, {"x", "y"}},
		{{" ", "a", ""}, {"", " ", "b", "c"}},
		{{}, {}},
		{{"\t"}, {"\n"}},
	}

	for _, c := range cases {
		pairs := PairSegments(c[0], c[1])
		max := len(c[0])
		if len(c[1]) > max {
			max = len(c[1])
		}
		if len(pairs) > max {
			t.Fatalf("expected at most %d pairs, got %d", max, len(pairs))
		}
		for _, p := range pairs {
			if strings.TrimSpace(p.Source) == "" && strings.TrimSpace(p.Target) == "" {
				t.Fatalf("found pair with both sides empty: %+v", p)
			}
		}
	}

	pairs := PairSegments([]string{" ", "a", ""}, []string{"", " ", "b", "c"})
	want := []domain.AlignedPair{{Source: "a"}, {Target: "b"}, {Target: "c"}}
	if len(pairs) != len(want) {
		t.Fatalf("expected %d pairs, got %+v", len(want), pairs)
	}
	for i := range want {
		if pairs[i] != want[i] {
			t.Fatalf("pair %d: expected %+v, got %+v", i, want[i], pairs[i])
		}
	}
}

func TestAlignBlocks(t *testing.T) {
	if got := AlignBlocks("", "  "); len(got) != 0 {
		t.Fatalf("expected no pairs for blank blocks, got %+v", got)
	}
	got := AlignBlocks("Preface\n\nThanks.", "")
	if len(got) != 1 {
		t.Fatalf("expected one pair, got %d", len(got))
	}
	if got[0].Source != "Preface\n\nThanks." || got[0].Target != "" {
		t.Fatalf("expected whole block to be kept, got %+v", got[0])
	}
}

func TestAlignDocuments(t *testing.T) {
	aligner := NewSegmentAligner(nil, "en", "zh")
	doc1 := domain.DocumentSection{FrontMatter: "Title", MainText: "P1.\n\nP2.", BackMatter: ""}
	doc2 := domain.DocumentSection{FrontMatter: "书名", MainText: "段一。\n\n段二。", BackMatter: ""}

	aligned, err := aligner.AlignDocuments(doc1, doc2, domain.AlignmentModeParagraph)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(aligned.FrontMatter) != 1 || aligned.FrontMatter[0].Target != "书名" {
		t.Fatalf("unexpected front matter: %+v", aligned.FrontMatter)
	}
	if len(aligned.MainText) != 2 {
		t.Fatalf("expected 2 main pairs, got %d", len(aligned.MainText))
	}
	if aligned.BackMatter == nil || len(aligned.BackMatter) != 0 {
		t.Fatalf("expected empty non-nil back matter, got %#v", aligned.BackMatter)
	}

	if _, err := aligner.AlignDocuments(doc1, doc2, domain.AlignmentModeSentence); !errors.Is(err, domain.ErrSentenceSplitterUnavailable) {
		t.Fatalf("expected ErrSentenceSplitterUnavailable, got %v", err)
	}
}

// multiSplitter dispatches to a splitter per language code.
type multiSplitter map[string]domain.SentenceSplitter

func (m multiSplitter) SplitSentences(text, languageCode string) ([]string, error) {
	return m[languageCode].SplitSentences(text, languageCode)
}
