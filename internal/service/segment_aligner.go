package service

import (
	"fmt"
	"strings"

	"bilingual-reader/internal/domain"
)

// SegmentAligner pairs text units of two language copies by position.
// It never reorders, merges or scores segments; when the two sides split into
// different counts, every index past the shorter side is paired with "".
type SegmentAligner struct {
	splitter domain.SentenceSplitter
	lang1    string
	lang2    string
}

// NewSegmentAligner creates an aligner. A nil splitter disables sentence mode.
func NewSegmentAligner(splitter domain.SentenceSplitter, lang1, lang2 string) *SegmentAligner {
	return &SegmentAligner{
		splitter: splitter,
		lang1:    lang1,
		lang2:    lang2,
	}
}

// WithLanguages returns a copy of the aligner using other language codes.
func (a *SegmentAligner) WithLanguages(lang1, lang2 string) *SegmentAligner {
	return &SegmentAligner{splitter: a.splitter, lang1: lang1, lang2: lang2}
}

// SentenceModeAvailable reports whether a sentence splitter is configured.
func (a *SegmentAligner) SentenceModeAvailable() bool {
	return a.splitter != nil
}

// AlignTexts splits both texts with the given mode and pairs the segments.
func (a *SegmentAligner) AlignTexts(text1, text2 string, mode domain.AlignmentMode) ([]domain.AlignedPair, error) {
	segments1, segments2, err := a.segment(text1, text2, mode)
	if err != nil {
		return nil, err
	}
	return PairSegments(segments1, segments2), nil
}

// AlignDocuments aligns main text segment by segment and front/back matter as whole blocks.
func (a *SegmentAligner) AlignDocuments(doc1, doc2 domain.DocumentSection, mode domain.AlignmentMode) (*domain.AlignedDocument, error) {
	main, err := a.AlignTexts(doc1.MainText, doc2.MainText, mode)
	if err != nil {
		return nil, err
	}
	return &domain.AlignedDocument{
		FrontMatter: AlignBlocks(doc1.FrontMatter, doc2.FrontMatter),
		MainText:    main,
		BackMatter:  AlignBlocks(doc1.BackMatter, doc2.BackMatter),
	}, nil
}

func (a *SegmentAligner) segment(text1, text2 string, mode domain.AlignmentMode) ([]string, []string, error) {
	switch mode {
	case domain.AlignmentModeParagraph:
		return SplitParagraphs(text1), SplitParagraphs(text2), nil
	case domain.AlignmentModeSentence:
		if a.splitter == nil {
			return nil, nil, domain.ErrSentenceSplitterUnavailable
		}
		segments1, err := a.splitter.SplitSentences(text1, a.lang1)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to split %s sentences: %w", a.lang1, err)
		}
		segments2, err := a.splitter.SplitSentences(text2, a.lang2)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to split %s sentences: %w", a.lang2, err)
		}
		return segments1, segments2, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrInvalidAlignmentMode, mode)
	}
}

// PairSegments zips two segment lists by index, padding the shorter one with "".
// Pairs whose sides are both blank are dropped.
func PairSegments(segments1, segments2 []string) []domain.AlignedPair {
	n := len(segments1)
	if len(segments2) > n {
		n = len(segments2)
	}

	pairs := make([]domain.AlignedPair, 0, n)
	for i := 0; i < n; i++ {
		var seg1, seg2 string
		if i < len(segments1) {
			seg1 = segments1[i]
		}
		if i < len(segments2) {
			seg2 = segments2[i]
		}
		if pair, ok := domain.NewAlignedPair(seg1, seg2); ok {
			pairs = append(pairs, pair)
		}
	}
	return pairs
}

// AlignBlocks pairs two whole front or back matter blocks. The result is empty
// when both blocks are blank and holds exactly one pair otherwise.
func AlignBlocks(block1, block2 string) []domain.AlignedPair {
	if pair, ok := domain.NewAlignedPair(block1, block2); ok {
		return []domain.AlignedPair{pair}
	}
	return []domain.AlignedPair{}
}

// SplitParagraphs groups consecutive non-blank lines into paragraphs. Lines are
// trimmed and joined with a single space; one or more blank lines end a paragraph.
func SplitParagraphs(text string) []string {
	paragraphs := make([]string, 0)
	var current []string

	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = current[:0]
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return paragraphs
}
