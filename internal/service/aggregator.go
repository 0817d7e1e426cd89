package service

import (
	"fmt"

	"bilingual-reader/internal/domain"
)

// Aggregator composes segment alignment and image matching into the structures
// handed to the renderer.
type Aggregator struct {
	aligner *SegmentAligner
}

// NewAggregator creates an aggregator around a segment aligner.
func NewAggregator(aligner *SegmentAligner) *Aggregator {
	return &Aggregator{aligner: aligner}
}

// Build aligns two split documents without images.
func (g *Aggregator) Build(doc1, doc2 domain.DocumentSection, mode domain.AlignmentMode) (*domain.AlignedDocument, error) {
	return g.aligner.AlignDocuments(doc1, doc2, mode)
}

// BuildWithImages aligns two split documents and pairs their images according to imageMode.
func (g *Aggregator) BuildWithImages(
	doc1, doc2 domain.DocumentSection,
	images1, images2 []domain.ImageBlock,
	mode domain.AlignmentMode,
	imageMode domain.ImageMatchMode,
) (*domain.AlignedDocumentWithImages, error) {
	aligned, err := g.aligner.AlignDocuments(doc1, doc2, mode)
	if err != nil {
		return nil, err
	}

	var match domain.ImageMatch
	if imageMode == domain.ImageMatchInline {
		match = UnmatchedImages(images1, images2)
	} else {
		strategy, ok := imageMode.Strategy()
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidImageMatchMode, imageMode)
		}
		match = MatchImages(images1, images2, strategy, segmentPositions(aligned.MainText))
	}

	return &domain.AlignedDocumentWithImages{
		AlignedDocument:  *aligned,
		MatchedImages:    match.Matched,
		UnmatchedImages1: match.Unmatched1,
		UnmatchedImages2: match.Unmatched2,
	}, nil
}

// segmentPositions places each aligned pair at the centre of its slot in the main text.
func segmentPositions(pairs []domain.AlignedPair) []domain.PositionPair {
	positions := make([]domain.PositionPair, len(pairs))
	for i := range pairs {
		p := (float64(i) + 0.5) / float64(len(pairs))
		positions[i] = domain.PositionPair{First: p, Second: p}
	}
	return positions
}
