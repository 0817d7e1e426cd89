package domain

import "strings"

// DocumentSection is one language copy of a book cut into its three structural zones.
type DocumentSection struct {
	FrontMatter string `json:"front_matter"`
	MainText    string `json:"main_text"`
	BackMatter  string `json:"back_matter"`
}

// IsEmpty reports whether all three zones are empty.
func (d DocumentSection) IsEmpty() bool {
	return d.FrontMatter == "" && d.MainText == "" && d.BackMatter == ""
}

// SplitOptions overrides boundary detection for one document.
// Positions are character (rune) offsets and take precedence over markers.
type SplitOptions struct {
	StartMarker   string `json:"start_marker,omitempty"`
	EndMarker     string `json:"end_marker,omitempty"`
	StartPosition *int   `json:"start_position,omitempty"`
	EndPosition   *int   `json:"end_position,omitempty"`
}

// Chapter is a heading line found in a document. Offset is the character
// offset of the line in the full extracted text, usable as a start position.
type Chapter struct {
	Offset int    `json:"offset"`
	Title  string `json:"title"`
}

// AlignedPair holds two segments shown side by side.
type AlignedPair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// NewAlignedPair trims both sides. ok is false when both sides are empty.
func NewAlignedPair(source, target string) (pair AlignedPair, ok bool) {
	source = strings.TrimSpace(source)
	target = strings.TrimSpace(target)
	if source == "" && target == "" {
		return AlignedPair{}, false
	}
	return AlignedPair{Source: source, Target: target}, true
}

// AlignedDocument is the text-only result handed to the renderer.
// FrontMatter and BackMatter hold at most one whole-block pair.
type AlignedDocument struct {
	FrontMatter []AlignedPair `json:"front_matter"`
	MainText    []AlignedPair `json:"main_text"`
	BackMatter  []AlignedPair `json:"back_matter"`
}

// AlignedDocumentWithImages extends AlignedDocument with the image matching outcome.
// Every input image is in exactly one of MatchedImages, UnmatchedImages1 or UnmatchedImages2.
type AlignedDocumentWithImages struct {
	AlignedDocument
	MatchedImages    []ImagePair  `json:"matched_images"`
	UnmatchedImages1 []ImageBlock `json:"unmatched_images1"`
	UnmatchedImages2 []ImageBlock `json:"unmatched_images2"`
}
