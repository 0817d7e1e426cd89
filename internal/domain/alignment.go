package domain

import (
	"fmt"
	"strings"
)

// AlignmentMode selects the unit main text is split into before pairing.
type AlignmentMode string

const (
	AlignmentModeSentence  AlignmentMode = "sentence"
	AlignmentModeParagraph AlignmentMode = "paragraph"
)

// ParseAlignmentMode accepts the mode names case-insensitively.
func ParseAlignmentMode(s string) (AlignmentMode, error) {
	switch AlignmentMode(strings.ToLower(strings.TrimSpace(s))) {
	case AlignmentModeSentence:
		return AlignmentModeSentence, nil
	case AlignmentModeParagraph:
		return AlignmentModeParagraph, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAlignmentMode, s)
	}
}

// MatchStrategy is the policy used to pair two image collections.
type MatchStrategy int

const (
	// MatchByIndex pairs images in extraction order.
	MatchByIndex MatchStrategy = iota
	// MatchByPage pairs images whose normalized positions are close.
	MatchByPage
	// MatchByProximity pairs images using aligned text positions.
	MatchByProximity
)

func (s MatchStrategy) String() string {
	switch s {
	case MatchByIndex:
		return "index"
	case MatchByPage:
		return "page"
	case MatchByProximity:
		return "proximity"
	default:
		return "unknown"
	}
}

// ImageMatchMode is the caller-facing image option. Inline performs no matching
// and leaves the renderer to interleave images by position.
type ImageMatchMode string

const (
	ImageMatchInline    ImageMatchMode = "inline"
	ImageMatchIndex     ImageMatchMode = "index"
	ImageMatchPosition  ImageMatchMode = "position"
	ImageMatchProximity ImageMatchMode = "proximity"
)

// ParseImageMatchMode accepts the mode names case-insensitively; "page" is an alias of "position".
func ParseImageMatchMode(s string) (ImageMatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inline":
		return ImageMatchInline, nil
	case "index":
		return ImageMatchIndex, nil
	case "position", "page":
		return ImageMatchPosition, nil
	case "proximity":
		return ImageMatchProximity, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidImageMatchMode, s)
	}
}

// Strategy maps the mode onto a matcher strategy. ok is false for inline mode.
func (m ImageMatchMode) Strategy() (strategy MatchStrategy, ok bool) {
	switch m {
	case ImageMatchIndex:
		return MatchByIndex, true
	case ImageMatchPosition:
		return MatchByPage, true
	case ImageMatchProximity:
		return MatchByProximity, true
	default:
		return 0, false
	}
}
