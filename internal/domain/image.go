package domain

import "image"

// ImageBlock is one decoded image taken from a document.
type ImageBlock struct {
	Image   image.Image `json:"-"`
	Caption string      `json:"caption"`
	// Position is the normalized offset of the image within its document, in [0, 1].
	Position float64 `json:"position"`
	// Page is the 1-indexed page number. Only PDFs carry it.
	Page  *int `json:"page,omitempty"`
	Index int  `json:"index"`
}

// HasPage reports whether the block carries page metadata.
func (b ImageBlock) HasPage() bool {
	return b.Page != nil
}

// ImagePair is a matched image from each document.
type ImagePair struct {
	First  ImageBlock `json:"first"`
	Second ImageBlock `json:"second"`
}

// PositionPair is the normalized position of an aligned text segment in each document.
type PositionPair struct {
	First  float64 `json:"first"`
	Second float64 `json:"second"`
}

// ImageMatch is the outcome of pairing two image collections.
type ImageMatch struct {
	Matched    []ImagePair
	Unmatched1 []ImageBlock
	Unmatched2 []ImageBlock
}
