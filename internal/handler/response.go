package handler

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"

	"bilingual-reader/internal/domain"
)

const jpegQuality = 85

type imageResponse struct {
	Data     string  `json:"data"`
	Caption  string  `json:"caption"`
	Position float64 `json:"position"`
	Page     *int    `json:"page,omitempty"`
	Index    int     `json:"index"`
}

type imagePairResponse struct {
	First  imageResponse `json:"first"`
	Second imageResponse `json:"second"`
}

type imagesResponse struct {
	Matched    []imagePairResponse `json:"matched"`
	Unmatched1 []imageResponse     `json:"unmatched1"`
	Unmatched2 []imageResponse     `json:"unmatched2"`
}

type alignmentResponse struct {
	Sections1 domain.DocumentSection  `json:"sections1"`
	Sections2 domain.DocumentSection  `json:"sections2"`
	Document  *domain.AlignedDocument `json:"document"`
	Images    *imagesResponse         `json:"images,omitempty"`
}

type structureResponse struct {
	Sections   domain.DocumentSection `json:"sections"`
	Chapters   []domain.Chapter       `json:"chapters"`
	ImageCount int                    `json:"image_count"`
}

func newAlignmentResponse(result *domain.AlignmentResult) (*alignmentResponse, error) {
	resp := &alignmentResponse{
		Sections1: result.Sections1,
		Sections2: result.Sections2,
		Document:  result.Document,
	}
	if result.WithImages == nil {
		return resp, nil
	}

	images := &imagesResponse{
		Matched: make([]imagePairResponse, 0, len(result.WithImages.MatchedImages)),
	}
	for _, pair := range result.WithImages.MatchedImages {
		first, err := newImageResponse(pair.First)
		if err != nil {
			return nil, err
		}
		second, err := newImageResponse(pair.Second)
		if err != nil {
			return nil, err
		}
		images.Matched = append(images.Matched, imagePairResponse{First: first, Second: second})
	}

	var err error
	if images.Unmatched1, err = newImageResponses(result.WithImages.UnmatchedImages1); err != nil {
		return nil, err
	}
	if images.Unmatched2, err = newImageResponses(result.WithImages.UnmatchedImages2); err != nil {
		return nil, err
	}
	resp.Images = images
	return resp, nil
}

func newImageResponses(blocks []domain.ImageBlock) ([]imageResponse, error) {
	out := make([]imageResponse, 0, len(blocks))
	for _, block := range blocks {
		img, err := newImageResponse(block)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}

func newImageResponse(block domain.ImageBlock) (imageResponse, error) {
	data, err := encodeJPEGDataURI(block.Image)
	if err != nil {
		return imageResponse{}, fmt.Errorf("failed to encode image %d: %w", block.Index, err)
	}
	return imageResponse{
		Data:     data,
		Caption:  block.Caption,
		Position: block.Position,
		Page:     block.Page,
		Index:    block.Index,
	}, nil
}

// encodeJPEGDataURI returns img as a base64 JPEG data URI. A nil image yields "".
func encodeJPEGDataURI(img image.Image) (string, error) {
	if img == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
