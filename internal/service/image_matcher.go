package service

import (
	"math"

	"bilingual-reader/internal/domain"
)

// pageMatchThreshold is the largest normalized position distance accepted as a match.
const pageMatchThreshold = 0.1

// MatchImages pairs two image collections with the given strategy. Every input
// image ends up in exactly one of the matched pairs or its side's unmatched list.
// textPositions is only consulted by MatchByProximity.
func MatchImages(images1, images2 []domain.ImageBlock, strategy domain.MatchStrategy, textPositions []domain.PositionPair) domain.ImageMatch {
	switch strategy {
	case domain.MatchByPage:
		return matchByPage(images1, images2)
	case domain.MatchByProximity:
		return matchByProximity(images1, images2, textPositions)
	default:
		return matchByIndex(images1, images2)
	}
}

// UnmatchedImages reports both collections as unmatched, leaving placement to the renderer.
func UnmatchedImages(images1, images2 []domain.ImageBlock) domain.ImageMatch {
	return domain.ImageMatch{
		Matched:    []domain.ImagePair{},
		Unmatched1: append([]domain.ImageBlock{}, images1...),
		Unmatched2: append([]domain.ImageBlock{}, images2...),
	}
}

func matchByIndex(images1, images2 []domain.ImageBlock) domain.ImageMatch {
	n := len(images1)
	if len(images2) < n {
		n = len(images2)
	}

	matched := make([]domain.ImagePair, 0, n)
	for i := 0; i < n; i++ {
		matched = append(matched, domain.ImagePair{First: images1[i], Second: images2[i]})
	}

	return domain.ImageMatch{
		Matched:    matched,
		Unmatched1: append([]domain.ImageBlock{}, images1[n:]...),
		Unmatched2: append([]domain.ImageBlock{}, images2[n:]...),
	}
}

// matchByPage greedily pairs each image of the first document with the closest
// remaining image of the second. Without page metadata on both sides it falls
// back to index matching.
func matchByPage(images1, images2 []domain.ImageBlock) domain.ImageMatch {
	if len(images1) == 0 || len(images2) == 0 || !images1[0].HasPage() || !images2[0].HasPage() {
		return matchByIndex(images1, images2)
	}

	taken := make([]bool, len(images2))
	matched := make([]domain.ImagePair, 0)
	unmatched1 := make([]domain.ImageBlock, 0)

	for _, img1 := range images1 {
		best := -1
		bestDistance := math.Inf(1)
		for j, img2 := range images2 {
			if taken[j] {
				continue
			}
			// Strict comparison keeps the first candidate on ties.
			if d := math.Abs(img1.Position - img2.Position); d < bestDistance {
				best, bestDistance = j, d
			}
		}

		if best >= 0 && bestDistance < pageMatchThreshold {
			taken[best] = true
			matched = append(matched, domain.ImagePair{First: img1, Second: images2[best]})
			continue
		}
		unmatched1 = append(unmatched1, img1)
	}

	unmatched2 := make([]domain.ImageBlock, 0)
	for j, img2 := range images2 {
		if !taken[j] {
			unmatched2 = append(unmatched2, img2)
		}
	}

	return domain.ImageMatch{
		Matched:    matched,
		Unmatched1: unmatched1,
		Unmatched2: unmatched2,
	}
}

// matchByProximity is meant to weight image distance by the aligned text around
// each image. That weighting is not implemented: textPositions is accepted but
// unused and the result is identical to page matching.
func matchByProximity(images1, images2 []domain.ImageBlock, _ []domain.PositionPair) domain.ImageMatch {
	return matchByPage(images1, images2)
}
