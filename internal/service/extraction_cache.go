package service

import (
	"context"
	"encoding/hex"
	"path/filepath"
	"strings"
	"time"

	"bilingual-reader/internal/domain"

	"github.com/patrickmn/go-cache"
	"github.com/zeebo/blake3"
)

type cachedExtraction struct {
	text   string
	images []domain.ImageBlock
}

// CachingExtractor memoizes another extractor by file content. Two uploads of
// the same bytes under the same extension share one extraction until the TTL expires.
type CachingExtractor struct {
	next   domain.Extractor
	cache  *cache.Cache
	logger domain.Logger
}

// NewCachingExtractor wraps next with a cache whose entries live for ttl.
func NewCachingExtractor(next domain.Extractor, ttl time.Duration, logger domain.Logger) *CachingExtractor {
	return &CachingExtractor{
		next:   next,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger,
	}
}

// ExtractText implements domain.Extractor.
func (c *CachingExtractor) ExtractText(ctx context.Context, name string, data []byte) (string, error) {
	key := extractionKey(name, data, false)
	if v, ok := c.cache.Get(key); ok {
		c.logger.Debug("Extraction cache hit", "file", name)
		return v.(cachedExtraction).text, nil
	}

	text, err := c.next.ExtractText(ctx, name, data)
	if err != nil {
		return "", err
	}
	c.cache.SetDefault(key, cachedExtraction{text: text})
	return text, nil
}

// ExtractWithImages implements domain.Extractor. Cached image slices are
// copied so callers never share a backing array.
func (c *CachingExtractor) ExtractWithImages(ctx context.Context, name string, data []byte) (string, []domain.ImageBlock, error) {
	key := extractionKey(name, data, true)
	if v, ok := c.cache.Get(key); ok {
		c.logger.Debug("Extraction cache hit", "file", name, "images", true)
		entry := v.(cachedExtraction)
		return entry.text, append([]domain.ImageBlock{}, entry.images...), nil
	}

	text, images, err := c.next.ExtractWithImages(ctx, name, data)
	if err != nil {
		return "", nil, err
	}
	c.cache.SetDefault(key, cachedExtraction{text: text, images: append([]domain.ImageBlock{}, images...)})
	return text, images, nil
}

// Len reports the number of cached extractions, expired ones included until cleanup.
func (c *CachingExtractor) Len() int {
	return c.cache.ItemCount()
}

func extractionKey(name string, data []byte, withImages bool) string {
	sum := blake3.Sum256(data)
	mode := "text"
	if withImages {
		mode = "images"
	}
	ext := strings.ToLower(filepath.Ext(name))
	return hex.EncodeToString(sum[:]) + ":" + ext + ":" + mode
}

