package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bilingual-reader/internal/domain"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultDownloadRetries  = 3
	defaultDownloadInterval = 500 * time.Millisecond
)

// SupabaseStorage downloads source books from a Supabase storage bucket.
type SupabaseStorage struct {
	client   domain.SupabaseClient
	bucket   string
	logger   domain.Logger
	retries  uint64
	interval time.Duration
}

func NewStorageService(
	client domain.SupabaseClient,
	bucket string,
	logger domain.Logger,
) *SupabaseStorage {
	return &SupabaseStorage{
		client:   client,
		bucket:   bucket,
		logger:   logger,
		retries:  defaultDownloadRetries,
		interval: defaultDownloadInterval,
	}
}

// Download fetches path from the configured bucket. Transient failures are
// retried; a missing object fails immediately with domain.ErrSourceNotFound.
func (s *SupabaseStorage) Download(ctx context.Context, path string) ([]byte, error) {
	if s.client == nil || s.bucket == "" {
		return nil, domain.ErrStorageNotConfigured
	}
	path = strings.TrimPrefix(strings.TrimSpace(path), "/")
	if path == "" {
		return nil, &domain.ValidationError{Field: "storage_path", Message: "storage path is required"}
	}

	attempt := 0
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(s.interval), s.retries), ctx)
	data, err := backoff.RetryWithData(func() ([]byte, error) {
		attempt++
		data, err := s.client.DownloadFile(s.bucket, path)
		if err == nil {
			return data, nil
		}
		if isNotFound(err) {
			return nil, backoff.Permanent(fmt.Errorf("%w: %s", domain.ErrSourceNotFound, path))
		}
		s.logger.Warn("Source download failed", "bucket", s.bucket, "path", path, "attempt", attempt, "error", err)
		return nil, err
	}, policy)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Source downloaded", "bucket", s.bucket, "path", path, "bytes", len(data))
	return data, nil
}

func isNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "404")
}
