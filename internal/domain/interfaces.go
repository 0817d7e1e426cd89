package domain

import (
	"context"
	"time"
)

// Extractor turns raw file bytes into text and, optionally, decoded images.
// The file name selects the format by extension.
type Extractor interface {
	ExtractText(ctx context.Context, name string, data []byte) (string, error)
	ExtractWithImages(ctx context.Context, name string, data []byte) (string, []ImageBlock, error)
}

// SentenceSplitter splits text into sentences for a language code.
type SentenceSplitter interface {
	SplitSentences(text, languageCode string) ([]string, error)
}

// SourceStorage fetches book files that live in remote storage.
type SourceStorage interface {
	Download(ctx context.Context, path string) ([]byte, error)
}

// AlignmentService runs the extraction, segmentation and alignment pipeline.
type AlignmentService interface {
	AnalyzeStructure(ctx context.Context, source SourceDocument, detectStructure bool) (*StructureResult, error)
	Align(ctx context.Context, req AlignmentRequest) (*AlignmentResult, error)
}

// AuthService validates bearer tokens.
type AuthService interface {
	ValidateToken(token string) (*SupabaseUser, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetMaxFileSize() int64
	GetLogLevel() string
	GetLogFormat() string
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetSourceBucket() string
	GetRequireAuth() bool
	GetDefaultLanguages() (lang1, lang2 string)
	GetDefaultAlignmentMode() string
	GetRateLimit() (perSecond float64, burst int)
	GetExtractionCacheTTL() time.Duration
	GetImageOptions() ImageOptions
	GetAllowedOrigins() []string
}
