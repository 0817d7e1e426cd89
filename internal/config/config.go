package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"bilingual-reader/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort           string
	MaxFileSize          int64
	LogLevel             string
	LogFormat            string
	SupabaseURL          string
	SupabaseKey          string
	SourceBucket         string
	RequireAuth          bool
	DefaultLang1         string
	DefaultLang2         string
	DefaultAlignmentMode string
	RateLimitRPS         float64
	RateLimitBurst       int
	ExtractionCacheTTL   time.Duration
	ImageOptions         domain.ImageOptions
	AllowedOrigins       []string
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:           getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		MaxFileSize:          getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024), // 50MB default
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		SupabaseURL:          getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:          getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		SourceBucket:         getEnvOrDefault("SOURCE_BUCKET", "books"),
		RequireAuth:          getEnvBoolOrDefault("REQUIRE_AUTH", false),
		DefaultLang1:         getEnvOrDefault("DEFAULT_LANG1", "en"),
		DefaultLang2:         getEnvOrDefault("DEFAULT_LANG2", "zh"),
		DefaultAlignmentMode: getEnvOrDefault("DEFAULT_ALIGNMENT_MODE", string(domain.AlignmentModeSentence)),
		RateLimitRPS:         getEnvFloatOrDefault("RATE_LIMIT_RPS", 5),
		RateLimitBurst:       int(getEnvInt64OrDefault("RATE_LIMIT_BURST", 10)),
		ExtractionCacheTTL:   getEnvDurationOrDefault("EXTRACTION_CACHE_TTL", 10*time.Minute),
		ImageOptions: domain.ImageOptions{
			MaxWidth:  int(getEnvInt64OrDefault("IMAGE_MAX_WIDTH", 800)),
			MaxHeight: int(getEnvInt64OrDefault("IMAGE_MAX_HEIGHT", 1200)),
			MinSize:   int(getEnvInt64OrDefault("IMAGE_MIN_SIZE", 50)),
		},
		AllowedOrigins: getEnvListOrDefault("ALLOWED_ORIGINS", []string{
			"http://localhost:5173", // SvelteKit dev server
			"http://localhost:4173", // SvelteKit preview
			"http://localhost:3000", // Alternative dev port
		}),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetMaxFileSize returns the maximum allowed file size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetLogFormat returns "json" or "text"
func (c *AppConfig) GetLogFormat() string {
	return c.LogFormat
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetSourceBucket returns the storage bucket holding source books
func (c *AppConfig) GetSourceBucket() string {
	return c.SourceBucket
}

// GetRequireAuth reports whether API routes need a Supabase bearer token
func (c *AppConfig) GetRequireAuth() bool {
	return c.RequireAuth
}

// GetDefaultLanguages returns the language codes used when a request names none
func (c *AppConfig) GetDefaultLanguages() (string, string) {
	return c.DefaultLang1, c.DefaultLang2
}

// GetDefaultAlignmentMode returns the alignment mode used when a request names none
func (c *AppConfig) GetDefaultAlignmentMode() string {
	return c.DefaultAlignmentMode
}

// GetRateLimit returns the per-client request rate and burst
func (c *AppConfig) GetRateLimit() (float64, int) {
	return c.RateLimitRPS, c.RateLimitBurst
}

// GetExtractionCacheTTL returns how long extracted documents stay cached
func (c *AppConfig) GetExtractionCacheTTL() time.Duration {
	return c.ExtractionCacheTTL
}

// GetImageOptions returns image filtering and resizing limits
func (c *AppConfig) GetImageOptions() domain.ImageOptions {
	return c.ImageOptions
}

// GetAllowedOrigins returns the CORS origins
func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
