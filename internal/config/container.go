package config

import (
	"bilingual-reader/internal/domain"
	"bilingual-reader/internal/infra/supabase"
	"bilingual-reader/internal/service"
	"bilingual-reader/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config           domain.Config
	Logger           domain.Logger
	SupabaseClient   domain.SupabaseClient
	Extractor        domain.Extractor
	SentenceSplitter domain.SentenceSplitter
	SourceStorage    domain.SourceStorage
	AlignmentService domain.AlignmentService
	AuthService      domain.AuthService
}

// NewContainer creates a new dependency injection container. Supabase is
// optional: without credentials, storage paths and bearer-token auth are unavailable.
func NewContainer() *Container {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel(), config.GetLogFormat())

	c := &Container{
		Config: config,
		Logger: appLogger,
	}

	if config.GetSupabaseURL() != "" && config.GetSupabaseKey() != "" {
		client := supabase.NewSupabaseClient(config, appLogger)
		if err := client.Initialize(); err != nil {
			appLogger.Error("Supabase unavailable; storage and auth disabled", err)
		} else {
			c.SupabaseClient = client
			c.SourceStorage = service.NewStorageService(client, config.GetSourceBucket(), appLogger)
			c.AuthService = service.NewAuthService(client, appLogger)
		}
	}

	c.Extractor = service.NewCachingExtractor(
		service.NewDocumentExtractor(appLogger, config.GetImageOptions()),
		config.GetExtractionCacheTTL(),
		appLogger,
	)
	c.SentenceSplitter = service.NewPunctuationSplitter()

	lang1, lang2 := config.GetDefaultLanguages()
	aligner := service.NewSegmentAligner(c.SentenceSplitter, lang1, lang2)
	c.AlignmentService = service.NewAlignmentService(c.Extractor, c.SourceStorage, aligner, appLogger)

	return c
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}
