package service

import (
	"context"
	"fmt"
	"strings"

	"bilingual-reader/internal/domain"
	applog "bilingual-reader/pkg/logger"

	"golang.org/x/sync/errgroup"
)

type alignmentService struct {
	extractor domain.Extractor
	storage   domain.SourceStorage
	aligner   *SegmentAligner
	logger    domain.Logger
}

// loadedSource is one source document after extraction.
type loadedSource struct {
	text   string
	images []domain.ImageBlock
}

// NewAlignmentService wires the pipeline. storage may be nil, in which case
// only uploaded sources are accepted. The aligner's languages apply to sources
// that do not name their own.
func NewAlignmentService(
	extractor domain.Extractor,
	storage domain.SourceStorage,
	aligner *SegmentAligner,
	logger domain.Logger,
) *alignmentService {
	return &alignmentService{
		extractor: extractor,
		storage:   storage,
		aligner:   aligner,
		logger:    logger,
	}
}

// AnalyzeStructure extracts one source and reports its sections and chapter headings.
func (s *alignmentService) AnalyzeStructure(ctx context.Context, source domain.SourceDocument, detectStructure bool) (*domain.StructureResult, error) {
	if err := source.Validate("source"); err != nil {
		return nil, err
	}

	loaded, err := s.load(ctx, source, true)
	if err != nil {
		return nil, err
	}

	sections := splitSource(loaded.text, source.Split, detectStructure)
	s.logger.Info("Structure analyzed",
		"request_id", applog.GetRequestID(ctx),
		"source", sourceLabel(source),
		"front_chars", len([]rune(sections.FrontMatter)),
		"main_chars", len([]rune(sections.MainText)),
		"back_chars", len([]rune(sections.BackMatter)),
	)

	return &domain.StructureResult{
		Sections:   sections,
		Chapters:   FindChapters(loaded.text),
		ImageCount: len(loaded.images),
	}, nil
}

// Align extracts both sources concurrently, splits them and aligns the result.
func (s *alignmentService) Align(ctx context.Context, req domain.AlignmentRequest) (*domain.AlignmentResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	mode, err := domain.ParseAlignmentMode(string(req.Mode))
	if err != nil {
		return nil, err
	}
	var imageMode domain.ImageMatchMode
	if req.IncludeImages {
		if imageMode, err = domain.ParseImageMatchMode(string(req.ImageMode)); err != nil {
			return nil, err
		}
	}

	lang1 := languageOr(req.Source1.Language, s.aligner.lang1)
	lang2 := languageOr(req.Source2.Language, s.aligner.lang2)
	aligner := s.aligner.WithLanguages(lang1, lang2)
	if mode == domain.AlignmentModeSentence && !aligner.SentenceModeAvailable() {
		return nil, domain.ErrSentenceSplitterUnavailable
	}

	var source1, source2 *loadedSource
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		source1, err = s.load(gctx, req.Source1, req.IncludeImages)
		return err
	})
	g.Go(func() error {
		var err error
		source2, err = s.load(gctx, req.Source2, req.IncludeImages)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sections1 := splitSource(source1.text, req.Source1.Split, req.DetectStructure)
	sections2 := splitSource(source2.text, req.Source2.Split, req.DetectStructure)

	agg := NewAggregator(aligner)
	result := &domain.AlignmentResult{
		Sections1: sections1,
		Sections2: sections2,
	}

	if req.IncludeImages {
		withImages, err := agg.BuildWithImages(sections1, sections2, source1.images, source2.images, mode, imageMode)
		if err != nil {
			return nil, err
		}
		result.WithImages = withImages
		result.Document = &withImages.AlignedDocument
	} else {
		doc, err := agg.Build(sections1, sections2, mode)
		if err != nil {
			return nil, err
		}
		result.Document = doc
	}

	s.logger.Info("Documents aligned",
		"request_id", applog.GetRequestID(ctx),
		"source1", sourceLabel(req.Source1),
		"source2", sourceLabel(req.Source2),
		"lang1", lang1,
		"lang2", lang2,
		"mode", string(mode),
		"pairs", len(result.Document.MainText),
	)
	return result, nil
}

// load resolves the source bytes, downloading them when only a storage path is given, and extracts them.
func (s *alignmentService) load(ctx context.Context, source domain.SourceDocument, withImages bool) (*loadedSource, error) {
	data, name := source.Data, source.Name
	if len(data) == 0 {
		if s.storage == nil {
			return nil, domain.ErrStorageNotConfigured
		}
		downloaded, err := s.storage.Download(ctx, source.StoragePath)
		if err != nil {
			return nil, err
		}
		data = downloaded
		if name == "" {
			name = source.StoragePath
		}
	}

	if !withImages {
		text, err := s.extractor.ExtractText(ctx, name, data)
		if err != nil {
			return nil, err
		}
		return &loadedSource{text: text}, nil
	}

	text, images, err := s.extractor.ExtractWithImages(ctx, name, data)
	if err != nil {
		return nil, err
	}
	if images == nil {
		images = []domain.ImageBlock{}
	}
	return &loadedSource{text: text, images: images}, nil
}

// splitSource splits text into sections. With detection off the whole text is main text.
func splitSource(text string, opts domain.SplitOptions, detectStructure bool) domain.DocumentSection {
	if !detectStructure {
		return domain.DocumentSection{MainText: strings.TrimSpace(text)}
	}
	return SplitDocument(text, opts)
}

func languageOr(lang, fallback string) string {
	if lang = strings.TrimSpace(lang); lang != "" {
		return lang
	}
	return fallback
}

func sourceLabel(source domain.SourceDocument) string {
	if source.Name != "" {
		return source.Name
	}
	return fmt.Sprintf("storage:%s", source.StoragePath)
}
