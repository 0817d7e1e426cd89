package domain

// ImageOptions controls how extracted images are filtered and resized.
type ImageOptions struct {
	MaxWidth  int
	MaxHeight int
	// MinSize drops images narrower or shorter than this many pixels.
	MinSize int
}

// SourceDocument is one input book. Either Data or StoragePath is set.
type SourceDocument struct {
	Name        string
	Data        []byte
	StoragePath string
	Language    string
	Split       SplitOptions
}

// AlignmentRequest describes one bilingual alignment run.
type AlignmentRequest struct {
	Source1         SourceDocument
	Source2         SourceDocument
	Mode            AlignmentMode
	DetectStructure bool
	IncludeImages   bool
	ImageMode       ImageMatchMode
}

// AlignmentResult carries the per-language sections and the aligned output.
// WithImages is set only when images were requested; Document is always set.
type AlignmentResult struct {
	Sections1  DocumentSection
	Sections2  DocumentSection
	Document   *AlignedDocument
	WithImages *AlignedDocumentWithImages
}

// StructureResult describes how one document was segmented.
type StructureResult struct {
	Sections   DocumentSection
	Chapters   []Chapter
	ImageCount int
}

// Validate checks that the source can be resolved to file bytes.
func (s SourceDocument) Validate(field string) error {
	if len(s.Data) == 0 && s.StoragePath == "" {
		return &ValidationError{Field: field, Message: "file or storage path is required"}
	}
	if len(s.Data) > 0 && s.Name == "" {
		return &ValidationError{Field: field, Message: "file name is required"}
	}
	if s.Split.StartPosition != nil && *s.Split.StartPosition < 0 {
		return &ValidationError{Field: field, Message: "start position must not be negative"}
	}
	if s.Split.EndPosition != nil && *s.Split.EndPosition < 0 {
		return &ValidationError{Field: field, Message: "end position must not be negative"}
	}
	return nil
}

// Validate checks both sources and the selected modes.
func (r AlignmentRequest) Validate() error {
	if err := r.Source1.Validate("source1"); err != nil {
		return err
	}
	if err := r.Source2.Validate("source2"); err != nil {
		return err
	}
	if _, err := ParseAlignmentMode(string(r.Mode)); err != nil {
		return &ValidationError{Field: "mode", Message: err.Error()}
	}
	if r.IncludeImages {
		if _, err := ParseImageMatchMode(string(r.ImageMode)); err != nil {
			return &ValidationError{Field: "image_mode", Message: err.Error()}
		}
	}
	return nil
}
