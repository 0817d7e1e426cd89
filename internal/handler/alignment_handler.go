package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"bilingual-reader/internal/domain"
)

const multipartMemory = 32 << 20

// AlignmentHandlerOptions holds the request defaults and limits.
type AlignmentHandlerOptions struct {
	MaxFileSize      int64
	DefaultMode      string
	DefaultImageMode string
}

// AlignmentHandler serves the alignment and structure endpoints.
type AlignmentHandler struct {
	alignmentService domain.AlignmentService
	opts             AlignmentHandlerOptions
	logger           domain.Logger
}

// NewAlignmentHandler creates a new alignment handler
func NewAlignmentHandler(alignmentService domain.AlignmentService, opts AlignmentHandlerOptions, logger domain.Logger) *AlignmentHandler {
	if opts.DefaultMode == "" {
		opts.DefaultMode = string(domain.AlignmentModeSentence)
	}
	if opts.DefaultImageMode == "" {
		opts.DefaultImageMode = string(domain.ImageMatchIndex)
	}
	return &AlignmentHandler{
		alignmentService: alignmentService,
		opts:             opts,
		logger:           logger,
	}
}

// Align handles POST /api/v1/alignments.
//
// Each source is either an uploaded file (file1, file2) or a storage path
// (source1, source2). Per-source fields carry the same suffix: lang,
// start_marker, end_marker, start_position and end_position.
func (h *AlignmentHandler) Align(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 2*h.opts.MaxFileSize+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.writeFormError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	source1, err := h.readSource(r, "1")
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	source2, err := h.readSource(r, "2")
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	detect, err := formBool(r, "detect_structure", true)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	includeImages, err := formBool(r, "include_images", false)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	req := domain.AlignmentRequest{
		Source1:         source1,
		Source2:         source2,
		Mode:            domain.AlignmentMode(formValueOr(r, "mode", h.opts.DefaultMode)),
		DetectStructure: detect,
		IncludeImages:   includeImages,
		ImageMode:       domain.ImageMatchMode(formValueOr(r, "image_mode", h.opts.DefaultImageMode)),
	}

	result, err := h.alignmentService.Align(r.Context(), req)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	response, err := newAlignmentResponse(result)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// AnalyzeStructure handles POST /api/v1/structure for a single source given as
// file or source, with the unsuffixed per-source fields.
func (h *AlignmentHandler) AnalyzeStructure(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxFileSize+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.writeFormError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	source, err := h.readSource(r, "")
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	detect, err := formBool(r, "detect_structure", true)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	result, err := h.alignmentService.AnalyzeStructure(r.Context(), source, detect)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, structureResponse{
		Sections:   result.Sections,
		Chapters:   nonNil(result.Chapters),
		ImageCount: result.ImageCount,
	})
}

func (h *AlignmentHandler) writeFormError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request too large. Maximum file size is %d bytes.", h.opts.MaxFileSize))
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid multipart form")
}

// readSource reads the source whose form fields end in suffix.
func (h *AlignmentHandler) readSource(r *http.Request, suffix string) (domain.SourceDocument, error) {
	field := "source" + suffix
	source := domain.SourceDocument{
		StoragePath: strings.TrimSpace(r.FormValue(field)),
		Language:    strings.TrimSpace(r.FormValue("lang" + suffix)),
		Split: domain.SplitOptions{
			StartMarker: r.FormValue("start_marker" + suffix),
			EndMarker:   r.FormValue("end_marker" + suffix),
		},
	}

	var err error
	if source.Split.StartPosition, err = formInt(r, "start_position"+suffix); err != nil {
		return source, err
	}
	if source.Split.EndPosition, err = formInt(r, "end_position"+suffix); err != nil {
		return source, err
	}

	file, header, err := r.FormFile("file" + suffix)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		if source.StoragePath != "" {
			source.Name = filepath.Base(source.StoragePath)
		}
		return source, nil
	case err != nil:
		return source, &domain.ValidationError{Field: "file" + suffix, Message: "could not read file"}
	}
	defer file.Close()

	if header.Size > h.opts.MaxFileSize {
		return source, &domain.ValidationError{
			Field:   "file" + suffix,
			Message: fmt.Sprintf("file too large, maximum size is %d bytes", h.opts.MaxFileSize),
		}
	}

	// Sanitize filename (strip any path components)
	name := strings.TrimSpace(filepath.Base(header.Filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return source, &domain.ValidationError{Field: "file" + suffix, Message: "file name is required"}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return source, fmt.Errorf("failed to read %s: %w", "file"+suffix, err)
	}
	source.Name = name
	source.Data = data
	return source, nil
}

func formValueOr(r *http.Request, key, fallback string) string {
	if v := strings.TrimSpace(r.FormValue(key)); v != "" {
		return v
	}
	return fallback
}

func formBool(r *http.Request, key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, &domain.ValidationError{Field: key, Message: "must be true or false"}
	}
	return b, nil
}

func formInt(r *http.Request, key string) (*int, error) {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, &domain.ValidationError{Field: key, Message: "must be an integer"}
	}
	return &n, nil
}
