package services

import (
	"context"
	"fmt"
	"image"
	_ "image/gif" // register decoders for DecodeConfig
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"kikisite/internal/apperr"
	"kikisite/internal/models"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MaxUploadSize is the largest accepted file, in bytes.
const MaxUploadSize int64 = 10 << 20

// AllowedMimeTypes lists the content types the upload pipeline accepts.
var AllowedMimeTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"application/pdf",
}

// BlobStore stores uploaded binaries and returns their public URL.
// pkg/storage.MinioStore satisfies it.
type BlobStore interface {
	Put(ctx context.Context, objectPath string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, objectPath string) error
}

// UploadRequest is one file taken from a multipart body.
type UploadRequest struct {
	OriginalName string
	Size         int64
	Category     models.ImageCategory
	Body         io.ReadSeeker
}

// UploadResult describes a stored file. It carries everything a follow-up
// image create needs.
type UploadResult struct {
	Filename     string               `json:"filename"`
	OriginalName string               `json:"original_name"`
	URL          string               `json:"url"`
	FileSize     int64                `json:"file_size"`
	MimeType     string               `json:"mime_type"`
	Category     models.ImageCategory `json:"category"`
	Width        *int                 `json:"width,omitempty"`
	Height       *int                 `json:"height,omitempty"`
}

// ImageInput converts the result into image metadata.
func (r *UploadResult) ImageInput() ImageInput {
	return ImageInput{
		Filename:     r.Filename,
		OriginalName: r.OriginalName,
		URL:          r.URL,
		Category:     r.Category,
		FileSize:     r.FileSize,
		MimeType:     r.MimeType,
		Width:        r.Width,
		Height:       r.Height,
	}
}

// UploadService validates files and moves them into the blob store.
type UploadService struct {
	store   BlobStore
	maxSize int64
	now     func() time.Time
	suffix  func() string
	log     zerolog.Logger
}

// NewUploadService creates a new UploadService.
func NewUploadService(store BlobStore, log zerolog.Logger) *UploadService {
	return &UploadService{
		store:   store,
		maxSize: MaxUploadSize,
		now:     time.Now,
		suffix:  randomSuffix,
		log:     log.With().Str("component", "upload").Logger(),
	}
}

// Upload checks size, category and content type, then writes the file to the
// blob store. Nothing is written unless every check passes, and a result is
// only returned once the store confirmed the write.
func (s *UploadService) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	if req.Body == nil {
		return nil, apperr.Validation("No file uploaded")
	}
	if req.Size <= 0 {
		return nil, apperr.Validation("Uploaded file is empty")
	}
	if req.Size > s.maxSize {
		return nil, apperr.Validation("File exceeds the maximum size of %d MB", s.maxSize>>20)
	}
	if req.Category == "" {
		req.Category = models.ImageCategoryOther
	}
	if !req.Category.Valid() {
		return nil, apperr.Validation("Unknown image category '%s'", req.Category)
	}

	detected, err := mimetype.DetectReader(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to detect content type: %w", err)
	}
	if !allowedMime(detected) {
		return nil, apperr.Validation("Unsupported file type %s", detected.String())
	}
	contentType := baseMime(detected.String())

	result := &UploadResult{
		OriginalName: req.OriginalName,
		FileSize:     req.Size,
		MimeType:     contentType,
		Category:     req.Category,
	}
	if strings.HasPrefix(contentType, "image/") {
		if _, err := req.Body.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to rewind upload: %w", err)
		}
		if cfg, _, err := image.DecodeConfig(req.Body); err == nil {
			result.Width, result.Height = &cfg.Width, &cfg.Height
		}
	}
	if _, err := req.Body.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind upload: %w", err)
	}

	objectPath := s.objectPath(req.Category, req.OriginalName, detected)
	url, err := s.store.Put(ctx, objectPath, req.Body, req.Size, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", objectPath, err)
	}
	result.Filename = objectPath
	result.URL = url
	if result.OriginalName == "" {
		result.OriginalName = filepath.Base(objectPath)
	}

	s.log.Info().
		Str("path", objectPath).
		Str("mime_type", contentType).
		Int64("size", req.Size).
		Msg("File uploaded")
	return result, nil
}

// Discard removes a stored file whose metadata could not be recorded.
func (s *UploadService) Discard(ctx context.Context, result *UploadResult) error {
	if err := s.store.Remove(ctx, result.Filename); err != nil {
		return fmt.Errorf("failed to remove %s: %w", result.Filename, err)
	}
	s.log.Info().Str("path", result.Filename).Msg("Discarded unregistered upload")
	return nil
}

// objectPath builds {category}/{unixMillis}-{suffix}.{ext}. The client's
// extension is kept only when it names the detected type.
func (s *UploadService) objectPath(category models.ImageCategory, originalName string, detected *mimetype.MIME) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" || !detected.Is(baseMime(mime.TypeByExtension(ext))) {
		ext = detected.Extension()
	}
	ext = strings.TrimPrefix(ext, ".")
	name := fmt.Sprintf("%d-%s", s.now().UnixMilli(), s.suffix())
	if ext != "" {
		name += "." + ext
	}
	return string(category) + "/" + name
}

func allowedMime(detected *mimetype.MIME) bool {
	for _, allowed := range AllowedMimeTypes {
		if detected.Is(allowed) {
			return true
		}
	}
	return false
}

func baseMime(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		return strings.TrimSpace(contentType[:i])
	}
	return contentType
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}
