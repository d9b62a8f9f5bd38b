package services

import (
	"context"

	"kikisite/internal/apperr"
	"kikisite/internal/models"
	"kikisite/internal/repositories"

	"github.com/rs/zerolog"
)

// ImageInput is the metadata of an uploaded file.
type ImageInput struct {
	Filename     string
	OriginalName string
	URL          string
	Category     models.ImageCategory
	Description  string
	AltText      string
	FileSize     int64
	MimeType     string
	Width        *int
	Height       *int
}

// ImageService handles business logic related to image metadata.
type ImageService struct {
	repo      repositories.ImageRepository
	publisher EventPublisher
	log       zerolog.Logger
}

// NewImageService creates a new ImageService. publisher may be nil.
func NewImageService(repo repositories.ImageRepository, publisher EventPublisher, log zerolog.Logger) *ImageService {
	return &ImageService{
		repo:      repo,
		publisher: publisher,
		log:       log.With().Str("component", "images").Logger(),
	}
}

// List retrieves image metadata, optionally restricted to one category.
func (s *ImageService) List(ctx context.Context, category models.ImageCategory) ([]models.Image, error) {
	if category != "" && !category.Valid() {
		return nil, apperr.Validation("Unknown image category '%s'", category)
	}
	return s.repo.GetAll(ctx, string(category))
}

// Create records the metadata of a file that is already stored.
func (s *ImageService) Create(ctx context.Context, input ImageInput) (*models.Image, error) {
	missing := map[string]string{}
	if input.Filename == "" {
		missing["filename"] = "filename is required"
	}
	if input.URL == "" {
		missing["url"] = "url is required"
	}
	if input.FileSize <= 0 {
		missing["file_size"] = "file_size must be a positive number of bytes"
	}
	if input.MimeType == "" {
		missing["mime_type"] = "mime_type is required"
	}
	if input.Category != "" && !input.Category.Valid() {
		missing["category"] = "category must be one of product, factory, article, other"
	}
	if (input.Width != nil && *input.Width <= 0) || (input.Height != nil && *input.Height <= 0) {
		missing["dimensions"] = "width and height must be positive"
	}
	if len(missing) > 0 {
		return nil, apperr.ValidationFields(missing)
	}

	image := &models.Image{
		Filename:     input.Filename,
		OriginalName: orDefault(input.OriginalName, input.Filename),
		URL:          input.URL,
		Category:     input.Category,
		Description:  input.Description,
		AltText:      input.AltText,
		FileSize:     input.FileSize,
		MimeType:     input.MimeType,
		Width:        input.Width,
		Height:       input.Height,
	}
	if image.Category == "" {
		image.Category = models.ImageCategoryOther
	}
	if err := s.repo.Create(ctx, image); err != nil {
		return nil, err
	}

	s.log.Info().Str("id", image.ID).Str("url", image.URL).Msg("Image recorded")
	publishEvent(s.publisher, s.log, ContentEvent{Type: EventImageCreated, ID: image.ID})
	return image, nil
}

// Delete removes image metadata. The stored blob is not touched.
func (s *ImageService) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}

	s.log.Info().Str("id", id).Msg("Image deleted")
	publishEvent(s.publisher, s.log, ContentEvent{Type: EventImageDeleted, ID: id})
	return true, nil
}
