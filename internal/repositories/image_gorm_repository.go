package repositories

import (
	"context"
	"errors"
	"fmt"

	"kikisite/internal/apperr"
	"kikisite/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMImageRepository is a GORM implementation of ImageRepository.
type GORMImageRepository struct {
	db *gorm.DB
}

// NewGORMImageRepository creates a new instance of GORMImageRepository.
func NewGORMImageRepository(db *gorm.DB) *GORMImageRepository {
	return &GORMImageRepository{
		db: db,
	}
}

// GetAll retrieves image metadata, optionally filtered by category.
func (r *GORMImageRepository) GetAll(ctx context.Context, category string) ([]models.Image, error) {
	images := []models.Image{}
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to get images: %w", err)
	}
	return images, nil
}

// GetByID retrieves a single image by its ID.
func (r *GORMImageRepository) GetByID(ctx context.Context, id string) (*models.Image, error) {
	var image models.Image
	if err := r.db.WithContext(ctx).Take(&image, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Image with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get image by ID %s: %w", id, err)
	}
	return &image, nil
}

// Create inserts image metadata.
func (r *GORMImageRepository) Create(ctx context.Context, image *models.Image) error {
	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	image.CreatedAt = now()
	image.UpdatedAt = image.CreatedAt
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	return nil
}

// Delete removes the metadata row only; the stored blob is left in place.
func (r *GORMImageRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Image{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete image %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Count returns the total number of images.
func (r *GORMImageRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Image{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count images: %w", err)
	}
	return count, nil
}
