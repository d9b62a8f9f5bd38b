package repositories

import (
	"context"

	"kikisite/internal/models"
)

// ImageRepository defines the interface for image metadata access.
type ImageRepository interface {
	// GetAll lists images newest first; an empty category lists all of them.
	GetAll(ctx context.Context, category string) ([]models.Image, error)
	GetByID(ctx context.Context, id string) (*models.Image, error)
	Create(ctx context.Context, image *models.Image) error
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
}
