package repositories

import (
	"context"

	"kikisite/internal/models"
)

// ArticleRepository defines the interface for article data access.
type ArticleRepository interface {
	GetAll(ctx context.Context) ([]models.Article, error)
	GetByID(ctx context.Context, id string) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	GetFeatured(ctx context.Context) (*models.Article, error)
	GetByCategory(ctx context.Context, category string) ([]models.Article, error)
	GetRelated(ctx context.Context, excludeSlug string, limit int) ([]models.Article, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, id string, changes ArticleChanges) (*models.Article, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// ArticleChanges holds the columns of a partial update. Nil fields are left
// untouched.
type ArticleChanges struct {
	Slug         *string
	Title        *string
	Excerpt      *string
	Content      *string
	Date         *string
	Category     *string
	ReadTime     *string
	Views        *string
	Comments     *string
	AuthorName   *string
	AuthorBio    *string
	AuthorAvatar *string
	Tags         *[]string
	Featured     *bool
}
