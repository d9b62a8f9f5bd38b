package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kikisite/internal/apperr"
	"kikisite/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMArticleRepository is a GORM implementation of ArticleRepository.
type GORMArticleRepository struct {
	db *gorm.DB
}

// NewGORMArticleRepository creates a new instance of GORMArticleRepository.
func NewGORMArticleRepository(db *gorm.DB) *GORMArticleRepository {
	return &GORMArticleRepository{
		db: db,
	}
}

// GetAll retrieves every article, newest first.
func (r *GORMArticleRepository) GetAll(ctx context.Context) ([]models.Article, error) {
	var articles []models.Article
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("failed to get all articles: %w", err)
	}
	return decodeArticles(articles)
}

// GetByID retrieves a single article by its ID.
func (r *GORMArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	return r.take("article with ID "+id, r.db.WithContext(ctx).Where("id = ?", id))
}

// GetBySlug retrieves a single article by its slug.
func (r *GORMArticleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	return r.take("article with slug "+slug, r.db.WithContext(ctx).Where("slug = ?", slug))
}

// GetFeatured retrieves the most recently created featured article.
func (r *GORMArticleRepository) GetFeatured(ctx context.Context) (*models.Article, error) {
	return r.take("featured article", r.db.WithContext(ctx).Where("featured = ?", true).Order("created_at DESC"))
}

// GetByCategory retrieves the articles of one category, newest first.
func (r *GORMArticleRepository) GetByCategory(ctx context.Context, category string) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("created_at DESC").
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get articles for category %s: %w", category, err)
	}
	return decodeArticles(articles)
}

// GetRelated returns up to limit of the newest articles other than excludeSlug.
// Relatedness is recency only; topics are not compared.
func (r *GORMArticleRepository) GetRelated(ctx context.Context, excludeSlug string, limit int) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.WithContext(ctx).
		Where("slug <> ?", excludeSlug).
		Order("created_at DESC").
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get articles related to %s: %w", excludeSlug, err)
	}
	return decodeArticles(articles)
}

// SlugExists checks if an article with the given slug exists.
func (r *GORMArticleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Article{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check slug %s: %w", slug, err)
	}
	return count > 0, nil
}

// Create inserts a new article. CreatedAt is kept when already set so seeded
// content can carry its original timestamps.
func (r *GORMArticleRepository) Create(ctx context.Context, article *models.Article) error {
	if article.ID == "" {
		article.ID = uuid.New().String()
	}
	if article.CreatedAt.IsZero() {
		article.CreatedAt = now()
	}
	article.UpdatedAt = article.CreatedAt
	if article.Tags == nil {
		article.Tags = []string{}
	}
	encoded, err := models.EncodeTags(article.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}
	article.TagsJSON = encoded

	if err := r.db.WithContext(ctx).Create(article).Error; err != nil {
		if isDuplicate(err) {
			return apperr.Conflict("Article with slug '%s' already exists", article.Slug)
		}
		return fmt.Errorf("failed to create article: %w", err)
	}
	return nil
}

// Update applies changes to the article with the given ID in one statement and
// returns the stored result. updated_at is always refreshed.
func (r *GORMArticleRepository) Update(ctx context.Context, id string, changes ArticleChanges) (*models.Article, error) {
	values, err := changes.columns()
	if err != nil {
		return nil, err
	}
	values["updated_at"] = now()

	res := r.db.WithContext(ctx).Model(&models.Article{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		if isDuplicate(res.Error) {
			return nil, apperr.Conflict("Article with slug '%s' already exists", *changes.Slug)
		}
		return nil, fmt.Errorf("failed to update article %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("Article with ID %s not found", id)
	}
	return r.GetByID(ctx, id)
}

// Delete deletes an article by its ID. It reports whether a row was removed.
func (r *GORMArticleRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Article{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete article %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Count returns the total number of articles.
func (r *GORMArticleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Article{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

func (r *GORMArticleRepository) take(what string, query *gorm.DB) (*models.Article, error) {
	var article models.Article
	if err := query.Take(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("%s not found", capitalize(what))
		}
		return nil, fmt.Errorf("failed to get %s: %w", what, err)
	}
	tags, err := models.DecodeTags(article.TagsJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tags of article %s: %w", article.ID, err)
	}
	article.Tags = tags
	return &article, nil
}

func (c ArticleChanges) columns() (map[string]interface{}, error) {
	values := map[string]interface{}{}
	set := func(column string, v *string) {
		if v != nil {
			values[column] = *v
		}
	}
	set("slug", c.Slug)
	set("title", c.Title)
	set("excerpt", c.Excerpt)
	set("content", c.Content)
	set("date", c.Date)
	set("category", c.Category)
	set("readtime", c.ReadTime)
	set("views", c.Views)
	set("comments", c.Comments)
	set("author_name", c.AuthorName)
	set("author_bio", c.AuthorBio)
	set("author_avatar", c.AuthorAvatar)
	if c.Featured != nil {
		values["featured"] = *c.Featured
	}
	if c.Tags != nil {
		encoded, err := models.EncodeTags(*c.Tags)
		if err != nil {
			return nil, fmt.Errorf("failed to encode tags: %w", err)
		}
		values["tags"] = encoded
	}
	return values, nil
}

func decodeArticles(articles []models.Article) ([]models.Article, error) {
	if articles == nil {
		return []models.Article{}, nil
	}
	for i := range articles {
		tags, err := models.DecodeTags(articles[i].TagsJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to decode tags of article %s: %w", articles[i].ID, err)
		}
		articles[i].Tags = tags
	}
	return articles, nil
}

// isDuplicate reports a unique constraint violation. The database is opened
// with TranslateError, the message check covers drivers without a translator.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// now is truncated to the precision postgres keeps, so values returned from a
// create match what a later read yields.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
