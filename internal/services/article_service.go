package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"kikisite/internal/apperr"
	"kikisite/internal/models"
	"kikisite/internal/repositories"

	"github.com/rs/zerolog"
)

const (
	// DefaultRelatedLimit is used when a caller asks for related articles
	// without a limit.
	DefaultRelatedLimit = 3
	// MaxRelatedLimit caps the related articles query.
	MaxRelatedLimit = 20

	excerptRunes = 100
	dateLayout   = "2006-01-02"
)

// ArticleDefaults fills fields a new article was created without.
type ArticleDefaults struct {
	Category     string
	ReadTime     string
	AuthorName   string
	AuthorBio    string
	AuthorAvatar string
}

// ArticleInput is the data of a new article.
type ArticleInput struct {
	Slug         string
	Title        string
	Excerpt      string
	Content      string
	Date         string
	Category     string
	ReadTime     string
	Views        string
	Comments     string
	AuthorName   string
	AuthorBio    string
	AuthorAvatar string
	Tags         []string
	Featured     bool
	CreatedAt    time.Time // zero means now
}

// ArticleService handles business logic related to articles.
type ArticleService struct {
	repo      repositories.ArticleRepository
	publisher EventPublisher
	defaults  ArticleDefaults
	now       func() time.Time
	log       zerolog.Logger
}

// NewArticleService creates a new ArticleService. publisher may be nil.
func NewArticleService(repo repositories.ArticleRepository, publisher EventPublisher, defaults ArticleDefaults, log zerolog.Logger) *ArticleService {
	return &ArticleService{
		repo:      repo,
		publisher: publisher,
		defaults:  defaults,
		now:       time.Now,
		log:       log.With().Str("component", "articles").Logger(),
	}
}

// List retrieves all articles, newest first.
func (s *ArticleService) List(ctx context.Context) ([]models.Article, error) {
	return s.repo.GetAll(ctx)
}

// ByCategory retrieves the articles of one category, newest first.
func (s *ArticleService) ByCategory(ctx context.Context, category string) ([]models.Article, error) {
	return s.repo.GetByCategory(ctx, category)
}

// GetBySlug retrieves a single article by its slug.
func (s *ArticleService) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// Featured retrieves the newest featured article.
func (s *ArticleService) Featured(ctx context.Context) (*models.Article, error) {
	return s.repo.GetFeatured(ctx)
}

// Related returns the newest articles other than slug. A non-positive limit
// selects DefaultRelatedLimit.
func (s *ArticleService) Related(ctx context.Context, slug string, limit int) ([]models.Article, error) {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	if limit > MaxRelatedLimit {
		limit = MaxRelatedLimit
	}
	return s.repo.GetRelated(ctx, slug, limit)
}

// Create validates and stores a new article, filling unset display fields
// with defaults.
func (s *ArticleService) Create(ctx context.Context, input ArticleInput) (*models.Article, error) {
	missing := map[string]string{}
	if strings.TrimSpace(input.Title) == "" {
		missing["title"] = "title is required"
	}
	if strings.TrimSpace(input.Content) == "" {
		missing["content"] = "content is required"
	}
	if strings.TrimSpace(input.Slug) == "" {
		missing["slug"] = "slug is required"
	}
	if len(missing) > 0 {
		return nil, apperr.ValidationFields(missing)
	}

	exists, err := s.repo.SlugExists(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("Article with slug '%s' already exists", input.Slug)
	}

	article := &models.Article{
		Slug:         input.Slug,
		Title:        input.Title,
		Excerpt:      orDefault(input.Excerpt, excerptOf(input.Title)),
		Content:      input.Content,
		Date:         orDefault(input.Date, s.now().UTC().Format(dateLayout)),
		Category:     orDefault(input.Category, s.defaults.Category),
		ReadTime:     orDefault(input.ReadTime, s.defaults.ReadTime),
		Views:        orDefault(input.Views, "0"),
		Comments:     orDefault(input.Comments, "0"),
		AuthorName:   orDefault(input.AuthorName, s.defaults.AuthorName),
		AuthorBio:    orDefault(input.AuthorBio, s.defaults.AuthorBio),
		AuthorAvatar: orDefault(input.AuthorAvatar, s.defaults.AuthorAvatar),
		Tags:         input.Tags,
		Featured:     input.Featured,
		CreatedAt:    input.CreatedAt,
	}
	if err := s.repo.Create(ctx, article); err != nil {
		return nil, err
	}

	s.log.Info().Str("id", article.ID).Str("slug", article.Slug).Msg("Article created")
	publishEvent(s.publisher, s.log, ContentEvent{Type: EventArticleCreated, ID: article.ID, Slug: article.Slug})
	return article, nil
}

// Update applies a partial update. Supplied tags replace the stored ones.
func (s *ArticleService) Update(ctx context.Context, id string, changes repositories.ArticleChanges) (*models.Article, error) {
	empty := map[string]string{}
	for field, v := range map[string]*string{"title": changes.Title, "content": changes.Content, "slug": changes.Slug} {
		if v != nil && strings.TrimSpace(*v) == "" {
			empty[field] = field + " cannot be empty"
		}
	}
	if len(empty) > 0 {
		return nil, apperr.ValidationFields(empty)
	}

	if changes.Slug != nil {
		existing, err := s.repo.GetBySlug(ctx, *changes.Slug)
		switch {
		case err == nil && existing.ID != id:
			return nil, apperr.Conflict("Article with slug '%s' already exists", *changes.Slug)
		case err != nil && !errors.Is(err, apperr.ErrNotFound):
			return nil, err
		}
	}

	article, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("id", article.ID).Str("slug", article.Slug).Msg("Article updated")
	publishEvent(s.publisher, s.log, ContentEvent{Type: EventArticleUpdated, ID: article.ID, Slug: article.Slug})
	return article, nil
}

// Delete permanently removes an article. It reports whether one existed.
func (s *ArticleService) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}

	s.log.Info().Str("id", id).Msg("Article deleted")
	publishEvent(s.publisher, s.log, ContentEvent{Type: EventArticleDeleted, ID: id})
	return true, nil
}

func excerptOf(title string) string {
	runes := []rune(title)
	if len(runes) > excerptRunes {
		runes = runes[:excerptRunes]
	}
	return string(runes) + "..."
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
