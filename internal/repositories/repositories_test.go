package repositories_test

import (
	"context"
	"testing"
	"time"

	"kikisite/internal/apperr"
	"kikisite/internal/config"
	"kikisite/internal/database"
	"kikisite/internal/models"
	"kikisite/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory SQLite database with the schema applied.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file:" + uuid.New().String() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, "sqlite", zerolog.Nop()))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newArticle(slug string) *models.Article {
	return &models.Article{
		Slug:         slug,
		Title:        "Title " + slug,
		Excerpt:      "Excerpt",
		Content:      "Content",
		Date:         "2025-01-01",
		Category:     "行业洞察",
		ReadTime:     "5分钟",
		Views:        "0",
		Comments:     "0",
		AuthorName:   "KIKI",
		AuthorBio:    "bio",
		AuthorAvatar: "/kiki-profile.jpg",
	}
}

func TestGORMArticleRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMArticleRepository(newTestDB(t))

	article := newArticle("tags-round-trip")
	article.Tags = []string{"行业洞察", "技术创新", "市场分析", "b", "a"}
	require.NoError(t, repo.Create(ctx, article))
	assert.NotEmpty(t, article.ID)
	assert.False(t, article.CreatedAt.IsZero())
	assert.Equal(t, article.CreatedAt, article.UpdatedAt)

	stored, err := repo.GetBySlug(ctx, "tags-round-trip")
	require.NoError(t, err)
	assert.Equal(t, article.ID, stored.ID)
	assert.Equal(t, []string{"行业洞察", "技术创新", "市场分析", "b", "a"}, stored.Tags)

	byID, err := repo.GetByID(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, "tags-round-trip", byID.Slug)

	noTags := newArticle("no-tags")
	require.NoError(t, repo.Create(ctx, noTags))
	stored, err = repo.GetBySlug(ctx, "no-tags")
	require.NoError(t, err)
	assert.NotNil(t, stored.Tags)
	assert.Empty(t, stored.Tags)

	_, err = repo.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGORMArticleRepository_DuplicateSlug(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMArticleRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, newArticle("t")))
	err := repo.Create(ctx, newArticle("t"))
	assert.ErrorIs(t, err, apperr.ErrConflict)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	exists, err := repo.SlugExists(ctx, "t")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGORMArticleRepository_Ordering(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMArticleRepository(newTestDB(t))
	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

	oldFeatured := newArticle("old-featured")
	oldFeatured.Featured = true
	oldFeatured.CreatedAt = base
	newFeatured := newArticle("new-featured")
	newFeatured.Featured = true
	newFeatured.CreatedAt = base.Add(time.Hour)
	newest := newArticle("newest")
	newest.Category = "技术分析"
	newest.CreatedAt = base.Add(2 * time.Hour)
	for _, a := range []*models.Article{oldFeatured, newFeatured, newest} {
		require.NoError(t, repo.Create(ctx, a))
	}

	featured, err := repo.GetFeatured(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new-featured", featured.Slug)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "newest", all[0].Slug)
	assert.Equal(t, "new-featured", all[1].Slug)
	assert.Equal(t, "old-featured", all[2].Slug)

	byCategory, err := repo.GetByCategory(ctx, "行业洞察")
	require.NoError(t, err)
	require.Len(t, byCategory, 2)
	assert.Equal(t, "new-featured", byCategory[0].Slug)

	related, err := repo.GetRelated(ctx, "newest", 3)
	require.NoError(t, err)
	require.Len(t, related, 2)
	for _, a := range related {
		assert.NotEqual(t, "newest", a.Slug)
	}

	related, err = repo.GetRelated(ctx, "old-featured", 1)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, "newest", related[0].Slug)
}

func TestGORMArticleRepository_NoFeatured(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMArticleRepository(newTestDB(t))
	require.NoError(t, repo.Create(ctx, newArticle("plain")))

	_, err := repo.GetFeatured(ctx)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	all, err := repositories.NewGORMArticleRepository(newTestDB(t)).GetAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestGORMArticleRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMArticleRepository(newTestDB(t))

	article := newArticle("update-me")
	article.Tags = []string{"old"}
	article.CreatedAt = time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
	require.NoError(t, repo.Create(ctx, article))

	title := "New title"
	featured := true
	tags := []string{"x", "y"}
	updated, err := repo.Update(ctx, article.ID, repositories.ArticleChanges{
		Title:    &title,
		Featured: &featured,
		Tags:     &tags,
	})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.True(t, updated.Featured)
	assert.Equal(t, []string{"x", "y"}, updated.Tags)
	assert.Equal(t, "Content", updated.Content)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	// Unknown id leaves the store untouched
	_, err = repo.Update(ctx, "missing", repositories.ArticleChanges{Title: &title})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Slug collision
	require.NoError(t, repo.Create(ctx, newArticle("other")))
	slug := "other"
	_, err = repo.Update(ctx, article.ID, repositories.ArticleChanges{Slug: &slug})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestGORMArticleRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMArticleRepository(newTestDB(t))

	article := newArticle("delete-me")
	require.NoError(t, repo.Create(ctx, article))

	deleted, err := repo.Delete(ctx, article.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.GetByID(ctx, article.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	deleted, err = repo.Delete(ctx, article.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestGORMImageRepository(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMImageRepository(newTestDB(t))
	width := 800

	factory := &models.Image{
		Filename:     "factory/1-a.jpg",
		OriginalName: "line.jpg",
		URL:          "https://static.example.com/factory/1-a.jpg",
		Category:     models.ImageCategoryFactory,
		FileSize:     1024,
		MimeType:     "image/jpeg",
		Width:        &width,
	}
	other := &models.Image{
		Filename:     "other/2-b.pdf",
		OriginalName: "brochure.pdf",
		URL:          "https://static.example.com/other/2-b.pdf",
		Category:     models.ImageCategoryOther,
		FileSize:     2048,
		MimeType:     "application/pdf",
	}
	require.NoError(t, repo.Create(ctx, factory))
	require.NoError(t, repo.Create(ctx, other))
	assert.NotEmpty(t, factory.ID)

	all, err := repo.GetAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := repo.GetAll(ctx, string(models.ImageCategoryFactory))
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, factory.ID, filtered[0].ID)
	require.NotNil(t, filtered[0].Width)
	assert.Equal(t, 800, *filtered[0].Width)
	assert.Nil(t, filtered[0].Height)

	deleted, err := repo.Delete(ctx, factory.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repo.Delete(ctx, factory.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGORMUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMUserRepository(newTestDB(t))

	user := &models.User{Username: "admin", PasswordHash: "hash", Role: models.RoleAdmin}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)

	err := repo.Create(ctx, &models.User{Username: "admin", PasswordHash: "hash", Role: models.RoleEditor})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	stored, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
	assert.Nil(t, stored.LastLogin)

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.TouchLastLogin(ctx, user.ID, at))
	stored, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLogin)
	assert.True(t, at.Equal(*stored.LastLogin))

	assert.ErrorIs(t, repo.TouchLastLogin(ctx, "missing", at), apperr.ErrNotFound)
	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
