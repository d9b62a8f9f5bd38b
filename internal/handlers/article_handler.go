package handlers

import (
	"kikisite/internal/repositories"
	"kikisite/internal/services"
	"kikisite/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ArticleHandler serves the admin article collection.
type ArticleHandler struct {
	articles *services.ArticleService
	validate *validation.Validator
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler.
func NewArticleHandler(articles *services.ArticleService, validate *validation.Validator, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		articles: articles,
		validate: validate,
		log:      log.With().Str("component", "article_handler").Logger(),
	}
}

// RegisterRoutes registers the article routes on an authenticated router.
func (h *ArticleHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/articles", h.HandleList)
	router.Post("/articles", h.HandleCreate)
	router.Put("/articles", h.HandleUpdate)
	router.Delete("/articles", h.HandleDelete)
	router.All("/articles", MethodNotAllowed(fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete))
}

// CreateArticleRequest is the body of POST /api/admin/articles.
type CreateArticleRequest struct {
	Slug     string   `json:"slug" validate:"required,slug,max=255"`
	Title    string   `json:"title" validate:"required"`
	Content  string   `json:"content" validate:"required"`
	Excerpt  string   `json:"excerpt"`
	Date     string   `json:"date"`
	Category string   `json:"category" validate:"max=255"`
	ReadTime string   `json:"readtime" validate:"max=255"`
	Views    string   `json:"views" validate:"max=255"`
	Comments string   `json:"comments" validate:"max=255"`
	Tags     []string `json:"tags"`
	Featured bool     `json:"featured"`
}

// UpdateArticleRequest is the body of PUT /api/admin/articles. Absent fields
// are left unchanged.
type UpdateArticleRequest struct {
	Slug         *string   `json:"slug" validate:"omitempty,slug,max=255"`
	Title        *string   `json:"title"`
	Content      *string   `json:"content"`
	Excerpt      *string   `json:"excerpt"`
	Date         *string   `json:"date"`
	Category     *string   `json:"category" validate:"omitempty,max=255"`
	ReadTime     *string   `json:"readtime" validate:"omitempty,max=255"`
	Views        *string   `json:"views" validate:"omitempty,max=255"`
	Comments     *string   `json:"comments" validate:"omitempty,max=255"`
	AuthorName   *string   `json:"author_name"`
	AuthorBio    *string   `json:"author_bio"`
	AuthorAvatar *string   `json:"author_avatar"`
	Tags         *[]string `json:"tags"`
	Featured     *bool     `json:"featured"`
}

func (r UpdateArticleRequest) changes() repositories.ArticleChanges {
	return repositories.ArticleChanges{
		Slug:         r.Slug,
		Title:        r.Title,
		Excerpt:      r.Excerpt,
		Content:      r.Content,
		Date:         r.Date,
		Category:     r.Category,
		ReadTime:     r.ReadTime,
		Views:        r.Views,
		Comments:     r.Comments,
		AuthorName:   r.AuthorName,
		AuthorBio:    r.AuthorBio,
		AuthorAvatar: r.AuthorAvatar,
		Tags:         r.Tags,
		Featured:     r.Featured,
	}
}

// HandleList returns every article, newest first.
func (h *ArticleHandler) HandleList(c *fiber.Ctx) error {
	articles, err := h.articles.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(articles)
}

// HandleCreate validates the body and stores a new article.
func (h *ArticleHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondError(c, h.log, err)
	}

	article, err := h.articles.Create(c.UserContext(), services.ArticleInput{
		Slug:     req.Slug,
		Title:    req.Title,
		Excerpt:  req.Excerpt,
		Content:  req.Content,
		Date:     req.Date,
		Category: req.Category,
		ReadTime: req.ReadTime,
		Views:    req.Views,
		Comments: req.Comments,
		Tags:     req.Tags,
		Featured: req.Featured,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(article)
}

// HandleUpdate applies a partial update to the article named by ?id=.
func (h *ArticleHandler) HandleUpdate(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return missingID(c)
	}

	var req UpdateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondError(c, h.log, err)
	}

	article, err := h.articles.Update(c.UserContext(), id, req.changes())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(article)
}

// HandleDelete removes the article named by ?id=.
func (h *ArticleHandler) HandleDelete(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return missingID(c)
	}

	deleted, err := h.articles.Delete(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Article not found",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Article deleted successfully",
	})
}
