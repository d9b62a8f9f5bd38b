package handlers

import (
	"kikisite/internal/models"
	"kikisite/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// PublicHandler serves the read-only article endpoints used by the site pages.
type PublicHandler struct {
	articles *services.ArticleService
	log      zerolog.Logger
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(articles *services.ArticleService, log zerolog.Logger) *PublicHandler {
	return &PublicHandler{
		articles: articles,
		log:      log.With().Str("component", "public_handler").Logger(),
	}
}

// RegisterRoutes registers the public article routes. /featured is
// registered ahead of /:slug.
func (h *PublicHandler) RegisterRoutes(router fiber.Router) {
	articles := router.Group("/articles")
	articles.Get("/", h.HandleList)
	articles.Get("/featured", h.HandleFeatured)
	articles.Get("/:slug", h.HandleGet)
	articles.Get("/:slug/related", h.HandleRelated)
}

// HandleList returns all articles, or those of ?category=.
func (h *PublicHandler) HandleList(c *fiber.Ctx) error {
	ctx := c.UserContext()
	var (
		articles []models.Article
		err      error
	)
	if category := c.Query("category"); category != "" {
		articles, err = h.articles.ByCategory(ctx, category)
	} else {
		articles, err = h.articles.List(ctx)
	}
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(articles)
}

// HandleFeatured returns the newest featured article.
func (h *PublicHandler) HandleFeatured(c *fiber.Ctx) error {
	article, err := h.articles.Featured(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(article)
}

// HandleGet returns one article by slug.
func (h *PublicHandler) HandleGet(c *fiber.Ctx) error {
	article, err := h.articles.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(article)
}

// HandleRelated returns up to ?limit= other articles, newest first.
func (h *PublicHandler) HandleRelated(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", services.DefaultRelatedLimit)
	articles, err := h.articles.Related(c.UserContext(), c.Params("slug"), limit)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(articles)
}
