package handlers

import (
	"kikisite/internal/models"
	"kikisite/internal/services"
	"kikisite/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ImageHandler serves the admin image metadata collection.
type ImageHandler struct {
	images   *services.ImageService
	validate *validation.Validator
	log      zerolog.Logger
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(images *services.ImageService, validate *validation.Validator, log zerolog.Logger) *ImageHandler {
	return &ImageHandler{
		images:   images,
		validate: validate,
		log:      log.With().Str("component", "image_handler").Logger(),
	}
}

// RegisterRoutes registers the image routes on an authenticated router.
func (h *ImageHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/images", h.HandleList)
	router.Post("/images", h.HandleCreate)
	router.Delete("/images", h.HandleDelete)
	router.All("/images", MethodNotAllowed(fiber.MethodGet, fiber.MethodPost, fiber.MethodDelete))
}

// CreateImageRequest is the body of POST /api/admin/images.
type CreateImageRequest struct {
	Filename     string `json:"filename" validate:"required,max=255"`
	OriginalName string `json:"original_name" validate:"max=255"`
	URL          string `json:"url" validate:"required,url"`
	Category     string `json:"category" validate:"imagecategory"`
	Description  string `json:"description"`
	AltText      string `json:"alt_text"`
	FileSize     int64  `json:"file_size" validate:"required,gt=0"`
	MimeType     string `json:"mime_type" validate:"required,max=100"`
	Width        *int   `json:"width" validate:"omitempty,gt=0"`
	Height       *int   `json:"height" validate:"omitempty,gt=0"`
}

// HandleList returns image metadata, filtered by ?category= when present.
func (h *ImageHandler) HandleList(c *fiber.Ctx) error {
	images, err := h.images.List(c.UserContext(), models.ImageCategory(c.Query("category")))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(images)
}

// HandleCreate records the metadata of an uploaded file.
func (h *ImageHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateImageRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondError(c, h.log, err)
	}

	image, err := h.images.Create(c.UserContext(), services.ImageInput{
		Filename:     req.Filename,
		OriginalName: req.OriginalName,
		URL:          req.URL,
		Category:     models.ImageCategory(req.Category),
		Description:  req.Description,
		AltText:      req.AltText,
		FileSize:     req.FileSize,
		MimeType:     req.MimeType,
		Width:        req.Width,
		Height:       req.Height,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(image)
}

// HandleDelete removes the metadata named by ?id=.
func (h *ImageHandler) HandleDelete(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return missingID(c)
	}

	deleted, err := h.images.Delete(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Image not found",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Image deleted successfully",
	})
}
