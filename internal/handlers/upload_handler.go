package handlers

import (
	"context"
	"errors"

	"kikisite/internal/apperr"
	"kikisite/internal/models"
	"kikisite/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// UploadHandler accepts multipart uploads and hands them to the blob store.
type UploadHandler struct {
	uploads *services.UploadService
	images  *services.ImageService
	log     zerolog.Logger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploads *services.UploadService, images *services.ImageService, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		uploads: uploads,
		images:  images,
		log:     log.With().Str("component", "upload_handler").Logger(),
	}
}

// RegisterRoutes registers the upload route on an authenticated router.
func (h *UploadHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/upload", h.HandleUpload)
	router.All("/upload", MethodNotAllowed(fiber.MethodPost))
}

// HandleUpload stores the "file" part of a multipart body. The optional
// "category" field selects the storage folder. With register=true the image
// metadata is recorded in the same request and the blob is removed again if
// that fails.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	defer c.Request().RemoveMultipartFormFiles()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "No file uploaded",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.log.Error().Err(err).Str("file", fileHeader.Filename).Msg("Failed to open uploaded file")
		return uploadFailed(c)
	}
	defer file.Close()

	ctx := c.UserContext()
	result, err := h.uploads.Upload(ctx, services.UploadRequest{
		OriginalName: fileHeader.Filename,
		Size:         fileHeader.Size,
		Category:     models.ImageCategory(c.FormValue("category")),
		Body:         file,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			return respondError(c, h.log, err)
		}
		h.log.Error().Err(err).Str("file", fileHeader.Filename).Msg("Upload failed")
		return uploadFailed(c)
	}

	if c.FormValue("register") != "true" {
		return c.JSON(result)
	}

	input := result.ImageInput()
	input.Description = c.FormValue("description")
	input.AltText = c.FormValue("alt_text")
	image, err := h.images.Create(ctx, input)
	if err != nil {
		// The request context may already be done; the compensation must still run.
		if discardErr := h.uploads.Discard(context.WithoutCancel(ctx), result); discardErr != nil {
			h.log.Error().Err(discardErr).Str("path", result.Filename).Msg("Failed to remove orphaned upload")
		}
		if errors.Is(err, apperr.ErrValidation) {
			return respondError(c, h.log, err)
		}
		h.log.Error().Err(err).Str("path", result.Filename).Msg("Failed to record uploaded image")
		return uploadFailed(c)
	}
	return c.Status(fiber.StatusCreated).JSON(image)
}

func uploadFailed(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Upload failed",
	})
}
