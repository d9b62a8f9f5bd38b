package services_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"regexp"
	"testing"

	"kikisite/internal/apperr"
	"kikisite/internal/models"
	"kikisite/internal/services"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var objectPathPattern = regexp.MustCompile(`^article/\d+-[0-9a-f]{12}\.png$`)

func TestUploadService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("stores an image", func(t *testing.T) {
		store := new(MockBlobStore)
		svc := services.NewUploadService(store, zerolog.Nop())
		data := pngBytes(t, 4, 3)

		store.On("Put", ctx, mock.MatchedBy(objectPathPattern.MatchString), mock.Anything, int64(len(data)), "image/png").
			Return("https://static.example.com/media/article/x.png", nil).Once()

		result, err := svc.Upload(ctx, services.UploadRequest{
			OriginalName: "photo.PNG",
			Size:         int64(len(data)),
			Category:     models.ImageCategoryArticle,
			Body:         bytes.NewReader(data),
		})
		require.NoError(t, err)
		assert.Regexp(t, objectPathPattern, result.Filename)
		assert.Equal(t, "photo.PNG", result.OriginalName)
		assert.Equal(t, "https://static.example.com/media/article/x.png", result.URL)
		assert.Equal(t, "image/png", result.MimeType)
		assert.Equal(t, models.ImageCategoryArticle, result.Category)
		require.NotNil(t, result.Width)
		require.NotNil(t, result.Height)
		assert.Equal(t, 4, *result.Width)
		assert.Equal(t, 3, *result.Height)
		store.AssertExpectations(t)

		input := result.ImageInput()
		assert.Equal(t, result.Filename, input.Filename)
		assert.Equal(t, result.FileSize, input.FileSize)
	})

	t.Run("extension follows the detected type", func(t *testing.T) {
		data := pngBytes(t, 1, 1)
		for _, name := range []string{"evil.html", "photo.jpg", "noext"} {
			store := new(MockBlobStore)
			svc := services.NewUploadService(store, zerolog.Nop())
			store.On("Put", ctx, mock.MatchedBy(objectPathPattern.MatchString), mock.Anything, int64(len(data)), "image/png").
				Return("https://static.example.com/media/article/x.png", nil).Once()

			result, err := svc.Upload(ctx, services.UploadRequest{
				OriginalName: name,
				Size:         int64(len(data)),
				Category:     models.ImageCategoryArticle,
				Body:         bytes.NewReader(data),
			})
			require.NoError(t, err, name)
			assert.Regexp(t, objectPathPattern, result.Filename, name)
			assert.Equal(t, name, result.OriginalName)
			store.AssertExpectations(t)
		}
	})

	t.Run("category defaults to other", func(t *testing.T) {
		store := new(MockBlobStore)
		svc := services.NewUploadService(store, zerolog.Nop())
		data := []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

		store.On("Put", ctx, mock.MatchedBy(regexp.MustCompile(`^other/\d+-[0-9a-f]{12}\.pdf$`).MatchString), mock.Anything, int64(len(data)), "application/pdf").
			Return("https://static.example.com/media/other/x.pdf", nil).Once()

		result, err := svc.Upload(ctx, services.UploadRequest{
			OriginalName: "brochure.pdf",
			Size:         int64(len(data)),
			Body:         bytes.NewReader(data),
		})
		require.NoError(t, err)
		assert.Equal(t, models.ImageCategoryOther, result.Category)
		assert.Nil(t, result.Width)
		store.AssertExpectations(t)
	})

	rejections := []struct {
		name string
		req  func(t *testing.T) services.UploadRequest
	}{
		{"no file", func(t *testing.T) services.UploadRequest {
			return services.UploadRequest{OriginalName: "a.png", Size: 10}
		}},
		{"too large", func(t *testing.T) services.UploadRequest {
			data := pngBytes(t, 2, 2)
			return services.UploadRequest{OriginalName: "a.png", Size: services.MaxUploadSize + 1, Body: bytes.NewReader(data)}
		}},
		{"empty", func(t *testing.T) services.UploadRequest {
			return services.UploadRequest{OriginalName: "a.png", Size: 0, Body: bytes.NewReader(nil)}
		}},
		{"unsupported type", func(t *testing.T) services.UploadRequest {
			data := []byte("plain text pretending to be an image")
			return services.UploadRequest{OriginalName: "a.png", Size: int64(len(data)), Body: bytes.NewReader(data)}
		}},
		{"unknown category", func(t *testing.T) services.UploadRequest {
			data := pngBytes(t, 2, 2)
			return services.UploadRequest{OriginalName: "a.png", Size: int64(len(data)), Category: "banner", Body: bytes.NewReader(data)}
		}},
	}
	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockBlobStore)
			svc := services.NewUploadService(store, zerolog.Nop())

			result, err := svc.Upload(ctx, tt.req(t))
			assert.Nil(t, result)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("store failure", func(t *testing.T) {
		store := new(MockBlobStore)
		svc := services.NewUploadService(store, zerolog.Nop())
		data := pngBytes(t, 2, 2)
		store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", assert.AnError).Once()

		result, err := svc.Upload(ctx, services.UploadRequest{OriginalName: "a.png", Size: int64(len(data)), Body: bytes.NewReader(data)})
		assert.Nil(t, result)
		assert.ErrorIs(t, err, assert.AnError)
		assert.NotErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestUploadService_Discard(t *testing.T) {
	ctx := context.Background()
	store := new(MockBlobStore)
	svc := services.NewUploadService(store, zerolog.Nop())

	store.On("Remove", ctx, "article/1-abc.png").Return(nil).Once()
	assert.NoError(t, svc.Discard(ctx, &services.UploadResult{Filename: "article/1-abc.png"}))
	store.AssertExpectations(t)
}
