package models

import "time"

// ImageCategory groups uploaded files in the admin media library.
type ImageCategory string

const (
	ImageCategoryProduct ImageCategory = "product"
	ImageCategoryFactory ImageCategory = "factory"
	ImageCategoryArticle ImageCategory = "article"
	ImageCategoryOther   ImageCategory = "other"
)

// ImageCategories lists the accepted categories.
var ImageCategories = []ImageCategory{
	ImageCategoryProduct,
	ImageCategoryFactory,
	ImageCategoryArticle,
	ImageCategoryOther,
}

// Valid reports whether c is one of ImageCategories.
func (c ImageCategory) Valid() bool {
	for _, known := range ImageCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Image is the metadata of a file stored in the blob store.
type Image struct {
	ID           string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Filename     string        `json:"filename" gorm:"type:varchar(255);not null"`
	OriginalName string        `json:"original_name" gorm:"type:varchar(255);not null"`
	URL          string        `json:"url" gorm:"type:text;not null"`
	Category     ImageCategory `json:"category" gorm:"type:varchar(20);not null;index"`
	Description  string        `json:"description,omitempty" gorm:"type:text"`
	AltText      string        `json:"alt_text,omitempty" gorm:"type:text"`
	FileSize     int64         `json:"file_size" gorm:"not null"`
	MimeType     string        `json:"mime_type" gorm:"type:varchar(100);not null"`
	Width        *int          `json:"width,omitempty"`
	Height       *int          `json:"height,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
