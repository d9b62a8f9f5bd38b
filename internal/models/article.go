package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Article is a blog post shown on the insights pages.
type Article struct {
	ID           string         `json:"id" gorm:"primaryKey;type:varchar(255)"`
	Slug         string         `json:"slug" gorm:"uniqueIndex;type:varchar(255);not null"`
	Title        string         `json:"title" gorm:"type:text;not null"`
	Excerpt      string         `json:"excerpt" gorm:"type:text;not null"`
	Content      string         `json:"content" gorm:"type:text;not null"` // Markdown
	Date         string         `json:"date" gorm:"type:varchar(255);not null"`
	Category     string         `json:"category" gorm:"type:varchar(255);not null;index"`
	ReadTime     string         `json:"readtime" gorm:"column:readtime;type:varchar(255);not null"`
	Views        string         `json:"views" gorm:"type:varchar(255);not null"`
	Comments     string         `json:"comments" gorm:"type:varchar(255)"`
	AuthorName   string         `json:"author_name" gorm:"type:varchar(255);not null"`
	AuthorBio    string         `json:"author_bio" gorm:"type:text;not null"`
	AuthorAvatar string         `json:"author_avatar" gorm:"type:varchar(255);not null"`
	Tags         []string       `json:"tags" gorm:"-"`
	TagsJSON     datatypes.JSON `json:"-" gorm:"column:tags;not null"`
	Featured     bool           `json:"featured" gorm:"not null;default:false"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// EncodeTags returns the stored form of tags. A nil sequence encodes as an
// empty array.
func EncodeTags(tags []string) (datatypes.JSON, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// DecodeTags is the inverse of EncodeTags.
func DecodeTags(raw datatypes.JSON) ([]string, error) {
	tags := []string{}
	if len(raw) == 0 {
		return tags, nil
	}
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}
