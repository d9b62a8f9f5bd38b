package validation

import (
	"testing"

	"kikisite/internal/apperr"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Slug     string `json:"slug" validate:"required,slug"`
	Category string `json:"category" validate:"imagecategory"`
	Size     int64  `json:"file_size" validate:"gt=0"`
}

func TestValidator_Struct(t *testing.T) {
	v := New()

	assert.NoError(t, v.Struct(sample{Slug: "stainless-steel_2024", Size: 1}))
	assert.NoError(t, v.Struct(sample{Slug: "a", Category: "factory", Size: 1}))

	err := v.Struct(sample{Slug: "bad slug!", Category: "banner"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	fields := apperr.Fields(err)
	assert.Contains(t, fields, "slug")
	assert.Contains(t, fields, "category")
	assert.Contains(t, fields, "file_size")

	err = v.Struct(sample{Size: 1})
	assert.Equal(t, "slug is required", apperr.Fields(err)["slug"])
}

func TestSlugFormat(t *testing.T) {
	valid := []string{"t", "stainless-steel-industry-trends-2024", "a_b-c"}
	invalid := []string{"-leading", "trailing-", "double--dash", "with space", "中文", ""}

	for _, s := range valid {
		assert.True(t, slugRegex.MatchString(s), s)
	}
	for _, s := range invalid {
		assert.False(t, slugRegex.MatchString(s), s)
	}
}

func TestReservedSlug(t *testing.T) {
	v := New()

	for _, slug := range []string{"featured", "Featured"} {
		err := v.Struct(sample{Slug: slug, Size: 1})
		assert.ErrorIs(t, err, apperr.ErrValidation, slug)
		assert.Equal(t, "slug '"+slug+"' is reserved", apperr.Fields(err)["slug"])
	}
	assert.NoError(t, v.Struct(sample{Slug: "featured-products", Size: 1}))
}
