package database

import (
	"regexp"
	"testing"

	"kikisite/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImagesMigration_CategoryCheckMatchesModel(t *testing.T) {
	ddl, err := migrationFiles.ReadFile("migrations/000003_create_images.up.sql")
	require.NoError(t, err)

	check := regexp.MustCompile(`CHECK \(category IN \(([^)]*)\)\)`).FindSubmatch(ddl)
	require.NotNil(t, check, "images.category has no CHECK constraint")

	allowed := regexp.MustCompile(`'([a-z]+)'`).FindAllSubmatch(check[1], -1)
	var values []string
	for _, m := range allowed {
		values = append(values, string(m[1]))
	}
	var want []string
	for _, c := range models.ImageCategories {
		want = append(want, string(c))
	}
	assert.ElementsMatch(t, want, values)
}
