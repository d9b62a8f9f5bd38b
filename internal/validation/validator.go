// Package validation wraps go-playground/validator with the rules used by the
// request types of the admin API.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"kikisite/internal/apperr"
	"kikisite/internal/models"

	"github.com/go-playground/validator/v10"
)

var slugRegex = regexp.MustCompile(`^[A-Za-z0-9]+(?:[-_][A-Za-z0-9]+)*$`)

// reservedSlugs are path segments the public article routes claim before
// the :slug parameter.
var reservedSlugs = []string{"featured"}

func validSlug(s string) bool {
	return slugRegex.MatchString(s) && !reservedSlug(s)
}

func reservedSlug(s string) bool {
	for _, r := range reservedSlugs {
		if strings.EqualFold(s, r) {
			return true
		}
	}
	return false
}

// Validator validates request structs.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the "slug" and "imagecategory" tags registered.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return validSlug(fl.Field().String())
	})
	_ = v.RegisterValidation("imagecategory", func(fl validator.FieldLevel) bool {
		c := fl.Field().String()
		return c == "" || models.ImageCategory(c).Valid()
	})
	return &Validator{validate: v}
}

// Struct validates s and returns an apperr validation error listing each
// failed field.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperr.Validation("Invalid request: %v", err)
	}
	errorMessages := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		errorMessages[e.Field()] = message(e)
	}
	return apperr.ValidationFields(errorMessages)
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "slug":
		if v, ok := e.Value().(string); ok && reservedSlug(v) {
			return fmt.Sprintf("%s '%s' is reserved", e.Field(), v)
		}
		return fmt.Sprintf("%s must contain only letters, digits, '-' and '_'", e.Field())
	case "imagecategory":
		return fmt.Sprintf("%s must be one of product, factory, article, other", e.Field())
	case "gt", "min":
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
}
