// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"mime"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"tripledger/internal/models"
)

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("treasury_direction", validateTreasuryDirection)
		_ = v.RegisterValidation("image_mime", validateImageMime)
		_ = v.RegisterValidation("iso_date", validateISODate)
		_ = v.RegisterValidation("notblank", validateNotBlank)
	}
}

func validateTreasuryDirection(fl validator.FieldLevel) bool {
	return models.TreasuryDirection(fl.Field().String()).Valid()
}

func validateImageMime(fl validator.FieldLevel) bool {
	mediaType, _, err := mime.ParseMediaType(fl.Field().String())
	return err == nil && strings.HasPrefix(mediaType, "image/")
}

func validateISODate(fl validator.FieldLevel) bool {
	return dateRegex.MatchString(fl.Field().String())
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
