package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/Onyx-Digital-Dev/vacuum-launcher/internal/errors"
)

var structValidator = validator.New()

// validate applies the struct tag rules after defaults have been filled.
// Out-of-range weather intervals never reach here (they are clamped), so
// failures are genuine user mistakes like a malformed email or link URL.
func validate(cfg *Config) error {
	err := structValidator.Struct(cfg)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Wrap(err, apperrors.CategoryValidation, apperrors.SeverityFatal, "config validation failed")
	}

	problems := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		problems = append(problems, messageFor(fieldError))
	}
	return apperrors.ValidationFailed("config", strings.Join(problems, "; "))
}

func messageFor(e validator.FieldError) string {
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
