// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"fmt"

	"github.com/cutroom-academy/cutroom-api/models"
	"github.com/go-playground/validator/v10"
)

// newValidator builds a validator with the custom rules the handlers use
func newValidator() *validator.Validate {
	v := validator.New()

	// Ad link slug: lowercase letters, digits, and hyphens
	v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return models.IsValidSlug(fl.Field().String())
	})

	return v
}

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return err.Field() + " must be at least " + err.Param() + " characters"
	case "max":
		return err.Field() + " must be at most " + err.Param() + " characters"
	case "len":
		return err.Field() + " must be exactly " + err.Param() + " characters"
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "slug":
		return err.Field() + " must contain only lowercase letters, digits, and hyphens"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}

func validationErrorMessages(err error) []string {
	var messages []string
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, ve := range verrs {
			messages = append(messages, getValidationErrorMessage(ve))
		}
	} else {
		messages = append(messages, err.Error())
	}
	return messages
}
