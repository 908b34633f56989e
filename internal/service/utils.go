package service

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"github.com/tcp_snm/pulse/internal/pulse_errors"
)

// custom function for translating validation error into user readable errors
func translateValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", e.Field())
	case "phone":
		return fmt.Sprintf("%s must be a valid phone number of 7 to 15 digits", e.Field())
	case "cf_handle":
		return fmt.Sprintf("%s must be a valid codeforces handle", e.Field())
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("Validation failed for %s with rule %s", e.Field(), e.Tag())
	}
}

// ValidateInput validates the input struct using the package validator.
// If validation fails, it logs and returns the first user-friendly error message.
// Returns nil if input is valid.
func ValidateInput(inp any) error {
	if validate == nil {
		InitializeServices()
	}
	if err := validate.Struct(inp); err != nil {
		var validationErrors validator.ValidationErrors
		// Check if the error is a set of validation errors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			// Grab and translate the first validation error for user feedback
			errorMessage := translateValidationError(validationErrors[0])
			log.Error(errorMessage)
			return fmt.Errorf("%w, %s", pulse_errors.ErrInvalidInput, errorMessage)
		}
		log.Errorf("cannot validate %T, %v", inp, err)
		return fmt.Errorf("%w, %w", pulse_errors.ErrInternal, err)
	}
	// All good, input is valid
	return nil
}

// NormalizeSpaces trims s and collapses inner runs of whitespace.
func NormalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// RoundTo rounds f to the given number of decimal places.
func RoundTo(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}
