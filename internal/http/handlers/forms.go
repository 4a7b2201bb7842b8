package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// FormError is the shape templates iterate over when a submission is
// rejected. One entry per failed rule.
type FormError struct {
	Message string `json:"message"`
}

var validate = validator.New()

// ValidateForm runs the struct validators over an already-normalized form
// and returns human-readable errors. Empty slice means the form passed.
func ValidateForm(form interface{}) []FormError {
	err := validate.Struct(form)

	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors

	if !errors.As(err, &verrs) {
		return []FormError{{Message: "Invalid form submission"}}
	}

	out := make([]FormError, 0, len(verrs))

	for _, fe := range verrs {
		out = append(out, FormError{Message: fieldMessage(fe)})
	}

	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Name":
		return "Name must be between 2 and 50 characters"
	case "Email":
		return "Please enter a valid email address"
	case "Password":
		return "Password must be at least 6 characters"
	case "Role":
		return "Role must be either admin or user"
	case "IsActive":
		return "Active flag must be true or false"
	}

	// fallback by rule for any field added later
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	case "email":
		return fe.Field() + " must be a valid email address"
	case "oneof":
		return fe.Field() + " must be one of " + fe.Param()
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("%s failed %s validation (%s)", fe.Field(), fe.Tag(), fe.Param())
		}

		return fe.Field() + " failed " + fe.Tag() + " validation"
	}
}

// queryInt reads an integer query parameter, falling back on absent or
// unparseable values. Range clamping happens in the domain filter.
func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}

	n, err := strconv.Atoi(raw)

	if err != nil {
		return fallback
	}

	return n
}
