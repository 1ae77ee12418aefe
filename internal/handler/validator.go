package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator adapts go-playground/validator to Echo's Validator
// interface so handlers can call c.Validate(&req) after binding.
type Validator struct {
	v *validator.Validate
}

// NewValidator builds the request validator used by all handlers.
func NewValidator() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator.
func (cv *Validator) Validate(i any) error {
	return cv.v.Struct(i)
}

// fieldErrors flattens validator failures into field->message pairs
// for the 400 body. Each message names the field so the operator
// knows which input to fix.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["_"] = "invalid request"
		return out
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = field + " is required"
		case "min":
			out[field] = field + " is too short"
		case "max":
			out[field] = field + " is too long"
		case "oneof":
			out[field] = field + " must be one of: " + fe.Param()
		default:
			out[field] = field + " is invalid"
		}
	}
	return out
}

// invalidFields is the uniform 400 response for validation failures.
func invalidFields(c echo.Context, err error) error {
	return c.JSON(400, echo.Map{"error": "validation failed", "fields": fieldErrors(err)})
}
