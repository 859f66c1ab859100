package validators

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type structValidator struct {
	validate *validator.Validate
}

// NewStructValidator returns a [Validator] driven by `validate` struct tags.
// Besides the built-in rules it understands "username": letters, digits,
// underscores and hyphens only.
func NewStructValidator() Validator {
	validate := validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)
	// registration only fails for an empty tag or nil func
	_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	return &structValidator{validate: validate}
}

func (s *structValidator) Validate(ctx context.Context, v any) error {
	err := s.validate.StructCtx(ctx, v)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	details := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		details = append(details, fe.Field()+": "+describe(fe))
	}
	return &ValidationError{Details: details}
}

func describe(fe validator.FieldError) string {
	unit := ""
	switch fe.Kind() {
	case reflect.String:
		unit = " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		unit = " items"
	}

	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		return "must be at least " + fe.Param() + unit
	case "max":
		return "must be at most " + fe.Param() + unit
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "username":
		return "may contain only letters, digits, underscores and hyphens"
	default:
		return "is invalid"
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}
