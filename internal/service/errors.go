package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrDuplicate          = errors.New("email or username already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrDraftNotFound      = errors.New("draft not found")
	ErrAlreadyPublished   = errors.New("quote already published")
	ErrUnknownSection     = errors.New("unknown section")
	ErrValidation         = errors.New("validation failed")
)

// ValidationError names the offending field so forms can be re-rendered with a message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

var validate = validator.New()

var validationMessages = map[string]string{
	"required": "is required",
	"notblank": "must not be blank",
	"email":    "must be a valid email address",
}

func init() {
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// validateStruct reports the first failing field as a *ValidationError.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "min":
		return &ValidationError{Field: field, Message: "must be at least " + fe.Param() + " characters"}
	case "max":
		return &ValidationError{Field: field, Message: "must be at most " + fe.Param() + " characters"}
	}
	if msg, ok := validationMessages[fe.Tag()]; ok {
		return &ValidationError{Field: field, Message: msg}
	}
	return &ValidationError{Field: field, Message: "failed validation: " + fe.Tag()}
}
