package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fedutinova/medlens/internal/common"
	"github.com/go-playground/validator/v10"
)

const MaxPromptLength = 8000

var AllowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/heic":      true,
	"image/heif":      true,
	"application/pdf": true,
	"text/plain":      true,
	"text/csv":        true,
}

var validate = validator.New()

type TextRequest struct {
	Prompt string `json:"prompt" validate:"max=8000"`
}

type ValidationErrors []common.ValidationError

func (e ValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

func (e ValidationErrors) Is(target error) bool {
	return target == common.ErrValidation || target == common.ErrBadRequest
}

func ValidateTextRequest(req TextRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var out ValidationErrors
	for _, fe := range fieldErrs {
		out = append(out, common.ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("exceeds maximum length of %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// ValidateUpload checks one staged file against the size limit and the
// MIME allow-list. mimeType must be bare, without parameters.
func ValidateUpload(field, filename string, size, maxSize int64, mimeType string) error {
	var errs ValidationErrors

	if size == 0 {
		errs = append(errs, common.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("file %s is empty", filename),
		})
	}
	if maxSize > 0 && size > maxSize {
		errs = append(errs, common.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("file %s exceeds maximum size of %d bytes", filename, maxSize),
		})
	}
	if !AllowedMimeTypes[mimeType] {
		errs = append(errs, common.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("file %s has unsupported content type: %s", filename, mimeType),
		})
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
