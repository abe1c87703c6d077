package services

import (
	"errors"

	"vriksh/internal/apperrors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// fieldMessages maps "Struct.Field" or "Field" to the message a client sees
// when that field fails validation.
type fieldMessages map[string]string

// validateStruct runs validator tags on v and converts the first failure to
// a ValidationError carrying a field-specific message.
func validateStruct(v any, messages fieldMessages, fallback string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		if msg, ok := messages[first.StructField()]; ok {
			return apperrors.Validation(msg)
		}
		return apperrors.Validation(first.Field() + " is invalid")
	}
	return apperrors.Validation(fallback)
}
