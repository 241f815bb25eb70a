package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hrumbles/candidate-pipeline/internal/domain"
	apperrors "github.com/hrumbles/candidate-pipeline/pkg/util/errorutil"
)

// Validator wraps go-playground/validator and reports failures as
// validation DomainErrors keyed by JSON field name.
type Validator struct {
	validator *validator.Validate
}

// NewValidator registers the request rules.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return field.Name
	})
	_ = v.RegisterValidation("pipeline", func(fl validator.FieldLevel) bool {
		return domain.Pipeline(fl.Field().String()).Valid()
	})
	return &Validator{validator: v}
}

// Struct validates s.
func (v *Validator) Struct(s any) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	fields := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = fe.Tag()
	}
	return apperrors.NewValidationError("invalid payload", map[string]any{"fields": fields})
}
