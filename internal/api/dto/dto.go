package dto

import (
	"github.com/go-playground/validator/v10"

	"github.com/school-kit/helpdesk-service/pkg/util"
)

var validate = validator.New()

// Validate runs struct-tag validation and converts failures into the
// validation error shape, listing the offending fields.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return util.NewValidationError("invalid payload", nil)
	}
	missing := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		missing = append(missing, fe.Field())
	}
	return util.NewValidationError("invalid payload", map[string]any{"fields": missing})
}
