package security

import (
	"github.com/go-playground/validator/v10"

	"github.com/startailored/records-service/internal/core/ports"
)

// EmailValidator checks address syntax with the validator "email" tag.
type EmailValidator struct {
	v *validator.Validate
}

var _ ports.EmailValidator = (*EmailValidator)(nil)

func NewEmailValidator() *EmailValidator {
	return &EmailValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (e *EmailValidator) ValidEmail(email string) bool {
	return e.v.Var(email, "required,email") == nil
}
