package handler

import (
	"github.com/ironhealth/clinic-api/internal/core/validation"
)

// echoValidator lets handlers call c.Validate on query and path structs.
type echoValidator struct {
	v *validation.Validator
}

// NewValidator returns an echo.Validator backed by v.
func NewValidator(v *validation.Validator) *echoValidator {
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Failures are
// validation.Errors, which the error handler renders as a 400 envelope.
func (ev *echoValidator) Validate(i any) error {
	return ev.v.Struct(i)
}
