package service

import (
	"errors"

	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/validation"
)

// validateInto runs the validator and separates field errors from failures
// of the validator itself.
func validateInto(v *validation.Validator, in any) (validation.Errors, error) {
	err := v.Struct(in)
	if err == nil {
		return nil, nil
	}
	var errs validation.Errors
	if errors.As(err, &errs) {
		return errs, nil
	}
	return nil, err
}

var duplicateCodes = map[string]string{
	"email": validation.CodeEmailExists,
	"phone": validation.CodePhoneExists,
	"dni":   validation.CodeDNIExists,
}

// duplicateAsValidation turns a unique-index violation into the same field
// error the pre-check would have produced.
func duplicateAsValidation(err error) error {
	var dup *domain.DuplicateError
	if !errors.As(err, &dup) {
		return err
	}
	code, ok := duplicateCodes[dup.Field]
	if !ok {
		code = validation.CodeInvalid
	}
	return validation.Errors{{Field: dup.Field, Code: code}}
}

// userDuplicateAsValidation is duplicateAsValidation for the users
// collection, where an email clash means the login already exists.
func userDuplicateAsValidation(err error) error {
	var dup *domain.DuplicateError
	if errors.As(err, &dup) || errors.Is(err, domain.ErrUserExists) {
		return validation.Errors{{Field: "email", Code: validation.CodeUserExists}}
	}
	return err
}
