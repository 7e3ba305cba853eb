package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrPatientNotFound      = errors.New("patient not found")
	ErrProfessionalNotFound = errors.New("professional not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user already exists")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("access forbidden")
	ErrProfileForbidden   = errors.New("profile access forbidden")
	ErrIncorrectPassword  = errors.New("incorrect current password")

	ErrAppointmentConflict = errors.New("appointment conflict")
	ErrBookingInProgress   = errors.New("booking in progress")

	ErrEmailTemplateNotFound = errors.New("email template not found")
	ErrEmailTooLarge         = errors.New("email too large")
	ErrEmailMissingContent   = errors.New("email missing content")
	ErrEmailMissingRecipient = errors.New("email missing recipient")
	ErrEmailDelivery         = errors.New("email delivery failed")

	ErrStorageDisabled = errors.New("upload storage not configured")
)

// DuplicateError reports a unique-field collision detected by the storage
// layer after the pre-check passed.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate value for %s", e.Field)
}
