// Package response writes the API envelope. Every body has the shape
// {success, messageCode, data} on success or {success, messageCode, details}
// on failure.
package response

import (
	"net/http"
	"reflect"

	"github.com/labstack/echo/v4"

	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/validation"
)

type SuccessBody struct {
	Success     bool   `json:"success"`
	MessageCode string `json:"messageCode"`
	Data        any    `json:"data"`
}

type ErrorBody struct {
	Success     bool   `json:"success"`
	MessageCode string `json:"messageCode"`
	Details     any    `json:"details,omitempty"`
}

// Success writes a 2xx envelope. A nil slice is sent as [].
func Success(c echo.Context, status int, code string, data any) error {
	return c.JSON(status, SuccessBody{Success: true, MessageCode: code, Data: nonNilSlice(data)})
}

func Error(c echo.Context, status int, code string, details any) error {
	return c.JSON(status, ErrorBody{Success: false, MessageCode: code, Details: details})
}

// Validation writes the 400 envelope listing every field error.
func Validation(c echo.Context, errs validation.Errors) error {
	return ValidationStatus(c, http.StatusBadRequest, errs)
}

// ValidationStatus is Validation with a caller-chosen status, for the few
// field errors that are not plain 400s (such as an oversized email).
func ValidationStatus(c echo.Context, status int, errs validation.Errors) error {
	if errs == nil {
		errs = validation.Errors{}
	}
	return Error(c, status, domain.CodeValidationFailed, errs)
}

func nonNilSlice(data any) any {
	if data == nil {
		return data
	}
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Slice && v.IsNil() {
		return reflect.MakeSlice(v.Type(), 0, 0).Interface()
	}
	return data
}
