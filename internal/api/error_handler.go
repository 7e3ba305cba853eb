package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ironhealth/clinic-api/internal/api/response"
	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/validation"
)

type conflictDetails struct {
	Party         domain.Party `json:"party"`
	AppointmentID string       `json:"appointmentId"`
}

// sentinelStatus maps plain domain errors to a status and message code.
var sentinelStatus = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, domain.CodeInvalidCredentials},
	{domain.ErrInvalidToken, http.StatusUnauthorized, domain.CodeInvalidToken},
	{domain.ErrForbidden, http.StatusForbidden, domain.CodeInsufficientPermissions},
	{domain.ErrProfileForbidden, http.StatusForbidden, domain.CodeUnauthorizedProfile},
	{domain.ErrIncorrectPassword, http.StatusBadRequest, domain.CodeIncorrectPassword},
	{domain.ErrAppointmentNotFound, http.StatusNotFound, domain.CodeAppointmentNotFound},
	{domain.ErrPatientNotFound, http.StatusNotFound, domain.CodePatientNotFound},
	{domain.ErrProfessionalNotFound, http.StatusNotFound, domain.CodeProfessionalNotFound},
	{domain.ErrUserNotFound, http.StatusNotFound, domain.CodeUserNotFound},
	{domain.ErrBookingInProgress, http.StatusConflict, domain.CodeBookingInProgress},
	{domain.ErrEmailTemplateNotFound, http.StatusBadRequest, domain.CodeEmailTemplateNotFound},
	{domain.ErrEmailMissingRecipient, http.StatusBadRequest, domain.CodeEmailMissingRecipient},
	{domain.ErrEmailDelivery, http.StatusInternalServerError, domain.CodeEmailSendFailed},
	{domain.ErrStorageDisabled, http.StatusServiceUnavailable, domain.CodeUploadStorageUnavailable},
}

// NewHTTPErrorHandler renders every error returned by a handler or
// middleware as an envelope. Unexpected errors are logged and reported as
// INTERNAL_SERVER_ERROR without their text.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if werr := render(err, log, c); werr != nil {
			log.Error().Err(werr).Msg("write error response")
		}
	}
}

func render(err error, log zerolog.Logger, c echo.Context) error {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return response.Validation(c, verrs)
	}

	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		return response.Error(c, http.StatusConflict, domain.CodeAppointmentConflict,
			conflictDetails{Party: conflict.Party, AppointmentID: conflict.AppointmentID})
	}

	var dup *domain.DuplicateError
	if errors.As(err, &dup) {
		return response.Error(c, http.StatusConflict, domain.CodeDuplicateValue,
			validation.Errors{{Field: dup.Field, Code: domain.CodeDuplicateValue}})
	}

	switch {
	case errors.Is(err, domain.ErrEmailTooLarge):
		return response.ValidationStatus(c, http.StatusRequestEntityTooLarge,
			validation.Errors{{Field: "attachments", Code: domain.CodeEmailTooLarge}})
	case errors.Is(err, domain.ErrEmailMissingContent):
		return response.Validation(c, validation.Errors{{Field: "payload", Code: validation.CodeRequired}})
	}

	for _, s := range sentinelStatus {
		if errors.Is(err, s.err) {
			if s.status >= http.StatusInternalServerError {
				logUnexpected(log, c, err)
			}
			return response.Error(c, s.status, s.code, nil)
		}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnexpected(log, c, err)
		}
		return response.Error(c, he.Code, httpErrorCode(he.Code), nil)
	}

	logUnexpected(log, c, err)
	return response.Error(c, http.StatusInternalServerError, domain.CodeInternalServerError, nil)
}

// httpErrorCode names the errors echo itself raises: routing misses, bind
// failures and the like.
func httpErrorCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return domain.CodeRouteNotFound
	case http.StatusMethodNotAllowed:
		return domain.CodeMethodNotAllowed
	case http.StatusUnauthorized:
		return domain.CodeInvalidToken
	case http.StatusForbidden:
		return domain.CodeInsufficientPermissions
	case http.StatusTooManyRequests:
		return domain.CodeTooManyRequests
	}
	if status >= http.StatusInternalServerError {
		return domain.CodeInternalServerError
	}
	return domain.CodeInvalidPayload
}

func logUnexpected(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}
