package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/validation"
)

// RequireRole lets through callers holding any of allowedRoles.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrInvalidToken
			}
			if !id.HasRole(allowedRoles...) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// OwnProfile guards /:id routes that name a profile. Admins and passRoles
// always pass; ownerRole passes only for its own profile id.
func OwnProfile(ownerRole string, passRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrInvalidToken
			}
			if id.IsAdmin() || id.HasRole(passRoles...) {
				return next(c)
			}
			if id.Role != ownerRole || !id.CanActOnProfile(c.Param("id")) {
				return domain.ErrProfileForbidden
			}
			return next(c)
		}
	}
}

// AppointmentFinder loads one appointment by id.
type AppointmentFinder interface {
	Get(ctx context.Context, id string) (*domain.Appointment, error)
}

// AppointmentAccess guards /appointment/:id routes: a malformed id is a 400,
// a missing appointment a 404 and someone else's appointment a 403.
func AppointmentAccess(appointments AppointmentFinder, v *validation.Validator, passRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrInvalidToken
			}
			apptID := c.Param("id")
			if err := v.ID("id", apptID); err != nil {
				return err
			}
			appt, err := appointments.Get(c.Request().Context(), apptID)
			if err != nil {
				return err
			}
			if !id.CanAccessAppointment(appt.PatientID, passRoles...) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
