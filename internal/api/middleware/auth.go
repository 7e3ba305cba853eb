package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ironhealth/clinic-api/internal/core/domain"
)

const identityKey = "identity"

// Authenticator resolves a bearer token to the caller behind it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
}

// Authenticate requires a valid "Bearer <token>" header and stores the
// resolved identity on the context. Any failure is reported as
// domain.ErrInvalidToken.
func Authenticate(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return domain.ErrInvalidToken
			}

			identity, err := auth.Authenticate(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				return err
			}

			c.Set(identityKey, *identity)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by Authenticate.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}

// SetIdentity stores an identity on the context. Tests use it to skip
// Authenticate.
func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)
}
