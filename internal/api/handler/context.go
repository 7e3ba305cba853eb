package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ironhealth/clinic-api/internal/api/middleware"
	"github.com/ironhealth/clinic-api/internal/core/domain"
)

// caller returns the identity stored by the Authenticate middleware. Its
// absence means the route was wired without authentication.
func caller(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	return id, nil
}

// preferredLang settles the email language for a request: the body field
// wins, then Accept-Language.
func preferredLang(c echo.Context, fromBody string) string {
	return domain.PickLanguage(strings.TrimSpace(fromBody), c.Request().Header.Get("Accept-Language"))
}
