package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ferienhaus/kalender-api/internal/api/middleware"
	"github.com/ferienhaus/kalender-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// rejects with 401 when it is absent. An identity with an empty username
// means the middleware did not run or the token carried no subject; it never
// reaches a service call.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, _ := c.Get(middleware.IdentityKey).(domain.Identity)
	if identity.Username == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return identity, nil
}
