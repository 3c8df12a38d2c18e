package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopcraft/shop-api/internal/api/middleware"
	"github.com/shopcraft/shop-api/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware and
// fast-fails before any service call. Its presence proves the guard ran;
// handlers never re-derive identity from headers.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok || principal.Email == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return principal, nil
}
