package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopcraft/shop-api/internal/api/metrics"
)

// RBAC enforces a role policy on the verified principal. A caller whose
// claim set lacks every allowed role is rejected with 401, same as a caller
// with no credentials at all, so responses do not reveal role requirements.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFrom(c)
			if !ok {
				metrics.AuthRejectionsTotal.WithLabelValues("role").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			for _, role := range principal.Roles {
				if _, ok := allowed[role]; ok {
					return next(c)
				}
			}

			metrics.AuthRejectionsTotal.WithLabelValues("role").Inc()
			return echo.NewHTTPError(http.StatusUnauthorized, "insufficient role")
		}
	}
}
