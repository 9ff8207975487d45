package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pizza-service/internal/auth"
	"github.com/iliyamo/pizza-service/internal/metrics"
	"github.com/iliyamo/pizza-service/internal/model"
)

// RequireAuthenticated stops anonymous requests with 401 before they reach
// the handler.  It expects Authenticate to have run.
func RequireAuthenticated(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				m.RecordDenial(http.StatusUnauthorized)
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			return next(c)
		}
	}
}

// RequireRole lets through only users holding role.  Anonymous requests
// get 401, authenticated users without the role get 403.
func RequireRole(role model.Role, m *metrics.Metrics) echo.MiddlewareFunc {
	req := auth.HasRole(role)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := CurrentUser(c)
			if u == nil {
				m.RecordDenial(http.StatusUnauthorized)
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			if err := auth.Authorize(u, req); err != nil {
				m.RecordDenial(http.StatusForbidden)
				return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
			}
			return next(c)
		}
	}
}
