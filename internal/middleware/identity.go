package middleware

// identity.go holds the request-scoped user helpers shared by the
// authentication middleware, the guards, the rate limiter and handlers.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pizza-service/internal/model"
)

const userContextKey = "auth_user"

// CurrentUser returns the authenticated user attached by Authenticate, or
// nil for anonymous requests.
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(userContextKey).(*model.User)
	return u
}

func setUser(c echo.Context, u *model.User) {
	c.Set(userContextKey, u)
}

// userID returns the authenticated user's id as a string, or "anon".
func userID(c echo.Context) string {
	if u := CurrentUser(c); u != nil {
		return strconv.FormatUint(u.ID, 10)
	}
	return "anon"
}
