package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pizza-service/internal/handler"
	"github.com/iliyamo/pizza-service/internal/metrics"
	"github.com/iliyamo/pizza-service/internal/middleware"
	"github.com/iliyamo/pizza-service/internal/model"
)

// RegisterAuth maps register (POST), login (PUT) and logout (DELETE) on
// /api/auth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, m *metrics.Metrics) {
	e.POST("/api/auth", a.Register)
	e.PUT("/api/auth", a.Login)
	e.DELETE("/api/auth", a.Logout, middleware.RequireAuthenticated(m))
}

// RegisterUser maps /api/user.  Per-user checks happen in the handlers.
func RegisterUser(e *echo.Echo, u *handler.UserHandler, m *metrics.Metrics) {
	authed := middleware.RequireAuthenticated(m)
	e.GET("/api/user/me", u.Me, authed)
	e.GET("/api/user", u.List, middleware.RequireRole(model.RoleAdmin, m))
	e.PUT("/api/user/:userId", u.Update, authed)
	e.DELETE("/api/user/:userId", u.Delete, authed)
}

// RegisterOrder maps the menu and order endpoints.  cache wraps the public
// menu listing.
func RegisterOrder(e *echo.Echo, o *handler.OrderHandler, cache echo.MiddlewareFunc, m *metrics.Metrics) {
	e.GET("/api/order/menu", o.GetMenu, cache)
	e.PUT("/api/order/menu", o.AddMenuItem, middleware.RequireRole(model.RoleAdmin, m))
	e.GET("/api/order", o.ListOrders, middleware.RequireAuthenticated(m))
	e.POST("/api/order", o.CreateOrder, middleware.RequireAuthenticated(m))
}

// RegisterFranchise maps /api/franchise.  Listing is public; the handler
// widens the view for admins.
func RegisterFranchise(e *echo.Echo, f *handler.FranchiseHandler, m *metrics.Metrics) {
	e.GET("/api/franchise", f.List)
	e.GET("/api/franchise/:userId", f.ListForUser, middleware.RequireAuthenticated(m))
	e.POST("/api/franchise", f.Create, middleware.RequireRole(model.RoleAdmin, m))
	e.DELETE("/api/franchise/:franchiseId", f.Delete, middleware.RequireRole(model.RoleAdmin, m))
	e.POST("/api/franchise/:franchiseId/store", f.CreateStore, middleware.RequireAuthenticated(m))
	e.DELETE("/api/franchise/:franchiseId/store/:storeId", f.DeleteStore, middleware.RequireAuthenticated(m))
}
