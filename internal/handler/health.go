package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pizza-service/internal/config"
)

// Health is a liveness endpoint for load balancers.  It returns a plain
// "ok".
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Welcome answers GET / with the service version.
func Welcome(cfg config.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"message": "welcome to JWT Pizza", "version": cfg.Version})
	}
}

// Endpoint documents one route for GET /api/docs.
type Endpoint struct {
	Method       string `json:"method"`
	Path         string `json:"path"`
	RequiresAuth bool   `json:"requiresAuth"`
	Description  string `json:"description"`
}

// Endpoints lists the public API surface.
var Endpoints = []Endpoint{
	{http.MethodPost, "/api/auth", false, "Register a new diner"},
	{http.MethodPut, "/api/auth", false, "Login existing user"},
	{http.MethodDelete, "/api/auth", true, "Logout a user"},
	{http.MethodGet, "/api/user/me", true, "Get authenticated user"},
	{http.MethodPut, "/api/user/:userId", true, "Update user"},
	{http.MethodDelete, "/api/user/:userId", true, "Delete user"},
	{http.MethodGet, "/api/user", true, "List users (admin)"},
	{http.MethodGet, "/api/order/menu", false, "Get the pizza menu"},
	{http.MethodPut, "/api/order/menu", true, "Add an item to the menu (admin)"},
	{http.MethodGet, "/api/order", true, "Get the orders for the authenticated user"},
	{http.MethodPost, "/api/order", true, "Create an order for the authenticated user"},
	{http.MethodGet, "/api/franchise", false, "List franchises"},
	{http.MethodGet, "/api/franchise/:userId", true, "List a user's franchises"},
	{http.MethodPost, "/api/franchise", true, "Create a franchise (admin)"},
	{http.MethodDelete, "/api/franchise/:franchiseId", true, "Delete a franchise (admin)"},
	{http.MethodPost, "/api/franchise/:franchiseId/store", true, "Create a store"},
	{http.MethodDelete, "/api/franchise/:franchiseId/store/:storeId", true, "Delete a store"},
}

// Docs answers GET /api/docs.
func Docs(cfg config.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version":   cfg.Version,
			"endpoints": Endpoints,
			"config":    echo.Map{"factory": cfg.FactoryURL},
		})
	}
}
