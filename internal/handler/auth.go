package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pizza-service/internal/auth"
	"github.com/iliyamo/pizza-service/internal/config"
	"github.com/iliyamo/pizza-service/internal/metrics"
	"github.com/iliyamo/pizza-service/internal/middleware"
	"github.com/iliyamo/pizza-service/internal/model"
	"github.com/iliyamo/pizza-service/internal/utils"
)

// AuthHandler bundles dependencies for the /api/auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Sessions Sessions
	Users    UserStore
	Metrics  *metrics.Metrics
}

func NewAuthHandler(cfg config.Config, s Sessions, u UserStore, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Sessions: s, Users: u, Metrics: m}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type authResp struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

// Register creates a diner account and logs it in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "name, email, and password are required"})
	}
	if len(req.Password) > utils.MaxPasswordBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": msgPasswordTooLong})
	}

	ctx, cancel := requestContext(c, h.Cfg.RequestTimeout)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, h.Cfg.BcryptCost,
		[]model.RoleAssignment{{Role: model.RoleDiner}})
	if err != nil {
		return err
	}
	token, err := h.Sessions.Issue(ctx, *u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResp{User: u.Public(), Token: token})
}

// Login verifies the credentials and opens a new session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "email and password are required"})
	}

	ctx, cancel := requestContext(c, h.Cfg.RequestTimeout)
	defer cancel()

	u, token, err := h.Sessions.Login(ctx, req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrAuthFailed):
		h.Metrics.RecordLogin("failure")
		return err
	case err != nil:
		h.Metrics.RecordLogin("error")
		return err
	}
	h.Metrics.RecordLogin("success")
	return c.JSON(http.StatusOK, authResp{User: *u, Token: token})
}

// Logout revokes the bearer token of the request.  The route is guarded,
// so a valid active token is present.
func (h *AuthHandler) Logout(c echo.Context) error {
	token, _ := middleware.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))

	ctx, cancel := requestContext(c, h.Cfg.RequestTimeout)
	defer cancel()

	if err := h.Sessions.Logout(ctx, token); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logout successful"})
}
