package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pizza-service/internal/auth"
	"github.com/iliyamo/pizza-service/internal/config"
	"github.com/iliyamo/pizza-service/internal/middleware"
	"github.com/iliyamo/pizza-service/internal/model"
	"github.com/iliyamo/pizza-service/internal/utils"
)

// UserHandler serves /api/user.
type UserHandler struct {
	Cfg      config.Config
	Users    UserStore
	Sessions Sessions
}

func NewUserHandler(cfg config.Config, u UserStore, s Sessions) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u, Sessions: s}
}

type updateUserReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Me returns the user the request's token belongs to.
func (h *UserHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// Update changes a profile and returns it together with a fresh token that
// carries the new claims.  Callers may update themselves; admins anyone.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	if err := auth.Authorize(middleware.CurrentUser(c), auth.IsSelfOrRole(id, model.RoleAdmin)); err != nil {
		return err
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if len(req.Password) > utils.MaxPasswordBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": msgPasswordTooLong})
	}

	ctx, cancel := requestContext(c, h.Cfg.RequestTimeout)
	defer cancel()

	u, err := h.Users.Update(ctx, id, req.Name, req.Email, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return err
	}
	token, err := h.Sessions.Issue(ctx, *u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResp{User: u.Public(), Token: token})
}

// Delete removes an account and all of its sessions.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	if err := auth.Authorize(middleware.CurrentUser(c), auth.IsSelfOrRole(id, model.RoleAdmin)); err != nil {
		return err
	}

	ctx, cancel := requestContext(c, h.Cfg.RequestTimeout)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}

// List pages through users; admin only (guarded by the router).
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c, h.Cfg.RequestTimeout)
	defer cancel()

	users, more, err := h.Users.List(ctx, pageParams(c), c.QueryParam("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users, "more": more})
}
