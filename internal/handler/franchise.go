package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pizza-service/internal/auth"
	"github.com/iliyamo/pizza-service/internal/config"
	"github.com/iliyamo/pizza-service/internal/middleware"
	"github.com/iliyamo/pizza-service/internal/model"
)

// FranchiseHandler serves /api/franchise.
type FranchiseHandler struct {
	Cfg        config.Config
	Franchises FranchiseStore
}

func NewFranchiseHandler(cfg config.Config, f FranchiseStore) *FranchiseHandler {
	return &FranchiseHandler{Cfg: cfg, Franchises: f}
}

type adminEmail struct {
	Email string `json:"email"`
}
type createFranchiseReq struct {
	Name   string       `json:"name"`
	Admins []adminEmail `json:"admins"`
}
type createStoreReq struct {
	Name string `json:"name"`
}

// List is public.  Admins additionally see franchise admins and store
// revenue.
func (h *FranchiseHandler) List(c echo.Context) error {
	u := middleware.CurrentUser(c)
	details := u != nil && u.HasRole(model.RoleAdmin)

	ctx, cancel := requestContext(c, h.Cfg.RequestTimeout)
	defer cancel()

	out, more, err := h.Franchises.List(ctx, pageParams(c), c.QueryParam("name"), details)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"franchises": out, "more": more})
}

// ListForUser returns the franchises a user administers.  Anyone other than
// the user or an admin gets an empty list.
func (h *FranchiseHandler) ListForUser(c echo.Context) error {
	id, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	if auth.Authorize(middleware.CurrentUser(c), auth.IsSelfOrRole(id, model.RoleAdmin)) != nil {
		return c.JSON(http.StatusOK, []model.Franchise{})
	}

	ctx, cancel := requestContext(c, h.Cfg.RequestTimeout)
	defer cancel()

	out, err := h.Franchises.ListForUser(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Create adds a franchise; admin only.
func (h *FranchiseHandler) Create(c echo.Context) error {
	var req createFranchiseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "name is required"})
	}
	emails := make([]string, 0, len(req.Admins))
	for _, a := range req.Admins {
		if e := strings.TrimSpace(a.Email); e != "" {
			emails = append(emails, e)
		}
	}

	ctx, cancel := requestContext(c, h.Cfg.RequestTimeout)
	defer cancel()

	f, err := h.Franchises.Create(ctx, req.Name, emails)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, f)
}

// Delete removes a franchise; admin only.
func (h *FranchiseHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "franchiseId")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c, h.Cfg.RequestTimeout)
	defer cancel()

	if err := h.Franchises.Delete(ctx, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "franchise deleted"})
}

// CreateStore adds a store; allowed for the franchise's admins and admins.
func (h *FranchiseHandler) CreateStore(c echo.Context) error {
	fid, err := pathID(c, "franchiseId")
	if err != nil {
		return err
	}
	if err := auth.Authorize(middleware.CurrentUser(c), auth.IsFranchiseAdminOrRole(fid, model.RoleAdmin)); err != nil {
		return err
	}
	var req createStoreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "name is required"})
	}

	ctx, cancel := requestContext(c, h.Cfg.RequestTimeout)
	defer cancel()

	s, err := h.Franchises.CreateStore(ctx, fid, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

// DeleteStore removes a store; same authorization as CreateStore.
func (h *FranchiseHandler) DeleteStore(c echo.Context) error {
	fid, err := pathID(c, "franchiseId")
	if err != nil {
		return err
	}
	if err := auth.Authorize(middleware.CurrentUser(c), auth.IsFranchiseAdminOrRole(fid, model.RoleAdmin)); err != nil {
		return err
	}
	sid, err := pathID(c, "storeId")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c, h.Cfg.RequestTimeout)
	defer cancel()

	if err := h.Franchises.DeleteStore(ctx, fid, sid); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "store deleted"})
}
