package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pizza-service/internal/config"
	"github.com/iliyamo/pizza-service/internal/factory"
	"github.com/iliyamo/pizza-service/internal/metrics"
	"github.com/iliyamo/pizza-service/internal/middleware"
	"github.com/iliyamo/pizza-service/internal/model"
	"github.com/iliyamo/pizza-service/internal/queue"
)

// OrderHandler serves the menu and diner orders under /api/order.
type OrderHandler struct {
	Cfg     config.Config
	Menu    MenuStore
	Orders  OrderStore
	Factory Fulfiller
	Events  EventPublisher // optional
	// InvalidateMenu drops cached menu responses; optional.
	InvalidateMenu func(ctx context.Context) error
	Metrics        *metrics.Metrics

	log *slog.Logger
}

func NewOrderHandler(cfg config.Config, menu MenuStore, orders OrderStore, f Fulfiller, events EventPublisher, m *metrics.Metrics) *OrderHandler {
	return &OrderHandler{
		Cfg:     cfg,
		Menu:    menu,
		Orders:  orders,
		Factory: f,
		Events:  events,
		Metrics: m,
		log:     slog.Default().With("module", "handler", "layer", "order"),
	}
}

type menuItemReq struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
}

type createOrderReq struct {
	FranchiseID uint64            `json:"franchiseId"`
	StoreID     uint64            `json:"storeId"`
	Items       []model.OrderItem `json:"items"`
}

// GetMenu lists the menu.  Public and cacheable.
func (h *OrderHandler) GetMenu(c echo.Context) error {
	ctx, cancel := requestContext(c, h.Cfg.RequestTimeout)
	defer cancel()

	items, err := h.Menu.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// AddMenuItem adds a pizza and returns the whole menu.  Admin only.
func (h *OrderHandler) AddMenuItem(c echo.Context) error {
	var req menuItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "title and a non-negative price are required"})
	}

	ctx, cancel := requestContext(c, h.Cfg.RequestTimeout)
	defer cancel()

	if _, err := h.Menu.Add(ctx, model.MenuItem{
		Title: req.Title, Description: req.Description, Image: req.Image, Price: req.Price,
	}); err != nil {
		return err
	}
	if h.InvalidateMenu != nil {
		if err := h.InvalidateMenu(ctx); err != nil {
			h.log.WarnContext(ctx, "menu cache invalidation failed", "operation", "add_menu_item", "error", err)
		}
	}
	items, err := h.Menu.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// ListOrders pages through the caller's own orders.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	u := middleware.CurrentUser(c)
	page := pageParams(c)

	ctx, cancel := requestContext(c, h.Cfg.RequestTimeout)
	defer cancel()

	orders, more, err := h.Orders.ListForDiner(ctx, u.ID, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"dinerId": u.ID,
		"orders":  orders,
		"page":    page.Number,
		"more":    more,
	})
}

// CreateOrder stores the order and has the factory fulfil it.  The factory
// answer decides the response; the order row stays either way.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	u := middleware.CurrentUser(c)
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if req.FranchiseID == 0 || req.StoreID == 0 || len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "franchiseId, storeId and items are required"})
	}

	ctx, cancel := requestContext(c, h.Cfg.RequestTimeout)
	defer cancel()

	order, err := h.Orders.Create(ctx, u.ID, model.Order{
		FranchiseID: req.FranchiseID,
		StoreID:     req.StoreID,
		Items:       req.Items,
	})
	if err != nil {
		return err
	}

	res, err := h.Factory.Fulfill(ctx, factory.Diner{ID: u.ID, Name: u.Name, Email: u.Email}, *order)
	if err != nil {
		h.Metrics.RecordOrder("failure")
		h.log.WarnContext(ctx, "factory did not fulfil order",
			"operation", "create_order",
			"outcome", "failure",
			"order_id", order.ID,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"error", err,
		)
		var report string
		if res != nil {
			report = res.ReportURL
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message":              "Failed to fulfill order at factory",
			"followLinkToEndChaos": report,
		})
	}
	h.Metrics.RecordOrder("success")
	h.publish(ctx, *order, res.ReportURL)

	return c.JSON(http.StatusOK, echo.Map{
		"order":                order,
		"followLinkToEndChaos": res.ReportURL,
		"jwt":                  res.JWT,
	})
}

// publish emits order.placed.  Failures are logged and otherwise ignored.
func (h *OrderHandler) publish(ctx context.Context, o model.Order, reportURL string) {
	if h.Events == nil {
		return
	}
	ev := queue.OrderPlacedEvent{
		OrderID:     o.ID,
		DinerID:     o.DinerID,
		FranchiseID: o.FranchiseID,
		StoreID:     o.StoreID,
		ItemCount:   len(o.Items),
		Total:       o.Total(),
		ReportURL:   reportURL,
		PlacedAt:    o.Date.UTC().Format(time.RFC3339),
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := h.Events.PublishOrderPlaced(ctx, ev); err != nil {
		h.log.WarnContext(ctx, "order event not published", "operation", "publish_order", "order_id", o.ID, "error", err)
	}
}
