// Package handler holds the echo handlers of the pizza service.  Handlers
// depend on the small interfaces below; the MySQL repositories satisfy
// them in production and in-memory fakes in tests.
package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pizza-service/internal/factory"
	"github.com/iliyamo/pizza-service/internal/model"
	"github.com/iliyamo/pizza-service/internal/queue"
	"github.com/iliyamo/pizza-service/internal/repository"
)

// Sessions is implemented by auth.Manager.
type Sessions interface {
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Issue(ctx context.Context, u model.User) (string, error)
	Logout(ctx context.Context, token string) error
}

// UserStore is implemented by repository.UserRepo.
type UserStore interface {
	Create(ctx context.Context, name, email, password string, cost int, roles []model.RoleAssignment) (*model.User, error)
	Update(ctx context.Context, id uint64, name, email, password string, cost int) (*model.User, error)
	Delete(ctx context.Context, id uint64) error
	List(ctx context.Context, page repository.Page, filter string) ([]model.User, bool, error)
}

// MenuStore is implemented by repository.MenuRepo.
type MenuStore interface {
	List(ctx context.Context) ([]model.MenuItem, error)
	Add(ctx context.Context, item model.MenuItem) (*model.MenuItem, error)
}

// OrderStore is implemented by repository.OrderRepo.
type OrderStore interface {
	ListForDiner(ctx context.Context, dinerID uint64, page repository.Page) ([]model.Order, bool, error)
	Create(ctx context.Context, dinerID uint64, order model.Order) (*model.Order, error)
}

// FranchiseStore is implemented by repository.FranchiseRepo.
type FranchiseStore interface {
	List(ctx context.Context, page repository.Page, filter string, details bool) ([]model.Franchise, bool, error)
	ListForUser(ctx context.Context, userID uint64) ([]model.Franchise, error)
	Create(ctx context.Context, name string, adminEmails []string) (*model.Franchise, error)
	Delete(ctx context.Context, id uint64) error
	CreateStore(ctx context.Context, franchiseID uint64, name string) (*model.Store, error)
	DeleteStore(ctx context.Context, franchiseID, storeID uint64) error
}

// Fulfiller is implemented by factory.Client.
type Fulfiller interface {
	Fulfill(ctx context.Context, diner factory.Diner, order model.Order) (*factory.Result, error)
}

// EventPublisher is implemented by service.Publisher.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, ev queue.OrderPlacedEvent) error
}

const defaultRequestTimeout = 5 * time.Second

// requestContext bounds the store calls of one request.
func requestContext(c echo.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultRequestTimeout
	}
	return context.WithTimeout(c.Request().Context(), d)
}
