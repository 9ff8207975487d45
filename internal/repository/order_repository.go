package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/pizza-service/internal/model"
)

type OrderRepo struct {
	DB *sql.DB
	// now is overridden in tests.
	now func() time.Time
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{DB: db, now: time.Now}
}

// ListForDiner returns one page of a diner's orders, newest first, each with
// its items.
func (r *OrderRepo) ListForDiner(ctx context.Context, dinerID uint64, page Page) (orders []model.Order, more bool, err error) {
	page = page.normalized()
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, franchiseId, storeId, date FROM dinerOrder WHERE dinerId = ? ORDER BY id DESC LIMIT ? OFFSET ?",
		dinerID, page.Limit+1, page.Number*page.Limit)
	if err != nil {
		return nil, false, err
	}
	orders = []model.Order{}
	for rows.Next() {
		o := model.Order{DinerID: dinerID}
		if err := rows.Scan(&o.ID, &o.FranchiseID, &o.StoreID, &o.Date); err != nil {
			rows.Close()
			return nil, false, err
		}
		orders = append(orders, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if len(orders) > page.Limit {
		orders, more = orders[:page.Limit], true
	}
	for i := range orders {
		if orders[i].Items, err = r.items(ctx, orders[i].ID); err != nil {
			return nil, false, err
		}
	}
	return orders, more, nil
}

func (r *OrderRepo) items(ctx context.Context, orderID uint64) ([]model.OrderItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, menuId, description, price FROM orderItem WHERE orderId = ? ORDER BY id", orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.OrderItem{}
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.MenuID, &it.Description, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Create stores an order and its items in one transaction.  Every item must
// reference an existing menu entry, otherwise ErrNotFound is returned and
// nothing is written.
func (r *OrderRepo) Create(ctx context.Context, dinerID uint64, order model.Order) (*model.Order, error) {
	order.DinerID = dinerID
	order.Date = r.now().UTC().Truncate(time.Second)
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO dinerOrder (dinerId, franchiseId, storeId, date) VALUES (?, ?, ?, ?)",
			dinerID, order.FranchiseID, order.StoreID, order.Date)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		order.ID = uint64(id)
		for _, it := range order.Items {
			var menuID uint64
			err := tx.QueryRowContext(ctx, "SELECT id FROM menu WHERE id = ?", it.MenuID).Scan(&menuID)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("menu item %d: %w", it.MenuID, ErrNotFound)
			}
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO orderItem (orderId, menuId, description, price) VALUES (?, ?, ?, ?)",
				order.ID, menuID, it.Description, it.Price); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if order.Items == nil {
		order.Items = []model.OrderItem{}
	}
	return &order, nil
}
