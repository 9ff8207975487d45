package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/pizza-service/internal/model"
)

type MenuRepo struct{ DB *sql.DB }

func NewMenuRepo(db *sql.DB) *MenuRepo { return &MenuRepo{DB: db} }

// List returns every menu item ordered by id.
func (r *MenuRepo) List(ctx context.Context) ([]model.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, title, description, image, price FROM menu ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.MenuItem{}
	for rows.Next() {
		var m model.MenuItem
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.Image, &m.Price); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// Add inserts a menu item and returns it with its new id.
func (r *MenuRepo) Add(ctx context.Context, item model.MenuItem) (*model.MenuItem, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO menu (title, description, image, price) VALUES (?, ?, ?, ?)",
		item.Title, item.Description, item.Image, item.Price)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	item.ID = uint64(id)
	return &item, nil
}
