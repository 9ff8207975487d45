package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/pizza-service/internal/model"
	"github.com/iliyamo/pizza-service/internal/utils"
)

// FranchiseRepo manages franchises, their stores and the franchisee role
// assignments that name a franchise's administrators.
type FranchiseRepo struct{ DB *sql.DB }

func NewFranchiseRepo(db *sql.DB) *FranchiseRepo { return &FranchiseRepo{DB: db} }

// List returns a page of franchises whose name matches filter.  With
// details the admins and per-store revenue are included; without, only
// store ids and names.
func (r *FranchiseRepo) List(ctx context.Context, page Page, filter string, details bool) (out []model.Franchise, more bool, err error) {
	page = page.normalized()
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name FROM franchise WHERE name LIKE ? ORDER BY id LIMIT ? OFFSET ?",
		likePattern(filter), page.Limit+1, page.Number*page.Limit)
	if err != nil {
		return nil, false, err
	}
	out = []model.Franchise{}
	for rows.Next() {
		var f model.Franchise
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			rows.Close()
			return nil, false, err
		}
		out = append(out, f)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if len(out) > page.Limit {
		out, more = out[:page.Limit], true
	}
	for i := range out {
		if details {
			err = r.fillDetails(ctx, &out[i])
		} else {
			out[i].Stores, err = r.stores(ctx, out[i].ID)
		}
		if err != nil {
			return nil, false, err
		}
	}
	return out, more, nil
}

// ListForUser returns the franchises userID administers, with details.
func (r *FranchiseRepo) ListForUser(ctx context.Context, userID uint64) ([]model.Franchise, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT f.id, f.name FROM franchise f JOIN userRole ur ON ur.objectId = f.id WHERE ur.userId = ? AND ur.role = ? ORDER BY f.id",
		userID, model.RoleFranchisee)
	if err != nil {
		return nil, err
	}
	out := []model.Franchise{}
	for rows.Next() {
		var f model.Franchise
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, f)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.fillDetails(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *FranchiseRepo) fillDetails(ctx context.Context, f *model.Franchise) error {
	var err error
	if f.Admins, err = r.admins(ctx, f.ID); err != nil {
		return err
	}
	f.Stores, err = r.storesWithRevenue(ctx, f.ID)
	return err
}

func (r *FranchiseRepo) admins(ctx context.Context, franchiseID uint64) ([]model.FranchiseAdmin, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT u.id, u.name, u.email FROM userRole ur JOIN user u ON u.id = ur.userId WHERE ur.role = ? AND ur.objectId = ? ORDER BY u.id",
		model.RoleFranchisee, franchiseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.FranchiseAdmin{}
	for rows.Next() {
		var a model.FranchiseAdmin
		if err := rows.Scan(&a.ID, &a.Name, &a.Email); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *FranchiseRepo) stores(ctx context.Context, franchiseID uint64) ([]model.Store, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name FROM store WHERE franchiseId = ? ORDER BY id", franchiseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Store{}
	for rows.Next() {
		s := model.Store{FranchiseID: franchiseID}
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *FranchiseRepo) storesWithRevenue(ctx context.Context, franchiseID uint64) ([]model.Store, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT s.id, s.name, COALESCE(SUM(oi.price), 0)
		FROM store s
		LEFT JOIN dinerOrder o ON o.storeId = s.id
		LEFT JOIN orderItem oi ON oi.orderId = o.id
		WHERE s.franchiseId = ?
		GROUP BY s.id, s.name
		ORDER BY s.id`, franchiseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Store{}
	for rows.Next() {
		s := model.Store{FranchiseID: franchiseID}
		var revenue float64
		if err := rows.Scan(&s.ID, &s.Name, &revenue); err != nil {
			return nil, err
		}
		s.TotalRevenue = &revenue
		out = append(out, s)
	}
	return out, rows.Err()
}

// Create inserts a franchise and grants every admin email the franchisee
// role for it.  An unknown email yields ErrNotFound and nothing is written;
// a duplicate name yields ErrConflict.
func (r *FranchiseRepo) Create(ctx context.Context, name string, adminEmails []string) (*model.Franchise, error) {
	f := &model.Franchise{Name: name, Admins: []model.FranchiseAdmin{}, Stores: []model.Store{}}
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		for _, email := range adminEmails {
			a := model.FranchiseAdmin{}
			err := tx.QueryRowContext(ctx,
				"SELECT id, name, email FROM user WHERE email = ?", utils.NormalizeEmail(email)).
				Scan(&a.ID, &a.Name, &a.Email)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("unknown user for franchise admin email %s: %w", email, ErrNotFound)
			}
			if err != nil {
				return err
			}
			f.Admins = append(f.Admins, a)
		}

		res, err := tx.ExecContext(ctx, "INSERT INTO franchise (name) VALUES (?)", name)
		if err != nil {
			if isDuplicate(err) {
				return ErrConflict
			}
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		f.ID = uint64(id)

		for _, a := range f.Admins {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO userRole (userId, role, objectId) VALUES (?, ?, ?)",
				a.ID, model.RoleFranchisee, f.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Delete removes a franchise together with its stores and franchisee role
// assignments.
func (r *FranchiseRepo) Delete(ctx context.Context, id uint64) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM store WHERE franchiseId = ?", id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM userRole WHERE role = ? AND objectId = ?", model.RoleFranchisee, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM franchise WHERE id = ?", id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CreateStore adds a store to an existing franchise.
func (r *FranchiseRepo) CreateStore(ctx context.Context, franchiseID uint64, name string) (*model.Store, error) {
	var exists int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM franchise WHERE id = ?", franchiseID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrNotFound
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO store (franchiseId, name) VALUES (?, ?)", franchiseID, name)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Store{ID: uint64(id), FranchiseID: franchiseID, Name: name}, nil
}

// DeleteStore removes a store that belongs to franchiseID.
func (r *FranchiseRepo) DeleteStore(ctx context.Context, franchiseID, storeID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM store WHERE franchiseId = ? AND id = ?", franchiseID, storeID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
