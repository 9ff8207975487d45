package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/pizza-service/internal/model"
	"github.com/iliyamo/pizza-service/internal/utils"
)

// UserRepo persists accounts in `user` and their role assignments in
// `userRole`.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes the password and inserts the user with its roles in one
// transaction.  The returned user carries no password.
func (r *UserRepo) Create(ctx context.Context, name, email, password string, cost int, roles []model.RoleAssignment) (*model.User, error) {
	for _, role := range roles {
		if !role.Role.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role.Role)
		}
	}
	email = utils.NormalizeEmail(email)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return nil, err
	}
	u := &model.User{Name: name, Email: email, Roles: roles}
	err = withTx(ctx, r.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO user (name, email, password) VALUES (?, ?, ?)",
			name, email, hash)
		if err != nil {
			if isDuplicate(err) {
				return ErrEmailExists
			}
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		u.ID = uint64(id)
		for _, role := range roles {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO userRole (userId, role, objectId) VALUES (?, ?, ?)",
				u.ID, role.Role, role.ObjectID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if u.Roles == nil {
		u.Roles = []model.RoleAssignment{}
	}
	return u, nil
}

// FindByEmail returns the user with its password hash, or (nil, nil) when
// the email is unknown.  Roles are not loaded.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "SELECT id, name, email, password FROM user WHERE email = ? LIMIT 1",
		utils.NormalizeEmail(email))
}

// FindByID returns the user with its roles, or (nil, nil) when missing.
func (r *UserRepo) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	u, err := r.findOne(ctx, "SELECT id, name, email, password FROM user WHERE id = ? LIMIT 1", id)
	if err != nil || u == nil {
		return u, err
	}
	if u.Roles, err = rolesFor(ctx, r.DB, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepo) findOne(ctx context.Context, q string, arg any) (*model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, q, arg).Scan(&u.ID, &u.Name, &u.Email, &u.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Roles returns the role assignments of a user.
func (r *UserRepo) Roles(ctx context.Context, userID uint64) ([]model.RoleAssignment, error) {
	return rolesFor(ctx, r.DB, userID)
}

func rolesFor(ctx context.Context, q querier, userID uint64) ([]model.RoleAssignment, error) {
	rows, err := q.QueryContext(ctx, "SELECT role, objectId FROM userRole WHERE userId = ? ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.RoleAssignment{}
	for rows.Next() {
		var ra model.RoleAssignment
		if err := rows.Scan(&ra.Role, &ra.ObjectID); err != nil {
			return nil, err
		}
		out = append(out, ra)
	}
	return out, rows.Err()
}

// Update changes the non-empty fields among name, email and password and
// returns the updated user with its roles.
func (r *UserRepo) Update(ctx context.Context, id uint64, name, email, password string, cost int) (*model.User, error) {
	sets := []string{}
	args := []any{}
	if name != "" {
		sets = append(sets, "name = ?")
		args = append(args, name)
	}
	if email != "" {
		sets = append(sets, "email = ?")
		args = append(args, utils.NormalizeEmail(email))
	}
	if password != "" {
		hash, err := utils.HashPassword(password, cost)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "password = ?")
		args = append(args, hash)
	}
	if len(sets) > 0 {
		q := "UPDATE user SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		if _, err := r.DB.ExecContext(ctx, q, append(args, id)...); err != nil {
			if isDuplicate(err) {
				return nil, ErrEmailExists
			}
			return nil, err
		}
	}
	u, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	pub := u.Public()
	return &pub, nil
}

// Delete removes the user, its role assignments and its active sessions.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if err := (&TokenRepo{DB: tx}).DeleteForUser(ctx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM userRole WHERE userId = ?", id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM user WHERE id = ?", id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// List returns a page of users whose name matches filter, with roles.
// more reports whether another page exists.
func (r *UserRepo) List(ctx context.Context, page Page, filter string) (users []model.User, more bool, err error) {
	page = page.normalized()
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, email FROM user WHERE name LIKE ? ORDER BY id LIMIT ? OFFSET ?",
		likePattern(filter), page.Limit+1, page.Number*page.Limit)
	if err != nil {
		return nil, false, err
	}
	users = []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			rows.Close()
			return nil, false, err
		}
		users = append(users, u)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if len(users) > page.Limit {
		users, more = users[:page.Limit], true
	}
	for i := range users {
		if users[i].Roles, err = rolesFor(ctx, r.DB, users[i].ID); err != nil {
			return nil, false, fmt.Errorf("roles for user %d: %w", users[i].ID, err)
		}
	}
	return users, more, nil
}
