// Package repository contains the MySQL data access for users, sessions,
// menu, orders and franchises.  The sentinel values here let handlers
// distinguish failure scenarios without inspecting driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the addressed row does not exist.
// Handlers translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when a user would get an email that another
// account already uses.
var ErrEmailExists = errors.New("email already exists")

// ErrConflict is returned when a unique constraint other than the user
// email is violated, e.g. a duplicate franchise name.  Handlers translate
// it into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrInvalidRole is returned when a role assignment names a role the
// service does not know.
var ErrInvalidRole = errors.New("unknown role")

const mysqlDuplicateEntry = 1062

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
