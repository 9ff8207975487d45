package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pizza-service/internal/model"
)

func TestFranchiseRepo_Create(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT id, name, email FROM user WHERE email = ?")).WithArgs("f@jwt.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).AddRow(4, "pizza franchisee", "f@jwt.com"))
	mock.ExpectExec(q("INSERT INTO franchise (name)")).WithArgs("pizzaPocket").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec(q("INSERT INTO userRole (userId, role, objectId)")).
		WithArgs(uint64(4), model.RoleFranchisee, uint64(2)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	f, err := NewFranchiseRepo(db).Create(context.Background(), "pizzaPocket", []string{"F@jwt.com"})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), f.ID)
	require.Len(t, f.Admins, 1)
	assert.Equal(t, uint64(4), f.Admins[0].ID)
}

func TestFranchiseRepo_Create_UnknownAdmin(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q("FROM user WHERE email = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}))
	mock.ExpectRollback()

	_, err := NewFranchiseRepo(db).Create(context.Background(), "x", []string{"ghost@jwt.com"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorContains(t, err, "ghost@jwt.com")
}

func TestFranchiseRepo_Create_DuplicateName(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO franchise")).WillReturnError(&mysql.MySQLError{Number: 1062})
	mock.ExpectRollback()

	_, err := NewFranchiseRepo(db).Create(context.Background(), "dup", nil)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestFranchiseRepo_List_WithoutDetails(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(q("SELECT id, name FROM franchise WHERE name LIKE ?")).WithArgs("%", 11, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "pizzaPocket"))
	mock.ExpectQuery(q("SELECT id, name FROM store WHERE franchiseId = ?")).WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "SLC"))

	out, more, err := NewFranchiseRepo(db).List(context.Background(), Page{}, "", false)
	require.NoError(t, err)
	assert.False(t, more)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].Admins)
	require.Len(t, out[0].Stores, 1)
	assert.Nil(t, out[0].Stores[0].TotalRevenue)
}

func TestFranchiseRepo_List_WithRevenue(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(q("SELECT id, name FROM franchise WHERE name LIKE ?")).WithArgs("pizza%", 11, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "pizzaPocket"))
	mock.ExpectQuery(q("FROM userRole ur JOIN user u")).WithArgs(model.RoleFranchisee, uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).AddRow(4, "pizza franchisee", "f@jwt.com"))
	mock.ExpectQuery(q("COALESCE(SUM(oi.price), 0)")).WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "revenue"}).AddRow(1, "SLC", 0.05))

	out, more, err := NewFranchiseRepo(db).List(context.Background(), Page{}, "pizza*", true)
	require.NoError(t, err)
	assert.False(t, more)
	require.Len(t, out, 1)
	f := out[0]
	require.Len(t, f.Stores, 1)
	require.NotNil(t, f.Stores[0].TotalRevenue)
	assert.InDelta(t, 0.05, *f.Stores[0].TotalRevenue, 1e-9)
	assert.Equal(t, "f@jwt.com", f.Admins[0].Email)
}

func TestFranchiseRepo_Delete(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(q("DELETE FROM store WHERE franchiseId = ?")).WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(q("DELETE FROM userRole WHERE role = ? AND objectId = ?")).
		WithArgs(model.RoleFranchisee, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("DELETE FROM franchise WHERE id = ?")).WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewFranchiseRepo(db).Delete(context.Background(), 3))
}

func TestFranchiseRepo_CreateStore_UnknownFranchise(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(q("SELECT COUNT(*) FROM franchise WHERE id = ?")).WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))

	_, err := NewFranchiseRepo(db).CreateStore(context.Background(), 9, "SLC")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFranchiseRepo_DeleteStore_WrongFranchise(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(q("DELETE FROM store WHERE franchiseId = ? AND id = ?")).
		WithArgs(uint64(1), uint64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, NewFranchiseRepo(db).DeleteStore(context.Background(), 1, 8), ErrNotFound)
}

func TestOrderRepo_Create_UnknownMenuItem(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrderRepo(db)
	repo.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO dinerOrder")).
		WithArgs(uint64(2), uint64(1), uint64(1), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectQuery(q("SELECT id FROM menu WHERE id = ?")).WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), 2, model.Order{
		FranchiseID: 1, StoreID: 1,
		Items: []model.OrderItem{{MenuID: 42, Description: "Veggie", Price: 0.05}},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderRepo_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrderRepo(db)
	when := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return when }

	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO dinerOrder")).
		WithArgs(uint64(2), uint64(1), uint64(1), when).
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectQuery(q("SELECT id FROM menu WHERE id = ?")).WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(q("INSERT INTO orderItem")).
		WithArgs(uint64(10), uint64(1), "Veggie", 0.05).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	o, err := repo.Create(context.Background(), 2, model.Order{
		FranchiseID: 1, StoreID: 1,
		Items: []model.OrderItem{{MenuID: 1, Description: "Veggie", Price: 0.05}},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(10), o.ID)
	assert.Equal(t, when, o.Date)
	assert.InDelta(t, 0.05, o.Total(), 1e-9)
}

func TestOrderRepo_ListForDiner(t *testing.T) {
	db, mock := newMock(t)
	when := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(q("FROM dinerOrder WHERE dinerId = ?")).WithArgs(uint64(2), 11, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "franchiseId", "storeId", "date"}).AddRow(10, 1, 1, when))
	mock.ExpectQuery(q("FROM orderItem WHERE orderId = ?")).WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "menuId", "description", "price"}).AddRow(1, 1, "Veggie", 0.05))

	orders, more, err := NewOrderRepo(db).ListForDiner(context.Background(), 2, Page{})
	require.NoError(t, err)
	assert.False(t, more)
	require.Len(t, orders, 1)
	assert.Equal(t, "Veggie", orders[0].Items[0].Description)
}

func TestMenuRepo(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMenuRepo(db)
	mock.ExpectExec(q("INSERT INTO menu (title, description, image, price)")).
		WithArgs("Student", "No topping, no sauce, just carbs", "pizza9.png", 0.0001).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectQuery(q("SELECT id, title, description, image, price FROM menu")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "image", "price"}).
			AddRow(5, "Student", "No topping, no sauce, just carbs", "pizza9.png", 0.0001))

	item, err := repo.Add(context.Background(), model.MenuItem{
		Title: "Student", Description: "No topping, no sauce, just carbs", Image: "pizza9.png", Price: 0.0001,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), item.ID)

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
