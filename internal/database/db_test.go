package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pizza-service/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.Config{DBUser: "root", DBPass: "pw", DBHost: "db", DBPort: "3306", DBName: "pizza"})
	assert.Contains(t, dsn, "root:pw@tcp(db:3306)/pizza?")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestDSN_NoPassword(t *testing.T) {
	dsn := DSN(config.Config{DBUser: "root", DBHost: "db", DBPort: "3306", DBName: "pizza"})
	assert.Contains(t, dsn, "root@tcp(db:3306)/pizza")
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for range schema {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_StopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS user").WillReturnError(errors.New("denied"))
	err = Migrate(context.Background(), db)
	assert.ErrorContains(t, err, "migrate step 0")
	assert.NoError(t, mock.ExpectationsWereMet())
}
