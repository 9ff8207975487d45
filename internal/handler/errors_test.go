package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/pizza-service/internal/auth"
	"github.com/iliyamo/pizza-service/internal/repository"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{auth.ErrAuthFailed, http.StatusUnauthorized, "invalid credentials"},
		{fmt.Errorf("%w: requires role:admin", auth.ErrForbidden), http.StatusForbidden, "forbidden"},
		{fmt.Errorf("%w: record token: %w", auth.ErrStorageUnavailable, errors.New("io")), http.StatusInternalServerError, msgRetry},
		{repository.ErrEmailExists, http.StatusConflict, "email already exists"},
		{repository.ErrConflict, http.StatusConflict, "already exists"},
		{fmt.Errorf("menu item 7: %w", repository.ErrNotFound), http.StatusNotFound, "menu item 7: not found"},
		{fmt.Errorf("%w: \"owner\"", repository.ErrInvalidRole), http.StatusBadRequest, "unknown role"},
		{bcrypt.ErrPasswordTooLong, http.StatusBadRequest, msgPasswordTooLong},
		{echo.ErrNotFound, http.StatusNotFound, "unknown endpoint"},
		{echo.NewHTTPError(http.StatusBadRequest, "invalid userId"), http.StatusBadRequest, "invalid userId"},
		{errors.New("driver: bad connection"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		status, msg := classify(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.msg, msg, tc.err.Error())
	}
}

func TestErrorHandler_DoesNotLeakInternals(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	ErrorHandler(nil)(errors.New("dial tcp 10.0.0.5:3306: connection refused"), c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"internal server error"}`, rec.Body.String())
}

func TestPageParams(t *testing.T) {
	e := echo.New()
	ctx := func(q string) echo.Context {
		return e.NewContext(httptest.NewRequest(http.MethodGet, "/?"+q, nil), httptest.NewRecorder())
	}
	assert.Equal(t, repository.Page{Number: 0, Limit: 10}, pageParams(ctx("")))
	assert.Equal(t, repository.Page{Number: 2, Limit: 5}, pageParams(ctx("page=2&limit=5")))
	assert.Equal(t, repository.Page{Number: 0, Limit: 100}, pageParams(ctx("page=-1&limit=1000")))
	assert.Equal(t, repository.Page{Number: 0, Limit: 10}, pageParams(ctx("page=x&limit=y")))
	assert.Equal(t, repository.Page{Number: maxPage, Limit: 100}, pageParams(ctx("page=9223372036854775807&limit=100")))
}
