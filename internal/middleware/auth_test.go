package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pizza-service/internal/auth"
	"github.com/iliyamo/pizza-service/internal/metrics"
	"github.com/iliyamo/pizza-service/internal/model"
)

type stubSessions struct {
	user      *model.User
	verifyErr error
	active    bool
	activeErr error
	block     bool
	panics    bool
}

func (s *stubSessions) Verify(string) (*model.User, error) {
	if s.panics {
		panic("boom")
	}
	return s.user, s.verifyErr
}

func (s *stubSessions) IsActive(ctx context.Context, _ string) (bool, error) {
	if s.block {
		<-ctx.Done()
		return false, ctx.Err()
	}
	return s.active, s.activeErr
}

// run sends one request through Authenticate and reports the user the
// handler saw and the response status.
func run(t *testing.T, s SessionVerifier, header string, m *metrics.Metrics) (*model.User, int) {
	t.Helper()
	e := echo.New()
	var seen *model.User
	h := Authenticate(s, 50*time.Millisecond, m)(func(c echo.Context) error {
		seen = CurrentUser(c)
		return c.NoContent(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return seen, rec.Code
}

func TestAuthenticate_Outcomes(t *testing.T) {
	alice := &model.User{ID: 1, Name: "alice"}
	cases := []struct {
		name   string
		s      *stubSessions
		header string
		want   *model.User
		result string
	}{
		{"active token", &stubSessions{user: alice, active: true}, "Bearer a.b.c", alice, resultAuthenticated},
		{"no header", &stubSessions{user: alice, active: true}, "", nil, resultAnonymous},
		{"wrong scheme", &stubSessions{user: alice, active: true}, "Basic a.b.c", nil, resultAnonymous},
		{"empty bearer", &stubSessions{user: alice, active: true}, "Bearer ", nil, resultAnonymous},
		{"invalid token", &stubSessions{verifyErr: auth.ErrInvalidToken}, "Bearer x", nil, resultInvalidToken},
		{"revoked", &stubSessions{user: alice, active: false}, "Bearer a.b.c", nil, resultRevoked},
		{"store error", &stubSessions{user: alice, activeErr: errors.New("down")}, "Bearer a.b.c", nil, resultStoreError},
		{"store timeout", &stubSessions{user: alice, block: true}, "Bearer a.b.c", nil, resultStoreError},
		{"panic", &stubSessions{panics: true}, "Bearer a.b.c", nil, resultStoreError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reg := prometheus.NewRegistry()
			m := metrics.New(true, reg)
			got, code := run(t, tc.s, tc.header, m)
			assert.Equal(t, http.StatusNoContent, code)
			assert.Equal(t, tc.want, got)
			n, err := testutil.GatherAndCount(reg, "pizza_authentications_total")
			require.NoError(t, err)
			assert.Equal(t, 1, n)
		})
	}
}

// deadlineSessions reports the token as active only while the lookup
// context is still live.
type deadlineSessions struct{ user *model.User }

func (s deadlineSessions) Verify(string) (*model.User, error) { return s.user, nil }

func (s deadlineSessions) IsActive(ctx context.Context, _ string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return true, nil
}

func TestAuthenticate_NonPositiveTimeoutUsesDefault(t *testing.T) {
	alice := &model.User{ID: 1, Name: "alice"}
	for _, timeout := range []time.Duration{0, -time.Second} {
		e := echo.New()
		var seen *model.User
		h := Authenticate(deadlineSessions{user: alice}, timeout, nil)(func(c echo.Context) error {
			seen = CurrentUser(c)
			return c.NoContent(http.StatusNoContent)
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer a.b.c")
		require.NoError(t, h(e.NewContext(req, httptest.NewRecorder())))
		assert.Equal(t, alice, seen, timeout.String())
	}
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	for _, h := range []string{"", "bearer abc", "Bearer", "Bearer   ", "Token abc"} {
		_, ok := BearerToken(h)
		assert.False(t, ok, h)
	}
}

func TestGuards(t *testing.T) {
	e := echo.New()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	call := func(mw echo.MiddlewareFunc, u *model.User) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		setUser(c, u)
		require.NoError(t, mw(ok)(c))
		return rec
	}
	diner := &model.User{ID: 1, Roles: []model.RoleAssignment{{Role: model.RoleDiner}}}
	admin := &model.User{ID: 2, Roles: []model.RoleAssignment{{Role: model.RoleDiner}, {Role: model.RoleAdmin}}}

	rec := call(RequireAuthenticated(nil), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"unauthorized"}`, rec.Body.String())
	assert.Equal(t, http.StatusOK, call(RequireAuthenticated(nil), diner).Code)

	assert.Equal(t, http.StatusUnauthorized, call(RequireRole(model.RoleAdmin, nil), nil).Code)
	rec = call(RequireRole(model.RoleAdmin, nil), diner)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"forbidden"}`, rec.Body.String())
	assert.Equal(t, http.StatusOK, call(RequireRole(model.RoleAdmin, nil), admin).Code)
}
