package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pizza-service/internal/auth"
	"github.com/iliyamo/pizza-service/internal/metrics"
	"github.com/iliyamo/pizza-service/internal/model"
)

// Authentication results reported to metrics and logs.
const (
	resultAuthenticated = "authenticated"
	resultAnonymous     = "anonymous"
	resultInvalidToken  = "invalid_token"
	resultRevoked       = "revoked"
	resultStoreError    = "store_error"
)

// defaultAuthTimeout applies when Authenticate is given a non-positive
// timeout.
const defaultAuthTimeout = 2 * time.Second

// SessionVerifier is the part of auth.Manager the middleware needs.
type SessionVerifier interface {
	Verify(token string) (*model.User, error)
	IsActive(ctx context.Context, token string) (bool, error)
}

// Authenticate resolves the bearer token of every request into a user.
// It never rejects a request: a missing, malformed, revoked or
// unverifiable token, or a failing store, all leave the request anonymous.
// timeout bounds the active-token lookup.
func Authenticate(sessions SessionVerifier, timeout time.Duration, m *metrics.Metrics) echo.MiddlewareFunc {
	if timeout <= 0 {
		timeout = defaultAuthTimeout
	}
	log := slog.Default().With("module", "middleware", "layer", "authenticate")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, result, err := resolve(c, sessions, timeout)
			m.RecordAuthentication(result)
			if err != nil {
				log.WarnContext(c.Request().Context(), "authentication degraded to anonymous",
					"operation", "authenticate",
					"outcome", result,
					"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
					"error", err.Error(),
				)
			}
			setUser(c, u)
			return next(c)
		}
	}
}

// resolve runs the token checks.  A panic in any step is treated like any
// other failure.
func resolve(c echo.Context, sessions SessionVerifier, timeout time.Duration) (u *model.User, result string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			u, result, err = nil, resultStoreError, fmt.Errorf("panic during authentication: %v", rec)
		}
	}()

	token, ok := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if !ok {
		return nil, resultAnonymous, nil
	}
	claimed, err := sessions.Verify(token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return nil, resultInvalidToken, nil
		}
		return nil, resultInvalidToken, err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
	defer cancel()
	active, err := sessions.IsActive(ctx, token)
	if err != nil {
		return nil, resultStoreError, err
	}
	if !active {
		return nil, resultRevoked, nil
	}
	return claimed, resultAuthenticated, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}
