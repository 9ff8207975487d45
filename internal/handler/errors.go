package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/pizza-service/internal/auth"
	"github.com/iliyamo/pizza-service/internal/metrics"
	"github.com/iliyamo/pizza-service/internal/repository"
)

const (
	msgRetry           = "service temporarily unavailable, retry"
	msgPasswordTooLong = "password must be at most 72 bytes"
)

// ErrorHandler maps the sentinel errors returned by handlers to HTTP
// statuses.  Every body has the shape {"message": "..."}.
func ErrorHandler(m *metrics.Metrics) echo.HTTPErrorHandler {
	log := slog.Default().With("module", "http", "layer", "errors")
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, msg := classify(err)
		switch status {
		case http.StatusForbidden:
			m.RecordDenial(status)
		case http.StatusInternalServerError:
			log.ErrorContext(c.Request().Context(), "request failed",
				"operation", c.Path(),
				"outcome", "error",
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"error", err.Error(),
			)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, echo.Map{"message": msg})
	}
}

func classify(err error) (int, string) {
	var he *echo.HTTPError
	switch {
	case errors.Is(err, auth.ErrAuthFailed):
		return http.StatusUnauthorized, auth.ErrAuthFailed.Error()
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, auth.ErrStorageUnavailable):
		return http.StatusInternalServerError, msgRetry
	case errors.Is(err, repository.ErrEmailExists):
		return http.StatusConflict, repository.ErrEmailExists.Error()
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, "already exists"
	case errors.Is(err, repository.ErrInvalidRole):
		return http.StatusBadRequest, repository.ErrInvalidRole.Error()
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		return http.StatusBadRequest, msgPasswordTooLong
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, echo.ErrNotFound):
		return http.StatusNotFound, "unknown endpoint"
	case errors.As(err, &he):
		if msg, ok := he.Message.(string); ok {
			return he.Code, msg
		}
		return he.Code, http.StatusText(he.Code)
	}
	return http.StatusInternalServerError, "internal server error"
}
