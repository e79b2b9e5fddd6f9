package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/spark_cart/internal/service"
	"github.com/Skotchmaster/spark_cart/internal/transport"
	authmw "github.com/Skotchmaster/spark_cart/pkg/middleware/auth"
)

var errUnauthorized = errors.New("unauthorized")

// GetID returns the session's user id as set by the auth middleware.
func GetID(c echo.Context) (uuid.UUID, error) {
	s, ok := c.Get(authmw.UserIDKey).(string)
	if !ok || s == "" {
		return uuid.Nil, errUnauthorized
	}
	userID, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errUnauthorized
	}
	return userID, nil
}

// viewerID is the session user or uuid.Nil for anonymous requests.
func viewerID(c echo.Context) uuid.UUID {
	id, err := GetID(c)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func paramUUID(c echo.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

// serviceError logs err under event and converts it to the matching HTTP error.
func serviceError(l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		l.Warn(event, "status", http.StatusUnauthorized, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", http.StatusBadRequest, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", http.StatusNotFound, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	default:
		l.Error(event, "status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

// validationMessage strips the sentinel suffix so clients see only the reason.
func validationMessage(err error) string {
	return strings.TrimSuffix(err.Error(), ": "+service.ErrValidation.Error())
}

// ErrorHandler renders every error as {"error": "..."}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		} else {
			msg = http.StatusText(code)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, transport.ErrorResponse{Error: msg})
}
