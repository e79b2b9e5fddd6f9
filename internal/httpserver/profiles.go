package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/spark_cart/internal/models"
	"github.com/Skotchmaster/spark_cart/internal/service"
	"github.com/Skotchmaster/spark_cart/pkg/logging"
	authmw "github.com/Skotchmaster/spark_cart/pkg/middleware/auth"
)

// ProfileSync copies the session's name and picture into the profile table
// before writes, so new carts and comments carry current author info.
// A failed sync is logged and does not block the request.
func ProfileSync(svc *service.ProfileService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method == http.MethodGet {
				return next(c)
			}
			claims, ok := authmw.Claims(c)
			if !ok {
				return next(c)
			}
			id, err := uuid.Parse(claims.Subject)
			if err != nil {
				return next(c)
			}

			ctx := c.Request().Context()
			if err := svc.Sync(ctx, models.Profile{
				ID:    id,
				Name:  claims.Name,
				Email: claims.Email,
				Image: claims.Picture,
			}); err != nil {
				logging.FromContext(ctx).Warn("profile_sync_failed", "user_id", id, "error", err)
			}
			return next(c)
		}
	}
}
