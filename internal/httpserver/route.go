package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/spark_cart/internal/service"
	authmw "github.com/Skotchmaster/spark_cart/pkg/middleware/auth"
)

type Deps struct {
	Carts    *CartHTTP
	Votes    *VoteHTTP
	Comments *CommentHTTP
	Stream   *StreamHTTP
	Search   *SearchHTTP
	Profiles *service.ProfileService

	JWTSecret  []byte
	AuthClient authmw.Refresher

	// Ready reports whether dependencies answer; nil means always ready.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := authmw.NewAutoRefreshMiddleware(d.JWTSecret, d.AuthClient)

	api := e.Group("/api")

	carts := api.Group("/carts")
	authed := []echo.MiddlewareFunc{authMW.RequireAuth, ProfileSync(d.Profiles)}

	carts.POST("", d.Carts.CreateCart, authed...)
	carts.GET("", d.Carts.ListCarts, authMW.RequireAuth)
	carts.GET("/:id", d.Carts.GetCart, authMW.OptionalAuth)
	carts.GET("/:id/stream", d.Stream.Stream)
	carts.POST("/:id/vote", d.Votes.Vote, authMW.RequireAuth)
	carts.POST("/:id/poll", d.Votes.Poll, authMW.RequireAuth)
	carts.GET("/:id/items/:itemId/comments", d.Comments.ListComments)
	carts.POST("/:id/items/:itemId/comments", d.Comments.AddComment, authed...)

	api.GET("/search", d.Search.Search)
}
