package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/spark_cart/internal/service"
	"github.com/Skotchmaster/spark_cart/internal/transport"
	"github.com/Skotchmaster/spark_cart/pkg/logging"
)

type CommentHTTP struct {
	Svc *service.CommentService
}

func (h *CommentHTTP) AddComment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "comments.add")

	userID, err := GetID(c)
	if err != nil {
		l.Warn("add_comment_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	cartID, err := paramUUID(c, "id")
	if err != nil {
		l.Warn("add_comment_error", "status", 400, "reason", "id is not uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not uuid")
	}
	itemID, err := paramUUID(c, "itemId")
	if err != nil {
		l.Warn("add_comment_error", "status", 400, "reason", "itemId is not uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "itemId is not uuid")
	}

	var req transport.CommentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_comment_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	comment, err := h.Svc.AddComment(ctx, userID, cartID, itemID, req.Content)
	if err != nil {
		return serviceError(l, "add_comment_error", err)
	}

	return c.JSON(http.StatusCreated, transport.Comment(*comment))
}

func (h *CommentHTTP) ListComments(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "comments.list")

	cartID, err := paramUUID(c, "id")
	if err != nil {
		l.Warn("list_comments_error", "status", 400, "reason", "id is not uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not uuid")
	}
	itemID, err := paramUUID(c, "itemId")
	if err != nil {
		l.Warn("list_comments_error", "status", 400, "reason", "itemId is not uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "itemId is not uuid")
	}

	comments, err := h.Svc.ListComments(ctx, cartID, itemID)
	if err != nil {
		return serviceError(l, "list_comments_error", err)
	}
	return c.JSON(http.StatusOK, transport.Comments(comments))
}
