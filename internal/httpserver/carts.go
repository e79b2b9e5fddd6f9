package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/spark_cart/internal/service"
	"github.com/Skotchmaster/spark_cart/internal/transport"
	"github.com/Skotchmaster/spark_cart/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) CreateCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "carts.create")

	userID, err := GetID(c)
	if err != nil {
		l.Warn("create_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	var req transport.CreateCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_cart_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	in := service.NewCart{Title: req.Title, URL: req.URL, Items: make([]service.NewItem, len(req.Items))}
	for i, it := range req.Items {
		in.Items[i] = service.NewItem{Name: it.Name, Price: it.Price, URL: it.URL}
	}

	cart, err := h.Svc.CreateCart(ctx, userID, in)
	if err != nil {
		return serviceError(l, "create_cart_error", err)
	}

	l.Info("cart_created", "cart_id", cart.ID, "items", len(cart.Items))
	return c.JSON(http.StatusCreated, transport.CreateCartResponse{CartID: cart.ID})
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "carts.get")

	cartID, err := paramUUID(c, "id")
	if err != nil {
		l.Warn("get_cart_error", "status", 400, "reason", "id is not uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not uuid")
	}

	view, err := h.Svc.GetCart(ctx, cartID, viewerID(c))
	if err != nil {
		return serviceError(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, transport.Cart(*view))
}

func (h *CartHTTP) ListCarts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "carts.list")

	userID, err := GetID(c)
	if err != nil {
		l.Warn("list_carts_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	views, err := h.Svc.ListCarts(ctx, userID)
	if err != nil {
		return serviceError(l, "list_carts_error", err)
	}
	return c.JSON(http.StatusOK, transport.Carts(views))
}
