package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/spark_cart/internal/search"
	"github.com/Skotchmaster/spark_cart/internal/transport"
	"github.com/Skotchmaster/spark_cart/pkg/logging"
)

type SearchHTTP struct {
	Index *search.ItemIndex
}

func parseIntDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *SearchHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search.items")

	if h == nil || h.Index == nil {
		l.Warn("search_error", "status", 503, "reason", "search is not configured")
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not configured")
	}

	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}
	from, size := search.Page(parseIntDefault(c.QueryParam("page"), 1), parseIntDefault(c.QueryParam("size"), 10))

	total, docs, err := h.Index.Search(ctx, q, from, size)
	if err != nil {
		l.Error("search_error", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "search failed")
	}
	return c.JSON(http.StatusOK, transport.SearchResponse{Total: total, Items: transport.SearchItems(docs)})
}
