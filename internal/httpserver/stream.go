package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/spark_cart/internal/models"
	"github.com/Skotchmaster/spark_cart/internal/realtime"
	"github.com/Skotchmaster/spark_cart/internal/service"
	"github.com/Skotchmaster/spark_cart/internal/transport"
	"github.com/Skotchmaster/spark_cart/pkg/logging"
)

type StreamHTTP struct {
	Votes  *service.VoteService
	Carts  *service.CartService
	Source realtime.Source
}

// Stream pushes live tallies for the cart poll and every item as server-sent events.
func (h *StreamHTTP) Stream(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "carts.stream")

	cartID, err := paramUUID(c, "id")
	if err != nil {
		l.Warn("stream_error", "status", 400, "reason", "id is not uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not uuid")
	}

	targets, err := h.Carts.Targets(ctx, cartID)
	if err != nil {
		return serviceError(l, "stream_error", err)
	}

	w := c.Response()
	// the server write timeout would otherwise cut long-lived streams
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	l.Info("stream_opened", "cart_id", cartID, "targets", len(targets))
	err = h.Votes.Watch(ctx, h.Source, targets, &sseSink{w: w})
	if err != nil && ctx.Err() == nil {
		l.Warn("stream_closed", "error", err)
	}
	return nil
}

type sseSink struct {
	w *echo.Response
}

func (s *sseSink) Tally(target models.Target, t service.Tally) error {
	b, err := json.Marshal(transport.Tally(target, t))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "event: tally\ndata: %s\n\n", b); err != nil {
		return err
	}
	s.w.Flush()
	return nil
}

func (s *sseSink) KeepAlive() error {
	if _, err := fmt.Fprint(s.w, ": ping\n\n"); err != nil {
		return err
	}
	s.w.Flush()
	return nil
}
