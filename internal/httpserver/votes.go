package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/spark_cart/internal/models"
	"github.com/Skotchmaster/spark_cart/internal/service"
	"github.com/Skotchmaster/spark_cart/internal/transport"
	"github.com/Skotchmaster/spark_cart/pkg/logging"
)

type VoteHTTP struct {
	Svc *service.VoteService
}

// Vote toggles the caller's up/down vote on one item of the cart.
func (h *VoteHTTP) Vote(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "votes.item")

	userID, err := GetID(c)
	if err != nil {
		l.Warn("vote_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	cartID, err := paramUUID(c, "id")
	if err != nil {
		l.Warn("vote_error", "status", 400, "reason", "id is not uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not uuid")
	}

	var req transport.VoteRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("vote_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		l.Warn("vote_error", "status", 400, "reason", "itemId is not uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "itemId is not uuid")
	}

	out, err := h.Svc.Toggle(ctx, userID, cartID, models.ItemTarget(itemID), req.VoteType)
	if err != nil {
		return serviceError(l, "vote_error", err)
	}

	return c.JSON(http.StatusOK, transport.ItemVoteResponse{
		Success:   true,
		Result:    out.Result,
		ItemID:    itemID,
		Upvotes:   out.Tally.Primary,
		Downvotes: out.Tally.Secondary,
		MyVote:    out.MyVote,
		Stale:     out.TallyStale,
	})
}

// Poll toggles the caller's yes/no answer on the cart itself.
func (h *VoteHTTP) Poll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "votes.poll")

	userID, err := GetID(c)
	if err != nil {
		l.Warn("poll_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	cartID, err := paramUUID(c, "id")
	if err != nil {
		l.Warn("poll_error", "status", 400, "reason", "id is not uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not uuid")
	}

	var req transport.PollRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("poll_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	out, err := h.Svc.Toggle(ctx, userID, cartID, models.CartTarget(cartID), req.VoteType)
	if err != nil {
		return serviceError(l, "poll_error", err)
	}

	return c.JSON(http.StatusOK, transport.PollVoteResponse{
		Success:       true,
		Result:        out.Result,
		YesVotes:      out.Tally.Primary,
		NoVotes:       out.Tally.Secondary,
		YesPercentage: out.Tally.Percentage(),
		MyVote:        out.MyVote,
		Stale:         out.TallyStale,
	})
}
