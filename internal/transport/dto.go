package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/spark_cart/internal/models"
)

type CreateItemRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	URL   string          `json:"url"`
}

type CreateCartRequest struct {
	Title string              `json:"title"`
	URL   string              `json:"cartUrl"`
	Items []CreateItemRequest `json:"items"`
}

type CreateCartResponse struct {
	CartID uuid.UUID `json:"cartId"`
}

type VoteRequest struct {
	VoteType models.VoteKind `json:"voteType"`
	ItemID   string          `json:"itemId"`
}

type PollRequest struct {
	VoteType models.VoteKind `json:"voteType"`
}

type ItemVoteResponse struct {
	Success   bool                `json:"success"`
	Result    models.ToggleResult `json:"result"`
	ItemID    uuid.UUID           `json:"itemId"`
	Upvotes   int64               `json:"upvotes"`
	Downvotes int64               `json:"downvotes"`
	MyVote    models.VoteKind     `json:"myVote,omitempty"`
	Stale     bool                `json:"stale,omitempty"`
}

type PollVoteResponse struct {
	Success       bool                `json:"success"`
	Result        models.ToggleResult `json:"result"`
	YesVotes      int64               `json:"yesVotes"`
	NoVotes       int64               `json:"noVotes"`
	YesPercentage int                 `json:"yesPercentage"`
	MyVote        models.VoteKind     `json:"myVote,omitempty"`
	Stale         bool                `json:"stale,omitempty"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image string    `json:"image,omitempty"`
}

type CommentResponse struct {
	ID        uint         `json:"id"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
	User      UserResponse `json:"user"`
}

type ItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	URL         string          `json:"url,omitempty"`
	Description string          `json:"description"`
	Suggestion  string          `json:"ai_suggestion"`
	Image       string          `json:"image"`
	Upvotes     int64           `json:"upvotes"`
	Downvotes   int64           `json:"downvotes"`
	MyVote      models.VoteKind `json:"myVote,omitempty"`
}

type CartResponse struct {
	ID                uuid.UUID       `json:"id"`
	Title             string          `json:"title"`
	URL               string          `json:"cartUrl,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	Owner             UserResponse    `json:"owner"`
	Items             []ItemResponse  `json:"items"`
	YesVotes          int64           `json:"yesVotes"`
	NoVotes           int64           `json:"noVotes"`
	YesPercentage     int             `json:"yesPercentage"`
	TotalInteractions int64           `json:"totalInteractions"`
	MyPollVote        models.VoteKind `json:"myPollVote,omitempty"`
}

// TallyEvent is one server-sent update of a target's counts.
type TallyEvent struct {
	TargetType models.TargetType `json:"targetType"`
	TargetID   uuid.UUID         `json:"targetId"`
	Primary    int64             `json:"primary"`
	Secondary  int64             `json:"secondary"`
	Percentage int               `json:"percentage"`
}

type SearchItem struct {
	ID          string `json:"id"`
	CartID      string `json:"cartId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	URL         string `json:"url,omitempty"`
	Image       string `json:"image"`
}

type SearchResponse struct {
	Total int64        `json:"total"`
	Items []SearchItem `json:"items"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
