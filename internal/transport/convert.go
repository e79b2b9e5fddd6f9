package transport

import (
	"github.com/Skotchmaster/spark_cart/internal/models"
	"github.com/Skotchmaster/spark_cart/internal/search"
	"github.com/Skotchmaster/spark_cart/internal/service"
)

func userOf(p models.Profile) UserResponse {
	return UserResponse{ID: p.ID, Name: p.Name, Image: p.Image}
}

func Comment(c models.Comment) CommentResponse {
	out := CommentResponse{ID: c.ID, Content: c.Content, CreatedAt: c.CreatedAt}
	if c.Author != nil {
		out.User = userOf(*c.Author)
	} else {
		out.User = UserResponse{ID: c.UserID}
	}
	return out
}

func Comments(cs []models.Comment) []CommentResponse {
	out := make([]CommentResponse, len(cs))
	for i, c := range cs {
		out[i] = Comment(c)
	}
	return out
}

func Cart(v service.CartView) CartResponse {
	c := v.Cart
	out := CartResponse{
		ID:                c.ID,
		Title:             c.Title,
		URL:               c.URL,
		CreatedAt:         c.CreatedAt,
		Owner:             UserResponse{ID: c.OwnerID},
		Items:             make([]ItemResponse, len(v.Items)),
		YesVotes:          v.Poll.Primary,
		NoVotes:           v.Poll.Secondary,
		YesPercentage:     v.Poll.Percentage(),
		TotalInteractions: v.Interactions,
		MyPollVote:        v.MyVotes.Of(models.CartTarget(c.ID)),
	}
	if c.Owner != nil {
		out.Owner = userOf(*c.Owner)
	}
	for i, iv := range v.Items {
		it := iv.Item
		out.Items[i] = ItemResponse{
			ID:          it.ID,
			Name:        it.Name,
			Price:       it.Price,
			URL:         it.URL,
			Description: it.Description,
			Suggestion:  it.Suggestion,
			Image:       it.Image,
			Upvotes:     iv.Votes.Primary,
			Downvotes:   iv.Votes.Secondary,
			MyVote:      v.MyVotes.Of(models.ItemTarget(it.ID)),
		}
	}
	return out
}

func Carts(vs []service.CartView) []CartResponse {
	out := make([]CartResponse, len(vs))
	for i, v := range vs {
		out[i] = Cart(v)
	}
	return out
}

func Tally(target models.Target, t service.Tally) TallyEvent {
	return TallyEvent{
		TargetType: target.Type,
		TargetID:   target.ID,
		Primary:    t.Primary,
		Secondary:  t.Secondary,
		Percentage: t.Percentage(),
	}
}

func SearchItems(docs []search.ItemDoc) []SearchItem {
	out := make([]SearchItem, len(docs))
	for i, d := range docs {
		out[i] = SearchItem{
			ID:          d.ID,
			CartID:      d.CartID,
			Name:        d.Name,
			Description: d.Description,
			Price:       d.Price,
			URL:         d.URL,
			Image:       d.Image,
		}
	}
	return out
}
