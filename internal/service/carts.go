package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/spark_cart/internal/models"
	"github.com/Skotchmaster/spark_cart/internal/repo"
	"github.com/Skotchmaster/spark_cart/internal/textgen"
	"github.com/Skotchmaster/spark_cart/pkg/logging"
)

const defaultGenerateConcurrency = 8

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type ItemIndexer interface {
	IndexCart(ctx context.Context, cart *models.Cart) error
}

type CartService struct {
	Repo  *repo.GormRepo
	Votes *VoteService
	Text  *textgen.Guard

	// Events and Index are optional side channels fed after a cart is stored.
	Events EventPublisher
	Topic  string
	Index  ItemIndexer

	Concurrency int
}

type NewItem struct {
	Name  string
	Price decimal.Decimal
	URL   string
}

type NewCart struct {
	Title string
	URL   string
	Items []NewItem
}

func (in *NewCart) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.URL = strings.TrimSpace(in.URL)
	if in.Title == "" {
		return fmt.Errorf("title required: %w", ErrValidation)
	}
	if !validURL(in.URL) {
		return fmt.Errorf("url must be an http(s) address: %w", ErrValidation)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("at least one item required: %w", ErrValidation)
	}
	for i := range in.Items {
		in.Items[i].Name = strings.TrimSpace(in.Items[i].Name)
		if in.Items[i].Name == "" {
			return fmt.Errorf("item %d: name required: %w", i, ErrValidation)
		}
		if in.Items[i].Price.IsNegative() {
			return fmt.Errorf("item %d: price must not be negative: %w", i, ErrValidation)
		}
		in.Items[i].URL = strings.TrimSpace(in.Items[i].URL)
		if !validURL(in.Items[i].URL) {
			return fmt.Errorf("item %d: url must be an http(s) address: %w", i, ErrValidation)
		}
	}
	return nil
}

// validURL accepts an empty string or an absolute http(s) address.
func validURL(s string) bool {
	if s == "" {
		return true
	}
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// CreateCart generates every item's description and suggestion concurrently,
// then stores the cart and its items in one transaction. Generation never
// fails the call; failed text is replaced by the fallback.
func (s *CartService) CreateCart(ctx context.Context, userID uuid.UUID, in NewCart) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	items := make([]models.Item, len(in.Items))
	limit := s.Concurrency
	if limit <= 0 {
		limit = defaultGenerateConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, it := range in.Items {
		items[i] = models.Item{Name: it.Name, Price: it.Price.Round(2), URL: it.URL, Image: models.ItemImagePlaceholder}
		g.Go(func() error {
			items[i].Description = s.Text.Description(gctx, it.Name)
			return nil
		})
		g.Go(func() error {
			items[i].Suggestion = s.Text.Suggestion(gctx, it.Name, it.Price)
			return nil
		})
	}
	_ = g.Wait()

	// the client went away while we were generating
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cart := &models.Cart{OwnerID: userID, Title: in.Title, URL: in.URL, Items: items}
	if err := s.Repo.CreateCart(ctx, cart); err != nil {
		return nil, storeErr("create cart", err)
	}

	s.afterCreate(ctx, cart)
	return cart, nil
}

func (s *CartService) afterCreate(ctx context.Context, cart *models.Cart) {
	l := logging.FromContext(ctx).With("svc", "carts", "cart_id", cart.ID)

	if s.Events != nil && s.Topic != "" {
		event := map[string]any{
			"type":    "cart_created",
			"cartID":  cart.ID,
			"ownerID": cart.OwnerID,
			"title":   cart.Title,
			"items":   len(cart.Items),
		}
		if err := s.Events.PublishEvent(ctx, s.Topic, cart.ID.String(), event); err != nil {
			l.Warn("cart_event_publish_failed", "error", err)
		}
	}
	if s.Index != nil {
		if err := s.Index.IndexCart(ctx, cart); err != nil {
			l.Warn("cart_index_failed", "error", err)
		}
	}
}

type ItemView struct {
	Item  models.Item
	Votes Tally
}

// CartView is a cart with its aggregates. MyVotes is empty for anonymous viewers.
type CartView struct {
	Cart         *models.Cart
	Items        []ItemView
	Poll         Tally
	Interactions int64
	MyVotes      VoteState
}

func (s *CartService) GetCart(ctx context.Context, cartID, viewer uuid.UUID) (*CartView, error) {
	cart, err := s.Repo.GetCart(ctx, cartID)
	if err != nil {
		return nil, storeErr("get cart", err)
	}

	views, err := s.views(ctx, []models.Cart{*cart})
	if err != nil {
		return nil, err
	}
	view := &views[0]

	view.MyVotes, err = s.Votes.VoteState(ctx, viewer, cartID)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ListCarts returns the owner's carts, newest first.
func (s *CartService) ListCarts(ctx context.Context, owner uuid.UUID) ([]CartView, error) {
	if owner == uuid.Nil {
		return nil, ErrUnauthorized
	}
	carts, err := s.Repo.ListCartsByOwner(ctx, owner)
	if err != nil {
		return nil, storeErr("list carts", err)
	}
	return s.views(ctx, carts)
}

func (s *CartService) views(ctx context.Context, carts []models.Cart) ([]CartView, error) {
	ids := make([]uuid.UUID, len(carts))
	for i := range carts {
		ids[i] = carts[i].ID
	}

	rows, err := s.Repo.CountCartVotes(ctx, ids)
	if err != nil {
		return nil, storeErr("count cart votes", err)
	}
	comments, err := s.Repo.CountCartComments(ctx, ids)
	if err != nil {
		return nil, storeErr("count cart comments", err)
	}

	votesPerCart := make(map[uuid.UUID]int64, len(carts))
	itemCart := make(map[uuid.UUID]uuid.UUID)
	for i := range carts {
		for _, it := range carts[i].Items {
			itemCart[it.ID] = carts[i].ID
		}
	}
	for _, row := range rows {
		cartID := row.TargetID
		if row.TargetType == models.TargetItem {
			cartID = itemCart[row.TargetID]
		}
		votesPerCart[cartID] += row.N
	}

	byTarget := tallies(rows)
	out := make([]CartView, len(carts))
	for i := range carts {
		c := &carts[i]
		v := CartView{
			Cart:         c,
			Items:        make([]ItemView, len(c.Items)),
			Poll:         byTarget[models.CartTarget(c.ID)],
			Interactions: votesPerCart[c.ID] + comments[c.ID],
			MyVotes:      VoteState{},
		}
		for j, it := range c.Items {
			v.Items[j] = ItemView{Item: it, Votes: byTarget[models.ItemTarget(it.ID)]}
		}
		out[i] = v
	}
	return out, nil
}

// Targets lists what a cart's live view watches: the poll and every item.
func (s *CartService) Targets(ctx context.Context, cartID uuid.UUID) ([]models.Target, error) {
	ok, err := s.Repo.CartExists(ctx, cartID)
	if err != nil {
		return nil, storeErr("find cart", err)
	}
	if !ok {
		return nil, fmt.Errorf("cart %s: %w", cartID, ErrNotFound)
	}
	ids, err := s.Repo.CartItemIDs(ctx, cartID)
	if err != nil {
		return nil, storeErr("list cart items", err)
	}
	targets := make([]models.Target, 0, len(ids)+1)
	targets = append(targets, models.CartTarget(cartID))
	for _, id := range ids {
		targets = append(targets, models.ItemTarget(id))
	}
	return targets, nil
}
