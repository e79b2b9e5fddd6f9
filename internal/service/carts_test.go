package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/spark_cart/internal/models"
	"github.com/Skotchmaster/spark_cart/internal/textgen"
)

type slowGenerator struct {
	inFlight, maxInFlight atomic.Int32
	failDescriptionFor    string
}

func (g *slowGenerator) enter() func() {
	n := g.inFlight.Add(1)
	for {
		m := g.maxInFlight.Load()
		if n <= m || g.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(30 * time.Millisecond)
	return func() { g.inFlight.Add(-1) }
}

func (g *slowGenerator) GenerateDescription(_ context.Context, name string) (string, error) {
	defer g.enter()()
	if name == g.failDescriptionFor {
		return "", errors.New("model unavailable")
	}
	return "About " + name, nil
}

func (g *slowGenerator) GenerateSuggestion(_ context.Context, name string, price decimal.Decimal) (string, error) {
	defer g.enter()()
	return "Buy " + name + " at " + price.StringFixed(2), nil
}

type recordedEvent struct {
	topic, key string
	event      any
}

type recordingEvents struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recordingEvents) PublishEvent(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{topic, key, event})
	return nil
}

type failingIndex struct{ calls int }

func (f *failingIndex) IndexCart(context.Context, *models.Cart) error {
	f.calls++
	return errors.New("es down")
}

func TestCartService_CreateCart_GeneratesConcurrently(t *testing.T) {
	t.Parallel()

	gen := &slowGenerator{failDescriptionFor: "stove"}
	env := newTestEnv(t, gen)
	events := &recordingEvents{}
	index := &failingIndex{}
	env.Carts.Events = events
	env.Carts.Topic = "cart_events"
	env.Carts.Index = index

	owner := uuid.New()
	cart, err := env.Carts.CreateCart(context.Background(), owner, NewCart{
		Title: "  camping  ",
		URL:   "https://shop.example.com/c/1",
		Items: []NewItem{
			{Name: "tent", Price: decimal.RequireFromString("120.5"), URL: " https://shop.example.com/p/tent "},
			{Name: "stove", Price: decimal.RequireFromString("35")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "camping", cart.Title)
	assert.GreaterOrEqual(t, gen.maxInFlight.Load(), int32(2))

	got, err := env.Repo.GetCart(context.Background(), cart.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "About tent", got.Items[0].Description)
	assert.Equal(t, "https://shop.example.com/p/tent", got.Items[0].URL)
	assert.Empty(t, got.Items[1].URL)
	assert.Equal(t, "Buy tent at 120.50", got.Items[0].Suggestion)
	assert.Equal(t, textgen.FallbackDescription, got.Items[1].Description)
	assert.Equal(t, "Buy stove at 35.00", got.Items[1].Suggestion)
	assert.Equal(t, models.ItemImagePlaceholder, got.Items[1].Image)

	require.Len(t, events.events, 1)
	assert.Equal(t, "cart_events", events.events[0].topic)
	assert.Equal(t, cart.ID.String(), events.events[0].key)
	assert.Equal(t, 1, index.calls)
}

func TestCartService_CreateCart_NoGenerator(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	cart := env.seedCart(t, uuid.New(), "tent")

	assert.Equal(t, textgen.FallbackDescription, cart.Items[0].Description)
	assert.Equal(t, textgen.FallbackSuggestion, cart.Items[0].Suggestion)
}

func TestCartService_CreateCart_Validation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	ctx := context.Background()
	item := NewItem{Name: "tent", Price: decimal.NewFromInt(1)}

	tests := []struct {
		name string
		user uuid.UUID
		in   NewCart
		want error
	}{
		{"anonymous", uuid.Nil, NewCart{Title: "t", Items: []NewItem{item}}, ErrUnauthorized},
		{"blank title", uuid.New(), NewCart{Title: "  ", Items: []NewItem{item}}, ErrValidation},
		{"no items", uuid.New(), NewCart{Title: "t"}, ErrValidation},
		{"blank item", uuid.New(), NewCart{Title: "t", Items: []NewItem{{Name: " "}}}, ErrValidation},
		{"negative price", uuid.New(), NewCart{Title: "t", Items: []NewItem{{Name: "x", Price: decimal.NewFromInt(-1)}}}, ErrValidation},
		{"bad url", uuid.New(), NewCart{Title: "t", URL: "javascript:alert(1)", Items: []NewItem{item}}, ErrValidation},
		{"bad item url", uuid.New(), NewCart{Title: "t", Items: []NewItem{{Name: "x", URL: "not a url"}}}, ErrValidation},
	}

	for _, tt := range tests {
		_, err := env.Carts.CreateCart(ctx, tt.user, tt.in)
		assert.ErrorIs(t, err, tt.want, tt.name)
	}

	var n int64
	require.NoError(t, env.Repo.DB.Model(&models.Cart{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCartService_GetCart_Aggregates(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	ctx := context.Background()
	owner, viewer, other := uuid.New(), uuid.New(), uuid.New()
	cart := env.seedCart(t, owner, "tent", "stove")
	tent := models.ItemTarget(cart.Items[0].ID)

	_, err := env.Votes.Toggle(ctx, viewer, cart.ID, tent, models.KindUp)
	require.NoError(t, err)
	_, err = env.Votes.Toggle(ctx, other, cart.ID, tent, models.KindDown)
	require.NoError(t, err)
	_, err = env.Votes.Toggle(ctx, viewer, cart.ID, models.CartTarget(cart.ID), models.KindYes)
	require.NoError(t, err)
	_, err = env.Comments.AddComment(ctx, other, cart.ID, tent.ID, "nice")
	require.NoError(t, err)

	view, err := env.Carts.GetCart(ctx, cart.ID, viewer)
	require.NoError(t, err)

	assert.Equal(t, Tally{Primary: 1, Secondary: 1}, view.Items[0].Votes)
	assert.Equal(t, Tally{}, view.Items[1].Votes)
	assert.Equal(t, Tally{Primary: 1}, view.Poll)
	assert.Equal(t, 100, view.Poll.Percentage())
	assert.EqualValues(t, 4, view.Interactions)
	assert.Equal(t, models.KindUp, view.MyVotes.Of(tent))
	require.NotNil(t, view.Cart.Owner)
	assert.Equal(t, owner, view.Cart.Owner.ID)

	anon, err := env.Carts.GetCart(ctx, cart.ID, uuid.Nil)
	require.NoError(t, err)
	assert.Empty(t, anon.MyVotes)

	_, err = env.Carts.GetCart(ctx, uuid.New(), viewer)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartService_ListCarts(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	ctx := context.Background()
	owner := uuid.New()
	env.seedCart(t, owner, "a")
	time.Sleep(5 * time.Millisecond)
	newest := env.seedCart(t, owner, "b")
	env.seedCart(t, uuid.New(), "c")

	views, err := env.Carts.ListCarts(ctx, owner)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, newest.ID, views[0].Cart.ID)

	_, err = env.Carts.ListCarts(ctx, uuid.Nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCartService_Targets(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	cart := env.seedCart(t, uuid.New(), "tent", "stove")

	targets, err := env.Carts.Targets(context.Background(), cart.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Target{
		models.CartTarget(cart.ID),
		models.ItemTarget(cart.Items[0].ID),
		models.ItemTarget(cart.Items[1].ID),
	}, targets)

	_, err = env.Carts.Targets(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
