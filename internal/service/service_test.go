package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/spark_cart/internal/models"
	"github.com/Skotchmaster/spark_cart/internal/realtime"
	"github.com/Skotchmaster/spark_cart/internal/repo"
	"github.com/Skotchmaster/spark_cart/internal/textgen"
	pkgdb "github.com/Skotchmaster/spark_cart/pkg/db"
)

type testEnv struct {
	Repo     *repo.GormRepo
	Hub      *realtime.Hub
	Votes    *VoteService
	Carts    *CartService
	Comments *CommentService
	Profiles *ProfileService
}

func newTestEnv(t *testing.T, gen textgen.Generator) *testEnv {
	t.Helper()

	r := &repo.GormRepo{DB: pkgdb.NewTestDB(t)}
	require.NoError(t, r.Migrate(context.Background()))

	hub := realtime.NewHub()
	votes := &VoteService{Repo: r, Notifier: hub}
	return &testEnv{
		Repo:     r,
		Hub:      hub,
		Votes:    votes,
		Carts:    &CartService{Repo: r, Votes: votes, Text: &textgen.Guard{Next: gen}},
		Comments: &CommentService{Repo: r},
		Profiles: &ProfileService{Repo: r},
	}
}

func (env *testEnv) seedCart(t *testing.T, owner uuid.UUID, names ...string) *models.Cart {
	t.Helper()
	in := NewCart{Title: "weekend trip"}
	for _, n := range names {
		in.Items = append(in.Items, NewItem{Name: n, Price: decimal.RequireFromString("10")})
	}
	cart, err := env.Carts.CreateCart(context.Background(), owner, in)
	require.NoError(t, err)
	return cart
}
