package repo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/spark_cart/internal/models"
	pkgdb "github.com/Skotchmaster/spark_cart/pkg/db"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	r := &GormRepo{DB: pkgdb.NewTestDB(t)}
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

func seedCart(t *testing.T, r *GormRepo, owner uuid.UUID, names ...string) *models.Cart {
	t.Helper()
	cart := &models.Cart{OwnerID: owner, Title: "weekend"}
	for _, n := range names {
		cart.Items = append(cart.Items, models.Item{Name: n, Price: decimal.RequireFromString("9.99"), Image: models.ItemImagePlaceholder})
	}
	require.NoError(t, r.CreateCart(context.Background(), cart))
	return cart
}

func kinds(rows []VoteCount) map[models.VoteKind]int64 {
	out := map[models.VoteKind]int64{}
	for _, row := range rows {
		out[row.Kind] += row.N
	}
	return out
}

func TestCreateCart_ItemsKeepOrder(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	owner := uuid.New()
	cart := seedCart(t, r, owner, "tent", "stove", "lamp")

	got, err := r.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 3)
	assert.Equal(t, "tent", got.Items[0].Name)
	assert.Equal(t, "lamp", got.Items[2].Name)
	assert.True(t, got.Items[1].Price.Equal(decimal.RequireFromString("9.99")))
	require.NotNil(t, got.Owner)
	assert.Equal(t, owner, got.Owner.ID)

	ids, err := r.CartItemIDs(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{cart.Items[0].ID, cart.Items[1].ID, cart.Items[2].ID}, ids)
}

func TestListCartsByOwner_NewestFirst(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	owner := uuid.New()
	first := seedCart(t, r, owner, "a")
	time.Sleep(5 * time.Millisecond)
	second := seedCart(t, r, owner, "b")
	seedCart(t, r, uuid.New(), "c")

	carts, err := r.ListCartsByOwner(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, carts, 2)
	assert.Equal(t, second.ID, carts[0].ID)
	assert.Equal(t, first.ID, carts[1].ID)
}

func TestToggleVote_Sequence(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	cart := seedCart(t, r, uuid.New(), "tent")
	item := models.ItemTarget(cart.Items[0].ID)
	user := uuid.New()

	steps := []struct {
		kind   models.VoteKind
		result models.ToggleResult
		counts map[models.VoteKind]int64
	}{
		{models.KindUp, models.Added, map[models.VoteKind]int64{models.KindUp: 1}},
		{models.KindDown, models.Switched, map[models.VoteKind]int64{models.KindDown: 1}},
		{models.KindDown, models.Removed, map[models.VoteKind]int64{}},
		{models.KindDown, models.Added, map[models.VoteKind]int64{models.KindDown: 1}},
	}

	for i, s := range steps {
		res, vote, err := r.ToggleVote(ctx, user, cart.ID, item, s.kind)
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, s.result, res, "step %d", i)
		if res == models.Removed {
			assert.Nil(t, vote)
		} else {
			require.NotNil(t, vote)
			assert.Equal(t, s.kind, vote.Kind)
		}

		rows, err := r.CountVotes(ctx, item)
		require.NoError(t, err)
		assert.Equal(t, s.counts, kinds(rows), "step %d", i)
	}

	var n int64
	require.NoError(t, r.DB.Model(&models.Vote{}).Where("user_id = ?", user).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestToggleVote_UnknownTarget(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	cart := seedCart(t, r, uuid.New(), "tent")
	other := seedCart(t, r, uuid.New(), "stove")

	_, _, err := r.ToggleVote(ctx, uuid.New(), cart.ID, models.ItemTarget(uuid.New()), models.KindUp)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, _, err = r.ToggleVote(ctx, uuid.New(), cart.ID, models.ItemTarget(other.Items[0].ID), models.KindUp)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, _, err = r.ToggleVote(ctx, uuid.New(), cart.ID, models.CartTarget(other.ID), models.KindYes)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCountCartVotes_And_UserVotes(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	cart := seedCart(t, r, uuid.New(), "tent", "stove")
	alice, bob := uuid.New(), uuid.New()

	_, _, err := r.ToggleVote(ctx, alice, cart.ID, models.CartTarget(cart.ID), models.KindYes)
	require.NoError(t, err)
	_, _, err = r.ToggleVote(ctx, bob, cart.ID, models.CartTarget(cart.ID), models.KindNo)
	require.NoError(t, err)
	_, _, err = r.ToggleVote(ctx, alice, cart.ID, models.ItemTarget(cart.Items[1].ID), models.KindDown)
	require.NoError(t, err)

	rows, err := r.CountCartVotes(ctx, []uuid.UUID{cart.ID})
	require.NoError(t, err)
	var total int64
	for _, row := range rows {
		total += row.N
	}
	assert.EqualValues(t, 3, total)

	mine, err := r.UserVotes(ctx, alice, cart.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestComments_NewestFirstAndCounted(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	cart := seedCart(t, r, uuid.New(), "tent")
	itemID := cart.Items[0].ID
	author := uuid.New()
	require.NoError(t, r.UpsertProfile(ctx, &models.Profile{ID: author, Name: "Ann", Image: "a.png"}))

	for _, body := range []string{"C1", "C2", "C3"} {
		c := &models.Comment{ItemID: itemID, UserID: author, Content: body}
		require.NoError(t, r.AddComment(ctx, cart.ID, c))
		require.NotNil(t, c.Author)
		assert.Equal(t, "Ann", c.Author.Name)
	}

	list, err := r.ListComments(ctx, cart.ID, itemID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"C3", "C2", "C1"}, []string{list[0].Content, list[1].Content, list[2].Content})

	counts, err := r.CountCartComments(ctx, []uuid.UUID{cart.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 3, counts[cart.ID])

	_, err = r.ListComments(ctx, cart.ID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpsertProfile_Updates(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, r.UpsertProfile(ctx, &models.Profile{ID: id, Name: "old"}))
	require.NoError(t, r.UpsertProfile(ctx, &models.Profile{ID: id, Name: "new", Email: "n@example.com"}))

	p, err := r.GetProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "new", p.Name)
	assert.Equal(t, "n@example.com", p.Email)
}
