package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/spark_cart/internal/models"
)

func TestCommentService_AppendAndListNewestFirst(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	ctx := context.Background()
	cart := env.seedCart(t, uuid.New(), "tent")
	itemID := cart.Items[0].ID
	user := uuid.New()
	require.NoError(t, env.Profiles.Sync(ctx, models.Profile{ID: user, Name: "Ann", Image: "ann.png"}))

	for _, body := range []string{"C1", " C2 ", "C3"} {
		c, err := env.Comments.AddComment(ctx, user, cart.ID, itemID, body)
		require.NoError(t, err)
		assert.Equal(t, strings.TrimSpace(body), c.Content)
		require.NotNil(t, c.Author)
		assert.Equal(t, "Ann", c.Author.Name)
	}

	list, err := env.Comments.ListComments(ctx, cart.ID, itemID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "C3", list[0].Content)
	assert.Equal(t, "C2", list[1].Content)
	assert.Equal(t, "C1", list[2].Content)
	assert.Equal(t, "ann.png", list[0].Author.Image)
}

func TestCommentService_Rejects(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	ctx := context.Background()
	cart := env.seedCart(t, uuid.New(), "tent")
	itemID := cart.Items[0].ID

	_, err := env.Comments.AddComment(ctx, uuid.Nil, cart.ID, itemID, "hi")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.Comments.AddComment(ctx, uuid.New(), cart.ID, itemID, "   \n\t")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.Comments.AddComment(ctx, uuid.New(), cart.ID, itemID, strings.Repeat("x", maxCommentLength+1))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.Comments.AddComment(ctx, uuid.New(), cart.ID, uuid.New(), "hi")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := env.Comments.ListComments(ctx, cart.ID, itemID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProfileService_Sync(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	ctx := context.Background()

	assert.ErrorIs(t, env.Profiles.Sync(ctx, models.Profile{}), ErrUnauthorized)

	id := uuid.New()
	require.NoError(t, env.Profiles.Sync(ctx, models.Profile{ID: id, Name: "Ann"}))
	require.NoError(t, env.Profiles.Sync(ctx, models.Profile{ID: id, Name: "Ann B", Email: "ann@example.com"}))

	p, err := env.Repo.GetProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ann B", p.Name)
}
