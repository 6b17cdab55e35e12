package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAccountsOmitsSecrets(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")
	env.register(t, "bobby")

	list, err := env.accounts.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "alice", list.Data[0].DisplayName)
	assert.Equal(t, "bobby", list.Data[1].DisplayName)
}

func TestDeleteAccountCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bobby := env.register(t, "bobby")

	p1 := env.post(t, alice.ID, "Post one")
	p2 := env.post(t, alice.ID, "Post two")
	bp := env.post(t, bobby.ID, "Bobby's")
	for _, id := range []int64{p1.ID, p2.ID} {
		_, err := env.likes.Like(ctx, bobby.ID, id)
		require.NoError(t, err)
	}
	_, err := env.likes.Like(ctx, alice.ID, bp.ID)
	require.NoError(t, err)

	resp, err := env.accounts.Delete(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.PostsDeleted)
	assert.Equal(t, int64(3), resp.LikesDeleted)

	_, err = env.auth.Me(ctx, alice.ID)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	got, err := env.posts.Get(ctx, bp.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Likes)

	_, err = env.accounts.Delete(ctx, alice.ID)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
