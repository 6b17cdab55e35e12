package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postboard/postboard-go/internal/model"
)

func TestCreatePostValidation(t *testing.T) {
	env := newTestEnv(t)
	author := env.register(t, "author")

	_, err := env.posts.Create(context.Background(), author.ID, model.PostRequest{Title: " ", Content: ""})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"title must be at least 4 characters long", "content must be at least 4 characters long"}, verr.Violations)

	_, err = env.posts.Create(context.Background(), author.ID, model.PostRequest{Title: strings.Repeat("x", 201), Content: "body"})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"title must be at most 200 characters long"}, verr.Violations)
}

func TestCreateAndGetPost(t *testing.T) {
	env := newTestEnv(t)
	author := env.register(t, "author")

	created := env.post(t, author.ID, "Hello World")
	assert.Equal(t, "hello-world", created.Slug)
	assert.Equal(t, author.ID, created.AuthorID)

	got, err := env.posts.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, int64(0), got.Likes)

	_, err = env.posts.Get(context.Background(), created.ID+100)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestUpdatePostRecomputesSlug(t *testing.T) {
	env := newTestEnv(t)
	author := env.register(t, "author")
	created := env.post(t, author.ID, "Draft")

	updated, err := env.posts.Update(context.Background(), author.ID, created.ID, model.PostRequest{Title: "Final Cut!", Content: "new body"})
	require.NoError(t, err)
	assert.Equal(t, "final-cut", updated.Slug)

	got, err := env.posts.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "final-cut", got.Slug)
	assert.Equal(t, "new body", got.Content)
}

func TestOnlyAuthorMayModifyPost(t *testing.T) {
	env := newTestEnv(t)
	author := env.register(t, "author")
	other := env.register(t, "other")
	created := env.post(t, author.ID, "Mine")

	_, err := env.posts.Update(context.Background(), other.ID, created.ID, model.PostRequest{Title: "Yours", Content: "hijacked"})
	assert.ErrorIs(t, err, ErrNotPostAuthor)
	assert.Equal(t, KindForbidden, KindOf(err))

	err = env.posts.Delete(context.Background(), other.ID, created.ID)
	assert.ErrorIs(t, err, ErrNotPostAuthor)

	err = env.posts.Delete(context.Background(), author.ID, created.ID+1)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestDeletePostRemovesLikes(t *testing.T) {
	env := newTestEnv(t)
	author := env.register(t, "author")
	fan := env.register(t, "fan01")
	created := env.post(t, author.ID, "Ephemeral")
	_, err := env.likes.Like(context.Background(), fan.ID, created.ID)
	require.NoError(t, err)

	require.NoError(t, env.posts.Delete(context.Background(), author.ID, created.ID))

	_, err = env.posts.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	n, err := env.store.Repos().Likes.CountByPost(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListPostsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	author := env.register(t, "author")
	first := env.post(t, author.ID, "First")
	second := env.post(t, author.ID, "Second")

	list, err := env.posts.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, second.ID, list.Data[0].ID)
	assert.Equal(t, first.ID, list.Data[1].ID)
}
