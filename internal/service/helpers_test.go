package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/postboard/postboard-go/internal/crypto"
	"github.com/postboard/postboard-go/internal/model"
	"github.com/postboard/postboard-go/internal/repository"
)

type testEnv struct {
	store     *repository.Store
	tokens    *crypto.TokenIssuer
	auth      *AuthService
	accounts  *AccountService
	posts     *PostService
	likes     *LikeService
	analytics *AnalyticsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := repository.Open(context.Background(), repository.DialectSQLite, repository.MemoryDSN(t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	hasher := crypto.NewHasher(crypto.HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	tokens := crypto.NewTokenIssuer("test-secret", 15*time.Minute, time.Hour)

	return &testEnv{
		store:     store,
		tokens:    tokens,
		auth:      NewAuthService(store, hasher, tokens),
		accounts:  NewAccountService(store),
		posts:     NewPostService(store),
		likes:     NewLikeService(store),
		analytics: NewAnalyticsService(store),
	}
}

func (e *testEnv) register(t *testing.T, name string) model.AccountResponse {
	t.Helper()
	acct, err := e.auth.Register(context.Background(), model.RegisterRequest{
		DisplayName: name,
		Email:       name + "@example.com",
		Password:    "password-" + name,
	})
	require.NoError(t, err)
	return acct
}

func (e *testEnv) post(t *testing.T, authorID, title string) model.PostResponse {
	t.Helper()
	p, err := e.posts.Create(context.Background(), authorID, model.PostRequest{Title: title, Content: "about " + title})
	require.NoError(t, err)
	return p
}
