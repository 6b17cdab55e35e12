package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postboard/postboard-go/internal/crypto"
	"github.com/postboard/postboard-go/internal/model"
	"github.com/postboard/postboard-go/internal/repository"
	"github.com/postboard/postboard-go/internal/service"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv, _ := newTestServerWithStore(t)
	return srv
}

func newTestServerWithStore(t *testing.T) (*httptest.Server, *repository.Store) {
	t.Helper()
	store, err := repository.Open(context.Background(), repository.DialectSQLite, repository.MemoryDSN(t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	hasher := crypto.NewHasher(crypto.HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	tokens := crypto.NewTokenIssuer("test-secret", 15*time.Minute, time.Hour)

	srv := httptest.NewServer(NewRouter(Services{
		Auth:      service.NewAuthService(store, hasher, tokens),
		Accounts:  service.NewAccountService(store),
		Posts:     service.NewPostService(store),
		Likes:     service.NewLikeService(store),
		Analytics: service.NewAnalyticsService(store),
	}, RouterConfig{}))
	t.Cleanup(srv.Close)
	return srv, store
}

func call(t *testing.T, srv *httptest.Server, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+"/api/v1"+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func registerAndLogin(t *testing.T, srv *httptest.Server, name string) (string, string) {
	t.Helper()
	code, acct := call(t, srv, http.MethodPost, "/auth/register", "", model.RegisterRequest{
		DisplayName: name, Email: name + "@example.com", Password: "password-" + name,
	})
	require.Equal(t, http.StatusCreated, code, "register: %v", acct)

	code, tokens := call(t, srv, http.MethodPost, "/auth/login", "", model.LoginRequest{
		Email: name + "@example.com", Password: "password-" + name,
	})
	require.Equal(t, http.StatusOK, code, "login: %v", tokens)
	return acct["id"].(string), tokens["access_token"].(string)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStorageFailureIsNotAnAuthError(t *testing.T) {
	srv, store := newTestServerWithStore(t)
	_, token := registerAndLogin(t, srv, "alice")

	require.NoError(t, store.Close())

	code, body := call(t, srv, http.MethodGet, "/post", token, nil)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal server error", body["error"])
}

func TestRegisterValidationResponse(t *testing.T) {
	srv := newTestServer(t)

	code, body := call(t, srv, http.MethodPost, "/auth/register", "", model.RegisterRequest{DisplayName: "ab", Email: "nope", Password: "123"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "validation failed", body["error"])
	assert.Equal(t, []any{
		"display name must be at least 4 characters long",
		"invalid email format",
		"password must be at least 8 characters long",
	}, body["details"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	srv := newTestServer(t)
	registerAndLogin(t, srv, "alice")

	code, body := call(t, srv, http.MethodPost, "/auth/register", "", model.RegisterRequest{
		DisplayName: "alice2", Email: "ALICE@example.com", Password: "password123",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "email already registered", body["error"])
}

func TestLoginErrors(t *testing.T) {
	srv := newTestServer(t)
	_, token := registerAndLogin(t, srv, "alice")

	code, body := call(t, srv, http.MethodPost, "/auth/login", "", model.LoginRequest{Email: "alice@example.com", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid credentials", body["error"])

	code, body = call(t, srv, http.MethodPost, "/auth/login", token, model.LoginRequest{Email: "alice@example.com", Password: "password-alice"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "already logged in", body["error"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	code, _ := call(t, srv, http.MethodGet, "/post", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := call(t, srv, http.MethodGet, "/post", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "expired or invalid", body["error"])
}

func TestPostLikeLifecycle(t *testing.T) {
	srv := newTestServer(t)
	authorID, author := registerAndLogin(t, srv, "author")
	_, fan := registerAndLogin(t, srv, "fan01")

	code, post := call(t, srv, http.MethodPost, "/post", author, model.PostRequest{Title: "Hello World", Content: "first post"})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "hello-world", post["slug"])
	assert.Equal(t, authorID, post["author_id"])
	postPath := fmt.Sprintf("/post/%d", int64(post["id"].(float64)))

	code, _ = call(t, srv, http.MethodPost, postPath+"/like", fan, nil)
	assert.Equal(t, http.StatusOK, code)

	code, body := call(t, srv, http.MethodPost, postPath+"/like", fan, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "duplicate like", body["error"])

	code, _ = call(t, srv, http.MethodDelete, postPath+"/like", fan, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = call(t, srv, http.MethodDelete, postPath+"/like", author, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, got := call(t, srv, http.MethodGet, postPath, fan, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), got["likes"])

	code, _ = call(t, srv, http.MethodPut, postPath, fan, model.PostRequest{Title: "Stolen", Content: "not mine"})
	assert.Equal(t, http.StatusForbidden, code)

	code, updated := call(t, srv, http.MethodPut, postPath, author, model.PostRequest{Title: "Goodbye World", Content: "edited"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "goodbye-world", updated["slug"])

	today := time.Now().UTC().Format("2006-01-02")
	code, stats := call(t, srv, http.MethodGet, "/analytics/analytic?date_from="+today+"&date_to="+today, fan, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Likes Statistics", stats["title"])
	assert.Equal(t, float64(1), stats["total_likes"])

	code, _ = call(t, srv, http.MethodDelete, postPath, author, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = call(t, srv, http.MethodGet, postPath, author, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestInvalidPostID(t *testing.T) {
	srv := newTestServer(t)
	_, token := registerAndLogin(t, srv, "alice")

	code, body := call(t, srv, http.MethodGet, "/post/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid post id", body["error"])
}

func TestLikeStatsValidation(t *testing.T) {
	srv := newTestServer(t)
	_, token := registerAndLogin(t, srv, "alice")

	code, body := call(t, srv, http.MethodGet, "/analytics/analytic?date_from=yesterday", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Len(t, body["details"], 2)
}

func TestAccountActivityAndDeletion(t *testing.T) {
	srv := newTestServer(t)
	aliceID, alice := registerAndLogin(t, srv, "alice")
	_, bob := registerAndLogin(t, srv, "bobby")

	code, activity := call(t, srv, http.MethodGet, "/analytics/user/"+aliceID, bob, nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotNil(t, activity["last_login"])
	assert.Nil(t, activity["last_api_activity"])

	code, post := call(t, srv, http.MethodPost, "/post", alice, model.PostRequest{Title: "Alice post", Content: "hello there"})
	require.Equal(t, http.StatusCreated, code)

	code, activity = call(t, srv, http.MethodGet, "/analytics/user/"+aliceID, bob, nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotNil(t, activity["last_api_activity"])
	code, _ = call(t, srv, http.MethodPost, fmt.Sprintf("/post/%d/like", int64(post["id"].(float64))), bob, nil)
	require.Equal(t, http.StatusOK, code)

	code, deleted := call(t, srv, http.MethodDelete, "/user/me", alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), deleted["posts_deleted"])
	assert.Equal(t, float64(1), deleted["likes_deleted"])

	code, _ = call(t, srv, http.MethodGet, "/analytics/user/"+aliceID, bob, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = call(t, srv, http.MethodGet, "/auth/me", alice, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, list := call(t, srv, http.MethodGet, "/user", bob, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), list["total"])
}

func TestRequestBodyTooLarge(t *testing.T) {
	srv := newTestServer(t)

	payload := `{"email":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	resp, err := srv.Client().Post(srv.URL+"/api/v1/auth/login", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}
