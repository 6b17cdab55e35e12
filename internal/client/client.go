// Package client is a Go client for the postboard API. A Session attaches
// the caller's access token to every request and, when the server answers
// 401 or 500, logs in again once with the stored credentials and replays
// the request.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/postboard/postboard-go/internal/model"
)

const loginPath = "auth/login"

// Client holds the transport shared by every Session.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the API rooted at baseURL, for example
// "http://localhost:8080/api/v1".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Response is a fully buffered HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// ErrorMessage returns the "error" field of a JSON error body, if any.
func (r *Response) ErrorMessage() string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(r.Body, &body); err != nil {
		return ""
	}
	return body.Error
}

// Register creates an account. It never carries a bearer token.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*Response, error) {
	body, err := encode(req)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, http.MethodPost, "auth/register", body, "")
}

func (c *Client) url(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// send performs one request and buffers the response. Transport failures
// are returned as errors; any HTTP status is a successful send.
func (c *Client) send(ctx context.Context, method, path string, body []byte, token string) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func encode(payload any) ([]byte, error) {
	if payload == nil {
		return nil, nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}
	return body, nil
}

// Credentials are the email and password a Session logs in with.
type Credentials struct {
	Email    string
	Password string
}

// Session is one caller's authenticated view of the API. It is safe for
// concurrent use.
type Session struct {
	client *Client
	creds  Credentials

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

// Session returns a session that will log in with creds on demand.
func (c *Client) Session(creds Credentials) *Session {
	return &Session{client: c, creds: creds}
}

// AccessToken returns the current access token, or "" before any login.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// SetAccessToken replaces the current access token.
func (s *Session) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

// Authenticated reports whether the session holds an access token.
func (s *Session) Authenticated() bool {
	return s.AccessToken() != ""
}

var ErrLoginFailed = errors.New("login failed")

// Login authenticates with the stored credentials and keeps the issued
// tokens. The request never carries the current bearer token.
func (s *Session) Login(ctx context.Context) error {
	body, err := encode(model.LoginRequest{Email: s.creds.Email, Password: s.creds.Password})
	if err != nil {
		return err
	}

	resp, err := s.client.send(ctx, http.MethodPost, loginPath, body, "")
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", ErrLoginFailed, resp.StatusCode, resp.ErrorMessage())
	}

	var tokens model.TokenResponse
	if err := resp.Decode(&tokens); err != nil || tokens.AccessToken == "" {
		return fmt.Errorf("%w: malformed token response", ErrLoginFailed)
	}

	s.mu.Lock()
	s.accessToken = tokens.AccessToken
	s.refreshToken = tokens.RefreshToken
	s.mu.Unlock()
	return nil
}

// Refresh exchanges the stored refresh token for a new access token.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	refresh := s.refreshToken
	s.mu.Unlock()
	if refresh == "" {
		return fmt.Errorf("%w: no refresh token", ErrLoginFailed)
	}

	body, err := encode(model.RefreshRequest{RefreshToken: refresh})
	if err != nil {
		return err
	}
	resp, err := s.client.send(ctx, http.MethodPost, "auth/refresh", body, "")
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", ErrLoginFailed, resp.StatusCode, resp.ErrorMessage())
	}

	var tokens model.TokenResponse
	if err := resp.Decode(&tokens); err != nil || tokens.AccessToken == "" {
		return fmt.Errorf("%w: malformed token response", ErrLoginFailed)
	}
	s.SetAccessToken(tokens.AccessToken)
	return nil
}

// Get sends a GET request.
func (s *Session) Get(ctx context.Context, path string) (*Response, error) {
	return s.Do(ctx, http.MethodGet, path, nil)
}

// Post sends a POST request with payload encoded as JSON.
func (s *Session) Post(ctx context.Context, path string, payload any) (*Response, error) {
	return s.Do(ctx, http.MethodPost, path, payload)
}

// Put sends a PUT request with payload encoded as JSON.
func (s *Session) Put(ctx context.Context, path string, payload any) (*Response, error) {
	return s.Do(ctx, http.MethodPut, path, payload)
}

// Delete sends a DELETE request.
func (s *Session) Delete(ctx context.Context, path string) (*Response, error) {
	return s.Do(ctx, http.MethodDelete, path, nil)
}

// Do sends a request with the current access token. On a 401 or 500 it logs
// in again exactly once; if that succeeds the request is replayed once and
// the replay's response is returned whatever its status. If the login fails
// the original response is returned with a nil error. A transport failure
// returns a nil response and the error, without retrying.
func (s *Session) Do(ctx context.Context, method, path string, payload any) (*Response, error) {
	body, err := encode(payload)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.send(ctx, method, path, body, s.AccessToken())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusInternalServerError {
		return resp, nil
	}

	if err := s.Login(ctx); err != nil {
		slog.DebugContext(ctx, "re-login failed", "method", method, "path", path, "error", err)
		return resp, nil
	}

	return s.client.send(ctx, method, path, body, s.AccessToken())
}
