package model

import "time"

// Account represents an account row in the database. Other tables reference
// accounts by PublicID, never by the numeric primary key.
type Account struct {
	ID              int64
	PublicID        string
	DisplayName     string
	Email           string
	PasswordHash    string
	CreatedAt       time.Time
	LastLogin       *time.Time
	LastAPIActivity *time.Time
}

// RegisterRequest represents an account registration request.
type RegisterRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest exchanges a refresh token for a new access token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse carries the tokens issued by login or refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// AccountResponse represents account data safe for API responses (no password hash).
type AccountResponse struct {
	ID              string     `json:"id"`
	DisplayName     string     `json:"display_name"`
	Email           string     `json:"email"`
	CreatedAt       time.Time  `json:"created_at"`
	LastLogin       *time.Time `json:"last_login"`
	LastAPIActivity *time.Time `json:"last_api_activity"`
}

// AccountListResponse lists every account.
type AccountListResponse struct {
	Total int               `json:"total"`
	Data  []AccountResponse `json:"data"`
}

// DeleteAccountResponse reports what an account deletion removed.
type DeleteAccountResponse struct {
	Message      string `json:"message"`
	PostsDeleted int64  `json:"posts_deleted"`
	LikesDeleted int64  `json:"likes_deleted"`
}

// MessageResponse is a plain acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}
