package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/postboard/postboard-go/internal/crypto"
	"github.com/postboard/postboard-go/internal/model"
	"github.com/postboard/postboard-go/internal/repository"
)

const (
	minDisplayNameLength = 4
	minPasswordLength    = 8
)

// AuthService handles registration, login and token verification.
type AuthService struct {
	store  *repository.Store
	hasher crypto.Hasher
	tokens *crypto.TokenIssuer
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService.
func NewAuthService(store *repository.Store, hasher crypto.Hasher, tokens *crypto.TokenIssuer) *AuthService {
	return &AuthService{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		now:    time.Now,
	}
}

// Register validates the request, hashes the password and creates the
// account. All validation failures are reported together.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AccountResponse, error) {
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	req.Email = normalizeEmail(req.Email)

	if err := validateRegistration(req); err != nil {
		return model.AccountResponse{}, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.AccountResponse{}, fmt.Errorf("hashing password: %w", err)
	}

	account := &model.Account{
		PublicID:     uuid.NewString(),
		DisplayName:  req.DisplayName,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}

	err = s.store.InTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		return r.Accounts.Create(ctx, account)
	})
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return model.AccountResponse{}, ErrEmailTaken
	case errors.Is(err, repository.ErrDuplicateDisplayName):
		return model.AccountResponse{}, ErrDisplayNameTaken
	case err != nil:
		return model.AccountResponse{}, fmt.Errorf("creating account: %w", err)
	}

	return toAccountResponse(*account), nil
}

func validateRegistration(req model.RegisterRequest) error {
	var v rules
	v.check(utf8.RuneCountInString(req.DisplayName) >= minDisplayNameLength,
		fmt.Sprintf("display name must be at least %d characters long", minDisplayNameLength))
	v.check(validEmail(req.Email), "invalid email format")
	v.check(utf8.RuneCountInString(req.Password) >= minPasswordLength,
		fmt.Sprintf("password must be at least %d characters long", minPasswordLength))
	return v.err()
}

// validEmail accepts a bare address such as a@b.co and rejects display-name
// forms like "Alice <a@b.co>".
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndexByte(email, '@')
	return at > 0 && strings.Contains(email[at+1:], ".")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login verifies credentials and issues a token pair. A request that already
// carries a valid access token is refused. Unknown emails and wrong passwords
// produce the same error and cost the same hashing work.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest, presentedToken string) (model.TokenResponse, error) {
	if presentedToken != "" {
		if _, err := s.tokens.Validate(presentedToken, crypto.AccessToken); err == nil {
			return model.TokenResponse{}, ErrAlreadyLoggedIn
		}
	}

	accounts := s.store.Repos().Accounts
	account, err := accounts.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_, _ = s.hasher.Verify(req.Password, s.dummy())
			return model.TokenResponse{}, ErrInvalidCredentials
		}
		return model.TokenResponse{}, fmt.Errorf("loading account: %w", err)
	}

	match, err := s.hasher.Verify(req.Password, account.PasswordHash)
	if err != nil {
		return model.TokenResponse{}, fmt.Errorf("verifying password: %w", err)
	}
	if !match {
		return model.TokenResponse{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(account.PublicID)
	if err != nil {
		return model.TokenResponse{}, err
	}

	if err := accounts.TouchLastLogin(ctx, account.PublicID, s.now()); err != nil {
		return model.TokenResponse{}, fmt.Errorf("recording login: %w", err)
	}

	return model.TokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// dummy returns a real hash of a throwaway password, computed once, so that
// failed lookups still run a full verification.
func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(uuid.NewString())
	})
	return s.dummyHash
}

// Authenticate resolves an access token to its account and records the
// request as API activity.
func (s *AuthService) Authenticate(ctx context.Context, token string) (model.Account, error) {
	claims, err := s.tokens.Validate(token, crypto.AccessToken)
	if err != nil {
		return model.Account{}, ErrInvalidToken
	}

	accounts := s.store.Repos().Accounts
	if err := accounts.TouchLastAPIActivity(ctx, claims.Subject, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Account{}, ErrInvalidToken
		}
		return model.Account{}, fmt.Errorf("recording activity: %w", err)
	}

	account, err := accounts.GetByPublicID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Account{}, ErrInvalidToken
		}
		return model.Account{}, fmt.Errorf("loading account: %w", err)
	}
	return *account, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, req model.RefreshRequest) (model.TokenResponse, error) {
	claims, err := s.tokens.Validate(req.RefreshToken, crypto.RefreshToken)
	if err != nil {
		return model.TokenResponse{}, ErrInvalidToken
	}

	if _, err := s.store.Repos().Accounts.GetByPublicID(ctx, claims.Subject); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.TokenResponse{}, ErrInvalidToken
		}
		return model.TokenResponse{}, fmt.Errorf("loading account: %w", err)
	}

	access, err := s.tokens.Issue(claims.Subject, crypto.AccessToken)
	if err != nil {
		return model.TokenResponse{}, err
	}
	return model.TokenResponse{AccessToken: access}, nil
}

// Me returns the caller's own account.
func (s *AuthService) Me(ctx context.Context, publicID string) (model.AccountResponse, error) {
	account, err := s.store.Repos().Accounts.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.AccountResponse{}, ErrAccountNotFound
		}
		return model.AccountResponse{}, err
	}
	return toAccountResponse(*account), nil
}

func toAccountResponse(a model.Account) model.AccountResponse {
	return model.AccountResponse{
		ID:              a.PublicID,
		DisplayName:     a.DisplayName,
		Email:           a.Email,
		CreatedAt:       a.CreatedAt,
		LastLogin:       a.LastLogin,
		LastAPIActivity: a.LastAPIActivity,
	}
}
