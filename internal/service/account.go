package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/postboard/postboard-go/internal/model"
	"github.com/postboard/postboard-go/internal/repository"
)

// AccountService lists and deletes accounts.
type AccountService struct {
	store *repository.Store
}

// NewAccountService creates a new AccountService.
func NewAccountService(store *repository.Store) *AccountService {
	return &AccountService{store: store}
}

// List returns every account without password hashes.
func (s *AccountService) List(ctx context.Context) (model.AccountListResponse, error) {
	accounts, err := s.store.Repos().Accounts.List(ctx)
	if err != nil {
		return model.AccountListResponse{}, fmt.Errorf("listing accounts: %w", err)
	}

	resp := model.AccountListResponse{Total: len(accounts), Data: make([]model.AccountResponse, 0, len(accounts))}
	for _, a := range accounts {
		resp.Data = append(resp.Data, toAccountResponse(a))
	}
	return resp, nil
}

// Delete removes the caller's account along with its posts and every like
// touching it, atomically.
func (s *AccountService) Delete(ctx context.Context, publicID string) (model.DeleteAccountResponse, error) {
	res, err := s.store.DeleteAccount(ctx, publicID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.DeleteAccountResponse{}, ErrAccountNotFound
		}
		return model.DeleteAccountResponse{}, fmt.Errorf("deleting account: %w", err)
	}

	return model.DeleteAccountResponse{
		Message:      "account deleted",
		PostsDeleted: res.Posts,
		LikesDeleted: res.Likes,
	}, nil
}
