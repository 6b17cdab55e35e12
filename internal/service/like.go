package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/postboard/postboard-go/internal/model"
	"github.com/postboard/postboard-go/internal/repository"
)

// LikeService records and withdraws likes.
type LikeService struct {
	store *repository.Store
	now   func() time.Time
}

// NewLikeService creates a new LikeService.
func NewLikeService(store *repository.Store) *LikeService {
	return &LikeService{store: store, now: time.Now}
}

// Like records that accountID likes postID. Uniqueness is left to the
// storage layer: the insert either succeeds or fails as a duplicate, so two
// racing requests cannot both create a like.
func (s *LikeService) Like(ctx context.Context, accountID string, postID int64) (model.MessageResponse, error) {
	err := s.store.InTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		if _, err := r.Posts.GetByID(ctx, postID); err != nil {
			return err
		}
		return r.Likes.Create(ctx, &model.Like{AccountID: accountID, PostID: postID, CreatedAt: s.now()})
	})
	switch {
	case errors.Is(err, repository.ErrDuplicateLike):
		return model.MessageResponse{}, ErrDuplicateLike
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrMissingReference):
		return model.MessageResponse{}, ErrPostNotFound
	case err != nil:
		return model.MessageResponse{}, fmt.Errorf("liking post: %w", err)
	}

	return model.MessageResponse{Message: fmt.Sprintf("post %d liked", postID)}, nil
}

// Unlike withdraws a like. Only the post's author may withdraw likes from
// their own post, and only their own like.
func (s *LikeService) Unlike(ctx context.Context, accountID string, postID int64) (model.MessageResponse, error) {
	err := s.store.InTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		post, err := r.Posts.GetByID(ctx, postID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrPostNotFound
			}
			return err
		}
		if post.AuthorID != accountID {
			return ErrNotPostAuthor
		}
		if err := r.Likes.Delete(ctx, accountID, postID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrLikeNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return model.MessageResponse{}, err
	}

	return model.MessageResponse{Message: fmt.Sprintf("post %d unliked", postID)}, nil
}
