package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/postboard/postboard-go/internal/model"
	"github.com/postboard/postboard-go/internal/repository"
)

const (
	minTitleLength   = 4
	maxTitleLength   = 200
	minContentLength = 4
)

// PostService handles post business logic.
type PostService struct {
	store *repository.Store
	now   func() time.Time
}

// NewPostService creates a new PostService.
func NewPostService(store *repository.Store) *PostService {
	return &PostService{store: store, now: time.Now}
}

func validatePost(req model.PostRequest) error {
	title := utf8.RuneCountInString(strings.TrimSpace(req.Title))
	content := utf8.RuneCountInString(strings.TrimSpace(req.Content))

	var v rules
	v.check(title >= minTitleLength, fmt.Sprintf("title must be at least %d characters long", minTitleLength))
	v.check(title <= maxTitleLength, fmt.Sprintf("title must be at most %d characters long", maxTitleLength))
	v.check(content >= minContentLength, fmt.Sprintf("content must be at least %d characters long", minContentLength))
	return v.err()
}

// Create publishes a post authored by authorID.
func (s *PostService) Create(ctx context.Context, authorID string, req model.PostRequest) (model.PostResponse, error) {
	if err := validatePost(req); err != nil {
		return model.PostResponse{}, err
	}

	post := model.NewPost(req.Title, req.Content, authorID, s.now())
	err := s.store.InTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		return r.Posts.Create(ctx, post)
	})
	if err != nil {
		if errors.Is(err, repository.ErrMissingReference) {
			return model.PostResponse{}, ErrAccountNotFound
		}
		return model.PostResponse{}, fmt.Errorf("creating post: %w", err)
	}
	return toPostResponse(*post), nil
}

// Get returns a post with its current like count.
func (s *PostService) Get(ctx context.Context, id int64) (model.PostResponse, error) {
	post, err := s.store.Repos().Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.PostResponse{}, ErrPostNotFound
		}
		return model.PostResponse{}, err
	}
	return toPostResponse(*post), nil
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context) (model.PostListResponse, error) {
	posts, err := s.store.Repos().Posts.List(ctx)
	if err != nil {
		return model.PostListResponse{}, fmt.Errorf("listing posts: %w", err)
	}

	resp := model.PostListResponse{Total: len(posts), Data: make([]model.PostSummary, 0, len(posts))}
	for _, p := range posts {
		resp.Data = append(resp.Data, model.PostSummary{
			ID:        p.ID,
			Title:     p.Title,
			Slug:      p.Slug,
			AuthorID:  p.AuthorID,
			CreatedAt: p.CreatedAt,
		})
	}
	return resp, nil
}

// Update replaces title and content of a post the caller wrote. The slug
// follows the new title.
func (s *PostService) Update(ctx context.Context, callerID string, id int64, req model.PostRequest) (model.PostResponse, error) {
	if err := validatePost(req); err != nil {
		return model.PostResponse{}, err
	}

	var updated model.Post
	err := s.store.InTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		post, err := ownedPost(ctx, r, callerID, id)
		if err != nil {
			return err
		}
		post.SetTitle(req.Title)
		post.Content = req.Content
		if err := r.Posts.Update(ctx, post); err != nil {
			return err
		}
		updated = *post
		return nil
	})
	if err != nil {
		return model.PostResponse{}, err
	}
	return toPostResponse(updated), nil
}

// Delete removes a post the caller wrote, together with its likes.
func (s *PostService) Delete(ctx context.Context, callerID string, id int64) error {
	return s.store.InTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		if _, err := ownedPost(ctx, r, callerID, id); err != nil {
			return err
		}
		_, err := r.DeletePost(ctx, id)
		return err
	})
}

func ownedPost(ctx context.Context, r repository.Repositories, callerID string, id int64) (*model.Post, error) {
	post, err := r.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if post.AuthorID != callerID {
		return nil, ErrNotPostAuthor
	}
	return post, nil
}

func toPostResponse(p model.Post) model.PostResponse {
	return model.PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Slug:      p.Slug,
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt,
		Likes:     p.Likes,
	}
}
