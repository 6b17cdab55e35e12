package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/postboard/postboard-go/internal/model"
)

// LikeRepository handles like persistence operations.
type LikeRepository struct {
	db DBTX
}

// NewLikeRepository creates a new LikeRepository.
func NewLikeRepository(db DBTX) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create inserts a like. A second like for the same account and post is
// rejected by the unique index and reported as ErrDuplicateLike; there is no
// read-before-write check, so concurrent attempts cannot both succeed.
func (r *LikeRepository) Create(ctx context.Context, like *model.Like) error {
	query := `INSERT INTO likes (account_id, post_id, created_at) VALUES (?, ?, ?)`

	like.CreatedAt = dbTime(like.CreatedAt)
	result, err := r.db.ExecContext(ctx, query, like.AccountID, like.PostID, like.CreatedAt)
	if err != nil {
		switch {
		case isDuplicateEntryError(err):
			return ErrDuplicateLike
		case isForeignKeyError(err):
			return ErrMissingReference
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	like.ID = id
	return nil
}

// Get retrieves the like accountID gave postID.
func (r *LikeRepository) Get(ctx context.Context, accountID string, postID int64) (*model.Like, error) {
	query := `SELECT id, account_id, post_id, created_at FROM likes WHERE account_id = ? AND post_id = ?`

	var like model.Like
	err := r.db.QueryRowContext(ctx, query, accountID, postID).Scan(&like.ID, &like.AccountID, &like.PostID, &like.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	like.CreatedAt = like.CreatedAt.UTC()
	return &like, nil
}

// Delete removes the like accountID gave postID.
func (r *LikeRepository) Delete(ctx context.Context, accountID string, postID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE account_id = ? AND post_id = ?`, accountID, postID)
	if err != nil {
		return err
	}
	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByPost returns the number of likes on a post.
func (r *LikeRepository) CountByPost(ctx context.Context, postID int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM likes WHERE post_id = ?`, postID).Scan(&n)
	return n, err
}

// DeleteByPost removes every like on a post.
func (r *LikeRepository) DeleteByPost(ctx context.Context, postID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE post_id = ?`, postID)
	if err != nil {
		return 0, err
	}
	return rowsAffected(result)
}

// DeleteByAccount removes every like accountID gave.
func (r *LikeRepository) DeleteByAccount(ctx context.Context, accountID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE account_id = ?`, accountID)
	if err != nil {
		return 0, err
	}
	return rowsAffected(result)
}

// DeleteOnPostsBy removes every like on posts written by authorID.
func (r *LikeRepository) DeleteOnPostsBy(ctx context.Context, authorID string) (int64, error) {
	query := `DELETE FROM likes WHERE post_id IN (SELECT id FROM posts WHERE author_id = ?)`
	result, err := r.db.ExecContext(ctx, query, authorID)
	if err != nil {
		return 0, err
	}
	return rowsAffected(result)
}
