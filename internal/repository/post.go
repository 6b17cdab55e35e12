package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/postboard/postboard-go/internal/model"
)

// PostRepository handles post persistence operations.
type PostRepository struct {
	db DBTX
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(db DBTX) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a post and sets its generated ID. The author must exist.
func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	query := `INSERT INTO posts (title, content, slug, author_id, created_at) VALUES (?, ?, ?, ?, ?)`

	post.CreatedAt = dbTime(post.CreatedAt)
	result, err := r.db.ExecContext(ctx, query, post.Title, post.Content, post.Slug, post.AuthorID, post.CreatedAt)
	if err != nil {
		if isForeignKeyError(err) {
			return ErrMissingReference
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	post.ID = id
	return nil
}

// GetByID retrieves a post together with its like count.
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	query := `SELECT p.id, p.title, p.content, p.slug, p.author_id, p.created_at,
		(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id)
		FROM posts p WHERE p.id = ?`

	var post model.Post
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.Title, &post.Content, &post.Slug, &post.AuthorID, &post.CreatedAt, &post.Likes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	post.CreatedAt = post.CreatedAt.UTC()
	return &post, nil
}

// List returns every post, newest first. Content and like counts are not
// loaded.
func (r *PostRepository) List(ctx context.Context) ([]model.Post, error) {
	query := `SELECT id, title, slug, author_id, created_at FROM posts ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var post model.Post
		if err := rows.Scan(&post.ID, &post.Title, &post.Slug, &post.AuthorID, &post.CreatedAt); err != nil {
			return nil, err
		}
		post.CreatedAt = post.CreatedAt.UTC()
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// Update writes title, slug and content. The caller keeps slug in step with
// title via model.Post.SetTitle.
func (r *PostRepository) Update(ctx context.Context, post *model.Post) error {
	query := `UPDATE posts SET title = ?, slug = ?, content = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, post.Title, post.Slug, post.Content, post.ID)
	return err
}

// Delete removes the post row only; its likes must already be gone.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyError(err) {
			return ErrStillReferenced
		}
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

// DeleteByAuthor removes every post written by authorID.
func (r *PostRepository) DeleteByAuthor(ctx context.Context, authorID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE author_id = ?`, authorID)
	if err != nil {
		if isForeignKeyError(err) {
			return 0, ErrStillReferenced
		}
		return 0, err
	}
	return rowsAffected(result)
}
