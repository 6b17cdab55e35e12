package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Store owns the connection pool and hands out repositories bound either to
// the pool or to a single transaction.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// NewStore wraps an already-open, already-migrated database.
func NewStore(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// Dialect reports the backend in use.
func (s *Store) Dialect() Dialect { return s.dialect }

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// Repositories groups the repositories bound to one DBTX.
type Repositories struct {
	Accounts  *AccountRepository
	Posts     *PostRepository
	Likes     *LikeRepository
	Analytics *AnalyticsRepository
}

func (s *Store) bind(q DBTX) Repositories {
	return Repositories{
		Accounts:  NewAccountRepository(q),
		Posts:     NewPostRepository(q),
		Likes:     NewLikeRepository(q),
		Analytics: NewAnalyticsRepository(q, s.dialect),
	}
}

// Repos returns repositories that run each statement on its own.
func (s *Store) Repos() Repositories {
	return s.bind(s.db)
}

// InTx runs fn with repositories bound to a single transaction. Nothing fn
// writes is visible to others unless fn returns nil.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	return WithTx(ctx, s.db, nil, func(ctx context.Context, tx DBTX) error {
		return fn(ctx, s.bind(tx))
	})
}

// CascadeResult reports the rows removed by a cascading delete.
type CascadeResult struct {
	Posts int64
	Likes int64
}

// DeleteAccount removes an account together with its posts, the likes on
// those posts and the likes it gave, in that order. The foreign keys have no
// ON DELETE actions, so r must be bound to a transaction (see Store.InTx) for
// the sequence to be atomic.
func (r Repositories) DeleteAccount(ctx context.Context, publicID string) (CascadeResult, error) {
	var res CascadeResult

	n, err := r.Likes.DeleteOnPostsBy(ctx, publicID)
	if err != nil {
		return CascadeResult{}, fmt.Errorf("deleting likes on posts: %w", err)
	}
	res.Likes += n

	n, err = r.Likes.DeleteByAccount(ctx, publicID)
	if err != nil {
		return CascadeResult{}, fmt.Errorf("deleting likes given: %w", err)
	}
	res.Likes += n

	n, err = r.Posts.DeleteByAuthor(ctx, publicID)
	if err != nil {
		return CascadeResult{}, fmt.Errorf("deleting posts: %w", err)
	}
	res.Posts = n

	if err := r.Accounts.Delete(ctx, publicID); err != nil {
		return CascadeResult{}, err
	}
	return res, nil
}

// DeletePost removes a post and its likes, returning how many likes went
// with it. Like DeleteAccount it expects a transaction-bound r.
func (r Repositories) DeletePost(ctx context.Context, postID int64) (int64, error) {
	likes, err := r.Likes.DeleteByPost(ctx, postID)
	if err != nil {
		return 0, fmt.Errorf("deleting likes: %w", err)
	}
	if err := r.Posts.Delete(ctx, postID); err != nil {
		return 0, err
	}
	return likes, nil
}

// DeleteAccount runs the account cascade in its own transaction.
func (s *Store) DeleteAccount(ctx context.Context, publicID string) (CascadeResult, error) {
	var res CascadeResult
	err := s.InTx(ctx, func(ctx context.Context, r Repositories) error {
		var err error
		res, err = r.DeleteAccount(ctx, publicID)
		return err
	})
	return res, err
}

func rowsAffected(result sql.Result) (int64, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading rows affected: %w", err)
	}
	return n, nil
}
