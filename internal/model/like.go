package model

import "time"

// Like records that an account liked a post. At most one like exists per
// (AccountID, PostID) pair.
type Like struct {
	ID        int64
	AccountID string
	PostID    int64
	CreatedAt time.Time
}
