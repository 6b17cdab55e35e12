package model

import "time"

// Post represents a post row in the database. Slug is derived from Title;
// use SetTitle so the two never drift apart.
type Post struct {
	ID        int64
	Title     string
	Content   string
	Slug      string
	AuthorID  string
	CreatedAt time.Time
	Likes     int64
}

// NewPost builds a post authored by authorID with its slug already computed.
func NewPost(title, content, authorID string, createdAt time.Time) *Post {
	p := &Post{Content: content, AuthorID: authorID, CreatedAt: createdAt}
	p.SetTitle(title)
	return p
}

// SetTitle replaces the title and recomputes the slug.
func (p *Post) SetTitle(title string) {
	p.Title = title
	p.Slug = Slugify(title)
}

// PostRequest is the body for creating or replacing a post.
type PostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PostResponse is the full representation of a single post.
type PostResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Slug      string    `json:"slug"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	Likes     int64     `json:"likes"`
}

// PostSummary is the listing representation of a post.
type PostSummary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PostListResponse lists posts, newest first.
type PostListResponse struct {
	Total int           `json:"total"`
	Data  []PostSummary `json:"data"`
}
