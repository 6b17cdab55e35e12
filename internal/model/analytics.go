package model

import "time"

// DailyLikes is the number of likes created on one calendar day (UTC).
type DailyLikes struct {
	Date      string `json:"date"`
	LikeCount int64  `json:"like_count"`
}

// LikeStats is the like tally for a date range.
type LikeStats struct {
	Title      string       `json:"title"`
	Data       []DailyLikes `json:"data"`
	TotalLikes int64        `json:"total_likes"`
}

// AccountActivity reports when an account last logged in and last made an
// authenticated request.
type AccountActivity struct {
	ID              string     `json:"id"`
	LastLogin       *time.Time `json:"last_login"`
	LastAPIActivity *time.Time `json:"last_api_activity"`
}
