package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/postboard/postboard-go/internal/model"
	"github.com/postboard/postboard-go/internal/repository"
)

const (
	dateLayout     = "2006-01-02"
	likeStatsTitle = "Likes Statistics"
)

// AnalyticsService answers aggregate read-only queries.
type AnalyticsService struct {
	store *repository.Store
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(store *repository.Store) *AnalyticsService {
	return &AnalyticsService{store: store}
}

// LikeStatsByDate tallies likes per UTC day between dateFrom and dateTo,
// both inclusive and formatted YYYY-MM-DD. Days with no likes are omitted.
func (s *AnalyticsService) LikeStatsByDate(ctx context.Context, dateFrom, dateTo string) (model.LikeStats, error) {
	from, fromErr := time.ParseInLocation(dateLayout, dateFrom, time.UTC)
	to, toErr := time.ParseInLocation(dateLayout, dateTo, time.UTC)

	var v rules
	v.check(fromErr == nil, "date_from must be a date in YYYY-MM-DD format")
	v.check(toErr == nil, "date_to must be a date in YYYY-MM-DD format")
	if fromErr == nil && toErr == nil {
		v.check(!from.After(to), "date_from must not be after date_to")
	}
	if err := v.err(); err != nil {
		return model.LikeStats{}, err
	}

	days, err := s.store.Repos().Analytics.DailyLikeCounts(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return model.LikeStats{}, fmt.Errorf("counting likes: %w", err)
	}

	stats := model.LikeStats{Title: likeStatsTitle, Data: days}
	for _, d := range days {
		stats.TotalLikes += d.LikeCount
	}
	return stats, nil
}

// AccountActivity reports the last login and last API activity of an
// account.
func (s *AnalyticsService) AccountActivity(ctx context.Context, publicID string) (model.AccountActivity, error) {
	account, err := s.store.Repos().Accounts.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.AccountActivity{}, ErrAccountNotFound
		}
		return model.AccountActivity{}, err
	}
	return model.AccountActivity{
		ID:              account.PublicID,
		LastLogin:       account.LastLogin,
		LastAPIActivity: account.LastAPIActivity,
	}, nil
}
