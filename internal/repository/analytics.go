package repository

import (
	"context"
	"time"

	"github.com/postboard/postboard-go/internal/model"
)

// AnalyticsRepository runs read-only aggregate queries.
type AnalyticsRepository struct {
	db      DBTX
	dialect Dialect
}

// NewAnalyticsRepository creates a new AnalyticsRepository. The dialect
// selects the date-formatting function used for grouping.
func NewAnalyticsRepository(db DBTX, dialect Dialect) *AnalyticsRepository {
	return &AnalyticsRepository{db: db, dialect: dialect}
}

func (r *AnalyticsRepository) dayExpr(column string) string {
	if r.dialect == DialectSQLite {
		return `strftime('%Y-%m-%d', ` + column + `)`
	}
	return `DATE_FORMAT(` + column + `, '%Y-%m-%d')`
}

// DailyLikeCounts counts likes created in [from, to) grouped by UTC calendar
// day, in ascending date order. Days without likes are omitted.
func (r *AnalyticsRepository) DailyLikeCounts(ctx context.Context, from, to time.Time) ([]model.DailyLikes, error) {
	day := r.dayExpr("created_at")
	query := `SELECT ` + day + ` AS day, COUNT(*) FROM likes
		WHERE created_at >= ? AND created_at < ?
		GROUP BY ` + day + ` ORDER BY day`

	rows, err := r.db.QueryContext(ctx, query, dbTime(from), dbTime(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []model.DailyLikes{}
	for rows.Next() {
		var d model.DailyLikes
		if err := rows.Scan(&d.Date, &d.LikeCount); err != nil {
			return nil, err
		}
		stats = append(stats, d)
	}
	return stats, rows.Err()
}
