package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/postboard/postboard-go/internal/model"
)

func TestLikeStatsByDateValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		from, to string
		want     []string
	}{
		{"missing both", "", "", []string{
			"date_from must be a date in YYYY-MM-DD format",
			"date_to must be a date in YYYY-MM-DD format",
		}},
		{"bad to", "2024-03-01", "03/05/2024", []string{"date_to must be a date in YYYY-MM-DD format"}},
		{"reversed", "2024-03-05", "2024-03-01", []string{"date_from must not be after date_to"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.analytics.LikeStatsByDate(context.Background(), tt.from, tt.to)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			if diff := cmp.Diff(tt.want, verr.Violations); diff != "" {
				t.Errorf("violations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLikeStatsByDateTally(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.register(t, "author")
	post := env.post(t, author.ID, "Fixture")

	// Likes per fixture day; the 4th is outside the queried range.
	fixture := map[time.Time]int{
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC):    2,
		time.Date(2024, 3, 2, 23, 59, 59, 0, time.UTC): 1,
		time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC):   3,
		time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC):    5,
	}
	i := 0
	for at, n := range fixture {
		for j := 0; j < n; j++ {
			i++
			fan := env.register(t, "fixturefan"+string(rune('a'+i)))
			env.likes.now = func() time.Time { return at }
			_, err := env.likes.Like(ctx, fan.ID, post.ID)
			require.NoError(t, err)
		}
	}

	got, err := env.analytics.LikeStatsByDate(ctx, "2024-03-01", "2024-03-03")
	require.NoError(t, err)

	want := model.LikeStats{
		Title: "Likes Statistics",
		Data: []model.DailyLikes{
			{Date: "2024-03-01", LikeCount: 2},
			{Date: "2024-03-02", LikeCount: 1},
			{Date: "2024-03-03", LikeCount: 3},
		},
		TotalLikes: 6,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LikeStatsByDate mismatch (-want +got):\n%s", diff)
	}

	empty, err := env.analytics.LikeStatsByDate(ctx, "2020-01-01", "2020-01-31")
	require.NoError(t, err)
	if diff := cmp.Diff(model.LikeStats{Title: "Likes Statistics", Data: []model.DailyLikes{}}, empty); diff != "" {
		t.Errorf("empty range mismatch (-want +got):\n%s", diff)
	}
}

func TestAccountActivity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acct := env.register(t, "alice")

	before, err := env.analytics.AccountActivity(ctx, acct.ID)
	require.NoError(t, err)
	require.Nil(t, before.LastLogin)
	require.Nil(t, before.LastAPIActivity)

	tokens, err := env.auth.Login(ctx, model.LoginRequest{Email: "alice@example.com", Password: "password-alice"}, "")
	require.NoError(t, err)
	_, err = env.auth.Authenticate(ctx, tokens.AccessToken)
	require.NoError(t, err)

	after, err := env.analytics.AccountActivity(ctx, acct.ID)
	require.NoError(t, err)
	require.NotNil(t, after.LastLogin)
	require.NotNil(t, after.LastAPIActivity)

	_, err = env.analytics.AccountActivity(ctx, "missing")
	require.ErrorIs(t, err, ErrAccountNotFound)
}
