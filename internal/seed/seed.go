// Package seed fills a postboard server with synthetic accounts, posts and
// likes by driving its public API.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	mrand "math/rand/v2"
	"net/http"
	"time"

	"github.com/postboard/postboard-go/internal/client"
	"github.com/postboard/postboard-go/internal/model"
)

// Config bounds how much activity a run generates.
type Config struct {
	Users           int
	MaxPostsPerUser int
	MaxLikesPerUser int
}

// Report summarises a run. Failures counts requests that did not succeed;
// DuplicateLikes counts likes the server rejected as already given.
type Report struct {
	Accounts       int
	Posts          int
	Likes          int
	DuplicateLikes int
	Failures       int
}

var ErrNoAccounts = errors.New("no accounts could be registered")

type member struct {
	id      identity
	session *client.Session
}

// Run registers cfg.Users accounts, has each publish between 1 and
// cfg.MaxPostsPerUser posts, then has each like up to cfg.MaxLikesPerUser
// random posts. Individual failures are logged and counted; Run only
// returns an error when nothing could be registered or ctx ends.
func Run(ctx context.Context, cfg Config, c *client.Client) (Report, error) {
	rnd := mrand.New(mrand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed))
	var report Report

	members := make([]member, 0, cfg.Users)
	for i := 0; i < cfg.Users; i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		m, err := register(ctx, c, rnd)
		if err != nil {
			slog.Warn("seed: registration failed", "error", err)
			report.Failures++
			continue
		}
		members = append(members, m)
	}
	report.Accounts = len(members)
	if len(members) == 0 {
		return report, ErrNoAccounts
	}

	var postIDs []int64
	for _, m := range members {
		n := 1
		if cfg.MaxPostsPerUser > 1 {
			n += rnd.IntN(cfg.MaxPostsPerUser)
		}
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			title, content := newPost(rnd)
			resp, err := m.session.Post(ctx, "post", model.PostRequest{Title: title, Content: content})
			if err != nil || resp.StatusCode != http.StatusCreated {
				logFailure("create post", m, resp, err)
				report.Failures++
				continue
			}
			var post model.PostResponse
			if err := resp.Decode(&post); err != nil {
				report.Failures++
				continue
			}
			postIDs = append(postIDs, post.ID)
			report.Posts++
		}
	}
	if len(postIDs) == 0 {
		return report, nil
	}

	for _, m := range members {
		for i := 0; i < cfg.MaxLikesPerUser; i++ {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			id := postIDs[rnd.IntN(len(postIDs))]
			resp, err := m.session.Post(ctx, fmt.Sprintf("post/%d/like", id), nil)
			switch {
			case err == nil && resp.StatusCode == http.StatusOK:
				report.Likes++
			case err == nil && resp.StatusCode == http.StatusConflict:
				report.DuplicateLikes++
			default:
				logFailure("like post", m, resp, err)
				report.Failures++
			}
		}
	}

	return report, nil
}

func register(ctx context.Context, c *client.Client, rnd *mrand.Rand) (member, error) {
	id, err := newIdentity(rnd)
	if err != nil {
		return member{}, fmt.Errorf("generating identity: %w", err)
	}

	resp, err := c.Register(ctx, model.RegisterRequest{DisplayName: id.DisplayName, Email: id.Email, Password: id.Password})
	if err != nil {
		return member{}, err
	}
	if resp.StatusCode != http.StatusCreated {
		return member{}, fmt.Errorf("register %s: status %d: %s", id.Email, resp.StatusCode, resp.ErrorMessage())
	}

	session := c.Session(client.Credentials{Email: id.Email, Password: id.Password})
	if err := session.Login(ctx); err != nil {
		return member{}, err
	}
	return member{id: id, session: session}, nil
}

func logFailure(action string, m member, resp *client.Response, err error) {
	attrs := []any{"account", m.id.DisplayName}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	if resp != nil {
		attrs = append(attrs, "status", resp.StatusCode, "message", resp.ErrorMessage())
	}
	slog.Warn("seed: "+action+" failed", attrs...)
}
