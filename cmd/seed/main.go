package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/postboard/postboard-go/internal/client"
	"github.com/postboard/postboard-go/internal/config"
	"github.com/postboard/postboard-go/internal/seed"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.LoadSeed()
	flag.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "API base URL")
	flag.IntVar(&cfg.Users, "users", cfg.Users, "number of accounts to register")
	flag.IntVar(&cfg.MaxPostsPerUser, "posts", cfg.MaxPostsPerUser, "maximum posts per account")
	flag.IntVar(&cfg.MaxLikesPerUser, "likes", cfg.MaxLikesPerUser, "maximum likes per account")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := seed.Run(ctx, seed.Config{
		Users:           cfg.Users,
		MaxPostsPerUser: cfg.MaxPostsPerUser,
		MaxLikesPerUser: cfg.MaxLikesPerUser,
	}, client.New(cfg.BaseURL))
	if err != nil {
		slog.Error("seeding failed", "error", err, "accounts", report.Accounts, "failures", report.Failures)
		os.Exit(1)
	}

	slog.Info("seeding complete",
		"accounts", report.Accounts,
		"posts", report.Posts,
		"likes", report.Likes,
		"duplicate_likes", report.DuplicateLikes,
		"failures", report.Failures,
	)
}
