package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/postboard/postboard-go/internal/middleware"
	"github.com/postboard/postboard-go/internal/service"
)

// Services bundles the business services the router exposes.
type Services struct {
	Auth      *service.AuthService
	Accounts  *service.AccountService
	Posts     *service.PostService
	Likes     *service.LikeService
	Analytics *service.AnalyticsService
}

// RouterConfig tunes the HTTP glue. A zero AuthRateLimitRPS disables rate
// limiting on the credential endpoints.
type RouterConfig struct {
	AuthRateLimitRPS   float64
	AuthRateLimitBurst int
}

// NewRouter builds the chi router serving /health and the /api/v1 routes.
func NewRouter(svc Services, cfg RouterConfig) http.Handler {
	authHandler := NewAuthHandler(svc.Auth)
	accountHandler := NewAccountHandler(svc.Accounts)
	postHandler := NewPostHandler(svc.Posts, svc.Likes)
	analyticsHandler := NewAnalyticsHandler(svc.Analytics)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst))
			r.Post("/auth/register", authHandler.HandleRegister)
			r.Post("/auth/login", authHandler.HandleLogin)
			r.Post("/auth/refresh", authHandler.HandleRefresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(svc.Auth))

			r.Get("/auth/me", authHandler.HandleMe)

			r.Get("/user", accountHandler.HandleList)
			r.Delete("/user/me", accountHandler.HandleDeleteMe)

			r.Get("/post", postHandler.HandleList)
			r.Post("/post", postHandler.HandleCreate)
			r.Get("/post/{post_id}", postHandler.HandleGet)
			r.Put("/post/{post_id}", postHandler.HandleUpdate)
			r.Delete("/post/{post_id}", postHandler.HandleDelete)
			r.Post("/post/{post_id}/like", postHandler.HandleLike)
			r.Delete("/post/{post_id}/like", postHandler.HandleUnlike)

			r.Get("/analytics/analytic", analyticsHandler.HandleLikeStats)
			r.Get("/analytics/user/{user_id}", analyticsHandler.HandleAccountActivity)
		})
	})

	return r
}
