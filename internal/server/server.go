// Package server assembles the HTTP router from the handlers and middleware.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"giftster/internal/auth"
	"giftster/internal/handler"
	"giftster/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Group    *handler.GroupHandler
	Gift     *handler.GiftHandler
	Exchange *handler.ExchangeHandler
}

// NewRouter builds the full route tree. Everything under /api/v1 except the
// auth endpoints requires a bearer token.
func NewRouter(h Handlers, jwtManager *auth.JWTManager) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Metrics)
	r.Use(middleware.RequestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/password-reset", h.Auth.RequestPasswordReset)
		r.Post("/auth/password-reset/confirm", h.Auth.ConfirmPasswordReset)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(jwtManager))

			r.Get("/me", h.Auth.Me)

			r.Get("/groups", h.Group.Dashboard)
			r.Post("/groups", h.Group.Create)
			r.Post("/groups/join", h.Group.Join)
			r.Get("/groups/{groupID}", h.Group.Detail)

			r.Get("/groups/{groupID}/my-list", h.Gift.MyList)
			r.Post("/groups/{groupID}/gifts", h.Gift.Add)
			r.Delete("/gifts/{giftID}", h.Gift.Delete)
			r.Post("/gifts/{giftID}/claim", h.Gift.Claim)
			r.Post("/gifts/{giftID}/unclaim", h.Gift.Unclaim)

			r.Post("/groups/{groupID}/exchange", h.Exchange.Start)
			r.Get("/groups/{groupID}/exchange/assignment", h.Exchange.Assignment)
		})
	})

	return r
}
