// cmd/server/server.go
package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/violetshores/vac-themes/internal/api"
	themesapi "github.com/violetshores/vac-themes/internal/api/themes"
	"github.com/violetshores/vac-themes/internal/config"
	"github.com/violetshores/vac-themes/internal/email"
	"github.com/violetshores/vac-themes/internal/ratelimit"
	"github.com/violetshores/vac-themes/internal/themes"
)

type serverDeps struct {
	themes  *themes.Store
	sender  email.EmailSender
	limiter *ratelimit.Limiter
}

func newServer(cfg *config.Config, deps serverDeps) *http.Server {
	router := http.NewServeMux()

	themesapi.InitHandlers(themesapi.Deps{
		Themes:        deps.themes,
		Sender:        deps.sender,
		SenderAddress: cfg.Email.Sender,
		Limiter:       deps.limiter,
		TrustProxy:    cfg.RateLimit.TrustProxy,
		BaseURL:       cfg.App.BaseURL,
	})

	// WithMetrics must stay innermost so it sees the matched route pattern.
	handler := api.ChainMiddleware(
		router,
		api.WithMetrics,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	registerRoutes(router)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/verify", http.StatusFound)
	})

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /verify", themesapi.HandleVerifyPage)

	// Theme routes
	mux.HandleFunc("GET /api/v1/themes", themesapi.HandleThemesList)
	mux.HandleFunc("GET /api/v1/themes/resolve", themesapi.HandleResolve)
	mux.HandleFunc("POST /api/v1/themes/test-email", themesapi.HandleTestEmail)
	mux.HandleFunc("GET /api/v1/themes/{id}", themesapi.HandleThemeDetail)
	mux.HandleFunc("GET /api/v1/themes/{id}/email-tokens", themesapi.HandleEmailTokens)
	mux.HandleFunc("GET /api/v1/themes/{id}/email-preview", themesapi.HandleEmailPreview)
}
