// Package server assembles the REST API.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/gmtc-io/crm/internal/app"
	"github.com/gmtc-io/crm/internal/observability"
	"github.com/gmtc-io/crm/internal/server/auth"
	"github.com/gmtc-io/crm/internal/server/customers"
	"github.com/gmtc-io/crm/internal/server/parts"
	"github.com/gmtc-io/crm/internal/server/suppliers"
)

// RouterParams groups dependencies for building the API router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *app.Config
	Tokens           *auth.TokenIssuer
	AuthHandler      *auth.Handler
	CustomersHandler *customers.Handler
	PartsHandler     *parts.Handler
	SuppliersHandler *suppliers.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router for the REST API. Everything except
// /auth/login, /auth/register, /healthz and /metrics requires a bearer token.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	timeout := 30 * time.Second
	if params.Config != nil && params.Config.AppRequestTimeout > 0 {
		timeout = params.Config.AppRequestTimeout
	}
	r.Use(chimw.Timeout(timeout))
	r.Use(chimw.Compress(5))
	r.Use(httprate.Limit(120, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
	if params.Metrics != nil {
		r.Use(params.Metrics.Middleware)
	}
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r, params.Tokens)
	})

	r.Group(func(r chi.Router) {
		r.Use(params.Tokens.RequireToken)
		r.Route("/customers", params.CustomersHandler.MountRoutes)
		r.Route("/parts", params.PartsHandler.MountRoutes)
		r.Route("/suppliers", params.SuppliersHandler.MountRoutes)
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
