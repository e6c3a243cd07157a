package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	adminauth "github.com/gmtc-io/crm/internal/admin/auth"
	"github.com/gmtc-io/crm/internal/admin/pages"
	"github.com/gmtc-io/crm/internal/observability"
)

// AdminRouterParams carries everything the admin router mounts.
type AdminRouterParams struct {
	Middleware AdminMiddlewareConfig
	Auth       *adminauth.Handler
	Pages      *pages.Handler
	Metrics    *observability.Metrics
}

// NewAdminRouter assembles the admin app's HTTP routes.
func NewAdminRouter(p AdminRouterParams) chi.Router {
	r := chi.NewRouter()
	for _, mw := range AdminMiddlewareStack(p.Middleware) {
		r.Use(mw)
	}

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/customers", http.StatusSeeOther)
	})

	r.Route("/auth", func(r chi.Router) {
		p.Auth.MountRoutes(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth)
		p.Pages.MountRoutes(r)
	})

	if p.Metrics != nil {
		r.Get("/metrics", p.Metrics.Handler().ServeHTTP)
	}

	return r
}
