// Package pages serves the admin list-and-create views for customers, parts
// and suppliers. All data comes from the REST backend through the typed
// gateway; list reads go through the shared query cache.
package pages

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gmtc-io/crm/internal/admin/session"
	"github.com/gmtc-io/crm/internal/admin/view"
	"github.com/gmtc-io/crm/internal/crm"
	"github.com/gmtc-io/crm/internal/querycache"
)

const (
	kindCustomers = "customers"
	kindParts     = "parts"
	kindSuppliers = "suppliers"

	listPerPage = 50
)

// Handler manages the entity pages.
type Handler struct {
	logger    *slog.Logger
	api       *crm.Client
	cache     *querycache.Cache
	sessions  *session.Manager
	csrf      *session.CSRFManager
	templates *view.Engine
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, api *crm.Client, cache *querycache.Cache, sessions *session.Manager, csrf *session.CSRFManager, templates *view.Engine) *Handler {
	return &Handler{logger: logger, api: api, cache: cache, sessions: sessions, csrf: csrf, templates: templates}
}

// MountRoutes registers the entity routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/customers", h.listCustomers)
	r.Post("/customers", h.createCustomer)
	r.Get("/parts", h.listParts)
	r.Post("/parts", h.createPart)
	r.Get("/suppliers", h.listSuppliers)
	r.Post("/suppliers", h.createSupplier)
}

func listParams(r *http.Request) crm.ListParams {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	return crm.ListParams{
		Page:    page,
		PerPage: listPerPage,
		Search:  strings.TrimSpace(r.URL.Query().Get("search")),
	}
}

func showAddForm(r *http.Request) bool {
	return r.URL.Query().Get("add") == "1"
}

// optional maps an empty form field to nil so the backend applies its own
// defaults instead of storing empty strings.
func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func formValues(r *http.Request, fields ...string) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f] = strings.TrimSpace(r.PostFormValue(f))
	}
	return out
}

// loadErrorMessage is shown in the non-blocking banner when a list read
// fails. The page still renders with whatever it has.
func loadErrorMessage(err error) string {
	if apiErr, ok := crm.AsAPIError(err); ok && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return "Could not load data from the backend. Try again shortly."
}

func submitErrorMessage(err error) string {
	if apiErr, ok := crm.AsAPIError(err); ok {
		switch {
		case crm.IsConflict(err):
			if apiErr.Detail != "" {
				return apiErr.Detail
			}
			return "A record with those details already exists."
		case crm.IsValidation(err):
			if apiErr.Detail != "" {
				return apiErr.Detail
			}
			return "The form was rejected. Check the fields and try again."
		}
	}
	return "Could not save the record. Try again shortly."
}

// forceLogin drops the session when the backend rejects the stored token.
func (h *Handler) forceLogin(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	h.sessions.Destroy(sess)
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, template, title string, data map[string]any, status int) {
	sess := session.MustFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(sess)
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       sess.PopFlash(),
		CurrentPath: r.URL.Path,
		UserEmail:   sess.UserEmail(),
		Data:        data,
	}
	w.WriteHeader(status)
	if err := h.templates.Render(w, template, viewData); err != nil {
		h.logger.Error("render template", "error", err, "template", template)
	}
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	sess := session.MustFromContext(r.Context())
	sess.AddFlash(session.FlashMessage{Kind: kind, Message: message})
	http.Redirect(w, r, location, http.StatusSeeOther)
}
