// Package auth serves the admin app's login, registration and logout pages.
package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gmtc-io/crm/internal/admin/session"
	"github.com/gmtc-io/crm/internal/admin/view"
	"github.com/gmtc-io/crm/internal/crm"
)

// Handler manages the authentication pages.
type Handler struct {
	logger    *slog.Logger
	api       *crm.Client
	sessions  *session.Manager
	csrf      *session.CSRFManager
	templates *view.Engine
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, api *crm.Client, sessions *session.Manager, csrf *session.CSRFManager, templates *view.Engine) *Handler {
	return &Handler{logger: logger, api: api, sessions: sessions, csrf: csrf, templates: templates}
}

// MountRoutes registers authentication routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.showLogin)
	r.Post("/login", h.login)
	r.Get("/register", h.showRegister)
	r.Post("/register", h.register)
	r.Post("/logout", h.logout)
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	if sess.Authenticated() {
		http.Redirect(w, r, "/customers", http.StatusSeeOther)
		return
	}
	h.render(w, r, "pages/login.html", "Sign in", map[string]any{
		"Email": "",
		"Error": "",
	}, http.StatusOK)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	token, err := h.api.Login(r.Context(), crm.Credentials{Email: email, Password: password})
	if err != nil {
		msg := "Invalid email or password"
		status := http.StatusUnauthorized
		if !crm.IsUnauthorized(err) && !crm.IsValidation(err) {
			h.logger.Error("login failed", "error", err)
			msg = "Sign in is unavailable right now. Try again shortly."
			status = http.StatusBadGateway
		}
		h.render(w, r, "pages/login.html", "Sign in", map[string]any{
			"Email": email,
			"Error": msg,
		}, status)
		return
	}

	sess := session.MustFromContext(r.Context())
	sess.SetToken(token.AccessToken)
	sess.SetUserEmail(email)
	sess.AddFlash(session.FlashMessage{Kind: "success", Message: "Signed in"})
	http.Redirect(w, r, "/customers", http.StatusSeeOther)
}

func (h *Handler) showRegister(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/register.html", "Register", map[string]any{
		"Email":    "",
		"FullName": "",
		"Error":    "",
	}, http.StatusOK)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	reg := crm.Registration{
		Email:    r.PostFormValue("email"),
		FullName: r.PostFormValue("full_name"),
		Password: r.PostFormValue("password"),
	}

	if _, err := h.api.Register(r.Context(), reg); err != nil {
		msg := "Registration failed. Check the form and try again."
		status := http.StatusBadRequest
		switch {
		case crm.IsConflict(err):
			msg = "An account with that email already exists."
			status = http.StatusConflict
		case crm.IsValidation(err):
			if apiErr, ok := crm.AsAPIError(err); ok && apiErr.Detail != "" {
				msg = apiErr.Detail
			}
		default:
			h.logger.Error("register failed", "error", err)
			msg = "Registration is unavailable right now. Try again shortly."
			status = http.StatusBadGateway
		}
		h.render(w, r, "pages/register.html", "Register", map[string]any{
			"Email":    reg.Email,
			"FullName": reg.FullName,
			"Error":    msg,
		}, status)
		return
	}

	// Registration never signs the user in; they log in with the new account.
	sess := session.MustFromContext(r.Context())
	sess.AddFlash(session.FlashMessage{Kind: "success", Message: "Account created. Sign in to continue."})
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	h.sessions.Destroy(sess)
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, template, title string, data map[string]any, status int) {
	sess := session.FromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(sess)
	var flash *session.FlashMessage
	var email string
	if sess != nil {
		flash = sess.PopFlash()
		email = sess.UserEmail()
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		UserEmail:   email,
		Data:        data,
	}
	w.WriteHeader(status)
	if err := h.templates.Render(w, template, viewData); err != nil {
		h.logger.Error("render template", "error", err, "template", template)
	}
}
