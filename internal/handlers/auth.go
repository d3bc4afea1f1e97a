package handlers

import (
	"net/http"

	"github.com/collegefest/champboard/internal/auth"
)

// LoginPageData holds data for the login template
type LoginPageData struct {
	Error string
	Email string
}

// handleLoginPage renders the login form
func (h *Handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	// If already logged in, redirect to admin
	if _, ok := h.Auth.GetSessionFromRequest(r); ok {
		http.Redirect(w, r, "/admin", http.StatusFound)
		return
	}

	h.render(w, h.templates.AdminLogin, "login.html", LoginPageData{})
}

// handleLogin processes login form submission
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	token, err := h.Auth.Login(email, password, auth.ClientKey(r))
	if err != nil {
		apiErr := ToAPIError(err)
		h.Log.Warn("Admin login rejected", "email", email, "client", auth.ClientKey(r), "reason", apiErr.Code)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(apiErr.Status)
		h.render(w, h.templates.AdminLogin, "login.html", LoginPageData{
			Error: apiErr.Message,
			Email: email,
		})
		return
	}

	h.Log.Info("Admin logged in", "email", email)
	auth.SetSessionCookie(w, token, isSecure(r))
	http.Redirect(w, r, "/admin", http.StatusFound)
}

// handleLogout clears the session and redirects to login
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.Auth.Logout(cookie.Value)
	}

	auth.ClearSessionCookie(w)
	http.Redirect(w, r, "/admin/login", http.StatusFound)
}

// isSecure reports whether the client reached us over TLS, directly or
// through a proxy
func isSecure(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}
