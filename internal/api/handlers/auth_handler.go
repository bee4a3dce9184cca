package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/taskdeck/taskdeck-be/internal/auth"
	"github.com/taskdeck/taskdeck-be/internal/services"
	"github.com/taskdeck/taskdeck-be/internal/web"
)

// AuthHandler handles the landing page, signup, login and logout.
type AuthHandler struct {
	users    services.UserServiceProvider
	sessions *auth.SessionManager
	renderer *web.Renderer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, sessions *auth.SessionManager, renderer *web.Renderer) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, renderer: renderer}
}

// Home redirects authenticated visitors straight to their task list and
// shows the landing page to everyone else.
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.sessions.Current(r); ok {
		http.Redirect(w, r, "/tasks", http.StatusFound)
		return
	}
	h.renderer.Render(w, http.StatusOK, "index.html", web.Page{Title: "Welcome"})
}

// SignupForm renders the blank registration form.
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "signup.html", web.Page{Title: "Sign up"})
}

// Signup handles new user registration.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	form := map[string]string{
		"username": strings.TrimSpace(r.PostFormValue("username")),
		"email":    strings.TrimSpace(r.PostFormValue("email")),
	}
	password := r.PostFormValue("password")

	fields := map[string]string{}
	if form["username"] == "" {
		fields["username"] = "username is required"
	}
	if form["email"] == "" {
		fields["email"] = "email is required"
	}
	if password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		h.renderer.Render(w, http.StatusBadRequest, "signup.html", web.Page{
			Title: "Sign up", Fields: fields, Form: form,
		})
		return
	}

	_, err := h.users.CreateUser(form["username"], form["email"], password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			fields["email"] = "email already registered"
			h.renderer.Render(w, http.StatusBadRequest, "signup.html", web.Page{
				Title: "Sign up", Fields: fields, Form: form,
			})
			return
		}
		log.Error().Err(err).Str("email", form["email"]).Msg("Failed to register user")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// LoginForm renders the blank login form.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "login.html", web.Page{Title: "Log in"})
}

// Login verifies credentials and establishes the session. A failed
// attempt re-renders the form with an inline error and HTTP 200, not
// 401; this is a browser-facing page, not an API.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	user, err := h.users.AuthenticateUser(email, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("email", email).Msg("Failed authentication attempt")
			h.renderer.Render(w, http.StatusOK, "login.html", web.Page{
				Title: "Log in",
				Error: "Invalid email or password",
				Form:  map[string]string{"email": email},
			})
			return
		}
		log.Error().Err(err).Str("email", email).Msg("Failed to authenticate user")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.sessions.Issue(w, user); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue session")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}
