package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/taskdeck/taskdeck-be/internal/models"
)

const cookieName = "session"

// PrincipalLookup resolves a stored user id to the identity attached to
// the request. The user service satisfies this.
type PrincipalLookup interface {
	LookupPrincipal(id string) (models.Principal, error)
}

// Claims defines the JWT claims carried by the session cookie. The user
// id travels in the registered Subject claim.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type contextKey string

const principalKey = contextKey("principal")

// SessionManager issues and validates the signed session cookie and
// guards protected routes. It is constructed once and injected into the
// router; nothing here reads process-global state.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	users  PrincipalLookup
}

// NewSessionManager creates a SessionManager signing with the given
// secret. secure controls the cookie's Secure flag.
func NewSessionManager(secret string, ttl time.Duration, secure bool, users PrincipalLookup) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		users:  users,
	}
}

// Issue signs a session token for the user and sets it as a cookie.
func (m *SessionManager) Issue(w http.ResponseWriter, user models.User) error {
	expires := time.Now().Add(m.ttl)
	claims := &Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    signed,
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
	return nil
}

// Clear expires the session cookie.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
}

// validate parses and validates a session token string.
func (m *SessionManager) validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// principal resolves the request's session cookie to a Principal,
// re-reading the user row so a deleted account invalidates the session.
func (m *SessionManager) principal(r *http.Request) (models.Principal, error) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return models.Principal{}, err
	}
	claims, err := m.validate(cookie.Value)
	if err != nil {
		return models.Principal{}, err
	}
	return m.users.LookupPrincipal(claims.Subject)
}

// Current is the non-enforcing variant of the guard, used by routes
// that merely branch on whether a session exists.
func (m *SessionManager) Current(r *http.Request) (models.Principal, bool) {
	p, err := m.principal(r)
	if err != nil {
		return models.Principal{}, false
	}
	return p, true
}

// Protect guards a route. The surface is page-oriented, so an absent or
// invalid session redirects to the login view rather than writing 401.
func (m *SessionManager) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := m.principal(r)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		ctx := context.WithValue(r.Context(), principalKey, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PrincipalFrom retrieves the authenticated principal stored by Protect.
func PrincipalFrom(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey).(models.Principal)
	return p, ok
}
