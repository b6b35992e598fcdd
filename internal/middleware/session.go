package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/auth"
)

// CookieName carries the opaque session token. It is the sole credential.
const CookieName = "session_id"

const sessionContextKey = "session"

// LoadSession resolves the session cookie once per request and stashes the
// session in the echo context. A store failure is treated as no session:
// the request fails closed into the anonymous path.
func LoadSession(store auth.SessionStore, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			sess, err := store.Get(c.Request().Context(), cookie.Value)
			if err != nil {
				log.Error("session lookup failed", zap.Error(err))
				return next(c)
			}
			if sess != nil {
				c.Set(sessionContextKey, sess)
			}
			return next(c)
		}
	}
}

// SessionFrom returns the session resolved by LoadSession, or nil.
func SessionFrom(c echo.Context) *auth.Session {
	sess, _ := c.Get(sessionContextKey).(*auth.Session)
	return sess
}

// RequireAuthenticated redirects anonymous requests to the login page.
func RequireAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if SessionFrom(c) == nil {
			return c.Redirect(http.StatusFound, "/login")
		}
		return next(c)
	}
}

// RequireAnyRole rejects sessions whose role is outside the allowed set with
// the fixed access-denied page. The check runs against the role cached in
// the session at login time; it never re-queries the store, so role edits
// take effect at the next login.
func RequireAnyRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFrom(c)
			if sess == nil {
				return c.Redirect(http.StatusFound, "/login")
			}
			if _, ok := allowed[sess.Role]; !ok {
				return c.Render(http.StatusForbidden, "denied.html", nil)
			}
			return next(c)
		}
	}
}
