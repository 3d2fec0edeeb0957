// Package middleware provides shared request processing for handlers:
// session loading, authentication/authorization guards and the login rate
// limiter.
package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/asdominguez/abstracts-portal/internal/session"
)

// CookieName is the session cookie carrying the opaque store key.
const CookieName = "sid"

const (
	ctxSession   = "session"
	ctxSessionID = "session_id"
)

// LoadSession resolves the sid cookie into a session snapshot and stores it
// in the request context for guards and handlers.  A missing, unknown or
// expired cookie leaves the request anonymous; a store failure is logged and
// likewise treated as anonymous rather than failing the whole request.
func LoadSession(store session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}
			sess, err := store.Get(c.Request().Context(), cookie.Value)
			if err != nil {
				logrus.WithError(err).Warn("session lookup failed")
				return next(c)
			}
			if sess != nil {
				c.Set(ctxSession, sess)
				c.Set(ctxSessionID, cookie.Value)
			}
			return next(c)
		}
	}
}

// SessionFrom returns the snapshot loaded by LoadSession, or nil for an
// anonymous request.
func SessionFrom(c echo.Context) *session.Session {
	if s, ok := c.Get(ctxSession).(*session.Session); ok {
		return s
	}
	return nil
}

// SessionIDFrom returns the sid cookie value for the current session, or ""
// when the request is anonymous.
func SessionIDFrom(c echo.Context) string {
	if id, ok := c.Get(ctxSessionID).(string); ok {
		return id
	}
	return ""
}

// SetSessionCookie attaches a fresh sid cookie to the response.
func SetSessionCookie(c echo.Context, id string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the sid cookie.
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
