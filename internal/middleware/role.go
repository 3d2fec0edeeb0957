package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/asdominguez/abstracts-portal/internal/model"
)

// RequireAuth redirects anonymous requests to the login page.  It does not
// inspect the account's approval status: a Pending or Denied account passes
// and simply lands on the placeholder dashboard.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if SessionFrom(c) == nil {
			return c.Redirect(http.StatusFound, "/login")
		}
		return next(c)
	}
}

// RequireRole builds on RequireAuth and additionally demands that the
// session's cached account type matches one of the given roles, answering
// 403 otherwise.  The role comes from the login-time snapshot, so a type
// change after login is not seen until the next login.
func RequireRole(roles ...model.AccountType) echo.MiddlewareFunc {
	allowed := make(map[model.AccountType]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFrom(c)
			if sess == nil {
				return c.Redirect(http.StatusFound, "/login")
			}
			if !allowed[sess.AccountType] {
				return c.String(http.StatusForbidden, "Forbidden")
			}
			return next(c)
		}
	}
}
