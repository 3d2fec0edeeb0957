package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/asdominguez/abstracts-portal/internal/auth"
	"github.com/asdominguez/abstracts-portal/internal/middleware"
	"github.com/asdominguez/abstracts-portal/internal/repository"
	"github.com/asdominguez/abstracts-portal/internal/session"
	"github.com/asdominguez/abstracts-portal/internal/view"
)

// AuthHandler bundles dependencies for the login/logout endpoints.
type AuthHandler struct {
	Accounts   AccountStore
	Sessions   session.Store
	SessionTTL time.Duration
}

func NewAuthHandler(accounts AccountStore, sessions session.Store, ttl time.Duration) *AuthHandler {
	return &AuthHandler{Accounts: accounts, Sessions: sessions, SessionTTL: ttl}
}

// GetIndex renders the landing page.
func (h *AuthHandler) GetIndex(c echo.Context) error {
	return view.Render(c, http.StatusOK, "index", nil)
}

// GetLogin renders the login form.
func (h *AuthHandler) GetLogin(c echo.Context) error {
	return view.Render(c, http.StatusOK, "login", nil)
}

// PostLogin validates credentials and establishes a session snapshot.  A
// missing account and a wrong password answer with the identical 401 so the
// response never reveals whether the identifier exists.
func (h *AuthHandler) PostLogin(c echo.Context) error {
	identifier := strings.TrimSpace(c.FormValue("identifier"))
	password := c.FormValue("password")
	if identifier == "" || password == "" {
		return c.String(http.StatusBadRequest, "Missing email/username or password.")
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	account, err := h.Accounts.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.String(http.StatusUnauthorized, "Invalid credentials.")
		}
		return c.String(http.StatusInternalServerError, "Login error: "+err.Error())
	}
	if !auth.VerifyPassword(&account, password) {
		return c.String(http.StatusUnauthorized, "Invalid credentials.")
	}

	id, err := h.Sessions.Create(ctx, &session.Session{
		AccountID:   account.ID,
		AccountType: account.AccountType,
		Email:       account.Email,
		Username:    account.Username,
		Status:      account.Status,
	})
	if err != nil {
		return c.String(http.StatusInternalServerError, "Login error: "+err.Error())
	}
	middleware.SetSessionCookie(c, id, h.SessionTTL)
	return c.Redirect(http.StatusFound, "/dashboard")
}

// PostLogout destroys the current session.  Without a session the endpoint
// is a defined no-op that lands on the landing page.
func (h *AuthHandler) PostLogout(c echo.Context) error {
	id := middleware.SessionIDFrom(c)
	if id == "" {
		return c.Redirect(http.StatusFound, "/")
	}
	ctx, cancel := reqContext(c)
	defer cancel()
	if err := h.Sessions.Destroy(ctx, id); err != nil {
		logrus.WithError(err).Warn("session destroy failed")
	}
	middleware.ClearSessionCookie(c)
	return c.Redirect(http.StatusFound, "/")
}
