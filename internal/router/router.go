// Package router maps the portal's HTTP surface onto handlers and guards.
package router

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/asdominguez/abstracts-portal/internal/config"
	"github.com/asdominguez/abstracts-portal/internal/handler"
	"github.com/asdominguez/abstracts-portal/internal/middleware"
	"github.com/asdominguez/abstracts-portal/internal/model"
	"github.com/asdominguez/abstracts-portal/internal/session"
)

// Deps carries everything route registration needs.
type Deps struct {
	Sessions  session.Store
	Redis     *redis.Client // nil disables the login rate limiter
	LoginRate config.LoginRateConfig

	Auth      *handler.AuthHandler
	Register  *handler.RegisterHandler
	Dashboard *handler.DashboardHandler
	Reviewer  *handler.ReviewerHandler
	Committee *handler.CommitteeHandler
	Admin     *handler.AdminHandler
}

// RegisterRoutes wires the full route table.  Session loading runs on every
// request; role guards wrap the reviewer, committee and admin groups.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.HTTPErrorHandler = ErrorHandler
	e.Use(middleware.LoadSession(d.Sessions))

	e.GET("/healthz", handler.Health)

	e.GET("/", d.Auth.GetIndex)
	e.GET("/login", d.Auth.GetLogin)
	e.POST("/login", d.Auth.PostLogin, middleware.LoginRateLimit(d.LoginRate, d.Redis))
	e.POST("/logout", d.Auth.PostLogout)

	e.GET("/dashboard", d.Dashboard.GetDashboard, middleware.RequireAuth)

	e.GET("/register", d.Register.GetRegister)
	e.GET("/register/student", d.Register.GetRegisterStudent)
	e.POST("/register/student", d.Register.PostRegisterStudent)
	e.GET("/register/reviewer", d.Register.GetRegisterReviewer)
	e.POST("/register/reviewer", d.Register.PostRegisterReviewer)
	e.GET("/register/committee", d.Register.GetRegisterCommittee)
	e.POST("/register/committee", d.Register.PostRegisterCommittee)

	reviewer := e.Group("/reviewer", middleware.RequireRole(model.AccountReviewer))
	reviewer.GET("/application", d.Reviewer.GetApplication)
	reviewer.POST("/application", d.Reviewer.PostApplication)

	committee := e.Group("/committee", middleware.RequireRole(model.AccountCommittee))
	committee.POST("/applications/:id/approve", d.Committee.ApproveApplication)
	committee.POST("/applications/:id/deny", d.Committee.DenyApplication)
	committee.POST("/accounts/:id/approve", d.Committee.ApproveAccount)
	committee.POST("/accounts/:id/deny", d.Committee.DenyAccount)

	admin := e.Group("/admin", middleware.RequireRole(model.AccountAdmin))
	admin.GET("/accounts", d.Admin.GetAccounts)
	admin.POST("/accounts/:id/delete", d.Admin.PostDeleteAccount)
}

// ErrorHandler renders unmatched routes as a plain 404 and anything
// unexpected as a generic 500, with the detail kept in the server log.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusNotFound {
			_ = c.String(http.StatusNotFound, "Not Found")
			return
		}
		_ = c.String(he.Code, http.StatusText(he.Code))
		return
	}
	logrus.WithError(err).WithField("path", c.Request().URL.Path).Error("unhandled error")
	_ = c.String(http.StatusInternalServerError, "Server error")
}
