package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/asdominguez/abstracts-portal/internal/middleware"
	"github.com/asdominguez/abstracts-portal/internal/model"
	"github.com/asdominguez/abstracts-portal/internal/view"
)

// DashboardHandler routes an authenticated session to its dashboard view.
// The committee dashboard additionally loads its two pending queues.
type DashboardHandler struct {
	Accounts     AccountStore
	Applications ApplicationStore
}

func NewDashboardHandler(accounts AccountStore, applications ApplicationStore) *DashboardHandler {
	return &DashboardHandler{Accounts: accounts, Applications: applications}
}

// GetDashboard dispatches on the login-time (accountType, status) snapshot.
// Pending or Denied accounts land on the generic placeholder; only Admin is
// exempt from the status gate.
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return c.Redirect(http.StatusFound, "/login")
	}

	switch model.DashboardFor(sess.AccountType, sess.Status) {
	case model.DashboardStudent:
		return view.Render(c, http.StatusOK, "dashboard-student", nil)
	case model.DashboardReviewer:
		return view.Render(c, http.StatusOK, "dashboard-reviewer", nil)
	case model.DashboardAdmin:
		return view.Render(c, http.StatusOK, "dashboard-admin", nil)
	case model.DashboardCommittee:
		return h.committeeDashboard(c)
	default:
		return view.Render(c, http.StatusOK, "dashboard-generic", nil)
	}
}

func (h *DashboardHandler) committeeDashboard(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	apps, err := h.Applications.ListByStatus(ctx, model.StatusPending)
	if err != nil {
		logrus.WithError(err).Error("load pending applications failed")
		return c.String(http.StatusInternalServerError, "Server error")
	}
	accounts, err := h.Accounts.ListByStatus(ctx, model.StatusPending)
	if err != nil {
		logrus.WithError(err).Error("load pending accounts failed")
		return c.String(http.StatusInternalServerError, "Server error")
	}
	return view.Render(c, http.StatusOK, "dashboard-committee", view.CommitteeData{
		Applications: apps,
		Accounts:     accounts,
	})
}
