package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/asdominguez/abstracts-portal/internal/middleware"
	"github.com/asdominguez/abstracts-portal/internal/model"
	"github.com/asdominguez/abstracts-portal/internal/repository"
	"github.com/asdominguez/abstracts-portal/internal/view"
)

// ReviewerHandler serves the volunteer application form.  Routes are guarded
// by RequireRole(Reviewer).
type ReviewerHandler struct {
	Applications ApplicationStore
}

func NewReviewerHandler(applications ApplicationStore) *ReviewerHandler {
	return &ReviewerHandler{Applications: applications}
}

// GetApplication shows the form, or a submitted notice if the reviewer
// already applied.
func (h *ReviewerHandler) GetApplication(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	ctx, cancel := reqContext(c)
	defer cancel()

	applied, err := h.Applications.HasApplied(ctx, sess.AccountID)
	if err != nil {
		logrus.WithError(err).Error("application lookup failed")
		return c.String(http.StatusInternalServerError, "Server error")
	}
	if applied {
		return view.Render(c, http.StatusOK, "application-submitted", nil)
	}
	return view.Render(c, http.StatusOK, "application-form", view.ApplicationFormData{
		Roles: model.ApplicationRoles,
	})
}

// PostApplication submits the application.  The roles field may arrive as a
// single value or repeated values depending on how many checkboxes were
// ticked; both shapes are accepted.
func (h *ReviewerHandler) PostApplication(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	if err := c.Request().ParseForm(); err != nil {
		return c.String(http.StatusBadRequest, "Could not submit application: invalid form")
	}
	form := c.Request().Form
	roles := append(form["roles"], form["roles[]"]...)

	ctx, cancel := reqContext(c)
	defer cancel()

	_, err := h.Applications.CreateOnce(ctx, sess.AccountID, repository.ApplicationForm{
		Name:       c.FormValue("name"),
		Department: c.FormValue("department"),
		Email:      c.FormValue("email"),
		Roles:      roles,
	})
	if err != nil {
		if isValidation(err) {
			return c.String(http.StatusBadRequest, "Could not submit application: "+err.Error())
		}
		logrus.WithError(err).Error("application submit failed")
		return c.String(http.StatusInternalServerError, "Server error")
	}
	return c.Redirect(http.StatusFound, "/dashboard")
}
