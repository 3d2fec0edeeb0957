package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/asdominguez/abstracts-portal/internal/model"
	"github.com/asdominguez/abstracts-portal/internal/queue"
	"github.com/asdominguez/abstracts-portal/internal/repository"
	queuepub "github.com/asdominguez/abstracts-portal/internal/service"
)

// CommitteeHandler records approve/deny decisions on pending applications
// and accounts.  Routes are guarded by RequireRole(Committee).  Decisions
// overwrite the status unconditionally, so re-deciding an item is an
// idempotent overwrite rather than an error.
//
// The publish functions emit best-effort broker events after a decision;
// they default to the RabbitMQ publisher and are swappable in tests.
type CommitteeHandler struct {
	Accounts     AccountStore
	Applications ApplicationStore

	publishAccount     func(context.Context, queue.AccountDecidedEvent) error
	publishApplication func(context.Context, queue.ApplicationDecidedEvent) error
}

func NewCommitteeHandler(accounts AccountStore, applications ApplicationStore) *CommitteeHandler {
	return &CommitteeHandler{
		Accounts:           accounts,
		Applications:       applications,
		publishAccount:     queuepub.PublishAccountDecided,
		publishApplication: queuepub.PublishApplicationDecided,
	}
}

func (h *CommitteeHandler) ApproveApplication(c echo.Context) error {
	return h.decideApplication(c, model.StatusApproved)
}

func (h *CommitteeHandler) DenyApplication(c echo.Context) error {
	return h.decideApplication(c, model.StatusDenied)
}

func (h *CommitteeHandler) ApproveAccount(c echo.Context) error {
	return h.decideAccount(c, model.StatusApproved)
}

func (h *CommitteeHandler) DenyAccount(c echo.Context) error {
	return h.decideAccount(c, model.StatusDenied)
}

func (h *CommitteeHandler) decideApplication(c echo.Context, status model.Status) error {
	id, err := pathID(c)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid id.")
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	app, err := h.Applications.SetStatus(ctx, id, status)
	if err != nil {
		return decisionError(c, err, "application status update failed")
	}
	// Broker outages must not fail the decision; the error is already logged
	// by the publisher.
	_ = h.publishApplication(ctx, queue.ApplicationDecidedEvent{
		ApplicationID: app.ID,
		ReviewerID:    app.ReviewerID,
		Email:         app.Email,
		Roles:         app.Roles,
		Status:        string(app.Status),
		DecidedAt:     time.Now().UTC().Format(time.RFC3339),
	})
	return c.Redirect(http.StatusFound, "/dashboard")
}

func (h *CommitteeHandler) decideAccount(c echo.Context, status model.Status) error {
	id, err := pathID(c)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid id.")
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	account, err := h.Accounts.SetStatus(ctx, id, status)
	if err != nil {
		return decisionError(c, err, "account status update failed")
	}
	_ = h.publishAccount(ctx, queue.AccountDecidedEvent{
		AccountID:   account.ID,
		AccountType: string(account.AccountType),
		Email:       account.Email,
		Status:      string(account.Status),
		DecidedAt:   time.Now().UTC().Format(time.RFC3339),
	})
	return c.Redirect(http.StatusFound, "/dashboard")
}

func decisionError(c echo.Context, err error, logMsg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.String(http.StatusNotFound, "Not Found")
	}
	if errors.Is(err, repository.ErrInvalidStatus) {
		return c.String(http.StatusBadRequest, "Invalid status.")
	}
	logrus.WithError(err).Error(logMsg)
	return c.String(http.StatusInternalServerError, "Server error")
}
