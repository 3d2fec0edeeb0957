// Package handler implements the portal's workflow controllers.  Handlers
// bundle their dependencies as small store interfaces so tests can swap in
// fakes; the repository types satisfy them.
package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/asdominguez/abstracts-portal/internal/model"
	"github.com/asdominguez/abstracts-portal/internal/repository"
)

// AccountStore is the slice of repository.AccountRepo the handlers use.
type AccountStore interface {
	FindByIdentifier(ctx context.Context, identifier string) (model.Account, error)
	Create(ctx context.Context, in repository.CreateAccount, bcryptCost int) (model.Account, error)
	ListByStatus(ctx context.Context, status model.Status) ([]model.Account, error)
	SetStatus(ctx context.Context, id uint64, status model.Status) (model.Account, error)
	ListNonAdmin(ctx context.Context) ([]model.Account, error)
	DeleteNonAdmin(ctx context.Context, id uint64) (model.Account, error)
}

// ApplicationStore is the slice of repository.ApplicationRepo the handlers use.
type ApplicationStore interface {
	CreateOnce(ctx context.Context, reviewerID uint64, in repository.ApplicationForm) (model.Application, error)
	ListByStatus(ctx context.Context, status model.Status) ([]model.Application, error)
	SetStatus(ctx context.Context, id uint64, status model.Status) (model.Application, error)
	HasApplied(ctx context.Context, reviewerID uint64) (bool, error)
}

// reqContext bounds a store call to the request with the usual 5s ceiling.
func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}
