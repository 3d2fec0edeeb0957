package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/asdominguez/abstracts-portal/internal/model"
	"github.com/asdominguez/abstracts-portal/internal/repository"
	"github.com/asdominguez/abstracts-portal/internal/view"
)

// AdminHandler serves the manage-accounts page.  Routes are guarded by
// RequireRole(Admin).  Deletion of Admin accounts is refused by the store
// itself, not just by omitting them from the page.
type AdminHandler struct {
	Accounts AccountStore
}

func NewAdminHandler(accounts AccountStore) *AdminHandler {
	return &AdminHandler{Accounts: accounts}
}

// accountGroupOrder fixes the section order of the manage page.
var accountGroupOrder = []model.AccountType{
	model.AccountStudent,
	model.AccountReviewer,
	model.AccountCommittee,
}

// GetAccounts lists every non-Admin account grouped by type.  Password
// hashes never leave the store for this query.
func (h *AdminHandler) GetAccounts(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	accounts, err := h.Accounts.ListNonAdmin(ctx)
	if err != nil {
		logrus.WithError(err).Error("list accounts failed")
		return c.String(http.StatusInternalServerError, "Server error")
	}

	byType := map[model.AccountType][]model.Account{}
	for _, a := range accounts {
		byType[a.AccountType] = append(byType[a.AccountType], a)
	}
	data := view.AdminAccountsData{}
	for _, t := range accountGroupOrder {
		data.Groups = append(data.Groups, view.AccountGroup{Type: t, Accounts: byType[t]})
	}
	return view.Render(c, http.StatusOK, "admin-accounts", data)
}

// PostDeleteAccount removes a non-Admin account.  An id that does not exist
// and an id that belongs to an Admin both answer 404.
func (h *AdminHandler) PostDeleteAccount(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid id.")
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Accounts.DeleteNonAdmin(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.String(http.StatusNotFound, "Not Found")
		}
		logrus.WithError(err).Error("account delete failed")
		return c.String(http.StatusInternalServerError, "Server error")
	}
	return c.Redirect(http.StatusFound, "/admin/accounts")
}
