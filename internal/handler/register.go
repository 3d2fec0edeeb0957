package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/asdominguez/abstracts-portal/internal/model"
	"github.com/asdominguez/abstracts-portal/internal/repository"
	"github.com/asdominguez/abstracts-portal/internal/view"
)

// RegisterHandler serves the public registration paths.  There is no path
// that creates an Admin account; that type exists only through the startup
// bootstrap.
type RegisterHandler struct {
	Accounts   AccountStore
	BcryptCost int
}

func NewRegisterHandler(accounts AccountStore, bcryptCost int) *RegisterHandler {
	return &RegisterHandler{Accounts: accounts, BcryptCost: bcryptCost}
}

// GetRegister renders the account-type chooser.
func (h *RegisterHandler) GetRegister(c echo.Context) error {
	return view.Render(c, http.StatusOK, "register", nil)
}

func (h *RegisterHandler) GetRegisterStudent(c echo.Context) error {
	return view.Render(c, http.StatusOK, "register-student", nil)
}

func (h *RegisterHandler) GetRegisterReviewer(c echo.Context) error {
	return view.Render(c, http.StatusOK, "register-reviewer", nil)
}

func (h *RegisterHandler) GetRegisterCommittee(c echo.Context) error {
	return view.Render(c, http.StatusOK, "register-committee", nil)
}

func (h *RegisterHandler) PostRegisterStudent(c echo.Context) error {
	return h.register(c, model.AccountStudent, "Could not create student account: ")
}

func (h *RegisterHandler) PostRegisterReviewer(c echo.Context) error {
	return h.register(c, model.AccountReviewer, "Could not create reviewer account: ")
}

func (h *RegisterHandler) PostRegisterCommittee(c echo.Context) error {
	return h.register(c, model.AccountCommittee, "Could not create committee account: ")
}

func (h *RegisterHandler) register(c echo.Context, t model.AccountType, errPrefix string) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	_, err := h.Accounts.Create(ctx, repository.CreateAccount{
		AccountType: t,
		Email:       c.FormValue("email"),
		Password:    c.FormValue("password"),
		SubjectArea: c.FormValue("subjectArea"),
	}, h.BcryptCost)
	if err != nil {
		// The error text is echoed back to the client, matching the portal's
		// historical behavior for registration failures.
		if isValidation(err) {
			return c.String(http.StatusBadRequest, errPrefix+err.Error())
		}
		return c.String(http.StatusInternalServerError, errPrefix+err.Error())
	}
	return c.Redirect(http.StatusFound, "/login")
}

// isValidation reports whether err belongs to the caller-facing 400 class.
func isValidation(err error) bool {
	return errors.Is(err, repository.ErrMissingFields) ||
		errors.Is(err, repository.ErrEmailExists) ||
		errors.Is(err, repository.ErrAdminRegistration) ||
		errors.Is(err, repository.ErrAlreadyApplied) ||
		errors.Is(err, repository.ErrInvalidStatus)
}
