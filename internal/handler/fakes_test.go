package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/asdominguez/abstracts-portal/internal/auth"
	"github.com/asdominguez/abstracts-portal/internal/model"
	"github.com/asdominguez/abstracts-portal/internal/repository"
	"github.com/asdominguez/abstracts-portal/internal/session"
)

// fakeAccounts is an in-memory AccountStore mirroring the repository's
// contract, including the Admin rejections and duplicate-email check.
type fakeAccounts struct {
	nextID   uint64
	accounts map[uint64]model.Account
	failWith error // when set, every call fails with it
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{accounts: map[uint64]model.Account{}}
}

func (f *fakeAccounts) add(a model.Account) model.Account {
	f.nextID++
	a.ID = f.nextID
	f.accounts[a.ID] = a
	return a
}

func (f *fakeAccounts) FindByIdentifier(_ context.Context, identifier string) (model.Account, error) {
	if f.failWith != nil {
		return model.Account{}, f.failWith
	}
	id := strings.TrimSpace(identifier)
	if id == "" {
		return model.Account{}, repository.ErrNotFound
	}
	byEmail := strings.Contains(id, "@")
	for _, a := range f.accounts {
		if byEmail && a.Email == repository.NormalizeEmail(id) {
			return a, nil
		}
		if !byEmail && a.Username == id {
			return a, nil
		}
	}
	return model.Account{}, repository.ErrNotFound
}

func (f *fakeAccounts) Create(_ context.Context, in repository.CreateAccount, cost int) (model.Account, error) {
	if f.failWith != nil {
		return model.Account{}, f.failWith
	}
	if !in.AccountType.Valid() || in.Password == "" {
		return model.Account{}, repository.ErrMissingFields
	}
	if in.AccountType == model.AccountAdmin {
		return model.Account{}, repository.ErrAdminRegistration
	}
	email := repository.NormalizeEmail(in.Email)
	if email == "" {
		return model.Account{}, repository.ErrMissingFields
	}
	for _, a := range f.accounts {
		if a.Email == email {
			return model.Account{}, repository.ErrEmailExists
		}
	}
	hash, err := auth.HashPassword(in.Password, cost)
	if err != nil {
		return model.Account{}, err
	}
	return f.add(model.Account{
		AccountType:  in.AccountType,
		Email:        email,
		PasswordHash: hash,
		SubjectArea:  strings.TrimSpace(in.SubjectArea),
		Status:       model.StatusPending,
	}), nil
}

func (f *fakeAccounts) ListByStatus(_ context.Context, status model.Status) ([]model.Account, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if status == "" {
		status = model.StatusPending
	}
	out := []model.Account{}
	for id := uint64(1); id <= f.nextID; id++ {
		if a, ok := f.accounts[id]; ok && a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAccounts) SetStatus(_ context.Context, id uint64, status model.Status) (model.Account, error) {
	if f.failWith != nil {
		return model.Account{}, f.failWith
	}
	if !status.Valid() {
		return model.Account{}, repository.ErrInvalidStatus
	}
	a, ok := f.accounts[id]
	if !ok {
		return model.Account{}, repository.ErrNotFound
	}
	a.Status = status
	f.accounts[id] = a
	return a, nil
}

func (f *fakeAccounts) ListNonAdmin(_ context.Context) ([]model.Account, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := []model.Account{}
	for id := uint64(1); id <= f.nextID; id++ {
		if a, ok := f.accounts[id]; ok && a.AccountType != model.AccountAdmin {
			a.PasswordHash = ""
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAccounts) DeleteNonAdmin(_ context.Context, id uint64) (model.Account, error) {
	if f.failWith != nil {
		return model.Account{}, f.failWith
	}
	a, ok := f.accounts[id]
	if !ok || a.AccountType == model.AccountAdmin {
		return model.Account{}, repository.ErrNotFound
	}
	delete(f.accounts, id)
	a.PasswordHash = ""
	return a, nil
}

// fakeApplications is an in-memory ApplicationStore.
type fakeApplications struct {
	nextID       uint64
	applications map[uint64]model.Application
	failWith     error
}

func newFakeApplications() *fakeApplications {
	return &fakeApplications{applications: map[uint64]model.Application{}}
}

func (f *fakeApplications) add(a model.Application) model.Application {
	f.nextID++
	a.ID = f.nextID
	f.applications[a.ID] = a
	return a
}

func (f *fakeApplications) CreateOnce(_ context.Context, reviewerID uint64, in repository.ApplicationForm) (model.Application, error) {
	if f.failWith != nil {
		return model.Application{}, f.failWith
	}
	if reviewerID == 0 {
		return model.Application{}, repository.ErrMissingFields
	}
	for _, a := range f.applications {
		if a.ReviewerID == reviewerID {
			return model.Application{}, repository.ErrAlreadyApplied
		}
	}
	name := strings.TrimSpace(in.Name)
	department := strings.TrimSpace(in.Department)
	email := strings.TrimSpace(in.Email)
	if name == "" || department == "" || email == "" {
		return model.Application{}, repository.ErrMissingFields
	}
	roles, err := repository.NormalizeRoles(in.Roles)
	if err != nil {
		return model.Application{}, err
	}
	return f.add(model.Application{
		ReviewerID: reviewerID,
		Name:       name,
		Department: department,
		Email:      email,
		Roles:      roles,
		Status:     model.StatusPending,
	}), nil
}

func (f *fakeApplications) ListByStatus(_ context.Context, status model.Status) ([]model.Application, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if status == "" {
		status = model.StatusPending
	}
	out := []model.Application{}
	for id := uint64(1); id <= f.nextID; id++ {
		if a, ok := f.applications[id]; ok && a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeApplications) SetStatus(_ context.Context, id uint64, status model.Status) (model.Application, error) {
	if f.failWith != nil {
		return model.Application{}, f.failWith
	}
	if !status.Valid() {
		return model.Application{}, repository.ErrInvalidStatus
	}
	a, ok := f.applications[id]
	if !ok {
		return model.Application{}, repository.ErrNotFound
	}
	a.Status = status
	f.applications[id] = a
	return a, nil
}

func (f *fakeApplications) HasApplied(_ context.Context, reviewerID uint64) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	for _, a := range f.applications {
		if a.ReviewerID == reviewerID {
			return true, nil
		}
	}
	return false, nil
}

// --- request helpers ---

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

// testContext builds an echo context, optionally pre-loaded with a session
// snapshot the way LoadSession would.
func testContext(t *testing.T, req *http.Request, sess *session.Session) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if sess != nil {
		c.Set("session", sess)
	}
	return c, rec
}
