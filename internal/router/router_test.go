package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/asdominguez/abstracts-portal/internal/auth"
	"github.com/asdominguez/abstracts-portal/internal/handler"
	"github.com/asdominguez/abstracts-portal/internal/middleware"
	"github.com/asdominguez/abstracts-portal/internal/model"
	"github.com/asdominguez/abstracts-portal/internal/repository"
	"github.com/asdominguez/abstracts-portal/internal/session"
)

// memAccounts is an in-memory AccountStore mirroring the repository's
// contract closely enough for route-level tests: email uniqueness, Pending
// on create, no Admin registration, hash stripping on list queries.
type memAccounts struct {
	mu     sync.Mutex
	byID   map[uint64]model.Account
	nextID uint64
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byID: make(map[uint64]model.Account), nextID: 1}
}

func (s *memAccounts) add(a model.Account) model.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.nextID
	s.nextID++
	s.byID[a.ID] = a
	return a
}

func (s *memAccounts) FindByIdentifier(_ context.Context, identifier string) (model.Account, error) {
	id := strings.TrimSpace(identifier)
	if id == "" {
		return model.Account{}, repository.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.byID {
		if strings.Contains(id, "@") {
			if a.Email == repository.NormalizeEmail(id) {
				return a, nil
			}
		} else if a.Username == id {
			return a, nil
		}
	}
	return model.Account{}, repository.ErrNotFound
}

func (s *memAccounts) Create(_ context.Context, in repository.CreateAccount, bcryptCost int) (model.Account, error) {
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
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.byID {
		if a.Email == email {
			return model.Account{}, repository.ErrEmailExists
		}
	}
	hash, err := auth.HashPassword(in.Password, bcryptCost)
	if err != nil {
		return model.Account{}, err
	}
	a := model.Account{
		ID:           s.nextID,
		AccountType:  in.AccountType,
		Email:        email,
		PasswordHash: hash,
		SubjectArea:  strings.TrimSpace(in.SubjectArea),
		Status:       model.StatusPending,
	}
	s.nextID++
	s.byID[a.ID] = a
	return a, nil
}

func (s *memAccounts) ListByStatus(_ context.Context, status model.Status) ([]model.Account, error) {
	if status == "" {
		status = model.StatusPending
	}
	if !status.Valid() {
		return nil, repository.ErrInvalidStatus
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Account
	for _, a := range s.byID {
		if a.Status == status && a.AccountType != model.AccountAdmin {
			a.PasswordHash = ""
			out = append(out, a)
		}
	}
	sortAccounts(out)
	return out, nil
}

func (s *memAccounts) SetStatus(_ context.Context, id uint64, status model.Status) (model.Account, error) {
	if !status.Valid() {
		return model.Account{}, repository.ErrInvalidStatus
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return model.Account{}, repository.ErrNotFound
	}
	a.Status = status
	s.byID[id] = a
	return a, nil
}

func (s *memAccounts) ListNonAdmin(_ context.Context) ([]model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Account
	for _, a := range s.byID {
		if a.AccountType != model.AccountAdmin {
			a.PasswordHash = ""
			out = append(out, a)
		}
	}
	sortAccounts(out)
	return out, nil
}

func (s *memAccounts) DeleteNonAdmin(_ context.Context, id uint64) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok || a.AccountType == model.AccountAdmin {
		return model.Account{}, repository.ErrNotFound
	}
	delete(s.byID, id)
	return a, nil
}

func sortAccounts(accounts []model.Account) {
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
}

// memApps is the matching in-memory ApplicationStore.
type memApps struct {
	mu     sync.Mutex
	byID   map[uint64]model.Application
	nextID uint64
}

func newMemApps() *memApps {
	return &memApps{byID: make(map[uint64]model.Application), nextID: 1}
}

func (s *memApps) CreateOnce(_ context.Context, reviewerID uint64, in repository.ApplicationForm) (model.Application, error) {
	if reviewerID == 0 {
		return model.Application{}, repository.ErrMissingFields
	}
	roles, err := repository.NormalizeRoles(in.Roles)
	if err != nil {
		return model.Application{}, err
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Department) == "" ||
		repository.NormalizeEmail(in.Email) == "" {
		return model.Application{}, repository.ErrMissingFields
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, app := range s.byID {
		if app.ReviewerID == reviewerID {
			return model.Application{}, repository.ErrAlreadyApplied
		}
	}
	app := model.Application{
		ID:         s.nextID,
		ReviewerID: reviewerID,
		Name:       strings.TrimSpace(in.Name),
		Department: strings.TrimSpace(in.Department),
		Email:      repository.NormalizeEmail(in.Email),
		Roles:      roles,
		Status:     model.StatusPending,
	}
	s.nextID++
	s.byID[app.ID] = app
	return app, nil
}

func (s *memApps) ListByStatus(_ context.Context, status model.Status) ([]model.Application, error) {
	if status == "" {
		status = model.StatusPending
	}
	if !status.Valid() {
		return nil, repository.ErrInvalidStatus
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Application
	for _, app := range s.byID {
		if app.Status == status {
			out = append(out, app)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memApps) SetStatus(_ context.Context, id uint64, status model.Status) (model.Application, error) {
	if !status.Valid() {
		return model.Application{}, repository.ErrInvalidStatus
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.byID[id]
	if !ok {
		return model.Application{}, repository.ErrNotFound
	}
	app.Status = status
	s.byID[id] = app
	return app, nil
}

func (s *memApps) HasApplied(_ context.Context, reviewerID uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, app := range s.byID {
		if app.ReviewerID == reviewerID {
			return true, nil
		}
	}
	return false, nil
}

type testServer struct {
	e        *echo.Echo
	accounts *memAccounts
	apps     *memApps
	sessions session.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	accounts := newMemAccounts()
	apps := newMemApps()
	sessions := session.NewMemoryStore(time.Hour)

	e := echo.New()
	RegisterRoutes(e, Deps{
		Sessions:  sessions,
		Auth:      handler.NewAuthHandler(accounts, sessions, time.Hour),
		Register:  handler.NewRegisterHandler(accounts, bcrypt.MinCost),
		Dashboard: handler.NewDashboardHandler(accounts, apps),
		Reviewer:  handler.NewReviewerHandler(apps),
		Committee: handler.NewCommitteeHandler(accounts, apps),
		Admin:     handler.NewAdminHandler(accounts),
	})
	return &testServer{e: e, accounts: accounts, apps: apps, sessions: sessions}
}

func (ts *testServer) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) post(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

// seed inserts an account directly and returns a logged-in session cookie.
func (ts *testServer) seed(t *testing.T, typ model.AccountType, email string, status model.Status) (*http.Cookie, model.Account) {
	t.Helper()
	hash, err := auth.HashPassword("secret-pw", bcrypt.MinCost)
	require.NoError(t, err)
	a := ts.accounts.add(model.Account{
		AccountType:  typ,
		Email:        email,
		PasswordHash: hash,
		Status:       status,
	})
	id, err := ts.sessions.Create(context.Background(), &session.Session{
		AccountID:   a.ID,
		AccountType: a.AccountType,
		Email:       a.Email,
		Status:      a.Status,
	})
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.CookieName, Value: id}, a
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.CookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestRegisterLoginDashboardFlow(t *testing.T) {
	ts := newTestServer(t)

	// Register.
	rec := ts.post("/register/student", url.Values{
		"email":    {"Ada@Example.COM"},
		"password": {"secret-pw"},
	}, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))

	// Login with the raw (un-normalized) email.
	rec = ts.post("/login", url.Values{
		"identifier": {"Ada@Example.COM"},
		"password":   {"secret-pw"},
	}, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get(echo.HeaderLocation))
	cookie := sessionCookie(t, rec)

	// A fresh student is Pending and lands on the placeholder dashboard.
	rec = ts.get("/dashboard", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "awaiting a decision")

	// Approval shows up after the next login, not on the existing session.
	_, err := ts.accounts.SetStatus(context.Background(), 1, model.StatusApproved)
	require.NoError(t, err)
	rec = ts.get("/dashboard", cookie)
	assert.Contains(t, rec.Body.String(), "awaiting a decision")

	rec = ts.post("/login", url.Values{
		"identifier": {"ada@example.com"},
		"password":   {"secret-pw"},
	}, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	rec = ts.get("/dashboard", sessionCookie(t, rec))
	assert.Contains(t, rec.Body.String(), "Student Dashboard")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ts := newTestServer(t)
	_, a := ts.seed(t, model.AccountStudent, "ada@example.com", model.StatusApproved)

	rec := ts.post("/login", url.Values{"identifier": {a.Email}, "password": {"wrong"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials.", rec.Body.String())

	rec = ts.post("/login", url.Values{"identifier": {"nobody@example.com"}, "password": {"wrong"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials.", rec.Body.String())
}

func TestGuards(t *testing.T) {
	ts := newTestServer(t)

	// Anonymous requests bounce to the login page.
	for _, path := range []string{"/dashboard", "/admin/accounts", "/reviewer/application"} {
		rec := ts.get(path, nil)
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation), path)
	}

	// A student is authenticated but not authorized for the admin area.
	cookie, _ := ts.seed(t, model.AccountStudent, "ada@example.com", model.StatusApproved)
	rec := ts.get("/admin/accounts", cookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden", rec.Body.String())
}

func TestReviewerApplicationFlow(t *testing.T) {
	ts := newTestServer(t)
	cookie, _ := ts.seed(t, model.AccountReviewer, "rev@example.com", model.StatusApproved)

	rec := ts.get("/reviewer/application", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), model.RoleReviewerOfAbstracts)

	rec = ts.post("/reviewer/application", url.Values{
		"name":       {"R. Viewer"},
		"department": {"Physics"},
		"email":      {"rev@example.com"},
		"roles":      {model.RoleReviewerOfAbstracts, model.RoleJudgePoster},
	}, cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get(echo.HeaderLocation))

	// The unique reviewer index makes the second attempt a 400.
	rec = ts.post("/reviewer/application", url.Values{
		"name":       {"R. Viewer"},
		"department": {"Physics"},
		"email":      {"rev@example.com"},
		"roles":      {model.RoleJudgeOral},
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "application already submitted")

	rec = ts.get("/reviewer/application", cookie)
	assert.Contains(t, rec.Body.String(), "already submitted")
}

func TestCommitteeApproveFlow(t *testing.T) {
	// Decisions publish a best-effort broker event; point the publisher at a
	// closed port so the attempt fails fast instead of finding a live broker.
	t.Setenv("RABBITMQ_URL", "amqp://127.0.0.1:1/")

	ts := newTestServer(t)
	cookie, _ := ts.seed(t, model.AccountCommittee, "chair@example.com", model.StatusApproved)
	_, pending := ts.seed(t, model.AccountReviewer, "rev@example.com", model.StatusPending)

	// The pending reviewer sits in the committee queue.
	rec := ts.get("/dashboard", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rev@example.com")

	rec = ts.post("/committee/accounts/"+strconvID(pending.ID)+"/approve", nil, cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get(echo.HeaderLocation))

	got, err := ts.accounts.FindByIdentifier(context.Background(), pending.Email)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got.Status)

	// Decided accounts drop out of the queue.
	rec = ts.get("/dashboard", cookie)
	assert.NotContains(t, rec.Body.String(), "rev@example.com")
}

func TestAdminManageAccounts(t *testing.T) {
	ts := newTestServer(t)
	cookie, _ := ts.seed(t, model.AccountAdmin, "", model.StatusApproved)
	_, student := ts.seed(t, model.AccountStudent, "ada@example.com", model.StatusApproved)

	rec := ts.get("/admin/accounts", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Manage Accounts")
	assert.Contains(t, rec.Body.String(), "ada@example.com")

	rec = ts.post("/admin/accounts/"+strconvID(student.ID)+"/delete", nil, cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/accounts", rec.Header().Get(echo.HeaderLocation))

	rec = ts.get("/admin/accounts", cookie)
	assert.NotContains(t, rec.Body.String(), "ada@example.com")
}

func TestLogoutInvalidatesSession(t *testing.T) {
	ts := newTestServer(t)
	cookie, _ := ts.seed(t, model.AccountStudent, "ada@example.com", model.StatusApproved)

	rec := ts.post("/logout", nil, cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	rec = ts.get("/dashboard", cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
}

func TestUnknownRouteNotFound(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.get("/no-such-page", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", rec.Body.String())
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.get("/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func strconvID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
