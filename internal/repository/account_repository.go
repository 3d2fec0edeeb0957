package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/asdominguez/abstracts-portal/internal/auth"
	"github.com/asdominguez/abstracts-portal/internal/model"
)

const accountCols = "id,account_type,username,email,password_hash,subject_area,status,created_at,updated_at"

// AccountRepo provides persistence operations over accounts.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

// CreateAccount carries the fields accepted by the public registration paths.
type CreateAccount struct {
	AccountType model.AccountType
	Email       string
	Password    string
	SubjectArea string
}

// NormalizeEmail lower-cases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func scanAccount(row *sql.Row) (model.Account, error) {
	var a model.Account
	var username, email, subject sql.NullString
	err := row.Scan(&a.ID, &a.AccountType, &username, &email, &a.PasswordHash,
		&subject, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return model.Account{}, err
	}
	a.Username = username.String
	a.Email = email.String
	a.SubjectArea = subject.String
	return a, nil
}

// nullable maps "" to NULL so unset usernames/emails never collide in the
// unique indexes.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// FindByUsername looks up an account by exact trimmed username.  Empty input
// returns ErrNotFound without touching the database.
func (r *AccountRepo) FindByUsername(ctx context.Context, username string) (model.Account, error) {
	u := strings.TrimSpace(username)
	if u == "" {
		return model.Account{}, ErrNotFound
	}
	a, err := scanAccount(r.DB.QueryRowContext(ctx,
		"SELECT "+accountCols+" FROM accounts WHERE username=? LIMIT 1", u))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrNotFound
	}
	return a, err
}

// FindByEmail looks up an account by normalized email.  Empty input returns
// ErrNotFound without touching the database.
func (r *AccountRepo) FindByEmail(ctx context.Context, email string) (model.Account, error) {
	e := NormalizeEmail(email)
	if e == "" {
		return model.Account{}, ErrNotFound
	}
	a, err := scanAccount(r.DB.QueryRowContext(ctx,
		"SELECT "+accountCols+" FROM accounts WHERE email=? LIMIT 1", e))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrNotFound
	}
	return a, err
}

// FindByIdentifier routes an identifier containing "@" to email lookup and
// anything else to username lookup.  An email-shaped username is therefore
// unreachable by username lookup; that ambiguity is accepted.
func (r *AccountRepo) FindByIdentifier(ctx context.Context, identifier string) (model.Account, error) {
	id := strings.TrimSpace(identifier)
	if id == "" {
		return model.Account{}, ErrNotFound
	}
	if strings.Contains(id, "@") {
		return r.FindByEmail(ctx, id)
	}
	return r.FindByUsername(ctx, id)
}

// Create registers a new non-Admin account with status Pending.  The email
// is normalized and must be unique; the password is hashed before the row is
// written.  The unique index on accounts.email backs the pre-check, so a
// concurrent duplicate insert also surfaces as ErrEmailExists.
func (r *AccountRepo) Create(ctx context.Context, in CreateAccount, bcryptCost int) (model.Account, error) {
	if !in.AccountType.Valid() || in.Password == "" {
		return model.Account{}, ErrMissingFields
	}
	if in.AccountType == model.AccountAdmin {
		return model.Account{}, ErrAdminRegistration
	}
	email := NormalizeEmail(in.Email)
	if email == "" {
		return model.Account{}, ErrMissingFields
	}

	var existing uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM accounts WHERE email=? LIMIT 1", email).Scan(&existing)
	if err == nil {
		return model.Account{}, ErrEmailExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, err
	}

	hash, err := auth.HashPassword(in.Password, bcryptCost)
	if err != nil {
		return model.Account{}, err
	}

	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO accounts (account_type, email, password_hash, subject_area, status) VALUES (?,?,?,?,?)",
		string(in.AccountType), email, hash, nullable(strings.TrimSpace(in.SubjectArea)), string(model.StatusPending))
	if err != nil {
		if isDuplicateKey(err) {
			return model.Account{}, ErrEmailExists
		}
		return model.Account{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Account{}, err
	}
	return model.Account{
		ID:           uint64(id),
		AccountType:  in.AccountType,
		Email:        email,
		PasswordHash: hash,
		SubjectArea:  strings.TrimSpace(in.SubjectArea),
		Status:       model.StatusPending,
	}, nil
}

// adminUsername is the fixed username of the bootstrap account.
const adminUsername = "Admin"

// EnsureAdmin is the idempotent startup seed: if no Admin/"Admin" account
// exists it creates one with the given password and reports created=true.
// A concurrent seeder losing the race on the username unique index is
// treated as "already exists".
func (r *AccountRepo) EnsureAdmin(ctx context.Context, password string, bcryptCost int) (bool, error) {
	var existing uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM accounts WHERE account_type=? AND username=? LIMIT 1",
		string(model.AccountAdmin), adminUsername).Scan(&existing)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	hash, err := auth.HashPassword(password, bcryptCost)
	if err != nil {
		return false, err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO accounts (account_type, username, password_hash, status) VALUES (?,?,?,?)",
		string(model.AccountAdmin), adminUsername, hash, string(model.StatusApproved))
	if err != nil {
		if isDuplicateKey(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListByStatus returns accounts with the given status, defaulting to Pending
// when status is empty.  Used by the committee dashboard's signup queue.
func (r *AccountRepo) ListByStatus(ctx context.Context, status model.Status) ([]model.Account, error) {
	if status == "" {
		status = model.StatusPending
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,account_type,username,email,subject_area,status FROM accounts WHERE status=? ORDER BY id",
		string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccounts(rows)
}

// SetStatus updates an account's status and returns the new record.
func (r *AccountRepo) SetStatus(ctx context.Context, id uint64, status model.Status) (model.Account, error) {
	if !status.Valid() {
		return model.Account{}, ErrInvalidStatus
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE accounts SET status=? WHERE id=?", string(status), id)
	if err != nil {
		return model.Account{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Account{}, err
	}
	if n == 0 {
		// Could be a no-op overwrite of the same status; only report not
		// found when the row truly does not exist.
		var exists uint64
		err := r.DB.QueryRowContext(ctx, "SELECT id FROM accounts WHERE id=? LIMIT 1", id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return model.Account{}, ErrNotFound
		}
		if err != nil {
			return model.Account{}, err
		}
	}
	a, err := scanAccount(r.DB.QueryRowContext(ctx,
		"SELECT "+accountCols+" FROM accounts WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrNotFound
	}
	return a, err
}

// ListNonAdmin returns every account except Admins.  Password hashes are not
// selected; the results feed directly into rendered pages.
func (r *AccountRepo) ListNonAdmin(ctx context.Context) ([]model.Account, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,account_type,username,email,subject_area,status FROM accounts WHERE account_type<>? ORDER BY account_type,id",
		string(model.AccountAdmin))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccounts(rows)
}

// DeleteNonAdmin deletes the account with the given id unless it is an
// Admin, returning the removed record without its password hash.  Both "no
// such id" and "id belongs to an Admin" report ErrNotFound; the type check
// lives in the DELETE itself so the exemption holds at the store layer.
func (r *AccountRepo) DeleteNonAdmin(ctx context.Context, id uint64) (model.Account, error) {
	var a model.Account
	var username, email, subject sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,account_type,username,email,subject_area,status FROM accounts WHERE id=? AND account_type<>? LIMIT 1",
		id, string(model.AccountAdmin)).
		Scan(&a.ID, &a.AccountType, &username, &email, &subject, &a.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrNotFound
	}
	if err != nil {
		return model.Account{}, err
	}
	a.Username = username.String
	a.Email = email.String
	a.SubjectArea = subject.String

	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM accounts WHERE id=? AND account_type<>?", id, string(model.AccountAdmin))
	if err != nil {
		return model.Account{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Account{}, err
	}
	if n == 0 {
		return model.Account{}, ErrNotFound
	}
	return a, nil
}

func collectAccounts(rows *sql.Rows) ([]model.Account, error) {
	out := []model.Account{}
	for rows.Next() {
		var a model.Account
		var username, email, subject sql.NullString
		if err := rows.Scan(&a.ID, &a.AccountType, &username, &email, &subject, &a.Status); err != nil {
			return nil, err
		}
		a.Username = username.String
		a.Email = email.String
		a.SubjectArea = subject.String
		out = append(out, a)
	}
	return out, rows.Err()
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry error (1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
