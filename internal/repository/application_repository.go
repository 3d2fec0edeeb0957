package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/asdominguez/abstracts-portal/internal/model"
)

// ApplicationRepo provides persistence operations over reviewer volunteer
// applications.
type ApplicationRepo struct{ DB *sql.DB }

func NewApplicationRepo(db *sql.DB) *ApplicationRepo { return &ApplicationRepo{DB: db} }

// ApplicationForm carries the fields of a submitted volunteer application.
// Roles may arrive as a single value or a list depending on how many
// checkboxes the form sent; NormalizeRoles flattens either shape.
type ApplicationForm struct {
	Name       string
	Department string
	Email      string
	Roles      []string
}

// NormalizeRoles trims the submitted role values and validates each against
// the closed duty set.  Unknown values are rejected rather than dropped so a
// tampered form fails loudly.
func NormalizeRoles(values []string) ([]string, error) {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if !model.ValidApplicationRole(v) {
			return nil, ErrMissingFields
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, ErrMissingFields
	}
	return out, nil
}

// CreateOnce inserts the reviewer's application with status Pending.  A
// reviewer may apply exactly once; the pre-check and the unique index on
// applications.reviewer_id both report ErrAlreadyApplied.
func (r *ApplicationRepo) CreateOnce(ctx context.Context, reviewerID uint64, in ApplicationForm) (model.Application, error) {
	if reviewerID == 0 {
		return model.Application{}, ErrMissingFields
	}

	var existing uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM applications WHERE reviewer_id=? LIMIT 1", reviewerID).Scan(&existing)
	if err == nil {
		return model.Application{}, ErrAlreadyApplied
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Application{}, err
	}

	name := strings.TrimSpace(in.Name)
	department := strings.TrimSpace(in.Department)
	email := strings.TrimSpace(in.Email)
	if name == "" || department == "" || email == "" {
		return model.Application{}, ErrMissingFields
	}
	roles, err := NormalizeRoles(in.Roles)
	if err != nil {
		return model.Application{}, err
	}
	rolesJSON, err := json.Marshal(roles)
	if err != nil {
		return model.Application{}, err
	}

	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO applications (reviewer_id, name, department, email, roles, status) VALUES (?,?,?,?,?,?)",
		reviewerID, name, department, email, string(rolesJSON), string(model.StatusPending))
	if err != nil {
		if isDuplicateKey(err) {
			return model.Application{}, ErrAlreadyApplied
		}
		return model.Application{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Application{}, err
	}
	return model.Application{
		ID:         uint64(id),
		ReviewerID: reviewerID,
		Name:       name,
		Department: department,
		Email:      email,
		Roles:      roles,
		Status:     model.StatusPending,
	}, nil
}

// ListByStatus returns applications with the given status, defaulting to
// Pending when status is empty.
func (r *ApplicationRepo) ListByStatus(ctx context.Context, status model.Status) ([]model.Application, error) {
	if status == "" {
		status = model.StatusPending
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,reviewer_id,name,department,email,roles,status FROM applications WHERE status=? ORDER BY id",
		string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Application{}
	for rows.Next() {
		var a model.Application
		var rolesJSON string
		if err := rows.Scan(&a.ID, &a.ReviewerID, &a.Name, &a.Department, &a.Email, &rolesJSON, &a.Status); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(rolesJSON), &a.Roles); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SetStatus updates an application's status and returns the new record.
// Re-deciding an already-decided application simply overwrites the status.
func (r *ApplicationRepo) SetStatus(ctx context.Context, id uint64, status model.Status) (model.Application, error) {
	if !status.Valid() {
		return model.Application{}, ErrInvalidStatus
	}
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE applications SET status=? WHERE id=?", string(status), id); err != nil {
		return model.Application{}, err
	}

	var a model.Application
	var rolesJSON string
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,reviewer_id,name,department,email,roles,status FROM applications WHERE id=? LIMIT 1", id).
		Scan(&a.ID, &a.ReviewerID, &a.Name, &a.Department, &a.Email, &rolesJSON, &a.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Application{}, ErrNotFound
	}
	if err != nil {
		return model.Application{}, err
	}
	if err := json.Unmarshal([]byte(rolesJSON), &a.Roles); err != nil {
		return model.Application{}, err
	}
	return a, nil
}

// HasApplied reports whether the reviewer already has an application on
// file.  The reviewer application page uses it to swap the form for a
// submitted notice.
func (r *ApplicationRepo) HasApplied(ctx context.Context, reviewerID uint64) (bool, error) {
	var id uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM applications WHERE reviewer_id=? LIMIT 1", reviewerID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
