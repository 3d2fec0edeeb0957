package model

import "time"

// AccountType enumerates the closed set of account roles.  The values are
// stored verbatim in the accounts.account_type column and cached in the
// session snapshot, so they must never be renamed once deployed.
type AccountType string

const (
	AccountStudent   AccountType = "Student"
	AccountReviewer  AccountType = "Reviewer"
	AccountCommittee AccountType = "Committee"
	AccountAdmin     AccountType = "Admin"
)

// Valid reports whether t is one of the four known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountStudent, AccountReviewer, AccountCommittee, AccountAdmin:
		return true
	}
	return false
}

// Status is the three-state approval lifecycle shared by accounts and
// reviewer applications.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusDenied   Status = "Denied"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDenied:
		return true
	}
	return false
}

// Account mirrors the `accounts` table.  Username and Email are optional per
// account type (only the bootstrap Admin uses a username in practice); an
// empty string means the column is NULL and does not participate in the
// unique indexes.  PasswordHash holds the bcrypt digest and is left empty by
// list queries so it never reaches a rendered page.
type Account struct {
	ID           uint64      // accounts.id
	AccountType  AccountType // accounts.account_type
	Username     string      // accounts.username (nullable, unique when set)
	Email        string      // accounts.email (nullable, unique when set, stored lower-cased)
	PasswordHash string      // accounts.password_hash
	SubjectArea  string      // accounts.subject_area (nullable)
	Status       Status      // accounts.status
	CreatedAt    time.Time   // accounts.created_at
	UpdatedAt    time.Time   // accounts.updated_at
}
