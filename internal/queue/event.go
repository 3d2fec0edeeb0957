// Package queue defines message payloads exchanged over the message broker.
package queue

// AccountDecidedEvent is published when a committee member approves or
// denies a pending account.  Downstream consumers (notification mail,
// analytics) get enough to act without querying the primary database.
type AccountDecidedEvent struct {
	AccountID   uint64 `json:"account_id"`
	AccountType string `json:"account_type"`
	Email       string `json:"email,omitempty"`
	Status      string `json:"status"`
	DecidedAt   string `json:"decided_at"`
}

// ApplicationDecidedEvent is published when a reviewer volunteer
// application is approved or denied.
type ApplicationDecidedEvent struct {
	ApplicationID uint64   `json:"application_id"`
	ReviewerID    uint64   `json:"reviewer_id"`
	Email         string   `json:"email"`
	Roles         []string `json:"roles"`
	Status        string   `json:"status"`
	DecidedAt     string   `json:"decided_at"`
}
