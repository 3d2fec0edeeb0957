// Package session implements the server-side session store.  A session binds
// an opaque cookie value to a snapshot of the account taken at login time.
// The snapshot is deliberately not refreshed when the underlying account
// changes; a status or role change becomes visible at the next login.
package session

import (
	"context"

	"github.com/asdominguez/abstracts-portal/internal/model"
)

// Session is the cached account snapshot established by a successful login.
type Session struct {
	AccountID   uint64            `json:"account_id"`
	AccountType model.AccountType `json:"account_type"`
	Email       string            `json:"email,omitempty"`
	Username    string            `json:"username,omitempty"`
	Status      model.Status      `json:"status"`
}

// Store persists sessions keyed by an opaque id carried in the sid cookie.
// Get renews the entry's TTL on every hit (sliding expiry) and returns
// (nil, nil) for unknown or expired ids so an anonymous request simply
// proceeds unauthenticated.
type Store interface {
	Create(ctx context.Context, s *Session) (string, error)
	Get(ctx context.Context, id string) (*Session, error)
	Destroy(ctx context.Context, id string) error
}
