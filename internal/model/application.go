package model

import "time"

// Volunteer duties a reviewer may apply for.  The set is closed; form input
// outside of it is rejected at the repository layer.
const (
	RoleReviewerOfAbstracts = "Reviewer of Abstracts"
	RoleJudgeOral           = "Judge for Oral Presentations"
	RoleJudgePoster         = "Judge for Poster Presentations"
)

// ApplicationRoles lists every accepted volunteer duty.
var ApplicationRoles = []string{
	RoleReviewerOfAbstracts,
	RoleJudgeOral,
	RoleJudgePoster,
}

// ValidApplicationRole reports whether r is one of the accepted duties.
func ValidApplicationRole(r string) bool {
	for _, known := range ApplicationRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Application mirrors the `applications` table.  ReviewerID carries a unique
// index, so a reviewer account can hold at most one application ever.  Roles
// is stored as a JSON array column; ordering and duplicates carry no meaning
// beyond display.
type Application struct {
	ID         uint64    // applications.id
	ReviewerID uint64    // applications.reviewer_id (unique)
	Name       string    // applications.name
	Department string    // applications.department
	Email      string    // applications.email
	Roles      []string  // applications.roles (JSON array)
	Status     Status    // applications.status
	CreatedAt  time.Time // applications.created_at
	UpdatedAt  time.Time // applications.updated_at
}
