package model

import "time"

// Role controls what a user may see and change.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleLeader Role = "leader"
	RoleViewer Role = "viewer"
)

// ClientLeader is the staff member accountable for a deal, job or account
// relationship. Deleting a leader deletes every deal that references it;
// the cascade is intentional, not a soft-dissociation.
type ClientLeader struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Avatar         string    `json:"avatar,omitempty"`
	IndustryGroups []string  `json:"industry_groups"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

// MemberOf reports whether the leader belongs to the given industry group.
func (l ClientLeader) MemberOf(group string) bool {
	for _, g := range l.IndustryGroups {
		if g == group {
			return true
		}
	}
	return false
}
