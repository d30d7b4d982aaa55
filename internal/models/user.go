package models

import (
	"time"

	"github.com/google/uuid"
)

// Membership level constants
const (
	MembershipMember = "member"
	MembershipAdmin  = "admin"
)

// User represents an account that can belong to one or more organizations.
// ID is the numeric primary key; UUID and DistinctID are stable external
// identifiers (DistinctID is the analytics tracking identifier).
type User struct {
	ID             int64      `json:"id"`
	UUID           uuid.UUID  `json:"uuid"`
	DistinctID     string     `json:"distinct_id"`
	FirstName      string     `json:"first_name"`
	Email          string     `json:"email"`
	HashedPassword string     `json:"-"` // bcrypt; empty for social-only accounts
	EmailOptIn     bool       `json:"email_opt_in"`
	CurrentOrgID   *uuid.UUID `json:"current_organization_id"`
	CurrentTeamID  *uuid.UUID `json:"current_team_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// HasPassword reports whether the user can log in with a password.
func (u *User) HasPassword() bool {
	return u.HashedPassword != ""
}

// Membership is the join record between a user and an organization.
type Membership struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	UserID         int64     `json:"user_id"`
	Level          string    `json:"level"` // member, admin
	JoinedAt       time.Time `json:"joined_at"`
}
