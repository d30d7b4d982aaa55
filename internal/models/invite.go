package models

import (
	"time"

	"github.com/google/uuid"
)

// InviteTTL is how long an organization invite stays claimable.
const InviteTTL = 72 * time.Hour

// OrganizationInvite is a pending invitation to join an organization. The
// row's UUID primary key doubles as the invite token embedded in the join
// link, and the invite is deleted once claimed.
type OrganizationInvite struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	TargetEmail    string    `json:"target_email"`
	FirstName      string    `json:"first_name"`
	CreatedBy      *int64    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// IsExpired reports whether the invite is past its TTL at the given time.
func (i *OrganizationInvite) IsExpired(now time.Time) bool {
	return now.Sub(i.CreatedAt) > InviteTTL
}
