package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization is the top-level tenant. Created lazily on first signup
// unless the signing-up user is joining via an invite.
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultTeamName is the name given to the project team created alongside
// a new organization.
const DefaultTeamName = "Default Project"

// Team is a project container inside an organization. Every new
// organization gets one team named DefaultTeamName.
type Team struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
