package models

import (
	"time"

	"github.com/google/uuid"
)

// Dashboard is a saved analytics view belonging to a team. Fresh signups
// get a pinned starter dashboard on their default team.
type Dashboard struct {
	ID          uuid.UUID `json:"id"`
	TeamID      uuid.UUID `json:"team_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Pinned      bool      `json:"pinned"`
	CreatedAt   time.Time `json:"created_at"`
}
