package handlers

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"crewbase/internal/db"
	"crewbase/internal/middleware"
	"crewbase/internal/models"
)

// UserHandler serves the authenticated user's own account.
type UserHandler struct {
	db *db.DB
}

// NewUserHandler creates a new user handler.
func NewUserHandler(database *db.DB) *UserHandler {
	return &UserHandler{db: database}
}

type currentUserResponse struct {
	ID           int64        `json:"id"`
	UUID         uuid.UUID    `json:"uuid"`
	DistinctID   string       `json:"distinct_id"`
	FirstName    string       `json:"first_name"`
	Email        string       `json:"email"`
	EmailOptIn   bool         `json:"email_opt_in"`
	Organization *orgSummary  `json:"organization"`
	Team         *teamSummary `json:"team"`
}

type orgSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	MemberLevel string    `json:"membership_level"`
}

type teamSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Me handles GET /api/user/ and returns the current account with its
// active organization and project team.
func (h *UserHandler) Me(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	resp := currentUserResponse{
		ID:         user.ID,
		UUID:       user.UUID,
		DistinctID: user.DistinctID,
		FirstName:  user.FirstName,
		Email:      user.Email,
		EmailOptIn: user.EmailOptIn,
	}

	if user.CurrentOrgID != nil {
		org, err := h.db.GetOrganizationByID(c.Context(), *user.CurrentOrgID)
		if err != nil {
			return serverError(c, "Could not load the current organization.")
		}
		level := models.MembershipMember
		if m, err := h.db.GetMembership(c.Context(), org.ID, user.ID); err == nil {
			level = m.Level
		}
		resp.Organization = &orgSummary{ID: org.ID, Name: org.Name, MemberLevel: level}
	}

	if user.CurrentTeamID != nil {
		team, err := h.db.GetTeamByID(c.Context(), *user.CurrentTeamID)
		if err != nil {
			return serverError(c, "Could not load the current team.")
		}
		resp.Team = &teamSummary{ID: team.ID, Name: team.Name}
	}

	return c.JSON(resp)
}
