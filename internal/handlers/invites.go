package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"crewbase/internal/db"
	"crewbase/internal/middleware"
	"crewbase/internal/models"
	"crewbase/internal/validation"
)

// InviteHandler manages an organization's pending invites.
type InviteHandler struct {
	db *db.DB
}

// NewInviteHandler creates a new invite handler.
func NewInviteHandler(database *db.DB) *InviteHandler {
	return &InviteHandler{db: database}
}

type createInviteRequest struct {
	TargetEmail string `json:"target_email"`
	FirstName   string `json:"first_name"`
}

type inviteResponse struct {
	ID          uuid.UUID `json:"id"`
	TargetEmail string    `json:"target_email"`
	FirstName   string    `json:"first_name"`
	CreatedBy   *int64    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	IsExpired   bool      `json:"is_expired"`
}

func toInviteResponse(invite models.OrganizationInvite, now time.Time) inviteResponse {
	return inviteResponse{
		ID:          invite.ID,
		TargetEmail: invite.TargetEmail,
		FirstName:   invite.FirstName,
		CreatedBy:   invite.CreatedBy,
		CreatedAt:   invite.CreatedAt,
		IsExpired:   invite.IsExpired(now),
	}
}

// Create handles POST /api/organizations/@current/invites: invites an email
// address to the requester's current organization and sends the invite email.
func (h *InviteHandler) Create(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	org, errResp := h.currentOrg(c, user)
	if org == nil {
		return errResp
	}

	var req createInviteRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return validationError(c, models.CodeInvalidInput, "Malformed request body.", "")
	}

	if req.TargetEmail == "" {
		return validationError(c, models.CodeRequired, "This field is required.", "target_email")
	}
	if !validation.ValidateEmail(req.TargetEmail) {
		return validationError(c, models.CodeInvalidInput, "Enter a valid email address.", "target_email")
	}

	if existing, err := h.db.GetUserByEmail(c.Context(), req.TargetEmail); err == nil {
		member, err := h.db.HasMembership(c.Context(), org.ID, existing.ID)
		if err != nil {
			return serverError(c, "Could not create the invite.")
		}
		if member {
			return validationError(c, models.CodeInvalidInput,
				"A user with this email address already belongs to the organization.", "target_email")
		}
	} else if !errors.Is(err, db.ErrUserNotFound) {
		return serverError(c, "Could not create the invite.")
	}

	invite := &models.OrganizationInvite{
		OrganizationID: org.ID,
		TargetEmail:    req.TargetEmail,
		FirstName:      req.FirstName,
		CreatedBy:      &user.ID,
	}
	if err := h.db.CreateInvite(c.Context(), invite); err != nil {
		log.Printf("Failed to create invite for %s: %v", req.TargetEmail, err)
		return serverError(c, "Could not create the invite.")
	}

	if Notifier != nil {
		Notifier.SendInvite(invite, org, user)
	}

	return c.Status(fiber.StatusCreated).JSON(toInviteResponse(*invite, time.Now()))
}

// List handles GET /api/organizations/@current/invites.
func (h *InviteHandler) List(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	org, errResp := h.currentOrg(c, user)
	if org == nil {
		return errResp
	}

	invites, err := h.db.ListInvites(c.Context(), org.ID)
	if err != nil {
		return serverError(c, "Could not list invites.")
	}

	now := time.Now()
	results := make([]inviteResponse, 0, len(invites))
	for _, invite := range invites {
		results = append(results, toInviteResponse(invite, now))
	}

	return c.JSON(fiber.Map{"results": results})
}

// Delete handles DELETE /api/organizations/@current/invites/:id, revoking a
// pending invite.
func (h *InviteHandler) Delete(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	org, errResp := h.currentOrg(c, user)
	if org == nil {
		return errResp
	}

	inviteID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return validationError(c, models.CodeInvalidInput, "The provided invite ID is not valid.", "")
	}

	invite, err := h.db.GetInviteByID(c.Context(), inviteID)
	if errors.Is(err, db.ErrInviteNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(models.ValidationError(
			models.CodeInvalidInput, "The provided invite ID is not valid.", ""))
	}
	if err != nil {
		return serverError(c, "Could not revoke the invite.")
	}

	// Invites are scoped to the requester's organization.
	if invite.OrganizationID != org.ID {
		return c.Status(fiber.StatusNotFound).JSON(models.ValidationError(
			models.CodeInvalidInput, "The provided invite ID is not valid.", ""))
	}

	if err := h.db.DeleteInvite(c.Context(), invite.ID); err != nil {
		return serverError(c, "Could not revoke the invite.")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// currentOrg resolves the requester's current organization, verifying the
// membership still exists. A nil organization means the error response has
// already been written; the caller returns the accompanying error value.
func (h *InviteHandler) currentOrg(c fiber.Ctx, user *models.User) (*models.Organization, error) {
	if user.CurrentOrgID == nil {
		return nil, permissionDenied(c, "You do not belong to an organization.")
	}

	org, err := h.db.GetOrganizationByID(c.Context(), *user.CurrentOrgID)
	if err != nil {
		return nil, serverError(c, "Could not load the current organization.")
	}

	member, err := h.db.HasMembership(c.Context(), org.ID, user.ID)
	if err != nil {
		return nil, serverError(c, "Could not load the current organization.")
	}
	if !member {
		return nil, permissionDenied(c, "You do not belong to this organization.")
	}

	return org, nil
}
