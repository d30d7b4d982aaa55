package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"crewbase/internal/analytics"
	"crewbase/internal/config"
	"crewbase/internal/db"
	"crewbase/internal/metrics"
	"crewbase/internal/middleware"
	"crewbase/internal/models"
	"crewbase/internal/validation"
)

// Signup orchestration branch names reported in analytics events.
const (
	processorOrganizationSignup = "organization_signup"
	processorInviteSignup       = "organization_invite_signup"
)

// redirectOnboarding is where fresh signups land after account creation.
const redirectOnboarding = "/onboarding"

// SignupHandler handles direct, invite-based and social signup.
type SignupHandler struct {
	db        *db.DB
	cfg       *config.Config
	analytics analytics.Client
}

// NewSignupHandler creates a new signup handler.
func NewSignupHandler(database *db.DB, cfg *config.Config, client analytics.Client) *SignupHandler {
	return &SignupHandler{db: database, cfg: cfg, analytics: client}
}

type signupRequest struct {
	FirstName        string `json:"first_name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	OrganizationName string `json:"organization_name"`
	EmailOptIn       *bool  `json:"email_opt_in"`
}

type signupResponse struct {
	ID          int64     `json:"id"`
	UUID        uuid.UUID `json:"uuid"`
	DistinctID  string    `json:"distinct_id"`
	FirstName   string    `json:"first_name"`
	Email       string    `json:"email"`
	RedirectURL string    `json:"redirect_url,omitempty"`
}

func userResponse(user *models.User, redirectURL string) signupResponse {
	return signupResponse{
		ID:          user.ID,
		UUID:        user.UUID,
		DistinctID:  user.DistinctID,
		FirstName:   user.FirstName,
		Email:       user.Email,
		RedirectURL: redirectURL,
	}
}

// PostSignup handles POST /api/signup: a fresh signup that bootstraps a new
// organization with its default project team.
func (h *SignupHandler) PostSignup(c fiber.Ctx) error {
	var req signupRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return validationError(c, models.CodeInvalidInput, "Malformed request body.", "")
		}
	}

	for _, field := range []struct{ name, value string }{
		{"first_name", req.FirstName},
		{"email", req.Email},
		{"password", req.Password},
	} {
		if field.value == "" {
			return validationError(c, models.CodeRequired, "This field is required.", field.name)
		}
	}

	if !validation.ValidatePassword(req.Password) {
		return validationError(c, models.CodePasswordTooShort,
			fmt.Sprintf("This password is too short. It must contain at least %d characters.", validation.MinPasswordLength),
			"password")
	}

	if !validation.ValidateEmail(req.Email) {
		return validationError(c, models.CodeInvalidInput, "Enter a valid email address.", "email")
	}

	allowed, err := h.newOrgAllowed(c.Context())
	if err != nil {
		return serverError(c, "Could not complete the signup.")
	}
	if !allowed {
		return permissionDenied(c,
			"New organizations cannot be created in this instance. Contact your administrator if you think this is a mistake.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return serverError(c, "Could not complete the signup.")
	}

	orgName := req.OrganizationName
	if orgName == "" {
		orgName = req.FirstName
	}

	optIn := true
	if req.EmailOptIn != nil {
		optIn = *req.EmailOptIn
	}

	res, err := h.db.Bootstrap(c.Context(), orgName, db.NewUserParams{
		FirstName:      req.FirstName,
		Email:          req.Email,
		HashedPassword: string(hash),
		EmailOptIn:     optIn,
	})
	if errors.Is(err, db.ErrDuplicateEmail) {
		return validationError(c, models.CodeUnique,
			"There is already an account with this email address.", "email")
	}
	if err != nil {
		log.Printf("Signup failed for %s: %v", req.Email, err)
		return serverError(c, "Could not complete the signup.")
	}

	logIn(c, res.User)
	metrics.RecordSignup(metrics.MethodPassword)
	h.captureSignedUp(res.User, res.IsFirstUser, true, processorOrganizationSignup, "")

	if Notifier != nil {
		Notifier.SendWelcome(res.User, res.Organization)
	}

	return c.Status(fiber.StatusCreated).JSON(userResponse(res.User, redirectOnboarding))
}

// GetInvite handles GET /api/signup/:id: pre-validates an invite before the
// signup form is shown.
func (h *SignupHandler) GetInvite(c fiber.Ctx) error {
	invite, org, errResp := h.validateInvite(c)
	if invite == nil {
		return errResp
	}

	return c.JSON(fiber.Map{
		"id":                invite.ID.String(),
		"target_email":      validation.MaskEmail(invite.TargetEmail),
		"first_name":        invite.FirstName,
		"organization_name": org.Name,
	})
}

// PostInviteSignup handles POST /api/signup/:id: either creates a new user
// inside the invite's organization, or, for an authenticated requester,
// just adds a membership (submitted attributes are deliberately ignored so
// this endpoint cannot be used to change name or password).
func (h *SignupHandler) PostInviteSignup(c fiber.Ctx) error {
	invite, org, errResp := h.validateInvite(c)
	if invite == nil {
		return errResp
	}

	if user := middleware.CurrentUser(c); user != nil {
		return h.claimInvite(c, user, invite, org)
	}

	var req signupRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return validationError(c, models.CodeInvalidInput, "Malformed request body.", "")
		}
	}

	for _, field := range []struct{ name, value string }{
		{"first_name", req.FirstName},
		{"password", req.Password},
	} {
		if field.value == "" {
			return validationError(c, models.CodeRequired, "This field is required.", field.name)
		}
	}

	if !validation.ValidatePassword(req.Password) {
		return validationError(c, models.CodePasswordTooShort,
			fmt.Sprintf("This password is too short. It must contain at least %d characters.", validation.MinPasswordLength),
			"password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return serverError(c, "Could not complete the signup.")
	}

	optIn := true
	if req.EmailOptIn != nil {
		optIn = *req.EmailOptIn
	}

	usersBefore, err := h.db.CountUsers(c.Context())
	if err != nil {
		return serverError(c, "Could not complete the signup.")
	}
	membersBefore, err := h.db.CountMembers(c.Context(), org.ID)
	if err != nil {
		return serverError(c, "Could not complete the signup.")
	}

	user, _, err := h.db.CreateUserAndJoin(c.Context(), org, db.NewUserParams{
		FirstName:      req.FirstName,
		Email:          invite.TargetEmail,
		HashedPassword: string(hash),
		EmailOptIn:     optIn,
	})
	if errors.Is(err, db.ErrDuplicateEmail) {
		return validationError(c, models.CodeUnique,
			"There is already an account with this email address. Log in to claim the invite.", "email")
	}
	if err != nil {
		log.Printf("Invite signup failed for %s: %v", invite.TargetEmail, err)
		return serverError(c, "Could not complete the signup.")
	}

	h.consumeInvite(c.Context(), invite)
	logIn(c, user)
	metrics.RecordSignup(metrics.MethodInvite)
	h.captureSignedUp(user, usersBefore == 0, membersBefore == 0, processorInviteSignup, "")

	if Notifier != nil {
		Notifier.NotifyMemberJoined(c.Context(), user, org)
	}

	return c.Status(fiber.StatusCreated).JSON(userResponse(user, ""))
}

// claimInvite adds an existing, authenticated user to the invite's
// organization and switches their current organization/team to it.
func (h *SignupHandler) claimInvite(c fiber.Ctx, user *models.User, invite *models.OrganizationInvite, org *models.Organization) error {
	if _, err := h.db.JoinOrganization(c.Context(), user, org); err != nil {
		log.Printf("Invite claim failed for user %d: %v", user.ID, err)
		return serverError(c, "Could not complete the signup.")
	}

	h.consumeInvite(c.Context(), invite)

	h.captureJoinedOrganization(c.Context(), user, org)

	if Notifier != nil {
		Notifier.NotifyMemberJoined(c.Context(), user, org)
	}

	return c.Status(fiber.StatusCreated).JSON(userResponse(user, ""))
}

// validateInvite runs the invite pre-checks shared by GET and POST:
// token format, existence, TTL, and recipient match for authenticated
// requesters. A nil invite means the error response has already been
// written; the caller just returns the accompanying error value.
func (h *SignupHandler) validateInvite(c fiber.Ctx) (*models.OrganizationInvite, *models.Organization, error) {
	inviteID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, nil, validationError(c, models.CodeInvalidInput, "The provided invite ID is not valid.", "")
	}

	invite, err := h.db.GetInviteByID(c.Context(), inviteID)
	if errors.Is(err, db.ErrInviteNotFound) {
		return nil, nil, validationError(c, models.CodeInvalidInput, "The provided invite ID is not valid.", "")
	}
	if err != nil {
		return nil, nil, serverError(c, "Could not validate the invite.")
	}

	if invite.IsExpired(time.Now()) {
		return nil, nil, validationError(c, models.CodeExpired,
			"This invite has expired. Please ask your admin for a new one.", "")
	}

	if user := middleware.CurrentUser(c); user != nil && !strings.EqualFold(user.Email, invite.TargetEmail) {
		detail := fmt.Sprintf("This invite is intended for another email address: %s. You tried to sign up with %s.",
			validation.MaskEmail(invite.TargetEmail), user.Email)
		return nil, nil, validationError(c, models.CodeInvalidRecipient, detail, "")
	}

	org, err := h.db.GetOrganizationByID(c.Context(), invite.OrganizationID)
	if err != nil {
		return nil, nil, serverError(c, "Could not validate the invite.")
	}

	return invite, org, nil
}

// PostSocialSignup handles POST /api/social_signup: stashes the chosen
// organization name and opt-in flag in the session while the third-party
// OAuth handoff is in flight. The callback picks them up later.
func (h *SignupHandler) PostSocialSignup(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return serverError(c, "Session not available.")
	}

	backend, _ := sess.Get(middleware.SessionBackendKey).(string)
	if backend == "" {
		return validationError(c, models.CodeInvalidInput,
			"Inactive social login session. Go to /login and log in before continuing.", "")
	}

	var req signupRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return validationError(c, models.CodeInvalidInput, "Malformed request body.", "")
		}
	}

	if req.OrganizationName == "" {
		return validationError(c, models.CodeRequired, "This field is required.", "organization_name")
	}

	optIn := true
	if req.EmailOptIn != nil {
		optIn = *req.EmailOptIn
	}

	sess.Set(middleware.SessionOrgNameKey, req.OrganizationName)
	sess.Set(middleware.SessionOptInKey, optIn)
	sess.Set(middleware.SessionSocialExpiryKey, time.Now().Add(time.Hour).Unix())

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"continue_url": "/complete/" + backend + "/",
	})
}

// newOrgAllowed reports whether a brand-new organization may be created.
// Hosted multi-tenant instances always allow it; self-hosted instances
// only allow the first organization unless multi-org is enabled.
func (h *SignupHandler) newOrgAllowed(ctx context.Context) (bool, error) {
	if h.cfg.MultiTenancy || h.cfg.MultiOrgEnabled {
		return true, nil
	}

	count, err := h.db.CountOrganizations(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// consumeInvite deletes a claimed invite. Failure is logged, not surfaced:
// the signup already happened.
func (h *SignupHandler) consumeInvite(ctx context.Context, invite *models.OrganizationInvite) {
	if err := h.db.DeleteInvite(ctx, invite.ID); err != nil {
		log.Printf("Failed to delete consumed invite %s: %v", invite.ID, err)
		return
	}
	metrics.RecordInviteRedeemed()
}

func (h *SignupHandler) captureSignedUp(user *models.User, isFirstUser, isOrgFirstUser bool, processor, socialProvider string) {
	h.analytics.Capture(user.DistinctID, analytics.EventSignedUp, map[string]any{
		"is_first_user":              isFirstUser,
		"is_organization_first_user": isOrgFirstUser,
		"signup_backend_processor":   processor,
		"signup_social_provider":     socialProvider,
		"realm":                      h.cfg.Realm(),
	})
	h.analytics.Identify(user.DistinctID, map[string]any{
		"email":      user.Email,
		"first_name": user.FirstName,
	})
}

func (h *SignupHandler) captureJoinedOrganization(ctx context.Context, user *models.User, org *models.Organization) {
	memberships, err := h.db.CountMemberships(ctx, user.ID)
	if err != nil {
		log.Printf("Failed to count memberships for user %d: %v", user.ID, err)
		return
	}
	invites, err := h.db.CountInvites(ctx, org.ID)
	if err != nil {
		log.Printf("Failed to count invites for org %s: %v", org.ID, err)
		return
	}
	projects, err := h.db.CountTeams(ctx, org.ID)
	if err != nil {
		log.Printf("Failed to count teams for org %s: %v", org.ID, err)
		return
	}
	members, err := h.db.CountMembers(ctx, org.ID)
	if err != nil {
		log.Printf("Failed to count members for org %s: %v", org.ID, err)
		return
	}

	h.analytics.Capture(user.DistinctID, analytics.EventJoinedOrganization, map[string]any{
		"organization_id":               org.ID.String(),
		"user_number_of_org_membership": memberships,
		"org_current_invite_count":      invites,
		"org_current_project_count":     projects,
		"org_current_members_count":     members,
	})
	h.analytics.Identify(user.DistinctID, map[string]any{
		"email":      user.Email,
		"first_name": user.FirstName,
	})
}

// logIn stores the user's ID in the session, logging them in.
func logIn(c fiber.Ctx, user *models.User) {
	sess := session.FromContext(c)
	if sess == nil {
		return
	}
	sess.Set(middleware.SessionUserKey, strconv.FormatInt(user.ID, 10))
}
