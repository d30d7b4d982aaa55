package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"crewbase/internal/db"
	"crewbase/internal/models"
)

// Session keys shared between the auth middleware and the signup handlers.
const (
	// SessionUserKey holds the authenticated user's ID.
	SessionUserKey = "user_id"
	// SessionBackendKey holds the social provider name while an OAuth
	// handoff is in flight.
	SessionBackendKey = "backend"
	// SessionOrgNameKey holds the organization name chosen during social
	// signup, picked up by the OAuth callback.
	SessionOrgNameKey = "organization_name"
	// SessionOptInKey holds the email opt-in choice made during social signup.
	SessionOptInKey = "email_opt_in"
	// SessionSocialExpiryKey holds the unix time until which the stashed
	// social signup details stay valid.
	SessionSocialExpiryKey = "social_signup_expiry"
	// SessionStateKey holds the OAuth state nonce.
	SessionStateKey = "oauth_state"
)

// AuthMiddleware handles user authentication via sessions.
type AuthMiddleware struct {
	db *db.DB
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(database *db.DB) *AuthMiddleware {
	return &AuthMiddleware{db: database}
}

// RequireAuth ensures the request carries an authenticated session,
// returning a 401 envelope if not.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	user := m.loadUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(models.AuthenticationError(
			models.CodeNotAuthenticated,
			"Authentication credentials were not provided.",
		))
	}

	c.Locals("user", user)
	return c.Next()
}

// OptionalAuth loads the user if authenticated, but doesn't require authentication.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	if user := m.loadUser(c); user != nil {
		c.Locals("user", user)
	}
	return c.Next()
}

func (m *AuthMiddleware) loadUser(c fiber.Ctx) *models.User {
	sess := session.FromContext(c)
	if sess == nil {
		return nil
	}

	raw, ok := sess.Get(SessionUserKey).(string)
	if !ok || raw == "" {
		return nil
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}

	user, err := m.db.GetUserByID(c.Context(), userID)
	if err != nil {
		sess.Delete(SessionUserKey)
		return nil
	}

	return user
}

// CurrentUser returns the user loaded by RequireAuth/OptionalAuth, or nil.
func CurrentUser(c fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}
