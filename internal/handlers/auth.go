package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"crewbase/internal/analytics"
	"crewbase/internal/config"
	"crewbase/internal/db"
	"crewbase/internal/metrics"
	"crewbase/internal/middleware"
	"crewbase/internal/models"
)

const processorSocialSignup = "social_signup"

// confirmOrganizationURL is where a social login lands when no account
// exists yet and no organization name was submitted beforehand.
const confirmOrganizationURL = "/organization/confirm-creation"

// AuthHandler handles password login and the OIDC social login flow.
type AuthHandler struct {
	provider     *oidc.Provider
	oauth2Config oauth2.Config
	verifier     *oidc.IDTokenVerifier
	db           *db.DB
	cfg          *config.Config
	yamlCfg      *config.YAMLConfig
	analytics    analytics.Client
}

// NewAuthHandler creates a new auth handler. OIDC discovery runs against
// the configured issuer; a nil provider is returned when social login is
// not configured and the social routes respond 404.
func NewAuthHandler(ctx context.Context, cfg *config.Config, yamlCfg *config.YAMLConfig, database *db.DB, client analytics.Client) (*AuthHandler, error) {
	h := &AuthHandler{db: database, cfg: cfg, yamlCfg: yamlCfg, analytics: client}

	if cfg.OIDCIssuer == "" {
		return h, nil
	}

	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
	if err != nil {
		return nil, err
	}

	h.provider = provider
	h.oauth2Config = oauth2.Config{
		ClientID:     cfg.OIDCClientID,
		ClientSecret: cfg.OIDCClientSecret,
		RedirectURL:  cfg.OIDCRedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}
	h.verifier = provider.Verifier(&oidc.Config{ClientID: cfg.OIDCClientID})

	return h, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/login with email and password.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return validationError(c, models.CodeInvalidInput, "Malformed request body.", "")
	}

	for _, field := range []struct{ name, value string }{
		{"email", req.Email},
		{"password", req.Password},
	} {
		if field.value == "" {
			return validationError(c, models.CodeRequired, "This field is required.", field.name)
		}
	}

	user, err := h.db.GetUserByEmail(c.Context(), req.Email)
	if errors.Is(err, db.ErrUserNotFound) {
		return invalidCredentials(c)
	}
	if err != nil {
		return serverError(c, "Could not log in.")
	}

	// Users created through social login have no password.
	if !user.HasPassword() {
		return invalidCredentials(c)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)) != nil {
		return invalidCredentials(c)
	}

	logIn(c, user)
	return c.JSON(userResponse(user, ""))
}

func invalidCredentials(c fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(models.AuthenticationError(
		models.CodeInvalidCredentials,
		"Invalid email or password.",
	))
}

// Logout clears the user session.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess != nil {
		sess.Destroy()
	}
	return c.JSON(fiber.Map{"success": true})
}

// SocialStart handles GET /auth/social/:provider: marks the session with
// the chosen provider and redirects to the identity provider.
func (h *AuthHandler) SocialStart(c fiber.Ctx) error {
	if h.provider == nil || c.Params("provider") != h.cfg.OIDCProviderName {
		return fiber.ErrNotFound
	}

	sess := session.FromContext(c)
	if sess == nil {
		return serverError(c, "Session not available.")
	}

	state := generateState()
	sess.Set(middleware.SessionStateKey, state)
	sess.Set(middleware.SessionBackendKey, c.Params("provider"))

	return c.Redirect().To(h.oauth2Config.AuthCodeURL(state))
}

// SocialCallback handles GET /complete/:provider: exchanges the code,
// verifies the ID token and either logs the user in or finishes a social
// signup with the organization details stashed by PostSocialSignup.
func (h *AuthHandler) SocialCallback(c fiber.Ctx) error {
	if h.provider == nil || c.Params("provider") != h.cfg.OIDCProviderName {
		return fiber.ErrNotFound
	}

	sess := session.FromContext(c)
	if sess == nil {
		return serverError(c, "Session not available.")
	}

	savedState, _ := sess.Get(middleware.SessionStateKey).(string)
	if savedState == "" || savedState != c.Query("state") {
		return validationError(c, models.CodeInvalidInput, "Invalid login state.", "")
	}
	sess.Delete(middleware.SessionStateKey)

	email, name, err := h.exchangeIdentity(c.Context(), c.Query("code"))
	if err != nil {
		log.Printf("Social login exchange failed: %v", err)
		return validationError(c, models.CodeInvalidInput, "Could not verify your identity with the provider.", "")
	}
	if email == "" {
		return validationError(c, models.CodeInvalidInput, "The provider did not share an email address.", "")
	}

	// Existing account: plain login.
	user, err := h.db.GetUserByEmail(c.Context(), email)
	if err == nil {
		sess.Delete(middleware.SessionBackendKey)
		logIn(c, user)
		return c.Redirect().To("/")
	}
	if !errors.Is(err, db.ErrUserNotFound) {
		return serverError(c, "Could not log in.")
	}

	return h.finishSocialSignup(c, sess, email, name)
}

// finishSocialSignup creates an account for a verified social identity.
// A domain match in the instance config joins the user to that
// organization; otherwise a new organization is bootstrapped from the
// name submitted via /api/social_signup.
func (h *AuthHandler) finishSocialSignup(c fiber.Ctx, sess *session.Middleware, email, name string) error {
	provider := c.Params("provider")

	optIn := true
	if v, ok := sess.Get(middleware.SessionOptInKey).(bool); ok {
		optIn = v
	}

	params := db.NewUserParams{
		FirstName:  firstNameFromClaims(name, email),
		Email:      email,
		EmailOptIn: optIn,
	}

	// Domain-based auto-join takes precedence over creating a new org.
	if orgCfg := h.yamlCfg.GetOrganizationByDomain(emailDomain(email)); orgCfg != nil {
		org, err := h.db.GetOrganizationByName(c.Context(), orgCfg.Name)
		if err == nil {
			membersBefore, err := h.db.CountMembers(c.Context(), org.ID)
			if err != nil {
				return serverError(c, "Could not complete the signup.")
			}
			usersBefore, err := h.db.CountUsers(c.Context())
			if err != nil {
				return serverError(c, "Could not complete the signup.")
			}

			user, _, err := h.db.CreateUserAndJoin(c.Context(), org, params)
			if err != nil {
				log.Printf("Social auto-join failed for %s: %v", email, err)
				return serverError(c, "Could not complete the signup.")
			}

			h.clearSocialSession(sess)
			logIn(c, user)
			metrics.RecordSignup(metrics.MethodSocial)
			h.captureSocialSignedUp(user, usersBefore == 0, membersBefore == 0, provider)

			if Notifier != nil {
				Notifier.NotifyMemberJoined(c.Context(), user, org)
			}
			return c.Redirect().To("/")
		}
		if !errors.Is(err, db.ErrOrgNotFound) {
			return serverError(c, "Could not complete the signup.")
		}
		log.Printf("Configured organization %q not found for domain auto-join", orgCfg.Name)
	}

	orgName, _ := sess.Get(middleware.SessionOrgNameKey).(string)
	if expiry, ok := sess.Get(middleware.SessionSocialExpiryKey).(int64); ok && time.Now().Unix() > expiry {
		orgName = ""
	}
	if orgName == "" {
		// No organization chosen yet: send the user to pick a name, the
		// provider handoff in the session keeps the flow alive.
		return c.Redirect().To(confirmOrganizationURL)
	}

	allowed, err := h.orgCreationAllowed(c.Context())
	if err != nil {
		return serverError(c, "Could not complete the signup.")
	}
	if !allowed {
		return permissionDenied(c,
			"New organizations cannot be created in this instance. Contact your administrator if you think this is a mistake.")
	}

	res, err := h.db.Bootstrap(c.Context(), orgName, params)
	if err != nil {
		log.Printf("Social signup failed for %s: %v", email, err)
		return serverError(c, "Could not complete the signup.")
	}

	h.clearSocialSession(sess)
	logIn(c, res.User)
	metrics.RecordSignup(metrics.MethodSocial)
	h.captureSocialSignedUp(res.User, res.IsFirstUser, true, provider)

	if Notifier != nil {
		Notifier.SendWelcome(res.User, res.Organization)
	}

	return c.Redirect().To(redirectOnboarding)
}

// exchangeIdentity trades the authorization code for a verified email and
// display name, merging userinfo claims over the ID token's.
func (h *AuthHandler) exchangeIdentity(ctx context.Context, code string) (email, name string, err error) {
	oauth2Token, err := h.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return "", "", err
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return "", "", errors.New("missing id_token")
	}

	idToken, err := h.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return "", "", err
	}

	claims := make(map[string]any)
	if err := idToken.Claims(&claims); err != nil {
		return "", "", err
	}

	// Some providers only put minimal claims in the ID token.
	if userInfo, err := h.provider.UserInfo(ctx, oauth2.StaticTokenSource(oauth2Token)); err == nil {
		var extra map[string]any
		if err := userInfo.Claims(&extra); err == nil {
			for k, v := range extra {
				claims[k] = v
			}
		}
	} else {
		log.Printf("Warning: Failed to fetch userinfo: %v", err)
	}

	email, _ = claims["email"].(string)
	name, _ = claims["name"].(string)
	if given, ok := claims["given_name"].(string); ok && given != "" {
		name = given
	}
	return email, name, nil
}

func (h *AuthHandler) orgCreationAllowed(ctx context.Context) (bool, error) {
	if h.cfg.MultiTenancy || h.cfg.MultiOrgEnabled {
		return true, nil
	}
	count, err := h.db.CountOrganizations(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func (h *AuthHandler) clearSocialSession(sess *session.Middleware) {
	sess.Delete(middleware.SessionBackendKey)
	sess.Delete(middleware.SessionOrgNameKey)
	sess.Delete(middleware.SessionOptInKey)
	sess.Delete(middleware.SessionSocialExpiryKey)
}

func (h *AuthHandler) captureSocialSignedUp(user *models.User, isFirstUser, isOrgFirstUser bool, provider string) {
	h.analytics.Capture(user.DistinctID, analytics.EventSignedUp, map[string]any{
		"is_first_user":              isFirstUser,
		"is_organization_first_user": isOrgFirstUser,
		"signup_backend_processor":   processorSocialSignup,
		"signup_social_provider":     provider,
		"realm":                      h.cfg.Realm(),
	})
	h.analytics.Identify(user.DistinctID, map[string]any{
		"email":      user.Email,
		"first_name": user.FirstName,
	})
}

func firstNameFromClaims(name, email string) string {
	if name != "" {
		if first, _, found := strings.Cut(name, " "); found {
			return first
		}
		return name
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}

func emailDomain(email string) string {
	_, domain, _ := strings.Cut(email, "@")
	return strings.ToLower(domain)
}

func generateState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
