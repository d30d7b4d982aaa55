package server

import (
	"context"

	"crewbase/internal/analytics"
	"crewbase/internal/config"
	"crewbase/internal/db"
	"crewbase/internal/handlers"
	"crewbase/internal/middleware"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB, yamlCfg *config.YAMLConfig, client analytics.Client) error {
	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(database)

	// Initialize handlers
	signupHandler := handlers.NewSignupHandler(database, s.Cfg, client)
	userHandler := handlers.NewUserHandler(database)
	inviteHandler := handlers.NewInviteHandler(database)
	probeHandler := handlers.NewProbeHandler(database)

	authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, yamlCfg, database, client)
	if err != nil {
		return err
	}

	// Signup routes
	s.App.Post("/api/signup", authMiddleware.OptionalAuth, signupHandler.PostSignup)
	s.App.Get("/api/signup/:id", authMiddleware.OptionalAuth, signupHandler.GetInvite)
	s.App.Post("/api/signup/:id", authMiddleware.OptionalAuth, signupHandler.PostInviteSignup)
	s.App.Post("/api/social_signup", signupHandler.PostSocialSignup)

	// Auth routes
	s.App.Post("/api/login", authHandler.Login)
	s.App.Post("/api/logout", authHandler.Logout)
	s.App.Get("/auth/social/:provider", authHandler.SocialStart)
	s.App.Get("/complete/:provider", authHandler.SocialCallback)

	// Account routes
	s.App.Get("/api/user", authMiddleware.RequireAuth, userHandler.Me)

	// Invite management routes
	s.App.Post("/api/organizations/@current/invites", authMiddleware.RequireAuth, inviteHandler.Create)
	s.App.Get("/api/organizations/@current/invites", authMiddleware.RequireAuth, inviteHandler.List)
	s.App.Delete("/api/organizations/@current/invites/:id", authMiddleware.RequireAuth, inviteHandler.Delete)

	// Kubernetes probes
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)

	return nil
}
