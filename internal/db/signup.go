package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"crewbase/internal/models"
)

// NewUserParams are the attributes for a user row created during signup.
type NewUserParams struct {
	FirstName      string
	Email          string
	HashedPassword string // already bcrypt-hashed; empty for social-only accounts
	EmailOptIn     bool
}

// BootstrapResult is everything created by a fresh (non-invite) signup.
type BootstrapResult struct {
	User         *models.User
	Organization *models.Organization
	Team         *models.Team
	IsFirstUser  bool // no other user existed on the instance before this signup
}

// Bootstrap performs a fresh signup in a single transaction: a new
// organization, its default project team, a starter dashboard, the user,
// and an admin membership.
func (d *DB) Bootstrap(ctx context.Context, orgName string, params NewUserParams) (*BootstrapResult, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var existingUsers int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&existingUsers); err != nil {
		return nil, err
	}

	org := &models.Organization{Name: orgName}
	err = tx.QueryRow(ctx, `
		INSERT INTO organizations (name) VALUES ($1)
		RETURNING id, created_at, updated_at
	`, org.Name).Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	team := &models.Team{OrganizationID: org.ID, Name: models.DefaultTeamName}
	err = tx.QueryRow(ctx, `
		INSERT INTO teams (organization_id, name) VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, team.OrganizationID, team.Name).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO dashboards (team_id, name, description, pinned)
		VALUES ($1, 'My App Dashboard', 'Product usage metrics for your app.', TRUE)
	`, team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard: %w", err)
	}

	user, err := insertUser(ctx, tx, params, org, team)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO organization_memberships (organization_id, user_id, level)
		VALUES ($1, $2, $3)
	`, org.ID, user.ID, models.MembershipAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &BootstrapResult{
		User:         user,
		Organization: org,
		Team:         team,
		IsFirstUser:  existingUsers == 0,
	}, nil
}

// CreateUserAndJoin creates a new user directly inside an existing
// organization (invite-based signup). The user lands on the organization's
// default team with a plain member role.
func (d *DB) CreateUserAndJoin(ctx context.Context, org *models.Organization, params NewUserParams) (*models.User, *models.Team, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	team, err := defaultTeamTx(ctx, tx, org.ID)
	if err != nil {
		return nil, nil, err
	}

	user, err := insertUser(ctx, tx, params, org, team)
	if err != nil {
		return nil, nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO organization_memberships (organization_id, user_id, level)
		VALUES ($1, $2, $3)
	`, org.ID, user.ID, models.MembershipMember)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	return user, team, nil
}

// JoinOrganization adds an existing user to an organization and switches
// their current organization/team pointer to it. Adding is idempotent: a
// user who already belongs to the organization only gets re-pointed.
func (d *DB) JoinOrganization(ctx context.Context, user *models.User, org *models.Organization) (*models.Team, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	team, err := defaultTeamTx(ctx, tx, org.ID)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO organization_memberships (organization_id, user_id, level)
		VALUES ($1, $2, $3)
		ON CONFLICT (organization_id, user_id) DO NOTHING
	`, org.ID, user.ID, models.MembershipMember)
	if err != nil {
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET current_organization_id = $1, current_team_id = $2, updated_at = NOW()
		WHERE id = $3
	`, org.ID, team.ID, user.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	user.CurrentOrgID = &org.ID
	user.CurrentTeamID = &team.ID
	return team, nil
}

func insertUser(ctx context.Context, tx pgx.Tx, params NewUserParams, org *models.Organization, team *models.Team) (*models.User, error) {
	user := &models.User{
		DistinctID:     uuid.NewString(),
		FirstName:      params.FirstName,
		Email:          params.Email,
		HashedPassword: params.HashedPassword,
		EmailOptIn:     params.EmailOptIn,
		CurrentOrgID:   &org.ID,
		CurrentTeamID:  &team.ID,
	}

	err := tx.QueryRow(ctx, `
		INSERT INTO users (distinct_id, first_name, email, hashed_password, email_opt_in,
			current_organization_id, current_team_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, uuid, created_at, updated_at
	`,
		user.DistinctID,
		user.FirstName,
		user.Email,
		user.HashedPassword,
		user.EmailOptIn,
		user.CurrentOrgID,
		user.CurrentTeamID,
	).Scan(&user.ID, &user.UUID, &user.CreatedAt, &user.UpdatedAt)

	if isUniqueViolation(err) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func defaultTeamTx(ctx context.Context, tx pgx.Tx, orgID uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := tx.QueryRow(ctx, `
		SELECT id, organization_id, name, created_at, updated_at
		FROM teams WHERE organization_id = $1
		ORDER BY created_at ASC LIMIT 1
	`, orgID).Scan(&team.ID, &team.OrganizationID, &team.Name, &team.CreatedAt, &team.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}

	return &team, nil
}
