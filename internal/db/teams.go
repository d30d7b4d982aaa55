package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"crewbase/internal/models"
)

// CreateTeam creates a new team inside an organization.
func (d *DB) CreateTeam(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (organization_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query, team.OrganizationID, team.Name).Scan(
		&team.ID, &team.CreatedAt, &team.UpdatedAt,
	)
}

// GetTeamByID retrieves a team by ID.
func (d *DB) GetTeamByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	query := `
		SELECT id, organization_id, name, created_at, updated_at
		FROM teams WHERE id = $1
	`

	var team models.Team
	err := d.Pool.QueryRow(ctx, query, id).Scan(
		&team.ID, &team.OrganizationID, &team.Name, &team.CreatedAt, &team.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}

	return &team, nil
}

// GetDefaultTeam returns the oldest team of an organization. This is the
// team members land on when they join via an invite.
func (d *DB) GetDefaultTeam(ctx context.Context, orgID uuid.UUID) (*models.Team, error) {
	query := `
		SELECT id, organization_id, name, created_at, updated_at
		FROM teams WHERE organization_id = $1
		ORDER BY created_at ASC LIMIT 1
	`

	var team models.Team
	err := d.Pool.QueryRow(ctx, query, orgID).Scan(
		&team.ID, &team.OrganizationID, &team.Name, &team.CreatedAt, &team.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}

	return &team, nil
}

// CountTeams returns the number of teams (projects) in an organization.
func (d *DB) CountTeams(ctx context.Context, orgID uuid.UUID) (int, error) {
	var count int
	err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM teams WHERE organization_id = $1`, orgID).Scan(&count)
	return count, err
}
