package db

import (
	"context"

	"github.com/google/uuid"

	"crewbase/internal/models"
)

// CreateDashboard creates a dashboard for a team.
func (d *DB) CreateDashboard(ctx context.Context, dash *models.Dashboard) error {
	query := `
		INSERT INTO dashboards (team_id, name, description, pinned)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return d.Pool.QueryRow(ctx, query,
		dash.TeamID, dash.Name, dash.Description, dash.Pinned,
	).Scan(&dash.ID, &dash.CreatedAt)
}

// ListDashboards returns the dashboards of a team, oldest first.
func (d *DB) ListDashboards(ctx context.Context, teamID uuid.UUID) ([]models.Dashboard, error) {
	query := `
		SELECT id, team_id, name, description, pinned, created_at
		FROM dashboards WHERE team_id = $1
		ORDER BY created_at ASC
	`

	rows, err := d.Pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dashboards []models.Dashboard
	for rows.Next() {
		var dash models.Dashboard
		if err := rows.Scan(&dash.ID, &dash.TeamID, &dash.Name, &dash.Description, &dash.Pinned, &dash.CreatedAt); err != nil {
			return nil, err
		}
		dashboards = append(dashboards, dash)
	}

	return dashboards, rows.Err()
}
